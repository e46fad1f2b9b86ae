package application

import (
	"context"
	"fmt"
	"log/slog"

	"logparse/domain"
)

// FileResult is the per-file outcome of a run.
type FileResult struct {
	File      string
	Extracted int
	Matched   int
}

// UI is notified as files are processed and receives the per-file results.
type UI interface {
	Init(total int)
	Update(current int, currentItem string)
	RenderReport(results []FileResult)
	Close()
}

// RunConfig describes one run: the input files in processing order and the
// filter applied to every file.
type RunConfig struct {
	Files  []string
	Filter domain.FilterSpec
}

// ParseService runs extraction, filtering and emission over a list of files.
type ParseService struct {
	source domain.FileSource
	sink   domain.RecordSink
	ui     UI
	logger *slog.Logger
}

// NewParseService wires a service. A nil logger falls back to slog.Default.
func NewParseService(source domain.FileSource, sink domain.RecordSink, ui UI, logger *slog.Logger) *ParseService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ParseService{
		source: source,
		sink:   sink,
		ui:     ui,
		logger: logger,
	}
}

// Run processes the files one at a time: read, extract, filter, emit. It stops
// at the first file that cannot be read or emitted; results for the files
// already handled are returned alongside the error.
func (s *ParseService) Run(ctx context.Context, cfg RunConfig) ([]FileResult, error) {
	if len(cfg.Files) == 0 {
		s.logger.Info("no input files")
		return nil, nil
	}
	if !cfg.Filter.Empty() {
		s.logger.Debug("filter active", "filter", cfg.Filter.String())
	}

	s.ui.Init(len(cfg.Files))
	defer s.ui.Close()

	results := make([]FileResult, 0, len(cfg.Files))
	for i, name := range cfg.Files {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		result, err := s.processFile(ctx, name, cfg.Filter)
		if err != nil {
			return results, err
		}
		results = append(results, result)
		s.ui.Update(i+1, name)
	}

	s.ui.RenderReport(results)
	return results, nil
}

func (s *ParseService) processFile(ctx context.Context, name string, filter domain.FilterSpec) (FileResult, error) {
	content, err := s.source.ReadFile(ctx, name)
	if err != nil {
		return FileResult{}, fmt.Errorf("read %s: %w", name, err)
	}

	records := domain.Extract(content)
	matched := records
	if filter.Empty() {
		s.logger.Info("parsed file", "file", name, "records", len(records))
	} else {
		matched = domain.Filter(records, filter)
		s.logger.Info("filtered file", "file", name, "records", len(records), "matched", len(matched), "filter", filter.String())
	}

	if err := s.sink.Emit(ctx, name, matched); err != nil {
		return FileResult{}, fmt.Errorf("emit %s: %w", name, err)
	}

	return FileResult{
		File:      name,
		Extracted: len(records),
		Matched:   len(matched),
	}, nil
}

// MultiSink emits the same records to every sink in order and stops at the
// first failure.
type MultiSink []domain.RecordSink

func (m MultiSink) Emit(ctx context.Context, source string, records []domain.LogRecord) error {
	for _, sink := range m {
		if err := sink.Emit(ctx, source, records); err != nil {
			return err
		}
	}
	return nil
}
