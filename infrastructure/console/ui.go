package console

import (
	"fmt"
	"io"
	"os"

	"logparse/application"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/schollz/progressbar/v3"
)

// Option configures a ConsoleUI.
type Option func(*ConsoleUI)

// WithProgress toggles the per-file progress bar.
func WithProgress(enabled bool) Option {
	return func(c *ConsoleUI) { c.progress = enabled }
}

// WithSummary toggles the per-file summary table printed after a run.
func WithSummary(enabled bool) Option {
	return func(c *ConsoleUI) { c.summary = enabled }
}

// WithOutput sets where the summary table and the progress bar are written.
func WithOutput(out, progressOut io.Writer) Option {
	return func(c *ConsoleUI) {
		c.out = out
		c.progressOut = progressOut
	}
}

// ConsoleUI reports run progress on the terminal.
type ConsoleUI struct {
	bar         *progressbar.ProgressBar
	progress    bool
	summary     bool
	out         io.Writer
	progressOut io.Writer
}

// NewConsoleUI returns a UI with the progress bar on stderr and the summary
// table, when enabled, on stdout.
func NewConsoleUI(opts ...Option) *ConsoleUI {
	c := &ConsoleUI{
		progress:    true,
		out:         os.Stdout,
		progressOut: os.Stderr,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *ConsoleUI) Init(total int) {
	if !c.progress {
		return
	}
	c.bar = progressbar.NewOptions(
		total,
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetDescription("[PARSING FILES]"),
		progressbar.OptionSetWriter(c.progressOut),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
}

func (c *ConsoleUI) Update(current int, currentItem string) {
	if c.bar != nil {
		c.bar.Describe(fmt.Sprintf("[PARSING FILES] %s", currentItem))
		c.bar.Set(current)
	}
}

func (c *ConsoleUI) RenderReport(results []application.FileResult) {
	if !c.summary {
		return
	}
	if len(results) == 0 {
		fmt.Fprintln(c.out, "No files processed.")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(c.out)
	t.AppendHeader(table.Row{"File", "Records", "Matched"})

	var extracted, matched int
	for _, r := range results {
		t.AppendRow(table.Row{r.File, r.Extracted, r.Matched})
		extracted += r.Extracted
		matched += r.Matched
	}
	t.AppendFooter(table.Row{"Total", extracted, matched})

	t.SetStyle(table.StyleLight)
	t.Render()
}

func (c *ConsoleUI) Close() {
	if c.bar != nil {
		c.bar.Finish()
		c.bar = nil
	}
}
