package domain

import (
	"context"
)

// RecordSink receives the records retained for one source file.
type RecordSink interface {
	Emit(ctx context.Context, source string, records []LogRecord) error
}

// FileSource loads the whole content of an input file.
type FileSource interface {
	ReadFile(ctx context.Context, name string) (string, error)
}
