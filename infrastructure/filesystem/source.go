package filesystem

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// FileSource reads input logs from the local filesystem.
type FileSource struct{}

// NewFileSource returns a source reading from the local filesystem.
func NewFileSource() *FileSource {
	return &FileSource{}
}

// ReadFile loads the whole file into memory.
func (s *FileSource) ReadFile(ctx context.Context, name string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ExpandPatterns resolves glob patterns into file names. Matches of one pattern
// are sorted; pattern order is kept. A path that exists is taken literally even
// if it contains glob metacharacters. A pattern without matches is returned as
// is, so reading it reports the missing file.
func ExpandPatterns(patterns []string) ([]string, error) {
	var files []string
	for _, p := range patterns {
		if _, err := os.Stat(p); err == nil {
			files = append(files, p)
			continue
		}
		matches, err := filepath.Glob(p)
		if err != nil {
			return nil, fmt.Errorf("invalid file pattern %q: %w", p, err)
		}
		if len(matches) == 0 {
			files = append(files, p)
			continue
		}
		sort.Strings(matches)
		files = append(files, matches...)
	}
	return files, nil
}
