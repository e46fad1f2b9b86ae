package main

import (
	"strings"

	"github.com/spf13/pflag"
)

// filesFlag collects -f values together with the number of positional
// arguments parsed before each, so both forms can be merged back into
// command-line order.
type filesFlag struct {
	flags   *pflag.FlagSet
	entries []fileEntry
}

type fileEntry struct {
	name       string
	positional int
}

func newFilesFlag(flags *pflag.FlagSet) *filesFlag {
	return &filesFlag{flags: flags}
}

func (f *filesFlag) String() string {
	names := make([]string, len(f.entries))
	for i, e := range f.entries {
		names[i] = e.name
	}
	return "[" + strings.Join(names, ",") + "]"
}

func (f *filesFlag) Set(value string) error {
	// pflag appends positional arguments to the set while parsing.
	f.entries = append(f.entries, fileEntry{name: value, positional: f.flags.NArg()})
	return nil
}

func (f *filesFlag) Type() string {
	return "stringArray"
}

// merge interleaves the -f values with the positional args in the order they
// were given.
func (f *filesFlag) merge(args []string) []string {
	merged := make([]string, 0, len(f.entries)+len(args))
	next := 0
	for _, e := range f.entries {
		for next < e.positional && next < len(args) {
			merged = append(merged, args[next])
			next++
		}
		merged = append(merged, e.name)
	}
	return append(merged, args[next:]...)
}
