// Package cmdline turns one shell-like command string into an argv slice.
package cmdline

import (
	cerrors "github.com/cockroachdb/errors"
	"github.com/google/shlex"
)

// Split tokenizes line the way a POSIX shell would split words: quotes are
// stripped and backslash escapes are honoured. When programName is not
// empty it becomes argv[0]; otherwise the first word of line is used as
// the program name.
func Split(line, programName string) ([]string, error) {
	words, err := shlex.Split(line)
	if err != nil {
		return nil, cerrors.Wrapf(err, "failed to split command line %q", line)
	}
	if programName == "" {
		return words, nil
	}
	return append([]string{programName}, words...), nil
}
