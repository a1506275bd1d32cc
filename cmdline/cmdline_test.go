package cmdline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		program string
		want    []string
	}{
		{"program name prepended", "-n abc free", "prog", []string{"prog", "-n", "abc", "free"}},
		{"first word is program", "prog -v", "", []string{"prog", "-v"}},
		{"double quotes", `prog --name "a b"`, "", []string{"prog", "--name", "a b"}},
		{"single quotes", `prog 'x y' z`, "", []string{"prog", "x y", "z"}},
		{"escaped inner quotes", `prog "say \"hi\""`, "", []string{"prog", `say "hi"`}},
		{"backslash escape", `prog a\ b`, "", []string{"prog", "a b"}},
		{"empty", "", "prog", []string{"prog"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Split(tt.line, tt.program)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSplit_UnclosedQuote(t *testing.T) {
	_, err := Split(`prog "open`, "")
	assert.Error(t, err)
}
