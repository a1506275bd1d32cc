package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	clierr "github.com/chriso345/argot/errors"
)

func kinds(elems []Element) []Kind {
	out := make([]Kind, 0, len(elems))
	for _, e := range elems {
		out = append(out, e.Kind)
	}
	return out
}

func TestClassify_ShortRun(t *testing.T) {
	elems, err := Classify([]string{"prog", "-lva"})
	require.NoError(t, err)
	require.Len(t, elems, 3)
	assert.Equal(t, []Kind{Short, Short, Short}, kinds(elems))
	assert.Equal(t, 'l', elems[0].Char)
	assert.Equal(t, 'v', elems[1].Char)
	assert.Equal(t, 'a', elems[2].Char)
	for _, e := range elems {
		assert.Equal(t, "-lva", e.Raw)
		assert.Equal(t, 1, e.Index)
	}
}

func TestClassify_LongWithValue(t *testing.T) {
	tests := []struct {
		name  string
		tok   string
		key   string
		value string
	}{
		{"plain", "--name=abc", "name", "abc"},
		{"double quoted", `--name="a b"`, "name", "a b"},
		{"single quoted", `--name='x'`, "name", "x"},
		{"one layer only", `--name="'x'"`, "name", "'x'"},
		{"empty", "--name=", "name", ""},
		{"equals in value", "--opt=a=b", "opt", "a=b"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			elems, err := Classify([]string{"prog", tt.tok})
			require.NoError(t, err)
			require.Len(t, elems, 2)
			assert.Equal(t, Long, elems[0].Kind)
			assert.Equal(t, tt.key, elems[0].Name)
			assert.Equal(t, Value, elems[1].Kind)
			assert.Equal(t, tt.value, elems[1].Value)
			assert.True(t, elems[1].Attached)
		})
	}
}

func TestClassify_NoValueForPlainKeys(t *testing.T) {
	elems, err := Classify([]string{"prog", "--verbose", "-q", "--all"})
	require.NoError(t, err)
	assert.Equal(t, []Kind{Long, Short, Long}, kinds(elems))
}

func TestClassify_DoubleDash(t *testing.T) {
	elems, err := Classify([]string{"prog", "-a", "--", "-b", "--c", "--", "(", "x"})
	require.NoError(t, err)
	assert.Equal(t, []Kind{Short, Value, Value, Value, Value, Value}, kinds(elems))
	assert.Equal(t, "-b", elems[1].Value)
	assert.Equal(t, "--c", elems[2].Value)
	assert.Equal(t, "--", elems[3].Value)
	assert.Equal(t, "(", elems[4].Value)
}

func TestClassify_Controls(t *testing.T) {
	elems, err := Classify([]string{"prog", "!", "(", "-a", ")", "!x"})
	require.NoError(t, err)
	assert.Equal(t, []Kind{Control, Control, Short, Control, Value}, kinds(elems))
	assert.Equal(t, '!', elems[0].Char)
	assert.Equal(t, '(', elems[1].Char)
}

func TestNext_LoneDash(t *testing.T) {
	it := NewIterator([]string{"prog", "-a", "-", "b"})
	e, err := it.Next()
	require.NoError(t, err)
	assert.Equal(t, Short, e.Kind)

	_, err = it.Next()
	require.Error(t, err)
	assert.True(t, clierr.Is(err, clierr.BadTokenSyntax))

	e, err = it.Next()
	require.NoError(t, err)
	assert.Equal(t, "b", e.Value)
}

func TestRetag_Remainder(t *testing.T) {
	it := NewIterator([]string{"prog", "-ffilename", "-g"})
	e, err := it.Next()
	require.NoError(t, err)
	assert.Equal(t, Short, e.Kind)
	assert.Equal(t, 'f', e.Char)

	it.RetagRemainder()
	it.RetagRemainder()
	e, err = it.Next()
	require.NoError(t, err)
	assert.Equal(t, Value, e.Kind)
	assert.Equal(t, "filename", e.Value)
	assert.True(t, e.Attached)

	e, err = it.Next()
	require.NoError(t, err)
	assert.Equal(t, Short, e.Kind)
	assert.Equal(t, 'g', e.Char)

	e, err = it.Next()
	require.NoError(t, err)
	assert.Equal(t, End, e.Kind)
}

func TestRetag_LastCharHasNoEffect(t *testing.T) {
	it := NewIterator([]string{"prog", "-f", "-gh"})
	_, _ = it.Next()
	it.RetagRemainder()

	e, err := it.Next()
	require.NoError(t, err)
	assert.Equal(t, Short, e.Kind)
	assert.Equal(t, 'g', e.Char)
	e, _ = it.Next()
	assert.Equal(t, 'h', e.Char)
}

func TestRetag_DoesNotLeakToClones(t *testing.T) {
	args := []string{"prog", "-abc"}
	it := NewIterator(args)
	_, _ = it.Next()
	sibling := it.Clone()
	it.RetagRemainder()

	e, _ := it.Next()
	assert.Equal(t, Value, e.Kind)
	assert.Equal(t, "bc", e.Value)

	e, _ = sibling.Next()
	assert.Equal(t, Short, e.Kind)
	assert.Equal(t, 'b', e.Char)
}

func TestEndOfStream_Shared(t *testing.T) {
	args := []string{"prog", "x"}
	a, b := NewIterator(args), NewIterator(args)
	for _, it := range []*Iterator{a, b} {
		_, _ = it.Next()
	}
	ea, _ := a.Next()
	eb, _ := b.Next()
	assert.Equal(t, EndOfStream, ea)
	assert.Equal(t, ea, eb)

	again, _ := a.Next()
	assert.Equal(t, EndOfStream, again)
}

func TestIterators_Parallel(t *testing.T) {
	args := []string{"prog", "-abc", "--long=v", "--", "-x", "free"}
	want, err := Classify(args)
	require.NoError(t, err)

	var g errgroup.Group
	results := make([][]Element, 8)
	for i := range results {
		g.Go(func() error {
			got, err := Classify(args)
			results[i] = got
			return err
		})
	}
	require.NoError(t, g.Wait())
	for _, got := range results {
		assert.Equal(t, want, got)
	}
}

func TestPeek_DoesNotConsume(t *testing.T) {
	it := NewIterator([]string{"prog", "-n", "x"})
	p, err := it.Peek()
	require.NoError(t, err)
	n, _ := it.Next()
	assert.Equal(t, p, n)
}

func TestTakeTokenAndRest(t *testing.T) {
	it := NewIterator([]string{"prog", "-5", "--run=a", "b", "-c"})
	e, _ := it.Next()
	assert.Equal(t, '5', e.Char)
	assert.False(t, it.InShortRun())
	assert.Equal(t, "", it.TakeToken())

	it = NewIterator([]string{"prog", "-12", "rest"})
	_, _ = it.Next()
	assert.True(t, it.InShortRun())
	assert.Equal(t, "-12", it.TakeToken())
	e, _ = it.Next()
	assert.Equal(t, "rest", e.Value)

	it = NewIterator([]string{"prog", "--run=a", "b", "-c"})
	_, _ = it.Next()
	assert.Equal(t, []string{"a", "b", "-c"}, it.Rest())
	e, _ = it.Next()
	assert.Equal(t, End, e.Kind)
}

func TestElements_StopsAtError(t *testing.T) {
	var seen []Kind
	var gotErr error
	for e, err := range Elements([]string{"prog", "a", "-", "b"}) {
		if err != nil {
			gotErr = err
			break
		}
		seen = append(seen, e.Kind)
	}
	assert.Equal(t, []Kind{Value}, seen)
	assert.True(t, clierr.Is(gotErr, clierr.BadTokenSyntax))
}

func TestElement_Key(t *testing.T) {
	assert.Equal(t, "-v", Element{Kind: Short, Char: 'v'}.Key())
	assert.Equal(t, "--name", Element{Kind: Long, Name: "name"}.Key())
	assert.Equal(t, "x", Element{Kind: Value, Value: "x"}.Key())
	assert.Equal(t, "!", Element{Kind: Control, Char: '!'}.Key())
}
