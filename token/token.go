// Package token classifies an argument vector into a stream of typed
// elements without knowing which arguments take values.
//
// A token starting with "--" is a long key, optionally followed by an
// attached value ("--name=value"). A token starting with a single dash is
// a run of short keys, one element per character, unless the consumer
// re-tags the remainder of the token as a value. "--" switches the rest of
// the stream to values. The punctuation tokens "(", ")" and "!" are
// control elements; everything else is a value.
package token

import (
	"strings"
	"unicode/utf8"

	clierr "github.com/chriso345/argot/errors"
)

// Kind identifies the variant of an Element.
type Kind int

const (
	End Kind = iota
	Short
	Long
	Value
	Control
)

func (k Kind) String() string {
	switch k {
	case Short:
		return "short"
	case Long:
		return "long"
	case Value:
		return "value"
	case Control:
		return "control"
	default:
		return "end"
	}
}

// Element is one classified unit of the argument stream.
type Element struct {
	Kind Kind
	// Char holds the key of a Short element or the character of a Control.
	Char rune
	// Name holds the key of a Long element.
	Name string
	// Value holds the text of a Value element.
	Value string
	// Raw is the complete argv token the element was taken from.
	Raw string
	// Index is the argv position of Raw.
	Index int
	// Offset is the byte offset of a Short element's character in Raw.
	Offset int
	// Attached is set on values split out of the same token as a key,
	// either from "--name=value" or from a re-tagged short run.
	Attached bool
}

// EndOfStream is returned by every iterator once its input is exhausted.
var EndOfStream = Element{Kind: End, Index: -1}

// controls is the punctuation used for boolean combination syntax.
const controls = "()!"

// IsControl reports whether tok is a control token.
func IsControl(tok string) bool {
	return len(tok) == 1 && strings.Contains(controls, tok)
}

// Key renders the element the way it was written on the command line.
func (e Element) Key() string {
	switch e.Kind {
	case Short:
		return "-" + string(e.Char)
	case Long:
		return "--" + e.Name
	case Control:
		return string(e.Char)
	case Value:
		return e.Value
	default:
		return ""
	}
}

// Iterator yields Elements from an immutable argv slice. Iterators over
// the same slice are independent; Clone forks one at its current position.
type Iterator struct {
	args       []string
	pos        int
	off        int
	pending    *Element
	valuesOnly bool
	retag      bool
}

// NewIterator returns an iterator over argv. argv[0] is the program name
// and is skipped.
func NewIterator(argv []string) *Iterator {
	return &Iterator{args: argv, pos: 1}
}

// Clone returns an independent iterator positioned where it is.
func (it *Iterator) Clone() *Iterator {
	c := *it
	if it.pending != nil {
		p := *it.pending
		c.pending = &p
	}
	return &c
}

// ValuesOnly reports whether "--" has been passed.
func (it *Iterator) ValuesOnly() bool { return it.valuesOnly }

// RetagRemainder makes the rest of the token currently being split into
// short keys come back as one Value on the next call to Next. It has no
// effect when the last Short was the final character of its token.
func (it *Iterator) RetagRemainder() {
	if it.off > 0 {
		it.retag = true
	}
}

// InShortRun reports whether characters of the current token remain to be
// split into short keys.
func (it *Iterator) InShortRun() bool { return it.off > 0 }

// TakeToken consumes what is left of the token being split and returns
// the complete raw token.
func (it *Iterator) TakeToken() string {
	if it.off == 0 {
		return ""
	}
	tok := it.args[it.pos]
	it.advance()
	return tok
}

// Rest consumes the remainder of the stream and returns it as raw strings.
// A pending attached value and an unsplit short remainder come first.
func (it *Iterator) Rest() []string {
	var rest []string
	if it.pending != nil {
		rest = append(rest, it.pending.Value)
		it.pending = nil
	}
	if it.off > 0 {
		rest = append(rest, it.args[it.pos][it.off:])
		it.advance()
	}
	if it.pos < len(it.args) {
		rest = append(rest, it.args[it.pos:]...)
	}
	it.pos = len(it.args)
	return rest
}

// Peek returns the next element without consuming it.
func (it *Iterator) Peek() (Element, error) {
	return it.Clone().Next()
}

// Next returns the next element, or EndOfStream when the input is
// exhausted. A lone "-" yields a BadTokenSyntax error.
func (it *Iterator) Next() (Element, error) {
	if it.pending != nil {
		e := *it.pending
		it.pending = nil
		return e, nil
	}

	if it.off > 0 {
		return it.nextShort(), nil
	}
	it.retag = false

	if it.pos >= len(it.args) {
		return EndOfStream, nil
	}

	tok := it.args[it.pos]
	idx := it.pos

	if it.valuesOnly {
		it.pos++
		return Element{Kind: Value, Value: tok, Raw: tok, Index: idx}, nil
	}

	switch {
	case tok == "--":
		it.valuesOnly = true
		it.pos++
		return it.Next()
	case strings.HasPrefix(tok, "--"):
		it.pos++
		name, val, hasValue := strings.Cut(tok[2:], "=")
		if name == "" {
			return Element{}, clierr.New(clierr.BadTokenSyntax, tok, "missing key before '='")
		}
		if hasValue {
			it.pending = &Element{Kind: Value, Value: unquote(val), Raw: tok, Index: idx, Attached: true}
		}
		return Element{Kind: Long, Name: name, Raw: tok, Index: idx}, nil
	case tok == "-":
		it.pos++
		return Element{}, clierr.New(clierr.BadTokenSyntax, tok, "a single dash is not an argument")
	case strings.HasPrefix(tok, "-"):
		it.off = 1
		return it.nextShort(), nil
	case IsControl(tok):
		it.pos++
		return Element{Kind: Control, Char: rune(tok[0]), Raw: tok, Index: idx}, nil
	default:
		it.pos++
		return Element{Kind: Value, Value: tok, Raw: tok, Index: idx}, nil
	}
}

func (it *Iterator) nextShort() Element {
	tok := it.args[it.pos]
	idx := it.pos

	if it.retag {
		rest := tok[it.off:]
		it.advance()
		return Element{Kind: Value, Value: rest, Raw: tok, Index: idx, Attached: true}
	}

	r, size := utf8.DecodeRuneInString(tok[it.off:])
	e := Element{Kind: Short, Char: r, Raw: tok, Index: idx, Offset: it.off}
	it.off += size
	if it.off >= len(tok) {
		it.advance()
	}
	return e
}

func (it *Iterator) advance() {
	it.pos++
	it.off = 0
	it.retag = false
}

// unquote strips one layer of matching single or double quotes.
func unquote(s string) string {
	if len(s) >= 2 {
		if (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
			return s[1 : len(s)-1]
		}
	}
	return s
}
