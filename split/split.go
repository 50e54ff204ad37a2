// Package split contains Splitters for breaking raw rule targets and input
// strings into grammar symbols.
package split

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/dekarrin/gramq/grammar"
	"github.com/dekarrin/gramq/internal/util"
	"golang.org/x/text/unicode/norm"
)

// ErrUnknownSplitter is returned by ByName when no Splitter is registered
// under the requested name.
var ErrUnknownSplitter = errors.New("no splitter with that name")

const (
	NameFields   = "fields"
	NameChars    = "chars"
	NameMolecule = "molecule"
)

var registry = map[string]grammar.Splitter{
	NameFields:   Fields,
	NameChars:    Chars,
	NameMolecule: Molecule,
}

// ByName returns the Splitter registered under the given name. Names are not
// case-sensitive. Every returned Splitter NFC-normalizes its input first.
func ByName(name string) (grammar.Splitter, error) {
	s, ok := registry[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("%q: %w; must be one of %s", name, ErrUnknownSplitter, strings.Join(Names(), ", "))
	}
	return Normalized(s), nil
}

// Names returns the names of every registered Splitter, sorted.
func Names() []string {
	return util.OrderedKeys(registry)
}

// Fields splits s around runs of whitespace. "B C" gives [B C].
func Fields(s string) []string {
	return strings.Fields(s)
}

// Chars gives one symbol per non-space rune of s. "abc" gives [a b c].
func Chars(s string) []string {
	var syms []string
	for _, ch := range s {
		if unicode.IsSpace(ch) {
			continue
		}
		syms = append(syms, string(ch))
	}
	return syms
}

// Molecule splits s into element symbols: every upper-case rune starts a new
// symbol and the lower-case runes after it are joined to it, so "CaRnH" gives
// [Ca Rn H]. Runes before the first upper-case one form a symbol of their own,
// which is how the lone "e" start symbol of a replacement grammar comes through
// unchanged. Whitespace separates symbols and is dropped.
func Molecule(s string) []string {
	var syms []string
	var cur strings.Builder

	flush := func() {
		if cur.Len() > 0 {
			syms = append(syms, cur.String())
			cur.Reset()
		}
	}

	for _, ch := range s {
		if unicode.IsSpace(ch) {
			flush()
			continue
		}
		if unicode.IsUpper(ch) {
			flush()
		}
		cur.WriteRune(ch)
	}
	flush()

	return syms
}

// Normalized returns a Splitter that puts its input in Unicode normalization
// form NFC before passing it to s. This keeps precomposed and decomposed
// spellings of the same text from splitting into different symbols.
func Normalized(s grammar.Splitter) grammar.Splitter {
	return func(text string) []string {
		return s(norm.NFC.String(text))
	}
}
