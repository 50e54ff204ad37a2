package cyk

import "github.com/dekarrin/gramq/grammar"

// SymbolIndex maps every nonterminal of a NormalizedGrammar to a dense integer
// in [0, Len()). The order indexes are handed out in is not part of its
// contract.
type SymbolIndex struct {
	byName map[string]int
	names  []string
}

// NewSymbolIndex builds the SymbolIndex for the nonterminals of g, which are
// exactly the symbols that are the source of some rule.
func NewSymbolIndex(g grammar.NormalizedGrammar) SymbolIndex {
	nts := g.NonTerminals()

	si := SymbolIndex{
		byName: make(map[string]int, len(nts)),
		names:  make([]string, len(nts)),
	}
	for i, nt := range nts {
		si.byName[nt] = i
		si.names[i] = nt
	}
	return si
}

// Len returns the number of nonterminals in the index.
func (si SymbolIndex) Len() int {
	return len(si.names)
}

// Index returns the index of sym and whether sym is a nonterminal of the
// index at all.
func (si SymbolIndex) Index(sym string) (int, bool) {
	idx, ok := si.byName[sym]
	return idx, ok
}

// Symbol returns the nonterminal at idx. It panics if idx is out of range.
func (si SymbolIndex) Symbol(idx int) string {
	return si.names[idx]
}

// Symbols returns every nonterminal, ordered by index.
func (si SymbolIndex) Symbols() []string {
	names := make([]string, len(si.names))
	copy(names, si.names)
	return names
}
