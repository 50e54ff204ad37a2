// Package grammar holds context-free grammar rules and converts them into the
// restricted binary form that the cyk recognizer operates on.
//
// A Grammar is built up by adding raw rules one at a time. The right-hand side
// of a raw rule is kept as unsplit text; it is only broken into symbols when
// the Grammar is converted with ConvertToNormalForm, using a Splitter supplied
// by the caller. This package does no parsing of rule text of its own.
package grammar

import (
	"fmt"
	"strings"
)

// Rule is a single production of a grammar. Source is the symbol on the
// left-hand side and Target is the unsplit text of the right-hand side.
type Rule interface {
	Source() string
	Target() string
}

// Splitter breaks a raw symbol string into an ordered sequence of symbols. It
// must be deterministic and must not depend on any state of the Grammar.
type Splitter func(s string) []string

// SimpleRule is a Rule given directly as its two sides.
type SimpleRule struct {
	From string
	To   string
}

// NewRule returns a SimpleRule producing to from from.
func NewRule(from, to string) SimpleRule {
	return SimpleRule{From: from, To: to}
}

func (r SimpleRule) Source() string {
	return r.From
}

func (r SimpleRule) Target() string {
	return r.To
}

func (r SimpleRule) String() string {
	return fmt.Sprintf("%s => %s", r.From, r.To)
}

// NormalizedRule is a production whose right-hand side has already been split
// into symbols. Rules in a NormalizedGrammar always have one or two symbols in
// Target.
type NormalizedRule struct {
	Source string
	Target []string
}

// Copy returns a deep-copied duplicate of the rule.
func (r NormalizedRule) Copy() NormalizedRule {
	r2 := NormalizedRule{
		Source: r.Source,
		Target: make([]string, len(r.Target)),
	}
	copy(r2.Target, r.Target)
	return r2
}

// IsUnit returns whether the rule produces exactly one symbol.
func (r NormalizedRule) IsUnit() bool {
	return len(r.Target) == 1
}

// IsBinary returns whether the rule produces exactly two symbols.
func (r NormalizedRule) IsBinary() bool {
	return len(r.Target) == 2
}

// Equal returns whether the rule is equal to another value. It will not be
// equal if the other value cannot be cast to a NormalizedRule or
// *NormalizedRule.
func (r NormalizedRule) Equal(o any) bool {
	other, ok := o.(NormalizedRule)
	if !ok {
		otherPtr, ok := o.(*NormalizedRule)
		if !ok || otherPtr == nil {
			return false
		}
		other = *otherPtr
	}

	if r.Source != other.Source || len(r.Target) != len(other.Target) {
		return false
	}
	for i := range r.Target {
		if r.Target[i] != other.Target[i] {
			return false
		}
	}
	return true
}

func (r NormalizedRule) String() string {
	return r.Source + " -> " + strings.Join(r.Target, " ")
}
