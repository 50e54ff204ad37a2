package gramfile

import (
	"fmt"
	"regexp"
	"strings"
)

var arrowRuleRegexp = regexp.MustCompile(`^(?P<source>[a-zA-Z]+) => (?P<target>[a-zA-Z ]+)$`)

// ArrowRule is a grammar rule read from a line of the form "SOURCE => TARGET".
// It implements grammar.Rule and remembers the line it was read from so that
// dropped rules can be traced back to the file.
type ArrowRule struct {
	From string
	To   string

	// Line is the 1-based line number the rule was read from, or 0 if it did
	// not come from a file.
	Line int
}

func (r ArrowRule) Source() string {
	return r.From
}

func (r ArrowRule) Target() string {
	return r.To
}

func (r ArrowRule) String() string {
	if r.Line > 0 {
		return fmt.Sprintf("%s => %s (line %d)", r.From, r.To, r.Line)
	}
	return fmt.Sprintf("%s => %s", r.From, r.To)
}

// ParseArrowRule parses a rule of the form "SOURCE => TARGET". The source must
// be made of letters only and the target of letters and spaces, with exactly
// one space on either side of the arrow.
func ParseArrowRule(s string) (ArrowRule, error) {
	m := arrowRuleRegexp.FindStringSubmatch(s)
	if m == nil {
		return ArrowRule{}, fmt.Errorf("not a rule of form 'SOURCE => TARGET': %q", s)
	}

	return ArrowRule{
		From: m[arrowRuleRegexp.SubexpIndex("source")],
		To:   m[arrowRuleRegexp.SubexpIndex("target")],
	}, nil
}

// ParseLooseArrowRule parses a rule of the form "SOURCE => TARGET" like
// ParseArrowRule, but accepts any non-space source, any target text, and any
// amount of space around the arrow. It is meant for interactive input.
func ParseLooseArrowRule(s string) (ArrowRule, error) {
	sides := strings.SplitN(s, "=>", 2)
	if len(sides) != 2 {
		return ArrowRule{}, fmt.Errorf("not a rule of form 'SOURCE => TARGET': %q", s)
	}

	source := strings.TrimSpace(sides[0])
	target := strings.TrimSpace(sides[1])

	if source == "" {
		return ArrowRule{}, fmt.Errorf("empty source not allowed in rule %q", s)
	}
	if strings.ContainsAny(source, " \t") {
		return ArrowRule{}, fmt.Errorf("source %q must be a single symbol", source)
	}

	return ArrowRule{From: source, To: target}, nil
}
