package api

import (
	"time"

	"github.com/dekarrin/gramq/cyk"
	"github.com/dekarrin/gramq/grammar"
	"github.com/dekarrin/gramq/server/gqs"
)

// InfoModel is the response body of GET /info.
type InfoModel struct {
	Version struct {
		Server string `json:"server"`
		GramQ  string `json:"gramq"`
	} `json:"version"`
	Splitters []string `json:"splitters"`
}

// RuleModel is one raw rule as given by a client.
type RuleModel struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// NormalizedRuleModel is one rule after normalization.
type NormalizedRuleModel struct {
	Source string   `json:"source"`
	Target []string `json:"target"`
}

// DiagnosticModel describes a rule that was dropped during normalization.
type DiagnosticModel struct {
	Index   int      `json:"index"`
	Source  string   `json:"source"`
	Target  string   `json:"target"`
	Split   []string `json:"split"`
	Message string   `json:"message"`
}

// GrammarModel is a stored grammar. Clients send Name, Start, Splitter, and
// Rules to create one; the rest is filled in by the server.
type GrammarModel struct {
	URI         string                `json:"uri"`
	ID          string                `json:"id,omitempty"`
	Name        string                `json:"name"`
	Start       string                `json:"start"`
	Splitter    string                `json:"splitter,omitempty"`
	Rules       []RuleModel           `json:"rules"`
	Normalized  []NormalizedRuleModel `json:"normalized,omitempty"`
	Diagnostics []DiagnosticModel     `json:"diagnostics,omitempty"`
	Created     string                `json:"created,omitempty"`
	Modified    string                `json:"modified,omitempty"`
}

// RecognitionRequest is the request body of a recognition. Tokens, if given,
// are used as-is and Input is ignored.
type RecognitionRequest struct {
	Input  string   `json:"input"`
	Tokens []string `json:"tokens"`
}

// DerivationModel lists the nonterminals that derive one substring of the
// input.
type DerivationModel struct {
	Length  int      `json:"length"`
	Start   int      `json:"start"`
	Symbols []string `json:"symbols"`
}

// RecognitionModel is the response body of a recognition.
type RecognitionModel struct {
	Grammar     string            `json:"grammar"`
	Start       string            `json:"start"`
	Recognized  bool              `json:"recognized"`
	Tokens      []string          `json:"tokens"`
	Derivations []DerivationModel `json:"derivations"`
}

func grammarURI(id string) string {
	return PathPrefix + "/grammars/" + id
}

func (rm RuleModel) toRule() grammar.Rule {
	return grammar.NewRule(rm.Source, rm.Target)
}

// summaryModel gives the model of g without any normalization output, as
// used in listings.
func summaryModel(id, name, start, splitter string, g grammar.Grammar, created, modified time.Time) GrammarModel {
	m := GrammarModel{
		URI:      grammarURI(id),
		ID:       id,
		Name:     name,
		Start:    start,
		Splitter: splitter,
		Rules:    []RuleModel{},
		Created:  created.Format(time.RFC3339),
		Modified: modified.Format(time.RFC3339),
	}
	for _, r := range g.Rules() {
		m.Rules = append(m.Rules, RuleModel{Source: r.Source(), Target: r.Target()})
	}
	return m
}

func normalizedModel(n gqs.Normalized) GrammarModel {
	g := n.Grammar
	m := summaryModel(g.ID.String(), g.Name, g.Start, g.Splitter, g.Rules, g.Created, g.Modified)

	m.Normalized = []NormalizedRuleModel{}
	for _, r := range n.Normal.Rules() {
		m.Normalized = append(m.Normalized, NormalizedRuleModel{Source: r.Source, Target: r.Target})
	}
	for _, d := range n.Diagnostics {
		m.Diagnostics = append(m.Diagnostics, DiagnosticModel{
			Index:   d.Index,
			Source:  d.Source,
			Target:  d.Target,
			Split:   d.Split,
			Message: d.String(),
		})
	}

	return m
}

func recognitionModel(name string, res cyk.Result) RecognitionModel {
	m := RecognitionModel{
		Grammar:     name,
		Start:       res.Start,
		Recognized:  res.Recognized,
		Tokens:      res.Tokens,
		Derivations: []DerivationModel{},
	}
	if m.Tokens == nil {
		m.Tokens = []string{}
	}
	for _, d := range res.Derivations() {
		m.Derivations = append(m.Derivations, DerivationModel{Length: d.Length, Start: d.Start, Symbols: d.Symbols})
	}
	return m
}
