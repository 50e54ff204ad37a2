package gramfile

import (
	"fmt"
	"strings"

	"github.com/dekarrin/gramq/grammar"
)

type topLevelGrammar struct {
	Format      string     `toml:"format"`
	Type        string     `toml:"type"`
	Start       string     `toml:"start"`
	Splitter    string     `toml:"splitter"`
	Rules       []tomlRule `toml:"rules"`
	Productions []string   `toml:"productions,omitempty"`
	Inputs      []string   `toml:"inputs,omitempty"`
}

type tomlRule struct {
	Source string `toml:"source"`
	Target string `toml:"target"`
}

func (tr tomlRule) validate() error {
	if strings.TrimSpace(tr.Source) == "" {
		return fmt.Errorf("source: must not be empty")
	}
	return nil
}

func (tr tomlRule) toRule() grammar.SimpleRule {
	return grammar.NewRule(strings.TrimSpace(tr.Source), tr.Target)
}
