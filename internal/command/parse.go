package command

import (
	"strings"

	"github.com/dekarrin/gramq/internal/gqerrors"
)

// argRule says whether a verb takes an argument.
type argRule int

const (
	argNone argRule = iota
	argOptional
	argRequired
)

var verbArgs = map[string]argRule{
	VerbRule:        argRequired,
	VerbRules:       argNone,
	VerbNormal:      argNone,
	VerbStart:       argOptional,
	VerbSplit:       argOptional,
	VerbCheck:       argRequired,
	VerbTable:       argRequired,
	VerbUnreachable: argNone,
	VerbInputs:      argNone,
	VerbSave:        argRequired,
	VerbHelp:        argOptional,
	VerbQuit:        argNone,
}

// missingArgMessages is what to tell the operator when a required argument is
// left off.
var missingArgMessages = map[string]string{
	VerbRule:  "Give the rule to add, like: RULE S => A B",
	VerbCheck: "Give the input to check, like: CHECK HOH",
	VerbTable: "Give the input to show the table for, like: TABLE HOH",
	VerbSave:  "Give the file to save to, like: SAVE grammar.toml",
}

// VerbAliases maps shorthand verbs to their canonical forms. They are all
// uppercase.
var VerbAliases = map[string]string{
	"?":    VerbHelp,
	"H":    VerbHelp,
	"BYE":  VerbQuit,
	"EXIT": VerbQuit,
	"ADD":  VerbRule,
	"LIST": VerbRules,
	"CNF":  VerbNormal,
	"TEST": VerbCheck,
}

// Verbs returns every canonical verb, in the order HELP lists them.
func Verbs() []string {
	return []string{
		VerbRule, VerbRules, VerbNormal, VerbStart, VerbSplit, VerbCheck,
		VerbTable, VerbUnreachable, VerbInputs, VerbSave, VerbHelp, VerbQuit,
	}
}

// Canonical gives the canonical verb for s, expanding aliases. The second
// return value is false if s is not a verb.
func Canonical(s string) (string, bool) {
	v := strings.ToUpper(strings.TrimSpace(s))
	if expanded, ok := VerbAliases[v]; ok {
		v = expanded
	}
	_, ok := verbArgs[v]
	return v, ok
}

// Parse parses a command from the given text. If it cannot, a non-nil error is
// returned that carries a message for the operator.
//
// If an empty string or a string composed only of whitespace is passed in, nil
// error is returned and a zero value for Command will be returned.
func Parse(toParse string) (Command, error) {
	var cmd Command

	toParse = strings.TrimSpace(toParse)
	if toParse == "" {
		return cmd, nil
	}

	typedVerb := toParse
	var arg string
	if idx := strings.IndexAny(toParse, " \t"); idx >= 0 {
		typedVerb = toParse[:idx]
		arg = strings.TrimSpace(toParse[idx:])
	}

	verb, ok := Canonical(typedVerb)
	if !ok {
		return cmd, gqerrors.Interpreterf("I don't know what you mean by %q", typedVerb)
	}

	switch verbArgs[verb] {
	case argNone:
		if arg != "" {
			errMsg := "%s does not take anything after it; type %s by itself"
			return cmd, gqerrors.Interpreterf(errMsg, typedVerb, typedVerb)
		}
	case argRequired:
		if arg == "" {
			return cmd, gqerrors.Interpreter(missingArgMessages[verb], "")
		}
	}

	if verb == VerbHelp && arg != "" {
		helpVerb, ok := Canonical(arg)
		if !ok {
			return cmd, gqerrors.Interpreterf("There is no %q command to get help on", arg)
		}
		arg = helpVerb
	}

	cmd.Verb = verb
	cmd.Arg = arg
	return cmd, nil
}
