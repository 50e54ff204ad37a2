// Package command defines the commands accepted by a gramq shell and handles
// parsing of them from input sources.
package command

// Verbs that a Command may have. Every Command returned by Parse has one of
// these as its Verb.
const (
	VerbRule        = "RULE"
	VerbRules       = "RULES"
	VerbNormal      = "NORMAL"
	VerbStart       = "START"
	VerbSplit       = "SPLIT"
	VerbCheck       = "CHECK"
	VerbTable       = "TABLE"
	VerbUnreachable = "UNREACHABLE"
	VerbInputs      = "INPUTS"
	VerbSave        = "SAVE"
	VerbHelp        = "HELP"
	VerbQuit        = "QUIT"
)

// Command is a valid command received from a shell input source.
type Command struct {

	// Verb is the canonical name of the command being invoked, such as "RULE",
	// "CHECK", or "QUIT". Shorthand forms such as "ADD" for "RULE" are
	// expanded before it is set.
	Verb string

	// Arg is everything after the verb with surrounding space removed. Unlike
	// the verb, its case is kept exactly as typed, because grammar symbols are
	// case-sensitive.
	Arg string
}
