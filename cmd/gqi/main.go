/*
Gqi starts an interactive GramQ grammar shell.

It optionally reads in a grammar file, reports any rules that cannot be
normalized, and checks each input listed in the file against the grammar. The
interpreter then reads commands from stdin to add rules, change the start
symbol or splitter, and check further inputs until the "QUIT" command is input.

Usage:

	gqi [flags]

The flags are:

	-version
		Give the current version of GramQ and then exit.

	-g/-grammar [FILE]
		Load the given grammar file at startup. It may be in the plain
		"SOURCE => TARGET" line format or the GRAMQ TOML format. If not given,
		the session starts with no rules.

	-d/-direct
		Force reading directly from the console as opposed to using GNU
		readline based routines for reading command input even if launched in
		a tty with stdin and stdout.

Once a session has started, the user input will be parsed for GramQ commands.
For an explanation of the commands, type "HELP" once in a session. To exit the
interpreter, type "QUIT".
*/
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/dekarrin/gramq"
	"github.com/dekarrin/gramq/internal/version"
)

const (

	// ExitSuccess indicates a successful program execution.
	ExitSuccess = iota

	// ExitSessionError indicates an unsuccessful program execution due to a
	// problem during the session.
	ExitSessionError

	// ExitInitError indicates an unsuccessful program execution due to an issue
	// initializing the engine, such as an unreadable grammar file.
	ExitInitError
)

var (
	returnCode  int   = ExitSuccess
	flagVersion *bool = flag.Bool("version", false, "Gives the version info")
	grammarFile string
	forceDirect bool
)

func init() {
	const (
		grammarUsage     = "the grammar file to load at startup"
		forceDirectUsage = "force reading directly from stdin instead of going through GNU readline where possible"
	)
	flag.StringVar(&grammarFile, "grammar", "", grammarUsage)
	flag.StringVar(&grammarFile, "g", "", grammarUsage+" (shorthand)")
	flag.BoolVar(&forceDirect, "direct", false, forceDirectUsage)
	flag.BoolVar(&forceDirect, "d", false, forceDirectUsage+" (shorthand)")
}

func main() {
	defer func() {
		if panicErr := recover(); panicErr != nil {
			panic(fmt.Sprintf("unrecoverable panic occured: %v", panicErr))
		} else {
			os.Exit(returnCode)
		}
	}()

	flag.Parse()

	if *flagVersion {
		fmt.Printf("%s\n", version.Current)
		return
	}

	eng, initErr := gramq.New(os.Stdin, os.Stdout, grammarFile, forceDirect)
	if initErr != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", initErr.Error())
		returnCode = ExitInitError
		return
	}
	defer eng.Close()

	err := eng.RunUntilQuit()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitSessionError
		return
	}
}
