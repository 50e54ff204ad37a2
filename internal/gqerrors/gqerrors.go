// Package gqerrors has errors for reporting problems with interactive input
// back to the operator of a gramq session.
package gqerrors

import "fmt"

// interpreterError is an error caused by attempting to interpret operator
// input. Either the input could not be understood or it asks for something
// that cannot be done with the current grammar.
//
// It carries a human-readable message to show to the operator as well as a
// more technical "error message" style message.
type interpreterError struct {
	msg   string
	human string
	wrap  error
}

func (e *interpreterError) Error() string {
	return e.msg
}

// UserMessage shows the message that should be displayed in the session to
// describe the error.
func (e *interpreterError) UserMessage() string {
	return e.human
}

// Unwrap gives the error that the interpreterError wraps, if it wraps one.
func (e *interpreterError) Unwrap() error {
	return e.wrap
}

// Interpreter returns a new interpreter error that has both the message to
// show the operator and the technical description of the error.
func Interpreter(user, technical string) error {
	if technical == "" {
		technical = fmt.Sprintf("got InterpreterError(%q)", user)
	}
	return &interpreterError{
		msg:   technical,
		human: user,
	}
}

// Interpreterf returns a new interpreter error with a message to show to the
// operator and an automatically generated Error() description.
func Interpreterf(userFormat string, a ...interface{}) error {
	return Interpreter(fmt.Sprintf(userFormat, a...), "")
}

// WrapInterpreterf returns a new interpreter error that has a message to show
// the operator and wraps the given error. Its Error() gives the message
// followed by the wrapped error.
func WrapInterpreterf(e error, userFormat string, a ...interface{}) error {
	user := fmt.Sprintf(userFormat, a...)
	return &interpreterError{
		msg:   fmt.Sprintf("%s: %v", user, e),
		human: user,
		wrap:  e,
	}
}

// UserMessage gets the message to display to the console for the given error.
// If it is an interpreter error, its operator message is returned. Otherwise,
// err.Error() is returned.
func UserMessage(err error) string {
	if intErr, ok := err.(*interpreterError); ok {
		return intErr.UserMessage()
	}
	return err.Error()
}
