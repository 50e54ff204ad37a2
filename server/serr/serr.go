// Package serr has the errors returned by the service layer of the gramq
// server. Its Error type carries a message plus any number of causes, and
// errors.Is reports true for each of them, so callers can check for the
// sentinels below no matter how deeply the failure was wrapped.
package serr

import "errors"

var (
	ErrNotFound      = errors.New("no such grammar")
	ErrAlreadyExists = errors.New("a grammar with the same name already exists")
	ErrDB            = errors.New("database error")
	ErrBadArgument   = errors.New("invalid argument")
	ErrBodyUnmarshal = errors.New("request body could not be decoded")
)

// Error is a message with zero or more causes. Create one with New or WrapDB.
//
// Its text is the message followed by the text of the first cause. The
// remaining causes are only there to be matched with errors.Is.
type Error struct {
	msg    string
	causes []error
}

func (e Error) Error() string {
	switch {
	case len(e.causes) == 0:
		return e.msg
	case e.msg == "":
		return e.causes[0].Error()
	default:
		return e.msg + ": " + e.causes[0].Error()
	}
}

// Unwrap gives every cause of e. Go 1.20 and later use it for errors.Is and
// errors.As; on 1.19 Is does the same job.
func (e Error) Unwrap() []error {
	return e.causes
}

// Is reports whether any cause of e matches target.
func (e Error) Is(target error) bool {
	for _, c := range e.causes {
		if errors.Is(c, target) {
			return true
		}
	}
	return false
}

// WrapDB gives an Error caused by both err and ErrDB. msg may be empty.
func WrapDB(msg string, err error) Error {
	return New(msg, err, ErrDB)
}

// New gives an Error with the given message and causes. Nil causes are left
// out.
func New(msg string, causes ...error) Error {
	e := Error{msg: msg}
	for _, c := range causes {
		if c != nil {
			e.causes = append(e.causes, c)
		}
	}
	return e
}
