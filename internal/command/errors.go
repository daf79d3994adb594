package command

import (
	"errors"
	"fmt"
)

// Kind classifies a command failure; the dispatcher reacts to each kind differently.
type Kind int

const (
	UnexpectedFault Kind = iota
	InvalidReference
	UnknownCommand
	MissingRequiredArgument
	PersistenceFault
	Refused // a rule or permission check said no; the user gets the notice
)

func (k Kind) String() string {
	switch k {
	case InvalidReference:
		return "invalid reference"
	case UnknownCommand:
		return "unknown command"
	case MissingRequiredArgument:
		return "missing required argument"
	case PersistenceFault:
		return "persistence fault"
	case Refused:
		return "refused"
	default:
		return "unexpected fault"
	}
}

// Error is a classified command failure. Notice is the catalog key of the message shown
// to the user, rendered with Data.
type Error struct {
	Kind   Kind
	Notice string
	Data   any
	Err    error
}

func (e *Error) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	case e.Notice != "":
		return fmt.Sprintf("%s: %s", e.Kind, e.Notice)
	}
	return e.Kind.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Invalid reports a reference the resolvers could not match.
func Invalid(notice string) error {
	return &Error{Kind: InvalidReference, Notice: notice}
}

// Refuse stops the command with a notice for the user.
func Refuse(notice string, data any) error {
	return &Error{Kind: Refused, Notice: notice, Data: data}
}

// MissingArgument makes the dispatcher show the command help.
func MissingArgument() error {
	return &Error{Kind: MissingRequiredArgument}
}

// Persistence wraps a store failure.
func Persistence(op string, err error) error {
	return &Error{Kind: PersistenceFault, Notice: "notice.persistence", Err: fmt.Errorf("%s: %w", op, err)}
}

// KindOf classifies err. Errors that are not *Error are unexpected.
func KindOf(err error) Kind {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return UnexpectedFault
}

// PanicError carries a value recovered from a panicking handler.
type PanicError struct {
	Value any
	Stack []byte
}

func (p *PanicError) Error() string { return fmt.Sprintf("panic: %v", p.Value) }
