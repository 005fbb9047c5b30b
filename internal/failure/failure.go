// Package failure defines the error taxonomy shared by the sharing and booking
// flows and its mapping onto Connect error codes.
package failure

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies an error by how callers must react to it.
type Kind int

const (
	// Unknown is any error outside the taxonomy.
	Unknown Kind = iota

	// NotFound means the record vanished between reference and fetch.
	NotFound

	// PreconditionFailed means a feature or quota gate refused the request.
	PreconditionFailed

	// RecipientsUnresolved means one or more addresses could not be
	// resolved. The offending addresses are carried in Error.Addresses.
	RecipientsUnresolved

	// ValidationEmpty means a request was rejected locally because it had no
	// recipients.
	ValidationEmpty

	// NotAuthorized means the caller may not read or change the record.
	NotAuthorized
)

var kindNames = map[Kind]string{
	Unknown:              "unknown",
	NotFound:             "not_found",
	PreconditionFailed:   "precondition_failed",
	RecipientsUnresolved: "recipients_unresolved",
	ValidationEmpty:      "validation_empty",
	NotAuthorized:        "not_authorized",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

func parseKind(s string) Kind {
	for k, name := range kindNames {
		if name == s {
			return k
		}
	}
	return Unknown
}

// Error is an error with a Kind.
type Error struct {
	Kind Kind

	// Op names the operation that failed, e.g. "send group invitation".
	Op string

	// Addresses are the unresolved recipients of a RecipientsUnresolved error.
	Addresses []string

	Err error
}

// Sentinels for errors.Is. They match any *Error of the same kind.
var (
	ErrNotFound             = &Error{Kind: NotFound}
	ErrPreconditionFailed   = &Error{Kind: PreconditionFailed}
	ErrRecipientsUnresolved = &Error{Kind: RecipientsUnresolved}
	ErrValidationEmpty      = &Error{Kind: ValidationEmpty}
	ErrNotAuthorized        = &Error{Kind: NotAuthorized}
)

// New returns an error of the given kind.
func New(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// Recipients returns a RecipientsUnresolved error for the given addresses.
func Recipients(op string, addresses []string) *Error {
	return &Error{
		Kind:      RecipientsUnresolved,
		Op:        op,
		Addresses: append([]string(nil), addresses...),
	}
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	b.WriteString(strings.ReplaceAll(e.Kind.String(), "_", " "))
	if len(e.Addresses) > 0 {
		b.WriteString(" (")
		b.WriteString(strings.Join(e.Addresses, ", "))
		b.WriteString(")")
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the kind sentinels.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Op == "" && t.Err == nil && len(t.Addresses) == 0 && t.Kind == e.Kind
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return Unknown
}

// AddressesOf returns the unresolved addresses carried by err, if any.
func AddressesOf(err error) []string {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Addresses
	}
	return nil
}
