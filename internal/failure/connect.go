package failure

import (
	"errors"

	"connectrpc.com/connect"
)

const (
	// KindHeader carries the Kind of a Connect error.
	KindHeader = "Sharebook-Failure-Kind"

	// RecipientHeader carries one unresolved recipient per value.
	RecipientHeader = "Sharebook-Recipient"
)

var kindCodes = map[Kind]connect.Code{
	NotFound:             connect.CodeNotFound,
	PreconditionFailed:   connect.CodeFailedPrecondition,
	RecipientsUnresolved: connect.CodeInvalidArgument,
	ValidationEmpty:      connect.CodeInvalidArgument,
	NotAuthorized:        connect.CodePermissionDenied,
}

// ToConnect converts err into a Connect error. Errors that already are Connect
// errors are returned unchanged; errors outside the taxonomy become
// CodeInternal.
func ToConnect(err error) *connect.Error {
	if err == nil {
		return nil
	}
	var ce *connect.Error
	if errors.As(err, &ce) {
		return ce
	}
	kind := KindOf(err)
	code, ok := kindCodes[kind]
	if !ok {
		return connect.NewError(connect.CodeInternal, err)
	}
	ce = connect.NewError(code, err)
	ce.Meta().Set(KindHeader, kind.String())
	for _, addr := range AddressesOf(err) {
		ce.Meta().Add(RecipientHeader, addr)
	}
	return ce
}

// FromConnect restores the taxonomy from an error returned by a Connect
// client. The kind header wins; otherwise the code decides.
func FromConnect(op string, err error) error {
	if err == nil {
		return nil
	}
	var ce *connect.Error
	if !errors.As(err, &ce) {
		return err
	}
	kind := parseKind(ce.Meta().Get(KindHeader))
	if kind == Unknown {
		switch ce.Code() {
		case connect.CodeNotFound:
			kind = NotFound
		case connect.CodeFailedPrecondition:
			kind = PreconditionFailed
		case connect.CodePermissionDenied:
			kind = NotAuthorized
		default:
			return err
		}
	}
	fe := New(kind, op, err)
	if kind == RecipientsUnresolved {
		fe.Addresses = ce.Meta().Values(RecipientHeader)
	}
	return fe
}
