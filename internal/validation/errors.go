package validation

import "errors"

// Kind identifies which rule rejected a request.
type Kind string

const (
	MissingField     Kind = "MissingField"
	InvalidField     Kind = "InvalidField"
	InvalidPrice     Kind = "InvalidPrice"
	InvalidEmail     Kind = "InvalidEmail"
	InvalidImageURL  Kind = "InvalidImageURL"
	InvalidListingID Kind = "InvalidListingId"
	InvalidID        Kind = "InvalidId"
	EmptyMessage     Kind = "EmptyMessage"
	MessageTooLong   Kind = "MessageTooLong"
	SelfMessage      Kind = "SelfMessage"
	MissingFile      Kind = "MissingFile"
	NotAnImage       Kind = "NotAnImage"
	FileTooLarge     Kind = "FileTooLarge"
	InvalidFileName  Kind = "InvalidFileName"
	InvalidKey       Kind = "InvalidKey"
)

// Error is a rejected request. Title is the short error string returned to
// clients and Detail the human-readable explanation.
type Error struct {
	Kind   Kind
	Title  string
	Detail string
}

func (e *Error) Error() string {
	return e.Title + ": " + e.Detail
}

func newError(kind Kind, title, detail string) *Error {
	return &Error{Kind: kind, Title: title, Detail: detail}
}

// IsKind reports whether err is a validation error of the given kind.
func IsKind(err error, kind Kind) bool {
	var verr *Error
	return errors.As(err, &verr) && verr.Kind == kind
}
