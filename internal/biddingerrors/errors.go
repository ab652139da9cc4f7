package biddingerrors

import "errors"

// Kind groups business errors by how a caller should react to them
type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindValidation
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	default:
		return "unknown"
	}
}

// Error is a business outcome with a stable machine-readable code.
// Two errors match under errors.Is when their codes are equal.
type Error struct {
	Kind    Kind
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

func newError(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

// Lookup errors
var (
	ErrSaleNotFound = newError(KindNotFound, "sale.not.found", "sale not found")
	ErrUserNotFound = newError(KindNotFound, "user.not.found", "user not found")
)

// Bid rule violations
var (
	ErrMissingSale        = newError(KindValidation, "bid.sale.undefined", "bid has no sale")
	ErrMissingUser        = newError(KindValidation, "bid.user.undefined", "bid has no user")
	ErrSaleClosed         = newError(KindValidation, "bid.sale.over", "sale is over")
	ErrBidTooLow          = newError(KindValidation, "bid.amount.tooLow", "bid amount too low")
	ErrSellerCannotBid    = newError(KindValidation, "bid.user.isSeller", "seller cannot bid on own sale")
	ErrInsufficientCredit = newError(KindValidation, "bid.user.credit.insufficient", "insufficient credit")
	ErrInvalidBid         = newError(KindValidation, "bid.amount.invalid", "invalid bid")
)

// Concurrency outcomes, safe for the caller to retry
var (
	ErrBusy     = newError(KindConflict, "bid.sale.busy", "sale is busy, try again")
	ErrConflict = newError(KindConflict, "bid.conflict", "concurrent modification, try again")
)

// KindOf returns the kind of the first business error in err's chain,
// KindUnknown for infrastructure failures.
func KindOf(err error) Kind {
	var be *Error
	if errors.As(err, &be) {
		return be.Kind
	}
	return KindUnknown
}

// CodeOf returns the stable code of the business error in err's chain, or "".
func CodeOf(err error) string {
	var be *Error
	if errors.As(err, &be) {
		return be.Code
	}
	return ""
}
