package services

type Kind int

const (
	KindNotFound Kind = iota + 1
	KindUnavailable
	KindInvalidArgument
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "NOT_FOUND"
	case KindUnavailable:
		return "UNAVAILABLE"
	case KindInvalidArgument:
		return "INVALID_ARGUMENT"
	default:
		return "UNKNOWN"
	}
}

// Error is a domain failure the caller can recover from. Storage failures are
// never wrapped in an Error.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Is matches any Error of the same kind, so errors.Is(err, ErrNotFound) works
// regardless of the message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

var (
	ErrNotFound        = &Error{Kind: KindNotFound, Message: "not found"}
	ErrUnavailable     = &Error{Kind: KindUnavailable, Message: "unavailable"}
	ErrInvalidArgument = &Error{Kind: KindInvalidArgument, Message: "invalid argument"}
)

// Messages surfaced to clients.
const (
	MsgCartNotFound       = "Cart not found"
	MsgItemNotFound       = "Item not found in cart"
	MsgPetNotFound        = "Pet not found"
	MsgPetUnavailable     = "Pet is not available for purchase"
	MsgQuantityPositive   = "Quantity must be a positive integer"
	MsgPetIDRequired      = "Pet ID is required"
	MsgOwnerRequired      = "User ID is required"
	MsgPriceNegative      = "Price cannot be negative"
	MsgPetFieldsRequired  = "Please provide all required fields"
	MsgInvalidStatus      = "Status must be one of: available, sold"
	MsgInvalidPriceFilter = "minPrice cannot exceed maxPrice"
)

func NewNotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

func NewUnavailable(message string) *Error {
	return &Error{Kind: KindUnavailable, Message: message}
}

func NewInvalidArgument(message string) *Error {
	return &Error{Kind: KindInvalidArgument, Message: message}
}
