package entity

// PaymentErrorKind classifies checkout failures so the HTTP layer can pick a
// status code and the UI message without parsing error strings.
type PaymentErrorKind int

const (
	// ErrValidation: missing identity, empty cart, re-entrant submission.
	// No gateway call was made.
	ErrValidation PaymentErrorKind = iota
	// ErrGatewayRejected: the gateway answered with a non-success body.
	// Checksum mismatches also surface this way; they are not locally
	// detectable.
	ErrGatewayRejected
	// ErrNetwork: the request could not complete.
	ErrNetwork
)

// PaymentError is the single error type crossing the checkout flow boundary.
type PaymentError struct {
	Kind    PaymentErrorKind
	Message string
	Err     error
}

func (e *PaymentError) Error() string {
	return e.Message
}

func (e *PaymentError) Unwrap() error {
	return e.Err
}

func ValidationError(message string) *PaymentError {
	return &PaymentError{Kind: ErrValidation, Message: message}
}

func GatewayRejection(message string, err error) *PaymentError {
	if message == "" {
		message = "payment initiation failed"
	}
	return &PaymentError{Kind: ErrGatewayRejected, Message: message, Err: err}
}

func NetworkError(err error) *PaymentError {
	return &PaymentError{Kind: ErrNetwork, Message: "payment service unreachable", Err: err}
}
