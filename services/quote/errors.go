package quote

// Messages returned to the client on rejection.
const (
	MsgInvalidPayload   = "Invalid request payload."
	MsgInvalidServices  = "Invalid services payload."
	MsgInvalidFrequency = "Invalid mowing frequency."
	MsgInvalidPrices    = "One or more service prices are invalid."
	MsgInvalidTotal     = "Quote total does not match selected services."
	MsgOriginRejected   = "This domain is not authorized to submit quotes."
	MsgRateLimited      = "Too many requests. Please wait a moment and try again."
	MsgSendFailed       = "We could not send your quote right now. Please try again."
)

// ValidationError rejects a submission whose claims do not match the
// server-side recomputation. Nothing is sent when it is returned.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func invalid(msg string) error { return &ValidationError{Message: msg} }
