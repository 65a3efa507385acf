package transit

// ErrorKind classifies failures of the stationboard API.
type ErrorKind int

const (
	KindInvalidURL ErrorKind = iota + 1
	KindInvalidResponse
	KindNoJourneyFound
	KindTimeout
	KindNetwork
)

func (k ErrorKind) String() string {
	switch k {
	case KindInvalidURL:
		return "InvalidUrl"
	case KindInvalidResponse:
		return "InvalidResponse"
	case KindNoJourneyFound:
		return "NoJourneyFound"
	case KindTimeout:
		return "Timeout"
	case KindNetwork:
		return "NetworkError"
	default:
		return "Unknown"
	}
}

const timeoutMessage = "The OpenTransport API (transport.opendata.ch) is not responding (Timeout).\n\n" +
	"Possible reasons:\n" +
	"• Server overloaded\n" +
	"• Server maintenance\n" +
	"• Temporary API disruption\n\n" +
	"Please try again in a few minutes."

const noConnectionDetail = "No internet connection. Please check your connection and try again."

// APIError is the only error type GetDepartures returns. Its message is
// meant to be shown to users as is.
type APIError struct {
	Kind   ErrorKind
	Detail string
	Err    error
}

func (e *APIError) Error() string {
	switch e.Kind {
	case KindInvalidURL:
		return "Invalid URL - Please contact support"
	case KindInvalidResponse:
		return "The OpenTransport API is currently unavailable. Please try again later."
	case KindNoJourneyFound:
		return "No connections found"
	case KindTimeout:
		return timeoutMessage
	default:
		return "Connection problem: " + e.Detail
	}
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// Is matches on kind so errors.Is(err, transit.ErrTimeout) works for any
// timeout regardless of detail or cause.
func (e *APIError) Is(target error) bool {
	t, ok := target.(*APIError)
	return ok && t.Kind == e.Kind
}

var (
	ErrInvalidURL      = &APIError{Kind: KindInvalidURL}
	ErrInvalidResponse = &APIError{Kind: KindInvalidResponse}
	ErrNoJourneyFound  = &APIError{Kind: KindNoJourneyFound}
	ErrTimeout         = &APIError{Kind: KindTimeout}
	ErrNetwork         = &APIError{Kind: KindNetwork}
)

func newAPIError(kind ErrorKind, detail string, err error) *APIError {
	return &APIError{
		Kind:   kind,
		Detail: detail,
		Err:    err,
	}
}
