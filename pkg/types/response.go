package types


// SuccessEnvelope wraps every 2xx API payload under a data key.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// APIError is the public error body: a stable machine code plus a message
// safe to show shoppers.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorEnvelope wraps every non-2xx API payload.
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}
