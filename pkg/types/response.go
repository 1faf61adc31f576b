package types

type SuccessEnvelope struct {
	Data any `json:"data"`
}

// ListMeta echoes the pagination the caller was served with, so
// storefront clients can render pagers without re-deriving defaults.
type ListMeta struct {
	Page    int `json:"page"`
	PerPage int `json:"per_page"`
}

type ListEnvelope struct {
	Data any      `json:"data"`
	Meta ListMeta `json:"meta"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}
