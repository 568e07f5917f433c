package api

// HTTPError carries a client-safe message alongside the private error that
// gets logged server-side.
type HTTPError struct {
	StatusCode int
	Message    string
	ErrorLog   error
}

func (e *HTTPError) Error() string {
	return e.Message
}

type ApiError struct {
	Error string `json:"message"`
}
