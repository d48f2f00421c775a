package dto

// ErrorResponse is returned for every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// HealthResponse reports liveness.
type HealthResponse struct {
	Status      string `json:"status"`
	Timestamp   int64  `json:"timestamp"`
	Environment string `json:"environment"`
}

// HelloResponse is returned by the demo greeting route.
type HelloResponse struct {
	Message   string `json:"message"`
	Timestamp int64  `json:"timestamp"`
}

// EchoResponse returns the decoded request body.
type EchoResponse struct {
	Received  any   `json:"received"`
	Timestamp int64 `json:"timestamp"`
}
