package model

// QuoteError records a request that could not be quoted.
type QuoteError struct {
	BatchName string `json:"batch_name,omitempty"`
	Line      uint64 `json:"line"`
	RequestID string `json:"request_id,omitempty"`
	Kind      string `json:"kind,omitempty"`
	ErrorKind string `json:"error_kind"`
	Error     string `json:"error"`
}
