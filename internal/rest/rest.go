package rest

// ErrorResponse is the JSON body of a 4xx/5xx API response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
