package errors

// ErrorResponse is the JSON structure used when a classified error is
// rendered for machine consumption.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// ErrorBody contains the rendered error details.
type ErrorBody struct {
	Code       int    `json:"code"`
	Kind       string `json:"kind"`
	Domain     Domain `json:"domain"`
	StatusCode int    `json:"status_code"`
	Message    string `json:"message"`
	URL        string `json:"url,omitempty"`
}

// ToResponse converts a RequestError to an ErrorResponse for JSON serialization.
func (e *RequestError) ToResponse() ErrorResponse {
	return ErrorResponse{
		Error: ErrorBody{
			Code:       e.Kind.Code(),
			Kind:       e.Kind.String(),
			Domain:     e.Domain,
			StatusCode: e.StatusCode,
			Message:    e.Message,
			URL:        e.RelatedURL,
		},
	}
}
