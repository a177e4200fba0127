package http

// MessageRequest is the body of POST /v1/messages. Completion carries the
// raw LLM output for the user's question; invoking the model itself is the
// caller's concern, not this service's.
type MessageRequest struct {
	Completion     string `json:"completion" validate:"required"`
	Query          string `json:"query"`
	ConversationID string `json:"conversation_id"`
}

// MessageResponse is the body returned by POST /v1/messages.
type MessageResponse struct {
	Success        bool              `json:"success"`
	Response       string            `json:"response"`
	ConversationID string            `json:"conversation_id"`
	QueryErrors    map[string]string `json:"query_errors,omitempty"`
}

// ValidateRequest is the body of POST /v1/queries/validate.
type ValidateRequest struct {
	SQL     string `json:"sql" validate:"required"`
	Doctype string `json:"doctype"`
}

// ErrorResponse is the envelope for request-level failures.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}
