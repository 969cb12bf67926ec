package middleware

// Context keys used to store request metadata.
const (
	ContextKeyRequestID    = "request_id"
	ContextKeyTokenSubject = "token_subject"
	ContextKeyTokenScope   = "token_scope"
)
