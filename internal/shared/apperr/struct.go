package apperr

type Kind string

type AppError struct {
	Kind      Kind
	PublicMsg string            // message safe to show to the caller
	Details   string            // upstream error body, surfaced verbatim on the creation path
	Fields    map[string]string // field validation errors (optional)
	Err       error             // internal error (for logs)
}
