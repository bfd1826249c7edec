package contextkeys

type contextKey string

const (
	OperatorIDKey contextKey = "OperatorID"
)
