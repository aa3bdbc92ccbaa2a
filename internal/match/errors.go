package match

// InvalidInputError indicates the submitted statement is missing or blank.
// It is a client error and is never retried; no category is evaluated.
type InvalidInputError struct {
	Reason string
}

func (e *InvalidInputError) Error() string {
	return "invalid input: " + e.Reason
}
