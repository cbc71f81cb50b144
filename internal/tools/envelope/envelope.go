// Package envelope defines the JSON shapes every tool returns and the
// helpers that produce them: Serialize for results, Classify for failures.
package envelope

// ErrorEnvelope reports a failed operation.
type ErrorEnvelope struct {
	Error   string `json:"error"`
	Details string `json:"details"`
}

// Status reports the outcome of an operation Todoist answers with a bare
// success signal, such as closing or deleting a task.
type Status struct {
	Success bool   `json:"success"`
	ID      string `json:"id"`
	Action  string `json:"action"`
}

// Failure reports that Todoist refused an operation without an error,
// typically because the item does not exist or is already in the
// requested state.
type Failure struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// NewFailure returns a Failure with status "failed".
func NewFailure(message string) Failure {
	return Failure{Status: "failed", Message: message}
}

// Precondition returns the envelope for a call rejected before any
// backend request, e.g. a comment with neither task nor project.
func Precondition(operation, details string) ErrorEnvelope {
	return ErrorEnvelope{
		Error:   "Error in " + operation,
		Details: details,
	}
}
