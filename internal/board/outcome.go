package board

// OutcomeKind classifies the result of a board mutation.
type OutcomeKind string

// OutcomeKind values.
const (
	OutcomeAdded         OutcomeKind = "added"
	OutcomeMoved         OutcomeKind = "moved"
	OutcomeAlreadyIn     OutcomeKind = "already_in"
	OutcomeRemoved       OutcomeKind = "removed"
	OutcomeCopied        OutcomeKind = "copied"
	OutcomeNotFound      OutcomeKind = "not_found"
	OutcomeInvalidStatus OutcomeKind = "invalid_status"
	OutcomeInvalidTitle  OutcomeKind = "invalid_title"
)

// Outcome describes one mutation result. Message is the user-facing
// text; Kind lets the caller decide whether to print it.
type Outcome struct {
	Kind    OutcomeKind
	Message string
}

// OK reports whether the outcome left the board in the requested
// state, counting the already-in no-op as success.
func (o Outcome) OK() bool {
	switch o.Kind {
	case OutcomeAdded, OutcomeMoved, OutcomeAlreadyIn, OutcomeRemoved, OutcomeCopied:
		return true
	default:
		return false
	}
}
