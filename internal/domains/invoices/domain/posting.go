package domain

// PostingState tracks one invoice submission.
type PostingState string

const (
	StateReceived      PostingState = "received"
	StateApplyingStock PostingState = "applying_stock"
	StatePersisted     PostingState = "persisted"
	StateApplied       PostingState = "applied"
	StateFailed        PostingState = "failed"
	StateRolledBack    PostingState = "rolled_back"
)

// Terminal reports whether no further transition can happen.
func (s PostingState) Terminal() bool {
	switch s {
	case StateApplied, StateFailed, StateRolledBack:
		return true
	default:
		return false
	}
}
