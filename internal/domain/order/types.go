package order

// Status is the order lifecycle. Pending is the only non-terminal state; it
// moves to exactly one of paid, cancelled or expired and never back.
type Status string

const (
	StatusPending   Status = "pending"
	StatusPaid      Status = "paid"
	StatusCancelled Status = "cancelled"
	StatusExpired   Status = "expired"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusPaid, StatusCancelled, StatusExpired:
		return true
	default:
		return false
	}
}

func (s Status) IsTerminal() bool {
	return s != StatusPending
}

func (s Status) CanTransitionTo(target Status) bool {
	if s != StatusPending {
		return false
	}
	switch target {
	case StatusPaid, StatusCancelled, StatusExpired:
		return true
	default:
		return false
	}
}
