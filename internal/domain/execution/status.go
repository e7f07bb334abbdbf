package execution

// Status is the classification of a single case.
type Status string

const (
	StatusAccepted    Status = "AC"
	StatusWrongAnswer Status = "WA"
	StatusRuntimeErr  Status = "RE"
	StatusTimeout     Status = "TIMEOUT"
	StatusShow        Status = "SHOW"
)

// Statuses lists every valid status in display order.
var Statuses = []Status{
	StatusAccepted,
	StatusWrongAnswer,
	StatusRuntimeErr,
	StatusTimeout,
	StatusShow,
}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusAccepted, StatusWrongAnswer, StatusRuntimeErr, StatusTimeout, StatusShow:
		return true
	default:
		return false
	}
}

// Passing reports whether the status counts as a successful case.
func (s Status) Passing() bool {
	return s == StatusAccepted || s == StatusShow
}
