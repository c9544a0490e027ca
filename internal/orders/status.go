package orders

type Status string

const (
	StatusPending Status = "pending"
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
)

var validNext = map[Status]map[Status]bool{
	StatusPending: {StatusSuccess: true, StatusFailed: true},
	StatusSuccess: {},
	StatusFailed:  {},
}

func CanTransition(from, to Status) bool {
	return validNext[from][to]
}

// Terminal reports whether the status admits no further transition.
func (s Status) Terminal() bool {
	return s == StatusSuccess || s == StatusFailed
}
