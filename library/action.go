package library

import "time"

// ActionKind identifies which transaction an Action records.
type ActionKind int

const (
	ActionBorrow ActionKind = iota + 1
	ActionReturn
)

func (k ActionKind) String() string {
	switch k {
	case ActionBorrow:
		return "borrow"
	case ActionReturn:
		return "return"
	default:
		return "unknown"
	}
}

// Action is an immutable record of one committed borrow or return. The due
// date is the one in force when the action was committed, so reversing a
// return restores the original loan period rather than starting a new one.
type Action struct {
	Kind     ActionKind
	MemberID string
	ISBN     string
	DueDate  time.Time
}
