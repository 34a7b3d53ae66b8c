package library

import "time"

// Member represents a registered library member. Borrowed maps ISBNs to due
// dates for the books the member currently holds; a member may hold at most
// one copy of a given title.
type Member struct {
	ID       string               `json:"id"`
	Name     string               `json:"name"`
	Email    string               `json:"email"`
	Borrowed map[string]time.Time `json:"borrowed"`
}

func newMember(id, name, email string) *Member {
	return &Member{
		ID:       id,
		Name:     name,
		Email:    email,
		Borrowed: make(map[string]time.Time),
	}
}

// snapshot returns a detached copy safe to hand out to callers.
func (m *Member) snapshot() Member {
	c := *m
	c.Borrowed = make(map[string]time.Time, len(m.Borrowed))
	for isbn, due := range m.Borrowed {
		c.Borrowed[isbn] = due
	}
	return c
}
