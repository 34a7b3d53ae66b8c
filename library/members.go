package library

import (
	"fmt"
	"iter"

	"github.com/google/uuid"
)

// MemberDirectory owns the member records, keyed by member ID. A side list
// keeps registration order so listings and iteration are deterministic.
type MemberDirectory struct {
	members map[string]*Member
	order   []string
}

// NewMemberDirectory creates an empty directory.
func NewMemberDirectory() *MemberDirectory {
	return &MemberDirectory{members: make(map[string]*Member)}
}

// Register adds a member and returns the assigned ID. A blank ID gets a
// generated UUID; an explicit ID must not collide with an existing member.
func (d *MemberDirectory) Register(id, name, email string) (string, error) {
	if id == "" {
		id = uuid.NewString()
	}
	if _, exists := d.members[id]; exists {
		return "", fmt.Errorf("member %s: %w", id, ErrDuplicateKey)
	}
	d.members[id] = newMember(id, name, email)
	d.order = append(d.order, id)
	return id, nil
}

// Find returns the member with the given ID.
func (d *MemberDirectory) Find(id string) (*Member, bool) {
	m, ok := d.members[id]
	return m, ok
}

// Update patches the member record. Empty fields are left unchanged.
func (d *MemberDirectory) Update(id, name, email string) error {
	m, ok := d.members[id]
	if !ok {
		return fmt.Errorf("member %s: %w", id, ErrNotFound)
	}
	if name != "" {
		m.Name = name
	}
	if email != "" {
		m.Email = email
	}
	return nil
}

// Remove deletes the member. A member with open holds cannot be removed.
func (d *MemberDirectory) Remove(id string) error {
	m, ok := d.members[id]
	if !ok {
		return fmt.Errorf("member %s: %w", id, ErrNotFound)
	}
	if len(m.Borrowed) > 0 {
		return fmt.Errorf("member %s still holds %d book(s): %w", id, len(m.Borrowed), ErrConflict)
	}
	delete(d.members, id)
	for i, oid := range d.order {
		if oid == id {
			d.order = append(d.order[:i], d.order[i+1:]...)
			break
		}
	}
	return nil
}

// Len reports how many members are registered.
func (d *MemberDirectory) Len() int { return len(d.members) }

// All returns a restartable sequence over members in registration order.
func (d *MemberDirectory) All() iter.Seq[*Member] {
	return func(yield func(*Member) bool) {
		for _, id := range d.order {
			if !yield(d.members[id]) {
				return
			}
		}
	}
}
