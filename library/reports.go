package library

import (
	"fmt"
	"sort"
	"time"
)

// Loan status strings used in borrowed-book listings.
const (
	StatusOnTime  = "On Time"
	StatusOverdue = "OVERDUE"
)

// Loan describes one book a member currently holds.
type Loan struct {
	Book    Book
	DueDate time.Time
	Status  string
}

// OverdueLoan describes one hold whose due date has passed.
type OverdueLoan struct {
	Book        Book
	Member      Member
	DueDate     time.Time
	OverdueDays int
}

// BorrowCount pairs a book with the number of its copies currently out.
type BorrowCount struct {
	Book  Book
	Count int
}

// BorrowedBy lists the books a member currently holds, with due dates and
// an on-time/overdue status. A book due today is still on time.
func (l *Library) BorrowedBy(memberID string) ([]Loan, error) {
	member, ok := l.members.Find(memberID)
	if !ok {
		return nil, fmt.Errorf("member %s: %w", memberID, ErrNotFound)
	}
	today := l.today()
	loans := make([]Loan, 0, len(member.Borrowed))
	for b := range l.inventory.All() {
		due, held := member.Borrowed[b.ISBN]
		if !held {
			continue
		}
		status := StatusOnTime
		if due.Before(today) {
			status = StatusOverdue
		}
		loans = append(loans, Loan{Book: b.snapshot(), DueDate: due, Status: status})
	}
	return loans, nil
}

// OverdueBooks lists every hold whose due date is strictly before today,
// with the overdue age in whole days.
func (l *Library) OverdueBooks() []OverdueLoan {
	today := l.today()
	var overdue []OverdueLoan
	for b := range l.inventory.All() {
		for _, id := range sortedBorrowerIDs(b) {
			due := b.Borrowers[id]
			if !due.Before(today) {
				continue
			}
			member, ok := l.members.Find(id)
			if !ok {
				continue
			}
			overdue = append(overdue, OverdueLoan{
				Book:        b.snapshot(),
				Member:      member.snapshot(),
				DueDate:     due,
				OverdueDays: int(today.Sub(due).Hours() / 24),
			})
		}
	}
	return overdue
}

// MostBorrowed ranks books by copies currently out, descending, with ties
// kept in catalog insertion order, and returns the top n. The metric counts
// outstanding loans only, not cumulative borrows, so a frequently re-borrowed
// book with all copies on the shelf ranks at zero.
func (l *Library) MostBorrowed(n int) ([]BorrowCount, error) {
	if n < 1 {
		return nil, fmt.Errorf("top %d: %w", n, ErrInvalidArgument)
	}
	counts := make([]BorrowCount, 0, l.inventory.Len())
	for b := range l.inventory.All() {
		counts = append(counts, BorrowCount{Book: b.snapshot(), Count: b.Quantity - b.Available})
	}
	sort.SliceStable(counts, func(i, j int) bool { return counts[i].Count > counts[j].Count })
	if n < len(counts) {
		counts = counts[:n]
	}
	return counts, nil
}

// sortedBorrowerIDs yields a book's borrower IDs in a stable order so report
// output does not depend on map iteration.
func sortedBorrowerIDs(b *Book) []string {
	ids := make([]string, 0, len(b.Borrowers))
	for id := range b.Borrowers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
