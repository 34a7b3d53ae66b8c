package library

import "time"

// Book represents one title in the catalog. The ISBN is immutable once the
// book is created; title, author, and quantity may change later. Borrowers
// maps member IDs to due dates, one entry per member holding a copy.
type Book struct {
	ISBN      string               `json:"isbn"`
	Title     string               `json:"title"`
	Author    string               `json:"author"`
	Quantity  int                  `json:"quantity"`
	Available int                  `json:"available"`
	Borrowers map[string]time.Time `json:"borrowers"`
}

func newBook(isbn, title, author string, quantity int) *Book {
	return &Book{
		ISBN:      isbn,
		Title:     title,
		Author:    author,
		Quantity:  quantity,
		Available: quantity,
		Borrowers: make(map[string]time.Time),
	}
}

// snapshot returns a detached copy safe to hand out to callers.
func (b *Book) snapshot() Book {
	c := *b
	c.Borrowers = make(map[string]time.Time, len(b.Borrowers))
	for id, due := range b.Borrowers {
		c.Borrowers[id] = due
	}
	return c
}
