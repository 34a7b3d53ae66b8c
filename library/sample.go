package library

// SeedSampleData loads a small starter catalog and two members, useful for
// demos and for generating snapshot files.
func SeedSampleData(l *Library) error {
	books := []struct {
		isbn, title, author string
		quantity            int
	}{
		{"978-3-16-148410-0", "Introduction to Algorithms", "Thomas Cormen", 5},
		{"978-0-262-03293-3", "Clean Code", "Robert Martin", 3},
		{"978-0-13-235088-4", "Design Patterns", "Erich Gamma", 4},
		{"978-0-201-63361-0", "The Art of Computer Programming", "Donald Knuth", 2},
	}
	for _, b := range books {
		if err := l.AddBook(b.isbn, b.title, b.author, b.quantity); err != nil {
			return err
		}
	}

	members := []struct{ id, name, email string }{
		{"U001", "Alice Johnson", "alice@example.com"},
		{"U002", "Bob Smith", "bob@example.com"},
	}
	for _, m := range members {
		if _, err := l.RegisterMember(m.id, m.name, m.email); err != nil {
			return err
		}
	}
	return nil
}
