package library

import (
	"fmt"
	"time"
)

// DefaultLoanDays is the loan period used when the caller does not pick one.
const DefaultLoanDays = 14

// Library is the catalog engine: it owns the inventory, the three search
// trees, the member directory, and the action log, and it is the only
// component allowed to mutate a book and a member together. All operations
// are synchronous and all-or-nothing; none may run concurrently with another
// on the same instance.
type Library struct {
	inventory *Inventory
	byISBN    *SearchTree
	byTitle   *SearchTree
	byAuthor  *SearchTree
	members   *MemberDirectory
	log       *ActionLog

	now func() time.Time
}

// NewLibrary creates an empty engine.
func NewLibrary() *Library {
	return &Library{
		inventory: &Inventory{},
		byISBN:    NewSearchTree(KeyISBN),
		byTitle:   NewSearchTree(KeyTitle),
		byAuthor:  NewSearchTree(KeyAuthor),
		members:   NewMemberDirectory(),
		log:       &ActionLog{},
		now:       time.Now,
	}
}

// today returns the current date truncated to midnight UTC. Due dates and
// overdue arithmetic work in whole days.
func (l *Library) today() time.Time {
	y, m, d := l.now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ------------------ Catalog ------------------

// AddBook creates a book and indexes it in all three trees.
func (l *Library) AddBook(isbn, title, author string, quantity int) error {
	if quantity < 1 {
		return fmt.Errorf("quantity %d: %w", quantity, ErrInvalidArgument)
	}
	if _, exists := l.inventory.Find(isbn); exists {
		return fmt.Errorf("book %s: %w", isbn, ErrDuplicateKey)
	}
	book := newBook(isbn, title, author, quantity)
	l.inventory.Add(book)
	l.byISBN.Insert(book)
	l.byTitle.Insert(book)
	l.byAuthor.Insert(book)
	return nil
}

// DeleteBook removes a book from the inventory. Books with outstanding loans
// cannot be deleted. Index entries are not retracted; lookup filters them.
func (l *Library) DeleteBook(isbn string) error {
	book, ok := l.inventory.Find(isbn)
	if !ok {
		return fmt.Errorf("book %s: %w", isbn, ErrNotFound)
	}
	if book.Available != book.Quantity {
		return fmt.Errorf("book %s has copies still borrowed: %w", isbn, ErrConflict)
	}
	return l.inventory.Remove(isbn)
}

// UpdateBook patches title, author, and quantity. Empty strings leave the
// field unchanged; a nil quantity leaves the counts alone. Quantity cannot
// drop below the number of copies currently out, and a quantity change moves
// the available count by the same delta. Index keys are fixed at insertion,
// so a renamed book remains searchable under its original title and author.
func (l *Library) UpdateBook(isbn, title, author string, quantity *int) error {
	book, ok := l.inventory.Find(isbn)
	if !ok {
		return fmt.Errorf("book %s: %w", isbn, ErrNotFound)
	}
	if quantity != nil {
		if *quantity < 0 {
			return fmt.Errorf("quantity %d: %w", *quantity, ErrInvalidArgument)
		}
		borrowed := book.Quantity - book.Available
		if *quantity < borrowed {
			return fmt.Errorf("quantity %d below %d borrowed copies: %w", *quantity, borrowed, ErrConflict)
		}
		book.Available += *quantity - book.Quantity
		book.Quantity = *quantity
	}
	if title != "" {
		book.Title = title
	}
	if author != "" {
		book.Author = author
	}
	return nil
}

// ListBooks returns snapshots of every book in insertion order.
func (l *Library) ListBooks() []Book {
	books := make([]Book, 0, l.inventory.Len())
	for b := range l.inventory.All() {
		books = append(books, b.snapshot())
	}
	return books
}

// ------------------ Search ------------------

// SearchByISBN returns the book with exactly this ISBN. The index is
// append-only, so after a delete-and-readd the top entry for the key can be
// stale; in that case the canonical store resolves the lookup.
func (l *Library) SearchByISBN(isbn string) (Book, error) {
	if book, ok := l.byISBN.Exact(isbn); ok && l.inventory.contains(book) {
		return book.snapshot(), nil
	}
	if book, ok := l.inventory.Find(isbn); ok {
		return book.snapshot(), nil
	}
	return Book{}, fmt.Errorf("book %s: %w", isbn, ErrNotFound)
}

// SearchByTitle returns every book whose title starts with the prefix,
// case-insensitively. An empty prefix matches the whole catalog.
func (l *Library) SearchByTitle(prefix string) []Book {
	return l.filterLive(l.byTitle.Prefix(prefix))
}

// SearchByAuthor returns every book whose author starts with the prefix,
// case-insensitively. An empty prefix matches the whole catalog.
func (l *Library) SearchByAuthor(prefix string) []Book {
	return l.filterLive(l.byAuthor.Prefix(prefix))
}

// filterLive drops tree hits whose record was deleted from the inventory.
func (l *Library) filterLive(hits []*Book) []Book {
	books := make([]Book, 0, len(hits))
	for _, b := range hits {
		if l.inventory.contains(b) {
			books = append(books, b.snapshot())
		}
	}
	return books
}

// ------------------ Members ------------------

// RegisterMember adds a member and returns the assigned ID. A blank ID is
// replaced with a generated one.
func (l *Library) RegisterMember(id, name, email string) (string, error) {
	return l.members.Register(id, name, email)
}

// UpdateMember patches name and email; empty fields are left unchanged.
func (l *Library) UpdateMember(id, name, email string) error {
	return l.members.Update(id, name, email)
}

// DeleteMember removes a member with no open holds.
func (l *Library) DeleteMember(id string) error {
	return l.members.Remove(id)
}

// ListMembers returns snapshots of every member in registration order.
func (l *Library) ListMembers() []Member {
	members := make([]Member, 0, l.members.Len())
	for m := range l.members.All() {
		members = append(members, m.snapshot())
	}
	return members
}

// ------------------ Circulation ------------------

// Borrow lends one copy to the member for the given number of days and logs
// the transaction. The due date is returned.
func (l *Library) Borrow(memberID, isbn string, days int) (time.Time, error) {
	if days < 1 {
		return time.Time{}, fmt.Errorf("loan period %d days: %w", days, ErrInvalidArgument)
	}
	member, ok := l.members.Find(memberID)
	if !ok {
		return time.Time{}, fmt.Errorf("member %s: %w", memberID, ErrNotFound)
	}
	book, ok := l.inventory.Find(isbn)
	if !ok {
		return time.Time{}, fmt.Errorf("book %s: %w", isbn, ErrNotFound)
	}
	if book.Available <= 0 {
		return time.Time{}, fmt.Errorf("book %s: %w", isbn, ErrUnavailable)
	}
	if _, held := member.Borrowed[isbn]; held {
		return time.Time{}, fmt.Errorf("member %s, book %s: %w", memberID, isbn, ErrAlreadyHeld)
	}

	due := l.today().AddDate(0, 0, days)
	book.Available--
	book.Borrowers[memberID] = due
	member.Borrowed[isbn] = due
	l.log.Record(Action{Kind: ActionBorrow, MemberID: memberID, ISBN: isbn, DueDate: due})
	return due, nil
}

// Return takes the member's copy back and logs the transaction.
func (l *Library) Return(memberID, isbn string) error {
	member, ok := l.members.Find(memberID)
	if !ok {
		return fmt.Errorf("member %s: %w", memberID, ErrNotFound)
	}
	book, ok := l.inventory.Find(isbn)
	if !ok {
		return fmt.Errorf("book %s: %w", isbn, ErrNotFound)
	}
	due, held := member.Borrowed[isbn]
	if !held {
		return fmt.Errorf("member %s, book %s: %w", memberID, isbn, ErrNotHeld)
	}

	book.Available++
	delete(book.Borrowers, memberID)
	delete(member.Borrowed, isbn)
	l.log.Record(Action{Kind: ActionReturn, MemberID: memberID, ISBN: isbn, DueDate: due})
	return nil
}

// ------------------ Undo/Redo ------------------

// Undo reverses the most recent committed transaction, preserving the
// original due date, and describes what it did. On failure the history and
// redo stacks are left untouched, so the operation can be retried once the
// blocking condition clears.
func (l *Library) Undo() (string, error) {
	action, ok := l.log.PeekUndo()
	if !ok {
		return "", ErrNothingToUndo
	}
	desc, err := l.applyInverse(action, "Undo")
	if err != nil {
		return "", err
	}
	l.log.CommitUndo()
	return desc, nil
}

// Redo re-applies the most recently undone transaction with its original due
// date. Failure semantics match Undo.
func (l *Library) Redo() (string, error) {
	action, ok := l.log.PeekRedo()
	if !ok {
		return "", ErrNothingToRedo
	}
	desc, err := l.applyForward(action, "Redo")
	if err != nil {
		return "", err
	}
	l.log.CommitRedo()
	return desc, nil
}

// resolveAction looks up both entities an action refers to. Either may have
// been deleted since the action was logged.
func (l *Library) resolveAction(a Action) (*Member, *Book, error) {
	member, ok := l.members.Find(a.MemberID)
	if !ok {
		return nil, nil, fmt.Errorf("member %s no longer exists: %w", a.MemberID, ErrInconsistent)
	}
	book, ok := l.inventory.Find(a.ISBN)
	if !ok {
		return nil, nil, fmt.Errorf("book %s no longer exists: %w", a.ISBN, ErrInconsistent)
	}
	return member, book, nil
}

// applyInverse performs the semantic inverse of a logged action: a borrow is
// undone by a return-equivalent, a return by a borrow-equivalent reusing the
// stored due date.
func (l *Library) applyInverse(a Action, verb string) (string, error) {
	member, book, err := l.resolveAction(a)
	if err != nil {
		return "", err
	}
	switch a.Kind {
	case ActionBorrow:
		if err := l.takeBack(member, book); err != nil {
			return "", err
		}
		return fmt.Sprintf("%s: book %q returned by %s", verb, book.Title, member.Name), nil
	default:
		if err := l.lendAgain(member, book, a.DueDate); err != nil {
			return "", err
		}
		return fmt.Sprintf("%s: book %q borrowed again by %s", verb, book.Title, member.Name), nil
	}
}

// applyForward re-applies a logged action's original effect.
func (l *Library) applyForward(a Action, verb string) (string, error) {
	member, book, err := l.resolveAction(a)
	if err != nil {
		return "", err
	}
	switch a.Kind {
	case ActionBorrow:
		if err := l.lendAgain(member, book, a.DueDate); err != nil {
			return "", err
		}
		return fmt.Sprintf("%s: book %q borrowed by %s", verb, book.Title, member.Name), nil
	default:
		if err := l.takeBack(member, book); err != nil {
			return "", err
		}
		return fmt.Sprintf("%s: book %q returned by %s", verb, book.Title, member.Name), nil
	}
}

// lendAgain re-establishes a hold with a previously computed due date.
func (l *Library) lendAgain(member *Member, book *Book, due time.Time) error {
	if _, held := member.Borrowed[book.ISBN]; held {
		return fmt.Errorf("member %s already holds book %s: %w", member.ID, book.ISBN, ErrInconsistent)
	}
	if book.Available <= 0 {
		return fmt.Errorf("book %s: %w", book.ISBN, ErrUnavailable)
	}
	book.Available--
	book.Borrowers[member.ID] = due
	member.Borrowed[book.ISBN] = due
	return nil
}

// takeBack removes a hold and frees the copy.
func (l *Library) takeBack(member *Member, book *Book) error {
	if _, held := member.Borrowed[book.ISBN]; !held {
		return fmt.Errorf("member %s does not hold book %s: %w", member.ID, book.ISBN, ErrInconsistent)
	}
	book.Available++
	delete(book.Borrowers, member.ID)
	delete(member.Borrowed, book.ISBN)
	return nil
}
