package library

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedDate pins the engine clock so due dates and overdue arithmetic are
// deterministic.
var fixedDate = time.Date(2025, 3, 15, 10, 30, 0, 0, time.UTC)

func newTestLibrary(t *testing.T) *Library {
	t.Helper()
	l := NewLibrary()
	l.now = func() time.Time { return fixedDate }
	return l
}

func intPtr(n int) *int { return &n }

func TestAddBookValidation(t *testing.T) {
	l := newTestLibrary(t)

	assert.ErrorIs(t, l.AddBook("111", "T", "A", 0), ErrInvalidArgument)
	assert.ErrorIs(t, l.AddBook("111", "T", "A", -2), ErrInvalidArgument)

	require.NoError(t, l.AddBook("111", "T", "A", 2))
	assert.ErrorIs(t, l.AddBook("111", "Other", "Other", 1), ErrDuplicateKey)
}

func TestDeleteBookOnlyWhenAllCopiesIn(t *testing.T) {
	l := newTestLibrary(t)
	require.NoError(t, l.AddBook("111", "T", "A", 2))
	_, err := l.RegisterMember("U1", "Alice", "a@example.com")
	require.NoError(t, err)

	_, err = l.Borrow("U1", "111", 14)
	require.NoError(t, err)

	assert.ErrorIs(t, l.DeleteBook("111"), ErrConflict)

	require.NoError(t, l.Return("U1", "111"))
	require.NoError(t, l.DeleteBook("111"))
	assert.ErrorIs(t, l.DeleteBook("111"), ErrNotFound)
}

func TestUpdateBookQuantityRules(t *testing.T) {
	l := newTestLibrary(t)
	require.NoError(t, l.AddBook("111", "T", "A", 3))
	_, err := l.RegisterMember("U1", "Alice", "a@example.com")
	require.NoError(t, err)
	_, err = l.RegisterMember("U2", "Bob", "b@example.com")
	require.NoError(t, err)

	_, err = l.Borrow("U1", "111", 14)
	require.NoError(t, err)
	_, err = l.Borrow("U2", "111", 14)
	require.NoError(t, err)

	// Two copies out: quantity cannot drop below two.
	assert.ErrorIs(t, l.UpdateBook("111", "", "", intPtr(1)), ErrConflict)
	assert.ErrorIs(t, l.UpdateBook("111", "", "", intPtr(-1)), ErrInvalidArgument)

	// Raising quantity moves available by the same delta.
	require.NoError(t, l.UpdateBook("111", "", "", intPtr(5)))
	b, err := l.SearchByISBN("111")
	require.NoError(t, err)
	assert.Equal(t, 5, b.Quantity)
	assert.Equal(t, 3, b.Available)

	// Lowering to exactly the borrowed count leaves zero available.
	require.NoError(t, l.UpdateBook("111", "", "", intPtr(2)))
	b, err = l.SearchByISBN("111")
	require.NoError(t, err)
	assert.Equal(t, 2, b.Quantity)
	assert.Equal(t, 0, b.Available)
}

// Index keys never change after insertion, so a renamed book stays findable
// under its original title only.
func TestUpdateBookKeepsIndexKeys(t *testing.T) {
	l := newTestLibrary(t)
	require.NoError(t, l.AddBook("111", "Old Title", "Old Author", 1))

	require.NoError(t, l.UpdateBook("111", "New Title", "New Author", nil))

	b, err := l.SearchByISBN("111")
	require.NoError(t, err)
	assert.Equal(t, "New Title", b.Title)

	assert.Len(t, l.SearchByTitle("old title"), 1)
	assert.Empty(t, l.SearchByTitle("new title"))
	assert.Len(t, l.SearchByAuthor("old author"), 1)
	assert.Empty(t, l.SearchByAuthor("new author"))
}

func TestSearchExcludesDeletedBooks(t *testing.T) {
	l := newTestLibrary(t)
	require.NoError(t, l.AddBook("111", "Gone Girl", "Gillian Flynn", 1))
	require.NoError(t, l.DeleteBook("111"))

	_, err := l.SearchByISBN("111")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, l.SearchByTitle("gone"))
	assert.Empty(t, l.SearchByAuthor("gillian"))

	// Re-adding the same ISBN must surface the new record, not the old one.
	require.NoError(t, l.AddBook("111", "Gone Girl", "Gillian Flynn", 4))
	b, err := l.SearchByISBN("111")
	require.NoError(t, err)
	assert.Equal(t, 4, b.Quantity)
	assert.Len(t, l.SearchByTitle("gone"), 1)
}

func TestBorrowPreconditions(t *testing.T) {
	l := newTestLibrary(t)
	require.NoError(t, l.AddBook("111", "T", "A", 1))
	_, err := l.RegisterMember("U1", "Alice", "a@example.com")
	require.NoError(t, err)

	_, err = l.Borrow("U1", "111", 0)
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = l.Borrow("nobody", "111", 14)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = l.Borrow("U1", "999", 14)
	assert.ErrorIs(t, err, ErrNotFound)

	due, err := l.Borrow("U1", "111", 14)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 29, 0, 0, 0, 0, time.UTC), due)

	_, err = l.Borrow("U1", "111", 14)
	assert.ErrorIs(t, err, ErrAlreadyHeld)
}

func TestReturnPreconditions(t *testing.T) {
	l := newTestLibrary(t)
	require.NoError(t, l.AddBook("111", "T", "A", 1))
	_, err := l.RegisterMember("U1", "Alice", "a@example.com")
	require.NoError(t, err)

	assert.ErrorIs(t, l.Return("U1", "111"), ErrNotHeld)
	assert.ErrorIs(t, l.Return("nobody", "111"), ErrNotFound)
	assert.ErrorIs(t, l.Return("U1", "999"), ErrNotFound)
}

// The full availability scenario: two copies, three borrowers, a return, an
// undo, and a redo.
func TestCirculationScenario(t *testing.T) {
	l := newTestLibrary(t)
	require.NoError(t, l.AddBook("111", "T1", "A1", 2))
	for _, id := range []string{"U1", "U2", "U3"} {
		_, err := l.RegisterMember(id, "Member "+id, id+"@example.com")
		require.NoError(t, err)
	}

	available := func() int {
		b, err := l.SearchByISBN("111")
		require.NoError(t, err)
		return b.Available
	}

	assert.Equal(t, 2, available())

	due, err := l.Borrow("U1", "111", 14)
	require.NoError(t, err)
	assert.Equal(t, fixedDate.Truncate(24*time.Hour).AddDate(0, 0, 14), due)
	assert.Equal(t, 1, available())

	_, err = l.Borrow("U2", "111", 14)
	require.NoError(t, err)
	assert.Equal(t, 0, available())

	_, err = l.Borrow("U3", "111", 14)
	assert.ErrorIs(t, err, ErrUnavailable)

	require.NoError(t, l.Return("U1", "111"))
	assert.Equal(t, 1, available())

	desc, err := l.Undo()
	require.NoError(t, err)
	assert.Contains(t, desc, "borrowed again")
	assert.Equal(t, 0, available())

	desc, err = l.Redo()
	require.NoError(t, err)
	assert.Contains(t, desc, "returned")
	assert.Equal(t, 1, available())
}

// Undo must restore the exact pre-borrow state, and redo the exact
// post-borrow state.
func TestUndoRedoRoundTrip(t *testing.T) {
	l := newTestLibrary(t)
	require.NoError(t, l.AddBook("111", "T", "A", 2))
	_, err := l.RegisterMember("U1", "Alice", "a@example.com")
	require.NoError(t, err)

	before := struct {
		Books   []Book
		Members []Member
	}{l.ListBooks(), l.ListMembers()}

	_, err = l.Borrow("U1", "111", 14)
	require.NoError(t, err)

	after := struct {
		Books   []Book
		Members []Member
	}{l.ListBooks(), l.ListMembers()}

	_, err = l.Undo()
	require.NoError(t, err)
	assert.Equal(t, before.Books, l.ListBooks())
	assert.Equal(t, before.Members, l.ListMembers())

	_, err = l.Redo()
	require.NoError(t, err)
	assert.Equal(t, after.Books, l.ListBooks())
	assert.Equal(t, after.Members, l.ListMembers())
}

func TestNewCommitClearsRedo(t *testing.T) {
	l := newTestLibrary(t)
	require.NoError(t, l.AddBook("111", "T", "A", 2))
	require.NoError(t, l.AddBook("222", "T2", "A2", 2))
	_, err := l.RegisterMember("U1", "Alice", "a@example.com")
	require.NoError(t, err)

	_, err = l.Borrow("U1", "111", 14)
	require.NoError(t, err)
	_, err = l.Undo()
	require.NoError(t, err)

	// A fresh commit discards the redo candidate.
	_, err = l.Borrow("U1", "222", 14)
	require.NoError(t, err)

	_, err = l.Redo()
	assert.ErrorIs(t, err, ErrNothingToRedo)
}

func TestUndoRedoEmptyStacks(t *testing.T) {
	l := newTestLibrary(t)
	_, err := l.Undo()
	assert.ErrorIs(t, err, ErrNothingToUndo)
	_, err = l.Redo()
	assert.ErrorIs(t, err, ErrNothingToRedo)
}

// A blocked undo leaves the stacks alone so it can be retried after the
// blocking condition clears.
func TestUndoReturnBlockedByMissingStock(t *testing.T) {
	l := newTestLibrary(t)
	require.NoError(t, l.AddBook("111", "T", "A", 1))
	_, err := l.RegisterMember("U1", "Alice", "a@example.com")
	require.NoError(t, err)

	_, err = l.Borrow("U1", "111", 14)
	require.NoError(t, err)
	require.NoError(t, l.Return("U1", "111"))

	// Shrink the stock to zero: undoing the return now has no copy to lend.
	require.NoError(t, l.UpdateBook("111", "", "", intPtr(0)))
	_, err = l.Undo()
	assert.ErrorIs(t, err, ErrUnavailable)

	// Restore the copy and the same undo succeeds.
	require.NoError(t, l.UpdateBook("111", "", "", intPtr(1)))
	desc, err := l.Undo()
	require.NoError(t, err)
	assert.Contains(t, desc, "borrowed again")

	b, err := l.SearchByISBN("111")
	require.NoError(t, err)
	assert.Equal(t, 0, b.Available)
}

func TestUndoAfterEntityDeleted(t *testing.T) {
	l := newTestLibrary(t)
	require.NoError(t, l.AddBook("111", "T", "A", 1))
	_, err := l.RegisterMember("U1", "Alice", "a@example.com")
	require.NoError(t, err)

	_, err = l.Borrow("U1", "111", 14)
	require.NoError(t, err)
	require.NoError(t, l.Return("U1", "111"))
	require.NoError(t, l.DeleteMember("U1"))

	_, err = l.Undo()
	assert.ErrorIs(t, err, ErrInconsistent)

	// The action stayed on the history stack: re-registering the member lets
	// the undo go through.
	_, err = l.RegisterMember("U1", "Alice", "a@example.com")
	require.NoError(t, err)
	_, err = l.Undo()
	require.NoError(t, err)
}

func TestRegisterDeleteMemberScenario(t *testing.T) {
	l := newTestLibrary(t)
	require.NoError(t, l.AddBook("111", "T", "A", 1))

	_, err := l.RegisterMember("U1", "Alice", "a@example.com")
	require.NoError(t, err)
	_, err = l.RegisterMember("U1", "Alice", "a@example.com")
	assert.ErrorIs(t, err, ErrDuplicateKey)

	_, err = l.Borrow("U1", "111", 14)
	require.NoError(t, err)
	assert.ErrorIs(t, l.DeleteMember("U1"), ErrConflict)

	require.NoError(t, l.Return("U1", "111"))
	require.NoError(t, l.DeleteMember("U1"))
}
