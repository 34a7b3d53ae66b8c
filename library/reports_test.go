package library

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// advanceClock moves the engine's notion of today forward by whole days.
func advanceClock(l *Library, days int) {
	base := l.now()
	l.now = func() time.Time { return base.AddDate(0, 0, days) }
}

func TestOverdueBoundary(t *testing.T) {
	l := newTestLibrary(t)
	require.NoError(t, l.AddBook("111", "T", "A", 1))
	_, err := l.RegisterMember("U1", "Alice", "a@example.com")
	require.NoError(t, err)
	_, err = l.Borrow("U1", "111", 14)
	require.NoError(t, err)

	// Not yet due.
	assert.Empty(t, l.OverdueBooks())

	// Due exactly today: still not overdue.
	advanceClock(l, 14)
	assert.Empty(t, l.OverdueBooks())
	loans, err := l.BorrowedBy("U1")
	require.NoError(t, err)
	require.Len(t, loans, 1)
	assert.Equal(t, StatusOnTime, loans[0].Status)

	// Due yesterday: overdue by one day.
	advanceClock(l, 1)
	overdue := l.OverdueBooks()
	require.Len(t, overdue, 1)
	assert.Equal(t, "111", overdue[0].Book.ISBN)
	assert.Equal(t, "U1", overdue[0].Member.ID)
	assert.Equal(t, 1, overdue[0].OverdueDays)

	loans, err = l.BorrowedBy("U1")
	require.NoError(t, err)
	assert.Equal(t, StatusOverdue, loans[0].Status)
}

func TestOverdueListsEveryLateHold(t *testing.T) {
	l := newTestLibrary(t)
	require.NoError(t, l.AddBook("111", "T1", "A1", 3))
	require.NoError(t, l.AddBook("222", "T2", "A2", 1))
	for _, id := range []string{"U1", "U2"} {
		_, err := l.RegisterMember(id, "Member "+id, id+"@example.com")
		require.NoError(t, err)
	}

	_, err := l.Borrow("U1", "111", 7)
	require.NoError(t, err)
	_, err = l.Borrow("U2", "111", 7)
	require.NoError(t, err)
	_, err = l.Borrow("U1", "222", 30)
	require.NoError(t, err)

	advanceClock(l, 10)
	overdue := l.OverdueBooks()
	require.Len(t, overdue, 2)
	for _, o := range overdue {
		assert.Equal(t, "111", o.Book.ISBN)
		assert.Equal(t, 3, o.OverdueDays)
	}
}

func TestBorrowedByUnknownMember(t *testing.T) {
	l := newTestLibrary(t)
	_, err := l.BorrowedBy("nobody")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMostBorrowedRanking(t *testing.T) {
	l := newTestLibrary(t)
	require.NoError(t, l.AddBook("111", "T1", "A1", 3))
	require.NoError(t, l.AddBook("222", "T2", "A2", 3))
	require.NoError(t, l.AddBook("333", "T3", "A3", 3))
	for _, id := range []string{"U1", "U2", "U3"} {
		_, err := l.RegisterMember(id, "Member "+id, id+"@example.com")
		require.NoError(t, err)
	}

	// 222 has two copies out, 333 one, 111 none.
	_, err := l.Borrow("U1", "222", 14)
	require.NoError(t, err)
	_, err = l.Borrow("U2", "222", 14)
	require.NoError(t, err)
	_, err = l.Borrow("U3", "333", 14)
	require.NoError(t, err)

	ranking, err := l.MostBorrowed(5)
	require.NoError(t, err)
	require.Len(t, ranking, 3)
	assert.Equal(t, "222", ranking[0].Book.ISBN)
	assert.Equal(t, 2, ranking[0].Count)
	assert.Equal(t, "333", ranking[1].Book.ISBN)
	assert.Equal(t, "111", ranking[2].Book.ISBN)
	assert.Equal(t, 0, ranking[2].Count)

	top1, err := l.MostBorrowed(1)
	require.NoError(t, err)
	require.Len(t, top1, 1)
	assert.Equal(t, "222", top1[0].Book.ISBN)

	_, err = l.MostBorrowed(0)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

// Ties keep catalog insertion order: the ranking sort is stable.
func TestMostBorrowedStableTies(t *testing.T) {
	l := newTestLibrary(t)
	for _, isbn := range []string{"c", "a", "b"} {
		require.NoError(t, l.AddBook(isbn, "Title "+isbn, "Author", 2))
	}

	ranking, err := l.MostBorrowed(3)
	require.NoError(t, err)
	var got []string
	for _, bc := range ranking {
		got = append(got, bc.Book.ISBN)
	}
	assert.Equal(t, []string{"c", "a", "b"}, got)
}

// The metric counts outstanding loans only: returning a book removes it from
// the ranking even though it was borrowed before.
func TestMostBorrowedCountsOutstandingOnly(t *testing.T) {
	l := newTestLibrary(t)
	require.NoError(t, l.AddBook("111", "T1", "A1", 1))
	require.NoError(t, l.AddBook("222", "T2", "A2", 1))
	_, err := l.RegisterMember("U1", "Alice", "a@example.com")
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err = l.Borrow("U1", "111", 14)
		require.NoError(t, err)
		require.NoError(t, l.Return("U1", "111"))
	}
	_, err = l.Borrow("U1", "222", 14)
	require.NoError(t, err)

	ranking, err := l.MostBorrowed(2)
	require.NoError(t, err)
	assert.Equal(t, "222", ranking[0].Book.ISBN)
	assert.Equal(t, 1, ranking[0].Count)
	assert.Equal(t, 0, ranking[1].Count)
}
