package library

import "errors"

// Sentinel errors returned by catalog, member, and circulation operations.
// Callers match them with errors.Is; every operation wraps them with enough
// context to identify the entity involved.
var (
	// ErrNotFound is returned when a book or member does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateKey is returned when creating an entity whose identity
	// already exists.
	ErrDuplicateKey = errors.New("duplicate key")

	// ErrConflict is returned when a structural precondition blocks the
	// operation, such as deleting a book with copies still out.
	ErrConflict = errors.New("conflict")

	// ErrUnavailable is returned when no copies remain to satisfy a borrow.
	ErrUnavailable = errors.New("no copies available")

	// ErrAlreadyHeld is returned when a member already holds the book.
	ErrAlreadyHeld = errors.New("already borrowed")

	// ErrNotHeld is returned when returning a book the member does not hold.
	ErrNotHeld = errors.New("not borrowed")

	// ErrInvalidArgument is returned for non-positive quantities, loan
	// periods, or ranking sizes.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInconsistent is returned when an undo or redo target has vanished
	// or its hold state no longer matches the logged action.
	ErrInconsistent = errors.New("inconsistent state")

	// ErrNothingToUndo is returned when the history stack is empty.
	ErrNothingToUndo = errors.New("nothing to undo")

	// ErrNothingToRedo is returned when the redo stack is empty.
	ErrNothingToRedo = errors.New("nothing to redo")
)
