package library

import "iter"

// bookNode links one book into the inventory sequence.
type bookNode struct {
	book *Book
	prev *bookNode
	next *bookNode
}

// Inventory is the canonical book store: a doubly linked list preserving
// insertion order. Keyed lookup is the job of the search trees; the list only
// guarantees stable ordering for listings and reports, plus O(1) unlink once
// a node is located.
type Inventory struct {
	head *bookNode
	tail *bookNode
	size int
}

// Add appends the book at the tail. Duplicate checking is the caller's
// responsibility (the engine looks the ISBN up first).
func (inv *Inventory) Add(b *Book) {
	node := &bookNode{book: b}
	if inv.head == nil {
		inv.head = node
		inv.tail = node
	} else {
		node.prev = inv.tail
		inv.tail.next = node
		inv.tail = node
	}
	inv.size++
}

// Remove unlinks the book with the given ISBN, relinking its neighbors.
func (inv *Inventory) Remove(isbn string) error {
	for cur := inv.head; cur != nil; cur = cur.next {
		if cur.book.ISBN != isbn {
			continue
		}
		if cur.prev != nil {
			cur.prev.next = cur.next
		} else {
			inv.head = cur.next
		}
		if cur.next != nil {
			cur.next.prev = cur.prev
		} else {
			inv.tail = cur.prev
		}
		inv.size--
		return nil
	}
	return ErrNotFound
}

// Find scans for the book with the given ISBN.
func (inv *Inventory) Find(isbn string) (*Book, bool) {
	for cur := inv.head; cur != nil; cur = cur.next {
		if cur.book.ISBN == isbn {
			return cur.book, true
		}
	}
	return nil, false
}

// Len reports how many books the inventory holds.
func (inv *Inventory) Len() int { return inv.size }

// All returns a restartable sequence over the books in insertion order.
func (inv *Inventory) All() iter.Seq[*Book] {
	return func(yield func(*Book) bool) {
		for cur := inv.head; cur != nil; cur = cur.next {
			if !yield(cur.book) {
				return
			}
		}
	}
}

// contains reports whether this exact record is still linked into the list.
// The search trees never retract entries, so the engine uses this to filter
// out stale index hits.
func (inv *Inventory) contains(b *Book) bool {
	for cur := inv.head; cur != nil; cur = cur.next {
		if cur.book == b {
			return true
		}
	}
	return false
}
