package library

import "strings"

// TreeKey selects which book field a SearchTree indexes.
type TreeKey int

const (
	KeyISBN TreeKey = iota
	KeyTitle
	KeyAuthor
)

type treeNode struct {
	key   string
	book  *Book
	left  *treeNode
	right *treeNode
}

// SearchTree is an unbalanced binary search tree mapping a derived key to a
// book. ISBN keys are stored verbatim; title and author keys are lower-cased
// at insertion and at query time, so all matching is case-insensitive.
//
// The tree is append-only: deleting a book from the inventory never retracts
// its entries. Equal keys descend to the right, so duplicate titles and
// authors all stay reachable by prefix search.
type SearchTree struct {
	root *treeNode
	kind TreeKey
}

// NewSearchTree creates an empty index over the chosen key.
func NewSearchTree(kind TreeKey) *SearchTree {
	return &SearchTree{kind: kind}
}

func (t *SearchTree) keyOf(b *Book) string {
	switch t.kind {
	case KeyTitle:
		return strings.ToLower(b.Title)
	case KeyAuthor:
		return strings.ToLower(b.Author)
	default:
		return b.ISBN
	}
}

func (t *SearchTree) fold(s string) string {
	if t.kind == KeyISBN {
		return s
	}
	return strings.ToLower(s)
}

// Insert adds an entry for the book. No rebalancing is performed.
func (t *SearchTree) Insert(b *Book) {
	node := &treeNode{key: t.keyOf(b), book: b}
	if t.root == nil {
		t.root = node
		return
	}
	cur := t.root
	for {
		if node.key < cur.key {
			if cur.left == nil {
				cur.left = node
				return
			}
			cur = cur.left
		} else {
			if cur.right == nil {
				cur.right = node
				return
			}
			cur = cur.right
		}
	}
}

// Exact descends by comparison and returns the first node matching the key.
func (t *SearchTree) Exact(key string) (*Book, bool) {
	key = t.fold(key)
	cur := t.root
	for cur != nil {
		switch {
		case key == cur.key:
			return cur.book, true
		case key < cur.key:
			cur = cur.left
		default:
			cur = cur.right
		}
	}
	return nil, false
}

// Prefix returns every book whose key starts with the given prefix. An empty
// prefix matches everything. Matches may sit on either side of a matching
// node because siblings order by full key, so both children are explored
// below a match; elsewhere only the side consistent with the comparison is.
// The walk keeps an explicit stack instead of recursing, so skewed trees
// cannot exhaust the call stack. Result order is traversal order.
func (t *SearchTree) Prefix(prefix string) []*Book {
	prefix = t.fold(prefix)
	var results []*Book
	stack := []*treeNode{t.root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n == nil {
			continue
		}
		switch {
		case strings.HasPrefix(n.key, prefix):
			results = append(results, n.book)
			stack = append(stack, n.left, n.right)
		case prefix < n.key:
			stack = append(stack, n.left)
		default:
			stack = append(stack, n.right)
		}
	}
	return results
}
