package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"syscall"

	"library-catalog/library"

	"golang.org/x/term"
)

const dateLayout = "2006-01-02"

// shell drives the catalog engine from stdin. All engine calls are
// serialized through this loop; the engine itself is single-writer.
type shell struct {
	lib      *library.Library
	sc       *bufio.Scanner
	loanDays int
	width    int
}

func runShell(lib *library.Library, loanDays int) {
	width := 120
	if term.IsTerminal(int(syscall.Stdin)) {
		if w, _, err := term.GetSize(int(syscall.Stdin)); err == nil && w > 40 {
			width = w
		}
	}

	s := &shell{
		lib:      lib,
		sc:       bufio.NewScanner(os.Stdin),
		loanDays: loanDays,
		width:    width,
	}

	fmt.Println("Welcome to the Library Catalog!")
	fmt.Println("Available commands:")
	fmt.Println("  Books: add book, delete book, update book, list books")
	fmt.Println("  Search: search isbn, search title, search author")
	fmt.Println("  Members: register member, update member, delete member, list members")
	fmt.Println("  Circulation: borrow, return, borrowed")
	fmt.Println("  History: undo, redo")
	fmt.Println("  Reports: overdue, top")
	fmt.Println("  System: export, exit")

	for {
		fmt.Print("\n> ")
		if !s.sc.Scan() {
			break
		}
		cmd := strings.TrimSpace(s.sc.Text())

		switch cmd {
		case "add book":
			s.handleAddBook()
		case "delete book":
			s.handleDeleteBook()
		case "update book":
			s.handleUpdateBook()
		case "list books":
			s.handleListBooks()
		case "search isbn":
			s.handleSearchISBN()
		case "search title":
			s.handleSearchPrefix("Title prefix: ", s.lib.SearchByTitle)
		case "search author":
			s.handleSearchPrefix("Author prefix: ", s.lib.SearchByAuthor)
		case "register member":
			s.handleRegisterMember()
		case "update member":
			s.handleUpdateMember()
		case "delete member":
			s.handleDeleteMember()
		case "list members":
			s.handleListMembers()
		case "borrow":
			s.handleBorrow()
		case "return":
			s.handleReturn()
		case "borrowed":
			s.handleBorrowed()
		case "undo":
			s.handleUndo()
		case "redo":
			s.handleRedo()
		case "overdue":
			s.handleOverdue()
		case "top":
			s.handleTopBorrowed()
		case "export":
			s.handleExport()
		case "exit":
			fmt.Println("Goodbye!")
			return
		case "":
		default:
			fmt.Println("Unknown command. Type one of the available commands listed above.")
		}
	}
}

// prompt reads one trimmed line after printing label. ok is false on EOF.
func (s *shell) prompt(label string) (string, bool) {
	fmt.Print(label)
	if !s.sc.Scan() {
		return "", false
	}
	return strings.TrimSpace(s.sc.Text()), true
}

// ------------------ Books ------------------

func (s *shell) handleAddBook() {
	isbn, ok := s.prompt("ISBN: ")
	if !ok {
		return
	}
	title, ok := s.prompt("Title: ")
	if !ok {
		return
	}
	author, ok := s.prompt("Author: ")
	if !ok {
		return
	}
	qtyStr, ok := s.prompt("Quantity: ")
	if !ok {
		return
	}
	qty, err := strconv.Atoi(qtyStr)
	if err != nil {
		fmt.Printf("Invalid quantity: %s\n", qtyStr)
		return
	}

	if err := s.lib.AddBook(isbn, title, author, qty); err != nil {
		fmt.Printf("Error adding book: %v\n", err)
		return
	}
	fmt.Printf("Added book %s (%q by %s, %d copies).\n", isbn, title, author, qty)
}

func (s *shell) handleDeleteBook() {
	isbn, ok := s.prompt("ISBN: ")
	if !ok {
		return
	}
	if err := s.lib.DeleteBook(isbn); err != nil {
		fmt.Printf("Error deleting book: %v\n", err)
		return
	}
	fmt.Printf("Deleted book %s.\n", isbn)
}

func (s *shell) handleUpdateBook() {
	isbn, ok := s.prompt("ISBN: ")
	if !ok {
		return
	}
	title, ok := s.prompt("New title (blank to keep): ")
	if !ok {
		return
	}
	author, ok := s.prompt("New author (blank to keep): ")
	if !ok {
		return
	}
	qtyStr, ok := s.prompt("New quantity (blank to keep): ")
	if !ok {
		return
	}

	var qty *int
	if qtyStr != "" {
		n, err := strconv.Atoi(qtyStr)
		if err != nil {
			fmt.Printf("Invalid quantity: %s\n", qtyStr)
			return
		}
		qty = &n
	}

	if err := s.lib.UpdateBook(isbn, title, author, qty); err != nil {
		fmt.Printf("Error updating book: %v\n", err)
		return
	}
	fmt.Printf("Updated book %s.\n", isbn)
}

func (s *shell) handleListBooks() {
	s.printBooks(s.lib.ListBooks())
}

func (s *shell) printBooks(books []library.Book) {
	if len(books) == 0 {
		fmt.Println("No books found.")
		return
	}
	fmt.Printf("%-20s %-35s %-25s %s\n", "ISBN", "Title", "Author", "Available")
	fmt.Println(strings.Repeat("-", min(s.width, 95)))
	for _, b := range books {
		fmt.Printf("%-20s %-35s %-25s %d/%d\n",
			b.ISBN,
			truncateString(b.Title, 35),
			truncateString(b.Author, 25),
			b.Available, b.Quantity)
	}
}

// ------------------ Search ------------------

func (s *shell) handleSearchISBN() {
	isbn, ok := s.prompt("ISBN: ")
	if !ok {
		return
	}
	book, err := s.lib.SearchByISBN(isbn)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	s.printBooks([]library.Book{book})
}

func (s *shell) handleSearchPrefix(label string, search func(string) []library.Book) {
	prefix, ok := s.prompt(label)
	if !ok {
		return
	}
	books := search(prefix)
	if len(books) == 0 {
		fmt.Printf("No books matching %q.\n", prefix)
		return
	}
	fmt.Printf("Found %d book(s):\n", len(books))
	s.printBooks(books)
}

// ------------------ Members ------------------

func (s *shell) handleRegisterMember() {
	id, ok := s.prompt("Member ID (blank to generate): ")
	if !ok {
		return
	}
	name, ok := s.prompt("Name: ")
	if !ok {
		return
	}
	email, ok := s.prompt("Email: ")
	if !ok {
		return
	}
	assigned, err := s.lib.RegisterMember(id, name, email)
	if err != nil {
		fmt.Printf("Error registering member: %v\n", err)
		return
	}
	fmt.Printf("Registered member %s with ID %s.\n", name, assigned)
}

func (s *shell) handleUpdateMember() {
	id, ok := s.prompt("Member ID: ")
	if !ok {
		return
	}
	name, ok := s.prompt("New name (blank to keep): ")
	if !ok {
		return
	}
	email, ok := s.prompt("New email (blank to keep): ")
	if !ok {
		return
	}
	if err := s.lib.UpdateMember(id, name, email); err != nil {
		fmt.Printf("Error updating member: %v\n", err)
		return
	}
	fmt.Printf("Updated member %s.\n", id)
}

func (s *shell) handleDeleteMember() {
	id, ok := s.prompt("Member ID: ")
	if !ok {
		return
	}
	if err := s.lib.DeleteMember(id); err != nil {
		fmt.Printf("Error deleting member: %v\n", err)
		return
	}
	fmt.Printf("Deleted member %s.\n", id)
}

func (s *shell) handleListMembers() {
	members := s.lib.ListMembers()
	if len(members) == 0 {
		fmt.Println("No members registered.")
		return
	}
	fmt.Printf("%-24s %-25s %-30s %s\n", "ID", "Name", "Email", "Borrowed")
	fmt.Println(strings.Repeat("-", min(s.width, 95)))
	for _, m := range members {
		fmt.Printf("%-24s %-25s %-30s %d\n",
			truncateString(m.ID, 24),
			truncateString(m.Name, 25),
			truncateString(m.Email, 30),
			len(m.Borrowed))
	}
}

// ------------------ Circulation ------------------

func (s *shell) handleBorrow() {
	id, ok := s.prompt("Member ID: ")
	if !ok {
		return
	}
	isbn, ok := s.prompt("ISBN: ")
	if !ok {
		return
	}
	daysStr, ok := s.prompt(fmt.Sprintf("Loan days (blank for %d): ", s.loanDays))
	if !ok {
		return
	}
	days := s.loanDays
	if daysStr != "" {
		n, err := strconv.Atoi(daysStr)
		if err != nil {
			fmt.Printf("Invalid loan days: %s\n", daysStr)
			return
		}
		days = n
	}

	due, err := s.lib.Borrow(id, isbn, days)
	if err != nil {
		fmt.Printf("Error borrowing book: %v\n", err)
		return
	}
	fmt.Printf("Book borrowed. Due date: %s\n", due.Format(dateLayout))
}

func (s *shell) handleReturn() {
	id, ok := s.prompt("Member ID: ")
	if !ok {
		return
	}
	isbn, ok := s.prompt("ISBN: ")
	if !ok {
		return
	}
	if err := s.lib.Return(id, isbn); err != nil {
		fmt.Printf("Error returning book: %v\n", err)
		return
	}
	fmt.Println("Book returned.")
}

func (s *shell) handleBorrowed() {
	id, ok := s.prompt("Member ID: ")
	if !ok {
		return
	}
	loans, err := s.lib.BorrowedBy(id)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	if len(loans) == 0 {
		fmt.Println("Member has no borrowed books.")
		return
	}
	fmt.Printf("%-20s %-35s %-12s %s\n", "ISBN", "Title", "Due", "Status")
	fmt.Println(strings.Repeat("-", min(s.width, 80)))
	for _, loan := range loans {
		fmt.Printf("%-20s %-35s %-12s %s\n",
			loan.Book.ISBN,
			truncateString(loan.Book.Title, 35),
			loan.DueDate.Format(dateLayout),
			loan.Status)
	}
}

// ------------------ History ------------------

func (s *shell) handleUndo() {
	desc, err := s.lib.Undo()
	if err != nil {
		fmt.Printf("Undo failed: %v\n", err)
		return
	}
	fmt.Println(desc)
}

func (s *shell) handleRedo() {
	desc, err := s.lib.Redo()
	if err != nil {
		fmt.Printf("Redo failed: %v\n", err)
		return
	}
	fmt.Println(desc)
}

// ------------------ Reports ------------------

func (s *shell) handleOverdue() {
	overdue := s.lib.OverdueBooks()
	if len(overdue) == 0 {
		fmt.Println("No overdue books.")
		return
	}
	fmt.Printf("%-35s %-25s %-12s %s\n", "Title", "Member", "Due", "Days Overdue")
	fmt.Println(strings.Repeat("-", min(s.width, 90)))
	for _, o := range overdue {
		fmt.Printf("%-35s %-25s %-12s %d\n",
			truncateString(o.Book.Title, 35),
			truncateString(o.Member.Name, 25),
			o.DueDate.Format(dateLayout),
			o.OverdueDays)
	}
}

func (s *shell) handleTopBorrowed() {
	nStr, ok := s.prompt("Top N (blank for 5): ")
	if !ok {
		return
	}
	n := 5
	if nStr != "" {
		v, err := strconv.Atoi(nStr)
		if err != nil {
			fmt.Printf("Invalid number: %s\n", nStr)
			return
		}
		n = v
	}
	ranking, err := s.lib.MostBorrowed(n)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	if len(ranking) == 0 {
		fmt.Println("No books in catalog.")
		return
	}
	fmt.Printf("%-5s %-35s %-25s %s\n", "Rank", "Title", "Author", "Copies Out")
	fmt.Println(strings.Repeat("-", min(s.width, 80)))
	for i, bc := range ranking {
		fmt.Printf("%-5d %-35s %-25s %d\n",
			i+1,
			truncateString(bc.Book.Title, 35),
			truncateString(bc.Book.Author, 25),
			bc.Count)
	}
}

// ------------------ System ------------------

func (s *shell) handleExport() {
	path, ok := s.prompt("Snapshot path: ")
	if !ok {
		return
	}
	if path == "" {
		fmt.Println("Snapshot path cannot be empty.")
		return
	}
	if err := s.lib.ExportSnapshot(path); err != nil {
		fmt.Printf("Error exporting snapshot: %v\n", err)
		return
	}
	fmt.Printf("Catalog exported to %s.\n", path)
}

func truncateString(s string, maxLength int) string {
	if len(s) <= maxLength {
		return s
	}
	return s[:maxLength-3] + "..."
}
