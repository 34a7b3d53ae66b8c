package main

import (
	"fmt"
	"os"
	"strings"

	"library-catalog/library"
)

// export_catalog builds the sample catalog in memory and writes it out as an
// SQLite snapshot file, ready to seed the shell via --db.
func main() {
	path := "catalog.db"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	lib := library.NewLibrary()
	if err := library.SeedSampleData(lib); err != nil {
		fmt.Fprintf(os.Stderr, "Error seeding sample data: %v\n", err)
		os.Exit(1)
	}

	if err := lib.ExportSnapshot(path); err != nil {
		fmt.Fprintf(os.Stderr, "Error exporting snapshot: %v\n", err)
		os.Exit(1)
	}

	books := lib.ListBooks()
	members := lib.ListMembers()
	fmt.Printf("Wrote %s: %d books, %d members\n\n", path, len(books), len(members))

	fmt.Printf("%-20s %-40s %-25s %s\n", "ISBN", "Title", "Author", "Copies")
	fmt.Println(strings.Repeat("-", 95))
	for _, b := range books {
		fmt.Printf("%-20s %-40s %-25s %d\n", b.ISBN, b.Title, b.Author, b.Quantity)
	}
}
