package main

import (
	"fmt"
	"os"

	"library-catalog/library"

	"github.com/spf13/cobra"
)

func main() {
	var (
		dbPath   string
		sample   bool
		loanDays int
	)

	root := &cobra.Command{
		Use:   "library-catalog",
		Short: "Interactive shell for the in-memory library catalog engine",
		Long: `library-catalog runs an in-memory lending-library catalog: books indexed
by ISBN, title, and author, member registration, borrow/return with undo and
redo, and overdue and most-borrowed reports. State lives in memory for the
session; a catalog snapshot file can seed it at startup.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if loanDays < 1 {
				return fmt.Errorf("--loan-days must be at least 1, got %d", loanDays)
			}

			var (
				lib *library.Library
				err error
			)
			if dbPath != "" {
				lib, err = library.LoadSnapshot(dbPath)
				if err != nil {
					return fmt.Errorf("load snapshot: %w", err)
				}
				fmt.Printf("Loaded catalog snapshot from %s\n", dbPath)
			} else {
				lib = library.NewLibrary()
			}
			if sample {
				if err := library.SeedSampleData(lib); err != nil {
					return fmt.Errorf("seed sample data: %w", err)
				}
				fmt.Println("Loaded sample catalog.")
			}

			runShell(lib, loanDays)
			return nil
		},
	}

	root.Flags().StringVar(&dbPath, "db", "", "SQLite catalog snapshot to seed the engine from")
	root.Flags().BoolVar(&sample, "sample", false, "seed the built-in sample catalog")
	root.Flags().IntVar(&loanDays, "loan-days", library.DefaultLoanDays, "default loan period in days")

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
