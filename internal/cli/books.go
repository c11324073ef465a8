package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/booknotes/internal/config"
	"github.com/mrlokans/booknotes/internal/database"
	"github.com/mrlokans/booknotes/internal/database/books"
	"github.com/mrlokans/booknotes/internal/database/notes"
	"github.com/mrlokans/booknotes/internal/services"
	"github.com/mrlokans/booknotes/internal/viewmodel"
)

// BooksCommand prints the library as a table.
func BooksCommand(loadConfig func() *config.Config) *cobra.Command {
	var withNotes bool

	cmd := &cobra.Command{
		Use:   "books",
		Short: "List every book with its author",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()
			db, err := database.NewDatabaseWithOptions(cfg.Database, database.Options{LogLevel: logger.Silent})
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			defer db.Close()

			library := services.NewLibraryService(books.NewRepository(db.DB), notes.NewRepository(db.DB))
			items, err := library.ListBooks(cmd.Context())
			if err != nil {
				return err
			}

			noteCounts := map[uint]int{}
			if withNotes {
				for _, b := range items {
					ns, err := library.ListNotes(cmd.Context(), b.BookID)
					if err != nil {
						return err
					}
					noteCounts[b.BookID] = len(ns)
				}
			}

			return printBooks(cmd.OutOrStdout(), items, noteCounts, withNotes)
		},
	}

	cmd.Flags().BoolVar(&withNotes, "notes", false, "Include the number of notes per book")
	return cmd
}

func printBooks(out io.Writer, items []viewmodel.BookViewItem, noteCounts map[uint]int, withNotes bool) error {
	if len(items) == 0 {
		_, err := fmt.Fprintln(out, "No books yet.")
		return err
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	header := "ID\tTITLE\tAUTHOR\tRATING\tCATEGORY\tREAD ON"
	if withNotes {
		header += "\tNOTES"
	}
	fmt.Fprintln(w, header)

	for _, b := range items {
		line := fmt.Sprintf("%d\t%s\t%s\t%d\t%s\t%s", b.BookID, b.BookName, b.AutherName, b.Rating, b.Category, b.ReadingDate)
		if withNotes {
			line += fmt.Sprintf("\t%d", noteCounts[b.BookID])
		}
		fmt.Fprintln(w, line)
	}
	return w.Flush()
}
