// Package database provides the data access layer for the application.
//
// # Architecture
//
// The database layer is organized into domain-specific sub-packages:
//
//	database/
//	├── database.go      # Connection setup, driver selection, migrations
//	├── books/           # Book and author queries, add-book transaction scope
//	└── notes/           # Note CRUD operations
//
// # Using Sub-packages
//
// Each sub-package provides a Repository type built on the shared *gorm.DB:
//
//	db, err := database.NewDatabase(cfg.Database)
//
//	booksRepo := books.NewRepository(db.DB)
//	notesRepo := notes.NewRepository(db.DB)
//
//	items, err := booksRepo.ListBooksWithAuthors(ctx)
//	list, err := notesRepo.ListNotesForBook(ctx, bookID)
//
// # Drivers
//
// SQLite is the default and opens with foreign keys enabled. Postgres and
// MySQL are selected with DATABASE_DRIVER and take their connection string
// from DATABASE_DSN.
//
// All queries bind values through gorm placeholders; nothing is interpolated
// into SQL text.
package database
