package config

const (
	// DefaultDatabaseDriver is the store used when DATABASE_DRIVER is unset
	DefaultDatabaseDriver = "sqlite"

	// DefaultDatabasePath is the default path for the SQLite database
	DefaultDatabasePath = "./booknotes.db"

	// DefaultCoversDir is where cached cover images are stored
	DefaultCoversDir = "./covers"
)
