package constants

import "time"

const (
	AppName            = "habitual"
	DefaultKeyringUser = "database-connection"
	DefaultConfigPath  = "~/.config/habitual/habitual.db"
	DefaultAPIBaseURL  = "https://bookster-json-server.millstep.site"
	Version            = "v0.1.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// StatsWindowDays is the number of trailing days covered by statistics
	StatsWindowDays = 7

	// Remote gateway
	HabitsResource     = "habits"
	DefaultHTTPTimeout = 10 * time.Second

	// JSON store locking
	LockTimeout       = 3 * time.Second
	LockRetryInterval = 100 * time.Millisecond

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "habitual-"

	// Filter option matching every day or category
	FilterAll = "all"
)
