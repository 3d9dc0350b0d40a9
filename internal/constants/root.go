package constants

const (
	AppName            = "ritual"
	DefaultKeyringUser = "database-connection"
	DefaultConfigPath  = "~/.config/ritual/ritual.db"
	Version            = "v0.2.0"
)

// SessionState represents the current state of the TUI application
type SessionState int

const (
	StateHabits SessionState = iota
	StateStats
	StateSettings
	StateAddHabit
	StateEditSettings
	StateConfirmArchive
	StateConfirmDelete
)
