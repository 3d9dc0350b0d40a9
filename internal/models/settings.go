package models

// Settings represents application-wide settings
type Settings struct {
	Timezone         string `json:"timezone"`          // IANA timezone name (e.g. "America/New_York", or "Local" for system timezone)
	DefaultTimeframe string `json:"default_timeframe"` // reporting window for stats: daily, weekly, or monthly
	AutoBackup       bool   `json:"auto_backup"`       // whether to back up before destructive operations
	MaxBackups       int    `json:"max_backups"`       // number of rotated backups to keep
}
