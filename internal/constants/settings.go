package constants

const (
	// General Settings
	SettingTimezone         = "timezone"
	SettingDefaultTimeframe = "default_timeframe"
	SettingAutoBackup       = "auto_backup"
	SettingMaxBackups       = "max_backups"

	// Default Settings Values
	DefaultTimezone         = "Local" // Use system local timezone by default
	DefaultTimeframeSetting = "weekly"
	DefaultAutoBackup       = true
	DefaultMaxBackups       = 14
)
