package models

import (
	"fmt"

	"ritual/internal/constants"
)

// MapToSettings converts a map of key-value pairs to a Settings struct.
func MapToSettings(data map[string]string) (Settings, error) {
	settings := Settings{}

	for key, value := range data {
		switch key {
		case constants.SettingTimezone:
			settings.Timezone = value
		case constants.SettingDefaultTimeframe:
			settings.DefaultTimeframe = value
		case constants.SettingAutoBackup:
			settings.AutoBackup = value == "true"
		case constants.SettingMaxBackups:
			if _, err := fmt.Sscanf(value, "%d", &settings.MaxBackups); err != nil {
				return Settings{}, fmt.Errorf("parsing max_backups: %w", err)
			}
		}
	}
	return settings, nil
}

// SettingsToMap converts a Settings struct to a map of key-value pairs.
func SettingsToMap(settings Settings) map[string]string {
	return map[string]string{
		constants.SettingTimezone:         settings.Timezone,
		constants.SettingDefaultTimeframe: settings.DefaultTimeframe,
		constants.SettingAutoBackup:       fmt.Sprintf("%v", settings.AutoBackup),
		constants.SettingMaxBackups:       fmt.Sprintf("%d", settings.MaxBackups),
	}
}

// ApplyDefaultSettings applies default values to missing settings.
func ApplyDefaultSettings(settings *Settings) {
	if settings.Timezone == "" {
		settings.Timezone = constants.DefaultTimezone
	}
	if settings.DefaultTimeframe == "" {
		settings.DefaultTimeframe = constants.DefaultTimeframeSetting
	}
	if settings.MaxBackups == 0 {
		settings.MaxBackups = constants.DefaultMaxBackups
	}
}
