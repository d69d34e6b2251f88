package ports

import "github.com/nulzo/app-config-api/internal/core/domain"

// SettingsProvider gives read access to the loaded application settings.
type SettingsProvider interface {
	Settings() domain.Settings
}

type staticSettings struct {
	settings domain.Settings
}

// StaticSettings returns a provider that always hands out s.
func StaticSettings(s domain.Settings) SettingsProvider {
	return staticSettings{settings: s}
}

func (p staticSettings) Settings() domain.Settings {
	return p.settings
}
