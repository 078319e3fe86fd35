package domain

// Theme is the display theme stored in the settings slice.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// SettingsState is the persisted "settings" slice.
type SettingsState struct {
	Theme Theme `json:"theme"`
}

// DefaultSettings is the state used before anything was saved.
func DefaultSettings() SettingsState {
	return SettingsState{Theme: ThemeLight}
}

// SetTheme returns the state with the theme replaced.
func SetTheme(state SettingsState, theme Theme) (SettingsState, error) {
	if theme != ThemeLight && theme != ThemeDark {
		return state, NewValidationError("theme", "theme must be light or dark", theme)
	}
	state.Theme = theme
	return state, nil
}
