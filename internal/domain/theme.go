package domain

type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"

	DefaultTheme = ThemeDark
)

func (t Theme) Valid() bool {
	return t == ThemeDark || t == ThemeLight
}

// Toggle returns the opposite theme.
func (t Theme) Toggle() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}
