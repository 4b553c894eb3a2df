package classifier

import "testing"

func TestIsKnownTheme(t *testing.T) {
	for _, theme := range Themes {
		if !isKnownTheme(theme) {
			t.Errorf("isKnownTheme(%q) = false, want true", theme)
		}
	}

	for _, label := range []string{"", "General", "Cooking", "philosophy"} {
		if isKnownTheme(label) {
			t.Errorf("isKnownTheme(%q) = true, want false", label)
		}
	}
}
