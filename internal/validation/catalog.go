package validation

import (
	"fmt"
	"unicode"
	"unicode/utf8"
)

// Category and channel names are display names, not slugs. Japanese names
// are the norm here, so the rules are length and printability only.

// CategoryName validates a category display name.
func CategoryName(name string) error {
	return displayName("category name", name, 100)
}

// ChannelName validates a channel display name.
func ChannelName(name string) error {
	return displayName("channel name", name, 100)
}

func displayName(what, name string, maxRunes int) error {
	if name == "" {
		return fmt.Errorf("%s is required", what)
	}
	if utf8.RuneCountInString(name) > maxRunes {
		return fmt.Errorf("%s must not exceed %d characters", what, maxRunes)
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return fmt.Errorf("%s contains control characters", what)
		}
	}
	return nil
}
