package editor

import (
	"fmt"
	"strings"
)

// ParseYesNo reads the "Yes"/"No" text list cells display. "true" and
// "false" are accepted as well; anything else is an error.
func ParseYesNo(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "true":
		return true, nil
	case "no", "false":
		return false, nil
	default:
		return false, fmt.Errorf("expected Yes or No, got %q", s)
	}
}
