package validation

import (
	"strings"

	"github.com/cardbinder/cardbinder/internal/types"
)

const (
	MaxListNameLength = 50
	MaxListsPerUser   = 10
)

// ListName validates a list create/rename name and returns its trimmed form.
func ListName(name string) (string, *types.AppError) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", types.ValidationError("Invalid list name", map[string]string{
			"name": "is required",
		})
	}
	if len([]rune(name)) > MaxListNameLength {
		return "", types.ValidationError("Invalid list name", map[string]string{
			"name": "must be at most 50 characters",
		})
	}
	return name, nil
}

// ListEntryIDs validates the entry ids supplied to a list mutation.
// Duplicates collapse to one occurrence so a repeated id cannot skew the
// ownership count downstream.
func ListEntryIDs(ids []string) ([]string, *types.AppError) {
	out := make([]string, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id != "" && !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	if len(out) == 0 {
		return nil, types.ValidationError("Invalid list entries", map[string]string{
			"entryIds": "at least one entry id is required",
		})
	}
	return out, nil
}

// DisplayName validates a profile display name and returns its trimmed form.
func DisplayName(name string) (string, *types.AppError) {
	name = strings.TrimSpace(name)
	if name == "" || len([]rune(name)) > 50 {
		return "", types.ValidationError("Invalid profile input", map[string]string{
			"displayName": "must be 1-50 characters",
		})
	}
	return name, nil
}
