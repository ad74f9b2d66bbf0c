package common

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// GenerateUUID returns a fresh random UUID string.
func GenerateUUID() string {
	return uuid.New().String()
}

// NewRecipeID stamps a globally unique recipe id with the source tag, a
// millisecond timestamp and a short random suffix.
func NewRecipeID(source string) string {
	suffix := strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
	return fmt.Sprintf("%s_%d_%s", source, time.Now().UnixMilli(), suffix)
}

// Truncate cuts s to at most n runes for logging.
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
