// Package safety implements the substring blocklist gate applied to every
// inbound message before it reaches the completion service.
package safety

import "strings"

// blocklist is intentionally a literal substring list; matching is
// case-insensitive and a hit anywhere in the message counts.
var blocklist = []string{
	"api key",
	"password",
	"secret",
	"hack",
	"exploit",
	"admin",
	"root",
	"system prompt",
}

// IsSafe reports whether the message contains none of the blocked terms.
func IsSafe(message string) bool {
	lower := strings.ToLower(message)
	for _, term := range blocklist {
		if strings.Contains(lower, term) {
			return false
		}
	}
	return true
}
