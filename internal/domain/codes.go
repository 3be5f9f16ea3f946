package domain

import (
	"regexp"
	"strings"
)

// Room codes are human-entered: exactly six characters from [A-Z0-9],
// case-insensitive on input.
var roomCodeRE = regexp.MustCompile(`^[A-Z0-9]{6}$`)

// NormalizeRoomCode upper-cases a raw code and validates its shape.
func NormalizeRoomCode(raw string) (string, error) {
	code := strings.ToUpper(strings.TrimSpace(raw))
	if !roomCodeRE.MatchString(code) {
		return "", ErrInvalidRoomCode
	}
	return code, nil
}
