package record

import (
	"strconv"
	"strings"
)

// ParseID parses a record id as it appears in a path or request parameter.
// Only positive integers are valid ids.
func ParseID(s string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func FormatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
