package http

import (
	"strconv"
	"strings"
)

func splitPath(path string) []string {
	return strings.Split(strings.Trim(path, "/"), "/")
}

func parseID(segment string) (int64, bool) {
	id, err := strconv.ParseInt(segment, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
