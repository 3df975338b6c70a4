package util

import (
	"strconv"
	"strings"
)

// IntParam reads a positive integer parameter, falling back to def when missing or invalid
func IntParam(params map[string]string, key string, def int) int {
	raw, ok := params[key]
	if !ok {
		return def
	}
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || v <= 0 {
		return def
	}
	return v
}

// BoolParam reads a boolean parameter, falling back to def when missing or invalid
func BoolParam(params map[string]string, key string, def bool) bool {
	raw, ok := params[key]
	if !ok {
		return def
	}
	v, err := strconv.ParseBool(strings.TrimSpace(raw))
	if err != nil {
		return def
	}
	return v
}
