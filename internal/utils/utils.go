package utils

import (
	"strconv"
	"strings"
)

// Bool converts string to boolean
func Bool(str string) bool {
	str = strings.ToLower(strings.TrimSpace(str))
	if str == "" {
		return false
	}

	return (str == "1" || str == "true" || str == "yes" || str == "on")
}

// Percent formats fraction (0.3) as percentage (30.0%)
func Percent(fraction float64) string {
	return strconv.FormatFloat(fraction*100, 'f', 1, 64) + "%"
}
