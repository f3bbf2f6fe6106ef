package utils

import "os"

// ParseWithFallback returns the value of envName, or fallback when unset or
// empty.
func ParseWithFallback(envName string, fallback string) string {
	result := os.Getenv(envName)
	if result == "" {
		result = fallback
	}

	return result
}
