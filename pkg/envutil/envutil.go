// Package envutil reads typed configuration from environment variables.
package envutil

import (
	"os"
	"strconv"
	"strings"

	"github.com/nodix/pipeconf/pkg/logger"
)

// GetIntFromEnv returns the integer value of the named variable when it is
// set, parses, and lies within [minValue, maxValue]; otherwise defaultValue.
// log may be nil.
func GetIntFromEnv(name string, defaultValue, minValue, maxValue int, log *logger.Logger) int {
	raw := os.Getenv(name)
	if raw == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		if log != nil {
			log.Printf("Ignoring %s=%q: not an integer", name, raw)
		}
		return defaultValue
	}
	if value < minValue || value > maxValue {
		if log != nil {
			log.Printf("Ignoring %s=%d: outside [%d, %d]", name, value, minValue, maxValue)
		}
		return defaultValue
	}
	if log != nil {
		log.Printf("Using %s=%d", name, value)
	}
	return value
}

// GetBoolFromEnv returns the boolean value of the named variable, accepting
// the forms strconv.ParseBool does. Unset or unparsable values give
// defaultValue. log may be nil.
func GetBoolFromEnv(name string, defaultValue bool, log *logger.Logger) bool {
	raw := os.Getenv(name)
	if raw == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(strings.TrimSpace(raw))
	if err != nil {
		if log != nil {
			log.Printf("Ignoring %s=%q: not a boolean", name, raw)
		}
		return defaultValue
	}
	if log != nil {
		log.Printf("Using %s=%t", name, value)
	}
	return value
}
