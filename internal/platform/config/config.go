// Package config reads service settings from environment variables
package config

import (
	"os"
	"strconv"
	"strings"

	"feedline/internal/platform/logger"
)

// Conf is a prefixed view of the environment, e.g. New().Prefix("CORE_API_")
type Conf struct{ prefix string }

// New returns the unprefixed root view
func New() Conf { return Conf{} }

// Prefix returns a child view whose keys are prefixed with p
func (c Conf) Prefix(p string) Conf { return Conf{prefix: c.prefix + p} }

func (c Conf) value(key string) (name, val string) {
	name = c.prefix + key
	return name, strings.TrimSpace(os.Getenv(name))
}

// MustString returns the value of key and panics through the logger when it is blank
func (c Conf) MustString(key string) string {
	name, v := c.value(key)
	if v == "" {
		logger.Get().Panic().Str("key", name).Msg("required env not set")
	}
	return v
}

// MayString returns the value of key or def
func (c Conf) MayString(key, def string) string {
	if _, v := c.value(key); v != "" {
		return v
	}
	return def
}

// MayInt returns the int value of key or def; unparsable values are logged and ignored
func (c Conf) MayInt(key string, def int) int {
	name, v := c.value(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		logger.Get().Warn().Str("key", name).Str("value", v).Int("default", def).Msg("env is not an int, using default")
		return def
	}
	return n
}

// MayBool is MayInt for strconv booleans
func (c Conf) MayBool(key string, def bool) bool {
	name, v := c.value(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		logger.Get().Warn().Str("key", name).Str("value", v).Bool("default", def).Msg("env is not a bool, using default")
		return def
	}
	return b
}
