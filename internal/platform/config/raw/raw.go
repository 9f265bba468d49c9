// Package raw reads environment variables for code that runs before the
// logger exists, so it must not import the logger
package raw

import (
	"os"
	"strconv"
	"strings"
)

// Conf reads variables under a fixed prefix
type Conf struct{ prefix string }

// New returns a Conf without a prefix
func New() Conf { return Conf{} }

// Prefix appends p to the current prefix
func (c Conf) Prefix(p string) Conf { return Conf{prefix: c.prefix + p} }

func (c Conf) lookup(key string) (string, bool) {
	v := strings.TrimSpace(os.Getenv(c.prefix + key))
	return v, v != ""
}

// Get returns the value of key or def when unset or blank
func (c Conf) Get(key, def string) string {
	if v, ok := c.lookup(key); ok {
		return v
	}
	return def
}

// GetBool accepts strconv booleans plus yes/no
func (c Conf) GetBool(key string, def bool) bool {
	v, ok := c.lookup(key)
	if !ok {
		return def
	}
	switch strings.ToLower(v) {
	case "yes", "y", "on":
		return true
	case "no", "n", "off":
		return false
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

// GetInt returns a non negative int or def
func (c Conf) GetInt(key string, def int) int {
	v, ok := c.lookup(key)
	if !ok {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return def
	}
	return n
}
