package module

import (
	"feedline/internal/platform/config"
	feedssvc "feedline/internal/services/api/feeds/service"
)

// FromConfig reads feed tuning with the CORE_FEEDS_ prefix
func FromConfig(cfg config.Conf) feedssvc.Options {
	c := cfg.Prefix("CORE_FEEDS_")
	d := feedssvc.DefaultOptions
	return feedssvc.Options{
		RandomDefault:    c.MayInt("RANDOM_DEFAULT", d.RandomDefault),
		RandomMax:        c.MayInt("RANDOM_MAX", d.RandomMax),
		SuggestionsLimit: c.MayInt("SUGGESTIONS_LIMIT", d.SuggestionsLimit),
	}
}
