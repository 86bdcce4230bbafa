package constring

import (
	"github.com/go-logr/logr"
	"go.uber.org/zap"

	"github.com/Azure/constring/internal/logging"
)

// Option configures how a ConnectionString is built and how it formats keys.
type Option func(*config)

type config struct {
	formatter    KeyFormatter
	priorityKeys []string
	logger       *logging.Logger
}

func newConfig(opts []Option) *config {
	c := &config{formatter: TitleCase}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = logging.Discard()
	}
	return c
}

// WithKeyFormatter sets the function applied to every key before it is stored or looked up.
// A nil formatter disables normalization entirely, same as Identity.
//
// Example usage:
//
//	cs := constring.Parse("user id=sa;", constring.WithKeyFormatter(constring.UpperCase))
//	cs.Contains("USER ID") // true
func WithKeyFormatter(f KeyFormatter) Option {
	return func(c *config) {
		c.formatter = f
		if f == nil {
			c.formatter = Identity
		}
	}
}

// WithPriorityKeys lists keys that keep the first value they are given while parsing.
// Keys are compared after formatting. Later calls add to the list.
func WithPriorityKeys(keys ...string) Option {
	return func(c *config) {
		c.priorityKeys = append(c.priorityKeys, keys...)
	}
}

// WithLogger reports every malformed entry the parser tolerated to l at verbosity 1.
func WithLogger(l logr.Logger) Option {
	return func(c *config) {
		c.logger = logging.NewLogger(l)
	}
}

// WithZapLogger is WithLogger for zap users.
func WithZapLogger(zl *zap.Logger) Option {
	return WithLogger(logging.FromZap(zl, "constring"))
}
