package constring

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Azure/constring/parser"
)

var (
	parseIssues = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "constring_parse_issues_total",
			Help: "Malformed connection string entries that were skipped or repaired while parsing",
		}, []string{"reason"},
	)
)

// Collector returns the metrics recorded while parsing, for registration on the caller's registry.
func Collector() prometheus.Collector {
	return parseIssues
}

func issueReason(err error) string {
	switch {
	case errors.Is(err, parser.ErrMissingSeparator):
		return "missing_separator"
	case errors.Is(err, parser.ErrEmptyKey):
		return "empty_key"
	case errors.Is(err, parser.ErrUnterminatedQuote):
		return "unterminated_quote"
	case errors.Is(err, parser.ErrTrailingCharacters):
		return "trailing_characters"
	default:
		return "unknown"
	}
}
