package constring

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Azure/constring/parser"
)

func TestParseIssuesCounted(t *testing.T) {
	missing := testutil.ToFloat64(parseIssues.WithLabelValues("missing_separator"))
	unterminated := testutil.ToFloat64(parseIssues.WithLabelValues("unterminated_quote"))

	Parse(`stray;other;a="x`)

	assert.Equal(t, missing+2, testutil.ToFloat64(parseIssues.WithLabelValues("missing_separator")))
	assert.Equal(t, unterminated+1, testutil.ToFloat64(parseIssues.WithLabelValues("unterminated_quote")))
}

func TestCollector(t *testing.T) {
	// Nothing is registered globally on import
	require.NoError(t, prometheus.DefaultRegisterer.Register(Collector()))
	assert.True(t, prometheus.DefaultRegisterer.Unregister(Collector()))

	reg := prometheus.NewRegistry()
	require.NoError(t, reg.Register(Collector()))

	Parse("stray")
	count, err := testutil.GatherAndCount(reg, "constring_parse_issues_total")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, count, 1)
}

func TestParseIssuesLogged(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	cs := Parse(`a=1; =2;b='x' y`, WithZapLogger(zap.New(core)))
	assert.Equal(t, map[string]string{"A": "1", "B": "x"}, cs.Map())

	entries := logs.All()
	require.Len(t, entries, 2)

	assert.Equal(t, "tolerated malformed connection string entry", entries[0].Message)
	assert.Equal(t, "constring", entries[0].LoggerName)
	assert.Equal(t, map[string]any{"offset": int64(5), "reason": "empty_key"}, entries[0].ContextMap())
	assert.Equal(t, map[string]any{"offset": int64(8), "reason": "trailing_characters"}, entries[1].ContextMap())
}

func TestCleanInputNotLogged(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	Parse("a=1;b='2';", WithZapLogger(zap.New(core)))
	assert.Zero(t, logs.Len())
}

func TestIssueReason(t *testing.T) {
	assert.Equal(t, "missing_separator", issueReason(parser.ErrMissingSeparator))
	assert.Equal(t, "empty_key", issueReason(parser.ErrEmptyKey))
	assert.Equal(t, "unterminated_quote", issueReason(parser.ErrUnterminatedQuote))
	assert.Equal(t, "trailing_characters", issueReason(parser.ErrTrailingCharacters))
	assert.Equal(t, "unknown", issueReason(errors.New("other")))
}
