package logs

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
)

// LogFilter decides which records get rendered. Empty allow-lists accept
// everything. It is built once and only read afterwards.
type LogFilter struct {
	severities map[string]struct{}
	kinds      map[string]struct{}
	query      *Query
}

// NewLogFilter builds a filter from the given allow-lists and an optional
// compiled jq predicate.
func NewLogFilter(severities, kinds []string, query *Query) *LogFilter {
	return &LogFilter{
		severities: buildSet(severities),
		kinds:      buildSet(kinds),
		query:      query,
	}
}

// NeedsDocument reports whether records must carry their full document.
func (f *LogFilter) NeedsDocument() bool {
	return f.query != nil
}

// Matches reports whether rec passes every configured gate.
func (f *LogFilter) Matches(ctx context.Context, rec LogRecord) bool {
	checks := []func() bool{
		func() bool { return allowed(f.severities, rec.Severity) },
		func() bool { return allowed(f.kinds, rec.Kind) },
		func() bool { return f.matchesQuery(ctx, rec) },
	}

	for _, check := range checks {
		if !check() {
			return false
		}
	}
	return true
}

func (f *LogFilter) matchesQuery(ctx context.Context, rec LogRecord) bool {
	if f.query == nil {
		return true
	}

	ok, err := f.query.Match(ctx, rec.Document)
	if err != nil {
		log.Debug().
			Str("component", "filter").
			Str("query", f.query.String()).
			Str("timestamp", rec.Timestamp).
			Err(err).
			Msg("jq predicate failed, skipping record")
		return false
	}
	return ok
}

func allowed(set map[string]struct{}, v string) bool {
	if len(set) == 0 {
		return true
	}
	_, ok := set[v]
	return ok
}

func buildSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		if v == "" {
			continue
		}
		set[v] = struct{}{}
	}
	return set
}

// validateChoices returns a usage error for the first value not in choices.
func validateChoices(flag string, values, choices []string) error {
	for _, v := range values {
		found := false
		for _, c := range choices {
			if v == c {
				found = true
				break
			}
		}
		if !found {
			quoted := make([]string, len(choices))
			for i, c := range choices {
				quoted[i] = "'" + c + "'"
			}
			return &UsageError{Err: fmt.Errorf("argument --%s: invalid choice: '%s' (choose from %s)",
				flag, v, strings.Join(quoted, ", "))}
		}
	}
	return nil
}
