package logs

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilter_AllowsWhenNoRules(t *testing.T) {
	f := NewLogFilter(nil, nil, nil)

	assert.True(t, f.Matches(context.Background(), LogRecord{Severity: "debug", Kind: "anything"}))
	assert.False(t, f.NeedsDocument())
}

func TestFilter_SeverityIsAnAllowList(t *testing.T) {
	rec := LogRecord{Severity: "warn", Kind: "msg"}

	assert.True(t, NewLogFilter(nil, nil, nil).Matches(context.Background(), rec))
	assert.False(t, NewLogFilter([]string{"error"}, nil, nil).Matches(context.Background(), rec))
	assert.True(t, NewLogFilter([]string{"error", "warn"}, nil, nil).Matches(context.Background(), rec))
}

func TestFilter_IsCaseSensitive(t *testing.T) {
	f := NewLogFilter([]string{"error"}, nil, nil)

	assert.False(t, f.Matches(context.Background(), LogRecord{Severity: "ERROR"}))
}

func TestFilter_BothGatesMustPass(t *testing.T) {
	f := NewLogFilter([]string{"info"}, []string{"msg"}, nil)

	tests := []struct {
		name string
		rec  LogRecord
		want bool
	}{
		{"both match", LogRecord{Severity: "info", Kind: "msg"}, true},
		{"kind differs", LogRecord{Severity: "info", Kind: "open-log"}, false},
		{"severity differs", LogRecord{Severity: "error", Kind: "msg"}, false},
		{"neither", LogRecord{Severity: "warn", Kind: "end-query"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, f.Matches(context.Background(), tt.rec))
		})
	}
}

func TestFilter_Query(t *testing.T) {
	query, err := CompileQuery(`.v.rows > 10`)
	require.NoError(t, err)
	f := NewLogFilter(nil, []string{"end-query"}, query)
	require.True(t, f.NeedsDocument())

	d := NewDecoder(true)
	big, err := d.Decode(`{"ts":"t","sev":"info","k":"end-query","v":{"rows":12}}`)
	require.NoError(t, err)
	assert.True(t, f.Matches(context.Background(), big))

	small, err := d.Decode(`{"ts":"t","sev":"info","k":"end-query","v":{"rows":3}}`)
	require.NoError(t, err)
	assert.False(t, f.Matches(context.Background(), small))

	otherKind, err := d.Decode(`{"ts":"t","sev":"info","k":"msg","v":{"rows":50}}`)
	require.NoError(t, err)
	assert.False(t, f.Matches(context.Background(), otherKind))
}

func TestFilter_QueryErrorSkipsRecord(t *testing.T) {
	query, err := CompileQuery(`.v | keys`)
	require.NoError(t, err)
	f := NewLogFilter(nil, nil, query)

	rec, err := NewDecoder(true).Decode(`{"ts":"t","sev":"info","k":"msg","v":"not an object"}`)
	require.NoError(t, err)

	assert.False(t, f.Matches(context.Background(), rec))
}

func TestValidateChoices(t *testing.T) {
	assert.NoError(t, validateChoices("severity", nil, KnownSeverities))
	assert.NoError(t, validateChoices("severity", []string{"info", "error"}, KnownSeverities))
	assert.NoError(t, validateChoices("type", []string{"begin-query", "read-metadata"}, KnownKinds))

	err := validateChoices("severity", []string{"info", "debug"}, KnownSeverities)
	require.Error(t, err)
	var usageErr *UsageError
	assert.ErrorAs(t, err, &usageErr)
	assert.Contains(t, err.Error(), "argument --severity: invalid choice: 'debug'")
	assert.Contains(t, err.Error(), "'info', 'warn', 'error'")
}

func TestKnownKinds(t *testing.T) {
	assert.Len(t, KnownKinds, 31)

	seen := map[string]bool{}
	for _, k := range KnownKinds {
		assert.False(t, seen[k], "duplicate kind %s", k)
		seen[k] = true
	}
}
