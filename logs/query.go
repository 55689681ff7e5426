package logs

import (
	"context"
	"fmt"

	"github.com/itchyny/gojq"
)

// Query is a compiled jq expression used as a record predicate.
type Query struct {
	source string
	code   *gojq.Code
}

// CompileQuery parses and compiles a jq expression.
func CompileQuery(expr string) (*Query, error) {
	parsed, err := gojq.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("parse jq expression %q: %w", expr, err)
	}
	code, err := gojq.Compile(parsed)
	if err != nil {
		return nil, fmt.Errorf("compile jq expression %q: %w", expr, err)
	}
	return &Query{source: expr, code: code}, nil
}

func (q *Query) String() string {
	return q.source
}

// Match runs the expression against doc. The record matches when the first
// result is neither false nor null; no result at all is not a match.
func (q *Query) Match(ctx context.Context, doc map[string]any) (bool, error) {
	iter := q.code.RunWithContext(ctx, doc)
	v, ok := iter.Next()
	if !ok {
		return false, nil
	}
	if err, isErr := v.(error); isErr {
		return false, err
	}
	switch b := v.(type) {
	case nil:
		return false, nil
	case bool:
		return b, nil
	default:
		return true, nil
	}
}
