package logs

import (
	"errors"
	"fmt"

	"github.com/valyala/fastjson"
)

var (
	ErrNotObject    = errors.New("record is not a JSON object")
	ErrMissingField = errors.New("missing required field")
)

// DecodeError reports a line that could not be turned into a LogRecord.
type DecodeError struct {
	Source string
	Line   int
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s:%d: %v", e.Source, e.Line, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Decoder turns raw lines into records. It reuses one fastjson parser, so a
// Decoder must not be shared between goroutines.
type Decoder struct {
	parser       fastjson.Parser
	withDocument bool
}

// NewDecoder returns a Decoder. When withDocument is set every record also
// carries its full content as plain Go values.
func NewDecoder(withDocument bool) *Decoder {
	return &Decoder{withDocument: withDocument}
}

// ParseRecord decodes a single line with a throwaway Decoder.
func ParseRecord(line string) (LogRecord, error) {
	return NewDecoder(false).Decode(line)
}

// Decode parses line and extracts the ts, sev, k and v fields.
func (d *Decoder) Decode(line string) (LogRecord, error) {
	v, err := d.parser.Parse(line)
	if err != nil {
		return LogRecord{}, fmt.Errorf("invalid JSON: %w", err)
	}

	obj, err := v.Object()
	if err != nil {
		return LogRecord{}, ErrNotObject
	}

	// A repeated key keeps its last value.
	fields := map[string]*fastjson.Value{}
	obj.Visit(func(key []byte, val *fastjson.Value) {
		switch k := string(key); k {
		case fieldTimestamp, fieldSeverity, fieldKind, fieldPayload:
			fields[k] = val
		}
	})

	for _, name := range []string{fieldTimestamp, fieldSeverity, fieldKind, fieldPayload} {
		if fields[name] == nil {
			return LogRecord{}, fmt.Errorf("%w %q", ErrMissingField, name)
		}
	}

	rec := LogRecord{
		Timestamp: valueText(fields[fieldTimestamp]),
		Severity:  valueText(fields[fieldSeverity]),
		Kind:      valueText(fields[fieldKind]),
		Payload:   decodePayload(fields[fieldPayload]),
		Raw:       line,
	}

	if d.withDocument {
		rec.Document, _ = toGo(v).(map[string]any)
	}

	return rec, nil
}

func decodePayload(v *fastjson.Value) Payload {
	switch v.Type() {
	case fastjson.TypeObject:
		obj, _ := v.Object()

		var pairs []Pair
		index := make(map[string]int, obj.Len())
		obj.Visit(func(key []byte, val *fastjson.Value) {
			k := string(key)
			if i, ok := index[k]; ok {
				pairs[i].Value = valueText(val)
				return
			}
			index[k] = len(pairs)
			pairs = append(pairs, Pair{Key: k, Value: valueText(val)})
		})
		return MappingPayload{Pairs: pairs}
	case fastjson.TypeString:
		return TextPayload{Text: string(v.GetStringBytes())}
	default:
		return OtherPayload{TypeName: typeName(v)}
	}
}

// valueText renders strings without quotes and everything else as JSON.
func valueText(v *fastjson.Value) string {
	if v.Type() == fastjson.TypeString {
		return string(v.GetStringBytes())
	}
	return v.String()
}

func typeName(v *fastjson.Value) string {
	switch v.Type() {
	case fastjson.TypeTrue, fastjson.TypeFalse:
		return "boolean"
	default:
		return v.Type().String()
	}
}

// toGo converts a fastjson value to the types gojq works with.
func toGo(v *fastjson.Value) any {
	switch v.Type() {
	case fastjson.TypeObject:
		obj, _ := v.Object()
		m := make(map[string]any, obj.Len())
		obj.Visit(func(key []byte, val *fastjson.Value) {
			m[string(key)] = toGo(val)
		})
		return m
	case fastjson.TypeArray:
		arr, _ := v.Array()
		out := make([]any, 0, len(arr))
		for _, item := range arr {
			out = append(out, toGo(item))
		}
		return out
	case fastjson.TypeString:
		return string(v.GetStringBytes())
	case fastjson.TypeNumber:
		if n, err := v.Int(); err == nil {
			return n
		}
		f, _ := v.Float64()
		return f
	case fastjson.TypeTrue:
		return true
	case fastjson.TypeFalse:
		return false
	default:
		return nil
	}
}
