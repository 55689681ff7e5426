package logs

// Field names of the record wire format.
const (
	fieldTimestamp = "ts"
	fieldSeverity  = "sev"
	fieldKind      = "k"
	fieldPayload   = "v"
)

// KnownSeverities are the values accepted by --severity.
var KnownSeverities = []string{"info", "warn", "error"}

// KnownKinds are the message types accepted by --type.
var KnownKinds = []string{
	"msg",
	"dll-version-info",
	"open-log",
	"startup-info",
	"memory-usage",
	"environment",
	"display-device",
	"command-pre",
	"command-post",
	"set-collation",
	"end-ds-connect",
	"ds-parser-connect",
	"end-ds-parser-connect",
	"ds-connect-data-connection",
	"end-ds-connect-data-connection",
	"construct-protocol",
	"construct-protocol-group",
	"protocol-added-to-group",
	"begin-query",
	"query-category",
	"query-plan",
	"end-query",
	"get-cached-query",
	"optimal-mode-factors",
	"cache-freshness",
	"mem-mc-load",
	"ec-load",
	"eqc-load",
	"eqc-store",
	"ds-load-metadata",
	"read-metadata",
}

// LogRecord is one decoded input line.
type LogRecord struct {
	Timestamp string
	Severity  string
	Kind      string
	Payload   Payload
	Raw       string
	// Document is the whole record as plain Go values. Only set when the
	// decoder was asked for it (jq queries).
	Document map[string]any
}

// Payload is the "v" field of a record. It is one of MappingPayload,
// TextPayload or OtherPayload.
type Payload interface {
	isPayload()
}

// Pair is a key and its rendered value.
type Pair struct {
	Key   string
	Value string
}

// MappingPayload keeps the object's keys in input order.
type MappingPayload struct {
	Pairs []Pair
}

// TextPayload is a plain string message.
type TextPayload struct {
	Text string
}

// OtherPayload is any value that is neither an object nor a string.
type OtherPayload struct {
	TypeName string
}

func (MappingPayload) isPayload() {}
func (TextPayload) isPayload()    {}
func (OtherPayload) isPayload()   {}

// OutputOptions controls how a matching record is written.
type OutputOptions struct {
	Raw   bool // write matching lines unchanged
	Color bool
}

// Stats counts what happened to the input lines of one run.
type Stats struct {
	Lines     int
	Rendered  int
	Filtered  int
	Malformed int
}
