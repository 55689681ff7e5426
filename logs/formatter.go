package logs

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/monobilisim/tablog/common"
)

const (
	lineWidth     = 80
	messageIndent = "    "
	severityWidth = 6
	keyWidth      = 16
)

var separator = strings.Repeat("-", lineWidth)

// Formatter turns records into output blocks.
type Formatter struct {
	options OutputOptions
	styles  *common.Styles
}

// NewFormatter returns a Formatter. styles may be nil when options.Color is
// off.
func NewFormatter(options OutputOptions, styles *common.Styles) *Formatter {
	return &Formatter{options: options, styles: styles}
}

// Format returns the text written for rec, including the trailing newline.
func (f *Formatter) Format(rec LogRecord) string {
	if f.options.Raw {
		return rec.Raw + "\n"
	}

	var result strings.Builder
	result.WriteString(separator)
	result.WriteString("\n")
	result.WriteString(rec.Timestamp)
	result.WriteString(" | ")
	result.WriteString(f.severity(rec.Severity))
	result.WriteString(" | ")
	result.WriteString(rec.Kind)
	result.WriteString(" :\n")
	result.WriteString(strings.Join(formatMessage(rec.Payload), "\n"))
	result.WriteString("\n")
	return result.String()
}

func (f *Formatter) severity(sev string) string {
	padded := runewidth.FillRight(sev, severityWidth)
	if !f.options.Color || f.styles == nil {
		return padded
	}
	return f.styles.Severity(sev).Render(padded)
}

func formatMessage(p Payload) []string {
	switch msg := p.(type) {
	case MappingPayload:
		return formatMapping(msg)
	case TextPayload:
		return wrapText(msg.Text, lineWidth, messageIndent)
	case OtherPayload:
		return []string{">   message has type " + msg.TypeName}
	default:
		return nil
	}
}

// formatMapping puts each pair on its own line, unwrapped.
func formatMapping(m MappingPayload) []string {
	lines := make([]string, 0, len(m.Pairs))
	for _, pair := range m.Pairs {
		lines = append(lines, messageIndent+runewidth.FillRight(pair.Key, keyWidth)+": "+pair.Value)
	}
	return lines
}
