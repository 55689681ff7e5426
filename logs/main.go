package logs

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/monobilisim/tablog/common"
)

type cmdFlags struct {
	debug    bool
	version  bool
	severity []string
	types    []string
	files    []string
	where    string
	raw      bool
	strict   bool
	color    string
	config   string
}

// UsageError marks a problem with the command line rather than the input.
type UsageError struct {
	Err error
}

func (e *UsageError) Error() string {
	return e.Err.Error()
}

func (e *UsageError) Unwrap() error {
	return e.Err
}

// multiValueFlags take one or more space separated values.
var multiValueFlags = map[string]bool{
	"--severity": true,
	"--type":     true,
	"--file":     true,
}

// NewLogsCmd returns the tablog command.
func NewLogsCmd(version string) *cobra.Command {
	var flags cmdFlags

	var logsCmd = &cobra.Command{
		Use:   "tablog",
		Short: "Print human readable Tableau log files",
		Long: `Print human readable Tableau log files.

Reads newline-delimited JSON log records from the given files, or from
standard input, and prints each one as a block of text. Records can be
narrowed down by severity, message type or a jq expression.

Examples:
  tablog --file hyperd.txt
  tablog --severity warn error --file log.txt log_1.txt
  tablog --type begin-query end-query < log.txt
  tablog --where '.v.elapsed > 1' --file log.txt
  tablog --raw --severity error --file log.txt | jq .v`,
		Version:       version,
		Args:          noPositionalArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return executeLogsCmd(cmd, flags)
		},
	}

	logsCmd.SetVersionTemplate("{{.Version}}\n")
	logsCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &UsageError{Err: err}
	})

	addFlags(logsCmd, &flags)
	return logsCmd
}

func addFlags(cmd *cobra.Command, flags *cmdFlags) {
	cmd.Flags().BoolVar(&flags.version, "version", false, "show program's version number and exit")
	cmd.Flags().BoolVar(&flags.debug, "debug", false, "print the resolved filters before processing")
	cmd.Flags().StringSliceVar(&flags.severity, "severity", nil,
		"specify the severity for filtering, values can be: "+strings.Join(KnownSeverities, ", "))
	cmd.Flags().StringSliceVar(&flags.types, "type", nil,
		"specify the message type for filtering, values can be: "+strings.Join(KnownKinds, ", "))
	cmd.Flags().StringArrayVar(&flags.files, "file", nil,
		"specify the log file(s) to be printed. Otherwise standard input will be taken")
	cmd.Flags().StringVar(&flags.where, "where", "", "only print records for which this jq expression is truthy")
	cmd.Flags().BoolVar(&flags.raw, "raw", false, "print matching records as their original JSON line")
	cmd.Flags().BoolVar(&flags.strict, "strict", false, "stop at the first malformed line instead of skipping it")
	cmd.Flags().StringVar(&flags.color, "color", "", "colorize severities: auto, always or never (default auto)")
	cmd.Flags().StringVar(&flags.config, "config", "", "path to a tablog.yaml config file")

	cmd.Flags().MarkHidden("debug")
}

func noPositionalArgs(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		return &UsageError{Err: fmt.Errorf("unrecognized arguments: %s", strings.Join(args, " "))}
	}
	return nil
}

// ExpandMultiValueArgs rewrites "--severity a b" into
// "--severity a --severity b" for every multi-value flag, so that the flag
// parser sees one value per occurrence. A multi-value flag followed by no
// value is a usage error.
func ExpandMultiValueArgs(args []string) ([]string, error) {
	out := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			out = append(out, args[i:]...)
			break
		}
		if !multiValueFlags[arg] {
			out = append(out, arg)
			continue
		}

		n := 0
		for i+1 < len(args) && !isFlagLike(args[i+1]) {
			i++
			out = append(out, arg, args[i])
			n++
		}
		if n == 0 {
			return nil, &UsageError{Err: fmt.Errorf("argument %s: expected at least one argument", arg)}
		}
	}
	return out, nil
}

// isFlagLike treats a lone "-" as a value (standard input).
func isFlagLike(s string) bool {
	return len(s) > 1 && s[0] == '-'
}

func executeLogsCmd(cmd *cobra.Command, flags cmdFlags) error {
	var conf common.Tablog
	if err := common.ConfInit("tablog", flags.config, &conf); err != nil {
		return err
	}

	changed := cmd.Flags().Changed
	severities := conf.Severity
	if changed("severity") {
		severities = flags.severity
	}
	kinds := conf.Type
	if changed("type") {
		kinds = flags.types
	}
	where := conf.Where
	if changed("where") {
		where = flags.where
	}
	raw := conf.Raw || flags.raw
	strict := conf.Strict || flags.strict
	colorMode := conf.Color
	if changed("color") {
		colorMode = flags.color
	}

	if err := validateChoices("severity", severities, KnownSeverities); err != nil {
		return err
	}
	if err := validateChoices("type", kinds, KnownKinds); err != nil {
		return err
	}
	colorMode, err := common.ParseColorMode(colorMode)
	if err != nil {
		return &UsageError{Err: fmt.Errorf("argument --color: %w", err)}
	}

	var query *Query
	if where != "" {
		query, err = CompileQuery(where)
		if err != nil {
			return &UsageError{Err: fmt.Errorf("argument --where: %w", err)}
		}
	}

	out := cmd.OutOrStdout()
	if flags.debug {
		fmt.Fprintln(out, strings.Repeat("=", lineWidth))
		fmt.Fprintln(out, "DEBUG severity_filter:", severities)
		fmt.Fprintln(out, "DEBUG message_type   :", kinds)
		fmt.Fprintln(out, "DEBUG log_file       :", flags.files)
		fmt.Fprintln(out, strings.Repeat("=", lineWidth))
	}

	styles := common.NewStyles(out, colorMode)
	printer := &Printer{
		In:           cmd.InOrStdin(),
		Out:          out,
		Filter:       NewLogFilter(severities, kinds, query),
		Formatter:    NewFormatter(OutputOptions{Raw: raw, Color: styles.Enabled()}, styles),
		Strict:       strict,
		MaxLineBytes: conf.Max_line_bytes,
	}

	log.Debug().
		Str("component", "logs").
		Strs("severity", severities).
		Strs("type", kinds).
		Strs("files", flags.files).
		Str("where", where).
		Bool("raw", raw).
		Bool("strict", strict).
		Str("color", colorMode).
		Msg("Starting")

	return printer.Run(cmd.Context(), flags.files)
}
