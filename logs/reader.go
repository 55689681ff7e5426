package logs

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"syscall"

	"github.com/rs/zerolog/log"
)

// stdinName is the file argument that stands for standard input.
const stdinName = "-"

// Printer runs the read, decode, filter, render loop.
type Printer struct {
	In           io.Reader // used when no files are given, or for "-"
	Out          io.Writer
	Filter       *LogFilter
	Formatter    *Formatter
	Strict       bool
	MaxLineBytes int

	decoder   *Decoder
	stats     Stats
	firstSkip error
}

// Stats returns the counters of the last run.
func (p *Printer) Stats() Stats {
	return p.stats
}

// Run processes every file in order, or In when files is empty. A closed
// output pipe ends the run without error. In strict mode the first malformed
// line ends the run with a *DecodeError; otherwise malformed lines are
// skipped and reported once at the end.
func (p *Printer) Run(ctx context.Context, files []string) error {
	p.decoder = NewDecoder(p.Filter.NeedsDocument())
	p.stats = Stats{}
	p.firstSkip = nil

	if len(files) == 0 {
		files = []string{stdinName}
	}

	var err error
	for _, name := range files {
		if err = p.runFile(ctx, name); err != nil {
			break
		}
	}

	if isBrokenPipe(err) {
		log.Debug().
			Str("component", "printer").
			Msg("Output closed, stopping")
		err = nil
	}

	p.reportSkipped()

	log.Debug().
		Str("component", "printer").
		Int("lines", p.stats.Lines).
		Int("rendered", p.stats.Rendered).
		Int("filtered", p.stats.Filtered).
		Int("malformed", p.stats.Malformed).
		Msg("Finished")

	return err
}

func (p *Printer) runFile(ctx context.Context, name string) error {
	var in io.Reader
	if name == stdinName {
		in = p.In
	} else {
		file, err := os.Open(name)
		if err != nil {
			return fmt.Errorf("failed to open log file %s: %w", name, err)
		}
		defer file.Close()
		in = file
	}

	scanner := bufio.NewScanner(in)
	maxLine := p.MaxLineBytes
	if maxLine <= 0 {
		maxLine = bufio.MaxScanTokenSize
	}
	scanner.Buffer(make([]byte, 0, min(maxLine, 64*1024)), maxLine)

	lineNo := 0
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		lineNo++

		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		p.stats.Lines++

		if err := p.processLine(ctx, name, lineNo, line); err != nil {
			return err
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read %s: %w", displayName(name), err)
	}
	return nil
}

func (p *Printer) processLine(ctx context.Context, name string, lineNo int, line string) error {
	rec, err := p.decoder.Decode(line)
	if err != nil {
		decodeErr := &DecodeError{Source: displayName(name), Line: lineNo, Err: err}
		if p.Strict {
			return decodeErr
		}
		p.stats.Malformed++
		if p.firstSkip == nil {
			p.firstSkip = decodeErr
		}
		log.Debug().
			Str("component", "printer").
			Err(decodeErr).
			Msg("Skipping malformed line")
		return nil
	}

	if !p.Filter.Matches(ctx, rec) {
		p.stats.Filtered++
		return nil
	}

	if _, err := io.WriteString(p.Out, p.Formatter.Format(rec)); err != nil {
		return err
	}
	p.stats.Rendered++
	return nil
}

func (p *Printer) reportSkipped() {
	if p.stats.Malformed == 0 {
		return
	}
	log.Warn().
		Str("component", "printer").
		Int("skipped", p.stats.Malformed).
		AnErr("first_error", p.firstSkip).
		Msg("Skipped malformed lines")
}

func displayName(name string) string {
	if name == stdinName {
		return "<stdin>"
	}
	return name
}

func isBrokenPipe(err error) bool {
	return err != nil && errors.Is(err, syscall.EPIPE)
}
