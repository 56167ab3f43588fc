package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"extrafiles/internal/relocate"
	"extrafiles/internal/textutil"
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
)

const (
	formatAuto  = "auto"
	formatTable = "table"
	formatPlain = "plain"
)

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func shouldColorize(w io.Writer) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	return isTerminal(w)
}

// resolveFormat turns the --format flag into table or plain. Auto picks a
// table only for terminals.
func resolveFormat(w io.Writer, format string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", formatAuto:
		return textutil.Ternary(isTerminal(w), formatTable, formatPlain), nil
	case formatTable:
		return formatTable, nil
	case formatPlain:
		return formatPlain, nil
	default:
		return "", fmt.Errorf("unsupported format %q (use auto, table or plain)", format)
	}
}

func writeRows(w io.Writer, format string, headers []string, rows [][]string, aligns []columnAlignment) {
	if format == formatTable {
		fmt.Fprintln(w, renderTable(headers, rows, aligns))
		return
	}
	fmt.Fprint(w, renderPlain(rows))
}

func pluralize(count int, singular, plural string) string {
	return fmt.Sprintf("%d %s", count, textutil.Ternary(count == 1, singular, plural))
}

// summaryLine describes a relocation summary in one sentence.
func summaryLine(summary relocate.Summary, action string, colorize bool) string {
	verb := "Relocated"
	switch action {
	case relocate.ActionCopy:
		verb = "Copied"
	case relocate.ActionDryRun:
		verb = "Would relocate"
	}
	done := summary.Moved
	if action == relocate.ActionDryRun {
		done = summary.Skipped
	}
	line := fmt.Sprintf("%s %s", verb, pluralize(done, "extra file", "extra files"))
	if summary.Failed > 0 {
		line += fmt.Sprintf(" (%d failed)", summary.Failed)
	}
	if !colorize {
		return line
	}
	switch {
	case summary.Failed > 0:
		return ansiRed + line + ansiReset
	case done == 0:
		return ansiYellow + line + ansiReset
	default:
		return ansiGreen + line + ansiReset
	}
}

func writeFailures(w io.Writer, failures []relocate.Failure) {
	for _, failure := range failures {
		fmt.Fprintf(w, "  %s -> %s: %v\n", failure.Entry.Source, failure.Entry.Destination, failure.Err)
	}
}
