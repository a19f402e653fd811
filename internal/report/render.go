package report

import (
	"bytes"
	"fmt"
	"io"
	"strconv"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	xxhash "github.com/cespare/xxhash/v2"
	"github.com/olekukonko/tablewriter"
	"github.com/redactyl/imgstrip/internal/extract"
	"github.com/redactyl/imgstrip/internal/pipeline"
)

type PrintOptions struct {
	Source string // file name shown in the header, "" for stdin
}

// PrintItems renders the unique payloads of a run as a table. paths lists
// every match location; it is summarised per item in the LOCATIONS column.
func PrintItems(w io.Writer, items []pipeline.Item, paths map[string][]string, opts PrintOptions) error {
	if len(items) == 0 {
		fmt.Fprintln(w, "No payloads found")
		return nil
	}
	if opts.Source != "" {
		fmt.Fprintf(w, "%s: %d unique payload(s)\n", opts.Source, len(items))
	}
	table := tablewriter.NewWriter(w)
	table.Header("ID", "FINGERPRINT", "SIZE", "PREVIEW", "LOCATIONS")
	for _, it := range items {
		locs := paths[it.Value]
		loc := "-"
		if len(locs) > 0 {
			loc = locs[0]
			if len(locs) > 1 {
				loc += fmt.Sprintf(" (+%d)", len(locs)-1)
			}
		}
		if err := table.Append(
			strconv.Itoa(it.ID),
			Fingerprint(it.Value),
			humanSize(len(it.Value)),
			MaskValue(it.Value),
			loc,
		); err != nil {
			return err
		}
	}
	return table.Render()
}

// Fingerprint is a short stable identifier for a payload.
func Fingerprint(payload string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(payload))
}

// MaskValue shortens long payloads to their first and last characters,
// cutting on rune boundaries.
func MaskValue(s string) string {
	r := []rune(s)
	if len(r) <= 16 {
		return s
	}
	return string(r[:10]) + "…" + string(r[len(r)-4:])
}

func humanSize(n int) string {
	switch {
	case n < 1<<10:
		return fmt.Sprintf("%d B", n)
	case n < 1<<20:
		return fmt.Sprintf("%.1f KiB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%.1f MiB", float64(n)/(1<<20))
	}
}

// Highlight colours JSON for a 256-colour terminal. On any formatter error
// the input is returned unchanged.
func Highlight(code string) string {
	lexer := lexers.Get("json")
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := styles.Get("monokai")
	if style == nil {
		style = styles.Fallback
	}

	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return code
	}

	var buf bytes.Buffer
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return code
	}
	return buf.String()
}

// GroupPaths maps each payload to the pointers it was found at.
func GroupPaths(matches []extract.Location) map[string][]string {
	out := make(map[string][]string, len(matches))
	for _, m := range matches {
		out[m.Value] = append(out[m.Value], m.Path)
	}
	return out
}
