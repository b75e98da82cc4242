package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/tsawler/pdfxref/core"
)

var (
	// titleStyle for bold section headers
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("33"))

	// keyStyle for dictionary keys and labels
	keyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("81"))

	// dimStyle for muted metadata text
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	// freeStyle for free xref entries
	freeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	// compressedStyle for entries stored in object streams
	compressedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	// errorStyle for error messages
	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))
)

func writeTitle(w io.Writer, title string) {
	fmt.Fprintln(w, titleStyle.Render(title))
}

// writeField prints one aligned label and value.
func writeField(w io.Writer, label string, value string) {
	fmt.Fprintf(w, "  %s %s\n", keyStyle.Render(fmt.Sprintf("%-14s", label)), value)
}

func writeDict(w io.Writer, d *core.Dict) {
	for _, key := range d.Keys() {
		writeField(w, "/"+string(key), d.Get(key).String())
	}
}

// writeEntry prints one merged xref entry.
func writeEntry(w io.Writer, num int, e core.XRefEntry) {
	switch e.Type {
	case core.XRefInUse:
		fmt.Fprintf(w, "  %6d  %-10s offset %d gen %d\n", num, e.Type, e.Offset, e.Generation)
	case core.XRefCompressed:
		fmt.Fprintf(w, "  %6d  %s stream %d index %d\n", num,
			compressedStyle.Render(fmt.Sprintf("%-10s", e.Type)), e.StreamNumber, e.Index)
	default:
		fmt.Fprintln(w, freeStyle.Render(fmt.Sprintf("  %6d  %-10s next %d gen %d", num, e.Type, e.Offset, e.Generation)))
	}
}

// preview renders up to n bytes of data, escaping non-printable bytes.
func preview(data []byte, n int) string {
	truncated := len(data) > n
	if truncated {
		data = data[:n]
	}

	var sb strings.Builder
	for _, c := range data {
		switch {
		case c == '\n':
			sb.WriteString(`\n`)
		case c == '\r':
			sb.WriteString(`\r`)
		case c >= 0x20 && c < 0x7F:
			sb.WriteByte(c)
		default:
			fmt.Fprintf(&sb, `\x%02x`, c)
		}
	}
	if truncated {
		sb.WriteString(dimStyle.Render("..."))
	}
	return sb.String()
}

func formatBox(box []float64) string {
	parts := make([]string, len(box))
	for i, v := range box {
		parts[i] = strconv.FormatFloat(v, 'f', -1, 64)
	}
	return "[" + strings.Join(parts, " ") + "]"
}
