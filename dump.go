package smoldb

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const dumpLineWidth = 16

var (
	headerColor    = lipgloss.AdaptiveColor{Light: "#9CA3AF", Dark: "#6C7086"}
	recordColor    = lipgloss.AdaptiveColor{Light: "#059669", Dark: "#A6E3A1"}
	directoryColor = lipgloss.AdaptiveColor{Light: "#2563EB", Dark: "#89B4FA"}
	trailerColor   = lipgloss.AdaptiveColor{Light: "#D97706", Dark: "#F9E2AF"}
)

type dumpStyles struct {
	header    lipgloss.Style
	record    lipgloss.Style
	directory lipgloss.Style
	trailer   lipgloss.Style
	label     lipgloss.Style
}

// newDumpStyles binds the styles to w, so colours are dropped when w is not
// a terminal.
func newDumpStyles(w io.Writer) dumpStyles {
	r := lipgloss.NewRenderer(w)
	return dumpStyles{
		header:    r.NewStyle().Foreground(headerColor),
		record:    r.NewStyle().Foreground(recordColor),
		directory: r.NewStyle().Foreground(directoryColor),
		trailer:   r.NewStyle().Foreground(trailerColor).Bold(true),
		label:     r.NewStyle().Foreground(trailerColor),
	}
}

func (s dumpStyles) at(off int) lipgloss.Style {
	switch {
	case off < recordAreaStart:
		return s.header
	case off < recordAreaEnd:
		return s.record
	case off < directoryEnd:
		return s.directory
	case off >= posRecordCount:
		return s.trailer
	default:
		return s.header
	}
}

// Dump writes an xxd style dump of p followed by a legend of the trailer.
func Dump(w io.Writer, p *Page) error {
	s := newDumpStyles(w)
	var sb strings.Builder
	for line := 0; line < PageSize; line += dumpLineWidth {
		fmt.Fprintf(&sb, "%08x:", line)
		for off := line; off < line+dumpLineWidth; off++ {
			if off%2 == 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(s.at(off).Render(fmt.Sprintf("%02x", p.buf[off])))
		}
		sb.WriteString("  ")
		for off := line; off < line+dumpLineWidth; off++ {
			c := p.buf[off]
			if c < 0x20 || c > 0x7e {
				c = '.'
			}
			sb.WriteByte(c)
		}
		sb.WriteByte('\n')
	}
	sb.WriteString(strings.Join([]string{
		s.header.Render("header"),
		s.record.Render("records"),
		s.directory.Render("directory"),
		s.trailer.Render("trailer"),
	}, " | "))
	sb.WriteByte('\n')
	legend := []struct {
		name string
		pos  int
	}{
		{"record count", posRecordCount},
		{"next order", posNextOrder},
		{"has space", posHasSpace},
	}
	for _, l := range legend {
		fmt.Fprintf(&sb, "%s @0x%02x = %d\n", s.label.Render(fmt.Sprintf("%-12s", l.name)), l.pos, p.buf[l.pos])
	}
	_, err := io.WriteString(w, sb.String())
	return err
}
