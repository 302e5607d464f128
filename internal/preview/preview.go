// Package preview renders the LED strip as a row of colored cells on a
// terminal, so the show can run without hardware attached.
package preview

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

// Strip is a terminal-backed strip. It satisfies the daemon's Strip
// interface.
type Strip struct {
	w   io.Writer
	pix []uint32
}

// New creates a preview strip writing to w.
func New(w io.Writer) *Strip {
	return &Strip{w: w}
}

// Init sizes the pixel buffer.
func (s *Strip) Init(numLEDs int) error {
	s.pix = make([]uint32, numLEDs)
	return nil
}

// SetPixel stores a packed color for the pixel at the given index.
func (s *Strip) SetPixel(i int, c uint32) {
	s.pix[i] = c
}

// Show redraws the strip in place, one styled cell per pixel.
func (s *Strip) Show() error {
	var b strings.Builder
	for _, c := range s.pix {
		col := colorful.Color{
			R: float64((c>>8)&0xff) / 255,
			G: float64((c>>16)&0xff) / 255,
			B: float64(c&0xff) / 255,
		}
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(col.Hex()))
		b.WriteString(style.Render("█"))
	}
	_, err := fmt.Fprintf(s.w, "\r%s", b.String())
	return err
}

// Clear blanks the strip and moves past the preview line.
func (s *Strip) Clear() error {
	for i := range s.pix {
		s.pix[i] = 0
	}
	if err := s.Show(); err != nil {
		return err
	}
	_, err := fmt.Fprintln(s.w)
	return err
}

// Close is a no-op; the writer is not owned by the strip.
func (s *Strip) Close() error {
	return nil
}
