package render

import (
	"bufio"
	"fmt"
	"io"

	"github.com/san-kum/lifesim/internal/engine"
)

const (
	clearScreen = "\033[2J\033[H"
	hideCursor  = "\033[?25l"
	showCursor  = "\033[?25h"
)

// Terminal redraws changed cells in place with ANSI cursor addressing, so a
// generation costs as many writes as it has changes. Each cell is two
// columns wide to keep it roughly square.
type Terminal struct {
	w       *bufio.Writer
	originY int
	err     error
}

// NewTerminal draws below headerLines lines of status text.
func NewTerminal(w io.Writer, headerLines int) *Terminal {
	return &Terminal{w: bufio.NewWriter(w), originY: headerLines}
}

func (t *Terminal) Start() {
	t.write(hideCursor + clearScreen)
}

func (t *Terminal) Stop() error {
	t.write(fmt.Sprintf("\033[%d;1H", t.originY+1) + showCursor)
	return t.Flush()
}

func (t *Terminal) Apply(ch engine.Change) {
	glyph := "  "
	if ch.Alive {
		glyph = string([]rune{Alive, Alive})
	}
	// ANSI rows and columns are 1-based
	t.write(fmt.Sprintf("\033[%d;%dH%s", t.originY+ch.Y+1, ch.X*2+1, glyph))
}

// Status rewrites the header line.
func (t *Terminal) Status(line string) {
	t.write("\033[1;1H\033[2K" + line)
}

// Flush pushes buffered output and reports the first write error.
func (t *Terminal) Flush() error {
	if t.err != nil {
		return t.err
	}
	t.err = t.w.Flush()
	return t.err
}

func (t *Terminal) write(s string) {
	if t.err != nil {
		return
	}
	_, t.err = t.w.WriteString(s)
}
