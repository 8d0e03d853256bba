package loop

import (
	"bufio"
	"io"
)

const (
	keyCtrlC = 0x03
	keyEsc   = 0x1b
)

var keyCommands = map[byte]Command{
	'k': Up, 'j': Down, 'h': Left, 'l': Right,
	' ': PauseResume,
	'r': RewindToggle,
	'x': ToggleCell, '\r': ToggleCell, '\n': ToggleCell,
	'[': Back, ']': Forward,
	's': Step,
	'q': Exit, keyCtrlC: Exit,
}

var arrowCommands = map[byte]Command{
	'A': Up, 'B': Down, 'C': Right, 'D': Left,
}

// Keys decodes key presses from a raw terminal into commands. A goroutine
// reads ahead so Poll never blocks.
type Keys struct {
	cmds chan Command
}

// NewKeys starts reading r. Reading stops at the first error; after that
// Poll only reports buffered commands.
func NewKeys(r io.Reader) *Keys {
	k := &Keys{cmds: make(chan Command, 16)}
	go k.read(bufio.NewReader(r))
	return k
}

func (k *Keys) read(r *bufio.Reader) {
	defer close(k.cmds)
	for {
		b, err := r.ReadByte()
		if err != nil {
			return
		}
		cmd, ok := keyCommands[b]
		if b == keyEsc {
			cmd, ok = readArrow(r)
		}
		if ok {
			k.cmds <- cmd
		}
	}
}

// readArrow decodes the rest of an ESC [ A..D sequence.
func readArrow(r *bufio.Reader) (Command, bool) {
	if b, err := r.ReadByte(); err != nil || b != '[' {
		return None, false
	}
	b, err := r.ReadByte()
	if err != nil {
		return None, false
	}
	cmd, ok := arrowCommands[b]
	return cmd, ok
}

func (k *Keys) Poll() (Command, bool) {
	select {
	case cmd, ok := <-k.cmds:
		return cmd, ok
	default:
		return None, false
	}
}
