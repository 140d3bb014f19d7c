package editor

import (
	"errors"
	"fmt"
	"io"
)

// Key is a logical key event: either a literal input byte (0..255) or one
// of the named keys below.
type Key int

// Literal bytes the editor gives meaning to.
const (
	KeyTab       Key = '\t'
	KeyEnter     Key = '\r'
	KeyEscape    Key = 0x1b
	KeyBackspace Key = 127
)

// Named keys decoded from escape sequences. They start above the byte range
// so they never collide with a literal.
const (
	KeyArrowLeft Key = iota + 1000
	KeyArrowRight
	KeyArrowUp
	KeyArrowDown
	KeyDelete
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
)

// CtrlKey returns the key produced by holding Ctrl with c.
func CtrlKey(c byte) Key { return Key(c & 0x1f) }

// IsNamed reports whether k is one of the decoded escape-sequence keys.
func (k Key) IsNamed() bool { return k >= KeyArrowLeft }

// IsControl reports whether k is an ASCII control byte.
func (k Key) IsControl() bool { return k < 32 || k == 127 }

func (k Key) String() string {
	switch k {
	case KeyArrowLeft:
		return "Left"
	case KeyArrowRight:
		return "Right"
	case KeyArrowUp:
		return "Up"
	case KeyArrowDown:
		return "Down"
	case KeyDelete:
		return "Delete"
	case KeyHome:
		return "Home"
	case KeyEnd:
		return "End"
	case KeyPageUp:
		return "PageUp"
	case KeyPageDown:
		return "PageDown"
	case KeyEnter:
		return "Enter"
	case KeyEscape:
		return "Escape"
	case KeyBackspace:
		return "Backspace"
	case KeyTab:
		return "Tab"
	}
	if k >= 1 && k <= 26 {
		return fmt.Sprintf("Ctrl-%c", 'A'+byte(k)-1)
	}
	return fmt.Sprintf("%q", rune(k))
}

// ErrNoInput is returned by ReadKey when the read timeout expired before
// any byte arrived. Callers poll again.
var ErrNoInput = errors.New("no input available")

// KeyDecoder turns a raw byte stream into logical keys. The reader is
// expected to return (0, nil) or (0, io.EOF) when its read timeout expires,
// which is how a raw-mode terminal with VMIN=0 behaves.
type KeyDecoder struct {
	r   io.Reader
	buf [1]byte
}

// NewKeyDecoder creates a decoder reading from r.
func NewKeyDecoder(r io.Reader) *KeyDecoder {
	return &KeyDecoder{r: r}
}

// readByte returns ok=false on a short read (timeout or end of input).
func (d *KeyDecoder) readByte() (byte, bool, error) {
	n, err := d.r.Read(d.buf[:])
	if n == 1 {
		return d.buf[0], true, nil
	}
	if err != nil && !errors.Is(err, io.EOF) {
		return 0, false, err
	}
	return 0, false, nil
}

// ReadKey decodes exactly one key. A lone ESC, a truncated sequence and an
// unrecognized sequence all decode as KeyEscape.
func (d *KeyDecoder) ReadKey() (Key, error) {
	c, ok, err := d.readByte()
	if err != nil {
		return 0, fmt.Errorf("reading input: %w", err)
	}
	if !ok {
		return 0, ErrNoInput
	}
	if c != byte(KeyEscape) {
		return Key(c), nil
	}
	return d.readEscapeSeq()
}

// readEscapeSeq decodes what follows an ESC byte.
func (d *KeyDecoder) readEscapeSeq() (Key, error) {
	var seq [3]byte
	for i := 0; i < 2; i++ {
		b, ok, err := d.readByte()
		if err != nil {
			return 0, fmt.Errorf("reading escape sequence: %w", err)
		}
		if !ok {
			return KeyEscape, nil
		}
		seq[i] = b
	}

	switch seq[0] {
	case '[':
		if seq[1] >= '0' && seq[1] <= '9' {
			b, ok, err := d.readByte()
			if err != nil {
				return 0, fmt.Errorf("reading escape sequence: %w", err)
			}
			if !ok {
				return KeyEscape, nil
			}
			seq[2] = b
			if seq[2] == '~' {
				return tildeKey(seq[1]), nil
			}
			return KeyEscape, nil
		}
		switch seq[1] {
		case 'A':
			return KeyArrowUp, nil
		case 'B':
			return KeyArrowDown, nil
		case 'C':
			return KeyArrowRight, nil
		case 'D':
			return KeyArrowLeft, nil
		case 'H':
			return KeyHome, nil
		case 'F':
			return KeyEnd, nil
		}
	case 'O': // SS3: some terminals send Home/End this way
		switch seq[1] {
		case 'H':
			return KeyHome, nil
		case 'F':
			return KeyEnd, nil
		}
	}
	return KeyEscape, nil
}

// tildeKey maps the digit of an ESC [ <digit> ~ sequence.
func tildeKey(digit byte) Key {
	switch digit {
	case '1', '7':
		return KeyHome
	case '3':
		return KeyDelete
	case '4', '8':
		return KeyEnd
	case '5':
		return KeyPageUp
	case '6':
		return KeyPageDown
	}
	return KeyEscape
}
