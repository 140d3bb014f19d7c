// Package terminal owns the controlling terminal for the editor: it puts
// the terminal into raw mode with a short read timeout, reports its size,
// and puts everything back on every exit path.
package terminal

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"golang.org/x/sys/unix"
	"golang.org/x/term"

	"github.com/barun-bash/kilo/internal/cli"
)

// ErrNotTerminal is returned by Enter when input is not a terminal.
var ErrNotTerminal = errors.New("not a terminal")

const (
	escClearScreen = "\x1b[2J"
	escCursorHome  = "\x1b[H"
	escCursorMax   = "\x1b[999C\x1b[999B"
	escQueryCursor = "\x1b[6n"
)

// Session is a raw-mode session on one terminal.
type Session struct {
	in          *os.File
	out         io.Writer
	outFd       int
	readTimeout time.Duration
	orig        *unix.Termios // nil until Enter succeeds, and again after Leave

	errOut io.Writer
	exit   func(code int)
}

// New creates a session reading keys from in and drawing to out. Reads in
// raw mode return after readTimeout even when no byte arrived.
func New(in, out *os.File, readTimeout time.Duration) *Session {
	return &Session{
		in:          in,
		out:         out,
		outFd:       int(out.Fd()),
		readTimeout: readTimeout,
		errOut:      os.Stderr,
		exit:        os.Exit,
	}
}

// Enter saves the current terminal attributes and switches to raw mode:
// no echo, no canonical line editing, no signal keys, no output
// post-processing, and reads bounded by the read timeout.
func (s *Session) Enter() error {
	fd := int(s.in.Fd())
	if !term.IsTerminal(fd) {
		return fmt.Errorf("stdin: %w", ErrNotTerminal)
	}
	orig, err := unix.IoctlGetTermios(fd, ioctlGetTermios)
	if err != nil {
		return fmt.Errorf("tcgetattr: %w", err)
	}

	raw := *orig
	raw.Iflag &^= unix.BRKINT | unix.ICRNL | unix.INPCK | unix.ISTRIP | unix.IXON
	raw.Oflag &^= unix.OPOST
	raw.Cflag |= unix.CS8
	raw.Lflag &^= unix.ECHO | unix.ICANON | unix.IEXTEN | unix.ISIG
	raw.Cc[unix.VMIN] = 0
	raw.Cc[unix.VTIME] = vtime(s.readTimeout)

	if err := unix.IoctlSetTermios(fd, ioctlSetTermios, &raw); err != nil {
		return fmt.Errorf("tcsetattr: %w", err)
	}
	s.orig = orig
	return nil
}

// Leave restores the attributes saved by Enter. It is safe to call more
// than once and before Enter.
func (s *Session) Leave() error {
	if s.orig == nil {
		return nil
	}
	if err := unix.IoctlSetTermios(int(s.in.Fd()), ioctlSetTermios, s.orig); err != nil {
		return fmt.Errorf("tcsetattr: %w", err)
	}
	s.orig = nil
	return nil
}

// Size returns the terminal dimensions. When the window-size ioctl is not
// available it moves the cursor to the bottom-right corner and asks the
// terminal where it ended up.
func (s *Session) Size() (rows, cols int, err error) {
	cols, rows, err = term.GetSize(s.outFd)
	if err == nil && cols > 0 {
		return rows, cols, nil
	}
	if _, err := io.WriteString(s.out, escCursorMax); err != nil {
		return 0, 0, fmt.Errorf("getWindowSize: %w", err)
	}
	rows, cols, err = s.cursorPosition()
	if err != nil {
		return 0, 0, fmt.Errorf("getWindowSize: %w", err)
	}
	return rows, cols, nil
}

// cursorPosition sends a cursor position query and parses the reply.
func (s *Session) cursorPosition() (row, col int, err error) {
	if _, err := io.WriteString(s.out, escQueryCursor); err != nil {
		return 0, 0, err
	}
	var buf []byte
	b := make([]byte, 1)
	for len(buf) < 32 {
		n, _ := s.in.Read(b)
		if n != 1 {
			break
		}
		if b[0] == 'R' {
			break
		}
		buf = append(buf, b[0])
	}
	return parseCursorReport(buf)
}

// parseCursorReport parses "ESC [ rows ; cols" (the reply without its
// trailing R).
func parseCursorReport(buf []byte) (row, col int, err error) {
	if len(buf) < 2 || buf[0] != 0x1b || buf[1] != '[' {
		return 0, 0, fmt.Errorf("malformed cursor report %q", buf)
	}
	r, c, ok := bytes.Cut(buf[2:], []byte(";"))
	if !ok {
		return 0, 0, fmt.Errorf("malformed cursor report %q", buf)
	}
	if row, err = strconv.Atoi(string(r)); err != nil {
		return 0, 0, fmt.Errorf("malformed cursor report %q: %w", buf, err)
	}
	if col, err = strconv.Atoi(string(c)); err != nil {
		return 0, 0, fmt.Errorf("malformed cursor report %q: %w", buf, err)
	}
	if row < 1 || col < 1 {
		return 0, 0, fmt.Errorf("cursor report out of range %q", buf)
	}
	return row, col, nil
}

// Die clears the screen, restores the terminal, reports err and exits with
// status 1.
func (s *Session) Die(err error) {
	io.WriteString(s.out, escClearScreen+escCursorHome)
	if lerr := s.Leave(); lerr != nil {
		fmt.Fprintln(s.errOut, cli.Error(lerr.Error()))
	}
	fmt.Fprintln(s.errOut, cli.Error(err.Error()))
	s.exit(1)
}

// vtime converts d to the VTIME deciseconds unit, clamped to 1..255.
func vtime(d time.Duration) uint8 {
	ds := (d + 100*time.Millisecond - 1) / (100 * time.Millisecond)
	if ds < 1 {
		return 1
	}
	if ds > 255 {
		return 255
	}
	return uint8(ds)
}
