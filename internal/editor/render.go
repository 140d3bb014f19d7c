package editor

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/barun-bash/kilo/internal/version"
)

// ANSI escape helpers.
const (
	escClearScreen = "\x1b[2J"
	escCursorHome  = "\x1b[H"
	escClearLine   = "\x1b[K"
	escHideCursor  = "\x1b[?25l"
	escShowCursor  = "\x1b[?25h"
)

// Viewport is the visible window onto the document.
type Viewport struct {
	RowOff int // first visible row
	ColOff int // first visible display column
	Rows   int // text rows, excluding the status and message bars
	Cols   int
}

// Renderer composes a full frame and writes it in one call.
type Renderer struct {
	out io.Writer
	buf bytes.Buffer
}

// NewRenderer creates a renderer writing frames to out.
func NewRenderer(out io.Writer) *Renderer {
	return &Renderer{out: out}
}

// Render draws e.
func (r *Renderer) Render(e *Editor) error {
	r.buf.Reset()
	r.buildFrame(e)
	if _, err := r.out.Write(r.buf.Bytes()); err != nil {
		return fmt.Errorf("writing frame: %w", err)
	}
	return nil
}

// Clear erases the screen and homes the cursor.
func (r *Renderer) Clear() error {
	_, err := io.WriteString(r.out, escClearScreen+escCursorHome)
	return err
}

func (r *Renderer) buildFrame(e *Editor) {
	b := &r.buf
	b.WriteString(escHideCursor)
	b.WriteString(escCursorHome)

	r.drawRows(e)
	r.drawStatusBar(e)
	r.drawMessageBar(e)

	b.WriteString(moveTo(e.cur.Y-e.view.RowOff+1, e.rx-e.view.ColOff+1))
	b.WriteString(escShowCursor)
}

func (r *Renderer) drawRows(e *Editor) {
	b := &r.buf
	v := e.view
	for y := 0; y < v.Rows; y++ {
		fileRow := y + v.RowOff
		if fileRow >= e.doc.NumRows() {
			if e.doc.NumRows() == 0 && y == v.Rows/3 {
				r.drawWelcome(v.Cols)
			} else {
				b.WriteByte('~')
			}
		} else {
			r.drawRow(e.doc.Row(fileRow), v.ColOff, v.Cols)
		}
		b.WriteString(escClearLine)
		b.WriteString("\r\n")
	}
}

func (r *Renderer) drawWelcome(cols int) {
	b := &r.buf
	welcome := fmt.Sprintf("Kilo editor -- version %s", version.Info())
	if len(welcome) > cols {
		welcome = welcome[:cols]
	}
	padding := (cols - len(welcome)) / 2
	if padding > 0 {
		b.WriteByte('~')
		padding--
	}
	b.WriteString(strings.Repeat(" ", padding))
	b.WriteString(welcome)
}

// drawRow writes the visible slice of row, switching colors only where the
// classification changes.
func (r *Renderer) drawRow(row *Row, colOff, cols int) {
	b := &r.buf
	n := row.RenderSize() - colOff
	if n < 0 {
		n = 0
	}
	if n > cols {
		n = cols
	}
	if n == 0 {
		return
	}
	chars := row.render[colOff : colOff+n]
	hl := row.hl[colOff : colOff+n]

	current := -1
	for j, c := range chars {
		switch {
		case Key(c).IsControl():
			sym := byte('?')
			if c <= 26 {
				sym = '@' + c
			}
			b.WriteString(sgrReverse)
			b.WriteByte(sym)
			b.WriteString(sgrReset)
			if current != -1 {
				b.WriteString(sgrColor(current))
			}
		case hl[j] == HLNormal:
			if current != -1 {
				b.WriteString(sgrDefaultFg)
				current = -1
			}
			b.WriteByte(c)
		default:
			color := hl[j].Color()
			if color != current {
				current = color
				b.WriteString(sgrColor(color))
			}
			b.WriteByte(c)
		}
	}
	b.WriteString(sgrDefaultFg)
}

func (r *Renderer) drawStatusBar(e *Editor) {
	b := &r.buf
	cols := e.view.Cols
	b.WriteString(sgrReverse)

	name := e.doc.Filename()
	if name == "" {
		name = "[No Name]"
	}
	name = runewidth.Truncate(name, 20, "")
	modified := ""
	if e.doc.Dirty() {
		modified = "(modified)"
	}
	status := fmt.Sprintf("%s - %d lines %s", name, e.doc.NumRows(), modified)
	rstatus := fmt.Sprintf("%d/%d", e.cur.Y+1, e.doc.NumRows())

	if runewidth.StringWidth(status) > cols {
		status = runewidth.Truncate(status, cols, "")
	}
	b.WriteString(status)
	n := runewidth.StringWidth(status)
	for n < cols {
		if cols-n == len(rstatus) {
			b.WriteString(rstatus)
			break
		}
		b.WriteByte(' ')
		n++
	}
	b.WriteString(sgrReset)
	b.WriteString("\r\n")
}

func (r *Renderer) drawMessageBar(e *Editor) {
	b := &r.buf
	b.WriteString(escClearLine)
	msg := e.StatusMessage()
	if msg == "" {
		return
	}
	b.WriteString(runewidth.Truncate(msg, e.view.Cols, ""))
}

// ── Helpers ──

func moveTo(row, col int) string {
	return fmt.Sprintf("\x1b[%d;%dH", row, col)
}
