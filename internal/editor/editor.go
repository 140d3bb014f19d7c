package editor

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"
)

// Defaults used when Options leaves a field zero.
const (
	DefaultTabStop        = 8
	DefaultQuitTimes      = 3
	DefaultMessageTimeout = 5 * time.Second
)

const helpMessage = "HELP: Ctrl-S = save | Ctrl-Q = quit | Ctrl-F = find"

// Options configures an Editor.
type Options struct {
	QuitTimes      int           // consecutive Ctrl-Q presses needed with unsaved changes
	MessageTimeout time.Duration // how long a status message stays visible
	Logger         *slog.Logger
}

// Editor is the whole interactive state: the document, cursor, viewport,
// search and status message. It is owned by the goroutine calling Run.
type Editor struct {
	doc      *Document
	cur      Cursor
	rx       int // display column of cur in the current row
	view     Viewport
	search   *Search
	keys     *KeyDecoder
	renderer *Renderer

	statusMsg  string
	statusTime time.Time
	msgTimeout time.Duration

	quitTimes    int
	quitRequired int
	running      bool

	now func() time.Time
	log *slog.Logger
}

// New creates an editor for doc on a screen of rows x cols cells. Keys are
// decoded from in and frames are written to out.
func New(doc *Document, in io.Reader, out io.Writer, rows, cols int, opts Options) *Editor {
	if opts.QuitTimes < 1 {
		opts.QuitTimes = DefaultQuitTimes
	}
	if opts.MessageTimeout <= 0 {
		opts.MessageTimeout = DefaultMessageTimeout
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}

	// Two lines are reserved for the status and message bars.
	textRows := rows - 2
	if textRows < 1 {
		textRows = 1
	}
	return &Editor{
		doc:          doc,
		view:         Viewport{Rows: textRows, Cols: cols},
		search:       NewSearch(),
		keys:         NewKeyDecoder(in),
		renderer:     NewRenderer(out),
		msgTimeout:   opts.MessageTimeout,
		quitTimes:    opts.QuitTimes,
		quitRequired: opts.QuitTimes,
		running:      true,
		now:          time.Now,
		log:          opts.Logger,
	}
}

// Document returns the document being edited.
func (e *Editor) Document() *Document { return e.doc }

// Cursor returns the logical cursor position.
func (e *Editor) Cursor() Cursor { return e.cur }

// Viewport returns the current viewport.
func (e *Editor) Viewport() Viewport { return e.view }

// Running reports whether the editor has not been asked to quit.
func (e *Editor) Running() bool { return e.running }

// SetStatusMessage formats a message for the message bar and timestamps it.
func (e *Editor) SetStatusMessage(format string, args ...any) {
	e.statusMsg = fmt.Sprintf(format, args...)
	e.statusTime = e.now()
}

// StatusMessage returns the message to display, or "" once it has expired.
func (e *Editor) StatusMessage() string {
	if e.statusMsg == "" || e.now().Sub(e.statusTime) >= e.msgTimeout {
		return ""
	}
	return e.statusMsg
}

// Run refreshes the screen and processes keys until the user quits.
func (e *Editor) Run() error {
	e.SetStatusMessage(helpMessage)
	for e.running {
		if err := e.Refresh(); err != nil {
			return err
		}
		key, err := e.readKey()
		if err != nil {
			return err
		}
		if err := e.ProcessKey(key); err != nil {
			return err
		}
	}
	e.log.Info("quit", "file", e.doc.Filename(), "dirty", e.doc.Dirty())
	return e.renderer.Clear()
}

// readKey blocks, one read timeout at a time, until a key arrives.
func (e *Editor) readKey() (Key, error) {
	for {
		key, err := e.keys.ReadKey()
		if errors.Is(err, ErrNoInput) {
			continue
		}
		return key, err
	}
}

// Refresh scrolls the viewport to the cursor and redraws the screen.
func (e *Editor) Refresh() error {
	e.scroll()
	return e.renderer.Render(e)
}

// ProcessKey applies one key to the editor state.
func (e *Editor) ProcessKey(k Key) error {
	if k == CtrlKey('q') {
		e.quit()
		return nil
	}
	e.quitTimes = e.quitRequired

	switch k {
	case KeyEnter:
		e.doc.InsertNewline(&e.cur)

	case CtrlKey('s'):
		return e.save()

	case CtrlKey('f'):
		return e.find()

	case KeyHome:
		e.cur.X = 0
	case KeyEnd:
		if r := e.doc.Row(e.cur.Y); r != nil {
			e.cur.X = r.Size()
		}

	case KeyBackspace, CtrlKey('h'), KeyDelete:
		if k == KeyDelete {
			e.moveCursor(KeyArrowRight)
		}
		e.doc.DeleteCharAt(&e.cur)

	case KeyPageUp, KeyPageDown:
		if k == KeyPageUp {
			e.cur.Y = e.view.RowOff
		} else {
			e.cur.Y = e.view.RowOff + e.view.Rows - 1
			if e.cur.Y > e.doc.NumRows() {
				e.cur.Y = e.doc.NumRows()
			}
		}
		dir := KeyArrowUp
		if k == KeyPageDown {
			dir = KeyArrowDown
		}
		for i := 0; i < e.view.Rows; i++ {
			e.moveCursor(dir)
		}

	case KeyArrowUp, KeyArrowDown, KeyArrowLeft, KeyArrowRight:
		e.moveCursor(k)

	case CtrlKey('l'), KeyEscape:
		// Nothing to do; the next frame repaints everything.

	default:
		if k.IsNamed() {
			return nil
		}
		e.doc.InsertCharAt(&e.cur, byte(k))
	}
	return nil
}

// quit stops the editor, unless there are unsaved changes and the user has
// not yet pressed quit enough consecutive times.
func (e *Editor) quit() {
	e.quitTimes--
	if e.doc.Dirty() && e.quitTimes > 0 {
		e.SetStatusMessage("WARNING!!! File has unsaved changes. Press Ctrl-Q %d more times to quit.", e.quitTimes)
		return
	}
	e.running = false
}

func (e *Editor) moveCursor(k Key) {
	row := e.doc.Row(e.cur.Y)

	switch k {
	case KeyArrowLeft:
		if e.cur.X != 0 {
			e.cur.X--
		} else if e.cur.Y > 0 {
			e.cur.Y--
			e.cur.X = e.doc.Row(e.cur.Y).Size()
		}
	case KeyArrowRight:
		if row != nil && e.cur.X < row.Size() {
			e.cur.X++
		} else if row != nil && e.cur.X == row.Size() {
			e.cur.Y++
			e.cur.X = 0
		}
	case KeyArrowUp:
		if e.cur.Y != 0 {
			e.cur.Y--
		}
	case KeyArrowDown:
		if e.cur.Y != e.doc.NumRows() {
			e.cur.Y++
		}
	}

	// Snap to the end of the new line.
	rowLen := 0
	if r := e.doc.Row(e.cur.Y); r != nil {
		rowLen = r.Size()
	}
	if e.cur.X > rowLen {
		e.cur.X = rowLen
	}
}

// scroll adjusts the viewport so the cursor is visible.
func (e *Editor) scroll() {
	e.rx = 0
	if r := e.doc.Row(e.cur.Y); r != nil {
		e.rx = r.CxToRx(e.cur.X)
	}

	v := &e.view
	if e.cur.Y < v.RowOff {
		v.RowOff = e.cur.Y
	}
	if e.cur.Y >= v.RowOff+v.Rows {
		v.RowOff = e.cur.Y - v.Rows + 1
	}
	if e.rx < v.ColOff {
		v.ColOff = e.rx
	}
	if e.rx >= v.ColOff+v.Cols {
		v.ColOff = e.rx - v.Cols + 1
	}
}

// save writes the document, asking for a file name first if it has none.
func (e *Editor) save() error {
	if e.doc.Filename() == "" {
		name, ok, err := e.prompt("Save as: %s (ESC to cancel)", nil)
		if err != nil {
			return err
		}
		if !ok {
			e.SetStatusMessage("Save aborted")
			return nil
		}
		e.doc.SetFilename(string(name))
	}

	n, err := e.doc.Save()
	if err != nil {
		e.log.Warn("save failed", "file", e.doc.Filename(), "err", err)
		e.SetStatusMessage("Can't save! I/O error: %v", err)
		return nil
	}
	e.log.Info("saved", "file", e.doc.Filename(), "bytes", n)
	e.SetStatusMessage("%d bytes written to disk", n)
	return nil
}

// find runs the incremental search prompt. Escape puts the cursor and
// viewport back where they were; Enter leaves them on the match.
func (e *Editor) find() error {
	savedCur := e.cur
	savedView := e.view

	_, ok, err := e.prompt("Search: %s (Use ESC/Arrows/Enter)", func(query []byte, k Key) {
		pos, found := e.search.Feed(e.doc, query, k)
		if !found {
			return
		}
		e.log.Debug("search hit", "query", string(query), "row", pos.Y, "col", pos.X)
		e.cur = pos
		// Forces scroll to re-anchor with the match at the top.
		e.view.RowOff = e.doc.NumRows()
	})
	if err != nil {
		return err
	}
	if !ok {
		e.cur = savedCur
		e.view = savedView
	}
	return nil
}
