package editor

// Cursor is a logical position: Y indexes rows (Y == NumRows is the virtual
// row past the end) and X indexes characters within row Y.
type Cursor struct {
	X, Y int
}

// Document holds the rows of the file being edited.
type Document struct {
	rows     []*Row
	dirty    int // mutations since the last load or save
	filename string
	tabStop  int
}

// NewDocument creates an empty, unnamed document.
func NewDocument(tabStop int) *Document {
	if tabStop < 1 {
		tabStop = DefaultTabStop
	}
	return &Document{tabStop: tabStop}
}

// NumRows returns the number of rows.
func (d *Document) NumRows() int { return len(d.rows) }

// Row returns row at, or nil if at is out of range.
func (d *Document) Row(at int) *Row {
	if at < 0 || at >= len(d.rows) {
		return nil
	}
	return d.rows[at]
}

// Dirty reports whether there are unsaved changes.
func (d *Document) Dirty() bool { return d.dirty > 0 }

// Filename returns the associated path, or "" for a new document.
func (d *Document) Filename() string { return d.filename }

// SetFilename associates the document with path.
func (d *Document) SetFilename(path string) { d.filename = path }

// TabStop returns the tab width rows are rendered with.
func (d *Document) TabStop() int { return d.tabStop }

// InsertRow inserts a row holding s at index at (0 <= at <= NumRows).
func (d *Document) InsertRow(at int, s []byte) {
	if at < 0 || at > len(d.rows) {
		return
	}
	d.rows = append(d.rows, nil)
	copy(d.rows[at+1:], d.rows[at:])
	d.rows[at] = newRow(s, d.tabStop)
	d.dirty++
}

// DeleteRow removes row at (0 <= at < NumRows).
func (d *Document) DeleteRow(at int) {
	if at < 0 || at >= len(d.rows) {
		return
	}
	copy(d.rows[at:], d.rows[at+1:])
	d.rows[len(d.rows)-1] = nil
	d.rows = d.rows[:len(d.rows)-1]
	d.dirty++
}

// InsertChar inserts c into row at column at, clamped to the row end.
func (d *Document) InsertChar(row, at int, c byte) {
	r := d.Row(row)
	if r == nil {
		return
	}
	r.insertChar(at, c)
	d.dirty++
}

// DeleteChar removes the character at column at of row. Out of range
// positions are ignored.
func (d *Document) DeleteChar(row, at int) {
	r := d.Row(row)
	if r == nil {
		return
	}
	if r.deleteChar(at) {
		d.dirty++
	}
}

// AppendString concatenates s onto the end of row.
func (d *Document) AppendString(row int, s []byte) {
	r := d.Row(row)
	if r == nil {
		return
	}
	r.appendBytes(s)
	d.dirty++
}

// InsertCharAt types c at the cursor and advances it. Typing on the virtual
// row past the end first appends an empty row.
func (d *Document) InsertCharAt(cur *Cursor, c byte) {
	if cur.Y == len(d.rows) {
		d.InsertRow(len(d.rows), nil)
	}
	d.InsertChar(cur.Y, cur.X, c)
	cur.X++
}

// InsertNewline breaks the line at the cursor. At column 0 an empty row is
// inserted above; otherwise the tail after the cursor becomes a new row.
// The cursor ends at column 0 of the following row.
func (d *Document) InsertNewline(cur *Cursor) {
	if cur.X == 0 {
		d.InsertRow(cur.Y, nil)
	} else {
		r := d.Row(cur.Y)
		if r == nil {
			return
		}
		x := cur.X
		if x > r.Size() {
			x = r.Size()
		}
		tail := r.truncate(x)
		d.InsertRow(cur.Y+1, tail)
	}
	cur.Y++
	cur.X = 0
}

// DeleteCharAt implements backspace. At column 0 the current row is merged
// into the previous one and the cursor lands at the join point.
func (d *Document) DeleteCharAt(cur *Cursor) {
	if cur.Y == len(d.rows) {
		return
	}
	if cur.X == 0 && cur.Y == 0 {
		return
	}

	r := d.rows[cur.Y]
	if cur.X > 0 {
		d.DeleteChar(cur.Y, cur.X-1)
		cur.X--
		return
	}
	prev := d.rows[cur.Y-1]
	cur.X = prev.Size()
	d.AppendString(cur.Y-1, r.chars)
	d.DeleteRow(cur.Y)
	cur.Y--
}

// Bytes serializes the document: every row followed by a single newline.
func (d *Document) Bytes() []byte {
	n := 0
	for _, r := range d.rows {
		n += r.Size() + 1
	}
	buf := make([]byte, 0, n)
	for _, r := range d.rows {
		buf = append(buf, r.chars...)
		buf = append(buf, '\n')
	}
	return buf
}
