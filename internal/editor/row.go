package editor

// Row is one line of the document. chars holds the stored bytes; render and
// hl are derived from chars and must be regenerated by update after every
// change to chars.
type Row struct {
	chars   []byte
	render  []byte
	hl      []Highlight
	tabStop int
}

func newRow(s []byte, tabStop int) *Row {
	r := &Row{
		chars:   append([]byte(nil), s...),
		tabStop: tabStop,
	}
	r.update()
	return r
}

// Size returns the number of stored characters.
func (r *Row) Size() int { return len(r.chars) }

// Chars returns the stored characters. The slice must not be modified.
func (r *Row) Chars() []byte { return r.chars }

// Render returns the display form with tabs expanded.
func (r *Row) Render() []byte { return r.render }

// RenderSize returns len(Render()).
func (r *Row) RenderSize() int { return len(r.render) }

// Highlight returns one classification per rendered character.
func (r *Row) Highlight() []Highlight { return r.hl }

// update regenerates render and hl from chars.
func (r *Row) update() {
	tabs := 0
	for _, c := range r.chars {
		if c == '\t' {
			tabs++
		}
	}

	render := make([]byte, 0, len(r.chars)+tabs*(r.tabStop-1))
	for _, c := range r.chars {
		if c == '\t' {
			render = append(render, ' ')
			for len(render)%r.tabStop != 0 {
				render = append(render, ' ')
			}
			continue
		}
		render = append(render, c)
	}
	r.render = render
	r.hl = classify(render)
}

// CxToRx converts a character index into a display column.
func (r *Row) CxToRx(cx int) int {
	rx := 0
	for j := 0; j < cx && j < len(r.chars); j++ {
		if r.chars[j] == '\t' {
			rx += (r.tabStop - 1) - (rx % r.tabStop)
		}
		rx++
	}
	return rx
}

// RxToCx converts a display column back into a character index. Columns
// inside an expanded tab map to the tab itself.
func (r *Row) RxToCx(rx int) int {
	cur := 0
	cx := 0
	for ; cx < len(r.chars); cx++ {
		if r.chars[cx] == '\t' {
			cur += (r.tabStop - 1) - (cur % r.tabStop)
		}
		cur++
		if cur > rx {
			return cx
		}
	}
	return cx
}

func (r *Row) insertChar(at int, c byte) {
	if at < 0 || at > len(r.chars) {
		at = len(r.chars)
	}
	r.chars = append(r.chars, 0)
	copy(r.chars[at+1:], r.chars[at:])
	r.chars[at] = c
	r.update()
}

// deleteChar reports whether a character was removed.
func (r *Row) deleteChar(at int) bool {
	if at < 0 || at >= len(r.chars) {
		return false
	}
	r.chars = append(r.chars[:at], r.chars[at+1:]...)
	r.update()
	return true
}

func (r *Row) appendBytes(s []byte) {
	r.chars = append(r.chars, s...)
	r.update()
}

// truncate cuts chars at n and returns a copy of the removed tail.
func (r *Row) truncate(n int) []byte {
	tail := append([]byte(nil), r.chars[n:]...)
	r.chars = r.chars[:n]
	r.update()
	return tail
}
