package editor

import "bytes"

// Direction is the way a search step walks through the rows.
type Direction int

const (
	Forward  Direction = 1
	Backward Direction = -1
)

// Search is the incremental find state carried across prompt keystrokes.
// At most one row holds a match overlay at a time; its original
// classification is kept in saved until the next keystroke restores it.
type Search struct {
	lastMatch int // row of the previous match, -1 for none
	direction Direction

	savedRow int
	saved    []Highlight
}

// NewSearch returns a search with no previous match.
func NewSearch() *Search {
	return &Search{lastMatch: -1, direction: Forward}
}

// LastMatch returns the row of the most recent match, or -1.
func (s *Search) LastMatch() int { return s.lastMatch }

// Direction returns the current step direction.
func (s *Search) Direction() Direction { return s.direction }

// restore puts the saved classification back onto its row.
func (s *Search) restore(doc *Document) {
	if s.saved == nil {
		return
	}
	if r := doc.Row(s.savedRow); r != nil && len(r.hl) == len(s.saved) {
		copy(r.hl, s.saved)
	}
	s.saved = nil
}

// reset ends the search session.
func (s *Search) reset(doc *Document) {
	s.restore(doc)
	s.lastMatch = -1
	s.direction = Forward
}

// Feed handles one keystroke of the search prompt with the query typed so
// far. When a row matches, it returns the cursor position of the match and
// marks the matched span on that row until the next call.
func (s *Search) Feed(doc *Document, query []byte, k Key) (Cursor, bool) {
	s.restore(doc)

	switch k {
	case KeyEnter, KeyEscape:
		s.reset(doc)
		return Cursor{}, false
	case KeyArrowRight, KeyArrowDown:
		s.direction = Forward
	case KeyArrowLeft, KeyArrowUp:
		s.direction = Backward
	default:
		s.lastMatch = -1
		s.direction = Forward
	}

	if len(query) == 0 {
		return Cursor{}, false
	}
	if s.lastMatch == -1 {
		s.direction = Forward
	}
	return s.step(doc, query)
}

// step scans at most once around the document, wrapping at both ends.
func (s *Search) step(doc *Document, query []byte) (Cursor, bool) {
	n := doc.NumRows()
	current := s.lastMatch
	for i := 0; i < n; i++ {
		current += int(s.direction)
		switch {
		case current == -1:
			current = n - 1
		case current == n:
			current = 0
		}

		r := doc.Row(current)
		idx := bytes.Index(r.render, query)
		if idx < 0 {
			continue
		}

		s.lastMatch = current
		s.savedRow = current
		s.saved = append([]Highlight(nil), r.hl...)
		end := idx + len(query)
		for j := idx; j < end && j < len(r.hl); j++ {
			r.hl[j] = HLMatch
		}
		return Cursor{X: r.RxToCx(idx), Y: current}, true
	}
	return Cursor{}, false
}
