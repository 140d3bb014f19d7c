package editor

import (
	"bytes"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"
)

var testEpoch = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

// newTestEditor builds a 12x40 editor over content whose keyboard input is
// the bytes of input.
func newTestEditor(t *testing.T, content, input string) (*Editor, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	e := New(newTestDoc(t, content), strings.NewReader(input), &out, 12, 40, Options{})
	e.now = func() time.Time { return testEpoch }
	return e, &out
}

func pressKeys(t *testing.T, e *Editor, keys ...Key) {
	t.Helper()
	for _, k := range keys {
		if err := e.ProcessKey(k); err != nil {
			t.Fatalf("ProcessKey(%v): %v", k, err)
		}
	}
}

// ── Editing ──

func TestTypingInsertsCharacters(t *testing.T) {
	e, _ := newTestEditor(t, "", "")
	pressKeys(t, e, 'h', 'i', KeyEnter, '4', '2')
	assertRows(t, e.Document(), "hi", "42")
	if e.Cursor() != (Cursor{X: 2, Y: 1}) {
		t.Errorf("cursor = %+v, want {2 1}", e.Cursor())
	}
	if !e.Document().Dirty() {
		t.Error("typing should mark the document dirty")
	}
}

func TestBackspaceAndDelete(t *testing.T) {
	e, _ := newTestEditor(t, "abc\ndef\n", "")
	pressKeys(t, e, KeyArrowRight, KeyDelete)
	assertRows(t, e.Document(), "ac", "def")
	if e.Cursor().X != 1 {
		t.Errorf("cursor col after Delete = %d, want 1", e.Cursor().X)
	}

	pressKeys(t, e, KeyArrowDown, KeyHome, KeyBackspace)
	assertRows(t, e.Document(), "acdef")
	if e.Cursor() != (Cursor{X: 2, Y: 0}) {
		t.Errorf("cursor after merge = %+v, want {2 0}", e.Cursor())
	}

	pressKeys(t, e, CtrlKey('h'))
	assertRows(t, e.Document(), "adef")
}

func TestTabIsStoredAndExpanded(t *testing.T) {
	e, _ := newTestEditor(t, "x\n", "")
	pressKeys(t, e, KeyTab)
	e.scroll()
	if got := string(e.Document().Row(0).Chars()); got != "\tx" {
		t.Errorf("chars = %q, want %q", got, "\tx")
	}
	if e.rx != 8 {
		t.Errorf("rx = %d, want 8", e.rx)
	}
}

// ── Navigation ──

func TestArrowKeysWrapAcrossLines(t *testing.T) {
	e, _ := newTestEditor(t, "ab\ncdef\nx\n", "")
	pressKeys(t, e, KeyEnd, KeyArrowRight)
	if e.Cursor() != (Cursor{X: 0, Y: 1}) {
		t.Errorf("right at end of line: %+v, want {0 1}", e.Cursor())
	}
	pressKeys(t, e, KeyArrowLeft)
	if e.Cursor() != (Cursor{X: 2, Y: 0}) {
		t.Errorf("left at start of line: %+v, want {2 0}", e.Cursor())
	}
	pressKeys(t, e, KeyArrowDown, KeyEnd, KeyArrowDown)
	if e.Cursor() != (Cursor{X: 1, Y: 2}) {
		t.Errorf("down snaps to shorter line: %+v, want {1 2}", e.Cursor())
	}
	pressKeys(t, e, KeyArrowDown, KeyArrowDown)
	if e.Cursor() != (Cursor{X: 0, Y: 3}) {
		t.Errorf("cursor should stop on the virtual row: %+v", e.Cursor())
	}
	pressKeys(t, e, KeyHome, KeyArrowLeft)
	if e.Cursor() != (Cursor{X: 1, Y: 2}) {
		t.Errorf("left from virtual row: %+v, want {1 2}", e.Cursor())
	}
}

func TestArrowsAtDocumentStart(t *testing.T) {
	e, _ := newTestEditor(t, "ab\n", "")
	pressKeys(t, e, KeyArrowUp, KeyArrowLeft)
	if e.Cursor() != (Cursor{}) {
		t.Errorf("cursor = %+v, want origin", e.Cursor())
	}
}

func TestPageUpAndDown(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 30; i++ {
		b.WriteString("row\n")
	}
	e, _ := newTestEditor(t, b.String(), "")

	pressKeys(t, e, KeyPageDown)
	if e.Cursor().Y != 19 {
		t.Errorf("after PageDown cy = %d, want 19", e.Cursor().Y)
	}
	if err := e.Refresh(); err != nil {
		t.Fatal(err)
	}
	pressKeys(t, e, KeyPageUp)
	if e.Cursor().Y != 0 {
		t.Errorf("after PageUp cy = %d, want 0", e.Cursor().Y)
	}

	for i := 0; i < 4; i++ {
		pressKeys(t, e, KeyPageDown)
		if err := e.Refresh(); err != nil {
			t.Fatal(err)
		}
	}
	if e.Cursor().Y != 30 {
		t.Errorf("PageDown past end: cy = %d, want 30", e.Cursor().Y)
	}
}

func TestUnknownNamedKeyIsIgnored(t *testing.T) {
	e, _ := newTestEditor(t, "a\n", "")
	pressKeys(t, e, Key(1999), KeyEscape, CtrlKey('l'))
	assertRows(t, e.Document(), "a")
	if e.Document().Dirty() {
		t.Error("ignored keys must not edit the document")
	}
}

// ── Quit ──

func TestQuitCleanDocumentImmediately(t *testing.T) {
	e, _ := newTestEditor(t, "a\n", "")
	pressKeys(t, e, CtrlKey('q'))
	if e.Running() {
		t.Error("quit on a clean document should stop the editor")
	}
}

func TestQuitDirtyNeedsThreePresses(t *testing.T) {
	e, _ := newTestEditor(t, "a\n", "")
	pressKeys(t, e, 'x')

	pressKeys(t, e, CtrlKey('q'))
	if !e.Running() {
		t.Fatal("stopped after the first press")
	}
	if !strings.Contains(e.StatusMessage(), "Press Ctrl-Q 2 more times") {
		t.Errorf("message = %q", e.StatusMessage())
	}
	pressKeys(t, e, CtrlKey('q'))
	if !strings.Contains(e.StatusMessage(), "Press Ctrl-Q 1 more times") {
		t.Errorf("message = %q", e.StatusMessage())
	}
	if !e.Running() {
		t.Fatal("stopped after the second press")
	}
	pressKeys(t, e, CtrlKey('q'))
	if e.Running() {
		t.Error("still running after the third press")
	}
}

func TestQuitCounterResetsOnOtherKey(t *testing.T) {
	e, _ := newTestEditor(t, "a\n", "")
	pressKeys(t, e, 'x', CtrlKey('q'), CtrlKey('q'), KeyArrowLeft, CtrlKey('q'))
	if !e.Running() {
		t.Fatal("counter was not reset by an intervening key")
	}
	if !strings.Contains(e.StatusMessage(), "2 more times") {
		t.Errorf("message = %q, want a fresh countdown", e.StatusMessage())
	}
}

// ── Save ──

func TestSaveWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	e, _ := newTestEditor(t, "one\n", "")
	e.Document().SetFilename(path)
	pressKeys(t, e, KeyEnd, '!', CtrlKey('s'))

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "one!\n" {
		t.Errorf("file = %q, want %q", data, "one!\n")
	}
	if e.Document().Dirty() {
		t.Error("document still dirty after save")
	}
	if got := e.StatusMessage(); got != "5 bytes written to disk" {
		t.Errorf("message = %q", got)
	}
}

func TestSaveAsPrompt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "new.txt")
	e, out := newTestEditor(t, "", path+"\r")
	pressKeys(t, e, 'h', 'i', CtrlKey('s'))

	if e.Document().Filename() != path {
		t.Errorf("filename = %q, want %q", e.Document().Filename(), path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "hi\n" {
		t.Errorf("file = %q, want %q", data, "hi\n")
	}
	if !strings.Contains(out.String(), "Save as: "+path[:3]) {
		t.Error("prompt was never drawn")
	}
}

func TestSaveAsPromptBackspace(t *testing.T) {
	dir := t.TempDir()
	e, _ := newTestEditor(t, "", dir+"/abX\x7fc\r")
	pressKeys(t, e, 'z', CtrlKey('s'))
	if want := dir + "/abc"; e.Document().Filename() != want {
		t.Errorf("filename = %q, want %q", e.Document().Filename(), want)
	}
}

func TestSaveAsAborted(t *testing.T) {
	e, _ := newTestEditor(t, "", "tmp\x1b")
	pressKeys(t, e, 'x', CtrlKey('s'))
	if e.Document().Filename() != "" {
		t.Errorf("filename = %q, want unset", e.Document().Filename())
	}
	if e.StatusMessage() != "Save aborted" {
		t.Errorf("message = %q, want %q", e.StatusMessage(), "Save aborted")
	}
	if !e.Document().Dirty() {
		t.Error("aborted save cleared the dirty flag")
	}
}

func TestSaveFailureKeepsDirty(t *testing.T) {
	e, _ := newTestEditor(t, "a\n", "")
	e.Document().SetFilename(t.TempDir())
	pressKeys(t, e, 'b', CtrlKey('s'))
	if !strings.HasPrefix(e.StatusMessage(), "Can't save! I/O error") {
		t.Errorf("message = %q", e.StatusMessage())
	}
	if !e.Document().Dirty() {
		t.Error("failed save cleared the dirty flag")
	}
}

// ── Find ──

func TestFindEnterKeepsPosition(t *testing.T) {
	e, _ := newTestEditor(t, "alpha\nbeta\n\tgamma\n", "gam\r")
	pressKeys(t, e, CtrlKey('f'))
	if e.Cursor() != (Cursor{X: 1, Y: 2}) {
		t.Errorf("cursor = %+v, want {1 2}", e.Cursor())
	}
	if e.StatusMessage() != "" {
		t.Errorf("prompt message left behind: %q", e.StatusMessage())
	}
	for _, h := range e.Document().Row(2).Highlight() {
		if h == HLMatch {
			t.Fatal("match overlay survived the end of the search")
		}
	}
}

func TestFindEscapeRestoresPositionAndHighlight(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 40; i++ {
		b.WriteString("filler\n")
	}
	b.WriteString("value 42\n")
	e, _ := newTestEditor(t, b.String(), "42\x1b")
	pressKeys(t, e, KeyArrowDown, KeyArrowRight)
	before := slices.Clone(e.Document().Row(40).Highlight())
	startCur, startView := e.Cursor(), e.Viewport()

	pressKeys(t, e, CtrlKey('f'))

	if e.Cursor() != startCur {
		t.Errorf("cursor = %+v, want %+v", e.Cursor(), startCur)
	}
	if e.Viewport() != startView {
		t.Errorf("viewport = %+v, want %+v", e.Viewport(), startView)
	}
	if !slices.Equal(e.Document().Row(40).Highlight(), before) {
		t.Errorf("highlight not restored: %v", e.Document().Row(40).Highlight())
	}
}

func TestFindScrollsMatchIntoView(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 40; i++ {
		b.WriteString("filler\n")
	}
	b.WriteString("target\n")
	e, out := newTestEditor(t, b.String(), "target\r")
	pressKeys(t, e, CtrlKey('f'))
	if e.Cursor().Y != 40 {
		t.Fatalf("cursor row = %d, want 40", e.Cursor().Y)
	}
	if e.Viewport().RowOff != 40 {
		t.Errorf("RowOff = %d, want the match anchored at the top", e.Viewport().RowOff)
	}
	if !strings.Contains(out.String(), "\x1b[34mtarget") {
		t.Error("match was never drawn with the match color")
	}
}

func TestFindArrowsCycleMatches(t *testing.T) {
	e, _ := newTestEditor(t, "ab\nxx\nab\n", "ab\x1b[B\x1b[B\x1b[A\r")
	pressKeys(t, e, CtrlKey('f'))
	if e.Cursor().Y != 2 {
		t.Errorf("cursor row = %d, want 2", e.Cursor().Y)
	}
}

func TestFindNoMatchLeavesCursor(t *testing.T) {
	e, _ := newTestEditor(t, "abc\ndef\n", "zzz\r")
	pressKeys(t, e, KeyArrowDown, CtrlKey('f'))
	if e.Cursor() != (Cursor{X: 0, Y: 1}) {
		t.Errorf("cursor = %+v, want {0 1}", e.Cursor())
	}
}

// ── Run ──

func TestRunQuitsAndClearsScreen(t *testing.T) {
	e, out := newTestEditor(t, "a\n", "x\x11\x11\x11")
	if err := e.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.HasSuffix(out.String(), escClearScreen+escCursorHome) {
		t.Error("screen not cleared on quit")
	}
	if !strings.Contains(out.String(), "HELP: Ctrl-S = save") {
		t.Error("help message never shown")
	}
}
