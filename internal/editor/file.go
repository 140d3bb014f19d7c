package editor

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
)

// Load reads path into a new document, one row per line with trailing
// newline and carriage-return bytes stripped.
func Load(path string, tabStop int) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open %s: %w", path, err)
	}
	defer f.Close()

	d := NewDocument(tabStop)
	d.filename = path
	if err := d.readRows(f); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	d.dirty = 0
	return d, nil
}

func (d *Document) readRows(r io.Reader) error {
	br := bufio.NewReader(r)
	for {
		line, err := br.ReadBytes('\n')
		if len(line) > 0 {
			n := len(line)
			for n > 0 && (line[n-1] == '\n' || line[n-1] == '\r') {
				n--
			}
			d.InsertRow(len(d.rows), line[:n])
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// Save writes the document to its file, truncating it to the new length
// first. It returns the number of bytes written. On failure the document
// stays dirty.
func (d *Document) Save() (int, error) {
	if d.filename == "" {
		return 0, errors.New("no file name")
	}
	buf := d.Bytes()

	f, err := os.OpenFile(d.filename, os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		return 0, err
	}
	if err := f.Truncate(int64(len(buf))); err != nil {
		f.Close()
		return 0, err
	}
	n, err := f.Write(buf)
	if err != nil {
		f.Close()
		return n, err
	}
	if err := f.Close(); err != nil {
		return n, err
	}
	d.dirty = 0
	return n, nil
}
