package core

// reader.go turns uploaded bytes into a header row and data rows. CSV and
// XLSX are supported; the format is chosen from the content type first and
// the file extension second.

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/transform"
)

// ErrorPreviewBytes is how much of an unreadable CSV file is echoed back.
const ErrorPreviewBytes = 200

var (
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrEmptyFile         = errors.New("empty file: no data rows")
)

const (
	MimeCSV  = "text/csv"
	MimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// separatorCandidates are tried in order when no separator is given.
var separatorCandidates = []rune{',', ';', '\t', ' ', '|', '\x1f'}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ReadOptions controls how a CSV file is read. They are ignored for XLSX.
type ReadOptions struct {
	Separator string `json:"separator,omitempty"`
	Quoting   string `json:"quoting,omitempty"`
	Encoding  string `json:"encoding,omitempty"`
}

// Table is a decoded file: the first non-blank row and the rest.
type Table struct {
	Header []string
	Rows   [][]string
	Lines  []int // 1-based line (CSV) or sheet row (XLSX) of each entry in Rows
}

// add appends a data row found at line.
func (t *Table) add(row []string, line int) {
	t.Rows = append(t.Rows, row)
	t.Lines = append(t.Lines, line)
}

// Width returns the widest row, header included.
func (t *Table) Width() int {
	w := len(t.Header)
	for _, r := range t.Rows {
		if len(r) > w {
			w = len(r)
		}
	}
	return w
}

// FileReader decodes one file format.
type FileReader interface {
	Read(data []byte, opts ReadOptions) (*Table, error)
}

// FileReaderFunc adapts a function to FileReader.
type FileReaderFunc func(data []byte, opts ReadOptions) (*Table, error)

func (f FileReaderFunc) Read(data []byte, opts ReadOptions) (*Table, error) { return f(data, opts) }

type fileFormat struct {
	mime      string
	extension string
	reader    FileReader
}

var fileFormats = []fileFormat{
	{mime: MimeCSV, extension: "csv", reader: FileReaderFunc(readCSV)},
	{mime: MimeXLSX, extension: "xlsx", reader: FileReaderFunc(readXLSX)},
}

// ReaderFor picks the reader for a file by content type, then extension.
func ReaderFor(fileName, contentType string) (FileReader, string, error) {
	mime := strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0])
	for _, f := range fileFormats {
		if strings.EqualFold(f.mime, mime) {
			return f.reader, f.mime, nil
		}
	}
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(fileName)), ".")
	for _, f := range fileFormats {
		if f.extension == ext {
			return f.reader, f.mime, nil
		}
	}
	return nil, "", fmt.Errorf("%w %q: import only supports CSV and XLSX", ErrUnsupportedFormat, contentType)
}

// ReadTable decodes a session's file with its read options.
func ReadTable(sess *Session) (*Table, error) {
	r, _, err := ReaderFor(sess.FileName, sess.ContentType)
	if err != nil {
		return nil, err
	}
	t, err := r.Read(sess.Data, sess.Read)
	if err != nil {
		return nil, err
	}
	if len(t.Rows) == 0 {
		return nil, ErrEmptyFile
	}
	return t, nil
}

func readCSV(data []byte, opts ReadOptions) (*Table, error) {
	text, err := decodeText(data, opts.Encoding)
	if err != nil {
		return nil, err
	}
	if opts.Quoting != "" && opts.Quoting != `"` {
		return nil, fmt.Errorf("invalid csv: unsupported quote character %q", opts.Quoting)
	}

	sep, err := separatorFor(opts.Separator, text)
	if err != nil {
		return nil, err
	}

	r := csv.NewReader(bytes.NewReader(text))
	r.Comma = sep
	r.FieldsPerRecord = -1

	var t Table
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("invalid csv: %w", err)
		}
		if blankRow(record) {
			continue
		}
		if t.Header == nil {
			t.Header = record
			continue
		}
		line, _ := r.FieldPos(0)
		t.add(record, line)
	}
	if t.Header == nil {
		return nil, ErrEmptyFile
	}
	return &t, nil
}

// decodeText strips a UTF-8 BOM and converts the bytes to UTF-8. Without an
// explicit encoding, valid UTF-8 is kept and anything else is read as
// Windows-1252.
func decodeText(data []byte, name string) ([]byte, error) {
	data = bytes.TrimPrefix(data, utf8BOM)

	var enc encoding.Encoding
	switch {
	case name != "":
		e, err := ianaindex.IANA.Encoding(name)
		if err != nil || e == nil {
			return nil, fmt.Errorf("encoding error: unknown encoding %q", name)
		}
		enc = e
	case utf8.Valid(data):
		return data, nil
	default:
		enc = charmap.Windows1252
	}

	out, _, err := transform.Bytes(enc.NewDecoder(), data)
	if err != nil {
		return nil, fmt.Errorf("encoding error: %w", err)
	}
	return out, nil
}

func separatorFor(given string, text []byte) (rune, error) {
	if given == "" {
		return sniffSeparator(text), nil
	}
	if given == `\t` {
		return '\t', nil
	}
	r, size := utf8.DecodeRuneInString(given)
	if size != len(given) || r == '"' || r == '\n' || r == '\r' {
		return 0, fmt.Errorf("invalid csv: bad separator %q", given)
	}
	return r, nil
}

// sniffSeparator returns the first candidate that splits every row into the
// same number of cells, at least two. Defaults to a comma.
func sniffSeparator(text []byte) rune {
	for _, candidate := range separatorCandidates {
		r := csv.NewReader(bytes.NewReader(text))
		r.Comma = candidate
		r.FieldsPerRecord = -1

		width, ok := -1, true
		for ok {
			record, err := r.Read()
			if err == io.EOF {
				break
			}
			if err != nil || len(record) < 2 || (width >= 0 && len(record) != width) {
				ok = false
				break
			}
			width = len(record)
		}
		if ok && width >= 2 {
			return candidate
		}
	}
	return ','
}

func readXLSX(data []byte, _ ReadOptions) (*Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyFile
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}

	var t Table
	for i, row := range rows {
		if blankRow(row) {
			continue
		}
		if t.Header == nil {
			t.Header = row
			continue
		}
		t.add(row, i+1)
	}
	if t.Header == nil {
		return nil, ErrEmptyFile
	}
	return &t, nil
}

func blankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// errorPreview decodes the start of a file as ISO-8859-1, which never fails.
func errorPreview(data []byte) string {
	if len(data) > ErrorPreviewBytes {
		data = data[:ErrorPreviewBytes]
	}
	out, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return ""
	}
	return string(out)
}
