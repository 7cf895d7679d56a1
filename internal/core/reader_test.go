package core

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/xuri/excelize/v2"
)

func TestReadCSV(t *testing.T) {
	tests := []struct {
		name       string
		data       string
		opts       ReadOptions
		wantHeader []string
		wantRows   [][]string
	}{
		{
			name:       "comma",
			data:       "name,amount\nAlice,10\nBob,20\n",
			wantHeader: []string{"name", "amount"},
			wantRows:   [][]string{{"Alice", "10"}, {"Bob", "20"}},
		},
		{
			name:       "semicolon sniffed",
			data:       "name;amount\nAlice;1,5\nBob;2,5\n",
			wantHeader: []string{"name", "amount"},
			wantRows:   [][]string{{"Alice", "1,5"}, {"Bob", "2,5"}},
		},
		{
			name:       "tab sniffed",
			data:       "name\tamount\nAlice\t10\n",
			wantHeader: []string{"name", "amount"},
			wantRows:   [][]string{{"Alice", "10"}},
		},
		{
			name:       "explicit tab escape",
			data:       "name\tamount\nAlice\t10\n",
			opts:       ReadOptions{Separator: `\t`},
			wantHeader: []string{"name", "amount"},
			wantRows:   [][]string{{"Alice", "10"}},
		},
		{
			name:       "bom stripped",
			data:       "\xEF\xBB\xBFname,amount\nAlice,10\n",
			wantHeader: []string{"name", "amount"},
			wantRows:   [][]string{{"Alice", "10"}},
		},
		{
			name:       "blank rows dropped",
			data:       "name,amount\n,\nAlice,10\n , \nBob,20\n",
			wantHeader: []string{"name", "amount"},
			wantRows:   [][]string{{"Alice", "10"}, {"Bob", "20"}},
		},
		{
			name:       "windows-1252 fallback",
			data:       "name;city\nJos\xe9;K\xf6ln\n",
			wantHeader: []string{"name", "city"},
			wantRows:   [][]string{{"José", "Köln"}},
		},
		{
			name:       "explicit latin-1",
			data:       "name,city\nJos\xe9,Paris\n",
			opts:       ReadOptions{Encoding: "ISO-8859-1"},
			wantHeader: []string{"name", "city"},
			wantRows:   [][]string{{"José", "Paris"}},
		},
		{
			name:       "quoted separator",
			data:       "name,amount\n\"Doe, John\",\"1,234.50\"\n",
			opts:       ReadOptions{Separator: ","},
			wantHeader: []string{"name", "amount"},
			wantRows:   [][]string{{"Doe, John", "1,234.50"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := readCSV([]byte(tt.data), tt.opts)
			if err != nil {
				t.Fatalf("readCSV() error = %v", err)
			}
			if diff := cmp.Diff(tt.wantHeader, got.Header); diff != "" {
				t.Errorf("header mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.wantRows, got.Rows); diff != "" {
				t.Errorf("rows mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestReadCSVLines(t *testing.T) {
	data := "\nname,notes\nAlice,\"two\nlines\"\n,\nBob,x\n"
	got, err := readCSV([]byte(data), ReadOptions{Separator: ","})
	if err != nil {
		t.Fatalf("readCSV() error = %v", err)
	}
	if diff := cmp.Diff([]int{3, 6}, got.Lines); diff != "" {
		t.Errorf("lines mismatch (-want +got):\n%s", diff)
	}
	if len(got.Lines) != len(got.Rows) {
		t.Errorf("len(Lines) = %d, len(Rows) = %d", len(got.Lines), len(got.Rows))
	}
}

func TestReadCSVErrors(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		opts    ReadOptions
		wantErr string
	}{
		{name: "bad quoting", data: "a,b\n1,2\n", opts: ReadOptions{Quoting: "'"}, wantErr: "invalid csv"},
		{name: "bad separator", data: "a,b\n1,2\n", opts: ReadOptions{Separator: "ab"}, wantErr: "invalid csv"},
		{name: "unknown encoding", data: "a,b\n1,2\n", opts: ReadOptions{Encoding: "klingon"}, wantErr: "encoding error"},
		{name: "unterminated quote", data: "a,b\n\"1,2\n", opts: ReadOptions{Separator: ","}, wantErr: "invalid csv"},
		{name: "nothing at all", data: "\n\n", wantErr: "empty file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := readCSV([]byte(tt.data), tt.opts)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("readCSV() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestSniffSeparator(t *testing.T) {
	tests := []struct {
		data string
		want rune
	}{
		{"a,b\n1,2\n", ','},
		{"a;b\n1;2\n", ';'},
		{"a|b|c\n1|2|3\n", '|'},
		{"single\ncolumn\n", ','},
		{"a,b\n1,2,3\n", ','},
	}
	for _, tt := range tests {
		if got := sniffSeparator([]byte(tt.data)); got != tt.want {
			t.Errorf("sniffSeparator(%q) = %q, want %q", tt.data, got, tt.want)
		}
	}
}

func TestReaderFor(t *testing.T) {
	tests := []struct {
		name        string
		fileName    string
		contentType string
		wantMime    string
		wantErr     bool
	}{
		{name: "csv mime", fileName: "upload", contentType: "text/csv; charset=utf-8", wantMime: MimeCSV},
		{name: "xlsx mime", fileName: "upload", contentType: MimeXLSX, wantMime: MimeXLSX},
		{name: "extension fallback", fileName: "Data.CSV", contentType: "application/octet-stream", wantMime: MimeCSV},
		{name: "xlsx extension", fileName: "book.xlsx", contentType: "", wantMime: MimeXLSX},
		{name: "unsupported", fileName: "book.ods", contentType: "application/vnd.oasis.opendocument.spreadsheet", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, mime, err := ReaderFor(tt.fileName, tt.contentType)
			if tt.wantErr {
				if !errors.Is(err, ErrUnsupportedFormat) {
					t.Errorf("ReaderFor() error = %v, want ErrUnsupportedFormat", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ReaderFor() error = %v", err)
			}
			if mime != tt.wantMime {
				t.Errorf("ReaderFor() mime = %q, want %q", mime, tt.wantMime)
			}
		})
	}
}

func buildXLSX(t *testing.T, rows [][]any) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatal(err)
		}
		if err := f.SetSheetRow("Sheet1", cell, &row); err != nil {
			t.Fatal(err)
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestReadXLSX(t *testing.T) {
	data := buildXLSX(t, [][]any{
		{"name", "amount"},
		{"Alice", "10.5"},
		{},
		{"Bob", "20"},
	})

	got, err := readXLSX(data, ReadOptions{})
	if err != nil {
		t.Fatalf("readXLSX() error = %v", err)
	}
	if diff := cmp.Diff([]string{"name", "amount"}, got.Header); diff != "" {
		t.Errorf("header mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([][]string{{"Alice", "10.5"}, {"Bob", "20"}}, got.Rows); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{2, 4}, got.Lines); diff != "" {
		t.Errorf("lines mismatch (-want +got):\n%s", diff)
	}
}

func TestReadXLSXInvalid(t *testing.T) {
	_, err := readXLSX([]byte("not a zip"), ReadOptions{})
	if err == nil || !strings.Contains(err.Error(), "open xlsx") {
		t.Errorf("readXLSX() error = %v, want open xlsx error", err)
	}
}

func TestReadTableHeaderOnly(t *testing.T) {
	sess := &Session{FileName: "a.csv", ContentType: MimeCSV, Data: []byte("name,amount\n")}
	if _, err := ReadTable(sess); !errors.Is(err, ErrEmptyFile) {
		t.Errorf("ReadTable() error = %v, want ErrEmptyFile", err)
	}
}

func TestErrorPreview(t *testing.T) {
	long := strings.Repeat("a", 300)
	if got := errorPreview([]byte(long)); len(got) != ErrorPreviewBytes {
		t.Errorf("errorPreview() length = %d, want %d", len(got), ErrorPreviewBytes)
	}
	if got := errorPreview([]byte("caf\xe9")); got != "café" {
		t.Errorf("errorPreview() = %q, want café", got)
	}
}
