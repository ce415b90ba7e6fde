package csvio

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write temp file: %v", err)
	}
	return path
}

func readAll(t *testing.T, src RowSource) []*Row {
	t.Helper()
	ctx := context.Background()
	var rows []*Row
	for {
		row, err := src.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Next() error = %v", err)
		}
		rows = append(rows, row)
	}
	return rows
}

func TestFileSource_Next(t *testing.T) {
	content := `Timestamp,Address,ZIP,FullName,FooDuration,BarDuration,TotalDuration,Notes
4/1/11 11:00:00 AM,"123 Main St, Apt 4",9,jane doe,0:01:00.000,0:02:00.000,zzsasdfa,ok
3/12/14 12:00:00 AM,"Somewhere Else",94121,Monkey Alberto,1:23:32.123,1:32:33.123,zzsasdfa,"I am the very model, of a modern"
`
	path := writeTempFile(t, "sample.csv", content)
	src := NewFileSource(path)
	defer src.Close()

	rows := readAll(t, src)
	if len(rows) != 2 {
		t.Fatalf("Got %d rows, want 2", len(rows))
	}

	if rows[0].Fields[1] != "123 Main St, Apt 4" {
		t.Errorf("Address = %q, want quoted comma preserved", rows[0].Fields[1])
	}
	if rows[1].Fields[7] != "I am the very model, of a modern" {
		t.Errorf("Notes = %q", rows[1].Fields[7])
	}
	if rows[0].Line != 2 || rows[1].Line != 3 {
		t.Errorf("Lines = %d, %d, want 2, 3", rows[0].Line, rows[1].Line)
	}
	if rows[0].Source != path {
		t.Errorf("Source = %q, want %q", rows[0].Source, path)
	}
}

func TestFileSource_Header(t *testing.T) {
	path := writeTempFile(t, "h.csv", "a,b,c\n1,2,3\n")
	src := NewFileSource(path)
	defer src.Close()

	header, err := src.Header()
	if err != nil {
		t.Fatalf("Header() error = %v", err)
	}
	if !reflect.DeepEqual(header, []string{"a", "b", "c"}) {
		t.Errorf("Header() = %q", header)
	}

	// Header is read once and not returned as a data row.
	rows := readAll(t, src)
	if len(rows) != 1 || rows[0].Fields[0] != "1" {
		t.Errorf("rows = %+v, want single data row", rows)
	}
}

func TestFileSource_InvalidUTF8Replaced(t *testing.T) {
	content := "h1,h2\nbad\xff\xfebytes,ok\n"
	src := NewReaderSource(strings.NewReader(content), "mem")

	rows := readAll(t, src)
	if len(rows) != 1 {
		t.Fatalf("Got %d rows, want 1", len(rows))
	}
	got := rows[0].Fields[0]
	if !strings.Contains(got, "�") {
		t.Errorf("Field = %q, want replacement character", got)
	}
	if !strings.HasPrefix(got, "bad") || !strings.HasSuffix(got, "bytes") {
		t.Errorf("Field = %q, want surrounding text kept", got)
	}
}

func TestFileSource_ByteOrderMarkStripped(t *testing.T) {
	src := NewReaderSource(strings.NewReader("\xef\xbb\xbfTimestamp,Address\n"), "mem")
	header, err := src.Header()
	if err != nil {
		t.Fatalf("Header() error = %v", err)
	}
	if header[0] != "Timestamp" {
		t.Errorf("Header()[0] = %q, want BOM removed", header[0])
	}
}

func TestFileSource_VariableWidthRows(t *testing.T) {
	src := NewReaderSource(strings.NewReader("a,b,c\n1,2\n1,2,3,4\n"), "mem")
	rows := readAll(t, src)
	if len(rows) != 2 {
		t.Fatalf("Got %d rows, want 2", len(rows))
	}
	if len(rows[0].Fields) != 2 || len(rows[1].Fields) != 4 {
		t.Errorf("widths = %d, %d, want 2, 4", len(rows[0].Fields), len(rows[1].Fields))
	}
}

func TestFileSource_EmptyInput(t *testing.T) {
	src := NewReaderSource(strings.NewReader(""), "mem")
	if _, err := src.Header(); !errors.Is(err, ErrEmptyInput) {
		t.Errorf("Header() error = %v, want ErrEmptyInput", err)
	}
	if _, err := src.Next(context.Background()); !errors.Is(err, ErrEmptyInput) {
		t.Errorf("Next() error = %v, want ErrEmptyInput", err)
	}
}

func TestFileSource_HeaderOnly(t *testing.T) {
	src := NewReaderSource(strings.NewReader("a,b\n"), "mem")
	if _, err := src.Next(context.Background()); err != io.EOF {
		t.Errorf("Next() error = %v, want io.EOF", err)
	}
}

func TestFileSource_FileNotFound(t *testing.T) {
	src := NewFileSource(filepath.Join(t.TempDir(), "missing.csv"))
	defer src.Close()

	_, err := src.Next(context.Background())
	if err == nil {
		t.Fatal("Next() expected error for missing file")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("error = %v, want wrapped os.ErrNotExist", err)
	}
}

func TestFileSource_MalformedQuotes(t *testing.T) {
	src := NewReaderSource(strings.NewReader("a,b\n\"unterminated,1\n"), "mem")
	_, err := src.Next(context.Background())
	if err == nil {
		t.Fatal("Next() expected error for unterminated quote")
	}
	if !strings.Contains(err.Error(), "line") {
		t.Errorf("error = %v, want line number", err)
	}
}

func TestFileSource_ContextCancelled(t *testing.T) {
	src := NewReaderSource(strings.NewReader("a\n1\n"), "mem")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := src.Next(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Next() error = %v, want context.Canceled", err)
	}
}

func TestFileSource_CloseWithoutOpen(t *testing.T) {
	src := NewFileSource("never-opened.csv")
	if err := src.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestFileSource_BlankLinesSkipped(t *testing.T) {
	src := NewReaderSource(strings.NewReader("h1,h2\na,b\n\n\nc,d\n"), "blank.csv")
	defer src.Close()

	rows := readAll(t, src)
	if len(rows) != 2 {
		t.Fatalf("Got %d rows, want 2 (blank lines dropped)", len(rows))
	}
	if rows[1].Fields[0] != "c" || rows[1].Line != 5 {
		t.Errorf("rows[1] = %+v, want fields from line 5", rows[1])
	}
}
