package format

import (
	"archive/zip"
	"bytes"
	"testing"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		filename string
		want     Format
	}{
		{"report.pdf", PDF},
		{"REPORT.PDF", PDF},
		{"letter.docx", DOCX},
		{"notes.txt", TXT},
		{"readme.md", MD},
		{"readme.markdown", MD},
		{"archive.zip", Unknown},
		{"noext", Unknown},
	}
	for _, tt := range tests {
		if got := Detect(tt.filename); got != tt.want {
			t.Errorf("Detect(%q) = %v, want %v", tt.filename, got, tt.want)
		}
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		want Format
	}{
		{"pdf", PDF},
		{"DOCX", DOCX},
		{".md", MD},
		{"markdown", MD},
		{"text", TXT},
		{"epub", Unknown},
	}
	for _, tt := range tests {
		if got := Parse(tt.name); got != tt.want {
			t.Errorf("Parse(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestDefaultTarget(t *testing.T) {
	tests := []struct {
		source Format
		want   Format
	}{
		{PDF, DOCX},
		{DOCX, PDF},
		{TXT, PDF},
		{MD, PDF},
	}
	for _, tt := range tests {
		got, err := DefaultTarget(tt.source)
		if err != nil {
			t.Fatalf("DefaultTarget(%v): %v", tt.source, err)
		}
		if got != tt.want {
			t.Errorf("DefaultTarget(%v) = %v, want %v", tt.source, got, tt.want)
		}
	}

	if _, err := DefaultTarget(Unknown); err == nil {
		t.Error("DefaultTarget(Unknown) should fail")
	}
}

func TestValidatePair(t *testing.T) {
	if err := ValidatePair(PDF, MD); err != nil {
		t.Errorf("PDF->MD should be valid: %v", err)
	}
	if err := ValidatePair(TXT, DOCX); err == nil {
		t.Error("TXT->DOCX should be rejected")
	}
	if err := ValidatePair(DOCX, DOCX); err == nil {
		t.Error("DOCX->DOCX should be rejected")
	}
}

func TestDetectFromMagic(t *testing.T) {
	if got := DetectFromMagic([]byte("%PDF-1.7\n")); got != PDF {
		t.Errorf("PDF magic = %v, want PDF", got)
	}
	if got := DetectFromMagic([]byte("pl")); got != Unknown {
		t.Errorf("short input = %v, want Unknown", got)
	}
	if got := DetectFromMagic([]byte("plain text here")); got != Unknown {
		t.Errorf("plain text = %v, want Unknown", got)
	}
}

func TestDetectFromReaderDOCX(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range []string{"[Content_Types].xml", "word/document.xml"} {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write([]byte("<xml/>")); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}

	data := buf.Bytes()
	got, err := DetectFromReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatal(err)
	}
	if got != DOCX {
		t.Errorf("DetectFromReader = %v, want DOCX", got)
	}
}

func TestDetectFromReaderPlainZIP(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, _ := zw.Create("notes/readme.txt")
	w.Write([]byte("hello"))
	zw.Close()

	data := buf.Bytes()
	got, err := DetectFromReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatal(err)
	}
	if got != Unknown {
		t.Errorf("plain zip = %v, want Unknown", got)
	}
}
