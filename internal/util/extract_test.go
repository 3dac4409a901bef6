package util

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/fadilmartias/pitch-grader/internal/model"
)

func buildDOCX(t *testing.T, documentXML string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("create entry: %v", err)
	}
	if _, err := w.Write([]byte(documentXML)); err != nil {
		t.Fatalf("write entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

// buildPDF writes a minimal PDF with one Helvetica text line per page and a
// byte-exact xref table.
func buildPDF(t *testing.T, pages ...string) []byte {
	t.Helper()
	var objects []string
	objects = append(objects, "<< /Type /Catalog /Pages 2 0 R >>")

	kids := make([]string, len(pages))
	for i := range pages {
		kids[i] = fmt.Sprintf("%d 0 R", 4+2*i)
	}
	objects = append(objects,
		fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(pages)),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>",
	)
	for i, text := range pages {
		stream := fmt.Sprintf("BT /F1 18 Tf 72 700 Td (%s) Tj ET", text)
		objects = append(objects,
			fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Contents %d 0 R /Resources << /Font << /F1 3 0 R >> >> >>", 5+2*i),
			fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(stream), stream),
		)
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return buf.Bytes()
}

func TestExtract_PDF(t *testing.T) {
	content := buildPDF(t, "Problem: clinics lose patients", "Traction: 40 paying customers")

	got, err := NewExtractor().Extract(model.Document{Content: content, Filename: "deck.pdf", Ext: ".pdf"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{"Problem: clinics lose patients", "Traction: 40 paying customers"} {
		if !strings.Contains(got, want) {
			t.Errorf("expected %q in extracted text %q", want, got)
		}
	}
	if strings.Index(got, "Problem") > strings.Index(got, "Traction") {
		t.Errorf("pages out of order: %q", got)
	}
	if got != Clean(got) {
		t.Errorf("extracted text not cleaned: %q", got)
	}
}

func TestExtract_PlainText(t *testing.T) {
	e := NewExtractor()
	got, err := e.Extract(model.Document{
		Content:  []byte("  Our problem:\n\n\tfounders waste   time  "),
		Filename: "deck.TXT",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Our problem: founders waste time" {
		t.Errorf("unexpected text: %q", got)
	}
}

func TestExtract_DOCX(t *testing.T) {
	body := `<?xml version="1.0" encoding="UTF-8"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>Problem</w:t></w:r><w:r><w:tab/><w:t>slow payments</w:t></w:r></w:p>
    <w:p><w:r><w:t xml:space="preserve">Team  of </w:t></w:r><w:r><w:t>three</w:t></w:r></w:p>
  </w:body>
</w:document>`
	e := NewExtractor()
	got, err := e.Extract(model.Document{Content: buildDOCX(t, body), Filename: "deck.docx", Ext: ".docx"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Problem slow payments Team of three" {
		t.Errorf("unexpected text: %q", got)
	}
}

func TestExtract_DOCXWithoutBody(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	_, _ = zw.Create("docProps/app.xml")
	_ = zw.Close()

	_, err := NewExtractor().Extract(model.Document{Content: buf.Bytes(), Ext: ".docx"})
	if !errors.Is(err, ErrExtractionFailure) {
		t.Fatalf("expected ErrExtractionFailure, got %v", err)
	}
	if !strings.Contains(err.Error(), "word/document.xml not found") {
		t.Errorf("cause not preserved: %v", err)
	}
}

func TestExtract_CorruptInputsWrapCause(t *testing.T) {
	for _, ext := range []string{".pdf", ".docx"} {
		t.Run(ext, func(t *testing.T) {
			_, err := NewExtractor().Extract(model.Document{Content: []byte("definitely not a document"), Ext: ext})
			if !errors.Is(err, ErrExtractionFailure) {
				t.Fatalf("expected ErrExtractionFailure, got %v", err)
			}
			var extractErr *ExtractionError
			if !errors.As(err, &extractErr) {
				t.Fatalf("expected *ExtractionError, got %T", err)
			}
			if extractErr.Err == nil || !strings.HasPrefix(err.Error(), "failed to extract text: ") {
				t.Errorf("unexpected error message: %v", err)
			}
		})
	}
}

func TestExtract_ZeroLengthSupportedFiles(t *testing.T) {
	for _, ext := range []string{".txt", ".pdf", ".docx", ".pptx"} {
		t.Run(ext, func(t *testing.T) {
			got, err := NewExtractor().Extract(model.Document{Content: nil, Filename: "empty" + ext, Ext: ext})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != "" {
				t.Errorf("expected empty text, got %q", got)
			}
		})
	}
}

func TestExtract_LegacyDOCRejected(t *testing.T) {
	_, err := NewExtractor().Extract(model.Document{Content: []byte("binary"), Filename: "deck.doc"})
	if !errors.Is(err, ErrExtractionFailure) {
		t.Fatalf("expected ErrExtractionFailure, got %v", err)
	}
	if !strings.Contains(err.Error(), "convert to .docx") {
		t.Errorf("expected conversion hint, got %v", err)
	}
}

func TestExtract_PPTXPlaceholder(t *testing.T) {
	e := NewExtractor()

	got, err := e.Extract(model.Document{Content: bytes.Repeat([]byte("x"), 99), Ext: ".pptx"})
	if err != nil || got != "" {
		t.Fatalf("small pptx: got %q, %v", got, err)
	}

	got, err = e.Extract(model.Document{Content: bytes.Repeat([]byte("x"), 100), Ext: ".pptx"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != PPTXNotImplemented {
		t.Errorf("expected placeholder sentinel, got %q", got)
	}
}

func TestExtract_UnsupportedFormat(t *testing.T) {
	_, err := NewExtractor().Extract(model.Document{Content: []byte("a,b"), Filename: "deck.csv"})
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestExtract_SizeLimit(t *testing.T) {
	e := &Extractor{MaxSizeBytes: 16}

	if _, err := e.Extract(model.Document{Content: bytes.Repeat([]byte("a"), 16), Ext: ".txt"}); err != nil {
		t.Fatalf("content at the limit should pass, got %v", err)
	}

	_, err := e.Extract(model.Document{Content: bytes.Repeat([]byte("a"), 17), Ext: ".txt"})
	if !errors.Is(err, ErrSizeLimitExceeded) {
		t.Fatalf("expected ErrSizeLimitExceeded, got %v", err)
	}
}

func TestDocumentExt(t *testing.T) {
	if got := DocumentExt("Pitch.Deck.PDF"); got != ".pdf" {
		t.Errorf("expected .pdf, got %q", got)
	}
	if got := DocumentExt("README"); got != "" {
		t.Errorf("expected empty extension, got %q", got)
	}
}
