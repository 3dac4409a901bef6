package util

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strings"

	"github.com/fadilmartias/pitch-grader/internal/model"
	"github.com/gen2brain/go-fitz"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	pdfmodel "github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

const (
	MaxSizeBytes = 25 * 1024 * 1024

	// PPTXNotImplemented is returned for slide decks with content; real pptx
	// extraction is not supported yet.
	PPTXNotImplemented = "[[PPTX_EXTRACTION_NOT_IMPLEMENTED]]"
	pptxMinBytes       = 100
)

// SupportedExtensions are the extensions Extract recognizes. ".doc" is
// recognized only to reject it with a conversion hint.
var SupportedExtensions = []string{".pdf", ".txt", ".doc", ".docx", ".pptx"}

type ExtractorInterface interface {
	Extract(doc model.Document) (string, error)
}

type Extractor struct {
	MaxSizeBytes int
}

func NewExtractor() *Extractor {
	return &Extractor{MaxSizeBytes: MaxSizeBytes}
}

// DocumentExt returns the lower-cased extension of filename.
func DocumentExt(filename string) string {
	return strings.ToLower(filepath.Ext(filename))
}

// Extract converts doc into cleaned plain text using the strategy for its extension.
func (e *Extractor) Extract(doc model.Document) (string, error) {
	limit := e.MaxSizeBytes
	if limit <= 0 {
		limit = MaxSizeBytes
	}
	if len(doc.Content) > limit {
		return "", ErrSizeLimitExceeded
	}

	ext := strings.ToLower(doc.Ext)
	if ext == "" {
		ext = DocumentExt(doc.Filename)
	}

	switch ext {
	case ".txt":
		return Clean(string(doc.Content)), nil
	case ".pdf":
		text, err := extractPDF(doc.Content)
		if err != nil {
			return "", NewExtractionError(ext, err)
		}
		return Clean(text), nil
	case ".docx":
		text, err := extractDOCX(doc.Content)
		if err != nil {
			return "", NewExtractionError(ext, err)
		}
		return Clean(text), nil
	case ".doc":
		return "", NewExtractionError(ext, errors.New("legacy .doc not supported; please convert to .docx"))
	case ".pptx":
		if len(doc.Content) < pptxMinBytes {
			return "", nil
		}
		return PPTXNotImplemented, nil
	default:
		return "", ErrUnsupportedFormat
	}
}

func extractPDF(content []byte) (string, error) {
	if len(content) == 0 {
		return "", nil
	}

	conf := pdfmodel.NewDefaultConfiguration()
	conf.ValidationMode = pdfmodel.ValidationRelaxed
	pages, err := api.PageCount(bytes.NewReader(content), conf)
	if err != nil {
		return "", fmt.Errorf("invalid PDF: %w", err)
	}
	if pages == 0 {
		return "", nil
	}

	doc, err := fitz.NewFromMemory(content)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()

	var fullText strings.Builder
	for n := 0; n < doc.NumPage(); n++ {
		pageText, err := doc.Text(n)
		if err != nil {
			return "", fmt.Errorf("page %d: %w", n+1, err)
		}
		fullText.WriteString(pageText)
		fullText.WriteString("\n")
	}

	log.Printf("[extract] pdf pages=%d chars=%d", pages, fullText.Len())
	return fullText.String(), nil
}

func extractDOCX(content []byte) (string, error) {
	if len(content) == 0 {
		return "", nil
	}

	zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("invalid docx archive: %w", err)
	}

	var body *zip.File
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			body = f
			break
		}
	}
	if body == nil {
		return "", errors.New("word/document.xml not found")
	}

	rc, err := body.Open()
	if err != nil {
		return "", fmt.Errorf("open document.xml: %w", err)
	}
	defer rc.Close()

	return docxText(rc)
}

// docxText collects the text runs of a WordprocessingML body, separating
// paragraphs, tabs and breaks with whitespace.
func docxText(r io.Reader) (string, error) {
	dec := xml.NewDecoder(r)
	var out strings.Builder
	inText := false
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("parse document.xml: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab", "br", "cr":
				out.WriteString(" ")
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				out.WriteString("\n")
			}
		case xml.CharData:
			if inText {
				out.Write(t)
			}
		}
	}
	return out.String(), nil
}
