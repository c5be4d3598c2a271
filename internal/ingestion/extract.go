package ingestion

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"

	"github.com/jonathan/resume-ranker/internal/fetch"
)

// Format identifies a supported document format.
type Format string

const (
	// FormatText is plain text or markdown
	FormatText Format = "text"
	// FormatPDF is a PDF document
	FormatPDF Format = "pdf"
	// FormatDOCX is an Office Open XML word processing document
	FormatDOCX Format = "docx"
	// FormatHTML is an HTML page
	FormatHTML Format = "html"
)

// ErrUnsupportedFormat is wrapped by UnsupportedFormatError.
var ErrUnsupportedFormat = errors.New("unsupported file type")

// UnsupportedFormatError reports a file whose extension has no extractor.
type UnsupportedFormatError struct {
	Name string
	Ext  string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("%s: %q (%s)", ErrUnsupportedFormat, e.Ext, e.Name)
}

func (e *UnsupportedFormatError) Unwrap() error {
	return ErrUnsupportedFormat
}

// DetectFormat maps a file name to its format by extension.
func DetectFormat(name string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(name))
	switch ext {
	case ".txt", ".text", ".md":
		return FormatText, nil
	case ".pdf":
		return FormatPDF, nil
	case ".docx":
		return FormatDOCX, nil
	case ".html", ".htm":
		return FormatHTML, nil
	default:
		return "", &UnsupportedFormatError{Name: name, Ext: ext}
	}
}

// ExtractFile reads the file at path and returns its cleaned text.
func ExtractFile(path string) (string, *Metadata, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil, fmt.Errorf("file not found: %w", err)
		}
		return "", nil, fmt.Errorf("failed to read file: %w", err)
	}
	return ExtractBytes(path, data)
}

// ExtractBytes extracts and cleans the text of an in-memory file. The name is
// only used to pick the format.
func ExtractBytes(name string, data []byte) (string, *Metadata, error) {
	format, err := DetectFormat(name)
	if err != nil {
		return "", nil, err
	}

	var raw string
	switch format {
	case FormatText:
		if !utf8.Valid(data) {
			data = bytes.ToValidUTF8(data, []byte(" "))
		}
		raw = string(data)
	case FormatPDF:
		raw, err = extractPDFText(data)
	case FormatDOCX:
		raw, err = extractDocxText(data)
	case FormatHTML:
		raw, err = fetch.ExtractMainText(string(data), fetch.DefaultTextSelectors())
	}
	if err != nil {
		return "", nil, fmt.Errorf("failed to extract text from %s: %w", filepath.Base(name), err)
	}

	text := CleanText(raw)
	return text, NewMetadata(text, name, format), nil
}

// extractPDFText concatenates the plain text of every page. The pdf reader
// panics on some malformed files, so panics are returned as errors.
func extractPDFText(data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("malformed pdf: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to read pdf: %w", err)
	}

	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("failed to read pdf page %d: %w", i, err)
		}
		sb.WriteString(pageText)
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

func extractDocxText(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to parse docx: %w", err)
	}
	defer func() { _ = doc.Close() }()

	return documentXMLText(doc.Editable().GetContent())
}

// documentXMLText pulls the character data out of a WordprocessingML body,
// ending each paragraph with a newline and mapping tabs and breaks to spaces.
func documentXMLText(content string) (string, error) {
	decoder := xml.NewDecoder(strings.NewReader(content))
	decoder.Strict = false

	var sb strings.Builder
	inText := false
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("failed to parse document xml: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab", "br":
				sb.WriteString(" ")
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				sb.WriteString("\n")
			}
		case xml.CharData:
			if inText {
				sb.Write(t)
			}
		}
	}
	return sb.String(), nil
}
