// Package document reads and fills Word Open XML (.docx) contract documents.
package document

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

var (
	// ErrUnsupportedFormat is returned for any file extension other than .docx
	ErrUnsupportedFormat = errors.New("unsupported document format")

	// ErrNoDocumentBody is returned when the archive has no word/document.xml
	ErrNoDocumentBody = errors.New("archive has no document body")
)

// wordDocument mirrors the WordprocessingML structure we care about. Only
// paragraphs that are direct children of the body are read; tables, headers
// and footers are skipped on the extraction path.
type wordDocument struct {
	XMLName xml.Name `xml:"document"`
	Body    wordBody `xml:"body"`
}

type wordBody struct {
	Paragraphs []wordParagraph `xml:"p"`
}

type wordParagraph struct {
	Runs []wordRun `xml:"r"`
}

type wordRun struct {
	Texts []string `xml:"t"`
}

// ExtractText opens a .docx stream and returns its body paragraphs joined with
// newlines, in document order. The declared filename decides format support.
func ExtractText(r io.Reader, filename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext != ".docx" {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read document stream: %w", err)
	}

	archive, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open docx archive: %w", err)
	}

	var docEntry *zip.File
	for _, f := range archive.File {
		if f.Name == "word/document.xml" {
			docEntry = f
			break
		}
	}
	if docEntry == nil {
		return "", ErrNoDocumentBody
	}

	rc, err := docEntry.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open document body: %w", err)
	}
	defer rc.Close()

	body, err := io.ReadAll(rc)
	if err != nil {
		return "", fmt.Errorf("failed to read document body: %w", err)
	}

	var doc wordDocument
	if err := xml.Unmarshal(body, &doc); err != nil {
		return "", fmt.Errorf("failed to parse document xml: %w", err)
	}

	var sb strings.Builder
	for _, p := range doc.Body.Paragraphs {
		for _, run := range p.Runs {
			for _, t := range run.Texts {
				sb.WriteString(t)
			}
		}
		sb.WriteString("\n")
	}

	return sb.String(), nil
}
