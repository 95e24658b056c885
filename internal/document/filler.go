package document

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"strings"
)

// Replacement runs over the body plus headers and footers; the template-fill
// path covers more of the document than the validation extractor does.
func isTextPart(name string) bool {
	if name == "word/document.xml" {
		return true
	}
	return strings.HasPrefix(name, "word/header") || strings.HasPrefix(name, "word/footer")
}

// FillTemplate rewrites a .docx template, replacing every {{key}} token found
// in the document text parts with its value from replacements. All other
// archive entries are copied through untouched.
func FillTemplate(template io.Reader, replacements map[string]string, out io.Writer) error {
	data, err := io.ReadAll(template)
	if err != nil {
		return fmt.Errorf("failed to read template: %w", err)
	}

	archive, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return fmt.Errorf("failed to open template archive: %w", err)
	}

	w := zip.NewWriter(out)
	for _, f := range archive.File {
		rc, err := f.Open()
		if err != nil {
			return fmt.Errorf("failed to open template entry %s: %w", f.Name, err)
		}

		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return fmt.Errorf("failed to read template entry %s: %w", f.Name, err)
		}

		if isTextPart(f.Name) {
			text := string(content)
			for key, value := range replacements {
				text = strings.ReplaceAll(text, "{{"+key+"}}", xmlEscape(value))
			}
			content = []byte(text)
		}

		header := f.FileHeader
		entry, err := w.CreateHeader(&header)
		if err != nil {
			return fmt.Errorf("failed to create output entry %s: %w", f.Name, err)
		}
		if _, err := entry.Write(content); err != nil {
			return fmt.Errorf("failed to write output entry %s: %w", f.Name, err)
		}
	}

	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to finalize filled document: %w", err)
	}
	return nil
}

func xmlEscape(s string) string {
	r := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&apos;",
	)
	return r.Replace(s)
}
