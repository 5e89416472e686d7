// Package extract turns uploaded files into plain text ready for pagination.
package extract

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

const (
	ContentTypeText = "text/plain"
	ContentTypePDF  = "application/pdf"
)

// ErrUnsupportedType is returned for files that are neither text nor PDF.
var ErrUnsupportedType = errors.New("unsupported file type (only PDF and TXT allowed)")

// ContentType resolves the upload's media type, falling back to the file
// extension when the header is missing. Parameters such as charset are dropped.
func ContentType(header, filename string) (string, error) {
	contentType := strings.TrimSpace(strings.ToLower(header))
	if i := strings.IndexByte(contentType, ';'); i >= 0 {
		contentType = strings.TrimSpace(contentType[:i])
	}
	if contentType == "" || contentType == "application/octet-stream" {
		switch strings.ToLower(filepath.Ext(filename)) {
		case ".txt", ".text", ".md":
			contentType = ContentTypeText
		case ".pdf":
			contentType = ContentTypePDF
		}
	}
	switch contentType {
	case ContentTypeText, ContentTypePDF:
		return contentType, nil
	default:
		return "", ErrUnsupportedType
	}
}

// Text returns the plain text of content. PDF pages are joined with newlines;
// anything else is taken as UTF-8 text.
func Text(contentType string, content []byte) (string, error) {
	if contentType != ContentTypePDF {
		return string(content), nil
	}
	text, err := pdfText(content)
	if err != nil {
		return "", fmt.Errorf("pdf extraction: %w", err)
	}
	return text, nil
}

func pdfText(content []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for pageNum := 1; pageNum <= reader.NumPage(); pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() || page.V.Key("Contents").Kind() == pdf.Null {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			// Skip pages that fail to extract
			continue
		}
		b.WriteString(text)
		b.WriteString("\n")
	}
	return b.String(), nil
}
