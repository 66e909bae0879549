package office

import (
	"bytes"
	"fmt"
	"strings"

	"code.sajari.com/docconv"
)

const (
	MimeDoc  = "application/msword"
	MimeDocx = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// IsWordDocument reports whether mimeType is a .doc or .docx upload
func IsWordDocument(mimeType string) bool {
	return mimeType == MimeDoc || mimeType == MimeDocx
}

// ExtractText returns the body text of a Word document. Legacy .doc files
// need the wvText tool on PATH.
func ExtractText(content []byte, mimeType string) (string, error) {
	var (
		text string
		err  error
	)

	switch mimeType {
	case MimeDocx:
		text, _, err = docconv.ConvertDocx(bytes.NewReader(content))
	case MimeDoc:
		text, _, err = docconv.ConvertDoc(bytes.NewReader(content))
	default:
		return "", fmt.Errorf("not a word document: %s", mimeType)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read word document: %w", err)
	}
	return strings.TrimSpace(text), nil
}
