package domain

// ParseMode selects how document text is extracted.
type ParseMode string

// Available parse modes.
const (
	// ParseModeLayout keeps reading order and line structure.
	ParseModeLayout ParseMode = "LAYOUT"

	// ParseModeOCR extracts plain text only.
	ParseModeOCR ParseMode = "OCR"
)

// IsValid returns true if the parse mode is recognised.
func (m ParseMode) IsValid() bool {
	return m == ParseModeLayout || m == ParseModeOCR
}

// String returns the string representation.
func (m ParseMode) String() string {
	return string(m)
}

// RawDocument represents the opaque bytes of a staged file.
// It is the parse function's input.
type RawDocument struct {
	// RelativePath identifies the file inside the upload area.
	RelativePath string

	// MIMEType is the content type (e.g., "application/pdf").
	MIMEType string

	// Content is the raw bytes.
	Content []byte
}
