package domain

import "errors"

// Source material validation errors
var (
	// ErrNoSourceMaterial is returned when neither free text nor a file
	// attachment is supplied. This is user-correctable and must be surfaced
	// immediately without retrying.
	ErrNoSourceMaterial = errors.New("no source material supplied: provide text, a file, or both")

	// ErrFileAttachmentIncomplete is returned when a file attachment is
	// present but missing its MIME type or payload.
	ErrFileAttachmentIncomplete = errors.New("file attachment must include mime type and payload")
)

// FileAttachment is an uploaded document to ground generation on.
// Intake validation (accepted types, size limits) happens in the upload
// collaborator before the attachment reaches the core; here the payload is
// already decoded to raw bytes.
type FileAttachment struct {
	Name     string `json:"name"`
	MIMEType string `json:"mime_type"`
	Data     []byte `json:"data"`
}

// SourceMaterial is the study material a generation call is grounded on.
// Text and File may both be present, in which case both are sent in the
// same request; at least one must be non-empty.
type SourceMaterial struct {
	Text string          `json:"text,omitempty"`
	File *FileAttachment `json:"file,omitempty"`
}

// HasFile reports whether a usable file attachment is present.
func (m SourceMaterial) HasFile() bool {
	return m.File != nil && len(m.File.Data) > 0
}

// Validate checks that the material can ground a generation call.
// Returns ErrNoSourceMaterial if both text and file are absent, and
// ErrFileAttachmentIncomplete if a file is present but unusable.
func (m SourceMaterial) Validate() error {
	if m.File != nil {
		if m.File.MIMEType == "" || len(m.File.Data) == 0 {
			return ErrFileAttachmentIncomplete
		}
	}
	if m.Text == "" && !m.HasFile() {
		return ErrNoSourceMaterial
	}
	return nil
}
