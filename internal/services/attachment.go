package services

import (
	"encoding/base64"
	"fmt"

	"github.com/andrevilar/romaneio-api/internal/models"
	"github.com/gabriel-vasile/mimetype"
)

// FileUpload is a raw uploaded document before encoding.
type FileUpload struct {
	Name    string
	Content []byte
}

// EncodeAttachment wraps raw file bytes into an immutable attachment
// record carrying a self-describing data URI, the same representation a
// browser FileReader produces. The content type is sniffed from the
// bytes, not trusted from the upload.
func EncodeAttachment(file FileUpload) (models.Attachment, error) {
	if file.Name == "" {
		return models.Attachment{}, fmt.Errorf("attachment name is required")
	}
	if len(file.Content) == 0 {
		return models.Attachment{}, fmt.Errorf("attachment %q is empty", file.Name)
	}

	mime := mimetype.Detect(file.Content)
	data := fmt.Sprintf("data:%s;base64,%s", mime.String(), base64.StdEncoding.EncodeToString(file.Content))

	return models.Attachment{Name: file.Name, Data: data}, nil
}

// EncodeAttachments encodes a batch in order. Any failure aborts the
// whole batch before anything is persisted, leaving the order's
// attachment list untouched.
func EncodeAttachments(files []FileUpload) ([]models.Attachment, error) {
	attachments := make([]models.Attachment, 0, len(files))
	for _, file := range files {
		att, err := EncodeAttachment(file)
		if err != nil {
			return nil, err
		}
		attachments = append(attachments, att)
	}
	return attachments, nil
}
