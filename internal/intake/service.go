// Package intake turns an uploaded or pasted resume into ResumeData and keeps
// the raw upload in the object store.
package intake

import (
	"bytes"
	"context"
	"errors"
	"strings"

	"jobfit-backend/internal/extract"
	"jobfit-backend/internal/shared/storage/object"
	"jobfit-backend/internal/shared/telemetry"
	"jobfit-backend/internal/shared/util"
)

// ErrNoResume is returned when neither a file nor pasted text was provided.
var ErrNoResume = errors.New("resume file or text is required")

// Upload is the outcome of intake.
type Upload struct {
	Resume     extract.ResumeData `json:"resume"`
	StorageKey string             `json:"storageKey,omitempty"`
}

// Service extracts resume text and persists raw uploads.
type Service struct {
	Store object.ObjectStore
}

// NewService constructs a Service. store may be nil.
func NewService(store object.ObjectStore) *Service {
	return &Service{Store: store}
}

// Accept extracts text from an uploaded file. The raw bytes are stored
// best-effort; a storage failure does not fail intake.
func (s *Service) Accept(ctx context.Context, userID, fileName, mimeType string, data []byte) (Upload, error) {
	if len(data) == 0 {
		return Upload{}, ErrNoResume
	}
	name, err := util.SanitizeFileName(fileName)
	if err != nil {
		name = ""
	}

	rd, err := extract.FromBytes(ctx, data, mimeType, name)
	if err != nil {
		telemetry.Warn("intake.extract_failed", map[string]any{
			"user_id":   userID,
			"file_name": name,
			"mime_type": mimeType,
			"error":     err,
		})
		return Upload{}, err
	}
	if rd.FileName == "" || rd.FileName == "." {
		rd.FileName = "resume"
	}
	up := Upload{Resume: rd}

	if s.Store != nil {
		stored, err := s.Store.Save(ctx, userID, rd.FileName, bytes.NewReader(data))
		if err != nil {
			telemetry.Warn("intake.store_failed", map[string]any{"user_id": userID, "error": err})
		} else {
			up.StorageKey = stored.Key
		}
	}
	telemetry.Info("intake.accepted", map[string]any{
		"user_id":     userID,
		"file_name":   rd.FileName,
		"size_bytes":  len(data),
		"text_chars":  len(rd.Text),
		"storage_key": up.StorageKey,
	})
	return up, nil
}

// FromText accepts pasted resume text.
func (s *Service) FromText(text, fileName string) (Upload, error) {
	text = strings.TrimSpace(strings.TrimPrefix(text, "\uFEFF"))
	if text == "" {
		return Upload{}, ErrNoResume
	}
	name, err := util.SanitizeFileName(fileName)
	if err != nil {
		name = "pasted.txt"
	}
	return Upload{Resume: extract.ResumeData{Text: text, FileName: name}}, nil
}
