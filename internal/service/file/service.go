package file

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/storage"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
	"github.com/google/uuid"
)

const maxPhotoSize = 10 << 20 // 10MB decoded

type PhotoKind string

const (
	PhotoCheckIn  PhotoKind = "checkin"
	PhotoCheckOut PhotoKind = "checkout"
)

func (k PhotoKind) field() string {
	if k == PhotoCheckOut {
		return "checkOutPhoto"
	}
	return "checkInPhoto"
}

var photoExtensions = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/gif":  "gif",
	"image/webp": "webp",
}

type FileService interface {
	// UploadAttendancePhoto stores a base64 or data URI photo payload and returns its storage key.
	// The decoded bytes are stored unchanged.
	UploadAttendancePhoto(ctx context.Context, employeeID string, date time.Time, kind PhotoKind, payload string) (string, error)

	OpenFile(ctx context.Context, key string) (io.ReadCloser, error)
	DeleteFile(ctx context.Context, key string) error
	GetFileURL(ctx context.Context, key string, expiry time.Duration) (string, error)
}

type fileServiceImpl struct {
	storage storage.FileStorage
}

func NewFileService(storage storage.FileStorage) FileService {
	return &fileServiceImpl{
		storage: storage,
	}
}

func (s *fileServiceImpl) UploadAttendancePhoto(ctx context.Context, employeeID string, date time.Time, kind PhotoKind, payload string) (string, error) {
	data, contentType, err := decodePhoto(payload)
	if err != nil {
		return "", validator.ValidationErrors{{Field: kind.field(), Message: err.Error()}}
	}

	// attendance/{date}/{employeeID}-{kind}-{uuid}.{ext}
	name := fmt.Sprintf("%s-%s-%s.%s", employeeID, kind, uuid.NewString(), photoExtensions[contentType])
	p := path.Join("attendance", date.Format(validator.DateLayout), name)

	key, err := s.storage.Upload(ctx, bytes.NewReader(data), p, contentType)
	if err != nil {
		return "", fmt.Errorf("failed to upload attendance photo: %w", err)
	}

	return key, nil
}

func (s *fileServiceImpl) OpenFile(ctx context.Context, key string) (io.ReadCloser, error) {
	return s.storage.Download(ctx, key)
}

func (s *fileServiceImpl) DeleteFile(ctx context.Context, key string) error {
	return s.storage.Delete(ctx, key)
}

func (s *fileServiceImpl) GetFileURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	return s.storage.GetURL(ctx, key, expiry)
}

// decodePhoto accepts raw base64 or a data:image/<type>;base64, URI.
func decodePhoto(payload string) ([]byte, string, error) {
	payload = strings.TrimSpace(payload)

	declared := ""
	if rest, ok := strings.CutPrefix(payload, "data:"); ok {
		meta, body, found := strings.Cut(rest, ",")
		if !found || !strings.HasSuffix(meta, ";base64") {
			return nil, "", fmt.Errorf("photo must be a base64 data URI")
		}
		declared = strings.ToLower(strings.TrimSuffix(meta, ";base64"))
		payload = body
	}

	if base64.StdEncoding.DecodedLen(len(payload)) > maxPhotoSize+3 {
		return nil, "", fmt.Errorf("photo must not exceed 10MB")
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("photo is not valid base64")
	}
	if len(data) == 0 {
		return nil, "", fmt.Errorf("photo is empty")
	}
	if len(data) > maxPhotoSize {
		return nil, "", fmt.Errorf("photo must not exceed 10MB")
	}

	if _, ok := photoExtensions[declared]; ok {
		return data, declared, nil
	}
	sniffed := http.DetectContentType(data)
	if _, ok := photoExtensions[sniffed]; ok {
		return data, sniffed, nil
	}
	return nil, "", fmt.Errorf("photo must be a jpeg, png, gif or webp image")
}
