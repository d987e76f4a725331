package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/admin"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// CloudinaryStorage keeps files as Cloudinary image assets. Keys are public ids.
type CloudinaryStorage struct {
	cld        *cloudinary.Cloudinary
	folder     string
	httpClient *http.Client
}

func NewCloudinaryStorage(cloudName, apiKey, apiSecret, folder string) (*CloudinaryStorage, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("init cloudinary: %w", err)
	}
	cld.Config.URL.Secure = true

	return &CloudinaryStorage{
		cld:        cld,
		folder:     strings.Trim(folder, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}, nil
}

// publicID drops the extension; Cloudinary derives the format from the content.
func (s *CloudinaryStorage) publicID(p string) string {
	p = strings.TrimPrefix(path.Clean("/"+p), "/")
	p = strings.TrimSuffix(p, path.Ext(p))
	if s.folder == "" {
		return p
	}
	return s.folder + "/" + p
}

func (s *CloudinaryStorage) Upload(ctx context.Context, file io.Reader, p string, contentType string) (string, error) {
	resp, err := s.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		PublicID:     s.publicID(p),
		ResourceType: "image",
	})
	if err != nil {
		return "", fmt.Errorf("cloudinary upload: %w", err)
	}
	if resp.Error.Message != "" {
		return "", fmt.Errorf("cloudinary upload: %s", resp.Error.Message)
	}
	return resp.PublicID, nil
}

func (s *CloudinaryStorage) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	asset, err := s.cld.Admin.Asset(ctx, admin.AssetParams{PublicID: key})
	if err != nil {
		return nil, fmt.Errorf("cloudinary asset lookup: %w", err)
	}
	if asset.Error.Message != "" || asset.SecureURL == "" {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, asset.SecureURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("cloudinary download: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("cloudinary download: status %d", resp.StatusCode)
	}
	return resp.Body, nil
}

func (s *CloudinaryStorage) Delete(ctx context.Context, key string) error {
	resp, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: key})
	if err != nil {
		return fmt.Errorf("cloudinary destroy: %w", err)
	}
	if resp.Error.Message != "" {
		return fmt.Errorf("cloudinary destroy: %s", resp.Error.Message)
	}
	return nil
}

// GetURL returns the public delivery URL; expiry does not apply to public assets.
func (s *CloudinaryStorage) GetURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	img, err := s.cld.Image(key)
	if err != nil {
		return "", fmt.Errorf("cloudinary image: %w", err)
	}
	url, err := img.String()
	if err != nil {
		return "", fmt.Errorf("cloudinary image url: %w", err)
	}
	return url, nil
}
