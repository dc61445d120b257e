// Package uploads stores bootcamp photos in Cloudinary.
package uploads

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"

	"github.com/devtrailhq/devtrail/pkg/apperror"
)

// Service handles image upload operations.
type Service struct {
	cld     *cloudinary.Cloudinary
	folder  string
	maxSize int64
}

// Result describes a stored image.
type Result struct {
	URL      string `json:"url"`
	PublicID string `json:"publicId"`
	Format   string `json:"format"`
	FileSize int64  `json:"fileSize"`
}

// NewService creates a Cloudinary-backed upload service. maxSize is the
// upload size ceiling in bytes.
func NewService(cloudName, apiKey, apiSecret, folder string, maxSize int64) (*Service, error) {
	if cloudName == "" || apiKey == "" || apiSecret == "" {
		return nil, errors.New("cloudinary credentials are required")
	}

	cld, err := cloudinary.NewFromURL(fmt.Sprintf("cloudinary://%s:%s@%s", apiKey, apiSecret, cloudName))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cloudinary client: %w", err)
	}

	if folder == "" {
		folder = "devtrail"
	}

	return &Service{cld: cld, folder: folder, maxSize: maxSize}, nil
}

// ValidateImage checks the upload header before any bytes are forwarded.
func (s *Service) ValidateImage(header *multipart.FileHeader) error {
	if header == nil {
		return apperror.BadRequest("Please upload an image file")
	}
	if !strings.HasPrefix(header.Header.Get("Content-Type"), "image") {
		return apperror.BadRequest("File must be an image")
	}
	if header.Size > s.maxSize {
		return apperror.BadRequest("Please limit the image size to less than %dMB", sizeMB(s.maxSize))
	}
	return nil
}

// UploadImage stores the file under a random object key and returns the
// hosted URL.
func (s *Service) UploadImage(ctx context.Context, file multipart.File) (*Result, error) {
	result, err := s.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder:       s.folder + "/photos",
		PublicID:     uuid.NewString(),
		ResourceType: "image",
	})
	if err != nil {
		return nil, apperror.Upstream("There was an error while uploading the file. Please contact the system administrator")
	}

	return &Result{
		URL:      result.SecureURL,
		PublicID: result.PublicID,
		Format:   result.Format,
		FileSize: int64(result.Bytes),
	}, nil
}

func sizeMB(bytes int64) int64 {
	mb := bytes / (1024 * 1024)
	if bytes%(1024*1024) != 0 {
		mb++
	}
	if mb < 1 {
		mb = 1
	}
	return mb
}
