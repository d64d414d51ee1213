package utils

import (
	"context"
	"fmt"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	"github.com/docwell/docwell-backend/config"
)

// Uploader wraps the Cloudinary client used for doctor profile
// pictures.
type Uploader struct {
	cld *cloudinary.Cloudinary
}

// NewUploader returns nil when Cloudinary is not configured; callers
// treat a nil Uploader as uploads-disabled.
func NewUploader(cfg *config.Config) (*Uploader, error) {
	if cfg.CloudinaryCloudName == "" {
		return nil, nil
	}
	cld, err := cloudinary.NewFromParams(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
	if err != nil {
		return nil, err
	}
	return &Uploader{cld: cld}, nil
}

// UploadProfilePicture stores an image and returns its secure URL.
func (u *Uploader) UploadProfilePicture(ctx context.Context, file interface{}, doctorID uint) (string, error) {
	if u == nil {
		return "", fmt.Errorf("uploads are not configured")
	}
	resp, err := u.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		PublicID:       fmt.Sprintf("doctor-%d", doctorID),
		Folder:         "doctor-profiles",
		Transformation: "c_thumb,w_200,h_200",
	})
	if err != nil {
		return "", err
	}
	return resp.SecureURL, nil
}
