package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"hiresight/internal/config"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

var ErrNotConfigured = errors.New("cloudinary is not configured")

// Cloudinary uploads resumes as public PDF assets.
type Cloudinary struct {
	cld    *cloudinary.Cloudinary
	folder string
	logger *log.Logger
}

func NewCloudinary(cfg config.CloudinaryConfig, logger *log.Logger) (*Cloudinary, error) {
	if strings.TrimSpace(cfg.URL) == "" {
		return nil, ErrNotConfigured
	}
	cld, err := cloudinary.NewFromURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("cloudinary: %w", err)
	}
	folder := strings.TrimSpace(cfg.Folder)
	if folder == "" {
		folder = "resumes"
	}
	return &Cloudinary{cld: cld, folder: folder, logger: logger}, nil
}

func (c *Cloudinary) UploadResume(ctx context.Context, filename string, r io.Reader) (string, error) {
	if c == nil || c.cld == nil {
		return "", ErrNotConfigured
	}

	params := uploader.UploadParams{
		Folder:         c.folder,
		ResourceType:   "image",
		Format:         "pdf",
		AccessMode:     "public",
		UseFilename:    api.Bool(true),
		UniqueFilename: api.Bool(true),
	}
	if name := strings.TrimSuffix(filename, ".pdf"); name != "" {
		params.FilenameOverride = name
	}

	res, err := c.cld.Upload.Upload(ctx, r, params)
	if err != nil {
		return "", fmt.Errorf("cloudinary upload: %w", err)
	}
	if res.Error.Message != "" {
		return "", fmt.Errorf("cloudinary upload: %s", res.Error.Message)
	}
	if res.SecureURL == "" {
		return "", errors.New("cloudinary upload: empty secure url")
	}

	if c.logger != nil {
		c.logger.Printf("[Storage] Resume uploaded public_id=%s bytes=%d", res.PublicID, res.Bytes)
	}
	return res.SecureURL, nil
}
