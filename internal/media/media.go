package media

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/joshua-takyi/rendez/internal/models"
)

const (
	VenueFolder  = "venues"
	EventsFolder = "events"
)

// Uploader stores a media source (data URI, remote URL or file path) and
// returns its public URL together with an id usable for cleanup.
type Uploader interface {
	Upload(ctx context.Context, source, folder string) (secureURL, publicID string, err error)
	Destroy(ctx context.Context, publicID string) error
}

type CloudinaryUploader struct {
	cld  *cloudinary.Cloudinary
	tags []string
}

func NewCloudinaryUploader(cld *cloudinary.Cloudinary, tags ...string) *CloudinaryUploader {
	return &CloudinaryUploader{cld: cld, tags: tags}
}

func (cu *CloudinaryUploader) Upload(ctx context.Context, source, folder string) (string, string, error) {
	res, err := cu.cld.Upload.Upload(ctx, source, uploader.UploadParams{
		Folder: folder,
		Tags:   cu.tags,
	})
	if err != nil {
		return "", "", err
	}
	if res.Error.Message != "" {
		return "", "", errors.New(res.Error.Message)
	}
	return res.SecureURL, res.PublicID, nil
}

func (cu *CloudinaryUploader) Destroy(ctx context.Context, publicID string) error {
	_, err := cu.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	return err
}

// IsRemoteURL reports whether entry is an absolute http(s) URL.
func IsRemoteURL(entry string) bool {
	u, err := url.Parse(entry)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// Resolve turns media entries into public URLs. Entries that are already
// http(s) URLs are kept as given and the rest are uploaded. It returns the
// public ids of uploaded files so the caller can remove them if the record
// is not persisted. Without an uploader only URLs are accepted. Upload
// failures are returned as a *models.StoreError with Op "upload media".
func Resolve(ctx context.Context, up Uploader, entries []string, folder string) ([]string, []string, error) {
	urls := make([]string, 0, len(entries))
	var uploaded []string
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if IsRemoteURL(entry) {
			urls = append(urls, entry)
			continue
		}
		if up == nil {
			Cleanup(ctx, up, uploaded, nil)
			return nil, nil, models.NewValidationError("media", "must contain only http(s) URLs")
		}
		secureURL, publicID, err := up.Upload(ctx, entry, folder)
		if err != nil {
			Cleanup(ctx, up, uploaded, nil)
			return nil, nil, &models.StoreError{Op: "upload media", Err: err}
		}
		urls = append(urls, secureURL)
		uploaded = append(uploaded, publicID)
	}
	return urls, uploaded, nil
}

// Cleanup removes uploaded files. Failures are logged, not returned.
func Cleanup(ctx context.Context, up Uploader, publicIDs []string, logger *slog.Logger) {
	if up == nil || len(publicIDs) == 0 {
		return
	}
	var errs []error
	for _, id := range publicIDs {
		if err := up.Destroy(ctx, id); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", id, err))
		}
	}
	if len(errs) > 0 && logger != nil {
		logger.Warn("failed to remove orphaned media", "error", errors.Join(errs...))
	}
}
