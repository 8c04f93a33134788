package clients

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"

	"github.com/EGS-Tourist-Guide/event-service/internal/faults"
	"github.com/EGS-Tourist-Guide/event-service/internal/retry"
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// FileStore holds at most one image per event, keyed by the event
// identity.
type FileStore interface {
	Upload(ctx context.Context, eventID string, file io.Reader) (string, error)
	DownloadURL(ctx context.Context, eventID string) (string, error)
	Delete(ctx context.Context, eventID string) error
}

const eventImageFolder = "events"

// CloudinaryStore keeps event images in Cloudinary under a stable
// public id derived from the event UUID, so a re-upload overwrites
// instead of accumulating.
type CloudinaryStore struct {
	cld *cloudinary.Cloudinary
}

func NewCloudinaryStore(cld *cloudinary.Cloudinary) *CloudinaryStore {
	return &CloudinaryStore{cld: cld}
}

func eventImageID(eventID string) string {
	return fmt.Sprintf("%s/event_%s", eventImageFolder, eventID)
}

func (s *CloudinaryStore) Upload(ctx context.Context, eventID string, file io.Reader) (string, error) {
	const op = "files.upload"
	overwrite := true
	return retry.Do(ctx, op, retry.FileDefaults(), func(ctx context.Context) (string, error) {
		res, err := s.cld.Upload.Upload(ctx, file, uploader.UploadParams{
			PublicID:  eventImageID(eventID),
			Overwrite: &overwrite,
		})
		if err != nil {
			return "", fileErr(op, err)
		}
		return res.SecureURL, nil
	})
}

// DownloadURL resolves the delivery URL for the event's image. The
// image bytes themselves are served by the storage CDN, not proxied.
func (s *CloudinaryStore) DownloadURL(ctx context.Context, eventID string) (string, error) {
	const op = "files.downloadURL"
	img, err := s.cld.Image(eventImageID(eventID))
	if err != nil {
		return "", faults.New(faults.KindInternal, op, err)
	}
	url, err := img.String()
	if err != nil {
		return "", faults.New(faults.KindInternal, op, err)
	}
	return url, nil
}

// Delete removes the event's image. A missing image is treated as
// success so event deletion stays idempotent.
func (s *CloudinaryStore) Delete(ctx context.Context, eventID string) error {
	const op = "files.delete"
	_, err := retry.Do(ctx, op, retry.FileDefaults(), func(ctx context.Context) (struct{}, error) {
		res, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{
			PublicID: eventImageID(eventID),
		})
		if err != nil {
			return struct{}{}, fileErr(op, err)
		}
		if res.Result != "ok" && res.Result != "not found" {
			return struct{}{}, faults.New(faults.KindGateway, op, fmt.Errorf("unexpected result %q", res.Result))
		}
		return struct{}{}, nil
	})
	return err
}

func fileErr(op string, err error) error {
	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return faults.New(faults.KindTimeout, op, err)
	case errors.As(err, &netErr), strings.Contains(err.Error(), "connection refused"):
		return faults.New(faults.KindTransport, op, err)
	default:
		return faults.New(faults.KindGateway, op, err)
	}
}

var _ FileStore = (*CloudinaryStore)(nil)
