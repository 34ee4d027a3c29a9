package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"go.uber.org/zap"
)

// CloudinaryAPI is the subset of the Cloudinary upload API used here.
type CloudinaryAPI interface {
	Upload(ctx context.Context, file interface{}, params uploader.UploadParams) (*uploader.UploadResult, error)
	Destroy(ctx context.Context, params uploader.DestroyParams) (*uploader.DestroyResult, error)
}

// Cloudinary uploads artifacts as public resources under one folder. Each
// configured resource type is tried in order until the provider accepts one.
// Public ids carry the booking id and are never overwritten, so removing one
// booking's artifact cannot touch another's.
type Cloudinary struct {
	api           CloudinaryAPI
	folder        string
	resourceTypes []string
	log           *zap.Logger
}

func NewCloudinary(client CloudinaryAPI, folder string, resourceTypes []string, log *zap.Logger) *Cloudinary {
	if len(resourceTypes) == 0 {
		resourceTypes = []string{"image", "raw"}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Cloudinary{
		api:           client,
		folder:        strings.Trim(folder, "/"),
		resourceTypes: resourceTypes,
		log:           log.Named("storage.cloudinary"),
	}
}

func (c *Cloudinary) Name() string { return "cloudinary" }

func (c *Cloudinary) Put(ctx context.Context, obj Object) (*Artifact, error) {
	if err := obj.validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidObject, err)
	}
	key := strings.TrimSpace(obj.Key)
	if key == "" {
		return nil, fmt.Errorf("%w: key is required", ErrInvalidObject)
	}
	publicID := key
	if id := strings.TrimSpace(obj.BookingID); id != "" {
		publicID = key + "-" + id
	}

	var errs []error
	for _, resourceType := range c.resourceTypes {
		res, err := c.api.Upload(ctx, bytes.NewReader(obj.Bytes), uploader.UploadParams{
			PublicID:       publicID,
			Folder:         c.folder,
			ResourceType:   resourceType,
			Overwrite:      api.Bool(false),
			UniqueFilename: api.Bool(false),
		})
		if err == nil && res != nil && res.Error.Message != "" {
			err = errors.New(res.Error.Message)
		}
		if err == nil && (res == nil || res.SecureURL == "") {
			err = errors.New("upload returned no url")
		}
		if err != nil {
			c.log.Warn("cloudinary upload rejected",
				zap.String("resource_type", resourceType),
				zap.String("public_id", publicID),
				zap.Error(err),
			)
			errs = append(errs, fmt.Errorf("%s: %w", resourceType, err))
			continue
		}

		return &Artifact{
			Locator:      res.SecureURL,
			Strategy:     c.Name(),
			RemoteID:     res.PublicID,
			ResourceType: resourceType,
		}, nil
	}

	return nil, errors.Join(errs...)
}

func (c *Cloudinary) Remove(ctx context.Context, artifact *Artifact) error {
	if artifact == nil || artifact.RemoteID == "" {
		return nil
	}
	res, err := c.api.Destroy(ctx, uploader.DestroyParams{
		PublicID:     artifact.RemoteID,
		ResourceType: artifact.ResourceType,
	})
	if err != nil {
		return err
	}
	if res != nil && res.Error.Message != "" {
		return errors.New(res.Error.Message)
	}
	return nil
}
