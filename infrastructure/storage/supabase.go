// Package storage implements the object-storage port against Supabase
// Storage. Source documents live in a per-user folder inside one bucket and
// are served through public URLs the generation endpoints download from.
package storage

import (
	"context"
	"io"
	"mime"
	"path/filepath"

	storage_go "github.com/supabase-community/storage-go"
	"github.com/supabase-community/supabase-go"
	"go.uber.org/zap"

	"github.com/gabigoranov/Study-Platform-sub000/application/ports"
	pkgerrors "github.com/gabigoranov/Study-Platform-sub000/pkg/errors"
	"github.com/gabigoranov/Study-Platform-sub000/pkg/utils"
)

// SupabaseClient wraps the Supabase storage API behind ports.StorageClient
type SupabaseClient struct {
	client *storage_go.Client
	bucket string
	logger *zap.Logger
}

// NewSupabaseClient builds a storage client for the given project
func NewSupabaseClient(projectURL, serviceKey, bucket string, logger *zap.Logger) (*SupabaseClient, error) {
	client, err := supabase.NewClient(projectURL, serviceKey, nil)
	if err != nil {
		return nil, pkgerrors.NewInternalError("creating supabase client", err)
	}
	return &SupabaseClient{
		client: client.Storage,
		bucket: bucket,
		logger: logger,
	}, nil
}

// objectPath scopes every object to its owner's folder
func objectPath(userID, filename string) string {
	return userID + "/" + filename
}

// UploadFile stores the document with upsert semantics, so re-uploading the
// same filename replaces the previous object instead of failing. Returns the
// public URL of the stored object.
func (c *SupabaseClient) UploadFile(ctx context.Context, userID, filename string, data io.Reader) (string, error) {
	path := objectPath(userID, filename)

	contentType := mime.TypeByExtension(filepath.Ext(filename))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	upsert := true

	_, err := c.client.UploadFile(c.bucket, path, data, storage_go.FileOptions{
		ContentType: &contentType,
		Upsert:      &upsert,
	})
	if err != nil {
		return "", pkgerrors.NewUploadFailedError("uploading to bucket "+c.bucket, err)
	}

	resp := c.client.GetPublicUrl(c.bucket, path)
	c.logger.Debug("object stored",
		zap.String("bucket", c.bucket),
		zap.String("path", path),
	)
	return resp.SignedURL, nil
}

// ListFiles lists the objects in the user's folder, newest first
func (c *SupabaseClient) ListFiles(ctx context.Context, userID string) ([]ports.StoredFile, error) {
	objects, err := c.client.ListFiles(c.bucket, userID, storage_go.FileSearchOptions{
		SortByOptions: storage_go.SortBy{Column: "updated_at", Order: "desc"},
	})
	if err != nil {
		return nil, pkgerrors.NewInternalError("listing bucket "+c.bucket, err)
	}

	files := make([]ports.StoredFile, 0, len(objects))
	for _, obj := range objects {
		updatedAt, _ := utils.ParseRFC3339(obj.UpdatedAt)
		file := ports.StoredFile{
			Name:      obj.Name,
			UpdatedAt: updatedAt,
		}
		// object size arrives inside the untyped metadata blob
		if meta, ok := obj.Metadata.(map[string]interface{}); ok {
			if size, ok := meta["size"].(float64); ok {
				file.Size = int64(size)
			}
		}
		files = append(files, file)
	}
	return files, nil
}

// DeleteFile removes one object from the user's folder
func (c *SupabaseClient) DeleteFile(ctx context.Context, userID, filename string) error {
	path := objectPath(userID, filename)
	if _, err := c.client.RemoveFile(c.bucket, []string{path}); err != nil {
		return pkgerrors.NewInternalError("removing "+path, err)
	}
	c.logger.Debug("object removed",
		zap.String("bucket", c.bucket),
		zap.String("path", path),
	)
	return nil
}
