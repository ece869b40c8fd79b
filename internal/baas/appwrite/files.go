package appwrite

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"

	"portfolio-site/internal/baas"
)

type fileStore struct {
	c       *client
	session baas.Session
}

type fileResponse struct {
	ID       string `json:"$id"`
	BucketID string `json:"bucketId"`
	Name     string `json:"name"`
	Size     int64  `json:"sizeOriginal"`
}

func (f *fileStore) Create(ctx context.Context, bucket, id string, u baas.Upload) (baas.FileInfo, error) {
	if id == "" {
		id = "unique()"
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if err := mw.WriteField("fileId", id); err != nil {
		return baas.FileInfo{}, err
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, u.Name))
	ct := u.ContentType
	if ct == "" {
		ct = "application/octet-stream"
	}
	h.Set("Content-Type", ct)
	part, err := mw.CreatePart(h)
	if err != nil {
		return baas.FileInfo{}, err
	}
	if _, err := io.Copy(part, u.Body); err != nil {
		return baas.FileInfo{}, fmt.Errorf("read upload: %w", err)
	}
	if err := mw.Close(); err != nil {
		return baas.FileInfo{}, err
	}

	var resp fileResponse
	if _, err := f.c.do(ctx, request{
		method:      http.MethodPost,
		path:        "/storage/buckets/" + url.PathEscape(bucket) + "/files",
		body:        &buf,
		contentType: mw.FormDataContentType(),
		session:     f.session,
	}, &resp); err != nil {
		return baas.FileInfo{}, err
	}
	return baas.FileInfo{ID: resp.ID, Bucket: resp.BucketID, Name: resp.Name, Size: resp.Size}, nil
}

// ViewURL is the public view endpoint of a file in a readable bucket.
func (f *fileStore) ViewURL(bucket, fileID string) string {
	return fmt.Sprintf("%s/storage/buckets/%s/files/%s/view?project=%s",
		f.c.endpoint, url.PathEscape(bucket), url.PathEscape(fileID), url.QueryEscape(f.c.project))
}
