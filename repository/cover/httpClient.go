package cover

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"librarydesk/util/httpx"
)

var ErrNoCover = errors.New("cover: no image found")

// Extensions tried in order; the original console uploaded jpg first.
var exts = []string{"jpg", "png", "webp"}

type httpRepo struct {
	base   string // {endpoint}/{bucket}
	client *http.Client
}

func NewHTTP(endpoint, bucket string) Repo {
	return &httpRepo{
		base:   strings.TrimRight(endpoint, "/") + "/" + strings.Trim(bucket, "/"),
		client: httpx.Client(),
	}
}

func (r *httpRepo) Resolve(ctx context.Context, itemID int64, isbn string) (string, error) {
	keys := []string{fmt.Sprintf("book-%d", itemID)}
	if isbn != "" {
		keys = append(keys, "isbn-"+strings.ReplaceAll(isbn, "-", ""))
	}
	for _, key := range keys {
		for _, ext := range exts {
			url := fmt.Sprintf("%s/%s.%s", r.base, key, ext)
			ok, err := r.exists(ctx, url)
			if err != nil {
				return "", err
			}
			if ok {
				return url, nil
			}
		}
	}
	return "", ErrNoCover
}

func (r *httpRepo) exists(ctx context.Context, url string) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return false, err
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return false, err
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK, nil
}

func (r *httpRepo) Upload(ctx context.Context, itemID int64, ext string, contentType string, body io.Reader) (string, error) {
	ext = strings.TrimPrefix(strings.ToLower(ext), ".")
	valid := false
	for _, e := range exts {
		if ext == e {
			valid = true
			break
		}
	}
	if !valid {
		return "", fmt.Errorf("cover: unsupported extension %q", ext)
	}

	url := fmt.Sprintf("%s/book-%d.%s", r.base, itemID, ext)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return "", err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("cover upload failed: %s", resp.Status)
	}
	return url, nil
}
