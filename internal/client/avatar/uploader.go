// Package avatar is a small API client that uploads a profile picture: it
// asks the server for a presigned URL, sends the bytes to object storage
// and records the object key on the caller's profile.
package avatar

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/learnfeed/internal/common"
	"github.com/dmitrijs2005/learnfeed/internal/netx"
)

type Uploader struct {
	baseURL     string
	accessToken string
	client      *http.Client
}

func NewUploader(baseURL, accessToken string, client *http.Client) *Uploader {
	return &Uploader{
		baseURL:     strings.TrimRight(baseURL, "/"),
		accessToken: accessToken,
		client:      client,
	}
}

type uploadURL struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

// Upload stores body as the caller's avatar and returns its object key.
func (u *Uploader) Upload(ctx context.Context, contentType string, body io.Reader) (string, error) {
	var target uploadURL
	if err := u.call(ctx, http.MethodPost, "/api/me/avatar/upload-url", nil, &target); err != nil {
		return "", fmt.Errorf("request upload url: %w", err)
	}

	if err := netx.UploadToPresignedURL(ctx, u.client, target.URL, contentType, body); err != nil {
		return "", err
	}

	if err := u.call(ctx, http.MethodPut, "/api/me/avatar", map[string]string{"key": target.Key}, nil); err != nil {
		return "", fmt.Errorf("set avatar: %w", err)
	}

	return target.Key, nil
}

func (u *Uploader) call(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+u.accessToken)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := u.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&e)
		return fmt.Errorf("%s: %s", resp.Status, e.Error)
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
