package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
)

// uploadFile posts a single file as multipart content and returns the stored
// file's URL from the envelope data.
func (c *Client) uploadFile(ctx context.Context, path, filename string, file io.Reader) (string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("api: build upload: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return "", fmt.Errorf("api: buffer upload: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("api: finish upload: %w", err)
	}

	raw, err := c.do(ctx, http.MethodPost, path, buf.Bytes(), writer.FormDataContentType())
	if err != nil {
		return "", err
	}

	var fileURL string
	if err := decodeData(raw, &fileURL); err != nil {
		return "", err
	}
	return fileURL, nil
}
