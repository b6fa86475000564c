// Package layout talks to the document layout analysis service that splits a
// PDF into positioned text segments.
package layout

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/siherrmann/lexent/helper"
	"github.com/siherrmann/lexent/model"
)

// Client posts PDFs to a layout analysis service.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates a client for the service at url. The url may omit the
// scheme.
func NewClient(url string) *Client {
	url = strings.TrimSpace(url)
	if url != "" && !strings.Contains(url, "://") {
		url = "http://" + url
	}
	return &Client{
		baseURL: url,
		client:  &http.Client{},
	}
}

// Analyze uploads the PDF at pdfPath and returns its segments in reading
// order.
func (c *Client) Analyze(ctx context.Context, pdfPath string) ([]model.SegmentBox, error) {
	raw, err := c.analyzeRaw(ctx, pdfPath)
	if err != nil {
		return nil, err
	}
	return decodeSegments(raw)
}

func (c *Client) analyzeRaw(ctx context.Context, pdfPath string) ([]byte, error) {
	file, err := os.Open(pdfPath)
	if err != nil {
		return nil, helper.NewError("open pdf", err)
	}
	defer file.Close()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filepath.Base(pdfPath))
	if err != nil {
		return nil, helper.NewError("create form file", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, helper.NewError("copy pdf", err)
	}
	if err := writer.Close(); err != nil {
		return nil, helper.NewError("close multipart writer", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, &body)
	if err != nil {
		return nil, helper.NewError("create layout request", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, helper.NewError("layout request", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, helper.NewError("read layout response", err)
	}
	if resp.StatusCode >= 400 {
		return nil, helper.NewError("layout analysis", fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw))))
	}
	return raw, nil
}

func decodeSegments(raw []byte) ([]model.SegmentBox, error) {
	var segments []model.SegmentBox
	if err := json.Unmarshal(raw, &segments); err != nil {
		return nil, helper.NewError("decode segments", err)
	}
	return segments, nil
}
