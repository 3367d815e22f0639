package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"roomify-client/utils"

	"go.uber.org/zap"
)

// Client talks to the Roomify REST API. It keeps no session state: every
// authenticated call takes the bearer token explicitly.
type Client struct {
	baseURL   string
	assetBase string
	http      *http.Client
	log       *zap.Logger
}

// NewClient builds a client for baseURL (".../api"). assetBase is the origin
// that relative image paths are resolved against. A zero timeout leaves the
// transport defaults in charge.
func NewClient(baseURL, assetBase string, timeout time.Duration, log *zap.Logger) *Client {
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		assetBase: strings.TrimRight(assetBase, "/"),
		http:      &http.Client{Timeout: timeout},
		log:       utils.OrNop(log).Named("api"),
	}
}

// WithHTTPClient swaps the underlying *http.Client.
func (c *Client) WithHTTPClient(h *http.Client) *Client {
	c.http = h
	return c
}

// AssetURL makes a server-relative path such as /static/images/x.jpg
// absolute. Absolute URLs and "" are returned unchanged.
func (c *Client) AssetURL(path string) string {
	if path == "" || strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.assetBase + path
}

type call struct {
	method      string
	path        string
	token       string
	body        interface{}
	raw         io.Reader
	contentType string
	// fallback is the message used when a failed response carries none.
	fallback string
}

func (c *Client) do(ctx context.Context, req call) Result {
	reader := req.raw
	contentType := req.contentType
	if req.body != nil {
		b, err := json.Marshal(req.body)
		if err != nil {
			return Failure(fmt.Sprintf("encoding request: %v", err))
		}
		reader = bytes.NewReader(b)
		contentType = "application/json"
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, c.baseURL+req.path, reader)
	if err != nil {
		return Failure(err.Error())
	}
	httpReq.Header.Set("Accept", "application/json")
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	if req.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+req.token)
	}

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Failure(ctxErr.Error())
		}
		c.log.Warn("request failed",
			zap.String("method", req.method),
			zap.String("path", req.path),
			zap.Error(err),
		)
		return Failure(MsgNoResponse)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.log.Warn("reading response failed", zap.String("path", req.path), zap.Error(err))
		return Failure(MsgNoResponse)
	}

	c.log.Debug("request",
		zap.String("method", req.method),
		zap.String("path", req.path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
	)
	return normalize(resp.StatusCode, body, req.fallback)
}

func (c *Client) get(ctx context.Context, path, token, fallback string) Result {
	return c.do(ctx, call{method: http.MethodGet, path: path, token: token, fallback: fallback})
}

// multipartFile builds a single-file multipart body under field.
func multipartFile(field, filename string, r io.Reader) (*bytes.Buffer, string, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	part, err := w.CreateFormFile(field, filename)
	if err != nil {
		return nil, "", err
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf, w.FormDataContentType(), nil
}
