package gateway

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/tidwall/gjson"

	"country-currency-api/internal/domains/country/model"
)

// DefaultTimeout áp dụng khi config không chỉ định
const DefaultTimeout = 10 * time.Second

// maxBodyBytes giới hạn body đọc từ upstream
const maxBodyBytes = 32 << 20

// NewHTTPClient tạo http.Client với timeout cố định cho upstream calls
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{Timeout: timeout}
}

// GetJSON thực hiện GET và trả về body đã kiểm tra là JSON hợp lệ.
// Mọi lỗi (network, timeout, non-2xx, body hỏng) đều là UpstreamUnavailable.
func GetJSON(ctx context.Context, client *http.Client, url, source string) (gjson.Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return gjson.Result{}, model.NewUpstreamUnavailable(source, fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return gjson.Result{}, model.NewUpstreamUnavailable(source, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return gjson.Result{}, model.NewUpstreamUnavailable(source, fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return gjson.Result{}, model.NewUpstreamUnavailable(source, fmt.Errorf("read body: %w", err))
	}

	if !gjson.ValidBytes(body) {
		return gjson.Result{}, model.NewUpstreamUnavailable(source, errors.New("invalid JSON body"))
	}

	return gjson.ParseBytes(body), nil
}
