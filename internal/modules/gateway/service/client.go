package service

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"

	"trade_console/internal/modules/config"
)

// Client — HTTP-клиент торгового сервиса. Все методы синхронные с ctx;
// асинхронность — забота планировщика.
type Client struct {
	cfg  *config.Config
	http *http.Client
	base string
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: 10 * time.Second},
		base: strings.TrimRight(cfg.Service.BaseURL, "/"),
	}
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "GET "+path)
	defer span.Finish()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+path, nil)
	if err != nil {
		return errors.Wrapf(err, "build request %s", path)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrapf(err, "get %s", path)
	}
	defer resp.Body.Close()

	rb, _ := io.ReadAll(resp.Body)
	if resp.StatusCode/100 != 2 {
		// тело с {"error": ...} пытаемся отдать вызывающему как данные —
		// такие ответы рендерятся на месте таблицы, а не роняют цикл
		if out != nil && len(rb) > 0 && sonic.Unmarshal(rb, out) == nil {
			return nil
		}
		return errors.Errorf("http %d on %s: %s", resp.StatusCode, path, string(rb))
	}
	if err := sonic.Unmarshal(rb, out); err != nil {
		return errors.Wrapf(err, "decode %s", path)
	}
	return nil
}

// postJSON — non-2xx с осмысленным JSON-телом не считается транспортной
// ошибкой: семантические отказы (/api/control со статусом "Invalid...")
// разбирает вызывающий по полям ответа.
func (c *Client) postJSON(ctx context.Context, path string, body, out any) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "POST "+path)
	defer span.Finish()

	var rd io.Reader
	if body != nil {
		bs, err := sonic.Marshal(body)
		if err != nil {
			return errors.Wrapf(err, "encode %s", path)
		}
		rd = bytes.NewReader(bs)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+path, rd)
	if err != nil {
		return errors.Wrapf(err, "build request %s", path)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrapf(err, "post %s", path)
	}
	defer resp.Body.Close()

	rb, _ := io.ReadAll(resp.Body)
	if out != nil && len(rb) > 0 {
		if err := sonic.Unmarshal(rb, out); err == nil {
			return nil
		}
	}
	if resp.StatusCode/100 != 2 {
		return errors.Errorf("http %d on %s: %s", resp.StatusCode, path, string(rb))
	}
	return nil
}
