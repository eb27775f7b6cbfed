package service

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"trade_console/internal/models"
)

// Dashboard — полный снапшот /api/data, базовая линия для всех кэшей.
func (c *Client) Dashboard(ctx context.Context) (models.DashboardData, error) {
	var out models.DashboardData
	err := c.getJSON(ctx, "/api/data", &out)
	return out, err
}

// BotStatuses — pairId -> running. В JSON ключи строковые.
func (c *Client) BotStatuses(ctx context.Context) (map[int]bool, error) {
	raw := make(map[string]bool)
	if err := c.getJSON(ctx, "/api/bot_statuses", &raw); err != nil {
		return nil, err
	}
	out := make(map[int]bool, len(raw))
	for k, v := range raw {
		id, err := strconv.Atoi(k)
		if err != nil {
			continue
		}
		out[id] = v
	}
	return out, nil
}

func (c *Client) Notifications(ctx context.Context) (map[string][]models.Notification, error) {
	out := make(map[string][]models.Notification)
	err := c.getJSON(ctx, "/api/notifications", &out)
	return out, err
}

func (c *Client) OpenPositions(ctx context.Context) ([]models.OpenPosition, error) {
	var out []models.OpenPosition
	err := c.getJSON(ctx, "/api/open_positions", &out)
	return out, err
}

func (c *Client) PairProfits(ctx context.Context) (map[string][]models.PairProfitRecord, error) {
	out := make(map[string][]models.PairProfitRecord)
	err := c.getJSON(ctx, "/api/pair_profit", &out)
	return out, err
}

func (c *Client) ProfitPage(ctx context.Context, page, perPage int, timeframe, sortKey string) (models.ProfitPage, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("per_page", strconv.Itoa(perPage))
	q.Set("timeframe", timeframe)
	q.Set("sort", sortKey)

	var out models.ProfitPage
	err := c.getJSON(ctx, "/api/profit_log_entries?"+q.Encode(), &out)
	return out, err
}

func (c *Client) ProfitCurve(ctx context.Context) (models.ProfitCurve, error) {
	var out models.ProfitCurve
	err := c.getJSON(ctx, "/api/profit_data", &out)
	return out, err
}

func (c *Client) ExchangePairs(ctx context.Context, exchange string) ([]string, error) {
	var out struct {
		Pairs []string `json:"pairs"`
	}
	err := c.getJSON(ctx, fmt.Sprintf("/api/exchange_pairs?exchange=%s", url.QueryEscape(exchange)), &out)
	return out.Pairs, err
}
