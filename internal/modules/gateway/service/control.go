package service

import (
	"context"

	"github.com/pkg/errors"

	"trade_console/internal/models"
)

// Control — start/stop бота пары. Семантический отказ приходит внутри
// ControlResult.Status, транспортный — ошибкой.
func (c *Client) Control(ctx context.Context, action string, pairID int) (models.ControlResult, error) {
	body := map[string]any{"action": action, "pair_id": pairID}
	var out models.ControlResult
	err := c.postJSON(ctx, "/api/control", body, &out)
	return out, err
}

// ClearOpenPositions — удаляет все позиции группы (symbol, exchange);
// mode=nil, когда в группе смешаны режимы.
func (c *Client) ClearOpenPositions(ctx context.Context, symbol, exchange string, mode *string) error {
	body := map[string]any{
		"symbol":       symbol,
		"exchange":     exchange,
		"trading_mode": mode,
	}
	var out struct {
		Status string `json:"status"`
		Error  string `json:"error"`
	}
	if err := c.postJSON(ctx, "/api/clear_open_positions", body, &out); err != nil {
		return err
	}
	if out.Error != "" {
		return errors.Errorf("clear_open_positions: %s", out.Error)
	}
	return nil
}

func (c *Client) ClearNotifications(ctx context.Context) error {
	var out struct {
		Status string `json:"status"`
	}
	return c.postJSON(ctx, "/clear_notifications", nil, &out)
}

func (c *Client) ResetProfit(ctx context.Context, pairID int) error {
	return c.pairProfitAction(ctx, "/api/reset_profit", pairID)
}

func (c *Client) RemovePairProfit(ctx context.Context, pairID int) error {
	return c.pairProfitAction(ctx, "/api/remove_pair_profit", pairID)
}

func (c *Client) pairProfitAction(ctx context.Context, path string, pairID int) error {
	body := map[string]any{"pair_id": pairID}
	var out struct {
		Status string `json:"status"`
		Error  string `json:"error"`
	}
	if err := c.postJSON(ctx, path, body, &out); err != nil {
		return err
	}
	if out.Error != "" {
		return errors.Errorf("%s: %s", path, out.Error)
	}
	if out.Status != "success" {
		return errors.Errorf("%s: status=%s", path, out.Status)
	}
	return nil
}

// UpdatePairConfig — ошибка редактирования прилетает в message,
// показываем её пользователю как есть.
func (c *Client) UpdatePairConfig(ctx context.Context, cfg models.PairConfig) (status, message string, err error) {
	var out struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	}
	if err := c.postJSON(ctx, "/api/update_pair_config", cfg, &out); err != nil {
		return "", "", err
	}
	return out.Status, out.Message, nil
}

func (c *Client) ToggleTheme(ctx context.Context) (string, error) {
	var out struct {
		Theme string `json:"theme"`
	}
	err := c.postJSON(ctx, "/toggle_theme", nil, &out)
	return out.Theme, err
}

func (c *Client) SetBaseCurrency(ctx context.Context, currency string) error {
	body := map[string]any{"base_currency": currency}
	var out struct {
		Status string `json:"status"`
	}
	return c.postJSON(ctx, "/set_base_currency", body, &out)
}
