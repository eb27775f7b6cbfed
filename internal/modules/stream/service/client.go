package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/gorilla/websocket"

	"trade_console/internal/models"
	"trade_console/internal/modules/config"
	healthsvc "trade_console/internal/modules/health/service"
)

type EventKind int

const (
	EventPriceUpdate EventKind = iota
	EventStrategyLog
)

// Event — сообщение пуш-канала наружу (в цикл планировщика).
type Event struct {
	Kind   EventKind
	Update models.PriceUpdate
	Line   string
}

// Client — пуш-подписка торгового сервиса: price_update и
// live_strategy_log. Доставка at-most-once, без гарантий exactly-once;
// пропущенные дельты добирает очередной poll.
type Client struct {
	cfg      *config.Config
	wsDialer *websocket.Dialer
	health   *healthsvc.State
}

func NewClient(cfg *config.Config, health *healthsvc.State) *Client {
	return &Client{
		cfg:      cfg,
		wsDialer: &websocket.Dialer{},
		health:   health,
	}
}

// Start — реконнект навсегда; после каждого (ре)коннекта запрашиваем
// бэкфилл лога стратегии.
func (c *Client) Start(ctx context.Context, out chan<- Event) {
	url := c.cfg.Service.WSURL

	for {
		log.Printf("[WS] connect %s", url)
		conn, _, err := c.wsDialer.Dial(url, nil)
		if err != nil {
			log.Printf("[WS] dial error: %v", err)
			select {
			case <-ctx.Done():
				return
			default:
				time.Sleep(time.Second)
			}
			continue
		}
		c.health.SetWSConnected(true)

		if err := conn.WriteJSON(map[string]string{"event": "request_initial_strategy_logs"}); err != nil {
			log.Printf("[WS] backfill request error: %v", err)
			_ = conn.Close()
			c.health.SetWSConnected(false)
			continue
		}

		// keepalive, иначе прокси режут простаивающее соединение
		stopPing := make(chan struct{})
		go func() {
			t := time.NewTicker(20 * time.Second)
			defer t.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-stopPing:
					return
				case <-t.C:
					_ = conn.WriteJSON(map[string]string{"event": "ping"})
				}
			}
		}()

		c.readLoop(ctx, conn, out)
		close(stopPing)
		c.health.SetWSConnected(false)

		select {
		case <-ctx.Done():
			return
		default:
			time.Sleep(time.Second)
		}
	}
}

func (c *Client) readLoop(ctx context.Context, conn *websocket.Conn, out chan<- Event) {
	defer conn.Close()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			log.Printf("[WS] read error: %v", err)
			return
		}

		var frame struct {
			Event string          `json:"event"`
			Data  json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(msg, &frame); err != nil {
			continue
		}

		var ev Event
		switch frame.Event {
		case "price_update":
			var upd models.PriceUpdate
			if err := json.Unmarshal(frame.Data, &upd); err != nil {
				continue
			}
			ev = Event{Kind: EventPriceUpdate, Update: upd}
		case "live_strategy_log":
			var body struct {
				Data string `json:"data"`
			}
			if err := json.Unmarshal(frame.Data, &body); err != nil {
				continue
			}
			ev = Event{Kind: EventStrategyLog, Line: body.Data}
		default:
			continue
		}

		c.health.TouchPush(time.Now())
		select {
		case out <- ev:
		case <-ctx.Done():
			return
		}
	}
}
