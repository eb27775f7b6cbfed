package main

import (
	"log"
	"math/rand"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"trade_console/internal/models"
)

type wsFrame struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

func (w *world) handleWS(rw http.ResponseWriter, r *http.Request) {
	conn, err := w.upgrader.Upgrade(rw, r, nil)
	if err != nil {
		log.Printf("[WS] upgrade error: %v", err)
		return
	}

	w.mu.Lock()
	w.clients[conn] = true
	w.mu.Unlock()

	go w.readClient(conn)
}

// readClient слушает команды клиента: бэкфилл лога и ping.
func (w *world) readClient(conn *websocket.Conn) {
	defer func() {
		w.mu.Lock()
		delete(w.clients, conn)
		w.mu.Unlock()
		_ = conn.Close()
	}()

	for {
		var req struct {
			Event string `json:"event"`
		}
		if err := conn.ReadJSON(&req); err != nil {
			return
		}
		if req.Event != "request_initial_strategy_logs" {
			continue
		}

		w.mu.Lock()
		backlog := append([]string(nil), w.strategyLog...)
		w.mu.Unlock()
		for _, line := range backlog {
			if err := conn.WriteJSON(wsFrame{
				Event: "live_strategy_log",
				Data:  map[string]string{"data": line},
			}); err != nil {
				return
			}
		}
	}
}

func (w *world) broadcast(frame wsFrame) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for conn := range w.clients {
		if err := conn.WriteJSON(frame); err != nil {
			delete(w.clients, conn)
			_ = conn.Close()
		}
	}
}

// tickPrices — случайное блуждание цен; в дельту попадают только
// изменившиеся символы, как делает боевой канал.
func (w *world) tickPrices(every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for range t.C {
		w.mu.Lock()
		delta := make(map[string]models.Price)
		status := make(map[string]bool)
		for _, p := range w.pairs {
			if rand.Float64() < 0.3 {
				continue
			}
			v := w.prices[p.Symbol] * (1 + (rand.Float64()-0.5)*0.002)
			w.prices[p.Symbol] = v
			delta[p.Symbol] = models.NewPrice(v)
			status[p.Symbol] = w.running[p.ID]
		}
		w.mu.Unlock()

		if len(delta) == 0 {
			continue
		}
		w.broadcast(wsFrame{
			Event: "price_update",
			Data:  models.PriceUpdate{Prices: delta, TradeStatus: status},
		})
	}
}

// tickStrategyLog — живой лог стратегии; изредка — алерт про баланс и
// нотификация, чтобы было на чём проверять дедуп и алерты консоли.
func (w *world) tickStrategyLog(every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for range t.C {
		w.mu.Lock()
		p := w.pairs[rand.Intn(len(w.pairs))]
		line := time.Now().Format("15:04:05") + " " + p.Symbol + " ema/rsi checked, no signal"
		if rand.Float64() < 0.1 {
			line = "[ALERT] Not enough balance for " + p.Symbol
			w.notifications[p.Symbol] = append(w.notifications[p.Symbol], models.Notification{
				Timestamp: time.Now().Format("2006-01-02 15:04:05"),
				Type:      models.NotificationError,
				Message:   "Not enough balance for " + p.Symbol,
			})
		}
		w.strategyLog = append(w.strategyLog, line)
		if len(w.strategyLog) > 500 {
			w.strategyLog = w.strategyLog[len(w.strategyLog)-500:]
		}
		w.mu.Unlock()

		w.broadcast(wsFrame{
			Event: "live_strategy_log",
			Data:  map[string]string{"data": line},
		})
	}
}
