package main

import (
	"fmt"
	"math/rand"
	"net/http"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gorilla/websocket"

	"trade_console/internal/models"
)

// world — всё состояние имитируемого сервиса за одним мьютексом.
// Здесь он нужен: HTTP-хэндлеры и тикеры ходят из разных горутин.
type world struct {
	mu sync.Mutex

	pairs   []models.PairIdentity
	prices  map[string]float64
	running map[int]bool

	notifications map[string][]models.Notification
	positions     []models.OpenPosition
	pairProfits   map[string][]models.PairProfitRecord
	profitLog     []models.ProfitLogEntry
	strategyLog   []string

	theme        string
	baseCurrency string

	upgrader websocket.Upgrader
	clients  map[*websocket.Conn]bool
}

func newWorld() *world {
	w := &world{
		pairs: []models.PairIdentity{
			{ID: 1, Symbol: "BTCUSDC", Exchange: models.ExchangeBinance, Mode: models.ModeReal},
			{ID: 2, Symbol: "ETHUSDC", Exchange: models.ExchangeBinance, Mode: models.ModeReal},
			{ID: 3, Symbol: "SOLUSDC", Exchange: models.ExchangeBybit, Mode: models.ModeTestnet},
			{ID: 7, Symbol: "XRPUSDC", Exchange: models.ExchangeGateio, Mode: models.ModeTestnet},
		},
		prices: map[string]float64{
			"BTCUSDC": 64250.1234,
			"ETHUSDC": 3412.5678,
			"SOLUSDC": 148.4321,
			"XRPUSDC": 0.5912,
		},
		running:       map[int]bool{1: true},
		notifications: make(map[string][]models.Notification),
		pairProfits:   make(map[string][]models.PairProfitRecord),
		theme:         "dark",
		baseCurrency:  "USDC",
		upgrader:      websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }},
		clients:       make(map[*websocket.Conn]bool),
	}

	for _, p := range w.pairs {
		w.pairProfits[p.AccountKey()] = append(w.pairProfits[p.AccountKey()], models.PairProfitRecord{
			PairID:       p.ID,
			Symbol:       p.Symbol,
			ProfitUSDC:   rand.Float64() * 40,
			ProfitCrypto: rand.Float64() * 0.01,
		})
	}

	w.positions = []models.OpenPosition{
		{Symbol: "BTCUSDC", Exchange: "binance", TradingMode: "real", BuyPrice: 63800, Quantity: 0.015,
			CurrentPrice: models.NewPrice(64250.12), CurrentPnl: models.NewPrice(6.75)},
		{Symbol: "BTCUSDC", Exchange: "binance", TradingMode: "real", BuyPrice: 64900, Quantity: 0.01,
			CurrentPrice: models.NewPrice(64250.12), CurrentPnl: models.NewPrice(-6.5)},
		{Symbol: "SOLUSDC", Exchange: "bybit", TradingMode: "testnet", BuyPrice: 151, Quantity: 4,
			CurrentPrice: models.NewPrice(148.43), CurrentPnl: models.NewPrice(-10.28)},
	}

	// история сделок за последние двое суток
	now := time.Now()
	for i := 0; i < 47; i++ {
		p := w.pairs[i%len(w.pairs)]
		w.profitLog = append(w.profitLog, models.ProfitLogEntry{
			Timestamp:   now.Add(-time.Duration(i) * time.Hour).Format("2006-01-02 15:04:05"),
			Symbol:      p.Symbol,
			BuyPrice:    w.prices[p.Symbol] * 0.99,
			SellPrice:   w.prices[p.Symbol],
			Amount:      rand.Float64(),
			ProfitUSDT:  rand.Float64()*10 - 2,
			Exchange:    string(p.Exchange),
			TradingMode: string(p.Mode),
		})
	}
	return w
}

func writeJSON(rw http.ResponseWriter, code int, v any) {
	bs, err := sonic.Marshal(v)
	if err != nil {
		http.Error(rw, err.Error(), http.StatusInternalServerError)
		return
	}
	rw.Header().Set("Content-Type", "application/json")
	rw.WriteHeader(code)
	_, _ = rw.Write(bs)
}

func readJSON(r *http.Request, v any) error {
	return sonic.ConfigDefault.NewDecoder(r.Body).Decode(v)
}

func (w *world) handleData(rw http.ResponseWriter, _ *http.Request) {
	w.mu.Lock()
	defer w.mu.Unlock()

	prices := make(map[string]models.Price, len(w.prices))
	for sym, v := range w.prices {
		prices[sym] = models.NewPrice(v)
	}

	accounts := make(map[string]models.AccountInfo)
	active := 0
	tradeStatus := make(map[string]bool, len(w.pairs))
	for _, p := range w.pairs {
		tradeStatus[p.Symbol] = w.running[p.ID]
		acc := accounts[p.AccountKey()]
		if w.running[p.ID] {
			acc.ActivePairs++
			active++
		}
		acc.Balance = fmt.Sprintf("%.2f %s", 1000+rand.Float64()*200, w.baseCurrency)
		acc.Pnl = models.AccountPnl{
			USDC:   models.NewPrice(rand.Float64()*20 - 5),
			Crypto: models.NewPrice(rand.Float64() * 0.001),
		}
		accounts[p.AccountKey()] = acc
	}

	total := 0.0
	for _, rows := range w.pairProfits {
		for _, r := range rows {
			total += r.ProfitUSDC
		}
	}

	writeJSON(rw, http.StatusOK, models.DashboardData{
		Orders:      map[string]map[string]models.Order{},
		Prices:      prices,
		TotalProfit: total,
		ActivePairs: active,
		TradeStatus: tradeStatus,
		AccountInfo: accounts,
	})
}

func (w *world) handleControl(rw http.ResponseWriter, r *http.Request) {
	var req struct {
		Action string `json:"action"`
		PairID int    `json:"pair_id"`
	}
	if err := readJSON(r, &req); err != nil {
		writeJSON(rw, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	known := false
	for _, p := range w.pairs {
		if p.ID == req.PairID {
			known = true
			break
		}
	}
	if !known || (req.Action != "start" && req.Action != "stop") {
		// семантический отказ идёт с кодом 200, как у оригинала
		writeJSON(rw, http.StatusOK, models.ControlResult{Status: "Invalid pair", PairID: req.PairID})
		return
	}

	w.running[req.PairID] = req.Action == "start"
	writeJSON(rw, http.StatusOK, models.ControlResult{
		Status:       "success",
		PairID:       req.PairID,
		BotIsRunning: w.running[req.PairID],
	})
}

func (w *world) handleBotStatuses(rw http.ResponseWriter, _ *http.Request) {
	w.mu.Lock()
	defer w.mu.Unlock()

	out := make(map[string]bool, len(w.pairs))
	for _, p := range w.pairs {
		out[strconv.Itoa(p.ID)] = w.running[p.ID]
	}
	writeJSON(rw, http.StatusOK, out)
}

func (w *world) handleNotifications(rw http.ResponseWriter, _ *http.Request) {
	w.mu.Lock()
	defer w.mu.Unlock()
	writeJSON(rw, http.StatusOK, w.notifications)
}

func (w *world) handleClearNotifications(rw http.ResponseWriter, _ *http.Request) {
	w.mu.Lock()
	w.notifications = make(map[string][]models.Notification)
	w.mu.Unlock()
	writeJSON(rw, http.StatusOK, map[string]string{"status": "success"})
}

func (w *world) handlePairProfit(rw http.ResponseWriter, _ *http.Request) {
	w.mu.Lock()
	defer w.mu.Unlock()
	writeJSON(rw, http.StatusOK, w.pairProfits)
}

func (w *world) handleOpenPositions(rw http.ResponseWriter, _ *http.Request) {
	w.mu.Lock()
	defer w.mu.Unlock()
	writeJSON(rw, http.StatusOK, w.positions)
}

func (w *world) handleResetProfit(rw http.ResponseWriter, r *http.Request) {
	w.pairProfitAction(rw, r, func(rec *models.PairProfitRecord) bool {
		rec.ProfitUSDC = 0
		rec.ProfitCrypto = 0
		return true
	})
}

func (w *world) handleRemovePairProfit(rw http.ResponseWriter, r *http.Request) {
	var req struct {
		PairID int `json:"pair_id"`
	}
	if err := readJSON(r, &req); err != nil {
		writeJSON(rw, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	for key, rows := range w.pairProfits {
		kept := rows[:0]
		for _, rec := range rows {
			if rec.PairID != req.PairID {
				kept = append(kept, rec)
			}
		}
		w.pairProfits[key] = kept
	}
	writeJSON(rw, http.StatusOK, map[string]string{"status": "success"})
}

func (w *world) pairProfitAction(rw http.ResponseWriter, r *http.Request, apply func(*models.PairProfitRecord) bool) {
	var req struct {
		PairID int `json:"pair_id"`
	}
	if err := readJSON(r, &req); err != nil {
		writeJSON(rw, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	for key, rows := range w.pairProfits {
		for i := range rows {
			if rows[i].PairID == req.PairID && apply(&rows[i]) {
				w.pairProfits[key] = rows
				writeJSON(rw, http.StatusOK, map[string]string{"status": "success"})
				return
			}
		}
	}
	writeJSON(rw, http.StatusOK, map[string]string{"status": "not found"})
}

func (w *world) handleClearOpenPositions(rw http.ResponseWriter, r *http.Request) {
	var req struct {
		Symbol      string  `json:"symbol"`
		Exchange    string  `json:"exchange"`
		TradingMode *string `json:"trading_mode"`
	}
	if err := readJSON(r, &req); err != nil {
		writeJSON(rw, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	kept := w.positions[:0]
	for _, p := range w.positions {
		match := p.Symbol == req.Symbol && p.Exchange == req.Exchange
		if match && req.TradingMode != nil {
			match = p.TradingMode == *req.TradingMode
		}
		if !match {
			kept = append(kept, p)
		}
	}
	w.positions = kept
	writeJSON(rw, http.StatusOK, map[string]string{"status": "success"})
}

func (w *world) handleUpdatePairConfig(rw http.ResponseWriter, r *http.Request) {
	var req models.PairConfig
	if err := readJSON(r, &req); err != nil {
		writeJSON(rw, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running[req.PairID] {
		writeJSON(rw, http.StatusOK, map[string]string{
			"status":  "error",
			"message": "Cannot update config while bot is running",
		})
		return
	}
	writeJSON(rw, http.StatusOK, map[string]string{
		"status":  "success",
		"message": fmt.Sprintf("Pair %d config updated", req.PairID),
	})
}

func (w *world) handleExchangePairs(rw http.ResponseWriter, r *http.Request) {
	exchange := r.URL.Query().Get("exchange")

	w.mu.Lock()
	defer w.mu.Unlock()
	var out []string
	for _, p := range w.pairs {
		if string(p.Exchange) == exchange {
			out = append(out, p.Symbol)
		}
	}
	writeJSON(rw, http.StatusOK, map[string][]string{"pairs": out})
}

func (w *world) handleProfitLog(rw http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 20
	}
	timeframe := r.URL.Query().Get("timeframe")
	sortKey := r.URL.Query().Get("sort")

	w.mu.Lock()
	defer w.mu.Unlock()

	entries := filterTimeframe(w.profitLog, timeframe)
	switch sortKey {
	case "profit":
		sort.SliceStable(entries, func(i, j int) bool { return entries[i].ProfitUSDT > entries[j].ProfitUSDT })
	case "symbol":
		sort.SliceStable(entries, func(i, j int) bool { return entries[i].Symbol < entries[j].Symbol })
	default:
		sort.SliceStable(entries, func(i, j int) bool { return entries[i].Timestamp > entries[j].Timestamp })
	}

	total := len(entries)
	totalPages := (total + perPage - 1) / perPage
	if totalPages < 1 {
		totalPages = 1
	}
	if page > totalPages {
		page = totalPages
	}
	lo := (page - 1) * perPage
	hi := lo + perPage
	if hi > total {
		hi = total
	}

	writeJSON(rw, http.StatusOK, models.ProfitPage{
		Entries:     entries[lo:hi],
		TotalPages:  totalPages,
		CurrentPage: page,
		HasNext:     page < totalPages,
		HasPrev:     page > 1,
		TotalItems:  total,
	})
}

func filterTimeframe(entries []models.ProfitLogEntry, timeframe string) []models.ProfitLogEntry {
	var horizon time.Duration
	switch timeframe {
	case "1d":
		horizon = 24 * time.Hour
	case "7d":
		horizon = 7 * 24 * time.Hour
	case "30d":
		horizon = 30 * 24 * time.Hour
	default:
		return append([]models.ProfitLogEntry(nil), entries...)
	}

	cutoff := time.Now().Add(-horizon).Format("2006-01-02 15:04:05")
	var out []models.ProfitLogEntry
	for _, e := range entries {
		if e.Timestamp >= cutoff {
			out = append(out, e)
		}
	}
	return out
}

func (w *world) handleProfitData(rw http.ResponseWriter, _ *http.Request) {
	w.mu.Lock()
	defer w.mu.Unlock()

	entries := append([]models.ProfitLogEntry(nil), w.profitLog...)
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Timestamp < entries[j].Timestamp })

	curve := models.ProfitCurve{}
	sum := 0.0
	for _, e := range entries {
		sum += e.ProfitUSDT
		curve.Timestamps = append(curve.Timestamps, e.Timestamp)
		curve.Profits = append(curve.Profits, sum)
	}
	writeJSON(rw, http.StatusOK, curve)
}

func (w *world) handleToggleTheme(rw http.ResponseWriter, _ *http.Request) {
	w.mu.Lock()
	if w.theme == "dark" {
		w.theme = "light"
	} else {
		w.theme = "dark"
	}
	theme := w.theme
	w.mu.Unlock()
	writeJSON(rw, http.StatusOK, map[string]string{"theme": theme})
}

func (w *world) handleSetBaseCurrency(rw http.ResponseWriter, r *http.Request) {
	var req struct {
		BaseCurrency string `json:"base_currency"`
	}
	if err := readJSON(r, &req); err != nil {
		writeJSON(rw, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	w.mu.Lock()
	w.baseCurrency = req.BaseCurrency
	w.mu.Unlock()
	writeJSON(rw, http.StatusOK, map[string]string{"status": "success"})
}
