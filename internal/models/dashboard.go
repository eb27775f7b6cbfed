package models

// AccountPnl — P&L аккаунта; сервер может прислать числа или строку "Error",
// поэтому поля декодируем через Price.
type AccountPnl struct {
	USDC   Price `json:"usdc"`
	Crypto Price `json:"crypto"`
}

// AccountInfo — агрегат по ключу exchange_mode, отдаётся сервером целиком.
type AccountInfo struct {
	Balance     string     `json:"balance"`
	Pnl         AccountPnl `json:"pnl"`
	ActivePairs int        `json:"active_pairs"`
}

// Order — открытый ордер в срезе /api/data (symbol -> side -> Order).
type Order struct {
	Price    float64 `json:"price"`
	Amount   float64 `json:"amount"`
	OrderID  string  `json:"order_id"`
	Exchange string  `json:"exchange"`
}

// DashboardData — полный снапшот /api/data.
type DashboardData struct {
	Orders      map[string]map[string]Order `json:"orders"`
	Prices      map[string]Price            `json:"prices"`
	TotalProfit float64                     `json:"total_profit"`
	ActivePairs int                         `json:"active_pairs"`
	TradeStatus map[string]bool             `json:"trade_status"`
	AccountInfo map[string]AccountInfo      `json:"account_info"`
}

// PriceUpdate — пуш-дельта с канала: только изменившиеся символы.
type PriceUpdate struct {
	Prices      map[string]Price `json:"prices"`
	TradeStatus map[string]bool  `json:"trade_status"`
}

// ControlResult — ответ /api/control. Финальное состояние берём только
// из BotIsRunning, а не из того, что предполагал клиент.
type ControlResult struct {
	Status       string `json:"status"`
	PairID       int    `json:"pair_id"`
	BotIsRunning bool   `json:"bot_is_running"`
}
