package models

// PairProfitRecord — накопленный профит пары, группируется сервером
// по ключу exchange_mode.
type PairProfitRecord struct {
	PairID       int     `json:"pair_id"`
	Symbol       string  `json:"symbol"`
	ProfitUSDC   float64 `json:"profit_usdc"`
	ProfitCrypto float64 `json:"profit_crypto"`
}

// ProfitLogEntry — строка журнала сделок (/api/profit_log_entries).
type ProfitLogEntry struct {
	Timestamp   string  `json:"timestamp"`
	Symbol      string  `json:"symbol"`
	BuyPrice    float64 `json:"buy_price"`
	SellPrice   float64 `json:"sell_price"`
	Amount      float64 `json:"amount"`
	ProfitUSDT  float64 `json:"profit_usdt"`
	Exchange    string  `json:"exchange"`
	TradingMode string  `json:"trading_mode"`
}

// ProfitPage — одна страница журнала. Error сервер кладёт в тело вместо
// данных, рендерим его на месте таблицы.
type ProfitPage struct {
	Entries     []ProfitLogEntry `json:"entries"`
	TotalPages  int              `json:"total_pages"`
	CurrentPage int              `json:"current_page"`
	HasNext     bool             `json:"has_next"`
	HasPrev     bool             `json:"has_prev"`
	TotalItems  int              `json:"total_items"`
	Error       string           `json:"error,omitempty"`
}

// ProfitCurve — кумулятивный профит для графика (/api/profit_data).
type ProfitCurve struct {
	Timestamps []string  `json:"timestamps"`
	Profits    []float64 `json:"profits"`
	Error      string    `json:"error,omitempty"`
}
