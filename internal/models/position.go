package models

// OpenPosition — сырая открытая позиция из /api/open_positions.
// Стабильного ID у неё нет: сервер удаляет позиции только группой
// (symbol, exchange), это ограничение контракта, а не клиента.
type OpenPosition struct {
	Symbol       string `json:"symbol"`
	Exchange     string `json:"exchange"`
	TradingMode  string `json:"trading_mode"`
	BuyPrice     float64 `json:"buy_price"`
	Quantity     float64 `json:"quantity"`
	CurrentPrice Price   `json:"current_price"`
	CurrentPnl   Price   `json:"current_pnl"`
}
