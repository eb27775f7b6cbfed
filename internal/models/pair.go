package models

import "fmt"

type Exchange string

const (
	ExchangeBinance Exchange = "binance"
	ExchangeBybit   Exchange = "bybit"
	ExchangeGateio  Exchange = "gateio"
	ExchangeBitmart Exchange = "bitmart"
)

type TradingMode string

const (
	ModeTestnet TradingMode = "testnet"
	ModeReal    TradingMode = "real"
)

// PairIdentity — торговая пара, которой управляет движок.
// Уникальна по ID; symbol может повторяться на разных биржах/режимах,
// поэтому всё, что ключуется по символу, дополнительно скоупится биржей.
type PairIdentity struct {
	ID       int         `yaml:"id" json:"id"`
	Symbol   string      `yaml:"symbol" json:"symbol"`
	Exchange Exchange    `yaml:"exchange" json:"exchange"`
	Mode     TradingMode `yaml:"trading_mode" json:"trading_mode"`
}

// AccountKey — ключ аккаунта вида "binance_real", как его отдаёт сервер.
func (p PairIdentity) AccountKey() string {
	return fmt.Sprintf("%s_%s", p.Exchange, p.Mode)
}

// PairConfig — полный конфиг пары для /api/update_pair_config.
type PairConfig struct {
	PairID         int     `json:"pair_id"`
	BuyPercentage  float64 `json:"buy_percentage"`
	SellPercentage float64 `json:"sell_percentage"`
	Amount         float64 `json:"amount"`
	Exchange       string  `json:"exchange"`
	TradingMode    string  `json:"trading_mode"`
	ProfitMode     string  `json:"profit_mode"`
}
