package view

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"trade_console/internal/models"
	"trade_console/internal/state"
)

// Явное дерево рендера: стабильная идентичность сущности -> готовая к
// показу строка. Никакого вычитывания состояния обратно из экрана —
// всё, что нужно пересборке, лежит в state-объектах.

type PairRow struct {
	Pair        models.PairIdentity
	PriceText   string
	Running     bool
	Pending     bool
	ToggleLabel string
	EditEnabled bool
	Orders      string // открытые ордера пары вида "buy@0.5900"
}

type AccountCard struct {
	Key         string
	Balance     string
	PnlUSDC     string
	PnlCrypto   string
	ActivePairs int
}

type PositionRow struct {
	Quantity     string
	BuyPrice     string
	CurrentPrice string
	Pnl          string
}

type GroupRow struct {
	Key      state.GroupKey
	Mode     string
	Quantity string
	Gain     string
	Loss     string
	Expanded bool
	Rows     []PositionRow
}

type ProfitRow struct {
	PairID int
	Symbol string
	USDC   string
	Crypto string
}

type AccountProfit struct {
	Account     string
	Rows        []ProfitRow
	TotalUSDC   string
	TotalCrypto string
}

type LedgerPage struct {
	Rows        []models.ProfitLogEntry
	Empty       bool
	Error       string
	PageLabel   string
	PrevEnabled bool
	NextEnabled bool
}

type Dashboard struct {
	Theme        string
	BaseCurrency string
	TotalProfit  string
	ActivePairs  int

	Rows          []PairRow
	Accounts      []AccountCard
	Groups        []GroupRow
	Profits       []AccountProfit
	Ledger        LedgerPage
	Notifications []models.Notification
	LogLines      []string
	Spark         string
}

// Sources — state-объекты, из которых собирается кадр. Передаются
// явно, без модульных синглтонов: тесты подставляют фикстуры.
type Sources struct {
	Pairs     []models.PairIdentity
	Prices    *state.MarketPriceCache
	Bots      *state.BotRunStateController
	Positions *state.PositionAggregator
	Ledger    *state.ProfitLedgerPaginator
	Inbox     *state.NotificationDeduper
	Profits   *state.PairProfitPanel
	Logs      *state.StrategyLogBuffer

	AccountInfo  map[string]models.AccountInfo
	Orders       map[string]map[string]models.Order
	Curve        models.ProfitCurve
	TotalProfit  float64
	ActivePairs  int
	Theme        string
	BaseCurrency string
	LogTail      int
}

// Build — чистая сборка кадра из состояния. Рендер обязан переживать
// частично недоступные данные: вместо падения — "N/A"/"Loading...".
func Build(s Sources) Dashboard {
	d := Dashboard{
		Theme:        s.Theme,
		BaseCurrency: s.BaseCurrency,
		TotalProfit:  fmt.Sprintf("%.2f", s.TotalProfit),
		ActivePairs:  s.ActivePairs,
	}

	for _, pair := range s.Pairs {
		d.Rows = append(d.Rows, PairRow{
			Pair:        pair,
			PriceText:   s.Prices.Format(pair.Symbol),
			Running:     s.Bots.Displayed(pair.ID),
			Pending:     s.Bots.Pending(pair.ID),
			ToggleLabel: s.Bots.ToggleLabel(pair.ID),
			EditEnabled: s.Bots.EditEnabled(pair.ID),
			Orders:      formatOrders(s.Orders[pair.Symbol]),
		})
	}

	for _, key := range accountKeys(s.AccountInfo) {
		info := s.AccountInfo[key]
		balance := info.Balance
		if balance == "" {
			balance = "Loading..."
		}
		d.Accounts = append(d.Accounts, AccountCard{
			Key:         key,
			Balance:     balance,
			PnlUSDC:     formatPnl(info.Pnl.USDC, 2),
			PnlCrypto:   formatPnl(info.Pnl.Crypto, 6),
			ActivePairs: info.ActivePairs,
		})
	}

	for _, g := range s.Positions.Groups() {
		row := GroupRow{
			Key:      g.Key,
			Mode:     g.Mode,
			Quantity: strconv.FormatFloat(g.TotalQty, 'f', 4, 64),
			Gain:     fmt.Sprintf("%.2f", g.GainSum),
			Loss:     fmt.Sprintf("%.2f", g.LossSum),
			Expanded: s.Positions.Expanded(g.Key),
		}
		if row.Expanded {
			for _, p := range g.Rows {
				row.Rows = append(row.Rows, PositionRow{
					Quantity:     strconv.FormatFloat(p.Quantity, 'f', 4, 64),
					BuyPrice:     models.NewPrice(p.BuyPrice).Format(),
					CurrentPrice: p.CurrentPrice.Format(),
					Pnl:          p.CurrentPnl.Format(),
				})
			}
		}
		d.Groups = append(d.Groups, row)
	}

	for _, account := range s.Profits.Accounts() {
		ap := AccountProfit{Account: account}
		for _, r := range s.Profits.Rows(account) {
			ap.Rows = append(ap.Rows, ProfitRow{
				PairID: r.PairID,
				Symbol: r.Symbol,
				USDC:   fmt.Sprintf("%.6f", r.ProfitUSDC),
				Crypto: fmt.Sprintf("%.6f", r.ProfitCrypto),
			})
		}
		// тоталы всегда пересчитываются из видимых строк
		usdc, crypto := s.Profits.Totals(account)
		ap.TotalUSDC = fmt.Sprintf("%.6f", usdc)
		ap.TotalCrypto = fmt.Sprintf("%.6f", crypto)
		d.Profits = append(d.Profits, ap)
	}

	page := s.Ledger.Page()
	d.Ledger = LedgerPage{
		Rows:        page.Entries,
		Empty:       s.Ledger.Loaded() && page.Error == "" && len(page.Entries) == 0,
		Error:       page.Error,
		PageLabel:   fmt.Sprintf("Page %d of %d", s.Ledger.CurrentPage(), max(page.TotalPages, 1)),
		PrevEnabled: s.Ledger.PrevEnabled(),
		NextEnabled: s.Ledger.NextEnabled(),
	}

	d.Notifications = s.Inbox.List()
	d.LogLines = s.Logs.Tail(s.LogTail)
	d.Spark = Sparkline(s.Curve.Profits, 40)
	return d
}

func formatOrders(bySide map[string]models.Order) string {
	if len(bySide) == 0 {
		return ""
	}
	sides := make([]string, 0, len(bySide))
	for side := range bySide {
		sides = append(sides, side)
	}
	sort.Strings(sides)
	parts := make([]string, 0, len(sides))
	for _, side := range sides {
		parts = append(parts, side+"@"+strconv.FormatFloat(bySide[side].Price, 'f', 4, 64))
	}
	return strings.Join(parts, " ")
}

func formatPnl(p models.Price, decimals int) string {
	if !p.Valid {
		return "N/A"
	}
	return strconv.FormatFloat(p.Value, 'f', decimals, 64)
}

func accountKeys(m map[string]models.AccountInfo) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
