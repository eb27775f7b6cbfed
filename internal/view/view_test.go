package view

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trade_console/internal/models"
	"trade_console/internal/state"
)

func fixtureSources() Sources {
	return Sources{
		Pairs: []models.PairIdentity{
			{ID: 1, Symbol: "BTCUSDC", Exchange: models.ExchangeBinance, Mode: models.ModeReal},
			{ID: 7, Symbol: "XRPUSDC", Exchange: models.ExchangeGateio, Mode: models.ModeTestnet},
		},
		Prices:    state.NewMarketPriceCache(),
		Bots:      state.NewBotRunStateController(),
		Positions: state.NewPositionAggregator(),
		Ledger:    state.NewProfitLedgerPaginator(),
		Inbox:     state.NewNotificationDeduper(),
		Profits:   state.NewPairProfitPanel(),
		Logs:      state.NewStrategyLogBuffer(10),
		Theme:     "dark",
		LogTail:   10,
	}
}

func TestBuildPairRows(t *testing.T) {
	s := fixtureSources()
	s.Prices.ApplyPushDelta(map[string]models.Price{"BTCUSDC": models.NewPrice(64250.1)})
	s.Orders = map[string]map[string]models.Order{
		"BTCUSDC": {"buy": {Price: 64000}},
	}
	_, _ = s.Bots.BeginToggle(7)

	d := Build(s)
	require.Len(t, d.Rows, 2)

	btc := d.Rows[0]
	assert.Equal(t, "64250.1000", btc.PriceText)
	assert.Equal(t, "Start", btc.ToggleLabel)
	assert.True(t, btc.EditEnabled)
	assert.Equal(t, "buy@64000.0000", btc.Orders)

	// оптимистичный старт: цены ещё нет, кнопка уже Stop, правка закрыта
	xrp := d.Rows[1]
	assert.Equal(t, "N/A", xrp.PriceText)
	assert.True(t, xrp.Pending)
	assert.Equal(t, "Stop", xrp.ToggleLabel)
	assert.False(t, xrp.EditEnabled)
}

func TestBuildLedgerStates(t *testing.T) {
	s := fixtureSources()

	// до первой загрузки — не "пусто", а просто ещё не загружено
	d := Build(s)
	assert.False(t, d.Ledger.Empty)
	assert.Equal(t, "Page 1 of 1", d.Ledger.PageLabel)

	s.Ledger.Apply(models.ProfitPage{TotalPages: 0, CurrentPage: 1})
	d = Build(s)
	assert.True(t, d.Ledger.Empty)
	assert.False(t, d.Ledger.NextEnabled)

	s.Ledger.Apply(models.ProfitPage{Error: "db unavailable"})
	d = Build(s)
	assert.False(t, d.Ledger.Empty)
	assert.Equal(t, "db unavailable", d.Ledger.Error)
}

func TestBuildExpandedGroupOnly(t *testing.T) {
	s := fixtureSources()
	s.Positions.SetPositions([]models.OpenPosition{
		{Symbol: "BTCUSDC", Exchange: "binance", TradingMode: "real", Quantity: 0.01,
			CurrentPnl: models.NewPrice(1)},
		{Symbol: "SOLUSDC", Exchange: "bybit", TradingMode: "testnet", Quantity: 2,
			CurrentPnl: models.NewPrice(-1)},
	})
	s.Positions.Toggle(state.GroupKey{Symbol: "BTCUSDC", Exchange: "binance"})

	d := Build(s)
	require.Len(t, d.Groups, 2)
	assert.True(t, d.Groups[0].Expanded)
	assert.NotEmpty(t, d.Groups[0].Rows)
	// свёрнутая группа отдаёт только агрегат, без строк
	assert.False(t, d.Groups[1].Expanded)
	assert.Empty(t, d.Groups[1].Rows)
}

func TestBuildProfitTotalsFollowRows(t *testing.T) {
	s := fixtureSources()
	s.Profits.Apply(map[string][]models.PairProfitRecord{
		"binance_real": {
			{PairID: 1, Symbol: "BTCUSDC", ProfitUSDC: 10},
			{PairID: 2, Symbol: "ETHUSDC", ProfitUSDC: 5},
		},
	})

	d := Build(s)
	require.Len(t, d.Profits, 1)
	assert.Equal(t, "15.000000", d.Profits[0].TotalUSDC)

	s.Profits.Remove(1)
	d = Build(s)
	assert.Equal(t, "5.000000", d.Profits[0].TotalUSDC)
}

func TestSparkline(t *testing.T) {
	assert.Equal(t, "", Sparkline(nil, 10))
	assert.Equal(t, "▁█", Sparkline([]float64{0, 1}, 10))
	// плоская кривая не делит на ноль
	assert.Equal(t, "▁▁▁", Sparkline([]float64{2, 2, 2}, 10))
	assert.Len(t, []rune(Sparkline(make([]float64, 100), 40)), 40)
}
