package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trade_console/internal/models"
)

func fixturePositions() []models.OpenPosition {
	return []models.OpenPosition{
		{Symbol: "BTCUSDC", Exchange: "binance", TradingMode: "real", Quantity: 0.01,
			CurrentPnl: models.NewPrice(6.5)},
		{Symbol: "BTCUSDC", Exchange: "binance", TradingMode: "real", Quantity: 0.02,
			CurrentPnl: models.NewPrice(-2.5)},
		{Symbol: "SOLUSDC", Exchange: "bybit", TradingMode: "testnet", Quantity: 4,
			CurrentPnl: models.Price{}},
	}
}

func TestPositionAggregatorGroups(t *testing.T) {
	a := NewPositionAggregator()
	a.SetPositions(fixturePositions())

	groups := a.Groups()
	require.Len(t, groups, 2)

	btc := groups[0]
	assert.Equal(t, GroupKey{Symbol: "BTCUSDC", Exchange: "binance"}, btc.Key)
	assert.Equal(t, "real", btc.Mode)
	assert.InDelta(t, 0.03, btc.TotalQty, 1e-9)
	assert.InDelta(t, 6.5, btc.GainSum, 1e-9)
	assert.InDelta(t, 2.5, btc.LossSum, 1e-9)
	assert.Len(t, btc.Rows, 2)

	// невалидный P&L не участвует в суммах
	sol := groups[1]
	assert.Zero(t, sol.GainSum)
	assert.Zero(t, sol.LossSum)
}

func TestPositionAggregatorMixedMode(t *testing.T) {
	a := NewPositionAggregator()
	a.SetPositions([]models.OpenPosition{
		{Symbol: "BTCUSDC", Exchange: "binance", TradingMode: "real"},
		{Symbol: "BTCUSDC", Exchange: "binance", TradingMode: "testnet"},
	})

	key := GroupKey{Symbol: "BTCUSDC", Exchange: "binance"}
	g, ok := a.Group(key)
	require.True(t, ok)
	assert.Equal(t, ModeMixed, g.Mode)
	// для смешанной группы режим в запрос удаления не передаётся
	assert.Nil(t, a.ModeArg(key))
}

func TestPositionAggregatorAccordion(t *testing.T) {
	a := NewPositionAggregator()
	a.SetPositions(fixturePositions())

	btc := GroupKey{Symbol: "BTCUSDC", Exchange: "binance"}
	sol := GroupKey{Symbol: "SOLUSDC", Exchange: "bybit"}

	a.Toggle(btc)
	assert.True(t, a.Expanded(btc))

	// раскрытие другой группы сворачивает первую
	a.Toggle(sol)
	assert.False(t, a.Expanded(btc))
	assert.True(t, a.Expanded(sol))

	// раскрытие переживает пересборку из свежего poll
	a.SetPositions(fixturePositions())
	assert.True(t, a.Expanded(sol))

	a.Toggle(sol)
	assert.False(t, a.Expanded(sol))
}

func TestPositionAggregatorRemove(t *testing.T) {
	a := NewPositionAggregator()
	a.SetPositions(fixturePositions())

	btc := GroupKey{Symbol: "BTCUSDC", Exchange: "binance"}
	a.Toggle(btc)
	mode := a.ModeArg(btc)
	require.NotNil(t, mode)
	assert.Equal(t, "real", *mode)

	a.Remove(btc)
	_, ok := a.Group(btc)
	assert.False(t, ok)
	assert.False(t, a.Expanded(btc))
	assert.Len(t, a.Groups(), 1)
}
