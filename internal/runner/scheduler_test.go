package runner

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trade_console/internal/models"
	"trade_console/internal/modules/config"
	healthsvc "trade_console/internal/modules/health/service"
	streamsvc "trade_console/internal/modules/stream/service"
	"trade_console/internal/state"
	"trade_console/internal/view"
)

// stubGateway — запись вызовов + подменяемые ответы. Нулевые поля
// отдают пустые успешные ответы.
type stubGateway struct {
	mu    sync.Mutex
	calls []string

	controlFn  func(action string, pairID int) (models.ControlResult, error)
	clearFn    func(symbol, exchange string, mode *string) error
	notifFn    func() (map[string][]models.Notification, error)
	clearNtfFn func() error
}

func (g *stubGateway) record(call string) {
	g.mu.Lock()
	g.calls = append(g.calls, call)
	g.mu.Unlock()
}

// snapshot — копия журнала вызовов; фоновые fetch-горутины могут
// дописывать его параллельно с проверками.
func (g *stubGateway) snapshot() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.calls...)
}

func (g *stubGateway) Dashboard(context.Context) (models.DashboardData, error) {
	g.record("dashboard")
	return models.DashboardData{}, nil
}

func (g *stubGateway) BotStatuses(context.Context) (map[int]bool, error) {
	g.record("bot_statuses")
	return nil, nil
}

func (g *stubGateway) Notifications(context.Context) (map[string][]models.Notification, error) {
	g.record("notifications")
	if g.notifFn != nil {
		return g.notifFn()
	}
	return nil, nil
}

func (g *stubGateway) OpenPositions(context.Context) ([]models.OpenPosition, error) {
	g.record("open_positions")
	return nil, nil
}

func (g *stubGateway) PairProfits(context.Context) (map[string][]models.PairProfitRecord, error) {
	g.record("pair_profit")
	return nil, nil
}

func (g *stubGateway) ProfitPage(_ context.Context, page, perPage int, timeframe, sortKey string) (models.ProfitPage, error) {
	g.record(fmt.Sprintf("profit_page %d %d %s %s", page, perPage, timeframe, sortKey))
	return models.ProfitPage{TotalPages: 1, CurrentPage: page}, nil
}

func (g *stubGateway) ProfitCurve(context.Context) (models.ProfitCurve, error) {
	g.record("profit_data")
	return models.ProfitCurve{}, nil
}

func (g *stubGateway) ExchangePairs(_ context.Context, exchange string) ([]string, error) {
	g.record("exchange_pairs " + exchange)
	return nil, nil
}

func (g *stubGateway) Control(_ context.Context, action string, pairID int) (models.ControlResult, error) {
	g.record(fmt.Sprintf("control %s %d", action, pairID))
	if g.controlFn != nil {
		return g.controlFn(action, pairID)
	}
	return models.ControlResult{Status: "success", PairID: pairID, BotIsRunning: action == "start"}, nil
}

func (g *stubGateway) ClearOpenPositions(_ context.Context, symbol, exchange string, mode *string) error {
	m := "nil"
	if mode != nil {
		m = *mode
	}
	g.record(fmt.Sprintf("clear_positions %s %s %s", symbol, exchange, m))
	if g.clearFn != nil {
		return g.clearFn(symbol, exchange, mode)
	}
	return nil
}

func (g *stubGateway) ClearNotifications(context.Context) error {
	g.record("clear_notifications")
	if g.clearNtfFn != nil {
		return g.clearNtfFn()
	}
	return nil
}

func (g *stubGateway) ResetProfit(_ context.Context, pairID int) error {
	g.record(fmt.Sprintf("reset_profit %d", pairID))
	return nil
}

func (g *stubGateway) RemovePairProfit(_ context.Context, pairID int) error {
	g.record(fmt.Sprintf("remove_pair_profit %d", pairID))
	return nil
}

func (g *stubGateway) UpdatePairConfig(_ context.Context, cfg models.PairConfig) (string, string, error) {
	g.record(fmt.Sprintf("update_pair_config %d", cfg.PairID))
	return "success", "updated", nil
}

func (g *stubGateway) ToggleTheme(context.Context) (string, error) {
	g.record("toggle_theme")
	return "light", nil
}

func (g *stubGateway) SetBaseCurrency(_ context.Context, currency string) error {
	g.record("set_base_currency " + currency)
	return nil
}

type recordingAlerter struct {
	alerts  []string
	notices []string
}

func (a *recordingAlerter) Alert(msg string) { a.alerts = append(a.alerts, msg) }
func (a *recordingAlerter) Alertf(format string, args ...any) {
	a.Alert(fmt.Sprintf(format, args...))
}
func (a *recordingAlerter) Notify(msg string) { a.notices = append(a.notices, msg) }

type noopPresenter struct{}

func (noopPresenter) Present(view.Dashboard) {}

func newTestScheduler(gw Gateway, al *recordingAlerter) *Scheduler {
	cfg := &config.Config{
		BaseCurrency: "USDC",
		LogTail:      10,
		Pairs: []models.PairIdentity{
			{ID: 1, Symbol: "BTCUSDC", Exchange: models.ExchangeBinance, Mode: models.ModeReal},
			{ID: 7, Symbol: "XRPUSDC", Exchange: models.ExchangeGateio, Mode: models.ModeTestnet},
		},
	}
	s := New(cfg, gw, al, healthsvc.NewState(), make(chan streamsvc.Event, 8), noopPresenter{})
	s.ctx = context.Background()
	return s
}

// step дожидается одного завершения сетевой операции и применяет его,
// как это сделал бы цикл Run.
func (s *Scheduler) step() { fn := <-s.done; fn(s) }

// drainCommand применяет одно действие пользователя из очереди.
func (s *Scheduler) drainCommand() { cmd := <-s.commands; cmd(s) }

func TestToggleStartClearsPositionsFirst(t *testing.T) {
	gw := &stubGateway{}
	al := &recordingAlerter{}
	s := newTestScheduler(gw, al)

	s.toggle(7)
	assert.True(t, s.bots.Pending(7))
	s.step()

	require.GreaterOrEqual(t, len(gw.snapshot()), 2)
	assert.Equal(t, "clear_positions XRPUSDC gateio testnet", gw.snapshot()[0])
	assert.Equal(t, "control start 7", gw.snapshot()[1])

	assert.Equal(t, state.PhaseRunning, s.bots.Phase(7))
	assert.Empty(t, al.alerts)

	// подтверждённый toggle тянет полный рефреш
	for i := 0; i < 5; i++ {
		s.step()
	}
	assert.Contains(t, gw.snapshot(), "dashboard")
	assert.Contains(t, gw.snapshot(), "open_positions")
}

func TestToggleStopSkipsClear(t *testing.T) {
	gw := &stubGateway{}
	s := newTestScheduler(gw, &recordingAlerter{})
	s.bots.Resolve(1, true)

	s.toggle(1)
	s.step()

	assert.Equal(t, "control stop 1", gw.snapshot()[0])
	assert.Equal(t, state.PhaseStopped, s.bots.Phase(1))
}

func TestToggleRollsBackOnSemanticReject(t *testing.T) {
	gw := &stubGateway{
		controlFn: func(string, int) (models.ControlResult, error) {
			return models.ControlResult{Status: "Invalid pair"}, nil
		},
	}
	al := &recordingAlerter{}
	s := newTestScheduler(gw, al)

	s.toggle(7)
	s.step()

	// "Invalid pair" приходит данными, а не транспортной ошибкой,
	// но откатывает вид так же
	assert.Equal(t, state.PhaseStopped, s.bots.Phase(7))
	require.Len(t, al.alerts, 1)
	assert.Equal(t, "Invalid pair", al.alerts[0])
	assert.NotContains(t, gw.snapshot(), "dashboard")
}

func TestToggleRollsBackWhenClearFails(t *testing.T) {
	gw := &stubGateway{
		clearFn: func(string, string, *string) error { return errors.New("boom") },
	}
	al := &recordingAlerter{}
	s := newTestScheduler(gw, al)

	s.toggle(7)
	s.step()

	assert.Equal(t, state.PhaseStopped, s.bots.Phase(7))
	require.Len(t, al.alerts, 1)
	// до control дело не дошло
	assert.Equal(t, []string{"clear_positions XRPUSDC gateio testnet"}, gw.snapshot())
}

func TestSecondToggleIgnoredWhilePending(t *testing.T) {
	gw := &stubGateway{}
	s := newTestScheduler(gw, &recordingAlerter{})

	s.toggle(7)
	s.toggle(7)
	s.step()

	count := 0
	for _, c := range gw.snapshot() {
		if c == "control start 7" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestClearNotificationsWaitsForServer(t *testing.T) {
	batch := map[string][]models.Notification{
		"BTCUSDC": {{Timestamp: "2026-08-30 10:00:00", Type: models.NotificationError, Message: "err"}},
	}
	gw := &stubGateway{
		notifFn:    func() (map[string][]models.Notification, error) { return batch, nil },
		clearNtfFn: func() error { return errors.New("unavailable") },
	}
	al := &recordingAlerter{}
	s := newTestScheduler(gw, al)

	s.refreshNotifications()
	s.step()
	require.Len(t, s.inbox.List(), 1)
	require.Len(t, al.alerts, 1)

	// сервер не подтвердил — локально ничего не чистим
	s.ClearNotifications()
	s.drainCommand()
	s.step()
	assert.Len(t, s.inbox.List(), 1)

	gw.clearNtfFn = nil
	s.ClearNotifications()
	s.drainCommand()
	s.step()
	assert.Empty(t, s.inbox.List())

	// после подтверждённой очистки та же запись в следующем poll
	// считается новой и алертит заново (1 poll + 1 отказ clear + 1 poll)
	s.refreshNotifications()
	s.step()
	assert.Len(t, al.alerts, 3)
}

func TestNotificationsAlertOncePerRecord(t *testing.T) {
	batch := map[string][]models.Notification{
		"BTCUSDC": {{Timestamp: "2026-08-30 10:00:00", Type: models.NotificationError, Message: "err"}},
	}
	gw := &stubGateway{notifFn: func() (map[string][]models.Notification, error) { return batch, nil }}
	al := &recordingAlerter{}
	s := newTestScheduler(gw, al)

	for i := 0; i < 3; i++ {
		s.refreshNotifications()
		s.step()
	}
	assert.Len(t, al.alerts, 1)
}

func TestLedgerCommandsFetchNewPage(t *testing.T) {
	gw := &stubGateway{}
	s := newTestScheduler(gw, &recordingAlerter{})

	s.ledger.Apply(models.ProfitPage{TotalPages: 2, CurrentPage: 1})

	s.LedgerNext()
	s.drainCommand()
	s.step()
	assert.Contains(t, gw.snapshot(), "profit_page 2 20 all timestamp")

	// на последней странице команда не порождает запрос
	s.LedgerNext()
	s.drainCommand()
	assert.Len(t, gw.snapshot(), 1)

	s.LedgerTimeframe("7d")
	s.drainCommand()
	s.step()
	assert.Contains(t, gw.snapshot(), "profit_page 1 20 7d timestamp")
}

func TestRemoveGroupWaitsForServerThenRefreshesAll(t *testing.T) {
	gw := &stubGateway{}
	s := newTestScheduler(gw, &recordingAlerter{})
	s.positions.SetPositions([]models.OpenPosition{
		{Symbol: "BTCUSDC", Exchange: "binance", TradingMode: "real", Quantity: 1},
	})

	key := state.GroupKey{Symbol: "BTCUSDC", Exchange: "binance"}
	s.RemoveGroup(key)
	s.drainCommand()

	// до подтверждения сервера группа остаётся на экране
	_, ok := s.positions.Group(key)
	assert.True(t, ok)

	s.step()
	assert.Equal(t, "clear_positions BTCUSDC binance real", gw.snapshot()[0])
	_, ok = s.positions.Group(key)
	assert.False(t, ok)

	// подтверждённое удаление меняет балансы и профиты, поэтому тянет
	// полный рефреш, а не только позиции
	for i := 0; i < 5; i++ {
		s.step()
	}
	calls := gw.snapshot()
	assert.Contains(t, calls, "dashboard")
	assert.Contains(t, calls, "pair_profit")
	assert.Contains(t, calls, "open_positions")
	assert.Contains(t, calls, "profit_data")
}

func TestRemoveGroupKeepsGroupWhenClearFails(t *testing.T) {
	gw := &stubGateway{
		clearFn: func(string, string, *string) error { return errors.New("unavailable") },
	}
	al := &recordingAlerter{}
	s := newTestScheduler(gw, al)
	s.positions.SetPositions([]models.OpenPosition{
		{Symbol: "BTCUSDC", Exchange: "binance", TradingMode: "real", Quantity: 1},
	})

	key := state.GroupKey{Symbol: "BTCUSDC", Exchange: "binance"}
	s.RemoveGroup(key)
	s.drainCommand()
	s.step()

	// сервер всё ещё держит позиции — локальная копия живёт
	_, ok := s.positions.Group(key)
	assert.True(t, ok)
	require.Len(t, al.alerts, 1)
	assert.Equal(t, []string{"clear_positions BTCUSDC binance real"}, gw.snapshot())
}

func TestUpdatePairConfigBlockedWhileRunning(t *testing.T) {
	gw := &stubGateway{}
	al := &recordingAlerter{}
	s := newTestScheduler(gw, al)
	s.bots.Resolve(1, true)

	s.UpdatePairConfig(models.PairConfig{PairID: 1})
	s.drainCommand()

	assert.Empty(t, gw.snapshot())
	require.Len(t, al.alerts, 1)
}

func TestApplyPushDeltaAndLogAlert(t *testing.T) {
	gw := &stubGateway{}
	al := &recordingAlerter{}
	s := newTestScheduler(gw, al)

	s.applyPush(streamsvc.Event{Kind: streamsvc.EventPriceUpdate, Update: models.PriceUpdate{
		Prices:      map[string]models.Price{"BTCUSDC": models.NewPrice(64300)},
		TradeStatus: map[string]bool{"BTCUSDC": true},
	}})
	assert.Equal(t, "64300.0000", s.prices.Format("BTCUSDC"))
	assert.Equal(t, state.PhaseRunning, s.bots.Phase(1))

	s.applyPush(streamsvc.Event{Kind: streamsvc.EventStrategyLog, Line: "[ALERT] Not enough balance for BTCUSDC"})
	require.Len(t, al.alerts, 1)
	assert.Len(t, s.logs.Lines(), 1)
}
