package runner

import (
	"context"
	"strings"
	"time"

	"trade_console/internal/models"
	"trade_console/internal/modules/config"
	healthsvc "trade_console/internal/modules/health/service"
	streamsvc "trade_console/internal/modules/stream/service"
	"trade_console/internal/notify"
	"trade_console/internal/state"
	"trade_console/internal/view"
	"trade_console/pkg/logger"
)

// Gateway — срез HTTP-клиента, который нужен планировщику.
type Gateway interface {
	Dashboard(ctx context.Context) (models.DashboardData, error)
	BotStatuses(ctx context.Context) (map[int]bool, error)
	Notifications(ctx context.Context) (map[string][]models.Notification, error)
	OpenPositions(ctx context.Context) ([]models.OpenPosition, error)
	PairProfits(ctx context.Context) (map[string][]models.PairProfitRecord, error)
	ProfitPage(ctx context.Context, page, perPage int, timeframe, sortKey string) (models.ProfitPage, error)
	ProfitCurve(ctx context.Context) (models.ProfitCurve, error)
	ExchangePairs(ctx context.Context, exchange string) ([]string, error)
	Control(ctx context.Context, action string, pairID int) (models.ControlResult, error)
	ClearOpenPositions(ctx context.Context, symbol, exchange string, mode *string) error
	ClearNotifications(ctx context.Context) error
	ResetProfit(ctx context.Context, pairID int) error
	RemovePairProfit(ctx context.Context, pairID int) error
	UpdatePairConfig(ctx context.Context, cfg models.PairConfig) (status, message string, err error)
	ToggleTheme(ctx context.Context) (string, error)
	SetBaseCurrency(ctx context.Context, currency string) error
}

// Scheduler — единственный владелец всего состояния дашборда.
// Три таймера, пуш-подписка и действия пользователя сходятся в один
// цикл; сетевые вызовы уходят в горутины, а их завершения
// возвращаются в цикл замыканиями через done. Порядок применения —
// порядок завершения: последний завершившийся запрос авторитетен по
// тем полям, которые он несёт. Номеров версий сервер не шлёт, так что
// завершившийся не по порядку ответ может транзиентно перезаписать
// более свежее значение — известный риск контракта, не чиним молча.
type Scheduler struct {
	cfg       *config.Config
	gw        Gateway
	alerter   notify.Alerter
	health    *healthsvc.State
	presenter view.Presenter

	prices    *state.MarketPriceCache
	bots      *state.BotRunStateController
	positions *state.PositionAggregator
	ledger    *state.ProfitLedgerPaginator
	inbox     *state.NotificationDeduper
	profits   *state.PairProfitPanel
	logs      *state.StrategyLogBuffer

	accountInfo  map[string]models.AccountInfo
	orders       map[string]map[string]models.Order
	curve        models.ProfitCurve
	totalProfit  float64
	activePairs  int
	theme        string
	baseCurrency string

	ctx      context.Context
	push     <-chan streamsvc.Event
	commands chan func(*Scheduler)
	done     chan func(*Scheduler)
}

func New(
	cfg *config.Config,
	gw Gateway,
	alerter notify.Alerter,
	health *healthsvc.State,
	push chan streamsvc.Event,
	presenter view.Presenter,
) *Scheduler {
	return &Scheduler{
		cfg:       cfg,
		gw:        gw,
		alerter:   alerter,
		health:    health,
		presenter: presenter,

		prices:    state.NewMarketPriceCache(),
		bots:      state.NewBotRunStateController(),
		positions: state.NewPositionAggregator(),
		ledger:    state.NewProfitLedgerPaginator(),
		inbox:     state.NewNotificationDeduper(),
		profits:   state.NewPairProfitPanel(),
		logs:      state.NewStrategyLogBuffer(cfg.LogTail),

		accountInfo:  make(map[string]models.AccountInfo),
		theme:        "dark",
		baseCurrency: cfg.BaseCurrency,

		push:     push,
		commands: make(chan func(*Scheduler), 16),
		done:     make(chan func(*Scheduler), 64),
	}
}

// Run — кооперативный цикл. Состояние трогается только отсюда,
// поэтому ни одного мьютекса в state-пакете нет.
func (s *Scheduler) Run(ctx context.Context) {
	s.ctx = ctx

	full := time.NewTicker(s.cfg.FullRefreshEvery)
	defer full.Stop()
	statuses := time.NewTicker(s.cfg.StatusPollEvery)
	defer statuses.Stop()
	notifications := time.NewTicker(s.cfg.NotificationsEvery)
	defer notifications.Stop()

	// сразу при старте, не дожидаясь первого тика
	s.refreshAll()
	s.refreshNotifications()

	for {
		select {
		case <-ctx.Done():
			return
		case <-full.C:
			s.refreshAll()
		case <-statuses.C:
			s.pollStatuses()
		case <-notifications.C:
			s.refreshNotifications()
		case ev := <-s.push:
			s.applyPush(ev)
		case cmd := <-s.commands:
			cmd(s)
		case fn := <-s.done:
			fn(s)
		}
		s.render()
	}
}

func (s *Scheduler) render() {
	s.presenter.Present(view.Build(view.Sources{
		Pairs:     s.cfg.Pairs,
		Prices:    s.prices,
		Bots:      s.bots,
		Positions: s.positions,
		Ledger:    s.ledger,
		Inbox:     s.inbox,
		Profits:   s.profits,
		Logs:      s.logs,

		AccountInfo:  s.accountInfo,
		Orders:       s.orders,
		Curve:        s.curve,
		TotalProfit:  s.totalProfit,
		ActivePairs:  s.activePairs,
		Theme:        s.theme,
		BaseCurrency: s.baseCurrency,
		LogTail:      s.cfg.LogTail,
	}))
}

func (s *Scheduler) complete(fn func(*Scheduler)) { s.done <- fn }

func (s *Scheduler) pairIDBySymbol(symbol string) (int, bool) {
	p, ok := s.cfg.PairBySymbol(symbol)
	return p.ID, ok
}

// refreshAll — полный рефреш: снапшот /api/data как базовая линия плюс
// независимые выборки позиций, профитов, журнала и кривой. Каждая
// завершается сама по себе и мёржится по мере прихода.
func (s *Scheduler) refreshAll() {
	s.fetchDashboard()
	s.fetchPositions()
	s.fetchPairProfits()
	s.fetchLedgerPage()
	s.fetchCurve()
}

func (s *Scheduler) fetchDashboard() {
	ctx := s.ctx
	go func() {
		d, err := s.gw.Dashboard(ctx)
		s.complete(func(s *Scheduler) {
			if err != nil {
				logger.Error("full refresh failed: %v", err)
				return
			}
			s.prices.ApplyPollSnapshot(d.Prices)
			s.bots.ApplySymbolStatuses(d.TradeStatus, s.pairIDBySymbol)
			s.accountInfo = d.AccountInfo
			s.orders = d.Orders
			s.totalProfit = d.TotalProfit
			s.activePairs = d.ActivePairs
			s.health.SetReady(true)
		})
	}()
}

func (s *Scheduler) fetchPositions() {
	ctx := s.ctx
	go func() {
		positions, err := s.gw.OpenPositions(ctx)
		s.complete(func(s *Scheduler) {
			if err != nil {
				logger.Error("open positions poll failed: %v", err)
				return
			}
			s.positions.SetPositions(positions)
		})
	}()
}

func (s *Scheduler) fetchPairProfits() {
	ctx := s.ctx
	go func() {
		profits, err := s.gw.PairProfits(ctx)
		s.complete(func(s *Scheduler) {
			if err != nil {
				logger.Error("pair profit poll failed: %v", err)
				return
			}
			s.profits.Apply(profits)
		})
	}()
}

func (s *Scheduler) fetchLedgerPage() {
	ctx := s.ctx
	page, perPage, timeframe, sortKey := s.ledger.Query()
	go func() {
		p, err := s.gw.ProfitPage(ctx, page, perPage, timeframe, sortKey)
		s.complete(func(s *Scheduler) {
			if err != nil {
				logger.Error("profit log poll failed: %v", err)
				return
			}
			s.ledger.Apply(p)
		})
	}()
}

func (s *Scheduler) fetchCurve() {
	ctx := s.ctx
	go func() {
		curve, err := s.gw.ProfitCurve(ctx)
		s.complete(func(s *Scheduler) {
			if err != nil {
				logger.Error("profit curve poll failed: %v", err)
				return
			}
			s.curve = curve
		})
	}()
}

func (s *Scheduler) pollStatuses() {
	ctx := s.ctx
	go func() {
		statuses, err := s.gw.BotStatuses(ctx)
		s.complete(func(s *Scheduler) {
			if err != nil {
				logger.Error("bot status poll failed: %v", err)
				return
			}
			s.bots.ApplySnapshot(statuses)
		})
	}()
}

func (s *Scheduler) refreshNotifications() {
	ctx := s.ctx
	go func() {
		batch, err := s.gw.Notifications(ctx)
		s.complete(func(s *Scheduler) {
			if err != nil {
				logger.Error("notifications poll failed: %v", err)
				return
			}
			for _, n := range s.inbox.Apply(batch) {
				s.alerter.Alertf("%s: %s", n.Symbol, n.Message)
			}
		})
	}()
}

func (s *Scheduler) applyPush(ev streamsvc.Event) {
	switch ev.Kind {
	case streamsvc.EventPriceUpdate:
		// дельта несёт только изменившиеся символы
		s.prices.ApplyPushDelta(ev.Update.Prices)
		s.bots.ApplySymbolStatuses(ev.Update.TradeStatus, s.pairIDBySymbol)
	case streamsvc.EventStrategyLog:
		if s.logs.Append(ev.Line) {
			s.alerter.Alert(ev.Line)
		}
	}
}

// toggle — оптимистичный start/stop. Кнопка переключается сразу; до
// start сервер чистит открытые позиции пары, иначе бот задвоит
// вручную снятые позиции. Финальное состояние — только из
// bot_is_running ответа; любой отказ откатывает вид и алертит.
func (s *Scheduler) toggle(pairID int) {
	pair, ok := s.cfg.PairByID(pairID)
	if !ok {
		logger.Error("toggle for unknown pair %d", pairID)
		return
	}
	action, ok := s.bots.BeginToggle(pairID)
	if !ok {
		// по паре уже висит незавершённый переход
		return
	}

	ctx := s.ctx
	go func() {
		if action == state.ActionStart {
			mode := string(pair.Mode)
			if err := s.gw.ClearOpenPositions(ctx, pair.Symbol, string(pair.Exchange), &mode); err != nil {
				s.complete(func(s *Scheduler) {
					s.bots.Rollback(pairID)
					s.alerter.Alertf("failed to clear open positions for %s: %v", pair.Symbol, err)
				})
				return
			}
		}

		res, err := s.gw.Control(ctx, action, pairID)
		s.complete(func(s *Scheduler) {
			if err != nil {
				s.bots.Rollback(pairID)
				s.alerter.Alertf("control request failed for %s: %v", pair.Symbol, err)
				return
			}
			if strings.Contains(strings.ToLower(res.Status), "invalid") {
				s.bots.Rollback(pairID)
				s.alerter.Alert(res.Status)
				return
			}
			s.bots.Resolve(pairID, res.BotIsRunning)
			// завершённое действие всегда тянет полный рефреш,
			// чтобы зависимые агрегаты пересчитались согласованно
			s.refreshAll()
		})
	}()
}
