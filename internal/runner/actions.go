package runner

import (
	"strings"

	"trade_console/internal/models"
	"trade_console/internal/state"
	"trade_console/pkg/logger"
)

// Внешний API планировщика. Каждый метод — постановка действия в
// очередь цикла; сам вызов безопасен из любой горутины (читатель stdin,
// телеграм-хэндлер). Исполняется действие уже внутри цикла.

func (s *Scheduler) enqueue(fn func(*Scheduler)) { s.commands <- fn }

// Toggle — клик по кнопке Start/Stop пары.
func (s *Scheduler) Toggle(pairID int) {
	s.enqueue(func(s *Scheduler) { s.toggle(pairID) })
}

// ToggleGroup — развернуть/свернуть группу позиций. Чисто локально.
func (s *Scheduler) ToggleGroup(key state.GroupKey) {
	s.enqueue(func(s *Scheduler) { s.positions.Toggle(key) })
}

// RemoveGroup — кнопка Remove на группе позиций: сначала сервер чистит
// группу, после подтверждения режем локальную копию и тянем полный
// рефреш — удаление меняет не только позиции, но и балансы с профитами.
func (s *Scheduler) RemoveGroup(key state.GroupKey) {
	s.enqueue(func(s *Scheduler) {
		mode := s.positions.ModeArg(key)
		ctx := s.ctx
		go func() {
			err := s.gw.ClearOpenPositions(ctx, key.Symbol, key.Exchange, mode)
			s.complete(func(s *Scheduler) {
				if err != nil {
					// сервер всё ещё держит позиции — группу не трогаем
					s.alerter.Alertf("failed to clear positions %s: %v", key, err)
					return
				}
				s.positions.Remove(key)
				s.refreshAll()
			})
		}()
	})
}

// ClearNotifications — сначала подтверждение сервера, потом локальный
// сброс. Иначе при упавшем запросе уведомления всплывут заново и
// продублируют алерты.
func (s *Scheduler) ClearNotifications() {
	s.enqueue(func(s *Scheduler) {
		ctx := s.ctx
		go func() {
			err := s.gw.ClearNotifications(ctx)
			s.complete(func(s *Scheduler) {
				if err != nil {
					s.alerter.Alertf("failed to clear notifications: %v", err)
					return
				}
				s.inbox.Reset()
			})
		}()
	})
}

// ResetProfit — обнулить накопленный профит пары.
func (s *Scheduler) ResetProfit(pairID int) {
	s.enqueue(func(s *Scheduler) {
		ctx := s.ctx
		go func() {
			err := s.gw.ResetProfit(ctx, pairID)
			s.complete(func(s *Scheduler) {
				if err != nil {
					s.alerter.Alertf("failed to reset profit for pair %d: %v", pairID, err)
					return
				}
				s.profits.ResetRow(pairID)
				s.fetchPairProfits()
				s.fetchCurve()
			})
		}()
	})
}

// RemovePairProfit — убрать строку пары из панели профитов.
func (s *Scheduler) RemovePairProfit(pairID int) {
	s.enqueue(func(s *Scheduler) {
		ctx := s.ctx
		go func() {
			err := s.gw.RemovePairProfit(ctx, pairID)
			s.complete(func(s *Scheduler) {
				if err != nil {
					s.alerter.Alertf("failed to remove pair profit %d: %v", pairID, err)
					return
				}
				// тоталы пересчитаются на следующем кадре из оставшихся строк
				s.profits.Remove(pairID)
			})
		}()
	})
}

// UpdatePairConfig — правка параметров пары. Работающая пара правку не
// принимает: инвариант проверяется и здесь, и на сервере.
func (s *Scheduler) UpdatePairConfig(cfg models.PairConfig) {
	s.enqueue(func(s *Scheduler) {
		if !s.bots.EditEnabled(cfg.PairID) {
			s.alerter.Alertf("pair %d is running, stop it before editing", cfg.PairID)
			return
		}
		if pair, ok := s.cfg.PairByID(cfg.PairID); ok {
			cfg.Exchange = string(pair.Exchange)
			cfg.TradingMode = string(pair.Mode)
		}
		ctx := s.ctx
		go func() {
			status, message, err := s.gw.UpdatePairConfig(ctx, cfg)
			s.complete(func(s *Scheduler) {
				if err != nil {
					s.alerter.Alertf("failed to update pair %d: %v", cfg.PairID, err)
					return
				}
				if status != "success" {
					s.alerter.Alert(message)
					return
				}
				s.alerter.Notify(message)
				s.fetchDashboard()
			})
		}()
	})
}

// LedgerNext / LedgerPrev — листание журнала. Курсор двигается сразу,
// страница подтягивается следом; границы проверяет пагинатор.
func (s *Scheduler) LedgerNext() {
	s.enqueue(func(s *Scheduler) {
		if s.ledger.Next() {
			s.fetchLedgerPage()
		}
	})
}

func (s *Scheduler) LedgerPrev() {
	s.enqueue(func(s *Scheduler) {
		if s.ledger.Prev() {
			s.fetchLedgerPage()
		}
	})
}

// LedgerTimeframe — смена таймфрейма сбрасывает на первую страницу.
func (s *Scheduler) LedgerTimeframe(tf string) {
	s.enqueue(func(s *Scheduler) {
		if s.ledger.SetTimeframe(tf) {
			s.fetchLedgerPage()
		}
	})
}

// LedgerSort — смена ключа сортировки, тоже с первой страницы.
func (s *Scheduler) LedgerSort(key string) {
	s.enqueue(func(s *Scheduler) {
		if s.ledger.SetSort(key) {
			s.fetchLedgerPage()
		}
	})
}

// ListExchangePairs — справочник торгуемых символов биржи; показывается
// при правке конфига пары.
func (s *Scheduler) ListExchangePairs(exchange string) {
	s.enqueue(func(s *Scheduler) {
		ctx := s.ctx
		go func() {
			pairs, err := s.gw.ExchangePairs(ctx, exchange)
			s.complete(func(s *Scheduler) {
				if err != nil {
					s.alerter.Alertf("failed to list %s pairs: %v", exchange, err)
					return
				}
				s.alerter.Notify(exchange + " pairs: " + strings.Join(pairs, ", "))
			})
		}()
	})
}

// ToggleTheme — тема живёт в сессии сервера; локально применяем то, что
// он вернул, а не то, что ожидали.
func (s *Scheduler) ToggleTheme() {
	s.enqueue(func(s *Scheduler) {
		ctx := s.ctx
		go func() {
			theme, err := s.gw.ToggleTheme(ctx)
			s.complete(func(s *Scheduler) {
				if err != nil {
					logger.Error("toggle theme failed: %v", err)
					return
				}
				s.theme = theme
			})
		}()
	})
}

// SetBaseCurrency — базовая валюта балансов; после смены балансы
// пересчитывает сервер, поэтому сразу рефреш снапшота.
func (s *Scheduler) SetBaseCurrency(currency string) {
	s.enqueue(func(s *Scheduler) {
		ctx := s.ctx
		go func() {
			err := s.gw.SetBaseCurrency(ctx, currency)
			s.complete(func(s *Scheduler) {
				if err != nil {
					s.alerter.Alertf("failed to set base currency: %v", err)
					return
				}
				s.baseCurrency = currency
				s.fetchDashboard()
			})
		}()
	})
}

// Refresh — принудительный полный рефреш по запросу пользователя.
func (s *Scheduler) Refresh() {
	s.enqueue(func(s *Scheduler) { s.refreshAll() })
}
