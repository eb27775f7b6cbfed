package state

// RunPhase — машина состояний бота по паре. Сервер знает только два
// терминальных состояния; Starting/Stopping — локальные, живут ровно
// на время оптимистичного запроса.
type RunPhase int

const (
	PhaseStopped RunPhase = iota
	PhaseStarting
	PhaseRunning
	PhaseStopping
)

const (
	ActionStart = "start"
	ActionStop  = "stop"
)

// BotRunStateController — per-pair run/stop с оптимистичным переходом и
// откатом. Авторитет всегда сервер: локальное состояние временное,
// пока не пришло подтверждение.
type BotRunStateController struct {
	phases map[int]RunPhase
}

func NewBotRunStateController() *BotRunStateController {
	return &BotRunStateController{phases: make(map[int]RunPhase)}
}

func (b *BotRunStateController) Phase(pairID int) RunPhase {
	return b.phases[pairID]
}

// Displayed — что сейчас показывает UI (оптимистичное состояние).
func (b *BotRunStateController) Displayed(pairID int) bool {
	ph := b.phases[pairID]
	return ph == PhaseRunning || ph == PhaseStarting
}

// ToggleLabel — подпись кнопки; из неё же выводится намерение клика.
func (b *BotRunStateController) ToggleLabel(pairID int) string {
	if b.Displayed(pairID) {
		return "Stop"
	}
	return "Start"
}

// EditEnabled — инвариант: Running => правка конфига запрещена,
// Stopped => разрешена. Транзиенты наследуют отображаемое состояние.
func (b *BotRunStateController) EditEnabled(pairID int) bool {
	return !b.Displayed(pairID)
}

// Pending — по паре висит неподтверждённый переход.
func (b *BotRunStateController) Pending(pairID int) bool {
	ph := b.phases[pairID]
	return ph == PhaseStarting || ph == PhaseStopping
}

// BeginToggle — оптимистичный переход. Намерение выводится из текущей
// подписи кнопки: "Start" -> start, "Stop" -> stop. Повторный клик при
// незавершённом запросе игнорируется.
func (b *BotRunStateController) BeginToggle(pairID int) (string, bool) {
	switch b.phases[pairID] {
	case PhaseStopped:
		b.phases[pairID] = PhaseStarting
		return ActionStart, true
	case PhaseRunning:
		b.phases[pairID] = PhaseStopping
		return ActionStop, true
	default:
		return "", false
	}
}

// Resolve — ответ сервера: верим только bot_is_running из ответа,
// а не тому состоянию, которое предполагал клиент.
func (b *BotRunStateController) Resolve(pairID int, running bool) {
	if running {
		b.phases[pairID] = PhaseRunning
	} else {
		b.phases[pairID] = PhaseStopped
	}
}

// Rollback — запрос упал или сервер ответил "invalid": возвращаем
// состояние, которое было до клика.
func (b *BotRunStateController) Rollback(pairID int) {
	switch b.phases[pairID] {
	case PhaseStarting:
		b.phases[pairID] = PhaseStopped
	case PhaseStopping:
		b.phases[pairID] = PhaseRunning
	}
}

// ApplySnapshot — poll /api/bot_statuses. Пары с висящим оптимистичным
// переходом не трогаем: гонка "старый poll против свежего клика"
// решается в пользу клика.
func (b *BotRunStateController) ApplySnapshot(statuses map[int]bool) {
	for pairID, running := range statuses {
		if b.Pending(pairID) {
			continue
		}
		b.Resolve(pairID, running)
	}
}

// ApplySymbolStatuses — trade_status, ключованный символом (пуш-дельта
// и снапшот /api/data); resolve переводит символ в pairID (символ не
// глобально уникален).
func (b *BotRunStateController) ApplySymbolStatuses(status map[string]bool, resolve func(symbol string) (int, bool)) {
	for sym, running := range status {
		pairID, ok := resolve(sym)
		if !ok {
			continue
		}
		if b.Pending(pairID) {
			continue
		}
		b.Resolve(pairID, running)
	}
}
