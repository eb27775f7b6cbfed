package state

import (
	"sort"

	"trade_console/internal/models"
)

const ModeMixed = "mixed"

// GroupKey — позиции группируются по (symbol, exchange): стабильного ID
// у позиции нет, и удаление на сервере тоже работает группой.
type GroupKey struct {
	Symbol   string
	Exchange string
}

func (k GroupKey) String() string { return k.Symbol + "@" + k.Exchange }

// PositionGroup — агрегат по группе: суммарное количество, положительный
// P&L, отрицательный P&L по модулю и общий режим (или "mixed").
type PositionGroup struct {
	Key      GroupKey
	Mode     string
	Rows     []models.OpenPosition
	TotalQty float64
	GainSum  float64
	LossSum  float64
}

// PositionAggregator — группировка сырых позиций плюс явная карта
// expand/collapse, независимая от дерева рендера: пересборка вью не
// схлопывает раскрытую пользователем группу.
type PositionAggregator struct {
	groups   []PositionGroup
	expanded string // ключ единственной раскрытой группы, "" — все свёрнуты
}

func NewPositionAggregator() *PositionAggregator {
	return &PositionAggregator{}
}

// SetPositions — полная пересборка групп из свежего poll. Состояние
// раскрытия переживает пересборку; если раскрытая группа исчезла,
// просто сбрасываем.
func (a *PositionAggregator) SetPositions(positions []models.OpenPosition) {
	byKey := make(map[GroupKey]*PositionGroup)
	order := make([]GroupKey, 0)

	for _, p := range positions {
		key := GroupKey{Symbol: p.Symbol, Exchange: p.Exchange}
		g, ok := byKey[key]
		if !ok {
			g = &PositionGroup{Key: key, Mode: p.TradingMode}
			byKey[key] = g
			order = append(order, key)
		}
		g.Rows = append(g.Rows, p)
		g.TotalQty += p.Quantity
		if p.CurrentPnl.Valid {
			if p.CurrentPnl.Value >= 0 {
				g.GainSum += p.CurrentPnl.Value
			} else {
				g.LossSum += -p.CurrentPnl.Value
			}
		}
		if g.Mode != p.TradingMode {
			g.Mode = ModeMixed
		}
	}

	sort.Slice(order, func(i, j int) bool {
		if order[i].Symbol != order[j].Symbol {
			return order[i].Symbol < order[j].Symbol
		}
		return order[i].Exchange < order[j].Exchange
	})

	a.groups = a.groups[:0]
	stillThere := false
	for _, key := range order {
		a.groups = append(a.groups, *byKey[key])
		if key.String() == a.expanded {
			stillThere = true
		}
	}
	if !stillThere {
		a.expanded = ""
	}
}

func (a *PositionAggregator) Groups() []PositionGroup { return a.groups }

func (a *PositionAggregator) Group(key GroupKey) (PositionGroup, bool) {
	for _, g := range a.groups {
		if g.Key == key {
			return g, true
		}
	}
	return PositionGroup{}, false
}

// Toggle — раскрыть/свернуть группу; раскрытой может быть только одна,
// раскрытие одной программно сворачивает остальные.
func (a *PositionAggregator) Toggle(key GroupKey) {
	if a.expanded == key.String() {
		a.expanded = ""
		return
	}
	a.expanded = key.String()
}

func (a *PositionAggregator) Expanded(key GroupKey) bool {
	return a.expanded == key.String()
}

// ModeArg — аргумент trading_mode для clear_open_positions:
// общий режим группы либо nil, если режимы смешаны.
func (a *PositionAggregator) ModeArg(key GroupKey) *string {
	g, ok := a.Group(key)
	if !ok || g.Mode == ModeMixed {
		return nil
	}
	mode := g.Mode
	return &mode
}

// Remove — локальная обрезка группы сразу после успешного удаления на
// сервере, не дожидаясь следующего poll.
func (a *PositionAggregator) Remove(key GroupKey) {
	out := a.groups[:0]
	for _, g := range a.groups {
		if g.Key != key {
			out = append(out, g)
		}
	}
	a.groups = out
	if a.expanded == key.String() {
		a.expanded = ""
	}
}
