package state

import "strings"

const balanceAlertPrefix = "[ALERT] Not enough balance"

// StrategyLogBuffer — хвост живого лога стратегии (live_strategy_log).
type StrategyLogBuffer struct {
	lines []string
	max   int
}

func NewStrategyLogBuffer(max int) *StrategyLogBuffer {
	if max <= 0 {
		max = 200
	}
	return &StrategyLogBuffer{max: max}
}

// Append — добавляет строку как есть; true, если строка требует
// блокирующего алерта (не хватает баланса).
func (b *StrategyLogBuffer) Append(line string) bool {
	b.lines = append(b.lines, line)
	if len(b.lines) > b.max {
		b.lines = b.lines[len(b.lines)-b.max:]
	}
	return strings.HasPrefix(line, balanceAlertPrefix)
}

func (b *StrategyLogBuffer) Lines() []string { return b.lines }

func (b *StrategyLogBuffer) Tail(n int) []string {
	if n <= 0 || n >= len(b.lines) {
		return b.lines
	}
	return b.lines[len(b.lines)-n:]
}
