package state

import (
	"sort"

	"trade_console/internal/models"
)

// MarketPriceCache — канонический symbol -> последняя известная цена.
// Живёт всю сессию, записи никогда не выселяются. Владелец — цикл
// планировщика, поэтому без мьютексов: все записи и чтения идут из него.
type MarketPriceCache struct {
	prices map[string]models.Price
}

func NewMarketPriceCache() *MarketPriceCache {
	return &MarketPriceCache{prices: make(map[string]models.Price)}
}

// ApplyPushDelta — частичное обновление: пуш несёт только изменившиеся
// символы, остальные записи не трогаем.
func (c *MarketPriceCache) ApplyPushDelta(delta map[string]models.Price) {
	for sym, p := range delta {
		c.prices[sym] = p
	}
}

// ApplyPollSnapshot — базовая линия после полного рефреша: перезаписывает
// все присутствующие в снапшоте ключи. Семантика та же, что у дельты,
// но снапшот по контракту несёт все сконфигурированные пары.
func (c *MarketPriceCache) ApplyPollSnapshot(snapshot map[string]models.Price) {
	for sym, p := range snapshot {
		c.prices[sym] = p
	}
}

func (c *MarketPriceCache) Get(symbol string) (models.Price, bool) {
	p, ok := c.prices[symbol]
	return p, ok
}

// Format — цена с 4 знаками либо "N/A"; на неизвестном символе не падаем.
func (c *MarketPriceCache) Format(symbol string) string {
	p, ok := c.prices[symbol]
	if !ok {
		return "N/A"
	}
	return p.Format()
}

func (c *MarketPriceCache) Len() int { return len(c.prices) }

func (c *MarketPriceCache) Symbols() []string {
	out := make([]string, 0, len(c.prices))
	for sym := range c.prices {
		out = append(out, sym)
	}
	sort.Strings(out)
	return out
}
