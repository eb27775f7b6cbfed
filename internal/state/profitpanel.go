package state

import (
	"sort"

	"trade_console/internal/models"
)

// PairProfitPanel — профит по парам, сгруппированный сервером по ключу
// аккаунта exchange_mode. Тоталы здесь не хранятся: они каждый раз
// пересчитываются из видимых строк, чтобы сумма на экране всегда
// сходилась с тем, что отрендерено.
type PairProfitPanel struct {
	byAccount map[string][]models.PairProfitRecord
}

func NewPairProfitPanel() *PairProfitPanel {
	return &PairProfitPanel{byAccount: make(map[string][]models.PairProfitRecord)}
}

func (p *PairProfitPanel) Apply(data map[string][]models.PairProfitRecord) {
	p.byAccount = data
	if p.byAccount == nil {
		p.byAccount = make(map[string][]models.PairProfitRecord)
	}
}

func (p *PairProfitPanel) Accounts() []string {
	keys := make([]string, 0, len(p.byAccount))
	for k := range p.byAccount {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (p *PairProfitPanel) Rows(account string) []models.PairProfitRecord {
	return p.byAccount[account]
}

// Totals — сумма по оставшимся строкам аккаунта, ничего инкрементального.
func (p *PairProfitPanel) Totals(account string) (usdc, crypto float64) {
	for _, r := range p.byAccount[account] {
		usdc += r.ProfitUSDC
		crypto += r.ProfitCrypto
	}
	return usdc, crypto
}

// Remove — строка удалена на сервере, режем локально сразу.
func (p *PairProfitPanel) Remove(pairID int) {
	for account, rows := range p.byAccount {
		out := rows[:0]
		for _, r := range rows {
			if r.PairID != pairID {
				out = append(out, r)
			}
		}
		if len(out) == 0 {
			delete(p.byAccount, account)
		} else {
			p.byAccount[account] = out
		}
	}
}

// ResetRow — профит пары обнулён на сервере, отражаем локально.
func (p *PairProfitPanel) ResetRow(pairID int) {
	for account, rows := range p.byAccount {
		for i, r := range rows {
			if r.PairID == pairID {
				rows[i].ProfitUSDC = 0
				rows[i].ProfitCrypto = 0
				p.byAccount[account] = rows
			}
		}
	}
}
