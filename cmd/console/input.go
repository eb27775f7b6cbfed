package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"trade_console/internal/models"
	"trade_console/internal/runner"
	"trade_console/internal/state"
)

const usage = `commands:
  t <pair_id>                       start/stop pair
  g <symbol> <exchange>             expand/collapse position group
  rg <symbol> <exchange>            remove position group
  n | p                             profit log next/prev page
  tf <all|1d|7d|30d>                profit log timeframe
  sort <timestamp|profit|symbol>    profit log sort key
  clear                             clear notifications
  reset <pair_id>                   reset pair profit
  rmp <pair_id>                     remove pair profit row
  edit <pair_id> <buy%> <sell%> <amount> <profit_mode>
  pairs <exchange>                  list tradable symbols
  theme                             toggle theme
  cur <currency>                    set base currency
  r                                 force full refresh
  q                                 quit`

// readCommands — тонкий слой над stdin: разбирает строку и зовёт
// планировщик. Вся логика — в планировщике, здесь только парсинг.
func readCommands(ctx context.Context, s *runner.Scheduler, in io.Reader, quit func()) {
	sc := bufio.NewScanner(in)
	for sc.Scan() {
		if ctx.Err() != nil {
			return
		}
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "t":
			if id, ok := intArg(fields, 1); ok {
				s.Toggle(id)
			}
		case "g":
			if len(fields) == 3 {
				s.ToggleGroup(state.GroupKey{Symbol: fields[1], Exchange: fields[2]})
			}
		case "rg":
			if len(fields) == 3 {
				s.RemoveGroup(state.GroupKey{Symbol: fields[1], Exchange: fields[2]})
			}
		case "n":
			s.LedgerNext()
		case "p":
			s.LedgerPrev()
		case "tf":
			if len(fields) == 2 {
				s.LedgerTimeframe(fields[1])
			}
		case "sort":
			if len(fields) == 2 {
				s.LedgerSort(fields[1])
			}
		case "clear":
			s.ClearNotifications()
		case "reset":
			if id, ok := intArg(fields, 1); ok {
				s.ResetProfit(id)
			}
		case "rmp":
			if id, ok := intArg(fields, 1); ok {
				s.RemovePairProfit(id)
			}
		case "edit":
			if cfg, ok := parseEdit(fields); ok {
				s.UpdatePairConfig(cfg)
			}
		case "pairs":
			if len(fields) == 2 {
				s.ListExchangePairs(fields[1])
			}
		case "theme":
			s.ToggleTheme()
		case "cur":
			if len(fields) == 2 {
				s.SetBaseCurrency(fields[1])
			}
		case "r":
			s.Refresh()
		case "q":
			quit()
			return
		default:
			fmt.Println(usage)
		}
	}
}

func intArg(fields []string, i int) (int, bool) {
	if len(fields) <= i {
		return 0, false
	}
	n, err := strconv.Atoi(fields[i])
	if err != nil {
		return 0, false
	}
	return n, true
}

func parseEdit(fields []string) (models.PairConfig, bool) {
	if len(fields) != 6 {
		return models.PairConfig{}, false
	}
	id, ok := intArg(fields, 1)
	if !ok {
		return models.PairConfig{}, false
	}
	buy, err1 := strconv.ParseFloat(fields[2], 64)
	sell, err2 := strconv.ParseFloat(fields[3], 64)
	amount, err3 := strconv.ParseFloat(fields[4], 64)
	if err1 != nil || err2 != nil || err3 != nil {
		return models.PairConfig{}, false
	}
	return models.PairConfig{
		PairID:         id,
		BuyPercentage:  buy,
		SellPercentage: sell,
		Amount:         amount,
		ProfitMode:     fields[5],
	}, true
}
