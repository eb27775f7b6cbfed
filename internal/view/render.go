package view

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("63")).
			Padding(0, 1)

	borderStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1)

	runningStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	stoppedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	disabledStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("238")).Strikethrough(true)
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// Presenter — куда уходит собранный кадр. В проде терминал, в тестах
// запоминающая заглушка.
type Presenter interface {
	Present(d Dashboard)
}

// Terminal рисует дашборд в stdout, полностью перерисовывая экран.
type Terminal struct{}

func NewTerminal() *Terminal { return &Terminal{} }

func (t *Terminal) Present(d Dashboard) {
	fmt.Fprint(os.Stdout, "\033[H\033[2J")
	fmt.Fprintln(os.Stdout, Render(d))
}

// Render — кадр в строку. Ничего не мутирует и не ходит в сеть.
func Render(d Dashboard) string {
	var sections []string

	header := titleStyle.Render(fmt.Sprintf(
		"trade console · theme=%s · base=%s · total profit %s · active %d",
		d.Theme, d.BaseCurrency, d.TotalProfit, d.ActivePairs,
	))
	sections = append(sections, header)

	sections = append(sections, borderStyle.Render(renderPairs(d.Rows)))

	if len(d.Accounts) > 0 {
		sections = append(sections, borderStyle.Render(renderAccounts(d.Accounts)))
	}
	if len(d.Groups) > 0 {
		sections = append(sections, borderStyle.Render(renderGroups(d.Groups)))
	}
	if len(d.Profits) > 0 {
		sections = append(sections, borderStyle.Render(renderProfits(d.Profits)))
	}
	sections = append(sections, borderStyle.Render(renderLedger(d.Ledger)))

	if len(d.Notifications) > 0 {
		sections = append(sections, borderStyle.Render(renderNotifications(d)))
	}
	if d.Spark != "" {
		sections = append(sections, dimStyle.Render("profit "+d.Spark))
	}
	if len(d.LogLines) > 0 {
		sections = append(sections, dimStyle.Render(strings.Join(d.LogLines, "\n")))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func renderPairs(rows []PairRow) string {
	var b strings.Builder
	b.WriteString("PAIRS\n")
	for _, r := range rows {
		status := stoppedStyle.Render("stopped")
		if r.Running {
			status = runningStyle.Render("running")
		}
		if r.Pending {
			status += dimStyle.Render(" …")
		}
		edit := "[Edit]"
		if !r.EditEnabled {
			edit = disabledStyle.Render("[Edit]")
		}
		fmt.Fprintf(&b, "#%-3d %-10s %-8s %-7s %12s  %s  [%s] %s",
			r.Pair.ID, r.Pair.Symbol, r.Pair.Exchange, r.Pair.Mode,
			r.PriceText, status, r.ToggleLabel, edit)
		if r.Orders != "" {
			b.WriteString("  " + dimStyle.Render(r.Orders))
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderAccounts(cards []AccountCard) string {
	var b strings.Builder
	b.WriteString("ACCOUNTS\n")
	for _, c := range cards {
		fmt.Fprintf(&b, "%-16s balance=%-12s pnl=%s/%s pairs=%d\n",
			c.Key, c.Balance, c.PnlUSDC, c.PnlCrypto, c.ActivePairs)
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderGroups(groups []GroupRow) string {
	var b strings.Builder
	b.WriteString("OPEN POSITIONS\n")
	for _, g := range groups {
		marker := "+"
		if g.Expanded {
			marker = "-"
		}
		fmt.Fprintf(&b, "%s %-10s %-8s %-7s qty=%-12s gain=%-10s loss=%-10s [Remove]\n",
			marker, g.Key.Symbol, g.Key.Exchange, g.Mode, g.Quantity, g.Gain, g.Loss)
		for _, row := range g.Rows {
			fmt.Fprintf(&b, "    qty=%-12s buy=%-12s cur=%-12s pnl=%s\n",
				row.Quantity, row.BuyPrice, row.CurrentPrice, row.Pnl)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderProfits(profits []AccountProfit) string {
	var b strings.Builder
	b.WriteString("PAIR PROFIT\n")
	for _, ap := range profits {
		fmt.Fprintf(&b, "%s\n", ap.Account)
		for _, r := range ap.Rows {
			fmt.Fprintf(&b, "  #%-3d %-10s usdc=%-12s crypto=%-12s [Reset] [Remove]\n",
				r.PairID, r.Symbol, r.USDC, r.Crypto)
		}
		fmt.Fprintf(&b, "  total usdc=%s crypto=%s\n", ap.TotalUSDC, ap.TotalCrypto)
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderLedger(p LedgerPage) string {
	var b strings.Builder
	b.WriteString("PROFIT LOG\n")
	switch {
	case p.Error != "":
		b.WriteString(errorStyle.Render(p.Error) + "\n")
	case p.Empty:
		b.WriteString("no entries\n")
	default:
		for _, e := range p.Rows {
			fmt.Fprintf(&b, "%-24s %-10s %-8s buy=%-10.4f sell=%-10.4f qty=%-10.4f profit=%.4f\n",
				e.Timestamp, e.Symbol, e.Exchange, e.BuyPrice, e.SellPrice, e.Amount, e.ProfitUSDT)
		}
	}
	prev := "[Prev]"
	if !p.PrevEnabled {
		prev = disabledStyle.Render("[Prev]")
	}
	next := "[Next]"
	if !p.NextEnabled {
		next = disabledStyle.Render("[Next]")
	}
	fmt.Fprintf(&b, "%s %s %s", prev, p.PageLabel, next)
	return b.String()
}

func renderNotifications(d Dashboard) string {
	var b strings.Builder
	b.WriteString("NOTIFICATIONS\n")
	for _, n := range d.Notifications {
		line := fmt.Sprintf("%-24s %-10s %s", n.Timestamp, n.Symbol, n.Message)
		if n.Type == "error" {
			line = errorStyle.Render(line)
		}
		b.WriteString(line + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
