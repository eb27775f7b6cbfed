package state

import "trade_console/internal/models"

const defaultPageSize = 20

// ProfitLedgerPaginator — серверная пагинация журнала сделок. Владеет
// только собственным курсором {page, perPage, timeframe, sort}; страницы
// не накапливаются — в памяти ровно одна, последняя полученная.
type ProfitLedgerPaginator struct {
	page      int
	perPage   int
	timeframe string
	sortKey   string

	current models.ProfitPage
	loaded  bool
}

func NewProfitLedgerPaginator() *ProfitLedgerPaginator {
	return &ProfitLedgerPaginator{
		page:      1,
		perPage:   defaultPageSize,
		timeframe: "all",
		sortKey:   "timestamp",
	}
}

// Query — параметры следующего запроса /api/profit_log_entries.
func (l *ProfitLedgerPaginator) Query() (page, perPage int, timeframe, sortKey string) {
	return l.page, l.perPage, l.timeframe, l.sortKey
}

// SetTimeframe — смена таймфрейма сбрасывает курсор на первую страницу.
func (l *ProfitLedgerPaginator) SetTimeframe(tf string) bool {
	if tf == l.timeframe {
		return false
	}
	l.timeframe = tf
	l.page = 1
	return true
}

// SetSort — смена сортировки тоже сбрасывает на первую страницу.
func (l *ProfitLedgerPaginator) SetSort(key string) bool {
	if key == l.sortKey {
		return false
	}
	l.sortKey = key
	l.page = 1
	return true
}

// Next/Prev — границы считаем только по server-reported total_pages.
func (l *ProfitLedgerPaginator) Next() bool {
	if !l.NextEnabled() {
		return false
	}
	l.page++
	return true
}

func (l *ProfitLedgerPaginator) Prev() bool {
	if !l.PrevEnabled() {
		return false
	}
	l.page--
	return true
}

func (l *ProfitLedgerPaginator) NextEnabled() bool {
	return l.loaded && l.current.Error == "" && l.page < l.current.TotalPages
}

func (l *ProfitLedgerPaginator) PrevEnabled() bool {
	return l.page > 1
}

// Apply — пришла страница; курсор подтягиваем к current_page сервера
// (сервер мог заклампить запрошенную страницу).
func (l *ProfitLedgerPaginator) Apply(p models.ProfitPage) {
	l.current = p
	l.loaded = true
	if p.Error == "" && p.CurrentPage > 0 {
		l.page = p.CurrentPage
	}
}

func (l *ProfitLedgerPaginator) Page() models.ProfitPage { return l.current }
func (l *ProfitLedgerPaginator) Loaded() bool            { return l.loaded }
func (l *ProfitLedgerPaginator) CurrentPage() int        { return l.page }
