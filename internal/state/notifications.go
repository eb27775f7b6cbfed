package state

import (
	"sort"

	"trade_console/internal/models"
)

// NotificationDeduper — что уже показывалось пользователю. Сервер отдаёт
// накопительный лог, так что одна и та же запись приходит в каждом poll;
// алертим только первый раз, в списке рендерим всегда.
type NotificationDeduper struct {
	seen map[string]struct{}
	list []models.Notification
}

func NewNotificationDeduper() *NotificationDeduper {
	return &NotificationDeduper{seen: make(map[string]struct{})}
}

// Apply — свежий poll /api/notifications. Возвращает error-нотификации,
// которые видим впервые — по ним нужен блокирующий алерт.
func (d *NotificationDeduper) Apply(batch map[string][]models.Notification) []models.Notification {
	flat := make([]models.Notification, 0, len(batch))
	var alerts []models.Notification

	for symbol, msgs := range batch {
		for _, n := range msgs {
			n.Symbol = symbol
			flat = append(flat, n)

			key := n.Key()
			if _, ok := d.seen[key]; ok {
				continue
			}
			d.seen[key] = struct{}{}
			if n.Type == models.NotificationError {
				alerts = append(alerts, n)
			}
		}
	}

	sort.Slice(flat, func(i, j int) bool {
		return flat[i].Timestamp > flat[j].Timestamp
	})
	d.list = flat
	return alerts
}

// List — все нотификации последнего poll, новые сверху.
func (d *NotificationDeduper) List() []models.Notification { return d.list }

// Reset — вызывается строго после того, как сервер подтвердил очистку:
// иначе конкурентный poll воскресит старые записи как "новые".
func (d *NotificationDeduper) Reset() {
	d.seen = make(map[string]struct{})
	d.list = nil
}
