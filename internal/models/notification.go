package models

const (
	NotificationInfo  = "info"
	NotificationError = "error"
)

// Notification — запись нотификации. Сервер отдаёт накопительный лог,
// а не очередь с удалением по чтению, поэтому дедуп — забота клиента.
type Notification struct {
	Symbol    string `json:"symbol"`
	Timestamp string `json:"timestamp"`
	Type      string `json:"type"`
	Message   string `json:"message"`
}

// Key — идентичность для дедупа: symbol + "-" + timestamp.
func (n Notification) Key() string {
	return n.Symbol + "-" + n.Timestamp
}
