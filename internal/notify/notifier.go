package notify

import (
	"fmt"
	"log"

	tgbot "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Alerter — поверхность алертов консоли: аналог window.alert браузера.
// Alert — для ошибок, требующих внимания пользователя; Notify — фоновые
// сообщения.
type Alerter interface {
	Alert(msg string)
	Alertf(format string, args ...any)
	Notify(msg string)
}

// Telegram — дублирует алерты в чат, чтобы ошибки не терялись, когда на
// терминал никто не смотрит.
type Telegram struct {
	bot    *tgbot.BotAPI
	chatID int64
}

func NewTelegram(token string, chatID int64) (*Telegram, error) {
	b, err := tgbot.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	return &Telegram{bot: b, chatID: chatID}, nil
}

func (t *Telegram) Alert(msg string) {
	if t == nil || t.bot == nil || t.chatID == 0 {
		return
	}
	_, _ = t.bot.Send(tgbot.NewMessage(t.chatID, "❗️ "+msg))
}

func (t *Telegram) Alertf(format string, args ...any) { t.Alert(fmt.Sprintf(format, args...)) }

func (t *Telegram) Notify(msg string) {
	if t == nil || t.bot == nil || t.chatID == 0 {
		return
	}
	_, _ = t.bot.Send(tgbot.NewMessage(t.chatID, msg))
}

// Stdout — заглушка: алерт это звонок терминала + строка в лог.
type Stdout struct{}

func NewStdout() *Stdout { return &Stdout{} }

func (s *Stdout) Alert(msg string) {
	fmt.Print("\a")
	log.Printf("ALERT: %s", msg)
}

func (s *Stdout) Alertf(format string, args ...any) { s.Alert(fmt.Sprintf(format, args...)) }

func (s *Stdout) Notify(msg string) { log.Println(msg) }
