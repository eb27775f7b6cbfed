// mockserver — локальная имитация торгового сервиса: отдаёт те же
// эндпоинты и пуш-канал, что и боевой, но поверх случайного блуждания
// цен. Нужен, чтобы гонять консоль без живого движка.
package main

import (
	"log"
	"net/http"
	"time"

	"github.com/spf13/viper"
)

func main() {
	viper.SetDefault("addr", ":5000")
	viper.SetDefault("push_interval", "2s")
	viper.SetDefault("log_interval", "5s")
	viper.SetEnvPrefix("mock")
	viper.AutomaticEnv()

	w := newWorld()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/data", w.handleData)
	mux.HandleFunc("/api/control", w.handleControl)
	mux.HandleFunc("/api/bot_statuses", w.handleBotStatuses)
	mux.HandleFunc("/api/notifications", w.handleNotifications)
	mux.HandleFunc("/clear_notifications", w.handleClearNotifications)
	mux.HandleFunc("/api/pair_profit", w.handlePairProfit)
	mux.HandleFunc("/api/open_positions", w.handleOpenPositions)
	mux.HandleFunc("/api/reset_profit", w.handleResetProfit)
	mux.HandleFunc("/api/remove_pair_profit", w.handleRemovePairProfit)
	mux.HandleFunc("/api/clear_open_positions", w.handleClearOpenPositions)
	mux.HandleFunc("/api/update_pair_config", w.handleUpdatePairConfig)
	mux.HandleFunc("/api/exchange_pairs", w.handleExchangePairs)
	mux.HandleFunc("/api/profit_log_entries", w.handleProfitLog)
	mux.HandleFunc("/api/profit_data", w.handleProfitData)
	mux.HandleFunc("/toggle_theme", w.handleToggleTheme)
	mux.HandleFunc("/set_base_currency", w.handleSetBaseCurrency)
	mux.HandleFunc("/ws", w.handleWS)

	pushEvery := viper.GetDuration("push_interval")
	logEvery := viper.GetDuration("log_interval")
	go w.tickPrices(pushEvery)
	go w.tickStrategyLog(logEvery)

	addr := viper.GetString("addr")
	log.Printf("mock trading service on %s (push every %s)", addr, pushEvery)
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}
