package config

import (
	"github.com/spf13/viper"
	"sync"
)

var once sync.Once

func InitConfig() {
	once.Do(func() {
		viper.AutomaticEnv()

		viper.BindEnv("telegram_bot_token", "TELEGRAM_BOT_TOKEN")
		viper.BindEnv("database_path", "DATABASE_PATH")
		viper.BindEnv("check_interval_seconds", "CHECK_INTERVAL_SECONDS")
		viper.BindEnv("quote_timeout_seconds", "QUOTE_TIMEOUT_SECONDS")
		viper.BindEnv("reference_symbol", "REFERENCE_SYMBOL")
		viper.BindEnv("max_alerts_per_chat", "MAX_ALERTS_PER_CHAT")
		viper.BindEnv("alert_catch_up", "ALERT_CATCH_UP")
		viper.BindEnv("metrics_port", "METRICS_PORT")
		viper.BindEnv("debug", "DEBUG")
		viper.BindEnv("lang", "LANG")

		viper.SetDefault("database_path", "data/tracker.db")
		viper.SetDefault("check_interval_seconds", 60)
		viper.SetDefault("quote_timeout_seconds", 10)
		viper.SetDefault("reference_symbol", "SOL")
		viper.SetDefault("max_alerts_per_chat", 10)
		viper.SetDefault("alert_catch_up", false)
		viper.SetDefault("metrics_port", 9090)
		viper.SetDefault("debug", false)
		viper.SetDefault("lang", "en")
	})
}

func GetString(key string) string {
	InitConfig()
	return viper.GetString(key)
}

func GetInt(key string) int {
	InitConfig()
	return viper.GetInt(key)
}

func GetBool(key string) bool {
	InitConfig()
	return viper.GetBool(key)
}
