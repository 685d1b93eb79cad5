package main

import (
	"bytes"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/machiloop14/memecoin-price-tracker-bot/config"
	"github.com/machiloop14/memecoin-price-tracker-bot/internal/commands"
	"github.com/machiloop14/memecoin-price-tracker-bot/internal/database"
	"github.com/machiloop14/memecoin-price-tracker-bot/internal/dexscreener"
	"github.com/machiloop14/memecoin-price-tracker-bot/internal/monitor"
	"github.com/machiloop14/memecoin-price-tracker-bot/internal/registry"
	"github.com/machiloop14/memecoin-price-tracker-bot/internal/telegram"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"
	"github.com/leonelquinteros/gotext"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	dto "github.com/prometheus/client_model/go"
	log "github.com/sirupsen/logrus"
)

type BotMetrics struct {
	CommandsProcessed prometheus.Counter
	MessagesHandled   prometheus.Counter
	NotificationsSent prometheus.Counter
	QuoteFetchErrors  prometheus.Counter
	AlertsActive      prometheus.Gauge
}

var (
	metrics = NewBotMetrics()
)

func init() {
	_ = godotenv.Load()
	config.InitConfig()
	setupLogging()
}

func NewBotMetrics() *BotMetrics {
	metrics := &BotMetrics{
		CommandsProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "memecoin",
			Subsystem: "tracker_bot",
			Name:      "commands_processed",
			Help:      "The total number of processed commands",
		}),
		MessagesHandled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "memecoin",
			Subsystem: "tracker_bot",
			Name:      "messages_handled",
			Help:      "The total number of handled messages",
		}),
		NotificationsSent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "memecoin",
			Subsystem: "tracker_bot",
			Name:      "notifications_sent",
			Help:      "The total number of multiple-crossing notifications sent",
		}),
		QuoteFetchErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "memecoin",
			Subsystem: "tracker_bot",
			Name:      "quote_fetch_errors",
			Help:      "The total number of failed quote fetches in the monitor loop",
		}),
		AlertsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "memecoin",
			Subsystem: "tracker_bot",
			Name:      "alerts_active",
			Help:      "The current number of live alerts",
		}),
	}

	prometheus.MustRegister(metrics.CommandsProcessed)
	prometheus.MustRegister(metrics.MessagesHandled)
	prometheus.MustRegister(metrics.NotificationsSent)
	prometheus.MustRegister(metrics.QuoteFetchErrors)
	prometheus.MustRegister(metrics.AlertsActive)

	return metrics
}

func main() {
	gotext.Configure("locales", strings.ToLower(config.GetString("lang")), "default")

	token := config.GetString("telegram_bot_token")
	if token == "" {
		log.Fatal("TELEGRAM_BOT_TOKEN is not set")
	}

	err := database.InitDB(config.GetString("database_path"))
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.CloseDB()

	LoadMetricsFromDB()

	reg := registry.New()
	if err := reg.Load(); err != nil {
		log.Fatalf("Failed to load alerts: %v", err)
	}
	metrics.AlertsActive.Set(float64(reg.Len()))

	resolver := dexscreener.NewClient(dexscreener.ClientConfig{
		ReferenceSymbol: config.GetString("reference_symbol"),
		Timeout:         time.Duration(config.GetInt("quote_timeout_seconds")) * time.Second,
	})

	commands.Setup(reg, resolver, config.GetInt("max_alerts_per_chat"))

	bot, err := telegram.NewBot(telegram.BotConfig{
		Token:          token,
		Debug:          config.GetBool("debug"),
		UpdatesTimeout: 60,
	})

	if err != nil {
		log.Fatalf("Failed to create bot: %v", err)
	}

	mon := monitor.New(reg, resolver, bot, monitor.Config{
		Interval:          time.Duration(config.GetInt("check_interval_seconds")) * time.Second,
		CatchUp:           config.GetBool("alert_catch_up"),
		NotificationsSent: metrics.NotificationsSent,
		QuoteFetchErrors:  metrics.QuoteFetchErrors,
	})
	mon.Start()

	updates, err := bot.GetUpdatesChannel()
	if err != nil {
		log.Fatalf("Failed to get updates channel: %v", err)
	}

	go handleUpdates(bot, reg, updates)

	go func() {
		for {
			time.Sleep(5 * time.Minute)
			SaveMetricsToDB()
		}
	}()

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
		mon.Stop()
		SaveMetricsToDB()
		database.CloseDB()
		log.Println("Metrics saved, shutting down...")
		os.Exit(0)
	}()

	if err := launchMetricsAndHealthServer(config.GetInt("metrics_port")); err != nil {
		log.Fatalf("Failed to start metrics and health server: %v", err)
	}
}

func setupLogging() {
	log.SetLevel(log.ErrorLevel)
	if config.GetBool("debug") {
		log.SetLevel(log.DebugLevel)
	}
	log.Debug("Starting memecoin tracker bot...")
}

func handleUpdates(bot *telegram.Bot, reg *registry.Registry, updates tgbotapi.UpdatesChannel) {
	for update := range updates {
		if update.Message == nil {
			log.Debug("Received non-message or non-command")
			continue
		}

		if !update.Message.IsCommand() {
			continue
		}

		metrics.MessagesHandled.Inc()

		handleCommand(bot, update)

		metrics.AlertsActive.Set(float64(reg.Len()))
	}
}

func handleCommand(bot *telegram.Bot, update tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			stackBuf := make([]byte, 1024)
			stackSize := runtime.Stack(stackBuf, false)
			stackTrace := bytes.TrimRight(stackBuf[:stackSize], "\x00")
			log.Errorf("Recovered from panic: %v\nStack trace: %s", r, stackTrace)
		}
	}()

	err := bot.SendMessage(telegram.Message{
		ChatID:    int(update.Message.Chat.ID),
		Text:      bot.HandleUpdate(update),
		MessageID: update.Message.MessageID,
	})

	if err != nil {
		log.Errorf("Failed to send message: %v", err)
	} else {
		metrics.CommandsProcessed.Inc()
	}
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func launchMetricsAndHealthServer(port int) error {
	http.Handle("/metrics", promhttp.Handler())
	http.HandleFunc("/health", healthCheckHandler)

	log.Infof("Launching metrics and health endpoint on :%d", port)
	return http.ListenAndServe(fmt.Sprintf(":%d", port), http.DefaultServeMux)
}

func LoadMetricsFromDB() {
	commandsProcessed, _ := database.GetMetric("commands_processed")
	messagesHandled, _ := database.GetMetric("messages_handled")
	notificationsSent, _ := database.GetMetric("notifications_sent")
	quoteFetchErrors, _ := database.GetMetric("quote_fetch_errors")

	metrics.CommandsProcessed.Add(commandsProcessed)
	metrics.MessagesHandled.Add(messagesHandled)
	metrics.NotificationsSent.Add(notificationsSent)
	metrics.QuoteFetchErrors.Add(quoteFetchErrors)

	log.Println("Metrics loaded from database.")
}

func SaveMetricsToDB() {
	database.SaveMetric("commands_processed", GetMetricValue(metrics.CommandsProcessed))
	database.SaveMetric("messages_handled", GetMetricValue(metrics.MessagesHandled))
	database.SaveMetric("notifications_sent", GetMetricValue(metrics.NotificationsSent))
	database.SaveMetric("quote_fetch_errors", GetMetricValue(metrics.QuoteFetchErrors))

	log.Println("Metrics saved to database.")
}

func GetMetricValue(metric prometheus.Collector) float64 {
	var metricValue float64
	metricChan := make(chan prometheus.Metric, 1)
	metric.Collect(metricChan)
	close(metricChan)

	metricProto := &dto.Metric{}
	if err := (<-metricChan).Write(metricProto); err != nil {
		log.Printf("Failed to read metric value: %v", err)
		return 0
	}

	if metricProto.Counter != nil {
		metricValue = metricProto.Counter.GetValue()
	} else if metricProto.Gauge != nil {
		metricValue = metricProto.Gauge.GetValue()
	}
	return metricValue
}
