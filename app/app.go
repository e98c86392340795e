package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Yumax-panda/Mario-Kart/api"
	"github.com/Yumax-panda/Mario-Kart/bot"
	"github.com/Yumax-panda/Mario-Kart/config"
	"github.com/Yumax-panda/Mario-Kart/constants"
	"github.com/Yumax-panda/Mario-Kart/handsup"
	"github.com/Yumax-panda/Mario-Kart/health"
	"github.com/Yumax-panda/Mario-Kart/interfaces"
	"github.com/Yumax-panda/Mario-Kart/models"
	"github.com/Yumax-panda/Mario-Kart/mogi"
	"github.com/Yumax-panda/Mario-Kart/results"
	"github.com/Yumax-panda/Mario-Kart/scheduler"
	"github.com/Yumax-panda/Mario-Kart/scoring"
	"github.com/Yumax-panda/Mario-Kart/sheets"
	"github.com/Yumax-panda/Mario-Kart/storage"
	"github.com/Yumax-panda/Mario-Kart/telemetry"
	"github.com/Yumax-panda/Mario-Kart/utils"
	"github.com/bwmarrin/discordgo"
)

const shutdownTimeout = 10 * time.Second

type Application struct {
	config         *config.Config
	session        *discordgo.Session
	store          interfaces.BlobStore
	lounge         *api.CachedLoungeClient
	teams          interfaces.TeamRegistry
	handsup        *handsup.Service
	commandHandler *bot.CommandHandler
	prometheus     *telemetry.Prometheus
	metricsClient  *telemetry.MetricsClient
	healthServer   *health.Server
	httpServer     *http.Server
	scheduler      *scheduler.Scheduler
	errs           *utils.ErrorHelper
}

// New 설정을 검증하고 모든 구성 요소를 연결합니다. 네트워크 연결은 Start에서 엽니다
func New(ctx context.Context, cfg *config.Config) (*Application, error) {
	app := &Application{config: cfg, errs: utils.NewErrorHelper("app")}

	if err := cfg.Validate(); err != nil {
		return nil, app.errs.WrapError(err, "config validation failed")
	}
	utils.Configure(cfg.Logging.Level, cfg.Logging.JSON)

	if err := app.initializeDiscord(); err != nil {
		return nil, err
	}
	if err := app.initializeDependencies(ctx); err != nil {
		return nil, err
	}

	app.setupHandlers()
	app.initializeHealth()
	app.scheduler = scheduler.NewScheduler(app.handsup, app.recorders())

	return app, nil
}

func (app *Application) initializeDiscord() error {
	session, err := discordgo.New("Bot " + app.config.Discord.Token)
	if err != nil {
		return app.errs.WrapError(err, "failed to create discord session")
	}

	session.Identify.Intents = discordgo.IntentsGuildMessages |
		discordgo.IntentsMessageContent |
		discordgo.IntentsGuildMembers |
		discordgo.IntentsGuilds
	if app.config.IsDebugMode() {
		session.LogLevel = discordgo.LogInformational
	}
	app.session = session
	return nil
}

func (app *Application) initializeDependencies(ctx context.Context) error {
	store, err := storage.NewBlobStore(ctx, app.config.Storage)
	if err != nil {
		return app.errs.WrapError(err, "failed to initialize storage")
	}
	app.store = store
	utils.Info("Storage backend: %s", app.config.Storage.Backend)

	app.lounge = api.NewCachedLoungeClient(api.NewLoungeClient(app.config.Lounge.BaseURL, app.config.Lounge.RatePerSecond))

	if app.config.SheetsEnabled() {
		client, err := sheets.NewSheetsClient(ctx, app.config.Sheets.SpreadsheetID, app.config.Sheets.CredentialsJSON)
		if err != nil {
			return app.errs.WrapError(err, "failed to initialize sheets client")
		}
		app.teams = sheets.NewTeamRegistry(client)
		utils.Info("Team registry enabled")
	} else {
		utils.Warn("SPREADSHEET_ID is not set. Team names fall back to server names.")
	}

	app.prometheus = telemetry.NewPrometheus()
	projectID := ""
	if app.config.Telemetry.Enabled {
		projectID = app.config.Telemetry.ProjectID
	}
	app.metricsClient = telemetry.NewMetricsClient(ctx, projectID, app.config.Storage.FirebaseCredentialsJSON)
	return nil
}

func (app *Application) recorders() telemetry.Recorders {
	return telemetry.Recorders{app.prometheus, app.metricsClient}
}

func (app *Application) setupHandlers() {
	repo := storage.NewGuildRepository(app.store)
	mogiService := mogi.NewService(mogi.NewStore(app.store), app.session, app.config.Discord.BotIDs, app.config.Features.MogiLookback)
	app.handsup = handsup.NewService(repo, app.session, handsup.NewRoleManager(app.session, constants.RoleWorkerCount))

	deps := bot.NewCommandDependencies(
		mogiService,
		app.handsup,
		results.NewService(repo),
		app.lounge,
		app.teams,
		scoring.NewTeamCalculator(models.GetTierManager()),
		app.recorders(),
		app.config.Language(),
	)
	app.commandHandler = bot.NewCommandHandler(deps)

	app.session.AddHandler(app.commandHandler.HandleMessage)
	app.session.AddHandler(app.handleReady)
}

func (app *Application) initializeHealth() {
	app.healthServer = health.NewServer(app.prometheus.Handler())
	app.healthServer.Register("storage", app.store.Ping)
}

func (app *Application) Start() error {
	app.httpServer = app.healthServer.Start(app.config.HTTP.Port)

	if err := app.session.Open(); err != nil {
		return app.errs.WrapError(err, "failed to open websocket")
	}

	if app.config.Schedule.ResetEnabled {
		app.scheduler.StartDailyReset(app.config.Schedule.ResetHour, app.config.Schedule.ResetMinute)
	} else {
		utils.Warn("HANDSUP_RESET_ENABLED is false. War lists are not reset automatically.")
	}
	app.scheduler.StartMetricsPush(constants.MetricsPushInterval, app.lounge.GetCacheStats,
		app.metricsClient.SendCacheMetrics,
		func(ctx context.Context, stats api.CacheMetrics) { app.prometheus.ObserveCache(stats) },
	)

	app.printStartupMessage()
	return nil
}

func (app *Application) printStartupMessage() {
	utils.Info("Mario Kart war bot v%s", constants.BotVersion)
	utils.Info("📋 Commands: !help")
	utils.Info("Running with %s", app)
	if app.config.Schedule.ResetEnabled {
		utils.Info("⏰ War lists are reset every day at %02d:%02d JST",
			app.config.Schedule.ResetHour, app.config.Schedule.ResetMinute)
	}
}

func (app *Application) Run() error {
	if err := app.Start(); err != nil {
		return err
	}

	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM)
	<-sc

	return app.Stop()
}

func (app *Application) handleReady(s *discordgo.Session, event *discordgo.Ready) {
	utils.Info("Discord bot connected successfully as %s", event.User.Username)
	utils.Info("Bot is serving %d guilds", len(event.Guilds))

	app.commandHandler.SetSelfID(event.User.ID)

	if err := s.UpdateGameStatus(0, constants.BotStatusMessage); err != nil {
		utils.Warn("Failed to set bot status: %v", err)
	}
}

// printCacheStats 캐시 통계를 출력합니다
func (app *Application) printCacheStats() {
	if app.lounge != nil {
		utils.Info("📊 %s", app.lounge.GetCacheStats().String())
	}
}

func (app *Application) Stop() error {
	utils.Info("🔄 Shutting down...")

	app.printCacheStats()

	if app.scheduler != nil {
		app.scheduler.Stop()
	}

	if app.httpServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := app.httpServer.Shutdown(ctx); err != nil {
			app.errs.LogError(err, "health server shutdown")
		}
	}

	if app.lounge != nil {
		app.lounge.Close()
	}

	if app.session != nil {
		if err := app.session.Close(); err != nil {
			app.errs.LogError(err, "discord session close")
		}
	}

	var closeErr error
	if app.store != nil {
		if err := app.store.Close(); err != nil {
			closeErr = app.errs.WrapError(err, "failed to close storage")
		}
	}
	if app.metricsClient != nil {
		if err := app.metricsClient.Close(); err != nil {
			app.errs.LogError(err, "metrics client close")
		}
	}

	utils.Info("Bot stopped.")
	return closeErr
}

// String 실행 구성을 한 줄로 요약합니다
func (app *Application) String() string {
	return fmt.Sprintf("storage=%s sheets=%t telemetry=%t reset=%t",
		app.config.Storage.Backend, app.teams != nil, app.metricsClient.Enabled(), app.config.Schedule.ResetEnabled)
}
