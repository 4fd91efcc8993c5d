package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sirupsen/logrus"
	"github.com/terraincognita07/gymcal/internal/api"
	"github.com/terraincognita07/gymcal/internal/config"
	"github.com/terraincognita07/gymcal/internal/db"
	"github.com/terraincognita07/gymcal/internal/firestore"
	"github.com/terraincognita07/gymcal/internal/logging"
	"github.com/terraincognita07/gymcal/internal/security"
	"github.com/terraincognita07/gymcal/internal/services"
	urfave "github.com/urfave/cli"
)

func serve(_ *urfave.Context) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	logging.Setup(logging.LoggerSetupParams{
		LogFileName:   cfg.LogFile,
		LogToStdout:   cfg.LogToStdout,
		LogLevel:      cfg.LogLevel,
		LogFormatJSON: cfg.LogJSON,
	})

	location := resolveLocation(cfg.TimeZone)
	time.Local = location

	secretKey, err := resolveSecretKey(cfg)
	if err != nil {
		return err
	}

	database, err := db.OpenSQLite(cfg.DBPath)
	if err != nil {
		return err
	}

	lifecycleCtx, cancelLifecycle := context.WithCancel(context.Background())
	defer cancelLifecycle()

	options := api.DependencyOptions{
		Location:    location,
		HorizonDays: cfg.HorizonDays,
		Observers:   []services.CalendarObserver{services.NewWeeklyStreakObserver(newNotifier(cfg))},
	}
	if cfg.FirestoreProjectID != "" {
		source, err := firestore.NewWorkoutSource(lifecycleCtx, cfg.FirestoreProjectID)
		if err != nil {
			return err
		}
		defer source.Close()
		options.Remote = source
		logrus.Infof("firestore: reading workouts from project %s", cfg.FirestoreProjectID)
	}

	handler, err := api.NewHandler(secretKey, location, api.NewDependencies(db.NewRepositories(database), options))
	if err != nil {
		return err
	}
	app := newServerApp(handler)

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	go func() {
		<-sigCtx.Done()
		cancelLifecycle()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			logrus.Errorf("server shutdown failed: %v", err)
		}
	}()

	logrus.Infof("gymcal listening on http://0.0.0.0:%s (db: %s, tz: %s, horizon: %d days)", cfg.Port, cfg.DBPath, location.String(), cfg.HorizonDays)
	return app.Listen(":" + cfg.Port)
}

func newServerApp(handler *api.Handler) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "gymcal",
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{Output: logrus.StandardLogger().Writer()}))
	app.Use(compress.New())

	api.RegisterRoutes(app, handler)
	app.Use(handler.NotFound)
	return app
}

func newNotifier(cfg config.Config) services.WeeklyStreakNotifier {
	telegram := services.NewTelegramNotifier(cfg.TelegramBotToken, cfg.TelegramChatID)
	if telegram.Enabled() {
		return telegram
	}
	return services.LogNotifier{}
}

func resolveSecretKey(cfg config.Config) (string, error) {
	if err := security.ValidateSecret(cfg.SecretKey); err != nil {
		return "", err
	}
	return cfg.SecretKey, nil
}

func resolveLocation(name string) *time.Location {
	location, err := time.LoadLocation(name)
	if err != nil {
		logrus.Warnf("invalid TZ %q, falling back to UTC", name)
		return time.UTC
	}
	return location
}
