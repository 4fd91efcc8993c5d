package main

import (
	"context"
	"os"
	"time"

	"github.com/terraincognita07/gymcal/internal/cli"
	"github.com/terraincognita07/gymcal/internal/config"
	"github.com/terraincognita07/gymcal/internal/logging"
	urfave "github.com/urfave/cli"
)

var (
	configPath string
	userName   string
	externalID string
	tokenTTL   time.Duration

	userFlag = urfave.StringFlag{
		Name:        "user, u",
		Usage:       "name of the user to act on",
		Destination: &userName,
	}
)

func newApp() *urfave.App {
	app := urfave.NewApp()
	app.Name = "gymcal"
	app.HelpName = "gymcal"
	app.Usage = "routine scheduling and workout calendar service"
	app.Version = version
	app.Flags = []urfave.Flag{
		urfave.StringFlag{
			Name:        "config, c",
			Usage:       "optional TOML config file, environment variables take precedence",
			Destination: &configPath,
		},
	}
	app.Commands = []urfave.Command{
		{
			Name:   "serve",
			Usage:  "run the HTTP API",
			Action: serve,
		},
		{
			Name:   "user",
			Usage:  "create a user or link it to a remote workout store id",
			Action: createUser,
			Flags: []urfave.Flag{
				userFlag,
				urfave.StringFlag{
					Name:        "external-id",
					Usage:       "document store id of the user's workouts",
					Destination: &externalID,
				},
			},
		},
		{
			Name:   "token",
			Usage:  "issue a device bearer token",
			Action: issueToken,
			Flags: []urfave.Flag{
				userFlag,
				urfave.DurationFlag{
					Name:        "ttl",
					Usage:       "token lifetime, 0 never expires",
					Destination: &tokenTTL,
				},
			},
		},
		{
			Name:   "secret",
			Usage:  "print a random SECRET_KEY",
			Action: generateSecret,
		},
		{
			Name:      "import",
			Usage:     "import a key-value store dump",
			ArgsUsage: "<file>",
			Action:    importStore,
			Flags:     []urfave.Flag{userFlag},
		},
		{
			Name:   "clear",
			Usage:  "delete the user's calendar, routines and workouts",
			Action: clearData,
			Flags:  []urfave.Flag{userFlag},
		},
		{
			Name:   "export",
			Usage:  "print the user's store as JSON",
			Action: exportStore,
			Flags:  []urfave.Flag{userFlag},
		},
	}
	return app
}

// loadCommandConfig reads configuration and sets up logging for one-shot
// commands, which log to stderr so stdout stays machine readable.
func loadCommandConfig() (config.Config, cli.Options, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return config.Config{}, cli.Options{}, err
	}
	logging.Setup(logging.LoggerSetupParams{
		LogFileName:   cfg.LogFile,
		LogLevel:      cfg.LogLevel,
		LogFormatJSON: cfg.LogJSON,
		UseStderr:     true,
	})
	return cfg, cli.Options{
		DBPath:      cfg.DBPath,
		Location:    resolveLocation(cfg.TimeZone),
		HorizonDays: cfg.HorizonDays,
	}, nil
}

func createUser(_ *urfave.Context) error {
	_, options, err := loadCommandConfig()
	if err != nil {
		return err
	}
	return cli.RunCreateUserCommand(context.Background(), options, userName, externalID, os.Stdout)
}

func issueToken(_ *urfave.Context) error {
	cfg, options, err := loadCommandConfig()
	if err != nil {
		return err
	}
	return cli.RunIssueTokenCommand(context.Background(), options, cfg.SecretKey, userName, tokenTTL, os.Stdout)
}

func generateSecret(_ *urfave.Context) error {
	return cli.RunGenerateSecretCommand(os.Stdout)
}

func importStore(ctx *urfave.Context) error {
	path := ctx.Args().First()
	if path == "" {
		return urfave.NewExitError("import requires a file argument", 2)
	}
	_, options, err := loadCommandConfig()
	if err != nil {
		return err
	}
	return cli.RunImportCommand(context.Background(), options, userName, path, os.Stdout)
}

func exportStore(_ *urfave.Context) error {
	_, options, err := loadCommandConfig()
	if err != nil {
		return err
	}
	return cli.RunExportCommand(context.Background(), options, userName, os.Stdout)
}

func clearData(_ *urfave.Context) error {
	_, options, err := loadCommandConfig()
	if err != nil {
		return err
	}
	return cli.RunClearDataCommand(context.Background(), options, userName, os.Stdout)
}
