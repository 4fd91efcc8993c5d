package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/terraincognita07/gymcal/internal/api"
	"github.com/terraincognita07/gymcal/internal/db"
	"github.com/terraincognita07/gymcal/internal/models"
	"github.com/terraincognita07/gymcal/internal/security"
	"gorm.io/gorm"
)

// Options are the settings every operator command needs to reach the
// store the server uses.
type Options struct {
	DBPath      string
	Location    *time.Location
	HorizonDays int
}

func openRepositories(options Options) (*db.Repositories, func(), error) {
	database, err := db.OpenSQLite(options.DBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("database init failed: %w", err)
	}
	closeDB := func() {
		if sqlDB, err := database.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	return db.NewRepositories(database), closeDB, nil
}

func findUser(ctx context.Context, repos *db.Repositories, name string) (models.User, error) {
	normalized := strings.TrimSpace(name)
	if normalized == "" {
		return models.User{}, errors.New("user name is required")
	}
	user, err := repos.Users.FindByName(ctx, normalized)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, fmt.Errorf("user %s not found", normalized)
		}
		return models.User{}, fmt.Errorf("load user: %w", err)
	}
	return user, nil
}

// RunCreateUserCommand registers a user, or links an existing one to its
// document store id.
func RunCreateUserCommand(ctx context.Context, options Options, name string, externalID string, out io.Writer) error {
	if strings.TrimSpace(name) == "" {
		return errors.New("user name is required")
	}
	repos, closeDB, err := openRepositories(options)
	if err != nil {
		return err
	}
	defer closeDB()

	user, err := repos.Users.FindOrCreate(ctx, name, externalID)
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	fmt.Fprintf(out, "User %s has id %d\n", user.Name, user.ID)
	return nil
}

// RunIssueTokenCommand prints a bearer token for the user's device. A zero
// ttl issues a token that does not expire.
func RunIssueTokenCommand(ctx context.Context, options Options, secret string, name string, ttl time.Duration, out io.Writer) error {
	if err := security.ValidateSecret(secret); err != nil {
		return err
	}
	repos, closeDB, err := openRepositories(options)
	if err != nil {
		return err
	}
	defer closeDB()

	user, err := findUser(ctx, repos, name)
	if err != nil {
		return err
	}
	token, err := security.IssueDeviceToken([]byte(secret), user.ID, ttl, time.Now())
	if err != nil {
		return err
	}
	fmt.Fprintln(out, token)
	return nil
}

func RunGenerateSecretCommand(out io.Writer) error {
	secret, err := security.GenerateSecret()
	if err != nil {
		return fmt.Errorf("generate secret: %w", err)
	}
	fmt.Fprintln(out, secret)
	return nil
}

// RunImportCommand loads a key-value store dump from path into the user's
// calendar, routines and workouts.
func RunImportCommand(ctx context.Context, options Options, name string, path string, out io.Writer) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read import file: %w", err)
	}
	repos, closeDB, err := openRepositories(options)
	if err != nil {
		return err
	}
	defer closeDB()

	user, err := findUser(ctx, repos, name)
	if err != nil {
		return err
	}
	deps := api.NewDependencies(repos, api.DependencyOptions{Location: options.Location, HorizonDays: options.HorizonDays})
	summary, err := deps.Imports.Import(ctx, user.ID, raw)
	if err != nil {
		return fmt.Errorf("import: %w", err)
	}

	fmt.Fprintf(out, "Imported %d calendar day(s), %d routine(s), %d workout(s)\n", summary.CalendarDays, summary.Routines, summary.Workouts)
	if len(summary.SkippedDates) > 0 {
		fmt.Fprintf(out, "Skipped dates: %s\n", strings.Join(summary.SkippedDates, ", "))
	}
	if len(summary.MalformedSection) > 0 {
		fmt.Fprintf(out, "Malformed sections ignored: %s\n", strings.Join(summary.MalformedSection, ", "))
	}
	return nil
}

// RunClearDataCommand deletes the user's calendar, routines, workouts and
// legend. The user and its tokens stay valid.
func RunClearDataCommand(ctx context.Context, options Options, name string, out io.Writer) error {
	repos, closeDB, err := openRepositories(options)
	if err != nil {
		return err
	}
	defer closeDB()

	user, err := findUser(ctx, repos, name)
	if err != nil {
		return err
	}
	if err := repos.Calendars.DeleteByUser(ctx, user.ID); err != nil {
		return fmt.Errorf("clear calendar: %w", err)
	}
	if err := repos.KeyValues.DeleteByUser(ctx, user.ID); err != nil {
		return fmt.Errorf("clear stored values: %w", err)
	}
	fmt.Fprintf(out, "Cleared data for %s\n", user.Name)
	return nil
}

func RunExportCommand(ctx context.Context, options Options, name string, out io.Writer) error {
	repos, closeDB, err := openRepositories(options)
	if err != nil {
		return err
	}
	defer closeDB()

	user, err := findUser(ctx, repos, name)
	if err != nil {
		return err
	}
	deps := api.NewDependencies(repos, api.DependencyOptions{Location: options.Location, HorizonDays: options.HorizonDays})
	document, err := deps.Exports.Export(ctx, user.ID)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}

	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(document)
}
