package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/terraincognita07/gymcal/internal/security"
)

func newTestOptions(t *testing.T) Options {
	t.Helper()
	return Options{
		DBPath:      filepath.Join(t.TempDir(), "gymcal-cli.db"),
		Location:    time.UTC,
		HorizonDays: 30,
	}
}

func TestRunGenerateSecretCommandPrintsValidSecret(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	if err := RunGenerateSecretCommand(&out); err != nil {
		t.Fatalf("RunGenerateSecretCommand returned error: %v", err)
	}
	secret := strings.TrimSpace(out.String())
	if err := security.ValidateSecret(secret); err != nil {
		t.Fatalf("generated secret %q rejected: %v", secret, err)
	}
}

func TestRunIssueTokenCommandRequiresKnownUser(t *testing.T) {
	t.Parallel()

	options := newTestOptions(t)
	secret := strings.Repeat("s", 40)
	var out bytes.Buffer
	err := RunIssueTokenCommand(context.Background(), options, secret, "nobody", 0, &out)
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("expected user not found error, got %v", err)
	}
}

func TestRunIssueTokenCommandRejectsWeakSecret(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	if err := RunIssueTokenCommand(context.Background(), newTestOptions(t), "short", "athlete", 0, &out); err == nil {
		t.Fatal("expected weak secret to be rejected")
	}
}

func TestCreateUserIssueTokenImportExport(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	options := newTestOptions(t)
	secret := strings.Repeat("k", 40)

	var out bytes.Buffer
	if err := RunCreateUserCommand(ctx, options, "athlete", "", &out); err != nil {
		t.Fatalf("RunCreateUserCommand returned error: %v", err)
	}
	if !strings.Contains(out.String(), "athlete") {
		t.Fatalf("unexpected create user output %q", out.String())
	}

	out.Reset()
	if err := RunIssueTokenCommand(ctx, options, secret, "athlete", time.Hour, &out); err != nil {
		t.Fatalf("RunIssueTokenCommand returned error: %v", err)
	}
	userID, err := security.ParseDeviceToken([]byte(secret), strings.TrimSpace(out.String()))
	if err != nil || userID == 0 {
		t.Fatalf("issued token did not parse: id=%d err=%v", userID, err)
	}

	importPath := filepath.Join(t.TempDir(), "store.json")
	document := `{"allCalendarWorkouts":{"2024-02-01":[{"name":"Run","status":"missed"}]},"workouts":[{"id":"run","name":"Run"}]}`
	if err := os.WriteFile(importPath, []byte(document), 0o600); err != nil {
		t.Fatalf("write import file: %v", err)
	}

	out.Reset()
	if err := RunImportCommand(ctx, options, "athlete", importPath, &out); err != nil {
		t.Fatalf("RunImportCommand returned error: %v", err)
	}
	if !strings.Contains(out.String(), "Imported 1 calendar day(s), 0 routine(s), 1 workout(s)") {
		t.Fatalf("unexpected import output %q", out.String())
	}

	out.Reset()
	if err := RunExportCommand(ctx, options, "athlete", &out); err != nil {
		t.Fatalf("RunExportCommand returned error: %v", err)
	}
	exported := map[string]json.RawMessage{}
	if err := json.Unmarshal(out.Bytes(), &exported); err != nil {
		t.Fatalf("decode export: %v", err)
	}
	if !strings.Contains(string(exported["allCalendarWorkouts"]), `"2024-02-01"`) {
		t.Fatalf("expected imported day in export, got %s", exported["allCalendarWorkouts"])
	}
}

func TestRunClearDataCommandEmptiesStore(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	options := newTestOptions(t)
	var out bytes.Buffer
	if err := RunCreateUserCommand(ctx, options, "athlete", "", &out); err != nil {
		t.Fatalf("RunCreateUserCommand returned error: %v", err)
	}

	importPath := filepath.Join(t.TempDir(), "store.json")
	document := `{"allCalendarWorkouts":{"2024-02-01":[{"name":"Run"}]},"workouts":[{"id":"run","name":"Run"}]}`
	if err := os.WriteFile(importPath, []byte(document), 0o600); err != nil {
		t.Fatalf("write import file: %v", err)
	}
	if err := RunImportCommand(ctx, options, "athlete", importPath, &out); err != nil {
		t.Fatalf("RunImportCommand returned error: %v", err)
	}

	out.Reset()
	if err := RunClearDataCommand(ctx, options, "athlete", &out); err != nil {
		t.Fatalf("RunClearDataCommand returned error: %v", err)
	}
	if !strings.Contains(out.String(), "Cleared data for athlete") {
		t.Fatalf("unexpected clear output %q", out.String())
	}

	out.Reset()
	if err := RunExportCommand(ctx, options, "athlete", &out); err != nil {
		t.Fatalf("RunExportCommand returned error: %v", err)
	}
	var exported struct {
		AllCalendarWorkouts map[string]json.RawMessage `json:"allCalendarWorkouts"`
		Workouts            []json.RawMessage          `json:"workouts"`
	}
	if err := json.Unmarshal(out.Bytes(), &exported); err != nil {
		t.Fatalf("decode export: %v", err)
	}
	if len(exported.AllCalendarWorkouts) != 0 || len(exported.Workouts) != 0 {
		t.Fatalf("expected empty export after clear, got %s", out.String())
	}
}
