package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"time-tracking-bot/internal/model"
	"time-tracking-bot/internal/task"
	"time-tracking-bot/pkg/datemath"
)

func writeTestConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := "database:\n  path: " + filepath.Join(dir, "tracker.db") + "\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestMigrateAndSummary(t *testing.T) {
	cfgPath := writeTestConfig(t)

	out, err := run(t, "", "--config", cfgPath, "migrate", "up")
	if err != nil {
		t.Fatalf("migrate up: %v", err)
	}
	if !strings.Contains(out, "Schema is up to date") {
		t.Errorf("migrate up output = %q", out)
	}

	out, err = run(t, "", "--config", cfgPath, "summary", "--user", "42", "--date", "2024-03-01")
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if !strings.Contains(out, "Summary for user 42 on 2024-03-01") || !strings.Contains(out, "No tasks.") {
		t.Errorf("summary output = %q", out)
	}

	out, err = run(t, "", "--config", cfgPath, "sweep")
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if !strings.Contains(out, "Closed 0 tasks") {
		t.Errorf("sweep output = %q", out)
	}
}

func TestMigrateDownNeedsConfirmation(t *testing.T) {
	cfgPath := writeTestConfig(t)

	if _, err := run(t, "", "--config", cfgPath, "migrate", "down"); err == nil {
		t.Fatal("expected error without --yes")
	}
	if _, err := run(t, "", "--config", cfgPath, "migrate", "down", "--yes"); err != nil {
		t.Fatalf("migrate down --yes: %v", err)
	}
}

func TestSummaryValidation(t *testing.T) {
	cfgPath := writeTestConfig(t)

	if _, err := run(t, "", "--config", cfgPath, "summary"); err == nil {
		t.Error("expected error without --user")
	}
	if _, err := run(t, "", "--config", cfgPath, "summary", "--user", "1", "--date", "yesterday"); err == nil {
		t.Error("expected error for bad --date")
	}
}

func TestSweepNotifyNeedsToken(t *testing.T) {
	cfgPath := writeTestConfig(t)

	if _, err := run(t, "", "--config", cfgPath, "sweep", "--notify"); err == nil {
		t.Fatal("expected error for --notify without bot token")
	}
}

func TestParseSummaryDate(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Time
		wantErr bool
	}{
		{in: "", want: time.Time{}},
		{in: "2024-03-01", want: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		{in: "01.03.2024", want: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		{in: "31.02.2024", wantErr: true},
		{in: "march", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseSummaryDate(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("parseSummaryDate(%q) expected error", tt.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseSummaryDate(%q) error = %v", tt.in, err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("parseSummaryDate(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestPrintSummary(t *testing.T) {
	report := task.SummaryReport{
		User: model.User{ID: 7, Timezone: "Europe/Moscow"},
		Date: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Entries: []task.SummaryEntry{
			{Task: model.Task{Label: "PROJ-1", Comment: "review"}, Start: "09:00", End: "10:30", Duration: 90 * time.Minute},
			{Task: model.Task{Label: model.RestLabel, IsRest: true}, Start: "10:30", End: task.OngoingMarker, Ongoing: true, Duration: 15 * time.Minute},
		},
		Groups:    []task.LabelTotal{{Label: "PROJ-1", IsTicket: true, Duration: 90 * time.Minute}},
		TotalWork: 90 * time.Minute,
		TotalRest: 15 * time.Minute,
	}

	var buf bytes.Buffer
	if err := printSummary(&buf, report); err != nil {
		t.Fatalf("printSummary() error = %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"Summary for user 7 on 2024-03-01 (Europe/Moscow)",
		"PROJ-1 - review",
		task.OngoingMarker,
		"Work: " + datemath.FormatDuration(90*time.Minute),
		"Rest: " + datemath.FormatDuration(15*time.Minute),
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestCalendarAuth(t *testing.T) {
	cfgPath := writeTestConfig(t)
	creds := filepath.Join(t.TempDir(), "credentials.json")
	body := `{"installed":{"client_id":"cid","client_secret":"secret","redirect_uris":["http://localhost"],"auth_uri":"https://accounts.google.com/o/oauth2/auth","token_uri":"https://oauth2.googleapis.com/token"}}`
	if err := os.WriteFile(creds, []byte(body), 0o600); err != nil {
		t.Fatalf("write credentials: %v", err)
	}

	t.Run("missing credentials", func(t *testing.T) {
		if _, err := run(t, "", "--config", cfgPath, "calendar-auth"); err == nil {
			t.Fatal("expected error without credentials")
		}
	})

	t.Run("prints consent URL and needs a code", func(t *testing.T) {
		out, err := run(t, "", "--config", cfgPath, "calendar-auth", "--credentials", creds, "--token", filepath.Join(t.TempDir(), "token.json"))
		if err == nil {
			t.Fatal("expected error for empty authorization code")
		}
		if !strings.Contains(out, "accounts.google.com") || !strings.Contains(out, "client_id=cid") {
			t.Errorf("output missing consent URL: %q", out)
		}
	})
}
