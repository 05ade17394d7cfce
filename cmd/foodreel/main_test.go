package main

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"foodreel/internal/catalog"
	"foodreel/internal/ledger"
	"foodreel/internal/services"
	"foodreel/internal/testsupport"
)

func sampleItems() []catalog.Item {
	day := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	return []catalog.Item{
		{ID: "1", Caption: "Tatiana in Brighton Beach — the best restaurant", CreatedAt: day, Likes: 900},
		{ID: "2", Caption: "Roberta's has the best margherita", CreatedAt: day.AddDate(0, 0, 3), Likes: 1200},
		{ID: "3", Caption: "so good omg #foodie", CreatedAt: day.AddDate(0, 0, 1), Likes: 5},
	}
}

func TestRunThenInspect(t *testing.T) {
	env := setupCLITestEnv(t)
	env.seed(t, sampleItems())

	out, _, err := runCLI(t, env.configPath, "run")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	requireContains(t, out, "Extracted")
	requireContains(t, out, "written")

	out, _, err = runCLI(t, env.configPath, "unresolved")
	if err != nil {
		t.Fatalf("unresolved: %v", err)
	}
	requireContains(t, out, "so good omg")

	out, _, err = runCLI(t, env.configPath, "history", "--json")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	var runs []ledger.Run
	if err := json.Unmarshal([]byte(out), &runs); err != nil {
		t.Fatalf("decode history: %v\n%s", err, out)
	}
	if len(runs) != 1 || runs[0].Status != ledger.StatusCompleted || runs[0].Unresolved != 1 {
		t.Fatalf("unexpected history %+v", runs)
	}

	out, _, err = runCLI(t, env.configPath, "show", "tatiana")
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	requireContains(t, out, "Where is Tatiana located?")
	requireContains(t, out, "/tatiana/")

	out, _, err = runCLI(t, env.configPath, "logs", "--run", runs[0].ID, "--level", "info")
	if err != nil {
		t.Fatalf("logs: %v", err)
	}
	requireContains(t, out, "pipeline run finished")
}

func TestRunDryRunJSON(t *testing.T) {
	env := setupCLITestEnv(t)
	env.seed(t, sampleItems())
	before := testsupport.ReadFile(t, env.cfg.Paths.ItemsFile)

	out, _, err := runCLI(t, env.configPath, "run", "--dry-run", "--json")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	var result struct {
		Extracted  int  `json:"extracted"`
		Unresolved int  `json:"unresolved"`
		DryRun     bool `json:"dry_run"`
		Saved      bool `json:"saved"`
	}
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if !result.DryRun || result.Saved || result.Extracted != 2 || result.Unresolved != 1 {
		t.Fatalf("unexpected result %+v", result)
	}
	if after := testsupport.ReadFile(t, env.cfg.Paths.ItemsFile); after != before {
		t.Fatal("dry run rewrote items")
	}
}

func TestRunFailsOnMalformedItems(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.WriteFile(t, env.cfg.Paths.ItemsFile, "{not json")

	_, _, err := runCLI(t, env.configPath, "run")
	if !errors.Is(err, services.ErrMalformedInput) {
		t.Fatalf("expected malformed input error, got %v", err)
	}
	if code := exitCode(err); code != 2 {
		t.Fatalf("expected exit code 2 for malformed input, got %d", code)
	}
	if code := exitCode(errors.New("write failed")); code != 1 {
		t.Fatalf("expected exit code 1, got %d", code)
	}
}

func TestIngestCommand(t *testing.T) {
	env := setupCLITestEnv(t)
	source := filepath.Join(env.baseDir, "scrape.json")
	testsupport.WriteJSON(t, source, sampleItems())

	out, _, err := runCLI(t, env.configPath, "ingest", source)
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	requireContains(t, out, "Added 3")

	out, _, err = runCLI(t, env.configPath, "ingest", source, "--json")
	if err != nil {
		t.Fatalf("second ingest: %v", err)
	}
	requireContains(t, out, `"unchanged": 3`)
}

func TestSlugCommand(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "name", args: []string{"slug", "Roberta's", "Pizza"}, want: "robertas-pizza\n"},
		{name: "accents dropped", args: []string{"slug", "Café Olé"}, want: "caf-ol\n"},
		{name: "item page", args: []string{"slug", "--item", "42", "Best tacos in LA!"}, want: "best-tacos-in-la-42\n"},
		{name: "item page without usable caption", args: []string{"slug", "--item", "123", "!!!"}, want: "-123\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := runCLI(t, "", tt.args...)
			if err != nil {
				t.Fatalf("slug: %v", err)
			}
			if out != tt.want {
				t.Fatalf("slug = %q, want %q", out, tt.want)
			}
		})
	}

	if _, _, err := runCLI(t, "", "slug", "!!!"); err == nil {
		t.Fatal("expected error for text without slug characters")
	}
}
