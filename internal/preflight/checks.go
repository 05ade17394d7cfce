package preflight

import (
	"context"
	"fmt"
	"os"
	"strings"

	"golang.org/x/sys/unix"

	"foodreel/internal/catalog"
	"foodreel/internal/ledger"
	"foodreel/internal/overrides"
)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckDocuments parses both documents and reports referential problems
// between them. Missing documents pass; a first run creates them.
func CheckDocuments(itemsPath, restaurantsPath string) []Result {
	store := catalog.NewStore(itemsPath, restaurantsPath)

	items, err := store.LoadItems()
	if err != nil {
		return []Result{{Name: "Items document", Detail: err.Error()}}
	}
	itemsResult := Result{Name: "Items document", Passed: true, Detail: describeItems(items)}

	registry, err := store.LoadRegistry()
	if err != nil {
		return []Result{itemsResult, {Name: "Registry document", Detail: err.Error()}}
	}
	registryResult := Result{Name: "Registry document", Passed: true, Detail: fmt.Sprintf("%d restaurants", registry.Len())}

	consistency := Result{Name: "Consistency", Passed: true, Detail: "every item key is registered"}
	if problems := catalog.Validate(items, registry); len(problems) > 0 {
		consistency.Passed = false
		consistency.Detail = fmt.Sprintf("%d problems; first: %s", len(problems), problems[0])
	}
	return []Result{itemsResult, registryResult, consistency}
}

func describeItems(items []catalog.Item) string {
	resolved := 0
	for _, item := range items {
		if item.Resolved() {
			resolved++
		}
	}
	return fmt.Sprintf("%d items, %d classified", len(items), resolved)
}

// CheckOverrides parses the override table.
func CheckOverrides(path string) Result {
	const name = "Overrides"
	if strings.TrimSpace(path) == "" {
		return Result{Name: name, Passed: true, Detail: "not configured"}
	}
	table := overrides.NewTable(path, nil)
	if err := table.Load(); err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%d entries", table.Len())}
}

// CheckLedger opens the run ledger, which also verifies its schema version.
func CheckLedger(ctx context.Context, path string) Result {
	const name = "Ledger"
	store, err := ledger.Open(path)
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	defer store.Close()
	pending, err := store.Unresolved(ctx)
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%d items need an override", len(pending))}
}

// CheckCredentials reports whether a provider has an API key. A missing key
// is a warning: runs fall back to extraction only.
func CheckCredentials(name, apiKey, envVar string) Result {
	if strings.TrimSpace(apiKey) == "" {
		return Result{Name: name, Passed: true, Warning: true, Detail: fmt.Sprintf("no api key (set %s); lookups skipped", envVar)}
	}
	return Result{Name: name, Passed: true, Detail: "api key set"}
}
