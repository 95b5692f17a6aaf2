// Package testhelpers provides utilities for testing PocketBase-based applications.
package testhelpers

import (
	"testing"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"github.com/akiyamanx/CULOchanKAIKEIpro/collections"
)

// NewTestApp creates a PocketBase instance backed by a temporary directory.
// It bootstraps the app and runs collections.Setup to create all tables.
// The temporary directory is cleaned up automatically when the test finishes.
func NewTestApp(t *testing.T) *pocketbase.PocketBase {
	t.Helper()

	tmpDir := t.TempDir()
	app := pocketbase.NewWithConfig(pocketbase.Config{
		DefaultDataDir: tmpDir,
	})

	if err := app.Bootstrap(); err != nil {
		t.Fatalf("failed to bootstrap test app: %v", err)
	}

	collections.Setup(app)

	return app
}

// CreateTestDocument inserts a bare document record into the given collection
// ("estimates" or "invoices") and returns it. Line item fields are left empty;
// tests that need populated documents should go through the services package.
func CreateTestDocument(t *testing.T, app *pocketbase.PocketBase, collection, number, status string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId(collection)
	if err != nil {
		t.Fatalf("failed to find %s collection: %v", collection, err)
	}

	record := core.NewRecord(col)
	record.Set("number", number)
	record.Set("status", status)
	record.Set("work_mode", "construction")
	record.Set("tax_rate", 10)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test document: %v", err)
	}

	return record
}

// CreateTestSavedMaterial inserts a materials record as the receipt flow
// would store it and returns it.
func CreateTestSavedMaterial(t *testing.T, app *pocketbase.PocketBase, name string, price, quantity int, projectName string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("materials")
	if err != nil {
		t.Fatalf("failed to find materials collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("name", name)
	record.Set("price", price)
	record.Set("quantity", quantity)
	record.Set("category", "pipes")
	record.Set("project_name", projectName)
	record.Set("store_name", "テスト商店")
	record.Set("date", "2025-06-15")

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test material: %v", err)
	}

	return record
}

// CreateTestProject inserts a project record with the given name and returns it.
func CreateTestProject(t *testing.T, app *pocketbase.PocketBase, name string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("projects")
	if err != nil {
		t.Fatalf("failed to find projects collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("name", name)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test project: %v", err)
	}

	return record
}
