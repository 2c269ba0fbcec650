//go:build pact
// +build pact

package pacttest

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

const (
	ProviderName = "boutique-orders-api"
	ConsumerName = "storefront-web"

	StateOrdersBaseline = "orders baseline"
	StateOrderExists    = "order ord-pact-1 exists"
	StateOrderMissing   = "no order ord-missing"
)

const (
	ExistingOrderID = "ord-pact-1"
	MissingOrderID  = "ord-missing"
)

// PactDir returns the workspace-level directory for generated pact files.
func PactDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "pacts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact dir: %v", err)
	}
	return dir
}

// PactFile returns the canonical pact file path for the storefront consumer.
func PactFile(t testing.TB) string {
	t.Helper()
	return filepath.Join(PactDir(t), ConsumerName+"-"+ProviderName+".json")
}

// LogDir returns the log output directory for pact-go.
func LogDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "bin", "pact-logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact log dir: %v", err)
	}
	return dir
}

// ExampleOrderForm is the storefront form used by the place order interaction.
func ExampleOrderForm() map[string]any {
	return map[string]any{
		"name":    "Pact Customer",
		"phone":   "0551234567",
		"wilaya":  "16 - Alger",
		"address": "1 rue du Contrat",
		"size":    "M",
		"color":   "Black",
		"qty":     2,
	}
}

// projectRoot walks up from this file to the workspace root.
func projectRoot(t testing.TB) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine caller for pact paths")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
}
