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
	ProviderName = "clothes-shop-api"
	ConsumerName = "shop-admin"

	StateCatalogBaseline = "catalog baseline"
	StateProductInStock  = "product prod-101 has 5 red M shirts"
	StateProductMissing  = "no product with id prod-404"
)

const (
	ExistingProductID = "prod-101"
	MissingProductID  = "prod-404"
	CategoryID        = "cat-shirts"

	ProductTitle = "Linen shirt"
	ProductImage = "uploads/linen-shirt.png"
	StockSize    = "M"
	StockColor   = "red"
	StockOnHand  = 5
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

// PactFile returns the canonical pact file path for the admin consumer.
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

// ExampleInvoicePayload is a one-line invoice against the seeded product.
func ExampleInvoicePayload(quantity int) map[string]any {
	return map[string]any{
		"customerName": "Pact Customer",
		"products": []map[string]any{{
			"productId": ExistingProductID,
			"size":      StockSize,
			"color":     StockColor,
			"quantity":  quantity,
			"price":     25,
		}},
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
