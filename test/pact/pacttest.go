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
	ProviderName = "bookstore-api"
	ConsumerName = "storefront-portal"

	StateBooksBaseline = "books baseline"
	StateBookExists    = "book with id 101 exists"
	StateBookMissing   = "no book with id 404"
	StateOrderSeeded   = "book with id 101 has stock for an invoice"
)

const (
	ExistingBookID int64 = 101
	MissingBookID  int64 = 404
)

const (
	exampleBookTitle  = "Truyện Kiều"
	exampleBookAuthor = "Nguyễn Du"
	exampleBookPrice  = 120_000
	exampleBookStock  = 25
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

// ExampleBookPayload provides stable test data for pact interactions.
func ExampleBookPayload() map[string]any {
	return map[string]any{
		"id":     ExistingBookID,
		"title":  exampleBookTitle,
		"author": exampleBookAuthor,
		"price":  exampleBookPrice,
		"stock":  exampleBookStock,
	}
}

// ExampleInvoicePayload provides stable test data for invoice interactions.
func ExampleInvoicePayload() map[string]any {
	return map[string]any{
		"customerName":    "Trần Thị Lan",
		"customerPhone":   "0901234567",
		"shippingAddress": "12 Nguyễn Trãi, Hà Nội",
		"paymentMethod":   "cod",
		"lines": []map[string]any{
			{"bookId": ExistingBookID, "quantity": 2},
		},
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
