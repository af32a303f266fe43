package storage

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestMemoryStore_PutAndSignedURL(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	key, err := store.Put(ctx, "services/1/plan.pdf", strings.NewReader("content"), 7, "application/pdf")
	if err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if key != "services/1/plan.pdf" {
		t.Errorf("key = %q, expected %q", key, "services/1/plan.pdf")
	}

	url, err := store.SignedURL(ctx, key, time.Minute)
	if err != nil {
		t.Fatalf("SignedURL() error = %v", err)
	}
	if url != "memory://services/1/plan.pdf" {
		t.Errorf("url = %q", url)
	}
}

func TestMemoryStore_SignedURL_Missing(t *testing.T) {
	store := NewMemoryStore()
	if _, err := store.SignedURL(context.Background(), "nope", time.Minute); err == nil {
		t.Error("SignedURL() should fail for a missing key")
	}
}

func TestMemoryStore_Delete(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	store.Put(ctx, "a", strings.NewReader("x"), 1, "text/plain")
	if err := store.Delete(ctx, "a"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if store.Len() != 0 {
		t.Errorf("Len() = %d after delete, expected 0", store.Len())
	}

	// Deleting a missing key is a no-op.
	if err := store.Delete(ctx, "a"); err != nil {
		t.Errorf("Delete() of missing key returned error: %v", err)
	}
}

func TestObjectKey(t *testing.T) {
	k1 := ObjectKey("services/3", "report.pdf")
	k2 := ObjectKey("services/3", "report.pdf")

	if !strings.HasPrefix(k1, "services/3/") {
		t.Errorf("key %q should carry the prefix", k1)
	}
	if !strings.HasSuffix(k1, ".pdf") {
		t.Errorf("key %q should keep the extension", k1)
	}
	if k1 == k2 {
		t.Error("two keys for the same filename should not collide")
	}
}
