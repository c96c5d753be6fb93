//go:build integration

package wallet

import (
	"context"
	"testing"
	"time"

	"github.com/storweave/storweave/pkg/market/store"
)

func createTestStore(t *testing.T) *store.GORMStore {
	t.Helper()
	s, err := store.New(&store.Config{
		Type: store.DatabaseTypeSQLite,
		SQLite: store.SQLiteConfig{
			Path: ":memory:",
		},
	})
	if err != nil {
		t.Fatalf("failed to create test store: %v", err)
	}
	return s
}

func TestResolve(t *testing.T) {
	s := createTestStore(t)
	defer s.Close()
	ctx := context.Background()

	w, err := New("0x0000000000000000000000000000000000000000000000000000000000000001")
	if err != nil {
		t.Fatalf("failed to build wallet: %v", err)
	}

	t.Run("first run registers and activates", func(t *testing.T) {
		provider, err := Resolve(ctx, s, w, Registration{
			AvailableGB: 250,
			PricePerGB:  0.1,
		}, time.Now().UTC())
		if err != nil {
			t.Fatalf("resolve failed: %v", err)
		}
		if provider.WalletAddress != w.Address() {
			t.Errorf("expected address %s, got %s", w.Address(), provider.WalletAddress)
		}
		if provider.DisplayName != "Provider 0x7e5f" {
			t.Errorf("unexpected default display name: %q", provider.DisplayName)
		}
		if !provider.Active {
			t.Error("expected provider to be active after resolve")
		}
	})

	t.Run("second run reuses the row and keeps its name", func(t *testing.T) {
		provider, err := Resolve(ctx, s, w, Registration{
			AvailableGB: 999,
		}, time.Now().UTC())
		if err != nil {
			t.Fatalf("resolve failed: %v", err)
		}
		if provider.AvailableGB != 250 {
			t.Errorf("existing capacity was overwritten: %f", provider.AvailableGB)
		}
	})

	t.Run("explicit display name wins", func(t *testing.T) {
		other, err := New("0x0000000000000000000000000000000000000000000000000000000000000002")
		if err != nil {
			t.Fatalf("failed to build wallet: %v", err)
		}
		provider, err := Resolve(ctx, s, other, Registration{
			DisplayName: "rack-7 cold storage",
		}, time.Now().UTC())
		if err != nil {
			t.Fatalf("resolve failed: %v", err)
		}
		if provider.DisplayName != "rack-7 cold storage" {
			t.Errorf("unexpected display name: %q", provider.DisplayName)
		}
	})
}
