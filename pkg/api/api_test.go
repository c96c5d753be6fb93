//go:build integration

package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/storweave/storweave/pkg/market/models"
	"github.com/storweave/storweave/pkg/market/store"
)

func newTestRouter(t *testing.T) (http.Handler, *store.GORMStore, string) {
	t.Helper()

	s, err := store.New(&store.Config{
		Type:   store.DatabaseTypeSQLite,
		SQLite: store.SQLiteConfig{Path: ":memory:"},
	})
	if err != nil {
		t.Fatalf("failed to create test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	provider, _, err := s.GetOrCreateProvider(context.Background(), &models.Provider{
		WalletAddress: "0xabc0000000000000000000000000000000000001",
		DisplayName:   "Provider 0xabc0",
		AvailableGB:   100,
	})
	if err != nil {
		t.Fatalf("failed to create provider: %v", err)
	}

	return NewRouter(s, provider.ID, "/var/lib/storweave/artifacts", "test"), s, provider.ID
}

func TestLiveness(t *testing.T) {
	router, _, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp Response
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if resp.Status != "healthy" {
		t.Errorf("expected healthy, got %s", resp.Status)
	}
}

func TestReadiness(t *testing.T) {
	router, _, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestStatus(t *testing.T) {
	router, s, providerID := newTestRouter(t)
	ctx := context.Background()

	now := time.Now().UTC()
	if err := s.SetProviderStatus(ctx, providerID, true, models.HealthOnline, now); err != nil {
		t.Fatalf("failed to activate provider: %v", err)
	}
	if err := s.DB().Create(&models.Allocation{
		ID:          "alloc-1",
		ProviderID:  providerID,
		UserAddress: "0xuser1",
		AllocatedGB: 10,
		UsedGB:      2.5,
		ExpiresAt:   now.Add(24 * time.Hour),
	}).Error; err != nil {
		t.Fatalf("failed to seed allocation: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/status", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Status string         `json:"status"`
		Data   StatusResponse `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}

	if resp.Data.Provider.ID != providerID {
		t.Errorf("expected provider %s, got %s", providerID, resp.Data.Provider.ID)
	}
	if !resp.Data.Provider.Active {
		t.Error("expected active provider")
	}
	if resp.Data.Allocations != 1 {
		t.Errorf("expected 1 allocation, got %d", resp.Data.Allocations)
	}
	if resp.Data.TotalAllocatedGB != 10 {
		t.Errorf("expected 10 allocated GB, got %f", resp.Data.TotalAllocatedGB)
	}
	if resp.Data.TotalUsedGB != 2.5 {
		t.Errorf("expected 2.5 used GB, got %f", resp.Data.TotalUsedGB)
	}
}

func TestStatusUnknownProvider(t *testing.T) {
	_, s, _ := newTestRouter(t)

	router := NewRouter(s, "missing-provider", "", "test")
	req := httptest.NewRequest(http.MethodGet, "/api/v1/status", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
