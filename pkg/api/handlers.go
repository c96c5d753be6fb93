package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/storweave/storweave/pkg/market/models"
	"github.com/storweave/storweave/pkg/market/store"
)

// handlers serves the read-only operator endpoints.
type handlers struct {
	store      store.Store
	providerID string
	vaultDir   string
	version    string
}

// Liveness handles GET /health - simple liveness probe.
//
// Returns 200 OK as long as the HTTP server is responsive.
func (h *handlers) Liveness(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, HealthyResponse(map[string]string{
		"service": "storweave",
		"version": h.version,
	}))
}

// Readiness handles GET /health/ready - readiness probe.
//
// Returns 200 OK when the marketplace backend is reachable, 503 otherwise.
func (h *handlers) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		JSON(w, http.StatusServiceUnavailable, UnhealthyResponse("backend unreachable: "+err.Error()))
		return
	}

	JSON(w, http.StatusOK, HealthyResponse(nil))
}

// StatusResponse is the payload of GET /api/v1/status.
type StatusResponse struct {
	Provider         ProviderStatus `json:"provider"`
	Allocations      int            `json:"allocations"`
	TotalAllocatedGB float64        `json:"total_allocated_gb"`
	TotalUsedGB      float64        `json:"total_used_gb"`
	Artifacts        int64          `json:"artifacts"`
	VaultDir         string         `json:"vault_dir"`
}

// ProviderStatus is the provider block of the status payload.
type ProviderStatus struct {
	ID            string     `json:"id"`
	WalletAddress string     `json:"wallet_address"`
	DisplayName   string     `json:"display_name"`
	Active        bool       `json:"active"`
	HealthStatus  string     `json:"health_status"`
	LastHeartbeat *time.Time `json:"last_heartbeat,omitempty"`
	HeartbeatAge  string     `json:"heartbeat_age,omitempty"`
}

// Status handles GET /api/v1/status - the daemon's operational snapshot.
func (h *handlers) Status(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	now := time.Now().UTC()

	provider, err := h.store.GetProvider(ctx, h.providerID)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, models.ErrProviderNotFound) {
			status = http.StatusNotFound
		}
		JSON(w, status, ErrorResponse(err.Error()))
		return
	}

	allocations, err := h.store.ListActiveAllocations(ctx, h.providerID, now)
	if err != nil {
		JSON(w, http.StatusInternalServerError, ErrorResponse(err.Error()))
		return
	}

	artifacts, err := h.store.CountArtifacts(ctx, h.providerID)
	if err != nil {
		JSON(w, http.StatusInternalServerError, ErrorResponse(err.Error()))
		return
	}

	resp := StatusResponse{
		Provider: ProviderStatus{
			ID:            provider.ID,
			WalletAddress: provider.WalletAddress,
			DisplayName:   provider.DisplayName,
			Active:        provider.Active,
			HealthStatus:  string(provider.HealthStatus),
			LastHeartbeat: provider.LastHeartbeatAt,
		},
		Allocations: len(allocations),
		Artifacts:   artifacts,
		VaultDir:    h.vaultDir,
	}
	if provider.LastHeartbeatAt != nil {
		resp.Provider.HeartbeatAge = provider.HeartbeatAge(now).Truncate(time.Millisecond).String()
	}
	for _, alloc := range allocations {
		resp.TotalAllocatedGB += alloc.AllocatedGB
		resp.TotalUsedGB += alloc.UsedGB
	}

	JSON(w, http.StatusOK, OKResponse(resp))
}
