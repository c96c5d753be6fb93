package telemetry

import (
	"go.opentelemetry.io/otel/attribute"
)

// Span names for daemon operations.
const (
	SpanDiscoveryCycle = "daemon.discovery_cycle"
	SpanClaimFile      = "daemon.claim_file"
	SpanUsageReconcile = "daemon.usage_reconcile"
	SpanHeartbeat      = "daemon.heartbeat"
)

// Attribute keys for daemon spans.
const (
	attrProviderID   = attribute.Key("provider.id")
	attrUserAddress  = attribute.Key("user.address")
	attrFileID       = attribute.Key("file.id")
	attrFileSize     = attribute.Key("file.size_bytes")
	attrAllocationID = attribute.Key("allocation.id")
	attrArtifactName = attribute.Key("artifact.name")
	attrUsedGB       = attribute.Key("usage.used_gb")
	attrCycle        = attribute.Key("cycle.sequence")
)

// ProviderID returns an attribute for the provider row id.
func ProviderID(id string) attribute.KeyValue {
	return attrProviderID.String(id)
}

// UserAddress returns an attribute for a user wallet address.
func UserAddress(addr string) attribute.KeyValue {
	return attrUserAddress.String(addr)
}

// FileID returns an attribute for a stored file id.
func FileID(id string) attribute.KeyValue {
	return attrFileID.String(id)
}

// FileSize returns an attribute for a declared file size in bytes.
func FileSize(size int64) attribute.KeyValue {
	return attrFileSize.Int64(size)
}

// AllocationID returns an attribute for an allocation id.
func AllocationID(id string) attribute.KeyValue {
	return attrAllocationID.String(id)
}

// ArtifactName returns an attribute for an artifact file name.
func ArtifactName(name string) attribute.KeyValue {
	return attrArtifactName.String(name)
}

// UsedGB returns an attribute for reconciled usage in GB.
func UsedGB(gb float64) attribute.KeyValue {
	return attrUsedGB.Float64(gb)
}

// Cycle returns an attribute for a discovery cycle sequence number.
func Cycle(n uint64) attribute.KeyValue {
	return attrCycle.Int64(int64(n))
}
