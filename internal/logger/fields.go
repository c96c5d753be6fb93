package logger

// Standard field keys for structured logging. Use these consistently so
// provider logs can be aggregated and queried by key.
const (
	// Identity
	KeyProvider = "provider"    // provider row id
	KeyAddress  = "address"     // provider wallet address
	KeyUser     = "user"        // user wallet address

	// Discovery and claims
	KeyCycle      = "cycle"       // discovery cycle sequence number
	KeyFileID     = "file_id"     // StoredFile row id
	KeyFileName   = "file_name"   // original file name
	KeyAllocation = "allocation"  // allocation row id
	KeyArtifact   = "artifact"    // artifact file name
	KeyPath       = "path"        // local artifact path
	KeySize       = "size"        // byte count
	KeyUsedGB     = "used_gb"     // reconciled usage in GB

	// Generic
	KeyError    = "error"
	KeyDuration = "duration"
)
