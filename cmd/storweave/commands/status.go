package commands

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/storweave/storweave/internal/cli/output"
	"github.com/storweave/storweave/pkg/api"
	"github.com/spf13/cobra"
)

var (
	statusOutput  string
	statusAPIHost string
	statusAPIPort int
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show daemon status",
	Long: `Display the current status of the storweave daemon.

This command queries the daemon's operator API and displays the provider
identity, health, allocation counts, and usage figures.

Examples:
  # Check status (uses default settings)
  storweave status

  # Check status with custom API port
  storweave status --api-port 9800

  # Output as JSON
  storweave status --output json`,
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().StringVar(&statusAPIHost, "api-host", "127.0.0.1", "API server host")
	statusCmd.Flags().IntVar(&statusAPIPort, "api-port", 9735, "API server port")
	statusCmd.Flags().StringVarP(&statusOutput, "output", "o", "table", "Output format (table|json|yaml)")
}

// statusEnvelope mirrors the API response envelope with a typed payload.
type statusEnvelope struct {
	Status string             `json:"status"`
	Data   api.StatusResponse `json:"data"`
	Error  string             `json:"error,omitempty"`
}

func runStatus(cmd *cobra.Command, args []string) error {
	format, err := output.ParseFormat(statusOutput)
	if err != nil {
		return err
	}

	statusURL := fmt.Sprintf("http://%s:%d/api/v1/status", statusAPIHost, statusAPIPort)
	client := &http.Client{Timeout: 5 * time.Second}

	resp, err := client.Get(statusURL)
	if err != nil {
		return fmt.Errorf("daemon is not running or API unreachable at %s:%d: %w", statusAPIHost, statusAPIPort, err)
	}
	defer func() { _ = resp.Body.Close() }()

	var envelope statusEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("invalid status response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		if envelope.Error != "" {
			return fmt.Errorf("status request failed: %s", envelope.Error)
		}
		return fmt.Errorf("status request failed with HTTP %d", resp.StatusCode)
	}

	switch format {
	case output.FormatJSON:
		return output.PrintJSON(os.Stdout, envelope.Data)
	case output.FormatYAML:
		return output.PrintYAML(os.Stdout, envelope.Data)
	default:
		return printStatusTable(envelope.Data)
	}
}

func printStatusTable(status api.StatusResponse) error {
	health := status.Provider.HealthStatus
	if status.Provider.HeartbeatAge != "" {
		health = fmt.Sprintf("%s (heartbeat %s ago)", health, status.Provider.HeartbeatAge)
	}

	fmt.Println()
	return output.SimpleTable(os.Stdout, [][2]string{
		{"Provider", status.Provider.DisplayName},
		{"Wallet", status.Provider.WalletAddress},
		{"Active", strconv.FormatBool(status.Provider.Active)},
		{"Health", health},
		{"Allocations", strconv.Itoa(status.Allocations)},
		{"Allocated GB", strconv.FormatFloat(status.TotalAllocatedGB, 'f', 2, 64)},
		{"Used GB", strconv.FormatFloat(status.TotalUsedGB, 'f', 2, 64)},
		{"Artifacts", strconv.FormatInt(status.Artifacts, 10)},
		{"Vault", status.VaultDir},
	})
}
