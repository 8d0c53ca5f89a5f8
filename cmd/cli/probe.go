package cli

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
)

var errNotReady = errors.New("service is not ready")

// newProbeCmd checks /health and /ready once each. It fails when the service is not ready.
func newProbeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "probe",
		Short: "Check liveness and readiness",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := clientFromFlags(cmd)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			status, body, err := client.get(cmd.Context(), "/health")
			if err != nil {
				return fmt.Errorf("health: %w", err)
			}
			fmt.Fprintf(out, "health: %d %s\n", status, bytes.TrimSpace(body))

			status, body, err = client.get(cmd.Context(), "/ready")
			if err != nil {
				return fmt.Errorf("ready: %w", err)
			}
			fmt.Fprintf(out, "ready: %d %s\n", status, bytes.TrimSpace(body))

			if status != http.StatusOK {
				return errNotReady
			}
			return nil
		},
	}
}
