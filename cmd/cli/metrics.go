package cli

import (
	"bytes"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/prometheus/common/expfmt"
	"github.com/prometheus/common/model"
	"github.com/spf13/cobra"
)

func newMetricsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "metrics",
		Short: "Print metric families whose name matches a prefix",
		RunE: func(cmd *cobra.Command, args []string) error {
			prefix, _ := cmd.Flags().GetString("prefix")

			client, err := clientFromFlags(cmd)
			if err != nil {
				return err
			}
			status, body, err := client.get(cmd.Context(), "/metrics")
			if err != nil {
				return fmt.Errorf("metrics: %w", err)
			}
			if status != http.StatusOK {
				return fmt.Errorf("metrics: unexpected status %d", status)
			}

			parser := expfmt.NewTextParser(model.UTF8Validation)
			families, err := parser.TextToMetricFamilies(bytes.NewReader(body))
			if err != nil {
				return fmt.Errorf("metrics: parse exposition: %w", err)
			}

			names := make([]string, 0, len(families))
			for name := range families {
				if strings.HasPrefix(name, prefix) {
					names = append(names, name)
				}
			}
			sort.Strings(names)

			out := cmd.OutOrStdout()
			for _, name := range names {
				if _, err := expfmt.MetricFamilyToText(out, families[name]); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().String("prefix", "http_", "Only print families whose name starts with this prefix")
	return cmd
}
