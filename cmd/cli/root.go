package cli

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

// newRootCmd builds the obsdemo-ctl command tree.
// newRootCmd 构建 obsdemo-ctl 命令树。
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "obsdemo-ctl",
		Short: "Operator CLI for the obsdemo API",
		Long: `obsdemo-ctl talks to a running obsdemo API: it checks liveness and readiness,
drives synthetic load through /work for autoscaling demos, and prints metric families
from /metrics.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("addr", "http://localhost:8000", "Base URL of the obsdemo API")
	root.PersistentFlags().Duration("timeout", 5*time.Second, "Per-request timeout")

	root.AddCommand(newProbeCmd(), newLoadCmd(), newMetricsCmd())
	return root
}

// Execute is the main entry point for the CLI application.
// It parses the command-line arguments and runs the selected command. SIGINT and SIGTERM
// cancel the command's context. If an error occurs, it prints the error and exits.
// Execute 是 CLI 应用程序的主入口点。
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// apiClient issues GETs against the API base URL.
type apiClient struct {
	base string
	http *http.Client
}

func clientFromFlags(cmd *cobra.Command) (*apiClient, error) {
	addr, _ := cmd.Flags().GetString("addr")
	timeout, _ := cmd.Flags().GetDuration("timeout")

	u, err := url.Parse(addr)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid --addr %q", addr)
	}
	return &apiClient{
		base: strings.TrimRight(addr, "/"),
		http: &http.Client{Timeout: timeout},
	}, nil
}

func (c *apiClient) get(ctx context.Context, path string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+path, nil)
	if err != nil {
		return 0, nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, err
	}
	return resp.StatusCode, body, nil
}
