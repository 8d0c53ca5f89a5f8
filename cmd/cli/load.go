package cli

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// loadSummary aggregates the outcome of a load run.
type loadSummary struct {
	sent   int
	failed int
	total  time.Duration
	max    time.Duration
}

func (s loadSummary) avg() time.Duration {
	ok := s.sent - s.failed
	if ok == 0 {
		return 0
	}
	return s.total / time.Duration(ok)
}

// newLoadCmd drives /work with a fixed number of requests and bounded concurrency.
// newLoadCmd 以固定并发向 /work 发送请求，用于演示自动扩缩容。
func newLoadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "load",
		Short: "Drive /work to generate CPU load",
		RunE:  runLoad,
	}
	cmd.Flags().Int("ms", 50, "Busy-loop duration per request in milliseconds")
	cmd.Flags().Int("requests", 100, "Total number of requests to send")
	cmd.Flags().Int("concurrency", 4, "Maximum requests in flight")
	return cmd
}

func runLoad(cmd *cobra.Command, args []string) error {
	ms, _ := cmd.Flags().GetInt("ms")
	requests, _ := cmd.Flags().GetInt("requests")
	concurrency, _ := cmd.Flags().GetInt("concurrency")

	if ms < 0 {
		return errors.New("--ms must not be negative")
	}
	if requests <= 0 || concurrency <= 0 {
		return errors.New("--requests and --concurrency must be positive")
	}

	client, err := clientFromFlags(cmd)
	if err != nil {
		return err
	}

	var (
		mu      sync.Mutex
		summary loadSummary
	)
	path := "/work?ms=" + strconv.Itoa(ms)

	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(concurrency)
	for i := 0; i < requests && ctx.Err() == nil; i++ {
		g.Go(func() error {
			start := time.Now()
			status, _, err := client.get(ctx, path)
			elapsed := time.Since(start)

			mu.Lock()
			defer mu.Unlock()
			summary.sent++
			if err != nil || status != http.StatusOK {
				summary.failed++
				return nil
			}
			summary.total += elapsed
			if elapsed > summary.max {
				summary.max = elapsed
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "sent=%d ok=%d failed=%d avg=%s max=%s\n",
		summary.sent, summary.sent-summary.failed, summary.failed,
		summary.avg().Round(time.Millisecond), summary.max.Round(time.Millisecond))

	if summary.failed > 0 {
		return fmt.Errorf("%d of %d requests failed", summary.failed, summary.sent)
	}
	return nil
}
