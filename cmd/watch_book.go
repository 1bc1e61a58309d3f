package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/mselser95/arbcore/internal/book"
	"github.com/mselser95/arbcore/internal/catalog"
	"github.com/mselser95/arbcore/internal/feed"
	"github.com/mselser95/arbcore/pkg/config"
)

//nolint:gochecknoglobals // Cobra boilerplate
var watchBookCmd = &cobra.Command{
	Use:   "watch-book <market-id>",
	Short: "Watch live order-book updates for a single market",
	Long: `Fetches one market from the catalog, opens the feed for its YES
and NO tokens, and prints best-bid/best-ask as updates arrive. Useful
for debugging and understanding market dynamics.

Example:
  arbcore watch-book 0x1234`,
	Args: cobra.ExactArgs(1),
	RunE: runWatchBook,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(watchBookCmd)
}

func runWatchBook(cmd *cobra.Command, args []string) error {
	marketID := args[0]

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.LoadFromEnv()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := config.NewLogger()
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	gammaClient := catalog.NewGammaClient(cfg.PolymarketGammaURL, logger)
	records, err := gammaClient.ListActiveMarkets(ctx)
	if err != nil {
		return fmt.Errorf("fetch catalog: %w", err)
	}

	var yesToken, noToken, question string
	for _, rec := range records {
		if rec.ID == marketID {
			yesToken, noToken, question = rec.YesToken, rec.NoToken, rec.Question
			break
		}
	}
	if yesToken == "" || noToken == "" {
		return fmt.Errorf("market %s not found or missing YES/NO tokens", marketID)
	}

	fmt.Printf("Market: %s\n", question)
	fmt.Printf("YES Token ID: %s\n", yesToken)
	fmt.Printf("NO Token ID:  %s\n\n", noToken)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	cache := book.New(logger)
	cache.OnUpdate(func(tokenID string) {
		printBookLine(w, cache, tokenID, yesToken, noToken)
	})

	feedClient := feed.New(feed.Config{
		URL:                cfg.PolymarketWSURL,
		BookCache:          cache,
		Logger:             logger,
		ReconnectDelay:     cfg.ReconnectDelay,
		SubscribeBatchSize: cfg.SubscribeBatchSize,
		DialTimeout:        cfg.WSDialTimeout,
		PingInterval:       cfg.WSPingInterval,
	})

	if err := feedClient.Start(ctx, []string{yesToken, noToken}); err != nil {
		return fmt.Errorf("start feed: %w", err)
	}
	defer feedClient.Close()

	fmt.Println("Subscribed! Watching for order-book updates...")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	fmt.Println("\nShutting down...")

	return nil
}

func printBookLine(w *tabwriter.Writer, cache *book.Cache, tokenID, yesToken, noToken string) {
	outcome := "UNKNOWN"
	if tokenID == yesToken {
		outcome = "YES"
	} else if tokenID == noToken {
		outcome = "NO"
	}

	bestBid, bestBidSize, _ := cache.BestBid(tokenID)
	bestAsk, bestAskSize, _ := cache.BestAsk(tokenID)

	fmt.Fprintf(w, "[%s] %s\tBid: %.4f@%.2f\tAsk: %.4f@%.2f\n",
		time.Now().Format("15:04:05"), outcome, bestBid, bestBidSize, bestAsk, bestAskSize)
	w.Flush()
}
