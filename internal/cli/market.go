package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"

	"github.com/findosh/marketiq/internal/dashboard"
	"github.com/findosh/marketiq/internal/models"
	"github.com/findosh/marketiq/internal/services/marketdata"
)

// lookupCmd shows the profile of one asset
type lookupCmd struct{}

func (*lookupCmd) Name() string     { return "lookup" }
func (*lookupCmd) Synopsis() string { return "display the profile of an asset" }
func (*lookupCmd) Usage() string {
	return `marketiq lookup <symbol>

  Shows price, signals and fundamentals for a stock or crypto symbol.
`
}

func (*lookupCmd) SetFlags(*flag.FlagSet) {}

func (c *lookupCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: lookup takes exactly one symbol")
		return subcommands.ExitUsageError
	}

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		return subcommands.ExitUsageError
	}
	market, _ := localServices(newLogger(cfg))

	profile, err := market.Profile(ctx, f.Arg(0))
	if errors.Is(err, marketdata.ErrNotFound) {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	printMarkdown(ProfileMarkdown(profile))
	return subcommands.ExitSuccess
}

// newFeeds connects the dashboard feeds to the configured API
func newFeeds() (*dashboard.Feeds, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	logger := newLogger(cfg)
	return dashboard.NewFeeds(newClient(cfg, logger), logger), nil
}

// moversCmd lists the biggest movers
type moversCmd struct {
	limit int
}

func (*moversCmd) Name() string     { return "movers" }
func (*moversCmd) Synopsis() string { return "display today's top movers" }
func (*moversCmd) Usage() string {
	return `marketiq movers [-n <limit>]

  Lists assets with the largest absolute price change today.
`
}

func (c *moversCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.limit, "n", dashboard.DefaultMoversLimit, "Number of movers to show")
}

func (c *moversCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.limit <= 0 {
		fmt.Fprintln(os.Stderr, "Error: -n must be positive")
		return subcommands.ExitUsageError
	}
	feeds, err := newFeeds()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		return subcommands.ExitUsageError
	}

	movers := feeds.TopMovers(c.limit)
	movers.Sync(ctx, c.limit)
	state := movers.State()
	warnFallback("top movers", state.Err)

	printMarkdown(QuotesMarkdown("Top Movers", state.Data))
	return subcommands.ExitSuccess
}

// leaderboardCmd ranks one asset class by IQ score
type leaderboardCmd struct {
	class string
}

func (*leaderboardCmd) Name() string     { return "leaderboard" }
func (*leaderboardCmd) Synopsis() string { return "rank assets by IQ score" }
func (*leaderboardCmd) Usage() string {
	return `marketiq leaderboard [-type crypto|stock]

  Ranks the assets of one class by IQ score.
`
}

func (c *leaderboardCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.class, "type", string(models.AssetClassCrypto), "Asset class: crypto or stock")
}

func (c *leaderboardCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	class, ok := models.ParseAssetClass(c.class)
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: unknown asset class %q\n", c.class)
		return subcommands.ExitUsageError
	}
	feeds, err := newFeeds()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		return subcommands.ExitUsageError
	}

	board := feeds.Leaderboard(class)
	board.Sync(ctx, class)
	state := board.State()
	warnFallback("leaderboard", state.Err)

	printMarkdown(QuotesMarkdown(class.DisplayName()+" Leaderboard", state.Data))
	return subcommands.ExitSuccess
}

// historyCmd prints the price history of one symbol
type historyCmd struct {
	period string
}

func (*historyCmd) Name() string     { return "history" }
func (*historyCmd) Synopsis() string { return "display the price history of an asset" }
func (*historyCmd) Usage() string {
	return `marketiq history [-period 1D|1W|1M|3M|6M|1Y|YTD|ALL] <symbol>

  Prints daily closes for the symbol over the period.
`
}

func (c *historyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.period, "period", models.Period1Month, "History period")
}

func (c *historyCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: history takes exactly one symbol")
		return subcommands.ExitUsageError
	}
	period, ok := models.NormalizePeriod(c.period)
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: unknown period %q\n", c.period)
		return subcommands.ExitUsageError
	}
	feeds, err := newFeeds()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		return subcommands.ExitUsageError
	}

	symbol := strings.ToUpper(f.Arg(0))
	history := feeds.PriceHistory(symbol, period)
	state := history.Refetch(ctx)
	if state.Err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not load price history (%v)\n", state.Err)
	}

	printMarkdown(HistoryMarkdown(symbol, period, state.Data))
	return subcommands.ExitSuccess
}

// dashboardCmd loads every dashboard feed at once
type dashboardCmd struct{}

func (*dashboardCmd) Name() string     { return "dashboard" }
func (*dashboardCmd) Synopsis() string { return "display the market overview and portfolios" }
func (*dashboardCmd) Usage() string {
	return `marketiq dashboard

  Loads the overview, movers and portfolios concurrently. Views that fail to
  load show demo data.
`
}

func (*dashboardCmd) SetFlags(*flag.FlagSet) {}

func (c *dashboardCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	feeds, err := newFeeds()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		return subcommands.ExitUsageError
	}

	snap := feeds.LoadAll(ctx)
	for _, msg := range snap.Errors() {
		fmt.Fprintf(os.Stderr, "Warning: %s; showing demo data instead\n", msg)
	}

	var b strings.Builder
	b.WriteString(OverviewMarkdown(snap.Overview.Data, snap.Portfolios.Data))
	b.WriteString("\n")
	b.WriteString(QuotesMarkdown("Top Movers", snap.TopMovers.Data))
	printMarkdown(b.String())
	return subcommands.ExitSuccess
}
