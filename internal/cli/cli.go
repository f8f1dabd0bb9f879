// Package cli implements the marketiq command line subcommands
package cli

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"

	"github.com/findosh/marketiq/internal/api"
	"github.com/findosh/marketiq/internal/config"
	"github.com/findosh/marketiq/internal/demodata"
	"github.com/findosh/marketiq/internal/logging"
	"github.com/findosh/marketiq/internal/services/marketdata"
	"github.com/findosh/marketiq/internal/services/portfolio"
)

// Commands lists every subcommand with its group
var Commands = []struct {
	Cmd   subcommands.Command
	Group string
}{
	{&serveCmd{}, "server"},
	{&portfolioCmd{}, "portfolio"},
	{&reportCmd{}, "portfolio"},
	{&lookupCmd{}, "market"},
	{&moversCmd{}, "market"},
	{&leaderboardCmd{}, "market"},
	{&historyCmd{}, "market"},
	{&dashboardCmd{}, "market"},
	{&picksCmd{}, "market"},
}

// Register adds the subcommands to c
func Register(c *subcommands.Commander) {
	c.Register(c.HelpCommand(), "")
	c.Register(c.FlagsCommand(), "")
	for _, e := range Commands {
		c.Register(e.Cmd, e.Group)
	}
}

var (
	configPath = flag.String("config", "", "Path to a TOML config file. Defaults to $MARKETIQ_CONFIG.")
	rawOutput  = flag.Bool("raw", false, "Print markdown without terminal styling")
)

// loadConfig reads configuration from the -config flag or the environment
func loadConfig() (*config.Config, error) {
	path := *configPath
	if path == "" {
		path = os.Getenv(config.EnvPrefix + "CONFIG")
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) *logging.Logger {
	return logging.NewForFormat(cfg.Log.Level, cfg.Log.Format)
}

// newClient builds the REST client from the api config section
func newClient(cfg *config.Config, logger *logging.Logger) *api.Client {
	return api.NewClient(
		api.WithBaseURL(cfg.API.BaseURL),
		api.WithTimeout(cfg.API.Timeout.Duration),
		api.WithRateLimit(cfg.API.RateLimit, cfg.API.Burst),
		api.WithLogger(logger.Component("api")),
	)
}

// localServices serves the bundled demo catalog without a server
func localServices(logger *logging.Logger) (*marketdata.Service, *portfolio.Store) {
	market := marketdata.NewService(marketdata.Config{}, demodata.NewCatalog(),
		marketdata.WithLogger(logger.Component("marketdata")))
	store := portfolio.NewStore(market, logger.Component("portfolio"))
	store.Seed(demodata.Holdings(), demodata.SubPortfolios())
	return market, store
}

// printMarkdown renders md for the terminal, falling back to the raw text
func printMarkdown(md string) {
	writeMarkdown(os.Stdout, md, *rawOutput)
}

func writeMarkdown(w io.Writer, md string, raw bool) {
	if raw {
		fmt.Fprint(w, md)
		return
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		fmt.Fprint(w, md)
		return
	}
	out, err := r.Render(md)
	if err != nil {
		fmt.Fprint(w, md)
		return
	}
	fmt.Fprint(w, out)
}

// warnFallback reports a failed fetch whose fallback data is being shown
func warnFallback(what string, err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "Warning: could not load %s (%v); showing demo data instead\n", what, err)
}
