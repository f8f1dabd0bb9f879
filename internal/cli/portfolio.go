package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/findosh/marketiq/internal/demodata"
	"github.com/findosh/marketiq/internal/models"
	"github.com/findosh/marketiq/internal/services/analytics"
	"github.com/findosh/marketiq/internal/services/importer"
	"github.com/findosh/marketiq/internal/services/portfolio"
)

// portfolioCmd prints the summary cards and holdings of a view
type portfolioCmd struct {
	view       string
	add        string
	importPath string
}

func (*portfolioCmd) Name() string     { return "portfolio" }
func (*portfolioCmd) Synopsis() string { return "display portfolio summary and holdings" }
func (*portfolioCmd) Usage() string {
	return `marketiq portfolio [-view total|<name>] [-add SYMBOL=QTY[,SYMBOL=QTY...]] [-import positions.csv]

  Shows total value, P&L, diversity and risk for the demo portfolio, or for
  one sub-portfolio by name. -add appends positions before reporting, and
  -import reads a Schwab, Fidelity, Vanguard or symbol,quantity CSV export
  into the selected view.
`
}

func (c *portfolioCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.view, "view", models.TotalView, "Portfolio view: total, or a sub-portfolio name")
	f.StringVar(&c.add, "add", "", "Positions to add, e.g. AAPL=5,BTC=0.1")
	f.StringVar(&c.importPath, "import", "", "Brokerage CSV export to import")
}

func (c *portfolioCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		return subcommands.ExitUsageError
	}
	_, store := localServices(newLogger(cfg))

	if c.add != "" {
		inputs, err := parsePositions(c.add)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitUsageError
		}
		for _, in := range inputs {
			h, err := store.AddAsset(ctx, in)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error adding %s: %v\n", in.Symbol, err)
				return subcommands.ExitFailure
			}
			if h.Estimated {
				fmt.Fprintf(os.Stderr, "Note: %s is not in the catalog; price and risk are placeholders\n", h.Symbol)
			}
		}
	}

	view, title, err := resolveView(store, c.view)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	if c.importPath != "" {
		if err := importFile(ctx, store, c.importPath, view); err != nil {
			fmt.Fprintf(os.Stderr, "Error importing %s: %v\n", c.importPath, err)
			return subcommands.ExitFailure
		}
	}

	holdings, err := store.Holdings(view)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	printMarkdown(PortfolioMarkdown(title, analytics.Summarize(holdings), holdings))
	return subcommands.ExitSuccess
}

// importFile adds the positions of a CSV export to view
func importFile(ctx context.Context, store *portfolio.Store, path, view string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	sub := uuid.Nil
	if view != models.TotalView {
		sub = uuid.MustParse(view)
	}

	summary, err := importer.Import(ctx, store, f, sub)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Imported %d positions (%s)", len(summary.Added), summary.Source)
	if summary.Estimated > 0 {
		fmt.Fprintf(os.Stderr, ", %d not in the catalog", summary.Estimated)
	}
	if len(summary.Skipped) > 0 {
		fmt.Fprintf(os.Stderr, ", skipped %s", strings.Join(summary.Skipped, ", "))
	}
	fmt.Fprintln(os.Stderr)
	return nil
}

// resolveView maps "total" or a sub-portfolio name to a store view
func resolveView(store *portfolio.Store, name string) (view, title string, err error) {
	if name == "" || strings.EqualFold(name, models.TotalView) {
		return models.TotalView, "Total Portfolio", nil
	}
	for _, sp := range store.SubPortfolios() {
		if strings.EqualFold(sp.Name, name) || sp.ID.String() == name {
			return sp.ID.String(), sp.Name, nil
		}
	}
	return "", "", fmt.Errorf("%w: %q", portfolio.ErrSubPortfolioNotFound, name)
}

// parsePositions parses "AAPL=5,BTC=0.1"
func parsePositions(s string) ([]portfolio.AddAssetInput, error) {
	var inputs []portfolio.AddAssetInput
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		symbol, qty, ok := strings.Cut(part, "=")
		if !ok {
			return nil, fmt.Errorf("invalid position %q, want SYMBOL=QTY", part)
		}
		quantity, err := decimal.NewFromString(strings.TrimSpace(qty))
		if err != nil {
			return nil, fmt.Errorf("invalid quantity in %q: %w", part, err)
		}
		inputs = append(inputs, portfolio.AddAssetInput{Symbol: symbol, Quantity: quantity})
	}
	return inputs, nil
}

// reportCmd renders the contribution analysis
type reportCmd struct {
	tolerance float64
}

func (*reportCmd) Name() string     { return "report" }
func (*reportCmd) Synopsis() string { return "display the performance contribution report" }
func (*reportCmd) Usage() string {
	return `marketiq report [-tolerance <points>]

  Attributes portfolio return to individual assets and lists entries whose
  reported contribution differs from weight × performance.
`
}

func (c *reportCmd) SetFlags(f *flag.FlagSet) {
	f.Float64Var(&c.tolerance, "tolerance", 0.5, "Allowed gap in percentage points before an entry is flagged")
}

func (c *reportCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	entries := demodata.Contributions()
	attr := analytics.Attribute(entries)
	inconsistencies := analytics.CheckConsistency(entries, decimal.NewFromFloat(c.tolerance))

	printMarkdown(ContributionMarkdown(attr, inconsistencies))
	return subcommands.ExitSuccess
}
