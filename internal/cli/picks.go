package cli

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/findosh/marketiq/internal/demodata"
	"github.com/findosh/marketiq/internal/models"
	"github.com/findosh/marketiq/internal/services/picks"
)

// picksCmd prints the ranked stock picks of a universe
type picksCmd struct {
	category  string
	rating    string
	consensus bool
}

func (*picksCmd) Name() string     { return "picks" }
func (*picksCmd) Synopsis() string { return "display ranked stock picks" }
func (*picksCmd) Usage() string {
	return `marketiq picks [-category large-cap|mid-cap|small-cap|penny|sp500|russell] [-rating <min>] [-consensus]

  Lists the ranked picks of one stock universe with their technical rating
  and signal. -consensus prints the analyst leaderboard instead.
`
}

func (c *picksCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.category, "category", string(picks.DefaultCategory), "Stock universe")
	f.StringVar(&c.rating, "rating", "", "Minimum technical rating, e.g. buy or strong-buy")
	f.BoolVar(&c.consensus, "consensus", false, "Show the analyst consensus leaderboard")
}

func (c *picksCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	svc := picks.NewService(demodata.StockPicks(), demodata.AnalystConsensus())

	if c.consensus {
		printMarkdown(ConsensusMarkdown(svc.Consensus()))
		return subcommands.ExitSuccess
	}

	category, err := picks.ParseCategory(c.category)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	var minRating models.Rating
	if c.rating != "" {
		r, ok := models.ParseRating(c.rating)
		if !ok {
			fmt.Fprintf(os.Stderr, "Error: unknown rating %q\n", c.rating)
			return subcommands.ExitUsageError
		}
		minRating = r
	}

	list, err := svc.Picks(category, minRating)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	sum, err := svc.Summarize(category)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	printMarkdown(PicksMarkdown(sum, list))
	return subcommands.ExitSuccess
}
