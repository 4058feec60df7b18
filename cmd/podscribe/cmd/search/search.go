package search

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"podscribe/internal/app"
	"podscribe/internal/config"
	"podscribe/internal/spotify"
)

var limit int

// Cmd represents the search command
var Cmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the episode catalog and print matching episode URLs",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(strings.Join(args, " "))
	},
}

func init() {
	Cmd.Flags().IntVarP(&limit, "limit", "n", 10, "maximum number of results")
}

func run(query string) error {
	creds, err := config.GetCredentials()
	if err != nil {
		return err
	}
	policy, err := config.LoadPolicy("")
	if err != nil {
		return err
	}

	client, err := app.InitializeSpotifyClient(creds, policy)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), policy.LookupTimeout())
	defer cancel()

	episodes, err := client.SearchEpisodes(ctx, query, limit)
	if err != nil {
		return err
	}
	if len(episodes) == 0 {
		fmt.Println("No episodes found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SHOW\tEPISODE\tDURATION\tURL")
	for _, ep := range episodes {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			ep.ShowName, ep.Title, formatDuration(ep.DurationSec), spotify.EpisodeURL(ep.ID))
	}
	return w.Flush()
}

func formatDuration(sec int) string {
	if sec <= 0 {
		return "-"
	}
	return (time.Duration(sec) * time.Second).String()
}
