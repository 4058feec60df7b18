package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"podscribe/cmd/podscribe/cmd/search"
	"podscribe/cmd/podscribe/cmd/serve"
	"podscribe/cmd/podscribe/cmd/transcribe"
	"podscribe/cmd/podscribe/cmd/version"
)

var Verbose bool

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "podscribe",
	Short: "Turn a Spotify episode link into a plain-text transcript",
	Long: `Turn a Spotify episode link into a plain-text transcript.
- The episode is resolved through the Spotify Web API
- The show's public RSS feed is located through the iTunes directory
- The matching feed entry's audio is downloaded and transcribed with Whisper`,
	TraverseChildren: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(transcribe.Cmd)
	rootCmd.AddCommand(search.Cmd)
	rootCmd.AddCommand(serve.Cmd)
	rootCmd.AddCommand(version.Cmd)

	rootCmd.PersistentFlags().BoolVarP(&Verbose, "verbose", "V", false, "verbose output")
}
