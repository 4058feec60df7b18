package transcribe

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"

	"podscribe/internal/app"
	"podscribe/internal/config"
	"podscribe/internal/pipeline"
)

var (
	outputPath string
	policyPath string
	quiet      bool
)

// Cmd represents the transcribe command
var Cmd = &cobra.Command{
	Use:   "transcribe <episode-url>",
	Short: "Resolve a Spotify episode URL and transcribe its audio",
	Long: `Resolve a Spotify episode URL and transcribe its audio.
The transcript is written to --output, or to a file named after the episode
title in the current directory.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(args[0])
	},
}

func init() {
	Cmd.Flags().StringVarP(&outputPath, "output", "o", "", "transcript output path")
	Cmd.Flags().StringVar(&policyPath, "policy", "", "YAML policy file overriding the built-in constants")
	Cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "suppress the progress bar")
}

func run(rawURL string) error {
	creds, err := config.GetCredentials()
	if err != nil {
		return err
	}
	policy, err := config.LoadPolicy(policyPath)
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	pipe, err := app.InitializePipeline(creds, policy, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reporter := pipeline.NewReporter(64)

	var wg sync.WaitGroup
	if !quiet {
		wg.Add(1)
		go func() {
			defer wg.Done()
			renderProgress(reporter.Events())
		}()
	} else {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range reporter.Events() {
			}
		}()
	}

	result, err := pipe.Run(ctx, rawURL, reporter)
	wg.Wait()
	if err != nil {
		return err
	}

	path := outputPath
	if path == "" {
		path = result.SuggestedFilename()
	}
	if err := os.WriteFile(path, []byte(result.Transcript), 0o644); err != nil {
		return fmt.Errorf("writing transcript: %w", err)
	}

	fmt.Printf("Transcript saved to %s\n", path)
	return nil
}

// renderProgress drives one mpb bar from pipeline progress events. The bar
// tracks the overall fraction; the current stage message is shown alongside.
func renderProgress(events <-chan pipeline.ProgressEvent) {
	var mu sync.Mutex
	message := "Starting..."

	container := mpb.New(
		mpb.WithOutput(os.Stderr),
		mpb.WithRefreshRate(120 * time.Millisecond),
	)
	bar := container.New(100,
		mpb.BarStyle(),
		mpb.PrependDecorators(
			decor.Name("podscribe ", decor.WC{W: 10}),
			decor.Any(func(decor.Statistics) string {
				mu.Lock()
				defer mu.Unlock()
				return message
			}, decor.WCSyncSpaceR),
		),
		mpb.AppendDecorators(
			decor.NewPercentage("%d", decor.WCSyncSpace),
		),
	)

	final := int64(0)
	for ev := range events {
		mu.Lock()
		message = ev.Message
		mu.Unlock()
		final = int64(ev.Fraction * 100)
		bar.SetCurrent(final)
	}
	if final < 100 {
		bar.Abort(true)
	}
	container.Wait()
}
