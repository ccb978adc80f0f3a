package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"cinematch-backend/internal/client"

	"github.com/sirupsen/logrus"
)

const defaultRelayURL = "http://localhost:8010"

type options struct {
	RelayURL string
	Movies   []client.VoterMovieInput
	Search   string
	Retries  int
	Timeout  time.Duration
	Verbose  bool
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetLevel(logrus.WarnLevel)
	if opts.Verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	relay := client.NewRelayClient(opts.RelayURL, opts.Timeout)

	if opts.Search != "" {
		if err := runSearch(ctx, os.Stdout, relay, opts.Search); err != nil {
			log.WithError(err).Error("Search failed")
			os.Exit(1)
		}
		return
	}

	if err := run(ctx, os.Stdout, client.NewCoordinator(relay, log), opts); err != nil {
		fmt.Fprintln(os.Stderr, userMessage(err))
		os.Exit(1)
	}
}

// parseFlags reads flags, falling back to CINEMATCH_RELAY_URL for the relay address.
func parseFlags(args []string) (options, error) {
	opts := options{}

	fs := flag.NewFlagSet("cinematch", flag.ContinueOnError)
	fs.StringVar(&opts.RelayURL, "relay", "", "Relay base URL (or CINEMATCH_RELAY_URL)")
	fs.Func("movie", `Liked movie, "Title" or "Title (Year)"; repeat once per voter`, func(v string) error {
		opts.Movies = append(opts.Movies, parseMovie(v))
		return nil
	})
	fs.StringVar(&opts.Search, "search", "", "Only run an autocomplete search for this query")
	fs.IntVar(&opts.Retries, "retries", 0, "Extra rounds excluding everything already suggested")
	fs.DurationVar(&opts.Timeout, "timeout", 30*time.Second, "Per-request timeout")
	fs.BoolVar(&opts.Verbose, "v", false, "Verbose logging")

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	if opts.RelayURL == "" {
		opts.RelayURL = os.Getenv("CINEMATCH_RELAY_URL")
	}
	if opts.RelayURL == "" {
		opts.RelayURL = defaultRelayURL
	}
	if opts.Retries < 0 {
		return options{}, errors.New("retries must not be negative")
	}
	if opts.Search == "" && len(opts.Movies) > client.MaxVoters {
		return options{}, fmt.Errorf("at most %d movies (one per voter)", client.MaxVoters)
	}

	return opts, nil
}

// parseMovie splits a trailing four-digit "(Year)" off a title.
func parseMovie(v string) client.VoterMovieInput {
	v = strings.TrimSpace(v)
	open := strings.LastIndex(v, " (")
	if open < 0 || !strings.HasSuffix(v, ")") {
		return client.VoterMovieInput{Title: v}
	}
	year := v[open+2 : len(v)-1]
	if _, err := strconv.Atoi(year); err != nil || len(year) != 4 {
		return client.VoterMovieInput{Title: v}
	}
	return client.VoterMovieInput{Title: v[:open], Year: year}
}

func run(ctx context.Context, out io.Writer, coordinator *client.Coordinator, opts options) error {
	session := client.NewSession()

	voters := len(opts.Movies)
	if voters < client.MinVoters {
		voters = client.MinVoters
	}
	if err := session.Inputs.Resize(voters); err != nil {
		return err
	}
	for i, m := range opts.Movies {
		if err := session.Inputs.Commit(i, m.Title, m.Year); err != nil {
			return err
		}
	}

	result, err := coordinator.Submit(ctx, session)
	if err != nil {
		return err
	}
	printResult(out, 1, result)

	for round := 2; round <= opts.Retries+1; round++ {
		result, err = coordinator.TryAgain(ctx, session)
		if err != nil {
			return err
		}
		printResult(out, round, result)
	}
	return nil
}

func runSearch(ctx context.Context, out io.Writer, relay client.Searcher, query string) error {
	results, err := relay.Search(ctx, query)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		fmt.Fprintln(out, "No matches.")
		return nil
	}
	for _, r := range results {
		fmt.Fprintf(out, "%-8d %s (%s)\n", r.ID, r.Title, r.Year)
	}
	return nil
}

func printResult(out io.Writer, round int, result *client.Result) {
	fmt.Fprintf(out, "Round %d\n", round)
	if result.NoNewSuggestions {
		fmt.Fprintf(out, "  %s\n", result.Message)
		return
	}
	for i, s := range result.Suggestions {
		fmt.Fprintf(out, "%d. %s (%d)\n", i+1, s.Title, s.Year)
		if s.PosterURL != nil {
			fmt.Fprintf(out, "   Poster: %s\n", *s.PosterURL)
		}
		fmt.Fprintf(out, "   %s\n", s.Description)
	}
}

func userMessage(err error) string {
	var verr *client.ValidationError
	if errors.As(err, &verr) {
		return verr.Message
	}
	var uerr *client.UpstreamError
	if errors.As(err, &uerr) {
		return uerr.Message
	}
	return err.Error()
}
