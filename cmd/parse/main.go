package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"sawmill.app/ledger/common/llm"
	"sawmill.app/ledger/core/config"
	"sawmill.app/ledger/internal/oracle"
	"sawmill.app/ledger/internal/parser"
)

type options struct {
	noOracle bool
	timeout  time.Duration
	compact  bool
}

func main() {
	ctx := context.Background()

	var opts options
	flagSet := pflag.NewFlagSet("parse", pflag.ContinueOnError)
	flagSet.BoolVar(&opts.noOracle, "no-oracle", false, "resolve with the grammar only, even when OPENAI_API_KEY is set")
	flagSet.DurationVar(&opts.timeout, "timeout", 0, "oracle timeout (default ORACLE_TIMEOUT, at most 15s)")
	flagSet.BoolVar(&opts.compact, "compact", false, "print events as single-line JSON")
	flagSet.Usage = func() { printHelp(flagSet) }
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(2)
	}

	// Loads .env.parse, then .env, in development.
	cfg, err := config.Load(config.ServiceTypeParse)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	timeout := cfg.Oracle.Timeout
	if opts.timeout > 0 {
		timeout = opts.timeout
	}

	var fallback parser.Oracle
	switch {
	case opts.noOracle:
		fmt.Fprintln(os.Stderr, "Oracle: disabled (--no-oracle)")
	case cfg.Oracle.Enabled():
		client, err := llm.New(llm.Config{
			APIKey:  cfg.Oracle.APIKey,
			BaseURL: cfg.Oracle.BaseURL,
			Model:   cfg.Oracle.Model,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create LLM client: %v\n", err)
			os.Exit(1)
		}
		fallback = oracle.New(client, oracle.WithMaxTokens(cfg.Oracle.MaxTokens))
		fmt.Fprintf(os.Stderr, "Oracle: %s\n", client.Model())
	default:
		fmt.Fprintln(os.Stderr, "Oracle: disabled (OPENAI_API_KEY not set)")
	}

	resolver := parser.NewResolver(parser.NewFallback(fallback, parser.FallbackConfig{
		Timeout: timeout,
	}))

	// One-shot mode: parse stockin qty=50 supplier=Kumar
	if args := flagSet.Args(); len(args) > 0 {
		printResolution(resolver.Resolve(ctx, strings.Join(args, " ")), opts.compact)
		return
	}

	fmt.Fprintln(os.Stderr, "\nParse CLI ready")
	fmt.Fprintln(os.Stderr, "Enter a message (or 'quit' to exit):")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}

		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		if text == "quit" || text == "exit" || text == "q" {
			break
		}

		printResolution(resolver.Resolve(ctx, text), opts.compact)
	}

	if err := scanner.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "Error reading input: %v\n", err)
		os.Exit(1)
	}
}

func printResolution(res parser.Resolution, compact bool) {
	var (
		out []byte
		err error
	)
	if compact {
		out, err = json.Marshal(res.Event)
	} else {
		out, err = json.MarshalIndent(res.Event, "", "  ")
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to encode event: %v\n", err)
		return
	}

	fmt.Fprintf(os.Stderr, "source: %s\n", res.Source)
	if res.GrammarMiss != nil {
		fmt.Fprintf(os.Stderr, "grammar: %v\n", res.GrammarMiss)
	}
	if res.IsDefault() {
		fmt.Fprintf(os.Stderr, "fallback: %s", res.FallbackReason)
		if res.OracleErr != nil {
			fmt.Fprintf(os.Stderr, " (%v)", res.OracleErr)
		}
		fmt.Fprintln(os.Stderr)
	}
	fmt.Println(string(out))
}

func printHelp(flagSet *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, `Resolve sawmill chat messages into ledger events.

Usage:
  parse [flags] [message...]

With a message, resolves it once and exits. Without one, reads messages from stdin.
The event JSON goes to stdout; the resolution source and any fallback reason go to stderr.

Flags:
%s`, flagSet.FlagUsages())
}
