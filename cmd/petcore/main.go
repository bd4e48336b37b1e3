// Command petcore operates a pet lifecycle store from the command line.
// The storage backend is selected by PETCORE_STORAGE_DRIVER (memory, sqlite,
// or postgres; sqlite by default).
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"

	"petcore/internal/core"
	"petcore/internal/ledger"
	"petcore/pkg/domain"
)

var exitFunc = os.Exit

func main() {
	exitFunc(cli(os.Args[1:], os.Stdout, os.Stderr))
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "usage: petcore <command> [flags]")
	fmt.Fprintln(w, "commands:")
	fmt.Fprintln(w, "  init          -owner <principal>")
	fmt.Fprintln(w, "  mint          -owner <principal> -name <name>")
	fmt.Fprintln(w, "  feed          -owner <principal> -token <id>")
	fmt.Fprintln(w, "  play          -owner <principal> -token <id>")
	fmt.Fprintln(w, "  revive        -owner <principal> -token <id>")
	fmt.Fprintln(w, "  update        -token <id>")
	fmt.Fprintln(w, "  transfer      -from <principal> -to <principal> -token <id>")
	fmt.Fprintln(w, "  info          -token <id>")
	fmt.Fprintln(w, "  pets          -holder <principal>")
	fmt.Fprintln(w, "  achievements  -holder <principal>")
}

func cli(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		usage(stderr)
		return 2
	}

	logger := slog.New(slog.NewTextHandler(stderr, nil))
	store, err := core.OpenPersistentStore(core.NewDefaultRulesEngine())
	if err != nil {
		fmt.Fprintf(stderr, "open store: %v\n", err)
		return 1
	}
	defer func() {
		if closer, ok := store.(io.Closer); ok {
			_ = closer.Close()
		}
	}()
	metrics := core.NewMetrics(prometheus.NewRegistry())
	svc := core.NewService(store,
		core.WithLogger(logger),
		core.WithMetrics(metrics),
		core.WithNotifier(ledger.New(ledger.WithAwardHook(func(_ string, a domain.Achievement) {
			metrics.ObserveAward(a.Name)
		}))),
	)
	ctx := context.Background()

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "init":
		fs := flag.NewFlagSet("init", flag.ContinueOnError)
		fs.SetOutput(stderr)
		owner := fs.String("owner", "", "contract owner principal")
		if err := fs.Parse(rest); err != nil {
			return 2
		}
		if *owner == "" {
			fmt.Fprintln(stderr, "init: -owner required")
			return 2
		}
		if err := svc.Initialize(ctx, *owner); err != nil {
			fmt.Fprintf(stderr, "init: %v\n", err)
			return 1
		}
		fmt.Fprintln(stdout, "initialized")
		return 0

	case "mint":
		fs := flag.NewFlagSet("mint", flag.ContinueOnError)
		fs.SetOutput(stderr)
		owner := fs.String("owner", "", "minting principal")
		name := fs.String("name", "", "pet name (1-20 characters)")
		if err := fs.Parse(rest); err != nil {
			return 2
		}
		if *owner == "" || *name == "" {
			fmt.Fprintln(stderr, "mint: -owner and -name required")
			return 2
		}
		tokenID, err := svc.Mint(ctx, *owner, *name)
		if err != nil {
			fmt.Fprintf(stderr, "mint: %v\n", err)
			return 1
		}
		fmt.Fprintf(stdout, "minted token %d\n", tokenID)
		return 0

	case "feed", "play", "revive":
		fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
		fs.SetOutput(stderr)
		owner := fs.String("owner", "", "pet owner principal")
		token := fs.Uint64("token", 0, "token id")
		if err := fs.Parse(rest); err != nil {
			return 2
		}
		if *owner == "" || *token == 0 {
			fmt.Fprintf(stderr, "%s: -owner and -token required\n", cmd)
			return 2
		}
		var opErr error
		switch cmd {
		case "feed":
			opErr = svc.Feed(ctx, *owner, *token)
		case "play":
			opErr = svc.Play(ctx, *owner, *token)
		case "revive":
			opErr = svc.Revive(ctx, *owner, *token)
		}
		if opErr != nil {
			fmt.Fprintf(stderr, "%s: %v\n", cmd, opErr)
			return 1
		}
		fmt.Fprintf(stdout, "%s ok\n", cmd)
		return 0

	case "update":
		fs := flag.NewFlagSet("update", flag.ContinueOnError)
		fs.SetOutput(stderr)
		token := fs.Uint64("token", 0, "token id")
		if err := fs.Parse(rest); err != nil {
			return 2
		}
		if *token == 0 {
			fmt.Fprintln(stderr, "update: -token required")
			return 2
		}
		if err := svc.UpdateState(ctx, *token); err != nil {
			fmt.Fprintf(stderr, "update: %v\n", err)
			return 1
		}
		fmt.Fprintln(stdout, "update ok")
		return 0

	case "transfer":
		fs := flag.NewFlagSet("transfer", flag.ContinueOnError)
		fs.SetOutput(stderr)
		from := fs.String("from", "", "current owner principal")
		to := fs.String("to", "", "new owner principal")
		token := fs.Uint64("token", 0, "token id")
		if err := fs.Parse(rest); err != nil {
			return 2
		}
		if *from == "" || *to == "" || *token == 0 {
			fmt.Fprintln(stderr, "transfer: -from, -to, and -token required")
			return 2
		}
		if err := svc.Transfer(ctx, *from, *to, *token); err != nil {
			fmt.Fprintf(stderr, "transfer: %v\n", err)
			return 1
		}
		fmt.Fprintln(stdout, "transfer ok")
		return 0

	case "info":
		fs := flag.NewFlagSet("info", flag.ContinueOnError)
		fs.SetOutput(stderr)
		token := fs.Uint64("token", 0, "token id")
		if err := fs.Parse(rest); err != nil {
			return 2
		}
		if *token == 0 {
			fmt.Fprintln(stderr, "info: -token required")
			return 2
		}
		info, err := svc.PetInfo(ctx, *token)
		if err != nil {
			fmt.Fprintf(stderr, "info: %v\n", err)
			return 1
		}
		return printJSON(stdout, stderr, info)

	case "pets":
		fs := flag.NewFlagSet("pets", flag.ContinueOnError)
		fs.SetOutput(stderr)
		holder := fs.String("holder", "", "holder principal")
		if err := fs.Parse(rest); err != nil {
			return 2
		}
		if *holder == "" {
			fmt.Fprintln(stderr, "pets: -holder required")
			return 2
		}
		tokens, err := svc.PetsOf(ctx, *holder)
		if err != nil {
			fmt.Fprintf(stderr, "pets: %v\n", err)
			return 1
		}
		return printJSON(stdout, stderr, tokens)

	case "achievements":
		fs := flag.NewFlagSet("achievements", flag.ContinueOnError)
		fs.SetOutput(stderr)
		holder := fs.String("holder", "", "holder principal")
		if err := fs.Parse(rest); err != nil {
			return 2
		}
		if *holder == "" {
			fmt.Fprintln(stderr, "achievements: -holder required")
			return 2
		}
		ids, err := svc.UserAchievements(ctx, *holder)
		if err != nil {
			fmt.Fprintf(stderr, "achievements: %v\n", err)
			return 1
		}
		earned := make([]any, 0, len(ids))
		for _, id := range ids {
			details, err := svc.AchievementDetails(ctx, id)
			if err != nil {
				fmt.Fprintf(stderr, "achievements: %v\n", err)
				return 1
			}
			earned = append(earned, details)
		}
		return printJSON(stdout, stderr, earned)

	default:
		fmt.Fprintf(stderr, "unknown command %q\n", cmd)
		usage(stderr)
		return 2
	}
}

func printJSON(stdout, stderr io.Writer, v any) int {
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(stderr, "encode: %v\n", err)
		return 1
	}
	return 0
}
