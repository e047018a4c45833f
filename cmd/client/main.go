package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/iudanet/userauth/internal/client/api"
	"github.com/iudanet/userauth/internal/client/cli"
	"github.com/iudanet/userauth/internal/client/iocli"
	"github.com/iudanet/userauth/internal/client/storage/boltdb"
	"github.com/iudanet/userauth/internal/redact"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Глобальные флаги
	showVersion := flag.Bool("version", false, "Show version information")
	serverURL := flag.String("server", "http://localhost:5000", "Server URL")
	dbPath := flag.String("db", "userauth-client.db", "Path to local database")
	password := flag.String("password", "", "Password (not recommended, use env var or file)")
	passwordFile := flag.String("password-file", "", "Path to file containing password")

	flag.Usage = func() {
		cli.PrintUsage(os.Stderr)
	}
	flag.Parse()

	// Show version and exit if requested
	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	// Получаем команду
	args := flag.Args()
	if len(args) == 0 {
		cli.PrintUsage(os.Stderr)
		os.Exit(1)
	}

	// Логи клиента идут в stderr, email и пароли маскируются
	logger := redact.NewLogger(os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Открываем BoltDB storage
	boltStorage, err := boltdb.New(ctx, *dbPath)
	if err != nil {
		logger.Error("failed to open database", slog.String("path", *dbPath), slog.Any("error", err))
		os.Exit(1)
	}

	c := cli.New(iocli.NewStdio(), api.NewClient(*serverURL), boltStorage, cli.Passwords{
		FromFile: *passwordFile,
		FromArgs: *password,
	})

	// Выполняем команду
	runErr := c.Run(ctx, args[0], args[1:])

	if err := boltStorage.Close(); err != nil {
		logger.Error("failed to close database", slog.Any("error", err))
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", runErr)
		if errors.Is(runErr, cli.ErrUnknownCommand) {
			cli.PrintUsage(os.Stderr)
		}
		os.Exit(1)
	}
}

func printVersion() {
	fmt.Printf("userauth client\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
