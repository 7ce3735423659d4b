package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"finclusion/internal/domain/category"
	"finclusion/internal/domain/transaction"
	"finclusion/internal/infrastructure/postgres"
	"finclusion/internal/interfaces/batch"
	"finclusion/internal/shared/config"
)

const defaultWorkerCount = 4

const usage = `Finclusion Admin CLI - Management commands for the Finclusion API

Usage:
  admin <command> [options]

Commands:
  migrate              Apply pending database migrations
  seed-categories      Create the default categories for users that have none
  monthly-summary      Print a user's income, expense and balance for a month

Examples:
  # Bring the schema up to date
  admin migrate

  # Backfill default categories for specific users
  admin seed-categories --user-id=6f1c3a52-3c39-4d47-9b0f-2f0b1f1f7a10

  # Backfill every user with 8 workers
  admin seed-categories --all --workers=8 --timeout=10m

  # Totals for March 2025
  admin monthly-summary --user-id=6f1c3a52-3c39-4d47-9b0f-2f0b1f1f7a10 --year=2025 --month=3
`

func main() {
	if len(os.Args) < 2 {
		fmt.Print(usage + "\n")
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "migrate":
		runMigrate(os.Args[2:])
	case "seed-categories":
		runSeedCategories(os.Args[2:])
	case "monthly-summary":
		runMonthlySummary(os.Args[2:])
	case "help", "-h", "--help":
		fmt.Print(usage + "\n")
	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		fmt.Print(usage + "\n")
		os.Exit(1)
	}
}

func connect() *postgres.DB {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := postgres.New(cfg.Database.ConnectionString())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")
	return db
}

func runMigrate(args []string) {
	fs := flag.NewFlagSet("migrate", flag.ExitOnError)
	timeout := fs.Duration("timeout", 5*time.Minute, "Timeout for the operation (e.g., 5m, 1h)")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	db := connect()
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if err := db.Migrate(ctx); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	log.Printf("Schema is at version %d", postgres.LatestSchemaVersion())
}

func runSeedCategories(args []string) {
	fs := flag.NewFlagSet("seed-categories", flag.ExitOnError)

	userIDStr := fs.String("user-id", "", "User ID(s) to seed (comma-separated for multiple)")
	allUsers := fs.Bool("all", false, "Seed every registered user")
	workers := fs.Int("workers", defaultWorkerCount, "Number of concurrent workers")
	timeout := fs.Duration("timeout", 30*time.Minute, "Timeout for the operation (e.g., 5m, 1h)")

	fs.Usage = func() {
		fmt.Println("Usage: admin seed-categories [options]")
		fmt.Println("\nOptions:")
		fs.PrintDefaults()
		fmt.Println("\nExamples:")
		fmt.Println("  admin seed-categories --user-id=<uuid>")
		fmt.Println("  admin seed-categories --user-id=<uuid>,<uuid>")
		fmt.Println("  admin seed-categories --all --workers=8 --timeout=1h")
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if *userIDStr == "" && !*allUsers {
		fmt.Println("Error: must specify --user-id or --all")
		fs.Usage()
		os.Exit(1)
	}

	db := connect()
	defer db.Close()

	categoryService := category.NewService(postgres.NewCategoryRepository(db), postgres.NewTransactionRepository(db))

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	var userIDs []string
	if *allUsers {
		ids, err := postgres.NewIdentityRepository(db).ListPrincipalIDs(ctx)
		if err != nil {
			log.Fatalf("Failed to list users: %v", err)
		}
		userIDs = ids
		log.Printf("Found %d users", len(userIDs))
	} else {
		userIDs = splitIDs(*userIDStr)
	}

	if len(userIDs) == 0 {
		log.Println("No users to process")
		return
	}

	log.Printf("Starting category backfill for %d user(s) with %d workers", len(userIDs), *workers)
	startTime := time.Now()

	stats := batch.Run(ctx, *workers, time.Minute, batch.SeedCategoryJobs(userIDs, categoryService))

	log.Printf("Category backfill completed in %v: %d succeeded, %d failed, %d not run",
		time.Since(startTime), stats.Succeeded, stats.Failed, int64(len(userIDs))-stats.Succeeded-stats.Failed)
	if stats.Failed > 0 {
		os.Exit(1)
	}
}

func runMonthlySummary(args []string) {
	fs := flag.NewFlagSet("monthly-summary", flag.ExitOnError)

	userID := fs.String("user-id", "", "User ID")
	now := time.Now()
	year := fs.Int("year", now.Year(), "Calendar year")
	month := fs.Int("month", int(now.Month()), "Calendar month (1-12)")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if *userID == "" {
		fmt.Println("Error: must specify --user-id")
		fs.Usage()
		os.Exit(1)
	}

	db := connect()
	defer db.Close()

	transactionService := transaction.NewService(postgres.NewTransactionRepository(db), postgres.NewCategoryRepository(db))

	report, err := transactionService.Monthly(context.Background(), *userID, *year, *month)
	if err != nil {
		log.Fatalf("Monthly summary failed: %v", err)
	}

	fmt.Printf("\n=== User %s, %04d-%02d ===\n", *userID, *year, *month)
	fmt.Printf("  Transactions: %d\n", len(report.Transactions))
	fmt.Printf("  Income:       %.2f\n", report.Summary.Income)
	fmt.Printf("  Expense:      %.2f\n", report.Summary.Expense)
	fmt.Printf("  Balance:      %.2f\n", report.Summary.Balance)
}

func splitIDs(s string) []string {
	var ids []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			ids = append(ids, p)
		}
	}
	return ids
}
