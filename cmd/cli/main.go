package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/dvloznov/statement-pipeline/internal/config"
	"github.com/dvloznov/statement-pipeline/internal/logger"
	"github.com/dvloznov/statement-pipeline/internal/password"
	"github.com/dvloznov/statement-pipeline/internal/pipeline"
	"github.com/dvloznov/statement-pipeline/internal/statement"
)

func main() {
	log := logger.New()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "process":
		runProcess(log)
	case "candidates":
		runCandidates(log)
	case "banks":
		runBanks()
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Statement Pipeline CLI")
	fmt.Println("\nUsage:")
	fmt.Println("  cli <command> [options]")
	fmt.Println("\nCommands:")
	fmt.Println("  process     Decrypt and parse an encrypted statement PDF")
	fmt.Println("  candidates  Show the password candidates for a bank without decrypting")
	fmt.Println("  banks       List supported bank codes")
	fmt.Println("  help        Show this help message")
	fmt.Println("\nRun 'cli <command> -h' for more information on a command.")
}

func hintFlags(fs *flag.FlagSet) (name, dob, card4, card6, customerID *string) {
	name = fs.String("name", "", "Card holder name")
	dob = fs.String("dob", "", "Date of birth, DDMMYYYY or DDMMYY")
	card4 = fs.String("card4", "", "Last 4 card digits")
	card6 = fs.String("card6", "", "Last 6 card digits")
	customerID = fs.String("customer-id", "", "Bank customer/CRN identifier")
	return
}

func runProcess(log zerolog.Logger) {
	fs := flag.NewFlagSet("process", flag.ExitOnError)
	file := fs.String("file", "", "Path to the encrypted statement PDF")
	bank := fs.String("bank", "", "Bank code (detected from the statement when omitted)")
	name, dob, card4, card6, customerID := hintFlags(fs)
	fs.Parse(os.Args[2:])

	if *file == "" {
		log.Fatal().Msg("Error: --file is required")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	encrypted, err := os.ReadFile(*file)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to read statement file")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	processor, err := pipeline.NewDefaultProcessor(ctx, cfg, password.NewMemoryStore())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build processor")
	}

	result, err := processor.Process(ctx, statement.Input{
		EncryptedBytes: encrypted,
		Bank:           statement.BankCode(*bank),
		Filename:       filepath.Base(*file),
		Hints: statement.IdentityHints{
			Name:       *name,
			DOB:        *dob,
			CardLast4:  *card4,
			CardLast6:  *card6,
			CustomerID: *customerID,
		},
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Processing failed")
	}

	printResult(result)
}

func printResult(r *statement.Result) {
	s := r.Statement

	fmt.Println("\n=== Statement ===")
	fmt.Printf("Bank:       %s\n", s.Bank)
	fmt.Printf("Card:       %s ****%s\n", s.Card.Network, s.Card.Last4)
	fmt.Printf("Holder:     %s\n", s.Owner.Name)
	fmt.Printf("Period:     %s to %s, due %s\n",
		s.Period.Start.Format("2006-01-02"),
		s.Period.End.Format("2006-01-02"),
		s.Period.Due.Format("2006-01-02"))
	fmt.Printf("Total dues: %.2f (minimum %.2f)\n", s.Summary.TotalDues, s.Summary.MinimumDue)
	fmt.Printf("Confidence: %d/100  Cost: $%.4f  Model: %s\n", r.Confidence, r.Cost, r.Model)

	if len(r.Warnings) > 0 {
		fmt.Println("\nWarnings:")
		for _, w := range r.Warnings {
			fmt.Printf("  - %s\n", w)
		}
	}

	fmt.Printf("\n=== Transactions (%d) ===\n", len(s.Transactions))
	for i, tx := range s.Transactions {
		fmt.Printf("%3d. %s  %-40s  %10.2f %s  %s\n",
			i+1, tx.Date.Format("2006-01-02"), tx.Description, tx.Amount, tx.Type, tx.Category)
	}
}

func runCandidates(log zerolog.Logger) {
	fs := flag.NewFlagSet("candidates", flag.ExitOnError)
	bank := fs.String("bank", "", "Bank code")
	name, dob, card4, card6, customerID := hintFlags(fs)
	fs.Parse(os.Args[2:])

	if *bank == "" {
		log.Fatal().Msg("Error: --bank is required")
	}

	cands, err := password.Generate(statement.BankCode(*bank), statement.IdentityHints{
		Name:       *name,
		DOB:        *dob,
		CardLast4:  *card4,
		CardLast6:  *card6,
		CustomerID: *customerID,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Candidate generation failed")
	}

	fmt.Printf("%d candidate(s) for %s:\n", len(cands), *bank)
	for i, c := range cands {
		fmt.Printf("%2d. %-20s (%s)\n", i+1, c.Value, c.Source)
	}
}

func runBanks() {
	fmt.Println("Supported bank codes:")
	for _, code := range password.SupportedBanks() {
		fmt.Printf("  %s\n", code)
	}
}
