package cli

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mrlokans/kindle-digest/internal/config"
	"github.com/mrlokans/kindle-digest/internal/entities"
	"github.com/mrlokans/kindle-digest/internal/importers"
	"github.com/mrlokans/kindle-digest/internal/kindle"
	"github.com/mrlokans/kindle-digest/internal/store"
)

// ImportCommand handles importing highlights from a Kindle My Clippings.txt file.
type ImportCommand struct {
	ClippingsPath string
	StorePath     string
	Verbose       bool
	DryRun        bool
}

func NewImportCommand() *ImportCommand {
	return &ImportCommand{}
}

func (cmd *ImportCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("import", flag.ExitOnError)

	fs.StringVar(&cmd.ClippingsPath, "file", "", "Path to Kindle 'My Clippings.txt' file (required)")
	fs.StringVar(&cmd.StorePath, "store", config.DefaultStorePath, "Path to the JSON file storing imported highlights")
	fs.BoolVar(&cmd.Verbose, "verbose", false, "Enable verbose logging")
	fs.BoolVar(&cmd.DryRun, "dry-run", false, "Show what would be imported without making changes")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s import -file <path> [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Import highlights from Kindle 'My Clippings.txt' into the local store.\n\n")
		fmt.Fprintf(os.Stderr, "The clippings file is typically found at:\n")
		fmt.Fprintf(os.Stderr, "  /Volumes/Kindle/documents/My Clippings.txt\n\n")
		fmt.Fprintf(os.Stderr, "Highlights already present in the store are skipped, so the same\n")
		fmt.Fprintf(os.Stderr, "clippings file can be imported repeatedly.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  # Import from connected Kindle device:\n")
		fmt.Fprintf(os.Stderr, "  %s import -file \"/Volumes/Kindle/documents/My Clippings.txt\"\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  # Preview what would be imported:\n")
		fmt.Fprintf(os.Stderr, "  %s import -file \"My Clippings.txt\" -dry-run -verbose\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.ClippingsPath == "" {
		return fmt.Errorf("required flag -file not provided")
	}

	return nil
}

func (cmd *ImportCommand) Run() error {
	fmt.Println("Kindle Import")
	fmt.Println("=============")

	if cmd.DryRun {
		fmt.Println("DRY RUN MODE - No changes will be made")
		fmt.Println()
	}

	if _, err := os.Stat(cmd.ClippingsPath); os.IsNotExist(err) {
		return fmt.Errorf("clippings file not found: %s", cmd.ClippingsPath)
	}

	fmt.Printf("File: %s\n", cmd.ClippingsPath)
	fmt.Println("\nReading highlights from Kindle clippings...")

	parser := kindle.NewParser()
	highlights, stats, err := parser.ParseFile(cmd.ClippingsPath)
	if err != nil {
		return fmt.Errorf("failed to parse clippings: %w", err)
	}

	books := entities.CountByBook(highlights)
	fmt.Printf("Found %d highlights across %d books\n", len(highlights), len(books))
	if skipped := stats.Skipped(); skipped > 0 {
		fmt.Printf("Skipped %d entries (%d empty, %d bookmarks, %d notes)\n",
			skipped, stats.Empty, stats.Bookmarks, stats.Notes)
	}

	if cmd.Verbose {
		fmt.Println("\n=== Books Found ===")
		limit := len(books)
		if limit > 10 {
			limit = 10
		}
		for i, book := range books[:limit] {
			fmt.Printf("%d. %s (%d highlights)\n", i+1, book.Book, book.Count)
		}
		if len(books) > limit {
			fmt.Printf("... and %d more books\n", len(books)-limit)
		}
	}

	if cmd.DryRun {
		fmt.Println("\nDry run complete. Use without -dry-run to import.")
		return nil
	}

	absStorePath, err := filepath.Abs(cmd.StorePath)
	if err != nil {
		return fmt.Errorf("failed to get absolute path for store: %w", err)
	}
	cmd.StorePath = absStorePath

	fmt.Printf("\nSaving to store: %s\n", cmd.StorePath)

	pipeline := importers.NewPipeline(store.New(cmd.StorePath))
	result, err := pipeline.ImportParsed(highlights, stats)
	if err != nil {
		return fmt.Errorf("failed to import highlights: %w", err)
	}

	fmt.Println("\n=== Import Summary ===")
	fmt.Printf("New highlights: %d\n", result.Added)
	fmt.Printf("Duplicates skipped: %d\n", result.Parsed-result.Added)
	fmt.Printf("Total in store: %d\n", result.Total)

	fmt.Println("\nImport complete!")
	return nil
}
