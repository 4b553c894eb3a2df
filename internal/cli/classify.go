package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/mrlokans/kindle-digest/internal/classifier"
	"github.com/mrlokans/kindle-digest/internal/config"
	"github.com/mrlokans/kindle-digest/internal/sampler"
	"github.com/mrlokans/kindle-digest/internal/service"
	"github.com/mrlokans/kindle-digest/internal/store"
)

const classifyTimeout = 10 * time.Minute

// ClassifyCommand assigns a theme to every stored book that lacks one.
type ClassifyCommand struct {
	StorePath string
}

func NewClassifyCommand() *ClassifyCommand {
	return &ClassifyCommand{}
}

func (cmd *ClassifyCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("classify", flag.ExitOnError)

	fs.StringVar(&cmd.StorePath, "store", "", "Path to the JSON highlight store (defaults to STORE_PATH)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s classify [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Classify stored books into themes using the OpenAI API.\n")
		fmt.Fprintf(os.Stderr, "Requires the 'OPENAI_API_KEY' environment variable.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	return fs.Parse(args)
}

func (cmd *ClassifyCommand) Run() error {
	if os.Getenv("OPENAI_API_KEY") == "" {
		return fmt.Errorf("OPENAI_API_KEY is not set")
	}

	cfg := config.NewConfig()
	if cmd.StorePath != "" {
		cfg.Store.Path = cmd.StorePath
	}

	st := store.New(cfg.Store.Path)
	svc := service.New(st, sampler.New(nil), nil, cfg.Digest.Count, cfg.Email.To).
		WithClassifier(classifier.NewOpenAIClassifier())

	fmt.Println("Theme Classification")
	fmt.Println("====================")
	fmt.Printf("Store: %s\n\n", cfg.Store.Path)

	ctx, cancel := context.WithTimeout(context.Background(), classifyTimeout)
	defer cancel()

	result, err := svc.BackfillThemes(ctx)
	if err != nil {
		return fmt.Errorf("failed to classify books: %w", err)
	}

	if len(result.Books) == 0 {
		fmt.Println("All books already have themes, nothing to do.")
		return nil
	}

	for _, book := range result.Books {
		fmt.Printf("  %s (%s) -> %s\n", book.Title, book.Author, book.Theme)
	}

	fmt.Printf("\nClassified %d books, updated %d highlights\n", len(result.Books), result.Updated)
	return nil
}
