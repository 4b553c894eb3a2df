package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/mrlokans/kindle-digest/internal/config"
	"github.com/mrlokans/kindle-digest/internal/delivery"
	"github.com/mrlokans/kindle-digest/internal/sampler"
	"github.com/mrlokans/kindle-digest/internal/service"
	"github.com/mrlokans/kindle-digest/internal/store"
)

const sendTimeout = 2 * time.Minute

// SendCommand samples a digest from the store and emails it once.
type SendCommand struct {
	StorePath string
	Count     int
	To        string
	DryRun    bool
}

func NewSendCommand() *SendCommand {
	return &SendCommand{}
}

func (cmd *SendCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("send", flag.ExitOnError)

	fs.StringVar(&cmd.StorePath, "store", "", "Path to the JSON highlight store (defaults to STORE_PATH)")
	fs.IntVar(&cmd.Count, "count", 0, "Number of highlights to include (defaults to HIGHLIGHTS_COUNT)")
	fs.StringVar(&cmd.To, "to", "", "Recipient email address (defaults to TO_EMAIL)")
	fs.BoolVar(&cmd.DryRun, "dry-run", false, "Render the digest to stdout instead of sending it")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s send [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Sample a random digest of stored highlights and email it via Resend.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  # Send a digest to the configured recipient:\n")
		fmt.Fprintf(os.Stderr, "  %s send\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  # Preview tomorrow's digest without sending:\n")
		fmt.Fprintf(os.Stderr, "  %s send -count 3 -dry-run\n", os.Args[0])
	}

	return fs.Parse(args)
}

func (cmd *SendCommand) Run() error {
	cfg := config.NewConfig()
	if cmd.StorePath != "" {
		cfg.Store.Path = cmd.StorePath
	}
	if cmd.Count > 0 {
		cfg.Digest.Count = cmd.Count
	}
	if cmd.To != "" {
		cfg.Email.To = cmd.To
	}

	st := store.New(cfg.Store.Path)
	sender := delivery.NewResendClient(cfg.Email.ResendAPIKey, cfg.Email.From)
	svc := service.New(st, sampler.New(nil), sender, cfg.Digest.Count, cfg.Email.To)

	if cmd.DryRun {
		doc, selected, err := svc.Preview(cfg.Digest.Count)
		if err != nil {
			return cmd.describeError(err, cfg)
		}
		fmt.Fprintf(os.Stderr, "Subject: %s (%d highlights)\n\n", doc.Subject, selected)
		fmt.Println(doc.HTML)
		return nil
	}

	if err := cfg.ValidateForSend(); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()

	result, err := svc.SendDigest(ctx)
	if err != nil {
		return cmd.describeError(err, cfg)
	}

	fmt.Printf("Sent %d of %d highlights to %s (delivery id %s)\n",
		result.Selected, result.Total, cfg.Email.To, result.DeliveryID)
	return nil
}

func (cmd *SendCommand) describeError(err error, cfg *config.Config) error {
	if errors.Is(err, service.ErrEmptyStore) {
		return fmt.Errorf("no highlights in store at %s, run '%s import' first", cfg.Store.Path, os.Args[0])
	}
	return err
}
