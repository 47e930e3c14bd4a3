// Command intake-replay runs a recorded transcript through the field
// extractor and prompt builder, or tails submitted applications on NATS.
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MikeSquared-Agency/intake/internal/application"
	"github.com/MikeSquared-Agency/intake/internal/config"
	"github.com/MikeSquared-Agency/intake/internal/conversation"
	"github.com/MikeSquared-Agency/intake/internal/extractor"
	"github.com/MikeSquared-Agency/intake/internal/hermes"
	"github.com/MikeSquared-Agency/intake/internal/prompt"
	"github.com/MikeSquared-Agency/intake/internal/transcript"
)

type report struct {
	Turns       int            `json:"turns"`
	Fields      map[string]any `json:"fields"`
	Missing     []string       `json:"missing"`
	Instruction string         `json:"instruction,omitempty"`
	PreApproval string         `json:"pre_approval,omitempty"`
	MapError    string         `json:"map_error,omitempty"`
}

func main() {
	var (
		file     = flag.String("file", "", "transcript file (JSON array, session view, application, or JSONL)")
		tail     = flag.Bool("tail", false, "print submitted applications from NATS until interrupted")
		termMin  = flag.Int("term-min", 0, "minimum plausible term in months (default from TERM_MONTHS_MIN)")
		termMax  = flag.Int("term-max", 0, "maximum plausible term in months (default from TERM_MONTHS_MAX)")
		logLevel = flag.String("log-level", "warn", "log level")
	)
	flag.Parse()

	if err := config.LoadDotEnv(".env"); err != nil {
		fmt.Fprintf(os.Stderr, "failed to load .env: %v\n", err)
	}
	cfg := config.Load()
	setupLogging(*logLevel)

	if *tail {
		if err := runTail(cfg); err != nil {
			slog.Error("tail failed", "error", err)
			os.Exit(1)
		}
		return
	}

	if *file == "" {
		fmt.Fprintln(os.Stderr, "usage: intake-replay -file transcript.json | -tail")
		os.Exit(2)
	}
	conv, err := transcript.ParseFile(*file)
	if err != nil {
		slog.Error("failed to parse transcript", "file", *file, "error", err)
		os.Exit(1)
	}

	opts := extractor.Options{TermMonthsMin: cfg.TermMonthsMin, TermMonthsMax: cfg.TermMonthsMax}
	if *termMin > 0 {
		opts.TermMonthsMin = *termMin
	}
	if *termMax > 0 {
		opts.TermMonthsMax = *termMax
	}

	if err := writeReport(os.Stdout, replay(conv, extractor.New(opts))); err != nil {
		slog.Error("failed to write report", "error", err)
		os.Exit(1)
	}
}

func replay(conv *conversation.Conversation, ext *extractor.Extractor) report {
	fields := ext.Extract(conv.Turns)
	r := report{
		Turns:   conv.Len(),
		Fields:  fields,
		Missing: fields.Missing(),
	}
	if r.Missing == nil {
		r.Missing = []string{}
	}

	if !fields.Complete() {
		r.Instruction = prompt.Build(conv, fields.Filled())
		return r
	}

	doc, err := application.ToDocument(fields, application.Meta{
		SessionID: "replay",
		Mode:      "freeform",
		Turns:     conv.Turns,
		Now:       time.Now().UTC(),
	})
	if err != nil {
		r.MapError = err.Error()
		return r
	}
	r.PreApproval = doc.PreApproval()
	return r
}

func writeReport(w io.Writer, r report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

func runTail(cfg config.Config) error {
	if cfg.NatsURL == "" {
		return errors.New("NATS_URL is required for -tail")
	}
	client, err := hermes.NewClient(cfg.NatsURL, cfg.NatsToken, slog.Default())
	if err != nil {
		return err
	}
	defer client.Close()

	enc := json.NewEncoder(os.Stdout)
	err = hermes.Subscribe(client, hermes.SubjectApplicationSubmitted, func(_ string, evt hermes.ApplicationSubmitted) {
		if err := enc.Encode(evt); err != nil {
			slog.Warn("failed to print event", "error", err)
		}
	})
	if err != nil {
		return err
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	return nil
}

func setupLogging(level string) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelWarn
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))
}
