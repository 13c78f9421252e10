package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"storebot/internal/app"
	"storebot/internal/common/observability"
	normalizetext "storebot/internal/conversation/normalize-text"
	resolveintent "storebot/internal/conversation/resolve-intent"
)

const replPrompt = "> "

type resolver interface {
	Execute(ctx context.Context, input *resolveintent.Input) (*resolveintent.Output, error)
}

type normalizer interface {
	Execute(ctx context.Context, input *normalizetext.Input) (*normalizetext.Output, error)
}

// session answers questions and, in debug mode, prints what the resolver saw.
type session struct {
	resolver   resolver
	normalizer normalizer
	debug      bool
}

func (s *session) answer(ctx context.Context, out io.Writer, question string) error {
	res, err := s.resolver.Execute(ctx, &resolveintent.Input{Question: question})
	if err != nil {
		return err
	}
	fmt.Fprintln(out, res.Response)

	if !s.debug {
		return nil
	}
	fmt.Fprintf(out, "  rule: %s\n", res.Rule)
	for _, e := range res.Entities {
		fmt.Fprintf(out, "  entity: %s (%s)\n", e.Text, e.Category)
	}
	if s.normalizer != nil {
		norm, err := s.normalizer.Execute(ctx, &normalizetext.Input{Text: question})
		if err == nil {
			fmt.Fprintf(out, "  tokens: %s\n", strings.Join(norm.Tokens, " "))
			fmt.Fprintf(out, "  lemmas: %s\n", strings.Join(norm.Lemmas, " "))
		}
	}
	return nil
}

// repl reads one question per line until EOF or an exit command.
func (s *session) repl(ctx context.Context, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	fmt.Fprint(out, replPrompt)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch strings.ToLower(line) {
		case "":
			fmt.Fprint(out, replPrompt)
			continue
		case "exit", "quit":
			return nil
		}

		if err := s.answer(ctx, out, line); err != nil {
			return err
		}
		if ctx.Err() != nil {
			return nil
		}
		fmt.Fprint(out, replPrompt)
	}
	return scanner.Err()
}

func newSession(cmd *cobra.Command, debug bool) (*session, func(), error) {
	pg, err := openStore(cmd.Context())
	if err != nil {
		return nil, nil, fmt.Errorf("connecting to store: %w", err)
	}

	components, err := app.Build(cfg, pg.DB, nil, observability.New(cfg.App.Name+"-admin"), log)
	if err != nil {
		_ = pg.Close()
		return nil, nil, err
	}

	return &session{
		resolver:   components.Resolver,
		normalizer: components.Normalizer,
		debug:      debug,
	}, func() { _ = pg.Close() }, nil
}

func askCmd() *cobra.Command {
	var debug bool

	cmd := &cobra.Command{
		Use:   "ask [question]",
		Short: "Answer a single question",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, closeFn, err := newSession(cmd, debug)
			if err != nil {
				return fmt.Errorf("ask: %w", err)
			}
			defer closeFn()

			return s.answer(cmd.Context(), cmd.OutOrStdout(), strings.Join(args, " "))
		},
	}

	cmd.Flags().BoolVar(&debug, "debug", false, "print the matched rule, entities and tokens")
	return cmd
}

func replCmd() *cobra.Command {
	var debug bool

	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Ask questions interactively; type exit to leave",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, closeFn, err := newSession(cmd, debug)
			if err != nil {
				return fmt.Errorf("repl: %w", err)
			}
			defer closeFn()

			return s.repl(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVar(&debug, "debug", false, "print the matched rule, entities and tokens")
	return cmd
}
