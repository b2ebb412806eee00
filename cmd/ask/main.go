package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"askgov-sg/internal/config"
	"askgov-sg/internal/constant"
	"askgov-sg/internal/dto"
	"askgov-sg/internal/pkg/logger"
	"askgov-sg/internal/repository/memory"
	"askgov-sg/internal/service"
	"askgov-sg/pkg/answer"
	"askgov-sg/pkg/events"
	"askgov-sg/pkg/llm/openai"
	"askgov-sg/pkg/render"
	"askgov-sg/pkg/search"
	"askgov-sg/pkg/store"

	"github.com/charmbracelet/glamour"
	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		color.Red("Error: %v", err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		location string
		need     string
		plain    bool
		snippets bool
	)

	cmd := &cobra.Command{
		Use:   "ask [question]",
		Short: "Ask one CPF policy question from the terminal",
		Long: "Runs a single search-and-answer cycle against the configured providers.\n" +
			"Credentials come from the same environment as the server; the access password is not needed.",
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			loc, ok := store.ParseLocation(location)
			if !ok {
				return fmt.Errorf("unknown location %q", location)
			}
			n, ok := store.ParseNeed(need)
			if !ok {
				return fmt.Errorf("unknown need %q", need)
			}

			cfg := config.Load()
			if err := cfg.ValidateProviderKeys(); err != nil {
				return err
			}
			if cmd.Flags().Changed("snippets") {
				cfg.Ai.IncludeSnippets = snippets
			}

			res := run(cmd.Context(), cfg, store.QueryContext{Location: loc, Need: n}, strings.Join(args, " "))
			return printResult(res, plain)
		},
	}

	cmd.Flags().StringVar(&location, "location", string(store.LocationSingapore), "Where the asker is from (Singapore, Others)")
	cmd.Flags().StringVar(&need, "need", string(store.NeedCPF), "Topic of the question (CPF)")
	cmd.Flags().BoolVar(&plain, "plain", false, "Print the raw Markdown answer")
	cmd.Flags().BoolVar(&snippets, "snippets", false, "Include result snippets in the prompt")
	return cmd
}

func run(ctx context.Context, cfg *config.Config, qctx store.QueryContext, query string) *dto.AskResponse {
	log := logger.NewIsolatedLogger(cfg.App.LogFilePath)
	defer log.Sync()

	searcher := search.NewGoogleCSEClient(cfg.Keys.GoogleSearch, cfg.Keys.GoogleCSEID, cfg.Search.BaseURL, cfg.Search.Timeout)
	provider := openai.NewProvider(cfg.Keys.OpenAI, cfg.Ai.BaseURL, cfg.Ai.Model, cfg.Ai.Timeout)
	composer := answer.NewPromptComposer(provider, cfg.Ai.IncludeSnippets)

	sessions := memory.NewSessionRepository(cfg.Session.TTL)
	askService := service.NewAskService(searcher, composer, render.NewMarkdown(), sessions, events.NopPublisher{}, log)

	// operator-run; the gate protects the shared web deployment only
	session := store.NewSession(uuid.NewString())
	session.Gate = store.GateGranted
	session.SetContext(qctx)

	color.Cyan("%s", constant.MsgSearching)
	return askService.Ask(ctx, session, query)
}

func printResult(res *dto.AskResponse, plain bool) error {
	if res.Error != "" {
		color.Red("%s", res.Error)
	}
	if res.Warning != "" {
		color.Yellow("%s", res.Warning)
	}

	switch res.State {
	case constant.AskStateAnswered:
		color.Green("%s", res.Notice)
		out := res.Answer
		if !plain {
			r, err := glamour.NewTermRenderer(
				glamour.WithAutoStyle(),
				glamour.WithWordWrap(100),
			)
			if err == nil {
				if rendered, err := r.Render(res.Answer); err == nil {
					out = rendered
				}
			}
		}
		fmt.Println(out)

		fmt.Println("Sources:")
		for _, src := range res.Sources {
			fmt.Printf("  - %s\n    %s\n", src.Title, color.BlueString(src.URL))
		}
		return nil
	case constant.AskStateError:
		return errors.New("no answer was produced")
	default:
		return nil
	}
}
