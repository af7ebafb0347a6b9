package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"grounded-qa-be/internal/bootstrap"
	"grounded-qa-be/internal/config"
	"grounded-qa-be/internal/pkg/logger"
	"grounded-qa-be/pkg/research"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

type askFlags struct {
	searchProvider string
	model          string
	topK           int
	trace          bool
	logFile        string
}

func main() {
	var f askFlags

	root := &cobra.Command{
		Use:   "ask [question]",
		Short: "Answer a question with the research pipeline",
		Long: "Answers one question and exits. Without a question it reads questions\n" +
			"from stdin, one per line, keeping the conversation history between them.",
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), f, strings.Join(args, " "))
		},
		SilenceUsage: true,
	}
	root.Flags().StringVar(&f.searchProvider, "provider", "", "search provider: google, serper or brave (default from SEARCH_PROVIDER)")
	root.Flags().StringVar(&f.model, "model", "", "LLM model (default from LLM_MODEL)")
	root.Flags().IntVar(&f.topK, "top-k", 0, "search results to use (default from SEARCH_TOP_K)")
	root.Flags().BoolVar(&f.trace, "trace", false, "print the visited states and research decision")
	root.Flags().StringVar(&f.logFile, "log-file", "logs/ask.log", "where pipeline logs are written")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := root.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context, f askFlags, question string) error {
	cfg := config.Load()
	if f.searchProvider != "" {
		cfg.Search.Provider = strings.ToLower(f.searchProvider)
	}
	if f.model != "" {
		cfg.Ai.LLMModel = f.model
	}
	if f.topK > 0 {
		cfg.Search.TopK = f.topK
	}

	log := logger.NewIsolatedLogger(f.logFile)
	defer log.Sync()

	pipeline, err := bootstrap.NewPipeline(cfg, log, bootstrap.PipelineDeps{})
	if err != nil {
		color.Red("Failed to build pipeline: %v", err)
		return err
	}

	sessionID := uuid.NewString()
	if strings.TrimSpace(question) != "" {
		_, err := ask(ctx, pipeline, sessionID, question, nil, f.trace)
		return err
	}

	var history []research.Turn
	scanner := bufio.NewScanner(os.Stdin)
	color.Cyan("Ask a question (Ctrl+D to quit)")
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			return scanner.Err()
		}
		q := strings.TrimSpace(scanner.Text())
		if q == "" {
			continue
		}
		res, err := ask(ctx, pipeline, sessionID, q, history, f.trace)
		if err != nil {
			if ctx.Err() != nil {
				return err
			}
			continue
		}
		history = res.History
	}
}

func ask(ctx context.Context, p *research.Pipeline, sessionID, question string, history []research.Turn, trace bool) (*research.Result, error) {
	res, err := p.Run(ctx, sessionID, question, history)
	if err != nil {
		color.Red("Error: %v", err)
		return nil, err
	}

	if trace {
		printTrace(res)
	}
	fmt.Println(res.FinalAnswer)
	return res, nil
}

func printTrace(res *research.Result) {
	stages := make([]string, 0, len(res.Trace))
	for _, s := range res.Trace {
		stages = append(stages, strings.ToUpper(s.String()))
	}
	s := res.State

	color.Cyan("states:   %s", strings.Join(stages, " -> "))
	if s.Decision.Override.Forced {
		color.Yellow("decision: research forced (%s, keyword %q)", s.Decision.Override.Category, s.Decision.Override.Keyword)
	} else {
		color.Yellow("decision: should_research=%t (source %s)", s.ShouldResearch, s.Decision.Source)
	}
	if s.Decision.Recovered != nil {
		color.Red("recovered: %v", s.Decision.Recovered)
	}
	if s.ShouldResearch {
		color.Yellow("query:    %s", s.SearchQuery)
		status := color.GreenString(string(s.Research.Status))
		if s.Research.Status == research.StatusFailed {
			status = color.RedString("%s (%v)", s.Research.Status, s.Research.Failure)
		}
		fmt.Printf("research: %s\n", status)
	}
	color.Yellow("draft:    %s", logger.Preview(s.DraftAnswer, 120))
	color.Green("refined:  %t", s.Refined)
	fmt.Println()
}
