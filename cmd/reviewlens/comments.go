package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/gregjones/httpcache"
	"github.com/spf13/cobra"

	githubadapter "github.com/ericfisherdev/reviewlens/internal/adapter/driven/github"
	sqliteadapter "github.com/ericfisherdev/reviewlens/internal/adapter/driven/sqlite"
	"github.com/ericfisherdev/reviewlens/internal/application"
	"github.com/ericfisherdev/reviewlens/internal/config"
	"github.com/ericfisherdev/reviewlens/internal/domain/model"
)

// commentsOptions holds the flag values for the comments command.
type commentsOptions struct {
	cursor            string
	sortBy            string
	group             bool
	noBots            bool
	noSuggestions     bool
	excludeAuthors    []string
	excludeNits       bool
	excludeDupes      bool
	excludeAdditional bool
}

// newCommentsCmd creates the comments command: fetch one page of aggregated
// review feedback for a PR and print it as JSON.
func newCommentsCmd(globalConfigFile *string) *cobra.Command {
	opts := &commentsOptions{}

	command := &cobra.Command{
		Use:   "comments <owner/repo> <pr-number>",
		Short: "Fetch one page of aggregated review comments for a pull request",
		Long: `Fetch one page of aggregated review feedback for a pull request and print
it to stdout as JSON. When more data exists the output carries a nextCursor
token; pass it back via --cursor to fetch the following page. The token is
opaque: do not parse it.`,
		Args:         cobra.ExactArgs(2),
		SilenceUsage: true,
		RunE: func(cobraCmd *cobra.Command, args []string) error {
			prNumber, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid PR number %q: %w", args[1], err)
			}
			return runComments(*globalConfigFile, args[0], prNumber, opts)
		},
	}

	command.Flags().StringVar(&opts.cursor, "cursor", "", "Pagination cursor from a previous page")
	command.Flags().StringVar(&opts.sortBy, "sort", "chronological", "Sort strategy (chronological, by_file, by_author, priority)")
	command.Flags().BoolVar(&opts.group, "group", false, "Group output by suggestion category")
	command.Flags().BoolVar(&opts.noBots, "no-bots", false, "Exclude automated comments")
	command.Flags().BoolVar(&opts.noSuggestions, "no-suggestions", false, "Skip review-body suggestion parsing")
	command.Flags().StringSliceVar(&opts.excludeAuthors, "exclude-author", nil, "Author logins to exclude (repeatable)")
	command.Flags().BoolVar(&opts.excludeNits, "no-nits", false, "Exclude nit suggestions")
	command.Flags().BoolVar(&opts.excludeDupes, "no-duplicates", false, "Exclude duplicate suggestions")
	command.Flags().BoolVar(&opts.excludeAdditional, "no-additional", false, "Exclude additional suggestions")

	return command
}

// runComments wires the adapters and executes one page of aggregation.
func runComments(configFile, repoFullName string, prNumber int, opts *commentsOptions) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}
	if cfg.GitHubToken == "" {
		return fmt.Errorf("no GitHub token configured (set REVIEWLENS_GITHUB_TOKEN)")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Optional persistent response cache; absent path degrades to the
	// in-memory cache with no semantic change.
	var cache httpcache.Cache
	if cfg.CachePath != "" {
		db, err := sqliteadapter.NewDB(cfg.CachePath)
		if err != nil {
			slog.Warn("opening response cache failed, using in-memory cache", "path", cfg.CachePath, "error", err)
		} else {
			defer func() {
				if closeErr := db.Close(); closeErr != nil {
					slog.Error("error closing response cache", "error", closeErr)
				}
			}()
			if err := sqliteadapter.RunMigrations(db.Writer); err != nil {
				slog.Warn("migrating response cache failed, using in-memory cache", "error", err)
			} else {
				cache = sqliteadapter.NewCacheStore(db)
			}
		}
	}

	client := githubadapter.NewClient(cfg.GitHubToken, cache)
	service := application.NewAggregationService(client, cfg.BotUsernames, cfg.PageSize)

	page, err := service.FetchPage(ctx, application.PageRequest{
		RepoFullName:     repoFullName,
		PRNumber:         prNumber,
		Cursor:           opts.cursor,
		ParseSuggestions: !opts.noSuggestions,
		Filter: application.FilterOptions{
			ExcludeBots:       opts.noBots,
			ExcludedAuthors:   opts.excludeAuthors,
			ExcludeNits:       opts.excludeNits,
			ExcludeDuplicates: opts.excludeDupes,
			ExcludeAdditional: opts.excludeAdditional,
		},
		Sort:            model.ParseSortStrategy(strings.ToLower(opts.sortBy)),
		GroupByCategory: opts.group,
	})
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(page); err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}

	return nil
}
