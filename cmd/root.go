package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sort"

	"ctxllm/pkg/gather"
	"ctxllm/pkg/logging"
	"ctxllm/pkg/templates"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	extensions    []string
	excludes      []string
	maxFileSize   int64
	totalSizeCap  int64
	includeBinary bool
	noGitignore   bool
	stripComments bool
	noTree        bool
	models        []string
	ref           string
	templateName  string
	templateFile  string
	configFile    string
	outputFile    string
	copyFlag      bool
	printFlag     bool
	verbose       bool
)

// RootCmd is the base command; with no subcommand it runs the flattening
// pipeline over the given source.
var RootCmd = &cobra.Command{
	Use:   "ctxllm [source]",
	Short: "ctxllm flattens a folder or repository into one LLM-ready text blob",
	Long: `ctxllm takes a local directory, a GitHub repository URL, or any git URL
and flattens it into a single text document with per-file headers, suitable
for pasting into an LLM chat. It filters by extension, path and size, skips
binary files, enforces a total size cap, and estimates token counts per
model family.

The GITHUB_TOKEN environment variable (or a .env file) raises the GitHub
API rate limit; without it requests are anonymous.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: false,
	RunE:          run,
}

// Execute runs the root command.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	RootCmd.Flags().StringSliceVarP(&extensions, "ext", "e", nil, "Extensions to include, e.g. go,md (default: all)")
	RootCmd.Flags().StringSliceVarP(&excludes, "exclude", "x", nil, "Additional path globs to exclude")
	RootCmd.Flags().Int64Var(&maxFileSize, "max-file-size", 0, "Per-file size limit in bytes (0 = config default)")
	RootCmd.Flags().Int64Var(&totalSizeCap, "total-cap", 0, "Total content cap in bytes (0 = config default)")
	RootCmd.Flags().BoolVar(&includeBinary, "include-bin", false, "Include files that look binary")
	RootCmd.Flags().BoolVar(&noGitignore, "no-gitignore", false, "Do not honor the root .gitignore")
	RootCmd.Flags().BoolVar(&stripComments, "strip-comments", false, "Strip comments from known languages")
	RootCmd.Flags().BoolVar(&noTree, "no-tree", false, "Omit the directory tree preamble")
	RootCmd.Flags().StringSliceVarP(&models, "models", "m", nil, "Model families to estimate tokens for")
	RootCmd.Flags().StringVarP(&ref, "ref", "b", "", "Branch, tag or commit for remote sources")
	RootCmd.Flags().StringVarP(&templateName, "template", "t", "", "Prompt template to wrap the output with")
	RootCmd.Flags().StringVar(&templateFile, "templates-file", ".ctxllm.templates.yaml", "Prompt templates YAML file")
	RootCmd.Flags().StringVar(&configFile, "config", gather.ConfigFileName, "Config file path")
	RootCmd.Flags().StringVarP(&outputFile, "output", "f", "", "Write the document to a file")
	RootCmd.Flags().BoolVarP(&copyFlag, "copy", "c", false, "Copy the document to the clipboard")
	RootCmd.Flags().BoolVarP(&printFlag, "print", "p", false, "Print the document to stdout (default)")
	RootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Verbose logging")
}

func run(cmd *cobra.Command, args []string) error {
	logger, err := logging.Setup(verbose)
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	defer logger.Sync()

	// .env is optional; only used to pick up GITHUB_TOKEN.
	_ = godotenv.Load()

	mode, err := resolveOutputMode(outputFile, copyFlag, printFlag)
	if err != nil {
		return err
	}

	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	target := "."
	if len(args) > 0 {
		target = args[0]
	}
	src, cleanup, err := selectSource(ctx, target, cfg, logger)
	if err != nil {
		return err
	}
	if cleanup != nil {
		defer cleanup()
	}

	res, err := gather.Run(ctx, src, cfg, logger)
	if err != nil {
		if errors.Is(err, gather.ErrRateLimited) && res != nil {
			fmt.Fprintf(os.Stderr, "warning: %v; output below is partial\n", err)
		} else {
			return err
		}
	}

	text := res.Text
	if templateName != "" {
		mgr, err := templates.Load(templateFile)
		if err != nil {
			return err
		}
		text, err = mgr.Apply(templateName, text)
		if err != nil {
			return err
		}
	}

	printSummary(res, cfg)
	return deliver(mode, text)
}

// buildConfig merges the config file with explicitly set flags.
func buildConfig(cmd *cobra.Command) (gather.Config, error) {
	cfg, err := gather.LoadConfigFile(configFile)
	if err != nil {
		return cfg, err
	}

	flags := cmd.Flags()
	if flags.Changed("ext") {
		cfg.AllowedExtensions = extensions
	}
	if flags.Changed("exclude") {
		cfg.ExcludedPaths = append(cfg.ExcludedPaths, excludes...)
	}
	if flags.Changed("max-file-size") {
		cfg.MaxFileSize = maxFileSize
	}
	if flags.Changed("total-cap") {
		cfg.TotalSizeCap = totalSizeCap
	}
	if flags.Changed("include-bin") {
		cfg.SkipBinary = !includeBinary
	}
	if flags.Changed("no-gitignore") {
		cfg.RespectGitignore = !noGitignore
	}
	if flags.Changed("strip-comments") {
		cfg.StripComments = stripComments
	}
	if flags.Changed("no-tree") {
		cfg.IncludeTree = !noTree
	}
	if flags.Changed("models") {
		cfg.Models = models
	}
	return cfg, cfg.Validate()
}

// selectSource picks the source variant once, up front: an existing local
// directory wins, then clonable git URLs, then GitHub identifiers.
func selectSource(ctx context.Context, target string, cfg gather.Config, logger *zap.Logger) (gather.Source, func(), error) {
	if info, err := os.Stat(target); err == nil && info.IsDir() {
		src, err := gather.NewLocalSource(target, cfg.RespectGitignore, logger)
		return src, nil, err
	}
	if gather.IsGitURL(target) {
		src, err := gather.NewGitSource(ctx, target, ref, cfg.RespectGitignore, logger)
		if err != nil {
			return nil, nil, err
		}
		return src, src.Cleanup, nil
	}
	if owner, repo, parsedRef, ok := gather.ParseGitHubURL(target); ok {
		if ref != "" {
			parsedRef = ref
		}
		// Token read once here; the pipeline never touches the environment.
		token := os.Getenv("GITHUB_TOKEN")
		return gather.NewGitHubSource(owner, repo, parsedRef, token, logger), nil, nil
	}
	return nil, nil, fmt.Errorf("source %q is neither a directory, a git URL, nor a GitHub repository", target)
}

// printSummary reports run statistics on stderr so stdout stays paste-clean.
func printSummary(res *gather.Result, cfg gather.Config) {
	doc := res.Document
	fmt.Fprintf(os.Stderr, "files: %d, content bytes: %d\n", doc.Files(), doc.TotalBytes())
	if len(res.Skipped) > 0 {
		fmt.Fprintf(os.Stderr, "skipped %d unreadable/binary files\n", len(res.Skipped))
	}
	if doc.CapReached() {
		fmt.Fprintf(os.Stderr, "%d files skipped due to total-size limit (%d bytes)\n",
			doc.SkippedAtCap(), cfg.TotalSizeCap)
	}
	if res.Aborted {
		fmt.Fprintln(os.Stderr, "run interrupted; output contains files processed so far")
	}

	names := make([]string, 0, len(res.Tokens))
	for name := range res.Tokens {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		count := res.Tokens[name]
		if cost, ok := gather.EstimateCost(count, name); ok {
			fmt.Fprintf(os.Stderr, "~%d tokens for %s (est. %s)\n", count, name, gather.FormatCost(cost))
			continue
		}
		fmt.Fprintf(os.Stderr, "~%d tokens for %s\n", count, name)
	}
}

func deliver(mode string, text string) error {
	switch mode {
	case outputModeFile:
		if err := os.WriteFile(outputFile, []byte(text), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", outputFile, err)
		}
		fmt.Fprintf(os.Stderr, "output written to %s\n", outputFile)
		return nil
	case outputModeCopy:
		if err := copyToClipboard(text); err != nil {
			return err
		}
		fmt.Fprintln(os.Stderr, "output copied to clipboard")
		return nil
	default:
		fmt.Print(text)
		return nil
	}
}
