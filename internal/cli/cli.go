package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	pgxvector "github.com/pgvector/pgvector-go/pgx"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/cahlchang/jp-to-en/internal/config"
	"github.com/cahlchang/jp-to-en/internal/detector"
	"github.com/cahlchang/jp-to-en/internal/diff"
	"github.com/cahlchang/jp-to-en/internal/filewalker"
	"github.com/cahlchang/jp-to-en/internal/glossary"
	"github.com/cahlchang/jp-to-en/internal/memory"
	"github.com/cahlchang/jp-to-en/internal/parser"
	"github.com/cahlchang/jp-to-en/internal/pipeline"
	"github.com/cahlchang/jp-to-en/internal/rag"
	"github.com/cahlchang/jp-to-en/internal/seed"
	"github.com/cahlchang/jp-to-en/internal/translation"
)

// Execute runs the CLI application.
func Execute() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	rootCmd := &cobra.Command{
		Use:          "jp2en",
		Short:        "Translate Japanese comments in source code to English",
		Long:         "jp2en finds Japanese text inside source-code comments, translates it via the Gemini API, and rewrites the comments in place without touching anything else.",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(translateCmd())
	rootCmd.AddCommand(scanCmd())
	rootCmd.AddCommand(seedCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

type runFlags struct {
	recursive bool
	outputDir string
	dryRun    bool
	verbose   bool
	quiet     bool
	apiKey    string
	workers   int
}

func (f *runFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVarP(&f.recursive, "recursive", "r", false, "Process directories recursively")
	cmd.Flags().StringVarP(&f.outputDir, "output-dir", "o", "", "Write updated files under this directory instead of in place")
	cmd.Flags().BoolVarP(&f.dryRun, "dry-run", "d", false, "Show changes without modifying files")
	cmd.Flags().BoolVarP(&f.verbose, "verbose", "v", false, "Enable verbose output")
	cmd.Flags().BoolVarP(&f.quiet, "quiet", "q", false, "Suppress all output except errors")
	cmd.Flags().StringVarP(&f.apiKey, "api-key", "k", "", "Gemini API key (overrides GEMINI_API_KEY)")
	cmd.Flags().IntVar(&f.workers, "workers", 0, "Number of files processed in parallel (default from WORKER_COUNT)")
}

func (f *runFlags) applyLogLevel() {
	switch {
	case f.verbose:
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case f.quiet:
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

func translateCmd() *cobra.Command {
	flags := &runFlags{}
	cmd := &cobra.Command{
		Use:   "translate [paths...]",
		Short: "Translate Japanese comments in the given files or directories",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTranslate(args, flags)
		},
	}
	flags.register(cmd)
	return cmd
}

func scanCmd() *cobra.Command {
	flags := &runFlags{}
	cmd := &cobra.Command{
		Use:   "scan [paths...]",
		Short: "Report Japanese comment spans without translating",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(args, flags)
		},
	}
	cmd.Flags().BoolVarP(&flags.recursive, "recursive", "r", false, "Process directories recursively")
	cmd.Flags().BoolVarP(&flags.verbose, "verbose", "v", false, "Enable verbose output")
	cmd.Flags().BoolVarP(&flags.quiet, "quiet", "q", false, "Suppress all output except errors")
	return cmd
}

func seedCmd() *cobra.Command {
	var initGlossary bool
	cmd := &cobra.Command{
		Use:   "seed <pairs.tsv>",
		Short: "Import reviewed translation pairs into the translation memory",
		Long: `Imports tab-separated source/translation pairs into the Postgres-backed
translation memory and, when embeddings are configured, into the vector
store used for similarity retrieval.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(args[0], initGlossary)
		},
	}
	cmd.Flags().BoolVar(&initGlossary, "init-glossary", false, "Also seed the builtin terminology glossary (requires NEO4J_URI)")
	return cmd
}

// setupContext creates a context cancelled on SIGINT/SIGTERM.
func setupContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		log.Warn().Msg("Received shutdown signal, cancelling...")
		cancel()
	}()

	return ctx, cancel
}

// stores holds the optional external integrations for one run.
type stores struct {
	pool     *pgxpool.Pool
	neo4j    neo4j.DriverWithContext
	memory   *memory.Store
	vectors  *rag.VectorStore
	embedder *rag.EmbeddingClient
	glossary *glossary.Glossary
}

func (s *stores) close(ctx context.Context) {
	if s.pool != nil {
		s.pool.Close()
	}
	if s.neo4j != nil {
		_ = s.neo4j.Close(ctx)
	}
}

// initStores connects whatever DATABASE_URL and NEO4J_URI are configured
// for. Both are optional: without them the pipeline runs with a
// process-local memory and no retrieval context.
func initStores(ctx context.Context, cfg *config.Config) (*stores, error) {
	s := &stores{}

	if cfg.DatabaseURL != "" {
		poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("parse DATABASE_URL: %w", err)
		}
		if cfg.EmbeddingBaseURL != "" {
			poolCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
				if err := pgxvector.RegisterTypes(ctx, conn); err != nil {
					// Extension not installed yet; EnsureSchema creates it.
					log.Warn().Err(err).Msg("pgvector types not registered")
				}
				return nil
			}
		}
		pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
		if err != nil {
			return nil, fmt.Errorf("connect PostgreSQL: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("ping PostgreSQL: %w", err)
		}
		log.Info().Msg("Connected to PostgreSQL")
		s.pool = pool

		if cfg.EmbeddingBaseURL != "" {
			s.vectors = rag.NewVectorStore(pool, cfg.EmbeddingDimensions)
			if err := s.vectors.EnsureSchema(ctx); err != nil {
				s.close(ctx)
				return nil, err
			}
			embeddingKey := cfg.EmbeddingAPIKey
			if embeddingKey == "" {
				embeddingKey = cfg.GeminiAPIKey
			}
			s.embedder = rag.NewEmbeddingClient(embeddingKey, cfg.EmbeddingModel, cfg.EmbeddingBaseURL, cfg.EmbeddingDimensions)
		}
	}

	s.memory = memory.NewStore(s.pool)
	if err := s.memory.EnsureSchema(ctx); err != nil {
		s.close(ctx)
		return nil, err
	}

	if cfg.Neo4jURI != "" {
		driver, err := neo4j.NewDriverWithContext(cfg.Neo4jURI, neo4j.BasicAuth(cfg.Neo4jUser, cfg.Neo4jPassword, ""))
		if err != nil {
			s.close(ctx)
			return nil, fmt.Errorf("connect Neo4j: %w", err)
		}
		if err := driver.VerifyConnectivity(ctx); err != nil {
			_ = driver.Close(ctx)
			s.close(ctx)
			return nil, fmt.Errorf("verify Neo4j connectivity: %w", err)
		}
		log.Info().Msg("Connected to Neo4j")
		s.neo4j = driver
		s.glossary = glossary.New(driver)
	}

	return s, nil
}

// runTranslate handles the `translate` command.
func runTranslate(paths []string, flags *runFlags) error {
	flags.applyLogLevel()

	ctx, cancel := setupContext()
	defer cancel()

	cfg := config.Load()

	apiKey := flags.apiKey
	if apiKey == "" {
		apiKey = cfg.GeminiAPIKey
	}
	if apiKey == "" {
		return fmt.Errorf("no Gemini API key: use --api-key or set GEMINI_API_KEY")
	}

	st, err := initStores(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.close(ctx)

	if err := st.memory.Preload(ctx); err != nil {
		log.Warn().Err(err).Msg("Failed to preload translation memory")
	}

	backend := translation.NewGeminiClient(apiKey, cfg.TranslationModel)
	if st.vectors != nil || st.glossary != nil {
		var terms rag.TermSource
		if st.glossary != nil {
			terms = st.glossary
		}
		backend.SetContextProvider(rag.NewRetriever(st.vectors, st.embedder, terms, 3))
	}

	orchestrator := translation.NewOrchestrator(backend, cfg.MaxRetries, cfg.BaseDelay, cfg.InterCallDelay)

	coordinator := pipeline.NewCoordinator(
		parser.NewRegistry(),
		detector.New(detector.NewLinguaEstimator(), cfg.MinConfidence, cfg.ContextWindow),
		orchestrator,
		st.memory,
		pipeline.Options{OutputDir: flags.outputDir, DryRun: flags.dryRun},
	)

	files, err := expandPaths(paths, flags.recursive)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no files found to process")
	}
	log.Info().Int("count", len(files)).Msg("Discovered files")

	workers := flags.workers
	if workers <= 0 {
		workers = cfg.WorkerCount
	}

	printer := diff.NewPrinter(os.Stdout)
	bar := newBar(len(files), flags)

	summary := coordinator.ProcessAll(ctx, files, workers, func(r pipeline.FileResult) {
		if bar != nil {
			_ = bar.Add(1)
		}
		if (flags.verbose || flags.dryRun) && r.Changed {
			if err := printer.FileDiff(r.Path, r.OriginalContent, r.UpdatedContent); err != nil {
				log.Warn().Err(err).Str("path", r.Path).Msg("Failed to render diff")
			}
		}
	})
	if bar != nil {
		_ = bar.Finish()
	}

	if !flags.quiet {
		printer.Summary(summary.Processed, summary.ChangedFiles, summary.TranslatedUnits, summary.SkippedFiles, summary.ErroredFiles)
	}

	if summary.Processed == 0 {
		return fmt.Errorf("no files were processed")
	}
	if summary.ErroredFiles == summary.Processed {
		return fmt.Errorf("all %d processed files errored", summary.Processed)
	}
	return nil
}

// runScan handles the `scan` command: detection only, no API calls.
func runScan(paths []string, flags *runFlags) error {
	flags.applyLogLevel()

	registry := parser.NewRegistry()
	det := detector.New(detector.NewLinguaEstimator(), config.Load().MinConfidence, 0)

	files, err := expandPaths(paths, flags.recursive)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no files found to scan")
	}

	totalFiles := 0
	totalSpans := 0
	for _, path := range files {
		p, ok := registry.ForFile(path)
		if !ok {
			continue
		}
		comments, err := p.ExtractFile(path)
		if err != nil {
			log.Error().Err(err).Str("path", path).Msg("Scan failed")
			continue
		}
		totalFiles++

		for _, cm := range comments {
			for _, sp := range det.Detect(cm.Text) {
				totalSpans++
				fmt.Printf("%s:%d: %s\n", path, cm.Line, sp.Text)
			}
		}
	}

	log.Info().
		Int("files", totalFiles).
		Int("spans", totalSpans).
		Msg("Scan complete")
	return nil
}

// runSeed handles the `seed` command.
func runSeed(path string, initGlossary bool) error {
	ctx, cancel := setupContext()
	defer cancel()

	cfg := config.Load()
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("seeding requires DATABASE_URL: a process-local memory would not outlive this command")
	}

	st, err := initStores(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.close(ctx)

	if initGlossary {
		if st.glossary == nil {
			return fmt.Errorf("--init-glossary requires NEO4J_URI")
		}
		if err := st.glossary.EnsureSchema(ctx); err != nil {
			return err
		}
		if err := st.glossary.SeedBuiltin(ctx); err != nil {
			return err
		}
		terms, err := st.glossary.All(ctx)
		if err != nil {
			return err
		}
		log.Info().Int("terms", len(terms)).Msg("Glossary ready")
	}

	pairs, err := seed.LoadTSV(path)
	if err != nil {
		return err
	}
	if len(pairs) == 0 {
		log.Warn().Msg("No translation pairs found in seed file")
		return nil
	}

	importer := seed.NewImporter(st.memory, st.vectors, st.embedder)
	if err := importer.Import(ctx, pairs, 32); err != nil {
		return err
	}

	log.Info().Int("pairs", len(pairs)).Msg("Seed import complete")
	return nil
}

func expandPaths(paths []string, recursive bool) ([]string, error) {
	if len(paths) == 0 {
		paths = []string{"."}
	}
	return filewalker.New().Expand(paths, recursive)
}

func newBar(total int, flags *runFlags) *progressbar.ProgressBar {
	if flags.quiet || flags.verbose {
		return nil
	}
	return progressbar.NewOptions(total,
		progressbar.OptionSetDescription("Processing files"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionClearOnFinish(),
	)
}
