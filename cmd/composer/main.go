package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"composer/internal/command"
	"composer/internal/config"
	"composer/internal/watch"
)

var (
	// Global flags
	debug      bool
	configFile string

	// Generate flags; copied onto the config record only when set.
	flagProfile       string
	flagFiles         []string
	flagOutput        string
	flagDelimiter     string
	flagForce         bool
	flagWatch         bool
	flagDictName      string
	flagDictDesc      string
	flagDictVersion   string
	flagIndex         string
	flagShards        int
	flagReplicas      int
	flagSkipMetadata  bool
	flagIgnoreFields  []string
	flagDocumentType  string
	flagTableName     string
	flagSchemaName    string
	flagTextThreshold int

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "composer",
	Short: "composer - configuration artifact generator",
	Long: `composer reads sample data files (CSV or JSON) and generates the
configuration artifacts other systems consume:

  SongSchema           Song analysis JSON schema from a sample payload
  LecternDictionary    Lectern data dictionary from CSV headers
  ElasticsearchMapping Elasticsearch index mapping from CSV or JSON
  ArrangerConfigs      Arranger base/extended/table/facets configs
  PostgresTable        CREATE TABLE statement from a sampled CSV

Field types are inferred heuristically from a single sample value per field.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	// `composer -p <profile> -f <files...>` is shorthand for `composer generate`.
	RunE: func(cmd *cobra.Command, args []string) error {
		if !cmd.Flags().Changed("profile") {
			return cmd.Help()
		}
		return runGenerate(cmd, args)
	},
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zapConfig := zap.NewProductionConfig()
		zapConfig.Encoding = "console"
		zapConfig.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		if debug {
			zapConfig.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		} else {
			zapConfig.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
		}
		var err error
		logger, err = zapConfig.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logger = logger.With(zap.String("run_id", uuid.NewString()))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// generateCmd runs one profile end to end.
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a configuration artifact from sample data",
	Long: `Runs one generation profile: validates the input files, infers field
types from sample values, assembles the artifact in memory, and writes it out.

Examples:
  composer generate -p LecternDictionary -f donors.csv -f samples.csv
  composer generate -p ElasticsearchMapping -f payload.json --index file_centric
  composer generate -p PostgresTable -f rows.csv --table donors -o ./sql`,
	RunE: runGenerate,
}

// profilesCmd lists the available profiles.
var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "List the available generation profiles",
	RunE:  runProfiles,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "composer.yaml", "Path to the optional composer config file")

	// The same generation flags hang off both commands so the root shorthand
	// and the explicit subcommand accept identical invocations.
	registerGenerateFlags(rootCmd)
	registerGenerateFlags(generateCmd)
	_ = generateCmd.MarkFlagRequired("profile")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(profilesCmd)
}

func registerGenerateFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVarP(&flagProfile, "profile", "p", "", "Generation profile (required)")
	flags.StringSliceVarP(&flagFiles, "files", "f", nil, "Input file(s); repeatable")
	flags.StringVarP(&flagOutput, "output", "o", "", "Output directory or file path")
	flags.StringVar(&flagDelimiter, "delimiter", "", "CSV delimiter (single character)")
	flags.BoolVar(&flagForce, "force", false, "Overwrite existing output without prompting")
	flags.BoolVar(&flagWatch, "watch", false, "Stay alive and regenerate when inputs change")
	flags.StringVar(&flagDictName, "name", "", "Dictionary name")
	flags.StringVar(&flagDictDesc, "description", "", "Dictionary description")
	flags.StringVar(&flagDictVersion, "dict-version", "", "Dictionary version")
	flags.StringVar(&flagIndex, "index", "", "Elasticsearch index name")
	flags.IntVar(&flagShards, "shards", 0, "Number of index shards")
	flags.IntVar(&flagReplicas, "replicas", 0, "Number of index replicas")
	flags.BoolVar(&flagSkipMetadata, "skip-metadata", false, "Skip the submission_metadata mapping block")
	flags.StringSliceVar(&flagIgnoreFields, "ignore-fields", nil, "Field names to exclude; repeatable")
	flags.StringVar(&flagDocumentType, "document-type", "", "Arranger document type (file|analysis)")
	flags.StringVar(&flagTableName, "table", "", "SQL table name")
	flags.StringVar(&flagSchemaName, "schema-name", "", "Song schema name")
	flags.IntVar(&flagTextThreshold, "text-threshold", 0, "String length above which values infer as full-text")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		renderError(os.Stderr, err)
		os.Exit(1)
	}
}

// runGenerate executes one profile: parse → validate → generate → write,
// then optionally stays alive in watch mode.
func runGenerate(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}
	applyFlags(cmd, cfg)
	cfg.Debug = debug

	profile, err := config.ParseProfile(flagProfile)
	if err != nil {
		return err
	}
	cfg.Profile = profile

	logger.Debug("configuration assembled",
		zap.String("profile", string(cfg.Profile)),
		zap.Strings("files", cfg.Files),
		zap.String("output", cfg.Output))

	gen, err := command.New(cfg.Profile)
	if err != nil {
		return err
	}
	runner := command.NewRunner(logger)

	result, err := runner.Run(ctx, gen, cfg)
	if err != nil {
		return err
	}
	if result == nil {
		fmt.Println("Nothing written.")
		return nil
	}
	renderSuccess(os.Stdout, gen.Name(), result.Paths)

	if !cfg.Watch {
		return nil
	}

	// The first write was confirmed; regeneration overwrites silently.
	cfg.Force = true
	fmt.Println("Watching for changes. Press Ctrl+C to stop.")
	err = watch.Run(ctx, logger, cfg.Files, watch.DefaultDebounce, func(ctx context.Context) error {
		_, err := runner.Run(ctx, gen, cfg)
		return err
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// applyFlags copies explicitly-set flags onto the record. Flags are the
// highest-precedence source, above env and the config file.
func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	set := cmd.Flags().Changed

	if set("files") {
		cfg.Files = flagFiles
	}
	if set("output") {
		cfg.Output = flagOutput
	}
	if set("delimiter") {
		cfg.Delimiter = flagDelimiter
	}
	if set("force") {
		cfg.Force = flagForce
	}
	if set("watch") {
		cfg.Watch = flagWatch
	}
	if set("name") {
		cfg.Dictionary.Name = flagDictName
	}
	if set("description") {
		cfg.Dictionary.Description = flagDictDesc
	}
	if set("dict-version") {
		cfg.Dictionary.Version = flagDictVersion
	}
	if set("index") {
		cfg.Index.Name = flagIndex
	}
	if set("shards") {
		cfg.Index.Shards = flagShards
	}
	if set("replicas") {
		cfg.Index.Replicas = flagReplicas
	}
	if set("skip-metadata") {
		cfg.Index.SkipMetadata = flagSkipMetadata
	}
	if set("ignore-fields") {
		cfg.Index.IgnoredFields = flagIgnoreFields
		cfg.Schema.IgnoredFields = flagIgnoreFields
	}
	if set("document-type") {
		cfg.Arranger.DocumentType = flagDocumentType
	}
	if set("table") {
		cfg.Table.Name = flagTableName
	}
	if set("schema-name") {
		cfg.Schema.Name = flagSchemaName
	}
	if set("text-threshold") {
		cfg.TextThreshold = flagTextThreshold
	}
}

// runProfiles lists each profile with its input constraints.
func runProfiles(cmd *cobra.Command, args []string) error {
	fmt.Println("Available profiles:")
	for _, gen := range command.All() {
		fmt.Printf("  %-22s %s\n", gen.Name(), command.Constraints(gen))
	}
	return nil
}
