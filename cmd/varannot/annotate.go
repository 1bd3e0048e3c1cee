package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/inodb/varannot/internal/annotate"
	"github.com/inodb/varannot/internal/duckdb"
	"github.com/inodb/varannot/internal/ensembl"
	"github.com/inodb/varannot/internal/output"
	"github.com/inodb/varannot/internal/vcf"
)

// annotateOptions holds the settings of one annotate run, merged from flags,
// environment and the config file.
type annotateOptions struct {
	Assembly      string        `mapstructure:"assembly"`
	Server        string        `mapstructure:"server"`
	HGVSInfile    string        `mapstructure:"hgvs-infile"`
	HGVSOutfile   string        `mapstructure:"hgvs-outfile"`
	IDsInfile     string        `mapstructure:"ids-infile"`
	IDsOutfile    string        `mapstructure:"ids-outfile"`
	CachePath     string        `mapstructure:"cache"`
	NoCache       bool          `mapstructure:"no-cache"`
	BatchSizeHGVS int           `mapstructure:"batch-size-hgvs"`
	BatchSizeIDs  int           `mapstructure:"batch-size-ids"`
	Concurrency   int           `mapstructure:"concurrency"`
	Retries       int           `mapstructure:"retries"`
	Timeout       time.Duration `mapstructure:"timeout"`
	LocusColumns  bool          `mapstructure:"locus-columns"`
	Verbose       bool          `mapstructure:"verbose"`
}

func newAnnotateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "annotate <input.vcf> <output.tsv>",
		Short: "Annotate variants in a VCF file",
		Long: `Annotate variants in a VCF file with consequence predictions and population
allele frequencies from the Ensembl REST service.

Multi-allelic records are split into one output row per alternate allele.
Rows are written in input order. Use '-' as output to write to stdout.`,
		Example: `  varannot annotate input.vcf output.tsv
  varannot annotate --assembly GRCh38 input.vcf.gz output.tsv
  varannot annotate --hgvs-outfile hgvs.json --ids-outfile ids.json input.vcf output.tsv
  varannot annotate --hgvs-infile hgvs.json --ids-infile ids.json --no-cache input.vcf output.tsv`,
		Args: usageArgs(cobra.ExactArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := viper.BindPFlags(cmd.Flags()); err != nil {
				return err
			}
			var opts annotateOptions
			if err := viper.Unmarshal(&opts); err != nil {
				return usageErrorf("invalid configuration: %v", err)
			}
			return runAnnotate(cmd, opts, args[0], args[1])
		},
	}

	f := cmd.Flags()
	f.String("assembly", "GRCh37", "Genome assembly: GRCh37 or GRCh38")
	f.String("server", "", "Ensembl REST server URL (default: chosen by assembly)")
	f.String("hgvs-infile", "", "Read VEP HGVS payloads from this JSON file instead of the service")
	f.String("hgvs-outfile", "", "Write the VEP HGVS payloads used by this run to a JSON file")
	f.String("ids-infile", "", "Read variation payloads from this JSON file instead of the service")
	f.String("ids-outfile", "", "Write the variation payloads used by this run to a JSON file")
	f.String("cache", "", "Payload cache database (default: ~/.varannot/cache.duckdb)")
	f.Bool("no-cache", false, "Do not read or write the payload cache")
	f.Int("batch-size-hgvs", ensembl.MaxEffectsBatch, "Variants per VEP HGVS request")
	f.Int("batch-size-ids", ensembl.MaxVariationsBatch, "Identifiers per variation request")
	f.Int("concurrency", 1, "Maximum requests in flight per pass")
	f.Int("retries", 3, "Retries for failed requests (rate limits and server errors)")
	f.Duration("timeout", 60*time.Second, "Timeout for a single request")
	f.Bool("locus-columns", false, "Prefix each row with chrom, pos, id, ref and alt")

	return cmd
}

func (o *annotateOptions) validate() error {
	switch strings.ToUpper(o.Assembly) {
	case "GRCH37", "GRCH38":
	default:
		return usageErrorf("unknown assembly %q (want GRCh37 or GRCh38)", o.Assembly)
	}
	if o.BatchSizeHGVS < 1 || o.BatchSizeHGVS > ensembl.MaxEffectsBatch {
		return usageErrorf("--batch-size-hgvs must be between 1 and %d", ensembl.MaxEffectsBatch)
	}
	if o.BatchSizeIDs < 1 || o.BatchSizeIDs > ensembl.MaxVariationsBatch {
		return usageErrorf("--batch-size-ids must be between 1 and %d", ensembl.MaxVariationsBatch)
	}
	if o.Concurrency < 1 {
		return usageErrorf("--concurrency must be at least 1")
	}
	if o.Retries < 0 {
		return usageErrorf("--retries must not be negative")
	}
	if o.Timeout <= 0 {
		return usageErrorf("--timeout must be positive")
	}
	return nil
}

func runAnnotate(cmd *cobra.Command, opts annotateOptions, inputPath, outputPath string) error {
	if err := opts.validate(); err != nil {
		return err
	}

	logger, err := newLogger(opts.Verbose)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer logger.Sync()

	runID := uuid.NewString()
	logger = logger.With(zap.String("run_id", runID))

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	records, err := vcf.LoadAll(inputPath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", inputPath, err)
	}
	logger.Info("loaded variants", zap.String("input", inputPath), zap.Int("records", len(records)))

	lookup, recorder, closeLookup, err := buildLookup(opts, runID, logger)
	if err != nil {
		return err
	}
	defer closeLookup()

	engine := annotate.NewEngine(lookup)
	engine.SetBatchSizes(opts.BatchSizeHGVS, opts.BatchSizeIDs)
	engine.SetConcurrency(opts.Concurrency)
	engine.SetLogger(logger)

	rows, err := engine.Run(ctx, records)
	if err != nil {
		return err
	}

	if err := writeRows(cmd.OutOrStdout(), outputPath, rows, opts.LocusColumns); err != nil {
		return err
	}
	logger.Info("wrote annotations", zap.String("output", outputPath), zap.Int("rows", len(rows)))

	if opts.HGVSOutfile != "" {
		if err := recorder.WriteEffects(opts.HGVSOutfile); err != nil {
			return fmt.Errorf("writing %s: %w", opts.HGVSOutfile, err)
		}
	}
	if opts.IDsOutfile != "" {
		if err := recorder.WriteVariations(opts.IDsOutfile); err != nil {
			return fmt.Errorf("writing %s: %w", opts.IDsOutfile, err)
		}
	}
	return nil
}

// buildLookup assembles the lookup chain for a run, innermost first:
// HTTP client, retries, payload cache, replay files, recorder.
func buildLookup(opts annotateOptions, runID string, logger *zap.Logger) (ensembl.Lookup, *ensembl.Recorder, func(), error) {
	closers := []func(){}
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	server := opts.Server
	if server == "" {
		server = ensembl.ServerURL(opts.Assembly)
	}
	client := ensembl.NewClient(server, opts.Timeout)
	client.SetLogger(logger)

	retry := ensembl.NewRetryClient(client, opts.Retries)
	retry.SetLogger(logger)

	var lookup ensembl.Lookup = retry

	if !opts.NoCache {
		path, err := cachePath(opts.CachePath)
		if err != nil {
			return nil, nil, closeAll, err
		}
		store, err := duckdb.Open(path)
		if err != nil {
			return nil, nil, closeAll, fmt.Errorf("opening cache %s: %w", path, err)
		}
		closers = append(closers, func() { store.Close() })

		cached := duckdb.NewCachingClient(store, lookup, canonicalAssembly(opts.Assembly), runID)
		cached.SetLogger(logger)
		lookup = cached
	}

	if opts.HGVSInfile != "" || opts.IDsInfile != "" {
		replay := ensembl.NewReplayClient(lookup)
		if opts.HGVSInfile != "" {
			if err := replay.LoadEffects(opts.HGVSInfile); err != nil {
				return nil, nil, closeAll, fmt.Errorf("reading %s: %w", opts.HGVSInfile, err)
			}
		}
		if opts.IDsInfile != "" {
			if err := replay.LoadVariations(opts.IDsInfile); err != nil {
				return nil, nil, closeAll, fmt.Errorf("reading %s: %w", opts.IDsInfile, err)
			}
		}
		lookup = replay
	}

	recorder := ensembl.NewRecorder(lookup)
	logger.Debug("lookup chain ready",
		zap.String("server", server),
		zap.Bool("cache", !opts.NoCache),
		zap.Bool("replay", opts.HGVSInfile != "" || opts.IDsInfile != ""))

	return recorder, recorder, closeAll, nil
}

// canonicalAssembly normalizes the assembly name used to scope cache entries.
func canonicalAssembly(assembly string) string {
	if strings.EqualFold(assembly, "GRCh37") {
		return "GRCh37"
	}
	return "GRCh38"
}

func writeRows(stdout io.Writer, path string, rows []annotate.Row, locus bool) error {
	if path == "-" {
		return writeTable(stdout, rows, locus)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	if err := writeTable(f, rows, locus); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeTable(out io.Writer, rows []annotate.Row, locus bool) error {
	w := output.NewTabWriter(out, locus)
	if err := w.WriteHeader(); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("writing rows: %w", err)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flushing output: %w", err)
	}
	return nil
}
