package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/welfarelens/backend/internal/domain"
	"github.com/welfarelens/backend/internal/infrastructure/logging"
	"github.com/welfarelens/backend/internal/infrastructure/openfoodfacts"
	"github.com/welfarelens/backend/internal/infrastructure/patterns"
	"github.com/welfarelens/backend/internal/usecase"
)

// maxRecords bounds how many records one analyze run accepts.
const maxRecords = 10000

type rootOptions struct {
	patternsFile string
	logLevel     string
	debug        bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:          "welfarectl",
		Short:        "Classify animal-derived products by farming method",
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.patternsFile, "patterns", "", "keyword table file (default: embedded table)")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "log every cascade decision")

	rootCmd.AddCommand(analyzeCmd(opts))
	rootCmd.AddCommand(fetchCmd(opts))
	rootCmd.AddCommand(patternsCmd(opts))

	return rootCmd
}

// newService builds a welfare service without cache.
func (o *rootOptions) newService(provider domain.ProductProvider, batchSize int) (*usecase.WelfareService, *patterns.Store, error) {
	logger, err := logging.New(o.logLevel, logging.FormatConsole)
	if err != nil {
		return nil, nil, err
	}
	store, err := patterns.NewStore(o.patternsFile, logger.Named("patterns"))
	if err != nil {
		return nil, nil, err
	}
	if batchSize < 1 {
		batchSize = 1
	}
	service := usecase.NewWelfareService(store, nil, provider, usecase.WelfareServiceConfig{
		MaxBatchSize:       batchSize,
		EnableDebugLogging: o.debug,
		Logger:             logger.Named("welfare"),
	})
	return service, store, nil
}

func analyzeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "analyze [file]",
		Short: "Analyze product records (one JSON object or an array) from a file or stdin",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := cmd.InOrStdin()
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				input = f
			}

			data, err := io.ReadAll(input)
			if err != nil {
				return fmt.Errorf("read input: %w", err)
			}
			records, batch, err := decodeRecords(data)
			if err != nil {
				return err
			}

			service, _, err := opts.newService(nil, len(records))
			if err != nil {
				return err
			}

			if !batch {
				analysis, err := service.Analyze(cmd.Context(), records[0])
				if errors.Is(err, domain.ErrAnimalTypeNotFound) {
					return writeJSON(cmd.OutOrStdout(), map[string]any{
						"error":          err.Error(),
						"not_applicable": true,
					})
				}
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), analysis)
			}

			results, err := service.AnalyzeBatch(cmd.Context(), records)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), results)
		},
	}
}

// decodeRecords accepts a single record or an array of records.
func decodeRecords(data []byte) ([]*domain.ProductRecord, bool, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, false, errors.New("no input")
	}

	if data[0] == '[' {
		var records []*domain.ProductRecord
		if err := json.Unmarshal(data, &records); err != nil {
			return nil, false, fmt.Errorf("decode records: %w", err)
		}
		if len(records) == 0 {
			return nil, false, errors.New("empty record array")
		}
		if len(records) > maxRecords {
			return nil, false, fmt.Errorf("too many records: %d (limit %d)", len(records), maxRecords)
		}
		return records, true, nil
	}

	var record domain.ProductRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, false, fmt.Errorf("decode record: %w", err)
	}
	return []*domain.ProductRecord{&record}, false, nil
}

func fetchCmd(opts *rootOptions) *cobra.Command {
	var (
		baseURL   string
		userAgent string
		timeout   time.Duration
	)

	cmd := &cobra.Command{
		Use:   "fetch <code>",
		Short: "Fetch a product from Open Food Facts and analyze it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := logging.New(opts.logLevel, logging.FormatConsole)
			if err != nil {
				return err
			}
			client := openfoodfacts.NewClient(openfoodfacts.Config{
				BaseURL:   baseURL,
				UserAgent: userAgent,
				Timeout:   timeout,
				Logger:    logger.Named("openfoodfacts"),
			})

			service, _, err := opts.newService(client, 1)
			if err != nil {
				return err
			}
			analysis, err := service.AnalyzeByCode(cmd.Context(), args[0])
			if err != nil {
				logger.Debug("fetch failed", zap.String("code", args[0]), zap.Error(err))
				return err
			}
			return writeJSON(cmd.OutOrStdout(), analysis)
		},
	}

	cmd.Flags().StringVar(&baseURL, "base-url", openfoodfacts.DefaultBaseURL, "Open Food Facts API base URL")
	cmd.Flags().StringVar(&userAgent, "user-agent", "welfarectl/1.0", "User-Agent sent to Open Food Facts")
	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "request timeout")
	return cmd
}

func patternsCmd(opts *rootOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "patterns",
		Short: "Print the keyword table version and per-animal counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, store, err := opts.newService(nil, 1)
			if err != nil {
				return err
			}
			repo := store.Current()
			stats := repo.Stats()

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), map[string]any{
					"version": repo.Version(),
					"animals": stats,
				})
			}

			out := cmd.OutOrStdout()
			source := store.Path()
			if source == "" {
				source = "embedded"
			}
			fmt.Fprintf(out, "version: %s (%s)\n", repo.Version(), source)
			for _, s := range stats {
				fmt.Fprintf(out, "%s: breeding_types=%d calibers=%d tags=%d keywords=%d quantity_words=%d fresh_egg_rules=%t\n",
					s.AnimalType, s.BreedingTypes, s.Calibers, s.Tags, s.Keywords, s.QuantityWords, s.FreshEggRules)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	return cmd
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
