package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/solatis/formforge/internal/lookup"
	"github.com/solatis/formforge/internal/populate"
	"github.com/solatis/formforge/internal/rules"
	"github.com/solatis/formforge/internal/types"
)

const Version = "0.1.0"

var (
	inputPath  string
	outputPath string
	refsPath   string
	reportPath string
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract form-fill rules from a BUD document into a schema",
	RunE:  runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)
	extractCmd.Flags().StringVar(&inputPath, "input", "", "input document JSON (required)")
	extractCmd.Flags().StringVar(&outputPath, "output", "", "output schema JSON (default: stdout)")
	extractCmd.Flags().StringVar(&refsPath, "refs", "", "intra-panel references JSON")
	extractCmd.Flags().StringVar(&reportPath, "report", "", "extraction report JSON")
	extractCmd.MarkFlagRequired("input")
}

func runExtract(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if reportPath != "" {
		cfg.ReportPath = reportPath
	}

	logger, err := buildLogger(cfg)
	if err != nil {
		return err
	}
	defer logger.Sync()
	logger.Info("starting extraction", zap.String("version", Version), zap.String("input", inputPath))

	var doc types.Document
	if err := readJSON(inputPath, &doc); err != nil {
		return fmt.Errorf("failed to read input document: %w", err)
	}

	var refs populate.PanelRefs
	if refsPath != "" {
		if err := readJSON(refsPath, &refs); err != nil {
			return fmt.Errorf("failed to read intra-panel references: %w", err)
		}
	}

	var lookups rules.LookupResolver
	if cfg.CatalogURL != "" {
		db, err := lookup.Open(cfg.CatalogURL)
		if err != nil {
			return fmt.Errorf("failed to open lookup catalog: %w", err)
		}
		defer db.Close()
		catalog, err := lookup.NewCatalog(db)
		if err != nil {
			return fmt.Errorf("failed to load lookup catalog: %w", err)
		}
		lookups = catalog
	}

	populator := populate.New(lookups, refs, logger)
	out, report, err := populator.Populate(&doc)
	if err != nil {
		return fmt.Errorf("extraction failed: %w", err)
	}

	if err := writeJSON(outputPath, out); err != nil {
		return fmt.Errorf("failed to write schema: %w", err)
	}
	if cfg.ReportPath != "" {
		if err := writeJSON(cfg.ReportPath, report); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
	}

	return nil
}

// readJSON loads a JSON file into dest.
func readJSON(path string, dest any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dest)
}

// writeJSON marshals v with indentation to path, or stdout when path is empty.
func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	if path == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
