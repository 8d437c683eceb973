package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/solatis/formforge/internal/lookup"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage the lookup-table catalog",
}

var catalogMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending catalog migrations",
	RunE:  runCatalogMigrate,
}

var catalogStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show catalog migration status",
	RunE:  runCatalogStatus,
}

var (
	addTableName    string
	addTableColumns string
)

var catalogAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Register a lookup table definition",
	RunE:  runCatalogAdd,
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered lookup tables",
	RunE:  runCatalogList,
}

func init() {
	rootCmd.AddCommand(catalogCmd)
	catalogCmd.AddCommand(catalogMigrateCmd)
	catalogCmd.AddCommand(catalogStatusCmd)
	catalogCmd.AddCommand(catalogAddCmd)
	catalogCmd.AddCommand(catalogListCmd)

	catalogAddCmd.Flags().StringVar(&addTableName, "name", "", "table identifier, e.g. IFSC_MASTER (required)")
	catalogAddCmd.Flags().StringVar(&addTableColumns, "columns", "", "comma-separated column names, key column first (required)")
	catalogAddCmd.MarkFlagRequired("name")
	catalogAddCmd.MarkFlagRequired("columns")
}

func runCatalogMigrate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.CatalogURL == "" {
		return fmt.Errorf("--catalog-url required")
	}
	db, err := lookup.Open(cfg.CatalogURL)
	if err != nil {
		return fmt.Errorf("failed to open catalog: %w", err)
	}
	defer db.Close()

	if err := lookup.MigrateUp(db); err != nil {
		return err
	}
	fmt.Println("catalog migrations applied")
	return nil
}

func runCatalogStatus(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.CatalogURL == "" {
		return fmt.Errorf("--catalog-url required")
	}
	db, err := lookup.Open(cfg.CatalogURL)
	if err != nil {
		return fmt.Errorf("failed to open catalog: %w", err)
	}
	defer db.Close()

	statuses, err := lookup.MigrateStatus(db)
	if err != nil {
		return err
	}
	for _, s := range statuses {
		state := "pending"
		if s.Applied {
			state = "applied"
		}
		fmt.Printf("%-40s %s\n", s.ID, state)
	}
	return nil
}

func runCatalogList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.CatalogURL == "" {
		return fmt.Errorf("--catalog-url required")
	}
	db, err := lookup.Open(cfg.CatalogURL)
	if err != nil {
		return fmt.Errorf("failed to open catalog: %w", err)
	}
	defer db.Close()

	catalog, err := lookup.NewCatalog(db)
	if err != nil {
		return err
	}
	names, err := catalog.Names()
	if err != nil {
		return err
	}
	for _, name := range names {
		fmt.Println(name)
	}
	return nil
}

func runCatalogAdd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.CatalogURL == "" {
		return fmt.Errorf("--catalog-url required")
	}
	db, err := lookup.Open(cfg.CatalogURL)
	if err != nil {
		return fmt.Errorf("failed to open catalog: %w", err)
	}
	defer db.Close()

	catalog, err := lookup.NewCatalog(db)
	if err != nil {
		return err
	}

	columns := strings.Split(addTableColumns, ",")
	for i := range columns {
		columns[i] = strings.TrimSpace(columns[i])
	}
	if err := catalog.AddTable(addTableName, columns); err != nil {
		return err
	}
	fmt.Printf("registered %s with %d columns\n", addTableName, len(columns))
	return nil
}
