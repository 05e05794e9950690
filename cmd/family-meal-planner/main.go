package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"family-meal-planner/internal/app"
	"family-meal-planner/internal/config"
	"family-meal-planner/internal/planner"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Global flags
	verbose       bool
	dbPath        string
	householdFile string
	archiveDir    string

	// Shared plan flags
	weekFlag    string
	variantFlag int

	logger      *zap.Logger
	application *app.App
)

var rootCmd = &cobra.Command{
	Use:   "family-meal-planner",
	Short: "Deterministic weekly dinner planning for one household",
	Long: `family-meal-planner turns a household profile and a recipe catalog into a
Monday-to-Sunday dinner plan.

Planning is deterministic: the same household, week, and catalog always
produce the same plan, and re-rolling a single day never disturbs the rest
of the week. Allergies and dietary styles are hard constraints; everything
else (variety, cook time, seasonality, leftovers) is scored and balanced.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zcfg := zap.NewProductionConfig()
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		cfg := config.NewFromEnv()
		if dbPath != "" {
			cfg.DBPath = dbPath
		}
		if householdFile != "" {
			cfg.HouseholdFile = householdFile
		}
		if archiveDir != "" {
			cfg.ArchiveDir = archiveDir
		}

		application, err = app.NewApp(cfg, logger)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if application != nil {
			_ = application.Close()
		}
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Generate, inspect, and adjust weekly plans",
}

var planGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Plan the week and store the result",
	Long: `Generates a dinner plan for the target week and stores it.

Requesting an already planned week returns the stored plan unchanged; use
--force to regenerate it, or --variant to keep alternatives side by side.
Days can be pinned up front with --lock, e.g. --lock friday=pizza-night.`,
	RunE: runPlanGenerate,
}

var planSwapCmd = &cobra.Command{
	Use:   "swap [day]",
	Short: "Re-roll a single day of the stored plan",
	Long: `Re-rolls one day of an already generated week. Every other day is pinned,
so the rest of the week never changes. Swapping the same day again is
deterministic and yields the same result.`,
	Args: cobra.ExactArgs(1),
	RunE: runPlanSwap,
}

var planShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the stored plan for a week",
	RunE:  runPlanShow,
}

var planExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the stored plan to a JSON snapshot file",
	RunE:  runPlanExport,
}

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage the recipe catalog",
}

var catalogImportCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Import a YAML or JSON recipe catalog",
	Args:  cobra.ExactArgs(1),
	RunE:  runCatalogImport,
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the stored recipe catalog",
	RunE:  runCatalogList,
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Print the seed a generate call would use",
	RunE:  runSeed,
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show catalog size, recent plans, and run metrics",
	RunE:  runStatus,
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Manage recorded run metrics",
}

var metricsCleanupDays int

var metricsCleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Remove old metric records",
	RunE:  runMetricsCleanup,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "SQLite database path (default $MEAL_PLANNER_DB_PATH or data/meals.db)")
	rootCmd.PersistentFlags().StringVar(&householdFile, "household", "", "Household YAML file (default $MEAL_PLANNER_HOUSEHOLD_FILE or household.yaml)")
	rootCmd.PersistentFlags().StringVar(&archiveDir, "archive", "", "Directory for exported plan snapshots")

	for _, c := range []*cobra.Command{planGenerateCmd, planSwapCmd, planShowCmd, planExportCmd, seedCmd} {
		c.Flags().StringVar(&weekFlag, "week", "", "Any date inside the target week, YYYY-MM-DD (default: next week)")
		c.Flags().IntVar(&variantFlag, "variant", 0, "Plan variant to address")
	}
	planGenerateCmd.Flags().Bool("force", false, "Regenerate even if the week is already planned")
	planGenerateCmd.Flags().StringArray("lock", nil, "Pin a day to a recipe, day=recipe-id (repeatable)")
	metricsCleanupCmd.Flags().IntVar(&metricsCleanupDays, "days", 90, "Keep records for the last N days")

	planCmd.AddCommand(planGenerateCmd, planSwapCmd, planShowCmd, planExportCmd)
	catalogCmd.AddCommand(catalogImportCmd, catalogListCmd)
	metricsCmd.AddCommand(metricsCleanupCmd)
	rootCmd.AddCommand(planCmd, catalogCmd, seedCmd, statusCmd, metricsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// resolveWeek interprets the --week flag; unset means the upcoming week.
func resolveWeek() (time.Time, error) {
	if weekFlag == "" {
		return planner.NormalizeToMonday(time.Now()).AddDate(0, 0, 7), nil
	}
	t, err := time.ParseInLocation("2006-01-02", weekFlag, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --week %q, want YYYY-MM-DD", weekFlag)
	}
	return t, nil
}

func parseLocks(pairs []string) (map[planner.Weekday]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	locks := make(map[planner.Weekday]string, len(pairs))
	for _, pair := range pairs {
		name, id, ok := strings.Cut(pair, "=")
		if !ok || id == "" {
			return nil, fmt.Errorf("invalid --lock %q, want day=recipe-id", pair)
		}
		day, err := planner.ParseWeekday(name)
		if err != nil {
			return nil, err
		}
		locks[day] = strings.TrimSpace(id)
	}
	return locks, nil
}

func runPlanGenerate(cmd *cobra.Command, args []string) error {
	week, err := resolveWeek()
	if err != nil {
		return err
	}
	force, _ := cmd.Flags().GetBool("force")
	lockPairs, _ := cmd.Flags().GetStringArray("lock")
	locks, err := parseLocks(lockPairs)
	if err != nil {
		return err
	}

	stored, err := application.GenerateWeekPlan(cmd.Context(), week, variantFlag, locks, force)
	if err != nil {
		return err
	}
	printPlan(stored)
	return nil
}

func runPlanSwap(cmd *cobra.Command, args []string) error {
	day, err := planner.ParseWeekday(args[0])
	if err != nil {
		return err
	}
	week, err := resolveWeek()
	if err != nil {
		return err
	}

	stored, err := application.SwapDay(cmd.Context(), week, variantFlag, day)
	if err != nil {
		return err
	}
	printPlan(stored)
	return nil
}

func runPlanShow(cmd *cobra.Command, args []string) error {
	week, err := resolveWeek()
	if err != nil {
		return err
	}
	stored, err := application.ShowPlan(cmd.Context(), week, variantFlag)
	if err != nil {
		return err
	}
	printPlan(stored)
	return nil
}

func runPlanExport(cmd *cobra.Command, args []string) error {
	week, err := resolveWeek()
	if err != nil {
		return err
	}
	path, err := application.ExportPlan(cmd.Context(), week, variantFlag)
	if err != nil {
		return err
	}
	fmt.Printf("Plan exported to %s\n", path)
	return nil
}

func runCatalogImport(cmd *cobra.Command, args []string) error {
	count, warnings, err := application.ImportCatalog(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	fmt.Printf("Imported %d recipes.\n", count)
	for _, w := range warnings {
		fmt.Printf("Warning: %s\n", w)
	}
	return nil
}

func runCatalogList(cmd *cobra.Command, args []string) error {
	recipes, err := application.ListCatalog(cmd.Context())
	if err != nil {
		return err
	}
	if len(recipes) == 0 {
		fmt.Println("Catalog is empty. Import one with 'catalog import <file>'.")
		return nil
	}

	fmt.Printf("%d recipes:\n", len(recipes))
	for _, r := range recipes {
		diet := "meat"
		if r.Vegetarian {
			diet = "veg"
		}
		fmt.Printf("  %-24s %-28s %4s  %2d min  leftovers %d/5\n",
			r.ID, r.Title, diet, r.CookMinutes, r.LeftoverScore)
	}
	return nil
}

func runSeed(cmd *cobra.Command, args []string) error {
	week, err := resolveWeek()
	if err != nil {
		return err
	}
	seed, weekISO, err := application.Seed(week, variantFlag)
	if err != nil {
		return err
	}
	fmt.Printf("Week %s variant %d: seed %d\n", weekISO, variantFlag, seed)
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	report, err := application.Status(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Println("family-meal-planner status")
	fmt.Println("==========================")
	fmt.Printf("Database:  %s (%s)\n", report.DBPath, report.Health.DatabaseSize)
	fmt.Printf("Household: %s", report.HouseholdFile)
	if report.HouseholdName != "" {
		fmt.Printf(" (%s)", report.HouseholdName)
	}
	fmt.Println()
	fmt.Printf("Archive:   %s\n", report.ArchiveDir)
	fmt.Printf("Catalog:   %d recipes\n", report.CatalogCount)

	if len(report.RecentPlans) > 0 {
		fmt.Println("\nRecent plans:")
		for _, p := range report.RecentPlans {
			fmt.Printf("  week %s variant %d (seed %d)\n",
				planner.WeekStartISO(p.WeekStart), p.Variant, p.Seed)
		}
	}

	if len(report.Runs) > 0 {
		fmt.Println("\nRuns (last 30 days):")
		for _, r := range report.Runs {
			fmt.Printf("  %-8s %3d runs, avg %.0f ms, avg %.0f eligible recipes\n",
				r.Operation, r.Runs, r.AvgDurationMS, r.AvgEligible)
		}
	}

	fmt.Printf("\nProcess: %d goroutines, %d MB in use\n",
		report.Health.Goroutines, report.Health.AllocMB)
	return nil
}

func runMetricsCleanup(cmd *cobra.Command, args []string) error {
	deleted, err := application.CleanupMetrics(cmd.Context(), metricsCleanupDays)
	if err != nil {
		return err
	}
	fmt.Printf("Removed %d old metric records.\n", deleted)
	return nil
}

func printPlan(stored *planner.StoredPlan) {
	fmt.Println("\n=== WEEKLY MEAL PLAN ===")
	fmt.Printf("Week of %s (variant %d, seed %d)\n\n",
		planner.WeekStartISO(stored.WeekStart), stored.Variant, stored.Seed)

	for _, slot := range stored.Plan.Slots {
		suffix := ""
		if slot.Locked {
			suffix = " (locked)"
		}
		fmt.Printf("%-10s %s  [%s]%s\n",
			slot.Day.String()+":", slot.RecipeTitle, slot.RecipeID, suffix)
		if slot.LunchLeftoverLabel != "" {
			fmt.Printf("           %s\n", slot.LunchLeftoverLabel)
		}
		if len(slot.Reasons) > 0 {
			fmt.Printf("           reasons: %s\n", strings.Join(slot.Reasons, ", "))
		}
	}
}
