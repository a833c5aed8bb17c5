package commands

import (
	"fmt"
	"io"
	"os"

	fileexport "github.com/de-tools/compliance-atlas/pkg/export"
	"github.com/de-tools/compliance-atlas/pkg/models/domain"
	"github.com/de-tools/compliance-atlas/pkg/runtime/terminal/export"
	"github.com/de-tools/compliance-atlas/pkg/services/config"
	"github.com/de-tools/compliance-atlas/pkg/services/scan"
	"github.com/de-tools/compliance-atlas/pkg/store/duckdb"
	"github.com/de-tools/compliance-atlas/pkg/store/duckdb/scans"

	"github.com/spf13/cobra"
)

type ScanCmd struct {
	settingsPath string
	region       string
	profile      string
	concurrency  int
	csvPath      string
	htmlPath     string
	dbPath       string
	factory      scan.Factory
	reporter     *export.Reporter
}

func NewScanCmd(factory scan.Factory, reporter *export.Reporter) *cobra.Command {
	sc := &ScanCmd{factory: factory, reporter: reporter}
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Run the compliance rule catalog against an AWS account",
		RunE:  sc.run,
	}

	cmd.Flags().StringVar(&sc.settingsPath, "settings", "", "Path to the scan profile file")
	cmd.Flags().StringVar(&sc.region, "region", "", "AWS region to scan")
	cmd.Flags().StringVar(&sc.profile, "profile", "", "AWS shared config profile to use")
	cmd.Flags().IntVar(&sc.concurrency, "concurrency", 0, "Number of checks to run in parallel")
	cmd.Flags().StringVar(&sc.csvPath, "csv", "", "Write the report as CSV to this path")
	cmd.Flags().StringVar(&sc.htmlPath, "html", "", "Write the report as HTML to this path")
	cmd.Flags().StringVar(&sc.dbPath, "db", "", "Record the scan in the history database at this path")

	return cmd
}

func (sc *ScanCmd) run(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	settings := config.DefaultSettings()
	if sc.settingsPath != "" {
		loaded, err := config.LoadSettings(sc.settingsPath)
		if err != nil {
			return err
		}
		settings = *loaded
	}
	if cmd.Flags().Changed("region") {
		settings.Region = sc.region
	}
	if cmd.Flags().Changed("profile") {
		settings.Profile = sc.profile
	}
	if cmd.Flags().Changed("concurrency") {
		settings.Concurrency = sc.concurrency
	}

	scanner, err := sc.factory(ctx, settings)
	if err != nil {
		return fmt.Errorf("failed to create scanner: %w", err)
	}

	report, err := scanner.Run(ctx)
	if err != nil {
		return err
	}

	if sc.csvPath != "" {
		if err := writeFile(sc.csvPath, report, fileexport.WriteCSV); err != nil {
			return fmt.Errorf("failed to write CSV report: %w", err)
		}
	}
	if sc.htmlPath != "" {
		if err := writeFile(sc.htmlPath, report, fileexport.WriteHTML); err != nil {
			return fmt.Errorf("failed to write HTML report: %w", err)
		}
	}
	if sc.dbPath != "" {
		if err := sc.persist(cmd, report); err != nil {
			return fmt.Errorf("failed to record scan: %w", err)
		}
	}

	return sc.reporter.Handle(report)
}

func (sc *ScanCmd) persist(cmd *cobra.Command, report *domain.ScanReport) error {
	db, err := duckdb.NewDB(duckdb.Settings{DbPath: sc.dbPath})
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	store, err := scans.NewStore(db)
	if err != nil {
		return err
	}

	id, err := store.SaveScan(cmd.Context(), report)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Scan recorded as %s\n", id)
	return nil
}

func writeFile(path string, report *domain.ScanReport, write func(w io.Writer, report *domain.ScanReport) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	return write(f, report)
}
