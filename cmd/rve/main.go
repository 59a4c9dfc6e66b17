package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/san-kum/rve/internal/automation"
	"github.com/san-kum/rve/internal/config"
	"github.com/san-kum/rve/internal/export"
	"github.com/san-kum/rve/internal/logging"
	"github.com/san-kum/rve/internal/metrics"
	"github.com/san-kum/rve/internal/storage"
	"github.com/san-kum/rve/internal/tui"
	"github.com/spf13/cobra"
)

var (
	dataDir     string
	configFile  string
	parkName    string
	logLevel    string
	metricsAddr string
	outPath     string
	saveRun     bool
	rideID      int
	attribute   string
	svgPath     string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "rve",
		Short: "ride vehicle editor",
		RunE:  runTUI,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".rve", "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&parkName, "park", "", "park preset or park file (overrides config)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (overrides config)")

	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "edit vehicles interactively",
		RunE:  runTUI,
	}
	tuiCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve prometheus metrics on this address")

	runCmd := &cobra.Command{
		Use:   "run [script]",
		Short: "run an edit script",
		Args:  cobra.ExactArgs(1),
		RunE:  runScript,
	}
	runCmd.Flags().StringVar(&outPath, "out", "", "write the edited park to this file")
	runCmd.Flags().BoolVar(&saveRun, "save", false, "keep a snapshot of the edited park in the data directory")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved snapshots",
		RunE:  listSnapshots,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [snapshot_id]",
		Short: "plot an attribute along every vehicle of a ride",
		Args:  cobra.MaximumNArgs(1),
		RunE:  plotAttribute,
	}
	plotCmd.Flags().IntVar(&rideID, "ride", 0, "ride id (default: every ride)")
	plotCmd.Flags().StringVar(&attribute, "attribute", "mass", "attribute to plot")
	plotCmd.Flags().StringVar(&svgPath, "svg", "", "also write the plot as SVG")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [snapshot_id]",
		Short: "export vehicles to CSV",
		Args:  cobra.MaximumNArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().IntVar(&rideID, "ride", 0, "ride id (default: every ride)")
	exportCSVCmd.Flags().StringVar(&outPath, "out", "", "output file (default: stdout)")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [snapshot_id]",
		Short: "export vehicles to JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().IntVar(&rideID, "ride", 0, "ride id (default: every ride)")
	exportJSONCmd.Flags().StringVar(&outPath, "out", "", "output file (default: stdout)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list bundled parks",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "PRESET\tPARK\tRIDES")
			for _, name := range config.ListPresets() {
				f := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t%s\t%d\n", name, f.Name, len(f.Rides))
			}
			return w.Flush()
		},
	}

	rootCmd.AddCommand(tuiCmd, runCmd, listCmd, plotCmd, exportCSVCmd, exportJSONCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		var err error
		if cfg, err = config.Load(configFile); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}
	if parkName != "" {
		cfg.Park = parkName
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if metricsAddr != "" {
		cfg.MetricsAddr = metricsAddr
	}
	return cfg, nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	// the terminal belongs to the editor, so logs only go to a file
	log, closeLog, err := cfg.Logger(io.Discard)
	if err != nil {
		return err
	}
	defer closeLog()

	p, err := cfg.OpenPark(log)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	collector, err := metrics.NewCollector(reg)
	if err != nil {
		return err
	}
	if cfg.MetricsAddr != "" {
		srv := &http.Server{Addr: cfg.MetricsAddr, Handler: metricsMux(collector), ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("metrics server", logging.Any("error", err))
			}
		}()
		defer srv.Close()
		log.Info("serving metrics", logging.String("addr", cfg.MetricsAddr))
	}

	a := newApp(p, log, collector)
	return tui.Run(a.session, a.picker, p, tui.Options{
		TickInterval: cfg.TickInterval,
		DebugNames:   cfg.DebugNames,
		Multiplier:   cfg.MultiplierIndex(),
	})
}

func metricsMux(c *metrics.Collector) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", c.Handler())
	return mux
}

func runScript(cmd *cobra.Command, args []string) error {
	script, err := automation.LoadScript(args[0])
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if script.Park != "" && !cmd.Flags().Changed("park") {
		cfg.Park = script.Park
	}
	log, closeLog, err := cfg.Logger(os.Stderr)
	if err != nil {
		return err
	}
	defer closeLog()

	p, err := cfg.OpenPark(log)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	a := newApp(p, log, nil)
	results, err := automation.Run(ctx, script, a.session, p, log)
	a.session.Close()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tOP\tOK\tAPPLIED\tSKIPPED")
	for _, r := range results {
		fmt.Fprintf(w, "%d\t%s\t%t\t%d\t%d\n", r.Step, r.Op, r.OK, r.Applied, r.Skipped)
	}
	w.Flush()
	if err != nil {
		return err
	}

	ok, applied, skipped := automation.Summary(results)
	fmt.Printf("\n%d/%d steps acted, %d vehicles written, %d skipped\n", ok, len(results), applied, skipped)

	if outPath != "" {
		if err := p.Save(outPath); err != nil {
			return err
		}
		fmt.Printf("park saved: %s\n", outPath)
	}
	if saveRun {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		id, err := st.Save(p, script.Name)
		if err != nil {
			return err
		}
		fmt.Printf("snapshot saved: %s\n", id)
	}
	return nil
}

func listSnapshots(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	snapshots, err := st.List()
	if err != nil {
		return err
	}

	if len(snapshots) == 0 {
		fmt.Println("no snapshots")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPARK\tLABEL\tTIME\tRIDES\tVEHICLES")
	for _, s := range snapshots {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%d\n",
			s.ID,
			s.Park,
			s.Label,
			s.Timestamp.Format("2006-01-02 15:04:05"),
			s.Rides,
			s.Vehicles,
		)
	}
	return w.Flush()
}

// loadRows reads the vehicles of a snapshot, or of the configured park when
// no snapshot is named.
func loadRows(args []string) (string, []storage.Row, error) {
	if len(args) == 1 {
		st := storage.New(dataDir)
		meta, err := st.Load(args[0])
		if err != nil {
			return "", nil, err
		}
		rows, err := st.LoadVehicles(args[0])
		if err != nil {
			return "", nil, err
		}
		return meta.Park, filterRide(rows, rideID), nil
	}

	cfg, err := loadConfig()
	if err != nil {
		return "", nil, err
	}
	p, err := cfg.OpenPark(nil)
	if err != nil {
		return "", nil, err
	}
	return p.Name, storage.Collect(p, rideID), nil
}

func filterRide(rows []storage.Row, id int) []storage.Row {
	if id <= 0 {
		return rows
	}
	out := rows[:0:0]
	for _, r := range rows {
		if r.RideID == id {
			out = append(out, r)
		}
	}
	return out
}

func plotAttribute(cmd *cobra.Command, args []string) error {
	name, rows, err := loadRows(args)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("no vehicles to plot")
	}

	value, err := rowValue(attribute)
	if err != nil {
		return err
	}
	data := make([]float64, len(rows))
	for i, r := range rows {
		data[i] = value(r)
	}

	caption := fmt.Sprintf("%s of %d vehicles, %s", attribute, len(rows), name)
	if rideID > 0 {
		caption += ", ride " + strconv.Itoa(rideID)
	}
	graph := asciigraph.Plot(data,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption(caption),
	)
	fmt.Println(graph)
	fmt.Println()

	if svgPath != "" {
		svg := export.ProfileToSVG(data, 800, 300, "#00ccff")
		if err := os.WriteFile(svgPath, []byte(svg), 0644); err != nil {
			return err
		}
		fmt.Printf("svg saved: %s\n", svgPath)
	}
	return nil
}

func rowValue(attr string) (func(storage.Row) float64, error) {
	switch attr {
	case "ride_type":
		return func(r storage.Row) float64 { return float64(r.RideType) }, nil
	case "variant":
		return func(r storage.Row) float64 { return float64(r.Variant) }, nil
	case "track_progress":
		return func(r storage.Row) float64 { return float64(r.TrackProgress) }, nil
	case "seats":
		return func(r storage.Row) float64 { return float64(r.Seats) }, nil
	case "mass":
		return func(r storage.Row) float64 { return float64(r.Mass) }, nil
	case "powered_acceleration":
		return func(r storage.Row) float64 { return float64(r.PoweredAcceleration) }, nil
	case "powered_max_speed":
		return func(r storage.Row) float64 { return float64(r.PoweredMaxSpeed) }, nil
	case "sound_range":
		return func(r storage.Row) float64 { return float64(r.SoundRange) }, nil
	}
	return nil, fmt.Errorf("unknown attribute: %s", attr)
}

func output() (io.Writer, func() error, error) {
	if outPath == "" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(outPath)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	_, rows, err := loadRows(args)
	if err != nil {
		return err
	}
	w, closeFn, err := output()
	if err != nil {
		return err
	}
	if err := storage.ExportCSV(w, rows); err != nil {
		closeFn()
		return err
	}
	if outPath != "" {
		fmt.Fprintf(os.Stderr, "exported %d vehicles to %s\n", len(rows), outPath)
	}
	return closeFn()
}

func exportJSON(cmd *cobra.Command, args []string) error {
	name, rows, err := loadRows(args)
	if err != nil {
		return err
	}
	w, closeFn, err := output()
	if err != nil {
		return err
	}
	if err := storage.ExportJSON(w, name, rows); err != nil {
		closeFn()
		return err
	}
	if outPath != "" {
		fmt.Fprintf(os.Stderr, "exported %d vehicles to %s\n", len(rows), outPath)
	}
	return closeFn()
}
