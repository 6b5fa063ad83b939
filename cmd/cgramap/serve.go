package main

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"

	"github.com/sarchlab/cgramap/config"
	"github.com/sarchlab/cgramap/mapperpass"
	"github.com/sarchlab/cgramap/mapreport"
)

var (
	servePort int
	historyDB string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Map once and keep the result available over HTTP.",
	Long: `serve runs the same mapping attempt as "map", writes its ` +
		`artifacts and a report.json under --output, then starts ` +
		`mapreport.Server so /schedule.json, /dfg.json, /dfg.dot, and ` +
		`/report.json can be fetched, and blocks until interrupted.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&functionPath, "function", "function.json", "path to the function.json loop-body description")
	serveCmd.Flags().StringVar(&configPath, "config", "param.json", "path to the param.json configuration document")
	serveCmd.Flags().StringVar(&outputDir, "output", ".", "directory to write dfg.dot/dfg.json/schedule.json/incremental.json/report.json into")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "TCP port to listen on (1000 or below picks a random free port)")
	serveCmd.Flags().StringVar(&historyDB, "history-db", "", "optional sqlite database path recording every successful mapping")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfigOrDefaults(configPath)
	if err != nil {
		return err
	}

	fn, err := loadFunction(functionPath)
	if err != nil {
		return err
	}

	var history *mapreport.HistoryStore
	if historyDB != "" {
		history, err = mapreport.OpenHistoryStore(historyDB)
		if err != nil {
			return err
		}
		atexit.Register(func() { _ = history.Close() })
	}

	report := mapperpass.MapFunction(fn, fn, cfg, outputDir)
	printReport(cmd.OutOrStdout(), report)

	if err := writeReportJSON(report); err != nil {
		return err
	}
	if history != nil && report.Kind == mapperpass.Success {
		if err := recordHistory(history, report, cfg); err != nil {
			fmt.Fprintln(os.Stderr, "cgramap:", err)
		}
	}

	server := mapreport.NewServer(outputDir, history).WithPortNumber(servePort)
	addr, err := server.StartServer()
	if err != nil {
		return err
	}
	atexit.Register(func() { fmt.Fprintln(os.Stderr, "cgramap: shutting down", addr) })

	fmt.Printf("serving report at %s\n", addr)
	select {}
}

func writeReportJSON(r *mapperpass.Report) error {
	body, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("cgramap: marshaling report: %w", err)
	}
	path := filepath.Join(outputDir, "report.json")
	if err := os.WriteFile(path, body, 0o644); err != nil {
		return fmt.Errorf("cgramap: writing %s: %w", path, err)
	}
	return nil
}

// recordHistory appends r's schedule.json to the history database, keyed
// by function name and a hash of the configuration that produced it. The
// row is stored with an empty snapshot id and a recorded_at of 0.
func recordHistory(h *mapreport.HistoryStore, r *mapperpass.Report, cfg *config.Config) error {
	if r.Artifacts.ScheduleJSONPath == "" {
		return nil
	}

	scheduleBody, err := os.ReadFile(r.Artifacts.ScheduleJSONPath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", r.Artifacts.ScheduleJSONPath, err)
	}

	cfgBody, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("hashing config: %w", err)
	}
	sum := sha256.Sum256(cfgBody)
	configHash := hex.EncodeToString(sum[:])

	return h.Record(r.Function, configHash, r.II, "", scheduleBody, 0)
}
