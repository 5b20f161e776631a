// Command etfreport runs one batch and writes the report to stdout or a file.
package main

import (
	"context"
	"flag"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"ETFScreener/internal/app"
	"ETFScreener/internal/config"
	"ETFScreener/internal/exporter"
	"ETFScreener/internal/model"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfgFlag := flag.String("config", "", "path to config file (default $CONFIG_PATH or "+config.DefaultPath+")")
	out := flag.String("out", "", "output file; format follows the extension (default stdout)")
	format := flag.String("format", "", "json, csv or xlsx (overrides the extension)")
	flag.Parse()

	cfg, err := config.Load(config.Path(*cfgFlag))
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	f := exporter.FormatFromPath(*out)
	if *format != "" {
		if f, err = exporter.ParseFormat(*format); err != nil {
			log.Fatalf("[FATAL] %v", err)
		}
	}

	os.Exit(run(cfg, *out, f))
}

// run executes one batch and writes the report. It returns the exit code:
// 1 when the batch failed structurally or the report could not be written.
func run(cfg *config.Config, out string, f exporter.Format) int {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rec := app.NewRecorder(cfg)
	defer rec.Close()

	var report *model.Report
	res, err := app.NewCollector(cfg, nil).Collect(ctx)
	if err != nil {
		log.Printf("[ERROR] batch failed: %v", err)
		report = model.NewErrorReport(err)
	} else {
		if rerr := rec.RecordBatch(res); rerr != nil {
			log.Printf("[ERROR] record batch: %v", rerr)
		}
		report = model.NewSuccessReport(res)
	}

	var w io.Writer = os.Stdout
	if out != "" {
		file, ferr := os.Create(out)
		if ferr != nil {
			log.Printf("[ERROR] create output: %v", ferr)
			return 1
		}
		defer file.Close()
		w = file
	}
	if werr := exporter.Write(w, report, f); werr != nil {
		log.Printf("[ERROR] write report: %v", werr)
		return 1
	}
	if out != "" {
		log.Printf("[INFO] wrote %s report to %s", f, out)
	}

	if err != nil {
		return 1
	}
	return 0
}
