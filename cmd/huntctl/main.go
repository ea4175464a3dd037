// huntctl runs a single hunt from the command line, without the HTTP server
// or the database. Results go to stdout as a table, or to a CSV file with -out.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/lmittmann/tint"

	"reviewhunter/internal/config"
	"reviewhunter/internal/domain/entity"
	"reviewhunter/internal/domain/service/hunt"
	"reviewhunter/internal/export"
	"reviewhunter/internal/infrastructure/places"
	"reviewhunter/pkg/contextx"
)

func main() {
	var (
		industry = flag.String("industry", "", "industry to search, e.g. dentist")
		city     = flag.String("city", "", "city to search in, e.g. Bochum")
		limit    = flag.Int("limit", 0, "max businesses to fetch")
		reviews  = flag.Int("reviews", 0, "reviews to sample per business")
		out      = flag.String("out", "", "write CSV to this file instead of printing a table")
		timeout  = flag.Duration("timeout", 10*time.Minute, "overall hunt timeout")
	)
	flag.Parse()

	log := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      slog.LevelInfo,
		TimeFormat: time.TimeOnly,
	}))
	slog.SetDefault(log)

	if *industry == "" || *city == "" {
		fmt.Fprintln(os.Stderr, "usage: huntctl -industry dentist -city Bochum [-limit 20] [-reviews 20] [-out leads.csv]")
		os.Exit(2)
	}

	if err := run(*industry, *city, *limit, *reviews, *out, *timeout, log); err != nil {
		log.Error("hunt failed", "error", err)
		os.Exit(1)
	}
}

func run(industry, city string, limit, reviews int, out string, timeout time.Duration, log *slog.Logger) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	ctx, cancelTimeout := context.WithTimeout(ctx, timeout)
	defer cancelTimeout()

	ctx = contextx.WithLogger(ctx, log)

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config.Load: %w", err)
	}

	service := hunt.NewService(places.NewClient(cfg.Places)).
		WithConcurrency(cfg.Hunt.Concurrency).
		WithDefaults(cfg.Hunt.DefaultLimit, cfg.Hunt.DefaultReviewsPerPlace)

	result, err := service.Hunt(ctx, hunt.Query{
		Industry:        industry,
		City:            city,
		Limit:           limit,
		ReviewsPerPlace: reviews,
	})
	if err != nil {
		return err
	}

	log.Info("hunt finished",
		"businesses", result.Summary.Businesses,
		"hot", result.Summary.HotLeads,
		"partial", result.PartialCount,
	)

	if out != "" {
		return writeCSV(out, result.Leads)
	}

	printTable(result.Leads)

	return nil
}

func writeCSV(path string, leads []entity.Lead) error {
	fh, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("os.Create: %w", err)
	}

	if err := export.WriteLeads(fh, leads); err != nil {
		_ = fh.Close()
		return fmt.Errorf("export.WriteLeads: %w", err)
	}

	return fh.Close()
}

func printTable(leads []entity.Lead) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SCORE\tTIER\tNAME\tRATING\tREVIEWS\tUNANSWERED\tPHONE")

	for _, lead := range leads {
		rating := "-"
		if lead.Business.Rating != nil {
			rating = fmt.Sprintf("%.1f", *lead.Business.Rating)
		}

		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\t%d\t%s\n",
			lead.Score,
			lead.Tier,
			lead.Business.Name,
			rating,
			lead.Business.ReviewCount,
			lead.Business.UnansweredCount,
			lead.Business.Phone,
		)
	}

	_ = w.Flush()
}
