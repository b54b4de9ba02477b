package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	json "github.com/goccy/go-json"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/comitanigiacomo/kanso-fit/internal/adapters/repository"
	"github.com/comitanigiacomo/kanso-fit/internal/core/domain"
	"github.com/comitanigiacomo/kanso-fit/internal/core/services"
	"github.com/comitanigiacomo/kanso-fit/internal/core/streaks"
)

const exportUser = "export"

type reportOptions struct {
	file     string
	dbPath   string
	userID   string
	asOf     string
	timezone string
	window   int
	asJSON   bool
}

func newReportCmd() *cobra.Command {
	opts := reportOptions{}

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print the streak overview",
		Example: `  streakctl report --file export.json --as-of 2024-01-20
  streakctl report --db kanso.db --user u1 --tz Europe/Rome --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.file, "file", "", "JSON export with workouts, dailyLogs and nutritionGoals")
	cmd.Flags().StringVar(&opts.dbPath, "db", "", "Path to a local SQLite store")
	cmd.Flags().StringVar(&opts.userID, "user", "", "User id to report on (with --db)")
	cmd.Flags().StringVar(&opts.asOf, "as-of", "", "Evaluation date YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&opts.timezone, "tz", "UTC", "IANA timezone that decides calendar days")
	cmd.Flags().IntVar(&opts.window, "window", 30, "Consistency window in days")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "Print JSON instead of a table")
	cmd.MarkFlagsMutuallyExclusive("file", "db")
	cmd.MarkFlagsOneRequired("file", "db")

	return cmd
}

func runReport(ctx context.Context, out io.Writer, opts reportOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.window < 1 {
		return fmt.Errorf("--window must be at least 1")
	}

	cal, err := streaks.LoadCalendar(opts.timezone)
	if err != nil {
		return err
	}

	asOf := time.Now()
	if opts.asOf != "" {
		day, ok := cal.Normalize(opts.asOf)
		if !ok {
			return fmt.Errorf("invalid --as-of date (expected YYYY-MM-DD)")
		}
		asOf = cal.Instant(day)
	}

	repo, userID, closeFn, err := openSource(opts)
	if err != nil {
		return err
	}
	defer closeFn()

	svc := services.NewStreakService(repo, cal, opts.window, domain.FixedClock(asOf))
	overview, err := svc.Overview(ctx, userID, time.Time{})
	if err != nil {
		return err
	}

	if opts.asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(overview)
	}
	return printOverview(out, overview)
}

// openSource returns the store to read and the user to read it for.
func openSource(opts reportOptions) (domain.UserDataRepository, string, func(), error) {
	if opts.dbPath != "" {
		if strings.TrimSpace(opts.userID) == "" {
			return nil, "", nil, fmt.Errorf("--user is required with --db")
		}
		db, err := repository.OpenSQLite(opts.dbPath)
		if err != nil {
			return nil, "", nil, err
		}
		repo, err := repository.NewSQLiteUserDataRepository(db)
		if err != nil {
			db.Close()
			return nil, "", nil, err
		}
		log.Debugf("Reading user %s from %s", opts.userID, opts.dbPath)
		return repo, opts.userID, func() { db.Close() }, nil
	}

	raw, err := os.ReadFile(opts.file)
	if err != nil {
		return nil, "", nil, err
	}
	repo, err := loadExport(raw)
	if err != nil {
		return nil, "", nil, fmt.Errorf("%s: %w", opts.file, err)
	}
	return repo, exportUser, func() {}, nil
}

var exportKeys = []string{domain.KeyWorkouts, domain.KeyDailyLogs, domain.KeyNutritionGoals}

// loadExport stages the documents of an export in memory. Absent keys fall
// back to the service defaults.
func loadExport(raw []byte) (*repository.InMemoryUserDataRepository, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("invalid export: %w", err)
	}
	if doc == nil {
		return nil, errors.New("invalid export: expected a JSON object")
	}

	repo := repository.NewInMemoryUserDataRepository()
	ctx := context.Background()
	for _, key := range exportKeys {
		value, ok := doc[key]
		if !ok || string(value) == "null" {
			log.Debugf("Export has no %s", key)
			continue
		}
		if err := repo.Set(ctx, exportUser, key, value); err != nil {
			return nil, err
		}
	}
	return repo, nil
}

func printOverview(out io.Writer, o *domain.StreakOverview) error {
	fmt.Fprintf(out, "Streaks as of %s\n\n", o.AsOf)

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DOMAIN\tCURRENT\tLONGEST\tCONSISTENCY\tNEXT MILESTONE")
	for _, d := range domain.StreakDomains {
		s := o.Summary(d)
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d%% (%dd)\t%d (in %d)\n",
			d, s.Current, s.Longest, s.Consistency, s.ConsistencyWindow, s.NextMilestone, s.DaysToMilestone)
	}
	return tw.Flush()
}
