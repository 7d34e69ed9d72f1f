package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/pkg/errors"
	"github.com/soniakeys/meeus/v3/julian"
	"github.com/spf13/cobra"
	orrery "github.com/tonylquintanilla/palomas-orrery-sub003"
)

const dateFormat = "2006-01-02 15:04:05"

var (
	configDir string
	logLevel  string
	dateStr   string
)

// env is everything a command needs, built once from the configuration.
type env struct {
	conf    orrery.Config
	logger  log.Logger
	catalog *orrery.Catalog
	locator orrery.Locator
	dates   orrery.DateCalculator
	epoch   time.Time
}

func main() {
	root := &cobra.Command{
		Use:          "orrery",
		Short:        "Orbit geometry and apsidal events from Keplerian elements",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&configDir, "config", "", "directory of conf.toml (defaults to $"+orrery.ConfigEnv+")")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&dateStr, "date", "", "epoch as a Julian date or a UTC date like "+dateFormat+" (defaults to now)")
	root.AddCommand(curveCmd(), apsidesCmd(), batchCmd(), elementsCmd())
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func setup() (*env, error) {
	conf, err := orrery.LoadConfig(configDir)
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		conf.Log.Level = logLevel
	}
	logger := conf.Logger(os.Stderr)
	catalog, err := conf.LoadCatalog()
	if err != nil {
		return nil, err
	}
	frames, err := conf.Corrections()
	if err != nil {
		return nil, err
	}
	epoch, err := parseJDEorTime(dateStr)
	if err != nil {
		return nil, err
	}
	level.Debug(logger).Log("msg", "configured", "epoch", epoch, "objects", len(catalog.Names()))
	return &env{
		conf:    conf,
		logger:  logger,
		catalog: catalog,
		locator: orrery.NewLocator(frames),
		dates: orrery.DateCalculator{
			Periods: catalog.Period,
			Fetch:   orrery.KeplerFetcher(catalog),
			Logger:  logger,
		},
		epoch: epoch,
	}, nil
}

// parseJDEorTime reads either a Julian date or a UTC calendar date.
func parseJDEorTime(s string) (time.Time, error) {
	if s == "" {
		return time.Now().UTC(), nil
	}
	if jde, err := strconv.ParseFloat(s, 64); err == nil {
		return julian.JDToTime(jde).UTC(), nil
	}
	for _, layout := range []string{dateFormat, time.RFC3339, "2006-01-02"} {
		if dt, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return dt, nil
		}
	}
	return time.Time{}, errors.Errorf("could not understand date `%s`", s)
}

func printEvents(events []orrery.ApsidalEvent) {
	for _, ev := range events {
		fmt.Printf("%-10s r=%.9f AU\t(%.6f, %.6f, %.6f)\t%s\t[%s]\n", ev.Kind, ev.Distance, ev.Position.X, ev.Position.Y, ev.Position.Z, ev.DateString(), ev.Accuracy)
	}
}
