package main

import (
	"fmt"
	"os"

	"github.com/go-kit/log/level"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	orrery "github.com/tonylquintanilla/palomas-orrery-sub003"
)

func curveCmd() *cobra.Command {
	var asCSV bool
	var points int
	cmd := &cobra.Command{
		Use:   "curve <body>...",
		Short: "Sample the orbits of the bodies in the ecliptic frame",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup()
			if err != nil {
				return err
			}
			opts := e.conf.SampleOptions()
			if points > 0 {
				opts.Points = points
			}
			var scene []orrery.SceneObject
			for _, name := range args {
				el, err := e.catalog.Elements(name, e.epoch)
				if err != nil {
					return err
				}
				c, err := e.locator.Curve(el, opts)
				if err != nil {
					return errors.Wrapf(err, "sampling %s", name)
				}
				dates, err := e.dates.ApsidalDatesAt(e.epoch, el)
				if err != nil {
					level.Warn(e.logger).Log("body", name, "msg", "undated apsides", "err", err)
				}
				events, err := e.locator.Events(el, dates)
				if err != nil {
					return err
				}
				if asCSV {
					if err := orrery.WriteCurveCSV(os.Stdout, el, c); err != nil {
						return err
					}
					continue
				}
				scene = append(scene, orrery.NewSceneObject(el, c, events))
			}
			if asCSV {
				return nil
			}
			return orrery.WriteScene(os.Stdout, scene)
		},
	}
	cmd.Flags().BoolVar(&asCSV, "csv", false, "write CSV records instead of the JSON scene")
	cmd.Flags().IntVar(&points, "points", 0, "number of samples (overrides curve.points)")
	return cmd
}

func apsidesCmd() *cobra.Command {
	var actual bool
	cmd := &cobra.Command{
		Use:   "apsides <body>",
		Short: "Locate and date the next periapsis and apoapsis",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup()
			if err != nil {
				return err
			}
			el, err := e.catalog.Elements(args[0], e.epoch)
			if err != nil {
				return err
			}
			dates, err := e.dates.ApsidalDatesAt(e.epoch, el)
			if err != nil {
				level.Warn(e.logger).Log("body", el.Name, "err", err)
			}
			fmt.Println(el)
			fmt.Println(dates)
			events, err := e.locator.Events(el, dates)
			if err != nil {
				return err
			}
			printEvents(events)
			if actual {
				fetched, err := e.dates.Actual(el, dates)
				if err != nil {
					return err
				}
				fmt.Println("fetched positions (frame of the elements):")
				printEvents(fetched)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&actual, "actual", false, "also fetch the positions at the apsidal dates")
	return cmd
}

func batchCmd() *cobra.Command {
	var asCSV bool
	cmd := &cobra.Command{
		Use:   "batch [body]...",
		Short: "Date the apsides of many bodies (all the catalog by default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup()
			if err != nil {
				return err
			}
			if len(args) == 0 {
				args = e.catalog.AllNames()
			}
			b := orrery.Batch{Catalog: e.catalog, Locator: e.locator, Dates: e.dates, Workers: e.conf.Batch.Workers, Logger: e.logger}
			summary := b.Apsides(e.epoch, args)
			for _, r := range summary.Results {
				if asCSV {
					if err := orrery.WriteEventsCSV(os.Stdout, r.Name, r.Events); err != nil {
						return err
					}
					continue
				}
				fmt.Printf("== %s %s\n", r.Name, r.Dates)
				printEvents(r.Events)
			}
			fmt.Fprintln(os.Stderr, summary)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asCSV, "csv", false, "write CSV records")
	return cmd
}

func elementsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "elements [body]...",
		Short: "Print the elements of the bodies at the date (all the catalog by default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup()
			if err != nil {
				return err
			}
			if len(args) == 0 {
				args = e.catalog.AllNames()
			}
			for _, name := range args {
				el, err := e.catalog.Elements(name, e.epoch)
				if err != nil {
					return err
				}
				fmt.Printf("%s\tperiod: %s\n", el, e.dates.ResolvePeriod(el))
			}
			return nil
		},
	}
}
