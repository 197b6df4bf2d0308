// Copyright 2025 The PropNear Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/jcodagnone/propnear/estate"
	"github.com/jcodagnone/propnear/spatial"
	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

type queryOptions struct {
	PropertiesPath string
	AmenitiesPath  string
	Type           string
	Subtype        string
	PropID         string
	All            bool
	Lat, Lng       float64
	Radius         float64
	MaxProcs       int
}

var queryOpts = &queryOptions{}

// origin is a query point, optionally tied to a property.
type origin struct {
	PropID string
	Point  spatial.Point
}

// origins resolves where a query starts from: every property, a single
// property by id, or the --lat/--lng pair.
func origins(cmd *cobra.Command) ([]origin, error) {
	if queryOpts.All || queryOpts.PropID != "" {
		props, err := loadProperties(queryOpts.PropertiesPath)
		if err != nil {
			return nil, err
		}

		if queryOpts.All {
			ret := make([]origin, 0, props.Len())
			for id, p := range props.All() {
				ret = append(ret, origin{PropID: id, Point: p.Point})
			}

			return ret, nil
		}

		p, ok := props.Get(queryOpts.PropID)
		if !ok {
			return nil, fmt.Errorf("property %q not found", queryOpts.PropID)
		}

		return []origin{{PropID: p.ID, Point: p.Point}}, nil
	}

	if cmd.Flags().Changed("lat") && cmd.Flags().Changed("lng") {
		return []origin{{Point: spatial.Point{Lat: queryOpts.Lat, Lng: queryOpts.Lng}}}, nil
	}

	return nil, errors.New("one of --prop, --all or --lat/--lng is required")
}

type nearestResult struct {
	PropID  string          `json:"prop_id,omitempty"`
	Point   spatial.Point   `json:"point"`
	Amenity *estate.Amenity `json:"amenity"`
	Km      *float64        `json:"distance_km"`
}

// nearestAll runs the query for every origin on up to maxProcs goroutines.
// A maxProcs below 1 runs one query at a time. Results keep the order of
// origins.
func nearestAll(from []origin, amenities []*estate.Amenity, amenityType, subtype string, maxProcs int) []nearestResult {
	maxProcs = max(maxProcs, 1)

	var bar *progressbar.ProgressBar
	if len(from) > 1 && isatty.IsTerminal(os.Stderr.Fd()) {
		bar = progressbar.NewOptions(len(from),
			progressbar.OptionSetDescription("Nearest "+amenityType),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
	}

	results := make([]nearestResult, len(from))

	var wg sync.WaitGroup

	semaphore := make(chan struct{}, maxProcs)

	for i, o := range from {
		wg.Add(1)

		go func() {
			defer wg.Done()
			semaphore <- struct{}{}

			defer func() { <-semaphore }()

			r := nearestResult{PropID: o.PropID, Point: o.Point}
			if d, ok := estate.Nearest(o.Point, amenities, amenityType, subtype); ok {
				r.Amenity = d.Amenity
				r.Km = &d.Km
			}

			results[i] = r

			if bar != nil {
				if err := bar.Add(1); err != nil {
					slog.Debug("updating progress bar", "err", err)
				}
			}
		}()
	}

	wg.Wait()

	return results
}

var nearestCmd = &cobra.Command{
	Use:   "nearest",
	Short: "Find the closest amenity of a type to a property or point",
	Long: `Finds the closest amenity of the given type. When several amenities are at
exactly the same distance the one listed last in the amenity file wins.

Schools accept a --subtype (Primary, Secondary); combined Pri/Sec schools
match any subtype.

$ propnear nearest --type school --subtype Primary --prop P10001
$ propnear nearest --type train_station --all
`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		src, amenities, err := loadAmenities(queryOpts.Type, queryOpts.AmenitiesPath)
		if err != nil {
			return err
		}

		from, err := origins(cmd)
		if err != nil {
			return err
		}

		results := nearestAll(from, amenities, src.Type, queryOpts.Subtype, queryOpts.MaxProcs)

		enc := json.NewEncoder(os.Stdout)
		misses := 0

		for _, r := range results {
			if r.Amenity == nil {
				misses++
			}

			if err := enc.Encode(r); err != nil {
				return err
			}
		}

		slog.Info("nearest complete", "type", src.Type, "queries", len(results), "without_match", misses)

		return nil
	},
}

type withinResult struct {
	PropID    string            `json:"prop_id,omitempty"`
	Point     spatial.Point     `json:"point"`
	RadiusKm  float64           `json:"radius_km"`
	Amenities []estate.Distance `json:"amenities"`
}

var withinCmd = &cobra.Command{
	Use:   "within",
	Short: "List the amenities of a type within a radius, closest first",
	Long: `Lists every amenity of the given type at most --radius kilometers away.

$ propnear within --type medical --radius 2 --prop P10002
`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		src, amenities, err := loadAmenities(queryOpts.Type, queryOpts.AmenitiesPath)
		if err != nil {
			return err
		}

		idx, err := estate.NewAmenityIndex(amenities)
		if err != nil {
			return err
		}

		from, err := origins(cmd)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)

		for _, o := range from {
			found, err := idx.Within(o.Point, queryOpts.Radius, src.Type, queryOpts.Subtype)
			if err != nil {
				return err
			}

			if found == nil {
				found = []estate.Distance{}
			}

			r := withinResult{PropID: o.PropID, Point: o.Point, RadiusKm: queryOpts.Radius, Amenities: found}
			if err := enc.Encode(r); err != nil {
				return err
			}
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(nearestCmd)
	rootCmd.AddCommand(withinCmd)

	for _, c := range []*cobra.Command{nearestCmd, withinCmd} {
		c.Flags().StringVar(&queryOpts.PropertiesPath, "properties", "", "Property file (default $"+envProperties+")")
		c.Flags().StringVar(&queryOpts.AmenitiesPath, "amenities", "", "Amenity file (default $PROPNEAR_<SOURCE>)")
		c.Flags().StringVarP(&queryOpts.Type, "type", "t", "", "Amenity source name or type, see 'sources list'")
		c.Flags().StringVar(&queryOpts.Subtype, "subtype", "", "Only amenities of this subtype")
		c.Flags().StringVar(&queryOpts.PropID, "prop", "", "Query from this property id")
		c.Flags().BoolVar(&queryOpts.All, "all", false, "Query from every property")
		c.Flags().Float64Var(&queryOpts.Lat, "lat", 0, "Query from this latitude")
		c.Flags().Float64Var(&queryOpts.Lng, "lng", 0, "Query from this longitude")
		c.MarkFlagsMutuallyExclusive("prop", "all")
		c.MarkFlagsRequiredTogether("lat", "lng")
		_ = c.MarkFlagRequired("type")
	}

	nearestCmd.Flags().IntVar(&queryOpts.MaxProcs, "max-procs", 1, "Queries run in parallel")
	withinCmd.Flags().Float64Var(&queryOpts.Radius, "radius", 1, "Radius in kilometers")
}
