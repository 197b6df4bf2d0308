// Copyright 2025 The PropNear Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/jcodagnone/propnear/dataset"
	"github.com/jcodagnone/propnear/estate"
	"github.com/jcodagnone/propnear/utils/textutils"
)

const (
	envPrefix     = "PROPNEAR_"
	envProperties = envPrefix + "PROPERTIES"
	envContacts   = envPrefix + "CONTACTS"
	envLogLevel   = envPrefix + "LOG_LEVEL"
)

// sourceEnv names the variable holding the default path of an amenity source,
// e.g. PROPNEAR_SCHOOLS.
func sourceEnv(s *estate.Source) string {
	return envPrefix + strings.ToUpper(s.Name)
}

// pathOr returns flag when set, else the value of env.
func pathOr(flag, env string) (string, error) {
	if flag != "" {
		return flag, nil
	}

	if v := os.Getenv(env); v != "" {
		return v, nil
	}

	return "", fmt.Errorf("no path given: use the flag or set %s", env)
}

func loadProperties(flag string) (*estate.Properties, error) {
	path, err := pathOr(flag, envProperties)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening properties: %w", err)
	}
	defer f.Close()

	props, metrics, err := estate.LoadProperties(f, path)
	if err != nil {
		return nil, err
	}

	slog.Info("properties loaded",
		"path", path,
		"loaded", textutils.FormatInt(int64(metrics.Loaded)),
		"replaced", metrics.Replaced,
	)

	return props, nil
}

// loadAmenities finds the source for q and loads it from flag or the
// source's environment variable.
func loadAmenities(q, flag string) (*estate.Source, []*estate.Amenity, error) {
	src, err := estate.Find(q)
	if err != nil {
		return nil, nil, err
	}

	path, err := pathOr(flag, sourceEnv(src))
	if err != nil {
		return nil, nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening %s: %w", src.Name, err)
	}
	defer f.Close()

	res, err := src.Load(f, path)
	if err != nil {
		return nil, nil, err
	}

	logLoad(src.Name, path, &res.Metrics)

	return src, res.Amenities.Values(), nil
}

func logLoad(name, path string, m *dataset.LoadMetrics) {
	attrs := []any{"source", name, "path", path, "loaded", textutils.FormatInt(int64(m.Loaded))}
	if m.Skipped > 0 {
		slog.Warn("amenities loaded with skipped rows", append(attrs, "skipped", m.Skipped)...)

		return
	}

	slog.Info("amenities loaded", attrs...)
}
