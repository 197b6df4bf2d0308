// Copyright 2025 The PropNear Authors
// SPDX-License-Identifier: Apache-2.0

package dataset

import "fmt"

// Skipped records a row dropped during a load and why.
type Skipped struct {
	Line int
	Err  error
}

func (s Skipped) String() string {
	return fmt.Sprintf("line %d: %v", s.Line, s.Err)
}

// LoadMetrics counts what happened to the data rows of one or more loads.
type LoadMetrics struct {
	Rows     int // data rows read
	Loaded   int // rows that produced a record
	Replaced int // loaded rows whose key overwrote an earlier row
	Skipped  int // rows dropped
}

// Merge adds o into m.
func (m *LoadMetrics) Merge(o *LoadMetrics) *LoadMetrics {
	if o == nil {
		return m
	}

	m.Rows += o.Rows
	m.Loaded += o.Loaded
	m.Replaced += o.Replaced
	m.Skipped += o.Skipped

	return m
}
