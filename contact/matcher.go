// Copyright 2025 The PropNear Authors
// SPDX-License-Identifier: Apache-2.0

package contact

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/jcodagnone/propnear/dataset"
	"github.com/jcodagnone/propnear/estate"
)

// KeyColumn joins contact rows to property rows.
const KeyColumn = "prop_id"

// Validation is the verdict on one contact value of one property. Value is
// empty when the contact is invalid.
type Validation struct {
	PropID string
	Type   Type
	Value  string
	Valid  bool
}

// Listing is a parsed property together with the row it was read from. The
// row is what gets written back out.
type Listing struct {
	Property *estate.Property
	Row      dataset.Row
}

// ParseListings parses every property row in table order. Repeated ids are
// all kept. The first row that does not parse fails the whole table.
func ParseListings(props *dataset.Table) ([]Listing, error) {
	ret := make([]Listing, 0, len(props.Rows))

	for _, row := range props.Rows {
		p, err := estate.ParseProperty(row.Text)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", props.Source, dataset.WithLine(err, row.Line))
		}

		ret = append(ret, Listing{Property: p, Row: row})
	}

	return ret, nil
}

// Merged is a listing with its contacts attached.
type Merged struct {
	Listing
	Contacts map[Type]string
	AnyValid bool
}

// Value implements dataset.Record. Contact columns shadow property columns
// with the same name. Columns the row lacks fall back to the parsed
// property, so derived names such as suburb resolve too.
func (m *Merged) Value(name string) string {
	if v, ok := m.Contacts[Type(name)]; ok {
		return v
	}

	if v, ok := m.Row.Lookup(name); ok {
		return v
	}

	return m.Property.Value(name)
}

// Matcher joins contacts of the given types onto properties. With Required
// set a property needs at least one valid contact to be kept; otherwise any
// matching contact row keeps it, valid or not. Properties without a contact
// row are never kept.
type Matcher struct {
	Types    []Type
	Required bool
}

var (
	EmailMatcher      = Matcher{Types: []Type{Email}}
	PhoneMatcher      = Matcher{Types: []Type{Phone}}
	EmailPhoneMatcher = Matcher{Types: []Type{Email, Phone}, Required: true}
)

// Result is the outcome of a match. Skipped lists the contact rows that
// could not be read.
type Result struct {
	Headers []string
	Records []*Merged
	Skipped []dataset.Skipped
}

// String renders the result with dataset.Serialize.
func (r *Result) String() string {
	records := make([]dataset.Record, len(r.Records))
	for i, m := range r.Records {
		records[i] = m
	}

	return dataset.Serialize(r.Headers, records)
}

// Validate checks every requested contact of every contact row whose key is
// a known property. Invalid contacts are kept with an empty value.
func (m Matcher) Validate(listings []Listing, contacts *dataset.Table) []Validation {
	known := make(map[string]bool, len(listings))
	for _, l := range listings {
		known[l.Property.ID] = true
	}

	var ret []Validation

	for _, row := range contacts.Rows {
		id := row.Value(KeyColumn)
		if !known[id] {
			continue
		}

		for _, t := range m.Types {
			raw := row.Value(string(t))
			v := Validation{PropID: id, Type: t, Valid: Validate(t, raw)}

			if v.Valid {
				v.Value = raw
			}

			ret = append(ret, v)
		}
	}

	return ret
}

// Join attaches validations to listings in listing order. A later
// validation of the same type replaces an earlier one.
func (m Matcher) Join(listings []Listing, validations []Validation) []*Merged {
	byID := make(map[string][]Validation)
	for _, v := range validations {
		byID[v.PropID] = append(byID[v.PropID], v)
	}

	var ret []*Merged

	for _, l := range listings {
		vs := byID[l.Property.ID]
		if len(vs) == 0 {
			continue
		}

		merged := &Merged{Listing: l, Contacts: make(map[Type]string, len(m.Types))}
		for _, v := range vs {
			merged.Contacts[v.Type] = v.Value
			merged.AnyValid = merged.AnyValid || v.Valid
		}

		if m.Required && !merged.AnyValid {
			continue
		}

		ret = append(ret, merged)
	}

	return ret
}

// Match parses the properties, then validates and joins. A property row that
// cannot be read or parsed fails the match; an unreadable contact row is
// skipped.
func (m Matcher) Match(props, contacts *dataset.Table) (*Result, error) {
	if err := props.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", props.Source, err)
	}

	if err := requireColumns(props, estate.PropertyHeader...); err != nil {
		return nil, err
	}

	cols := []string{KeyColumn}
	for _, t := range m.Types {
		cols = append(cols, string(t))
	}

	if err := requireColumns(contacts, cols...); err != nil {
		return nil, err
	}

	listings, err := ParseListings(props)
	if err != nil {
		return nil, err
	}

	for _, s := range contacts.Skipped {
		slog.Debug("contact row skipped", "source", contacts.Source, "line", s.Line, "err", s.Err)
	}

	headers := slices.Clone(props.Headers)
	for _, t := range m.Types {
		if !slices.Contains(headers, string(t)) {
			headers = append(headers, string(t))
		}
	}

	return &Result{
		Headers: headers,
		Records: m.Join(listings, m.Validate(listings, contacts)),
		Skipped: contacts.Skipped,
	}, nil
}

// MatchReaders reads both tables and matches them.
func (m Matcher) MatchReaders(props, contacts io.Reader, propsName, contactsName string) (*Result, error) {
	pt, err := dataset.ReadTable(props, propsName)
	if err != nil {
		return nil, err
	}

	ct, err := dataset.ReadTable(contacts, contactsName)
	if err != nil {
		return nil, err
	}

	return m.Match(pt, ct)
}

// MatchFiles matches the property file at propPath with the contact file at
// contactPath.
func (m Matcher) MatchFiles(propPath, contactPath string) (*Result, error) {
	pf, err := os.Open(propPath)
	if err != nil {
		return nil, fmt.Errorf("opening properties: %w", err)
	}
	defer pf.Close()

	cf, err := os.Open(contactPath)
	if err != nil {
		return nil, fmt.Errorf("opening contacts: %w", err)
	}
	defer cf.Close()

	return m.MatchReaders(pf, cf, propPath, contactPath)
}

func requireColumns(t *dataset.Table, names ...string) error {
	var missing []string

	for _, n := range names {
		if !slices.Contains(t.Headers, n) {
			missing = append(missing, n)
		}
	}

	if len(missing) > 0 {
		return &dataset.FormatError{Source: t.Source, Reason: "missing columns " + strings.Join(missing, ", ")}
	}

	return nil
}
