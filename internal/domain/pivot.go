package domain

import (
	"errors"
	"fmt"
	"sort"
)

// ErrDuplicateAggregate is returned by Pivot when two aggregates share a
// sample key and variable. The aggregator already deduplicates, so a
// duplicate here means a construction error upstream, not data to merge.
var ErrDuplicateAggregate = errors.New("duplicate aggregate for sample key and variable")

// Pivot reshapes deduplicated long rows into one WideRecord per sample key,
// with one Values entry per variable observed for that key. Variables not
// observed for a key are simply absent from its map. Record order follows
// first appearance in the input.
func Pivot(aggs []AggregatedObservation) ([]WideRecord, error) {
	records := make(map[SampleKey]*WideRecord)
	var order []SampleKey

	for _, a := range aggs {
		r, ok := records[a.Key]
		if !ok {
			r = &WideRecord{
				Key:    a.Key,
				Month:  a.Month,
				Year:   a.Year,
				Values: make(map[string]Float),
			}
			records[a.Key] = r
			order = append(order, a.Key)
		}
		if _, dup := r.Values[a.Variable]; dup {
			return nil, fmt.Errorf("%w: %s %s %s",
				ErrDuplicateAggregate, a.Key.LocationID, a.Key.Date.Format("2006-01-02"), a.Variable)
		}
		r.Values[a.Variable] = a.Value
	}

	out := make([]WideRecord, 0, len(order))
	for _, k := range order {
		out = append(out, *records[k])
	}
	return out, nil
}

// Variables returns the sorted distinct variable names present in aggs.
// The wide CSV export uses this as its column basis.
func Variables(aggs []AggregatedObservation) []string {
	set := make(map[string]struct{})
	for _, a := range aggs {
		set[a.Variable] = struct{}{}
	}
	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// Melt is the inverse of Pivot for variables actually present: one
// AggregatedObservation per (record, variable) map entry, variables in
// sorted order within each record.
func Melt(records []WideRecord) []AggregatedObservation {
	var out []AggregatedObservation
	for _, r := range records {
		vars := make([]string, 0, len(r.Values))
		for v := range r.Values {
			vars = append(vars, v)
		}
		sort.Strings(vars)
		for _, v := range vars {
			out = append(out, AggregatedObservation{
				Key:      r.Key,
				Variable: v,
				Value:    r.Values[v],
				Month:    r.Month,
				Year:     r.Year,
			})
		}
	}
	return out
}
