package domain

import "sort"

// aggregateKey groups normalized observations for averaging.
type aggregateKey struct {
	Key      SampleKey
	Variable string
}

// Aggregate collapses same-day/same-site/same-variable replicates to their
// arithmetic mean. Missing values are excluded from the mean; a group whose
// values are all missing keeps a missing mean (never zero). Groups whose
// sample depth exceeds maxDepth are discarded (depth exactly at the
// threshold is retained, as is a missing depth). Month and Year are derived
// from the group's date.
//
// Output order is deterministic: organization, location, date, depth,
// variable.
func Aggregate(obs []NormalizedObservation, maxDepth float64) []AggregatedObservation {
	type acc struct {
		sum float64
		n   int
	}
	groups := make(map[aggregateKey]*acc)

	for _, o := range obs {
		if o.Key.Depth.Valid && o.Key.Depth.Value > maxDepth {
			continue
		}
		k := aggregateKey{Key: o.Key, Variable: o.Variable}
		a, ok := groups[k]
		if !ok {
			a = &acc{}
			groups[k] = a
		}
		if o.Value.Valid {
			a.sum += o.Value.Value
			a.n++
		}
	}

	out := make([]AggregatedObservation, 0, len(groups))
	for k, a := range groups {
		var mean Float
		if a.n > 0 {
			mean = NewFloat(a.sum / float64(a.n))
		}
		out = append(out, AggregatedObservation{
			Key:      k.Key,
			Variable: k.Variable,
			Value:    mean,
			Month:    int(k.Key.Date.Month()),
			Year:     k.Key.Date.Year(),
		})
	}

	sort.Slice(out, func(i, j int) bool { return lessAggregate(out[i], out[j]) })
	return out
}

func lessAggregate(a, b AggregatedObservation) bool {
	if a.Key.OrganizationID != b.Key.OrganizationID {
		return a.Key.OrganizationID < b.Key.OrganizationID
	}
	if a.Key.LocationID != b.Key.LocationID {
		return a.Key.LocationID < b.Key.LocationID
	}
	if !a.Key.Date.Equal(b.Key.Date) {
		return a.Key.Date.Before(b.Key.Date)
	}
	if a.Key.Depth != b.Key.Depth {
		if a.Key.Depth.Valid != b.Key.Depth.Valid {
			return !a.Key.Depth.Valid
		}
		return a.Key.Depth.Value < b.Key.Depth.Value
	}
	return a.Variable < b.Variable
}
