package domain

import (
	"errors"
	"fmt"
)

// ErrAmbiguousMetadata is returned when the station metadata contains two
// rows for the same (organization, location). Joining against it would fan
// out wide rows, so the run fails instead of silently resolving it.
var ErrAmbiguousMetadata = errors.New("duplicate monitoring location in site metadata")

type siteKey struct {
	OrganizationID string
	LocationID     string
}

// JoinSiteMetadata left-joins station metadata onto the wide table on
// (organization id, location id). Every wide record is preserved exactly
// once; records with no metadata match come back with Matched false and
// empty metadata fields.
func JoinSiteMetadata(wide []WideRecord, sites []SiteMetadata) ([]EnrichedRecord, error) {
	index := make(map[siteKey]SiteMetadata, len(sites))
	for _, s := range sites {
		k := siteKey{OrganizationID: s.OrganizationID, LocationID: s.LocationID}
		if _, dup := index[k]; dup {
			return nil, fmt.Errorf("%w: %s/%s", ErrAmbiguousMetadata, s.OrganizationID, s.LocationID)
		}
		index[k] = s
	}

	out := make([]EnrichedRecord, 0, len(wide))
	for _, w := range wide {
		e := EnrichedRecord{WideRecord: w}
		if s, ok := index[siteKey{OrganizationID: w.Key.OrganizationID, LocationID: w.Key.LocationID}]; ok {
			e.Site = s
			e.Matched = true
		}
		out = append(out, e)
	}
	return out, nil
}
