package regions

import (
	"sort"
	"strings"
)

// Search filters regions by code or name. Exact code matches rank first,
// then name prefixes, then other substring matches.
func Search(regions []Region, query string, limit int, opts Options) []Region {
	limit = clampLimit(limit, opts)
	if limit == 0 {
		return nil
	}

	query = strings.TrimSpace(query)
	if query == "" {
		if opts.EmptySearchMode == EmptySearchTop {
			if len(regions) <= limit {
				return append([]Region{}, regions...)
			}
			return append([]Region{}, regions[:limit]...)
		}
		return nil
	}

	q := strings.ToLower(query)
	matches := make([]matchedRegion, 0, 16)
	for _, region := range regions {
		lowerName := strings.ToLower(region.Name)
		codeMatch := strings.EqualFold(region.Code, query)
		if !codeMatch && !strings.Contains(lowerName, q) {
			continue
		}
		rank := 2
		switch {
		case codeMatch:
			rank = 0
		case strings.HasPrefix(lowerName, q):
			rank = 1
		}
		matches = append(matches, matchedRegion{region: region, rank: rank})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].rank != matches[j].rank {
			return matches[i].rank < matches[j].rank
		}
		return matches[i].region.Name < matches[j].region.Name
	})

	if len(matches) > limit {
		matches = matches[:limit]
	}

	out := make([]Region, 0, len(matches))
	for _, match := range matches {
		out = append(out, match.region)
	}
	return out
}

// SearchOptions runs Search and converts the results into options.
func SearchOptions(regions []Region, query string, limit int, opts Options) []Option {
	return AsOptions(Search(regions, query, limit, opts))
}

type matchedRegion struct {
	region Region
	rank   int
}
