package regions

import (
	"bufio"
	"embed"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
)

//go:embed data/countries.txt data/us_states.txt
var dataFS embed.FS

const (
	countriesPath = "data/countries.txt"
	statesPath    = "data/us_states.txt"
)

// Set names a region list served by the component.
type Set string

const (
	SetCountries Set = "countries"
	SetStates    Set = "states"
)

// Region is a code/name pair such as "US"/"United States".
type Region struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// Option is the select-friendly shape returned by the handler.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

type lazyList struct {
	once    sync.Once
	path    string
	regions []Region
	err     error
}

func (l *lazyList) load() ([]Region, error) {
	l.once.Do(func() {
		f, err := dataFS.Open(l.path)
		if err != nil {
			l.err = err
			return
		}
		defer func() { _ = f.Close() }()

		regions, err := LoadRegions(f)
		if err != nil {
			l.err = err
			return
		}
		l.regions = regions
	})

	if l.err != nil {
		return nil, l.err
	}
	return append([]Region{}, l.regions...), nil
}

var (
	countries = &lazyList{path: countriesPath}
	states    = &lazyList{path: statesPath}
)

// Countries returns the embedded ISO 3166-1 list sorted by name.
func Countries() ([]Region, error) {
	return countries.load()
}

// States returns the embedded US state list sorted by name.
func States() ([]Region, error) {
	return states.load()
}

// Regions returns the list for set.
func Regions(set Set) ([]Region, error) {
	switch set {
	case SetCountries:
		return Countries()
	case SetStates:
		return States()
	default:
		return nil, fmt.Errorf("regions: unknown set %q", set)
	}
}

// Lookup reports whether code exists in set, matching case-insensitively.
func Lookup(set Set, code string) (Region, bool) {
	list, err := Regions(set)
	if err != nil {
		return Region{}, false
	}
	code = strings.TrimSpace(code)
	for _, region := range list {
		if strings.EqualFold(region.Code, code) {
			return region, true
		}
	}
	return Region{}, false
}

// LoadRegions parses "CODE|Name" lines, skipping blanks, comments and
// duplicate codes. The result is sorted by name.
func LoadRegions(r io.Reader) ([]Region, error) {
	if r == nil {
		return nil, fmt.Errorf("regions: missing reader")
	}

	scanner := bufio.NewScanner(r)
	regions := make([]Region, 0, 256)
	seen := map[string]struct{}{}

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		code, name, ok := strings.Cut(line, "|")
		code = strings.ToUpper(strings.TrimSpace(code))
		name = strings.TrimSpace(name)
		if !ok || code == "" || name == "" {
			return nil, fmt.Errorf("regions: malformed line %q", line)
		}
		if _, dup := seen[code]; dup {
			continue
		}
		seen[code] = struct{}{}
		regions = append(regions, Region{Code: code, Name: name})
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	sort.SliceStable(regions, func(i, j int) bool {
		return regions[i].Name < regions[j].Name
	})
	return regions, nil
}

// AsOptions converts regions into select options.
func AsOptions(regions []Region) []Option {
	if len(regions) == 0 {
		return nil
	}
	out := make([]Option, 0, len(regions))
	for _, region := range regions {
		out = append(out, Option{Value: region.Code, Label: region.Name})
	}
	return out
}
