package regions

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLoadRegions_SkipsCommentsAndDuplicates(t *testing.T) {
	input := strings.Join([]string{
		"# header",
		"",
		"fr|France",
		"US|United States",
		"FR|France again",
		"DE | Germany ",
	}, "\n")

	got, err := LoadRegions(strings.NewReader(input))
	if err != nil {
		t.Fatalf("load regions: %v", err)
	}
	want := []Region{
		{Code: "FR", Name: "France"},
		{Code: "DE", Name: "Germany"},
		{Code: "US", Name: "United States"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("regions mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadRegions_MalformedLine(t *testing.T) {
	if _, err := LoadRegions(strings.NewReader("US United States")); err == nil {
		t.Fatalf("expected malformed line error")
	}
}

func TestEmbeddedLists(t *testing.T) {
	if region, ok := Lookup(SetCountries, "us"); !ok || region.Name != "United States" {
		t.Fatalf("expected US in countries, got %#v ok=%v", region, ok)
	}
	if region, ok := Lookup(SetStates, "CA"); !ok || region.Name != "California" {
		t.Fatalf("expected CA in states, got %#v ok=%v", region, ok)
	}
	if _, ok := Lookup(SetStates, "ZZ"); ok {
		t.Fatalf("did not expect ZZ in states")
	}
	states, err := States()
	if err != nil {
		t.Fatalf("states: %v", err)
	}
	if len(states) != 51 {
		t.Fatalf("expected 51 states, got %d", len(states))
	}
}
