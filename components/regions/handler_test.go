package regions

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type handlerResponse struct {
	Data []Option `json:"data"`
}

var testStates = []Region{
	{Code: "CA", Name: "California"},
	{Code: "CO", Name: "Colorado"},
	{Code: "NC", Name: "North Carolina"},
	{Code: "TX", Name: "Texas"},
}

func decodeOptions(t *testing.T, res *http.Response) []Option {
	t.Helper()
	var payload handlerResponse
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return payload.Data
}

func TestHandler_EmptyQueryNoneReturnsEmptyDataArray(t *testing.T) {
	h := Handler(SetStates,
		WithStates(testStates),
		WithEmptySearchMode(EmptySearchNone),
	)

	req := httptest.NewRequest(http.MethodGet, "/api/regions/states", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	res := rec.Result()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", res.StatusCode)
	}
	if ct := strings.TrimSpace(res.Header.Get("Content-Type")); !strings.HasPrefix(ct, "application/json") {
		t.Fatalf("expected JSON content-type, got %q", ct)
	}
	data := decodeOptions(t, res)
	if data == nil || len(data) != 0 {
		t.Fatalf("expected empty data array, got %#v", data)
	}
}

func TestHandler_EmptyQueryTopReturnsList(t *testing.T) {
	h := Handler(SetStates, WithStates(testStates))

	req := httptest.NewRequest(http.MethodGet, "/api/regions/states", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	data := decodeOptions(t, rec.Result())
	if len(data) != len(testStates) {
		t.Fatalf("expected %d options, got %d", len(testStates), len(data))
	}
	if data[0] != (Option{Value: "CA", Label: "California"}) {
		t.Fatalf("unexpected first option: %#v", data[0])
	}
}

func TestHandler_SearchRanksCodeThenPrefix(t *testing.T) {
	h := Handler(SetStates, WithStates(testStates))

	req := httptest.NewRequest(http.MethodGet, "/api/regions/states?q=co", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	got := decodeOptions(t, rec.Result())
	want := []Option{
		{Value: "CO", Label: "Colorado"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/regions/states?q=car", nil)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	got = decodeOptions(t, rec.Result())
	want = []Option{
		{Value: "NC", Label: "North Carolina"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}
}

func TestHandler_LimitClamped(t *testing.T) {
	h := Handler(SetStates, WithStates(testStates), WithMaxLimit(2))

	req := httptest.NewRequest(http.MethodGet, "/api/regions/states?limit=10", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if data := decodeOptions(t, rec.Result()); len(data) != 2 {
		t.Fatalf("expected 2 results, got %d: %#v", len(data), data)
	}
}

func TestHandler_CustomQueryParams(t *testing.T) {
	h := Handler(SetCountries,
		WithCountries([]Region{{Code: "US", Name: "United States"}, {Code: "FR", Name: "France"}}),
		WithSearchParam("search"),
		WithLimitParam("l"),
	)

	req := httptest.NewRequest(http.MethodGet, "/api/regions/countries?search=us&l=5", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	got := decodeOptions(t, rec.Result())
	if len(got) != 1 || got[0].Value != "US" {
		t.Fatalf("expected US, got %#v", got)
	}
}

func TestHandler_MethodNotAllowed(t *testing.T) {
	h := Handler(SetStates)

	req := httptest.NewRequest(http.MethodPost, "/api/regions/states", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected status 405, got %d", rec.Code)
	}
	if allow := rec.Header().Get("Allow"); !strings.Contains(allow, http.MethodGet) {
		t.Fatalf("expected Allow header to contain GET, got %q", allow)
	}
}

func TestHandler_HeadHasNoBody(t *testing.T) {
	h := Handler(SetStates, WithStates(testStates))

	req := httptest.NewRequest(http.MethodHead, "/api/regions/states", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if rec.Body.Len() != 0 {
		t.Fatalf("expected empty body, got %q", rec.Body.String())
	}
}

func TestHandler_GuardStatusErrors(t *testing.T) {
	h := Handler(SetStates, WithGuard(func(*http.Request) error {
		return StatusError{Code: http.StatusUnauthorized, Err: errors.New("nope")}
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/regions/states", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}

	h = Handler(SetStates, WithGuard(func(*http.Request) error {
		return errors.New("denied")
	}))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d", rec.Code)
	}
}

func TestHandler_UnknownSetNotFound(t *testing.T) {
	h := Handler(Set("provinces"))

	req := httptest.NewRequest(http.MethodGet, "/api/regions/provinces", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
}
