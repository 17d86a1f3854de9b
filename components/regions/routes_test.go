package regions

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRegisterRoutes_MountsBothSets(t *testing.T) {
	mux := http.NewServeMux()

	patterns, err := RegisterRoutes(mux, "/", WithStates(testStates))
	if err != nil {
		t.Fatalf("register routes: %v", err)
	}
	want := []string{"/api/regions/countries", "/api/regions/states"}
	if diff := cmp.Diff(want, patterns); diff != "" {
		t.Fatalf("patterns mismatch (-want +got):\n%s", diff)
	}

	for _, path := range want {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: expected status 200, got %d", path, rec.Code)
		}
	}
}

func TestRegisterRoutes_MissingMux(t *testing.T) {
	if _, err := RegisterRoutes(nil, "/"); err == nil {
		t.Fatalf("expected error for nil mux")
	}
}

func TestMountPath(t *testing.T) {
	cases := []struct {
		base  string
		route string
		set   Set
		want  string
	}{
		{base: "", route: "/api/regions", set: SetCountries, want: "/api/regions/countries"},
		{base: "/", route: "api/regions/", set: SetStates, want: "/api/regions/states"},
		{base: "admin/", route: "/lookup", set: SetStates, want: "/admin/lookup/states"},
	}
	for _, tc := range cases {
		got := MountPath(tc.base, tc.set, WithRoutePath(tc.route))
		if got != tc.want {
			t.Fatalf("MountPath(%q, %q, %q) = %q, want %q", tc.base, tc.set, tc.route, got, tc.want)
		}
	}
}
