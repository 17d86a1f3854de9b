package regions

import (
	"fmt"
	"net/http"
	"strings"
)

// Mux is the minimal interface required to register a net/http handler.
// It is satisfied by *http.ServeMux and chi routers.
type Mux interface {
	Handle(pattern string, handler http.Handler)
}

// MountPath returns the mount path of set under basePath.
func MountPath(basePath string, set Set, fns ...OptionFn) string {
	opts := NewOptions(fns...)
	return mountPath(basePath, opts.RoutePath, set)
}

// RegisterRoutes registers the country and state handlers under basePath.
func RegisterRoutes(mux Mux, basePath string, fns ...OptionFn) ([]string, error) {
	return RegisterRoutesWithOptions(mux, basePath, NewOptions(fns...))
}

// RegisterRoutesWithOptions registers both handlers using a pre-built Options
// value and returns the registered patterns.
func RegisterRoutesWithOptions(mux Mux, basePath string, opts Options) ([]string, error) {
	if mux == nil {
		return nil, fmt.Errorf("regions: missing mux")
	}
	opts = opts.normalized()
	patterns := make([]string, 0, 2)
	for _, set := range []Set{SetCountries, SetStates} {
		pattern := mountPath(basePath, opts.RoutePath, set)
		mux.Handle(pattern, HandlerWithOptions(set, opts))
		patterns = append(patterns, pattern)
	}
	return patterns, nil
}

func mountPath(basePath, routePath string, set Set) string {
	basePath = strings.TrimSpace(basePath)
	routePath = strings.TrimRight(strings.TrimSpace(routePath), "/")

	if !strings.HasPrefix(routePath, "/") {
		routePath = "/" + routePath
	}
	routePath = strings.TrimRight(routePath, "/") + "/" + string(set)

	if basePath == "" || basePath == "/" {
		return routePath
	}
	if !strings.HasPrefix(basePath, "/") {
		basePath = "/" + basePath
	}
	basePath = strings.TrimRight(basePath, "/")
	return basePath + routePath
}
