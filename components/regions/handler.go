package regions

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
)

// StatusError lets a guard choose the response status.
type StatusError struct {
	Code int
	Err  error
}

func (e StatusError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return http.StatusText(e.StatusCode())
}

func (e StatusError) Unwrap() error { return e.Err }

// StatusCode is Code, or 403 when unset.
func (e StatusError) StatusCode() int {
	if e.Code <= 0 {
		return http.StatusForbidden
	}
	return e.Code
}

type optionsResponse struct {
	Data []Option `json:"data"`
}

// Handler serves set as {"data": [{"value", "label"}]} filtered by the search
// and limit query parameters.
func Handler(set Set, fns ...OptionFn) http.Handler {
	return HandlerWithOptions(set, NewOptions(fns...))
}

// HandlerWithOptions is Handler with prepared options.
func HandlerWithOptions(set Set, opts Options) http.Handler {
	return &handler{set: set, opts: opts.normalized()}
}

type handler struct {
	set  Set
	opts Options
}

func (h *handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}
	if h.opts.Guard != nil {
		if err := h.opts.Guard(r); err != nil {
			code := http.StatusForbidden
			var statusErr StatusError
			if errors.As(err, &statusErr) {
				code = statusErr.StatusCode()
			}
			http.Error(w, http.StatusText(code), code)
			return
		}
	}

	list, err := h.opts.regions(h.set)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	query := r.URL.Query()
	limit, _ := strconv.Atoi(query.Get(h.opts.LimitParam))
	results := SearchOptions(list, query.Get(h.opts.SearchParam), limit, h.opts)
	if results == nil {
		results = []Option{}
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return
	}
	_ = json.NewEncoder(w).Encode(optionsResponse{Data: results})
}
