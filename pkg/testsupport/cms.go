package testsupport

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	pkgmodel "github.com/goliatone/go-formblock/pkg/model"
)

// Submission is a request body recorded by FakeCMS.
type Submission struct {
	Form           string                     `json:"form"`
	SubmissionData pkgmodel.SubmissionPayload `json:"submissionData"`
	ContentType    string                     `json:"-"`
	RequestID      string                     `json:"-"`
}

// FakeCMS is an httptest server speaking the subset of the CMS REST API the
// client uses. Submissions are recorded; responses are configurable.
type FakeCMS struct {
	*httptest.Server

	mu          sync.Mutex
	submissions []Submission
	status      int
	body        any
	hold        chan struct{}

	Forms  map[string]pkgmodel.FormDefinition
	Pages  map[string]pkgmodel.Page
	Docs   map[string]map[string]any
	Menu   *pkgmodel.MainMenu
	Reads  map[string]int
	ReadFn func(path string) (status int, ok bool)
}

// NewFakeCMS starts a fake CMS closed automatically at test cleanup.
func NewFakeCMS(t *testing.T) *FakeCMS {
	t.Helper()

	f := &FakeCMS{
		status: http.StatusCreated,
		body:   map[string]any{"message": "Form submitted."},
		Forms:  map[string]pkgmodel.FormDefinition{},
		Pages:  map[string]pkgmodel.Page{},
		Docs:   map[string]map[string]any{},
		Reads:  map[string]int{},
	}
	f.Server = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(func() {
		f.Release()
		f.Server.Close()
	})
	return f
}

// Respond sets the status and JSON body returned for submissions.
func (f *FakeCMS) Respond(status int, body any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.status = status
	f.body = body
}

// Hold blocks submissions until Release is called.
func (f *FakeCMS) Hold() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.hold == nil {
		f.hold = make(chan struct{})
	}
}

// Release unblocks held submissions.
func (f *FakeCMS) Release() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.hold != nil {
		close(f.hold)
		f.hold = nil
	}
}

// Submissions returns the recorded submissions.
func (f *FakeCMS) Submissions() []Submission {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Submission{}, f.submissions...)
}

func (f *FakeCMS) serve(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodPost && r.URL.Path == "/api/form-submissions" {
		f.serveSubmission(w, r)
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	f.mu.Lock()
	f.Reads[r.URL.Path]++
	readFn := f.ReadFn
	f.mu.Unlock()

	if readFn != nil {
		if status, ok := readFn(r.URL.Path); ok {
			writeJSON(w, status, map[string]any{"errors": []map[string]string{{"message": http.StatusText(status)}}})
			return
		}
	}

	path := strings.TrimPrefix(r.URL.Path, "/api/")
	switch {
	case path == "globals/main-menu":
		if f.Menu == nil {
			writeJSON(w, http.StatusNotFound, map[string]any{"errors": []map[string]string{{"message": "Not Found"}}})
			return
		}
		writeJSON(w, http.StatusOK, f.Menu)
	case path == "pages":
		slug := r.URL.Query().Get("where[slug][equals]")
		docs := []pkgmodel.Page{}
		if page, ok := f.Pages[slug]; ok {
			docs = append(docs, page)
		}
		writeJSON(w, http.StatusOK, map[string]any{"docs": docs, "totalDocs": len(docs)})
	case strings.HasPrefix(path, "forms/"):
		form, ok := f.Forms[strings.TrimPrefix(path, "forms/")]
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]any{"errors": []map[string]string{{"message": "Not Found"}}})
			return
		}
		writeJSON(w, http.StatusOK, form)
	default:
		collection, id, _ := strings.Cut(path, "/")
		doc, ok := f.Docs[collection+"/"+id]
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]any{"errors": []map[string]string{{"message": "Not Found"}}})
			return
		}
		writeJSON(w, http.StatusOK, doc)
	}
}

func (f *FakeCMS) serveSubmission(w http.ResponseWriter, r *http.Request) {
	var sub Submission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	sub.ContentType = r.Header.Get("Content-Type")
	sub.RequestID = r.Header.Get("X-Request-ID")

	f.mu.Lock()
	f.submissions = append(f.submissions, sub)
	status, body, hold := f.status, f.body, f.hold
	f.mu.Unlock()

	if hold != nil {
		select {
		case <-hold:
		case <-r.Context().Done():
			return
		}
	}

	if raw, ok := body.(string); ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(raw))
		return
	}
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
