package handlers

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mediscan/mediscan-api/api"
	"github.com/mediscan/mediscan-api/dataset"
)

type fakeStore struct {
	medicines   []dataset.Medicine
	lastUpdated time.Time
}

func (s *fakeStore) GetMedicines() []dataset.Medicine { return s.medicines }
func (s *fakeStore) GetLastUpdated() time.Time        { return s.lastUpdated }
func (s *fakeStore) IsUpdating() bool                 { return false }

type fakeSummarizer struct {
	err   error
	calls int
}

func (f *fakeSummarizer) Summarize(ctx context.Context, med *dataset.Medicine) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return "summary of " + med.DrugName, nil
}

func (f *fakeSummarizer) Regenerate(ctx context.Context, med *dataset.Medicine, previous string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return "regenerated " + med.DrugName, nil
}

type fakeEngine struct {
	text string
	err  error
}

func (f *fakeEngine) ExtractText(ctx context.Context, image []byte) (string, error) {
	return f.text, f.err
}

func testMedicines() []dataset.Medicine {
	records := []map[string]any{
		{
			"Drug Name":         "Amoxil",
			"Company Name":      "GSK",
			"Active Ingredient": "Amoxicillin",
			"Indication":        "Bacterial infections",
		},
		{
			"Drug Name":         "Moxatag",
			"Active Ingredient": "Amoxicillin",
		},
		{
			"Drug Name":         "Panadol",
			"Active Ingredient": "Paracetamol",
		},
	}

	medicines, err := recordsToMedicines(records)
	if err != nil {
		panic(err)
	}
	return medicines
}

// recordsToMedicines round-trips records through the loader's JSON path so
// tests exercise the same canonicalization the server uses.
func recordsToMedicines(records []map[string]any) ([]dataset.Medicine, error) {
	raw, err := json.Marshal(records)
	if err != nil {
		return nil, err
	}
	return dataset.Parse(raw)
}

func newTestHandler(store *fakeStore, sum *fakeSummarizer, engine *fakeEngine) *Handler {
	return New(store, sum, engine, dataset.MaxResults, dataset.MaxAlternatives)
}

func postJSON(t *testing.T, handler http.HandlerFunc, body any) (*httptest.ResponseRecorder, *api.ResponsePayload) {
	t.Helper()

	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(raw))
	rr := httptest.NewRecorder()
	handler(rr, req)

	payload := &api.ResponsePayload{}
	if err := json.Unmarshal(rr.Body.Bytes(), payload); err != nil {
		t.Fatalf("Response is not valid JSON: %v: %s", err, rr.Body.String())
	}
	return rr, payload
}

func TestAnalyzeNameSuccess(t *testing.T) {
	store := &fakeStore{medicines: testMedicines(), lastUpdated: time.Now()}
	sum := &fakeSummarizer{}
	h := newTestHandler(store, sum, &fakeEngine{})

	rr, payload := postJSON(t, h.AnalyzeName, api.AnalyzeNameRequest{Name: "Amoxil"})

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rr.Code)
	}
	if !payload.OK {
		t.Fatalf("Expected ok payload, got %+v", payload)
	}
	if len(payload.Summaries) != 1 || payload.Summaries[0].DrugName != "Amoxil" {
		t.Errorf("Unexpected summaries: %+v", payload.Summaries)
	}
	if len(payload.Retrieved) != 1 {
		t.Fatalf("Expected 1 detail entry, got %d", len(payload.Retrieved))
	}

	detail := payload.Retrieved[0]
	if got := detail.Field(api.KeyDrugName); got != "Amoxil" {
		t.Errorf("Expected Drug Name Amoxil, got %q", got)
	}
	if alts := detail.Alternatives(); len(alts) != 1 || alts[0] != "Moxatag" {
		t.Errorf("Expected alternative Moxatag, got %v", alts)
	}
}

func TestAnalyzeNameCommaList(t *testing.T) {
	store := &fakeStore{medicines: testMedicines()}
	h := newTestHandler(store, &fakeSummarizer{}, &fakeEngine{})

	_, payload := postJSON(t, h.AnalyzeName, api.AnalyzeNameRequest{Name: "Amoxil, Panadol"})

	if !payload.OK {
		t.Fatalf("Expected ok payload, got %+v", payload)
	}
	if got := payload.DrugNames(); len(got) != 2 || got[0] != "Amoxil" || got[1] != "Panadol" {
		t.Fatalf("Expected [Amoxil Panadol], got %v", got)
	}
	// Second summary starts a new paragraph.
	if !strings.HasPrefix(payload.Summaries[1].Summary, "\n") {
		t.Errorf("Expected leading newline on second summary, got %q", payload.Summaries[1].Summary)
	}
}

func TestAnalyzeNameFailures(t *testing.T) {
	tests := []struct {
		name        string
		query       string
		summarizer  *fakeSummarizer
		wantMessage string
		wantError   string
	}{
		{"empty name", "", &fakeSummarizer{}, "", "No medicine name provided"},
		{"unknown name", "nosuchdrugxyzw", &fakeSummarizer{}, "No valid medicine found", ""},
		{"hostile input", "<script>alert(1)</script>", &fakeSummarizer{}, "", "Invalid medicine name"},
		{"generator down", "Amoxil", &fakeSummarizer{err: errors.New("boom")}, "", "Summary generation failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeStore{medicines: testMedicines()}
			h := newTestHandler(store, tt.summarizer, &fakeEngine{})

			_, payload := postJSON(t, h.AnalyzeName, api.AnalyzeNameRequest{Name: tt.query})

			if payload.OK {
				t.Fatalf("Expected failure payload, got %+v", payload)
			}
			if tt.wantMessage != "" && payload.Message != tt.wantMessage {
				t.Errorf("Expected message %q, got %q", tt.wantMessage, payload.Message)
			}
			if tt.wantError != "" && payload.Error != tt.wantError {
				t.Errorf("Expected error %q, got %q", tt.wantError, payload.Error)
			}
			if len(payload.Summaries) != 0 || len(payload.Retrieved) != 0 {
				t.Error("Failure payloads must not carry results")
			}
		})
	}
}

func TestAnalyzeNameInvalidBody(t *testing.T) {
	h := newTestHandler(&fakeStore{}, &fakeSummarizer{}, &fakeEngine{})

	req := httptest.NewRequest(http.MethodPost, "/analyze-name", strings.NewReader("{not json"))
	rr := httptest.NewRecorder()
	h.AnalyzeName(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for malformed body, got %d", rr.Code)
	}
}

func imageDataURL() string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("fake-png-bytes"))
}

func TestAnalyzeImageSuccess(t *testing.T) {
	store := &fakeStore{medicines: testMedicines()}
	engine := &fakeEngine{text: "TAB Amoxil 1+0+1\nTAB Panadol 1+1+1"}
	h := newTestHandler(store, &fakeSummarizer{}, engine)

	_, payload := postJSON(t, h.AnalyzeImage, api.AnalyzeImageRequest{Image: imageDataURL()})

	if !payload.OK {
		t.Fatalf("Expected ok payload, got %+v", payload)
	}
	if len(payload.Detected) != 2 {
		t.Errorf("Expected 2 detected names, got %v", payload.Detected)
	}
	if got := payload.DrugNames(); len(got) != 2 || got[0] != "Amoxil" || got[1] != "Panadol" {
		t.Errorf("Expected [Amoxil Panadol], got %v", got)
	}
}

func TestAnalyzeImageFailures(t *testing.T) {
	tests := []struct {
		name      string
		image     string
		engine    *fakeEngine
		wantError string
		wantMsg   string
	}{
		{"bad payload", "not-base64-%%%", &fakeEngine{}, "Invalid image payload", ""},
		{"ocr failure", imageDataURL(), &fakeEngine{err: errors.New("tesseract crashed")}, "Could not read the image", ""},
		{"nothing recognized", imageDataURL(), &fakeEngine{text: "an unreadable smudge"}, "", "No medicines detected."},
		{"no registry match", imageDataURL(), &fakeEngine{text: "TAB Nosuchdrug 1+0+1"}, "", "No matching medicines found in dataset."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeStore{medicines: testMedicines()}
			h := newTestHandler(store, &fakeSummarizer{}, tt.engine)

			_, payload := postJSON(t, h.AnalyzeImage, api.AnalyzeImageRequest{Image: tt.image})

			if payload.OK {
				t.Fatalf("Expected failure payload, got %+v", payload)
			}
			if tt.wantError != "" && payload.Error != tt.wantError {
				t.Errorf("Expected error %q, got %q", tt.wantError, payload.Error)
			}
			if tt.wantMsg != "" && payload.Message != tt.wantMsg {
				t.Errorf("Expected message %q, got %q", tt.wantMsg, payload.Message)
			}
		})
	}
}

func TestRegenerate(t *testing.T) {
	store := &fakeStore{medicines: testMedicines()}
	sum := &fakeSummarizer{}
	h := newTestHandler(store, sum, &fakeEngine{})

	_, payload := postJSON(t, h.Regenerate, api.RegenerateRequest{Name: "Amoxil", PreviousSummary: "old"})

	if !payload.OK {
		t.Fatalf("Expected ok payload, got %+v", payload)
	}
	if len(payload.Summaries) != 1 {
		t.Fatalf("Expected 1 summary, got %d", len(payload.Summaries))
	}
	if payload.Summaries[0].Summary != "\nregenerated Amoxil" {
		t.Errorf("Unexpected summary %q", payload.Summaries[0].Summary)
	}
	if len(payload.Retrieved) != 1 {
		t.Errorf("Expected 1 detail entry, got %d", len(payload.Retrieved))
	}
}

func TestRegenerateNotFound(t *testing.T) {
	store := &fakeStore{medicines: testMedicines()}
	h := newTestHandler(store, &fakeSummarizer{}, &fakeEngine{})

	_, payload := postJSON(t, h.Regenerate, api.RegenerateRequest{Name: "nosuchdrugxyzw"})

	if payload.OK || payload.Error != "Medicine not found" {
		t.Errorf("Expected 'Medicine not found', got %+v", payload)
	}
}

func TestNoAlternatesFallback(t *testing.T) {
	store := &fakeStore{medicines: testMedicines()}
	h := newTestHandler(store, &fakeSummarizer{}, &fakeEngine{})

	// Panadol is the only paracetamol entry, so it has no alternates.
	_, payload := postJSON(t, h.AnalyzeName, api.AnalyzeNameRequest{Name: "Panadol"})

	if !payload.OK {
		t.Fatalf("Expected ok payload, got %+v", payload)
	}
	alts := payload.Retrieved[0].Alternatives()
	if len(alts) != 1 || alts[0] != dataset.NoAlternatesMessage {
		t.Errorf("Expected the no-alternates fallback, got %v", alts)
	}
}

func TestHealthCheck(t *testing.T) {
	tests := []struct {
		name       string
		store      *fakeStore
		wantCode   int
		wantStatus string
	}{
		{
			name:       "healthy",
			store:      &fakeStore{medicines: testMedicines(), lastUpdated: time.Now()},
			wantCode:   http.StatusOK,
			wantStatus: "healthy",
		},
		{
			name:       "degraded when stale",
			store:      &fakeStore{medicines: testMedicines(), lastUpdated: time.Now().Add(-72 * time.Hour)},
			wantCode:   http.StatusOK,
			wantStatus: "degraded",
		},
		{
			name:       "unhealthy when empty",
			store:      &fakeStore{},
			wantCode:   http.StatusServiceUnavailable,
			wantStatus: "unhealthy",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler(tt.store, &fakeSummarizer{}, &fakeEngine{})

			req := httptest.NewRequest(http.MethodGet, "/health", nil)
			rr := httptest.NewRecorder()
			h.HealthCheck(rr, req)

			if rr.Code != tt.wantCode {
				t.Errorf("Expected %d, got %d", tt.wantCode, rr.Code)
			}

			var body map[string]any
			if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
				t.Fatalf("Invalid health JSON: %v", err)
			}
			if body["status"] != tt.wantStatus {
				t.Errorf("Expected status %q, got %v", tt.wantStatus, body["status"])
			}
		})
	}
}
