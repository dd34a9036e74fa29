// Package handlers provides the HTTP handlers for the mediscan API: image
// and name analysis, summary regeneration and the health check. Handlers
// always answer the analysis endpoints with HTTP 200 and an api.ResponsePayload;
// the ok flag carries application-level failure to the client.
package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"runtime"
	"strings"
	"time"

	"github.com/mediscan/mediscan-api/api"
	"github.com/mediscan/mediscan-api/dataset"
	"github.com/mediscan/mediscan-api/logging"
	"github.com/mediscan/mediscan-api/metrics"
	"github.com/mediscan/mediscan-api/ocr"
	"github.com/mediscan/mediscan-api/validation"
)

// DataStore is the registry access the handlers need.
type DataStore interface {
	GetMedicines() []dataset.Medicine
	GetLastUpdated() time.Time
	IsUpdating() bool
}

// Summarizer generates and regenerates medicine summaries.
type Summarizer interface {
	Summarize(ctx context.Context, med *dataset.Medicine) (string, error)
	Regenerate(ctx context.Context, med *dataset.Medicine, previous string) (string, error)
}

// Handler bundles the dependencies of all API endpoints.
type Handler struct {
	store           DataStore
	summarizer      Summarizer
	engine          ocr.Engine
	maxResults      int
	maxAlternatives int
}

// New creates a Handler.
func New(store DataStore, summarizer Summarizer, engine ocr.Engine, maxResults, maxAlternatives int) *Handler {
	return &Handler{
		store:           store,
		summarizer:      summarizer,
		engine:          engine,
		maxResults:      maxResults,
		maxAlternatives: maxAlternatives,
	}
}

// RespondWithJSON writes a JSON response.
func RespondWithJSON(w http.ResponseWriter, code int, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		logging.Error("Failed to marshal JSON response", "error", err, "payload_type", fmt.Sprintf("%T", payload))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	w.Write(body)
}

func respondNotOK(w http.ResponseWriter, payload *api.ResponsePayload) {
	RespondWithJSON(w, http.StatusOK, payload)
}

// AnalyzeImage handles POST /analyze-image: OCR the uploaded photo, parse
// medicine names out of the recognized text and build summaries for every
// registry hit.
func (h *Handler) AnalyzeImage(w http.ResponseWriter, r *http.Request) {
	var req api.AnalyzeImageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondWithJSON(w, http.StatusBadRequest, &api.ResponsePayload{OK: false, Error: "Invalid request body"})
		return
	}

	image, err := ocr.DecodeDataURL(req.Image)
	if err != nil {
		metrics.LookupTotals.WithLabelValues("image", "error").Inc()
		respondNotOK(w, &api.ResponsePayload{OK: false, Error: "Invalid image payload"})
		return
	}

	timer := metrics.StartOCRTimer()
	text, err := h.engine.ExtractText(r.Context(), image)
	timer.ObserveDuration()
	if err != nil {
		logging.Error("OCR failed", "error", err)
		metrics.LookupTotals.WithLabelValues("image", "error").Inc()
		respondNotOK(w, &api.ResponsePayload{OK: false, Error: "Could not read the image"})
		return
	}

	names := ocr.MedicineNames(strings.Split(text, "\n"))
	if len(names) == 0 {
		metrics.LookupTotals.WithLabelValues("image", "no_match").Inc()
		respondNotOK(w, &api.ResponsePayload{OK: false, Message: "No medicines detected."})
		return
	}

	medicines := h.store.GetMedicines()
	var found []dataset.Medicine
	for _, name := range names {
		if docs := dataset.Search(medicines, name, h.maxResults); len(docs) > 0 {
			found = append(found, docs[0])
		}
	}
	if len(found) == 0 {
		metrics.LookupTotals.WithLabelValues("image", "no_match").Inc()
		respondNotOK(w, &api.ResponsePayload{OK: false, Message: "No matching medicines found in dataset."})
		return
	}

	payload, err := h.buildPayload(r.Context(), medicines, found)
	if err != nil {
		metrics.LookupTotals.WithLabelValues("image", "error").Inc()
		respondNotOK(w, &api.ResponsePayload{OK: false, Error: "Summary generation failed"})
		return
	}
	payload.Detected = names

	metrics.LookupTotals.WithLabelValues("image", "ok").Inc()
	RespondWithJSON(w, http.StatusOK, payload)
}

// AnalyzeName handles POST /analyze-name: one or more comma-separated
// medicine names. Names without a registry hit are skipped silently.
func (h *Handler) AnalyzeName(w http.ResponseWriter, r *http.Request) {
	var req api.AnalyzeNameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondWithJSON(w, http.StatusBadRequest, &api.ResponsePayload{OK: false, Error: "Invalid request body"})
		return
	}

	query := strings.TrimSpace(req.Name)
	if query == "" {
		respondNotOK(w, &api.ResponsePayload{OK: false, Error: "No medicine name provided"})
		return
	}
	if err := validation.ValidateSearchInput(query); err != nil {
		metrics.LookupTotals.WithLabelValues("name", "error").Inc()
		respondNotOK(w, &api.ResponsePayload{OK: false, Error: "Invalid medicine name"})
		return
	}

	medicines := h.store.GetMedicines()
	var found []dataset.Medicine
	for _, name := range strings.Split(query, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if docs := dataset.Search(medicines, name, h.maxResults); len(docs) > 0 {
			found = append(found, docs[0])
		}
	}
	if len(found) == 0 {
		metrics.LookupTotals.WithLabelValues("name", "no_match").Inc()
		respondNotOK(w, &api.ResponsePayload{OK: false, Message: "No valid medicine found"})
		return
	}

	payload, err := h.buildPayload(r.Context(), medicines, found)
	if err != nil {
		metrics.LookupTotals.WithLabelValues("name", "error").Inc()
		respondNotOK(w, &api.ResponsePayload{OK: false, Error: "Summary generation failed"})
		return
	}

	metrics.LookupTotals.WithLabelValues("name", "ok").Inc()
	RespondWithJSON(w, http.StatusOK, payload)
}

// Regenerate handles POST /regenerate: produce a new summary for a single
// previously identified medicine, avoiding a repeat of the previous text.
func (h *Handler) Regenerate(w http.ResponseWriter, r *http.Request) {
	var req api.RegenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondWithJSON(w, http.StatusBadRequest, &api.ResponsePayload{OK: false, Error: "Invalid request body"})
		return
	}

	query := strings.TrimSpace(req.Name)
	if query == "" || validation.ValidateSearchInput(query) != nil {
		metrics.LookupTotals.WithLabelValues("regenerate", "error").Inc()
		respondNotOK(w, &api.ResponsePayload{OK: false, Error: "Invalid medicine name"})
		return
	}

	medicines := h.store.GetMedicines()
	docs := dataset.Search(medicines, query, h.maxResults)
	if len(docs) == 0 {
		metrics.LookupTotals.WithLabelValues("regenerate", "no_match").Inc()
		respondNotOK(w, &api.ResponsePayload{OK: false, Error: "Medicine not found"})
		return
	}

	med := docs[0]
	summary, err := h.summarizer.Regenerate(r.Context(), &med, req.PreviousSummary)
	if err != nil {
		logging.Error("Summary regeneration failed", "drug", med.DrugName, "error", err)
		metrics.LookupTotals.WithLabelValues("regenerate", "error").Inc()
		respondNotOK(w, &api.ResponsePayload{OK: false, Error: "Summary generation failed"})
		return
	}

	metrics.LookupTotals.WithLabelValues("regenerate", "ok").Inc()
	RespondWithJSON(w, http.StatusOK, &api.ResponsePayload{
		OK:        true,
		Summaries: []api.SummaryEntry{{DrugName: med.DrugName, Summary: "\n" + summary}},
		Retrieved: []api.DetailEntry{h.buildDetail(medicines, &med)},
	})
}

// buildPayload summarizes every found medicine and assembles the response.
// Summaries after the first get a leading newline so the concatenated text
// reads as separate paragraphs, matching what clients already expect.
func (h *Handler) buildPayload(ctx context.Context, medicines, found []dataset.Medicine) (*api.ResponsePayload, error) {
	payload := &api.ResponsePayload{OK: true}

	for i := range found {
		med := &found[i]
		summary, err := h.summarizer.Summarize(ctx, med)
		if err != nil {
			logging.Error("Summary generation failed", "drug", med.DrugName, "error", err)
			return nil, err
		}
		if len(payload.Summaries) > 0 {
			summary = "\n" + summary
		}
		payload.Summaries = append(payload.Summaries, api.SummaryEntry{DrugName: med.DrugName, Summary: summary})
		payload.Retrieved = append(payload.Retrieved, h.buildDetail(medicines, med))
	}
	return payload, nil
}

// buildDetail copies the raw registry record and attaches alternatives.
func (h *Handler) buildDetail(medicines []dataset.Medicine, med *dataset.Medicine) api.DetailEntry {
	detail := make(api.DetailEntry, len(med.Raw)+1)
	for k, v := range med.Raw {
		detail[k] = v
	}

	names := dataset.Alternatives(medicines, med, h.maxAlternatives)
	alts := make([]api.Alternative, 0, len(names))
	for _, name := range names {
		alts = append(alts, api.Alternative{DrugName: name})
	}
	if len(alts) == 0 {
		alts = append(alts, api.Alternative{DrugName: dataset.NoAlternatesMessage})
	}
	detail[api.KeyAlternatives] = alts
	return detail
}

// HealthCheck reports service and registry status.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	medicines := h.store.GetMedicines()
	lastUpdate := h.store.GetLastUpdated()
	dataAge := time.Since(lastUpdate)

	var status string
	var httpStatus int
	switch {
	case len(medicines) == 0:
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable
	case dataAge > 48*time.Hour:
		status = "degraded"
		httpStatus = http.StatusOK
	default:
		status = "healthy"
		httpStatus = http.StatusOK
	}

	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	RespondWithJSON(w, httpStatus, map[string]any{
		"status":         status,
		"medicine_count": len(medicines),
		"last_update":    lastUpdate.Format(time.RFC3339),
		"data_age_hours": dataAge.Hours(),
		"is_updating":    h.store.IsUpdating(),
		"memory_mb":      int(m.Alloc / 1024 / 1024),
		"goroutines":     runtime.NumGoroutine(),
	})
}
