package handlers

import (
	"log"
	"net/http"
	"strconv"
)

// listProdHeaders lists production orders, optionally filtered
func (r *Router) listProdHeaders(w http.ResponseWriter, req *http.Request) {
	token, _ := r.backendToken(req)
	q := req.URL.Query()

	list, err := r.labels.ListProdHeaders(req.Context(), token, q.Get("prod_index"), q.Get("prod_no"))
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"count":   len(list.Headers),
		"cached":  list.Cached,
		"data":    list.Headers,
	})
}

// listPrintableLabels lists the printable labels of one production order
func (r *Router) listPrintableLabels(w http.ResponseWriter, req *http.Request) {
	token, _ := r.backendToken(req)
	q := req.URL.Query()

	result, err := r.labels.PrintableLabels(req.Context(), token, q.Get("prod_no"), q.Get("lot_no"))
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":     true,
		"count":       len(result.Labels),
		"prod_header": result.Header,
		"data":        result.Labels,
	})
}

// triggerSync starts the backend sync job
func (r *Router) triggerSync(w http.ResponseWriter, req *http.Request) {
	token, user := r.backendToken(req)

	message, err := r.labels.TriggerSync(req.Context(), token)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	log.Printf("🔄 Sync triggered by %s: %s", user, message)
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": message,
	})
}

// listPrintJobs returns the latest print jobs
func (r *Router) listPrintJobs(w http.ResponseWriter, req *http.Request) {
	limit, _ := strconv.Atoi(req.URL.Query().Get("limit"))

	jobs, err := r.labels.RecentJobs(limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to load print jobs")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"count":   len(jobs),
		"data":    jobs,
	})
}
