package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strconv"

	"github.com/sanoh-inlab/labelgo/internal/services/labels"
)

var unsafeFilename = regexp.MustCompile(`[^A-Za-z0-9_.-]+`)

// printLabels renders the selected labels and returns the PDF inline
func (r *Router) printLabels(w http.ResponseWriter, req *http.Request) {
	var printReq labels.PrintRequest
	if err := json.NewDecoder(req.Body).Decode(&printReq); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	token, user := r.backendToken(req)
	printReq.RequestedBy = user

	ctx, cancel := withTimeout(req.Context(), r.cfg.Print.Timeout)
	defer cancel()

	result, err := r.labels.Print(ctx, token, printReq)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	name := "labels"
	if result.Job.ProdNo != "" {
		name += "_" + unsafeFilename.ReplaceAllString(result.Job.ProdNo, "_")
	}

	// Inline so the browser opens its PDF viewer
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=\"%s.pdf\"", name))
	w.Header().Set("Content-Length", strconv.Itoa(len(result.PDF)))
	w.Header().Set("X-Print-Job-Id", result.Job.ID)
	w.Header().Set("X-Page-Count", strconv.Itoa(result.Job.PageCount))

	w.Write(result.PDF)
}

// MarkPrintedRequest acknowledges printed labels
type MarkPrintedRequest struct {
	LabelIDs []int  `json:"label_ids"`
	JobID    string `json:"job_id"`
}

// markPrinted forwards printed label ids to the backend
func (r *Router) markPrinted(w http.ResponseWriter, req *http.Request) {
	var markReq MarkPrintedRequest
	if err := json.NewDecoder(req.Body).Decode(&markReq); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	token, _ := r.backendToken(req)
	if err := r.labels.MarkPrinted(req.Context(), token, markReq.LabelIDs, markReq.JobID); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": fmt.Sprintf("%d labels marked as printed", len(markReq.LabelIDs)),
	})
}
