package labels

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/sanoh-inlab/labelgo/internal/backend"
	"github.com/sanoh-inlab/labelgo/internal/database"
	"github.com/sanoh-inlab/labelgo/internal/models"
	"github.com/sanoh-inlab/labelgo/internal/services/printer"
	"github.com/sanoh-inlab/labelgo/internal/websocket"
	"gorm.io/gorm/clause"
)

var (
	// ErrNoLabelsSelected is returned when a print or mark-printed request has nothing to act on
	ErrNoLabelsSelected = errors.New("no labels selected")
	// ErrProdNoRequired is returned when labels must be fetched but no production order was given
	ErrProdNoRequired = errors.New("prod_no is required")
)

const (
	defaultJobLimit = 50
	maxJobLimit     = 500
)

// Publisher receives domain events, usually the websocket hub
type Publisher interface {
	Publish(eventType string, payload interface{})
}

// Service ties the backend, the label generator and the local audit store together
type Service struct {
	client    *backend.Client
	db        *database.DB
	generator *printer.Generator
	events    Publisher
}

// NewService creates the label service. db and events may be nil.
func NewService(client *backend.Client, db *database.DB, generator *printer.Generator, events Publisher) *Service {
	return &Service{client: client, db: db, generator: generator, events: events}
}

// ProdHeaderList is a list of production headers and where it came from
type ProdHeaderList struct {
	Headers []models.ProdHeader `json:"data"`
	Cached  bool                `json:"cached"`
}

// PrintRequest selects the labels to render
type PrintRequest struct {
	ProdNo      string               `json:"prod_no"`
	LabelIDs    []int                `json:"label_ids"`
	Labels      []models.LabelRecord `json:"labels"`
	ProdHeader  *models.OrderHeader  `json:"prod_header"`
	RequestedBy string               `json:"-"`
}

// PrintResult is a rendered label document and its audit row
type PrintResult struct {
	PDF []byte
	Job *models.PrintJob
}

// ListProdHeaders returns production headers from the backend, falling back
// to the local cache when the backend cannot be reached.
func (s *Service) ListProdHeaders(ctx context.Context, token, prodIndex, prodNo string) (*ProdHeaderList, error) {
	headers, err := s.client.WithToken(token).GetProdHeaders(ctx, prodIndex)
	if err == nil {
		s.cacheHeaders(headers)
		return &ProdHeaderList{Headers: filterHeaders(headers, prodNo)}, nil
	}
	if errors.Is(err, backend.ErrUnauthorized) || s.db == nil {
		return nil, err
	}

	log.Printf("⚠️ Backend unavailable, serving cached prod headers: %v", err)
	cached, cacheErr := s.CachedHeaders(prodIndex)
	if cacheErr != nil {
		return nil, fmt.Errorf("%v (cache: %w)", err, cacheErr)
	}
	return &ProdHeaderList{Headers: filterHeaders(cached, prodNo), Cached: true}, nil
}

// CachedHeaders reads the local prod header cache
func (s *Service) CachedHeaders(prodIndex string) ([]models.ProdHeader, error) {
	var headers []models.ProdHeader
	q := s.db.Order("id DESC")
	if prodIndex != "" {
		q = q.Where("prod_index = ?", prodIndex)
	}
	if err := q.Find(&headers).Error; err != nil {
		return nil, err
	}
	return headers, nil
}

// PrintableLabels returns the printable labels of one order, optionally
// narrowed to lots containing lotNo.
func (s *Service) PrintableLabels(ctx context.Context, token, prodNo, lotNo string) (*backend.PrintableLabels, error) {
	if prodNo == "" {
		return nil, ErrProdNoRequired
	}
	result, err := s.client.WithToken(token).GetPrintableLabels(ctx, prodNo)
	if err != nil {
		return nil, err
	}
	if lotNo != "" {
		result.Labels = filterLabels(result.Labels, lotNo)
	}
	return result, nil
}

// Print renders the selected labels into a PDF and records a print job
func (s *Service) Print(ctx context.Context, token string, req PrintRequest) (*PrintResult, error) {
	labels, header, err := s.selectLabels(ctx, token, req)
	if err != nil {
		return nil, err
	}

	job := &models.PrintJob{RequestedBy: req.RequestedBy, Status: models.PrintJobGenerated}
	if header != nil {
		job.ProdNo = header.ProdNo
		job.ProdIndex = header.ProdIndex
	}
	if err := job.SetLabelIDs(models.LabelIDs(labels)); err != nil {
		return nil, err
	}

	started := time.Now()
	pdfBytes, doc, err := s.generator.Export(ctx, labels, header)
	if err != nil {
		job.Status = models.PrintJobFailed
		job.Error = err.Error()
		s.saveJob(job)
		log.Printf("❌ Label export failed for %s: %v", job.ProdNo, err)
		s.publish(websocket.EventPrintFailed, map[string]interface{}{
			"job_id":  job.ID,
			"prod_no": job.ProdNo,
			"error":   job.Error,
		})
		return nil, err
	}

	job.PageCount = len(doc.Pages)
	job.ByteSize = len(pdfBytes)
	s.saveJob(job)
	log.Printf("🖨️ Rendered %d labels on %d pages for %s in %v", job.LabelCount, job.PageCount, job.ProdNo, time.Since(started))

	s.publish(websocket.EventPrintCompleted, map[string]interface{}{
		"job_id":      job.ID,
		"prod_no":     job.ProdNo,
		"label_count": job.LabelCount,
		"page_count":  job.PageCount,
	})
	return &PrintResult{PDF: pdfBytes, Job: job}, nil
}

// MarkPrinted forwards the printed label ids to the backend and closes the print job
func (s *Service) MarkPrinted(ctx context.Context, token string, labelIDs []int, jobID string) error {
	if len(labelIDs) == 0 {
		return ErrNoLabelsSelected
	}
	if err := s.client.WithToken(token).MarkPrinted(ctx, labelIDs); err != nil {
		return err
	}

	if jobID != "" && s.db != nil {
		now := time.Now()
		err := s.db.Model(&models.PrintJob{}).Where("id = ?", jobID).Updates(map[string]interface{}{
			"status":            models.PrintJobMarkedPrinted,
			"marked_printed_at": &now,
		}).Error
		if err != nil {
			log.Printf("Failed to update print job %s: %v", jobID, err)
		}
	}

	log.Printf("✅ Marked %d labels as printed", len(labelIDs))
	s.publish(websocket.EventLabelsMarkedPrinted, map[string]interface{}{
		"job_id":    jobID,
		"label_ids": labelIDs,
	})
	return nil
}

// TriggerSync starts the backend sync job and refreshes the local cache
func (s *Service) TriggerSync(ctx context.Context, token string) (string, error) {
	client := s.client.WithToken(token)
	message, err := client.TriggerSync(ctx)
	if err != nil {
		return "", err
	}

	count, err := s.refreshCache(ctx, client)
	if err != nil {
		log.Printf("⚠️ Sync finished but cache refresh failed: %v", err)
	}

	s.publish(websocket.EventSyncCompleted, map[string]interface{}{
		"message": message,
		"headers": count,
	})
	return message, nil
}

// RecentJobs lists the latest print jobs, newest first
func (s *Service) RecentJobs(limit int) ([]models.PrintJob, error) {
	if s.db == nil {
		return []models.PrintJob{}, nil
	}
	if limit <= 0 {
		limit = defaultJobLimit
	}
	if limit > maxJobLimit {
		limit = maxJobLimit
	}
	jobs := []models.PrintJob{}
	if err := s.db.Order("created_at DESC").Limit(limit).Find(&jobs).Error; err != nil {
		return nil, err
	}
	return jobs, nil
}

func (s *Service) selectLabels(ctx context.Context, token string, req PrintRequest) ([]models.LabelRecord, *models.OrderHeader, error) {
	header := req.ProdHeader

	if len(req.Labels) > 0 {
		if header == nil && req.ProdNo != "" {
			header = &models.OrderHeader{ProdNo: req.ProdNo}
		}
		return req.Labels, header, nil
	}

	if req.ProdNo == "" {
		return nil, nil, ErrProdNoRequired
	}
	if len(req.LabelIDs) == 0 {
		return nil, nil, ErrNoLabelsSelected
	}

	printable, err := s.client.WithToken(token).GetPrintableLabels(ctx, req.ProdNo)
	if err != nil {
		return nil, nil, err
	}

	wanted := make(map[int]bool, len(req.LabelIDs))
	for _, id := range req.LabelIDs {
		wanted[id] = true
	}
	selected := make([]models.LabelRecord, 0, len(req.LabelIDs))
	for _, l := range printable.Labels {
		if wanted[l.LabelID] {
			selected = append(selected, l)
		}
	}
	if len(selected) == 0 {
		return nil, nil, ErrNoLabelsSelected
	}

	if header == nil {
		h := printable.Header
		if h.ProdNo == "" {
			h.ProdNo = req.ProdNo
		}
		header = &h
	}
	return selected, header, nil
}

// refreshCache pulls every prod header through client and upserts it locally
func (s *Service) refreshCache(ctx context.Context, client *backend.Client) (int, error) {
	if s.db == nil {
		return 0, nil
	}
	headers, err := client.GetProdHeaders(ctx, "")
	if err != nil {
		return 0, err
	}
	return s.cacheHeaders(headers), nil
}

func (s *Service) cacheHeaders(headers []models.ProdHeader) int {
	if s.db == nil {
		return 0
	}
	count := 0
	for _, h := range headers {
		h.LastSyncedAt = time.Now()

		// Upsert on the backend id
		if err := s.db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).Create(&h).Error; err != nil {
			log.Printf("Failed to cache prod header %d: %v", h.ID, err)
		} else {
			count++
		}
	}
	return count
}

func (s *Service) saveJob(job *models.PrintJob) {
	if s.db == nil {
		return
	}
	if err := s.db.Create(job).Error; err != nil {
		log.Printf("Failed to record print job: %v", err)
	}
}

func (s *Service) publish(eventType string, payload interface{}) {
	if s.events != nil {
		s.events.Publish(eventType, payload)
	}
}

func filterHeaders(headers []models.ProdHeader, prodNo string) []models.ProdHeader {
	if prodNo == "" {
		return headers
	}
	needle := strings.ToLower(prodNo)
	out := make([]models.ProdHeader, 0, len(headers))
	for _, h := range headers {
		if strings.Contains(strings.ToLower(h.ProdNo), needle) {
			out = append(out, h)
		}
	}
	return out
}

func filterLabels(labels []models.LabelRecord, lotNo string) []models.LabelRecord {
	needle := strings.ToLower(lotNo)
	out := make([]models.LabelRecord, 0, len(labels))
	for _, l := range labels {
		if strings.Contains(strings.ToLower(l.LotNo), needle) {
			out = append(out, l)
		}
	}
	return out
}
