package labels

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/sanoh-inlab/labelgo/internal/backend"
)

// SyncService keeps the local prod header cache fresh
type SyncService struct {
	service  *Service
	client   *backend.Client
	interval time.Duration
	stop     chan struct{}
	stopOnce sync.Once
}

// NewSyncService creates the cache refresh loop. token is the service
// token used outside of any operator session.
func NewSyncService(service *Service, token string, interval time.Duration) *SyncService {
	return &SyncService{
		service:  service,
		client:   service.client.WithToken(token),
		interval: interval,
		stop:     make(chan struct{}),
	}
}

// Start begins the background synchronization loop
func (s *SyncService) Start() {
	if s.client.BaseURL == "" || s.interval <= 0 || s.service.db == nil {
		log.Println("Prod header sync disabled")
		return
	}

	go func() {
		log.Printf("📡 Prod header sync started (every %v)", s.interval)
		s.RunOnce()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.RunOnce()
			case <-s.stop:
				log.Println("🛑 Prod header sync stopped")
				return
			}
		}
	}()
}

// Stop halts the service. It is safe to call more than once.
func (s *SyncService) Stop() {
	s.stopOnce.Do(func() { close(s.stop) })
}

// RunOnce refreshes the cache a single time
func (s *SyncService) RunOnce() int {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	count, err := s.service.refreshCache(ctx, s.client)
	if err != nil {
		log.Printf("❌ Prod header sync error: %v", err)
		return 0
	}
	log.Printf("✅ Prod header sync: updated %d headers", count)
	return count
}
