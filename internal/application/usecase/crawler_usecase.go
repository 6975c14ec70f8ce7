package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/leadportal-api/internal/application/dto"
	"github.com/jhoicas/leadportal-api/internal/application/ports"
	"github.com/jhoicas/leadportal-api/internal/domain"
)

// CrawlerUseCase latidos de los jobs del crawler de sitios web.
type CrawlerUseCase struct {
	store ports.HeartbeatStore
	now   func() time.Time
}

// NewCrawlerUseCase construye el caso de uso.
func NewCrawlerUseCase(store ports.HeartbeatStore) *CrawlerUseCase {
	return &CrawlerUseCase{store: store, now: time.Now}
}

// Heartbeat registra que el job sigue vivo.
func (uc *CrawlerUseCase) Heartbeat(ctx context.Context, req dto.HeartbeatRequest) (*dto.HeartbeatResponse, error) {
	jobID := strings.TrimSpace(req.JobID)
	if jobID == "" {
		return nil, fmt.Errorf("%w: jobId es obligatorio", domain.ErrInvalidInput)
	}
	now := uc.now().UTC()
	if err := uc.store.Beat(ctx, jobID, now); err != nil {
		return nil, fmt.Errorf("registrar latido: %w", err)
	}
	return &dto.HeartbeatResponse{JobID: jobID, Alive: true, Timestamp: now}, nil
}

// Status informa si el job latió dentro del TTL del almacén.
func (uc *CrawlerUseCase) Status(ctx context.Context, jobID string) (*dto.HeartbeatResponse, error) {
	jobID = strings.TrimSpace(jobID)
	if jobID == "" {
		return nil, fmt.Errorf("%w: jobId es obligatorio", domain.ErrInvalidInput)
	}
	at, ok, err := uc.store.LastBeat(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("leer latido: %w", err)
	}
	return &dto.HeartbeatResponse{JobID: jobID, Alive: ok, Timestamp: at}, nil
}
