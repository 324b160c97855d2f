package services

import (
	"context"
	"strings"
	"time"

	"farm-backend/internal/apperr"
	"farm-backend/internal/models"
	"farm-backend/internal/timeutil"
)

type MortalityStore interface {
	Create(ctx context.Context, m *models.MortalityRecord) error
	Get(ctx context.Context, id int) (*models.MortalityRecord, error)
	List(ctx context.Context) ([]*models.MortalityRecord, error)
	ListBetween(ctx context.Context, from, to time.Time) ([]*models.MortalityRecord, error)
	Update(ctx context.Context, m *models.MortalityRecord) error
	Delete(ctx context.Context, id int) error
}

type MortalityService struct {
	Repo     MortalityStore
	Notifier ChangeNotifier
}

func NewMortalityService(repo MortalityStore, notifier ChangeNotifier) *MortalityService {
	return &MortalityService{Repo: repo, Notifier: notifier}
}

func mortalityFromRequest(req *models.MortalityRequest) (*models.MortalityRecord, error) {
	date, ok := timeutil.ParseDate(req.Date)
	if !ok {
		return nil, apperr.Validation("date is required")
	}
	if req.BirdCount <= 0 {
		return nil, apperr.Validation("bird_count must be greater than zero")
	}
	return &models.MortalityRecord{
		Date:           date,
		BatchReference: strings.TrimSpace(req.BatchReference),
		BirdCount:      req.BirdCount,
		Cause:          strings.TrimSpace(req.Cause),
		Notes:          req.Notes,
	}, nil
}

func (s *MortalityService) CreateRecord(ctx context.Context, req *models.MortalityRequest) (*models.MortalityRecord, error) {
	rec, err := mortalityFromRequest(req)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.Create(ctx, rec); err != nil {
		return nil, err
	}
	notify(s.Notifier, "mortality", ActionCreated, rec.ID)
	return rec, nil
}

func (s *MortalityService) GetRecord(ctx context.Context, id int) (*models.MortalityRecord, error) {
	return s.Repo.Get(ctx, id)
}

func (s *MortalityService) ListRecords(ctx context.Context) ([]*models.MortalityRecord, error) {
	return s.Repo.List(ctx)
}

func (s *MortalityService) ListBetween(ctx context.Context, from, to time.Time) ([]*models.MortalityRecord, error) {
	return s.Repo.ListBetween(ctx, from, to)
}

func (s *MortalityService) UpdateRecord(ctx context.Context, id int, req *models.MortalityRequest) (*models.MortalityRecord, error) {
	rec, err := mortalityFromRequest(req)
	if err != nil {
		return nil, err
	}
	rec.ID = id
	if err := s.Repo.Update(ctx, rec); err != nil {
		return nil, err
	}
	notify(s.Notifier, "mortality", ActionUpdated, id)
	return s.Repo.Get(ctx, id)
}

func (s *MortalityService) DeleteRecord(ctx context.Context, id int) error {
	if err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}
	notify(s.Notifier, "mortality", ActionDeleted, id)
	return nil
}
