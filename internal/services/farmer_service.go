package services

import (
	"context"
	"strings"

	"farm-backend/internal/apperr"
	"farm-backend/internal/models"
)

type FarmerStore interface {
	Create(ctx context.Context, f *models.Farmer) error
	Get(ctx context.Context, id int) (*models.Farmer, error)
	List(ctx context.Context) ([]*models.Farmer, error)
	Update(ctx context.Context, f *models.Farmer) error
	Delete(ctx context.Context, id int) error
}

type FarmerService struct {
	Repo     FarmerStore
	Notifier ChangeNotifier
}

func NewFarmerService(repo FarmerStore, notifier ChangeNotifier) *FarmerService {
	return &FarmerService{Repo: repo, Notifier: notifier}
}

func farmerFromRequest(req *models.FarmerRequest) (*models.Farmer, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperr.Validation("name is required")
	}
	return &models.Farmer{
		Name:    name,
		Phone:   strings.TrimSpace(req.Phone),
		Village: strings.TrimSpace(req.Village),
		Address: strings.TrimSpace(req.Address),
		Notes:   req.Notes,
	}, nil
}

func (s *FarmerService) CreateFarmer(ctx context.Context, req *models.FarmerRequest) (*models.Farmer, error) {
	farmer, err := farmerFromRequest(req)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.Create(ctx, farmer); err != nil {
		return nil, err
	}
	notify(s.Notifier, "farmer", ActionCreated, farmer.ID)
	return farmer, nil
}

func (s *FarmerService) GetFarmer(ctx context.Context, id int) (*models.Farmer, error) {
	return s.Repo.Get(ctx, id)
}

func (s *FarmerService) ListFarmers(ctx context.Context) ([]*models.Farmer, error) {
	return s.Repo.List(ctx)
}

func (s *FarmerService) UpdateFarmer(ctx context.Context, id int, req *models.FarmerRequest) (*models.Farmer, error) {
	farmer, err := farmerFromRequest(req)
	if err != nil {
		return nil, err
	}
	farmer.ID = id
	if err := s.Repo.Update(ctx, farmer); err != nil {
		return nil, err
	}
	notify(s.Notifier, "farmer", ActionUpdated, id)
	return s.Repo.Get(ctx, id)
}

func (s *FarmerService) DeleteFarmer(ctx context.Context, id int) error {
	if err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}
	notify(s.Notifier, "farmer", ActionDeleted, id)
	return nil
}
