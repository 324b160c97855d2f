package services

import (
	"context"
	"strings"

	"farm-backend/internal/apperr"
	"farm-backend/internal/models"
)

type RetailerStore interface {
	Create(ctx context.Context, rt *models.Retailer) error
	Get(ctx context.Context, id int) (*models.Retailer, error)
	List(ctx context.Context) ([]*models.Retailer, error)
	Update(ctx context.Context, rt *models.Retailer) error
	Delete(ctx context.Context, id int) error
}

type RetailerService struct {
	Repo     RetailerStore
	Notifier ChangeNotifier
}

func NewRetailerService(repo RetailerStore, notifier ChangeNotifier) *RetailerService {
	return &RetailerService{Repo: repo, Notifier: notifier}
}

func retailerFromRequest(req *models.RetailerRequest) (*models.Retailer, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperr.Validation("name is required")
	}
	return &models.Retailer{
		Name:     name,
		Phone:    strings.TrimSpace(req.Phone),
		ShopName: strings.TrimSpace(req.ShopName),
		Address:  strings.TrimSpace(req.Address),
		Notes:    req.Notes,
	}, nil
}

func (s *RetailerService) CreateRetailer(ctx context.Context, req *models.RetailerRequest) (*models.Retailer, error) {
	retailer, err := retailerFromRequest(req)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.Create(ctx, retailer); err != nil {
		return nil, err
	}
	notify(s.Notifier, "retailer", ActionCreated, retailer.ID)
	return retailer, nil
}

func (s *RetailerService) GetRetailer(ctx context.Context, id int) (*models.Retailer, error) {
	return s.Repo.Get(ctx, id)
}

func (s *RetailerService) ListRetailers(ctx context.Context) ([]*models.Retailer, error) {
	return s.Repo.List(ctx)
}

func (s *RetailerService) UpdateRetailer(ctx context.Context, id int, req *models.RetailerRequest) (*models.Retailer, error) {
	retailer, err := retailerFromRequest(req)
	if err != nil {
		return nil, err
	}
	retailer.ID = id
	if err := s.Repo.Update(ctx, retailer); err != nil {
		return nil, err
	}
	notify(s.Notifier, "retailer", ActionUpdated, id)
	return s.Repo.Get(ctx, id)
}

func (s *RetailerService) DeleteRetailer(ctx context.Context, id int) error {
	if err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}
	notify(s.Notifier, "retailer", ActionDeleted, id)
	return nil
}
