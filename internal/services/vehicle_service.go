package services

import (
	"context"
	"strings"

	"farm-backend/internal/apperr"
	"farm-backend/internal/models"
)

type VehicleStore interface {
	Create(ctx context.Context, v *models.Vehicle) error
	Get(ctx context.Context, id int) (*models.Vehicle, error)
	List(ctx context.Context) ([]*models.Vehicle, error)
	Update(ctx context.Context, v *models.Vehicle) error
	Delete(ctx context.Context, id int) error
}

type VehicleService struct {
	Repo     VehicleStore
	Notifier ChangeNotifier
}

func NewVehicleService(repo VehicleStore, notifier ChangeNotifier) *VehicleService {
	return &VehicleService{Repo: repo, Notifier: notifier}
}

// vehicleFromRequest normalises the registration number to upper case
// without spaces so "MH 12 AB 1234" and "mh12ab1234" are the same vehicle.
func vehicleFromRequest(req *models.VehicleRequest) (*models.Vehicle, error) {
	number := strings.ToUpper(strings.Join(strings.Fields(req.VehicleNumber), ""))
	if number == "" {
		return nil, apperr.Validation("vehicle_number is required")
	}
	if req.CapacityCages < 0 {
		return nil, apperr.Validation("capacity_cages cannot be negative")
	}
	return &models.Vehicle{
		VehicleNumber: number,
		DriverName:    strings.TrimSpace(req.DriverName),
		DriverPhone:   strings.TrimSpace(req.DriverPhone),
		CapacityCages: req.CapacityCages,
		Notes:         req.Notes,
	}, nil
}

func duplicateVehicle(err error, number string) error {
	if apperr.PgCode(err) == apperr.CodeUniqueViolation {
		return apperr.Validation("vehicle %s already exists", number)
	}
	return err
}

func (s *VehicleService) CreateVehicle(ctx context.Context, req *models.VehicleRequest) (*models.Vehicle, error) {
	vehicle, err := vehicleFromRequest(req)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.Create(ctx, vehicle); err != nil {
		return nil, duplicateVehicle(err, vehicle.VehicleNumber)
	}
	notify(s.Notifier, "vehicle", ActionCreated, vehicle.ID)
	return vehicle, nil
}

func (s *VehicleService) GetVehicle(ctx context.Context, id int) (*models.Vehicle, error) {
	return s.Repo.Get(ctx, id)
}

func (s *VehicleService) ListVehicles(ctx context.Context) ([]*models.Vehicle, error) {
	return s.Repo.List(ctx)
}

func (s *VehicleService) UpdateVehicle(ctx context.Context, id int, req *models.VehicleRequest) (*models.Vehicle, error) {
	vehicle, err := vehicleFromRequest(req)
	if err != nil {
		return nil, err
	}
	vehicle.ID = id
	if err := s.Repo.Update(ctx, vehicle); err != nil {
		return nil, duplicateVehicle(err, vehicle.VehicleNumber)
	}
	notify(s.Notifier, "vehicle", ActionUpdated, id)
	return s.Repo.Get(ctx, id)
}

func (s *VehicleService) DeleteVehicle(ctx context.Context, id int) error {
	if err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}
	notify(s.Notifier, "vehicle", ActionDeleted, id)
	return nil
}
