package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"farm-backend/internal/models"
)

type VehicleRepository struct {
	DB *pgxpool.Pool
}

func NewVehicleRepository(db *pgxpool.Pool) *VehicleRepository {
	return &VehicleRepository{DB: db}
}

const vehicleColumns = `id, vehicle_number, driver_name, driver_phone, capacity_cages, notes, created_at, updated_at`

func scanVehicle(row pgx.Row) (*models.Vehicle, error) {
	var v models.Vehicle
	err := row.Scan(&v.ID, &v.VehicleNumber, &v.DriverName, &v.DriverPhone, &v.CapacityCages, &v.Notes, &v.CreatedAt, &v.UpdatedAt)
	return &v, err
}

func (r *VehicleRepository) Create(ctx context.Context, v *models.Vehicle) error {
	return r.DB.QueryRow(ctx,
		`INSERT INTO vehicles(vehicle_number, driver_name, driver_phone, capacity_cages, notes)
         VALUES($1, $2, $3, $4, $5)
         RETURNING id, created_at, updated_at`,
		v.VehicleNumber, v.DriverName, v.DriverPhone, v.CapacityCages, v.Notes,
	).Scan(&v.ID, &v.CreatedAt, &v.UpdatedAt)
}

func (r *VehicleRepository) Get(ctx context.Context, id int) (*models.Vehicle, error) {
	v, err := scanVehicle(r.DB.QueryRow(ctx, `SELECT `+vehicleColumns+` FROM vehicles WHERE id=$1`, id))
	if err != nil {
		return nil, notFound(err, "vehicle", id)
	}
	return v, nil
}

func (r *VehicleRepository) List(ctx context.Context) ([]*models.Vehicle, error) {
	rows, err := r.DB.Query(ctx, `SELECT `+vehicleColumns+` FROM vehicles ORDER BY vehicle_number`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var vehicles []*models.Vehicle
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, err
		}
		vehicles = append(vehicles, v)
	}
	return vehicles, rows.Err()
}

func (r *VehicleRepository) Update(ctx context.Context, v *models.Vehicle) error {
	tag, err := r.DB.Exec(ctx,
		`UPDATE vehicles SET vehicle_number=$1, driver_name=$2, driver_phone=$3, capacity_cages=$4, notes=$5,
         updated_at=CURRENT_TIMESTAMP WHERE id=$6`,
		v.VehicleNumber, v.DriverName, v.DriverPhone, v.CapacityCages, v.Notes, v.ID)
	return affected(tag, err, "vehicle", v.ID)
}

func (r *VehicleRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM vehicles WHERE id=$1`, id)
	return affected(tag, err, "vehicle", id)
}
