package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"farm-backend/internal/models"
)

type FarmerRepository struct {
	DB *pgxpool.Pool
}

func NewFarmerRepository(db *pgxpool.Pool) *FarmerRepository {
	return &FarmerRepository{DB: db}
}

const farmerColumns = `id, name, phone, village, address, notes, created_at, updated_at`

func scanFarmer(row pgx.Row) (*models.Farmer, error) {
	var f models.Farmer
	err := row.Scan(&f.ID, &f.Name, &f.Phone, &f.Village, &f.Address, &f.Notes, &f.CreatedAt, &f.UpdatedAt)
	return &f, err
}

func (r *FarmerRepository) Create(ctx context.Context, f *models.Farmer) error {
	return r.DB.QueryRow(ctx,
		`INSERT INTO farmers(name, phone, village, address, notes)
         VALUES($1, $2, $3, $4, $5)
         RETURNING id, created_at, updated_at`,
		f.Name, f.Phone, f.Village, f.Address, f.Notes,
	).Scan(&f.ID, &f.CreatedAt, &f.UpdatedAt)
}

func (r *FarmerRepository) Get(ctx context.Context, id int) (*models.Farmer, error) {
	f, err := scanFarmer(r.DB.QueryRow(ctx, `SELECT `+farmerColumns+` FROM farmers WHERE id=$1`, id))
	if err != nil {
		return nil, notFound(err, "farmer", id)
	}
	return f, nil
}

func (r *FarmerRepository) List(ctx context.Context) ([]*models.Farmer, error) {
	rows, err := r.DB.Query(ctx, `SELECT `+farmerColumns+` FROM farmers ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var farmers []*models.Farmer
	for rows.Next() {
		f, err := scanFarmer(rows)
		if err != nil {
			return nil, err
		}
		farmers = append(farmers, f)
	}
	return farmers, rows.Err()
}

func (r *FarmerRepository) Update(ctx context.Context, f *models.Farmer) error {
	tag, err := r.DB.Exec(ctx,
		`UPDATE farmers SET name=$1, phone=$2, village=$3, address=$4, notes=$5, updated_at=CURRENT_TIMESTAMP
         WHERE id=$6`,
		f.Name, f.Phone, f.Village, f.Address, f.Notes, f.ID)
	return affected(tag, err, "farmer", f.ID)
}

func (r *FarmerRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM farmers WHERE id=$1`, id)
	return affected(tag, err, "farmer", id)
}
