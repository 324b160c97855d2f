package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"farm-backend/internal/models"
)

type RetailerRepository struct {
	DB *pgxpool.Pool
}

func NewRetailerRepository(db *pgxpool.Pool) *RetailerRepository {
	return &RetailerRepository{DB: db}
}

const retailerColumns = `id, name, phone, shop_name, address, notes, created_at, updated_at`

func scanRetailer(row pgx.Row) (*models.Retailer, error) {
	var rt models.Retailer
	err := row.Scan(&rt.ID, &rt.Name, &rt.Phone, &rt.ShopName, &rt.Address, &rt.Notes, &rt.CreatedAt, &rt.UpdatedAt)
	return &rt, err
}

func (r *RetailerRepository) Create(ctx context.Context, rt *models.Retailer) error {
	return r.DB.QueryRow(ctx,
		`INSERT INTO retailers(name, phone, shop_name, address, notes)
         VALUES($1, $2, $3, $4, $5)
         RETURNING id, created_at, updated_at`,
		rt.Name, rt.Phone, rt.ShopName, rt.Address, rt.Notes,
	).Scan(&rt.ID, &rt.CreatedAt, &rt.UpdatedAt)
}

func (r *RetailerRepository) Get(ctx context.Context, id int) (*models.Retailer, error) {
	rt, err := scanRetailer(r.DB.QueryRow(ctx, `SELECT `+retailerColumns+` FROM retailers WHERE id=$1`, id))
	if err != nil {
		return nil, notFound(err, "retailer", id)
	}
	return rt, nil
}

func (r *RetailerRepository) List(ctx context.Context) ([]*models.Retailer, error) {
	rows, err := r.DB.Query(ctx, `SELECT `+retailerColumns+` FROM retailers ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var retailers []*models.Retailer
	for rows.Next() {
		rt, err := scanRetailer(rows)
		if err != nil {
			return nil, err
		}
		retailers = append(retailers, rt)
	}
	return retailers, rows.Err()
}

func (r *RetailerRepository) Update(ctx context.Context, rt *models.Retailer) error {
	tag, err := r.DB.Exec(ctx,
		`UPDATE retailers SET name=$1, phone=$2, shop_name=$3, address=$4, notes=$5, updated_at=CURRENT_TIMESTAMP
         WHERE id=$6`,
		rt.Name, rt.Phone, rt.ShopName, rt.Address, rt.Notes, rt.ID)
	return affected(tag, err, "retailer", rt.ID)
}

func (r *RetailerRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM retailers WHERE id=$1`, id)
	return affected(tag, err, "retailer", id)
}
