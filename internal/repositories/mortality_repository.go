package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"farm-backend/internal/models"
)

type MortalityRepository struct {
	DB *pgxpool.Pool
}

func NewMortalityRepository(db *pgxpool.Pool) *MortalityRepository {
	return &MortalityRepository{DB: db}
}

const mortalityColumns = `id, record_date, batch_reference, bird_count, cause, notes, created_at, updated_at`

func scanMortality(row pgx.Row) (*models.MortalityRecord, error) {
	var m models.MortalityRecord
	err := row.Scan(&m.ID, &m.Date, &m.BatchReference, &m.BirdCount, &m.Cause, &m.Notes, &m.CreatedAt, &m.UpdatedAt)
	return &m, err
}

func (r *MortalityRepository) Create(ctx context.Context, m *models.MortalityRecord) error {
	return r.DB.QueryRow(ctx,
		`INSERT INTO mortality_records(record_date, batch_reference, bird_count, cause, notes)
         VALUES($1, $2, $3, $4, $5)
         RETURNING id, created_at, updated_at`,
		m.Date, m.BatchReference, m.BirdCount, m.Cause, m.Notes,
	).Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)
}

func (r *MortalityRepository) Get(ctx context.Context, id int) (*models.MortalityRecord, error) {
	m, err := scanMortality(r.DB.QueryRow(ctx, `SELECT `+mortalityColumns+` FROM mortality_records WHERE id=$1`, id))
	if err != nil {
		return nil, notFound(err, "mortality record", id)
	}
	return m, nil
}

func (r *MortalityRepository) List(ctx context.Context) ([]*models.MortalityRecord, error) {
	return r.query(ctx, `SELECT `+mortalityColumns+` FROM mortality_records ORDER BY record_date DESC, id DESC`)
}

// ListBetween returns records dated in [from, to).
func (r *MortalityRepository) ListBetween(ctx context.Context, from, to time.Time) ([]*models.MortalityRecord, error) {
	return r.query(ctx,
		`SELECT `+mortalityColumns+` FROM mortality_records
         WHERE record_date >= $1 AND record_date < $2
         ORDER BY record_date DESC, id DESC`, from, to)
}

func (r *MortalityRepository) query(ctx context.Context, sql string, args ...any) ([]*models.MortalityRecord, error) {
	rows, err := r.DB.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*models.MortalityRecord
	for rows.Next() {
		m, err := scanMortality(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, m)
	}
	return records, rows.Err()
}

func (r *MortalityRepository) Update(ctx context.Context, m *models.MortalityRecord) error {
	tag, err := r.DB.Exec(ctx,
		`UPDATE mortality_records SET record_date=$1, batch_reference=$2, bird_count=$3, cause=$4, notes=$5,
         updated_at=CURRENT_TIMESTAMP WHERE id=$6`,
		m.Date, m.BatchReference, m.BirdCount, m.Cause, m.Notes, m.ID)
	return affected(tag, err, "mortality record", m.ID)
}

func (r *MortalityRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM mortality_records WHERE id=$1`, id)
	return affected(tag, err, "mortality record", id)
}
