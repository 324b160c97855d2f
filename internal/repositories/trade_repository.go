package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"farm-backend/internal/apperr"
	"farm-backend/internal/database"
	"farm-backend/internal/models"
)

// WideColumns are the columns added to the original narrow trade tables.
// The reconciler makes sure each one exists before the first wide write.
var WideColumns = []database.Column{
	{Name: "invoice_number", Definition: "VARCHAR(50)"},
	{Name: "entry_date", Definition: "DATE"},
	{Name: "party_name", Definition: "VARCHAR(255)"},
	{Name: "party_contact", Definition: "VARCHAR(50)"},
	{Name: "location", Definition: "VARCHAR(255)"},
	{Name: "vehicle_number", Definition: "VARCHAR(30)"},
	{Name: "payment_type", Definition: "VARCHAR(20)"},
	{Name: "bird_type", Definition: "VARCHAR(100)"},
	{Name: "cages", Definition: "INTEGER"},
	{Name: "rate", Definition: "DOUBLE PRECISION"},
	{Name: "avg_weight", Definition: "DOUBLE PRECISION"},
	{Name: "transport_charges", Definition: "DOUBLE PRECISION"},
	{Name: "loading_charges", Definition: "DOUBLE PRECISION"},
	{Name: "commission", Definition: "DOUBLE PRECISION"},
	{Name: "other_charges", Definition: "DOUBLE PRECISION"},
	{Name: "deductions", Definition: "DOUBLE PRECISION"},
	{Name: "advance_paid", Definition: "DOUBLE PRECISION"},
	{Name: "total_payment_made", Definition: "DOUBLE PRECISION"},
	{Name: "payment_mode", Definition: "VARCHAR(30)"},
	{Name: "due_date", Definition: "DATE"},
	{Name: "cage_details", Definition: "JSONB"},
	{Name: "bird_count", Definition: "INTEGER"},
	{Name: "total_weight", Definition: "DOUBLE PRECISION"},
	{Name: "total_amount", Definition: "DOUBLE PRECISION"},
	{Name: "total_invoice", Definition: "DOUBLE PRECISION"},
	{Name: "outstanding_payment", Definition: "DOUBLE PRECISION"},
	{Name: "balance_amount", Definition: "DOUBLE PRECISION"},
}

// TradeRepository stores one kind of trade record. The table keeps both the
// original narrow columns and the wide columns; wide writes fill both.
type TradeRepository struct {
	DB      *pgxpool.Pool
	Profile models.TradeProfile
}

func NewTradeRepository(db *pgxpool.Pool, profile models.TradeProfile) *TradeRepository {
	return &TradeRepository{DB: db, Profile: profile}
}

// NextReference draws the next reference number from the entity's sequence.
func (r *TradeRepository) NextReference(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.QueryRow(ctx, fmt.Sprintf("SELECT nextval('%s')", r.Profile.Sequence)).Scan(&n)
	return n, err
}

func (r *TradeRepository) wideColumns() []string {
	return []string{
		"invoice_number", "entry_date", "party_name", "party_contact", "location",
		"vehicle_number", "payment_type", "notes", "bird_type", "cages", "rate",
		"avg_weight", "transport_charges", "loading_charges", "commission",
		"other_charges", "deductions", "advance_paid", "total_payment_made",
		"payment_mode", "due_date", "cage_details", "bird_count", "total_weight",
		"total_amount", "total_invoice", "outstanding_payment", "balance_amount",
		"order_number", r.Profile.LegacyPartyField, "order_date", "description",
		"bird_quantity", "cage_quantity", "unit_cost", "total_value", "status",
	}
}

func wideArgs(t *models.TradeRecord) []any {
	return []any{
		t.InvoiceNumber, nullDate(t.Date), t.PartyName, t.PartyContact, t.Location,
		t.VehicleNumber, t.PaymentType, t.Notes, t.BirdType, t.Cages, t.Rate,
		t.AvgWeight, t.TransportCharges, t.LoadingCharges, t.Commission,
		t.OtherCharges, t.Deductions, t.AdvancePaid, t.TotalPaymentMade,
		t.PaymentMode, nullDate(t.DueDate), nullJSON(t.CageDetails), t.BirdCount, t.TotalWeight,
		t.TotalAmount, t.TotalInvoice, t.OutstandingPayment, t.BalanceAmount,
		t.InvoiceNumber, t.PartyName, nullDate(t.Date), t.BirdType,
		t.BirdCount, t.Cages, t.Rate, t.TotalInvoice, t.PaymentType,
	}
}

func (r *TradeRepository) legacyColumns() []string {
	return []string{
		"order_number", r.Profile.LegacyPartyField, "order_date", "description",
		"bird_quantity", "cage_quantity", "unit_cost", "total_value", "status", "notes",
	}
}

// legacyArgs maps the record onto the narrow column set.
func legacyArgs(t *models.TradeRecord) []any {
	return []any{
		t.InvoiceNumber, t.PartyName, nullDate(t.Date), t.BirdType,
		t.BirdCount, t.Cages, t.Rate, t.TotalInvoice, t.PaymentType, t.Notes,
	}
}

// InsertWide writes every column and fills ID and timestamps.
func (r *TradeRepository) InsertWide(ctx context.Context, t *models.TradeRecord) error {
	return r.insert(ctx, r.wideColumns(), wideArgs(t), t)
}

// InsertLegacy writes only the original narrow columns.
func (r *TradeRepository) InsertLegacy(ctx context.Context, t *models.TradeRecord) error {
	return r.insert(ctx, r.legacyColumns(), legacyArgs(t), t)
}

func (r *TradeRepository) insert(ctx context.Context, cols []string, args []any, t *models.TradeRecord) error {
	placeholders := make([]string, len(cols))
	for i := range cols {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	query := fmt.Sprintf(
		`INSERT INTO %s (%s) VALUES (%s) RETURNING id, created_at, updated_at`,
		r.Profile.Table, strings.Join(cols, ", "), strings.Join(placeholders, ", "),
	)
	return r.DB.QueryRow(ctx, query, args...).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
}

// UpdateWide replaces every column of an existing row.
func (r *TradeRepository) UpdateWide(ctx context.Context, t *models.TradeRecord) error {
	return r.update(ctx, updateQuery(r.Profile.Table, r.wideColumns(), nil), wideArgs(t), t.ID)
}

// UpdateLegacy replaces the narrow columns of an existing row and clears
// whichever wide columns the table has, so reads fall back to the narrow
// values just written instead of the ones from an earlier wide write.
func (r *TradeRepository) UpdateLegacy(ctx context.Context, t *models.TradeRecord) error {
	cleared, err := r.presentWideColumns(ctx)
	if err != nil {
		return err
	}
	return r.update(ctx, updateQuery(r.Profile.Table, r.legacyColumns(), cleared), legacyArgs(t), t.ID)
}

// presentWideColumns lists the wide columns that exist on the table.
func (r *TradeRepository) presentWideColumns(ctx context.Context) ([]string, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT column_name FROM information_schema.columns
		 WHERE table_schema = current_schema() AND table_name = $1`, r.Profile.Table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	present := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		present[name] = true
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var cols []string
	for _, c := range WideColumns {
		if present[c.Name] {
			cols = append(cols, c.Name)
		}
	}
	return cols, nil
}

// updateQuery sets cols from $1..$n, nulls cleared, and matches the id in
// the last placeholder.
func updateQuery(table string, cols, cleared []string) string {
	sets := make([]string, 0, len(cols)+len(cleared)+1)
	for i, c := range cols {
		sets = append(sets, fmt.Sprintf("%s = $%d", c, i+1))
	}
	for _, c := range cleared {
		sets = append(sets, c+" = NULL")
	}
	sets = append(sets, "updated_at = CURRENT_TIMESTAMP")
	return fmt.Sprintf(`UPDATE %s SET %s WHERE id = $%d`, table, strings.Join(sets, ", "), len(cols)+1)
}

func (r *TradeRepository) update(ctx context.Context, query string, args []any, id int) error {
	tag, err := r.DB.Exec(ctx, query, append(args, id)...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(r.Profile.Entity, id)
	}
	return nil
}

// selectColumns reads the wide column when set and the narrow one otherwise,
// so rows written by either path come back in one shape.
func (r *TradeRepository) selectColumns() string {
	return fmt.Sprintf(`id,
		COALESCE(invoice_number, order_number, ''),
		COALESCE(entry_date, order_date),
		COALESCE(party_name, %[1]s, ''),
		COALESCE(party_contact, ''),
		COALESCE(location, ''),
		COALESCE(vehicle_number, ''),
		COALESCE(payment_type, status, 'Paid'),
		COALESCE(notes, ''),
		COALESCE(bird_type, description, ''),
		COALESCE(cages, cage_quantity, 0),
		COALESCE(rate, unit_cost::float8, 0),
		COALESCE(avg_weight, 0),
		COALESCE(transport_charges, 0),
		COALESCE(loading_charges, 0),
		COALESCE(commission, 0),
		COALESCE(other_charges, 0),
		COALESCE(deductions, 0),
		COALESCE(advance_paid, 0),
		COALESCE(total_payment_made, 0),
		COALESCE(payment_mode, ''),
		due_date,
		cage_details,
		COALESCE(bird_count, bird_quantity, 0),
		COALESCE(total_weight, 0),
		COALESCE(total_amount, 0),
		COALESCE(total_invoice, total_value::float8, 0),
		COALESCE(outstanding_payment, 0),
		COALESCE(balance_amount, 0),
		COALESCE(created_at, CURRENT_TIMESTAMP),
		COALESCE(updated_at, CURRENT_TIMESTAMP)`, r.Profile.LegacyPartyField)
}

func scanTrade(row pgx.Row) (*models.TradeRecord, error) {
	var (
		t       models.TradeRecord
		date    *time.Time
		dueDate *time.Time
		details []byte
	)
	err := row.Scan(
		&t.ID, &t.InvoiceNumber, &date, &t.PartyName, &t.PartyContact, &t.Location,
		&t.VehicleNumber, &t.PaymentType, &t.Notes, &t.BirdType, &t.Cages, &t.Rate,
		&t.AvgWeight, &t.TransportCharges, &t.LoadingCharges, &t.Commission,
		&t.OtherCharges, &t.Deductions, &t.AdvancePaid, &t.TotalPaymentMade,
		&t.PaymentMode, &dueDate, &details, &t.BirdCount, &t.TotalWeight,
		&t.TotalAmount, &t.TotalInvoice, &t.OutstandingPayment, &t.BalanceAmount,
		&t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if date != nil {
		t.Date = *date
	}
	if dueDate != nil {
		t.DueDate = *dueDate
	}
	if len(details) > 0 {
		t.CageDetails = details
	}
	return &t, nil
}

func (r *TradeRepository) Get(ctx context.Context, id int) (*models.TradeRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, r.selectColumns(), r.Profile.Table)
	t, err := scanTrade(r.DB.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound(r.Profile.Entity, id)
	}
	return t, err
}

// List returns every record, newest business date first.
func (r *TradeRepository) List(ctx context.Context) ([]*models.TradeRecord, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM %s ORDER BY COALESCE(entry_date, order_date, created_at::date) DESC NULLS LAST, id DESC`,
		r.selectColumns(), r.Profile.Table,
	)
	rows, err := r.DB.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*models.TradeRecord
	for rows.Next() {
		t, err := scanTrade(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, t)
	}
	return records, rows.Err()
}

func (r *TradeRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.DB.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.Profile.Table), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(r.Profile.Entity, id)
	}
	return nil
}

func nullDate(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}

func nullJSON(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return b
}
