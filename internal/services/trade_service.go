package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"farm-backend/internal/apperr"
	"farm-backend/internal/calc"
	"farm-backend/internal/coerce"
	"farm-backend/internal/database"
	"farm-backend/internal/metrics"
	"farm-backend/internal/models"
	"farm-backend/internal/repositories"
	"farm-backend/internal/timeutil"
)

// TradeStore persists one kind of trade record. *repositories.TradeRepository
// satisfies it.
type TradeStore interface {
	NextReference(ctx context.Context) (int64, error)
	InsertWide(ctx context.Context, t *models.TradeRecord) error
	InsertLegacy(ctx context.Context, t *models.TradeRecord) error
	UpdateWide(ctx context.Context, t *models.TradeRecord) error
	UpdateLegacy(ctx context.Context, t *models.TradeRecord) error
	Get(ctx context.Context, id int) (*models.TradeRecord, error)
	List(ctx context.Context) ([]*models.TradeRecord, error)
	Delete(ctx context.Context, id int) error
}

// SchemaEnsurer adds missing columns before the first write to a table.
type SchemaEnsurer interface {
	EnsureOnce(ctx context.Context, table string, columns []database.Column)
}

// BirdsPerCageSource supplies the cage conversion in force.
type BirdsPerCageSource interface {
	BirdsPerCage(ctx context.Context) int
}

// ChangeNotifier is told about every successful write.
type ChangeNotifier interface {
	Notify(entity, action string, id int)
}

// Change actions.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

type writeFunc func(ctx context.Context, t *models.TradeRecord) error

// TradeService runs the save pipeline for purchases, sales and godown sales:
// coerce the raw form, validate, assign a reference, compute derived fields,
// write through the wide columns with a fallback to the narrow ones, then
// re-read and answer in both field vocabularies.
type TradeService struct {
	Profile  models.TradeProfile
	Store    TradeStore
	Schema   SchemaEnsurer
	Settings BirdsPerCageSource
	Notifier ChangeNotifier
	logger   *zap.Logger
}

func NewTradeService(
	profile models.TradeProfile,
	store TradeStore,
	schema SchemaEnsurer,
	settings BirdsPerCageSource,
	notifier ChangeNotifier,
	logger *zap.Logger,
) *TradeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TradeService{
		Profile:  profile,
		Store:    store,
		Schema:   schema,
		Settings: settings,
		Notifier: notifier,
		logger:   logger.With(zap.String("entity", profile.Entity)),
	}
}

func (s *TradeService) policy(ctx context.Context) calc.Policy {
	perCage := calc.DefaultBirdsPerCage
	if s.Settings != nil {
		perCage = s.Settings.BirdsPerCage(ctx)
	}
	return calc.Policy{BirdsPerCage: perCage, Clamp: s.Profile.Clamp}
}

// parse coerces and validates a raw form. Nothing is consumed from the store
// before validation passes.
func (s *TradeService) parse(raw map[string]any, policy calc.Policy) (*models.TradeRecord, error) {
	rules := tradeRules(s.Profile)
	limit := calc.MaxCages(policy.BirdsPerCage)
	if cagesOutOfRange(raw, rules, limit) {
		return nil, apperr.Validation("cages must be between 1 and %d", limit)
	}
	values := coerce.Apply(raw, rules)
	if missing := missingTradeFields(values, s.Profile); len(missing) > 0 {
		return nil, apperr.Validation("Missing required fields: %s", strings.Join(missing, ", "))
	}
	return recordFromValues(values), nil
}

// Create saves a new record.
func (s *TradeService) Create(ctx context.Context, raw map[string]any) (models.TradeResponse, error) {
	policy := s.policy(ctx)
	rec, err := s.parse(raw, policy)
	if err != nil {
		return nil, err
	}

	if rec.InvoiceNumber == "" {
		if rec.InvoiceNumber, err = s.nextReference(ctx); err != nil {
			return nil, err
		}
	}

	rec.Recompute(policy)

	if s.Schema != nil {
		s.Schema.EnsureOnce(ctx, s.Profile.Table, repositories.WideColumns)
	}

	if err := s.write(ctx, rec, s.Store.InsertWide, s.Store.InsertLegacy); err != nil {
		return nil, err
	}

	merged := mergeTrade(s.reread(ctx, rec), rec)
	merged.Recompute(policy)

	s.notify(ActionCreated, merged.ID)
	return models.NewTradeResponse(merged, s.Profile), nil
}

// Update replaces every base input of an existing record and recomputes it.
// A request without a reference keeps the stored one.
func (s *TradeService) Update(ctx context.Context, id int, raw map[string]any) (models.TradeResponse, error) {
	policy := s.policy(ctx)
	rec, err := s.parse(raw, policy)
	if err != nil {
		return nil, err
	}

	existing, err := s.Store.Get(ctx, id)
	if err != nil {
		return nil, s.storeError("load "+s.Profile.Entity, err)
	}
	rec.ID = id
	rec.CreatedAt = existing.CreatedAt
	if rec.InvoiceNumber == "" {
		rec.InvoiceNumber = existing.InvoiceNumber
	}
	if rec.InvoiceNumber == "" {
		if rec.InvoiceNumber, err = s.nextReference(ctx); err != nil {
			return nil, err
		}
	}

	rec.Recompute(policy)

	if err := s.write(ctx, rec, s.Store.UpdateWide, s.Store.UpdateLegacy); err != nil {
		return nil, err
	}

	merged := mergeTrade(s.reread(ctx, rec), rec)
	merged.Recompute(policy)

	s.notify(ActionUpdated, id)
	return models.NewTradeResponse(merged, s.Profile), nil
}

// Get returns one record with freshly computed derived fields.
func (s *TradeService) Get(ctx context.Context, id int) (models.TradeResponse, error) {
	rec, err := s.Store.Get(ctx, id)
	if err != nil {
		return nil, s.storeError("load "+s.Profile.Entity, err)
	}
	rec.Recompute(s.policy(ctx))
	return models.NewTradeResponse(rec, s.Profile), nil
}

// Records returns every record, recomputed and sorted by date, newest first.
func (s *TradeService) Records(ctx context.Context) ([]*models.TradeRecord, error) {
	records, err := s.Store.List(ctx)
	if err != nil {
		return nil, s.storeError("list "+s.Profile.Entity, err)
	}

	policy := s.policy(ctx)
	for _, rec := range records {
		rec.Recompute(policy)
	}
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].SortDate().After(records[j].SortDate())
	})
	return records, nil
}

// List returns every record in wire shape.
func (s *TradeService) List(ctx context.Context) ([]models.TradeResponse, error) {
	records, err := s.Records(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.TradeResponse, 0, len(records))
	for _, rec := range records {
		out = append(out, models.NewTradeResponse(rec, s.Profile))
	}
	return out, nil
}

// Delete removes a record by id.
func (s *TradeService) Delete(ctx context.Context, id int) error {
	if err := s.Store.Delete(ctx, id); err != nil {
		return s.storeError("delete "+s.Profile.Entity, err)
	}
	s.notify(ActionDeleted, id)
	return nil
}

// Preview computes the derived fields of an unsaved form. It never touches
// the store and never rejects input.
func (s *TradeService) Preview(ctx context.Context, raw map[string]any) *models.TradePreview {
	rec := recordFromValues(coerce.Apply(raw, tradeRules(s.Profile)))
	rec.Recompute(s.policy(ctx))
	return &models.TradePreview{
		InvoiceNumber: rec.InvoiceNumber,
		Date:          timeutil.FormatDate(rec.Date),
		PartyName:     rec.PartyName,
		PaymentType:   rec.PaymentType,
		Cages:         rec.Cages,
		Rate:          rec.Rate,
		AvgWeight:     rec.AvgWeight,
		Derived:       rec.Derived,
	}
}

func (s *TradeService) nextReference(ctx context.Context) (string, error) {
	n, err := s.Store.NextReference(ctx)
	if err != nil {
		return "", s.storeError("generate reference", err)
	}
	return fmt.Sprintf("%s%03d", s.Profile.Prefix, n), nil
}

// write tries the wide column set first. Any failure other than an
// unreachable store or a missing row is retried against the narrow columns.
func (s *TradeService) write(ctx context.Context, rec *models.TradeRecord, wide, legacy writeFunc) error {
	err := wide(ctx, rec)
	if err == nil {
		metrics.TradeWritesTotal.WithLabelValues(s.Profile.Entity, "wide").Inc()
		return nil
	}
	if errors.Is(err, apperr.ErrNotFound) {
		return err
	}
	if apperr.IsConnectionError(err) {
		return s.storeError("save "+s.Profile.Entity, err)
	}

	s.logger.Warn("wide write failed, falling back to legacy columns",
		zap.String("invoice_number", rec.InvoiceNumber),
		zap.String("sqlstate", apperr.PgCode(err)),
		zap.Error(err))

	if err := legacy(ctx, rec); err != nil {
		return s.storeError("save "+s.Profile.Entity, err)
	}
	metrics.TradeWritesTotal.WithLabelValues(s.Profile.Entity, "legacy").Inc()
	return nil
}

// reread loads the row just written. If that fails the written record is used
// as is; the write itself already succeeded.
func (s *TradeService) reread(ctx context.Context, rec *models.TradeRecord) *models.TradeRecord {
	stored, err := s.Store.Get(ctx, rec.ID)
	if err != nil {
		s.logger.Warn("re-read after write failed", zap.Int("id", rec.ID), zap.Error(err))
		return rec
	}
	return stored
}

func (s *TradeService) storeError(op string, err error) error {
	if errors.Is(err, apperr.ErrNotFound) || errors.Is(err, apperr.ErrValidation) {
		return err
	}
	s.logger.Error("store failure", zap.String("op", op), zap.Error(err))
	return apperr.Connection(op, err)
}

func (s *TradeService) notify(action string, id int) {
	notify(s.Notifier, s.Profile.Entity, action, id)
}
