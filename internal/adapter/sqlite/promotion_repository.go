package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/neomorfeo/promotiq/internal/domain"
)

// Compile-time check: CatalogPromotionRepository implements its port.
var _ domain.CatalogPromotionRepository = (*CatalogPromotionRepository)(nil)

// CatalogPromotionRepository implements domain.CatalogPromotionRepository
// using SQLite.
type CatalogPromotionRepository struct {
	db *sql.DB
}

// NewCatalogPromotionRepository wraps an existing database handle.
func NewCatalogPromotionRepository(db *sql.DB) *CatalogPromotionRepository {
	return &CatalogPromotionRepository{db: db}
}

const promotionColumns = `code, name, start_date, end_date, enabled, state, priority, exclusive, action_type, action_amount, created_at, updated_at`

func (r *CatalogPromotionRepository) Create(ctx context.Context, p domain.CatalogPromotion) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO catalog_promotions (`+promotionColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.Code, p.Name, nullableTime(p.StartDate), nullableTime(p.EndDate),
		p.Enabled, string(p.State), p.Priority, p.Exclusive,
		string(p.Action.Type), p.Action.Amount,
		p.CreatedAt.Format(timeFormat), p.UpdatedAt.Format(timeFormat),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return &domain.CodeConflictError{Code: p.Code}
		}
		return fmt.Errorf("inserting promotion: %w", err)
	}
	return nil
}

func (r *CatalogPromotionRepository) FindOneByCode(ctx context.Context, code string) (domain.CatalogPromotion, error) {
	return r.scanPromotion(r.db.QueryRowContext(ctx,
		`SELECT `+promotionColumns+` FROM catalog_promotions WHERE code = ?`, code,
	))
}

func (r *CatalogPromotionRepository) List(ctx context.Context, filter domain.ListFilter) ([]domain.CatalogPromotion, error) {
	query := `SELECT ` + promotionColumns + ` FROM catalog_promotions`
	var clauses []string
	var args []any

	if filter.State != nil {
		clauses = append(clauses, `state = ?`)
		args = append(args, string(*filter.State))
	}
	if filter.Enabled != nil {
		clauses = append(clauses, `enabled = ?`)
		args = append(args, *filter.Enabled)
	}
	for i, clause := range clauses {
		if i == 0 {
			query += ` WHERE ` + clause
		} else {
			query += ` AND ` + clause
		}
	}

	query += ` ORDER BY priority DESC, code`

	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}
	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing promotions: %w", err)
	}
	defer rows.Close()

	var promotions []domain.CatalogPromotion
	for rows.Next() {
		p, err := r.scanPromotionFromRows(rows)
		if err != nil {
			return nil, err
		}
		promotions = append(promotions, p)
	}

	return promotions, rows.Err()
}

func (r *CatalogPromotionRepository) Update(ctx context.Context, p domain.CatalogPromotion) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE catalog_promotions
		 SET name = ?, start_date = ?, end_date = ?, enabled = ?, state = ?,
		     priority = ?, exclusive = ?, action_type = ?, action_amount = ?, updated_at = ?
		 WHERE code = ?`,
		p.Name, nullableTime(p.StartDate), nullableTime(p.EndDate),
		p.Enabled, string(p.State), p.Priority, p.Exclusive,
		string(p.Action.Type), p.Action.Amount,
		time.Now().UTC().Format(timeFormat), p.Code,
	)
	if err != nil {
		return fmt.Errorf("updating promotion: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrCatalogPromotionNotFound
	}
	return nil
}

func (r *CatalogPromotionRepository) Delete(ctx context.Context, code string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM catalog_promotions WHERE code = ?`, code)
	if err != nil {
		return fmt.Errorf("deleting promotion: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrCatalogPromotionNotFound
	}
	return nil
}

// scanPromotion scans a single row from QueryRow into a domain.CatalogPromotion.
func (r *CatalogPromotionRepository) scanPromotion(row *sql.Row) (domain.CatalogPromotion, error) {
	var p domain.CatalogPromotion
	var state, actionType, createdAt, updatedAt string
	var startDate, endDate sql.NullString

	err := row.Scan(&p.Code, &p.Name, &startDate, &endDate, &p.Enabled, &state,
		&p.Priority, &p.Exclusive, &actionType, &p.Action.Amount, &createdAt, &updatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return domain.CatalogPromotion{}, domain.ErrCatalogPromotionNotFound
		}
		return domain.CatalogPromotion{}, fmt.Errorf("scanning promotion: %w", err)
	}

	fillPromotion(&p, state, actionType, startDate, endDate, createdAt, updatedAt)
	return p, nil
}

// scanPromotionFromRows scans a single row from Rows (used in List).
func (r *CatalogPromotionRepository) scanPromotionFromRows(rows *sql.Rows) (domain.CatalogPromotion, error) {
	var p domain.CatalogPromotion
	var state, actionType, createdAt, updatedAt string
	var startDate, endDate sql.NullString

	err := rows.Scan(&p.Code, &p.Name, &startDate, &endDate, &p.Enabled, &state,
		&p.Priority, &p.Exclusive, &actionType, &p.Action.Amount, &createdAt, &updatedAt)
	if err != nil {
		return domain.CatalogPromotion{}, fmt.Errorf("scanning promotion row: %w", err)
	}

	fillPromotion(&p, state, actionType, startDate, endDate, createdAt, updatedAt)
	return p, nil
}

func fillPromotion(p *domain.CatalogPromotion, state, actionType string, startDate, endDate sql.NullString, createdAt, updatedAt string) {
	p.State = domain.State(state)
	p.Action.Type = domain.ActionType(actionType)
	p.StartDate = parseNullableTime(startDate)
	p.EndDate = parseNullableTime(endDate)
	p.CreatedAt, _ = time.Parse(timeFormat, createdAt)
	p.UpdatedAt, _ = time.Parse(timeFormat, updatedAt)
}

func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(timeFormat)
}

func parseNullableTime(s sql.NullString) *time.Time {
	if !s.Valid {
		return nil
	}
	t, err := time.Parse(timeFormat, s.String)
	if err != nil {
		return nil
	}
	return &t
}
