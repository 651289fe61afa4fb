package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/neomorfeo/promotiq/internal/domain"
)

// Compile-time checks: the catalog repositories implement their ports.
var (
	_ domain.ProductRepository        = (*ProductRepository)(nil)
	_ domain.ProductVariantRepository = (*ProductVariantRepository)(nil)
)

// ProductRepository implements domain.ProductRepository using SQLite.
type ProductRepository struct {
	db *sql.DB
}

// NewProductRepository wraps an existing database handle.
func NewProductRepository(db *sql.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) Create(ctx context.Context, p domain.Product) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO products (code, name) VALUES (?, ?)`, p.Code, p.Name)
	if err != nil {
		if isUniqueViolation(err) {
			return &domain.CodeConflictError{Code: p.Code}
		}
		return fmt.Errorf("inserting product: %w", err)
	}
	return nil
}

func (r *ProductRepository) FindOneByCode(ctx context.Context, code string) (domain.Product, error) {
	var p domain.Product
	err := r.db.QueryRowContext(ctx,
		`SELECT code, name FROM products WHERE code = ?`, code,
	).Scan(&p.Code, &p.Name)
	if err != nil {
		if err == sql.ErrNoRows {
			return domain.Product{}, domain.ErrProductNotFound
		}
		return domain.Product{}, fmt.Errorf("scanning product: %w", err)
	}
	return p, nil
}

// ProductVariantRepository implements domain.ProductVariantRepository using
// SQLite. A variant row aggregates its channel pricings and their applied
// promotion attribution on load; Save rewrites pricing and attribution in
// one transaction so the pricing invariant never spans a partial write.
type ProductVariantRepository struct {
	db *sql.DB
}

// NewProductVariantRepository wraps an existing database handle.
func NewProductVariantRepository(db *sql.DB) *ProductVariantRepository {
	return &ProductVariantRepository{db: db}
}

func (r *ProductVariantRepository) Create(ctx context.Context, v domain.ProductVariant) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	_, err = tx.ExecContext(ctx,
		`INSERT INTO product_variants (code, product_code, name) VALUES (?, ?, ?)`,
		v.Code, v.ProductCode, v.Name)
	if err != nil {
		if isUniqueViolation(err) {
			return &domain.CodeConflictError{Code: v.Code}
		}
		return fmt.Errorf("inserting variant: %w", err)
	}

	for _, cp := range v.ChannelPricings {
		if err := insertPricing(ctx, tx, v.Code, cp); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *ProductVariantRepository) FindOneByCode(ctx context.Context, code string) (domain.ProductVariant, error) {
	variants, err := r.FindByCodes(ctx, []string{code})
	if err != nil {
		return domain.ProductVariant{}, err
	}
	if len(variants) == 0 {
		return domain.ProductVariant{}, domain.ErrProductVariantNotFound
	}
	return variants[0], nil
}

func (r *ProductVariantRepository) FindByCodes(ctx context.Context, codes []string) ([]domain.ProductVariant, error) {
	if len(codes) == 0 {
		return nil, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(codes)), ", ")
	args := make([]any, len(codes))
	for i, code := range codes {
		args[i] = code
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT code, product_code, name FROM product_variants
		 WHERE code IN (`+placeholders+`) ORDER BY code`, args...)
	if err != nil {
		return nil, fmt.Errorf("querying variants: %w", err)
	}
	defer rows.Close()

	var variants []domain.ProductVariant
	for rows.Next() {
		var v domain.ProductVariant
		if err := rows.Scan(&v.Code, &v.ProductCode, &v.Name); err != nil {
			return nil, fmt.Errorf("scanning variant row: %w", err)
		}
		variants = append(variants, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range variants {
		pricings, err := r.loadPricings(ctx, variants[i].Code)
		if err != nil {
			return nil, err
		}
		variants[i].ChannelPricings = pricings
	}

	return variants, nil
}

func (r *ProductVariantRepository) CodesOfAllVariants(ctx context.Context) ([]string, error) {
	return r.queryCodes(ctx, `SELECT code FROM product_variants ORDER BY code`)
}

func (r *ProductVariantRepository) CodesByProductCode(ctx context.Context, productCode string) ([]string, error) {
	return r.queryCodes(ctx,
		`SELECT code FROM product_variants WHERE product_code = ? ORDER BY code`, productCode)
}

// Save rewrites the variant's channel pricings and attribution.
func (r *ProductVariantRepository) Save(ctx context.Context, v domain.ProductVariant) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	result, err := tx.ExecContext(ctx,
		`UPDATE product_variants SET name = ? WHERE code = ?`, v.Name, v.Code)
	if err != nil {
		return fmt.Errorf("updating variant: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrProductVariantNotFound
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM channel_pricings WHERE variant_code = ?`, v.Code); err != nil {
		return fmt.Errorf("clearing pricings: %w", err)
	}

	for _, cp := range v.ChannelPricings {
		if err := insertPricing(ctx, tx, v.Code, cp); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *ProductVariantRepository) queryCodes(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying variant codes: %w", err)
	}
	defer rows.Close()

	var codes []string
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, fmt.Errorf("scanning variant code: %w", err)
		}
		codes = append(codes, code)
	}
	return codes, rows.Err()
}

func (r *ProductVariantRepository) loadPricings(ctx context.Context, variantCode string) ([]domain.ChannelPricing, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, channel_code, price, original_price FROM channel_pricings
		 WHERE variant_code = ? ORDER BY channel_code`, variantCode)
	if err != nil {
		return nil, fmt.Errorf("querying pricings: %w", err)
	}
	defer rows.Close()

	type pricingRow struct {
		id int64
		cp domain.ChannelPricing
	}

	var loaded []pricingRow
	for rows.Next() {
		var row pricingRow
		var original sql.NullInt64
		if err := rows.Scan(&row.id, &row.cp.ChannelCode, &row.cp.Price, &original); err != nil {
			return nil, fmt.Errorf("scanning pricing row: %w", err)
		}
		if original.Valid {
			row.cp.OriginalPrice = &original.Int64
		}
		loaded = append(loaded, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	pricings := make([]domain.ChannelPricing, 0, len(loaded))
	for _, row := range loaded {
		applied, err := r.loadAppliedPromotions(ctx, row.id)
		if err != nil {
			return nil, err
		}
		row.cp.AppliedPromotions = applied
		pricings = append(pricings, row.cp)
	}
	return pricings, nil
}

func (r *ProductVariantRepository) loadAppliedPromotions(ctx context.Context, pricingID int64) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT promotion_code FROM channel_pricing_promotions
		 WHERE channel_pricing_id = ? ORDER BY position`, pricingID)
	if err != nil {
		return nil, fmt.Errorf("querying applied promotions: %w", err)
	}
	defer rows.Close()

	var codes []string
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, fmt.Errorf("scanning applied promotion: %w", err)
		}
		codes = append(codes, code)
	}
	return codes, rows.Err()
}

func insertPricing(ctx context.Context, tx *sql.Tx, variantCode string, cp domain.ChannelPricing) error {
	var original any
	if cp.OriginalPrice != nil {
		original = *cp.OriginalPrice
	}

	result, err := tx.ExecContext(ctx,
		`INSERT INTO channel_pricings (variant_code, channel_code, price, original_price)
		 VALUES (?, ?, ?, ?)`,
		variantCode, cp.ChannelCode, cp.Price, original)
	if err != nil {
		return fmt.Errorf("inserting pricing: %w", err)
	}

	pricingID, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading pricing id: %w", err)
	}

	for position, code := range cp.AppliedPromotions {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO channel_pricing_promotions (channel_pricing_id, promotion_code, position)
			 VALUES (?, ?, ?)`, pricingID, code, position); err != nil {
			return fmt.Errorf("inserting applied promotion: %w", err)
		}
	}
	return nil
}
