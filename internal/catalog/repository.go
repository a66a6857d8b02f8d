package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"bazaar-be/internal/logger"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

type Repository interface {
	GetDepartments(ctx context.Context, filter *string, limit, page *int32) ([]*Department, error)
	AddDepartment(ctx context.Context, name string) (*Department, error)
	GetCategories(ctx context.Context, departmentID string, filter *string, limit, page *int32) ([]*Category, error)
	AddCategory(ctx context.Context, departmentID, name string) (*Category, error)
	GetSubCategoriesByIDs(ctx context.Context, categoryIDs []string) (map[string][]*SubCategory, error)
	AddSubCategory(ctx context.Context, categoryID, name string) (*SubCategory, error)
	GetBrands(ctx context.Context, filter *string, limit, page *int32) ([]*Brand, error)
	AddBrand(ctx context.Context, name string, logoURL *string) (*Brand, error)
	SetActive(ctx context.Context, kind, id string, active bool) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetDepartments(
	ctx context.Context,
	filter *string,
	limit, page *int32,
) ([]*Department, error) {

	finalLimit, finalOffset := pageWindow(limit, page)

	query := `
		SELECT d.id, d.name, d.is_active
		FROM departments d
	`

	where := []string{}
	args := []interface{}{}

	if filter != nil && *filter != "" {
		where = append(where, fmt.Sprintf("d.name ILIKE $%d", len(args)+1))
		args = append(args, "%"+*filter+"%")
	}

	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}

	query += " ORDER BY d.name ASC"
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, finalLimit, finalOffset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	departments := make([]*Department, 0, finalLimit)
	for rows.Next() {
		var d Department
		if err := rows.Scan(&d.ID, &d.Name, &d.IsActive); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		departments = append(departments, &d)
	}

	return departments, rows.Err()
}

func (r *repository) AddDepartment(ctx context.Context, name string) (*Department, error) {
	log := logger.FromCtx(ctx).With(zap.String("department_name", name))

	var d Department
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO departments (id, name, is_active)
		VALUES (gen_random_uuid(), $1, true)
		RETURNING id, name, is_active
	`, name).Scan(&d.ID, &d.Name, &d.IsActive)
	if err != nil {
		log.Error("AddDepartment DB query failed", zap.Error(err))
		return nil, fmt.Errorf("add department failed: %w", err)
	}

	return &d, nil
}

func (r *repository) GetCategories(
	ctx context.Context,
	departmentID string,
	filter *string,
	limit, page *int32,
) ([]*Category, error) {

	finalLimit, finalOffset := pageWindow(limit, page)

	query := `SELECT c.id, c.department_id, c.name, c.is_active FROM categories c`
	where := []string{}
	args := []interface{}{}

	if departmentID != "" {
		where = append(where, fmt.Sprintf("c.department_id = $%d", len(args)+1))
		args = append(args, departmentID)
	}

	if filter != nil && *filter != "" {
		where = append(where, fmt.Sprintf("c.name ILIKE $%d", len(args)+1))
		args = append(args, "%"+*filter+"%")
	}

	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}

	query += " ORDER BY c.name ASC"
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, finalLimit, finalOffset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	categories := make([]*Category, 0, finalLimit)
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.DepartmentID, &c.Name, &c.IsActive); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		categories = append(categories, &c)
	}

	return categories, rows.Err()
}

func (r *repository) AddCategory(ctx context.Context, departmentID, name string) (*Category, error) {
	var c Category
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO categories (id, department_id, name, is_active)
		VALUES (gen_random_uuid(), $1, $2, true)
		RETURNING id, department_id, name, is_active
	`, departmentID, name).Scan(&c.ID, &c.DepartmentID, &c.Name, &c.IsActive)
	if err != nil {
		return nil, fmt.Errorf("add category failed: %w", err)
	}
	return &c, nil
}

func (r *repository) GetSubCategoriesByIDs(
	ctx context.Context,
	categoryIDs []string,
) (map[string][]*SubCategory, error) {

	rows, err := r.db.QueryContext(ctx, `
		SELECT s.id, s.category_id, s.name, s.is_active
		FROM subcategories s
		WHERE s.category_id = ANY($1)
		ORDER BY s.name ASC
	`, pq.Array(categoryIDs))
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	result := make(map[string][]*SubCategory, len(categoryIDs))
	for rows.Next() {
		var s SubCategory
		if err := rows.Scan(&s.ID, &s.CategoryID, &s.Name, &s.IsActive); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		result[s.CategoryID] = append(result[s.CategoryID], &s)
	}

	return result, rows.Err()
}

func (r *repository) AddSubCategory(ctx context.Context, categoryID, name string) (*SubCategory, error) {
	var s SubCategory
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO subcategories (id, category_id, name, is_active)
		VALUES (gen_random_uuid(), $1, $2, true)
		RETURNING id, category_id, name, is_active
	`, categoryID, name).Scan(&s.ID, &s.CategoryID, &s.Name, &s.IsActive)
	if err != nil {
		return nil, fmt.Errorf("add subcategory failed: %w", err)
	}
	return &s, nil
}

func (r *repository) GetBrands(
	ctx context.Context,
	filter *string,
	limit, page *int32,
) ([]*Brand, error) {

	finalLimit, finalOffset := pageWindow(limit, page)

	query := `SELECT b.id, b.name, b.logo_url, b.is_active FROM brands b`
	args := []interface{}{}

	if filter != nil && *filter != "" {
		query += fmt.Sprintf(" WHERE b.name ILIKE $%d", len(args)+1)
		args = append(args, "%"+*filter+"%")
	}

	query += " ORDER BY b.name ASC"
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, finalLimit, finalOffset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	brands := make([]*Brand, 0, finalLimit)
	for rows.Next() {
		var b Brand
		if err := rows.Scan(&b.ID, &b.Name, &b.LogoURL, &b.IsActive); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		brands = append(brands, &b)
	}

	return brands, rows.Err()
}

func (r *repository) AddBrand(ctx context.Context, name string, logoURL *string) (*Brand, error) {
	var b Brand
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO brands (id, name, logo_url, is_active)
		VALUES (gen_random_uuid(), $1, $2, true)
		RETURNING id, name, logo_url, is_active
	`, name, logoURL).Scan(&b.ID, &b.Name, &b.LogoURL, &b.IsActive)
	if err != nil {
		return nil, fmt.Errorf("add brand failed: %w", err)
	}
	return &b, nil
}

// SetActive toggles the activation flag on a taxonomy row.
// kind must be one of departments, categories, subcategories, brands.
func (r *repository) SetActive(ctx context.Context, kind, id string, active bool) error {
	switch kind {
	case "departments", "categories", "subcategories", "brands":
	default:
		return fmt.Errorf("unknown taxonomy kind: %s", kind)
	}

	query := fmt.Sprintf("UPDATE %s SET is_active = $1 WHERE id = $2", kind)
	res, err := r.db.ExecContext(ctx, query, active, id)
	if err != nil {
		return err
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func pageWindow(limit, page *int32) (int32, int32) {
	finalLimit := int32(20)
	if limit != nil && *limit > 0 {
		finalLimit = *limit
	}
	if finalLimit > 100 {
		finalLimit = 100
	}

	finalPage := int32(1)
	if page != nil && *page > 0 {
		finalPage = *page
	}

	return finalLimit, (finalPage - 1) * finalLimit
}
