package catalog

import (
	"context"
	"database/sql"
	"errors"

	"bazaar-be/internal/fault"
	"bazaar-be/internal/logger"

	"go.uber.org/zap"
)

// Service defines the business logic for the catalog taxonomy.
type Service interface {
	GetDepartments(ctx context.Context, filter *string, limit, page *int32) ([]*Department, error)
	AddDepartment(ctx context.Context, name string) (*Department, error)
	GetCategories(ctx context.Context, departmentID string, filter *string, limit, page *int32) ([]*Category, error)
	AddCategory(ctx context.Context, departmentID, name string) (*Category, error)
	AddSubCategory(ctx context.Context, categoryID, name string) (*SubCategory, error)
	GetBrands(ctx context.Context, filter *string, limit, page *int32) ([]*Brand, error)
	AddBrand(ctx context.Context, name string, logoURL *string) (*Brand, error)
	SetActive(ctx context.Context, kind, id string, active bool) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) GetDepartments(ctx context.Context, filter *string, limit, page *int32) ([]*Department, error) {
	return s.repo.GetDepartments(ctx, filter, limit, page)
}

func (s *service) AddDepartment(ctx context.Context, name string) (*Department, error) {
	if name == "" {
		return nil, fault.Validationf("department name cannot be empty")
	}
	return s.repo.AddDepartment(ctx, name)
}

// GetCategories returns categories with their subcategories attached.
func (s *service) GetCategories(
	ctx context.Context,
	departmentID string,
	filter *string,
	limit, page *int32,
) ([]*Category, error) {

	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "GetCategories"),
	)

	categories, err := s.repo.GetCategories(ctx, departmentID, filter, limit, page)
	if err != nil {
		log.Error("failed to get categories", zap.Error(err))
		return nil, err
	}

	if len(categories) == 0 {
		return []*Category{}, nil
	}

	categoryIDs := make([]string, 0, len(categories))
	for _, c := range categories {
		categoryIDs = append(categoryIDs, c.ID)
	}

	subMap, err := s.repo.GetSubCategoriesByIDs(ctx, categoryIDs)
	if err != nil {
		log.Error("failed to get subcategories by ids", zap.Error(err))
		return nil, err
	}

	for _, c := range categories {
		c.SubCategories = subMap[c.ID]
	}

	log.Info("GetCategories success", zap.Int("count", len(categories)))
	return categories, nil
}

func (s *service) AddCategory(ctx context.Context, departmentID, name string) (*Category, error) {
	if departmentID == "" {
		return nil, fault.Validationf("departmentID cannot be empty")
	}
	if name == "" {
		return nil, fault.Validationf("category name cannot be empty")
	}
	return s.repo.AddCategory(ctx, departmentID, name)
}

func (s *service) AddSubCategory(ctx context.Context, categoryID, name string) (*SubCategory, error) {
	if categoryID == "" {
		return nil, fault.Validationf("categoryID cannot be empty")
	}
	if name == "" {
		return nil, fault.Validationf("subcategory name cannot be empty")
	}
	return s.repo.AddSubCategory(ctx, categoryID, name)
}

func (s *service) GetBrands(ctx context.Context, filter *string, limit, page *int32) ([]*Brand, error) {
	return s.repo.GetBrands(ctx, filter, limit, page)
}

func (s *service) AddBrand(ctx context.Context, name string, logoURL *string) (*Brand, error) {
	if name == "" {
		return nil, fault.Validationf("brand name cannot be empty")
	}
	return s.repo.AddBrand(ctx, name, logoURL)
}

// SetActive toggles visibility of a taxonomy node. Deactivating a node hides
// it from storefront listings without touching the products underneath.
func (s *service) SetActive(ctx context.Context, kind, id string, active bool) error {
	switch kind {
	case "departments", "categories", "subcategories", "brands":
	default:
		return fault.Validationf("unknown taxonomy kind: %s", kind)
	}
	if id == "" {
		return fault.Validationf("id cannot be empty")
	}

	err := s.repo.SetActive(ctx, kind, id, active)
	if errors.Is(err, sql.ErrNoRows) {
		return fault.NotFoundf("%s %s", kind, id)
	}
	return err
}
