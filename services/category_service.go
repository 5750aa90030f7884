package services

import (
	"context"
	"strings"

	"storefront/models"

	"github.com/google/uuid"
)

type CategoryStore interface {
	FindAll(ctx context.Context) ([]models.Category, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	CountExisting(ctx context.Context, ids []uuid.UUID) (int, error)
	Create(ctx context.Context, cat *models.Category) error
	Update(ctx context.Context, cat *models.Category) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type SubCategoryStore interface {
	FindAll(ctx context.Context, categoryID *uuid.UUID) ([]models.SubCategory, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.SubCategory, error)
	CountExisting(ctx context.Context, ids []uuid.UUID) (int, error)
	Create(ctx context.Context, sub *models.SubCategory) error
	Update(ctx context.Context, sub *models.SubCategory) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// CacheInvalidator drops cached product listings after catalog writes.
type CacheInvalidator interface {
	InvalidateListings(ctx context.Context)
}

type CategoryService struct {
	categories    CategoryStore
	subcategories SubCategoryStore
	cache         CacheInvalidator
}

func NewCategoryService(categories CategoryStore, subcategories SubCategoryStore, cache CacheInvalidator) *CategoryService {
	return &CategoryService{
		categories:    categories,
		subcategories: subcategories,
		cache:         cache,
	}
}

func validateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if len([]rune(name)) < 2 {
		return "", models.NewValidationError("name", "must be at least 2 characters")
	}
	if err := models.CheckLength("name", name, models.MaxNameLength); err != nil {
		return "", err
	}
	return name, nil
}

// uniqueIDs drops duplicates and the nil uuid, keeping order.
func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if id == uuid.Nil || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

func ensureAllExist(ctx context.Context, count func(context.Context, []uuid.UUID) (int, error), field string, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	n, err := count(ctx, ids)
	if err != nil {
		return err
	}
	if n != len(ids) {
		return models.NewValidationError(field, "references an unknown id")
	}
	return nil
}

func (s *CategoryService) GetAll(ctx context.Context) ([]models.Category, error) {
	return s.categories.FindAll(ctx)
}

func (s *CategoryService) GetByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	return s.categories.FindByID(ctx, id)
}

func (s *CategoryService) Create(ctx context.Context, req models.CategoryRequest) (*models.Category, error) {
	name, err := validateName(req.Name)
	if err != nil {
		return nil, err
	}

	cat := &models.Category{Name: name, Image: strings.TrimSpace(req.Image)}
	if err := s.categories.Create(ctx, cat); err != nil {
		return nil, err
	}
	return cat, nil
}

func (s *CategoryService) Update(ctx context.Context, id uuid.UUID, req models.UpdateCategoryRequest) (*models.Category, error) {
	cat, err := s.categories.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name, err := validateName(*req.Name)
		if err != nil {
			return nil, err
		}
		cat.Name = name
	}
	if req.Image != nil {
		cat.Image = strings.TrimSpace(*req.Image)
	}

	if err := s.categories.Update(ctx, cat); err != nil {
		return nil, err
	}
	return cat, nil
}

func (s *CategoryService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.categories.Delete(ctx, id); err != nil {
		return err
	}
	s.cache.InvalidateListings(ctx)
	return nil
}

func (s *CategoryService) GetAllSub(ctx context.Context, categoryID *uuid.UUID) ([]models.SubCategory, error) {
	return s.subcategories.FindAll(ctx, categoryID)
}

func (s *CategoryService) GetSubByID(ctx context.Context, id uuid.UUID) (*models.SubCategory, error) {
	return s.subcategories.FindByID(ctx, id)
}

func (s *CategoryService) CreateSub(ctx context.Context, req models.SubCategoryRequest) (*models.SubCategory, error) {
	name, err := validateName(req.Name)
	if err != nil {
		return nil, err
	}

	ids := uniqueIDs(req.CategoryIDs)
	if len(ids) == 0 {
		return nil, models.NewValidationError("category_ids", "at least one category is required")
	}
	if err := ensureAllExist(ctx, s.categories.CountExisting, "category_ids", ids); err != nil {
		return nil, err
	}

	sub := &models.SubCategory{Name: name, Image: strings.TrimSpace(req.Image), CategoryIDs: ids}
	if err := s.subcategories.Create(ctx, sub); err != nil {
		return nil, err
	}
	return s.subcategories.FindByID(ctx, sub.ID)
}

func (s *CategoryService) UpdateSub(ctx context.Context, id uuid.UUID, req models.UpdateSubCategoryRequest) (*models.SubCategory, error) {
	sub, err := s.subcategories.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name, err := validateName(*req.Name)
		if err != nil {
			return nil, err
		}
		sub.Name = name
	}
	if req.Image != nil {
		sub.Image = strings.TrimSpace(*req.Image)
	}
	if req.CategoryIDs != nil {
		ids := uniqueIDs(req.CategoryIDs)
		if len(ids) == 0 {
			return nil, models.NewValidationError("category_ids", "at least one category is required")
		}
		if err := ensureAllExist(ctx, s.categories.CountExisting, "category_ids", ids); err != nil {
			return nil, err
		}
		sub.CategoryIDs = ids
	}

	if err := s.subcategories.Update(ctx, sub); err != nil {
		return nil, err
	}
	return s.subcategories.FindByID(ctx, sub.ID)
}

func (s *CategoryService) DeleteSub(ctx context.Context, id uuid.UUID) error {
	if err := s.subcategories.Delete(ctx, id); err != nil {
		return err
	}
	s.cache.InvalidateListings(ctx)
	return nil
}
