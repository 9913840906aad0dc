package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/vikramvicky-1/ttdashboard-sub000/internal/domain"
	"github.com/vikramvicky-1/ttdashboard-sub000/internal/websocket"
)

// CategoryService manages expense categories and their subcategories.
// The persisted categories are the only source of valid category names.
type CategoryService struct {
	eventSource
	categoryRepo domain.CategoryRepository
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(categoryRepo domain.CategoryRepository) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo}
}

// UpdateCategoryInput holds a partial category update
type UpdateCategoryInput struct {
	Name          *string
	SubCategories *[]string
}

func validateCategoryName(field, name string) error {
	if name == "" {
		return domain.NewFieldError(field, "Name is required")
	}
	if len(name) > domain.MaxNameLength {
		return domain.NewFieldError(field, fmt.Sprintf("Name must be at most %d characters", domain.MaxNameLength))
	}
	return nil
}

// normalizeSubCategories trims names, drops blanks and rejects duplicates
func normalizeSubCategories(subs []string) ([]string, error) {
	result := make([]string, 0, len(subs))
	seen := make(map[string]bool, len(subs))
	for _, sub := range subs {
		sub = strings.TrimSpace(sub)
		if sub == "" {
			continue
		}
		if err := validateCategoryName("subCategories", sub); err != nil {
			return nil, err
		}
		if seen[sub] {
			return nil, domain.NewFieldError("subCategories", fmt.Sprintf("Duplicate subcategory %q", sub))
		}
		seen[sub] = true
		result = append(result, sub)
	}
	return result, nil
}

func duplicateCategory(err error) error {
	if errors.Is(err, domain.ErrAlreadyExists) {
		return domain.NewFieldError("name", "Category already exists")
	}
	return err
}

// CreateCategory creates a category with an optional list of subcategories
func (s *CategoryService) CreateCategory(ctx context.Context, name string, subCategories []string) (*domain.Category, error) {
	name = strings.TrimSpace(name)
	if err := validateCategoryName("name", name); err != nil {
		return nil, err
	}
	subs, err := normalizeSubCategories(subCategories)
	if err != nil {
		return nil, err
	}

	created, err := s.categoryRepo.Create(ctx, &domain.Category{Name: name, SubCategories: subs})
	if err != nil {
		return nil, duplicateCategory(err)
	}

	log.Info().Str("category_id", created.ID).Str("name", created.Name).Msg("Category created")
	s.publishEvent(domain.RoleAccountant, websocket.Created(websocket.EntityTypeCategory, created))
	return created, nil
}

// ListCategories returns all categories ordered by name
func (s *CategoryService) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	return s.categoryRepo.List(ctx)
}

// GetCategory returns a category by ID
func (s *CategoryService) GetCategory(ctx context.Context, id string) (*domain.Category, error) {
	return s.categoryRepo.GetByID(ctx, id)
}

// UpdateCategory renames a category and/or replaces its subcategory list.
// Existing expenses keep the name they were recorded with.
func (s *CategoryService) UpdateCategory(ctx context.Context, id string, input UpdateCategoryInput) (*domain.Category, error) {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if err := validateCategoryName("name", name); err != nil {
			return nil, err
		}
		category.Name = name
	}
	if input.SubCategories != nil {
		subs, err := normalizeSubCategories(*input.SubCategories)
		if err != nil {
			return nil, err
		}
		category.SubCategories = subs
	}

	return s.save(ctx, category)
}

// DeleteCategory removes a category. Expenses referencing it are left untouched.
func (s *CategoryService) DeleteCategory(ctx context.Context, id string) error {
	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		return err
	}

	log.Info().Str("category_id", id).Msg("Category deleted")
	s.publishEvent(domain.RoleAccountant, websocket.Deleted(websocket.EntityTypeCategory, id))
	return nil
}

// AddSubCategory appends a subcategory
func (s *CategoryService) AddSubCategory(ctx context.Context, id, name string) (*domain.Category, error) {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if err := validateCategoryName("name", name); err != nil {
		return nil, err
	}
	if category.HasSubCategory(name) {
		return nil, domain.NewFieldError("name", "Subcategory already exists")
	}
	category.SubCategories = append(category.SubCategories, name)

	return s.save(ctx, category)
}

// RenameSubCategory renames a subcategory in place, keeping its position
func (s *CategoryService) RenameSubCategory(ctx context.Context, id, oldName, newName string) (*domain.Category, error) {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	idx := category.SubCategoryIndex(oldName)
	if idx < 0 {
		return nil, domain.ErrNotFound
	}
	newName = strings.TrimSpace(newName)
	if err := validateCategoryName("name", newName); err != nil {
		return nil, err
	}
	if newName != oldName && category.HasSubCategory(newName) {
		return nil, domain.NewFieldError("name", "Subcategory already exists")
	}
	category.SubCategories[idx] = newName

	return s.save(ctx, category)
}

// RemoveSubCategory deletes a subcategory
func (s *CategoryService) RemoveSubCategory(ctx context.Context, id, name string) (*domain.Category, error) {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	idx := category.SubCategoryIndex(name)
	if idx < 0 {
		return nil, domain.ErrNotFound
	}
	category.SubCategories = append(category.SubCategories[:idx], category.SubCategories[idx+1:]...)

	return s.save(ctx, category)
}

// ValidateExpenseCategory checks that category exists and, when subCategory is
// non-empty, that it belongs to that category
func (s *CategoryService) ValidateExpenseCategory(ctx context.Context, category, subCategory string) error {
	if category == "" {
		return domain.NewFieldError("category", "Category is required")
	}

	found, err := s.categoryRepo.GetByName(ctx, category)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.NewFieldError("category", fmt.Sprintf("Category %q does not exist", category))
		}
		return err
	}

	if subCategory != "" && !found.HasSubCategory(subCategory) {
		return domain.NewFieldError("subCategory", fmt.Sprintf("Subcategory %q is not defined for %q", subCategory, category))
	}
	return nil
}

func (s *CategoryService) save(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	updated, err := s.categoryRepo.Update(ctx, category)
	if err != nil {
		return nil, duplicateCategory(err)
	}

	log.Info().Str("category_id", updated.ID).Str("name", updated.Name).Msg("Category updated")
	s.publishEvent(domain.RoleAccountant, websocket.Updated(websocket.EntityTypeCategory, updated))
	return updated, nil
}
