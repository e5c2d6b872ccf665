package service

import (
	"context"
	"encoding/json"
	"strconv"

	"ecommerce-backend/internal/apperr"
	"ecommerce-backend/internal/cache"
	"ecommerce-backend/internal/entity"
)

type CategoryService struct {
	categories CategoryStore
	cache      cache.Client
}

func NewCategoryService(categories CategoryStore, cacheClient cache.Client) *CategoryService {
	return &CategoryService{categories: categories, cache: cacheClient}
}

func (s *CategoryService) Get(ctx context.Context, id int) (*entity.Category, error) {
	key := cache.DetailKey(categoriesEntity, id)
	if cached, ok := s.cache.Get(ctx, key); ok {
		category := &entity.Category{}
		if err := json.Unmarshal([]byte(cached), category); err == nil {
			return category, nil
		}
	}

	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(category); err == nil {
		s.cache.Set(ctx, key, string(payload), cache.DetailTTL)
	}
	return category, nil
}

func (s *CategoryService) List(ctx context.Context, skip, limit int) ([]*entity.Category, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	if skip < 0 {
		skip = 0
	}

	key := cache.Key(categoriesEntity, "list", map[string]string{
		"skip":  strconv.Itoa(skip),
		"limit": strconv.Itoa(limit),
	})
	if cached, ok := s.cache.Get(ctx, key); ok {
		categories := []*entity.Category{}
		if err := json.Unmarshal([]byte(cached), &categories); err == nil {
			return categories, nil
		}
	}

	categories, err := s.categories.List(ctx, skip, limit)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(categories); err == nil {
		s.cache.Set(ctx, key, string(payload), cache.ListTTL)
	}
	return categories, nil
}

func (s *CategoryService) Create(ctx context.Context, category *entity.Category) (*entity.Category, error) {
	if category.Name == "" {
		return nil, apperr.Validation("category name is required")
	}

	created, err := s.categories.Create(ctx, category)
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, created.ID)
	return created, nil
}

func (s *CategoryService) Update(ctx context.Context, category *entity.Category) (*entity.Category, error) {
	if category.Name == "" {
		return nil, apperr.Validation("category name is required")
	}
	if _, err := s.categories.GetByID(ctx, category.ID); err != nil {
		return nil, err
	}

	updated, err := s.categories.Update(ctx, category)
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, updated.ID)
	return updated, nil
}

func (s *CategoryService) Delete(ctx context.Context, id int) error {
	if err := s.categories.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

// invalidate drops the category's own keys and the product list
// pattern too: category data is denormalized into product list
// responses, so those may now be stale.
func (s *CategoryService) invalidate(ctx context.Context, id int) {
	s.cache.Delete(ctx, cache.DetailKey(categoriesEntity, id))
	s.cache.DeletePattern(ctx, cache.ListPattern(categoriesEntity))
	s.cache.DeletePattern(ctx, cache.ListPattern(productsEntity))
}
