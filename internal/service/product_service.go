package service

import (
	"context"
	"encoding/json"
	"os"
	"strconv"
	"time"

	"ecommerce-backend/internal/apperr"
	"ecommerce-backend/internal/cache"
	"ecommerce-backend/internal/entity"

	"github.com/rs/zerolog"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

const (
	productsEntity   = "products"
	categoriesEntity = "categories"
)

// ProductStore is the persistence contract the product service needs.
type ProductStore interface {
	GetByID(ctx context.Context, id int) (*entity.Product, error)
	List(ctx context.Context, filter entity.ProductFilter) ([]*entity.Product, error)
	Create(ctx context.Context, product *entity.Product) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) (*entity.Product, error)
	Delete(ctx context.Context, id int) error
}

// CategoryStore is the persistence contract for categories.
type CategoryStore interface {
	GetByID(ctx context.Context, id int) (*entity.Category, error)
	List(ctx context.Context, skip, limit int) ([]*entity.Category, error)
	Create(ctx context.Context, category *entity.Category) (*entity.Category, error)
	Update(ctx context.Context, category *entity.Category) (*entity.Category, error)
	Delete(ctx context.Context, id int) error
}

type ProductService struct {
	products   ProductStore
	categories CategoryStore
	cache      cache.Client
}

func NewProductService(products ProductStore, categories CategoryStore, cacheClient cache.Client) *ProductService {
	return &ProductService{
		products:   products,
		categories: categories,
		cache:      cacheClient,
	}
}

// Get reads a product cache-aside: detail key first, store on miss,
// populate after.
func (s *ProductService) Get(ctx context.Context, id int) (*entity.Product, error) {
	key := cache.DetailKey(productsEntity, id)
	if cached, ok := s.cache.Get(ctx, key); ok {
		product := &entity.Product{}
		if err := json.Unmarshal([]byte(cached), product); err == nil {
			return product, nil
		}
		logger.Warn().Str("key", key).Msg("Discarding undecodable cache entry")
	}

	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.cacheSet(ctx, key, product, cache.DetailTTL)
	return product, nil
}

// List returns products for a filter, caching each distinct parameter
// combination under its own deterministic key.
func (s *ProductService) List(ctx context.Context, filter entity.ProductFilter) ([]*entity.Product, error) {
	filter = normalizeFilter(filter)
	key := cache.Key(productsEntity, "list", listParams(filter))
	if cached, ok := s.cache.Get(ctx, key); ok {
		products := []*entity.Product{}
		if err := json.Unmarshal([]byte(cached), &products); err == nil {
			return products, nil
		}
		logger.Warn().Str("key", key).Msg("Discarding undecodable cache entry")
	}

	products, err := s.products.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	s.cacheSet(ctx, key, products, cache.ListTTL)
	return products, nil
}

func (s *ProductService) Create(ctx context.Context, product *entity.Product) (*entity.Product, error) {
	if err := s.validate(ctx, product); err != nil {
		return nil, err
	}

	created, err := s.products.Create(ctx, product)
	if err != nil {
		return nil, err
	}

	s.invalidateProduct(ctx, created.ID)
	return created, nil
}

func (s *ProductService) Update(ctx context.Context, product *entity.Product) (*entity.Product, error) {
	if _, err := s.products.GetByID(ctx, product.ID); err != nil {
		return nil, err
	}
	if err := s.validate(ctx, product); err != nil {
		return nil, err
	}

	updated, err := s.products.Update(ctx, product)
	if err != nil {
		return nil, err
	}

	s.invalidateProduct(ctx, updated.ID)
	return updated, nil
}

func (s *ProductService) Delete(ctx context.Context, id int) error {
	if err := s.products.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateProduct(ctx, id)
	return nil
}

func (s *ProductService) validate(ctx context.Context, product *entity.Product) error {
	if product.Name == "" {
		return apperr.Validation("product name is required")
	}
	if product.Price < 0 {
		return apperr.Validation("product price cannot be negative")
	}
	if product.Stock < 0 {
		return apperr.Validation("product stock cannot be negative")
	}
	if product.CategoryID != nil {
		if _, err := s.categories.GetByID(ctx, *product.CategoryID); err != nil {
			if apperr.IsNotFound(err) {
				return apperr.Validation("category with id %d not found", *product.CategoryID)
			}
			return err
		}
	}
	return nil
}

// invalidateProduct drops the detail key and every cached product
// list. Fire-and-forget: the mutation has already committed, and a
// failed invalidation just means the entry expires by TTL.
func (s *ProductService) invalidateProduct(ctx context.Context, id int) {
	s.cache.Delete(ctx, cache.DetailKey(productsEntity, id))
	s.cache.DeletePattern(ctx, cache.ListPattern(productsEntity))
}

func (s *ProductService) cacheSet(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	payload, err := json.Marshal(value)
	if err != nil {
		logger.Warn().Err(err).Str("key", key).Msg("Skipping cache set, marshal failed")
		return
	}
	s.cache.Set(ctx, key, string(payload), ttl)
}

func normalizeFilter(filter entity.ProductFilter) entity.ProductFilter {
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 100
	}
	if filter.Skip < 0 {
		filter.Skip = 0
	}
	return filter
}

func listParams(filter entity.ProductFilter) map[string]string {
	params := map[string]string{
		"skip":  strconv.Itoa(filter.Skip),
		"limit": strconv.Itoa(filter.Limit),
	}
	if filter.CategoryID != nil {
		params["category"] = strconv.Itoa(*filter.CategoryID)
	}
	if filter.Name != "" {
		params["name"] = filter.Name
	}
	if filter.MaxStock != nil {
		params["max_stock"] = strconv.Itoa(*filter.MaxStock)
	}
	return params
}
