package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/sneakpeak/storefront/internal/catalog"
	"github.com/sneakpeak/storefront/internal/domain"
)

const catalogKeysSet = "catalog:cache_keys"

// RedisCache implements caching for catalog pages and product snapshots
type RedisCache struct {
	client         *redis.Client
	catalogPageTTL time.Duration
	productTTL     time.Duration
}

// NewRedisCache creates a new Redis cache instance
func NewRedisCache(client *redis.Client, catalogPageTTL, productTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:         client,
		catalogPageTTL: catalogPageTTL,
		productTTL:     productTTL,
	}
}

// catalogPageKey derives a stable key from the criteria's constraints
func (c *RedisCache) catalogPageKey(cr catalog.Criteria) string {
	parts := []string{
		fmt.Sprintf("kw=%s", cr.Keyword),
		fmt.Sprintf("page=%d", cr.Page),
		fmt.Sprintf("size=%d", cr.PageSize),
	}
	if cr.MinPrice != nil {
		parts = append(parts, fmt.Sprintf("gte=%g", *cr.MinPrice))
	}
	if cr.MaxPrice != nil {
		parts = append(parts, fmt.Sprintf("lte=%g", *cr.MaxPrice))
	}

	keys := make([]string, 0, len(cr.Equals))
	for k := range cr.Equals {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%s", k, cr.Equals[k]))
	}

	return "catalog:page:" + strings.Join(parts, ":")
}

func (c *RedisCache) productKey(id uuid.UUID) string {
	return fmt.Sprintf("product:%s", id.String())
}

// GetCatalogPage retrieves a cached listing page
func (c *RedisCache) GetCatalogPage(ctx context.Context, cr catalog.Criteria) (*domain.ProductPage, error) {
	val, err := c.client.Get(ctx, c.catalogPageKey(cr)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	var page domain.ProductPage
	if err := json.Unmarshal([]byte(val), &page); err != nil {
		return nil, err
	}

	return &page, nil
}

// SetCatalogPage stores a listing page and tracks its key in a SET so
// invalidation can find every cached page
func (c *RedisCache) SetCatalogPage(ctx context.Context, cr catalog.Criteria, page *domain.ProductPage) error {
	key := c.catalogPageKey(cr)

	data, err := json.Marshal(page)
	if err != nil {
		return err
	}

	pipe := c.client.Pipeline()
	pipe.Set(ctx, key, data, c.catalogPageTTL)
	pipe.SAdd(ctx, catalogKeysSet, key)
	pipe.Expire(ctx, catalogKeysSet, c.catalogPageTTL)
	_, err = pipe.Exec(ctx)
	return err
}

// GetProduct retrieves a cached product snapshot
func (c *RedisCache) GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	val, err := c.client.Get(ctx, c.productKey(id)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	var product domain.Product
	if err := json.Unmarshal([]byte(val), &product); err != nil {
		return nil, err
	}

	return &product, nil
}

// SetProduct stores a product snapshot
func (c *RedisCache) SetProduct(ctx context.Context, product *domain.Product) error {
	data, err := json.Marshal(product)
	if err != nil {
		return err
	}

	return c.client.Set(ctx, c.productKey(product.ID), data, c.productTTL).Err()
}

// InvalidateProduct removes a product snapshot and every cached
// listing page; any product mutation can reorder or refilter pages
func (c *RedisCache) InvalidateProduct(ctx context.Context, id uuid.UUID) error {
	if err := c.client.Del(ctx, c.productKey(id)).Err(); err != nil && err != redis.Nil {
		return err
	}

	return c.InvalidateCatalogPages(ctx)
}

// InvalidateCatalogPages removes all cached listing pages using the
// SET-based key tracking
func (c *RedisCache) InvalidateCatalogPages(ctx context.Context) error {
	keys, err := c.client.SMembers(ctx, catalogKeysSet).Result()
	if err != nil && err != redis.Nil {
		return err
	}

	if len(keys) > 0 {
		keys = append(keys, catalogKeysSet)
		return c.client.Unlink(ctx, keys...).Err()
	}

	return nil
}
