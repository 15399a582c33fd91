package redisclient

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"shop-backend/internal/cart"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

//go:embed scripts/release_lock.lua
var releaseLockScript string

const productsKey = "products:all"

// ErrCacheMiss is returned when a cached value is absent
var ErrCacheMiss = errors.New("cache miss")

type Client struct {
	rdb           *redis.Client
	releaseScript *redis.Script
}

// NewClient creates a new Redis client with Lua scripts loaded
func NewClient(addr, password string, db int) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Client{
		rdb:           rdb,
		releaseScript: redis.NewScript(releaseLockScript),
	}, nil
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

// Ping checks Redis connectivity
func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

func cartKey(userID string) string {
	return fmt.Sprintf("cart:%s", userID)
}

// cart hash fields are "<productID>|<size>"
func cartField(productID, size string) string {
	return productID + "|" + size
}

// LoadCart reads the server-side mirror of a user's cart
func (c *Client) LoadCart(ctx context.Context, userID string) (cart.Cart, error) {
	result, err := c.rdb.HGetAll(ctx, cartKey(userID)).Result()
	if err != nil {
		return nil, err
	}

	ct := cart.New()
	for field, raw := range result {
		productID, size, ok := strings.Cut(field, "|")
		if !ok {
			continue
		}
		qty, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("corrupt cart entry %s: %w", field, err)
		}
		ct.Update(productID, size, qty)
	}
	return ct, nil
}

// IncrementCartItem adds one unit of a product in a size. HINCRBY keeps
// concurrent adds from overwriting each other.
func (c *Client) IncrementCartItem(ctx context.Context, userID, productID, size string) error {
	return c.rdb.HIncrBy(ctx, cartKey(userID), cartField(productID, size), 1).Err()
}

// SetCartItem sets the quantity of a single entry; zero or less removes it
func (c *Client) SetCartItem(ctx context.Context, userID, productID, size string, quantity int) error {
	key := cartKey(userID)
	field := cartField(productID, size)
	if quantity <= 0 {
		return c.rdb.HDel(ctx, key, field).Err()
	}
	return c.rdb.HSet(ctx, key, field, quantity).Err()
}

// ClearCart removes the mirror
func (c *Client) ClearCart(ctx context.Context, userID string) error {
	return c.rdb.Del(ctx, cartKey(userID)).Err()
}

// GetCachedProducts returns the cached product list payload
func (c *Client) GetCachedProducts(ctx context.Context) ([]byte, error) {
	data, err := c.rdb.Get(ctx, productsKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	return data, err
}

// CacheProducts stores the product list payload
func (c *Client) CacheProducts(ctx context.Context, data []byte, ttl time.Duration) error {
	return c.rdb.Set(ctx, productsKey, data, ttl).Err()
}

// InvalidateProducts drops the cached product list
func (c *Client) InvalidateProducts(ctx context.Context) error {
	return c.rdb.Del(ctx, productsKey).Err()
}

// AcquireLock acquires a distributed lock and returns the owner token.
// ok is false when another holder owns the lock.
func (c *Client) AcquireLock(ctx context.Context, lockKey string, ttl time.Duration) (token string, ok bool, err error) {
	token = uuid.NewString()
	ok, err = c.rdb.SetNX(ctx, fmt.Sprintf("lock:%s", lockKey), token, ttl).Result()
	if err != nil || !ok {
		return "", false, err
	}
	return token, true, nil
}

// ReleaseLock releases a distributed lock if token still owns it
func (c *Client) ReleaseLock(ctx context.Context, lockKey, token string) error {
	_, err := c.releaseScript.Run(ctx, c.rdb, []string{fmt.Sprintf("lock:%s", lockKey)}, token).Result()
	if err != nil {
		return fmt.Errorf("release lock script failed: %w", err)
	}
	return nil
}
