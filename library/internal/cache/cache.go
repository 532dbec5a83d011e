package cache

import (
	"context"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Astemirdum/library-management/library/config"
	"github.com/Astemirdum/library-management/library/internal/model"
	"github.com/Astemirdum/library-management/pkg/jsonx"
)

const bookKeyPrefix = "library:book:"

// BookCache keeps book records by id. A cache built over a nil client never hits.
type BookCache struct {
	rdb *redis.Client
	ttl time.Duration
	log *zap.Logger
}

func NewBookCache(rdb *redis.Client, ttl time.Duration, log *zap.Logger) *BookCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &BookCache{
		rdb: rdb,
		ttl: ttl,
		log: log.Named("cache"),
	}
}

// NewRedisClient returns nil when no address is configured.
func NewRedisClient(ctx context.Context, cfg config.Redis) (*redis.Client, error) {
	if cfg.Addr == "" {
		return nil, nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Wrap(err, "redis ping")
	}
	return client, nil
}

func bookKey(id int64) string {
	return bookKeyPrefix + strconv.FormatInt(id, 10)
}

func (c *BookCache) Get(ctx context.Context, id int64) (model.Book, bool) {
	if c == nil || c.rdb == nil {
		return model.Book{}, false
	}
	data, err := c.rdb.Get(ctx, bookKey(id)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn("Get", zap.Int64("book_id", id), zap.Error(err))
		}
		return model.Book{}, false
	}
	var book model.Book
	if err = jsonx.JSON.Unmarshal(data, &book); err != nil {
		c.log.Warn("Unmarshal", zap.Int64("book_id", id), zap.Error(err))
		return model.Book{}, false
	}
	return book, true
}

func (c *BookCache) Set(ctx context.Context, book model.Book) {
	if c == nil || c.rdb == nil {
		return
	}
	data, err := jsonx.JSON.Marshal(book)
	if err != nil {
		c.log.Warn("Marshal", zap.Int64("book_id", book.ID), zap.Error(err))
		return
	}
	if err = c.rdb.Set(ctx, bookKey(book.ID), data, c.ttl).Err(); err != nil {
		c.log.Warn("Set", zap.Int64("book_id", book.ID), zap.Error(err))
	}
}

func (c *BookCache) Invalidate(ctx context.Context, id int64) {
	if c == nil || c.rdb == nil {
		return
	}
	if err := c.rdb.Del(ctx, bookKey(id)).Err(); err != nil {
		c.log.Warn("Invalidate", zap.Int64("book_id", id), zap.Error(err))
	}
}
