package redis

import (
  "context"
  "fmt"
  "os"
  "strings"
  "time"

  goredis "github.com/redis/go-redis/v9"
  "github.com/google/uuid"

  "github.com/perspective-app/perspective-backend/internal/logger"
)

// DailySelectionCache is a best-effort cache over the daily challenge
// selection. A nil cache is valid; callers fall back to the database.
type DailySelectionCache interface {
  GetSelection(ctx context.Context, userID uuid.UUID, selectionDate string) (uuid.UUID, bool, error)
  SetSelection(ctx context.Context, userID uuid.UUID, selectionDate string, challengeID uuid.UUID) error
  Close() error
}

type dailySelectionCache struct {
  log *logger.Logger
  rdb *goredis.Client
  ttl time.Duration
}

func NewDailySelectionCache(log *logger.Logger) (DailySelectionCache, error) {
  if log == nil {
    return nil, fmt.Errorf("logger required")
  }

  addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
  if addr == "" {
    return nil, fmt.Errorf("missing REDIS_ADDR")
  }

  rdb := goredis.NewClient(&goredis.Options{
    Addr:        addr,
    DialTimeout: 5 * time.Second,
  })

  ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
  defer cancel()
  if err := rdb.Ping(ctx).Err(); err != nil {
    _ = rdb.Close()
    return nil, fmt.Errorf("redis ping: %w", err)
  }

  return &dailySelectionCache{
    log: log.With("service", "DailySelectionCache"),
    rdb: rdb,
    ttl: 36 * time.Hour,
  }, nil
}

func selectionKey(userID uuid.UUID, selectionDate string) string {
  return fmt.Sprintf("daily_selection:%s:%s", userID.String(), selectionDate)
}

func (c *dailySelectionCache) GetSelection(ctx context.Context, userID uuid.UUID, selectionDate string) (uuid.UUID, bool, error) {
  if c == nil || c.rdb == nil {
    return uuid.Nil, false, nil
  }
  raw, err := c.rdb.Get(ctx, selectionKey(userID, selectionDate)).Result()
  if err == goredis.Nil {
    return uuid.Nil, false, nil
  }
  if err != nil {
    return uuid.Nil, false, err
  }
  id, err := uuid.Parse(raw)
  if err != nil {
    return uuid.Nil, false, nil
  }
  return id, true, nil
}

func (c *dailySelectionCache) SetSelection(ctx context.Context, userID uuid.UUID, selectionDate string, challengeID uuid.UUID) error {
  if c == nil || c.rdb == nil {
    return nil
  }
  return c.rdb.Set(ctx, selectionKey(userID, selectionDate), challengeID.String(), c.ttl).Err()
}

func (c *dailySelectionCache) Close() error {
  if c == nil || c.rdb == nil {
    return nil
  }
  return c.rdb.Close()
}
