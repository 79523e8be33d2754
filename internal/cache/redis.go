package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/Domenick1991/resourcebooking/config"
	"github.com/Domenick1991/resourcebooking/internal/domain"
	"github.com/redis/go-redis/v9"
)

// releaseLockScript deletes the lock only while it is still held by token.
var releaseLockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// setSnapshotScript stores the snapshot only if no invalidation happened since
// the caller read the generation.
var setSnapshotScript = redis.NewScript(`
local current = redis.call("GET", KEYS[2])
if not current then
	current = "0"
end
if current ~= ARGV[1] then
	return 0
end
if tonumber(ARGV[3]) > 0 then
	redis.call("SET", KEYS[1], ARGV[2], "PX", ARGV[3])
else
	redis.call("SET", KEYS[1], ARGV[2])
end
return 1
`)

type RedisCache struct {
	client      *redis.Client
	snapshotTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, snapshotTTL time.Duration) *RedisCache {
	return NewRedisCacheWithClient(
		redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		snapshotTTL,
	)
}

func NewRedisCacheWithClient(client *redis.Client, snapshotTTL time.Duration) *RedisCache {
	return &RedisCache{client: client, snapshotTTL: snapshotTTL}
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

// GetReservations returns the cached repository snapshot (nil on a miss)
// together with the current snapshot generation.
func (c *RedisCache) GetReservations(ctx context.Context) ([]domain.Reservation, int64, error) {
	values, err := c.client.MGet(ctx, reservationsKey(), generationKey()).Result()
	if err != nil {
		return nil, 0, err
	}

	generation, err := parseGeneration(values[1])
	if err != nil {
		return nil, 0, err
	}
	raw, ok := values[0].(string)
	if !ok {
		return nil, generation, nil
	}

	reservations := make([]domain.Reservation, 0)
	if err := json.Unmarshal([]byte(raw), &reservations); err != nil {
		return nil, 0, err
	}
	return reservations, generation, nil
}

// SetReservations stores a snapshot loaded while generation was current. It
// reports false, and stores nothing, when an invalidation happened meanwhile.
func (c *RedisCache) SetReservations(ctx context.Context, reservations []domain.Reservation, generation int64) (bool, error) {
	if reservations == nil {
		reservations = []domain.Reservation{}
	}
	payload, err := json.Marshal(reservations)
	if err != nil {
		return false, err
	}

	stored, err := setSnapshotScript.Run(ctx, c.client,
		[]string{reservationsKey(), generationKey()},
		strconv.FormatInt(generation, 10), payload, c.snapshotTTL.Milliseconds(),
	).Int()
	if err != nil {
		return false, err
	}
	return stored == 1, nil
}

// InvalidateReservations drops the snapshot and bumps the generation so that
// snapshots loaded before this call are never written back.
func (c *RedisCache) InvalidateReservations(ctx context.Context) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, generationKey())
		pipe.Del(ctx, reservationsKey())
		return nil
	})
	return err
}

func (c *RedisCache) AcquireResourceLock(ctx context.Context, resource, token string, ttl time.Duration) (bool, error) {
	return c.client.SetNX(ctx, resourceLockKey(resource), token, ttl).Result()
}

func (c *RedisCache) ReleaseResourceLock(ctx context.Context, resource, token string) error {
	return releaseLockScript.Run(ctx, c.client, []string{resourceLockKey(resource)}, token).Err()
}

// MarkReminderSent records that a reminder went out for id. It reports false
// when one was already recorded.
func (c *RedisCache) MarkReminderSent(ctx context.Context, id string, ttl time.Duration) (bool, error) {
	return c.client.SetNX(ctx, reminderKey(id), "sent", ttl).Result()
}

func (c *RedisCache) ClearReminderSent(ctx context.Context, id string) error {
	return c.client.Del(ctx, reminderKey(id)).Err()
}

func parseGeneration(value interface{}) (int64, error) {
	if value == nil {
		return 0, nil
	}
	raw, ok := value.(string)
	if !ok {
		return 0, fmt.Errorf("unexpected snapshot generation %v", value)
	}
	return strconv.ParseInt(raw, 10, 64)
}

// Both snapshot keys share a hash tag so the script and transaction stay on one slot.
func reservationsKey() string {
	return "cache:{reservations}"
}

func generationKey() string {
	return "cache:{reservations}:generation"
}

func resourceLockKey(resource string) string {
	return "lock:resource:" + resource
}

func reminderKey(id string) string {
	return "reminder:reservation:" + id
}
