package storage

import (
	"context"
	"errors"
	"time"

	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"

	"github.com/antoine01000/bureau-main/domain"
)

type backend interface {
	FetchPeople(ctx context.Context) ([]domain.Person, error)
	InsertPerson(ctx context.Context, name string) (domain.Person, error)
	DeletePerson(ctx context.Context, id string) error
	FetchRooms(ctx context.Context) ([]domain.Room, error)
	InsertRoom(ctx context.Context, name string) (domain.Room, error)
	DeleteRoom(ctx context.Context, id string) error
	UpdateRoomName(ctx context.Context, id, name string) error
}

// Cache wraps a Storage instance with Redis-backed caching of the people and
// rooms lists, which every page reads. Writes through the Cache evict the
// affected list and bump its version; a read only fills the cache when the
// version it saw before fetching is still current.
type Cache struct {
	*Storage
	base   backend
	redis  *redis.Client
	ttl    time.Duration
	prefix string
}

// NewCache creates a caching wrapper. Keys are namespaced by prefix so
// households sharing a redis do not collide.
func NewCache(base backend, client *redis.Client, ttl time.Duration, prefix string) *Cache {
	if base == nil {
		panic("storage.NewCache: base storage is nil")
	}
	if ttl < 0 {
		ttl = 0
	}
	c := &Cache{base: base, redis: client, ttl: ttl, prefix: prefix}
	if s, ok := base.(*Storage); ok {
		c.Storage = s
	}
	return c
}

func (c *Cache) FetchPeople(ctx context.Context) ([]domain.Person, error) {
	var people []domain.Person
	if c.load(ctx, c.peopleKey(), &people) {
		return people, nil
	}
	version, ok := c.version(ctx, c.peopleKey())
	people, err := c.base.FetchPeople(ctx)
	if err != nil {
		return nil, err
	}
	if ok {
		c.store(ctx, c.peopleKey(), version, people)
	}
	return people, nil
}

func (c *Cache) InsertPerson(ctx context.Context, name string) (domain.Person, error) {
	p, err := c.base.InsertPerson(ctx, name)
	if err != nil {
		return domain.Person{}, err
	}
	c.evict(ctx, c.peopleKey())
	return p, nil
}

func (c *Cache) DeletePerson(ctx context.Context, id string) error {
	if err := c.base.DeletePerson(ctx, id); err != nil {
		return err
	}
	c.evict(ctx, c.peopleKey())
	return nil
}

func (c *Cache) FetchRooms(ctx context.Context) ([]domain.Room, error) {
	var rooms []domain.Room
	if c.load(ctx, c.roomsKey(), &rooms) {
		return rooms, nil
	}
	version, ok := c.version(ctx, c.roomsKey())
	rooms, err := c.base.FetchRooms(ctx)
	if err != nil {
		return nil, err
	}
	if ok {
		c.store(ctx, c.roomsKey(), version, rooms)
	}
	return rooms, nil
}

func (c *Cache) InsertRoom(ctx context.Context, name string) (domain.Room, error) {
	r, err := c.base.InsertRoom(ctx, name)
	if err != nil {
		return domain.Room{}, err
	}
	c.evict(ctx, c.roomsKey())
	return r, nil
}

func (c *Cache) DeleteRoom(ctx context.Context, id string) error {
	if err := c.base.DeleteRoom(ctx, id); err != nil {
		return err
	}
	c.evict(ctx, c.roomsKey())
	return nil
}

func (c *Cache) UpdateRoomName(ctx context.Context, id, name string) error {
	if err := c.base.UpdateRoomName(ctx, id, name); err != nil {
		return err
	}
	c.evict(ctx, c.roomsKey())
	return nil
}

func (c *Cache) load(ctx context.Context, key string, v any) bool {
	if c.redis == nil {
		return false
	}
	data, err := c.redis.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			// On redis errors fall back to the backing storage without failing.
			_ = c.redis.Del(ctx, key).Err()
		}
		return false
	}
	if err := sonic.Unmarshal(data, v); err != nil {
		_ = c.redis.Del(ctx, key).Err()
		return false
	}
	return true
}

// storeIfCurrent sets KEYS[1] only while the version in KEYS[2] still equals
// ARGV[1]. A missing version compares as the empty string.
var storeIfCurrent = redis.NewScript(`
local v = redis.call('GET', KEYS[2])
if v == false then v = '' end
if v ~= ARGV[1] then return 0 end
redis.call('SET', KEYS[1], ARGV[2], 'PX', ARGV[3])
return 1
`)

// version reads the eviction counter of key. ok is false when it cannot be
// read, in which case the fetched value is not cached.
func (c *Cache) version(ctx context.Context, key string) (string, bool) {
	if c.redis == nil || c.ttl == 0 {
		return "", false
	}
	v, err := c.redis.Get(ctx, versionKey(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", true
	}
	if err != nil {
		return "", false
	}
	return v, true
}

func (c *Cache) store(ctx context.Context, key, version string, v any) {
	data, err := sonic.Marshal(v)
	if err != nil {
		return
	}
	ttl := c.ttl.Milliseconds()
	if ttl <= 0 {
		ttl = 1
	}
	_ = storeIfCurrent.Run(ctx, c.redis, []string{key, versionKey(key)}, version, data, ttl).Err()
}

// evict bumps the version before deleting so a read that fetched before the
// write cannot store its result afterwards.
func (c *Cache) evict(ctx context.Context, key string) {
	if c.redis == nil {
		return
	}
	_ = c.redis.Incr(ctx, versionKey(key)).Err()
	_ = c.redis.Del(ctx, key).Err()
}

func versionKey(key string) string {
	return key + ":version"
}

func (c *Cache) peopleKey() string {
	return c.prefix + ":people"
}

func (c *Cache) roomsKey() string {
	return c.prefix + ":rooms"
}
