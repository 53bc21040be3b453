package redis

import (
	"context"
	"fmt"

	"github.com/pixelvide/sidemon/pkg/config"
	"github.com/pixelvide/sidemon/pkg/store"
	goredis "github.com/redis/go-redis/v9"
)

// commander is the subset of go-redis commands the store needs. Both *goredis.Client
// and *goredis.Conn satisfy it.
type commander interface {
	HGetAll(ctx context.Context, key string) *goredis.MapStringStringCmd
	SMembers(ctx context.Context, key string) *goredis.StringSliceCmd
	LRange(ctx context.Context, key string, start, stop int64) *goredis.StringSliceCmd
	ZRange(ctx context.Context, key string, start, stop int64) *goredis.StringSliceCmd
	LLen(ctx context.Context, key string) *goredis.IntCmd
	ZCard(ctx context.Context, key string) *goredis.IntCmd
	Ping(ctx context.Context) *goredis.StatusCmd
}

var (
	_ store.Pool    = (*RedisDriver)(nil)
	_ store.Session = (*Session)(nil)
)

// RedisDriver implements store.Store on top of a pooled go-redis client.
type RedisDriver struct {
	reader
	Client *goredis.Client
}

// NewRedisDriver creates a new Redis driver from a redis:// or rediss:// URL
func NewRedisDriver(cfg config.RedisConfig) (*RedisDriver, error) {
	opts, err := goredis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return NewRedisDriverFromClient(goredis.NewClient(opts)), nil
}

// NewRedisDriverFromClient wraps an existing client. The driver takes ownership of it.
func NewRedisDriverFromClient(client *goredis.Client) *RedisDriver {
	return &RedisDriver{reader: reader{cmd: client}, Client: client}
}

// Session returns a Store bound to one dedicated connection taken from the pool.
// Callers must Close it when their sequence of reads is done.
func (r *RedisDriver) Session() store.Session {
	conn := r.Client.Conn()
	return &Session{reader: reader{cmd: conn}, conn: conn}
}

// Close closes the underlying client and its pool
func (r *RedisDriver) Close() error {
	return r.Client.Close()
}

// Session is a store.Store that issues every command on the same connection.
type Session struct {
	reader
	conn *goredis.Conn
}

// Close returns the connection to the pool
func (s *Session) Close() error {
	return s.conn.Close()
}

type reader struct {
	cmd commander
}

// Ping checks that the server answers
func (r reader) Ping(ctx context.Context) error {
	return wrap("ping", "", r.cmd.Ping(ctx).Err())
}

func (r reader) HashGetAll(ctx context.Context, key string) (map[string]string, error) {
	fields, err := r.cmd.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, wrap("hgetall", key, err)
	}
	return fields, nil
}

func (r reader) SetMembers(ctx context.Context, key string) ([]string, error) {
	members, err := r.cmd.SMembers(ctx, key).Result()
	if err != nil {
		return nil, wrap("smembers", key, err)
	}
	return members, nil
}

func (r reader) SequenceRange(ctx context.Context, key string, start, stop int64) ([]string, error) {
	elems, err := r.cmd.LRange(ctx, key, start, stop).Result()
	if err != nil {
		return nil, wrap("lrange", key, err)
	}
	return elems, nil
}

// ScoredSetRange uses ZRANGE by rank, which orders members by ascending score.
func (r reader) ScoredSetRange(ctx context.Context, key string, start, stop int64) ([]string, error) {
	members, err := r.cmd.ZRange(ctx, key, start, stop).Result()
	if err != nil {
		return nil, wrap("zrange", key, err)
	}
	return members, nil
}

func (r reader) SequenceSize(ctx context.Context, key string) (int64, error) {
	n, err := r.cmd.LLen(ctx, key).Result()
	if err != nil {
		return 0, wrap("llen", key, err)
	}
	return n, nil
}

func (r reader) ScoredSetSize(ctx context.Context, key string) (int64, error) {
	n, err := r.cmd.ZCard(ctx, key).Result()
	if err != nil {
		return 0, wrap("zcard", key, err)
	}
	return n, nil
}

func wrap(op, key string, err error) error {
	if err == nil {
		return nil
	}
	return &store.Error{Op: op, Key: key, Err: err}
}
