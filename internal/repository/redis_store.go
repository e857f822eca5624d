package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
)

const (
	redisTextField  = "text"
	redisMetaPrefix = "m:"
)

// RedisStore keeps each document in a hash and the insertion order in a
// list. Ranking happens in process.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore returns a store whose keys live under prefix:collection.
func NewRedisStore(client *redis.Client, prefix, collection string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix + ":" + collection}
}

func (s *RedisStore) docKey(id string) string {
	return s.prefix + ":doc:" + id
}

func (s *RedisStore) orderKey() string {
	return s.prefix + ":ids"
}

// addDocumentScript writes the hash and appends the id in one step, so a
// failed call never leaves a document that claims its id without being listed.
// KEYS: doc hash, id list. ARGV: id, then field/value pairs.
var addDocumentScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 1 then
	return 0
end
redis.call('HSET', KEYS[1], unpack(ARGV, 2))
redis.call('RPUSH', KEYS[2], ARGV[1])
return 1
`)

func (s *RedisStore) Add(ctx context.Context, id, text string, metadata Metadata) error {
	args := make([]any, 0, 3+2*len(metadata))
	args = append(args, id, redisTextField, text)
	for k, v := range metadata {
		args = append(args, redisMetaPrefix+k, v)
	}
	created, err := addDocumentScript.Run(ctx, s.client, []string{s.docKey(id), s.orderKey()}, args...).Int()
	if err != nil {
		return fmt.Errorf("write document %s: %w", id, err)
	}
	if created == 0 {
		return ErrDuplicateID
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context) ([]Record, error) {
	ids, err := s.client.LRange(ctx, s.orderKey(), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}

	cmds := make([]*redis.MapStringStringCmd, len(ids))
	_, err = s.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, id := range ids {
			cmds[i] = pipe.HGetAll(ctx, s.docKey(id))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	records := make([]Record, 0, len(ids))
	for i, cmd := range cmds {
		fields, err := cmd.Result()
		if err != nil {
			return nil, err
		}
		if len(fields) == 0 {
			continue
		}
		records = append(records, decodeRedisRecord(ids[i], fields))
	}
	return records, nil
}

func (s *RedisStore) Query(ctx context.Context, text string, k int, filter Metadata) ([]Match, error) {
	records, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}
	return rankRecords(records, text, k, filter), nil
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func decodeRedisRecord(id string, fields map[string]string) Record {
	rec := Record{ID: id, Text: fields[redisTextField], Metadata: Metadata{}}
	for k, v := range fields {
		if key, ok := strings.CutPrefix(k, redisMetaPrefix); ok {
			rec.Metadata[key] = v
		}
	}
	return rec
}
