package store

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/redis/go-redis/v9"

	"github.com/matzehuels/flowdoc/pkg/cache"
	flowerrors "github.com/matzehuels/flowdoc/pkg/errors"
)

// RedisConfig configures [NewRedisStore].
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	// Prefix namespaces every key, e.g. "flowdoc:".
	Prefix string
}

// RedisStore keeps records as JSON strings and histories as capped lists.
//
// Keys:
//
//	<prefix>docs          set of record ids
//	<prefix>doc:<id>      record JSON
//	<prefix>history:<id>  list of snapshot JSON, oldest at the head
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	err := cache.RetryWithBackoff(ctx, func() error {
		return cache.Retryable(client.Ping(ctx).Err())
	})
	if err != nil {
		_ = client.Close()
		return nil, storageErr(err, "connect to redis %s", cfg.Addr)
	}
	return NewRedisStoreFromClient(client, cfg.Prefix), nil
}

// NewRedisStoreFromClient wraps an existing client. Closing the store closes
// the client.
func NewRedisStoreFromClient(client *redis.Client, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) indexKey() string           { return s.prefix + "docs" }
func (s *RedisStore) recordKey(id string) string  { return s.prefix + "doc:" + id }
func (s *RedisStore) historyKey(id string) string { return s.prefix + "history:" + id }

func (s *RedisStore) Get(ctx context.Context, id string) (*Record, error) {
	data, err := s.client.Get(ctx, s.recordKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, storageErr(err, "get document %s", id)
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, storageErr(err, "parse document %s", id)
	}
	return &rec, nil
}

func (s *RedisStore) Put(ctx context.Context, rec *Record) error {
	var prev *Record
	if rec != nil && flowerrors.ValidateDocumentID(rec.ID) == nil {
		var err error
		if prev, err = s.Get(ctx, rec.ID); err != nil {
			return err
		}
	}
	if err := prepare(rec, prev); err != nil {
		return err
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return storageErr(err, "marshal document %s", rec.ID)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.recordKey(rec.ID), data, 0)
	pipe.SAdd(ctx, s.indexKey(), rec.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return storageErr(err, "put document %s", rec.ID)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, s.recordKey(id), s.historyKey(id))
	pipe.SRem(ctx, s.indexKey(), id)
	if _, err := pipe.Exec(ctx); err != nil {
		return storageErr(err, "delete document %s", id)
	}
	return nil
}

func (s *RedisStore) List(ctx context.Context) ([]*Record, error) {
	ids, err := s.client.SMembers(ctx, s.indexKey()).Result()
	if err != nil {
		return nil, storageErr(err, "list documents")
	}
	if len(ids) == 0 {
		return []*Record{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.recordKey(id)
	}
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, storageErr(err, "list documents")
	}

	recs := make([]*Record, 0, len(values))
	for i, v := range values {
		str, ok := v.(string)
		if !ok {
			// Index entry without a record; a concurrent delete.
			continue
		}
		var rec Record
		if err := json.Unmarshal([]byte(str), &rec); err != nil {
			return nil, storageErr(err, "parse document %s", ids[i])
		}
		recs = append(recs, &rec)
	}
	sortRecords(recs)
	return recs, nil
}

// AddSnapshot compares against the list tail and appends inside a WATCH
// transaction, retrying when another writer touched the list.
func (s *RedisStore) AddSnapshot(ctx context.Context, id, code string) (bool, error) {
	key := s.historyKey(id)
	var added bool

	txf := func(tx *redis.Tx) error {
		added = false
		last, err := tx.LIndex(ctx, key, -1).Bytes()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if err == nil {
			var snap Snapshot
			if json.Unmarshal(last, &snap) == nil && snap.Code == code {
				return nil
			}
		}
		data, err := json.Marshal(Snapshot{DocumentID: id, Code: code, Timestamp: now()})
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.RPush(ctx, key, data)
			pipe.LTrim(ctx, key, -MaxSnapshots, -1)
			return nil
		})
		if err == nil {
			added = true
		}
		return err
	}

	const attempts = 3
	var err error
	for i := 0; i < attempts; i++ {
		err = s.client.Watch(ctx, txf, key)
		if !errors.Is(err, redis.TxFailedErr) {
			break
		}
	}
	if err != nil {
		return false, storageErr(err, "add snapshot %s", id)
	}
	return added, nil
}

func (s *RedisStore) Snapshots(ctx context.Context, id string) ([]Snapshot, error) {
	items, err := s.client.LRange(ctx, s.historyKey(id), 0, -1).Result()
	if err != nil {
		return nil, storageErr(err, "read history %s", id)
	}
	history := make([]Snapshot, 0, len(items))
	for _, item := range items {
		var snap Snapshot
		if err := json.Unmarshal([]byte(item), &snap); err != nil {
			return nil, storageErr(err, "parse history %s", id)
		}
		history = append(history, snap)
	}
	return history, nil
}

func (s *RedisStore) ClearHistory(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, s.historyKey(id)).Err(); err != nil {
		return storageErr(err, "clear history %s", id)
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

var _ Store = (*RedisStore)(nil)
