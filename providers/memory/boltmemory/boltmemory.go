package boltmemory

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"slices"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/leofalp/deepchat/providers/ai"
	"github.com/leofalp/deepchat/providers/memory"
	"github.com/leofalp/deepchat/providers/observability"
)

var bucketPrefix = []byte("conversation-")

// Store is an open bbolt database holding conversation histories.
type Store struct {
	db *bolt.DB
}

// Open opens or creates the database at path with 0600 permissions. It fails
// after one second if another process holds the file lock.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database file.
func (s *Store) Close() error {
	return s.db.Close()
}

// Memory returns the history of conversation id. Nothing is written until the
// first append.
func (s *Store) Memory(id string) *Memory {
	return &Memory{db: s.db, bucket: bucketName(id)}
}

// Conversations lists the ids of every stored conversation, in key order.
func (s *Store) Conversations(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ids := []string{}
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.ForEach(func(name []byte, _ *bolt.Bucket) error {
			if id, found := bytes.CutPrefix(name, bucketPrefix); found {
				ids = append(ids, string(id))
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func bucketName(id string) []byte {
	return append(bytes.Clone(bucketPrefix), id...)
}

// sequenceKey encodes a bucket sequence big-endian so cursor order matches
// insertion order.
func sequenceKey(sequence uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, sequence)
	return key
}

func countKeys(bucket *bolt.Bucket) int {
	count := 0
	cursor := bucket.Cursor()
	for key, _ := cursor.First(); key != nil; key, _ = cursor.Next() {
		count++
	}
	return count
}

// Memory is the memory.Provider of one conversation inside a Store.
type Memory struct {
	db     *bolt.DB
	bucket []byte
}

var _ memory.Provider = (*Memory)(nil)

func (m *Memory) AppendMessage(ctx context.Context, message *ai.Message) error {
	if message == nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	value, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	// The total is only reported to a span, so the bucket is walked only
	// when one is present.
	span := observability.SpanFromContext(ctx)

	var total int
	err = m.db.Update(func(tx *bolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists(m.bucket)
		if err != nil {
			return fmt.Errorf("failed to create message bucket: %w", err)
		}

		sequence, err := bucket.NextSequence()
		if err != nil {
			return fmt.Errorf("failed to get next sequence: %w", err)
		}
		if err := bucket.Put(sequenceKey(sequence), value); err != nil {
			return err
		}
		if span != nil {
			total = countKeys(bucket)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if span != nil {
		span.AddEvent(observability.EventMemoryAppend,
			observability.String(observability.AttrMemoryMessageRole, string(message.Role)),
			observability.Int(observability.AttrMemoryMessageLength, len(message.Content)),
			observability.Int(observability.AttrMemoryTotalMessages, total),
		)
	}
	return nil
}

func (m *Memory) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	var count int
	err := m.db.View(func(tx *bolt.Tx) error {
		if bucket := tx.Bucket(m.bucket); bucket != nil {
			count = countKeys(bucket)
		}
		return nil
	})
	return count, err
}

func (m *Memory) AllMessages(ctx context.Context) ([]ai.Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	messages := []ai.Message{}
	err := m.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(m.bucket)
		if bucket == nil {
			return nil
		}

		return bucket.ForEach(func(_, value []byte) error {
			var message ai.Message
			if err := json.Unmarshal(value, &message); err != nil {
				return fmt.Errorf("failed to unmarshal message: %w", err)
			}
			messages = append(messages, message)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return messages, nil
}

// LastMessages walks the bucket backwards from the newest key.
func (m *Memory) LastMessages(ctx context.Context, n int) ([]ai.Message, error) {
	if n <= 0 {
		return []ai.Message{}, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	messages := []ai.Message{}
	err := m.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(m.bucket)
		if bucket == nil {
			return nil
		}

		cursor := bucket.Cursor()
		for key, value := cursor.Last(); key != nil && len(messages) < n; key, value = cursor.Prev() {
			var message ai.Message
			if err := json.Unmarshal(value, &message); err != nil {
				return fmt.Errorf("failed to unmarshal message: %w", err)
			}
			messages = append(messages, message)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slices.Reverse(messages)
	return messages, nil
}

// ClearMessages drops the conversation bucket.
func (m *Memory) ClearMessages(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if span := observability.SpanFromContext(ctx); span != nil {
		span.AddEvent(observability.EventMemoryClear)
	}

	return m.db.Update(func(tx *bolt.Tx) error {
		if tx.Bucket(m.bucket) == nil {
			return nil
		}
		return tx.DeleteBucket(m.bucket)
	})
}
