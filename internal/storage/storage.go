// Package storage implements the object store used to persist uploaded
// paste archives: a permanent backing store (bbolt or S3-compatible,
// through minio-go) fronted by an optional bbolt-backed LRU-style cache.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"go.etcd.io/bbolt"
)

// ErrNotFound is returned by Get when id has no stored object.
var ErrNotFound = errors.New("storage: not found")

// Storage stores opaque byte blobs addressed by id. Object sizes are
// expected to be small (generally <32kb, absolutely <1MB), hence no
// io.Reader support. Storage must not delete objects on its own.
type Storage interface {
	// Get returns ErrNotFound if id does not exist.
	Get(ctx context.Context, id string) ([]byte, error)
	// Put overwrites any existing object stored under id.
	Put(ctx context.Context, id string, data []byte) error
	// Del returns nil if id does not exist.
	Del(ctx context.Context, id string) error
}

// ListStorage adds enumeration to Storage, which CachedStorage needs to
// rebuild its in-memory index on startup.
type ListStorage interface {
	Storage
	// List invokes cb for every stored object. Callers must not retain b.
	List(ctx context.Context, cb func(id string, b []byte) error) error
}

// MinioStorage stores objects in a single S3-compatible bucket.
type MinioStorage struct {
	Client     *minio.Client
	BucketName string
}

var _ Storage = (*MinioStorage)(nil)

func (m *MinioStorage) Get(ctx context.Context, id string) ([]byte, error) {
	obj, err := m.Client.GetObject(ctx, m.BucketName, id, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	defer obj.Close()
	b, err := io.ReadAll(obj)
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return b, nil
}

func (m *MinioStorage) Put(ctx context.Context, id string, data []byte) error {
	_, err := m.Client.PutObject(ctx, m.BucketName, id,
		bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{})
	return err
}

func (m *MinioStorage) Del(ctx context.Context, id string) error {
	return m.Client.RemoveObject(ctx, m.BucketName, id, minio.RemoveObjectOptions{})
}

// dbStorage stores objects in a bbolt bucket.
type dbStorage struct {
	db         *bbolt.DB
	bucketName []byte
}

var _ ListStorage = (*dbStorage)(nil)

// NewDBStorage returns a bbolt-backed Storage, creating bucketName if it
// does not already exist.
//
// It panics if db.Update returns an error.
func NewDBStorage(db *bbolt.DB, bucketName []byte) Storage {
	err := db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	})
	if err != nil {
		panic(fmt.Errorf("error creating bucket in db: %w", err))
	}
	return &dbStorage{
		db:         db,
		bucketName: bucketName,
	}
}

func (m *dbStorage) Get(ctx context.Context, id string) ([]byte, error) {
	var val []byte
	err := m.db.View(func(tx *bbolt.Tx) error {
		bx := tx.Bucket(m.bucketName)
		val = append(val, bx.Get([]byte(id))...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(val) == 0 {
		return nil, ErrNotFound
	}
	return val, nil
}

func (m *dbStorage) Put(ctx context.Context, id string, data []byte) error {
	return m.db.Batch(func(tx *bbolt.Tx) error {
		return tx.Bucket(m.bucketName).Put([]byte(id), data)
	})
}

func (m *dbStorage) Del(ctx context.Context, id string) error {
	return m.db.Batch(func(tx *bbolt.Tx) error {
		return tx.Bucket(m.bucketName).Delete([]byte(id))
	})
}

func (m *dbStorage) List(ctx context.Context, cb func(id string, b []byte) error) error {
	return m.db.View(func(tx *bbolt.Tx) error {
		bx := tx.Bucket(m.bucketName)
		return bx.ForEach(func(k, v []byte) error {
			return cb(string(k), v)
		})
	})
}
