// Package db is a thin bbolt wrapper centralizing the metadata the paste
// service needs alongside the blob storage: which pastes exist, and
// per-remote-address weekly upload quotas.
package db

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.etcd.io/bbolt"
)

// DB wraps a Bolt database, lazily creating its buckets on first use.
type DB struct {
	DB *bbolt.DB

	err  error
	once sync.Once
}

func (d *DB) init() error {
	d.once.Do(d._init)
	return d.err
}

var (
	bPastes = []byte("pastes")
	bQuotas = []byte("quotas")

	buckets = [...][]byte{
		bPastes,
		bQuotas,
	}
)

func (d *DB) _init() {
	err := d.DB.Update(func(tx *bbolt.Tx) error {
		for _, buck := range buckets {
			if _, err := tx.CreateBucketIfNotExists(buck); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		d.err = fmt.Errorf("initialization error: %w", err)
	}
}

// PasteRecord
// -----------------------------------------------------------------------------

// PasteRecord records the metadata of an uploaded (red, green) paste pair.
// ID is the content-derived key it is stored under, duplicated onto the
// struct so a record retrieved by iteration (rather than by key lookup)
// still carries its own identity.
type PasteRecord struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Sum       string    `json:"sum"`
}

// IsZero reports whether p is the zero value returned by GetPaste for an
// id with no stored record.
func (p PasteRecord) IsZero() bool {
	return p.Sum == ""
}

// HasPaste reports whether id has a stored record, without decoding it.
func (d *DB) HasPaste(id string) (bool, error) {
	if err := d.init(); err != nil {
		return false, err
	}

	var has bool
	err := d.DB.View(func(tx *bbolt.Tx) error {
		has = tx.Bucket(bPastes).Get([]byte(id)) != nil
		return nil
	})
	return has, err
}

// PutPaste stores p under id, overwriting any existing record.
func (d *DB) PutPaste(id string, p PasteRecord) error {
	if err := d.init(); err != nil {
		return err
	}

	p.ID = id
	encoded, err := json.Marshal(p)
	if err != nil {
		return err
	}

	return d.DB.Batch(func(tx *bbolt.Tx) error {
		return tx.Bucket(bPastes).Put([]byte(id), encoded)
	})
}

// GetPaste returns the record stored under id, or the zero PasteRecord if
// none exists.
func (d *DB) GetPaste(id string) (PasteRecord, error) {
	if err := d.init(); err != nil {
		return PasteRecord{}, err
	}

	var buf []byte
	err := d.DB.View(func(tx *bbolt.Tx) error {
		buf = append(buf, tx.Bucket(bPastes).Get([]byte(id))...)
		return nil
	})
	if err != nil || len(buf) == 0 {
		return PasteRecord{}, err
	}

	var p PasteRecord
	err = json.Unmarshal(buf, &p)
	return p, err
}

// UsageStat
// -----------------------------------------------------------------------------

// UsageStat tracks upload volume for a single remote address over a
// single quota period (see RecordUpload).
type UsageStat struct {
	Period   string `json:"p"`
	NumBytes uint64 `json:"nb"`
	NumCalls uint64 `json:"nc"`
}

// UploadLimits caps the values a UsageStat may reach within its period.
type UploadLimits struct {
	MaxBytes uint64
	MaxCalls uint64
}

// ErrLimitsExceeded is returned by RecordUpload once applying deltaStat
// would push the address's stats past limits.
var ErrLimitsExceeded = errors.New("limits exceeded")

// RecordUpload folds deltaStat into remoteAddr's running usage stat and
// enforces limits against the result. A period change resets the running
// stat to deltaStat rather than accumulating across periods. If the
// updated stat would exceed limits, ErrLimitsExceeded is returned and
// nothing is written.
func (d *DB) RecordUpload(remoteAddr string, deltaStat UsageStat, limits UploadLimits) error {
	if err := d.init(); err != nil {
		return err
	}
	return d.DB.Batch(func(tx *bbolt.Tx) error {
		bk := tx.Bucket(bQuotas)

		var stat UsageStat
		if val := bk.Get([]byte(remoteAddr)); len(val) != 0 {
			if err := json.Unmarshal(val, &stat); err != nil {
				return err
			}
		}

		if stat.Period == deltaStat.Period {
			stat.NumCalls += deltaStat.NumCalls
			stat.NumBytes += deltaStat.NumBytes
		} else {
			stat = deltaStat
		}

		if stat.NumBytes > limits.MaxBytes || stat.NumCalls > limits.MaxCalls {
			return ErrLimitsExceeded
		}

		encoded, err := json.Marshal(stat)
		if err != nil {
			return err
		}
		return bk.Put([]byte(remoteAddr), encoded)
	})
}
