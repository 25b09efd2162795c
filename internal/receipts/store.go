// Package receipts keeps the audit trail of broadcast transactions in a
// bbolt database.
package receipts

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"time"

	"github.com/AlexZinkM/neutaro-wallet/internal/common"
	"github.com/AlexZinkM/neutaro-wallet/internal/model"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"
)

const FileName = "receipts.db"

// Bucket names
var (
	bucketReceipts = []byte("receipts")
	bucketTxHash   = []byte("txhash")
)

var ErrReceiptNotFound = errors.New("receipt not found")

// Store is a bbolt backed receipt log. Receipts are keyed by timestamp so
// iteration follows the order they were recorded in.
type Store struct {
	db *bolt.DB
}

// DefaultPath returns ~/.neutaro-wallet/receipts.db.
func DefaultPath() string {
	return filepath.Join(common.DataDir(), FileName)
}

// Open opens or creates the receipt database at path.
func Open(path string) (*Store, error) {
	if path == "" {
		path = DefaultPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("failed to create receipts directory: %w", err)
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open receipts db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{bucketReceipts, bucketTxHash} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create receipt buckets: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record stores r, filling in ID and Timestamp when they are empty.
func (s *Store) Record(r *model.Receipt) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.Timestamp.IsZero() {
		r.Timestamp = time.Now().UTC()
	}
	if r.Denom == "" {
		r.Denom = common.Denom
	}

	value, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to marshal receipt: %w", err)
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		key := receiptKey(r.Timestamp, r.ID)
		if err := tx.Bucket(bucketReceipts).Put(key, value); err != nil {
			return fmt.Errorf("failed to put receipt: %w", err)
		}
		if r.TxHash != "" {
			if err := tx.Bucket(bucketTxHash).Put([]byte(r.TxHash), key); err != nil {
				return fmt.Errorf("failed to index receipt: %w", err)
			}
		}
		return nil
	})
}

// ByTxHash returns the latest receipt recorded for txHash.
func (s *Store) ByTxHash(txHash string) (*model.Receipt, error) {
	var receipt *model.Receipt
	err := s.db.View(func(tx *bolt.Tx) error {
		key := tx.Bucket(bucketTxHash).Get([]byte(txHash))
		if key == nil {
			return ErrReceiptNotFound
		}
		value := tx.Bucket(bucketReceipts).Get(key)
		if value == nil {
			return ErrReceiptNotFound
		}
		var r model.Receipt
		if err := json.Unmarshal(value, &r); err != nil {
			return fmt.Errorf("failed to unmarshal receipt: %w", err)
		}
		receipt = &r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return receipt, nil
}

// Recent returns up to limit receipts, newest first.
func (s *Store) Recent(limit int) ([]model.Receipt, error) {
	return s.List(&model.LogRequest{Limit: limit})
}

// List returns the receipts matching req, newest first. A zero Limit means no limit.
func (s *Store) List(req *model.LogRequest) ([]model.Receipt, error) {
	if req == nil {
		req = &model.LogRequest{}
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	match, err := newFilter(req)
	if err != nil {
		return nil, err
	}

	receipts := []model.Receipt{}
	err = s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(bucketReceipts).Cursor()
		for k, v := c.Last(); k != nil; k, v = c.Prev() {
			var r model.Receipt
			if err := json.Unmarshal(v, &r); err != nil {
				return fmt.Errorf("failed to unmarshal receipt: %w", err)
			}
			if !match(&r) {
				continue
			}
			receipts = append(receipts, r)
			if req.Limit > 0 && len(receipts) >= req.Limit {
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return receipts, nil
}

// TotalSent sums the base unit amounts of confirmed sends.
func TotalSent(receipts []model.Receipt) *big.Int {
	total := new(big.Int)
	for _, r := range receipts {
		if r.Type != model.ReceiptTypeSend || r.Status != model.ReceiptStatusConfirmed {
			continue
		}
		if n, err := common.ParseBaseUnits(r.Amount); err == nil {
			total.Add(total, n)
		}
	}
	return total
}

func newFilter(req *model.LogRequest) (func(*model.Receipt) bool, error) {
	var minAmount, maxAmount *big.Int
	var err error
	if req.MinAmount != nil {
		if minAmount, err = common.ParseDisplayAmount(*req.MinAmount); err != nil {
			return nil, err
		}
	}
	if req.MaxAmount != nil {
		if maxAmount, err = common.ParseDisplayAmount(*req.MaxAmount); err != nil {
			return nil, err
		}
	}

	return func(r *model.Receipt) bool {
		if req.Type != nil && r.Type != *req.Type {
			return false
		}
		if req.Status != nil && r.Status != *req.Status {
			return false
		}
		if req.TxHash != nil && r.TxHash != *req.TxHash {
			return false
		}
		if req.From != nil && r.Timestamp.Before(*req.From) {
			return false
		}
		if req.To != nil && r.Timestamp.After(*req.To) {
			return false
		}
		if minAmount != nil || maxAmount != nil {
			amount, err := common.ParseBaseUnits(r.Amount)
			if err != nil {
				return false
			}
			if minAmount != nil && amount.Cmp(minAmount) < 0 {
				return false
			}
			if maxAmount != nil && amount.Cmp(maxAmount) > 0 {
				return false
			}
		}
		return true
	}, nil
}

// receiptKey is the big-endian unix nano timestamp followed by the id.
func receiptKey(ts time.Time, id string) []byte {
	key := make([]byte, 8, 8+len(id))
	binary.BigEndian.PutUint64(key, uint64(ts.UnixNano()))
	return append(key, id...)
}
