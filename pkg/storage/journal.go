// Package storage persists the trade journal and token snapshot cache in a
// local pebble database. The journal is an audit trail of every submission
// attempt and outcome; it is never read back to drive retries.
package storage

import (
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/cockroachdb/pebble"
	"golang.org/x/crypto/blake2b"

	"github.com/dexteronradix/stonks/pkg/app/core"
)

// TradeRecord is one journaled submission attempt.
type TradeRecord struct {
	ManifestHash string `json:"manifestHash"` // blake2b-256 of the manifest, hex
	TokenAddress string `json:"tokenAddress"`
	Side         string `json:"side"`
	Amount       string `json:"amount"` // decimal string, as submitted
	OK           bool   `json:"ok"`
	IntentHash   string `json:"intentHash,omitempty"`
	Reason       string `json:"reason,omitempty"`
	SubmittedAt  int64  `json:"submittedAt"` // unix milliseconds
}

type Store struct {
	db *pebble.DB
}

func Open(path string) (*Store, error) {
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// keys: t:<8-byte-ms><8-byte-manifest-hash-prefix> trades, s:<address> snapshots
func tradeKey(rec *TradeRecord, hash []byte) []byte {
	key := make([]byte, 0, 2+8+8)
	key = append(key, 't', ':')
	key = binary.BigEndian.AppendUint64(key, uint64(rec.SubmittedAt))
	key = append(key, hash[:8]...)
	return key
}

func snapshotKey(address string) []byte {
	return append([]byte("s:"), address...)
}

// HashManifest returns the blake2b-256 digest of a manifest. Radix intent
// hashing is blake2b-based; the journal uses the same primitive so records
// correlate with on-ledger artifacts.
func HashManifest(manifest string) []byte {
	sum := blake2b.Sum256([]byte(manifest))
	return sum[:]
}

// SaveTrade journals a submission attempt keyed by time and manifest hash.
// rec.ManifestHash is filled in from the manifest.
func (s *Store) SaveTrade(rec *TradeRecord, manifest string) error {
	hash := HashManifest(manifest)
	rec.ManifestHash = hex.EncodeToString(hash)

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal trade record: %w", err)
	}
	if err := s.db.Set(tradeKey(rec, hash), data, pebble.Sync); err != nil {
		return fmt.Errorf("failed to save trade record: %w", err)
	}
	return nil
}

// RecentTrades returns up to limit journal entries, newest first.
func (s *Store) RecentTrades(limit int) ([]*TradeRecord, error) {
	prefix := []byte("t:")
	iter, err := s.db.NewIter(&pebble.IterOptions{
		LowerBound: prefix,
		UpperBound: keyUpperBound(prefix),
	})
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	var records []*TradeRecord
	for iter.Last(); iter.Valid() && len(records) < limit; iter.Prev() {
		var rec TradeRecord
		if err := json.Unmarshal(iter.Value(), &rec); err != nil {
			continue // skip invalid entries
		}
		records = append(records, &rec)
	}
	return records, nil
}

// SaveSnapshot caches the latest token snapshot so the API can serve
// something while the provider is unreachable.
func (s *Store) SaveSnapshot(tok *core.Token) error {
	data, err := json.Marshal(tok)
	if err != nil {
		return fmt.Errorf("failed to marshal token snapshot: %w", err)
	}
	if err := s.db.Set(snapshotKey(tok.Address), data, pebble.NoSync); err != nil {
		return fmt.Errorf("failed to save token snapshot: %w", err)
	}
	return nil
}

// LoadSnapshot loads a cached token snapshot.
// Returns nil if none is cached.
func (s *Store) LoadSnapshot(address string) (*core.Token, error) {
	data, closer, err := s.db.Get(snapshotKey(address))
	if err == pebble.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get token snapshot: %w", err)
	}
	defer closer.Close()

	var tok core.Token
	if err := json.Unmarshal(data, &tok); err != nil {
		return nil, fmt.Errorf("failed to unmarshal token snapshot: %w", err)
	}
	return &tok, nil
}

// keyUpperBound returns the smallest key greater than every key with the
// given prefix.
func keyUpperBound(prefix []byte) []byte {
	end := make([]byte, len(prefix))
	copy(end, prefix)
	for i := len(end) - 1; i >= 0; i-- {
		end[i]++
		if end[i] != 0 {
			return end[:i+1]
		}
	}
	return nil
}
