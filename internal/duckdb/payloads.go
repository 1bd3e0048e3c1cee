package duckdb

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"
)

// lookupChunk bounds the number of placeholders in one lookup query.
const lookupChunk = 500

// CachedPayload is one raw JSON payload stored for a lookup key.
type CachedPayload struct {
	Key     string
	Payload []byte
}

// WritePayloads stores payloads for (assembly, pass), replacing any earlier
// entry for the same key.
func (s *Store) WritePayloads(ctx context.Context, assembly, pass, runID string, payloads []CachedPayload) error {
	if len(payloads) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT OR REPLACE INTO annotation_payloads
		(assembly, pass, lookup_key, payload, run_id, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for _, p := range payloads {
		if _, err := stmt.ExecContext(ctx, assembly, pass, p.Key, string(p.Payload), runID, now); err != nil {
			return fmt.Errorf("insert payload %s: %w", p.Key, err)
		}
	}

	return tx.Commit()
}

// LookupPayloads returns the cached payloads for keys, keyed by lookup key.
// Keys that were never cached are absent from the result.
func (s *Store) LookupPayloads(ctx context.Context, assembly, pass string, keys []string) (map[string][]byte, error) {
	out := make(map[string][]byte, len(keys))
	for start := 0; start < len(keys); start += lookupChunk {
		chunk := keys[start:min(start+lookupChunk, len(keys))]

		args := make([]any, 0, len(chunk)+2)
		args = append(args, assembly, pass)
		for _, k := range chunk {
			args = append(args, k)
		}
		placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(chunk)), ", ")

		rows, err := s.db.QueryContext(ctx, `SELECT lookup_key, payload
			FROM annotation_payloads
			WHERE assembly=? AND pass=? AND lookup_key IN (`+placeholders+`)`, args...)
		if err != nil {
			return nil, fmt.Errorf("query payloads: %w", err)
		}

		for rows.Next() {
			var key, payload string
			if err := rows.Scan(&key, &payload); err != nil {
				rows.Close()
				return nil, fmt.Errorf("scan payload: %w", err)
			}
			out[key] = []byte(payload)
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return nil, fmt.Errorf("iterate payloads: %w", err)
		}
		rows.Close()
	}
	return out, nil
}

// PassCount is the number of cached payloads for one assembly and pass.
type PassCount struct {
	Assembly string
	Pass     string
	Count    int64
}

// Stats counts cached payloads per assembly and pass.
func (s *Store) Stats(ctx context.Context) ([]PassCount, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT assembly, pass, count(*)
		FROM annotation_payloads
		GROUP BY assembly, pass`)
	if err != nil {
		return nil, fmt.Errorf("query stats: %w", err)
	}
	defer rows.Close()

	var stats []PassCount
	for rows.Next() {
		var pc PassCount
		if err := rows.Scan(&pc.Assembly, &pc.Pass, &pc.Count); err != nil {
			return nil, fmt.Errorf("scan stats: %w", err)
		}
		stats = append(stats, pc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate stats: %w", err)
	}

	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Assembly != stats[j].Assembly {
			return stats[i].Assembly < stats[j].Assembly
		}
		return stats[i].Pass < stats[j].Pass
	})
	return stats, nil
}

// ClearPayloads removes all cached payloads.
func (s *Store) ClearPayloads(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM annotation_payloads")
	return err
}
