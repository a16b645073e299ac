package book

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/klauspost/compress/zstd"
	"golang.org/x/exp/maps"

	"minimax-engine/engine"
)

var ErrMalformedBook = errors.New("malformed opening book")

// Entry is one weighted candidate move of a book position.
type Entry = engine.BookEntry

// Table maps canonical position keys (engine.Position.Key) to their book moves.
type Table map[string][]Entry

var _ engine.BookSource = Table(nil)

func New() Table { return make(Table) }

// Lookup returns the entries stored for key; an unknown key is not an error.
func (t Table) Lookup(key string) ([]Entry, error) {
	return t[key], nil
}

// Add increases the weight of move in the position key, creating the entry if needed.
func (t Table) Add(key, move string, weight int) {
	entries := t[key]
	for i := range entries {
		if entries[i].Move == move {
			entries[i].Weight += weight
			return
		}
	}
	t[key] = append(entries, Entry{Move: move, Weight: weight})
}

// Keys returns the positions of the table in sorted order.
func (t Table) Keys() []string {
	keys := maps.Keys(t)
	slices.Sort(keys)
	return keys
}

// Prune drops moves played fewer than minWeight times and positions left empty.
func (t Table) Prune(minWeight int) {
	for key, entries := range t {
		kept := entries[:0]
		for _, e := range entries {
			if e.Weight >= minWeight {
				kept = append(kept, e)
			}
		}
		if len(kept) == 0 {
			delete(t, key)
			continue
		}
		t[key] = kept
	}
}

// sortEntries orders every position's moves by falling weight, then by move.
func (t Table) sortEntries() {
	for _, entries := range t {
		slices.SortFunc(entries, func(a, b Entry) int {
			if a.Weight != b.Weight {
				return b.Weight - a.Weight
			}
			return strings.Compare(a.Move, b.Move)
		})
	}
}

func (t Table) validate() error {
	for key, entries := range t {
		if len(strings.Fields(key)) != 4 {
			return fmt.Errorf("%w: key %q is not a canonical position", ErrMalformedBook, key)
		}
		for _, e := range entries {
			if len(e.Move) < 4 || len(e.Move) > 5 {
				return fmt.Errorf("%w: move %q in %q", ErrMalformedBook, e.Move, key)
			}
			if e.Weight < 0 {
				return fmt.Errorf("%w: negative weight for %s in %q", ErrMalformedBook, e.Move, key)
			}
		}
	}
	return nil
}

func isCompressed(path string) bool {
	return filepath.Ext(path) == ".zst"
}

// Load reads a JSON book, zstd-compressed when path ends in .zst.
func Load(path string) (Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open book %s: %w", path, err)
	}
	defer f.Close()

	var r io.Reader = f
	if isCompressed(path) {
		dec, err := zstd.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("create zstd decoder: %w", err)
		}
		defer dec.Close()
		r = dec
	}
	return Decode(r)
}

// Decode reads a JSON book from r.
func Decode(r io.Reader) (Table, error) {
	t := New()
	if err := json.NewDecoder(r).Decode(&t); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedBook, err)
	}
	if err := t.validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// Save writes the table as JSON, zstd-compressed when path ends in .zst.
func (t Table) Save(path string) error {
	t.sortEntries()
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", " ")
	if err := enc.Encode(t); err != nil {
		return fmt.Errorf("encode book: %w", err)
	}

	data := buf.Bytes()
	if isCompressed(path) {
		encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
		if err != nil {
			return fmt.Errorf("create zstd encoder: %w", err)
		}
		data = encoder.EncodeAll(data, nil)
		encoder.Close()
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write book %s: %w", path, err)
	}
	return nil
}
