package suggestion

import (
	_ "embed"
	"encoding/json"
	"math/rand/v2"
	"os"
	"slices"

	"github.com/jonathan/hireflow/internal/schemas"
	"github.com/jonathan/hireflow/internal/types"
)

var (
	//go:embed pool.json
	defaultPoolJSON []byte

	//go:embed pool.schema.json
	poolSchemaJSON string

	poolSchema = schemas.MustCompile("pool.schema.json", poolSchemaJSON)
)

// Pool is the fixed set of suggestions served when the live path fails.
// It is read-only after construction and safe for concurrent use.
type Pool struct {
	entries []types.CompanySuggestion
	intn    func(n int) int
}

// DefaultPool returns the built-in pool.
func DefaultPool() *Pool {
	p, err := ParsePool("embedded", defaultPoolJSON)
	if err != nil {
		panic(err)
	}
	return p
}

// LoadPool reads a pool from path, or returns the built-in pool when path is empty.
func LoadPool(path string) (*Pool, error) {
	if path == "" {
		return DefaultPool(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &PoolError{Source: path, Message: "read failed", Cause: err}
	}
	return ParsePool(path, data)
}

// ParsePool validates data against the pool schema and decodes it.
func ParsePool(source string, data []byte) (*Pool, error) {
	if err := poolSchema.Validate(data); err != nil {
		return nil, &PoolError{Source: source, Message: "invalid pool", Cause: err}
	}
	var entries []types.CompanySuggestion
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, &PoolError{Source: source, Message: "decode failed", Cause: err}
	}
	return NewPool(entries)
}

// NewPool builds a pool from entries. Every entry must be complete.
func NewPool(entries []types.CompanySuggestion) (*Pool, error) {
	if len(entries) == 0 {
		return nil, &PoolError{Source: "entries", Message: "pool is empty"}
	}
	for _, e := range entries {
		if !e.Complete() || !IsEmailShaped(e.ContactEmail) {
			return nil, &PoolError{Source: "entries", Message: "incomplete entry " + e.CompanyName}
		}
	}
	return &Pool{entries: slices.Clone(entries), intn: rand.IntN}, nil
}

// WithSource returns a copy of the pool drawing from src.
// The copy is not safe for concurrent use; it exists for deterministic tests.
func (p *Pool) WithSource(src rand.Source) *Pool {
	r := rand.New(src)
	return &Pool{entries: p.entries, intn: r.IntN}
}

// Pick returns an entry chosen uniformly at random.
func (p *Pool) Pick() types.CompanySuggestion {
	return p.entries[p.intn(len(p.entries))]
}

// Entries returns a copy of the pool entries in declaration order.
func (p *Pool) Entries() []types.CompanySuggestion {
	return slices.Clone(p.entries)
}

// Len returns the number of entries.
func (p *Pool) Len() int {
	return len(p.entries)
}

// Contains reports whether s is one of the pool entries.
func (p *Pool) Contains(s types.CompanySuggestion) bool {
	return slices.Contains(p.entries, s)
}
