package service

import (
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
)

const (
	tokenFilterCapacity = 100_000
	tokenFilterFP       = 0.001
)

// TokenFilter is a bloom filter over issued link tokens. A definite miss lets
// public lookups answer "not found" without touching Postgres; a hit only
// means "maybe" and falls through to the database. The filter is seeded from
// the links table at startup and fed on every link creation.
type TokenFilter struct {
	mu     sync.RWMutex
	filter *bloom.BloomFilter
}

// NewTokenFilter returns an empty token filter sized for the expected link
// population.
func NewTokenFilter() *TokenFilter {
	return &TokenFilter{
		filter: bloom.NewWithEstimates(tokenFilterCapacity, tokenFilterFP),
	}
}

// Seed adds a batch of known tokens, typically all tokens at startup.
func (f *TokenFilter) Seed(tokens []string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, token := range tokens {
		f.filter.AddString(token)
	}
}

// Add records a newly issued token.
func (f *TokenFilter) Add(token string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.filter.AddString(token)
}

// MightContain reports whether the token could exist. False is definitive.
func (f *TokenFilter) MightContain(token string) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.filter.TestString(token)
}
