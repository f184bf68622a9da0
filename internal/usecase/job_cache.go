package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"
)

const jobsListCachePattern = "jobs:list:*"

type JobCache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

type jobsListCacheKeyInput struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// JobsListCacheKey keys a public listing page. Owner-filtered listings are
// never cached.
func JobsListCacheKey(page, limit int) string {
	b, _ := json.Marshal(jobsListCacheKeyInput{Page: page, Limit: limit})
	sum := sha256.Sum256(b)
	return "jobs:list:" + hex.EncodeToString(sum[:])
}
