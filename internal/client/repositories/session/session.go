// Package session persists the authenticated identity and its credential in
// the durable key/value cache so that a restart can resume the session.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/quizstate/internal/client/models"
	"github.com/dmitrijs2005/quizstate/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/quizstate/internal/common"
)

// ErrCorrupt is returned by Load when the cached identity cannot be decoded.
var ErrCorrupt = errors.New("cached session is corrupt")

// Snapshot is what a restart can restore. Either both fields are set or the
// snapshot is empty.
type Snapshot struct {
	Identity *models.Identity
	Token    string

	// Partial marks an empty snapshot read from a cache that holds only
	// one of the two keys.
	Partial bool
}

func (s Snapshot) Empty() bool {
	return s.Identity == nil || s.Token == ""
}

type Repository struct {
	kv metadata.Repository
}

func NewRepository(kv metadata.Repository) *Repository {
	return &Repository{kv: kv}
}

// Load reads the cached session. A half-written cache (token without
// identity or the reverse) loads as an empty snapshot marked Partial.
func (r *Repository) Load(ctx context.Context) (Snapshot, error) {
	token, err := r.kv.Get(ctx, common.CacheKeyToken)
	if err != nil {
		return Snapshot{}, err
	}
	raw, err := r.kv.Get(ctx, common.CacheKeyUser)
	if err != nil {
		return Snapshot{}, err
	}
	if len(token) == 0 || len(raw) == 0 {
		return Snapshot{Partial: len(token) > 0 || len(raw) > 0}, nil
	}

	var id models.Identity
	if err := json.Unmarshal(raw, &id); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return Snapshot{Identity: &id, Token: string(token)}, nil
}

// Save writes the identity and token together.
func (r *Repository) Save(ctx context.Context, id models.Identity, token string) error {
	raw, err := json.Marshal(id)
	if err != nil {
		return fmt.Errorf("marshal identity: %w", err)
	}
	return r.kv.SetAll(ctx, map[string][]byte{
		common.CacheKeyToken: []byte(token),
		common.CacheKeyUser:  raw,
	})
}

// SaveIdentity refreshes the cached identity and leaves the token alone.
func (r *Repository) SaveIdentity(ctx context.Context, id models.Identity) error {
	raw, err := json.Marshal(id)
	if err != nil {
		return fmt.Errorf("marshal identity: %w", err)
	}
	return r.kv.Set(ctx, common.CacheKeyUser, raw)
}

func (r *Repository) Clear(ctx context.Context) error {
	return r.kv.Delete(ctx, common.CacheKeyToken, common.CacheKeyUser)
}
