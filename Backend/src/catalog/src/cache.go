package main

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"
)

// cachedRepo fronts Get-by-id with an in-process LRU. Writes go straight
// through and evict the affected entry; list queries always hit the
// store so filters stay fresh.
type cachedRepo struct {
	next  Repository
	cache *lru.Cache[string, *Product]
}

func NewCachedRepo(next Repository, size int) (*cachedRepo, error) {
	c, err := lru.New[string, *Product](size)
	if err != nil {
		return nil, err
	}
	return &cachedRepo{next: next, cache: c}, nil
}

func (r *cachedRepo) All(ctx context.Context) ([]*Product, error) {
	return r.next.All(ctx)
}

func (r *cachedRepo) Filter(ctx context.Context, search, category string) ([]*Product, error) {
	return r.next.Filter(ctx, search, category)
}

func (r *cachedRepo) Get(ctx context.Context, id string) (*Product, error) {
	if p, ok := r.cache.Get(id); ok {
		return p, nil
	}
	p, err := r.next.Get(ctx, id)
	if err == nil && p != nil {
		r.cache.Add(id, p)
	}
	return p, err
}

func (r *cachedRepo) Create(ctx context.Context, input ProductInput) (*Product, error) {
	return r.next.Create(ctx, input)
}

func (r *cachedRepo) Update(ctx context.Context, id string, input ProductInput) (*Product, error) {
	p, err := r.next.Update(ctx, id, input)
	r.cache.Remove(id)
	return p, err
}

func (r *cachedRepo) Delete(ctx context.Context, id string) (*Product, error) {
	p, err := r.next.Delete(ctx, id)
	r.cache.Remove(id)
	return p, err
}
