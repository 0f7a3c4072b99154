package main

import (
	"context"
	"fmt"
)

type Events interface {
	Publish(ctx context.Context, routingKey string, body []byte) error
}

// Service fires catalog lifecycle events. A nil events sink turns the
// hooks into no-ops so the service can run without a broker.
type Service struct {
	repo   Repository
	events Events
}

func NewService(repo Repository, events Events) *Service {
	return &Service{repo: repo, events: events}
}

func (s *Service) publish(ctx context.Context, key string, payload []byte) {
	if s.events == nil {
		return
	}
	_ = s.events.Publish(ctx, key, payload)
}

func (s *Service) OnCreated(ctx context.Context, p *Product) {
	s.publish(ctx, "catalog.product.created", []byte(fmt.Sprintf(`{"id":%q}`, p.ID.Hex())))
}

func (s *Service) OnUpdated(ctx context.Context, p *Product) {
	s.publish(ctx, "catalog.product.updated", []byte(fmt.Sprintf(`{"id":%q}`, p.ID.Hex())))
}

func (s *Service) OnDeleted(ctx context.Context, id string) {
	s.publish(ctx, "catalog.product.deleted", []byte(fmt.Sprintf(`{"id":%q}`, id)))
}
