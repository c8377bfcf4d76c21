// Package store implements the record store: named tables of JSON records kept as one
// document per table in a key-value substrate.
//
// Every read-modify-write runs under a mutex, so a single Store is safe for concurrent use.
// Two processes sharing one substrate can still allocate the same ID or lose an update,
// because the substrate offers no compare-and-set.
package store

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"loop/pkg/logger"
	"loop/services/loop-service/domain/model"
	"loop/services/loop-service/domain/repository"
)

// Substrate keys
const (
	KeyUsers            = "users"
	KeySales            = "sales"
	KeyClients          = "clients"
	KeyRepresentatives  = "representatives"
	KeyPlans            = "plans"
	KeyChats            = "whatsapp_chats"
	KeyContractTemplate = "contract_template"
	// KeySeeded marks a substrate that already holds the fixtures
	KeySeeded = "seeded_v4"
	// KeySeedLock is held by the process currently writing fixtures
	KeySeedLock = "seed_lock"
)

// Store is the record store. Create it with New.
type Store struct {
	kv       repository.KeyValue
	logger   logger.LoggerInterface
	mu       sync.Mutex
	now      func() time.Time
	hashCost int

	users           *table[model.User, model.UserPatch]
	representatives *table[model.Representative, model.RepresentativePatch]
	clients         *table[model.Client, model.ClientPatch]
	plans           *table[model.Plan, model.PlanPatch]
	sales           *table[model.Sale, model.SalePatch]
	chats           *table[model.Chat, struct{}]
}

var _ repository.Store = (*Store)(nil)

// Option configures a Store
type Option func(*Store)

// WithClock replaces time.Now, used for message timestamps and fixture dates
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// WithPasswordCost sets the bcrypt cost used by Register and Seed
func WithPasswordCost(cost int) Option {
	return func(s *Store) {
		s.hashCost = cost
	}
}

// New creates a store over kv. It does not seed; call Seed explicitly.
func New(kv repository.KeyValue, appLogger logger.LoggerInterface, opts ...Option) *Store {
	s := &Store{
		kv:       kv,
		logger:   appLogger.With("component", "store"),
		now:      time.Now,
		hashCost: bcrypt.DefaultCost,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.users = newTable[model.User, model.UserPatch](s, KeyUsers, func(u *model.User) *int64 { return &u.ID })
	s.representatives = newTable[model.Representative, model.RepresentativePatch](s, KeyRepresentatives, func(r *model.Representative) *int64 { return &r.ID })
	s.representatives.prepare = func(r *model.Representative) {
		if r.Status == "" {
			r.Status = model.RepresentativeActive
		}
	}
	s.clients = newTable[model.Client, model.ClientPatch](s, KeyClients, func(c *model.Client) *int64 { return &c.ID })
	s.plans = newTable[model.Plan, model.PlanPatch](s, KeyPlans, func(p *model.Plan) *int64 { return &p.ID })
	s.sales = newTable[model.Sale, model.SalePatch](s, KeySales, func(sale *model.Sale) *int64 { return &sale.ID })
	s.sales.prepend = true
	s.sales.prepare = func(sale *model.Sale) {
		if sale.Status == "" {
			sale.Status = model.SalePending
		}
	}
	s.chats = newTable[model.Chat, struct{}](s, KeyChats, func(c *model.Chat) *int64 { return &c.ID })
	s.chats.prepare = func(c *model.Chat) {
		if c.Messages == nil {
			c.Messages = []model.Message{}
		}
		if last, ok := c.LastMessage(); ok {
			c.LastMessageTimestamp = last.Timestamp
		} else if c.LastMessageTimestamp.IsZero() {
			c.LastMessageTimestamp = s.now()
		}
	}

	return s
}

func (s *Store) Users() repository.Table[model.User, model.UserPatch] {
	return s.users
}

func (s *Store) Representatives() repository.Table[model.Representative, model.RepresentativePatch] {
	return s.representatives
}

func (s *Store) Clients() repository.Table[model.Client, model.ClientPatch] {
	return s.clients
}

func (s *Store) Plans() repository.Table[model.Plan, model.PlanPatch] {
	return s.plans
}

func (s *Store) Sales() repository.Table[model.Sale, model.SalePatch] {
	return s.sales
}

// readJSON decodes the document under key into dst. It reports false, after logging,
// when the key is absent, unreadable or malformed; dst is then left untouched.
func (s *Store) readJSON(ctx context.Context, key string, dst any) bool {
	raw, found, err := s.kv.Get(ctx, key)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to read from storage, using default", "key", key, "error", err)
		return false
	}
	if !found || raw == "" {
		return false
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		s.logger.ErrorContext(ctx, "Malformed document in storage, using default", "key", key, "error", err)
		return false
	}
	return true
}

// writeJSON encodes value under key. Callers outside Seed drop the returned error.
func (s *Store) writeJSON(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to encode document", "key", key, "error", err)
		return err
	}
	if err := s.kv.Set(ctx, key, string(raw)); err != nil {
		s.logger.ErrorContext(ctx, "Failed to write to storage, change dropped", "key", key, "error", err)
		return err
	}
	return nil
}

// ContractTemplate returns the stored template, or "" when none was saved
func (s *Store) ContractTemplate(ctx context.Context) string {
	var template string
	s.readJSON(ctx, KeyContractTemplate, &template)
	return template
}

func (s *Store) SetContractTemplate(ctx context.Context, template string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_ = s.writeJSON(ctx, KeyContractTemplate, template)
}
