package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"loop/pkg/logger"
	"loop/services/loop-service/domain/model"
	"loop/services/loop-service/repository/memory"
	"loop/services/loop-service/repository/store"
)

var clock = time.Date(2026, time.March, 18, 14, 30, 0, 0, time.UTC)

// Seeded identities
var (
	admin   = model.Caller{UserID: 1, Role: model.RoleAdmin}
	carlos  = model.Caller{UserID: 2, Role: model.RoleRepresentative}
	mariana = model.Caller{UserID: 3, Role: model.RoleRepresentative}
	ana     = model.Caller{UserID: 4, Role: model.RoleClient}
)

func seededStore(t *testing.T) *store.Store {
	t.Helper()
	s := store.New(memory.NewKeyValueRepository(), logger.NoOpLogger(),
		store.WithClock(func() time.Time { return clock }),
		store.WithPasswordCost(bcrypt.MinCost))
	require.NoError(t, s.Seed(context.Background()))
	return s
}

func ptr[T any](v T) *T { return &v }

type fakeGenerator struct {
	answer string
	chunks []string
	err    error

	prompts []string
	system  string
	history []model.Turn
}

func (f *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.answer, f.err
}

func (f *fakeGenerator) Chat(_ context.Context, system string, history []model.Turn, message string) (string, error) {
	f.system = system
	f.history = history
	f.prompts = append(f.prompts, message)
	return f.answer, f.err
}

func (f *fakeGenerator) Stream(_ context.Context, prompt string, onChunk func(string) error) error {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return f.err
	}
	for _, c := range f.chunks {
		if err := onChunk(c); err != nil {
			return err
		}
	}
	return nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []model.Event
}

func (p *recordingPublisher) Publish(_ context.Context, event model.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *recordingPublisher) Close(context.Context) error { return nil }

func (p *recordingPublisher) types() []model.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]model.EventType, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

type recordingNotifier struct {
	messages []model.Message
}

func (n *recordingNotifier) NotifyMessage(_ model.Chat, message model.Message) {
	n.messages = append(n.messages, message)
}
