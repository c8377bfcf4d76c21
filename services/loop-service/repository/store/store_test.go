package store

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"loop/pkg/logger"
	"loop/services/loop-service/domain"
	"loop/services/loop-service/domain/model"
	"loop/services/loop-service/repository/memory"
)

var fixedNow = time.Date(2026, time.March, 18, 14, 30, 0, 0, time.UTC)

func newTestStore(t *testing.T) (*Store, *memory.KeyValue) {
	t.Helper()
	kv := memory.NewKeyValueRepository()
	s := New(kv, logger.NoOpLogger(), WithClock(func() time.Time { return fixedNow }), WithPasswordCost(bcrypt.MinCost))
	return s, kv
}

func ptr[T any](v T) *T { return &v }

// failingKV fails every call
type failingKV struct{}

func (failingKV) Get(context.Context, string) (string, bool, error) {
	return "", false, errors.New("storage unavailable")
}
func (failingKV) Set(context.Context, string, string) error { return errors.New("quota exceeded") }
func (failingKV) Delete(context.Context, string) error      { return errors.New("storage unavailable") }
func (failingKV) SetIfAbsent(context.Context, string, string) (bool, error) {
	return false, errors.New("storage unavailable")
}

// brokenTableKV is a working substrate that refuses writes to one key
type brokenTableKV struct {
	*memory.KeyValue
	broken string
}

func (b *brokenTableKV) Set(ctx context.Context, key, value string) error {
	if key == b.broken {
		return errors.New("quota exceeded")
	}
	return b.KeyValue.Set(ctx, key, value)
}

func TestTable_AddAllocatesMaxPlusOne(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	assert.Empty(t, s.Plans().All(ctx))

	first := s.Plans().Add(ctx, model.Plan{Name: "Auto Flex"})
	second := s.Plans().Add(ctx, model.Plan{Name: "Imóvel Premium"})
	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, int64(2), second.ID)

	s.Plans().Delete(ctx, 1)
	third := s.Plans().Add(ctx, model.Plan{Name: "Serviços"})
	assert.Equal(t, int64(3), third.ID, "IDs follow the highest live ID")

	s.Plans().Delete(ctx, 3)
	s.Plans().Delete(ctx, 2)
	assert.Equal(t, int64(1), s.Plans().Add(ctx, model.Plan{Name: "again"}).ID, "an emptied table starts over at 1")
}

func TestTable_AddIgnoresCallerID(t *testing.T) {
	s, _ := newTestStore(t)

	plan := s.Plans().Add(context.Background(), model.Plan{ID: 99, Name: "Auto Flex"})
	assert.Equal(t, int64(1), plan.ID)
}

func TestTable_AppendOrder(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	s.Clients().Add(ctx, model.Client{Name: "Ana"})
	s.Clients().Add(ctx, model.Client{Name: "Bruno"})

	clients := s.Clients().All(ctx)
	require.Len(t, clients, 2)
	assert.Equal(t, "Ana", clients[0].Name)
	assert.Equal(t, "Bruno", clients[1].Name)
}

func TestSales_AddPrependsWithDefaults(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	sale := s.Sales().Add(ctx, model.Sale{RepresentativeID: 1, ClientName: "X", Plan: "P", Value: decimal.NewFromInt(100), Date: fixedNow})
	assert.Equal(t, int64(1), sale.ID)
	assert.Equal(t, model.SalePending, sale.Status)
	assert.False(t, sale.CommissionPaid)

	s.Sales().Add(ctx, model.Sale{RepresentativeID: 1, ClientName: "Y", Plan: "P", Value: decimal.NewFromInt(200), Date: fixedNow})

	sales := s.Sales().All(ctx)
	require.Len(t, sales, 2)
	assert.Equal(t, int64(2), sales[0].ID, "newest sale comes first")
	assert.Equal(t, int64(1), sales[1].ID)
}

func TestTable_UpdateMergesShallowly(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	s.Sales().Add(ctx, model.Sale{RepresentativeID: 1, ClientName: "X", Plan: "P", Value: decimal.NewFromInt(100), Date: fixedNow})

	updated, ok := s.Sales().Update(ctx, 1, model.SalePatch{Status: ptr(model.SaleApproved)})
	require.True(t, ok)
	assert.Equal(t, model.SaleApproved, updated.Status)
	assert.Equal(t, "X", updated.ClientName)
	assert.Equal(t, "P", updated.Plan)
	assert.True(t, decimal.NewFromInt(100).Equal(updated.Value))
	assert.True(t, fixedNow.Equal(updated.Date))

	stored, ok := s.Sales().Get(ctx, 1)
	require.True(t, ok)
	assert.Equal(t, updated, stored)
}

func TestTable_UpdatePreservesOptionalFields(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	goal := decimal.NewFromInt(50000)
	s.Representatives().Add(ctx, model.Representative{Name: "Carlos", CommissionRate: decimal.NewFromInt(5), MonthlyGoal: &goal, UserID: ptr(int64(2))})

	updated, ok := s.Representatives().Update(ctx, 1, model.RepresentativePatch{Name: ptr("Carlos Silva")})
	require.True(t, ok)
	assert.Equal(t, "Carlos Silva", updated.Name)
	require.NotNil(t, updated.MonthlyGoal)
	assert.True(t, goal.Equal(*updated.MonthlyGoal))
	assert.Equal(t, int64(2), *updated.UserID)
	assert.Equal(t, model.RepresentativeActive, updated.Status)
}

func TestTable_UpdateMissing(t *testing.T) {
	s, kv := newTestStore(t)
	ctx := context.Background()

	_, ok := s.Plans().Update(ctx, 7, model.PlanPatch{Name: ptr("x")})
	assert.False(t, ok)

	_, found, _ := kv.Get(ctx, KeyPlans)
	assert.False(t, found, "a failed update writes nothing")
}

func TestMergePatch_NeverChangesID(t *testing.T) {
	merged, err := mergePatch(model.Plan{ID: 3, Name: "a"}, map[string]any{"id": 9, "name": "b"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), merged.ID)
	assert.Equal(t, "b", merged.Name)
}

func TestMergePatch_MapCanClearOptionalField(t *testing.T) {
	merged, err := mergePatch(model.Representative{ID: 1, SupervisorID: ptr(int64(2))}, map[string]any{"supervisorId": nil})
	require.NoError(t, err)
	assert.Nil(t, merged.SupervisorID)
}

func TestTable_Delete(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	s.Plans().Add(ctx, model.Plan{Name: "a"})
	s.Plans().Add(ctx, model.Plan{Name: "b"})

	s.Plans().Delete(ctx, 42)
	assert.Len(t, s.Plans().All(ctx), 2, "deleting a missing id is a no-op")

	s.Plans().Delete(ctx, 1)
	plans := s.Plans().All(ctx)
	require.Len(t, plans, 1)
	assert.Equal(t, "b", plans[0].Name)
}

func TestDelete_DoesNotCascade(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	rep := s.Representatives().Add(ctx, model.Representative{Name: "Carlos", CommissionRate: decimal.NewFromInt(5)})
	s.Clients().Add(ctx, model.Client{Name: "Ana", RepresentativeID: &rep.ID})
	s.Sales().Add(ctx, model.Sale{RepresentativeID: rep.ID, ClientName: "Ana", Value: decimal.NewFromInt(1000), Date: fixedNow})

	s.Representatives().Delete(ctx, rep.ID)

	assert.Len(t, s.Clients().All(ctx), 1)
	assert.Len(t, s.Sales().All(ctx), 1)
}

func TestFindByUserID(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	s.Clients().Add(ctx, model.Client{Name: "Lead sem conta"})
	s.Clients().Add(ctx, model.Client{Name: "Ana", UserID: ptr(int64(4))})
	s.Representatives().Add(ctx, model.Representative{Name: "Carlos", UserID: ptr(int64(2))})

	client, ok := s.FindClientByUserID(ctx, 4)
	require.True(t, ok)
	assert.Equal(t, "Ana", client.Name)

	rep, ok := s.FindRepresentativeByUserID(ctx, 2)
	require.True(t, ok)
	assert.Equal(t, "Carlos", rep.Name)

	_, ok = s.FindClientByUserID(ctx, 99)
	assert.False(t, ok)
	_, ok = s.FindRepresentativeByUserID(ctx, 4)
	assert.False(t, ok)
}

func TestCountSale(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	rep := s.Representatives().Add(ctx, model.Representative{Name: "Carlos", Sales: 3})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.CountSale(ctx, rep.ID)
		}()
	}
	wg.Wait()

	got, ok := s.Representatives().Get(ctx, rep.ID)
	require.True(t, ok)
	assert.Equal(t, 53, got.Sales)
	assert.Equal(t, "Carlos", got.Name)

	_, ok = s.CountSale(ctx, 99)
	assert.False(t, ok)
}

func TestFindUserByEmail_CaseInsensitive(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	s.Users().Add(ctx, model.User{Name: "Admin", Email: "admin@loop.com", Role: model.RoleAdmin})

	user, ok := s.FindUserByEmail(ctx, "ADMIN@Loop.com")
	require.True(t, ok)
	assert.Equal(t, int64(1), user.ID)

	_, ok = s.FindUserByEmail(ctx, "other@loop.com")
	assert.False(t, ok)
}

func TestRegister(t *testing.T) {
	tests := []struct {
		name       string
		role       model.Role
		wantRep    bool
		wantClient bool
	}{
		{name: "client gets a lead profile", role: model.RoleClient, wantClient: true},
		{name: "representative gets a sales profile", role: model.RoleRepresentative, wantRep: true},
		{name: "admin gets no profile", role: model.RoleAdmin},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newTestStore(t)
			ctx := context.Background()

			user, err := s.Register(ctx, "Paula", "paula@email.com", "segredo1", tt.role)
			require.NoError(t, err)
			assert.Equal(t, int64(1), user.ID)
			assert.Equal(t, tt.role, user.Role)
			assert.NotEqual(t, "segredo1", user.Password)
			assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("segredo1")))

			client, hasClient := s.FindClientByUserID(ctx, user.ID)
			rep, hasRep := s.FindRepresentativeByUserID(ctx, user.ID)
			assert.Equal(t, tt.wantClient, hasClient)
			assert.Equal(t, tt.wantRep, hasRep)

			if hasClient {
				assert.Equal(t, "Paula", client.Name)
				assert.Equal(t, "paula@email.com", client.Email)
				assert.Equal(t, model.ClientLead, client.Status)
			}
			if hasRep {
				assert.Equal(t, "Paula", rep.Name)
				assert.True(t, model.DefaultCommissionRate.Equal(rep.CommissionRate))
				assert.Equal(t, model.RepresentativeActive, rep.Status)
			}
		})
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	_, err := s.Register(ctx, "Paula", "paula@email.com", "segredo1", model.RoleClient)
	require.NoError(t, err)

	_, err = s.Register(ctx, "Outra Paula", "PAULA@email.com", "segredo2", model.RoleClient)
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)

	assert.Len(t, s.Users().All(ctx), 1)
	assert.Len(t, s.Clients().All(ctx), 1)
}

func TestCommissions(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	rep := s.Representatives().Add(ctx, model.Representative{Name: "Carlos", CommissionRate: decimal.NewFromInt(5)})
	approved := s.Sales().Add(ctx, model.Sale{RepresentativeID: rep.ID, ClientName: "Ana", Plan: "Imóvel",
		Value: decimal.NewFromInt(100000), Date: time.Date(2024, time.May, 10, 0, 0, 0, 0, time.UTC)})
	s.Sales().Add(ctx, model.Sale{RepresentativeID: rep.ID, ClientName: "Bruno", Value: decimal.NewFromInt(5000), Date: fixedNow})

	_, ok := s.Sales().Update(ctx, approved.ID, model.SalePatch{Status: ptr(model.SaleApproved)})
	require.True(t, ok)

	commissions := s.Commissions(ctx)
	require.Len(t, commissions, 1, "pending sales have no commission")

	c := commissions[0]
	assert.Equal(t, approved.ID, c.ID)
	assert.Equal(t, approved.ID, c.SaleID)
	assert.Equal(t, "Carlos", c.RepresentativeName)
	assert.Equal(t, "5000", c.CommissionValue.String())
	assert.True(t, decimal.NewFromInt(5).Equal(c.CommissionRate))
	assert.Equal(t, model.CommissionPending, c.Status)
	assert.Equal(t, time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC), c.Period)

	require.True(t, s.MarkCommissionPaid(ctx, approved.ID))
	commissions = s.Commissions(ctx)
	require.Len(t, commissions, 1)
	assert.Equal(t, model.CommissionPaid, commissions[0].Status)

	sale, _ := s.Sales().Get(ctx, approved.ID)
	assert.True(t, sale.CommissionPaid)
}

func TestCommissions_MissingRepresentative(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	s.Sales().Add(ctx, model.Sale{RepresentativeID: 99, ClientName: "Ana", Value: decimal.NewFromInt(1000),
		Date: fixedNow, Status: model.SaleApproved})

	commissions := s.Commissions(ctx)
	require.Len(t, commissions, 1)
	assert.Equal(t, model.UnknownRepresentativeName, commissions[0].RepresentativeName)
	assert.True(t, commissions[0].CommissionRate.IsZero())
	assert.True(t, commissions[0].CommissionValue.IsZero())
}

func TestCommissions_Empty(t *testing.T) {
	s, _ := newTestStore(t)
	assert.Empty(t, s.Commissions(context.Background()))
}

func TestCommissions_FractionalRate(t *testing.T) {
	commissions := deriveCommissions(
		[]model.Sale{{ID: 1, RepresentativeID: 1, Value: decimal.RequireFromString("15000"), Status: model.SaleApproved, Date: fixedNow}},
		[]model.Representative{{ID: 1, Name: "Mariana", CommissionRate: decimal.RequireFromString("4.5")}},
	)
	require.Len(t, commissions, 1)
	assert.Equal(t, "675", commissions[0].CommissionValue.String())
}

func TestMarkCommissionPaid_NotPayable(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	pending := s.Sales().Add(ctx, model.Sale{RepresentativeID: 1, Value: decimal.NewFromInt(10), Date: fixedNow})

	assert.False(t, s.MarkCommissionPaid(ctx, 404))
	assert.False(t, s.MarkCommissionPaid(ctx, pending.ID))

	sale, _ := s.Sales().Get(ctx, pending.ID)
	assert.False(t, sale.CommissionPaid)
}

func TestAppendMessage(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	chat := s.CreateChat(ctx, model.Chat{ClientID: 1, ClientName: "Ana"})
	assert.Equal(t, int64(1), chat.ID)
	assert.Empty(t, chat.Messages)

	updated, ok := s.AppendMessage(ctx, chat.ID, model.Message{ID: 50, Sender: model.SenderClient, Text: "Oi"})
	require.True(t, ok)
	require.Len(t, updated.Messages, 1)
	assert.Equal(t, int64(1), updated.Messages[0].ID, "message IDs are allocated per chat")
	assert.Equal(t, fixedNow, updated.Messages[0].Timestamp)
	assert.Equal(t, fixedNow, updated.LastMessageTimestamp)

	updated, ok = s.AppendMessage(ctx, chat.ID, model.Message{Sender: model.SenderBot, Text: "Olá!"})
	require.True(t, ok)
	require.Len(t, updated.Messages, 2)
	assert.Equal(t, int64(2), updated.Messages[1].ID)
	assert.Equal(t, model.SenderBot, updated.Messages[1].Sender)

	stored, ok := s.ChatByClientID(ctx, 1)
	require.True(t, ok)
	assert.Equal(t, updated, stored)
}

func TestAppendMessage_MissingChat(t *testing.T) {
	s, kv := newTestStore(t)
	ctx := context.Background()

	_, ok := s.AppendMessage(ctx, 3, model.Message{Sender: model.SenderClient, Text: "Oi"})
	assert.False(t, ok)

	_, found, _ := kv.Get(ctx, KeyChats)
	assert.False(t, found)
}

func TestCreateChat_WithInitialMessages(t *testing.T) {
	s, _ := newTestStore(t)

	chat := s.CreateChat(context.Background(), model.Chat{ClientID: 2, ClientName: "Bruno", Messages: []model.Message{
		{Sender: model.SenderClient, Text: "Bom dia"},
		{Sender: model.SenderClient, Text: "Alguém aí?"},
	}})

	require.Len(t, chat.Messages, 2)
	assert.Equal(t, int64(1), chat.Messages[0].ID)
	assert.Equal(t, int64(2), chat.Messages[1].ID)
	assert.Equal(t, fixedNow, chat.LastMessageTimestamp)
}

func TestContractTemplate(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	assert.Equal(t, "", s.ContractTemplate(ctx))

	s.SetContractTemplate(ctx, "Contrato de {{CLIENTE}}")
	assert.Equal(t, "Contrato de {{CLIENTE}}", s.ContractTemplate(ctx))
}

func TestSeed_Idempotent(t *testing.T) {
	s, kv := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Seed(ctx))

	users := s.Users().All(ctx)
	sales := s.Sales().All(ctx)
	require.NotEmpty(t, users)
	require.NotEmpty(t, sales)
	assert.Equal(t, DefaultContractTemplate, s.ContractTemplate(ctx))

	_, marked, _ := kv.Get(ctx, KeySeeded)
	assert.True(t, marked)

	s.Plans().Add(ctx, model.Plan{Name: "Novo"})
	require.NoError(t, s.Seed(ctx))
	assert.Len(t, s.Plans().All(ctx), 4, "a second seed leaves user data alone")
	assert.Equal(t, users, s.Users().All(ctx))
}

func TestSeed_ReleasesLock(t *testing.T) {
	s, kv := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Seed(ctx))

	_, locked, err := kv.Get(ctx, KeySeedLock)
	require.NoError(t, err)
	assert.False(t, locked)
}

func TestSeed_SkipsWhileAnotherProcessHoldsLock(t *testing.T) {
	s, kv := newTestStore(t)
	ctx := context.Background()

	claimed, err := kv.SetIfAbsent(ctx, KeySeedLock, "2026-03-18T14:00:00Z")
	require.NoError(t, err)
	require.True(t, claimed)

	require.NoError(t, s.Seed(ctx))
	assert.Empty(t, s.Users().All(ctx), "fixtures are left to the lock holder")

	_, marked, _ := kv.Get(ctx, KeySeeded)
	assert.False(t, marked)
	value, locked, _ := kv.Get(ctx, KeySeedLock)
	assert.True(t, locked)
	assert.Equal(t, "2026-03-18T14:00:00Z", value, "a lock held elsewhere is not released")

	require.NoError(t, kv.Delete(ctx, KeySeedLock))
	require.NoError(t, s.Seed(ctx))
	assert.NotEmpty(t, s.Users().All(ctx))
}

func TestSeed_FailureReleasesLockForRetry(t *testing.T) {
	kv := &brokenTableKV{KeyValue: memory.NewKeyValueRepository(), broken: KeyPlans}
	s := New(kv, logger.NoOpLogger(), WithClock(func() time.Time { return fixedNow }), WithPasswordCost(bcrypt.MinCost))
	ctx := context.Background()

	assert.Error(t, s.Seed(ctx))
	_, marked, _ := kv.Get(ctx, KeySeeded)
	assert.False(t, marked)
	_, locked, _ := kv.Get(ctx, KeySeedLock)
	assert.False(t, locked)

	kv.broken = ""
	require.NoError(t, s.Seed(ctx))
	assert.Len(t, s.Plans().All(ctx), 3)
	_, marked, _ = kv.Get(ctx, KeySeeded)
	assert.True(t, marked)
}

func TestSeed_FixturesAreConsistent(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.Seed(ctx))

	admin, ok := s.FindUserByEmail(ctx, "admin@loop.com")
	require.True(t, ok)
	assert.Equal(t, model.RoleAdmin, admin.Role)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte("admin123")))

	carlos, ok := s.FindUserByEmail(ctx, "carlos@loop.com")
	require.True(t, ok)
	_, ok = s.FindRepresentativeByUserID(ctx, carlos.ID)
	assert.True(t, ok)

	ana, ok := s.FindUserByEmail(ctx, "ana@email.com")
	require.True(t, ok)
	_, ok = s.FindClientByUserID(ctx, ana.ID)
	assert.True(t, ok)

	sales := s.Sales().All(ctx)
	for i := 1; i < len(sales); i++ {
		assert.Greater(t, sales[i-1].ID, sales[i].ID, "sales are stored newest first")
	}

	next := s.Sales().Add(ctx, model.Sale{RepresentativeID: 1, Value: decimal.NewFromInt(1), Date: fixedNow})
	assert.Equal(t, int64(len(sales)+1), next.ID)

	assert.Len(t, s.Commissions(ctx), 3)
}

func TestFailureSemantics_ReadsDegradeWritesDrop(t *testing.T) {
	s := New(failingKV{}, logger.NoOpLogger(), WithPasswordCost(bcrypt.MinCost))
	ctx := context.Background()

	assert.Empty(t, s.Users().All(ctx))
	assert.Empty(t, s.Commissions(ctx))
	assert.Equal(t, "", s.ContractTemplate(ctx))

	plan := s.Plans().Add(ctx, model.Plan{Name: "lost"})
	assert.Equal(t, int64(1), plan.ID, "the caller still gets the record it asked for")

	_, ok := s.Plans().Get(ctx, 1)
	assert.False(t, ok)

	assert.Error(t, s.Seed(ctx), "seed refuses to run without a readable marker")
}

func TestFailureSemantics_MalformedDocument(t *testing.T) {
	s, kv := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, kv.Set(ctx, KeyUsers, "{not json"))
	require.NoError(t, kv.Set(ctx, KeyContractTemplate, "plain text"))

	assert.Empty(t, s.Users().All(ctx))
	assert.Equal(t, "", s.ContractTemplate(ctx))

	user := s.Users().Add(ctx, model.User{Name: "Admin", Email: "admin@loop.com", Role: model.RoleAdmin})
	assert.Equal(t, int64(1), user.ID)
	assert.Len(t, s.Users().All(ctx), 1)
}

func TestStore_ConcurrentAddsGetDistinctIDs(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Clients().Add(ctx, model.Client{Name: "c"})
		}()
	}
	wg.Wait()

	seen := map[int64]bool{}
	for _, c := range s.Clients().All(ctx) {
		seen[c.ID] = true
	}
	assert.Len(t, seen, 20)
}
