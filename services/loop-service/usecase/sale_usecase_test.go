package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loop/pkg/logger"
	"loop/services/loop-service/domain"
	"loop/services/loop-service/domain/model"
	"loop/services/loop-service/repository/store"
)

func newSales(t *testing.T) (SaleUseCase, *store.Store, *recordingPublisher) {
	t.Helper()
	s := seededStore(t)
	events := &recordingPublisher{}
	uc := NewSaleUseCase(s, events, logger.NoOpLogger())
	uc.(*saleUseCase).now = func() time.Time { return clock }
	return uc, s, events
}

func TestSale_CreateByRepresentative(t *testing.T) {
	uc, s, events := newSales(t)
	ctx := context.Background()

	sale, err := uc.Create(ctx, carlos, model.Sale{RepresentativeID: 2, ClientID: ptr(int64(2)), ClientName: "ignorado",
		Plan: "Auto Flex", Value: decimal.NewFromInt(45000), Status: model.SaleApproved, CommissionPaid: true})
	require.NoError(t, err)
	assert.Equal(t, int64(6), sale.ID)
	assert.Equal(t, int64(1), sale.RepresentativeID, "representatives sell for themselves")
	assert.Equal(t, "Bruno Lima", sale.ClientName, "the name follows the client record")
	assert.Equal(t, model.SalePending, sale.Status)
	assert.False(t, sale.CommissionPaid)
	assert.Equal(t, clock, sale.Date)

	all, err := uc.List(ctx, admin)
	require.NoError(t, err)
	assert.Equal(t, int64(6), all[0].ID, "new sales come first")

	rep, ok := s.Representatives().Get(ctx, 1)
	require.True(t, ok)
	assert.Equal(t, 4, rep.Sales)

	assert.Equal(t, []model.EventType{model.EventSaleCreated}, events.types())
}

func TestSale_ConcurrentCreatesCountEverySale(t *testing.T) {
	uc, s, _ := newSales(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 30; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.Create(ctx, admin, model.Sale{RepresentativeID: 1, ClientID: ptr(int64(2)), Plan: "Auto Flex", Value: decimal.NewFromInt(1000)})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	rep, ok := s.Representatives().Get(ctx, 1)
	require.True(t, ok)
	assert.Equal(t, 33, rep.Sales)
}

func TestSale_CreateValidation(t *testing.T) {
	uc, _, events := newSales(t)
	ctx := context.Background()

	_, err := uc.Create(ctx, admin, model.Sale{RepresentativeID: 9, ClientName: "X", Value: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, domain.ErrRepresentativeNotFound)

	_, err = uc.Create(ctx, admin, model.Sale{RepresentativeID: 1, ClientID: ptr(int64(9)), Value: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, domain.ErrClientNotFound)

	_, err = uc.Create(ctx, admin, model.Sale{RepresentativeID: 1, ClientName: "  ", Value: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, domain.ErrClientNotFound)

	_, err = uc.Create(ctx, ana, model.Sale{RepresentativeID: 1, ClientName: "Ana"})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	sale, err := uc.Create(ctx, admin, model.Sale{RepresentativeID: 2, ClientName: "Walk-in", Value: decimal.NewFromInt(1),
		Date: time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC)})
	require.NoError(t, err)
	assert.Nil(t, sale.ClientID)
	assert.Equal(t, time.February, sale.Date.Month())

	assert.Equal(t, []model.EventType{model.EventSaleCreated}, events.types())
}

func TestSale_NameOnlySalesNeedAnUnambiguousName(t *testing.T) {
	uc, s, _ := newSales(t)
	ctx := context.Background()

	legacy, err := uc.Create(ctx, admin, model.Sale{RepresentativeID: 1, ClientName: "Ana Souza", Plan: "Auto Flex", Value: decimal.NewFromInt(5000)})
	require.NoError(t, err)
	require.Nil(t, legacy.ClientID)

	visible, err := uc.Get(ctx, ana, legacy.ID)
	require.NoError(t, err, "the only Ana Souza owns the free-text sale")
	assert.Equal(t, legacy.ID, visible.ID)

	s.Clients().Add(ctx, model.Client{Name: "Ana Souza", Phone: "(31) 95555-0000"})

	_, err = uc.Get(ctx, ana, legacy.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	own, err := uc.List(ctx, ana)
	require.NoError(t, err)
	for _, sale := range own {
		assert.NotEqual(t, legacy.ID, sale.ID)
	}
	assert.Len(t, own, 2, "sales linked by ID stay visible")
}

func TestSale_ListIsScoped(t *testing.T) {
	uc, _, _ := newSales(t)
	ctx := context.Background()

	ids := func(sales []model.Sale) []int64 {
		out := make([]int64, len(sales))
		for i, s := range sales {
			out[i] = s.ID
		}
		return out
	}

	all, err := uc.List(ctx, admin)
	require.NoError(t, err)
	assert.Equal(t, []int64{5, 4, 3, 2, 1}, ids(all))

	own, err := uc.List(ctx, carlos)
	require.NoError(t, err)
	assert.Equal(t, []int64{4, 2, 1}, ids(own))

	contracts, err := uc.List(ctx, ana)
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 1}, ids(contracts))

	_, err = uc.Get(ctx, ana, 5)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = uc.Get(ctx, mariana, 5)
	assert.NoError(t, err)
	_, err = uc.Get(ctx, admin, 50)
	assert.ErrorIs(t, err, domain.ErrSaleNotFound)
}

func TestSale_ApproveAndReject(t *testing.T) {
	uc, _, events := newSales(t)
	ctx := context.Background()

	_, err := uc.Reject(ctx, 5, " ")
	assert.ErrorIs(t, err, domain.ErrRejectionReason)

	sale, err := uc.Approve(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, model.SaleApproved, sale.Status)
	assert.Equal(t, "Carla Dias", sale.ClientName)

	_, err = uc.Approve(ctx, 5)
	assert.ErrorIs(t, err, domain.ErrSaleNotPending)
	_, err = uc.Reject(ctx, 4, "outra razão")
	assert.ErrorIs(t, err, domain.ErrSaleNotPending)
	_, err = uc.Approve(ctx, 50)
	assert.ErrorIs(t, err, domain.ErrSaleNotFound)

	created, err := uc.Create(ctx, admin, model.Sale{RepresentativeID: 1, ClientName: "Z", Value: decimal.NewFromInt(10)})
	require.NoError(t, err)
	rejected, err := uc.Reject(ctx, created.ID, "Renda insuficiente")
	require.NoError(t, err)
	assert.Equal(t, model.SaleRejected, rejected.Status)
	assert.Equal(t, "Renda insuficiente", rejected.RejectionReason)

	assert.Equal(t, []model.EventType{model.EventSaleApproved, model.EventSaleCreated, model.EventSaleRejected}, events.types())
}

func TestSale_Delete(t *testing.T) {
	uc, _, _ := newSales(t)
	ctx := context.Background()

	require.NoError(t, uc.Delete(ctx, 3))
	assert.ErrorIs(t, uc.Delete(ctx, 3), domain.ErrSaleNotFound)

	commissions, err := uc.Commissions(ctx, admin, nil)
	require.NoError(t, err)
	assert.Len(t, commissions, 2, "the commission disappears with its sale")
}

func TestSale_Commissions(t *testing.T) {
	uc, _, _ := newSales(t)
	ctx := context.Background()

	all, err := uc.Commissions(ctx, admin, nil)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, int64(3), all[0].SaleID)
	assert.Equal(t, "Mariana Costa", all[0].RepresentativeName)
	assert.Equal(t, "675", all[0].CommissionValue.String())

	forMariana, err := uc.Commissions(ctx, admin, ptr(int64(2)))
	require.NoError(t, err)
	assert.Len(t, forMariana, 1)

	own, err := uc.Commissions(ctx, carlos, ptr(int64(2)))
	require.NoError(t, err)
	require.Len(t, own, 2, "a representative cannot look at someone else's commissions")
	for _, c := range own {
		assert.Equal(t, int64(1), c.RepresentativeID)
	}

	_, err = uc.Commissions(ctx, ana, nil)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestSale_MarkCommissionPaid(t *testing.T) {
	uc, _, events := newSales(t)
	ctx := context.Background()

	c, err := uc.MarkCommissionPaid(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, model.CommissionPaid, c.Status)
	assert.Equal(t, "4000", c.CommissionValue.String())
	assert.Equal(t, []model.EventType{model.EventCommissionPaid}, events.types())

	_, err = uc.MarkCommissionPaid(ctx, 5)
	assert.ErrorIs(t, err, domain.ErrSaleNotApproved)
	_, err = uc.MarkCommissionPaid(ctx, 4)
	assert.ErrorIs(t, err, domain.ErrSaleNotApproved)
	_, err = uc.MarkCommissionPaid(ctx, 50)
	assert.ErrorIs(t, err, domain.ErrSaleNotFound)
}
