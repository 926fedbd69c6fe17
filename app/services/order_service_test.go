package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/pizzeria/app/models"
	"github.com/shashiranjanraj/pizzeria/pkg/apperror"
	"github.com/shashiranjanraj/pizzeria/pkg/auth"
	"github.com/shashiranjanraj/pizzeria/pkg/event"
	"github.com/shashiranjanraj/pizzeria/pkg/orm"
)

type orderFixture struct {
	store  *mockOrderStore
	owners *mockOwners
	events *mockEvents
	svc    *OrderService
}

func newOrderFixture() *orderFixture {
	f := &orderFixture{store: &mockOrderStore{}, owners: &mockOwners{}, events: &mockEvents{}}
	f.svc = NewOrderService(f.store, f.owners, f.events, clock)
	return f
}

var caller = auth.Identity{Username: "isatoltar", Privileges: []string{"ORDER_CREATE"}}

func TestCreateOrderHappyPath(t *testing.T) {
	f := newOrderFixture()
	ctx := context.Background()

	f.store.On("FindByTableNos", ctx, []int{1, 100_001}).Return([]models.Order{}, nil)
	f.owners.On("ResolveID", ctx, "isatoltar").Return(uintPtr(7), nil)
	f.store.On("CreateAll", ctx, mock.Anything).Run(func(args mock.Arguments) {
		for i, o := range args.Get(1).([]*models.Order) {
			o.ID = uint(10 + i)
		}
	}).Return(nil)
	f.events.On("Fire", event.OrderCreated, mock.Anything).Twice()

	out, err := f.svc.CreateOrder(ctx, caller, []OrderRequest{
		{TableNo: 1, Flavor: "REGINA", Crust: "THIN", Size: "M"},
		{TableNo: 100_001, Flavor: "HAWAII", Crust: "NORMAL", Size: "L"},
	})
	require.NoError(t, err)

	assert.Equal(t, []OrderResponse{
		{ID: 10, Flavor: "REGINA", Crust: "THIN", Size: "M", TableNo: 1, OrderType: "DINE-IN", OrderStatus: "CREATED"},
		{ID: 11, Flavor: "HAWAII", Crust: "NORMAL", Size: "L", TableNo: 100_001, OrderType: "DELIVERY", OrderStatus: "CREATED"},
	}, out)

	stored := f.store.Calls[1].Arguments.Get(1).([]*models.Order)
	for _, o := range stored {
		assert.Equal(t, fixedNow, o.Timestamp)
		require.NotNil(t, o.UserID)
		assert.EqualValues(t, 7, *o.UserID)
	}
	f.store.AssertExpectations(t)
	f.events.AssertExpectations(t)
}

func TestCreateOrderWithoutStoredOwner(t *testing.T) {
	f := newOrderFixture()
	ctx := context.Background()

	f.store.On("FindByTableNos", ctx, []int{4}).Return([]models.Order{}, nil)
	f.owners.On("ResolveID", ctx, "isatoltar").Return(nil, nil)
	f.store.On("CreateAll", ctx, mock.Anything).Return(nil)
	f.events.On("Fire", event.OrderCreated, mock.Anything)

	_, err := f.svc.CreateOrder(ctx, caller, []OrderRequest{{TableNo: 4, Flavor: "REGINA", Crust: "THIN", Size: "M"}})
	require.NoError(t, err)

	stored := f.store.Calls[1].Arguments.Get(1).([]*models.Order)
	assert.Nil(t, stored[0].UserID)
}

func TestCreateOrderTableConflict(t *testing.T) {
	f := newOrderFixture()
	ctx := context.Background()

	f.store.On("FindByTableNos", ctx, []int{2, 1, 3}).
		Return([]models.Order{{TableNo: 2}, {TableNo: 1}}, nil)

	_, err := f.svc.CreateOrder(ctx, caller, []OrderRequest{
		{TableNo: 2, Flavor: "REGINA", Crust: "THIN", Size: "M"},
		{TableNo: 1, Flavor: "REGINA", Crust: "THIN", Size: "M"},
		{TableNo: 3, Flavor: "REGINA", Crust: "THIN", Size: "M"},
	})

	require.ErrorIs(t, err, apperror.ErrConflict)
	assert.Equal(t, "Table numbers 1,2 are already ordered", err.Error())
	f.store.AssertNotCalled(t, "CreateAll", mock.Anything, mock.Anything)
}

func TestCreateOrderRejectsEmptyBatch(t *testing.T) {
	f := newOrderFixture()

	_, err := f.svc.CreateOrder(context.Background(), caller, []OrderRequest{})
	require.ErrorIs(t, err, apperror.ErrBadRequest)
	var ae *apperror.Error
	require.ErrorAs(t, err, &ae)
	require.Len(t, ae.Fields, 1)
	assert.Equal(t, "orders", ae.Fields[0].Field)
	f.store.AssertNotCalled(t, "CreateAll", mock.Anything, mock.Anything)
}

func TestCreateOrderDuplicateInsideBatch(t *testing.T) {
	f := newOrderFixture()

	_, err := f.svc.CreateOrder(context.Background(), caller, []OrderRequest{
		{TableNo: 5, Flavor: "REGINA", Crust: "THIN", Size: "M"},
		{TableNo: 5, Flavor: "HAWAII", Crust: "THIN", Size: "M"},
	})

	require.ErrorIs(t, err, apperror.ErrConflict)
	assert.Equal(t, "Table numbers 5 are already ordered", err.Error())
	f.store.AssertNotCalled(t, "FindByTableNos", mock.Anything, mock.Anything)
}

func TestCreateOrderReportsFirstInvalidField(t *testing.T) {
	cases := []struct {
		name string
		req  OrderRequest
		msg  string
	}{
		{"crust before flavor", OrderRequest{TableNo: 1, Flavor: "PEPPERONI", Crust: "THICK", Size: "M"}, "Crust = THICK is not valid!"},
		{"flavor before size", OrderRequest{TableNo: 1, Flavor: "PEPPERONI", Crust: "THIN", Size: "XL"}, "Flavor = PEPPERONI is not valid!"},
		{"size", OrderRequest{TableNo: 1, Flavor: "REGINA", Crust: "THIN", Size: "XL"}, "Size = XL is not valid!"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newOrderFixture()
			ctx := context.Background()
			f.store.On("FindByTableNos", ctx, []int{1}).Return([]models.Order{}, nil)

			_, err := f.svc.CreateOrder(ctx, caller, []OrderRequest{tc.req})

			require.ErrorIs(t, err, apperror.ErrBadRequest)
			assert.Equal(t, tc.msg, err.Error())
			f.store.AssertNotCalled(t, "CreateAll", mock.Anything, mock.Anything)
		})
	}
}

func TestCreateOrderLostRaceIsConflict(t *testing.T) {
	f := newOrderFixture()
	ctx := context.Background()

	f.store.On("FindByTableNos", ctx, []int{9}).Return([]models.Order{}, nil).Once()
	f.owners.On("ResolveID", ctx, "isatoltar").Return(nil, nil)
	f.store.On("CreateAll", ctx, mock.Anything).Return(orm.ErrDuplicate)
	f.store.On("FindByTableNos", ctx, []int{9}).Return([]models.Order{{TableNo: 9}}, nil).Once()

	_, err := f.svc.CreateOrder(ctx, caller, []OrderRequest{{TableNo: 9, Flavor: "REGINA", Crust: "THIN", Size: "M"}})

	require.ErrorIs(t, err, apperror.ErrConflict)
	assert.Equal(t, "Table numbers 9 are already ordered", err.Error())
}

func TestCreateOrderEmptyBatch(t *testing.T) {
	f := newOrderFixture()
	_, err := f.svc.CreateOrder(context.Background(), caller, nil)
	assert.ErrorIs(t, err, apperror.ErrBadRequest)
}

func TestListAllOrdersEmpty(t *testing.T) {
	f := newOrderFixture()
	ctx := context.Background()
	f.store.On("Page", ctx, 3, 10, "id").Return([]models.Order{}, orm.Pagination{Page: 3, Size: 10, TotalItems: 4, TotalPages: 1}, nil)

	out, err := f.svc.ListAllOrders(ctx, 3, 10, "id")
	require.NoError(t, err)
	assert.Equal(t, OrderPageResponse{Orders: []OrderResponse{}}, out)
}

func TestListAllOrdersPage(t *testing.T) {
	f := newOrderFixture()
	ctx := context.Background()
	f.store.On("Page", ctx, 1, 2, "table_no").Return(
		[]models.Order{{ID: 3, TableNo: 3, OrderType: "DINE-IN", OrderStatus: models.StatusCancelled}},
		orm.Pagination{Page: 1, Size: 2, TotalItems: 3, TotalPages: 2}, nil)

	out, err := f.svc.ListAllOrders(ctx, 1, 2, "tableNo")
	require.NoError(t, err)
	assert.Equal(t, 1, out.CurrentPage)
	assert.EqualValues(t, 3, out.TotalItems)
	assert.Equal(t, 2, out.TotalPages)
	require.Len(t, out.Orders, 1)
	assert.Equal(t, "CANCELLED", out.Orders[0].OrderStatus)
}

func TestValidatePaging(t *testing.T) {
	col, err := ValidatePaging(0, 10, "orderStatus")
	require.NoError(t, err)
	assert.Equal(t, "order_status", col)

	_, err = ValidatePaging(-1, 0, "password")
	ae, ok := apperror.From(err)
	require.True(t, ok)
	assert.Equal(t, apperror.ValidationMessage, ae.Message)
	fields := make([]string, len(ae.Fields))
	for i, fe := range ae.Fields {
		fields[i] = fe.Field
	}
	assert.Equal(t, []string{"page", "size", "sortBy"}, fields)

	_, err = ValidatePaging(0, MaxPageSize+1, "id")
	assert.ErrorIs(t, err, apperror.ErrBadRequest)

	_, err = ValidatePaging(0, 10, "aVeryLongSortFieldNameIndeed")
	assert.ErrorIs(t, err, apperror.ErrBadRequest)
}

func TestListOrdersOfUser(t *testing.T) {
	f := newOrderFixture()
	ctx := context.Background()

	f.owners.On("Exists", ctx, uint(7)).Return(true, nil)
	f.owners.On("Exists", ctx, uint(8)).Return(false, nil)
	f.store.On("FindByUserID", ctx, uint(7)).Return([]models.Order{{ID: 1, TableNo: 4, OrderStatus: models.StatusCreated}}, nil)

	out, err := f.svc.ListOrdersOfUser(ctx, 7)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, 4, out[0].TableNo)

	_, err = f.svc.ListOrdersOfUser(ctx, 8)
	require.ErrorIs(t, err, apperror.ErrNotFound)
	assert.Equal(t, "User with id = 8 does not exists", err.Error())
}

func TestCancelOrder(t *testing.T) {
	f := newOrderFixture()
	ctx := context.Background()

	f.store.On("FindByID", ctx, uint(5)).Return(models.Order{ID: 5, OrderStatus: models.StatusDelivered}, nil)
	f.store.On("Save", ctx, mock.MatchedBy(func(o *models.Order) bool {
		return o.ID == 5 && o.OrderStatus == models.StatusCancelled
	})).Return(nil)
	f.events.On("Fire", event.OrderCancelled, mock.Anything)

	require.NoError(t, f.svc.CancelOrder(ctx, 5))
	f.store.AssertExpectations(t)
	f.events.AssertExpectations(t)
}

func TestCancelMissingOrder(t *testing.T) {
	f := newOrderFixture()
	ctx := context.Background()
	f.store.On("FindByID", ctx, uint(5)).Return(models.Order{}, orm.ErrNotFound)

	err := f.svc.CancelOrder(ctx, 5)
	require.ErrorIs(t, err, apperror.ErrNotFound)
	assert.Equal(t, "Order with id = 5 does not exists", err.Error())
	f.store.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestDeleteOrder(t *testing.T) {
	f := newOrderFixture()
	ctx := context.Background()

	f.store.On("FindByID", ctx, uint(5)).Return(models.Order{ID: 5}, nil).Once()
	f.store.On("Delete", ctx, mock.Anything).Return(nil).Once()
	f.events.On("Fire", event.OrderDeleted, mock.Anything).Once()
	f.store.On("FindByID", ctx, uint(5)).Return(models.Order{}, orm.ErrNotFound)

	require.NoError(t, f.svc.DeleteOrder(ctx, 5))
	assert.ErrorIs(t, f.svc.DeleteOrder(ctx, 5), apperror.ErrNotFound)
	f.store.AssertNumberOfCalls(t, "Delete", 1)
}

func TestStoreFailureIsInternal(t *testing.T) {
	f := newOrderFixture()
	ctx := context.Background()
	f.store.On("FindByID", ctx, uint(5)).Return(models.Order{}, errors.New("connection reset"))

	err := f.svc.DeleteOrder(ctx, 5)
	require.Error(t, err)
	_, isApp := apperror.From(err)
	assert.False(t, isApp)
}
