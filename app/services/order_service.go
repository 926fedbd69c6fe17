package services

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shashiranjanraj/pizzeria/app/models"
	"github.com/shashiranjanraj/pizzeria/pkg/apperror"
	"github.com/shashiranjanraj/pizzeria/pkg/auth"
	"github.com/shashiranjanraj/pizzeria/pkg/bind"
	"github.com/shashiranjanraj/pizzeria/pkg/event"
	"github.com/shashiranjanraj/pizzeria/pkg/logger"
	"github.com/shashiranjanraj/pizzeria/pkg/metrics"
	"github.com/shashiranjanraj/pizzeria/pkg/orm"
)

// OrderStore is the persistence OrderService needs.
type OrderStore interface {
	FindByTableNos(ctx context.Context, tableNos []int) ([]models.Order, error)
	FindByUserID(ctx context.Context, userID uint) ([]models.Order, error)
	FindByID(ctx context.Context, id uint) (models.Order, error)
	CreateAll(ctx context.Context, orders []*models.Order) error
	Save(ctx context.Context, order *models.Order) error
	Delete(ctx context.Context, order *models.Order) error
	Page(ctx context.Context, page, size int, column string) ([]models.Order, orm.Pagination, error)
}

// Owners resolves the owning user of new orders and checks user ids.
type Owners interface {
	ResolveID(ctx context.Context, username string) (*uint, error)
	Exists(ctx context.Context, id uint) (bool, error)
}

// Events receives order lifecycle notifications.
type Events interface {
	Fire(name string, payload interface{})
}

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
	DefaultSortBy   = "id"
	maxSortByLen    = 20
)

// sortColumns maps the accepted sortBy values to order columns.
var sortColumns = map[string]string{
	"id":          "id",
	"flavor":      "flavor",
	"crust":       "crust",
	"size":        "size",
	"tableNo":     "table_no",
	"orderType":   "order_type",
	"orderStatus": "order_status",
	"timestamp":   "timestamp",
}

type OrderService struct {
	orders OrderStore
	owners Owners
	events Events
	now    func() time.Time
}

// NewOrderService wires the service. A nil clock means time.Now.
func NewOrderService(orders OrderStore, owners Owners, events Events, now func() time.Time) *OrderService {
	if now == nil {
		now = time.Now
	}
	return &OrderService{orders: orders, owners: owners, events: events, now: now}
}

// CreateOrder validates and stores a batch of orders for caller. Either
// every order is stored or none is. Responses follow request order.
func (s *OrderService) CreateOrder(ctx context.Context, caller auth.Identity, reqs []OrderRequest) ([]OrderResponse, error) {
	if err := bind.MustNotBeEmpty(len(reqs), "orders"); err != nil {
		return nil, err
	}

	tableNos, dupes := distinctTableNos(reqs)
	if len(dupes) > 0 {
		metrics.TableConflicts.Inc()
		return nil, tableConflict(dupes)
	}
	if err := s.checkTablesFree(ctx, tableNos); err != nil {
		return nil, err
	}

	for _, r := range reqs {
		if err := validatePizza(r); err != nil {
			return nil, err
		}
	}

	owner, err := s.owners.ResolveID(ctx, caller.Username)
	if err != nil {
		return nil, err
	}
	if owner == nil {
		logger.WithCtx(ctx).Info("orders placed without a stored owner", "username", caller.Username)
	}

	now := s.now().UTC()
	orders := make([]*models.Order, len(reqs))
	for i, r := range reqs {
		orders[i] = &models.Order{
			Flavor:      r.Flavor,
			Crust:       r.Crust,
			Size:        r.Size,
			TableNo:     r.TableNo,
			OrderType:   models.OrderTypeFor(r.TableNo),
			OrderStatus: models.StatusCreated,
			Timestamp:   now,
			UserID:      owner,
		}
	}

	if err := s.orders.CreateAll(ctx, orders); err != nil {
		if orm.IsDuplicate(err) {
			// Lost a race with a concurrent batch; report what is taken now.
			if cerr := s.checkTablesFree(ctx, tableNos); cerr != nil {
				return nil, cerr
			}
			metrics.TableConflicts.Inc()
			return nil, tableConflict(tableNos)
		}
		return nil, fmt.Errorf("store orders: %w", err)
	}

	out := make([]OrderResponse, len(orders))
	for i, o := range orders {
		out[i] = toOrderResponse(*o)
		s.fire(event.OrderCreated, out[i])
	}
	return out, nil
}

func (s *OrderService) checkTablesFree(ctx context.Context, tableNos []int) error {
	taken, err := s.orders.FindByTableNos(ctx, tableNos)
	if err != nil {
		return fmt.Errorf("check table numbers: %w", err)
	}
	if len(taken) == 0 {
		return nil
	}
	nums := make([]int, len(taken))
	for i, o := range taken {
		nums[i] = o.TableNo
	}
	metrics.TableConflicts.Inc()
	return tableConflict(nums)
}

func tableConflict(nums []int) error {
	sort.Ints(nums)
	parts := make([]string, len(nums))
	for i, n := range nums {
		parts[i] = strconv.Itoa(n)
	}
	return apperror.Conflict("Table numbers %s are already ordered", strings.Join(parts, ","))
}

// distinctTableNos returns the unique table numbers of reqs in first-seen
// order and the numbers requested more than once.
func distinctTableNos(reqs []OrderRequest) (unique, dupes []int) {
	seen := make(map[int]int, len(reqs))
	for _, r := range reqs {
		seen[r.TableNo]++
		switch seen[r.TableNo] {
		case 1:
			unique = append(unique, r.TableNo)
		case 2:
			dupes = append(dupes, r.TableNo)
		}
	}
	return unique, dupes
}

// validatePizza checks crust, then flavor, then size, reporting only the
// first invalid one.
func validatePizza(r OrderRequest) error {
	if !models.Crust(r.Crust).Valid() {
		return apperror.BadRequest("Crust = %s is not valid!", r.Crust)
	}
	if !models.Flavor(r.Flavor).Valid() {
		return apperror.BadRequest("Flavor = %s is not valid!", r.Flavor)
	}
	if !models.Size(r.Size).Valid() {
		return apperror.BadRequest("Size = %s is not valid!", r.Size)
	}
	return nil
}

// ValidatePaging checks list parameters and returns the sort column.
func ValidatePaging(page, size int, sortBy string) (string, error) {
	var fields []apperror.FieldError
	if page < 0 {
		fields = append(fields, apperror.FieldError{Field: "page", Message: "The page must be greater than or equal to 0."})
	}
	if size <= 0 || size > MaxPageSize {
		fields = append(fields, apperror.FieldError{Field: "size", Message: fmt.Sprintf("The size must be between 1 and %d.", MaxPageSize)})
	}
	column, ok := sortColumns[sortBy]
	switch {
	case len(sortBy) > maxSortByLen:
		fields = append(fields, apperror.FieldError{Field: "sortBy", Message: fmt.Sprintf("The sortBy must not exceed %d characters.", maxSortByLen)})
	case !ok:
		fields = append(fields, apperror.FieldError{Field: "sortBy", Message: "The selected sortBy is invalid."})
	}
	if len(fields) > 0 {
		return "", apperror.Validation(fields...)
	}
	return column, nil
}

// ListAllOrders returns one 0-based page of all orders.
func (s *OrderService) ListAllOrders(ctx context.Context, page, size int, sortBy string) (OrderPageResponse, error) {
	column, err := ValidatePaging(page, size, sortBy)
	if err != nil {
		return OrderPageResponse{}, err
	}

	orders, p, err := s.orders.Page(ctx, page, size, column)
	if err != nil {
		return OrderPageResponse{}, fmt.Errorf("list orders: %w", err)
	}
	if len(orders) == 0 {
		return OrderPageResponse{Orders: []OrderResponse{}}, nil
	}

	return OrderPageResponse{
		Orders:      toOrderResponses(orders),
		CurrentPage: p.Page,
		TotalItems:  p.TotalItems,
		TotalPages:  p.TotalPages,
	}, nil
}

func (s *OrderService) ListOrdersOfUser(ctx context.Context, userID uint) ([]OrderResponse, error) {
	ok, err := s.owners.Exists(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperror.NotFound("User with id = %d does not exists", userID)
	}

	orders, err := s.orders.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list orders of user %d: %w", userID, err)
	}
	return toOrderResponses(orders), nil
}

// CancelOrder marks the order CANCELLED whatever its current status.
func (s *OrderService) CancelOrder(ctx context.Context, orderID uint) error {
	order, err := s.find(ctx, orderID)
	if err != nil {
		return err
	}

	order.OrderStatus = models.StatusCancelled
	if err := s.orders.Save(ctx, &order); err != nil {
		return fmt.Errorf("cancel order %d: %w", orderID, err)
	}
	s.fire(event.OrderCancelled, toOrderResponse(order))
	return nil
}

// DeleteOrder removes the order permanently.
func (s *OrderService) DeleteOrder(ctx context.Context, orderID uint) error {
	order, err := s.find(ctx, orderID)
	if err != nil {
		return err
	}

	if err := s.orders.Delete(ctx, &order); err != nil {
		return fmt.Errorf("delete order %d: %w", orderID, err)
	}
	s.fire(event.OrderDeleted, toOrderResponse(order))
	return nil
}

func (s *OrderService) find(ctx context.Context, orderID uint) (models.Order, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	switch {
	case orm.IsNotFound(err):
		return models.Order{}, apperror.NotFound("Order with id = %d does not exists", orderID)
	case err != nil:
		return models.Order{}, fmt.Errorf("find order %d: %w", orderID, err)
	}
	return order, nil
}

func (s *OrderService) fire(name string, o OrderResponse) {
	if s.events != nil {
		s.events.Fire(name, OrderEvent{Event: name, Order: o})
	}
}
