package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/pizzeria/app/models"
	"github.com/shashiranjanraj/pizzeria/pkg/orm"
)

// OrderRepository handles database operations for Order.
type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// FindByTableNos returns every stored order holding one of tableNos,
// ordered by table number.
func (r *OrderRepository) FindByTableNos(ctx context.Context, tableNos []int) ([]models.Order, error) {
	var orders []models.Order
	if len(tableNos) == 0 {
		return orders, nil
	}
	err := orm.New(ctx, r.db).Model(&models.Order{}).Where("table_no IN ?", tableNos).Order("table_no").Get(&orders)
	return orders, err
}

func (r *OrderRepository) FindByUserID(ctx context.Context, userID uint) ([]models.Order, error) {
	var orders []models.Order
	err := orm.New(ctx, r.db).Model(&models.Order{}).Where("user_id = ?", userID).Order("id").Get(&orders)
	return orders, err
}

// FindByID returns orm.ErrNotFound when the order does not exist.
func (r *OrderRepository) FindByID(ctx context.Context, id uint) (models.Order, error) {
	var order models.Order
	err := orm.New(ctx, r.db).Model(&models.Order{}).Where("id = ?", id).First(&order)
	return order, err
}

// CreateAll inserts orders one by one inside a single transaction; any
// failure rolls back the whole batch.
func (r *OrderRepository) CreateAll(ctx context.Context, orders []*models.Order) error {
	return orm.Transaction(ctx, r.db, func(tx *gorm.DB) error {
		for _, o := range orders {
			if err := orm.New(ctx, tx).Create(o); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *OrderRepository) Save(ctx context.Context, order *models.Order) error {
	return orm.New(ctx, r.db).Save(order)
}

func (r *OrderRepository) Delete(ctx context.Context, order *models.Order) error {
	return orm.New(ctx, r.db).Delete(order)
}

// Page loads one 0-based page of all orders ordered by column ascending.
// column must be a trusted column name.
func (r *OrderRepository) Page(ctx context.Context, page, size int, column string) ([]models.Order, orm.Pagination, error) {
	var orders []models.Order
	p, err := orm.New(ctx, r.db).Model(&models.Order{}).Order(column+" asc, id asc").Paginate(&orders, page, size)
	return orders, p, err
}
