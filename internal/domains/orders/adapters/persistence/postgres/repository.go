package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/bookhaven/bookstore-api/internal/domains/orders/domain"
	"github.com/bookhaven/bookstore-api/internal/domains/orders/ports"
)

var (
	_ ports.Repository           = (*Repository)(nil)
	_ ports.AssignmentRepository = (*Repository)(nil)
)

// Repository persists orders and shipper assignments in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	repo := &Repository{db: db}
	if db != nil {
		_ = db.AutoMigrate(&orderRecord{}, &assignmentRecord{})
	}
	return repo
}

type lineItemRecord struct {
	BookID    int64 `json:"bookId"`
	Quantity  int32 `json:"quantity"`
	UnitPrice int64 `json:"unitPrice"`
}

type orderRecord struct {
	ID              int64            `gorm:"primaryKey;column:id"`
	Status          string           `gorm:"column:status;index"`
	Lines           []lineItemRecord `gorm:"column:lines;serializer:json"`
	CustomerName    string           `gorm:"column:customer_name"`
	CustomerPhone   string           `gorm:"column:customer_phone"`
	ShippingAddress string           `gorm:"column:shipping_address"`
	PaymentMethod   string           `gorm:"column:payment_method"`
	PromotionID     *int64           `gorm:"column:promotion_id"`
	TotalAmount     int64            `gorm:"column:total_amount"`
	DiscountAmount  int64            `gorm:"column:discount_amount"`
	FinalAmount     int64            `gorm:"column:final_amount"`
	CreatedAt       time.Time        `gorm:"column:created_at"`
	UpdatedAt       time.Time        `gorm:"column:updated_at"`
}

func (orderRecord) TableName() string { return "orders" }

type assignmentRecord struct {
	ID          int64      `gorm:"primaryKey;column:id"`
	OrderID     int64      `gorm:"column:order_id;index"`
	ShipperID   int64      `gorm:"column:shipper_id;index"`
	AssignedAt  time.Time  `gorm:"column:assigned_at"`
	CompletedAt *time.Time `gorm:"column:completed_at"`
}

func (assignmentRecord) TableName() string { return "shipper_assignments" }

// Save inserts or updates an order.
func (r *Repository) Save(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if order == nil {
		return nil, errors.New("order is nil")
	}
	if err := order.Validate(); err != nil {
		return nil, err
	}
	record := toOrderRecord(order)
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"status":           record.Status,
				"lines":            record.Lines,
				"customer_name":    record.CustomerName,
				"customer_phone":   record.CustomerPhone,
				"shipping_address": record.ShippingAddress,
				"payment_method":   record.PaymentMethod,
				"promotion_id":     record.PromotionID,
				"total_amount":     record.TotalAmount,
				"discount_amount":  record.DiscountAmount,
				"final_amount":     record.FinalAmount,
				"updated_at":       gorm.Expr("NOW()"),
			}),
		}).Create(&record).Error; err != nil {
		return nil, err
	}
	return r.GetByID(ctx, record.ID)
}

// GetByID fetches an order by identifier.
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record orderRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

// List returns orders ordered by id, optionally filtered by status.
func (r *Repository) List(ctx context.Context, status domain.Status) ([]*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	query := r.db.WithContext(ctx).Order("id")
	if status != "" {
		query = query.Where("status = ?", string(status))
	}
	var records []orderRecord
	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	orders := make([]*domain.Order, 0, len(records))
	for i := range records {
		orders = append(orders, records[i].toDomain())
	}
	return orders, nil
}

// Delete removes an order by identifier.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Delete(&orderRecord{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

// Transition moves the order from one status to another. The status check and
// the write are the same conditional UPDATE, so two concurrent transitions
// from the same status cannot both succeed.
func (r *Repository) Transition(ctx context.Context, id int64, from, to domain.Status) (bool, error) {
	if err := r.ensureDB(); err != nil {
		return false, err
	}
	result := r.db.WithContext(ctx).Model(&orderRecord{}).
		Where("id = ? AND status = ?", id, string(from)).
		Updates(map[string]any{
			"status":     string(to),
			"updated_at": gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		return false, result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).Model(&orderRecord{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return false, err
		}
		if count == 0 {
			return false, ports.ErrNotFound
		}
		return false, nil
	}
	return true, nil
}

// Assign creates an active assignment after verifying neither the order nor
// the shipper already has one. The checks run inside a serializable
// transaction so two concurrent assignments of the same shipper cannot both
// pass.
func (r *Repository) Assign(ctx context.Context, orderID, shipperID int64) (*domain.ShipperAssignment, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record assignmentRecord
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing assignmentRecord
		err := tx.Where("order_id = ? AND completed_at IS NULL", orderID).First(&existing).Error
		if err == nil {
			return &domain.OrderAlreadyAssignedError{OrderID: orderID, ShipperID: existing.ShipperID}
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		err = tx.Where("shipper_id = ? AND completed_at IS NULL", shipperID).First(&existing).Error
		if err == nil {
			return &domain.ShipperUnavailableError{ShipperID: shipperID, BusyWithOrderID: existing.OrderID}
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		record = assignmentRecord{OrderID: orderID, ShipperID: shipperID, AssignedAt: time.Now()}
		return tx.Create(&record).Error
	}, serializable())
	if err != nil {
		return nil, err
	}
	return record.toDomain(), nil
}

// ActiveByOrder fetches the uncompleted assignment for an order.
func (r *Repository) ActiveByOrder(ctx context.Context, orderID int64) (*domain.ShipperAssignment, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record assignmentRecord
	if err := r.db.WithContext(ctx).
		Where("order_id = ? AND completed_at IS NULL", orderID).
		First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrAssignmentNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

// Complete stamps the active assignment for an order, freeing the shipper.
func (r *Repository) Complete(ctx context.Context, orderID int64, at time.Time) (*domain.ShipperAssignment, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	result := r.db.WithContext(ctx).Model(&assignmentRecord{}).
		Where("order_id = ? AND completed_at IS NULL", orderID).
		Update("completed_at", at)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ports.ErrAssignmentNotFound
	}
	var record assignmentRecord
	if err := r.db.WithContext(ctx).
		Where("order_id = ? AND completed_at IS NOT NULL", orderID).
		Order("completed_at DESC").
		First(&record).Error; err != nil {
		return nil, err
	}
	return record.toDomain(), nil
}

// Remove deletes the active assignment for an order.
func (r *Repository) Remove(ctx context.Context, orderID int64) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).
		Where("order_id = ? AND completed_at IS NULL", orderID).
		Delete(&assignmentRecord{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrAssignmentNotFound
	}
	return nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres orders repository not configured")
	}
	return nil
}

func toOrderRecord(order *domain.Order) orderRecord {
	lines := make([]lineItemRecord, 0, len(order.Lines))
	for _, line := range order.Lines {
		lines = append(lines, lineItemRecord{BookID: line.BookID, Quantity: line.Quantity, UnitPrice: line.UnitPrice})
	}
	return orderRecord{
		ID:              order.ID,
		Status:          string(order.Status),
		Lines:           lines,
		CustomerName:    order.CustomerName,
		CustomerPhone:   order.CustomerPhone,
		ShippingAddress: order.ShippingAddress,
		PaymentMethod:   order.PaymentMethod,
		PromotionID:     order.PromotionID,
		TotalAmount:     order.TotalAmount,
		DiscountAmount:  order.DiscountAmount,
		FinalAmount:     order.FinalAmount,
	}
}

func (r orderRecord) toDomain() *domain.Order {
	lines := make([]domain.LineItem, 0, len(r.Lines))
	for _, line := range r.Lines {
		lines = append(lines, domain.LineItem{BookID: line.BookID, Quantity: line.Quantity, UnitPrice: line.UnitPrice})
	}
	return &domain.Order{
		ID:              r.ID,
		Status:          domain.Status(r.Status),
		Lines:           lines,
		CustomerName:    r.CustomerName,
		CustomerPhone:   r.CustomerPhone,
		ShippingAddress: r.ShippingAddress,
		PaymentMethod:   r.PaymentMethod,
		PromotionID:     r.PromotionID,
		TotalAmount:     r.TotalAmount,
		DiscountAmount:  r.DiscountAmount,
		FinalAmount:     r.FinalAmount,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

func (r assignmentRecord) toDomain() *domain.ShipperAssignment {
	return &domain.ShipperAssignment{
		ID:          r.ID,
		OrderID:     r.OrderID,
		ShipperID:   r.ShipperID,
		AssignedAt:  r.AssignedAt,
		CompletedAt: r.CompletedAt,
	}
}

func serializable() *sql.TxOptions {
	return &sql.TxOptions{Isolation: sql.LevelSerializable}
}
