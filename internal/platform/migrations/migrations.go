package migrations

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Run applies the schema for the bounded contexts. Intended to replace adapter-level automigrate.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(
		&bookRecord{},
		&reservationRecord{},
		&promotionRecord{},
		&orderRecord{},
		&assignmentRecord{},
		&userRecord{},
	)
}

// Book schema mirrors the catalog Postgres adapter.
type bookRecord struct {
	ID        int64     `gorm:"primaryKey;column:id"`
	Title     string    `gorm:"column:title"`
	Author    string    `gorm:"column:author"`
	Price     int64     `gorm:"column:price"`
	Stock     int32     `gorm:"column:stock"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (bookRecord) TableName() string { return "books" }

// Reservation schema mirrors the catalog stock ledger.
type reservationRecord struct {
	OrderID    int64      `gorm:"primaryKey;column:order_id"`
	Lines      string     `gorm:"column:lines;type:jsonb"`
	Reversed   bool       `gorm:"column:reversed;index"`
	CreatedAt  time.Time  `gorm:"column:created_at"`
	ReversedAt *time.Time `gorm:"column:reversed_at"`
}

func (reservationRecord) TableName() string { return "stock_reservations" }

// Promotion schema mirrors the promotions Postgres adapter.
type promotionRecord struct {
	ID        int64         `gorm:"primaryKey;column:id"`
	Name      string        `gorm:"column:name"`
	Type      string        `gorm:"column:type;type:varchar(16)"`
	Value     int64         `gorm:"column:value"`
	StartDate time.Time     `gorm:"column:start_date;type:date;index"`
	EndDate   time.Time     `gorm:"column:end_date;type:date;index"`
	BookIDs   pq.Int64Array `gorm:"column:book_ids;type:bigint[]"`
	CreatedAt time.Time     `gorm:"column:created_at"`
	UpdatedAt time.Time     `gorm:"column:updated_at"`
}

func (promotionRecord) TableName() string { return "promotions" }

// Order schema mirrors the orders Postgres adapter.
type orderRecord struct {
	ID              int64     `gorm:"primaryKey;column:id"`
	Status          string    `gorm:"column:status;type:varchar(16);index"`
	Lines           string    `gorm:"column:lines;type:jsonb"`
	CustomerName    string    `gorm:"column:customer_name"`
	CustomerPhone   string    `gorm:"column:customer_phone"`
	ShippingAddress string    `gorm:"column:shipping_address"`
	PaymentMethod   string    `gorm:"column:payment_method"`
	PromotionID     *int64    `gorm:"column:promotion_id"`
	TotalAmount     int64     `gorm:"column:total_amount"`
	DiscountAmount  int64     `gorm:"column:discount_amount"`
	FinalAmount     int64     `gorm:"column:final_amount"`
	CreatedAt       time.Time `gorm:"column:created_at;index"`
	UpdatedAt       time.Time `gorm:"column:updated_at"`
}

func (orderRecord) TableName() string { return "orders" }

// Assignment schema mirrors the shipper assignment store.
type assignmentRecord struct {
	ID          int64      `gorm:"primaryKey;column:id"`
	OrderID     int64      `gorm:"column:order_id;index"`
	ShipperID   int64      `gorm:"column:shipper_id;index"`
	AssignedAt  time.Time  `gorm:"column:assigned_at"`
	CompletedAt *time.Time `gorm:"column:completed_at"`
}

func (assignmentRecord) TableName() string { return "shipper_assignments" }

// User schema mirrors the users Postgres adapter.
type userRecord struct {
	ID        int64     `gorm:"primaryKey;column:id"`
	Username  string    `gorm:"column:username;uniqueIndex"`
	FullName  string    `gorm:"column:full_name"`
	Phone     string    `gorm:"column:phone"`
	RoleID    int64     `gorm:"column:role_id;index"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (userRecord) TableName() string { return "users" }
