package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/bookhaven/bookstore-api/internal/domains/catalog/domain"
	"github.com/bookhaven/bookstore-api/internal/domains/catalog/ports"
)

var (
	_ ports.Repository  = (*Repository)(nil)
	_ ports.StockLedger = (*Repository)(nil)
)

// Repository persists books and stock reservations in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	repo := &Repository{db: db}
	if db != nil {
		_ = db.AutoMigrate(&bookRecord{}, &reservationRecord{})
	}
	return repo
}

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

type reservationLineRecord struct {
	BookID   int64 `json:"bookId"`
	Quantity int32 `json:"quantity"`
}

type reservationRecord struct {
	OrderID    int64                   `gorm:"primaryKey;column:order_id"`
	Lines      []reservationLineRecord `gorm:"column:lines;serializer:json"`
	Reversed   bool                    `gorm:"column:reversed;index"`
	CreatedAt  time.Time               `gorm:"column:created_at"`
	ReversedAt *time.Time              `gorm:"column:reversed_at"`
}

func (reservationRecord) TableName() string { return "stock_reservations" }

// Save inserts or updates a book. The update assignments omit the stock
// column: stock only moves through Reserve, Reverse, and AdjustStock, so a
// save racing a reservation cannot resurrect sold stock.
func (r *Repository) Save(ctx context.Context, book *domain.Book) (*domain.Book, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if book == nil {
		return nil, errors.New("book is nil")
	}
	record := toBookRecord(book)
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"title":      record.Title,
				"author":     record.Author,
				"price":      record.Price,
				"updated_at": gorm.Expr("NOW()"),
			}),
		}).Create(&record).Error; err != nil {
		return nil, err
	}
	return r.GetByID(ctx, record.ID)
}

// GetByID fetches a book by identifier.
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Book, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record bookRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

// ListByIDs fetches the given books, failing when any id is unknown.
func (r *Repository) ListByIDs(ctx context.Context, ids []int64) ([]*domain.Book, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []bookRecord
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&records).Error; err != nil {
		return nil, err
	}
	byID := make(map[int64]*domain.Book, len(records))
	for i := range records {
		byID[records[i].ID] = records[i].toDomain()
	}
	books := make([]*domain.Book, 0, len(ids))
	for _, id := range ids {
		book, ok := byID[id]
		if !ok {
			return nil, ports.ErrNotFound
		}
		books = append(books, book)
	}
	return books, nil
}

// List returns all books ordered by id.
func (r *Repository) List(ctx context.Context) ([]*domain.Book, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []bookRecord
	if err := r.db.WithContext(ctx).Order("id").Find(&records).Error; err != nil {
		return nil, err
	}
	books := make([]*domain.Book, 0, len(records))
	for i := range records {
		books = append(books, records[i].toDomain())
	}
	return books, nil
}

// Delete removes a book by identifier.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Delete(&bookRecord{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

// AdjustStock applies delta with a non-negative guard evaluated by the write itself.
func (r *Repository) AdjustStock(ctx context.Context, id int64, delta int32) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Model(&bookRecord{}).
		Where("id = ? AND stock + ? >= 0", id, delta).
		Updates(map[string]any{
			"stock":      gorm.Expr("stock + ?", delta),
			"updated_at": gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		exists, err := r.bookExists(ctx, r.db, id)
		if err != nil {
			return err
		}
		if !exists {
			return ports.ErrNotFound
		}
		return &domain.InsufficientStockError{BookIDs: []int64{id}}
	}
	return nil
}

// Reserve commits every line's decrement in one transaction. The availability
// check and the write are the same conditional UPDATE, so concurrent
// reservations against the same book cannot both pass a stale check.
func (r *Repository) Reserve(ctx context.Context, orderID int64, lines []domain.ReservationLine) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	if len(lines) == 0 {
		return errors.New("no reservation lines")
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var insufficient []int64
		for _, line := range lines {
			if line.Quantity <= 0 {
				return domain.ErrInvalidLineQuantity
			}
			result := tx.Model(&bookRecord{}).
				Where("id = ? AND stock >= ?", line.BookID, line.Quantity).
				Updates(map[string]any{
					"stock":      gorm.Expr("stock - ?", line.Quantity),
					"updated_at": gorm.Expr("NOW()"),
				})
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				exists, err := r.bookExists(ctx, tx, line.BookID)
				if err != nil {
					return err
				}
				if !exists {
					return ports.ErrNotFound
				}
				insufficient = append(insufficient, line.BookID)
			}
		}
		if len(insufficient) > 0 {
			// Rolls back any decrements applied before the failing line.
			return &domain.InsufficientStockError{BookIDs: insufficient}
		}
		record := reservationRecord{OrderID: orderID, Lines: toLineRecords(lines)}
		if err := tx.Create(&record).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ports.ErrReservationExists
			}
			return err
		}
		return nil
	})
}

// Reverse re-credits a reservation once. The reversed flag is flipped by the
// same conditional UPDATE that gates the credit, so double reversal cannot
// double-credit.
func (r *Repository) Reverse(ctx context.Context, orderID int64) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&reservationRecord{}).
			Where("order_id = ? AND reversed = ?", orderID, false).
			Updates(map[string]any{
				"reversed":    true,
				"reversed_at": gorm.Expr("NOW()"),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&reservationRecord{}).Where("order_id = ?", orderID).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return ports.ErrReservationNotFound
			}
			// Already reversed.
			return nil
		}
		var record reservationRecord
		if err := tx.First(&record, "order_id = ?", orderID).Error; err != nil {
			return err
		}
		for _, line := range record.Lines {
			if err := tx.Model(&bookRecord{}).
				Where("id = ?", line.BookID).
				Updates(map[string]any{
					"stock":      gorm.Expr("stock + ?", line.Quantity),
					"updated_at": gorm.Expr("NOW()"),
				}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *Repository) bookExists(ctx context.Context, tx *gorm.DB, id int64) (bool, error) {
	var count int64
	if err := tx.WithContext(ctx).Model(&bookRecord{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres catalog repository not configured")
	}
	return nil
}

func toBookRecord(book *domain.Book) bookRecord {
	return bookRecord{
		ID:     book.ID,
		Title:  book.Title,
		Author: book.Author,
		Price:  book.Price,
		Stock:  book.Stock,
	}
}

func toLineRecords(lines []domain.ReservationLine) []reservationLineRecord {
	records := make([]reservationLineRecord, 0, len(lines))
	for _, line := range lines {
		records = append(records, reservationLineRecord{BookID: line.BookID, Quantity: line.Quantity})
	}
	return records
}

func (r bookRecord) toDomain() *domain.Book {
	return &domain.Book{
		ID:        r.ID,
		Title:     r.Title,
		Author:    r.Author,
		Price:     r.Price,
		Stock:     r.Stock,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}
