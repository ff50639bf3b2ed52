package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/bookhaven/bookstore-api/internal/domains/promotions/domain"
	"github.com/bookhaven/bookstore-api/internal/domains/promotions/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists promotions in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	repo := &Repository{db: db}
	if db != nil {
		_ = db.AutoMigrate(&promotionRecord{})
	}
	return repo
}

type promotionRecord struct {
	ID            int64         `gorm:"primaryKey;column:id"`
	Name          string        `gorm:"column:name"`
	DiscountType  string        `gorm:"column:discount_type;type:varchar(16)"`
	DiscountValue int64         `gorm:"column:discount_value"`
	StartDate     time.Time     `gorm:"column:start_date;type:date;index:idx_promotions_period"`
	EndDate       time.Time     `gorm:"column:end_date;type:date;index:idx_promotions_period"`
	BookIDs       pq.Int64Array `gorm:"column:book_ids;type:bigint[]"`
	CreatedAt     time.Time     `gorm:"column:created_at"`
	UpdatedAt     time.Time     `gorm:"column:updated_at"`
}

func (promotionRecord) TableName() string { return "promotions" }

// Save inserts or updates a promotion. The overlap/book conflict invariant is
// re-checked inside a serializable transaction so two concurrent creates for
// an overlapping period and overlapping book set cannot both commit.
func (r *Repository) Save(ctx context.Context, promotion *domain.Promotion) (*domain.Promotion, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if promotion == nil {
		return nil, errors.New("promotion is nil")
	}
	record := toRecord(promotion)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkConflicts(tx, record); err != nil {
			return err
		}
		return tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"name":           record.Name,
				"discount_type":  record.DiscountType,
				"discount_value": record.DiscountValue,
				"start_date":     record.StartDate,
				"end_date":       record.EndDate,
				"book_ids":       record.BookIDs,
				"updated_at":     gorm.Expr("NOW()"),
			}),
		}).Create(&record).Error
	}, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, record.ID)
}

// GetByID fetches a promotion by identifier.
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Promotion, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record promotionRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

// List returns all promotions ordered by start date.
func (r *Repository) List(ctx context.Context) ([]*domain.Promotion, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []promotionRecord
	if err := r.db.WithContext(ctx).Order("start_date, id").Find(&records).Error; err != nil {
		return nil, err
	}
	promotions := make([]*domain.Promotion, 0, len(records))
	for i := range records {
		promotions = append(promotions, records[i].toDomain())
	}
	return promotions, nil
}

// Delete removes a promotion by identifier.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Delete(&promotionRecord{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

// FindOverlapping returns promotions whose inclusive date range intersects period.
func (r *Repository) FindOverlapping(ctx context.Context, period domain.Range, excludeID int64) ([]*domain.Promotion, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if err := period.Validate(); err != nil {
		return nil, err
	}
	records, err := findOverlapping(r.db.WithContext(ctx), period.Start.Time(), period.End.Time(), excludeID)
	if err != nil {
		return nil, err
	}
	promotions := make([]*domain.Promotion, 0, len(records))
	for i := range records {
		promotions = append(promotions, records[i].toDomain())
	}
	return promotions, nil
}

func findOverlapping(tx *gorm.DB, start, end time.Time, excludeID int64) ([]promotionRecord, error) {
	query := tx.Where("start_date <= ? AND end_date >= ?", end, start)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	var records []promotionRecord
	if err := query.Order("id").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func checkConflicts(tx *gorm.DB, candidate promotionRecord) error {
	overlapping, err := findOverlapping(tx, candidate.StartDate, candidate.EndDate, candidate.ID)
	if err != nil {
		return err
	}
	held := map[int64]struct{}{}
	for _, record := range overlapping {
		for _, bookID := range record.BookIDs {
			held[bookID] = struct{}{}
		}
	}
	var conflicting []int64
	for _, bookID := range candidate.BookIDs {
		if _, ok := held[bookID]; ok {
			conflicting = append(conflicting, bookID)
		}
	}
	if len(conflicting) > 0 {
		return &domain.BookConflictError{BookIDs: conflicting}
	}
	return nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres promotion repository not configured")
	}
	return nil
}

func toRecord(promotion *domain.Promotion) promotionRecord {
	return promotionRecord{
		ID:            promotion.ID,
		Name:          promotion.Name,
		DiscountType:  string(promotion.Type),
		DiscountValue: promotion.Value,
		StartDate:     promotion.Period.Start.Time(),
		EndDate:       promotion.Period.End.Time(),
		BookIDs:       append(pq.Int64Array(nil), promotion.BookIDs...),
	}
}

func (r promotionRecord) toDomain() *domain.Promotion {
	return &domain.Promotion{
		ID:    r.ID,
		Name:  r.Name,
		Type:  domain.DiscountType(r.DiscountType),
		Value: r.DiscountValue,
		Period: domain.Range{
			Start: domain.DateOf(r.StartDate),
			End:   domain.DateOf(r.EndDate),
		},
		BookIDs:   append([]int64(nil), r.BookIDs...),
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}
