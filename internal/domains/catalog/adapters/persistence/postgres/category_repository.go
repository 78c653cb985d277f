package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/clothes-shop-api/internal/domains/catalog/domain"
	"github.com/Apurer/clothes-shop-api/internal/domains/catalog/ports"
	platformpostgres "github.com/Apurer/clothes-shop-api/internal/platform/postgres"
)

var _ ports.CategoryRepository = (*CategoryRepository)(nil)

// CategoryRepository persists categories in PostgreSQL using GORM.
type CategoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	repo := &CategoryRepository{db: db}
	if db != nil {
		_ = db.AutoMigrate(&categoryRecord{})
	}
	return repo
}

func (r *CategoryRepository) SaveCategory(ctx context.Context, category *domain.Category) (*ports.CategoryProjection, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if category == nil {
		return nil, errors.New("category is nil")
	}
	record := categoryRecord{ID: category.ID, Name: category.Name}
	if err := platformpostgres.Conn(ctx, r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "updated_at"}),
		}).Create(&record).Error; err != nil {
		return nil, storeError(err)
	}
	return r.GetCategory(ctx, record.ID)
}

func (r *CategoryRepository) GetCategory(ctx context.Context, id string) (*ports.CategoryProjection, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record categoryRecord
	if err := platformpostgres.Conn(ctx, r.db).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrCategoryNotFound
		}
		return nil, storeError(err)
	}
	return record.toProjection(), nil
}

func (r *CategoryRepository) ListCategories(ctx context.Context) ([]*ports.CategoryProjection, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []categoryRecord
	if err := platformpostgres.Conn(ctx, r.db).Order("created_at, id").Find(&records).Error; err != nil {
		return nil, storeError(err)
	}
	list := make([]*ports.CategoryProjection, 0, len(records))
	for i := range records {
		list = append(list, records[i].toProjection())
	}
	return list, nil
}

func (r *CategoryRepository) CountCategories(ctx context.Context) (int64, error) {
	if err := r.ensureDB(); err != nil {
		return 0, err
	}
	var count int64
	if err := platformpostgres.Conn(ctx, r.db).Model(&categoryRecord{}).Count(&count).Error; err != nil {
		return 0, storeError(err)
	}
	return count, nil
}

func (r *CategoryRepository) DeleteCategory(ctx context.Context, id string) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := platformpostgres.Conn(ctx, r.db).Delete(&categoryRecord{}, "id = ?", id)
	if result.Error != nil {
		return storeError(result.Error)
	}
	if result.RowsAffected == 0 {
		return ports.ErrCategoryNotFound
	}
	return nil
}

func (r *CategoryRepository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres category repository not configured")
	}
	return nil
}
