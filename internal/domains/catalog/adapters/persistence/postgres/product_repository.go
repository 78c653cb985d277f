package postgres

import (
	"context"
	"errors"
	"slices"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/clothes-shop-api/internal/domains/catalog/domain"
	"github.com/Apurer/clothes-shop-api/internal/domains/catalog/ports"
	platformpostgres "github.com/Apurer/clothes-shop-api/internal/platform/postgres"
)

var _ ports.ProductRepository = (*ProductRepository)(nil)

// ProductRepository persists products and their stock rows in PostgreSQL.
type ProductRepository struct {
	db *gorm.DB
}

// NewProductRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewProductRepository(db *gorm.DB) *ProductRepository {
	repo := &ProductRepository{db: db}
	if db != nil {
		_ = db.AutoMigrate(&productRecord{}, &stockRecord{})
	}
	return repo
}

// SaveProduct upserts the product row and replaces its stock rows in one transaction.
func (r *ProductRepository) SaveProduct(ctx context.Context, product *domain.Product) (*ports.ProductProjection, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if product == nil {
		return nil, errors.New("product is nil")
	}
	record := productRecord{
		ID:          product.ID,
		Title:       product.Title,
		Description: product.Description,
		Price:       product.Price,
		CategoryID:  product.CategoryID,
		Image:       product.Image,
	}
	stock := toStockRecords(product)
	err := platformpostgres.Conn(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"title", "description", "price", "category_id", "image", "updated_at"}),
		}).Create(&record).Error; err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", product.ID).Delete(&stockRecord{}).Error; err != nil {
			return err
		}
		if len(stock) == 0 {
			return nil
		}
		return tx.Create(&stock).Error
	})
	if err != nil {
		return nil, storeError(err)
	}
	return r.GetProduct(ctx, product.ID)
}

// UpdateProduct locks the product row, applies mutate and writes back the
// scalar columns. Stock rows are replaced only when mutate changed the stock;
// the row lock is the one StockLedger takes, so a concurrent deduction is
// never overwritten or left pointing at a deleted row.
func (r *ProductRepository) UpdateProduct(ctx context.Context, id string, mutate ports.ProductMutation) (*ports.ProductProjection, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if mutate == nil {
		return nil, errors.New("product mutation is nil")
	}
	var mutateErr error
	err := platformpostgres.Conn(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		record, err := lockProduct(tx, id)
		if err != nil {
			return err
		}
		var stock []stockRecord
		if err := tx.Where("product_id = ?", id).Order("position").Find(&stock).Error; err != nil {
			return err
		}
		current := record.toProjection(stock).Entity
		product := current.Clone()
		if mutateErr = mutate(product); mutateErr != nil {
			return mutateErr
		}
		if err := tx.Model(&productRecord{}).Where("id = ?", id).Updates(map[string]any{
			"title":       product.Title,
			"description": product.Description,
			"price":       product.Price,
			"category_id": product.CategoryID,
			"image":       product.Image,
			"updated_at":  time.Now().UTC(),
		}).Error; err != nil {
			return err
		}
		if slices.Equal(current.Stock, product.Stock) {
			return nil
		}
		product.ID = id
		if err := tx.Where("product_id = ?", id).Delete(&stockRecord{}).Error; err != nil {
			return err
		}
		if rows := toStockRecords(product); len(rows) > 0 {
			return tx.Create(&rows).Error
		}
		return nil
	})
	switch {
	case mutateErr != nil:
		return nil, mutateErr
	case errors.Is(err, ports.ErrProductNotFound):
		return nil, err
	case err != nil:
		return nil, storeError(err)
	}
	return r.GetProduct(ctx, id)
}

// lockProduct reads the product row with FOR UPDATE. Ledger movements and
// product edits take this lock before touching stock rows.
func lockProduct(tx *gorm.DB, id string) (*productRecord, error) {
	var record productRecord
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&record, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ports.ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *ProductRepository) GetProduct(ctx context.Context, id string) (*ports.ProductProjection, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	conn := platformpostgres.Conn(ctx, r.db)
	var record productRecord
	if err := conn.First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrProductNotFound
		}
		return nil, storeError(err)
	}
	var stock []stockRecord
	if err := conn.Where("product_id = ?", id).Order("position").Find(&stock).Error; err != nil {
		return nil, storeError(err)
	}
	return record.toProjection(stock), nil
}

func (r *ProductRepository) ListProducts(ctx context.Context, filter ports.ProductFilter) ([]*ports.ProductProjection, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	conn := platformpostgres.Conn(ctx, r.db)
	query := conn.Order("created_at, id")
	if filter.CategoryID != "" {
		query = query.Where("category_id = ?", filter.CategoryID)
	}
	var records []productRecord
	if err := query.Find(&records).Error; err != nil {
		return nil, storeError(err)
	}
	if len(records) == 0 {
		return []*ports.ProductProjection{}, nil
	}
	ids := make([]string, 0, len(records))
	for _, rec := range records {
		ids = append(ids, rec.ID)
	}
	var stock []stockRecord
	if err := conn.Where("product_id IN ?", ids).Order("product_id, position").Find(&stock).Error; err != nil {
		return nil, storeError(err)
	}
	byProduct := make(map[string][]stockRecord, len(records))
	for _, s := range stock {
		byProduct[s.ProductID] = append(byProduct[s.ProductID], s)
	}
	list := make([]*ports.ProductProjection, 0, len(records))
	for i := range records {
		list = append(list, records[i].toProjection(byProduct[records[i].ID]))
	}
	return list, nil
}

func (r *ProductRepository) CountProductsInCategory(ctx context.Context, categoryID string) (int64, error) {
	if err := r.ensureDB(); err != nil {
		return 0, err
	}
	var count int64
	if err := platformpostgres.Conn(ctx, r.db).Model(&productRecord{}).Where("category_id = ?", categoryID).Count(&count).Error; err != nil {
		return 0, storeError(err)
	}
	return count, nil
}

func (r *ProductRepository) DeleteProduct(ctx context.Context, id string) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	var affected int64
	err := platformpostgres.Conn(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).Delete(&stockRecord{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&productRecord{}, "id = ?", id)
		affected = result.RowsAffected
		return result.Error
	})
	if err != nil {
		return storeError(err)
	}
	if affected == 0 {
		return ports.ErrProductNotFound
	}
	return nil
}

func (r *ProductRepository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres product repository not configured")
	}
	return nil
}
