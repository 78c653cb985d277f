package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/Apurer/clothes-shop-api/internal/domains/catalog/domain"
	"github.com/Apurer/clothes-shop-api/internal/domains/catalog/ports"
	platformpostgres "github.com/Apurer/clothes-shop-api/internal/platform/postgres"
)

var _ ports.StockLedger = (*StockLedger)(nil)

// StockLedger moves stock with conditional UPDATE statements so concurrent
// invoices can never drive a quantity below zero. Each movement holds the
// product row lock, which serializes it with ProductRepository.UpdateProduct.
type StockLedger struct {
	db *gorm.DB
}

func NewStockLedger(db *gorm.DB) *StockLedger {
	return &StockLedger{db: db}
}

func (l *StockLedger) Deduct(ctx context.Context, movement domain.StockMovement) (*domain.StockReceipt, error) {
	if err := l.ensureDB(); err != nil {
		return nil, err
	}
	if err := movement.Validate(); err != nil {
		return nil, err
	}
	var receipt *domain.StockReceipt
	err := l.withProductLock(ctx, movement, func(tx *gorm.DB, product *productRecord, entry *stockRecord) error {
		result := tx.Model(&stockRecord{}).
			Where("id = ? AND quantity >= ?", entry.ID, movement.Quantity).
			Update("quantity", gorm.Expr("quantity - ?", movement.Quantity))
		if result.Error != nil {
			return storeError(result.Error)
		}
		var current stockRecord
		if err := tx.Select("quantity").First(&current, "id = ?", entry.ID).Error; err != nil {
			return storeError(err)
		}
		if result.RowsAffected == 0 {
			return &domain.InsufficientStockError{
				ProductID: product.ID,
				Title:     product.Title,
				Size:      movement.Size,
				Color:     movement.Color,
				Requested: movement.Quantity,
				Available: current.Quantity,
			}
		}
		receipt = &domain.StockReceipt{
			ProductID: product.ID,
			Title:     product.Title,
			Size:      movement.Size,
			Color:     movement.Color,
			Quantity:  movement.Quantity,
			Remaining: current.Quantity,
		}
		return l.touch(tx, product.ID)
	})
	if err != nil {
		return nil, err
	}
	return receipt, nil
}

func (l *StockLedger) Restore(ctx context.Context, movement domain.StockMovement) error {
	if err := l.ensureDB(); err != nil {
		return err
	}
	if err := movement.Validate(); err != nil {
		return err
	}
	return l.withProductLock(ctx, movement, func(tx *gorm.DB, product *productRecord, entry *stockRecord) error {
		if err := tx.Model(&stockRecord{}).
			Where("id = ?", entry.ID).
			Update("quantity", gorm.Expr("quantity + ?", movement.Quantity)).Error; err != nil {
			return storeError(err)
		}
		return l.touch(tx, product.ID)
	})
}

// withProductLock runs fn in a transaction (a savepoint when the caller
// already holds one) after locking the product row and resolving its first
// matching stock row by position. Business errors from fn pass through.
func (l *StockLedger) withProductLock(ctx context.Context, movement domain.StockMovement, fn func(tx *gorm.DB, product *productRecord, entry *stockRecord) error) error {
	var fnErr error
	err := platformpostgres.Conn(ctx, l.db).Transaction(func(tx *gorm.DB) error {
		product, err := lockProduct(tx, movement.ProductID)
		if err != nil {
			if errors.Is(err, ports.ErrProductNotFound) {
				fnErr = err
			}
			return err
		}
		var entry stockRecord
		err = tx.Where("product_id = ? AND size = ? AND color = ?", movement.ProductID, movement.Size, movement.Color).
			Order("position, id").
			First(&entry).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			fnErr = domain.ErrStockEntryNotFound
			return fnErr
		}
		if err != nil {
			return err
		}
		fnErr = fn(tx, product, &entry)
		return fnErr
	})
	if fnErr != nil {
		return fnErr
	}
	return storeError(err)
}

func (l *StockLedger) touch(conn *gorm.DB, productID string) error {
	if err := conn.Model(&productRecord{}).Where("id = ?", productID).Update("updated_at", time.Now().UTC()).Error; err != nil {
		return storeError(err)
	}
	return nil
}

func (l *StockLedger) ensureDB() error {
	if l == nil || l.db == nil {
		return errors.New("postgres stock ledger not configured")
	}
	return nil
}
