package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/clothes-shop-api/internal/domains/companies/domain"
	"github.com/Apurer/clothes-shop-api/internal/domains/companies/ports"
	platformpostgres "github.com/Apurer/clothes-shop-api/internal/platform/postgres"
	"github.com/Apurer/clothes-shop-api/internal/shared/projection"
)

var _ ports.Repository = (*Repository)(nil)

type companyRecord struct {
	ID          string    `gorm:"primaryKey;column:id;size:36"`
	CompanyName string    `gorm:"column:company_name"`
	PhoneNumber string    `gorm:"column:phone_number"`
	Address     string    `gorm:"column:address"`
	Image       string    `gorm:"column:image"`
	CreatedAt   time.Time `gorm:"column:created_at;index"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (companyRecord) TableName() string { return "companies" }

// Repository persists companies in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	repo := &Repository{db: db}
	if db != nil {
		_ = db.AutoMigrate(&companyRecord{})
	}
	return repo
}

func (r *Repository) Save(ctx context.Context, company *domain.Company) (*ports.CompanyProjection, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if company == nil {
		return nil, errors.New("company is nil")
	}
	record := companyRecord{
		ID:          company.ID,
		CompanyName: company.CompanyName,
		PhoneNumber: company.PhoneNumber,
		Address:     company.Address,
		Image:       company.Image,
	}
	if err := platformpostgres.Conn(ctx, r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"company_name", "phone_number", "address", "image", "updated_at"}),
		}).Create(&record).Error; err != nil {
		return nil, storeError(err)
	}
	return r.GetByID(ctx, record.ID)
}

func (r *Repository) GetByID(ctx context.Context, id string) (*ports.CompanyProjection, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record companyRecord
	if err := platformpostgres.Conn(ctx, r.db).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, storeError(err)
	}
	return record.toProjection(), nil
}

func (r *Repository) List(ctx context.Context) ([]*ports.CompanyProjection, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []companyRecord
	if err := platformpostgres.Conn(ctx, r.db).Order("created_at, id").Find(&records).Error; err != nil {
		return nil, storeError(err)
	}
	list := make([]*ports.CompanyProjection, 0, len(records))
	for i := range records {
		list = append(list, records[i].toProjection())
	}
	return list, nil
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := platformpostgres.Conn(ctx, r.db).Delete(&companyRecord{}, "id = ?", id)
	if result.Error != nil {
		return storeError(result.Error)
	}
	if result.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres company repository not configured")
	}
	return nil
}

func (r companyRecord) toProjection() *ports.CompanyProjection {
	company := domain.Company{
		ID:          r.ID,
		CompanyName: r.CompanyName,
		PhoneNumber: r.PhoneNumber,
		Address:     r.Address,
		Image:       r.Image,
	}
	return projection.New(company, r.CreatedAt, r.UpdatedAt)
}

func storeError(err error) error {
	if err == nil || errors.Is(err, ports.ErrPersistence) {
		return err
	}
	return fmt.Errorf("%w: %w", ports.ErrPersistence, err)
}
