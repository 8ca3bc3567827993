package persistence

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/shipsync/backend/internal/domain/shipping"
	"github.com/shipsync/backend/internal/infrastructure/persistence/models"
)

// CarrierSortFields contains allowed sort fields for carriers
var CarrierSortFields = map[string]bool{
	"id":             true,
	"code":           true,
	"name":           true,
	"account_number": true,
	"balance":        true,
	"is_primary":     true,
	"is_req_funded":  true,
}

var carrierUpsertSpec = UpsertSpec{
	Table:      "shipstation_carriers",
	KeyColumns: []string{"code"},
	Columns: map[string]shipping.ColumnFormat{
		"code":           shipping.FormatText,
		"name":           shipping.FormatText,
		"account_number": shipping.FormatText,
		"balance":        shipping.FormatFloat,
		"is_primary":     shipping.FormatInt,
		"is_req_funded":  shipping.FormatInt,
	},
}

var serviceUpsertSpec = UpsertSpec{
	Table:      "shipstation_services",
	KeyColumns: []string{"carrier_code", "code"},
	Columns: map[string]shipping.ColumnFormat{
		"carrier_code":     shipping.FormatText,
		"code":             shipping.FormatText,
		"name":             shipping.FormatText,
		"is_domestic":      shipping.FormatInt,
		"is_international": shipping.FormatInt,
	},
}

var packageUpsertSpec = UpsertSpec{
	Table:      "shipstation_packages",
	KeyColumns: []string{"carrier_code", "code"},
	Columns: map[string]shipping.ColumnFormat{
		"carrier_code":     shipping.FormatText,
		"code":             shipping.FormatText,
		"name":             shipping.FormatText,
		"is_domestic":      shipping.FormatInt,
		"is_international": shipping.FormatInt,
	},
}

// GormCarrierRepository implements shipping.CarrierRepository using GORM
type GormCarrierRepository struct {
	db       *gorm.DB
	upserter *BulkUpserter
}

// NewGormCarrierRepository creates a new GormCarrierRepository
func NewGormCarrierRepository(db *gorm.DB, upserter *BulkUpserter) *GormCarrierRepository {
	return &GormCarrierRepository{db: db, upserter: upserter}
}

// List returns the carriers matching the filter.
func (r *GormCarrierRepository) List(ctx context.Context, filter shipping.CarrierFilter, opts shipping.ListOptions) ([]shipping.Carrier, error) {
	var rows []models.ShipstationCarrierModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.ShipstationCarrierModel{}), filter)
	query = applyListOptions(query, opts, CarrierSortFields, "code")
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	carriers := make([]shipping.Carrier, 0, len(rows))
	for i := range rows {
		carriers = append(carriers, *rows[i].ToDomain())
	}
	return carriers, nil
}

// GetByCode returns the carrier with the given code.
func (r *GormCarrierRepository) GetByCode(ctx context.Context, code string) (*shipping.Carrier, error) {
	var model models.ShipstationCarrierModel
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shipping.ErrCarrierNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// BulkUpsert writes normalized carrier rows keyed by carrier code.
func (r *GormCarrierRepository) BulkUpsert(ctx context.Context, rows []shipping.Row) shipping.UpsertResult {
	return r.upserter.Upsert(ctx, carrierUpsertSpec, rows)
}

func (r *GormCarrierRepository) applyFilter(query *gorm.DB, filter shipping.CarrierFilter) *gorm.DB {
	if filter.Code != "" {
		query = query.Where("code = ?", filter.Code)
	}
	if filter.Name != "" {
		query = query.Where("name = ?", filter.Name)
	}
	if filter.AccountNumber != "" {
		query = query.Where("account_number = ?", filter.AccountNumber)
	}
	if filter.IsPrimary != nil {
		query = query.Where("is_primary = ?", boolToFlag(*filter.IsPrimary))
	}
	if filter.IsReqFunded != nil {
		query = query.Where("is_req_funded = ?", boolToFlag(*filter.IsReqFunded))
	}
	if filter.MinBalance != nil {
		query = query.Where("balance >= ?", *filter.MinBalance)
	}
	if filter.MaxBalance != nil {
		query = query.Where("balance <= ?", *filter.MaxBalance)
	}
	if filter.Search != "" {
		search := "%" + filter.Search + "%"
		query = query.Where("code LIKE ? OR name LIKE ?", search, search)
	}
	return query
}

// GormCarrierServiceRepository implements shipping.CarrierServiceRepository using GORM
type GormCarrierServiceRepository struct {
	db       *gorm.DB
	upserter *BulkUpserter
}

// NewGormCarrierServiceRepository creates a new GormCarrierServiceRepository
func NewGormCarrierServiceRepository(db *gorm.DB, upserter *BulkUpserter) *GormCarrierServiceRepository {
	return &GormCarrierServiceRepository{db: db, upserter: upserter}
}

// ListByCarrier returns the services one carrier offers, ordered by code.
func (r *GormCarrierServiceRepository) ListByCarrier(ctx context.Context, carrierCode string) ([]shipping.CarrierService, error) {
	var rows []models.ShipstationServiceModel
	if err := r.db.WithContext(ctx).
		Where("carrier_code = ?", carrierCode).
		Order("code ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	services := make([]shipping.CarrierService, 0, len(rows))
	for i := range rows {
		services = append(services, *rows[i].ToDomain())
	}
	return services, nil
}

// BulkUpsert writes normalized service rows keyed by (carrier_code, code).
func (r *GormCarrierServiceRepository) BulkUpsert(ctx context.Context, rows []shipping.Row) shipping.UpsertResult {
	return r.upserter.Upsert(ctx, serviceUpsertSpec, rows)
}

// GormCarrierPackageRepository implements shipping.CarrierPackageRepository using GORM
type GormCarrierPackageRepository struct {
	db       *gorm.DB
	upserter *BulkUpserter
}

// NewGormCarrierPackageRepository creates a new GormCarrierPackageRepository
func NewGormCarrierPackageRepository(db *gorm.DB, upserter *BulkUpserter) *GormCarrierPackageRepository {
	return &GormCarrierPackageRepository{db: db, upserter: upserter}
}

// ListByCarrier returns the package types one carrier offers, ordered by code.
func (r *GormCarrierPackageRepository) ListByCarrier(ctx context.Context, carrierCode string) ([]shipping.CarrierPackage, error) {
	var rows []models.ShipstationPackageModel
	if err := r.db.WithContext(ctx).
		Where("carrier_code = ?", carrierCode).
		Order("code ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	packages := make([]shipping.CarrierPackage, 0, len(rows))
	for i := range rows {
		packages = append(packages, *rows[i].ToDomain())
	}
	return packages, nil
}

// BulkUpsert writes normalized package rows keyed by (carrier_code, code).
func (r *GormCarrierPackageRepository) BulkUpsert(ctx context.Context, rows []shipping.Row) shipping.UpsertResult {
	return r.upserter.Upsert(ctx, packageUpsertSpec, rows)
}
