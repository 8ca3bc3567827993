package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/shipsync/backend/internal/domain/shipping"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return gormDB, mock, mockDB
}

func TestGormCarrierRepository_GetByCode(t *testing.T) {
	t.Run("finds existing carrier", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormCarrierRepository(db, NewBulkUpserter(db, nil))

		rows := sqlmock.NewRows([]string{"id", "code", "name", "account_number", "balance", "is_primary", "is_req_funded"}).
			AddRow(int64(1), "stamps_com", "Stamps.com", "SS123", decimal.NewFromFloat(25.4), int16(1), int16(0))

		mock.ExpectQuery(`SELECT \* FROM "shipstation_carriers" WHERE code = \$1 .*LIMIT .*`).
			WithArgs("stamps_com", 1).
			WillReturnRows(rows)

		carrier, err := repo.GetByCode(context.Background(), "stamps_com")
		require.NoError(t, err)
		assert.Equal(t, "Stamps.com", carrier.Name)
		assert.True(t, carrier.IsPrimary)
		assert.False(t, carrier.IsReqFunded)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns domain error when absent", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormCarrierRepository(db, NewBulkUpserter(db, nil))

		mock.ExpectQuery(`SELECT \* FROM "shipstation_carriers"`).
			WillReturnError(gorm.ErrRecordNotFound)

		_, err := repo.GetByCode(context.Background(), "nope")
		assert.ErrorIs(t, err, shipping.ErrCarrierNotFound)
	})
}

func TestGormOrderRepository_GetByShipOrderID(t *testing.T) {
	db, mock, mockDB := newMockDB(t)
	defer mockDB.Close()
	repo := NewGormOrderRepository(db, NewBulkUpserter(db, nil))

	created := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	orderRows := sqlmock.NewRows([]string{"id", "ship_order_id", "order_number", "entry_id", "status", "total", "shipping_total"}).
		AddRow(int64(1), int64(42), "A-42", int64(7), "shipped", decimal.NewFromFloat(55.5), decimal.NewFromFloat(7.25))

	mock.ExpectQuery(`SELECT \* FROM "shipstation_orders" WHERE ship_order_id = \$1 .*LIMIT .*`).
		WithArgs(int64(42), 1).
		WillReturnRows(orderRows)

	shipmentRows := sqlmock.NewRows([]string{"id", "shipment_id", "ship_order_id", "order_number", "tracking_number", "is_voided", "created_at"}).
		AddRow(int64(5), int64(9), int64(42), "A-42", "1Z999", int16(0), created)

	mock.ExpectQuery(`SELECT \* FROM "shipstation_shipments" WHERE ship_order_id IN \(\$1\)`).
		WithArgs(int64(42)).
		WillReturnRows(shipmentRows)

	order, err := repo.GetByShipOrderID(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, "A-42", order.OrderNumber)
	assert.Equal(t, int64(7), order.EntryID)
	require.Len(t, order.Shipments, 1)
	assert.Equal(t, "1Z999", order.Shipments[0].TrackingNumber)
	assert.False(t, order.Shipments[0].IsVoided)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormShipmentRepository_ListFiltersVoided(t *testing.T) {
	db, mock, mockDB := newMockDB(t)
	defer mockDB.Close()
	repo := NewGormShipmentRepository(db, NewBulkUpserter(db, nil))

	rows := sqlmock.NewRows([]string{"id", "shipment_id", "ship_order_id", "order_number", "is_voided"}).
		AddRow(int64(1), int64(9), int64(42), "A-42", int16(1))

	mock.ExpectQuery(`SELECT \* FROM "shipstation_shipments" WHERE is_voided = \$1 ORDER BY created_at DESC`).
		WithArgs(int16(1)).
		WillReturnRows(rows)

	voided := true
	shipments, err := repo.List(context.Background(), shipping.ShipmentFilter{IsVoided: &voided}, shipping.ListOptions{})
	require.NoError(t, err)
	require.Len(t, shipments, 1)
	assert.True(t, shipments[0].IsVoided)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyListOptionsRejectsUnknownSortField(t *testing.T) {
	db, mock, mockDB := newMockDB(t)
	defer mockDB.Close()
	repo := NewGormCarrierRepository(db, NewBulkUpserter(db, nil))

	mock.ExpectQuery(`SELECT \* FROM "shipstation_carriers" ORDER BY code DESC LIMIT \$1`).
		WithArgs(10).
		WillReturnRows(sqlmock.NewRows([]string{"id", "code"}))

	_, err := repo.List(context.Background(), shipping.CarrierFilter{}, shipping.ListOptions{
		OrderBy: "balance; DROP TABLE users",
		Limit:   10,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
