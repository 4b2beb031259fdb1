package inventoryrepo_test

import (
	"context"
	"testing"
	"time"

	"fulfillment/internal/adapters/out/postgres/inventoryrepo"
	"fulfillment/internal/core/domain/model/inventory"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/ports"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// InventoryRepositoryIntegrationTestSuite provides integration tests for the
// reservation ledger, the product counters, and the restore-once receipts
// using PostgreSQL containers to verify the conditional-update guards.
type InventoryRepositoryIntegrationTestSuite struct {
	suite.Suite
	container    *postgres.PostgresContainer
	db           *gorm.DB
	reservations *inventoryrepo.GormReservationRepository
	products     *inventoryrepo.GormProductRepository
	adjustments  *inventoryrepo.GormAdjustmentRepository
}

func (suite *InventoryRepositoryIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(postgresdriver.Open(connStr), &gorm.Config{TranslateError: true})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(db.AutoMigrate(
		&inventoryrepo.ProductDTO{},
		&inventoryrepo.ReservationDTO{},
		&inventoryrepo.AdjustmentDTO{},
	))
}

func (suite *InventoryRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE products, reservations, stock_adjustments").Error)

	suite.reservations = inventoryrepo.NewGormReservationRepository(suite.db)
	suite.products = inventoryrepo.NewGormProductRepository(suite.db)
	suite.adjustments = inventoryrepo.NewGormAdjustmentRepository(suite.db)
}

func (suite *InventoryRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *InventoryRepositoryIntegrationTestSuite) TestTryReserve_SufficientStock_BumpsReservedStock() {
	ctx := context.Background()
	productID := suite.addProduct(10, 0)

	reserved, err := suite.products.TryReserve(ctx, productID, 4)
	suite.Require().NoError(err)
	suite.True(reserved)

	product, err := suite.products.Get(ctx, productID)
	suite.Require().NoError(err)
	suite.Equal(10, product.Stock())
	suite.Equal(4, product.ReservedStock())
	suite.Equal(6, product.Available())
}

func (suite *InventoryRepositoryIntegrationTestSuite) TestTryReserve_InsufficientAvailable_LeavesCountersUntouched() {
	ctx := context.Background()
	productID := suite.addProduct(10, 8)

	reserved, err := suite.products.TryReserve(ctx, productID, 3)
	suite.Require().NoError(err)
	suite.False(reserved)

	product, err := suite.products.Get(ctx, productID)
	suite.Require().NoError(err)
	suite.Equal(8, product.ReservedStock())
}

func (suite *InventoryRepositoryIntegrationTestSuite) TestTryReserve_RacersForLastUnits_ExactlyOneWins() {
	ctx := context.Background()
	productID := suite.addProduct(5, 0)

	first, err := suite.products.TryReserve(ctx, productID, 3)
	suite.Require().NoError(err)
	second, err := suite.products.TryReserve(ctx, productID, 3)
	suite.Require().NoError(err)

	suite.True(first)
	suite.False(second)

	product, err := suite.products.Get(ctx, productID)
	suite.Require().NoError(err)
	suite.Equal(3, product.ReservedStock())
}

func (suite *InventoryRepositoryIntegrationTestSuite) TestCommitReserved_ConsumesStockAndHold() {
	ctx := context.Background()
	productID := suite.addProduct(10, 4)

	err := suite.products.CommitReserved(ctx, productID, 4)
	suite.Require().NoError(err)

	product, err := suite.products.Get(ctx, productID)
	suite.Require().NoError(err)
	suite.Equal(6, product.Stock())
	suite.Equal(0, product.ReservedStock())
}

func (suite *InventoryRepositoryIntegrationTestSuite) TestReleaseReserved_ReturnsHoldWithoutConsumingStock() {
	ctx := context.Background()
	productID := suite.addProduct(10, 4)

	err := suite.products.ReleaseReserved(ctx, productID, 4)
	suite.Require().NoError(err)

	product, err := suite.products.Get(ctx, productID)
	suite.Require().NoError(err)
	suite.Equal(10, product.Stock())
	suite.Equal(0, product.ReservedStock())
}

func (suite *InventoryRepositoryIntegrationTestSuite) TestRestoreStock_AddsCommittedUnitsBack() {
	ctx := context.Background()
	productID := suite.addProduct(6, 0)

	err := suite.products.RestoreStock(ctx, productID, 4)
	suite.Require().NoError(err)

	product, err := suite.products.Get(ctx, productID)
	suite.Require().NoError(err)
	suite.Equal(10, product.Stock())
}

func (suite *InventoryRepositoryIntegrationTestSuite) TestReservationAdd_DuplicatePair_ReportsNotCreated() {
	ctx := context.Background()
	orderID := kernel.NewUUID()
	productID := kernel.NewUUID()
	now := time.Now().UTC()

	reservation, err := inventory.NewReservation(orderID, productID, 2, inventory.DefaultReservationTTL, now)
	suite.Require().NoError(err)

	created, err := suite.reservations.Add(ctx, reservation)
	suite.Require().NoError(err)
	suite.True(created)

	// A retried placement inserts the same (order, product) pair.
	created, err = suite.reservations.Add(ctx, reservation)
	suite.Require().NoError(err)
	suite.False(created)

	rows, err := suite.reservations.GetByOrder(ctx, orderID)
	suite.Require().NoError(err)
	suite.Len(rows, 1)
}

func (suite *InventoryRepositoryIntegrationTestSuite) TestFlipStatus_ExpectedStatusMatches_StampsTargetColumn() {
	ctx := context.Background()
	orderID := kernel.NewUUID()
	productID := kernel.NewUUID()
	now := time.Now().UTC()

	suite.addReservation(orderID, productID, 2, now)

	flipped, err := suite.reservations.FlipStatus(
		ctx, orderID, productID,
		inventory.ReservationActive, inventory.ReservationCommitted, now,
	)
	suite.Require().NoError(err)
	suite.True(flipped)

	rows, err := suite.reservations.GetByOrder(ctx, orderID)
	suite.Require().NoError(err)
	suite.Require().Len(rows, 1)
	suite.Equal(inventory.ReservationCommitted, rows[0].Status())
	suite.Require().NotNil(rows[0].CommittedAt())
}

func (suite *InventoryRepositoryIntegrationTestSuite) TestFlipStatus_WrongPriorStatus_ReportsNotFlipped() {
	ctx := context.Background()
	orderID := kernel.NewUUID()
	productID := kernel.NewUUID()
	now := time.Now().UTC()

	suite.addReservation(orderID, productID, 2, now)

	flipped, err := suite.reservations.FlipStatus(
		ctx, orderID, productID,
		inventory.ReservationActive, inventory.ReservationCommitted, now,
	)
	suite.Require().NoError(err)
	suite.True(flipped)

	// The row is COMMITTED now; an expiry sweep expecting ACTIVE must skip it.
	flipped, err = suite.reservations.FlipStatus(
		ctx, orderID, productID,
		inventory.ReservationActive, inventory.ReservationExpired, now,
	)
	suite.Require().NoError(err)
	suite.False(flipped)

	rows, err := suite.reservations.GetByOrder(ctx, orderID)
	suite.Require().NoError(err)
	suite.Require().Len(rows, 1)
	suite.Equal(inventory.ReservationCommitted, rows[0].Status())
}

func (suite *InventoryRepositoryIntegrationTestSuite) TestFindExpired_ReturnsOnlyOverdueActiveRows() {
	ctx := context.Background()
	now := time.Now().UTC()

	overdueOrder := kernel.NewUUID()
	freshOrder := kernel.NewUUID()

	suite.addReservationExpiringAt(overdueOrder, kernel.NewUUID(), 1, now.Add(-time.Minute))
	suite.addReservationExpiringAt(freshOrder, kernel.NewUUID(), 1, now.Add(time.Hour))

	expired, err := suite.reservations.FindExpired(ctx, now, 10)
	suite.Require().NoError(err)
	suite.Require().Len(expired, 1)
	suite.Equal(overdueOrder, expired[0].OrderID())
}

func (suite *InventoryRepositoryIntegrationTestSuite) TestFindExpired_RespectsLimitOldestFirst() {
	ctx := context.Background()
	now := time.Now().UTC()

	oldest := kernel.NewUUID()
	suite.addReservationExpiringAt(oldest, kernel.NewUUID(), 1, now.Add(-time.Hour))
	suite.addReservationExpiringAt(kernel.NewUUID(), kernel.NewUUID(), 1, now.Add(-time.Minute))

	expired, err := suite.reservations.FindExpired(ctx, now, 1)
	suite.Require().NoError(err)
	suite.Require().Len(expired, 1)
	suite.Equal(oldest, expired[0].OrderID())
}

func (suite *InventoryRepositoryIntegrationTestSuite) TestAdjustmentAdd_DuplicateReceipt_ReturnsErrAlreadyRestored() {
	ctx := context.Background()
	orderID := kernel.NewUUID()
	now := time.Now().UTC()

	adjustment, err := inventory.NewAdjustment(orderID, inventory.AdjustmentReasonCancelled, 3, now)
	suite.Require().NoError(err)

	suite.Require().NoError(suite.adjustments.Add(ctx, adjustment))

	err = suite.adjustments.Add(ctx, adjustment)
	suite.Require().ErrorIs(err, ports.ErrAlreadyRestored)
}

func (suite *InventoryRepositoryIntegrationTestSuite) TestAdjustmentAdd_DifferentReasons_BothRecorded() {
	ctx := context.Background()
	orderID := kernel.NewUUID()
	now := time.Now().UTC()

	cancelled, err := inventory.NewAdjustment(orderID, inventory.AdjustmentReasonCancelled, 3, now)
	suite.Require().NoError(err)
	returned, err := inventory.NewAdjustment(orderID, inventory.AdjustmentReasonReturned, 3, now)
	suite.Require().NoError(err)

	suite.Require().NoError(suite.adjustments.Add(ctx, cancelled))
	suite.Require().NoError(suite.adjustments.Add(ctx, returned))

	receipt, err := suite.adjustments.Get(ctx, orderID, inventory.AdjustmentReasonReturned)
	suite.Require().NoError(err)
	suite.Equal(3, receipt.RestoredUnits())
}

// addProduct persists a product with the given counters and returns its ID.
func (suite *InventoryRepositoryIntegrationTestSuite) addProduct(stock, reservedStock int) kernel.UUID {
	productID := kernel.NewUUID()
	product, err := inventory.NewProduct(productID, "Test product", 1500, stock, reservedStock)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.products.Add(context.Background(), product))
	return productID
}

func (suite *InventoryRepositoryIntegrationTestSuite) addReservation(
	orderID, productID kernel.UUID, quantity int, now time.Time,
) {
	reservation, err := inventory.NewReservation(orderID, productID, quantity, inventory.DefaultReservationTTL, now)
	suite.Require().NoError(err)

	created, err := suite.reservations.Add(context.Background(), reservation)
	suite.Require().NoError(err)
	suite.Require().True(created)
}

// addReservationExpiringAt persists an ACTIVE row with an explicit expiry,
// letting tests place it on either side of the sweep cutoff.
func (suite *InventoryRepositoryIntegrationTestSuite) addReservationExpiringAt(
	orderID, productID kernel.UUID, quantity int, expiresAt time.Time,
) {
	reservation, err := inventory.RestoreReservation(
		orderID, productID, quantity,
		inventory.ReservationActive, expiresAt, nil, nil,
	)
	suite.Require().NoError(err)

	created, err := suite.reservations.Add(context.Background(), reservation)
	suite.Require().NoError(err)
	suite.Require().True(created)
}

func TestInventoryRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(InventoryRepositoryIntegrationTestSuite))
}
