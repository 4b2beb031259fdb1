package inventoryrepo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"fulfillment/internal/core/domain/model/inventory"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

// GormReservationRepository implements ReservationRepository using GORM.
type GormReservationRepository struct {
	db *gorm.DB
}

// NewGormReservationRepository creates a new GORM reservation repository.
func NewGormReservationRepository(db *gorm.DB) *GormReservationRepository {
	return &GormReservationRepository{db: db}
}

// Add creates a reservation row. A duplicate-key collision on the
// (order, product) pair means a previous attempt already holds this line;
// it is reported as created=false with no error.
func (r *GormReservationRepository) Add(ctx context.Context, reservation *inventory.Reservation) (bool, error) {
	dto := reservationFromDomain(reservation)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return false, nil
		}
		return false, err
	}

	return true, nil
}

// GetByOrder retrieves all reservation rows belonging to an order.
func (r *GormReservationRepository) GetByOrder(ctx context.Context, orderID kernel.UUID) ([]*inventory.Reservation, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	var dtos []ReservationDTO
	if err := r.db.WithContext(ctx).Find(&dtos, "order_id = ?", orderID.Bytes()).Error; err != nil {
		return nil, err
	}

	reservations := make([]*inventory.Reservation, 0, len(dtos))
	for _, dto := range dtos {
		reservation, err := reservationToDomain(dto)
		if err != nil {
			return nil, err
		}
		reservations = append(reservations, reservation)
	}

	return reservations, nil
}

// FlipStatus atomically moves one reservation row from one status to another,
// stamping the transition time in the column belonging to the target status.
// Returns flipped=false when the row was not in the expected prior status.
func (r *GormReservationRepository) FlipStatus(
	ctx context.Context, orderID, productID kernel.UUID,
	from, to inventory.ReservationStatus, at time.Time,
) (bool, error) {
	values := map[string]any{"status": string(to)}
	switch to {
	case inventory.ReservationCommitted:
		values["committed_at"] = at
	case inventory.ReservationReleased, inventory.ReservationExpired:
		values["released_at"] = at
	}

	result := r.db.WithContext(ctx).Model(&ReservationDTO{}).
		Where("order_id = ? AND product_id = ? AND status = ?", orderID.Bytes(), productID.Bytes(), string(from)).
		Updates(values)
	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}

// FindExpired returns up to limit ACTIVE reservations whose expiry has
// passed, oldest expiry first.
func (r *GormReservationRepository) FindExpired(
	ctx context.Context, before time.Time, limit int,
) ([]*inventory.Reservation, error) {
	var dtos []ReservationDTO
	err := r.db.WithContext(ctx).
		Where("status = ? AND expires_at < ?", string(inventory.ReservationActive), before).
		Order("expires_at").
		Limit(limit).
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	reservations := make([]*inventory.Reservation, 0, len(dtos))
	for _, dto := range dtos {
		reservation, toErr := reservationToDomain(dto)
		if toErr != nil {
			return nil, toErr
		}
		reservations = append(reservations, reservation)
	}

	return reservations, nil
}

// GormProductRepository implements ProductRepository using GORM.
// All counter mutations are expressed as in-database arithmetic guarded by a
// WHERE clause, never as read-modify-write in application code.
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GORM product repository.
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// Add saves a new product to the database.
func (r *GormProductRepository) Add(ctx context.Context, product *inventory.Product) error {
	dto := productFromDomain(product)
	return r.db.WithContext(ctx).Create(&dto).Error
}

// Get retrieves a product by ID.
func (r *GormProductRepository) Get(ctx context.Context, id kernel.UUID) (*inventory.Product, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto ProductDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("product", id.String())
		}
		return nil, err
	}

	return productToDomain(dto)
}

// TryReserve atomically bumps reservedStock by quantity while available
// stock still covers the request. Exactly one of two racing callers for the
// last unit sees reserved=true; the database evaluates the guard and the
// increment in one statement.
func (r *GormProductRepository) TryReserve(ctx context.Context, productID kernel.UUID, quantity int) (bool, error) {
	result := r.db.WithContext(ctx).Model(&ProductDTO{}).
		Where("id = ? AND stock - reserved_stock >= ?", productID.Bytes(), quantity).
		Update("reserved_stock", gorm.Expr("reserved_stock + ?", quantity))
	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}

// CommitReserved consumes a committed hold: stock and reservedStock drop
// together by quantity.
func (r *GormProductRepository) CommitReserved(ctx context.Context, productID kernel.UUID, quantity int) error {
	result := r.db.WithContext(ctx).Model(&ProductDTO{}).
		Where("id = ? AND reserved_stock >= ?", productID.Bytes(), quantity).
		Updates(map[string]any{
			"stock":          gorm.Expr("stock - ?", quantity),
			"reserved_stock": gorm.Expr("reserved_stock - ?", quantity),
		})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("product", productID.String())
	}

	return nil
}

// ReleaseReserved gives a hold back without consuming stock.
func (r *GormProductRepository) ReleaseReserved(ctx context.Context, productID kernel.UUID, quantity int) error {
	result := r.db.WithContext(ctx).Model(&ProductDTO{}).
		Where("id = ? AND reserved_stock >= ?", productID.Bytes(), quantity).
		Update("reserved_stock", gorm.Expr("reserved_stock - ?", quantity))
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("product", productID.String())
	}

	return nil
}

// RestoreStock adds quantity back to stock after a cancellation or return of
// already-committed goods.
func (r *GormProductRepository) RestoreStock(ctx context.Context, productID kernel.UUID, quantity int) error {
	result := r.db.WithContext(ctx).Model(&ProductDTO{}).
		Where("id = ?", productID.Bytes()).
		Update("stock", gorm.Expr("stock + ?", quantity))
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("product", productID.String())
	}

	return nil
}

// GormAdjustmentRepository implements AdjustmentRepository using GORM.
type GormAdjustmentRepository struct {
	db *gorm.DB
}

// NewGormAdjustmentRepository creates a new GORM adjustment repository.
func NewGormAdjustmentRepository(db *gorm.DB) *GormAdjustmentRepository {
	return &GormAdjustmentRepository{db: db}
}

// Add creates the restore-once receipt. A duplicate-key collision on the
// (order, reason) pair is reported as ports.ErrAlreadyRestored so the caller
// can short-circuit without touching stock.
func (r *GormAdjustmentRepository) Add(ctx context.Context, adjustment *inventory.Adjustment) error {
	dto := adjustmentFromDomain(adjustment)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ports.ErrAlreadyRestored
		}
		return err
	}

	return nil
}

// Get retrieves a receipt by its (order, reason) key.
func (r *GormAdjustmentRepository) Get(
	ctx context.Context, orderID kernel.UUID, reason inventory.AdjustmentReason,
) (*inventory.Adjustment, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	var dto AdjustmentDTO
	err := r.db.WithContext(ctx).
		First(&dto, "order_id = ? AND reason = ?", orderID.Bytes(), string(reason)).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("adjustment", orderID.String())
		}
		return nil, err
	}

	return adjustmentToDomain(dto)
}
