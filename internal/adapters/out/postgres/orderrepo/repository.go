package orderrepo

import (
	"context"
	"errors"
	"time"

	"tagging/internal/core/domain/model/kernel"
	"tagging/internal/core/domain/model/order"
	"tagging/internal/core/domain/services"
	"tagging/internal/core/ports"
	"tagging/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOrderRepository implements ports.OrderRepository using GORM.
type GormOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

var _ ports.OrderRepository = (*GormOrderRepository)(nil)

// NewGormOrderRepository creates a new GORM order repository.
func NewGormOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormOrderRepository {
	return &GormOrderRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add inserts the order, its tags and its uncommitted deliveries and events.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(&dto).Error; err != nil {
			return err
		}
		if len(dto.Tags) > 0 {
			if err := tx.Create(&dto.Tags).Error; err != nil {
				return err
			}
		}
		return writeUncommitted(tx, aggregate)
	})
	if err != nil {
		return err
	}

	aggregate.MarkCommitted(dto.Version)
	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update replaces the order row if its version is unchanged since load and
// appends the uncommitted deliveries and events.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	expected := dto.Version
	dto.Version++

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&OrderDTO{}).
			Where("id = ? AND version = ?", dto.ID, expected).
			Select("*").
			Omit("id", "created_at", clause.Associations).
			Updates(&dto)
		if result.Error != nil {
			return result.Error
		}

		if result.RowsAffected == 0 {
			return r.missingOrStale(tx, aggregate.ID())
		}

		return writeUncommitted(tx, aggregate)
	})
	if err != nil {
		return err
	}

	aggregate.MarkCommitted(dto.Version)
	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves an order with its tags and deliveries.
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	if err := withChildren(r.db.WithContext(ctx)).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

func (r *GormOrderRepository) GetByUser(ctx context.Context, userID kernel.UUID) ([]*order.Order, error) {
	return r.find(ctx, func(q *gorm.DB) *gorm.DB {
		return q.Where("user_id = ?", userID.Bytes())
	})
}

func (r *GormOrderRepository) GetByStatus(ctx context.Context, status order.Status) ([]*order.Order, error) {
	return r.find(ctx, func(q *gorm.DB) *gorm.DB {
		return q.Where("status = ?", status.String())
	})
}

func (r *GormOrderRepository) GetByUserAndStatus(
	ctx context.Context,
	userID kernel.UUID,
	status order.Status,
) ([]*order.Order, error) {
	return r.find(ctx, func(q *gorm.DB) *gorm.DB {
		return q.Where("user_id = ? AND status = ?", userID.Bytes(), status.String())
	})
}

func (r *GormOrderRepository) GetAll(ctx context.Context) ([]*order.Order, error) {
	return r.find(ctx, func(q *gorm.DB) *gorm.DB { return q })
}

// GetEvents returns the audit trail of an order, oldest first.
func (r *GormOrderRepository) GetEvents(ctx context.Context, orderID kernel.UUID) ([]*order.Event, error) {
	var dtos []EventDTO
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID.Bytes()).
		Order("created_at, id").
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	events := make([]*order.Event, 0, len(dtos))
	for _, dto := range dtos {
		e, err := eventToDomain(dto)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, nil
}

// UpdateLateOrders loads every order whose status depends on the due date and
// lets the aggregate reconcile it. Only changed orders are written; orders
// that lost a version race are left to the next pass.
func (r *GormOrderRepository) UpdateLateOrders(ctx context.Context, now time.Time) (int, error) {
	candidates, err := r.find(ctx, func(q *gorm.DB) *gorm.DB {
		return q.Where("due_date IS NOT NULL AND status IN ?",
			[]string{order.Active.String(), order.Revision.String(), order.Late.String()})
	})
	if err != nil {
		return 0, err
	}

	changed := 0
	for _, o := range candidates {
		if !o.ReconcileLateness(now) {
			continue
		}
		err = r.Update(ctx, o)
		switch {
		case errors.Is(err, errs.ErrVersionIsInvalid):
			continue
		case err != nil:
			return changed, err
		}
		changed++
	}
	return changed, nil
}

// GetAwaitingAutoCompletion returns Delivered orders whose latest delivery is
// older than cutoff.
func (r *GormOrderRepository) GetAwaitingAutoCompletion(ctx context.Context, cutoff time.Time) ([]*order.Order, error) {
	lastDeliveries := r.db.Model(&DeliveryDTO{}).
		Select("order_id").
		Group("order_id").
		Having("MAX(delivered_at) < ?", cutoff.UTC())

	return r.find(ctx, func(q *gorm.DB) *gorm.DB {
		return q.Where("status = ? AND id IN (?)", order.Delivered.String(), lastDeliveries)
	})
}

func (r *GormOrderRepository) GetCompletedOrders(
	ctx context.Context,
	userID *kernel.UUID,
	since *time.Time,
) ([]*order.Order, error) {
	return r.find(ctx, func(q *gorm.DB) *gorm.DB {
		q = q.Where("status = ?", order.Completed.String())
		if userID != nil {
			q = q.Where("user_id = ?", userID.Bytes())
		}
		if since != nil {
			q = q.Where("completed_at >= ?", since.UTC())
		}
		return q
	})
}

// GetRevenue sums package prices of the orders matching filter.
func (r *GormOrderRepository) GetRevenue(ctx context.Context, filter ports.RevenueFilter) (kernel.Money, error) {
	q := r.db.WithContext(ctx).
		Table("orders").
		Select("COALESCE(SUM(packages.price), 0)").
		Joins("JOIN packages ON packages.id = orders.package_id")

	if filter.UserID != nil {
		q = q.Where("orders.user_id = ?", filter.UserID.Bytes())
	}
	if len(filter.Statuses) > 0 {
		statuses := make([]string, 0, len(filter.Statuses))
		for _, s := range filter.Statuses {
			statuses = append(statuses, s.String())
		}
		q = q.Where("orders.status IN ?", statuses)
	}
	if filter.CompletedSince != nil {
		q = q.Where("orders.completed_at >= ?", filter.CompletedSince.UTC())
	}
	if filter.CancelledSince != nil {
		q = q.Where("orders.cancelled_at >= ?", filter.CancelledSince.UTC())
	}

	var total decimal.Decimal
	if err := q.Row().Scan(&total); err != nil {
		return kernel.Money{}, err
	}
	return kernel.NewMoney(total)
}

type factRow struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	Status      string
	Price       decimal.NullDecimal
	Rating      *int
	ReviewText  string
	CreatedAt   time.Time
	CompletedAt *time.Time
	CancelledAt *time.Time
}

// GetFacts returns the analytics read model. Orders of deleted packages count
// with a zero price.
func (r *GormOrderRepository) GetFacts(ctx context.Context, userID *kernel.UUID) ([]services.OrderFact, error) {
	q := r.db.WithContext(ctx).
		Table("orders").
		Select(`orders.id, orders.user_id, orders.status, packages.price, orders.rating,
			orders.review_text, orders.created_at, orders.completed_at, orders.cancelled_at`).
		Joins("LEFT JOIN packages ON packages.id = orders.package_id").
		Order("orders.created_at")
	if userID != nil {
		q = q.Where("orders.user_id = ?", userID.Bytes())
	}

	var rows []factRow
	if err := q.Scan(&rows).Error; err != nil {
		return nil, err
	}

	facts := make([]services.OrderFact, 0, len(rows))
	for _, row := range rows {
		fact, err := row.toFact()
		if err != nil {
			return nil, err
		}
		facts = append(facts, fact)
	}
	return facts, nil
}

func (row factRow) toFact() (services.OrderFact, error) {
	id, err := kernel.UUIDFromBytes(row.ID[:])
	if err != nil {
		return services.OrderFact{}, err
	}
	userID, err := kernel.UUIDFromBytes(row.UserID[:])
	if err != nil {
		return services.OrderFact{}, err
	}
	status, err := order.ParseStatus(row.Status)
	if err != nil {
		return services.OrderFact{}, err
	}

	price := kernel.Zero()
	if row.Price.Valid {
		if price, err = kernel.NewMoney(row.Price.Decimal); err != nil {
			return services.OrderFact{}, err
		}
	}

	fact := services.OrderFact{
		OrderID:     id,
		UserID:      userID,
		Status:      status,
		Price:       price,
		ReviewText:  row.ReviewText,
		CreatedAt:   row.CreatedAt,
		CompletedAt: row.CompletedAt,
		CancelledAt: row.CancelledAt,
	}
	if row.Rating != nil {
		fact.Rating = *row.Rating
	}
	return fact, nil
}

func (r *GormOrderRepository) find(ctx context.Context, scope func(*gorm.DB) *gorm.DB) ([]*order.Order, error) {
	var dtos []OrderDTO
	if err := scope(withChildren(r.db.WithContext(ctx))).
		Order("created_at DESC").
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		o, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, nil
}

func (r *GormOrderRepository) missingOrStale(tx *gorm.DB, id kernel.UUID) error {
	var count int64
	if err := tx.Model(&OrderDTO{}).Where("id = ?", id.Bytes()).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return errs.NewObjectNotFoundError("order", id.String())
	}
	return errs.NewVersionIsInvalidErrorWithCause("order", errors.New("order was modified concurrently"))
}

func withChildren(q *gorm.DB) *gorm.DB {
	return q.
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Preload("Deliveries", func(db *gorm.DB) *gorm.DB { return db.Order("number") }).
		Preload("Deliveries.Files", func(db *gorm.DB) *gorm.DB { return db.Order("position") })
}

func writeUncommitted(tx *gorm.DB, aggregate *order.Order) error {
	for _, d := range aggregate.UncommittedDeliveries() {
		dto := deliveryFromDomain(d)
		if err := tx.Omit(clause.Associations).Create(&dto).Error; err != nil {
			return err
		}
		if len(dto.Files) > 0 {
			if err := tx.Create(&dto.Files).Error; err != nil {
				return err
			}
		}
	}

	events := aggregate.UncommittedEvents()
	if len(events) == 0 {
		return nil
	}
	dtos := make([]EventDTO, 0, len(events))
	for _, e := range events {
		dtos = append(dtos, eventFromDomain(e))
	}
	return tx.Create(&dtos).Error
}
