package queries

import (
	"context"
	"strings"
	"time"

	"tagging/internal/core/domain/model/kernel"
	"tagging/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ListOrdersQueryHandler reads order summaries straight from the tables,
// joined with the package and the owner, newest first.
type ListOrdersQueryHandler struct {
	db *gorm.DB
}

func NewListOrdersQueryHandler(db *gorm.DB) ListOrdersQueryHandler {
	return ListOrdersQueryHandler{db: db}
}

func (h ListOrdersQueryHandler) Handle(ctx context.Context, query ListOrdersQuery) ([]OrderSummary, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	var (
		where []string
		args  []any
	)
	if !query.Actor().IsAdmin() {
		where = append(where, "o.user_id = ?")
		args = append(args, query.Actor().ID().Bytes())
	}
	if status := query.Status(); status != nil {
		where = append(where, "o.status = ?")
		args = append(args, status.String())
	}

	sql := `
		SELECT
			o.id,
			o.user_id,
			COALESCE(u.username, ''),
			o.package_id,
			COALESCE(p.name, ''),
			p.price,
			o.details,
			o.status,
			o.due_date,
			o.created_at,
			o.request_type
		FROM orders o
		LEFT JOIN packages p ON p.id = o.package_id
		LEFT JOIN users u ON u.id = o.user_id`
	if len(where) > 0 {
		sql += "\n\t\tWHERE " + strings.Join(where, " AND ")
	}
	sql += "\n\t\tORDER BY o.created_at DESC, o.id"

	rows, err := h.db.WithContext(ctx).Raw(sql, args...).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]OrderSummary, 0)
	for rows.Next() {
		var (
			summary         OrderSummary
			id, userID, pkg uuid.UUID
			price           decimal.NullDecimal
			status          string
			dueDate         *time.Time
			requestType     *string
		)

		err = rows.Scan(
			&id,
			&userID,
			&summary.Username,
			&pkg,
			&summary.PackageName,
			&price,
			&summary.Details,
			&status,
			&dueDate,
			&summary.CreatedAt,
			&requestType,
		)
		if err != nil {
			return nil, err
		}

		if summary.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
			return nil, err
		}
		if summary.UserID, err = kernel.UUIDFromBytes(userID[:]); err != nil {
			return nil, err
		}
		if summary.PackageID, err = kernel.UUIDFromBytes(pkg[:]); err != nil {
			return nil, err
		}
		if summary.Status, err = order.ParseStatus(status); err != nil {
			return nil, err
		}

		summary.Price = kernel.Zero()
		if price.Valid {
			if summary.Price, err = kernel.NewMoney(price.Decimal); err != nil {
				return nil, err
			}
		}
		summary.DueDate = dueDate
		summary.HasPending = requestType != nil && *requestType != ""
		orders = append(orders, summary)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}
