package order

import (
	"context"
	"database/sql"
	stderrors "errors"
	"strings"

	portsout "klarnasync/internal/application/ports/out"
	"klarnasync/internal/domain/entities"
	valueobjects "klarnasync/internal/domain/value_objects"
	apperrors "klarnasync/internal/shared_kernel/errors"

	"github.com/shopspring/decimal"
)

const selectOrderColumns = `
SELECT
  o.oxid,
  o.oxordernr,
  o.oxpaymenttype,
  o.oxtotalordersum,
  o.oxcurrency,
  o.oxlang,
  o.oxbillcountryid,
  COALESCE(c.oxisoalpha2, ''),
  o.oxsenddate,
  o.oxstorno,
  o.klorderid,
  o.klmerchantid,
  o.klservermode,
  o.klsync
FROM oxorder o
LEFT JOIN oxcountry c ON c.oxid = o.oxbillcountryid
`

// Repository reads host order rows and writes the two flags this service owns.
type Repository struct {
	db *sql.DB
}

var _ portsout.OrderRepository = (*Repository)(nil)

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) FindByID(ctx context.Context, orderID string) (entities.Order, bool, *apperrors.AppError) {
	row := r.db.QueryRowContext(ctx, selectOrderColumns+"WHERE o.oxid = $1", strings.TrimSpace(orderID))
	return scanOrder(row)
}

func (r *Repository) FindByKlarnaOrderID(ctx context.Context, klarnaOrderID string) (entities.Order, bool, *apperrors.AppError) {
	row := r.db.QueryRowContext(
		ctx,
		selectOrderColumns+"WHERE o.klorderid = $1 ORDER BY o.oxordernr DESC LIMIT 1",
		strings.TrimSpace(klarnaOrderID),
	)
	return scanOrder(row)
}

func (r *Repository) SaveSyncFlag(ctx context.Context, orderID string, inSync bool) *apperrors.AppError {
	const query = `UPDATE oxorder SET klsync = $2 WHERE oxid = $1`

	if _, err := r.db.ExecContext(ctx, query, orderID, boolToSmallint(inSync)); err != nil {
		return apperrors.NewInternal(
			"order_update_failed",
			"failed to persist klarna sync flag",
			map[string]any{"order_id": orderID, "error": err.Error()},
		)
	}

	return nil
}

func (r *Repository) MarkCancelled(ctx context.Context, orderID string) *apperrors.AppError {
	const query = `UPDATE oxorder SET oxstorno = 1 WHERE oxid = $1`

	result, err := r.db.ExecContext(ctx, query, orderID)
	if err != nil {
		return apperrors.NewInternal(
			"order_update_failed",
			"failed to mark order cancelled",
			map[string]any{"order_id": orderID, "error": err.Error()},
		)
	}

	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return apperrors.NewNotFound(
			"order_not_found",
			"order not found",
			map[string]any{"order_id": orderID},
		)
	}

	return nil
}

// ListSyncableOrderIDs pages through non-cancelled Klarna orders in id order.
func (r *Repository) ListSyncableOrderIDs(ctx context.Context, afterOrderID string, limit int) ([]string, *apperrors.AppError) {
	const query = `
SELECT oxid
FROM oxorder
WHERE oxstorno = 0
  AND LOWER(oxpaymenttype) LIKE 'klarna\_%'
  AND klorderid <> ''
  AND oxid > $1
ORDER BY oxid ASC
LIMIT $2
`

	rows, err := r.db.QueryContext(ctx, query, afterOrderID, limit)
	if err != nil {
		return nil, apperrors.NewInternal(
			"order_query_failed",
			"failed to list klarna orders",
			map[string]any{"error": err.Error()},
		)
	}
	defer rows.Close()

	ids := make([]string, 0, limit)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, apperrors.NewInternal(
				"order_query_failed",
				"failed to parse order id row",
				map[string]any{"error": err.Error()},
			)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternal(
			"order_query_failed",
			"failed to iterate klarna orders",
			map[string]any{"error": err.Error()},
		)
	}

	return ids, nil
}

func scanOrder(row *sql.Row) (entities.Order, bool, *apperrors.AppError) {
	var (
		order      entities.Order
		total      decimal.Decimal
		sendDate   sql.NullTime
		storno     int64
		serverMode string
		klSync     int64
	)

	err := row.Scan(
		&order.ID,
		&order.OrderNumber,
		&order.PaymentType,
		&total,
		&order.Currency,
		&order.Language,
		&order.BillCountryID,
		&order.BillCountryISO,
		&sendDate,
		&storno,
		&order.KlarnaOrderID,
		&order.KlarnaMerchantID,
		&serverMode,
		&klSync,
	)
	if stderrors.Is(err, sql.ErrNoRows) {
		return entities.Order{}, false, nil
	}
	if err != nil {
		return entities.Order{}, false, apperrors.NewInternal(
			"order_query_failed",
			"failed to load order",
			map[string]any{"error": err.Error()},
		)
	}

	order.TotalOrderSum = total
	order.Cancelled = storno != 0
	order.InSync = klSync != 0
	order.BillCountryISO = strings.ToUpper(strings.TrimSpace(order.BillCountryISO))
	order.KlarnaOrderID = strings.TrimSpace(order.KlarnaOrderID)
	order.KlarnaMerchantID = strings.TrimSpace(order.KlarnaMerchantID)
	order.KlarnaServerMode = valueobjects.ServerMode(strings.ToLower(strings.TrimSpace(serverMode)))
	if sendDate.Valid && !sendDate.Time.IsZero() {
		value := sendDate.Time.UTC()
		order.SendDate = &value
	}

	return order, true, nil
}

func boolToSmallint(value bool) int {
	if value {
		return 1
	}
	return 0
}
