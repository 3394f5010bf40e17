// Package ledgerstore - Postgres backend
package ledgerstore

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	_ "github.com/lib/pq"

	"workorder-pricing/core/ledger"
	"workorder-pricing/core/types"
	"workorder-pricing/internal/errors"
)

// PostgresStore is a postgres-backed ledger.Store. The schema is owned by the
// surrounding application; this store only reads it.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore opens a postgres-backed store
func NewPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, errors.Storage("failed to open postgres connection", err)
	}
	if err := db.Ping(); err != nil {
		return nil, errors.Storage("failed to ping postgres", err)
	}
	return &PostgresStore{db: db}, nil
}

// NewPostgresStoreFromDB wraps an existing connection pool
func NewPostgresStoreFromDB(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Close closes the underlying connection pool
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// OrderLinesForWorkOrder implements ledger.Store
func (s *PostgresStore) OrderLinesForWorkOrder(ctx context.Context, name string) ([]ledger.OrderLine, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM work_orders WHERE name = $1)`, name).Scan(&exists)
	if err != nil {
		return nil, errors.Storage("failed to look up work order", err)
	}
	if !exists {
		return nil, errors.NotFound("work order", name)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT order_name, line_id, unit_price, discounted_unit_price, quantity, total_tax
		FROM work_order_lines
		WHERE work_order_name = $1
		ORDER BY order_name, line_id`, name)
	if err != nil {
		return nil, errors.Storage("failed to query order lines", err)
	}
	defer rows.Close()

	var lines []ledger.OrderLine
	for rows.Next() {
		var (
			line                               ledger.OrderLine
			unitPrice, discountedPrice, totalTax string
		)
		if err := rows.Scan(&line.Ref.Order, &line.Ref.Line, &unitPrice, &discountedPrice, &line.Quantity, &totalTax); err != nil {
			return nil, errors.Storage("failed to scan order line", err)
		}
		if line.UnitPrice, err = decimal.NewFromString(unitPrice); err != nil {
			return nil, errors.Storage("invalid unit price in ledger", err)
		}
		if line.DiscountedUnitPrice, err = decimal.NewFromString(discountedPrice); err != nil {
			return nil, errors.Storage("invalid discounted unit price in ledger", err)
		}
		if line.TotalTax, err = decimal.NewFromString(totalTax); err != nil {
			return nil, errors.Storage("invalid tax in ledger", err)
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Storage("failed to read order lines", err)
	}
	return lines, nil
}

// Order implements ledger.Store
func (s *PostgresStore) Order(ctx context.Context, orderName string) (*ledger.Order, error) {
	var (
		order             ledger.Order
		total, outstanding string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT name, total, outstanding FROM orders WHERE name = $1`, orderName).
		Scan(&order.Name, &total, &outstanding)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("order", orderName)
	}
	if err != nil {
		return nil, errors.Storage("failed to query order", err)
	}
	if order.Total, err = decimal.NewFromString(total); err != nil {
		return nil, errors.Storage("invalid order total in ledger", err)
	}
	if order.Outstanding, err = decimal.NewFromString(outstanding); err != nil {
		return nil, errors.Storage("invalid order outstanding in ledger", err)
	}
	return &order, nil
}

// ItemsAndCharges implements ledger.Store
func (s *PostgresStore) ItemsAndCharges(ctx context.Context, name string) (*ledger.Entities, error) {
	entities := &ledger.Entities{}

	rows, err := s.db.QueryContext(ctx, `
		SELECT uuid, product_ref, name, quantity, absorb_charges, order_name, line_id, draft
		FROM work_order_items
		WHERE work_order_name = $1
		ORDER BY uuid`, name)
	if err != nil {
		return nil, errors.Storage("failed to query items", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			item              types.Item
			id                string
			orderName, lineID sql.NullString
			draft             sql.NullBool
		)
		if err := rows.Scan(&id, &item.ProductRef, &item.Name, &item.Quantity, &item.AbsorbCharges, &orderName, &lineID, &draft); err != nil {
			return nil, errors.Storage("failed to scan item", err)
		}
		if item.UUID, err = uuid.Parse(id); err != nil {
			return nil, errors.Storage("invalid item uuid in ledger", err)
		}
		item.LineRef = lineRef(orderName, lineID, draft)
		entities.Items = append(entities.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Storage("failed to read items", err)
	}

	chargeRows, err := s.db.QueryContext(ctx, `
		SELECT uuid, kind, name, rate, hours, amount, parent_item_uuid, order_name, line_id, draft
		FROM work_order_charges
		WHERE work_order_name = $1
		ORDER BY uuid`, name)
	if err != nil {
		return nil, errors.Storage("failed to query charges", err)
	}
	defer chargeRows.Close()

	for chargeRows.Next() {
		var (
			id, kind           string
			chargeName         string
			rate, hours, amount sql.NullString
			parent             sql.NullString
			orderName, lineID  sql.NullString
			draft              sql.NullBool
		)
		if err := chargeRows.Scan(&id, &kind, &chargeName, &rate, &hours, &amount, &parent, &orderName, &lineID, &draft); err != nil {
			return nil, errors.Storage("failed to scan charge", err)
		}

		chargeUUID, err := uuid.Parse(id)
		if err != nil {
			return nil, errors.Storage("invalid charge uuid in ledger", err)
		}
		var parentUUID *uuid.UUID
		if parent.Valid {
			parsed, err := uuid.Parse(parent.String)
			if err != nil {
				return nil, errors.Storage("invalid parent item uuid in ledger", err)
			}
			parentUUID = &parsed
		}
		ref := lineRef(orderName, lineID, draft)

		switch types.ChargeKind(kind) {
		case types.ChargeHourly:
			charge := types.HourlyCharge{
				UUID:           chargeUUID,
				Name:           chargeName,
				ParentItemUUID: parentUUID,
				LineRef:        ref,
			}
			if charge.Rate, err = nullDecimal(rate); err != nil {
				return nil, errors.Storage("invalid charge rate in ledger", err)
			}
			if charge.Hours, err = nullDecimal(hours); err != nil {
				return nil, errors.Storage("invalid charge hours in ledger", err)
			}
			entities.HourlyCharges = append(entities.HourlyCharges, charge)
		case types.ChargeFixed:
			charge := types.FixedCharge{
				UUID:           chargeUUID,
				Name:           chargeName,
				ParentItemUUID: parentUUID,
				LineRef:        ref,
			}
			if charge.Amount, err = nullDecimal(amount); err != nil {
				return nil, errors.Storage("invalid charge amount in ledger", err)
			}
			entities.FixedCharges = append(entities.FixedCharges, charge)
		default:
			return nil, errors.Consistencyf("unknown charge kind %q in ledger", kind)
		}
	}
	if err := chargeRows.Err(); err != nil {
		return nil, errors.Storage("failed to read charges", err)
	}

	return entities, nil
}

func lineRef(orderName, lineID sql.NullString, draft sql.NullBool) *types.LineRef {
	if !orderName.Valid || !lineID.Valid {
		return nil
	}
	return &types.LineRef{
		Order: orderName.String,
		Line:  lineID.String,
		Draft: draft.Valid && draft.Bool,
	}
}

func nullDecimal(v sql.NullString) (decimal.Decimal, error) {
	if !v.Valid {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(v.String)
}
