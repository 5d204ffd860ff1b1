package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/vibast-solutions/ms-go-lava/app/entity"
)

var ErrWebhookAlreadyRecorded = errors.New("lava webhook already recorded")

const lavaWebhookColumns = `
	id, invoice_id, order_id, status, amount, credited, pay_time,
	request_id, signature, payload_json, outcome, error, created_at
`

type LavaWebhookFilter struct {
	InvoiceID string
	Outcome   int32
	Limit     int32
}

type LavaWebhookRepository struct {
	db DBTX
}

func NewLavaWebhookRepository(db DBTX) *LavaWebhookRepository {
	return &LavaWebhookRepository{db: db}
}

// Create inserts the delivery. A processed row for an already journaled
// (invoice_id, status) pair yields ErrWebhookAlreadyRecorded.
func (r *LavaWebhookRepository) Create(ctx context.Context, hook *entity.LavaWebhook) error {
	query := `
		INSERT INTO lava_webhooks (
			invoice_id, order_id, status, amount, credited, pay_time,
			request_id, signature, payload_json, outcome, error, created_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		nullableStringValue(hook.InvoiceID),
		nullableStringValue(hook.OrderID),
		nullableStringValue(hook.Status),
		nullableFloat64Value(hook.Amount),
		nullableFloat64Value(hook.Credited),
		nullableTimeValue(hook.PayTime),
		hook.RequestID,
		hook.Signature,
		hook.PayloadJSON,
		hook.Outcome,
		nullableStringValue(hook.Error),
		hook.CreatedAt,
	)
	if err != nil {
		if isDuplicateEntryError(err) {
			return ErrWebhookAlreadyRecorded
		}
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	hook.ID = uint64(id)

	return nil
}

func (r *LavaWebhookRepository) List(ctx context.Context, filter LavaWebhookFilter) ([]*entity.LavaWebhook, error) {
	var (
		where []string
		args  []interface{}
	)
	if invoiceID := strings.TrimSpace(filter.InvoiceID); invoiceID != "" {
		where = append(where, "invoice_id = ?")
		args = append(args, invoiceID)
	}
	if filter.Outcome > 0 {
		where = append(where, "outcome = ?")
		args = append(args, filter.Outcome)
	}

	query := "SELECT " + lavaWebhookColumns + " FROM lava_webhooks"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY id DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]*entity.LavaWebhook, 0)
	for rows.Next() {
		item, err := scanLavaWebhook(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanLavaWebhook(row rowScanner) (*entity.LavaWebhook, error) {
	var (
		item      entity.LavaWebhook
		invoiceID sql.NullString
		orderID   sql.NullString
		status    sql.NullString
		amount    sql.NullFloat64
		credited  sql.NullFloat64
		payTime   sql.NullTime
		errText   sql.NullString
	)

	if err := row.Scan(
		&item.ID,
		&invoiceID,
		&orderID,
		&status,
		&amount,
		&credited,
		&payTime,
		&item.RequestID,
		&item.Signature,
		&item.PayloadJSON,
		&item.Outcome,
		&errText,
		&item.CreatedAt,
	); err != nil {
		return nil, err
	}

	item.InvoiceID = stringPtrFromNull(invoiceID)
	item.OrderID = stringPtrFromNull(orderID)
	item.Status = stringPtrFromNull(status)
	item.Amount = float64PtrFromNull(amount)
	item.Credited = float64PtrFromNull(credited)
	item.PayTime = timePtrFromNull(payTime)
	item.Error = stringPtrFromNull(errText)

	return &item, nil
}
