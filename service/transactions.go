package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"erpchat/command"
	"erpchat/models"
)

var (
	// ErrTransactionNotFound is returned when no transaction matches a lookup.
	ErrTransactionNotFound = errors.New("transaction not found")
	// ErrNotReceivable is returned when a purchase order is unapproved or already received.
	ErrNotReceivable = errors.New("purchase order is not approved or has already been received")
)

// ApprovedStatus is the approval status code written by Approve. Only purchase orders
// carrying it can be received.
const ApprovedStatus = 2

// ApprovedStatusText is the status Approve moves a transaction to.
const ApprovedStatusText = "Approved"

const (
	itemReceiptType   = "ItemRcpt"
	receiptNumberBase = "IR"
)

const findWithEntityQuery = `SELECT TOP 1 t.id, t.tranid, e.entityid, CONVERT(varchar(10), t.trandate, 23), COALESCE(t.status, ''), COALESCE(t.approvalstatus, 0)
FROM [transaction] t
JOIN entity e ON t.entity = e.id
WHERE t.type = @p1 AND UPPER(t.tranid) = UPPER(@p2)
ORDER BY t.id`

const findQuery = `SELECT TOP 1 t.id, t.tranid, '', CONVERT(varchar(10), t.trandate, 23), COALESCE(t.status, ''), COALESCE(t.approvalstatus, 0)
FROM [transaction] t
WHERE t.type = @p1 AND UPPER(t.tranid) = UPPER(@p2)
ORDER BY t.id`

const insertReceiptQuery = `INSERT INTO [transaction] (type, tranid, entity, trandate, status, approvalstatus, createdfrom)
OUTPUT INSERTED.id
SELECT @p1, '', t.entity, GETDATE(), 'Received', t.approvalstatus, t.id
FROM [transaction] t
WHERE t.id = @p2 AND t.type = @p3 AND t.approvalstatus = @p4
  AND COALESCE(t.status, '') NOT IN ('Pending Billing', 'Fully Billed', 'Closed')`

const numberReceiptQuery = `UPDATE [transaction] SET tranid = @p1 WHERE id = @p2`

const markReceivedQuery = `UPDATE [transaction] SET status = 'Pending Billing' WHERE id = @p1`

const approveQuery = `UPDATE [transaction] SET approvalstatus = @p1, status = @p2 WHERE id = @p3 AND type = @p4`

// SQLTransactionStore keeps transactions in the ERP's SQL Server tables.
type SQLTransactionStore struct {
	db *sql.DB
}

func NewSQLTransactionStore(db *sql.DB) *SQLTransactionStore {
	return &SQLTransactionStore{db: db}
}

func (s *SQLTransactionStore) Find(ctx context.Context, kind command.Kind, number string) (*models.TransactionRecord, error) {
	if s.db == nil {
		return nil, ErrNotConnected
	}
	cfg := kind.Config()
	q := findQuery
	if cfg.HasEntity {
		q = findWithEntityQuery
	}

	var (
		rec  models.TransactionRecord
		date sql.NullString
	)
	err := s.db.QueryRowContext(ctx, q, cfg.TypeCode, number).
		Scan(&rec.ID, &rec.Number, &rec.EntityName, &date, &rec.Status, &rec.ApprovalStatus)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTransactionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up %s %s: %w", cfg.DisplayName, number, err)
	}
	rec.Date = date.String
	return &rec, nil
}

// ReceivePurchaseOrder creates an item receipt from the purchase order and marks the
// order as received. Both changes commit together. An order that is not approved, or
// is already received, billed or closed, yields ErrNotReceivable and nothing is written.
func (s *SQLTransactionStore) ReceivePurchaseOrder(ctx context.Context, poID int64) (int64, string, error) {
	if s.db == nil {
		return 0, "", ErrNotConnected
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var receiptID int64
	err = tx.QueryRowContext(ctx, insertReceiptQuery,
		itemReceiptType, poID, command.PurchaseOrder.Config().TypeCode, ApprovedStatus).Scan(&receiptID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, "", ErrNotReceivable
	}
	if err != nil {
		return 0, "", fmt.Errorf("failed to create item receipt: %w", err)
	}

	receiptNumber := fmt.Sprintf("%s%d", receiptNumberBase, receiptID)
	if _, err := tx.ExecContext(ctx, numberReceiptQuery, receiptNumber, receiptID); err != nil {
		return 0, "", fmt.Errorf("failed to number item receipt: %w", err)
	}
	if _, err := tx.ExecContext(ctx, markReceivedQuery, poID); err != nil {
		return 0, "", fmt.Errorf("failed to update purchase order: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, "", fmt.Errorf("failed to commit item receipt: %w", err)
	}
	return receiptID, receiptNumber, nil
}

func (s *SQLTransactionStore) Approve(ctx context.Context, kind command.Kind, id int64) error {
	if s.db == nil {
		return ErrNotConnected
	}

	res, err := s.db.ExecContext(ctx, approveQuery, ApprovedStatus, ApprovedStatusText, id, kind.Config().TypeCode)
	if err != nil {
		return fmt.Errorf("failed to approve %s: %w", kind.Config().DisplayName, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to approve %s: %w", kind.Config().DisplayName, err)
	}
	if n == 0 {
		return ErrTransactionNotFound
	}
	return nil
}
