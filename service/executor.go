package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"erpchat/command"
	"erpchat/metrics"
	"erpchat/models"
)

// TransactionExecutor carries out receive and approve commands. Every outcome,
// including failures, becomes a response envelope.
type TransactionExecutor struct {
	store  TransactionStore
	logger *logrus.Entry
	now    func() time.Time
}

func NewTransactionExecutor(store TransactionStore, logger *logrus.Entry) *TransactionExecutor {
	return &TransactionExecutor{store: store, logger: logger, now: time.Now}
}

// IsApprovedStatus reports whether status means the transaction needs no approval.
func IsApprovedStatus(status string) bool {
	return strings.EqualFold(status, "B") || strings.EqualFold(status, "Approved")
}

func (e *TransactionExecutor) Execute(ctx context.Context, cmd command.Command, input, chatID string) models.Envelope {
	env := models.Envelope{
		ChatMessage: models.ChatMessage{
			UserRequest: input,
			ChatID:      chatID,
		},
	}

	var outcome string
	switch {
	case cmd.Action == command.Receive:
		outcome = e.receive(ctx, cmd, &env)
	case cmd.IsPurchaseOrderApproval():
		outcome = e.approvePurchaseOrder(ctx, cmd, &env)
	default:
		outcome = e.approve(ctx, cmd, &env)
	}

	env.Timestamp = models.Timestamp(e.now())
	metrics.RecordCommand(cmd.Action.String(), cmd.Kind.String(), outcome)
	return env
}

func (e *TransactionExecutor) fields(cmd command.Command) logrus.Fields {
	return logrus.Fields{
		"action": cmd.Action.String(),
		"kind":   cmd.Kind.String(),
		"number": cmd.Number,
	}
}

func (e *TransactionExecutor) receive(ctx context.Context, cmd command.Command, env *models.Envelope) string {
	log := e.logger.WithFields(e.fields(cmd))
	log.Debug("receiving purchase order")

	po, err := e.store.Find(ctx, command.PurchaseOrder, cmd.Number)
	if errors.Is(err, ErrTransactionNotFound) {
		env.FinalTextResponse = fmt.Sprintf("❌ Purchase Order %s was not found in the system. Please verify the PO number.", cmd.Number)
		log.Info("purchase order not found")
		return metrics.OutcomeNotFound
	}
	if err != nil {
		return e.receiveFailed(log, cmd, env, err)
	}

	receiptID, receiptNumber, err := e.store.ReceivePurchaseOrder(ctx, po.ID)
	if err != nil {
		return e.receiveFailed(log.WithField("po_id", po.ID), cmd, env, err)
	}

	env.FinalTextResponse = fmt.Sprintf("✅ Success! Purchase Order %s from %s has been fully received. Item Receipt %s has been created.",
		cmd.Number, po.EntityName, receiptNumber)
	env.POReceived = true
	env.PONumber = cmd.Number
	env.POID = po.ID
	env.ItemReceiptID = receiptID
	env.ItemReceiptNumber = receiptNumber

	log.WithFields(logrus.Fields{
		"po_id":          po.ID,
		"receipt_id":     receiptID,
		"receipt_number": receiptNumber,
	}).Info("purchase order received")
	return metrics.OutcomeSuccess
}

func (e *TransactionExecutor) receiveFailed(log *logrus.Entry, cmd command.Command, env *models.Envelope, err error) string {
	log.WithError(err).Error("failed to receive purchase order")
	env.FinalTextResponse = fmt.Sprintf("❌ Error receiving Purchase Order %s: %s. Please check the PO status and permissions.", cmd.Number, err)
	return metrics.OutcomeError
}

func (e *TransactionExecutor) approvePurchaseOrder(ctx context.Context, cmd command.Command, env *models.Envelope) string {
	log := e.logger.WithFields(e.fields(cmd))
	log.Debug("approving purchase order")

	po, err := e.store.Find(ctx, command.PurchaseOrder, cmd.Number)
	if errors.Is(err, ErrTransactionNotFound) {
		env.FinalTextResponse = fmt.Sprintf("❌ Purchase Order %s was not found in the system. Please verify the PO number.", cmd.Number)
		log.Info("purchase order not found")
		return metrics.OutcomeNotFound
	}
	if err != nil {
		return e.approvePurchaseOrderFailed(log, cmd, env, err)
	}

	if IsApprovedStatus(po.Status) {
		env.FinalTextResponse = fmt.Sprintf("⚠️ Purchase Order %s from %s is already approved (Status: %s).", cmd.Number, po.EntityName, po.Status)
		log.WithField("status", po.Status).Info("purchase order already approved")
		return metrics.OutcomeAlreadyApproved
	}

	if err := e.store.Approve(ctx, command.PurchaseOrder, po.ID); err != nil {
		return e.approvePurchaseOrderFailed(log.WithField("po_id", po.ID), cmd, env, err)
	}

	env.FinalTextResponse = fmt.Sprintf("✅ Success! Purchase Order %s from %s has been approved and is now ready for processing.", cmd.Number, po.EntityName)
	env.POApproved = true
	env.PONumber = cmd.Number
	env.POID = po.ID
	env.PreviousStatus = po.Status
	env.NewStatus = ApprovedStatusText

	log.WithFields(logrus.Fields{
		"po_id":           po.ID,
		"previous_status": po.Status,
		"new_status":      env.NewStatus,
	}).Info("purchase order approved")
	return metrics.OutcomeSuccess
}

func (e *TransactionExecutor) approvePurchaseOrderFailed(log *logrus.Entry, cmd command.Command, env *models.Envelope, err error) string {
	log.WithError(err).Error("failed to approve purchase order")
	env.FinalTextResponse = fmt.Sprintf("❌ Error approving Purchase Order %s: %s. Please check the PO status and approval permissions.", cmd.Number, err)
	return metrics.OutcomeError
}

func (e *TransactionExecutor) approve(ctx context.Context, cmd command.Command, env *models.Envelope) string {
	cfg := cmd.Kind.Config()
	log := e.logger.WithFields(e.fields(cmd))
	log.Debug("approving transaction")

	rec, err := e.store.Find(ctx, cmd.Kind, cmd.Number)
	if errors.Is(err, ErrTransactionNotFound) {
		env.FinalTextResponse = fmt.Sprintf("❌ %s %s was not found in the system. Please verify the transaction number.", cfg.DisplayName, cmd.Number)
		log.Info("transaction not found")
		return metrics.OutcomeNotFound
	}
	if err != nil {
		return e.approveFailed(log, cmd, env, err)
	}

	entityInfo := ""
	if cfg.HasEntity && rec.EntityName != "" {
		entityInfo = " from " + rec.EntityName
	}

	if IsApprovedStatus(rec.Status) {
		env.FinalTextResponse = fmt.Sprintf("⚠️ %s %s%s is already approved (Status: %s).", cfg.DisplayName, cmd.Number, entityInfo, rec.Status)
		log.WithField("status", rec.Status).Info("transaction already approved")
		return metrics.OutcomeAlreadyApproved
	}

	if err := e.store.Approve(ctx, cmd.Kind, rec.ID); err != nil {
		return e.approveFailed(log.WithField("transaction_id", rec.ID), cmd, env, err)
	}

	env.FinalTextResponse = fmt.Sprintf("✅ Success! %s %s%s has been approved and is now ready for processing.", cfg.DisplayName, cmd.Number, entityInfo)
	env.TransactionApproved = true
	env.TransactionType = cfg.DisplayName
	env.TransactionNumber = cmd.Number
	env.TransactionID = rec.ID
	env.PreviousStatus = rec.Status
	env.NewStatus = ApprovedStatusText

	log.WithFields(logrus.Fields{
		"transaction_id":  rec.ID,
		"previous_status": rec.Status,
		"new_status":      env.NewStatus,
	}).Info("transaction approved")
	return metrics.OutcomeSuccess
}

func (e *TransactionExecutor) approveFailed(log *logrus.Entry, cmd command.Command, env *models.Envelope, err error) string {
	log.WithError(err).Error("failed to approve transaction")
	env.FinalTextResponse = fmt.Sprintf("❌ Error approving %s %s: %s. Please check the transaction status and approval permissions.",
		cmd.Kind.Config().DisplayName, cmd.Number, err)
	return metrics.OutcomeError
}
