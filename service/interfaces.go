package service

import (
	"context"

	"erpchat/ai"
	"erpchat/command"
	"erpchat/models"
)

// TextGenerator produces a chat completion.
type TextGenerator interface {
	Generate(ctx context.Context, purpose string, messages []ai.Message) (string, error)
}

// QueryRunner executes generated SQL against the reporting database.
type QueryRunner interface {
	Run(ctx context.Context, query string) (*models.QueryResult, error)
}

type DocumentStore interface {
	Load(ctx context.Context, id string) (*models.Document, error)
	Create(ctx context.Context, doc models.Document) (string, error)
	FindByNames(ctx context.Context, names []string) ([]models.DocumentInfo, error)
}

type HistoryStore interface {
	Load(ctx context.Context) ([]models.ChatMessage, error)
	Append(ctx context.Context, entry models.ChatMessage) error
}

// TransactionStore looks up and changes ERP transactions.
type TransactionStore interface {
	Find(ctx context.Context, kind command.Kind, number string) (*models.TransactionRecord, error)
	ReceivePurchaseOrder(ctx context.Context, poID int64) (receiptID int64, receiptNumber string, err error)
	Approve(ctx context.Context, kind command.Kind, id int64) error
}
