package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"

	"erpchat/models"
)

const maxAppendAttempts = 10

// HistoryFileName is the name given to a history document created by EnsureHistory.
const HistoryFileName = "chat_history.json"

// History is a conversation log kept as a JSON array inside one document.
type History struct {
	db    *DB
	docID string
	mu    sync.Mutex
}

func (d *DB) History(docID string) *History {
	return &History{db: d, docID: docID}
}

// EnsureHistory returns the history behind docID, creating an empty history document
// when docID is unset or unknown.
func (d *DB) EnsureHistory(ctx context.Context, docID string) (*History, bool, error) {
	id, created, err := d.EnsureDocument(ctx, docID, HistoryFileName, "[]")
	if err != nil {
		return nil, false, fmt.Errorf("failed to prepare chat history: %w", err)
	}
	return d.History(id), created, nil
}

func (h *History) DocID() string {
	return h.docID
}

func decodeHistory(contents string) ([]models.ChatMessage, error) {
	entries := []models.ChatMessage{}
	if strings.TrimSpace(contents) == "" {
		return entries, nil
	}
	if err := json.Unmarshal([]byte(contents), &entries); err != nil {
		return nil, fmt.Errorf("failed to decode chat history: %w", err)
	}
	if entries == nil {
		entries = []models.ChatMessage{}
	}
	return entries, nil
}

// Load returns every entry in insertion order.
func (h *History) Load(ctx context.Context) ([]models.ChatMessage, error) {
	doc, err := h.db.Load(ctx, h.docID)
	if err != nil {
		return nil, err
	}
	return decodeHistory(doc.Contents)
}

// ForChat returns the entries of one conversation in insertion order.
func (h *History) ForChat(ctx context.Context, chatID string) ([]models.ChatMessage, error) {
	entries, err := h.Load(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.ChatMessage, 0)
	for _, e := range entries {
		if e.ChatID == chatID {
			out = append(out, e)
		}
	}
	return out, nil
}

// Append adds entry to the end of the history. The read-modify-write runs inside one
// badger transaction and is retried on conflict, so concurrent appends are never lost.
func (h *History) Append(ctx context.Context, entry models.ChatMessage) error {
	id, err := parseID(h.docID)
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		err = h.db.badgerDB.Update(func(txn *badger.Txn) error {
			doc, err := getDocument(txn, id)
			if err != nil {
				return err
			}
			entries, err := decodeHistory(doc.Contents)
			if err != nil {
				return err
			}
			entries = append(entries, entry)

			data, err := json.Marshal(entries)
			if err != nil {
				return fmt.Errorf("failed to encode chat history: %w", err)
			}
			doc.Contents = string(data)
			doc.Version++
			doc.UpdatedAt = time.Now().UTC()
			return putDocument(txn, doc)
		})
		if errors.Is(err, badger.ErrConflict) && attempt < maxAppendAttempts {
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to append chat history: %w", err)
		}
		return nil
	}
}
