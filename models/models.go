package models

import (
	"bytes"
	"encoding/json"
	"time"
)

// TimestampLayout matches the ISO-8601 form browsers produce with Date.toISOString.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

func Timestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// ChatRequest carries the parameters of POST /chat. Both form and JSON bodies are accepted.
type ChatRequest struct {
	UserInput string `form:"user_input" json:"user_input"`
	ChatID    string `form:"current_chatId" json:"current_chatId"`
}

// ChatMessage is one history entry. The history document is a JSON array of these.
type ChatMessage struct {
	UserRequest       string `json:"user_request"`
	SQLQuery          string `json:"sql_query,omitempty"`
	FinalTextResponse string `json:"final_text_response"`
	Timestamp         string `json:"timestamp"`
	ChatID            string `json:"chatId"`
	FileName          string `json:"file_name,omitempty"`
}

// Envelope is the response shape of POST /chat: a ChatMessage plus the fields a
// transaction command adds to it.
type Envelope struct {
	ChatMessage

	POReceived        bool   `json:"po_received,omitempty"`
	POApproved        bool   `json:"po_approved,omitempty"`
	PONumber          string `json:"po_number,omitempty"`
	POID              int64  `json:"po_id,omitempty"`
	ItemReceiptID     int64  `json:"item_receipt_id,omitempty"`
	ItemReceiptNumber string `json:"item_receipt_number,omitempty"`

	TransactionApproved bool   `json:"transaction_approved,omitempty"`
	TransactionType     string `json:"transaction_type,omitempty"`
	TransactionNumber   string `json:"transaction_number,omitempty"`
	TransactionID       int64  `json:"transaction_id,omitempty"`
	PreviousStatus      string `json:"previous_status,omitempty"`
	NewStatus           string `json:"new_status,omitempty"`
}

// HistoryEntry drops the action-specific fields; only these are persisted.
func (e Envelope) HistoryEntry() ChatMessage {
	return e.ChatMessage
}

type ChatResponse struct {
	Message []Envelope `json:"message"`
}

// Document is a file held by the document store.
type Document struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Folder    string    `json:"folder,omitempty"`
	FileType  string    `json:"file_type,omitempty"`
	Contents  string    `json:"contents"`
	Version   uint64    `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (d *Document) Info() DocumentInfo {
	return DocumentInfo{
		ID:        d.ID,
		Name:      d.Name,
		Folder:    d.Folder,
		FileType:  d.FileType,
		Size:      len(d.Contents),
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

type DocumentInfo struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Folder    string    `json:"folder,omitempty"`
	FileType  string    `json:"file_type,omitempty"`
	Size      int       `json:"size"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TransactionRecord is the lookup result for a transaction command.
type TransactionRecord struct {
	ID             int64
	Number         string
	EntityName     string
	Date           string
	Status         string
	ApprovalStatus int
}

// QueryResult keeps the column order reported by the driver.
type QueryResult struct {
	Columns []string        `json:"columns"`
	Rows    [][]interface{} `json:"rows"`
}

func (r *QueryResult) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Rows)
}

// RecordsJSON renders the rows as an indented array of objects whose keys follow
// the column order.
func (r *QueryResult) RecordsJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, row := range r.Rows {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('{')
		for j, col := range r.Columns {
			if j > 0 {
				buf.WriteByte(',')
			}
			key, err := json.Marshal(col)
			if err != nil {
				return nil, err
			}
			var value interface{}
			if j < len(row) {
				value = row[j]
			}
			val, err := json.Marshal(value)
			if err != nil {
				return nil, err
			}
			buf.Write(key)
			buf.WriteByte(':')
			buf.Write(val)
		}
		buf.WriteByte('}')
	}
	buf.WriteByte(']')

	var out bytes.Buffer
	if err := json.Indent(&out, buf.Bytes(), "", "  "); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}
