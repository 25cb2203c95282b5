package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"erpchat/ai"
	"erpchat/command"
	"erpchat/db"
	"erpchat/models"
)

type fakeTransactionStore struct {
	records    map[command.Kind]map[string]*models.TransactionRecord
	findErr    error
	receiveErr error
	approveErr error

	approved []int64
	received []int64
	nextID   int64
}

func newFakeTransactionStore() *fakeTransactionStore {
	return &fakeTransactionStore{
		records: map[command.Kind]map[string]*models.TransactionRecord{},
		nextID:  900,
	}
}

func (f *fakeTransactionStore) add(kind command.Kind, rec models.TransactionRecord) {
	if f.records[kind] == nil {
		f.records[kind] = map[string]*models.TransactionRecord{}
	}
	f.records[kind][strings.ToUpper(rec.Number)] = &rec
}

func (f *fakeTransactionStore) Find(_ context.Context, kind command.Kind, number string) (*models.TransactionRecord, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	rec, ok := f.records[kind][strings.ToUpper(number)]
	if !ok {
		return nil, ErrTransactionNotFound
	}
	cp := *rec
	return &cp, nil
}

func (f *fakeTransactionStore) ReceivePurchaseOrder(_ context.Context, poID int64) (int64, string, error) {
	if f.receiveErr != nil {
		return 0, "", f.receiveErr
	}
	var po *models.TransactionRecord
	for _, rec := range f.records[command.PurchaseOrder] {
		if rec.ID == poID {
			po = rec
		}
	}
	if po == nil || po.ApprovalStatus != ApprovedStatus {
		return 0, "", ErrNotReceivable
	}
	switch po.Status {
	case "Pending Billing", "Fully Billed", "Closed":
		return 0, "", ErrNotReceivable
	}
	po.Status = "Pending Billing"
	f.received = append(f.received, poID)
	f.nextID++
	return f.nextID, fmt.Sprintf("IR%d", f.nextID), nil
}

func (f *fakeTransactionStore) Approve(_ context.Context, kind command.Kind, id int64) error {
	if f.approveErr != nil {
		return f.approveErr
	}
	for _, rec := range f.records[kind] {
		if rec.ID == id {
			rec.Status = ApprovedStatusText
			rec.ApprovalStatus = ApprovedStatus
		}
	}
	f.approved = append(f.approved, id)
	return nil
}

type fakeGenerator struct {
	mu        sync.Mutex
	responses map[string][]string
	errs      map[string]error
	calls     map[string][][]ai.Message
}

func newFakeGenerator() *fakeGenerator {
	return &fakeGenerator{
		responses: map[string][]string{},
		errs:      map[string]error{},
		calls:     map[string][][]ai.Message{},
	}
}

func (f *fakeGenerator) on(purpose string, responses ...string) *fakeGenerator {
	f.responses[purpose] = append(f.responses[purpose], responses...)
	return f
}

func (f *fakeGenerator) Generate(_ context.Context, purpose string, messages []ai.Message) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[purpose] = append(f.calls[purpose], messages)
	if err := f.errs[purpose]; err != nil {
		return "", err
	}
	queue := f.responses[purpose]
	if len(queue) == 0 {
		return "", nil
	}
	resp := queue[0]
	if len(queue) > 1 {
		f.responses[purpose] = queue[1:]
	}
	return resp, nil
}

type fakeRunner struct {
	results []*models.QueryResult
	errs    []error
	queries []string
}

func (f *fakeRunner) Run(_ context.Context, query string) (*models.QueryResult, error) {
	i := len(f.queries)
	f.queries = append(f.queries, query)
	if i < len(f.errs) && f.errs[i] != nil {
		return nil, f.errs[i]
	}
	if i < len(f.results) {
		return f.results[i], nil
	}
	return &models.QueryResult{}, nil
}

// memDocs is an in-memory DocumentStore.
type memDocs struct {
	mu      sync.Mutex
	docs    []models.Document
	loadErr map[string]error
	finds   int
}

func (m *memDocs) Load(_ context.Context, id string) (*models.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.loadErr[id]; err != nil {
		return nil, err
	}
	for i := range m.docs {
		if m.docs[i].ID == id {
			d := m.docs[i]
			return &d, nil
		}
	}
	return nil, fmt.Errorf("document %s: %w", id, db.ErrNotFound)
}

func (m *memDocs) Create(_ context.Context, doc models.Document) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc.ID = strconv.Itoa(len(m.docs) + 1)
	m.docs = append(m.docs, doc)
	return doc.ID, nil
}

func (m *memDocs) FindByNames(_ context.Context, names []string) ([]models.DocumentInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.finds++
	var out []models.DocumentInfo
	for _, n := range names {
		for i := len(m.docs) - 1; i >= 0; i-- {
			if m.docs[i].Name == n {
				out = append(out, m.docs[i].Info())
				break
			}
		}
	}
	return out, nil
}

func (m *memDocs) add(name, contents string) string {
	id, _ := m.Create(context.Background(), models.Document{Name: name, Contents: contents})
	return id
}

type memHistory struct {
	mu        sync.Mutex
	entries   []models.ChatMessage
	appendErr error
}

func (h *memHistory) Load(context.Context) ([]models.ChatMessage, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]models.ChatMessage{}, h.entries...), nil
}

func (h *memHistory) Append(ctx context.Context, entry models.ChatMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.appendErr != nil {
		return h.appendErr
	}
	h.entries = append(h.entries, entry)
	return nil
}
