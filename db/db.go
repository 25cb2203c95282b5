package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"

	"erpchat/models"
)

// ErrNotFound is returned when a document id or name is unknown.
var ErrNotFound = errors.New("document not found")

const (
	docPrefix     = "doc:"
	namePrefix    = "docname:"
	sequenceKey   = "seq:doc"
	sequenceLease = 100
)

type DB struct {
	badgerDB *badger.DB
	seq      *badger.Sequence
}

func New(dbPath string) (*DB, error) {
	opts := badger.DefaultOptions(dbPath)
	opts.Logger = nil // Disable badger logging for cleaner output
	return open(opts)
}

// NewInMemory opens a store that lives only as long as the process.
func NewInMemory() (*DB, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil
	return open(opts)
}

func open(opts badger.Options) (*DB, error) {
	badgerDB, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	seq, err := badgerDB.GetSequence([]byte(sequenceKey), sequenceLease)
	if err != nil {
		badgerDB.Close()
		return nil, fmt.Errorf("failed to open id sequence: %w", err)
	}

	return &DB{badgerDB: badgerDB, seq: seq}, nil
}

func (d *DB) Close() error {
	if err := d.seq.Release(); err != nil {
		d.badgerDB.Close()
		return fmt.Errorf("failed to release id sequence: %w", err)
	}
	return d.badgerDB.Close()
}

func docKey(id uint64) []byte {
	return []byte(fmt.Sprintf("%s%020d", docPrefix, id))
}

func nameKey(name string, id uint64) []byte {
	return []byte(fmt.Sprintf("%s%s\x00%020d", namePrefix, name, id))
}

func parseID(id string) (uint64, error) {
	n, err := strconv.ParseUint(strings.TrimSpace(id), 10, 64)
	if err != nil || n == 0 {
		return 0, fmt.Errorf("invalid document id %q: %w", id, ErrNotFound)
	}
	return n, nil
}

// Create stores a new document and returns its id.
func (d *DB) Create(ctx context.Context, doc models.Document) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if doc.Name == "" {
		return "", errors.New("document name is required")
	}

	next, err := d.seq.Next()
	if err != nil {
		return "", fmt.Errorf("failed to allocate document id: %w", err)
	}
	id := next + 1

	now := time.Now().UTC()
	doc.ID = strconv.FormatUint(id, 10)
	doc.Version = 1
	doc.CreatedAt = now
	doc.UpdatedAt = now
	if doc.FileType == "" {
		doc.FileType = strings.TrimPrefix(strings.ToLower(filepath.Ext(doc.Name)), ".")
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("failed to encode document: %w", err)
	}

	err = d.badgerDB.Update(func(txn *badger.Txn) error {
		if err := txn.Set(docKey(id), data); err != nil {
			return err
		}
		return txn.Set(nameKey(doc.Name, id), nil)
	})
	if err != nil {
		return "", fmt.Errorf("failed to store document %s: %w", doc.Name, err)
	}
	return doc.ID, nil
}

// Load returns the document with the given id.
func (d *DB) Load(ctx context.Context, id string) (*models.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	n, err := parseID(id)
	if err != nil {
		return nil, err
	}

	var doc *models.Document
	err = d.badgerDB.View(func(txn *badger.Txn) error {
		var err error
		doc, err = getDocument(txn, n)
		return err
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func getDocument(txn *badger.Txn, id uint64) (*models.Document, error) {
	item, err := txn.Get(docKey(id))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, fmt.Errorf("document %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read document %d: %w", id, err)
	}

	var doc models.Document
	err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, &doc)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to decode document %d: %w", id, err)
	}
	return &doc, nil
}

func putDocument(txn *badger.Txn, doc *models.Document) error {
	id, err := parseID(doc.ID)
	if err != nil {
		return err
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode document %s: %w", doc.ID, err)
	}
	return txn.Set(docKey(id), data)
}

// FindByNames resolves every name in one read transaction. Names without a document
// are skipped; when a name is shared the most recent document wins. Results follow
// the order of names.
func (d *DB) FindByNames(ctx context.Context, names []string) ([]models.DocumentInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var infos []models.DocumentInfo

	err := d.badgerDB.View(func(txn *badger.Txn) error {
		for _, name := range names {
			if name == "" {
				continue
			}
			opts := badger.DefaultIteratorOptions
			opts.PrefetchValues = false
			opts.Prefix = []byte(namePrefix + name + "\x00")

			var latest uint64
			it := txn.NewIterator(opts)
			for it.Rewind(); it.Valid(); it.Next() {
				key := string(it.Item().Key())
				raw := key[len(opts.Prefix):]
				if id, err := strconv.ParseUint(raw, 10, 64); err == nil {
					latest = id
				}
			}
			it.Close()

			if latest == 0 {
				continue
			}
			doc, err := getDocument(txn, latest)
			if errors.Is(err, ErrNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			infos = append(infos, doc.Info())
		}
		return nil
	})

	return infos, err
}

// List returns every document whose name contains filter, oldest first.
func (d *DB) List(ctx context.Context, filter string) ([]models.DocumentInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	infos := []models.DocumentInfo{}
	filter = strings.ToLower(filter)

	err := d.badgerDB.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(docPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			var doc models.Document
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &doc)
			})
			if err != nil {
				return fmt.Errorf("failed to decode %s: %w", it.Item().Key(), err)
			}
			if filter != "" && !strings.Contains(strings.ToLower(doc.Name), filter) {
				continue
			}
			infos = append(infos, doc.Info())
		}
		return nil
	})

	return infos, err
}

// EnsureDocument returns id when it names a stored document, otherwise creates a new
// document with the given name and contents. created reports which happened.
func (d *DB) EnsureDocument(ctx context.Context, id, name, contents string) (string, bool, error) {
	if id != "" {
		_, err := d.Load(ctx, id)
		if err == nil {
			return id, false, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return "", false, err
		}
	}

	newID, err := d.Create(ctx, models.Document{Name: name, Contents: contents})
	if err != nil {
		return "", false, err
	}
	return newID, true, nil
}

// LoadFilesFromDir reads every regular file below dir as a document in folder.
func (d *DB) LoadFilesFromDir(dir, folder string) ([]models.Document, error) {
	var docs []models.Document

	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", dir)
	}

	err = filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.Mode().IsRegular() || strings.HasPrefix(info.Name(), ".") {
			return nil
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		docs = append(docs, models.Document{
			Name:     info.Name(),
			Folder:   folder,
			Contents: string(content),
		})
		return nil
	})

	return docs, err
}

// ImportDir stores every file of dir and returns the created documents.
func (d *DB) ImportDir(ctx context.Context, dir, folder string) ([]models.DocumentInfo, error) {
	docs, err := d.LoadFilesFromDir(dir, folder)
	if err != nil {
		return nil, err
	}

	infos := make([]models.DocumentInfo, 0, len(docs))
	for _, doc := range docs {
		id, err := d.Create(ctx, doc)
		if err != nil {
			return infos, err
		}
		doc.ID = id
		infos = append(infos, doc.Info())
	}
	return infos, nil
}
