package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"erpchat/cache"
	"erpchat/logging"
)

func TestReferenceLibrary_DocumentIsCached(t *testing.T) {
	docs := &memDocs{}
	id := docs.add("preamble.txt", "v1")
	lib := NewReferenceLibrary(docs, cache.New(time.Minute), ".txt", logging.Discard())

	got, err := lib.Document(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "v1", got)

	docs.docs[0].Contents = "v2"
	got, err = lib.Document(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "v1", got)
}

func TestReferenceLibrary_EmptyID(t *testing.T) {
	lib := NewReferenceLibrary(&memDocs{}, cache.New(time.Minute), ".txt", logging.Discard())
	_, err := lib.Document(context.Background(), "")
	assert.ErrorIs(t, err, ErrNoDocument)
}

func TestReferenceLibrary_TableDocsSkipsFailures(t *testing.T) {
	docs := &memDocs{}
	docs.add("customer.txt", "C;")
	brokenID := docs.add("item.txt", "I;")
	docs.add("invoice.txt", "V;")
	docs.loadErr = map[string]error{brokenID: errors.New("corrupt")}
	lib := NewReferenceLibrary(docs, cache.New(time.Minute), ".txt", logging.Discard())

	got := lib.TableDocs(context.Background(), []string{"invoice", "item", "missing", "customer"})

	assert.Equal(t, "V;C;", got)
	assert.Equal(t, 1, docs.finds)
}

func TestReferenceLibrary_TableDocsNoTables(t *testing.T) {
	docs := &memDocs{}
	lib := NewReferenceLibrary(docs, cache.New(time.Minute), ".txt", logging.Discard())

	assert.Empty(t, lib.TableDocs(context.Background(), nil))
	assert.Zero(t, docs.finds)
}
