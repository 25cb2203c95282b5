package service

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"erpchat/cache"
)

// ErrNoDocument is returned when a document id setting is empty.
var ErrNoDocument = errors.New("document id is not configured")

// ReferenceLibrary serves prompt documents (preamble, table index, table docs, page
// template) from the document store through an in-process cache.
type ReferenceLibrary struct {
	docs   DocumentStore
	cache  *cache.Cache
	ext    string
	logger *logrus.Entry
}

func NewReferenceLibrary(docs DocumentStore, c *cache.Cache, ext string, logger *logrus.Entry) *ReferenceLibrary {
	return &ReferenceLibrary{docs: docs, cache: c, ext: ext, logger: logger}
}

// Document returns the contents of the document with the given id.
func (r *ReferenceLibrary) Document(ctx context.Context, id string) (string, error) {
	if id == "" {
		return "", ErrNoDocument
	}
	key := "doc:" + id
	if contents, ok := r.cache.GetString(key); ok {
		return contents, nil
	}

	doc, err := r.docs.Load(ctx, id)
	if err != nil {
		return "", err
	}
	r.cache.SetDefault(key, doc.Contents)
	return doc.Contents, nil
}

// TableDocs looks up "<table><ext>" for every table in one search and concatenates
// the contents of the documents found, in table order. Documents that cannot be
// loaded are skipped.
func (r *ReferenceLibrary) TableDocs(ctx context.Context, tables []string) string {
	if len(tables) == 0 {
		return ""
	}

	names := make([]string, len(tables))
	for i, t := range tables {
		names[i] = t + r.ext
	}

	infos, err := r.docs.FindByNames(ctx, names)
	if err != nil {
		r.logger.WithError(err).WithField("tables", tables).Error("failed to search table documents")
		return ""
	}

	ids := make(map[string]string, len(infos))
	for _, info := range infos {
		ids[info.Name] = info.ID
	}

	var sb strings.Builder
	for _, name := range names {
		id, ok := ids[name]
		if !ok {
			r.logger.WithField("file", name).Debug("no table document")
			continue
		}
		contents, err := r.Document(ctx, id)
		if err != nil {
			r.logger.WithError(err).WithField("file", name).Error("failed to load table document")
			continue
		}
		sb.WriteString(contents)
	}
	return sb.String()
}
