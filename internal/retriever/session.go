package retriever

import (
	"sort"
	"strings"
	"time"

	"docqa/internal/domain"
)

// DocumentInfo is a read-only summary of an ingested document, used by
// the host UI for its status display.
type DocumentInfo struct {
	ID           string
	Filename     string
	DocumentType domain.DocumentType
	Chunks       int
	Words        int
	Characters   int
	Embedded     bool
	CreatedAt    time.Time
}

// Document returns the summary for one ingested document.
func (e *Engine) Document(id string) (DocumentInfo, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	sess, ok := e.sessions[id]
	if !ok {
		return DocumentInfo{}, false
	}
	return infoFor(sess), true
}

// Documents lists all ingested documents in ingestion order.
func (e *Engine) Documents() []DocumentInfo {
	e.mu.RLock()
	defer e.mu.RUnlock()
	infos := make([]DocumentInfo, 0, len(e.sessions))
	for _, sess := range e.sessions {
		infos = append(infos, infoFor(sess))
	}
	sort.Slice(infos, func(i, j int) bool {
		if !infos[i].CreatedAt.Equal(infos[j].CreatedAt) {
			return infos[i].CreatedAt.Before(infos[j].CreatedAt)
		}
		return infos[i].ID < infos[j].ID
	})
	return infos
}

// Remove drops a document and its vectors from the session.
func (e *Engine) Remove(id string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.sessions[id]; !ok {
		return
	}
	delete(e.sessions, id)
	if e.store != nil {
		_ = e.store.Remove(id)
	}
}

func infoFor(sess *session) DocumentInfo {
	return DocumentInfo{
		ID:           sess.doc.ID,
		Filename:     sess.doc.Filename,
		DocumentType: sess.docType,
		Chunks:       len(sess.chunks),
		Words:        len(strings.Fields(sess.doc.Text)),
		Characters:   len(sess.doc.Text),
		Embedded:     sess.embedded,
		CreatedAt:    sess.doc.CreatedAt,
	}
}
