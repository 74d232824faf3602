// Package chunker splits normalized text into overlapping,
// sentence-boundary-respecting segments.
package chunker

import (
	"strconv"

	"docqa/internal/domain"
)

// DefaultChunkSize is the default chunk budget in characters.
const DefaultChunkSize = 1000

// DefaultOverlap is the default overlap between adjacent chunks in characters.
const DefaultOverlap = 200

// ProgressFunc receives the number of characters consumed so far and the
// total length after each closed chunk, so a host UI can show liveness on
// large documents.
type ProgressFunc func(done, total int)

// SentenceChunker accumulates whole sentences into chunks of at most
// chunkSize characters, re-entering each new chunk at a sentence start
// within the trailing overlap of the previous one.
type SentenceChunker struct {
	chunkSize int
	overlap   int
	progress  ProgressFunc
}

// Option configures a SentenceChunker.
type Option func(*SentenceChunker)

// WithProgress registers a progress callback.
func WithProgress(fn ProgressFunc) Option {
	return func(c *SentenceChunker) { c.progress = fn }
}

// New creates a sentence chunker. Invalid sizes fall back to defaults;
// configuration-time validation happens in the config package so the
// chunker itself never fails.
func New(chunkSize, overlap int, opts ...Option) *SentenceChunker {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if overlap < 0 || overlap >= chunkSize {
		overlap = chunkSize / 5
	}
	c := &SentenceChunker{chunkSize: chunkSize, overlap: overlap}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// span is a half-open [start, end) byte range of one sentence in the text.
type span struct {
	start, end int
}

// sentenceSpans scans text with an explicit cursor for sentence boundaries:
// a run of terminal punctuation followed by whitespace or end of text.
// Trailing unterminated text is kept as a final sentence. The punctuation
// set is fixed, so the split is deterministic and locale-independent.
func sentenceSpans(text string) []span {
	var spans []span
	start := 0
	i := 0
	for i < len(text) {
		if !isTerminal(text[i]) {
			i++
			continue
		}
		j := i + 1
		for j < len(text) && isTerminal(text[j]) {
			j++
		}
		if j < len(text) && !isSpace(text[j]) {
			// mid-token punctuation, e.g. "3.14" or "e.g."
			i = j
			continue
		}
		spans = append(spans, span{start, j})
		for j < len(text) && isSpace(text[j]) {
			j++
		}
		start = j
		i = j
	}
	if start < len(text) {
		spans = append(spans, span{start, len(text)})
	}
	return spans
}

func isTerminal(b byte) bool { return b == '.' || b == '!' || b == '?' }

// normalized text only contains plain spaces and newlines
func isSpace(b byte) bool { return b == ' ' || b == '\n' || b == '\t' }

// Chunk splits the document's normalized text. Empty text yields zero
// chunks; the caller treats that as an empty document. Identical input and
// parameters always yield an identical chunk sequence.
func (c *SentenceChunker) Chunk(document domain.Document) ([]domain.Chunk, error) {
	text := document.Text
	spans := sentenceSpans(text)
	if len(spans) == 0 {
		return nil, nil
	}

	var chunks []domain.Chunk
	n := len(spans)
	cur := 0
	for cur < n {
		// Grow the chunk sentence by sentence while it fits the budget.
		// A single sentence longer than the budget is emitted as its own
		// chunk: degraded overlap is the documented trade-off there.
		last := cur
		for last+1 < n && spans[last+1].end-spans[cur].start <= c.chunkSize {
			last++
		}

		idx := len(chunks)
		chunks = append(chunks, domain.Chunk{
			DocumentID: document.ID,
			ID:         document.ID + ":" + strconv.Itoa(idx),
			Index:      idx,
			Text:       text[spans[cur].start:spans[last].end],
			Start:      spans[cur].start,
			End:        spans[last].end,
		})
		if c.progress != nil {
			c.progress(spans[last].end, len(text))
		}
		if last == n-1 {
			break
		}

		// Re-enter at the earliest sentence start inside the trailing
		// overlap of the closed chunk that still leaves room for the next
		// sentence. If none qualifies the next chunk starts fresh.
		next := last + 1
		reentry := next
		for j := cur + 1; j <= last; j++ {
			if spans[last].end-spans[j].start <= c.overlap &&
				spans[next].end-spans[j].start <= c.chunkSize {
				reentry = j
				break
			}
		}
		cur = reentry
	}
	return chunks, nil
}
