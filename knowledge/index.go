package knowledge

import (
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/deskmesh/deskmesh/core"
)

// Entry is one indexed document with its precomputed embedding.
type Entry struct {
	ID      string
	Title   string
	Content string
	Tags    []string
	Source  string

	vec Vector
}

// NewEntry builds an Entry embedding the title and content together, the
// same text the search query is matched against.
func NewEntry(id, title, content, source string, tags []string) Entry {
	return Entry{
		ID:      id,
		Title:   title,
		Content: content,
		Tags:    tags,
		Source:  source,
		vec:     Embed(title + " " + content),
	}
}

// MemoryMeta carries the caller-supplied identity of an ad hoc memory entry.
type MemoryMeta struct {
	ID     string
	Title  string
	Source string
	Tags   []string
}

// NewMemoryEntry builds an overlay Entry from free text, e.g. a summarized
// ticket history. Overlay entries are searched alongside the index for a
// single turn without being stored (see Index.Search).
func NewMemoryEntry(text string, meta MemoryMeta) Entry {
	title := meta.Title
	if title == "" {
		title = "memory"
	}
	source := meta.Source
	if source == "" {
		source = "memory"
	}
	return Entry{
		ID:      meta.ID,
		Title:   title,
		Content: text,
		Tags:    meta.Tags,
		Source:  source,
		vec:     Embed(text),
	}
}

// Index is the in-memory document store. It is safe for concurrent use: the
// entry slice is guarded by an RWMutex so independent conversations can
// search while a corpus reload or memory ingestion is in flight.
type Index struct {
	mu      sync.RWMutex
	entries []Entry
}

// NewIndex creates an empty index.
func NewIndex() *Index {
	return &Index{}
}

// Load appends the given entries to the index, preserving their order.
// Insertion order is observable: it is the tie-break for equal scores.
func (i *Index) Load(entries []Entry) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.entries = append(i.entries, entries...)
}

// Replace swaps the full entry set in one critical section. Searches
// running concurrently with a corpus reload see either the old corpus or
// the new one, never a mix and never both.
func (i *Index) Replace(entries []Entry) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.entries = entries
}

// Reset discards all indexed entries.
func (i *Index) Reset() {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.entries = nil
}

// Len returns the number of indexed entries.
func (i *Index) Len() int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return len(i.entries)
}

// AddMemory permanently ingests one ad hoc record. Most callers should
// prefer passing NewMemoryEntry results to Search instead, which scopes the
// memory to a single query.
func (i *Index) AddMemory(text string, meta MemoryMeta) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if meta.ID == "" {
		meta.ID = fmt.Sprintf("mem-%d", len(i.entries)+1)
	}
	i.entries = append(i.entries, NewMemoryEntry(text, meta))
}

// Search ranks indexed entries (plus any turn-scoped overlay entries)
// against the query by cosine similarity and returns at most k hits.
//
// Ranking rules, all observable by callers:
//   - zero-or-negative scores are discarded, never returned
//   - remaining hits sort descending by score; ties keep insertion order
//   - returned scores are rounded to 3 decimal places for display stability
func (i *Index) Search(query string, k int, overlay ...Entry) []core.KnowledgeHit {
	q := Embed(query)

	i.mu.RLock()
	scored := make([]scoredEntry, 0, len(i.entries)+len(overlay))
	for _, e := range i.entries {
		if s := q.Dot(e.vec); s > 0 {
			scored = append(scored, scoredEntry{entry: e, score: s})
		}
	}
	i.mu.RUnlock()

	for _, e := range overlay {
		if s := q.Dot(e.vec); s > 0 {
			scored = append(scored, scoredEntry{entry: e, score: s})
		}
	}

	sort.SliceStable(scored, func(a, b int) bool {
		return scored[a].score > scored[b].score
	})

	if k > 0 && len(scored) > k {
		scored = scored[:k]
	}

	hits := make([]core.KnowledgeHit, 0, len(scored))
	for _, se := range scored {
		hits = append(hits, core.KnowledgeHit{
			ID:      se.entry.ID,
			Title:   se.entry.Title,
			Content: se.entry.Content,
			Score:   round3(se.score),
			Source:  se.entry.Source,
			Tags:    se.entry.Tags,
		})
	}
	return hits
}

type scoredEntry struct {
	entry Entry
	score float64
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
