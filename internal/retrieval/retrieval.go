// Package retrieval picks the single stored exchange most similar to a query.
//
// The vector space is refit from scratch on every call over the stored user
// messages plus the query. That keeps results exact for an evolving memory at
// O(store size × vocabulary) per call, which is fine at the store's bounded size.
package retrieval

import "persona-bot/internal/memory"

// FindMostRelevant returns the exchange whose user message has the highest
// TF-IDF cosine similarity to query. Ties resolve to the earliest exchange,
// so a query with no usable terms returns the first one. ok is false only
// when exchanges is empty.
func FindMostRelevant(query string, exchanges []memory.Exchange) (memory.Exchange, bool) {
	if len(exchanges) == 0 {
		return memory.Exchange{}, false
	}
	docs := make([]string, 0, len(exchanges)+1)
	for _, ex := range exchanges {
		docs = append(docs, ex.UserMessage)
	}
	docs = append(docs, query)

	rows := fitTransform(docs)
	q := rows[len(rows)-1]
	best, bestScore := 0, cosine(q, rows[0])
	for i := 1; i < len(exchanges); i++ {
		if s := cosine(q, rows[i]); s > bestScore {
			best, bestScore = i, s
		}
	}
	return exchanges[best], true
}

// Retriever runs FindMostRelevant against a snapshot of a memory store.
type Retriever struct {
	store *memory.Store
}

func New(store *memory.Store) *Retriever {
	return &Retriever{store: store}
}

func (r *Retriever) Find(query string) (memory.Exchange, bool) {
	return FindMostRelevant(query, r.store.All())
}
