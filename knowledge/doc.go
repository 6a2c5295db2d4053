// Package knowledge contains the in-memory retrieval engine: bag-of-words
// sparse vectors, an L2-normalized cosine ranking index, and a JSONL corpus
// loader.
//
// The index intentionally uses a linear scan — at support-article scale an
// inverted index buys nothing and the ranking rules (zero-score exclusion,
// stable insertion-order ties, 3-decimal display rounding) determine which
// article the workflow surfaces, so they must hold exactly regardless of
// index structure.
package knowledge
