// Package index implements the immutable word-level inverted index over an
// ordered list of records.
package index

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"

	"github.com/Adithya-Monish-Kumar-K/people-search/internal/indexer/tokenizer"
)

// InvertedIndex maps each lowercase term to the positions of the records it
// occurs in. It is never modified after Build, so concurrent readers need no
// locking.
type InvertedIndex struct {
	records     []string
	index       map[string]PostingList
	fingerprint string
}

// Build indexes records. Record i contributes position i once for every
// occurrence of each of its terms. Empty and blank records contribute nothing.
func Build(records []string) *InvertedIndex {
	owned := make([]string, len(records))
	copy(owned, records)

	idx := make(map[string]PostingList)
	for pos, record := range owned {
		for _, token := range tokenizer.Tokenize(record) {
			idx[token.Term] = append(idx[token.Term], pos)
		}
	}
	return &InvertedIndex{
		records:     owned,
		index:       idx,
		fingerprint: fingerprint(owned),
	}
}

// Search returns the postings of a single term, or an empty list.
func (ix *InvertedIndex) Search(term string) PostingList {
	postings, ok := ix.index[term]
	if !ok {
		return PostingList{}
	}
	out := make(PostingList, len(postings))
	copy(out, postings)
	return out
}

// Query looks up every term as given. The result has exactly one entry per
// distinct term.
func (ix *InvertedIndex) Query(terms []string) QueryResult {
	result := make(QueryResult, len(terms))
	for _, term := range terms {
		result[term] = ix.Search(term)
	}
	return result
}

// Len returns the number of records, including blank ones.
func (ix *InvertedIndex) Len() int {
	return len(ix.records)
}

// Record returns the record at pos.
func (ix *InvertedIndex) Record(pos int) (string, bool) {
	if pos < 0 || pos >= len(ix.records) {
		return "", false
	}
	return ix.records[pos], true
}

// Records returns a copy of all records in their original order.
func (ix *InvertedIndex) Records() []string {
	out := make([]string, len(ix.records))
	copy(out, ix.records)
	return out
}

// Terms returns the number of distinct terms.
func (ix *InvertedIndex) Terms() int {
	return len(ix.index)
}

// Fingerprint identifies the record set. Two indexes built from equal record
// sequences share a fingerprint.
func (ix *InvertedIndex) Fingerprint() string {
	return ix.fingerprint
}

func fingerprint(records []string) string {
	h := sha256.New()
	var lenBuf [8]byte
	for _, record := range records {
		binary.LittleEndian.PutUint64(lenBuf[:], uint64(len(record)))
		h.Write(lenBuf[:])
		h.Write([]byte(record))
	}
	return fmt.Sprintf("%x", h.Sum(nil)[:16])
}
