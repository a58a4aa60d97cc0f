package executor

import (
	"github.com/RoaringBitmap/roaring/v2"

	"github.com/Adithya-Monish-Kumar-K/people-search/internal/indexer/index"
	"github.com/Adithya-Monish-Kumar-K/people-search/internal/searcher/parser"
)

// Evaluate combines per-term postings under strategy and returns the matching
// record positions in ascending order without duplicates. total is the number
// of records; positions outside [0, total) are ignored.
func Evaluate(result index.QueryResult, strategy parser.Strategy, total int) []int {
	sets := make([]*roaring.Bitmap, 0, len(result))
	for _, postings := range result {
		sets = append(sets, bitmapOf(postings, total))
	}
	switch strategy {
	case parser.StrategyAll:
		return toPositions(matchAll(sets))
	case parser.StrategyAny:
		return toPositions(touched(sets))
	case parser.StrategyNone:
		return toPositions(matchNone(sets, total))
	default:
		return []int{}
	}
}

// touched is the union of every term's postings.
func touched(sets []*roaring.Bitmap) *roaring.Bitmap {
	if len(sets) == 0 {
		return roaring.New()
	}
	return roaring.FastOr(sets...)
}

// matchAll keeps the touched positions present in every set. With no sets
// nothing is touched, so nothing matches.
func matchAll(sets []*roaring.Bitmap) *roaring.Bitmap {
	if len(sets) == 0 {
		return roaring.New()
	}
	return roaring.FastAnd(sets...)
}

func matchNone(sets []*roaring.Bitmap, total int) *roaring.Bitmap {
	all := roaring.New()
	if total > 0 {
		all.AddRange(0, uint64(total))
	}
	all.AndNot(touched(sets))
	return all
}

func bitmapOf(postings index.PostingList, total int) *roaring.Bitmap {
	bm := roaring.New()
	for _, pos := range postings {
		if pos < 0 || pos >= total {
			continue
		}
		bm.Add(uint32(pos))
	}
	return bm
}

func toPositions(bm *roaring.Bitmap) []int {
	out := make([]int, 0, bm.GetCardinality())
	it := bm.Iterator()
	for it.HasNext() {
		out = append(out, int(it.Next()))
	}
	return out
}
