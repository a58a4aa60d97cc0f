// Package benchmark contains Go benchmarks for index build, term lookup and
// strategy evaluation, measuring throughput and allocation behaviour.
package benchmark

import (
	"fmt"
	"testing"

	"github.com/Adithya-Monish-Kumar-K/people-search/internal/indexer/index"
	"github.com/Adithya-Monish-Kumar-K/people-search/internal/searcher/executor"
	"github.com/Adithya-Monish-Kumar-K/people-search/internal/searcher/parser"
)

var (
	firstNames = []string{"alice", "bob", "carol", "dwight", "erick", "katie", "myrtle", "rene"}
	lastNames  = []string{"smith", "jones", "webb", "jacobs", "medina", "burgess", "harrington"}
)

func corpus(n int) []string {
	records := make([]string, n)
	for i := range records {
		first := firstNames[i%len(firstNames)]
		last := lastNames[(i/len(firstNames))%len(lastNames)]
		records[i] = fmt.Sprintf("%s %s %s.%s%d@example.com", first, last, first, last, i)
	}
	return records
}

// BenchmarkBuild measures index construction at several corpus sizes.
func BenchmarkBuild(b *testing.B) {
	for _, size := range []int{100, 1000, 10000} {
		records := corpus(size)
		b.Run(fmt.Sprintf("records_%d", size), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				_ = index.Build(records)
			}
		})
	}
}

// BenchmarkQuery measures multi-term lookup over 10 000 records.
func BenchmarkQuery(b *testing.B) {
	ix := index.Build(corpus(10000))
	terms := []string{"alice", "jones", "nobody"}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = ix.Query(terms)
	}
}

// BenchmarkQueryParallel measures concurrent read throughput on the
// immutable index.
func BenchmarkQueryParallel(b *testing.B) {
	ix := index.Build(corpus(10000))
	terms := []string{"alice", "jones"}

	b.ReportAllocs()
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			_ = ix.Query(terms)
		}
	})
}

// BenchmarkEvaluate measures each strategy over 10 000 records.
func BenchmarkEvaluate(b *testing.B) {
	ix := index.Build(corpus(10000))
	result := ix.Query([]string{"alice", "jones", "webb"})
	for _, strategy := range parser.Strategies {
		b.Run(strategy.String(), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				_ = executor.Evaluate(result, strategy, ix.Len())
			}
		})
	}
}
