package augment

import (
	"slices"

	"github.com/lango-rag/ragchat/rag"
)

// Fuse merges ranked result lists with reciprocal rank fusion: a document at
// 1-based rank r in a list scores 1/(k+r), summed over lists. Documents with
// the same content are merged. A single list keeps its order.
func Fuse(lists [][]rag.Document, k int) []rag.Document {
	if k <= 0 {
		k = DefaultRRFK
	}

	type fused struct {
		doc   rag.Document
		score float64
	}

	var order []*fused
	byContent := make(map[string]*fused)

	for _, list := range lists {
		for rank, doc := range list {
			score := 1.0 / float64(k+rank+1)
			if f, ok := byContent[doc.Content]; ok {
				f.score += score
				continue
			}
			f := &fused{doc: doc, score: score}
			byContent[doc.Content] = f
			order = append(order, f)
		}
	}

	slices.SortStableFunc(order, func(a, b *fused) int {
		switch {
		case a.score > b.score:
			return -1
		case a.score < b.score:
			return 1
		default:
			return 0
		}
	})

	docs := make([]rag.Document, len(order))
	for i, f := range order {
		docs[i] = f.doc
	}
	return docs
}
