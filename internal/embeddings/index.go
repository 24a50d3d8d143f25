package embeddings

import (
	"sync"

	"github.com/coder/hnsw"
)

// Neighbor is a single semantic search result.
type Neighbor struct {
	ID         string
	Similarity float32
}

// Index maps signal ids to embedding vectors using an HNSW graph with
// cosine distance. Safe for concurrent use.
type Index struct {
	mu    sync.RWMutex
	graph *hnsw.Graph[string]
}

// NewIndex creates an empty vector index.
func NewIndex() *Index {
	g := hnsw.NewGraph[string]()
	g.Distance = hnsw.CosineDistance
	g.M = 16
	g.EfSearch = 32

	return &Index{graph: g}
}

// Add inserts or replaces the vector for id.
func (ix *Index) Add(id string, vec []float32) {
	if len(vec) == 0 {
		return
	}

	ix.mu.Lock()
	defer ix.mu.Unlock()

	// Graph.Add does not support re-adding a live key; drop it first.
	if _, ok := ix.graph.Lookup(id); ok {
		ix.graph.Delete(id)
	}

	ix.graph.Add(hnsw.MakeNode(id, vec))
}

// Remove deletes id from the index.
func (ix *Index) Remove(id string) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.graph.Delete(id)
}

// Len returns the number of indexed vectors.
func (ix *Index) Len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.graph.Len()
}

// Search returns up to k neighbors of vec ordered by similarity descending.
// Cosine distance ranges 0 (identical) to 2 (opposite); similarity is
// 1 - distance/2.
func (ix *Index) Search(vec []float32, k int) []Neighbor {
	if len(vec) == 0 || k <= 0 {
		return nil
	}

	ix.mu.RLock()
	defer ix.mu.RUnlock()

	if ix.graph.Len() == 0 {
		return nil
	}

	nodes := ix.graph.Search(vec, k)
	neighbors := make([]Neighbor, 0, len(nodes))

	for _, n := range nodes {
		if len(n.Value) != len(vec) {
			continue
		}
		distance := hnsw.CosineDistance(vec, n.Value)
		neighbors = append(neighbors, Neighbor{
			ID:         n.Key,
			Similarity: 1.0 - (distance / 2.0),
		})
	}

	return neighbors
}
