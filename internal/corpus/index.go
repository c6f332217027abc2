package corpus

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/coder/hnsw"

	"github.com/kailas-cloud/ragdex/internal/domain"
)

// Hit is a nearest-neighbor match. Distance is the squared L2 distance
// between the query and the stored vector.
type Hit struct {
	Pos      int
	Distance float64
}

// VectorIndex is a nearest-neighbor index over document embeddings,
// keyed by corpus position. Read-only after build/load.
type VectorIndex struct {
	graph *hnsw.Graph[int]
	dim   int
}

// NewVectorIndex creates an empty index for vectors of the given dimension.
func NewVectorIndex(dim int) *VectorIndex {
	return &VectorIndex{graph: newGraph(), dim: dim}
}

func newGraph() *hnsw.Graph[int] {
	g := hnsw.NewGraph[int]()
	g.Distance = hnsw.EuclideanDistance
	g.M = 16
	g.EfSearch = 20
	g.Ml = 0.25
	return g
}

// Add inserts a document vector at the given corpus position.
func (x *VectorIndex) Add(pos int, vec []float32) error {
	if len(vec) != x.dim {
		return domain.NewDimensionMismatch(x.dim, len(vec))
	}
	x.graph.Add(hnsw.MakeNode(pos, vec))
	return nil
}

// Len returns the number of indexed vectors.
func (x *VectorIndex) Len() int { return x.graph.Len() }

// Dim returns the configured vector dimension.
func (x *VectorIndex) Dim() int { return x.dim }

// Search returns the k nearest vectors to the query by squared L2 distance,
// ascending. Equal distances are broken by corpus position, first wins.
func (x *VectorIndex) Search(query []float32, k int) ([]Hit, error) {
	if len(query) != x.dim {
		return nil, domain.NewDimensionMismatch(x.dim, len(query))
	}
	if x.graph.Len() == 0 || k <= 0 {
		return []Hit{}, nil
	}

	nodes := x.graph.Search(query, k)
	hits := make([]Hit, 0, len(nodes))
	for _, node := range nodes {
		hits = append(hits, Hit{Pos: node.Key, Distance: squaredL2(query, node.Value)})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].Distance != hits[j].Distance {
			return hits[i].Distance < hits[j].Distance
		}
		return hits[i].Pos < hits[j].Pos
	})
	return hits, nil
}

// Save persists the index atomically (temp file + rename).
func (x *VectorIndex) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create index directory: %w", err)
	}

	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create index file: %w", err)
	}

	if err := x.graph.Export(f); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("export graph: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("close index file: %w", err)
	}

	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("rename index file: %w", err)
	}
	return nil
}

// LoadVectorIndex reads a persisted index. The dimension is taken from the
// corpus snapshot; Load verifies it against the embedding provider.
func LoadVectorIndex(path string, dim int) (*VectorIndex, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("open index file: %w", err)
	}
	defer func() { _ = f.Close() }()

	g := newGraph()
	// coder/hnsw Import requires an io.ByteReader.
	if err := g.Import(bufio.NewReader(f)); err != nil {
		return nil, fmt.Errorf("import graph: %w", err)
	}

	return &VectorIndex{graph: g, dim: dim}, nil
}

func squaredL2(a, b []float32) float64 {
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return sum
}
