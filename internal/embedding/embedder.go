package embedding

import "context"

// Embedder converts free text into numeric vectors. Embed is a synchronous
// call; implementations backed by a network service must bound it with a
// request timeout.
type Embedder interface {
	Name() string
	Dimension() int
	Embed(ctx context.Context, texts []string) ([][]float64, error)
}
