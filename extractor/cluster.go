package extractor

import (
	"fmt"
	"math/rand/v2"

	"github.com/ridoystarlord/sprocmap/schema"
)

// DefaultNumberOfClusters is used when Options leaves NumberOfClusters unset.
const DefaultNumberOfClusters = 5

// Options controls clustering.
type Options struct {
	NumberOfClusters int
	// Seed fixes centroid initialisation. When nil a random seed is drawn
	// and two runs over the same rows may group them differently.
	Seed          *uint64
	MaxIterations int
	Tolerance     float64
}

func (o Options) clusters() int {
	if o.NumberOfClusters == 0 {
		return DefaultNumberOfClusters
	}
	return o.NumberOfClusters
}

// ResolveSeed returns the seed clustering will use, drawing one if none is set.
func (o Options) ResolveSeed() uint64 {
	if o.Seed != nil {
		return *o.Seed
	}
	return rand.Uint64()
}

// Cluster groups rows whose table, procedure and operation type read alike.
// It returns a copy of rows with CombinedFeature and ClusterLabel filled in.
func Cluster(rows []schema.TableOperationRow, opts Options) ([]schema.TableOperationRow, error) {
	k := opts.clusters()
	if k < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidClusterCount, k)
	}

	out := schema.CloneRows(rows)
	docs := make([]string, len(out))
	for i := range out {
		out[i].CombinedFeature = CombinedFeature(out[i])
		docs[i] = out[i].CombinedFeature
	}

	var vectorizer Vectorizer
	points := vectorizer.FitTransform(docs)

	seed := opts.ResolveSeed()
	km := KMeans{
		K:             k,
		MaxIterations: opts.MaxIterations,
		Tolerance:     opts.Tolerance,
		Rand:          rand.New(rand.NewPCG(seed, seed)),
	}
	km.Fit(points)

	for i := range out {
		out[i].ClusterLabel = km.Labels[i]
	}
	return out, nil
}
