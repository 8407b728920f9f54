package extractor

import (
	"math"
	"math/rand/v2"
)

const (
	defaultMaxIterations = 300
	defaultTolerance     = 1e-4
)

// KMeans partitions vectors into K groups around iteratively refined centroids.
type KMeans struct {
	K             int
	MaxIterations int
	Tolerance     float64
	Rand          *rand.Rand

	Centroids  [][]float64
	Labels     []int
	Iterations int
}

// Fit assigns every point a label in [0, K). Points must share one dimension.
// Labels with no points are allowed.
func (km *KMeans) Fit(points [][]float64) {
	if km.MaxIterations <= 0 {
		km.MaxIterations = defaultMaxIterations
	}
	if km.Tolerance <= 0 {
		km.Tolerance = defaultTolerance
	}
	if km.Rand == nil {
		km.Rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	km.Labels = make([]int, len(points))
	km.Iterations = 0
	if len(points) == 0 {
		km.Centroids = nil
		return
	}

	km.Centroids = km.initCentroids(points)
	km.assign(points)

	for km.Iterations < km.MaxIterations {
		km.Iterations++
		shift := km.update(points)
		changed := km.assign(points)
		if !changed || shift <= km.Tolerance {
			break
		}
	}
}

// initCentroids seeds centroids with k-means++: each next centroid is a point
// drawn with probability proportional to its squared distance from the
// nearest centroid chosen so far.
func (km *KMeans) initCentroids(points [][]float64) [][]float64 {
	centroids := make([][]float64, 0, km.K)
	centroids = append(centroids, clone(points[km.Rand.IntN(len(points))]))

	dist := make([]float64, len(points))
	for len(centroids) < km.K {
		var total float64
		for i, p := range points {
			dist[i] = math.Inf(1)
			for _, c := range centroids {
				if d := squaredDistance(p, c); d < dist[i] {
					dist[i] = d
				}
			}
			total += dist[i]
		}

		// every point already sits on a centroid
		if total == 0 {
			centroids = append(centroids, clone(points[km.Rand.IntN(len(points))]))
			continue
		}

		target := km.Rand.Float64() * total
		next := len(points) - 1
		for i, d := range dist {
			target -= d
			if target < 0 {
				next = i
				break
			}
		}
		centroids = append(centroids, clone(points[next]))
	}
	return centroids
}

func (km *KMeans) assign(points [][]float64) bool {
	changed := false
	for i, p := range points {
		best := 0
		bestDist := math.Inf(1)
		for c, centroid := range km.Centroids {
			if d := squaredDistance(p, centroid); d < bestDist {
				best, bestDist = c, d
			}
		}
		if km.Labels[i] != best {
			km.Labels[i] = best
			changed = true
		}
	}
	return changed
}

// update moves each centroid to the mean of its points and returns the total
// squared centroid shift. A centroid without points stays where it is.
func (km *KMeans) update(points [][]float64) float64 {
	dim := len(points[0])
	sums := make([][]float64, km.K)
	counts := make([]int, km.K)
	for c := range sums {
		sums[c] = make([]float64, dim)
	}
	for i, p := range points {
		c := km.Labels[i]
		counts[c]++
		for j, x := range p {
			sums[c][j] += x
		}
	}

	var shift float64
	for c := range km.Centroids {
		if counts[c] == 0 {
			continue
		}
		for j := range sums[c] {
			sums[c][j] /= float64(counts[c])
		}
		shift += squaredDistance(km.Centroids[c], sums[c])
		km.Centroids[c] = sums[c]
	}
	return shift
}

func squaredDistance(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}

func clone(v []float64) []float64 {
	out := make([]float64, len(v))
	copy(out, v)
	return out
}
