// SPDX-License-Identifier: MIT

package gmm

import (
	"math"
	"math/rand/v2"
)

// lloydPasses is the number of k-means refinement passes after seeding.
const lloydPasses = 5

// seedMeans picks k initial means from the n×d row-major data with k-means++
// (D² sampling) and refines them with a few Lloyd passes. A cluster that ends
// a pass empty keeps its previous mean.
func seedMeans(data []float64, n, d, k int, rng *rand.Rand) [][]float64 {
	means := make([][]float64, 0, k)
	pick := func(i int) { means = append(means, append([]float64(nil), data[i*d:(i+1)*d]...)) }

	pick(rng.IntN(n))
	dist := make([]float64, n)
	for i := range dist {
		dist[i] = math.Inf(1)
	}
	for len(means) < k {
		last := means[len(means)-1]
		total := 0.0
		for i := 0; i < n; i++ {
			dist[i] = math.Min(dist[i], sqDist(data[i*d:(i+1)*d], last))
			total += dist[i]
		}
		if !(total > 0) {
			pick(rng.IntN(n))
			continue
		}
		target := rng.Float64() * total
		chosen := n - 1
		for i, acc := 0, 0.0; i < n; i++ {
			acc += dist[i]
			if acc >= target && dist[i] > 0 {
				chosen = i
				break
			}
		}
		pick(chosen)
	}

	sums := make([]float64, k*d)
	counts := make([]int, k)
	for pass := 0; pass < lloydPasses; pass++ {
		clear(sums)
		clear(counts)
		for i := 0; i < n; i++ {
			x := data[i*d : (i+1)*d]
			j := nearest(x, means)
			counts[j]++
			for c, v := range x {
				sums[j*d+c] += v
			}
		}
		for j := range means {
			if counts[j] == 0 {
				continue
			}
			for c := range means[j] {
				means[j][c] = sums[j*d+c] / float64(counts[j])
			}
		}
	}

	return means
}

func nearest(x []float64, means [][]float64) int {
	best, bestD := 0, math.Inf(1)
	for j, m := range means {
		if dd := sqDist(x, m); dd < bestD {
			best, bestD = j, dd
		}
	}

	return best
}

func sqDist(a, b []float64) float64 {
	s := 0.0
	for i := range a {
		t := a[i] - b[i]
		s += t * t
	}

	return s
}

// splitmix64 is a 64-bit finalizer used to derive independent seeds.
func splitmix64(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb

	return x ^ (x >> 31)
}

// deriveSeed makes the stream for (seed, k, restart) independent of the order
// and concurrency in which candidates run.
func deriveSeed(seed uint64, k, restart int) uint64 {
	return splitmix64(splitmix64(seed^uint64(k)<<32) ^ uint64(restart))
}

func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, splitmix64(seed)))
}
