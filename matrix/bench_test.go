// SPDX-License-Identifier: MIT
// Package matrix_test provides benchmarks for core matrix operations,
// using deterministic random fill for Dense matrices.
package matrix_test

import (
	"fmt"
	"testing"

	"github.com/katalvlaran/gaussmix/matrix"
)

// benchSizes are the matrix sizes to benchmark.
var benchSizes = []int{32, 128, 256}

// sinks to defeat dead-code elimination
var (
	sinkM *matrix.Dense
	sinkF float64
)

func BenchmarkAdd(b *testing.B) {
	for _, n := range benchSizes {
		b.Run(fmt.Sprintf("n=%d", n), func(b *testing.B) {
			A := RandDense(b, n, n, 1337)
			B := RandDense(b, n, n, 4242)
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				m, err := matrix.Add(A, B)
				if err != nil {
					b.Fatal(err)
				}
				sinkM = m
			}
		})
	}
}

func BenchmarkMul(b *testing.B) {
	for _, n := range benchSizes {
		b.Run(fmt.Sprintf("n=%d", n), func(b *testing.B) {
			A := RandDense(b, n, n, 1)
			B := RandDense(b, n, n, 2)
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				m, err := matrix.Mul(A, B)
				if err != nil {
					b.Fatal(err)
				}
				sinkM = m
			}
		})
	}
}

func BenchmarkPushBackRow(b *testing.B) {
	row := []float64{1, 2}
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		m := matrix.NewEmpty()
		for k := 0; k < 1024; k++ {
			if err := m.PushBackRow(row); err != nil {
				b.Fatal(err)
			}
		}
		sinkM = m
	}
}

func BenchmarkInverse2x2(b *testing.B) {
	c := MustRows(b, [][]float64{{2, 0.3}, {0.3, 1}})
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		inv, err := matrix.Inverse2x2(c)
		if err != nil {
			b.Fatal(err)
		}
		sinkF = inv.Data()[0]
	}
}

func BenchmarkCovariance(b *testing.B) {
	X := RandDense(b, 1000, 2, 5)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		cov, _, err := matrix.Covariance(X)
		if err != nil {
			b.Fatal(err)
		}
		sinkM = cov
	}
}
