package pac_test

import (
	"testing"

	"github.com/pacgo/paccell/pac"
)

func newHelloCell() *pac.Pac[hello, *int64] {
	return pac.New(hello{world: 10}, func(h *hello) *int64 {
		return &h.world
	})
}

func BenchmarkNewUnwrap(b *testing.B) {
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		cell := newHelloCell()
		_ = cell.Unwrap()
	}
}

func BenchmarkNewClose(b *testing.B) {
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		cell := newHelloCell()
		_ = cell.Close()
	}
}

func BenchmarkWithMut(b *testing.B) {
	cell := newHelloCell()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = pac.WithMut(cell, func(w **int64) int64 {
			**w++
			return **w
		})
	}
}

func BenchmarkMut(b *testing.B) {
	cell := newHelloCell()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		cell.Mut(func(w **int64) { **w++ })
	}
}
