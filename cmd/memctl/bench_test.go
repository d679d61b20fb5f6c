package main

import "testing"

func TestFreeStride(t *testing.T) {
	cases := []struct {
		rate float64
		want int
	}{
		{rate: -0.5, want: 0},
		{rate: 0, want: 0},
		{rate: 0.1, want: 10},
		{rate: 0.25, want: 4},
		{rate: 0.5, want: 2},
		{rate: 1, want: 1},
		{rate: 2.5, want: 1},
	}
	for _, tc := range cases {
		if got := freeStride(tc.rate); got != tc.want {
			t.Errorf("freeStride(%v) = %d, want %d", tc.rate, got, tc.want)
		}
	}
}

func TestFreeStrideCoversEverySlotAtFullRate(t *testing.T) {
	stride := freeStride(1)
	freed := 0
	for i := 0; stride > 0 && i < 100; i += stride {
		freed++
	}
	if freed != 100 {
		t.Fatalf("full free rate released %d of 100 slots", freed)
	}
}
