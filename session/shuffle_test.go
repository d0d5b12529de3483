package session

import (
	"math/rand"
	"reflect"
	"testing"
)

func TestShuffleIsAPermutation(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	in := []int{1, 2, 2, 3, 4, 5, 5, 5}

	out := Shuffle(r, in)
	if len(out) != len(in) {
		t.Fatalf("length changed: %d -> %d", len(in), len(out))
	}
	counts := map[int]int{}
	for _, v := range in {
		counts[v]++
	}
	for _, v := range out {
		counts[v]--
	}
	for v, c := range counts {
		if c != 0 {
			t.Fatalf("multiset not preserved, element %d off by %d", v, c)
		}
	}
}

func TestShuffleDoesNotMutateInput(t *testing.T) {
	r := rand.New(rand.NewSource(2))
	in := []string{"a", "b", "c", "d"}
	orig := make([]string, len(in))
	copy(orig, in)

	Shuffle(r, in)
	if !reflect.DeepEqual(in, orig) {
		t.Fatalf("input mutated: %#v", in)
	}
}

func TestShuffleVariesAcrossSeedsAndRepeatsUnderOne(t *testing.T) {
	in := make([]int, 20)
	for i := range in {
		in[i] = i
	}

	a := Shuffle(rand.New(rand.NewSource(7)), in)
	b := Shuffle(rand.New(rand.NewSource(7)), in)
	if !reflect.DeepEqual(a, b) {
		t.Fatal("same seed should reproduce the same permutation")
	}

	// Not every seed pair differs, but across a handful at least one must;
	// a shuffle locked to one arrangement is broken.
	varied := false
	for seed := int64(0); seed < 5; seed++ {
		if !reflect.DeepEqual(a, Shuffle(rand.New(rand.NewSource(seed)), in)) {
			varied = true
			break
		}
	}
	if !varied {
		t.Fatal("shuffle produced one arrangement across all seeds")
	}
}
