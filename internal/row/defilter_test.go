package row

import "testing"

func assertRow(t *testing.T, label string, got, want []byte) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("%s: length mismatch: got %v, want %v", label, got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("%s: got %v, want %v", label, got, want)
		}
	}
}

// Applies every filter in sequence to the same running buffer against a
// fixed reference row, checking the reconstructed value after each step.
// The cascade (rather than five independent rows) is what pins down the
// non-classical Paeth formula's interaction with the standard Sub/Up/
// Average ones.
func TestDefilterCascade(t *testing.T) {
	prev := []byte{0, 1, 2, 3}
	cur := []byte{0, 5, 6, 7}

	if err := Defilter(cur, prev, 1); err != nil {
		t.Fatal(err)
	}
	assertRow(t, "None", cur, []byte{0, 5, 6, 7})

	cur[0] = FilterSub
	if err := Defilter(cur, prev, 1); err != nil {
		t.Fatal(err)
	}
	assertRow(t, "Sub", cur, []byte{0, 5, 11, 18})

	cur[0] = FilterUp
	if err := Defilter(cur, prev, 1); err != nil {
		t.Fatal(err)
	}
	assertRow(t, "Up", cur, []byte{0, 6, 13, 21})

	cur[0] = FilterAverage
	if err := Defilter(cur, prev, 1); err != nil {
		t.Fatal(err)
	}
	assertRow(t, "Average", cur, []byte{0, 6, 17, 31})

	cur[0] = FilterPaeth
	if err := Defilter(cur, prev, 1); err != nil {
		t.Fatal(err)
	}
	assertRow(t, "Paeth", cur, []byte{0, 7, 24, 55})
}

func TestDefilterInvalidSelector(t *testing.T) {
	cur := []byte{5, 1, 2, 3}
	prev := []byte{0, 0, 0, 0}
	if err := Defilter(cur, prev, 1); err == nil {
		t.Fatal("expected an error for filter selector 5")
	}
}

// Forward-filters a row with the same predictor Defilter uses, then checks
// that Defilter inverts it exactly. This holds for any predictor, not just
// the classical one, since forward and reverse are algebraic inverses by
// construction.
func TestDefilterPaethRoundTrip(t *testing.T) {
	prev := []byte{0, 10, 40, 90, 200}
	raw := []byte{0, 3, 250, 12, 77}
	filtered := make([]byte, len(raw))
	filtered[0] = FilterPaeth
	for x := 1; x < len(raw); x++ {
		var a, c byte
		if x > 1 {
			a = raw[x-1]
		}
		if x > 1 {
			c = prev[x-1]
		}
		b := prev[x]
		filtered[x] = raw[x] - paeth(a, b, c)
	}

	if err := Defilter(filtered, prev, 1); err != nil {
		t.Fatal(err)
	}
	assertRow(t, "round-trip", filtered, raw)
}
