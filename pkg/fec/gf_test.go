package fec

import "testing"

func TestFieldTables(t *testing.T) {
	// The generator element has order 31, so the exp table must walk
	// every nonzero element exactly once before wrapping.
	seen := make(map[byte]bool)
	for i := 0; i < fieldMax; i++ {
		e := expTable[i]
		if e == 0 || e >= FieldOrder {
			t.Fatalf("expTable[%d] = %d out of range", i, e)
		}
		if seen[e] {
			t.Fatalf("expTable[%d] = %d repeats before the group wraps", i, e)
		}
		seen[e] = true
	}
	if expTable[0] != 1 {
		t.Errorf("alpha^0 = %d, want 1", expTable[0])
	}
	if expTable[1] != 2 {
		t.Errorf("alpha^1 = %d, want 2", expTable[1])
	}

	// Doubled half mirrors the first.
	for i := 0; i < fieldMax; i++ {
		if expTable[i+fieldMax] != expTable[i] {
			t.Fatalf("expTable doubling broken at %d", i)
		}
	}

	// Log and exp invert each other.
	for a := 1; a < FieldOrder; a++ {
		if expTable[logTable[a]] != byte(a) {
			t.Errorf("exp(log(%d)) = %d", a, expTable[logTable[a]])
		}
	}
}

func TestMulDivInverse(t *testing.T) {
	for a := 0; a < FieldOrder; a++ {
		for b := 0; b < FieldOrder; b++ {
			p := gfMul(byte(a), byte(b))
			if p >= FieldOrder {
				t.Fatalf("%d * %d = %d escapes the field", a, b, p)
			}
			if gfMul(byte(a), byte(b)) != gfMul(byte(b), byte(a)) {
				t.Fatalf("multiplication not commutative at %d, %d", a, b)
			}
			if b != 0 && gfDiv(p, byte(b)) != byte(a) {
				t.Fatalf("(%d*%d)/%d = %d, want %d", a, b, b, gfDiv(p, byte(b)), a)
			}
		}
	}

	for a := 1; a < FieldOrder; a++ {
		if gfMul(byte(a), gfInv(byte(a))) != 1 {
			t.Errorf("%d * inv(%d) != 1", a, a)
		}
	}
}

func TestDivByZeroPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("gfDiv by zero did not panic")
		}
	}()
	gfDiv(5, 0)
}

func TestPowNegative(t *testing.T) {
	for p := -62; p <= 62; p++ {
		got := gfPow(p)
		if got == 0 || got >= FieldOrder {
			t.Fatalf("gfPow(%d) = %d out of range", p, got)
		}
		if gfMul(got, gfPow(-p)) != 1 {
			t.Errorf("alpha^%d * alpha^%d != 1", p, -p)
		}
	}
}

func TestPolyEval(t *testing.T) {
	// p(x) = 3 + 2x + x^2, evaluated by hand at a couple of points.
	poly := []byte{3, 2, 1}
	for x := byte(0); x < FieldOrder; x++ {
		want := gfAdd(gfAdd(3, gfMul(2, x)), gfMul(x, x))
		if got := polyEval(poly, x); got != want {
			t.Errorf("polyEval at %d = %d, want %d", x, got, want)
		}
	}
}

func TestPolyMul(t *testing.T) {
	// (x + 1)(x + 1) = x^2 + 1 in characteristic 2.
	got := polyMul([]byte{1, 1}, []byte{1, 1})
	want := []byte{1, 0, 1}
	if len(got) != len(want) {
		t.Fatalf("product length %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("coefficient %d = %d, want %d", i, got[i], want[i])
		}
	}
}
