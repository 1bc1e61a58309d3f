package ladder

import "testing"

func TestLadder_SetAndBest(t *testing.T) {
	tests := []struct {
		name      string
		levels    map[string]float64
		isAsk     bool
		wantPrice string
		wantSize  float64
		wantOK    bool
	}{
		{
			name:      "best ask is minimum price",
			levels:    map[string]float64{"0.40": 100, "0.45": 50, "0.60": 20},
			isAsk:     true,
			wantPrice: "0.40",
			wantSize:  100,
			wantOK:    true,
		},
		{
			name:      "best bid is maximum price",
			levels:    map[string]float64{"0.40": 100, "0.45": 50, "0.60": 20},
			isAsk:     false,
			wantPrice: "0.60",
			wantSize:  20,
			wantOK:    true,
		},
		{
			name:   "empty ladder has no best",
			levels: map[string]float64{},
			isAsk:  true,
			wantOK: false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			l := New()
			for p, s := range tc.levels {
				l.Set(p, s)
			}

			price, size, ok := l.Best(tc.isAsk)
			if ok != tc.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tc.wantOK)
			}
			if !ok {
				return
			}
			if price != tc.wantPrice || size != tc.wantSize {
				t.Fatalf("got (%s, %v), want (%s, %v)", price, size, tc.wantPrice, tc.wantSize)
			}
		})
	}
}

func TestLadder_SetZeroDeletesLevel(t *testing.T) {
	l := New()
	l.Set("0.46", 50)
	if l.Len() != 1 {
		t.Fatalf("expected 1 level, got %d", l.Len())
	}

	l.Set("0.46", 0)
	if l.Len() != 0 {
		t.Fatalf("expected level to be deleted, got %d remaining", l.Len())
	}
	if _, _, ok := l.Best(true); ok {
		t.Fatal("expected no best price after deletion")
	}
}

func TestLadder_SetZeroOnAbsentKeyIsNoOp(t *testing.T) {
	l := New()
	l.Set("0.50", 0)
	if l.Len() != 0 {
		t.Fatalf("expected 0 levels, got %d", l.Len())
	}
}

func TestLadder_Replace(t *testing.T) {
	l := New()
	l.Set("0.10", 5)

	l.Replace(map[string]float64{"0.20": 10, "0.30": 0})

	if l.Len() != 1 {
		t.Fatalf("expected replace to drop zero-size entries, got %d levels", l.Len())
	}
	if _, size, ok := l.Best(true); !ok || size != 10 {
		t.Fatalf("unexpected state after replace: size=%v ok=%v", size, ok)
	}
}

func TestLadder_SnapshotIsDefensiveCopy(t *testing.T) {
	l := New()
	l.Set("0.10", 5)

	snap := l.Snapshot()
	snap["0.10"] = 999
	snap["0.20"] = 1

	if _, size, _ := l.Best(true); size != 5 {
		t.Fatalf("mutating snapshot affected ladder: size=%v", size)
	}
	if l.Len() != 1 {
		t.Fatalf("mutating snapshot affected ladder length: %d", l.Len())
	}
}
