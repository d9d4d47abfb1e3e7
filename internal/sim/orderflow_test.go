package sim

import (
	"math"
	"testing"
)

func TestOrderFlowDecay(t *testing.T) {
	f := NewOrderFlow()
	f.RecordBuy("SOLR", 100)

	const n = 25
	for i := 0; i < n; i++ {
		f.DecayAndRead("SOLR", 20000)
	}

	want := 100 * math.Pow(0.98, n)
	got := f.Pending("SOLR")
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("expected stored pressure %v, got %v", want, got)
	}
}

func TestOrderFlowUnknownTickerReadsZero(t *testing.T) {
	f := NewOrderFlow()
	if got := f.DecayAndRead("NOPE", 20000); got != 0 {
		t.Fatalf("expected 0 impulse, got %v", got)
	}
}

func TestOrderFlowLiquidityScaling(t *testing.T) {
	f := NewOrderFlow()
	f.RecordBuy("THIN", 50)
	f.RecordBuy("DEEP", 50)

	thin := f.DecayAndRead("THIN", 10_000)
	deep := f.DecayAndRead("DEEP", 1_000_000)

	if thin <= deep {
		t.Fatalf("thin stock must move more: thin=%v deep=%v", thin, deep)
	}
	if thin <= 0 || deep <= 0 {
		t.Fatalf("buy pressure must be positive: thin=%v deep=%v", thin, deep)
	}
}

func TestOrderFlowAccumulates(t *testing.T) {
	f := NewOrderFlow()
	f.RecordBuy("SOLR", 10)
	f.RecordBuy("SOLR", 5)

	if got := f.Pending("SOLR"); got != 15 {
		t.Fatalf("expected 15, got %v", got)
	}
}
