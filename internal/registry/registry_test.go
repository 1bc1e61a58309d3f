package registry

import (
	"testing"

	"go.uber.org/zap"

	"github.com/mselser95/arbcore/pkg/types"
)

func TestRegistry_SiblingIsInvolution(t *testing.T) {
	records := []types.MarketRecord{
		{ID: "m1", Question: "Will it rain?", YesToken: "Y1", NoToken: "N1"},
	}
	r := New(records, zap.NewNop())

	for _, tok := range []string{"Y1", "N1"} {
		sib := r.GetSibling(tok)
		if sib == "" {
			t.Fatalf("expected a sibling for %s", tok)
		}
		if r.GetSibling(sib) != tok {
			t.Fatalf("get_sibling(get_sibling(%s)) != %s", tok, tok)
		}
	}
}

func TestRegistry_UnknownTokenYieldsNilNotPanic(t *testing.T) {
	r := New(nil, zap.NewNop())

	if got := r.GetMarket("nope"); got != nil {
		t.Fatalf("expected nil market for unknown token, got %+v", got)
	}
	if got := r.GetSibling("nope"); got != "" {
		t.Fatalf("expected empty sibling for unknown token, got %q", got)
	}
	if _, _, ok := r.Polarity("nope"); ok {
		t.Fatal("expected polarity resolution to fail for unknown token")
	}
}

func TestRegistry_SkipsIncompleteRecords(t *testing.T) {
	records := []types.MarketRecord{
		{ID: "bad", YesToken: "Y1"},
		{ID: "good", YesToken: "Y2", NoToken: "N2"},
	}
	r := New(records, zap.NewNop())

	if r.MarketCount() != 1 {
		t.Fatalf("expected 1 registered market, got %d", r.MarketCount())
	}
	if r.GetMarket("Y1") != nil {
		t.Fatal("expected the incomplete record to be skipped")
	}
	if r.GetMarket("Y2") == nil {
		t.Fatal("expected the complete record to be registered")
	}
}

func TestRegistry_Polarity(t *testing.T) {
	records := []types.MarketRecord{
		{ID: "m1", YesToken: "Y1", NoToken: "N1"},
	}
	r := New(records, zap.NewNop())

	yes, no, ok := r.Polarity("N1")
	if !ok || yes != "Y1" || no != "N1" {
		t.Fatalf("unexpected polarity: yes=%s no=%s ok=%v", yes, no, ok)
	}
}
