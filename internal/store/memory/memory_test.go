package memory

import (
	"context"
	"testing"

	"tracker/internal/core"
)

func TestLoadReturnsIndependentCopies(t *testing.T) {
	st := New()
	ctx := context.Background()

	doc := core.NewDocument()
	doc.Users["ada"] = core.NewAccount("Ada", "h", core.Money{Cents: 100})
	if err := st.Save(ctx, doc); err != nil {
		t.Fatal(err)
	}

	first, _ := st.Load(ctx)
	first.Users["ada"].Balance = core.Money{Cents: -1}
	delete(first.Users, "ada")

	second, _ := st.Load(ctx)
	acct, ok := second.Users["ada"]
	if !ok || acct.Balance.Cents != 100 {
		t.Fatalf("mutating a loaded copy leaked into the store: %+v", second.Users)
	}
}

func TestLoadEmptyStore(t *testing.T) {
	doc, err := New().Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(doc.Users) != 0 {
		t.Fatalf("expected empty document, got %+v", doc)
	}
}
