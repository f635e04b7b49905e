package diag

import (
	"testing"

	"encrude/internal/source"
)

func sp(start, end uint32) source.Span {
	return source.Span{File: 1, Start: start, End: end}
}

func TestBagSortOrder(t *testing.T) {
	b := NewBag(0)
	r := BagReporter{Bag: b}

	ReportRude(r, RudeActiveStatementUpdate, sp(10, 20), "").Emit()
	ReportRude(r, RudeInsertAroundActiveStatement, sp(10, 15), "lock statement").Emit()
	ReportRude(r, RudeActiveStatementDeleted, sp(10, 12), "").Emit()
	ReportRude(r, RudeDelete, sp(2, 5), "field").Emit()
	ReportDetached(r, RudeDelete, "class").Emit()

	b.Sort()
	got := make([]Code, 0, b.Len())
	for _, d := range b.Items() {
		got = append(got, d.Code)
	}
	want := []Code{
		RudeDelete, // detached
		RudeDelete,
		RudeActiveStatementDeleted,
		RudeInsertAroundActiveStatement,
		RudeActiveStatementUpdate,
	}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("item %d: got %s, want %s", i, got[i].Name(), want[i].Name())
		}
	}
	if !b.Items()[0].Detached {
		t.Fatalf("detached diagnostic must sort first")
	}
}

func TestBagDedup(t *testing.T) {
	b := NewBag(0)
	r := BagReporter{Bag: b}
	ReportRude(r, RudeLambdaExpression, sp(1, 4), "method").Emit()
	ReportRude(r, RudeLambdaExpression, sp(1, 4), "method").Emit()
	ReportRude(r, RudeLambdaExpression, sp(1, 4), "constructor").Emit()
	ReportRude(r, RudeAnonMethod, sp(1, 4), "method").Emit()

	b.Dedup()
	if b.Len() != 3 {
		t.Fatalf("Dedup left %d items, want 3", b.Len())
	}
}

func TestBagLimitAndMerge(t *testing.T) {
	b := NewBag(1)
	if !b.Add(Diagnostic{Code: RudeMove}) {
		t.Fatalf("first add must succeed")
	}
	if b.Add(Diagnostic{Code: RudeMove}) {
		t.Fatalf("second add must hit the limit")
	}

	other := NewBag(0)
	other.Add(Diagnostic{Code: RudeRenamed, Severity: SevError})
	b.Merge(other)
	if b.Len() != 2 || b.Cap() != 2 {
		t.Fatalf("Merge: len=%d cap=%d", b.Len(), b.Cap())
	}
	if !b.HasErrors() || !b.HasRude() {
		t.Fatalf("expected errors and rude edits after merge")
	}
}

func TestDedupReporter(t *testing.T) {
	b := NewBag(0)
	r := NewDedupReporter(BagReporter{Bag: b})
	ReportRude(r, RudeActiveStatementDeleted, sp(3, 9), "").Emit()
	ReportRude(r, RudeActiveStatementDeleted, sp(3, 9), "").Emit()
	ReportDetached(r, RudeDelete, "class").Emit()
	ReportDetached(r, RudeDelete, "class").Emit()
	if b.Len() != 2 {
		t.Fatalf("expected 2 unique diagnostics, got %d", b.Len())
	}
}

func TestReportBuilderFillsMessage(t *testing.T) {
	d := ReportRude(nil, RudeInsertAroundActiveStatement, sp(0, 1), "try block").Diagnostic()
	want := "Adding a try block around an active statement will prevent the debug session from continuing."
	if d.Message != want {
		t.Fatalf("Message = %q, want %q", d.Message, want)
	}
	if d.Category != CatProtection {
		t.Fatalf("Category = %s, want protection", d.Category)
	}
	d = ReportRude(nil, RudeInsertAroundActiveStatement, sp(0, 1), "try block").InCategory(CatDeclarationKind).Diagnostic()
	if d.Category != CatDeclarationKind {
		t.Fatalf("InCategory not applied: %s", d.Category)
	}
}

func TestCodeIDs(t *testing.T) {
	tests := map[Code]string{
		LexUnknownChar:            "LEX1001",
		SynExpectSemicolon:        "SYN2002",
		IOPatchError:              "IO4002",
		RudeActiveStatementUpdate: "ENC5001",
		RudeQueryExpression:       "ENC5017",
	}
	for c, want := range tests {
		if got := c.ID(); got != want {
			t.Errorf("%d.ID() = %q, want %q", c, got, want)
		}
	}
	if c, ok := ParseCode("UpdateAroundActiveStatement"); !ok || c != RudeUpdateAroundActiveStatement {
		t.Fatalf("ParseCode by name failed: %v %v", c, ok)
	}
	if !RudeMove.IsRude() || SynUnexpectedToken.IsRude() {
		t.Fatalf("IsRude misclassifies codes")
	}
}
