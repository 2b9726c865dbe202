package diag

import (
	"testing"

	"github.com/WaleedSymbyo/sabre/internal/source"
)

func at(file source.FileID, start uint32) source.Span {
	return source.Span{File: file, Start: start, End: start + 1}
}

func TestBagLimit(t *testing.T) {
	bag := NewBag(2)
	if !bag.Add(NewError(SemaTypeMismatch, at(0, 0), "one")) {
		t.Fatalf("first add must succeed")
	}
	bag.Add(NewError(SemaTypeMismatch, at(0, 1), "two"))
	if bag.Add(NewError(SemaTypeMismatch, at(0, 2), "three")) {
		t.Fatalf("limit must reject further diagnostics")
	}
	if bag.Len() != 2 {
		t.Fatalf("len = %d, want 2", bag.Len())
	}
}

func TestHasErrorsIgnoresNotes(t *testing.T) {
	bag := NewBag(10)
	bag.Add(New(SevNote, SemaTemplateNote, at(0, 0), "just a note"))
	if bag.HasErrors() {
		t.Fatalf("notes are not errors")
	}
	bag.Add(NewError(SemaTypeMismatch, at(0, 1), "boom"))
	if !bag.HasErrors() {
		t.Fatalf("errors must be detected")
	}
}

func TestSortIsPositional(t *testing.T) {
	bag := NewBag(10)
	bag.Add(NewError(SemaTypeMismatch, at(1, 5), "later"))
	bag.Add(NewError(SemaTypeMismatch, at(0, 9), "first file"))
	bag.Add(NewError(SemaTypeMismatch, at(1, 2), "earlier"))
	bag.Sort()

	items := bag.Items()
	if items[0].Message != "first file" || items[1].Message != "earlier" || items[2].Message != "later" {
		t.Fatalf("sort order wrong: %v", items)
	}
}

func TestTruncateRollsBack(t *testing.T) {
	bag := NewBag(10)
	bag.Add(NewError(SemaTypeMismatch, at(0, 0), "keep"))
	mark := bag.Len()
	bag.Add(NewError(SemaTypeMismatch, at(0, 1), "drop"))
	bag.Truncate(mark)
	if bag.Len() != 1 || bag.Items()[0].Message != "keep" {
		t.Fatalf("truncate must roll back to the mark")
	}
}

func TestDedup(t *testing.T) {
	bag := NewBag(10)
	bag.Add(NewError(SemaTypeMismatch, at(0, 0), "same"))
	bag.Add(NewError(SemaTypeMismatch, at(0, 0), "same"))
	bag.Dedup()
	if bag.Len() != 1 {
		t.Fatalf("dedup failed, len = %d", bag.Len())
	}
}
