package fields

import (
	"testing"

	"github.com/wizenheimer/webidx/internal/htmlparse"
)

func TestExtract_TermInTitleAndBody(t *testing.T) {
	doc := htmlparse.Document{
		Title: "Cat Facts",
		Body:  "A cat is a pet and cats are great",
	}

	got := Extract(doc)

	catFields := FieldsFor(got, "cat")
	if !catFields.Has(Title) {
		t.Error("expected 'cat' to carry the title field")
	}
	if !catFields.Has(Body) {
		t.Error("expected 'cat' to carry the body field (stemmed from 'cats')")
	}
	if catFields.Has(Header) || catFields.Has(Strong) {
		t.Errorf("unexpected fields on 'cat': %v", catFields)
	}
}

func TestExtract_NestedStrongContributesToBoth(t *testing.T) {
	doc := htmlparse.Document{
		Strong: "bold",
		Body:   "a bold word appears here",
	}

	got := Extract(doc)
	boldFields := FieldsFor(got, "bold")
	if !boldFields.Has(Strong) || !boldFields.Has(Body) {
		t.Errorf("'bold' should carry both strong and body, got %v", boldFields)
	}
}

func TestFieldsFor_UnknownTermReturnsEmptySet(t *testing.T) {
	got := Extract(htmlparse.Document{Body: "hello world"})
	s := FieldsFor(got, "absent")
	if len(s) != 0 {
		t.Errorf("expected empty field set for unseen term, got %v", s)
	}
}
