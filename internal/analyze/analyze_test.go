package analyze

import (
	"reflect"
	"testing"
)

func TestIndex_LowercasesAndSplits(t *testing.T) {
	got := Index("The Quick Brown Fox-Jumps!")
	want := []string{"the", "quick", "brown", "fox", "jump"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Index() = %v, want %v", got, want)
	}
}

func TestIndex_KeepsRepeatsAndStopwords(t *testing.T) {
	got := Index("hello hello world")
	want := []string{"hello", "hello", "world"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Index() = %v, want %v", got, want)
	}
}

func TestIndex_DigitsPassThroughUnchanged(t *testing.T) {
	got := Index("price 9 99 dollars")
	want := []string{"price", "9", "99", "dollar"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Index() = %v, want %v", got, want)
	}
}

func TestQuery_DeduplicatesAndStripsStopwords(t *testing.T) {
	got := Query("the quick brown fox the quick")
	want := []string{"quick", "brown", "fox"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Query() = %v, want %v", got, want)
	}
}

func TestQuery_StableUnderDuplicateTokens(t *testing.T) {
	a := Query("foo foo")
	b := Query("foo")
	if !reflect.DeepEqual(a, b) {
		t.Errorf("Query(\"foo foo\") = %v, Query(\"foo\") = %v, want equal", a, b)
	}
}

func TestQuery_AllStopwordsYieldsEmpty(t *testing.T) {
	got := Query("the a an of")
	if len(got) != 0 {
		t.Errorf("Query() = %v, want empty", got)
	}
}
