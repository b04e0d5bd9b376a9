package normalization

import (
	"encoding/json"
	"testing"
)

func TestParseBool_CoercesLegacyEncodings(t *testing.T) {
	truthy := []interface{}{true, 1, int64(1), float64(2), "1", "t", "TRUE", " yes ", "on", json.Number("1")}
	for _, v := range truthy {
		if !ParseBool(v) {
			t.Fatalf("expected true for %#v", v)
		}
	}
	falsy := []interface{}{false, 0, int64(0), float64(0), "", "0", "false", "no", nil, json.Number("0")}
	for _, v := range falsy {
		if ParseBool(v) {
			t.Fatalf("expected false for %#v", v)
		}
	}
}

func TestNormalizeAnswer_ScalarsLowercaseAndTrim(t *testing.T) {
	got := NormalizeAnswer("  Option A ")
	if len(got) != 1 || got[0] != "option a" {
		t.Fatalf("unexpected normalization: %#v", got)
	}
}

func TestNormalizeAnswer_FlattensNestedArrays(t *testing.T) {
	got := NormalizeAnswer([]interface{}{"A", []interface{}{"b", "C"}})
	if len(got) != 3 {
		t.Fatalf("expected 3 values got %#v", got)
	}
}

func TestAnswersEqual_ScalarCaseInsensitive(t *testing.T) {
	if !AnswersEqual("Option A", "option a") {
		t.Fatalf("expected equal")
	}
	if AnswersEqual("option a", "option b") {
		t.Fatalf("expected not equal")
	}
}

func TestAnswersEqual_MultiValueComparesAsSet(t *testing.T) {
	if !AnswersEqual([]interface{}{"b", "A"}, []interface{}{"a", "B"}) {
		t.Fatalf("expected order-insensitive equality")
	}
	if AnswersEqual([]interface{}{"a"}, []interface{}{"a", "b"}) {
		t.Fatalf("expected subset to fail")
	}
}

func TestAnswersEqual_NilNeverMatches(t *testing.T) {
	if AnswersEqual(nil, "a") {
		t.Fatalf("expected nil user answer to fail")
	}
	if AnswersEqual("a", nil) {
		t.Fatalf("expected nil correct answer to fail")
	}
}

func TestAnswersEqual_BooleanCorrectAnswerAcceptsTruthyEncodings(t *testing.T) {
	for _, v := range []interface{}{true, "true", "t", "1", 1} {
		if !AnswersEqual(v, true) {
			t.Fatalf("expected %#v to match true", v)
		}
	}
	if AnswersEqual("false", true) {
		t.Fatalf("expected false encoding to fail against true")
	}
	if !AnswersEqual("no", false) {
		t.Fatalf("expected falsy encoding to match false")
	}
	if AnswersEqual(nil, true) {
		t.Fatalf("expected nil to fail")
	}
}

func TestAnswersEqual_NumbersMatchAcrossEncodings(t *testing.T) {
	if !AnswersEqual(float64(3), json.Number("3")) {
		t.Fatalf("expected numeric encodings to match")
	}
}
