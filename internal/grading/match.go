package grading

import (
	"sort"
	"strings"

	"github.com/cockroachdb/apd/v3"
)

// Policy selects how a submission is matched against a problem's
// canonical answers.
type Policy struct {
	// RequiresMultipleAnswers switches from "equals any canonical
	// alternative" to "the submitted values equal the canonical values as
	// a multiset".
	RequiresMultipleAnswers bool
}

// Reason explains a verdict to operators. Contestants only ever see
// correct or incorrect.
type Reason string

const (
	ReasonMatched     Reason = "matched"
	ReasonBlank       Reason = "blank"
	ReasonArity       Reason = "arity"
	ReasonUnevaluable Reason = "unevaluable"
	ReasonMismatch    Reason = "mismatch"
)

// SlotResult describes how one submitted answer slot was interpreted.
type SlotResult struct {
	Raw        string
	Normalized string
	Value      Value
	Matched    bool
}

// Verdict is the outcome of grading one submission.
type Verdict struct {
	Correct bool
	Reason  Reason
	Slots   []SlotResult
}

// IsCorrect reports whether submitted answers the problem whose accepted
// answers are canonical under policy. It never panics and never errors:
// every failure is an incorrect answer.
func IsCorrect(submitted, canonical []string, policy Policy) bool {
	return Grade(submitted, canonical, policy).Correct
}

// Grade is IsCorrect with per-slot diagnostics.
func Grade(submitted, canonical []string, policy Policy) Verdict {
	if len(submitted) == 0 {
		return Verdict{Reason: ReasonArity}
	}
	for _, s := range submitted {
		if strings.TrimSpace(s) == "" {
			return Verdict{Reason: ReasonBlank, Slots: rawSlots(submitted)}
		}
	}
	if policy.RequiresMultipleAnswers {
		return gradeMultiple(submitted, canonical)
	}
	return gradeSingle(submitted, canonical)
}

// answer normalizes and evaluates one raw answer. Text values keep the
// trimmed raw input so the string fallback compares what was typed.
func answer(raw string) (string, Value) {
	if len(raw) > MaxInputLength {
		return "", Value{}
	}
	norm := Normalize(raw)
	v := Evaluate(norm)
	if v.Kind == KindText {
		v = textValue(raw)
	}
	return norm, v
}

func rawSlots(submitted []string) []SlotResult {
	slots := make([]SlotResult, len(submitted))
	for i, s := range submitted {
		slots[i] = SlotResult{Raw: s}
	}
	return slots
}

func gradeSingle(submitted, canonical []string) Verdict {
	if len(submitted) != 1 {
		return Verdict{Reason: ReasonArity, Slots: rawSlots(submitted)}
	}
	norm, v := answer(submitted[0])
	slot := SlotResult{Raw: submitted[0], Normalized: norm, Value: v}

	for _, c := range canonical {
		_, cv := answer(c)
		if Equal(v, cv) {
			slot.Matched = true
			return Verdict{Correct: true, Reason: ReasonMatched, Slots: []SlotResult{slot}}
		}
	}

	reason := ReasonMismatch
	if v.Kind == KindUnevaluable {
		reason = ReasonUnevaluable
	}
	return Verdict{Reason: reason, Slots: []SlotResult{slot}}
}

// keyed is a value prepared for order-independent comparison.
type keyed struct {
	num   *apd.Decimal
	index int
}

func gradeMultiple(submitted, canonical []string) Verdict {
	if len(submitted) != len(canonical) {
		return Verdict{Reason: ReasonArity, Slots: rawSlots(submitted)}
	}

	slots := make([]SlotResult, len(submitted))
	user := make([]keyed, len(submitted))
	evaluable := true
	for i, s := range submitted {
		norm, v := answer(s)
		slots[i] = SlotResult{Raw: s, Normalized: norm, Value: v}
		if !v.IsNumber() {
			evaluable = false
			continue
		}
		user[i] = keyed{num: v.Number, index: i}
	}
	correct := make([]keyed, len(canonical))
	for i, c := range canonical {
		_, v := answer(c)
		if !v.IsNumber() {
			evaluable = false
			continue
		}
		correct[i] = keyed{num: v.Number, index: i}
	}
	if !evaluable {
		return Verdict{Reason: ReasonUnevaluable, Slots: slots}
	}

	sortKeyed(user)
	sortKeyed(correct)

	matched := true
	for i := range user {
		if withinTolerance(user[i].num, correct[i].num) {
			slots[user[i].index].Matched = true
		} else {
			matched = false
		}
	}
	if !matched {
		return Verdict{Reason: ReasonMismatch, Slots: slots}
	}
	return Verdict{Correct: true, Reason: ReasonMatched, Slots: slots}
}

// sortKeyed orders values ascending by their full-precision number.
// Equal numbers keep input order.
func sortKeyed(ks []keyed) {
	sort.SliceStable(ks, func(i, j int) bool {
		return ks[i].num.Cmp(ks[j].num) < 0
	})
}
