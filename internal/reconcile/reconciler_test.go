package reconcile

import (
	"reflect"
	"testing"

	"github.com/lexassist/lexassist/internal/facts"
	"github.com/lexassist/lexassist/internal/providers/analyzer"
)

func TestApplyMergesEntities(t *testing.T) {
	set := facts.NewSet()
	res := analyzer.Result{
		Entities: map[string]string{
			"issue_type": "theft",
			"date":       "yesterday",
			"empty":      "",
		},
	}

	out := Apply(set, res)

	if out.Intent != "theft" {
		t.Errorf("intent = %q, want theft", out.Intent)
	}
	if out.Applied != 1 {
		t.Errorf("applied = %d, want 1 (empty values and issue_type skipped)", out.Applied)
	}
	if _, ok := set.Get("empty"); ok {
		t.Error("empty value should not be stored")
	}
	if f, _ := set.Get("date"); f.Value != "yesterday" {
		t.Errorf("date = %q", f.Value)
	}
	// issue_type drives the intent only; it is not a fact.
	if _, ok := set.Get("issue_type"); ok {
		t.Error("issue_type must not be stored as a fact")
	}
}

func TestApplyIsIdempotent(t *testing.T) {
	res := analyzer.Result{
		Entities: map[string]string{"name": "Kumar", "location": "market"},
	}

	once := facts.NewSet()
	Apply(once, res)

	twice := facts.NewSet()
	Apply(twice, res)
	Apply(twice, res)

	if !reflect.DeepEqual(once.Snapshot(), twice.Snapshot()) {
		t.Errorf("re-applying the same result changed the set:\nonce:  %+v\ntwice: %+v",
			once.Snapshot(), twice.Snapshot())
	}
}

func TestApplyNeverUnconfirms(t *testing.T) {
	set := facts.NewSet()
	res := analyzer.Result{Entities: map[string]string{"name": "Kumar"}}

	Apply(set, res)
	if err := set.Confirm("name"); err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	Apply(set, res)

	if f, _ := set.Get("name"); !f.Confirmed {
		t.Error("re-applying the result un-confirmed the fact")
	}
}

func TestApplyCarriesEntityConfidence(t *testing.T) {
	set := facts.NewSet()
	res := analyzer.Result{
		Entities:         map[string]string{"date": "yesterday"},
		EntityConfidence: map[string]float64{"date": 0.7},
	}

	Apply(set, res)

	f, _ := set.Get("date")
	if f.Confidence == nil || *f.Confidence != 0.7 {
		t.Errorf("confidence = %v, want 0.7", f.Confidence)
	}
}

func TestApplyUnknownKeysStored(t *testing.T) {
	set := facts.NewSet()
	Apply(set, analyzer.Result{Entities: map[string]string{"vehicle_number": "KA-01"}})

	if f, ok := set.Get("vehicle_number"); !ok || f.Value != "KA-01" {
		t.Error("unknown keys must be stored without validation")
	}
}
