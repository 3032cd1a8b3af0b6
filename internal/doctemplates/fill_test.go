package doctemplates

import (
	"strings"
	"testing"
)

func TestFillSubstitutesAndMarksMissing(t *testing.T) {
	got := Fill("Hello {{name}}, case {{ref}}", map[string]string{"name": "Kumar"})
	want := "Hello Kumar, case [REF]"
	if got != want {
		t.Errorf("Fill = %q, want %q", got, want)
	}
}

func TestFillNoPlaceholders(t *testing.T) {
	body := "no markers here"
	if got := Fill(body, map[string]string{"name": "x"}); got != body {
		t.Errorf("Fill = %q, want unchanged body", got)
	}
}

func TestFillKeysAreCaseSensitive(t *testing.T) {
	got := Fill("{{Name}}", map[string]string{"name": "Kumar"})
	if got != "[NAME]" {
		t.Errorf("Fill = %q, want [NAME] (lookup is case-sensitive)", got)
	}
}

func TestFillTrimsPlaceholderWhitespace(t *testing.T) {
	got := Fill("{{ name }}", map[string]string{"name": "Kumar"})
	if got != "Kumar" {
		t.Errorf("Fill = %q, want Kumar", got)
	}
}

func TestFillDoesNotReExpandValues(t *testing.T) {
	got := Fill("{{a}} and {{b}}", map[string]string{
		"a": "{{b}}",
		"b": "value",
	})
	if got != "{{b}} and value" {
		t.Errorf("Fill = %q; a value containing placeholder syntax must not be re-expanded", got)
	}
}

func TestFillRepeatedPlaceholder(t *testing.T) {
	got := Fill("{{name}} vs {{name}}", map[string]string{"name": "Kumar"})
	if got != "Kumar vs Kumar" {
		t.Errorf("Fill = %q", got)
	}
}

func TestDetermineDocumentTypeOrder(t *testing.T) {
	cases := []struct {
		intent string
		want   string
	}{
		{"my phone was STOLEN", DocPoliceComplaint},
		{"refund for defective product", DocConsumerComplaint},
		{"rti request to the department", DocRTIApplication},
		{"landlord kept my deposit", DocLegalNotice},
		{"divorce and custody", DocFamilyPetition},
		{"something else entirely", DocGeneralPetition},
		{"", DocGeneralPetition},
		// theft matches police_complaint before any later category.
		{"theft of a consumer product", DocPoliceComplaint},
	}

	for _, tc := range cases {
		if got := DetermineDocumentType(tc.intent); got != tc.want {
			t.Errorf("DetermineDocumentType(%q) = %q, want %q", tc.intent, got, tc.want)
		}
	}
}

func TestSelectLayoutFallsBackToDefault(t *testing.T) {
	l := SelectLayout("rti_application")
	if !l.Matches(DocGeneralPetition) {
		t.Error("unmatched doc type should select the general petition layout")
	}
}

func TestLegalNoticeLayoutContent(t *testing.T) {
	l := SelectLayout(DocLegalNotice)
	out := l.Render(map[string]string{
		"name":    "Kumar",
		"accused": "Sharma",
		"date":    "2024-01-15",
		"amount":  "50000 INR",
	})

	for _, want := range []string{"LEGAL NOTICE", "Kumar", "Sharma", "2024-01-15", "50000 INR", "within 15 days"} {
		if !strings.Contains(out, want) {
			t.Errorf("legal notice missing %q", want)
		}
	}
}
