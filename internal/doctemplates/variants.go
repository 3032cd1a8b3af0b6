package doctemplates

import (
	"sort"
	"strings"
	"time"
)

// LayoutVariant renders one document layout from the fact map. Variants
// are checked in registration order; selection falls back to an explicit
// default rather than an open-ended lookup.
type LayoutVariant interface {
	Matches(docType string) bool
	Render(facts map[string]string) string
}

// Registration order is part of the contract.
var layouts = []LayoutVariant{
	legalNoticeLayout{},
	policeComplaintLayout{},
	generalPetitionLayout{},
}

var defaultLayout LayoutVariant = generalPetitionLayout{}

// SelectLayout returns the first variant claiming docType, or the
// default.
func SelectLayout(docType string) LayoutVariant {
	for _, l := range layouts {
		if l.Matches(docType) {
			return l
		}
	}
	return defaultLayout
}

func get(facts map[string]string, key, fallback string) string {
	if v, ok := facts[key]; ok && v != "" {
		return v
	}
	return fallback
}

type legalNoticeLayout struct{}

func (legalNoticeLayout) Matches(docType string) bool {
	return docType == DocLegalNotice
}

func (legalNoticeLayout) Render(facts map[string]string) string {
	var b strings.Builder
	client := get(facts, "name", "My Client")

	b.WriteString("# LEGAL NOTICE\n\n")
	b.WriteString("**Date:** " + time.Now().Format("2006-01-02") + "\n\n")
	b.WriteString("**TO,**\n\n")
	b.WriteString(get(facts, "accused", "[Recipient Name]") + "\n\n")
	b.WriteString(get(facts, "location", "[Address]") + "\n\n")
	b.WriteString("**SUB: NOTICE UNDER RELEVANT SECTIONS OF LAW FOR " +
		strings.ToUpper(get(facts, "issue_type", "ILLEGAL ACTS")) + "**\n\n")
	b.WriteString("Ref: Incident dated " + get(facts, "date", "Unknown") + "\n\n")
	b.WriteString("Dear Sir/Madam,\n\n")
	b.WriteString("Under instruction from my client, " + client +
		", residing at " + get(facts, "location", "[Client Address]") +
		", I hereby serve you with the following notice:\n\n")
	b.WriteString("1. That on " + get(facts, "date", "the stated date") +
		", you committed acts causing grievance to my client.\n")
	if amount, ok := facts["amount"]; ok && amount != "" {
		b.WriteString("2. That this matter involves an outstanding due/financial loss of " +
			amount + ".\n")
	}
	b.WriteString("\n**I hereby call upon you to comply with my client's demands within 15 days, " +
		"failing which civil and criminal proceedings will be initiated against you.**\n\n")
	b.WriteString("Yours Faithfully,\n\n\\_\\_\\_\\_\\_\\_\\_\\_\\_\\_\n\n")
	b.WriteString("**Advocate for " + client + "**\n")
	return b.String()
}

type policeComplaintLayout struct{}

func (policeComplaintLayout) Matches(docType string) bool {
	return docType == DocPoliceComplaint
}

func (policeComplaintLayout) Render(facts map[string]string) string {
	var b strings.Builder

	b.WriteString("# COMPLAINT TO THE STATION HOUSE OFFICER\n\n")
	b.WriteString("**Subject:** Complaint regarding " + get(facts, "issue_type", "a criminal incident") + "\n\n")
	b.WriteString("Respected Sir/Madam,\n\n")
	b.WriteString("I, " + get(facts, "name", "[NAME]") + ", wish to report the following incident ")
	b.WriteString("which took place on " + get(facts, "date", "[DATE]"))
	b.WriteString(" at " + get(facts, "location", "[LOCATION]") + ".\n\n")
	if accused, ok := facts["accused"]; ok && accused != "" {
		b.WriteString("The person responsible is " + accused + ".\n\n")
	}
	if desc, ok := facts["description"]; ok && desc != "" {
		b.WriteString("**Incident details:** " + desc + "\n\n")
	}
	b.WriteString("I request that an FIR be registered and appropriate action be taken.\n\n")
	b.WriteString("Yours faithfully,\n\n" + get(facts, "name", "[NAME]") + "\n")
	return b.String()
}

type generalPetitionLayout struct{}

func (generalPetitionLayout) Matches(docType string) bool {
	return docType == DocGeneralPetition || docType == generalConsultation
}

func (generalPetitionLayout) Render(facts map[string]string) string {
	var b strings.Builder

	b.WriteString("# FORMAL COMPLAINT / PETITION\n\n")
	b.WriteString("**To The Competent Authority,**\n\n")
	b.WriteString("Subject: Complaint regarding " + get(facts, "issue_type", "Issue") + "\n\n")
	b.WriteString("Respected Sir/Madam,\n\n")
	b.WriteString("I, " + get(facts, "name", "The Undersigned") + ", wish to report an incident.\n\n")
	b.WriteString("Incident Details: " + facts["description"] + "\n\n")
	b.WriteString("**Detailed Facts:**\n\n")

	keys := make([]string, 0, len(facts))
	for k := range facts {
		if k != "description" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		if facts[k] != "" {
			b.WriteString("- " + k + ": " + facts[k] + "\n")
		}
	}

	b.WriteString("\nPlease take appropriate action.\n\nSignature\n")
	return b.String()
}
