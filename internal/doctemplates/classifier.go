package doctemplates

import "strings"

// Document type identifiers.
const (
	DocPoliceComplaint   = "police_complaint"
	DocConsumerComplaint = "consumer_complaint"
	DocRTIApplication    = "rti_application"
	DocLegalNotice       = "legal_notice"
	DocFamilyPetition    = "family_petition"
	DocGeneralPetition   = "general_petition"
)

// Category check order is fixed; the first category with a matching
// keyword wins.
var categories = []struct {
	docType  string
	keywords []string
}{
	{DocPoliceComplaint, []string{"theft", "stolen", "robbery", "assault", "harassment", "crime"}},
	{DocConsumerComplaint, []string{"consumer", "product", "service", "refund"}},
	{DocRTIApplication, []string{"rti", "information", "government", "public"}},
	{DocLegalNotice, []string{"landlord", "tenant", "rent", "deposit", "eviction"}},
	{DocFamilyPetition, []string{"divorce", "maintenance", "custody"}},
}

// DetermineDocumentType classifies a free-text intent into a document
// type by case-insensitive substring match, defaulting to
// general_petition.
func DetermineDocumentType(intent string) string {
	if intent == "" {
		return DocGeneralPetition
	}

	lower := strings.ToLower(intent)
	for _, cat := range categories {
		for _, kw := range cat.keywords {
			if strings.Contains(lower, kw) {
				return cat.docType
			}
		}
	}
	return DocGeneralPetition
}
