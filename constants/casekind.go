package constants

import "strings"

// CaseKind is a coarse classification of the matter under analysis. It steers
// prompt framing and the suggested-document list, nothing else.
type CaseKind string

const (
	CaseKindEmployment CaseKind = "EMPLOYMENT"
	CaseKindContract   CaseKind = "CONTRACT"
	CaseKindTort       CaseKind = "TORT"
	CaseKindTenancy    CaseKind = "TENANCY"
	CaseKindGeneral    CaseKind = "GENERAL"
)

var suggestedDocuments = map[CaseKind][]string{
	CaseKindEmployment: {
		"employment contract",
		"termination letter",
		"payslips for the last 3 months",
		"written warnings, if any",
	},
	CaseKindContract: {
		"signed contract and annexes",
		"correspondence about the disputed performance",
		"invoices and payment records",
	},
	CaseKindTort: {
		"incident report or police record",
		"medical records, if personal injury",
		"photos or other evidence of the damage",
	},
	CaseKindTenancy: {
		"lease agreement",
		"handover protocol",
		"rent payment history",
	},
	CaseKindGeneral: {
		"any contracts or written agreements involved",
		"relevant correspondence",
	},
}

// SuggestedDocuments lists supporting documents worth attaching for a kind.
func SuggestedDocuments(kind CaseKind) []string {
	docs, ok := suggestedDocuments[kind]
	if !ok {
		docs = suggestedDocuments[CaseKindGeneral]
	}
	out := make([]string, len(docs))
	copy(out, docs)
	return out
}

// CanonicalizeCaseKind maps client input onto a known kind, defaulting to
// GENERAL for anything unrecognized.
func CanonicalizeCaseKind(input string) CaseKind {
	switch strings.ToUpper(strings.TrimSpace(input)) {
	case string(CaseKindEmployment), "LABOR", "LABOUR":
		return CaseKindEmployment
	case string(CaseKindContract):
		return CaseKindContract
	case string(CaseKindTort), "DAMAGES":
		return CaseKindTort
	case string(CaseKindTenancy), "RENTAL", "LEASE":
		return CaseKindTenancy
	default:
		return CaseKindGeneral
	}
}
