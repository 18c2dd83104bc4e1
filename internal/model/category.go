package model

import "slices"

type Category string

const (
	CategoryEducation      Category = "education"
	CategoryHealthcare     Category = "healthcare"
	CategoryGovernment     Category = "government"
	CategoryTransportation Category = "transportation"
	CategoryOthers         Category = "others"
)

// Categories lists every category in display order
var Categories = []Category{
	CategoryEducation,
	CategoryHealthcare,
	CategoryGovernment,
	CategoryTransportation,
	CategoryOthers,
}

// DocumentTypes maps every category to the document kinds it accepts
var DocumentTypes = map[Category][]string{
	CategoryEducation:      {"marksheet", "certificate", "degree", "diploma"},
	CategoryHealthcare:     {"medical_record", "insurance", "prescription", "test_report"},
	CategoryGovernment:     {"pan", "aadhaar", "passport", "driving_license", "voter_id"},
	CategoryTransportation: {"railway_pass", "vehicle_document", "insurance", "registration"},
	CategoryOthers:         {"other"},
}

func (c Category) Valid() bool {
	return slices.Contains(Categories, c)
}

// Accepts reports whether t is a document type of category c
func (c Category) Accepts(t string) bool {
	return slices.Contains(DocumentTypes[c], t)
}
