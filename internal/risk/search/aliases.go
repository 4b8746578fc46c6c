package search

import "strings"

// vendorAliases maps a canonical vendor name to its known alternate
// spellings and trade names. Lookup is by exact canonical name.
var vendorAliases = map[string][]string{
	"POSCO Holdings":      {"POSCO", "Posco Holdings Inc.", "POSCO HOLDINGS", "포스코홀딩스"},
	"Hyundai Steel":       {"Hyundai Steel Company", "HYUNDAI STEEL", "HSC", "현대제철"},
	"SungKwang Bend":      {"SUNGKWANG BEND", "Sungkwang Bend Co.", "성광벤드"},
	"Dongkuk Steel":       {"Dongkuk Steel Mill", "DONGKUK STEEL", "DKC", "동국제강"},
	"HD Hyundai Electric": {"Hyundai Electric", "HD HYUNDAI ELECTRIC", "HD현대일렉트릭"},
}

// ExpandVendorTerms builds the ordered search-term list for a vendor:
// the canonical name first, then known aliases, deduplicated in
// first-seen order. An empty name yields an empty list.
func ExpandVendorTerms(vendorName string) []string {
	base := strings.TrimSpace(vendorName)
	if base == "" {
		return nil
	}

	terms := []string{base}
	for _, a := range vendorAliases[base] {
		if t := strings.TrimSpace(a); t != "" {
			terms = append(terms, t)
		}
	}

	seen := make(map[string]struct{}, len(terms))
	uniq := make([]string, 0, len(terms))
	for _, t := range terms {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		uniq = append(uniq, t)
	}
	return uniq
}
