package feed

import (
	"slices"
	"strings"

	"biocareer/opportunity-service/internal/model"
)

// Filter returns the items matching every facet of q, in input order.
// An empty or "all" facet imposes no constraint.
func Filter(items []model.Opportunity, q model.SearchQuery) []model.Opportunity {
	term := strings.ToLower(q.Text)
	out := make([]model.Opportunity, 0, len(items))
	for _, o := range items {
		if matches(o, q, term) {
			out = append(out, o)
		}
	}
	return out
}

func matches(o model.Opportunity, q model.SearchQuery, term string) bool {
	if term != "" && !strings.Contains(searchText(o), term) {
		return false
	}
	if active(q.Category) && o.Category != q.Category {
		return false
	}
	if active(q.Industry) && !slices.Contains(o.Industries, q.Industry) {
		return false
	}
	if active(q.WorkMode) && string(o.WorkMode) != q.WorkMode {
		return false
	}
	if q.VisaOnly && !o.VisaSupport {
		return false
	}
	if q.MastersOnly && !o.MastersSponsorship {
		return false
	}
	if q.StudentOnly && !o.StudentFriendly {
		return false
	}
	return true
}

// searchText is the lower-cased haystack for the free-text term.
func searchText(o model.Opportunity) string {
	parts := make([]string, 0, 4+len(o.Industries))
	parts = append(parts, o.Title, o.Company, o.Location, o.Category)
	parts = append(parts, o.Industries...)
	return strings.ToLower(strings.Join(parts, " "))
}

func active(facet string) bool {
	return facet != "" && facet != model.FacetAll
}
