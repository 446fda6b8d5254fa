package feed

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	"biocareer/opportunity-service/internal/model"
	"biocareer/opportunity-service/internal/scraper"
)

// Query string parameters accepted by the list endpoint.
const (
	ParamText        = "q"
	ParamCategory    = "category"
	ParamIndustry    = "industry"
	ParamWorkMode    = "workMode"
	ParamVisaOnly    = "visaOnly"
	ParamMastersOnly = "mastersOnly"
	ParamStudentOnly = "studentOnly"
	ParamPostcode    = "postcode"
	ParamDistance    = "distance"
)

// maxDistanceKm bounds the radius forwarded to the provider.
const maxDistanceKm = 1000

// ParseQuery maps request parameters onto a SearchQuery. It never fails:
// unrecognised values fall back to their defaults.
func ParseQuery(values url.Values) model.SearchQuery {
	return model.SearchQuery{
		Text:        strings.TrimSpace(values.Get(ParamText)),
		Category:    facet(values.Get(ParamCategory)),
		Industry:    facet(values.Get(ParamIndustry)),
		WorkMode:    facet(values.Get(ParamWorkMode)),
		VisaOnly:    toggle(values.Get(ParamVisaOnly)),
		MastersOnly: toggle(values.Get(ParamMastersOnly)),
		StudentOnly: toggle(values.Get(ParamStudentOnly)),
		Postcode:    strings.TrimSpace(values.Get(ParamPostcode)),
		DistanceKm:  distance(values.Get(ParamDistance)),
	}
}

func facet(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return model.FacetAll
	}
	return v
}

func toggle(v string) bool {
	v = strings.TrimSpace(v)
	return v == "1" || strings.EqualFold(v, "true")
}

func distance(v string) int {
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil || math.IsNaN(f) || f <= 0 || f > maxDistanceKm {
		return scraper.DefaultDistanceKm
	}
	return max(1, int(math.Round(f)))
}
