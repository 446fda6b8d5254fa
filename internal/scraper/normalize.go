package scraper

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"biocareer/opportunity-service/internal/geo"
	"biocareer/opportunity-service/internal/model"
)

const (
	defaultCategory = "General"
	defaultTitle    = "Untitled role"
	defaultCompany  = "Unknown company"
	defaultLocation = "Location not specified"
)

// Scorer produces a match score for a listing.
type Scorer func() int

// RandomScorer is a placeholder heuristic: Adzuna carries no signal about how
// well a listing fits the user, so the score is a uniform pick in [60, 95).
// It must not be read as a ranking guarantee.
func RandomScorer() int {
	return 60 + rand.IntN(35)
}

// FixedScorer always returns score. Used for reproducible output.
func FixedScorer(score int) Scorer {
	return func() int { return score }
}

// Normalizer maps Adzuna records into Opportunity records. It never fails:
// missing fields fall back to defaults and the record is kept.
type Normalizer struct {
	currency string
	score    Scorer
	now      func() time.Time
	newID    func() string
	printer  *message.Printer
}

// NormalizerOption customises a Normalizer.
type NormalizerOption func(*Normalizer)

// WithClock sets the time source used for "posted" labels.
func WithClock(now func() time.Time) NormalizerOption {
	return func(n *Normalizer) { n.now = now }
}

// WithIDGenerator sets the generator used when a record has no id or adref.
func WithIDGenerator(newID func() string) NormalizerOption {
	return func(n *Normalizer) { n.newID = newID }
}

// NewNormalizer builds a Normalizer for the given provider country. A nil
// scorer selects RandomScorer.
func NewNormalizer(country string, score Scorer, opts ...NormalizerOption) *Normalizer {
	if score == nil {
		score = RandomScorer
	}
	n := &Normalizer{
		currency: CurrencySymbol(country),
		score:    score,
		now:      time.Now,
		newID:    func() string { return "adzuna-" + uuid.NewString() },
		printer:  message.NewPrinter(language.BritishEnglish),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Normalize converts raw into an Opportunity. userCoords may be nil, in which
// case DistanceKm stays nil.
func (n *Normalizer) Normalize(raw model.RawExternalRecord, userCoords *model.Coordinates) model.Opportunity {
	category := defaultCategory
	if raw.Category != nil {
		category = valueOr(raw.Category.Label, defaultCategory)
	}

	displayLocation := ""
	if raw.Location != nil {
		displayLocation = valueOr(raw.Location.DisplayName, "")
	}

	salary := n.SalaryLabel(raw.SalaryMin, raw.SalaryMax)
	contractTime := spaced(valueOr(raw.ContractTime, ""))

	score := clamp(n.score())

	opp := model.Opportunity{
		ID:                 n.identity(raw),
		Title:              valueOr(raw.Title, defaultTitle),
		Company:            defaultCompany,
		Location:           n.location(raw),
		Category:           category,
		Industries:         []string{category},
		WorkMode:           InferWorkMode(valueOr(raw.Description, "")),
		PostedAt:           n.postedLabel(valueOr(raw.Created, "")),
		MatchScore:         score,
		MatchBreakdown:     Breakdown(score),
		Pros:               nonEmpty(salary, contractTime, displayLocation),
		Cons:               []string{},
		MissingSkills:      []string{},
		VisaSupport:        false,
		MastersSponsorship: false,
		StudentFriendly:    false,
		Tags:               n.tags(raw),
		Salary:             salary,
		ContractType:       strings.Join(nonEmpty(humanize(contractTime), humanize(valueOr(raw.ContractType, ""))), " · "),
		RedirectURL:        valueOr(raw.RedirectURL, ""),
		Source:             model.SourceAdzuna,
	}
	if raw.Company != nil {
		opp.Company = valueOr(raw.Company.DisplayName, defaultCompany)
	}

	if userCoords != nil {
		if listing := ListingCoordinates(raw); listing != nil {
			d := math.Round(geo.Distance(*userCoords, *listing)*10) / 10
			opp.DistanceKm = &d
		}
	}

	return opp
}

// identity prefers the provider id, then the ad reference, then a fresh id.
func (n *Normalizer) identity(raw model.RawExternalRecord) string {
	if id := valueOr(raw.ID, ""); id != "" {
		return id
	}
	if ref := valueOr(raw.AdRef, ""); ref != "" {
		return ref
	}
	return n.newID()
}

func (n *Normalizer) location(raw model.RawExternalRecord) string {
	if raw.Location == nil {
		return defaultLocation
	}
	if name := valueOr(raw.Location.DisplayName, ""); name != "" {
		return name
	}
	if parts := nonEmpty(raw.Location.Area...); len(parts) > 0 {
		return strings.Join(parts, ", ")
	}
	return defaultLocation
}

func (n *Normalizer) tags(raw model.RawExternalRecord) []string {
	categoryTag := ""
	if raw.Category != nil {
		categoryTag = valueOr(raw.Category.Tag, "")
	}
	return nonEmpty(valueOr(raw.ContractType, ""), valueOr(raw.ContractTime, ""), categoryTag)
}

// SalaryLabel renders the salary bounds, or "" when neither is known.
func (n *Normalizer) SalaryLabel(min, max *float64) string {
	switch {
	case min != nil && max != nil:
		return n.money(*min) + " – " + n.money(*max)
	case max != nil:
		return "Up to " + n.money(*max)
	case min != nil:
		return "From " + n.money(*min)
	default:
		return ""
	}
}

// maxMoney bounds amounts before the integer conversion; provider values
// beyond it are rendered as the bound.
const maxMoney = 1e15

func (n *Normalizer) money(v float64) string {
	if math.IsNaN(v) {
		v = 0
	}
	v = max(-maxMoney, min(maxMoney, math.Round(v)))
	return n.currency + n.printer.Sprintf("%d", int64(v))
}

// postedLabel renders created relative to now, in the style of the catalogue.
func (n *Normalizer) postedLabel(created string) string {
	if created == "" {
		return "Recently"
	}
	t, err := time.Parse(time.RFC3339, created)
	if err != nil {
		return "Recently"
	}
	days := int(n.now().Sub(t).Hours() / 24)
	switch {
	case days <= 0:
		return "Today"
	case days == 1:
		return "1 day ago"
	case days <= 30:
		return fmt.Sprintf("%d days ago", days)
	default:
		return t.Format("2 Jan 2006")
	}
}

// InferWorkMode is a substring heuristic over the description, not NLP:
// "remote" wins over "hybrid", anything else is on-site.
func InferWorkMode(description string) model.WorkMode {
	text := strings.ToLower(description)
	switch {
	case strings.Contains(text, "remote"):
		return model.WorkModeRemote
	case strings.Contains(text, "hybrid"):
		return model.WorkModeHybrid
	default:
		return model.WorkModeOnsite
	}
}

// Breakdown derives the capability sub-scores from a match score.
func Breakdown(score int) model.MatchBreakdown {
	return model.MatchBreakdown{
		Skills:     clamp(min(100, score+5)),
		Experience: clamp(max(50, score-5)),
		Education:  clamp(min(100, score+8)),
	}
}

// ListingCoordinates prefers record-level coordinates, then the nested
// location's. Both latitude and longitude must be present.
func ListingCoordinates(raw model.RawExternalRecord) *model.Coordinates {
	if raw.Latitude != nil && raw.Longitude != nil {
		return &model.Coordinates{Latitude: *raw.Latitude, Longitude: *raw.Longitude}
	}
	if raw.Location != nil && raw.Location.Latitude != nil && raw.Location.Longitude != nil {
		return &model.Coordinates{Latitude: *raw.Location.Latitude, Longitude: *raw.Location.Longitude}
	}
	return nil
}

// CurrencySymbol returns the symbol used for salaries in an Adzuna country.
func CurrencySymbol(country string) string {
	switch strings.ToLower(country) {
	case "us", "ca", "au", "nz", "sg":
		return "$"
	case "at", "be", "de", "es", "fr", "it", "nl":
		return "€"
	case "in":
		return "₹"
	default:
		return "£"
	}
}

func clamp(v int) int {
	return min(100, max(0, v))
}

func valueOr(p *string, fallback string) string {
	if p == nil {
		return fallback
	}
	if s := strings.TrimSpace(*p); s != "" {
		return s
	}
	return fallback
}

// humanize turns provider enums such as "full_time" into "Full time".
// spaced turns a provider enum such as "full_time" into "full time".
func spaced(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, "_", " "))
}

// humanize is spaced with the first letter upper-cased.
func humanize(s string) string {
	s = spaced(s)
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return ""
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

func nonEmpty(values ...string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
