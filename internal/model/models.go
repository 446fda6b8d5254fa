// Package model defines the data structures shared by the opportunity pipeline.
package model

// WorkMode is where the work happens.
type WorkMode string

const (
	WorkModeOnsite WorkMode = "onsite"
	WorkModeHybrid WorkMode = "hybrid"
	WorkModeRemote WorkMode = "remote"
)

// FacetAll is the sentinel that disables a category, industry or work-mode facet.
const FacetAll = "all"

// Source labels where an Opportunity came from.
const (
	SourceAdzuna    = "adzuna"
	SourceCatalogue = "catalogue"
)

// MatchBreakdown splits a match score into capability sub-scores, each in [0,100].
type MatchBreakdown struct {
	Skills     int `json:"skills" yaml:"skills"`
	Experience int `json:"experience" yaml:"experience"`
	Education  int `json:"education" yaml:"education"`
}

// Opportunity is the canonical job listing returned to clients.
// Records are built per request and never mutated afterwards.
type Opportunity struct {
	ID                 string         `json:"id" yaml:"id"`
	Title              string         `json:"title" yaml:"title"`
	Company            string         `json:"company" yaml:"company"`
	Location           string         `json:"location" yaml:"location"`
	Category           string         `json:"category" yaml:"category"`
	Industries         []string       `json:"industries" yaml:"industries"`
	WorkMode           WorkMode       `json:"workMode" yaml:"workMode"`
	PostedAt           string         `json:"postedAt" yaml:"postedAt"`
	MatchScore         int            `json:"matchScore" yaml:"matchScore"`
	MatchBreakdown     MatchBreakdown `json:"matchBreakdown" yaml:"matchBreakdown"`
	DistanceKm         *float64       `json:"distanceKm,omitempty" yaml:"-"`
	Pros               []string       `json:"pros" yaml:"pros"`
	Cons               []string       `json:"cons" yaml:"cons"`
	MissingSkills      []string       `json:"missingSkills" yaml:"missingSkills"`
	VisaSupport        bool           `json:"visaSupport" yaml:"visaSupport"`
	MastersSponsorship bool           `json:"mastersSponsorship" yaml:"mastersSponsorship"`
	StudentFriendly    bool           `json:"studentFriendly" yaml:"studentFriendly"`
	Tags               []string       `json:"tags" yaml:"tags"`
	Salary             string         `json:"salary,omitempty" yaml:"salary"`
	ContractType       string         `json:"contractType,omitempty" yaml:"contractType"`
	RedirectURL        string         `json:"redirectUrl,omitempty" yaml:"redirectUrl"`
	ExperienceLevel    string         `json:"experienceLevel,omitempty" yaml:"experienceLevel"`
	EducationLevel     string         `json:"educationLevel,omitempty" yaml:"educationLevel"`
	Source             string         `json:"source" yaml:"-"`
}

// Coaching is a short piece of advice attached to a gap alert.
type Coaching struct {
	Title string `json:"title" yaml:"title"`
	Body  string `json:"body" yaml:"body"`
}

// AnalysisStat is a labelled figure shown on the detail view.
type AnalysisStat struct {
	Label   string `json:"label" yaml:"label"`
	Value   string `json:"value" yaml:"value"`
	Caption string `json:"caption" yaml:"caption"`
}

// DetailedOpportunity is a curated catalogue record with the extra fields
// rendered by the detail view.
type DetailedOpportunity struct {
	Opportunity      `yaml:",inline"`
	Department       string         `json:"department" yaml:"department"`
	Deadline         string         `json:"deadline" yaml:"deadline"`
	Commute          string         `json:"commute" yaml:"commute"`
	CompanyBadge     string         `json:"companyBadge,omitempty" yaml:"companyBadge"`
	StrategicInsight string         `json:"strategicInsight" yaml:"strategicInsight"`
	MatchReasons     []string       `json:"matchReasons" yaml:"matchReasons"`
	GapAlerts        []string       `json:"gapAlerts" yaml:"gapAlerts"`
	GapCoaching      []Coaching     `json:"gapCoaching" yaml:"gapCoaching"`
	AnalysisStats    []AnalysisStat `json:"analysisStats" yaml:"analysisStats"`
	RoleSummary      string         `json:"roleSummary" yaml:"roleSummary"`
	KeyDuties        []string       `json:"keyDuties" yaml:"keyDuties"`
}

// Coordinates is a latitude/longitude pair in decimal degrees.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// SearchQuery is the request-scoped query contract. It is never persisted.
type SearchQuery struct {
	Text        string
	Category    string
	Industry    string
	WorkMode    string
	VisaOnly    bool
	MastersOnly bool
	StudentOnly bool
	Postcode    string
	DistanceKm  int
}

// SearchResult is the response shape of a search. Total is the post-filter count.
type SearchResult struct {
	Total int           `json:"total"`
	Items []Opportunity `json:"items"`
}

// RawExternalRecord mirrors a single Adzuna job listing. Every field is
// optional; absence means "unknown", never an error.
type RawExternalRecord struct {
	ID           *string      `json:"id,omitempty"`
	AdRef        *string      `json:"adref,omitempty"`
	Title        *string      `json:"title,omitempty"`
	Description  *string      `json:"description,omitempty"`
	Created      *string      `json:"created,omitempty"`
	RedirectURL  *string      `json:"redirect_url,omitempty"`
	Category     *RawCategory `json:"category,omitempty"`
	Company      *RawCompany  `json:"company,omitempty"`
	Location     *RawLocation `json:"location,omitempty"`
	SalaryMin    *float64     `json:"salary_min,omitempty"`
	SalaryMax    *float64     `json:"salary_max,omitempty"`
	ContractType *string      `json:"contract_type,omitempty"`
	ContractTime *string      `json:"contract_time,omitempty"`
	Latitude     *float64     `json:"latitude,omitempty"`
	Longitude    *float64     `json:"longitude,omitempty"`
}

// RawCategory is the provider's category object.
type RawCategory struct {
	Tag   *string `json:"tag,omitempty"`
	Label *string `json:"label,omitempty"`
}

// RawCompany is the provider's company object.
type RawCompany struct {
	DisplayName *string `json:"display_name,omitempty"`
}

// RawLocation is the provider's location object.
type RawLocation struct {
	DisplayName *string  `json:"display_name,omitempty"`
	Area        []string `json:"area,omitempty"`
	Latitude    *float64 `json:"latitude,omitempty"`
	Longitude   *float64 `json:"longitude,omitempty"`
}
