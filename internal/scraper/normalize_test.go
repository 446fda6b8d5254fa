package scraper_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"biocareer/opportunity-service/internal/model"
	"biocareer/opportunity-service/internal/scraper"
)

func ptr[T any](v T) *T { return &v }

var fixedNow = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func newNormalizer(opts ...scraper.NormalizerOption) *scraper.Normalizer {
	opts = append([]scraper.NormalizerOption{
		scraper.WithClock(func() time.Time { return fixedNow }),
		scraper.WithIDGenerator(func() string { return "generated" }),
	}, opts...)
	return scraper.NewNormalizer("gb", scraper.FixedScorer(80), opts...)
}

func TestNormalize_MinimalRecord(t *testing.T) {
	got := newNormalizer().Normalize(model.RawExternalRecord{ID: ptr("123")}, nil)

	assert.Equal(t, "123", got.ID)
	assert.Equal(t, "Untitled role", got.Title)
	assert.Equal(t, "Unknown company", got.Company)
	assert.Equal(t, "Location not specified", got.Location)
	assert.Equal(t, "General", got.Category)
	assert.Equal(t, []string{"General"}, got.Industries)
	assert.Equal(t, model.WorkModeOnsite, got.WorkMode)
	assert.Equal(t, "Recently", got.PostedAt)
	assert.Empty(t, got.Salary)
	assert.Empty(t, got.Pros)
	assert.NotNil(t, got.Cons)
	assert.NotNil(t, got.MissingSkills)
	assert.Empty(t, got.Tags)
	assert.Nil(t, got.DistanceKm)
	assert.False(t, got.VisaSupport)
	assert.False(t, got.MastersSponsorship)
	assert.False(t, got.StudentFriendly)
	assert.Equal(t, model.SourceAdzuna, got.Source)
}

func TestNormalize_Identity(t *testing.T) {
	n := newNormalizer()

	assert.Equal(t, "id-1", n.Normalize(model.RawExternalRecord{ID: ptr("id-1"), AdRef: ptr("ref-1")}, nil).ID)
	assert.Equal(t, "ref-1", n.Normalize(model.RawExternalRecord{AdRef: ptr("ref-1")}, nil).ID)
	assert.Equal(t, "ref-1", n.Normalize(model.RawExternalRecord{ID: ptr(" "), AdRef: ptr("ref-1")}, nil).ID)
	assert.Equal(t, "generated", n.Normalize(model.RawExternalRecord{}, nil).ID)
}

func TestNormalize_DefaultIDsAreUnique(t *testing.T) {
	n := scraper.NewNormalizer("gb", scraper.FixedScorer(70))
	a := n.Normalize(model.RawExternalRecord{}, nil)
	b := n.Normalize(model.RawExternalRecord{}, nil)
	assert.NotEqual(t, a.ID, b.ID)
	assert.Contains(t, a.ID, "adzuna-")
}

func TestInferWorkMode(t *testing.T) {
	cases := []struct {
		description string
		want        model.WorkMode
	}{
		{"", model.WorkModeOnsite},
		{"Lab based role in Leeds", model.WorkModeOnsite},
		{"Hybrid working, two days on site", model.WorkModeHybrid},
		{"Fully REMOTE position", model.WorkModeRemote},
		{"Hybrid or remote considered", model.WorkModeRemote},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, scraper.InferWorkMode(c.description), c.description)
	}
}

func TestSalaryLabel(t *testing.T) {
	n := newNormalizer()
	cases := []struct {
		name     string
		min, max *float64
		want     string
	}{
		{"range", ptr(28407.4), ptr(34581.6), "£28,407 – £34,582"},
		{"max only", nil, ptr(45000.0), "Up to £45,000"},
		{"min only", ptr(1250000.0), nil, "From £1,250,000"},
		{"small", ptr(900.0), nil, "From £900"},
		{"beyond int64", nil, ptr(1e20), "Up to £1,000,000,000,000,000"},
		{"none", nil, nil, ""},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, n.SalaryLabel(c.min, c.max))
		})
	}
}

func TestCurrencySymbol(t *testing.T) {
	assert.Equal(t, "£", scraper.CurrencySymbol("gb"))
	assert.Equal(t, "$", scraper.CurrencySymbol("US"))
	assert.Equal(t, "€", scraper.CurrencySymbol("fr"))
	assert.Equal(t, "₹", scraper.CurrencySymbol("in"))
	assert.Equal(t, "£", scraper.CurrencySymbol("zz"))

	n := scraper.NewNormalizer("us", scraper.FixedScorer(70))
	assert.Equal(t, "Up to $60,000", n.SalaryLabel(nil, ptr(60000.0)))
}

func TestBreakdown(t *testing.T) {
	cases := []struct {
		score int
		want  model.MatchBreakdown
	}{
		{60, model.MatchBreakdown{Skills: 65, Experience: 55, Education: 68}},
		{94, model.MatchBreakdown{Skills: 99, Experience: 89, Education: 100}},
		{50, model.MatchBreakdown{Skills: 55, Experience: 50, Education: 58}},
		{100, model.MatchBreakdown{Skills: 100, Experience: 95, Education: 100}},
		{0, model.MatchBreakdown{Skills: 5, Experience: 50, Education: 8}},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, scraper.Breakdown(c.score), "score %d", c.score)
	}
}

func TestRandomScorerRange(t *testing.T) {
	for range 1000 {
		s := scraper.RandomScorer()
		require.GreaterOrEqual(t, s, 60)
		require.Less(t, s, 95)
	}
}

func TestNormalize_ClampsScorer(t *testing.T) {
	got := scraper.NewNormalizer("gb", scraper.FixedScorer(140)).Normalize(model.RawExternalRecord{}, nil)
	assert.Equal(t, 100, got.MatchScore)

	got = scraper.NewNormalizer("gb", scraper.FixedScorer(-3)).Normalize(model.RawExternalRecord{}, nil)
	assert.Equal(t, 0, got.MatchScore)
	assert.Equal(t, 50, got.MatchBreakdown.Experience)
}

func TestNormalize_FullRecord(t *testing.T) {
	raw := model.RawExternalRecord{
		ID:           ptr("4411"),
		Title:        ptr("Biomedical Scientist"),
		Description:  ptr("Hybrid role within pathology"),
		Created:      ptr("2025-03-07T09:00:00Z"),
		RedirectURL:  ptr("https://www.adzuna.co.uk/jobs/land/ad/4411"),
		Category:     &model.RawCategory{Tag: ptr("healthcare-nursing-jobs"), Label: ptr("Healthcare & Nursing Jobs")},
		Company:      &model.RawCompany{DisplayName: ptr("NHS Trust")},
		Location:     &model.RawLocation{DisplayName: ptr("Southwark, London"), Area: []string{"UK", "London"}},
		SalaryMin:    ptr(28000.0),
		SalaryMax:    ptr(34000.0),
		ContractType: ptr("permanent"),
		ContractTime: ptr("full_time"),
	}

	got := newNormalizer().Normalize(raw, nil)

	assert.Equal(t, "Biomedical Scientist", got.Title)
	assert.Equal(t, "NHS Trust", got.Company)
	assert.Equal(t, "Southwark, London", got.Location)
	assert.Equal(t, "Healthcare & Nursing Jobs", got.Category)
	assert.Equal(t, []string{"Healthcare & Nursing Jobs"}, got.Industries)
	assert.Equal(t, model.WorkModeHybrid, got.WorkMode)
	assert.Equal(t, "3 days ago", got.PostedAt)
	assert.Equal(t, 80, got.MatchScore)
	assert.Equal(t, model.MatchBreakdown{Skills: 85, Experience: 75, Education: 88}, got.MatchBreakdown)
	assert.Equal(t, "£28,000 – £34,000", got.Salary)
	assert.Equal(t, []string{"£28,000 – £34,000", "full time", "Southwark, London"}, got.Pros)
	assert.Equal(t, []string{"permanent", "full_time", "healthcare-nursing-jobs"}, got.Tags)
	assert.Equal(t, "Full time · Permanent", got.ContractType)
	assert.Equal(t, "https://www.adzuna.co.uk/jobs/land/ad/4411", got.RedirectURL)
}

func TestNormalize_ProsSkipAbsentSources(t *testing.T) {
	got := newNormalizer().Normalize(model.RawExternalRecord{
		ContractTime: ptr("part_time"),
		Location:     &model.RawLocation{Area: []string{"UK", "Leeds"}},
	}, nil)

	assert.Equal(t, []string{"part time"}, got.Pros)
	assert.Equal(t, "UK, Leeds", got.Location)
}

func TestNormalize_MultibyteContractTime(t *testing.T) {
	got := newNormalizer().Normalize(model.RawExternalRecord{
		ContractTime: ptr("école_x"),
		ContractType: ptr("über_contract"),
	}, nil)

	assert.Equal(t, []string{"école x"}, got.Pros)
	assert.Equal(t, "École x · Über contract", got.ContractType)
}

func TestNormalize_PostedAt(t *testing.T) {
	n := newNormalizer()
	cases := []struct {
		created string
		want    string
	}{
		{"2025-03-10T08:00:00Z", "Today"},
		{"2025-03-09T08:00:00Z", "1 day ago"},
		{"2025-02-20T12:00:00Z", "18 days ago"},
		{"2024-12-01T12:00:00Z", "1 Dec 2024"},
		{"2025-03-11T12:00:00Z", "Today"},
		{"yesterday", "Recently"},
	}
	for _, c := range cases {
		got := n.Normalize(model.RawExternalRecord{Created: ptr(c.created)}, nil)
		assert.Equal(t, c.want, got.PostedAt, c.created)
	}
}

func TestNormalize_Distance(t *testing.T) {
	user := &model.Coordinates{Latitude: 51.5007, Longitude: -0.1246}
	n := newNormalizer()

	t.Run("record-level coordinates preferred", func(t *testing.T) {
		got := n.Normalize(model.RawExternalRecord{
			Latitude:  ptr(51.5007),
			Longitude: ptr(-0.1246),
			Location:  &model.RawLocation{Latitude: ptr(48.8584), Longitude: ptr(2.2945)},
		}, user)
		require.NotNil(t, got.DistanceKm)
		assert.Equal(t, 0.0, *got.DistanceKm)
	})

	t.Run("nested location coordinates", func(t *testing.T) {
		got := n.Normalize(model.RawExternalRecord{
			Location: &model.RawLocation{Latitude: ptr(48.8584), Longitude: ptr(2.2945)},
		}, user)
		require.NotNil(t, got.DistanceKm)
		assert.InDelta(t, 341, *got.DistanceKm, 5)
	})

	t.Run("half a coordinate pair is ignored", func(t *testing.T) {
		got := n.Normalize(model.RawExternalRecord{Latitude: ptr(51.0)}, user)
		assert.Nil(t, got.DistanceKm)
	})

	t.Run("no user coordinates", func(t *testing.T) {
		got := n.Normalize(model.RawExternalRecord{Latitude: ptr(51.0), Longitude: ptr(0.0)}, nil)
		assert.Nil(t, got.DistanceKm)
	})
}
