package feed_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"biocareer/opportunity-service/internal/feed"
	"biocareer/opportunity-service/internal/model"
)

// fixture has six records, exactly two of which offer visa support.
func fixture() []model.Opportunity {
	return []model.Opportunity{
		{ID: "1", Title: "Biomedical Scientist", Company: "Guy's Hospital", Location: "London", Category: "Healthcare",
			Industries: []string{"NHS", "Pathology"}, WorkMode: model.WorkModeOnsite, VisaSupport: true},
		{ID: "2", Title: "Lab Technician", Company: "Synnovis", Location: "London", Category: "Healthcare",
			Industries: []string{"Diagnostics"}, WorkMode: model.WorkModeOnsite, StudentFriendly: true},
		{ID: "3", Title: "Research Assistant", Company: "Imperial", Location: "London", Category: "Research",
			Industries: []string{"Academic", "Immunology"}, WorkMode: model.WorkModeHybrid, MastersSponsorship: true},
		{ID: "4", Title: "Data Analyst Intern", Company: "Horizons Bank", Location: "London", Category: "Data & Analytics",
			Industries: []string{"Finance"}, WorkMode: model.WorkModeHybrid, StudentFriendly: true},
		{ID: "5", Title: "Forensic Scientist", Company: "Key Forensics", Location: "Birmingham", Category: "Forensics",
			Industries: []string{"Justice"}, WorkMode: model.WorkModeOnsite, VisaSupport: true, MastersSponsorship: true},
		{ID: "6", Title: "UX Intern", Company: "Northstar", Location: "Remote (UK)", Category: "Design",
			Industries: []string{"Mobility"}, WorkMode: model.WorkModeRemote, StudentFriendly: true},
	}
}

func allQuery() model.SearchQuery {
	return model.SearchQuery{Category: model.FacetAll, Industry: model.FacetAll, WorkMode: model.FacetAll}
}

func ids(items []model.Opportunity) []string {
	out := make([]string, 0, len(items))
	for _, o := range items {
		out = append(out, o.ID)
	}
	return out
}

func TestFilter_SentinelPassThrough(t *testing.T) {
	items := fixture()
	assert.Equal(t, items, feed.Filter(items, allQuery()))
	assert.Equal(t, items, feed.Filter(items, model.SearchQuery{}))
}

func TestFilter_EmptyInput(t *testing.T) {
	got := feed.Filter(nil, allQuery())
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestFilter(t *testing.T) {
	cases := []struct {
		name   string
		modify func(q *model.SearchQuery)
		want   []string
	}{
		{"text in title", func(q *model.SearchQuery) { q.Text = "scientist" }, []string{"1", "5"}},
		{"text case-insensitive", func(q *model.SearchQuery) { q.Text = "SCIENTIST" }, []string{"1", "5"}},
		{"text in company", func(q *model.SearchQuery) { q.Text = "horizons" }, []string{"4"}},
		{"text in location", func(q *model.SearchQuery) { q.Text = "birmingham" }, []string{"5"}},
		{"text in category", func(q *model.SearchQuery) { q.Text = "analytics" }, []string{"4"}},
		{"text in industry", func(q *model.SearchQuery) { q.Text = "immunology" }, []string{"3"}},
		{"text spans fields", func(q *model.SearchQuery) { q.Text = "london healthcare" }, []string{"1", "2"}},
		{"text no match", func(q *model.SearchQuery) { q.Text = "astronaut" }, []string{}},
		{"category exact", func(q *model.SearchQuery) { q.Category = "Healthcare" }, []string{"1", "2"}},
		{"category is not a substring match", func(q *model.SearchQuery) { q.Category = "Health" }, []string{}},
		{"industry membership", func(q *model.SearchQuery) { q.Industry = "Pathology" }, []string{"1"}},
		{"work mode", func(q *model.SearchQuery) { q.WorkMode = "hybrid" }, []string{"3", "4"}},
		{"visa", func(q *model.SearchQuery) { q.VisaOnly = true }, []string{"1", "5"}},
		{"masters", func(q *model.SearchQuery) { q.MastersOnly = true }, []string{"3", "5"}},
		{"student", func(q *model.SearchQuery) { q.StudentOnly = true }, []string{"2", "4", "6"}},
		{"combined", func(q *model.SearchQuery) {
			q.VisaOnly = true
			q.MastersOnly = true
		}, []string{"5"}},
		{"combined facets and text", func(q *model.SearchQuery) {
			q.Text = "intern"
			q.WorkMode = "remote"
			q.StudentOnly = true
		}, []string{"6"}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			q := allQuery()
			c.modify(&q)
			assert.Equal(t, c.want, ids(feed.Filter(fixture(), q)))
		})
	}
}

func TestFilter_IsOrderedSubsequence(t *testing.T) {
	items := fixture()
	queries := []model.SearchQuery{
		{Text: "london"},
		{StudentOnly: true},
		{Text: "in", WorkMode: "onsite"},
	}
	for _, q := range queries {
		got := feed.Filter(items, q)
		j := 0
		for _, o := range got {
			for j < len(items) && items[j].ID != o.ID {
				j++
			}
			assert.Less(t, j, len(items), "item %s out of order", o.ID)
			j++
		}
	}
}

func TestFilter_SingleItem(t *testing.T) {
	o := fixture()[:1]
	assert.Len(t, feed.Filter(o, allQuery()), 1)
	assert.Empty(t, feed.Filter(o, model.SearchQuery{StudentOnly: true}))
}
