package main

import (
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"biocareer/opportunity-service/internal/feed"
	"biocareer/opportunity-service/internal/model"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12"))
	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10"))
	scoreStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("11"))
	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8"))
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Run one search and print the matching opportunities",
	Example: `  opportunity-service search --q scientist
  opportunity-service search --postcode "SE1 7EH" --distance 10 --visa`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, logger, err := setup()
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		p, err := newPipeline(cfg, nil, logger)
		if err != nil {
			return err
		}

		result, err := p.feed.Search(cmd.Context(), feed.ParseQuery(searchValues(cmd)))
		if err != nil {
			return err
		}
		printResult(cmd.OutOrStdout(), result)
		return nil
	},
}

func init() {
	addSearchFlags(searchCmd)
}

func addSearchFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("q", "", "free-text search over title, company, location and category")
	f.String("category", "", "category facet")
	f.String("industry", "", "industry facet")
	f.String("work-mode", "", "onsite, hybrid or remote")
	f.String("postcode", "", "search around this postcode")
	f.Int("distance", 0, "radius in km around the postcode")
	f.Bool("visa", false, "only visa-sponsoring roles")
	f.Bool("masters", false, "only roles sponsoring a masters")
	f.Bool("student", false, "only student-friendly roles")
}

// searchValues maps flags onto the list endpoint parameters so both entry
// points share one parser.
func searchValues(cmd *cobra.Command) url.Values {
	f := cmd.Flags()
	v := url.Values{}
	for flag, param := range map[string]string{
		"q":         feed.ParamText,
		"category":  feed.ParamCategory,
		"industry":  feed.ParamIndustry,
		"work-mode": feed.ParamWorkMode,
		"postcode":  feed.ParamPostcode,
	} {
		if s, _ := f.GetString(flag); s != "" {
			v.Set(param, s)
		}
	}
	if d, _ := f.GetInt("distance"); d > 0 {
		v.Set(feed.ParamDistance, strconv.Itoa(d))
	}
	for flag, param := range map[string]string{
		"visa":    feed.ParamVisaOnly,
		"masters": feed.ParamMastersOnly,
		"student": feed.ParamStudentOnly,
	} {
		if b, _ := f.GetBool(flag); b {
			v.Set(param, "true")
		}
	}
	return v
}

func printResult(w io.Writer, result model.SearchResult) {
	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("Found %d opportunities", result.Total)))
	for i, o := range result.Items {
		fmt.Fprintf(w, "\n%d. %s %s\n", i+1, o.Title, scoreStyle.Render(fmt.Sprintf("%d%%", o.MatchScore)))
		fmt.Fprintf(w, "   %s %s\n", labelStyle.Render("Company:"), o.Company)
		location := o.Location
		if o.DistanceKm != nil {
			location = fmt.Sprintf("%s (%.1f km)", location, *o.DistanceKm)
		}
		fmt.Fprintf(w, "   %s %s · %s\n", labelStyle.Render("Location:"), location, o.WorkMode)
		if o.Salary != "" {
			fmt.Fprintf(w, "   %s %s\n", labelStyle.Render("Salary:"), o.Salary)
		}
		if o.RedirectURL != "" {
			fmt.Fprintf(w, "   %s %s\n", labelStyle.Render("Apply:"), o.RedirectURL)
		}
		if len(o.Tags) > 0 {
			fmt.Fprintf(w, "   %s\n", mutedStyle.Render(strings.Join(o.Tags, ", ")))
		}
		fmt.Fprintf(w, "   %s\n", mutedStyle.Render(o.PostedAt+" · "+o.Source))
	}
}
