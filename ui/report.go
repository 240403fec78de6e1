package ui

import (
	"fmt"
	"html/template"
	"sort"
	"strings"

	"macrolens/internal/profiling"
	"macrolens/internal/session"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// BuildReport writes the session's clustering result as markdown
func BuildReport(st *session.State) string {
	var b strings.Builder

	b.WriteString("# Cluster report\n\n")
	fmt.Fprintf(&b, "Years %d to %d", st.Scope.StartYear, st.Scope.EndYear)
	if len(st.Scope.Continents) > 0 {
		names := make([]string, len(st.Scope.Continents))
		for i, c := range st.Scope.Continents {
			names[i] = string(c)
		}
		fmt.Fprintf(&b, ", continents: %s", strings.Join(names, ", "))
	} else {
		b.WriteString(", all continents")
	}
	fmt.Fprintf(&b, ". %d observations.\n\n", st.Dataset.Len())

	run := st.Run
	if run == nil {
		b.WriteString("No active clustering.\n")
		if st.RunError != "" {
			fmt.Fprintf(&b, "\nLast attempt failed: `%s`\n", st.RunError)
		}
		return b.String()
	}

	fmt.Fprintf(&b, "## %d clusters for %d\n\n", run.Params.K, run.Params.Year)
	fmt.Fprintf(&b, "- Indicators: %s\n", strings.Join(run.Params.Indicators, ", "))
	fmt.Fprintf(&b, "- Inertia: %.2f\n", run.Inertia)
	fmt.Fprintf(&b, "- Imputed values: %d\n", run.ImputedValues)
	fmt.Fprintf(&b, "- Seed: %d\n\n", run.Params.Seed)

	if len(run.ColumnMeans) > 0 {
		b.WriteString("| Indicator | Imputation mean |\n|---|---|\n")
		inds := make([]string, 0, len(run.ColumnMeans))
		for ind := range run.ColumnMeans {
			inds = append(inds, ind)
		}
		sort.Strings(inds)
		for _, ind := range inds {
			fmt.Fprintf(&b, "| %s | %.4g |\n", escapeCell(ind), run.ColumnMeans[ind])
		}
		b.WriteString("\n")
	}

	writeCoverage(&b, st, run.Params.Indicators, run.Params.Year)

	groups := run.Groups()
	for _, label := range run.Labels() {
		members := groups[label]
		fmt.Fprintf(&b, "### %s (%d)\n\n", label, len(members))
		b.WriteString(strings.Join(members, ", "))
		b.WriteString("\n\n")
	}
	return b.String()
}

// writeCoverage lists the cluster indicators' coverage in the cluster year
func writeCoverage(b *strings.Builder, st *session.State, indicators []string, year int) {
	wanted := make(map[string]bool, len(indicators))
	for _, ind := range indicators {
		wanted[ind] = true
	}

	b.WriteString("| Indicator | Present | Missing | Mean | Std dev |\n|---|---|---|---|---|\n")
	for _, p := range profiling.ProfileDataset(st.Dataset, &year) {
		if !wanted[p.Indicator] {
			continue
		}
		fmt.Fprintf(b, "| %s | %d | %d | %.4g | %.4g |\n",
			escapeCell(p.Indicator), p.Present, p.Missing, p.Summary.Mean, p.Summary.StdDev)
	}
	b.WriteString("\n")
}

// RenderMarkdown converts md to HTML
func RenderMarkdown(md string) template.HTML {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags | html.HrefTargetBlank | html.SkipHTML})
	return template.HTML(markdown.ToHTML([]byte(md), p, renderer))
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
