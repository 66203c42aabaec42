package output

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/ritzau/cmake-graph/pkg/analysis"
	"github.com/ritzau/cmake-graph/pkg/render"
)

// PrintGraphReport prints a nicely formatted summary of one transform run
// with colors
func PrintGraphReport(buildDir string, res *render.Result) {
	bold := color.New(color.Bold)
	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)
	cyan := color.New(color.FgCyan)

	snapshot := res.Snapshot

	bold.Println("CMake Target Graph - Summary")
	bold.Println("============================")
	fmt.Printf("Build tree: %s\n", buildDir)
	fmt.Printf("Configuration: %s\n", snapshot.Name)
	fmt.Printf("Projects: %d, directories: %d, targets: %d\n",
		len(snapshot.Projects), len(snapshot.Directories), len(snapshot.Targets))
	fmt.Printf("Dependency records: %d\n", len(snapshot.Dependencies))
	fmt.Println()

	if len(res.Frequent) > 0 {
		yellow.Printf("Frequent targets: %d\n", len(res.Frequent))
		for _, ft := range res.Frequent {
			target := snapshot.Targets[ft.Index]
			project := snapshot.Projects[target.ProjectIndex]
			cyan.Printf("  @%s(%d) %s", ft.Marker, ft.UsageCount, target.Name)
			fmt.Printf("  [%s]\n", project.Name)
		}
		fmt.Println()
	}

	if res.Hub != nil {
		green.Printf("Hub: %d shared dependencies recurring across %d targets\n",
			len(res.Hub.Members), res.Hub.Recurrence)
		for _, index := range res.Hub.Members {
			fmt.Printf("  %s\n", snapshot.Targets[index].Name)
		}
		fmt.Println()
	}

	if len(res.Cycles) > 0 {
		red := color.New(color.FgRed)
		red.Printf("Circular dependencies: %d\n", len(res.Cycles))
		for _, cycle := range res.Cycles {
			names := make([]string, 0, len(cycle.Members))
			for _, index := range cycle.Members {
				names = append(names, snapshot.Targets[index].Name)
			}
			fmt.Printf("  %s\n", strings.Join(names, " <-> "))
		}
		fmt.Println()
	}

	dashed, dotted, invis := 0, 0, 0
	for _, edge := range res.Plan.Edges {
		switch edge.Style {
		case analysis.StyleDashed:
			dashed++
		case analysis.StyleDotted:
			dotted++
		case analysis.StyleInvis:
			invis++
		}
	}
	fmt.Printf("Edges drawn: %d (dashed %d, dotted %d, invis %d)\n",
		len(res.Plan.Edges), dashed, dotted, invis)
	fmt.Printf("Marker annotations: %d, hub redirects deduplicated: %d\n",
		res.Plan.Annotated, res.Plan.HubDeduped)
}
