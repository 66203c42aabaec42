package dot

import (
	"strings"
	"testing"
)

func TestGraphSerialization(t *testing.T) {
	g := NewGraph("demo")
	g.Set("compound", "true")
	g.AddNode("app").Set("shape", "box")
	g.AddEdge("app", "lib").Set("style", "dashed")

	out := g.String()

	if !strings.HasPrefix(out, `digraph "demo" {`) {
		t.Errorf("Expected digraph header, got: %s", out)
	}
	if !strings.Contains(out, `compound="true";`) {
		t.Errorf("Expected graph attribute, got: %s", out)
	}
	if !strings.Contains(out, `"app" [shape="box"];`) {
		t.Errorf("Expected node statement with attributes, got: %s", out)
	}
	if !strings.Contains(out, `"app" -> "lib" [style="dashed"];`) {
		t.Errorf("Expected edge statement, got: %s", out)
	}
	if !strings.HasSuffix(out, "}\n") {
		t.Errorf("Expected closing brace, got: %s", out)
	}
}

func TestNestedClusters(t *testing.T) {
	g := NewGraph("root")
	project := g.Cluster("proj_core")
	project.Set("label", "core")
	directory := project.Cluster("dir_src")
	directory.AddNode("engine")

	out := g.String()

	if project.Name() != "cluster_proj_core" {
		t.Errorf("Expected cluster name 'cluster_proj_core', got '%s'", project.Name())
	}
	if !strings.Contains(out, `subgraph "cluster_proj_core" {`) {
		t.Errorf("Expected project subgraph, got: %s", out)
	}
	if !strings.Contains(out, `subgraph "cluster_dir_src" {`) {
		t.Errorf("Expected nested directory subgraph, got: %s", out)
	}

	// The directory cluster must be inside the project cluster.
	projectAt := strings.Index(out, "cluster_proj_core")
	directoryAt := strings.Index(out, "cluster_dir_src")
	if directoryAt < projectAt {
		t.Errorf("Expected directory cluster nested after project cluster, got: %s", out)
	}
}

func TestAttributeInsertionOrder(t *testing.T) {
	g := NewGraph("order")
	g.AddNode("n").Set("b", "2").Set("a", "1").Set("b", "3")

	out := g.String()
	if !strings.Contains(out, `[b="3", a="1"]`) {
		t.Errorf("Expected attributes in insertion order with replacement, got: %s", out)
	}
}

func TestQuoteEscaping(t *testing.T) {
	g := NewGraph("esc")
	g.AddNode("n").Set("label", "line1\nline\"2\"\\end")

	out := g.String()
	if !strings.Contains(out, `label="line1\nline\"2\"\\end"`) {
		t.Errorf("Expected escaped label, got: %s", out)
	}
}

func TestDeterministicOutput(t *testing.T) {
	build := func() string {
		g := NewGraph("same")
		g.Set("rankdir", "LR")
		c := g.Cluster("group")
		c.AddNode("a")
		c.AddNode("b")
		g.AddEdge("a", "b")
		return g.String()
	}

	first := build()
	for i := 0; i < 10; i++ {
		if next := build(); next != first {
			t.Fatalf("Expected identical output on rerun %d, got:\n%s\nwant:\n%s", i, next, first)
		}
	}
}

func TestEmptyAttributeStatements(t *testing.T) {
	g := NewGraph("bare")
	g.AddNode("solo")
	g.AddEdge("solo", "other")

	out := g.String()
	if !strings.Contains(out, "\"solo\";\n") {
		t.Errorf("Expected bare node statement, got: %s", out)
	}
	if !strings.Contains(out, "\"solo\" -> \"other\";\n") {
		t.Errorf("Expected bare edge statement, got: %s", out)
	}
}
