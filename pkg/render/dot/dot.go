package dot

import (
	"bytes"
	"cmp"
	"context"
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/supplychain/pkg/deps"
	"github.com/matzehuels/supplychain/pkg/provenance"
)

// Options configures diagram generation.
type Options struct {
	// Detailed adds the version and source to node labels.
	Detailed bool
}

var fillColors = map[provenance.Source]string{
	provenance.Local:    "lightblue",
	provenance.Registry: "white",
	provenance.Foreign:  "salmon",
}

var edgeStyles = map[deps.DependencyKind]string{
	deps.KindNormal:      "solid",
	deps.KindBuild:       "dotted",
	deps.KindDevelopment: "dashed",
}

type edge struct {
	from, to deps.PackageID
	kind     deps.DependencyKind
}

// ToDOT converts a classified graph to Graphviz DOT source.
// Dependencies that match no package in c are omitted.
func ToDOT(c *provenance.Classified, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.6;\n")
	buf.WriteString("  nodesep=0.25;\n")
	buf.WriteString("\n")

	list := c.List()
	for _, sp := range list {
		attrs := []string{
			fmt.Sprintf("label=%q", fmtLabel(sp, opts.Detailed)),
			fmt.Sprintf("fillcolor=%s", fillColors[sp.Source]),
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", string(sp.Package.ID), strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range edges(list) {
		fmt.Fprintf(&buf, "  %q -> %q [style=%s];\n", string(e.from), string(e.to), edgeStyles[e.kind])
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(sp provenance.SourcedPackage, detailed bool) string {
	label := sp.Package.Name
	if !detailed {
		return label
	}
	return label + "\n" + sp.Package.Version + "\n" + sp.Source.String()
}

// edges resolves declared dependencies against the packages present.
func edges(list []provenance.SourcedPackage) []edge {
	byName := make(map[string][]*deps.Package)
	for _, sp := range list {
		byName[sp.Package.Name] = append(byName[sp.Package.Name], sp.Package)
	}

	seen := make(map[edge]bool)
	var out []edge
	for _, sp := range list {
		for _, d := range sp.Package.Dependencies {
			key := provenance.KeyOf(d)
			for _, target := range byName[d.Name] {
				if !key.Matches(target) {
					continue
				}
				e := edge{from: sp.Package.ID, to: target.ID, kind: d.Kind}
				if !seen[e] {
					seen[e] = true
					out = append(out, e)
				}
			}
		}
	}
	slices.SortFunc(out, func(a, b edge) int {
		if c := cmp.Compare(a.from, b.from); c != 0 {
			return c
		}
		if c := cmp.Compare(a.to, b.to); c != 0 {
			return c
		}
		return cmp.Compare(a.kind, b.kind)
	})
	return out
}

// RenderSVG renders DOT source to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root element so the SVG scales from the origin.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
