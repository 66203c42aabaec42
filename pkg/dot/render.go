package dot

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"
)

// RenderSVG lays out a DOT document and returns the SVG bytes.
func RenderSVG(ctx context.Context, dotSource string) ([]byte, error) {
	return render(ctx, dotSource, graphviz.SVG)
}

// RenderPNG lays out a DOT document and returns the PNG bytes.
func RenderPNG(ctx context.Context, dotSource string) ([]byte, error) {
	return render(ctx, dotSource, graphviz.PNG)
}

func render(ctx context.Context, dotSource string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dotSource))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
