package main

import (
	"fmt"
	"strings"
	"testing"

	"codeview/internal/byterange"
	"codeview/internal/highlight"
	"codeview/internal/pipeline"
	"codeview/internal/search"
	"codeview/internal/token"
	"codeview/internal/tokenizer"
)

func BenchmarkRenderGoSource(b *testing.B) {
	src, _, _ := makeBenchmarkGoSource(400)
	in := pipeline.Input{Source: src, Language: "go", Highlights: search.Ranges(src, "items")}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = pipeline.Render(in)
	}
}

func BenchmarkEngineRenderCached(b *testing.B) {
	src, _, _ := makeBenchmarkGoSource(400)
	engine := pipeline.NewEngine(pipeline.EngineConfig{CacheSize: 8, Workers: 1})
	in := pipeline.Input{Source: src, Language: "go", Highlights: search.Ranges(src, "items")}
	_ = engine.Render(in)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = engine.Render(in)
	}
}

func BenchmarkHighlightMap(b *testing.B) {
	src, targetLine, targetText := makeBenchmarkGoSource(2000)
	lines := byterange.Assign(tokenizer.Tokenize(src, "go"), token.LF)

	offset := strings.Index(src, targetText)
	if offset < 0 {
		b.Fatalf("target line %d not found", targetLine)
	}
	ranges := append(search.Ranges(src, "value"), token.Range{Start: offset, End: offset + len(targetText)})

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = highlight.Map(lines, ranges)
	}
}

func BenchmarkRenderDocument(b *testing.B) {
	src, _, _ := makeBenchmarkGoSource(400)
	lines := pipeline.Render(pipeline.Input{Source: src, Language: "go"})
	opts := renderOptions{Numbers: true, RoundRuns: true, Width: 120}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = renderDocument(lines, opts)
	}
}

func makeBenchmarkGoSource(bodyLines int) (string, int, string) {
	var sb strings.Builder
	sb.WriteString("package bench\n\n")
	sb.WriteString("func run(items []int) int {\n")

	targetLine := 0
	targetText := ""
	for i := 0; i < bodyLines; i++ {
		line := fmt.Sprintf("\tvalue%d := items[%d%%len(items)] + %d", i, i, i)
		if i == bodyLines/2 {
			targetLine = 4 + i
			targetText = line
		}
		sb.WriteString(line)
		sb.WriteByte('\n')
	}

	sb.WriteString("\treturn value0\n")
	sb.WriteString("}\n")
	return sb.String(), targetLine, targetText
}
