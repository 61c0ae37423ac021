// Command simulate runs one trend pipeline against the live providers and
// prints the state trace. Reads the same environment as the REST server.
//
//	go run ./cmd/simulate -type tldr -query "street style" -city Tokyo
package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"strings"
	"time"

	"citystyle-be/internal/bootstrap"
	"citystyle-be/internal/config"
	"citystyle-be/internal/pkg/logger"
	"citystyle-be/pkg/outfit"
	"citystyle-be/pkg/rag"

	"github.com/fatih/color"
)

func main() {
	intent := flag.String("type", "tldr", "tldr | compare | outfit | buy")
	query := flag.String("query", "latest fashion trends", "search query")
	city := flag.String("city", "", "city (defaults to DEFAULT_CITY)")
	items := flag.String("items", "", "comma separated items; runs the outfit composer instead")
	flag.Parse()

	cfg := config.Load()
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Pipeline.Timeout+10*time.Second)
	defer cancel()

	color.Cyan("🚀 Building pipelines (llm=%s, model=%s, images=%s)\n", cfg.Ai.LLMProvider, cfg.Ai.LLMModel, cfg.Ai.ImageModel)
	p, err := bootstrap.NewPipelines(ctx, cfg, logger.NewConsoleLogger())
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	defer p.Close()

	if *items != "" {
		os.Exit(runOutfit(ctx, p.Composer, strings.Split(*items, ",")))
	}
	os.Exit(runTrend(ctx, p.Orchestrator, rag.Query{Intent: rag.Intent(*intent), FreeText: *query, Locale: *city}))
}

func runTrend(ctx context.Context, o *rag.Orchestrator, q rag.Query) int {
	color.Yellow("\n[RAG] type=%s query=%q city=%q", q.Intent, q.FreeText, q.Locale)

	start := time.Now()
	resp, err := o.Run(ctx, q)
	if err != nil {
		var stageErr *rag.StageError
		if errors.As(err, &stageErr) {
			printTrace(stageErr.Trace)
		}
		color.Red("Failed after %s: %v", time.Since(start).Round(time.Millisecond), err)
		return 1
	}

	printTrace(resp.Trace)
	color.Green("Done in %s", time.Since(start).Round(time.Millisecond))
	if resp.Summary != "" {
		color.White("\nSummary:\n%s", resp.Summary)
	}
	if resp.Message != "" {
		color.White("\nMessage:\n%s", resp.Message)
	}
	if resp.ImagesUnavailable() {
		color.Red("\nImages: unavailable")
	}
	for i, url := range resp.ImageURLs {
		if resp.ImagesUnavailable() {
			break
		}
		color.Blue("Image %d: %s", i+1, preview(url))
	}
	return 0
}

func runOutfit(ctx context.Context, c *outfit.Composer, items []string) int {
	composed := outfit.ComposeItems(items)
	color.Yellow("\n[OUTFIT] items=%q", composed)

	res, err := c.Compose(ctx, composed)
	if err != nil {
		color.Red("Failed: %v", err)
		return 1
	}
	color.White("\nOutfit:\n%s", res.Outfit)
	color.Blue("Image: %s", preview(res.ImageURL))
	return 0
}

func printTrace(trace rag.Trace) {
	color.Cyan("\nTrace %s", trace.RunID)
	for _, step := range trace.Steps {
		c := color.New(color.FgGreen)
		if step.State == rag.StateFailed {
			c = color.New(color.FgRed, color.Bold)
		}
		c.Printf("  → %-11s %s\n", step.State, step.Duration.Round(time.Millisecond))
	}
}

// preview keeps data URIs readable on a terminal.
func preview(url string) string {
	if len(url) > 120 {
		return url[:117] + "..."
	}
	return url
}
