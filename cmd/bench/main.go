package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aretw0/deckforge/internal/platform"
	"github.com/aretw0/deckforge/pkg/core"
)

func main() {
	lessons := flag.Int("lessons", 100, "Number of lesson files to generate")
	sections := flag.Int("sections", 5, "Sections per lesson")
	notes := flag.Int("notes", 20, "Notes per section")
	keep := flag.Bool("keep", false, "Keep the benchmark directory after running")
	flag.Parse()

	benchDir, err := os.MkdirTemp("", "deckforge_bench_")
	if err != nil {
		panic(err)
	}
	defer func() {
		if !*keep {
			os.RemoveAll(benchDir)
		} else {
			fmt.Printf("Keeping bench dir: %s\n", benchDir)
		}
	}()

	fmt.Printf("Generating %d lessons (%d sections x %d notes) in %s...\n", *lessons, *sections, *notes, benchDir)
	startGen := time.Now()
	for l := 1; l <= *lessons; l++ {
		var b strings.Builder
		fmt.Fprintf(&b, "%d | Lesson %d\n", l, l)
		for s := 1; s <= *sections; s++ {
			fmt.Fprintf(&b, "\n%d | Section %d\n", s, s)
			for n := 1; n <= *notes; n++ {
				fmt.Fprintf(&b, "%d | left %d.%d.%d | right %d.%d.%d\n", n, l, s, n, l, s, n)
			}
		}
		filename := filepath.Join(benchDir, fmt.Sprintf("%04d.txt", l))
		if err := os.WriteFile(filename, []byte(b.String()), 0644); err != nil {
			panic(err)
		}
	}
	fmt.Printf("Generation took: %v\n", time.Since(startGen))

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelWarn}))
	ctx := context.Background()

	// Run 1: cold, the fingerprint index does not exist yet.
	service, err := platform.New(benchDir, platform.WithLogger(logger))
	if err != nil {
		panic(err)
	}
	startCold := time.Now()
	loaded, err := service.Check(ctx)
	if err != nil {
		panic(err)
	}
	cold := time.Since(startCold)
	fmt.Printf("Check (cold): %v (lessons: %d)\n", cold, len(loaded))

	// Run 2: a fresh service, as a new CLI invocation would create.
	service2, err := platform.New(benchDir, platform.WithLogger(logger))
	if err != nil {
		panic(err)
	}
	startWarm := time.Now()
	if _, err := service2.Check(ctx); err != nil {
		panic(err)
	}
	warm := time.Since(startWarm)
	fmt.Printf("Check (warm): %v\n", warm)

	startBuild := time.Now()
	res, err := service2.Build(ctx, core.BuildRequest{
		Header:  "Bench",
		Variant: core.BothWays,
		Output:  filepath.Join(benchDir, "output", "bench.apkg"),
	})
	if err != nil {
		panic(err)
	}
	build := time.Since(startBuild)

	fmt.Printf("--------------------------------------------------\n")
	fmt.Printf("Benchmark Result (%s):\n", res.Summary)
	fmt.Printf("  Check cold: %v\n", cold)
	fmt.Printf("  Check warm: %v\n", warm)
	fmt.Printf("  Build:      %v\n", build)
	fmt.Printf("--------------------------------------------------\n")
}
