package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/annel0/zonegrid/internal/collision"
	"github.com/annel0/zonegrid/internal/config"
	"github.com/annel0/zonegrid/internal/levelgen"
	"github.com/annel0/zonegrid/internal/storage"
)

func main() {
	var (
		name    = flag.String("name", "", "Layout name (default: generated-<seed>)")
		seed    = flag.Int64("seed", time.Now().UnixNano(), "Noise seed")
		width   = flag.Float64("width", 200, "Map size along X")
		depth   = flag.Float64("depth", 200, "Map size along Z")
		step    = flag.Float64("step", 4, "Sampling step")
		zones   = flag.Int("zones", 4, "Number of trigger zones")
		forest  = flag.Float64("forest", 0.35, "Tree chance in forest biome")
		noWalls = flag.Bool("no-walls", false, "Do not add boundary walls")
		out     = flag.String("out", "", "Write YAML layout to file")
		backend = flag.String("store", "", "Save into storage backend: badger | redis | tiered")
		badger  = flag.String("badger", "data", "BadgerDB path for -store badger")
		redis   = flag.String("redis", "localhost:6379", "Redis address for -store redis")
	)
	flag.Parse()

	p := levelgen.DefaultParams(*seed)
	p.Width, p.Depth, p.Step = *width, *depth, *step
	p.Zones = *zones
	p.ForestDensity = *forest
	p.Walls = !*noWalls
	if *name != "" {
		p.Name = *name
	}

	layout := levelgen.Generate(p)
	if err := layout.Validate(); err != nil {
		log.Fatalf("❌ Invalid layout: %v", err)
	}

	printSummary(layout, p)

	if *out != "" {
		if err := storage.WriteLayoutFile(*out, layout); err != nil {
			log.Fatalf("❌ Write failed: %v", err)
		}
		fmt.Printf("📄 Written to %s\n", *out)
	}

	if *backend != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		repo, err := storage.Open(ctx, config.StorageConfig{
			Backend:    *backend,
			BadgerPath: *badger,
			RedisAddr:  *redis,
		})
		if err != nil {
			log.Fatalf("❌ Storage: %v", err)
		}
		defer repo.Close()

		if err := repo.Save(ctx, layout); err != nil {
			log.Fatalf("❌ Save failed: %v", err)
		}
		fmt.Printf("💾 Saved %s into %s\n", layout.Name, *backend)
	}

	if *out == "" && *backend == "" {
		fmt.Fprintln(os.Stderr, "nothing written: pass -out or -store")
	}
}

// printSummary печатает состав раскладки и статистику сетки, как её увидит движок
func printSummary(layout *storage.Layout, p levelgen.Params) {
	byName := make(map[string]int)
	for _, prop := range layout.Props {
		byName[prop.Name]++
	}

	e := collision.NewEngine(collision.DefaultOptions())
	e.AddPropsColliders(layout.Props)
	stats := e.GetStats()

	fmt.Printf("🗺  %s (seed=%d, %.0fx%.0f)\n", layout.Name, p.Seed, p.Width, p.Depth)
	for _, kind := range []string{"tree", "rock", "water", "cactus", "crate"} {
		if n := byName[kind]; n > 0 {
			fmt.Printf("   %-7s %d\n", kind, n)
		}
	}
	fmt.Printf("   zones   %d\n", len(layout.Zones))
	fmt.Printf("   grid: %d colliders in %d cells (%.2f per cell)\n",
		stats.ColliderCount, stats.GridCellCount, stats.AvgCollidersPerCell)
}
