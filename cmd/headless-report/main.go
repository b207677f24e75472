package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/Garsondee/bug-me-not/internal/game"
)

// reportEvery is how often a run samples the reporter.
const reportEvery = 60

type runStats struct {
	runIndex int
	seed     int64

	firstPathTick   int
	firstRepairTick int
	firstClearTick  int
	firstArriveTick int
	firstKillTick   int
	firstTowerTick  int
	lostTick        int

	placed   map[string]int
	rejected int

	sim           game.SimStats
	finder        game.PathStats
	houseHP       int
	windowSummary *game.WindowReport
}

func main() {
	var runs int
	var ticks int
	var seedBase int64
	var seedStep int64
	var configPath string
	var workers int
	var placeEvery int

	flag.IntVar(&runs, "runs", 5, "number of headless simulation runs")
	flag.IntVar(&ticks, "ticks", 3600, "ticks per run")
	flag.Int64Var(&seedBase, "seed-base", 42, "base RNG seed for run 1")
	flag.Int64Var(&seedStep, "seed-step", 1, "seed increment between runs")
	flag.StringVar(&configPath, "config", "", "tuning YAML (defaults when empty)")
	flag.IntVar(&workers, "workers", 4, "runs simulated in parallel")
	flag.IntVar(&placeEvery, "place-every", 120, "ticks between random structure placements (0 disables)")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if runs <= 0 {
		logger.Error("-runs must be > 0", "runs", runs)
		os.Exit(2)
	}
	if ticks <= 0 {
		logger.Error("-ticks must be > 0", "ticks", ticks)
		os.Exit(2)
	}
	if workers <= 0 {
		workers = 1
	}

	cfg := game.DefaultConfig()
	if configPath != "" {
		loaded, err := game.LoadConfig(configPath)
		if err != nil {
			logger.Error("failed to load config", "path", configPath, "error", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	batch := uuid.NewString()
	fmt.Printf("=== Headless Path Report ===\n")
	fmt.Printf("batch=%s runs=%d ticks=%d seed_base=%d seed_step=%d place_every=%d\n\n",
		batch, runs, ticks, seedBase, seedStep, placeEvery)

	all := runAll(cfg, runs, ticks, seedBase, seedStep, placeEvery, workers)
	for _, rs := range all {
		printRun(rs)
	}
	printAggregate(all)
	logger.Info("batch complete", "batch", batch, "runs", len(all))
}

// runAll fans the runs out over a fixed pool. Each run owns its Sim, so the
// only shared state is the result slice, indexed by run.
func runAll(cfg game.Config, runs, ticks int, seedBase, seedStep int64, placeEvery, workers int) []runStats {
	all := make([]runStats, runs)
	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				seed := seedBase + int64(i)*seedStep
				all[i] = runOnce(cfg, i+1, seed, ticks, placeEvery)
			}
		}()
	}
	for i := 0; i < runs; i++ {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	return all
}

// runOnce simulates one seeded run: terrain, two workers at the house and a
// random scaffold or boulder dropped every placeEvery ticks.
func runOnce(cfg game.Config, runIndex int, seed int64, ticks, placeEvery int) runStats {
	sim := game.NewSim(game.WithConfig(cfg), game.WithSeed(seed), game.WithTerrain())
	sim.SpawnWorker(sim.HouseCell())
	sim.SpawnWorker(sim.HouseCell())

	rng := rand.New(rand.NewSource(seed)) // #nosec G404 -- reproducible placements
	reporter := game.NewSimReporter(0)
	rs := runStats{runIndex: runIndex, seed: seed, placed: map[string]int{}}

	grid := sim.Grid()
	for t := 1; t <= ticks && !sim.Lost(); t++ {
		if placeEvery > 0 && t%placeEvery == 0 {
			kind := game.StructureScaffold
			if rng.Intn(2) == 0 {
				kind = game.StructureBoulder
			}
			c := game.Cell{X: rng.Intn(grid.Cols()), Y: rng.Intn(grid.Rows())}
			if _, err := sim.Place(kind, c); errors.Is(err, game.ErrNotBuildable) {
				rs.rejected++
			} else if err == nil {
				rs.placed[kind.String()]++
			}
		}
		sim.Tick()
		if sim.TickCount()%reportEvery == 0 {
			reporter.Collect(sim)
		}
	}
	if latest := reporter.Latest(); latest == nil || latest.Tick != sim.TickCount() {
		reporter.Collect(sim)
	}

	log := sim.Log()
	rs.firstPathTick = log.FirstTick("path", "found", "")
	rs.firstRepairTick = log.FirstTick("path", "repaired", "")
	rs.firstClearTick = log.FirstTick("path", "cleared", "")
	rs.firstArriveTick = log.FirstTick("arrive", "house", "")
	rs.firstKillTick = log.FirstTick("trap", "killed", "")
	rs.firstTowerTick = log.FirstTick("build", "tower", "")
	rs.lostTick = log.FirstTick("house", "lost", "")
	rs.sim = sim.Stats()
	rs.finder = sim.Finder().Stats()
	rs.houseHP = sim.HouseHP()
	rs.windowSummary = reporter.WindowSummary()
	return rs
}

// verdict classifies a run by how the house fared.
func verdict(rs runStats) string {
	switch {
	case rs.lostTick >= 0:
		return "lost"
	case rs.sim.Arrived == 0:
		return "untouched"
	default:
		return "held"
	}
}

func printRun(rs runStats) {
	fmt.Printf("--- Run %d (seed=%d) verdict=%s hp=%d ---\n", rs.runIndex, rs.seed, verdict(rs), rs.houseHP)
	fmt.Printf("phase_markers: first_path=%d first_repair=%d first_clear=%d first_arrive=%d first_kill=%d first_tower=%d lost=%d\n",
		rs.firstPathTick, rs.firstRepairTick, rs.firstClearTick, rs.firstArriveTick, rs.firstKillTick, rs.firstTowerTick, rs.lostTick)
	fmt.Printf("insects: spawned=%d arrived=%d killed=%d\n", rs.sim.Spawned, rs.sim.Arrived, rs.sim.Killed)
	fmt.Printf("paths: found=%d failed=%d mean_len=%.1f repairs=%d cleared=%d\n",
		rs.sim.Paths, rs.sim.PathFailures, rs.sim.MeanPathLen(), rs.sim.Repairs, rs.sim.Cleared)
	fmt.Printf("search: calls=%d expansions=%d grouped=%d\n", rs.finder.Searches, rs.finder.Expansions, rs.finder.Grouped)
	fmt.Printf("placements: %s rejected=%d towers_built=%d\n", joinCounts(rs.placed), rs.rejected, rs.sim.TowersBuilt)
	fmt.Print(rs.windowSummary.Format())
	fmt.Println()
}

func printAggregate(all []runStats) {
	totalSpawned := 0
	totalArrived := 0
	totalKilled := 0
	totalRepairs := 0
	totalCleared := 0
	totalExpansions := 0
	lost := 0

	repairTicks := make([]int, 0, len(all))
	arriveTicks := make([]int, 0, len(all))
	lostTicks := make([]int, 0, len(all))
	verdicts := map[string]int{}

	for _, rs := range all {
		totalSpawned += rs.sim.Spawned
		totalArrived += rs.sim.Arrived
		totalKilled += rs.sim.Killed
		totalRepairs += rs.sim.Repairs
		totalCleared += rs.sim.Cleared
		totalExpansions += rs.finder.Expansions
		if rs.firstRepairTick >= 0 {
			repairTicks = append(repairTicks, rs.firstRepairTick)
		}
		if rs.firstArriveTick >= 0 {
			arriveTicks = append(arriveTicks, rs.firstArriveTick)
		}
		if rs.lostTick >= 0 {
			lostTicks = append(lostTicks, rs.lostTick)
			lost++
		}
		verdicts[verdict(rs)]++
	}

	fmt.Println("=== Aggregate ===")
	fmt.Printf("runs=%d lost=%d verdicts=%s\n", len(all), lost, joinCounts(verdicts))
	fmt.Printf("avg_per_run: spawned=%.1f arrived=%.1f killed=%.1f repairs=%.1f cleared=%.1f expansions=%.0f\n",
		avg(totalSpawned, len(all)), avg(totalArrived, len(all)), avg(totalKilled, len(all)),
		avg(totalRepairs, len(all)), avg(totalCleared, len(all)), avg(totalExpansions, len(all)))
	fmt.Printf("phase_marker_avg_ticks: first_repair=%s first_arrive=%s lost=%s\n",
		avgTickString(repairTicks), avgTickString(arriveTicks), avgTickString(lostTicks))
}

func avg(sum int, n int) float64 {
	if n <= 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

func avgTickString(vals []int) string {
	if len(vals) == 0 {
		return "n/a"
	}
	sum := 0
	for _, v := range vals {
		sum += v
	}
	return fmt.Sprintf("%.1f", float64(sum)/float64(len(vals)))
}

func joinCounts(m map[string]int) string {
	if len(m) == 0 {
		return "none"
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%d", k, m[k]))
	}
	return strings.Join(parts, ",")
}
