package game

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// GridConfig sizes the playfield.
type GridConfig struct {
	WorldWidth  int `yaml:"world_width"`  // pixels
	WorldHeight int `yaml:"world_height"` // pixels
	CellSize    int `yaml:"cell_size"`    // pixels per cell edge
	EmptyRadius int `yaml:"empty_radius"` // 1 = 3x3 build clearance, 2 = 5x5
	AvoidRadius int `yaml:"avoid_radius"` // cells scanned for avoid markers
}

// PathConfig holds the search tunables. Costs are in abstract move units.
type PathConfig struct {
	MoveCost       int  `yaml:"move_cost"`     // orthogonal base cost
	DiagonalCost   int  `yaml:"diagonal_cost"` // diagonal base cost, only with Diagonal
	Diagonal       bool `yaml:"diagonal"`
	HeuristicCost  int  `yaml:"heuristic_cost"` // per Manhattan step
	JitterWide     int  `yaml:"jitter_wide"`    // random extra per direction when veryRandom
	JitterNarrow   int  `yaml:"jitter_narrow"`  // random extra otherwise; 0 = deterministic
	ReshuffleEvery int  `yaml:"reshuffle_every"`
	TowerPenalty   int  `yaml:"tower_penalty"` // cell not EmptyAround
	AvoidPenalty   int  `yaml:"avoid_penalty"` // cell near an avoid marker
	GroupChance    int  `yaml:"group_chance"`  // 1-in-N calls start a seeded group
	GroupRun       int  `yaml:"group_run"`     // calls sharing one group seed
}

// SimConfig holds the tick-loop tunables.
type SimConfig struct {
	StepPixels     int  `yaml:"step_pixels"` // must divide the cell size
	MoveEvery      int  `yaml:"move_every"`  // ticks between steps
	HiveSpawnEvery int  `yaml:"hive_spawn_every"`
	MaxInsects     int  `yaml:"max_insects"`
	RepathEvery    int  `yaml:"repath_every"` // idle ticks before retrying a failed search
	BuildTicks     int  `yaml:"build_ticks"`
	HouseHP        int  `yaml:"house_hp"`
	TrapCharges    int  `yaml:"trap_charges"`
	HiveZone       Zone `yaml:"hive_zone"`
	HouseZone      Zone `yaml:"house_zone"` // X/Y are offsets from the far corner
}

// TerrainConfig drives GenerateTerrain.
type TerrainConfig struct {
	BlockingMin int `yaml:"blocking_min"`
	BlockingMax int `yaml:"blocking_max"`
	Scraps      int `yaml:"scraps"`
	MaxAttempts int `yaml:"max_attempts"`
}

// Zone is a rectangle of cells.
type Zone struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
	W int `yaml:"w"`
	H int `yaml:"h"`
}

// Config is the full tuning set.
type Config struct {
	Grid    GridConfig    `yaml:"grid"`
	Path    PathConfig    `yaml:"path"`
	Sim     SimConfig     `yaml:"sim"`
	Terrain TerrainConfig `yaml:"terrain"`
}

// DefaultConfig returns the stock 40x25 playfield tuning.
func DefaultConfig() Config {
	return Config{
		Grid: GridConfig{
			WorldWidth:  800,
			WorldHeight: 500,
			CellSize:    20,
			EmptyRadius: 1,
			AvoidRadius: 3,
		},
		Path: PathConfig{
			MoveCost:       1,
			DiagonalCost:   2,
			HeuristicCost:  1,
			JitterWide:     50,
			JitterNarrow:   0,
			ReshuffleEvery: 25,
			TowerPenalty:   750,
			AvoidPenalty:   25,
			GroupChance:    5,
			GroupRun:       2,
		},
		Sim: SimConfig{
			StepPixels:     1,
			MoveEvery:      2,
			HiveSpawnEvery: 200,
			MaxInsects:     200,
			RepathEvery:    30,
			BuildTicks:     225,
			HouseHP:        50,
			TrapCharges:    3,
			HiveZone:       Zone{X: 0, Y: 0, W: 10, H: 10},
			HouseZone:      Zone{X: 8, Y: 8, W: 8, H: 8},
		},
		Terrain: TerrainConfig{
			BlockingMin: 40,
			BlockingMax: 60,
			Scraps:      10,
			MaxAttempts: 500,
		},
	}
}

// LoadConfig reads a YAML file over DefaultConfig. Keys missing from the file keep
// their defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the invariants the simulation relies on.
func (c Config) Validate() error {
	g := c.Grid
	if g.CellSize <= 0 {
		return fmt.Errorf("cell_size %d must be positive: %w", g.CellSize, ErrInvalidConfig)
	}
	if g.WorldWidth < g.CellSize || g.WorldHeight < g.CellSize {
		return fmt.Errorf("world %dx%d smaller than one cell: %w", g.WorldWidth, g.WorldHeight, ErrInvalidConfig)
	}
	if g.EmptyRadius < 0 || g.AvoidRadius < 0 {
		return fmt.Errorf("radii must be >= 0: %w", ErrInvalidConfig)
	}

	p := c.Path
	if p.MoveCost <= 0 || (p.Diagonal && p.DiagonalCost <= 0) {
		return fmt.Errorf("move costs must be positive: %w", ErrInvalidConfig)
	}
	if p.HeuristicCost < 0 || p.JitterWide < 0 || p.JitterNarrow < 0 {
		return fmt.Errorf("heuristic and jitter must be >= 0: %w", ErrInvalidConfig)
	}
	if p.ReshuffleEvery <= 0 {
		return fmt.Errorf("reshuffle_every %d must be positive: %w", p.ReshuffleEvery, ErrInvalidConfig)
	}
	if p.GroupChance < 0 || p.GroupRun < 1 {
		return fmt.Errorf("group_chance >= 0 and group_run >= 1 required: %w", ErrInvalidConfig)
	}

	s := c.Sim
	if s.StepPixels <= 0 || g.CellSize%s.StepPixels != 0 {
		return fmt.Errorf("step_pixels %d must divide cell_size %d: %w", s.StepPixels, g.CellSize, ErrInvalidConfig)
	}
	if s.MoveEvery <= 0 || s.RepathEvery <= 0 || s.BuildTicks <= 0 {
		return fmt.Errorf("move_every, repath_every and build_ticks must be positive: %w", ErrInvalidConfig)
	}
	if s.HiveSpawnEvery < 0 || s.MaxInsects < 0 {
		return fmt.Errorf("spawn settings must be >= 0: %w", ErrInvalidConfig)
	}

	t := c.Terrain
	if t.BlockingMin < 0 || t.BlockingMax < t.BlockingMin || t.Scraps < 0 {
		return fmt.Errorf("terrain counts out of range: %w", ErrInvalidConfig)
	}
	return nil
}
