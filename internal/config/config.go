package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/jsuvanto/pyrl/internal/domain"
	"github.com/jsuvanto/pyrl/internal/engine"
	"github.com/jsuvanto/pyrl/internal/systems"
	"github.com/jsuvanto/pyrl/pkg/utils"
)

type Config struct {
	Simulation SimulationConfig `toml:"simulation"`
	Level      LevelConfig      `toml:"level"`
	Actors     []ActorConfig    `toml:"actors"`
	Logging    LoggingConfig    `toml:"logging"`
	Debug      DebugConfig      `toml:"debug"`
	Trace      TraceConfig      `toml:"trace"`
}

type SimulationConfig struct {
	Seed     int64  `toml:"seed"` // 0 = случайный
	Rounds   int    `toml:"rounds"`
	Strategy string `toml:"strategy"` // "shadowcast" или "raysweep"
}

// LevelConfig: карта из файла, из inline-строк или пустая комната rows x cols
type LevelConfig struct {
	Path string   `toml:"path"`
	Map  []string `toml:"map"`
	Rows int      `toml:"rows"`
	Cols int      `toml:"cols"`
}

type ActorConfig struct {
	ID        string   `toml:"id"`
	Name      string   `toml:"name"`
	Row       int      `toml:"row"`
	Col       int      `toml:"col"`
	Speed     int      `toml:"speed"`
	Sight     *int     `toml:"sight"` // nil - радиус по умолчанию, 0 - слепой
	HP        int      `toml:"hp"`
	Damage    int      `toml:"damage"`
	Readiness float64  `toml:"readiness"`
	Player    bool     `toml:"player"`
	Script    []string `toml:"script"` // "n", "se", "wait", "attack:e", "swap:w"
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "text"
}

// DebugConfig - пустой адрес отключает debug-сервер
type DebugConfig struct {
	Addr string `toml:"addr"`
}

// TraceConfig - пустой путь отключает запись журнала ходов
type TraceConfig struct {
	Path string `toml:"path"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := defaults()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Default возвращает конфиг без файла: комната 20x40 с игроком и двумя бродягами
func Default() *Config {
	cfg := defaults()
	cfg.Actors = []ActorConfig{
		{ID: "player", Row: 10, Col: 5, Player: true},
		{ID: "goblin-1", Row: 3, Col: 30},
		{ID: "goblin-2", Row: 16, Col: 34, Speed: 2 * domain.DefaultSpeed},
	}
	return cfg
}

func defaults() *Config {
	return &Config{
		Simulation: SimulationConfig{
			Rounds:   10,
			Strategy: systems.StrategyShadowCast,
		},
		Level: LevelConfig{
			Rows: 20,
			Cols: 40,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Validate проверяет диапазоны. Координаты актора проверяются позже, при Spawn.
func (c *Config) Validate() error {
	var errs []error

	if c.Simulation.Rounds < 0 {
		errs = append(errs, fmt.Errorf("simulation.rounds must be >= 0, got %d", c.Simulation.Rounds))
	}
	if _, err := systems.StrategyByName(c.Simulation.Strategy); err != nil {
		errs = append(errs, fmt.Errorf("simulation.strategy: %w", err))
	}
	if c.Level.Path == "" && len(c.Level.Map) == 0 && (c.Level.Rows < 3 || c.Level.Cols < 3) {
		errs = append(errs, fmt.Errorf("level: room must be at least 3x3, got %dx%d", c.Level.Rows, c.Level.Cols))
	}

	seen := make(map[string]bool, len(c.Actors))
	for i, a := range c.Actors {
		if a.ID == "" {
			errs = append(errs, fmt.Errorf("actors[%d]: id is required", i))
			continue
		}
		if seen[a.ID] {
			errs = append(errs, fmt.Errorf("actors[%d]: %w: %s", i, domain.ErrDuplicateActor, a.ID))
		}
		seen[a.ID] = true

		if a.Speed < 0 {
			errs = append(errs, fmt.Errorf("actors[%d]: speed must be >= 0", i))
		}
		if a.Sight != nil && *a.Sight < 0 {
			errs = append(errs, fmt.Errorf("actors[%d]: %w", i, domain.ErrNegativeRadius))
		}
		if _, err := ParseScript(a.Script); err != nil {
			errs = append(errs, fmt.Errorf("actors[%d]: %w", i, err))
		}
	}

	return errors.Join(errs...)
}

// FOVStrategy возвращает стратегию из [simulation]
func (c *Config) FOVStrategy() (systems.Strategy, error) {
	return systems.StrategyByName(c.Simulation.Strategy)
}

// BuildLevel собирает уровень: файл важнее inline-карты, inline-карта важнее rows/cols
func (c *Config) BuildLevel() (*domain.Level, error) {
	switch {
	case c.Level.Path != "":
		data, err := os.ReadFile(c.Level.Path)
		if err != nil {
			return nil, fmt.Errorf("read level %s: %w", c.Level.Path, err)
		}
		lines := strings.Split(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n")
		lvl, err := domain.ParseLevel(lines)
		if err != nil {
			return nil, fmt.Errorf("parse level %s: %w", c.Level.Path, err)
		}
		return lvl, nil

	case len(c.Level.Map) > 0:
		return domain.ParseLevel(c.Level.Map)
	}

	return domain.ParseLevel(room(c.Level.Rows, c.Level.Cols))
}

// room рисует прямоугольник пола, обнесенный стеной
func room(rows, cols int) []string {
	if rows <= 0 || cols <= 0 {
		return nil
	}
	lines := make([]string, rows)
	wall := strings.Repeat("#", cols)
	for r := range lines {
		if r == 0 || r == rows-1 || cols < 3 {
			lines[r] = wall
			continue
		}
		lines[r] = "#" + strings.Repeat(".", cols-2) + "#"
	}
	return lines
}

// BuildActors создает акторов с дефолтами для незаданных полей
func (c *Config) BuildActors() []*domain.Actor {
	actors := make([]*domain.Actor, 0, len(c.Actors))
	for _, ac := range c.Actors {
		a := &domain.Actor{
			ID:     domain.ActorID(ac.ID),
			Kind:   domain.ActorKindNPC,
			Name:   coalesce(ac.Name, ac.ID),
			Pos:    domain.At(ac.Row, ac.Col),
			Sight:  domain.DefaultSightRadius,
			HP:     ac.HP,
			Damage: ac.Damage,
			Energy: domain.Energy{
				Speed:     ac.Speed,
				Readiness: ac.Readiness,
			},
		}
		if ac.Player {
			a.Kind = domain.ActorKindPlayer
		}
		if ac.Sight != nil {
			a.Sight = *ac.Sight
		}
		if a.Energy.Speed == 0 {
			a.Energy.Speed = domain.DefaultSpeed
		}
		if a.HP == 0 {
			a.HP = 10
		}
		a.MaxHP = a.HP
		if a.Damage == 0 {
			a.Damage = 2
		}
		actors = append(actors, a)
	}
	return actors
}

// Controller выбирает политику актора: сценарий, если он задан, иначе случайное блуждание.
// У каждого бродяги свой генератор от (seed, id).
func (ac ActorConfig) Controller(seed int64) (engine.Controller, error) {
	if len(ac.Script) == 0 {
		return &engine.WanderController{Rng: utils.NewRand(seed, ac.ID)}, nil
	}
	actions, err := ParseScript(ac.Script)
	if err != nil {
		return nil, fmt.Errorf("actor %s: %w", ac.ID, err)
	}
	return &engine.ScriptedController{Actions: actions}, nil
}

// ParseScript разбирает шаги вида "ne", "wait", "attack:e", "swap:w", "move:s"
func ParseScript(steps []string) ([]engine.Action, error) {
	actions := make([]engine.Action, 0, len(steps))
	for i, step := range steps {
		verb, arg, hasArg := strings.Cut(strings.TrimSpace(step), ":")
		if !hasArg {
			if domain.ParseAction(verb) == domain.ActionWait {
				actions = append(actions, engine.Wait())
				continue
			}
			verb, arg = "move", verb
		}

		dir, ok := domain.ParseDirection(arg)
		if !ok {
			return nil, fmt.Errorf("script step %d %q: unknown direction", i, step)
		}

		switch domain.ParseAction(verb) {
		case domain.ActionMove:
			actions = append(actions, engine.Move(dir))
		case domain.ActionAttack:
			actions = append(actions, engine.Attack(dir))
		case domain.ActionSwap:
			actions = append(actions, engine.Swap(dir))
		default:
			return nil, fmt.Errorf("script step %d %q: unknown action", i, step)
		}
	}
	return actions, nil
}

func coalesce(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
