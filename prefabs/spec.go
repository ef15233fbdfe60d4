package prefabs

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// LoadSpec reads a YAML prefab, preferring an on-disk override.
func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

type SizeSpec struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

type AttackSpec struct {
	Damage     int     `yaml:"damage"`
	DurationMS float64 `yaml:"duration_ms"`
	Reach      float64 `yaml:"reach"`
}

type ThrowSpec struct {
	Speed    float64 `yaml:"speed"`
	Distance float64 `yaml:"distance"`
}

type PlayerSpec struct {
	Name              string     `yaml:"name"`
	Size              SizeSpec   `yaml:"size"`
	MoveSpeed         float64    `yaml:"move_speed"`
	Health            int        `yaml:"health"`
	InvulnerabilityMS float64    `yaml:"invulnerability_ms"`
	StartOffset       float64    `yaml:"start_offset"`
	Attack            AttackSpec `yaml:"attack"`
	Throw             ThrowSpec  `yaml:"throw"`
}

func LoadPlayerSpec() (*PlayerSpec, error) {
	spec, err := LoadSpec[PlayerSpec]("player.yaml")
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

type ProjectileSpec struct {
	Damage     int      `yaml:"damage"`
	Speed      float64  `yaml:"speed"`
	CooldownMS float64  `yaml:"cooldown_ms"`
	LifetimeMS float64  `yaml:"lifetime_ms"`
	Size       SizeSpec `yaml:"size"`
}

type EnemySpec struct {
	Name              string          `yaml:"name"`
	Size              SizeSpec        `yaml:"size"`
	MoveSpeed         float64         `yaml:"move_speed"`
	FollowRange       float64         `yaml:"follow_range"`
	Health            int             `yaml:"health"`
	InvulnerabilityMS float64         `yaml:"invulnerability_ms"`
	Script            string          `yaml:"script"`
	Projectile        *ProjectileSpec `yaml:"projectile"`
}

// LoadEnemySpec loads the prefab named after the species, e.g. spider.yaml.
func LoadEnemySpec(name string) (*EnemySpec, error) {
	spec, err := LoadSpec[EnemySpec](name + ".yaml")
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

type TransitionSpec struct {
	HallDelayMS      float64 `yaml:"hall_delay_ms"`
	HallDurationMS   float64 `yaml:"hall_duration_ms"`
	CameraDelayMS    float64 `yaml:"camera_delay_ms"`
	CameraDurationMS float64 `yaml:"camera_duration_ms"`
	EntryDelayMS     float64 `yaml:"entry_delay_ms"`
	EntryDurationMS  float64 `yaml:"entry_duration_ms"`
	MinEntryStep     float64 `yaml:"min_entry_step"`
}

type CameraSpec struct {
	Canvas SizeSpec `yaml:"canvas"`
	// Margin is the fraction of the canvas left around a framed room.
	Margin float64 `yaml:"margin"`
}

type RewardSpec struct {
	Rise       float64 `yaml:"rise"`
	DurationMS float64 `yaml:"duration_ms"`
}

type SceneSpec struct {
	TickMS     float64        `yaml:"tick_ms"`
	Camera     CameraSpec     `yaml:"camera"`
	Transition TransitionSpec `yaml:"transition"`
	Reward     RewardSpec     `yaml:"reward"`
	GameOverMS float64        `yaml:"game_over_fade_ms"`
}

func LoadSceneSpec() (*SceneSpec, error) {
	spec, err := LoadSpec[SceneSpec]("scene.yaml")
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

// Catalog bundles every prefab the scene needs.
type Catalog struct {
	Scene   *SceneSpec
	Player  *PlayerSpec
	Enemies map[string]*EnemySpec
	Scripts map[string][]byte
}

var enemyNames = []string{"spider", "wisp", "drow"}

// LoadCatalog loads the scene, player and enemy prefabs and the enemy
// scripts they reference.
func LoadCatalog() (*Catalog, error) {
	scene, err := LoadSceneSpec()
	if err != nil {
		return nil, err
	}
	player, err := LoadPlayerSpec()
	if err != nil {
		return nil, err
	}
	c := &Catalog{
		Scene:   scene,
		Player:  player,
		Enemies: make(map[string]*EnemySpec, len(enemyNames)),
		Scripts: make(map[string][]byte, len(enemyNames)),
	}
	for _, name := range enemyNames {
		spec, err := LoadEnemySpec(name)
		if err != nil {
			return nil, err
		}
		c.Enemies[name] = spec
		if spec.Script == "" {
			continue
		}
		src, err := LoadScript(spec.Script)
		if err != nil {
			return nil, fmt.Errorf("prefabs: load script %s: %w", spec.Script, err)
		}
		c.Scripts[spec.Script] = src
	}
	return c, nil
}
