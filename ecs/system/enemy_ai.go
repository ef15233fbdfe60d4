package system

import (
	"fmt"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"go.uber.org/zap"

	"github.com/milk9111/dungeon/ecs"
	"github.com/milk9111/dungeon/ecs/component"
	"github.com/milk9111/dungeon/ecs/entity"
	"github.com/milk9111/dungeon/prefabs"
)

const aiDispatchScript = `
update(__engine, __state)
`

type aiScriptRuntime struct {
	script    string
	compiled  *tengo.Compiled
	stateData *tengo.Map
}

// EnemyAISystem runs each enabled enemy's tengo script once per tick. The
// script only steers: it sets a velocity and asks for ranged attacks, and
// the attack cooldown is enforced here.
type EnemyAISystem struct {
	deps    *Deps
	catalog *prefabs.Catalog
	log     *zap.Logger

	compiled    map[string]*tengo.Compiled
	broken      map[string]bool
	scriptCache map[ecs.Entity]*aiScriptRuntime
}

func NewEnemyAISystem(deps *Deps, catalog *prefabs.Catalog) *EnemyAISystem {
	return &EnemyAISystem{
		deps:        deps,
		catalog:     catalog,
		log:         deps.log().Named("ai"),
		compiled:    map[string]*tengo.Compiled{},
		broken:      map[string]bool{},
		scriptCache: map[ecs.Entity]*aiScriptRuntime{},
	}
}

func (s *EnemyAISystem) Update(w *ecs.World) {
	if w == nil || paused(w) {
		return
	}
	px, py := 0.0, 0.0
	if player, ok := playerEntity(w); ok {
		if body, ok := bodyAABB(w, player); ok {
			px, py = body.Center()
		}
	}

	for _, e := range w.Query(component.EnemyComponent.Kind(), component.ScriptComponent.Kind()) {
		if !enabled(w, e) {
			delete(s.scriptCache, e)
			continue
		}
		en, _ := ecs.Get(w, e, component.EnemyComponent)
		if !en.Alive {
			continue
		}
		script, _ := ecs.Get(w, e, component.ScriptComponent)
		spec := s.catalog.Enemies[en.Species.String()]
		if spec == nil {
			continue
		}

		rt, err := s.runtime(e, script.Name)
		if err != nil {
			if !s.broken[script.Name] {
				s.broken[script.Name] = true
				s.log.Error("load script", zap.String("script", script.Name), zap.Error(err))
			}
			continue
		}

		engine := s.buildEngine(w, e, en, spec, px, py)
		if err := rt.run(engine); err != nil {
			s.log.Warn("script update", e.Field("entity"), zap.Error(err))
			_ = ecs.Add(w, e, component.VelocityComponent, component.Velocity{})
		}
	}
}

// runtime returns the entity's script instance. Instances share compiled
// bytecode but keep their own globals and state map.
func (s *EnemyAISystem) runtime(e ecs.Entity, name string) (*aiScriptRuntime, error) {
	if rt, ok := s.scriptCache[e]; ok && rt.script == name {
		return rt, nil
	}
	base, ok := s.compiled[name]
	if !ok {
		src, ok := s.catalog.Scripts[name]
		if !ok {
			return nil, fmt.Errorf("script %q not in catalog", name)
		}
		script := tengo.NewScript(append(append([]byte(nil), src...), []byte("\n"+aiDispatchScript)...))
		_ = script.Add("__engine", map[string]any{})
		_ = script.Add("__state", map[string]any{})
		script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))
		compiled, err := script.Compile()
		if err != nil {
			return nil, err
		}
		s.compiled[name] = compiled
		base = compiled
	}
	rt := &aiScriptRuntime{
		script:    name,
		compiled:  base.Clone(),
		stateData: &tengo.Map{Value: map[string]tengo.Object{}},
	}
	s.scriptCache[e] = rt
	return rt, nil
}

func (rt *aiScriptRuntime) run(engine *tengo.ImmutableMap) error {
	if err := rt.compiled.Set("__engine", engine); err != nil {
		return err
	}
	if err := rt.compiled.Set("__state", rt.stateData); err != nil {
		return err
	}
	return rt.compiled.Run()
}

func (s *EnemyAISystem) buildEngine(w *ecs.World, e ecs.Entity, en component.Enemy, spec *prefabs.EnemySpec, px, py float64) *tengo.ImmutableMap {
	values := map[string]tengo.Object{
		"speed":        &tengo.Float{Value: spec.MoveSpeed},
		"follow_range": &tengo.Float{Value: spec.FollowRange},
	}

	values["get_position"] = &tengo.UserFunction{Name: "get_position", Value: func(args ...tengo.Object) (tengo.Object, error) {
		x, y := 0.0, 0.0
		if body, ok := bodyAABB(w, e); ok {
			x, y = body.Center()
		}
		return floatPair(x, y), nil
	}}

	values["get_player_position"] = &tengo.UserFunction{Name: "get_player_position", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return floatPair(px, py), nil
	}}

	values["move"] = &tengo.UserFunction{Name: "move", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 2 {
			return nil, tengo.ErrWrongNumArguments
		}
		vx, _ := tengo.ToFloat64(args[0])
		vy, _ := tengo.ToFloat64(args[1])
		_ = ecs.Add(w, e, component.VelocityComponent, component.Velocity{X: vx, Y: vy})
		return tengo.UndefinedValue, nil
	}}

	values["attack"] = &tengo.UserFunction{Name: "attack", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 2 {
			return nil, tengo.ErrWrongNumArguments
		}
		dx, _ := tengo.ToFloat64(args[0])
		dy, _ := tengo.ToFloat64(args[1])
		if s.fire(w, e, spec.Projectile, dx, dy) {
			return tengo.TrueValue, nil
		}
		return tengo.FalseValue, nil
	}}

	values["blocked_x"] = &tengo.UserFunction{Name: "blocked_x", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return boolObject(en.BlockedX), nil
	}}

	values["blocked_y"] = &tengo.UserFunction{Name: "blocked_y", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return boolObject(en.BlockedY), nil
	}}

	return &tengo.ImmutableMap{Value: values}
}

// fire spawns a projectile if the enemy has one and its cooldown elapsed.
func (s *EnemyAISystem) fire(w *ecs.World, e ecs.Entity, spec *prefabs.ProjectileSpec, dx, dy float64) bool {
	if spec == nil || (dx == 0 && dy == 0) {
		return false
	}
	en, ok := ecs.Get(w, e, component.EnemyComponent)
	if !ok || en.AttackCooldownMS > 0 {
		return false
	}
	body, ok := bodyAABB(w, e)
	if !ok {
		return false
	}
	cx, cy := body.Center()
	if _, err := entity.NewProjectile(w, spec, e, en.RoomID, cx, cy, dx, dy); err != nil {
		s.log.Warn("spawn projectile", zap.Error(err))
		return false
	}
	ecs.Update(w, e, component.EnemyComponent, func(en *component.Enemy) {
		en.AttackCooldownMS = spec.CooldownMS
	})
	return true
}

func floatPair(x, y float64) *tengo.Array {
	return &tengo.Array{Value: []tengo.Object{&tengo.Float{Value: x}, &tengo.Float{Value: y}}}
}

func boolObject(b bool) tengo.Object {
	if b {
		return tengo.TrueValue
	}
	return tengo.FalseValue
}
