// verify_snap 无头验证程序
// 加载 assets/lessons 下的课程，逐步模拟拖拽吸附，
// 验证吸附判定、高亮交接与步骤推进后退出
package main

import (
	"flag"
	"fmt"
	"image/color"
	"log"
	"os"

	"github.com/decker502/circuitlab/pkg/config"
	"github.com/decker502/circuitlab/pkg/ecs"
	"github.com/decker502/circuitlab/pkg/entities"
	"github.com/decker502/circuitlab/pkg/game"
	"github.com/decker502/circuitlab/pkg/scene"
	"github.com/decker502/circuitlab/pkg/systems"
)

var (
	lessonsDir = flag.String("lessons", "assets/lessons", "课程配置目录")
	lessonID   = flag.String("lesson", "", "只验证指定课程（默认全部）")
)

func main() {
	flag.Parse()

	table, err := config.LoadLessonTableFromFS(os.DirFS("."), *lessonsDir)
	if err != nil {
		log.Fatalf("Failed to load lessons: %v", err)
	}

	failed := 0
	for _, cfg := range table.Lessons() {
		if *lessonID != "" && cfg.ID != *lessonID {
			continue
		}
		if err := verifyLesson(table, cfg); err != nil {
			fmt.Printf("FAIL %s: %v\n", cfg.ID, err)
			failed++
			continue
		}
		fmt.Printf("PASS %s (%d steps)\n", cfg.ID, len(cfg.Steps))
	}

	if failed > 0 {
		os.Exit(1)
	}
}

// verifyLesson 对单个课程走完整个装配流程
func verifyLesson(table *config.LessonTable, cfg *config.LessonConfig) error {
	registry := buildRegistry(cfg)
	camera := &scene.Camera{Position: scene.Vec3{Y: 8, Z: 12}}
	ctx := game.NewLessonContext(table, registry, camera)

	em := ecs.NewEntityManager()
	if _, err := entities.BuildLessonEntities(em, registry, cfg); err != nil {
		return fmt.Errorf("assembly failed: %w", err)
	}

	drag := systems.NewConnectorDragSystem(em, ctx)
	highlight := systems.NewHighlightSystem(em, ctx)
	progress, _ := game.NewProgressManager(nil)
	seq := game.NewStepSequencer(ctx, highlight, &game.NopNarrator{}, game.NopUIHooks{}, progress)

	drag.OnDragStart = highlight.OnDragStart
	drag.OnDragEnd = func(connectorID string, snapped bool) {
		if !snapped {
			highlight.OnDragEnd(connectorID)
		}
	}
	drag.OnSnap = func(event systems.SnapEvent) {
		highlight.OnSnap(event.ID)
		seq.NotifySnap()
	}

	seq.StartLesson(cfg.ID)

	for i, step := range cfg.Steps {
		if seq.GetCurrentStep() != i {
			return fmt.Errorf("expected step %d, sequencer at %d", i, seq.GetCurrentStep())
		}
		if ctx.Highlight == nil {
			return fmt.Errorf("step %d: no highlight session for target %s", i, step.Target)
		}

		entity, ok := drag.FindConnectorEntity(step.Connector)
		if !ok {
			return fmt.Errorf("step %d: connector %s not found", i, step.Connector)
		}
		if !drag.BeginDrag(entity) {
			return fmt.Errorf("step %d: BeginDrag rejected for %s", i, step.Connector)
		}

		socketNode, ok := registry.Resolve(step.Socket)
		if !ok {
			return fmt.Errorf("step %d: socket node %s missing", i, step.Socket)
		}
		drag.UpdateDrag(scene.Ray{
			Origin: socketNode.Position.Add(scene.Vec3{Y: 10}),
			Dir:    scene.Vec3{Y: -1},
		})
		if !drag.EndDrag() {
			return fmt.Errorf("step %d: snap rejected at %s", i, step.Socket)
		}

		// 推进停顿
		for f := 0; f < 120 && seq.GetCurrentStep() == i && !seq.IsLessonComplete(); f++ {
			seq.Update(1.0 / 60.0)
			highlight.Update(1.0 / 60.0)
		}
	}

	if !seq.IsLessonComplete() {
		return fmt.Errorf("lesson did not complete after all steps")
	}
	if ctx.Highlight != nil {
		return fmt.Errorf("highlight session leaked after completion")
	}
	return nil
}

// buildRegistry 为课程搭建最小场景：每个符号名一个带外壳的节点
func buildRegistry(cfg *config.LessonConfig) *scene.Registry {
	registry := scene.NewRegistry()
	index := 0
	add := func(name string, z float64) {
		if name == "" {
			return
		}
		if _, ok := registry.Resolve(name); ok {
			return
		}
		node := &scene.Node{
			Name:     name,
			Position: scene.Vec3{X: float64(index) * 1.5, Z: z},
			SubMeshes: []*scene.SubMesh{
				{
					ID: "shell",
					Bounds: scene.AABB{
						Min: scene.Vec3{X: -0.3, Y: -0.3, Z: -0.3},
						Max: scene.Vec3{X: 0.3, Y: 0.3, Z: 0.3},
					},
					Material: &scene.StandardMaterial{
						BaseColor: color.RGBA{R: 200, G: 200, B: 200, A: 255},
					},
				},
			},
		}
		registry.Register(name, node)
		index++
	}

	for _, step := range cfg.Steps {
		add(step.Connector, 2)
		add(step.Target, 2)
		add(step.Socket, -2)
	}
	return registry
}
