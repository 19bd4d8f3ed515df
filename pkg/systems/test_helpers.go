package systems

import (
	"image/color"
	"testing"
	"testing/fstest"

	"github.com/decker502/circuitlab/pkg/components"
	"github.com/decker502/circuitlab/pkg/config"
	"github.com/decker502/circuitlab/pkg/ecs"
	"github.com/decker502/circuitlab/pkg/game"
	"github.com/decker502/circuitlab/pkg/scene"
)

// testRig 交互系统测试夹具
// 搭建一套最小的装配台：两个引脚（pinA/pinB）、两个插座
// （socketA/socketB）以及对应的高亮目标节点
type testRig struct {
	em        *ecs.EntityManager
	ctx       *game.LessonContext
	drag      *ConnectorDragSystem
	highlight *HighlightSystem
	seq       *game.StepSequencer

	pinAEntity ecs.EntityID
	pinBEntity ecs.EntityID
}

// newTestRig 按课程YAML搭建测试夹具，旁白视为瞬时播放完成
func newTestRig(t *testing.T, lessonYAMLs map[string]string) *testRig {
	t.Helper()
	return newTestRigWithNarrator(t, lessonYAMLs, &game.NopNarrator{})
}

// newTestRigWithNarrator 同 newTestRig，但由调用方提供旁白实现，
// 用于覆盖旁白播放途中的交互
func newTestRigWithNarrator(t *testing.T, lessonYAMLs map[string]string, narrator game.Narrator) *testRig {
	t.Helper()

	fsys := fstest.MapFS{}
	for name, content := range lessonYAMLs {
		fsys["lessons/"+name] = &fstest.MapFile{Data: []byte(content)}
	}
	table, err := config.LoadLessonTableFromFS(fsys, "lessons")
	if err != nil {
		t.Fatalf("Failed to load test lessons: %v", err)
	}

	registry := scene.NewRegistry()
	registry.Register("pinA", newTestNode("pinA", scene.Vec3{X: 5, Z: 5}))
	registry.Register("pinB", newTestNode("pinB", scene.Vec3{X: 6, Z: 5}))
	registry.Register("socketA", newTestNode("socketA", scene.Vec3{}))
	registry.Register("socketB", newTestNode("socketB", scene.Vec3{X: 2}))
	registry.Register("socketTargetA", newTestNode("socketTargetA", scene.Vec3{}))
	registry.Register("socketTargetB", newTestNode("socketTargetB", scene.Vec3{X: 2}))

	camera := &scene.Camera{Position: scene.Vec3{X: 0, Y: 8, Z: 12}}
	ctx := game.NewLessonContext(table, registry, camera)

	em := ecs.NewEntityManager()
	pinA := createTestConnector(em, "pinA", scene.Vec3{X: 5, Z: 5})
	pinB := createTestConnector(em, "pinB", scene.Vec3{X: 6, Z: 5})
	createTestSocket(em, "socketA", scene.Vec3{})
	createTestSocket(em, "socketB", scene.Vec3{X: 2})

	highlight := NewHighlightSystem(em, ctx)
	drag := NewConnectorDragSystem(em, ctx)

	progress, _ := game.NewProgressManager(nil)
	seq := game.NewStepSequencer(ctx, highlight, narrator, game.NopUIHooks{}, progress)

	// 事件挂接顺序与应用装配一致：先高亮反馈，再推进门控
	drag.OnDragStart = highlight.OnDragStart
	drag.OnDragEnd = func(connectorID string, snapped bool) {
		if !snapped {
			highlight.OnDragEnd(connectorID)
		}
	}
	drag.OnSnap = func(ev SnapEvent) {
		highlight.OnSnap(ev.ID)
		seq.NotifySnap()
	}

	return &testRig{
		em:         em,
		ctx:        ctx,
		drag:       drag,
		highlight:  highlight,
		seq:        seq,
		pinAEntity: pinA,
		pinBEntity: pinB,
	}
}

// newTestNode 创建带两个子网格的测试节点：
// shell（立方体，参与高亮）和 lead（细长导线，被排除）
func newTestNode(name string, position scene.Vec3) *scene.Node {
	return &scene.Node{
		Name:     name,
		Position: position,
		SubMeshes: []*scene.SubMesh{
			{
				ID:     "shell",
				Bounds: scene.AABB{Max: scene.Vec3{X: 1, Y: 0.8, Z: 1.2}},
				Material: &scene.StandardMaterial{
					BaseColor: color.RGBA{R: 30, G: 60, B: 90, A: 255},
				},
			},
			{
				ID:     "lead",
				Bounds: scene.AABB{Max: scene.Vec3{X: 2.0, Y: 0.05, Z: 0.05}},
				Material: &scene.StandardMaterial{
					BaseColor: color.RGBA{R: 200, G: 160, B: 40, A: 255},
				},
			},
		},
	}
}

// createTestConnector 创建可拖拽连接头实体
func createTestConnector(em *ecs.EntityManager, id string, position scene.Vec3) ecs.EntityID {
	entity := em.CreateEntity()
	em.AddComponent(entity, &components.ConnectorComponent{
		ID:        id,
		Draggable: true,
	})
	em.AddComponent(entity, &components.TransformComponent{Position: position})
	return entity
}

// createTestSocket 创建插座实体
func createTestSocket(em *ecs.EntityManager, id string, position scene.Vec3) ecs.EntityID {
	entity := em.CreateEntity()
	em.AddComponent(entity, &components.SocketComponent{
		ID:       id,
		Position: position,
	})
	return entity
}

// dragTo 模拟一次完整拖拽：按下 → 移到世界坐标 → 抬起
// 返回吸附是否成功
func (r *testRig) dragTo(t *testing.T, entity ecs.EntityID, target scene.Vec3) bool {
	t.Helper()
	if !r.drag.BeginDrag(entity) {
		t.Fatalf("BeginDrag failed for entity %d", entity)
	}
	r.drag.UpdateDrag(rayAt(target))
	return r.drag.EndDrag()
}

// rayAt 构造从目标点正上方垂直向下的指针射线
func rayAt(target scene.Vec3) scene.Ray {
	return scene.Ray{
		Origin: scene.Vec3{X: target.X, Y: target.Y + 10, Z: target.Z},
		Dir:    scene.Vec3{Y: -1},
	}
}

// highlightedTarget 返回当前高亮会话绑定的目标名，无会话返回空串
func (r *testRig) highlightedTarget() string {
	if r.ctx.Highlight == nil {
		return ""
	}
	return r.ctx.Highlight.TargetName
}
