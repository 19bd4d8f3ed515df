package systems

import (
	"testing"

	"github.com/decker502/circuitlab/pkg/components"
	"github.com/decker502/circuitlab/pkg/ecs"
	"github.com/decker502/circuitlab/pkg/game"
	"github.com/decker502/circuitlab/pkg/scene"
)

// 两步课程：pinA -> socketA，pinB -> socketB
const twoStepLessonYAML = `id: l1
name: two pins
steps:
  - target: "socketTargetA"
    connector: "pinA"
    socket: "socketA"
    onSnap: "remove-from(socketTargetA)"
  - target: "socketTargetB"
    connector: "pinB"
    socket: "socketB"
    onSnap: "remove-from(socketTargetB)"
`

// TestSnapSuccess 吸附成功：阈值1.0内释放（0.5），
// 连接头精确落位、高亮移除、推进变为有效
func TestSnapSuccess(t *testing.T) {
	rig := newTestRig(t, map[string]string{"l1.yaml": twoStepLessonYAML})
	rig.seq.StartLesson("l1")

	if rig.highlightedTarget() != "socketTargetA" {
		t.Fatalf("Expected socketTargetA highlighted, got %q", rig.highlightedTarget())
	}

	// socketA 在原点，释放点距其 0.5
	if !rig.dragTo(t, rig.pinAEntity, scene.Vec3{X: 0.5}) {
		t.Fatal("Expected snap to succeed at distance 0.5")
	}

	// 连接头精确落到插座上
	transform, _ := ecs.GetComponent[*components.TransformComponent](rig.em, rig.pinAEntity)
	if transform.Position != (scene.Vec3{}) {
		t.Errorf("Expected connector snapped exactly onto socket, got %+v", transform.Position)
	}

	connector, _ := ecs.GetComponent[*components.ConnectorComponent](rig.em, rig.pinAEntity)
	if !connector.Connected || connector.ConnectedSocket != "socketA" {
		t.Errorf("Expected connector connected to socketA, got %+v", connector)
	}

	// onSnap: remove-from(socketTargetA) 已执行
	if rig.highlightedTarget() != "" {
		t.Errorf("Expected highlight removed after snap, still on %q", rig.highlightedTarget())
	}

	// 吸附验证后推进有效：停顿计时走完即进入下一步
	rig.seq.Update(1.0)
	if rig.seq.GetCurrentStep() != 1 {
		t.Errorf("Expected sequencer to advance to step 1, got %d", rig.seq.GetCurrentStep())
	}
	if rig.highlightedTarget() != "socketTargetB" {
		t.Errorf("Expected socketTargetB highlighted for step 1, got %q", rig.highlightedTarget())
	}
}

// TestSnapFailure 阈值外释放（1.5）：连接头留在释放位置，
// 无高亮变化，推进保持无效
func TestSnapFailure(t *testing.T) {
	rig := newTestRig(t, map[string]string{"l1.yaml": twoStepLessonYAML})
	rig.seq.StartLesson("l1")

	if rig.dragTo(t, rig.pinAEntity, scene.Vec3{X: 1.5}) {
		t.Fatal("Expected snap to fail at distance 1.5")
	}

	transform, _ := ecs.GetComponent[*components.TransformComponent](rig.em, rig.pinAEntity)
	if transform.Position != (scene.Vec3{X: 1.5}) {
		t.Errorf("Expected connector to stay at release point, got %+v", transform.Position)
	}

	connector, _ := ecs.GetComponent[*components.ConnectorComponent](rig.em, rig.pinAEntity)
	if connector.Connected {
		t.Error("Expected connector to stay disconnected")
	}
	if rig.highlightedTarget() != "socketTargetA" {
		t.Errorf("Expected highlight unchanged, got %q", rig.highlightedTarget())
	}

	rig.seq.Update(1.0)
	if rig.seq.GetCurrentStep() != 0 {
		t.Errorf("Expected sequencer to stay on step 0, got %d", rig.seq.GetCurrentStep())
	}
}

// TestSnapBoundary 边界：距离恰好等于阈值不算吸附（严格小于）
func TestSnapBoundary(t *testing.T) {
	rig := newTestRig(t, map[string]string{"l1.yaml": twoStepLessonYAML})
	rig.seq.StartLesson("l1")

	if rig.dragTo(t, rig.pinAEntity, scene.Vec3{X: 1.0}) {
		t.Error("Expected snap at exactly the threshold to fail")
	}

	// 重试总是允许的：失败不产生任何残留状态
	if rig.drag.IsDragging() {
		t.Error("Expected no residual drag session after failed release")
	}
	if !rig.dragTo(t, rig.pinAEntity, scene.Vec3{X: 0.2}) {
		t.Error("Expected retry within threshold to succeed")
	}
}

// TestBeginDragWrongConnector 拖拽非当前步骤期望的连接头被整体忽略
func TestBeginDragWrongConnector(t *testing.T) {
	rig := newTestRig(t, map[string]string{"l1.yaml": twoStepLessonYAML})
	rig.seq.StartLesson("l1")

	// 步骤0期望 pinA，抓 pinB 应被忽略
	if rig.drag.BeginDrag(rig.pinBEntity) {
		t.Error("Expected BeginDrag on non-current-step connector to be ignored")
	}
	if rig.drag.IsDragging() {
		t.Error("Expected no drag session to be created")
	}
	if rig.highlightedTarget() != "socketTargetA" {
		t.Errorf("Expected highlight untouched, got %q", rig.highlightedTarget())
	}
}

// TestBeginDragWhileActive 已有拖拽会话时二次 BeginDrag 无效
func TestBeginDragWhileActive(t *testing.T) {
	rig := newTestRig(t, map[string]string{"l1.yaml": twoStepLessonYAML})
	rig.seq.StartLesson("l1")

	if !rig.drag.BeginDrag(rig.pinAEntity) {
		t.Fatal("Expected first BeginDrag to succeed")
	}
	if rig.drag.BeginDrag(rig.pinAEntity) {
		t.Error("Expected second BeginDrag to fail while a session is active")
	}
	rig.drag.Cancel()
}

// TestCancelIsZeroSideEffect 取消拖拽不产生任何状态变更
func TestCancelIsZeroSideEffect(t *testing.T) {
	rig := newTestRig(t, map[string]string{"l1.yaml": twoStepLessonYAML})
	rig.seq.StartLesson("l1")

	rig.drag.BeginDrag(rig.pinAEntity)
	rig.drag.UpdateDrag(rayAt(scene.Vec3{X: 0.3}))
	rig.drag.Cancel()

	if rig.drag.IsDragging() {
		t.Error("Expected drag session to be cleared")
	}
	connector, _ := ecs.GetComponent[*components.ConnectorComponent](rig.em, rig.pinAEntity)
	if connector.Connected {
		t.Error("Expected cancel to leave connector disconnected")
	}
	if rig.ctx.Camera.Locked {
		t.Error("Expected camera lock released on cancel")
	}
}

// TestLessonSwitchMidDrag 拖拽途中切换课程：
// 之后到来的 EndDrag 不得复活已废弃课程的高亮会话
func TestLessonSwitchMidDrag(t *testing.T) {
	secondLesson := `id: l2
name: second
steps:
  - target: "socketTargetB"
    connector: "pinB"
    socket: "socketB"
    onSnap: "remove-from(socketTargetB)"
`
	rig := newTestRig(t, map[string]string{"l1.yaml": twoStepLessonYAML, "l2.yaml": secondLesson})
	rig.seq.StartLesson("l1")

	rig.drag.BeginDrag(rig.pinAEntity)
	rig.drag.UpdateDrag(rayAt(scene.Vec3{X: 0.3}))

	// 拖拽途中切换课程
	rig.seq.StartLesson("l2")

	// 悬空的指针抬起：代数不匹配，本次拖拽作废
	if rig.drag.EndDrag() {
		t.Error("Expected in-flight drag to be voided by the lesson switch")
	}

	connector, _ := ecs.GetComponent[*components.ConnectorComponent](rig.em, rig.pinAEntity)
	if connector.Connected {
		t.Error("Expected stale drag to not connect anything")
	}

	// 高亮会话属于新课程，而不是被复活的旧会话
	session := rig.ctx.Highlight
	if session == nil {
		t.Fatal("Expected new lesson's highlight session")
	}
	if session.LessonID != "l2" || session.TargetName != "socketTargetB" {
		t.Errorf("Expected l2/socketTargetB session, got %s/%s", session.LessonID, session.TargetName)
	}
}

// TestUpdateDragRebuildsWire 拖拽中同步重建伴随导线几何
func TestUpdateDragRebuildsWire(t *testing.T) {
	rig := newTestRig(t, map[string]string{"l1.yaml": twoStepLessonYAML})
	rig.seq.StartLesson("l1")

	// 给 pinA 挂一条固定端在 (5,0,0) 的导线
	wireEntity := rig.em.CreateEntity()
	wire := &components.WireComponent{Droop: 0.2}
	wire.Rebuild(scene.Vec3{X: 5}, scene.Vec3{X: 5, Z: 5})
	rig.em.AddComponent(wireEntity, wire)

	connector, _ := ecs.GetComponent[*components.ConnectorComponent](rig.em, rig.pinAEntity)
	connector.WireEntity = wireEntity

	rig.drag.BeginDrag(rig.pinAEntity)
	rig.drag.UpdateDrag(rayAt(scene.Vec3{X: 0.4, Z: 0.2}))

	if wire.ToEnd != (scene.Vec3{X: 0.4, Z: 0.2}) {
		t.Errorf("Expected wire moving end to follow connector, got %+v", wire.ToEnd)
	}
	if len(wire.Points) != 9 {
		t.Fatalf("Expected 9 polyline points, got %d", len(wire.Points))
	}
	if wire.Points[0] != wire.FromEnd {
		t.Errorf("Expected polyline to start at fixed end, got %+v", wire.Points[0])
	}
	if wire.Points[8] != wire.ToEnd {
		t.Errorf("Expected polyline to end at moving end, got %+v", wire.Points[8])
	}
	// 中点下垂
	mid := wire.Points[4]
	if mid.Y >= 0 {
		t.Errorf("Expected midpoint droop below endpoints, got Y=%v", mid.Y)
	}

	rig.drag.Cancel()
}

// heldNarrator 不自动完成的旁白桩，模拟播放中的片段
type heldNarrator struct {
	cb func(string)
}

func (h *heldNarrator) PlayNamedClip(string)            {}
func (h *heldNarrator) SetClipFinished(fn func(string)) { h.cb = fn }

// TestSnapDuringNarrationCommits 旁白未播完时完成的有效连接：
// 拖拽系统已提交连接头，序列器必须接受吸附并照常推进
func TestSnapDuringNarrationCommits(t *testing.T) {
	narratedLesson := `id: l4
name: narrated first step
steps:
  - target: "socketTargetA"
    connector: "pinA"
    socket: "socketA"
    narration: "CLIP_STEP0"
    onSnap: "remove-from(socketTargetA)"
  - target: "socketTargetB"
    connector: "pinB"
    socket: "socketB"
    onSnap: "remove-from(socketTargetB)"
`
	narrator := &heldNarrator{}
	rig := newTestRigWithNarrator(t, map[string]string{"l4.yaml": narratedLesson}, narrator)
	rig.seq.StartLesson("l4")

	// 片段未播完：高亮尚未施加，但当前步骤的拖拽是允许的
	if rig.seq.State() != game.StateHighlighting {
		t.Fatalf("Expected StateHighlighting while clip plays, got %v", rig.seq.State())
	}
	if !rig.dragTo(t, rig.pinAEntity, scene.Vec3{X: 0.5}) {
		t.Fatal("Expected snap to succeed at distance 0.5")
	}

	connector, _ := ecs.GetComponent[*components.ConnectorComponent](rig.em, rig.pinAEntity)
	if !connector.Connected {
		t.Fatal("Expected connector committed by the drag system")
	}

	// 已提交的连接照常推进到下一步骤
	rig.seq.Update(1.0)
	if rig.seq.GetCurrentStep() != 1 {
		t.Errorf("Expected sequencer to advance to step 1, got %d", rig.seq.GetCurrentStep())
	}
	if rig.highlightedTarget() != "socketTargetB" {
		t.Errorf("Expected socketTargetB highlighted for step 1, got %q", rig.highlightedTarget())
	}

	// 迟到的片段完成回调失效，不得复活已解决步骤的高亮
	narrator.cb("CLIP_STEP0")
	if rig.highlightedTarget() != "socketTargetB" {
		t.Errorf("Expected stale clip callback to be a no-op, got %q", rig.highlightedTarget())
	}
}

// TestSnapAgainstUnresolvedSocket 插座缺失时按取消处理，无状态变更
func TestSnapAgainstUnresolvedSocket(t *testing.T) {
	missingSocket := `id: l3
name: missing socket
steps:
  - target: "socketTargetA"
    connector: "pinA"
    socket: "ghostSocket"
    onSnap: "remove-from(socketTargetA)"
`
	rig := newTestRig(t, map[string]string{"l3.yaml": missingSocket})
	rig.seq.StartLesson("l3")

	if rig.dragTo(t, rig.pinAEntity, scene.Vec3{X: 0.1}) {
		t.Error("Expected drag against unresolved socket to be a no-op")
	}
	connector, _ := ecs.GetComponent[*components.ConnectorComponent](rig.em, rig.pinAEntity)
	if connector.Connected {
		t.Error("Expected no state mutation")
	}
}
