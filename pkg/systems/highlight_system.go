package systems

import (
	"log"

	"github.com/google/uuid"

	"github.com/decker502/circuitlab/pkg/components"
	"github.com/decker502/circuitlab/pkg/config"
	"github.com/decker502/circuitlab/pkg/ecs"
	"github.com/decker502/circuitlab/pkg/game"
	"github.com/decker502/circuitlab/pkg/scene"
)

// 浮动标签文本键，具体文案由UI层的字符串表解析
const (
	labelDragTextKey = "LABEL_DRAG_HERE"
	labelDropTextKey = "LABEL_DROP_HERE"
)

// 标签锚点在目标上方的悬浮高度（世界单位）
const labelHoverHeight = 0.8

// 空闲提醒：超过该秒数无拖拽操作时标签加速闪烁
const (
	idleThreshold   = 5.0
	labelBlinkIdle  = 1.0
	labelBlinkAlert = 3.0
)

// HighlightSystem 高亮状态机
// 把当前步骤的符号目标解析为场景节点，替换其子网格材质为共享
// 脉冲发光着色器，并按步骤配置响应拖拽开始/结束/吸附事件。
// 引擎全局至多存在一个高亮会话：施加新高亮前必先拆除旧会话
type HighlightSystem struct {
	entityManager *ecs.EntityManager
	ctx           *game.LessonContext

	// labelEntity 浮动提示标签实体（常驻，不可见时隐藏）
	labelEntity ecs.EntityID
	// idleTime 距上次拖拽操作的秒数，驱动提醒闪烁
	idleTime float64
}

// NewHighlightSystem 创建高亮系统并预建标签实体
func NewHighlightSystem(em *ecs.EntityManager, ctx *game.LessonContext) *HighlightSystem {
	labelEntity := em.CreateEntity()
	em.AddComponent(labelEntity, &components.LabelComponent{
		Visible:   false,
		BlinkRate: labelBlinkIdle,
	})

	return &HighlightSystem{
		entityManager: em,
		ctx:           ctx,
		labelEntity:   labelEntity,
	}
}

// ApplyStepHighlight 为指定课程步骤的目标施加高亮
// 先拆除已有会话（还原其材质），再解析目标、捕获原始材质并替换
// 为脉冲发光材质。目标无法解析（如资产未加载）时记录警告并返回
// false，该步骤保持无高亮，绝不抛错。
// 无拖拽/吸附介入时重复调用是幂等的：拆旧与重建得到相同的状态
func (s *HighlightSystem) ApplyStepHighlight(lessonID string, stepIndex int) bool {
	step, ok := s.ctx.Table.Step(lessonID, stepIndex)
	if !ok {
		log.Printf("[HighlightSystem] Warning: no step config for lesson %s step %d", lessonID, stepIndex)
		return false
	}

	if !s.applyHighlightTo(step.Target, step.Highlight, lessonID, stepIndex) {
		return false
	}

	// 「从这里拖动」标签悬浮在目标上方
	if node, ok := s.ctx.Registry.Resolve(step.Target); ok {
		s.showLabel(components.LabelDrag, labelDragTextKey, node.Position)
	}
	return true
}

// OnDragStart 拖拽开始事件处理
// 步骤可能在高亮施加后被异步推进，必须重新读取当前步骤配置；
// 执行步骤的 dragStart 动作（典型：把高亮从刚抓起的物体移到下一个
// 期望目标），并把标签从「拖动」换成目标插座处的「放置」
func (s *HighlightSystem) OnDragStart(connectorID string) {
	step, ok := s.ctx.CurrentStep()
	if !ok {
		return
	}

	s.idleTime = 0
	s.executeAction(step.OnDragStart, connectorID, step)

	// 标签换为插座处的「放置」提示
	if socket, ok := s.resolveSocketPosition(step.Socket); ok {
		s.showLabel(components.LabelDrop, labelDropTextKey, socket)
	} else {
		s.hideLabel()
	}
}

// OnDragEnd 拖拽结束（未吸附）事件处理
// 执行步骤的 dragEnd 动作，标签换回高亮目标处的「拖动」提示
func (s *HighlightSystem) OnDragEnd(connectorID string) {
	step, ok := s.ctx.CurrentStep()
	if !ok {
		return
	}

	s.executeAction(step.OnDragEnd, connectorID, step)

	if node, ok := s.ctx.Registry.Resolve(step.Target); ok && s.ctx.Highlight != nil {
		s.showLabel(components.LabelDrag, labelDragTextKey, node.Position)
	}
}

// OnSnap 吸附成功事件处理
// 执行步骤的 snap 动作（典型：移除刚连好目标上的高亮），
// 隐藏「放置」标签并解除拖拽期间的相机锁定
func (s *HighlightSystem) OnSnap(eventID uuid.UUID) {
	step, ok := s.ctx.CurrentStep()
	if !ok {
		return
	}

	s.idleTime = 0
	s.executeAction(step.OnSnap, step.Connector, step)
	s.hideLabel()
	s.ctx.Camera.Release()
	log.Printf("[HighlightSystem] Snap handled (event %s)", eventID)
}

// Update 推进共享着色器的时间 uniform，并让可见标签朝向相机
func (s *HighlightSystem) Update(dt float64) {
	if session := s.ctx.Highlight; session != nil {
		session.Shader.Advance(dt)
	}

	s.idleTime += dt

	label, ok := ecs.GetComponent[*components.LabelComponent](s.entityManager, s.labelEntity)
	if !ok || !label.Visible {
		return
	}

	// 面向相机（billboard）
	label.Facing = s.ctx.Camera.Position.Sub(label.Anchor).Normalized()

	// 长时间无操作时加速闪烁提醒
	if s.idleTime > idleThreshold {
		label.BlinkRate = labelBlinkAlert
	} else {
		label.BlinkRate = labelBlinkIdle
	}
}

// Cleanup 还原全部被替换的材质并清空内部状态
// 课程拆除时调用
func (s *HighlightSystem) Cleanup() {
	s.teardownSession()
	s.hideLabel()
	s.idleTime = 0
}

// applyHighlightTo 把高亮施加到指定符号目标上
// 高亮会话全局唯一：无条件先拆除现有会话
func (s *HighlightSystem) applyHighlightTo(targetName string, style config.HighlightStyle, lessonID string, stepIndex int) bool {
	s.teardownSession()

	node, ok := s.ctx.Registry.Resolve(targetName)
	if !ok {
		log.Printf("[HighlightSystem] Warning: target %s unresolved, step left unhighlighted", targetName)
		return false
	}

	shader := &scene.PulseShader{
		BaseColor:     style.BaseColor.RGBA,
		GlowColor:     style.GlowColor.RGBA,
		BlinkSpeed:    style.BlinkSpeed,
		GlowIntensity: style.GlowIntensity,
	}
	session := &game.HighlightSession{
		ID:         uuid.New(),
		TargetName: targetName,
		Node:       node,
		Originals:  make(map[string]scene.Material),
		Shader:     shader,
		LessonID:   lessonID,
		StepIndex:  stepIndex,
	}

	node.Walk(func(owner *scene.Node, mesh *scene.SubMesh) {
		// 细长的装饰性导线不参与高亮
		if scene.IsWireLike(mesh.Bounds) {
			return
		}

		original, err := mesh.Material.Clone()
		if err != nil {
			// 特殊材质克隆失败：兜底中性材质，保证物体可渲染
			log.Printf("[HighlightSystem] Warning: failed to clone material of %s/%s: %v, using neutral fallback",
				owner.Name, mesh.ID, err)
			original = scene.NeutralMaterial()
		}
		session.Originals[meshKey(owner, mesh)] = original
		mesh.Material = &scene.HighlightMaterial{Shader: shader}
	})

	s.ctx.Highlight = session
	return true
}

// teardownSession 拆除当前高亮会话并逐个还原原始材质
func (s *HighlightSystem) teardownSession() {
	session := s.ctx.Highlight
	if session == nil {
		return
	}
	s.ctx.Highlight = nil

	session.Node.Walk(func(owner *scene.Node, mesh *scene.SubMesh) {
		if original, ok := session.Originals[meshKey(owner, mesh)]; ok {
			mesh.Material = original
		}
	})
}

// executeAction 执行步骤动作
// Kind 穷举匹配，词汇表外的值在配置加载期已被拒绝
func (s *HighlightSystem) executeAction(action config.Action, draggedName string, step *config.StepConfig) {
	switch action.Kind {
	case config.ActionNone:
		// 无动作
	case config.ActionRemoveFrom:
		s.removeFrom(action.Source)
	case config.ActionRemoveAndApply:
		s.removeFrom(action.Source)
		s.applyHighlightTo(action.Dest, step.Highlight, s.ctx.LessonID, s.ctx.StepIndex)
	case config.ActionApplyToDragged:
		s.applyHighlightTo(draggedName, step.Highlight, s.ctx.LessonID, s.ctx.StepIndex)
	}
}

// removeFrom 当命名目标持有当前高亮会话时拆除它
// 目标未被高亮时是安全的空操作
func (s *HighlightSystem) removeFrom(targetName string) {
	session := s.ctx.Highlight
	if session == nil || session.TargetName != targetName {
		return
	}
	s.teardownSession()
}

// showLabel 显示浮动标签
func (s *HighlightSystem) showLabel(kind components.LabelKind, textKey string, target scene.Vec3) {
	label, ok := ecs.GetComponent[*components.LabelComponent](s.entityManager, s.labelEntity)
	if !ok {
		return
	}
	label.Kind = kind
	label.Text = textKey
	label.Anchor = target.Add(scene.Vec3{Y: labelHoverHeight})
	label.Visible = true
	label.BlinkRate = labelBlinkIdle
}

// hideLabel 隐藏浮动标签
func (s *HighlightSystem) hideLabel() {
	if label, ok := ecs.GetComponent[*components.LabelComponent](s.entityManager, s.labelEntity); ok {
		label.Visible = false
	}
}

// resolveSocketPosition 经注册表解析插座的世界位置
func (s *HighlightSystem) resolveSocketPosition(socketName string) (scene.Vec3, bool) {
	node, ok := s.ctx.Registry.Resolve(socketName)
	if !ok {
		return scene.Vec3{}, false
	}
	return node.Position, true
}

// meshKey 子网格在会话中的唯一键
func meshKey(owner *scene.Node, mesh *scene.SubMesh) string {
	return owner.Name + "/" + mesh.ID
}
