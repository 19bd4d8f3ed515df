package systems

import (
	"log"

	"github.com/google/uuid"

	"github.com/decker502/circuitlab/pkg/components"
	"github.com/decker502/circuitlab/pkg/ecs"
	"github.com/decker502/circuitlab/pkg/game"
	"github.com/decker502/circuitlab/pkg/scene"
)

// SnapEvent 吸附成功事件
type SnapEvent struct {
	ID          uuid.UUID    // 事件ID
	Entity      ecs.EntityID // 被吸附的连接头实体
	ConnectorID string       // 连接头符号名
	SocketID    string       // 吸附到的插座符号名
}

// ConnectorDragSystem 连接头拖拽系统
// 跟踪单个连接头的拖拽过程，指针抬起时按触点到插座的距离
// 做吸附判定。判定失败是静默的：连接头留在释放位置，随时可重试
type ConnectorDragSystem struct {
	entityManager *ecs.EntityManager
	ctx           *game.LessonContext

	// 事件回调，由场景装配时挂接到高亮系统与序列器
	OnDragStart func(connectorID string)
	OnDragEnd   func(connectorID string, snapped bool)
	OnSnap      func(ev SnapEvent)
}

// NewConnectorDragSystem 创建拖拽系统
func NewConnectorDragSystem(em *ecs.EntityManager, ctx *game.LessonContext) *ConnectorDragSystem {
	return &ConnectorDragSystem{
		entityManager: em,
		ctx:           ctx,
	}
}

// IsDragging 是否有进行中的拖拽会话
func (s *ConnectorDragSystem) IsDragging() bool {
	return s.ctx.Drag != nil
}

// BeginDrag 开始拖拽指定连接头实体
// 前置条件：没有进行中的拖拽会话、连接头可拖拽、且是当前步骤期望的连接头。
// 拖拽非当前步骤连接头的操作被整体忽略，不触碰任何共享状态
func (s *ConnectorDragSystem) BeginDrag(entity ecs.EntityID) bool {
	if s.ctx.Drag != nil {
		return false
	}

	connector, ok := ecs.GetComponent[*components.ConnectorComponent](s.entityManager, entity)
	if !ok || !connector.Draggable {
		return false
	}

	step, ok := s.ctx.CurrentStep()
	if !ok {
		return false
	}
	if step.Connector != connector.ID {
		// 不是本步骤期望的连接头，静默忽略
		return false
	}

	transform, ok := ecs.GetComponent[*components.TransformComponent](s.entityManager, entity)
	if !ok {
		return false
	}

	s.ctx.Drag = &game.DragSession{
		ID:            uuid.New(),
		Entity:        entity,
		ConnectorID:   connector.ID,
		StartPosition: transform.Position,
		LessonID:      s.ctx.LessonID,
		StepIndex:     s.ctx.StepIndex,
		Generation:    s.ctx.Generation(),
	}

	// 拖拽期间锁定相机朝向目标插座，避免轨道控制干扰落点
	if socket, ok := s.resolveSocket(step.Socket); ok {
		s.ctx.Camera.LockOn(socket.Position)
	}

	log.Printf("[ConnectorDragSystem] Drag started: %s", connector.ID)
	if s.OnDragStart != nil {
		s.OnDragStart(connector.ID)
	}
	return true
}

// UpdateDrag 每帧沿拖拽平面重投影连接头位置，不做任何判定
// 拖拽平面取拖拽起点的水平面
func (s *ConnectorDragSystem) UpdateDrag(ray scene.Ray) {
	session := s.ctx.Drag
	if session == nil {
		return
	}

	point, ok := ray.IntersectPlaneY(session.StartPosition.Y)
	if !ok {
		return
	}

	transform, ok := ecs.GetComponent[*components.TransformComponent](s.entityManager, session.Entity)
	if !ok {
		return
	}
	transform.Position = point
	s.rebuildWire(session.Entity, transform.Position)
}

// EndDrag 结束拖拽并做吸附判定
// 触点到插座距离严格小于吸附半径才算成功：成功时连接头精确落位
// 到插座并重建导线；失败时连接头留在释放位置，无事件、无状态变更。
// 返回是否吸附成功
func (s *ConnectorDragSystem) EndDrag() bool {
	session := s.ctx.Drag
	if session == nil {
		return false
	}
	s.ctx.Drag = nil

	// 课程已切换：本次拖拽作废，不得复活已废弃课程的任何状态
	if session.Generation != s.ctx.Generation() {
		s.ctx.Camera.Release()
		return false
	}

	// 配置可能在拖拽过程中变化，重新读取当前步骤
	step, ok := s.ctx.CurrentStep()
	if !ok {
		s.ctx.Camera.Release()
		return false
	}

	connector, ok := ecs.GetComponent[*components.ConnectorComponent](s.entityManager, session.Entity)
	if !ok {
		s.ctx.Camera.Release()
		return false
	}
	transform, ok := ecs.GetComponent[*components.TransformComponent](s.entityManager, session.Entity)
	if !ok {
		s.ctx.Camera.Release()
		return false
	}

	socket, ok := s.resolveSocket(step.Socket)
	if !ok {
		// 插座未解析：按取消处理，不改变任何状态
		log.Printf("[ConnectorDragSystem] Warning: socket %s unresolved, drag cancelled", step.Socket)
		s.ctx.Camera.Release()
		return false
	}

	cfg, _ := s.ctx.Table.Get(s.ctx.LessonID)
	snapRadius := 1.0
	if cfg != nil {
		snapRadius = cfg.SnapRadius
	}

	tip := transform.Position.Add(connector.TipOffset)
	distance := tip.Distance(socket.Position)
	if distance >= snapRadius {
		// 静默失败：连接头留在释放位置，随时可重试
		s.ctx.Camera.Release()
		if s.OnDragEnd != nil {
			s.OnDragEnd(connector.ID, false)
		}
		return false
	}

	// 吸附成功：触点精确落到插座上
	transform.Position = socket.Position.Sub(connector.TipOffset)
	connector.Connected = true
	connector.ConnectedSocket = socket.ID
	connector.Draggable = false
	s.rebuildWire(session.Entity, transform.Position)

	ev := SnapEvent{
		ID:          uuid.New(),
		Entity:      session.Entity,
		ConnectorID: connector.ID,
		SocketID:    socket.ID,
	}
	log.Printf("[ConnectorDragSystem] Snap: %s -> %s (distance %.3f)", connector.ID, socket.ID, distance)

	if s.OnDragEnd != nil {
		s.OnDragEnd(connector.ID, true)
	}
	if s.OnSnap != nil {
		s.OnSnap(ev)
	}
	return true
}

// Cancel 无条件取消进行中的拖拽，零副作用
// 课程切换时由场景调用
func (s *ConnectorDragSystem) Cancel() {
	if s.ctx.Drag == nil {
		return
	}
	s.ctx.Drag = nil
	s.ctx.Camera.Release()
}

// FindConnectorEntity 按符号名查找连接头实体
func (s *ConnectorDragSystem) FindConnectorEntity(connectorID string) (ecs.EntityID, bool) {
	entities := ecs.GetEntitiesWith2[*components.ConnectorComponent, *components.TransformComponent](s.entityManager)
	for _, entity := range entities {
		connector, ok := ecs.GetComponent[*components.ConnectorComponent](s.entityManager, entity)
		if ok && connector.ID == connectorID {
			return entity, true
		}
	}
	return 0, false
}

// resolveSocket 按符号名查找插座组件
func (s *ConnectorDragSystem) resolveSocket(socketID string) (*components.SocketComponent, bool) {
	entities := ecs.GetEntitiesWith1[*components.SocketComponent](s.entityManager)
	for _, entity := range entities {
		socket, ok := ecs.GetComponent[*components.SocketComponent](s.entityManager, entity)
		if ok && socket.ID == socketID {
			return socket, true
		}
	}
	return nil, false
}

// rebuildWire 连接头移动后同步重建伴随导线几何
func (s *ConnectorDragSystem) rebuildWire(entity ecs.EntityID, position scene.Vec3) {
	connector, ok := ecs.GetComponent[*components.ConnectorComponent](s.entityManager, entity)
	if !ok || connector.WireEntity == 0 {
		return
	}
	wire, ok := ecs.GetComponent[*components.WireComponent](s.entityManager, connector.WireEntity)
	if !ok {
		return
	}
	wire.Rebuild(wire.FromEnd, position.Add(connector.TipOffset))
}
