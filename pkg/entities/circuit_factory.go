package entities

import (
	"fmt"
	"log"

	"github.com/decker502/circuitlab/pkg/components"
	"github.com/decker502/circuitlab/pkg/config"
	"github.com/decker502/circuitlab/pkg/ecs"
	"github.com/decker502/circuitlab/pkg/scene"
)

// 连接头默认参数
const (
	// DefaultTipOffset 金属触点相对连接头原点的偏移
	DefaultTipOffset = 0.15
	// DefaultWireDroop 导线静止下垂量
	DefaultWireDroop = 0.35
	// DefaultWireSegments 导线折线段数
	DefaultWireSegments = 8
)

// NewSocketEntity 创建插孔实体
// 插孔不可拖拽，位置取自场景节点（面包板上的孔位）
//
// 参数:
//   - em: 实体管理器
//   - registry: 场景节点注册表
//   - socketID: 插孔符号名，需与注册表中的节点同名
//
// 返回:
//   - ecs.EntityID: 创建的插孔实体ID，如果失败返回 0
//   - error: 节点无法解析时返回错误
func NewSocketEntity(
	em *ecs.EntityManager,
	registry *scene.Registry,
	socketID string,
) (ecs.EntityID, error) {
	if em == nil {
		return 0, fmt.Errorf("entity manager cannot be nil")
	}
	node, ok := registry.Resolve(socketID)
	if !ok {
		return 0, fmt.Errorf("socket node %q not found in registry", socketID)
	}

	entityID := em.CreateEntity()
	em.AddComponent(entityID, &components.TransformComponent{
		Position: node.Position,
	})
	em.AddComponent(entityID, &components.SocketComponent{
		ID:       socketID,
		Position: node.Position,
	})

	log.Printf("[CircuitFactory] Created socket entity %d for %s at (%.2f, %.2f, %.2f)",
		entityID, socketID, node.Position.X, node.Position.Y, node.Position.Z)
	return entityID, nil
}

// NewConnectorEntity 创建连接头实体及其伴随的导线实体
// 连接头初始位置取自场景节点；导线固定端留在该初始位置（元件引出点），
// 活动端跟随连接头触点移动
//
// 返回连接头实体ID，导线实体ID记录在 ConnectorComponent.WireEntity
func NewConnectorEntity(
	em *ecs.EntityManager,
	registry *scene.Registry,
	connectorID string,
) (ecs.EntityID, error) {
	if em == nil {
		return 0, fmt.Errorf("entity manager cannot be nil")
	}
	node, ok := registry.Resolve(connectorID)
	if !ok {
		return 0, fmt.Errorf("connector node %q not found in registry", connectorID)
	}

	tipOffset := scene.Vec3{Y: DefaultTipOffset}
	tip := node.Position.Add(tipOffset)

	// 导线实体先建，连接头组件引用它
	wireID := em.CreateEntity()
	wire := &components.WireComponent{
		Segments: DefaultWireSegments,
		Droop:    DefaultWireDroop,
	}
	wire.Rebuild(node.Position, tip)
	em.AddComponent(wireID, wire)

	entityID := em.CreateEntity()
	em.AddComponent(entityID, &components.TransformComponent{
		Position: node.Position,
	})
	em.AddComponent(entityID, &components.ConnectorComponent{
		ID:         connectorID,
		Draggable:  true,
		TipOffset:  tipOffset,
		WireEntity: wireID,
	})

	log.Printf("[CircuitFactory] Created connector entity %d for %s (wire entity %d)",
		entityID, connectorID, wireID)
	return entityID, nil
}

// BuildLessonEntities 按课程配置创建全部连接头与插孔实体
// 同一符号名在多个步骤重复出现时只创建一次
// 任一节点无法解析都视为课程装配失败，已创建的实体不回滚
// （调用方整体丢弃 EntityManager）
func BuildLessonEntities(
	em *ecs.EntityManager,
	registry *scene.Registry,
	cfg *config.LessonConfig,
) ([]ecs.EntityID, error) {
	if cfg == nil {
		return nil, fmt.Errorf("lesson config cannot be nil")
	}

	var created []ecs.EntityID
	seenConnectors := make(map[string]bool)
	seenSockets := make(map[string]bool)

	for i, step := range cfg.Steps {
		if !seenConnectors[step.Connector] {
			seenConnectors[step.Connector] = true
			id, err := NewConnectorEntity(em, registry, step.Connector)
			if err != nil {
				return created, fmt.Errorf("step %d: %w", i, err)
			}
			created = append(created, id)
		}
		if !seenSockets[step.Socket] {
			seenSockets[step.Socket] = true
			id, err := NewSocketEntity(em, registry, step.Socket)
			if err != nil {
				return created, fmt.Errorf("step %d: %w", i, err)
			}
			created = append(created, id)
		}
	}

	log.Printf("[CircuitFactory] Lesson %s assembled: %d entities for %d steps",
		cfg.ID, len(created), len(cfg.Steps))
	return created, nil
}
