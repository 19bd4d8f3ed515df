package entities

import (
	"testing"

	"github.com/decker502/circuitlab/pkg/components"
	"github.com/decker502/circuitlab/pkg/config"
	"github.com/decker502/circuitlab/pkg/ecs"
	"github.com/decker502/circuitlab/pkg/scene"
)

func newTestRegistry() *scene.Registry {
	registry := scene.NewRegistry()
	registry.Register("pinA", &scene.Node{Name: "pinA", Position: scene.Vec3{X: 5, Z: 5}})
	registry.Register("pinB", &scene.Node{Name: "pinB", Position: scene.Vec3{X: 6, Z: 5}})
	registry.Register("socketA", &scene.Node{Name: "socketA"})
	registry.Register("socketB", &scene.Node{Name: "socketB", Position: scene.Vec3{X: 2}})
	return registry
}

// TestNewSocketEntity 插孔实体持有注册表节点位置
func TestNewSocketEntity(t *testing.T) {
	em := ecs.NewEntityManager()
	registry := newTestRegistry()

	id, err := NewSocketEntity(em, registry, "socketB")
	if err != nil {
		t.Fatalf("Failed to create socket entity: %v", err)
	}

	socket, ok := ecs.GetComponent[*components.SocketComponent](em, id)
	if !ok {
		t.Fatal("Expected SocketComponent on socket entity")
	}
	if socket.ID != "socketB" || socket.Position.X != 2 {
		t.Errorf("Unexpected socket component: %+v", socket)
	}
}

// TestNewSocketEntityUnknownNode 未注册节点创建失败
func TestNewSocketEntityUnknownNode(t *testing.T) {
	em := ecs.NewEntityManager()
	registry := newTestRegistry()

	if _, err := NewSocketEntity(em, registry, "ghost"); err == nil {
		t.Error("Expected error for unknown socket node")
	}
}

// TestNewConnectorEntity 连接头实体带可拖拽组件与伴随导线
func TestNewConnectorEntity(t *testing.T) {
	em := ecs.NewEntityManager()
	registry := newTestRegistry()

	id, err := NewConnectorEntity(em, registry, "pinA")
	if err != nil {
		t.Fatalf("Failed to create connector entity: %v", err)
	}

	connector, ok := ecs.GetComponent[*components.ConnectorComponent](em, id)
	if !ok {
		t.Fatal("Expected ConnectorComponent on connector entity")
	}
	if !connector.Draggable || connector.Connected {
		t.Errorf("Expected fresh draggable connector, got %+v", connector)
	}

	wire, ok := ecs.GetComponent[*components.WireComponent](em, connector.WireEntity)
	if !ok {
		t.Fatal("Expected WireComponent on wire entity")
	}
	if len(wire.Points) != DefaultWireSegments+1 {
		t.Errorf("Expected %d wire points, got %d", DefaultWireSegments+1, len(wire.Points))
	}
	if wire.FromEnd != (scene.Vec3{X: 5, Z: 5}) {
		t.Errorf("Expected wire anchored at connector origin, got %+v", wire.FromEnd)
	}
}

// TestBuildLessonEntities 按步骤配置装配，重复符号名去重
func TestBuildLessonEntities(t *testing.T) {
	em := ecs.NewEntityManager()
	registry := newTestRegistry()

	cfg := &config.LessonConfig{
		ID: "l1",
		Steps: []config.StepConfig{
			{Target: "pinA", Connector: "pinA", Socket: "socketA"},
			{Target: "pinB", Connector: "pinB", Socket: "socketB"},
			{Target: "pinA", Connector: "pinA", Socket: "socketB"}, // 重复出现
		},
	}

	created, err := BuildLessonEntities(em, registry, cfg)
	if err != nil {
		t.Fatalf("Failed to build lesson entities: %v", err)
	}
	// 2 个连接头 + 2 个插孔（导线实体不计入返回列表）
	if len(created) != 4 {
		t.Errorf("Expected 4 entities, got %d", len(created))
	}
}

// TestBuildLessonEntitiesUnresolvable 任一节点缺失即装配失败
func TestBuildLessonEntitiesUnresolvable(t *testing.T) {
	em := ecs.NewEntityManager()
	registry := newTestRegistry()

	cfg := &config.LessonConfig{
		ID: "l1",
		Steps: []config.StepConfig{
			{Target: "pinA", Connector: "pinA", Socket: "ghost"},
		},
	}

	if _, err := BuildLessonEntities(em, registry, cfg); err == nil {
		t.Error("Expected error for unresolvable socket node")
	}
}
