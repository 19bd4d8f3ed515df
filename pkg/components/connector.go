package components

import (
	"github.com/decker502/circuitlab/pkg/ecs"
	"github.com/decker502/circuitlab/pkg/scene"
)

// ConnectorComponent 可拖拽的连接头（导线端头/引脚）
type ConnectorComponent struct {
	// ID 连接头符号名，与课程配置中的 connector 字段对应
	ID string

	// Draggable 是否允许被拖拽
	// 已完成连接的连接头或装饰性端头设为 false
	Draggable bool

	// TipOffset 触点相对实体位置的偏移
	// 吸附判定使用触点位置而不是实体中心
	TipOffset scene.Vec3

	// WireEntity 伴随导线实体ID，0 表示该连接头没有成束的导线
	// 连接头移动时由拖拽系统同步重建导线几何
	WireEntity ecs.EntityID

	// Connected 是否已吸附到插座
	Connected bool

	// ConnectedSocket 已吸附的插座符号名（Connected 为 true 时有效）
	ConnectedSocket string
}

// SocketComponent 静态的连接目标位置
type SocketComponent struct {
	// ID 插座符号名，与课程配置中的 socket 字段对应
	ID string

	// Position 插座触点的世界坐标
	Position scene.Vec3
}
