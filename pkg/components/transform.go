package components

import "github.com/decker502/circuitlab/pkg/scene"

// TransformComponent 实体的世界坐标变换
type TransformComponent struct {
	Position scene.Vec3 // 世界坐标
}
