package scenes

import (
	"image/color"

	"github.com/decker502/circuitlab/pkg/config"
	"github.com/decker502/circuitlab/pkg/scene"
)

// 工作台排布参数（世界单位）
const (
	workbenchSpacing  = 1.6  // 同排节点的横向间距
	connectorRowZ     = 2.2  // 连接头排
	socketRowZ        = -1.8 // 插孔排
	componentBodySize = 0.6  // 元件外壳边长
	socketBodySize    = 0.4
	leadLength        = 1.2 // 引脚导线长度
	leadThickness     = 0.05
)

// buildWorkbenchRegistry 按课程配置搭建工作台场景注册表
// 连接头/目标元件一排，插孔一排，同名只建一次。
// 每个元件节点带一个外壳子网格和一个细长引脚子网格，
// 引脚按长宽比判定为导线形，不参与高亮
func buildWorkbenchRegistry(cfg *config.LessonConfig) *scene.Registry {
	registry := scene.NewRegistry()

	var connectorNames, socketNames []string
	seen := make(map[string]bool)
	addName := func(list *[]string, name string) {
		if name == "" || seen[name] {
			return
		}
		seen[name] = true
		*list = append(*list, name)
	}
	for _, step := range cfg.Steps {
		addName(&connectorNames, step.Connector)
		addName(&connectorNames, step.Target)
		addName(&socketNames, step.Socket)
	}

	for i, name := range connectorNames {
		pos := rowPosition(i, len(connectorNames), connectorRowZ)
		registry.Register(name, newComponentNode(name, pos))
	}
	for i, name := range socketNames {
		pos := rowPosition(i, len(socketNames), socketRowZ)
		registry.Register(name, newSocketNode(name, pos))
	}
	return registry
}

// rowPosition 同排第i个节点的世界坐标，整排居中
func rowPosition(index, total int, z float64) scene.Vec3 {
	offset := float64(index) - float64(total-1)/2
	return scene.Vec3{X: offset * workbenchSpacing, Z: z}
}

// newComponentNode 元件节点：外壳 + 引脚
func newComponentNode(name string, pos scene.Vec3) *scene.Node {
	half := componentBodySize / 2
	return &scene.Node{
		Name:     name,
		Position: pos,
		SubMeshes: []*scene.SubMesh{
			{
				ID: "shell",
				Bounds: scene.AABB{
					Min: scene.Vec3{X: -half, Y: -half, Z: -half},
					Max: scene.Vec3{X: half, Y: half, Z: half},
				},
				Material: &scene.StandardMaterial{
					BaseColor: color.RGBA{R: 205, G: 170, B: 60, A: 255},
				},
			},
			{
				ID: "lead",
				Bounds: scene.AABB{
					Min: scene.Vec3{X: -leadLength / 2, Y: -leadThickness / 2, Z: -leadThickness / 2},
					Max: scene.Vec3{X: leadLength / 2, Y: leadThickness / 2, Z: leadThickness / 2},
				},
				Material: &scene.StandardMaterial{
					BaseColor: color.RGBA{R: 190, G: 190, B: 195, A: 255},
				},
			},
		},
	}
}

// newSocketNode 插孔节点：只有外壳
func newSocketNode(name string, pos scene.Vec3) *scene.Node {
	half := socketBodySize / 2
	return &scene.Node{
		Name:     name,
		Position: pos,
		SubMeshes: []*scene.SubMesh{
			{
				ID: "shell",
				Bounds: scene.AABB{
					Min: scene.Vec3{X: -half, Y: -half, Z: -half},
					Max: scene.Vec3{X: half, Y: half, Z: half},
				},
				Material: &scene.StandardMaterial{
					BaseColor: color.RGBA{R: 60, G: 70, B: 80, A: 255},
				},
			},
		},
	}
}
