package components

import "github.com/decker502/circuitlab/pkg/scene"

// LabelKind 浮动提示标签的种类
type LabelKind int

const (
	// LabelDrag 「从这里拖动」提示，悬浮在高亮目标上方
	LabelDrag LabelKind = iota
	// LabelDrop 「放到这里」提示，悬浮在目标插座上方
	LabelDrop
)

// LabelComponent 面向相机的浮动提示标签
type LabelComponent struct {
	Kind    LabelKind  // 标签种类
	Text    string     // 显示文本
	Anchor  scene.Vec3 // 世界坐标锚点（目标上方）
	Visible bool       // 是否可见
	Facing  scene.Vec3 // 朝向相机的单位向量，每帧由高亮系统更新
	// BlinkRate 标签闪烁速率（周期/秒）
	// 学习者长时间无操作时加快，起提醒作用
	BlinkRate float64
}
