package game

import (
	"github.com/google/uuid"

	"github.com/decker502/circuitlab/pkg/config"
	"github.com/decker502/circuitlab/pkg/ecs"
	"github.com/decker502/circuitlab/pkg/scene"
)

// LessonContext 交互引擎上下文
// 显式持有当前课程、步骤与两类交互会话，按引用传给所有系统，
// 取代包级可变全局状态
type LessonContext struct {
	Table    *config.LessonTable
	Registry *scene.Registry
	Camera   *scene.Camera

	// LessonID 当前课程ID，空串表示没有加载课程
	LessonID string
	// StepIndex 当前步骤序号，从0开始
	StepIndex int

	// Highlight 当前高亮会话，引擎全局至多一个
	// 创建新会话前必须先拆除旧会话（由高亮系统保证）
	Highlight *HighlightSession
	// Drag 当前拖拽会话，引擎全局至多一个
	Drag *DragSession

	// generation 变更代数
	// 课程切换或步骤推进时自增，悬挂的定时回调比对代数后自行失效
	generation uint64
}

// NewLessonContext 创建引擎上下文
func NewLessonContext(table *config.LessonTable, registry *scene.Registry, camera *scene.Camera) *LessonContext {
	return &LessonContext{
		Table:    table,
		Registry: registry,
		Camera:   camera,
	}
}

// Generation 返回当前变更代数
func (ctx *LessonContext) Generation() uint64 {
	return ctx.generation
}

// BumpGeneration 使所有悬挂的定时回调失效
func (ctx *LessonContext) BumpGeneration() uint64 {
	ctx.generation++
	return ctx.generation
}

// CurrentStep 读取当前步骤配置
// 步骤可能在拖拽过程中被异步推进，处理器必须每次重新读取
func (ctx *LessonContext) CurrentStep() (*config.StepConfig, bool) {
	return ctx.Table.Step(ctx.LessonID, ctx.StepIndex)
}

// HighlightSession 单个高亮会话
// 绑定一个目标节点，持有被替换前的原始材质副本与共享脉冲着色器
type HighlightSession struct {
	ID         uuid.UUID
	TargetName string
	Node       *scene.Node
	// Originals 子网格ID -> 原始材质副本，拆除会话时逐个还原
	Originals map[string]scene.Material
	// Shader 共享脉冲发光着色器实例，参数来自步骤高亮样式
	Shader *scene.PulseShader
	// LessonID / StepIndex 会话所属的课程步骤
	LessonID  string
	StepIndex int
}

// DragSession 单个拖拽会话
// 指针抬起时以吸附成功或零副作用取消结束
type DragSession struct {
	ID     uuid.UUID
	Entity ecs.EntityID
	// ConnectorID 被拖拽连接头的符号名
	ConnectorID string
	// StartPosition 拖拽起点（取消时不回退位置，仅作调试记录）
	StartPosition scene.Vec3
	// LessonID / StepIndex 拖拽开始时的课程步骤
	LessonID  string
	StepIndex int
	// Generation 拖拽开始时的变更代数
	// 课程切换后结束的拖拽比对代数，避免复活已废弃课程的状态
	Generation uint64
}
