package scene

import "image/color"

// Material 子网格材质接口
// 引擎只关心克隆与还原，真实渲染由外部渲染层完成
type Material interface {
	// Clone 复制材质，复制失败（外部导入的特殊材质）返回 error
	Clone() (Material, error)
}

// StandardMaterial 标准材质：基础色 + 自发光
type StandardMaterial struct {
	BaseColor     color.RGBA // 基础颜色
	EmissiveColor color.RGBA // 自发光颜色
	GlowIntensity float64    // 自发光强度，0 表示不发光
}

// Clone 复制标准材质
func (m *StandardMaterial) Clone() (Material, error) {
	c := *m
	return &c, nil
}

// NeutralMaterial 返回中性灰默认材质
// 材质克隆失败时的兜底，保证物体永远可渲染
func NeutralMaterial() Material {
	return &StandardMaterial{
		BaseColor: color.RGBA{R: 128, G: 128, B: 128, A: 255},
	}
}

// SubMesh 节点下的一个子网格
type SubMesh struct {
	ID       string   // 子网格标识，在所属节点内唯一
	Bounds   AABB     // 局部包围盒
	Material Material // 当前材质
}

// Node 场景节点：元件、连接头、插座在场景中的实体表示
// 资产加载由外部协作方完成，引擎只持有已加载节点的引用
type Node struct {
	Name      string
	Position  Vec3 // 世界坐标
	SubMeshes []*SubMesh
	Children  []*Node
}

// Walk 深度优先遍历该节点及子节点的全部子网格
func (n *Node) Walk(visit func(owner *Node, mesh *SubMesh)) {
	for _, mesh := range n.SubMeshes {
		visit(n, mesh)
	}
	for _, child := range n.Children {
		child.Walk(visit)
	}
}

// Camera 当前激活的观察相机
// 拖拽过程中可临时锁定，防止轨道控制干扰落点判断
type Camera struct {
	Position Vec3
	LookAt   Vec3
	Locked   bool
}

// LockOn 锁定相机朝向目标点
func (c *Camera) LockOn(target Vec3) {
	c.LookAt = target
	c.Locked = true
}

// Release 解除相机锁定
func (c *Camera) Release() {
	c.Locked = false
}
