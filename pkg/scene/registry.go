package scene

// Registry 符号名到场景节点的注册表
// 场景构建时一次性登记，之后所有组件统一通过它解析目标，
// 避免散落各处的字符串查找
type Registry struct {
	nodes map[string]*Node
}

// NewRegistry 创建空注册表
func NewRegistry() *Registry {
	return &Registry{
		nodes: make(map[string]*Node),
	}
}

// Register 登记符号名到节点的映射，同名覆盖
func (r *Registry) Register(name string, node *Node) {
	r.nodes[name] = node
}

// Resolve 按符号名解析场景节点
// 资产尚未加载时返回 false，调用方负责降级处理
func (r *Registry) Resolve(name string) (*Node, bool) {
	node, ok := r.nodes[name]
	return node, ok
}

// Names 返回所有已登记的符号名（调试用）
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.nodes))
	for name := range r.nodes {
		names = append(names, name)
	}
	return names
}
