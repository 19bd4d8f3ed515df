package components

import "github.com/decker502/circuitlab/pkg/scene"

// WireComponent 双端导线的伴随几何
// 一端被拖动时重建整条折线，保证导线与两个端头视觉一致
type WireComponent struct {
	FromEnd  scene.Vec3   // 固定端世界坐标
	ToEnd    scene.Vec3   // 活动端（连接头侧）世界坐标
	Segments int          // 折线段数，默认 8
	Points   []scene.Vec3 // 重建后的折线顶点，长度为 Segments+1
	Droop    float64      // 导线中段下垂量（世界单位）
}

// Rebuild 按两端位置重建折线顶点
// 中段按抛物线下垂，模拟软导线的自然垂度
func (w *WireComponent) Rebuild(from, to scene.Vec3) {
	w.FromEnd = from
	w.ToEnd = to

	segments := w.Segments
	if segments <= 0 {
		segments = 8
	}
	if len(w.Points) != segments+1 {
		w.Points = make([]scene.Vec3, segments+1)
	}

	// 端点直接取两端位置（垂度为0），浮点插值到 t=1 不保证精确
	w.Points[0] = from
	w.Points[segments] = to
	for i := 1; i < segments; i++ {
		t := float64(i) / float64(segments)
		p := from.Add(to.Sub(from).Scale(t))
		// 抛物线垂度：两端为0，中点最大
		p.Y -= w.Droop * 4 * t * (1 - t)
		w.Points[i] = p
	}
}
