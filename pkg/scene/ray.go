package scene

// Ray 指针射线：由相机经屏幕坐标反投影得到
// 反投影本身属于渲染层，引擎只消费射线
type Ray struct {
	Origin Vec3
	Dir    Vec3
}

// IntersectPlaneY 求射线与水平面 y=planeY 的交点
// 射线与平面平行时返回 false
func (r Ray) IntersectPlaneY(planeY float64) (Vec3, bool) {
	if r.Dir.Y == 0 {
		return Vec3{}, false
	}
	t := (planeY - r.Origin.Y) / r.Dir.Y
	if t < 0 {
		return Vec3{}, false
	}
	return r.Origin.Add(r.Dir.Scale(t)), true
}
