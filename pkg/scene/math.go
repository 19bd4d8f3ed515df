package scene

import "math"

// Vec3 三维向量，世界坐标单位与装配台模型一致
type Vec3 struct {
	X, Y, Z float64
}

// Add 向量加法
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

// Sub 向量减法
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

// Scale 标量缩放
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

// Dot 点积
func (v Vec3) Dot(o Vec3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

// Length 向量长度
func (v Vec3) Length() float64 {
	return math.Sqrt(v.Dot(v))
}

// Distance 两点间欧氏距离
func (v Vec3) Distance(o Vec3) float64 {
	return v.Sub(o).Length()
}

// Normalized 单位化，零向量返回零值
func (v Vec3) Normalized() Vec3 {
	l := v.Length()
	if l == 0 {
		return Vec3{}
	}
	return v.Scale(1 / l)
}

// AABB 轴对齐包围盒
type AABB struct {
	Min Vec3
	Max Vec3
}

// Size 包围盒三轴尺寸
func (b AABB) Size() Vec3 {
	return b.Max.Sub(b.Min)
}

// Center 包围盒中心点
func (b AABB) Center() Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// wireAspectThreshold 导线判定阈值：最长轴与最短轴之比超过该值视为线状几何体
const wireAspectThreshold = 10.0

// IsWireLike 判断包围盒是否为细长的线状几何体
// 装饰性导线不参与高亮，避免发光材质覆盖在细线上产生噪点
func IsWireLike(b AABB) bool {
	size := b.Size()
	dims := []float64{math.Abs(size.X), math.Abs(size.Y), math.Abs(size.Z)}

	longest, shortest := dims[0], dims[0]
	for _, d := range dims[1:] {
		if d > longest {
			longest = d
		}
		if d < shortest {
			shortest = d
		}
	}

	// 退化包围盒（某轴尺寸为0）按线状处理
	if shortest == 0 {
		return longest > 0
	}
	return longest/shortest > wireAspectThreshold
}
