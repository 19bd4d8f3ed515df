package scene

import (
	"math"
	"testing"
)

// TestVec3Distance 测试欧氏距离计算
func TestVec3Distance(t *testing.T) {
	a := Vec3{X: 0, Y: 0, Z: 0}
	b := Vec3{X: 3, Y: 4, Z: 0}

	if d := a.Distance(b); d != 5 {
		t.Errorf("Expected distance 5, got %v", d)
	}
}

// TestVec3Normalized 测试单位化，包含零向量退化情况
func TestVec3Normalized(t *testing.T) {
	v := Vec3{X: 0, Y: 0, Z: 2}
	n := v.Normalized()
	if n.Z != 1 || n.X != 0 || n.Y != 0 {
		t.Errorf("Expected (0,0,1), got %+v", n)
	}

	zero := Vec3{}.Normalized()
	if zero.Length() != 0 {
		t.Errorf("Expected zero vector to normalize to zero, got %+v", zero)
	}
}

// TestAABBSizeCenter 测试包围盒尺寸与中心
func TestAABBSizeCenter(t *testing.T) {
	b := AABB{Min: Vec3{X: -1, Y: 0, Z: 2}, Max: Vec3{X: 1, Y: 4, Z: 4}}

	size := b.Size()
	if size.X != 2 || size.Y != 4 || size.Z != 2 {
		t.Errorf("Expected size (2,4,2), got %+v", size)
	}

	center := b.Center()
	if center.X != 0 || center.Y != 2 || center.Z != 3 {
		t.Errorf("Expected center (0,2,3), got %+v", center)
	}
}

// TestIsWireLike 测试线状几何体判定
func TestIsWireLike(t *testing.T) {
	// 细长导线：20:1 长宽比
	wire := AABB{Min: Vec3{}, Max: Vec3{X: 2.0, Y: 0.1, Z: 0.1}}
	if !IsWireLike(wire) {
		t.Error("Expected 20:1 box to be wire-like")
	}

	// 接近立方体的元件外壳
	chip := AABB{Min: Vec3{}, Max: Vec3{X: 1.0, Y: 0.8, Z: 1.2}}
	if IsWireLike(chip) {
		t.Error("Expected near-cubic box to not be wire-like")
	}

	// 退化包围盒（平面）按线状处理
	flat := AABB{Min: Vec3{}, Max: Vec3{X: 1.0, Y: 0, Z: 1.0}}
	if !IsWireLike(flat) {
		t.Error("Expected degenerate box to be wire-like")
	}
}

// TestIsWireLikeBoundary 测试阈值边界：恰好 10:1 不算线状
func TestIsWireLikeBoundary(t *testing.T) {
	exact := AABB{Min: Vec3{}, Max: Vec3{X: 1.0, Y: 0.1, Z: 0.1}}
	if IsWireLike(exact) {
		t.Error("Expected exactly 10:1 box to not be wire-like (strict greater-than)")
	}
	over := AABB{Min: Vec3{}, Max: Vec3{X: math.Nextafter(1.0, 2.0), Y: 0.1, Z: 0.1}}
	if !IsWireLike(over) {
		t.Error("Expected ratio just above threshold to be wire-like")
	}
}
