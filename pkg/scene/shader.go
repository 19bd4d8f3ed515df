package scene

import (
	"image/color"
	"math"
)

// PulseShader 共享的脉冲自发光着色器参数块
// 引擎全局只存在一个实例，挂在当前高亮会话上；
// 真实着色由外部渲染层按这些参数执行
type PulseShader struct {
	BaseColor     color.RGBA // 基础颜色
	GlowColor     color.RGBA // 发光颜色
	BlinkSpeed    float64    // 闪烁速度（周期/秒）
	GlowIntensity float64    // 发光强度上限
	Time          float64    // 时间 uniform，由高亮系统每帧推进
}

// Advance 推进时间 uniform
func (s *PulseShader) Advance(dt float64) {
	s.Time += dt
}

// PulseFactor 当前脉冲系数，范围 [0, GlowIntensity]
func (s *PulseShader) PulseFactor() float64 {
	wave := (math.Sin(2*math.Pi*s.BlinkSpeed*s.Time) + 1) / 2
	return wave * s.GlowIntensity
}

// HighlightMaterial 高亮材质：引用共享着色器的占位材质
// 替换到子网格上后，渲染层按着色器参数绘制脉冲发光
type HighlightMaterial struct {
	Shader *PulseShader
}

// Clone 高亮材质共享同一着色器实例，克隆只复制引用
func (m *HighlightMaterial) Clone() (Material, error) {
	c := *m
	return &c, nil
}
