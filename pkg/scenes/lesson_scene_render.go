package scenes

import (
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"github.com/decker502/circuitlab/pkg/components"
	"github.com/decker502/circuitlab/pkg/ecs"
	"github.com/decker502/circuitlab/pkg/game"
	"github.com/decker502/circuitlab/pkg/scene"
)

var (
	benchColor  = color.RGBA{R: 34, G: 40, B: 46, A: 255}
	boardColor  = color.RGBA{R: 46, G: 86, B: 58, A: 255}
	wireColor   = color.RGBA{R: 210, G: 70, B: 60, A: 255}
	panelColor  = color.RGBA{R: 24, G: 28, B: 32, A: 255}
	buttonColor = color.RGBA{R: 70, G: 110, B: 160, A: 255}
)

// Draw 渲染工作台：面包板、场景节点、导线、标签与指导文本
// 渲染只读取注册表与组件数据，材质决定节点着色
func (s *LessonScene) Draw(screen *ebiten.Image) {
	screen.Fill(benchColor)

	if s.broken {
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("Failed to load lesson %s", s.lessonID), 20, 20)
		return
	}

	// 面包板
	bx, by := worldToScreen(scene.Vec3{X: -4, Z: -3})
	bw := 8 * pixelsPerUnit
	bh := 6.4 * pixelsPerUnit
	ebitenutil.DrawRect(screen, bx, by, bw, bh, boardColor)

	s.drawNodes(screen)
	s.drawWires(screen)
	s.drawLabels(screen)
	s.drawHUD(screen)
}

// drawNodes 按当前材质绘制注册表中的节点
// 高亮材质按着色器脉冲系数在基础色与发光色之间插值
func (s *LessonScene) drawNodes(screen *ebiten.Image) {
	for _, name := range s.ctx.Registry.Names() {
		node, ok := s.ctx.Registry.Resolve(name)
		if !ok {
			continue
		}
		node.Walk(func(owner *scene.Node, mesh *scene.SubMesh) {
			if scene.IsWireLike(mesh.Bounds) {
				return
			}
			size := mesh.Bounds.Size()
			w := size.X * pixelsPerUnit
			h := size.Z * pixelsPerUnit
			x, y := worldToScreen(owner.Position)
			ebitenutil.DrawRect(screen, x-w/2, y-h/2, w, h, materialColor(mesh.Material))
		})
	}
}

// materialColor 材质到屏幕颜色
func materialColor(m scene.Material) color.RGBA {
	switch mat := m.(type) {
	case *scene.StandardMaterial:
		return mat.BaseColor
	case *scene.HighlightMaterial:
		f := mat.Shader.PulseFactor()
		if f > 1 {
			f = 1
		}
		return lerpColor(mat.Shader.BaseColor, mat.Shader.GlowColor, f)
	default:
		return color.RGBA{R: 128, G: 128, B: 128, A: 255}
	}
}

func lerpColor(a, b color.RGBA, t float64) color.RGBA {
	mix := func(x, y uint8) uint8 {
		return uint8(float64(x) + (float64(y)-float64(x))*t)
	}
	return color.RGBA{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: 255}
}

// drawWires 绘制全部导线折线
func (s *LessonScene) drawWires(screen *ebiten.Image) {
	for _, entity := range ecs.GetEntitiesWith1[*components.WireComponent](s.entityManager) {
		wire, ok := ecs.GetComponent[*components.WireComponent](s.entityManager, entity)
		if !ok || len(wire.Points) < 2 {
			continue
		}
		for i := 1; i < len(wire.Points); i++ {
			x1, y1 := worldToScreen(wire.Points[i-1])
			x2, y2 := worldToScreen(wire.Points[i])
			ebitenutil.DrawLine(screen, x1, y1, x2, y2, wireColor)
		}
	}
}

// drawLabels 绘制提示标签，按闪烁频率断续显示
func (s *LessonScene) drawLabels(screen *ebiten.Image) {
	for _, entity := range ecs.GetEntitiesWith1[*components.LabelComponent](s.entityManager) {
		label, ok := ecs.GetComponent[*components.LabelComponent](s.entityManager, entity)
		if !ok || !label.Visible {
			continue
		}
		// 占空比0.6的方波闪烁
		phase := s.elapsed * label.BlinkRate
		if phase-math.Floor(phase) > 0.6 {
			continue
		}
		x, y := worldToScreen(label.Anchor)
		text := s.strings.Lookup(label.Text)
		ebitenutil.DebugPrintAt(screen, text, int(x)-len(text)*3, int(y)-8)
	}
}

// drawHUD 指导文本条与完成面板按钮
func (s *LessonScene) drawHUD(screen *ebiten.Image) {
	ebitenutil.DrawRect(screen, 0, 0, WindowWidth, 28, panelColor)
	if s.instructionText != "" {
		ebitenutil.DebugPrintAt(screen, s.instructionText, 12, 6)
	}

	for i, name := range []string{game.ButtonNextLesson, game.ButtonBackToMenu} {
		if !s.visibleButtons[name] {
			continue
		}
		x, y, w, h := buttonRect(i)
		ebitenutil.DrawRect(screen, x, y, w, h, buttonColor)
		text := s.strings.Lookup(buttonTextKey(name))
		ebitenutil.DebugPrintAt(screen, text, int(x+w/2)-len(text)*3, int(y+h/2)-8)
	}
}

// buttonTextKey 按钮名到文本key
func buttonTextKey(name string) string {
	if name == game.ButtonNextLesson {
		return "BUTTON_NEXT_LESSON"
	}
	return "BUTTON_BACK_TO_MENU"
}
