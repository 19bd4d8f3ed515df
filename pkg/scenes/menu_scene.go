package scenes

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/decker502/circuitlab/pkg/config"
	"github.com/decker502/circuitlab/pkg/game"
)

// 课程清单排布参数（像素）
const (
	menuEntryHeight  = 44.0
	menuEntryWidth   = 420.0
	menuEntrySpacing = 12.0
	menuTopMargin    = 120.0
)

// MenuScene 课程选择清单
// 按课程表顺序列出全部课程，已完成的课程带完成标记
type MenuScene struct {
	table        *config.LessonTable
	sceneManager *game.SceneManager
	progress     *game.ProgressManager
	strings      config.StringTable
}

// NewMenuScene 创建课程选择场景
func NewMenuScene(
	table *config.LessonTable,
	sm *game.SceneManager,
	progress *game.ProgressManager,
	strings config.StringTable,
) *MenuScene {
	return &MenuScene{
		table:        table,
		sceneManager: sm,
		progress:     progress,
		strings:      strings,
	}
}

// Update 点击课程条目进入对应课程
func (s *MenuScene) Update(deltaTime float64) {
	if !inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		return
	}
	mouseX, mouseY := ebiten.CursorPosition()

	for i, cfg := range s.table.Lessons() {
		x, y := menuEntryPosition(i)
		mx, my := float64(mouseX), float64(mouseY)
		if mx >= x && mx <= x+menuEntryWidth && my >= y && my <= y+menuEntryHeight {
			s.sceneManager.LoadLesson(cfg.ID)
			return
		}
	}
}

// Draw 渲染标题与课程清单
func (s *MenuScene) Draw(screen *ebiten.Image) {
	screen.Fill(benchColor)
	ebitenutil.DebugPrintAt(screen, s.strings.Lookup("MENU_TITLE"), WindowWidth/2-60, 60)

	for i, cfg := range s.table.Lessons() {
		x, y := menuEntryPosition(i)
		ebitenutil.DrawRect(screen, x, y, menuEntryWidth, menuEntryHeight, panelColor)

		entry := fmt.Sprintf("%d. %s", i+1, cfg.Name)
		if s.progress.IsCompleted(cfg.ID) {
			entry += "  [done]"
		}
		ebitenutil.DebugPrintAt(screen, entry, int(x)+16, int(y)+14)
	}
}

func menuEntryPosition(index int) (float64, float64) {
	x := (WindowWidth - menuEntryWidth) / 2.0
	y := menuTopMargin + float64(index)*(menuEntryHeight+menuEntrySpacing)
	return x, y
}
