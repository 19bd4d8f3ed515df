package scenes

import (
	"log"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/decker502/circuitlab/pkg/components"
	"github.com/decker502/circuitlab/pkg/config"
	"github.com/decker502/circuitlab/pkg/ecs"
	"github.com/decker502/circuitlab/pkg/entities"
	"github.com/decker502/circuitlab/pkg/game"
	"github.com/decker502/circuitlab/pkg/scene"
	"github.com/decker502/circuitlab/pkg/systems"
)

const (
	// WindowWidth is the logical width of the application window in pixels.
	WindowWidth = 800
	// WindowHeight is the logical height of the application window in pixels.
	WindowHeight = 600

	// pixelsPerUnit 世界单位到屏幕像素的正交投影比例
	pixelsPerUnit = 60.0
	// pickRadius 连接头拾取半径（像素）
	pickRadius = 24.0
	// rayHeight 拾取射线的出射高度（世界单位）
	rayHeight = 10.0
)

// LessonScene 课程工作台场景
// 持有本课程的全部交互状态：实体、场景注册表、三个交互系统。
// 场景本身实现 game.UIHooks，把序列器的UI副作用画到屏幕上
type LessonScene struct {
	sceneManager *game.SceneManager
	progress     *game.ProgressManager
	strings      config.StringTable

	entityManager   *ecs.EntityManager
	ctx             *game.LessonContext
	dragSystem      *systems.ConnectorDragSystem
	highlightSystem *systems.HighlightSystem
	sequencer       *game.StepSequencer

	lessonID string

	// UIHooks 状态
	instructionText string
	visibleButtons  map[string]bool

	// elapsed 场景累计时间，驱动标签闪烁
	elapsed float64
	broken  bool // 装配失败时置位，场景只显示错误文本
}

// NewLessonScene 创建课程场景并完成装配
// 装配链：工作台注册表 → 实体 → 系统 → 回调接线 → 启动课程
func NewLessonScene(
	lessonID string,
	table *config.LessonTable,
	sm *game.SceneManager,
	narrator game.Narrator,
	progress *game.ProgressManager,
	strings config.StringTable,
) *LessonScene {
	s := &LessonScene{
		sceneManager:   sm,
		progress:       progress,
		strings:        strings,
		lessonID:       lessonID,
		visibleButtons: make(map[string]bool),
	}

	cfg, ok := table.Get(lessonID)
	if !ok {
		log.Printf("[LessonScene] Warning: unknown lesson %s", lessonID)
		s.broken = true
		return s
	}

	registry := buildWorkbenchRegistry(cfg)
	camera := &scene.Camera{Position: scene.Vec3{Y: 8, Z: 12}}
	s.ctx = game.NewLessonContext(table, registry, camera)

	s.entityManager = ecs.NewEntityManager()
	if _, err := entities.BuildLessonEntities(s.entityManager, registry, cfg); err != nil {
		log.Printf("[LessonScene] Failed to assemble lesson %s: %v", lessonID, err)
		s.broken = true
		return s
	}

	s.dragSystem = systems.NewConnectorDragSystem(s.entityManager, s.ctx)
	s.highlightSystem = systems.NewHighlightSystem(s.entityManager, s.ctx)
	s.sequencer = game.NewStepSequencer(s.ctx, s.highlightSystem, narrator, s, progress)

	// 回调接线：拖拽事件先走高亮副作用，吸附成功再通知序列器
	s.dragSystem.OnDragStart = s.highlightSystem.OnDragStart
	s.dragSystem.OnDragEnd = func(connectorID string, snapped bool) {
		if !snapped {
			s.highlightSystem.OnDragEnd(connectorID)
		}
	}
	s.dragSystem.OnSnap = func(event systems.SnapEvent) {
		s.highlightSystem.OnSnap(event.ID)
		s.sequencer.NotifySnap()
	}

	s.sequencer.StartLesson(lessonID)
	return s
}

// Update 每帧输入采样与系统推进
func (s *LessonScene) Update(deltaTime float64) {
	if s.broken {
		return
	}
	s.elapsed += deltaTime

	s.handleInput()

	s.sequencer.Update(deltaTime)
	s.highlightSystem.Update(deltaTime)
	s.entityManager.RemoveMarkedEntities()
}

// handleInput 指针按下拾取连接头，移动更新拖拽，抬起结算
func (s *LessonScene) handleInput() {
	mouseX, mouseY := ebiten.CursorPosition()

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		if s.handleButtonClick(float64(mouseX), float64(mouseY)) {
			return
		}
		if entity, ok := s.pickConnector(float64(mouseX), float64(mouseY)); ok {
			s.dragSystem.BeginDrag(entity)
		}
		return
	}

	if s.dragSystem.IsDragging() {
		if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
			s.dragSystem.UpdateDrag(s.cursorRay(float64(mouseX), float64(mouseY)))
		}
		if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
			s.dragSystem.EndDrag()
		}
	}
}

// pickConnector 按屏幕距离拾取最近的可拖拽连接头
func (s *LessonScene) pickConnector(mx, my float64) (ecs.EntityID, bool) {
	var best ecs.EntityID
	bestDist := math.MaxFloat64
	found := false

	for _, entity := range ecs.GetEntitiesWith2[*components.ConnectorComponent, *components.TransformComponent](s.entityManager) {
		connector, _ := ecs.GetComponent[*components.ConnectorComponent](s.entityManager, entity)
		transform, _ := ecs.GetComponent[*components.TransformComponent](s.entityManager, entity)
		if connector == nil || transform == nil || !connector.Draggable {
			continue
		}
		sx, sy := worldToScreen(transform.Position)
		d := math.Hypot(sx-mx, sy-my)
		if d <= pickRadius && d < bestDist {
			best = entity
			bestDist = d
			found = true
		}
	}
	return best, found
}

// cursorRay 把光标位置换算成垂直向下的拾取射线
func (s *LessonScene) cursorRay(mx, my float64) scene.Ray {
	wx := (mx - WindowWidth/2) / pixelsPerUnit
	wz := (my - WindowHeight/2) / pixelsPerUnit
	return scene.Ray{
		Origin: scene.Vec3{X: wx, Y: rayHeight, Z: wz},
		Dir:    scene.Vec3{Y: -1},
	}
}

// worldToScreen 正交投影：俯视工作台，Y轴高度只作轻微视觉偏移
func worldToScreen(v scene.Vec3) (float64, float64) {
	x := WindowWidth/2 + v.X*pixelsPerUnit
	y := WindowHeight/2 + v.Z*pixelsPerUnit - v.Y*pixelsPerUnit*0.5
	return x, y
}

// Teardown 场景被切换掉时拆除会话
// 保证高亮材质还原、进行中的拖拽作废，不留跨课程状态
func (s *LessonScene) Teardown() {
	if s.broken {
		return
	}
	s.dragSystem.Cancel()
	s.highlightSystem.Cleanup()
	log.Printf("[LessonScene] Lesson %s torn down", s.lessonID)
}

// ShowButton 实现 game.UIHooks
func (s *LessonScene) ShowButton(name string) {
	s.visibleButtons[name] = true
}

// HideButton 实现 game.UIHooks
func (s *LessonScene) HideButton(name string) {
	delete(s.visibleButtons, name)
}

// SetInstructionText 实现 game.UIHooks，key经文本表转换后显示
func (s *LessonScene) SetInstructionText(key string) {
	s.instructionText = s.strings.Lookup(key)
}

// handleButtonClick 完成面板按钮命中测试
func (s *LessonScene) handleButtonClick(mx, my float64) bool {
	for i, name := range []string{game.ButtonNextLesson, game.ButtonBackToMenu} {
		if !s.visibleButtons[name] {
			continue
		}
		x, y, w, h := buttonRect(i)
		if mx < x || mx > x+w || my < y || my > y+h {
			continue
		}
		s.onButtonPressed(name)
		return true
	}
	return false
}

func (s *LessonScene) onButtonPressed(name string) {
	log.Printf("[LessonScene] Button pressed: %s", name)
	switch name {
	case game.ButtonNextLesson:
		if next, ok := s.nextLessonID(); ok {
			s.sceneManager.LoadLesson(next)
		}
	case game.ButtonBackToMenu:
		s.sceneManager.SwitchTo(NewMenuScene(s.ctx.Table, s.sceneManager, s.progress, s.strings))
	}
}

// nextLessonID 课程表顺序中的下一课
func (s *LessonScene) nextLessonID() (string, bool) {
	lessons := s.ctx.Table.Lessons()
	for i, cfg := range lessons {
		if cfg.ID == s.lessonID && i+1 < len(lessons) {
			return lessons[i+1].ID, true
		}
	}
	return "", false
}

// buttonRect 完成面板按钮的屏幕矩形
func buttonRect(index int) (x, y, w, h float64) {
	w, h = 180, 36
	x = WindowWidth/2 - w/2
	y = WindowHeight - 120 + float64(index)*(h+8)
	return
}
