package game

import (
	"log"

	"github.com/hajimehoshi/ebiten/v2"
)

// Scene represents one screen of the application (lesson workbench, menu).
// Each scene owns its own update and rendering logic.
type Scene interface {
	// Update updates the scene logic based on the elapsed time.
	// deltaTime is the time elapsed since the last update in seconds.
	Update(deltaTime float64)

	// Draw renders the scene to the provided screen.
	Draw(screen *ebiten.Image)
}

// Teardown 可选接口：场景被切换掉时释放交互状态
// 课程场景实现它来拆除高亮会话并作废进行中的拖拽，
// 保证切换后触发的回调不会复活旧课程的状态
type Teardown interface {
	Teardown()
}

// SceneFactory 场景工厂函数类型
// 按课程ID创建课程场景，避免 game 包反向依赖场景实现
type SceneFactory func(lessonID string) Scene

// SceneManager manages the application's high-level state by controlling
// which scene is active. Only one scene's Update and Draw run at any time.
type SceneManager struct {
	currentScene Scene
	sceneFactory SceneFactory
}

// NewSceneManager creates a SceneManager with no active scene.
func NewSceneManager() *SceneManager {
	return &SceneManager{}
}

// SetSceneFactory 设置场景工厂函数
func (sm *SceneManager) SetSceneFactory(factory SceneFactory) {
	sm.sceneFactory = factory
}

// SwitchTo 切换活动场景
// 旧场景实现了 Teardown 时先执行拆除
func (sm *SceneManager) SwitchTo(scene Scene) {
	if old, ok := sm.currentScene.(Teardown); ok {
		old.Teardown()
	}
	sm.currentScene = scene
}

// GetCurrentScene 返回当前活动场景，无场景时返回 nil
func (sm *SceneManager) GetCurrentScene() Scene {
	return sm.currentScene
}

// LoadLesson 按课程ID创建并切换到课程场景
func (sm *SceneManager) LoadLesson(lessonID string) {
	log.Printf("[SceneManager] Loading lesson: %s", lessonID)

	if sm.sceneFactory == nil {
		log.Printf("[SceneManager] Warning: scene factory not set")
		return
	}

	newScene := sm.sceneFactory(lessonID)
	if newScene == nil {
		log.Printf("[SceneManager] Warning: failed to create scene for lesson %s", lessonID)
		return
	}
	sm.SwitchTo(newScene)
}

// Update updates the currently active scene.
func (sm *SceneManager) Update(deltaTime float64) {
	if sm.currentScene != nil {
		sm.currentScene.Update(deltaTime)
	}
}

// Draw renders the currently active scene.
func (sm *SceneManager) Draw(screen *ebiten.Image) {
	if sm.currentScene != nil {
		sm.currentScene.Draw(screen)
	}
}
