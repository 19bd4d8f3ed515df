// Package app 提供应用的核心包装器
//
// 该包把初始化逻辑从 main 包提取出来：装配课程表、进度存储、
// 旁白播放与场景管理器，并实现 ebiten.Game 接口。
package app

import (
	"fmt"
	"io"
	"io/fs"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/quasilyte/gdata/v2"

	"github.com/decker502/circuitlab/pkg/config"
	"github.com/decker502/circuitlab/pkg/game"
	"github.com/decker502/circuitlab/pkg/scenes"
)

// 资产文件系统内的固定路径
const (
	lessonsDir      = "assets/lessons"
	stringsPath     = "assets/strings.yaml"
	narrationDir    = "assets/narration"
	progressAppName = "circuitlab"
)

// Config 定义应用启动配置
type Config struct {
	// Verbose 启用详细日志输出
	Verbose bool
	// Lesson 指定启动时直接进入的课程ID，为空则进入课程清单
	Lesson string
}

// App 是应用的核心包装器，实现 ebiten.Game 接口
type App struct {
	sceneManager *game.SceneManager
	narration    *game.NarrationManager
	verbose      bool
}

// NewApp 创建并初始化应用
// assets 为嵌入的资产文件系统（课程、文本、旁白音频）
func NewApp(cfg Config, assets fs.FS) (*App, error) {
	if !cfg.Verbose {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	}

	table, err := config.LoadLessonTableFromFS(assets, lessonsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load lesson table: %w", err)
	}
	log.Printf("[App] Loaded %d lessons", len(table.Lessons()))

	strings, err := config.LoadStringTableFromFS(assets, stringsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load string table: %w", err)
	}

	// 进度存储不可用时降级为内存模式，应用照常运行
	gdataManager, err := gdata.Open(gdata.Config{AppName: progressAppName})
	if err != nil {
		log.Printf("[App] Warning: progress storage unavailable: %v", err)
		gdataManager = nil
	}
	progress, err := game.NewProgressManager(gdataManager)
	if err != nil {
		return nil, fmt.Errorf("failed to create progress manager: %w", err)
	}

	audioContext := audio.NewContext(48000)
	narration := game.NewNarrationManager(audioContext, assets, narrationDir)

	sceneManager := game.NewSceneManager()
	sceneManager.SetSceneFactory(func(lessonID string) game.Scene {
		return scenes.NewLessonScene(lessonID, table, sceneManager, narration, progress, strings)
	})

	if cfg.Lesson != "" {
		log.Printf("[App] Starting directly at lesson %s", cfg.Lesson)
		sceneManager.LoadLesson(cfg.Lesson)
	} else {
		sceneManager.SwitchTo(scenes.NewMenuScene(table, sceneManager, progress, strings))
	}

	return &App{
		sceneManager: sceneManager,
		narration:    narration,
		verbose:      cfg.Verbose,
	}, nil
}

// Update 更新应用逻辑
// 每个 tick 调用一次（通常每秒 60 次）
func (a *App) Update() error {
	// F11 切换全屏
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		ebiten.SetFullscreen(!ebiten.IsFullscreen())
	}

	a.narration.Update()

	deltaTime := 1.0 / 60.0
	a.sceneManager.Update(deltaTime)
	return nil
}

// Draw 绘制当前场景
func (a *App) Draw(screen *ebiten.Image) {
	a.sceneManager.Draw(screen)
}

// Layout 返回逻辑屏幕尺寸，实际窗口缩放由 Ebitengine 处理
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return scenes.WindowWidth, scenes.WindowHeight
}

// GetSceneManager 返回场景管理器
func (a *App) GetSceneManager() *game.SceneManager {
	return a.sceneManager
}
