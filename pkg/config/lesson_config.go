package config

import (
	"fmt"
	"image/color"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// HexColor 以 "#RRGGBB" 形式写在配置文件里的颜色
type HexColor struct {
	color.RGBA
}

// UnmarshalYAML 解析十六进制颜色字符串
func (c *HexColor) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	s := strings.TrimPrefix(raw, "#")
	if len(s) != 6 {
		return fmt.Errorf("invalid color %q: expected #RRGGBB", raw)
	}
	var r, g, b uint8
	if _, err := fmt.Sscanf(s, "%02x%02x%02x", &r, &g, &b); err != nil {
		return fmt.Errorf("invalid color %q: %w", raw, err)
	}
	c.RGBA = color.RGBA{R: r, G: g, B: b, A: 255}
	return nil
}

// HighlightStyle 步骤高亮样式
// 驱动共享脉冲发光着色器的参数组
type HighlightStyle struct {
	BaseColor     HexColor `yaml:"baseColor"`     // 基础颜色
	GlowColor     HexColor `yaml:"glowColor"`     // 发光颜色
	BlinkSpeed    float64  `yaml:"blinkSpeed"`    // 闪烁速度（周期/秒），默认 2.0
	GlowIntensity float64  `yaml:"glowIntensity"` // 发光强度，默认 1.0
}

// StepConfig 单个装配步骤的声明式描述
// 一步对应一次必须完成的连接：把 Connector 拖到 Socket
type StepConfig struct {
	Target         string         `yaml:"target"`         // 高亮目标的符号名，运行时经注册表解析为场景节点
	Connector      string         `yaml:"connector"`      // 本步骤期望被拖拽的连接头符号名
	Socket         string         `yaml:"socket"`         // 连接头应吸附到的插座符号名
	Highlight      HighlightStyle `yaml:"highlight"`      // 高亮样式
	OnDragStart    Action         `yaml:"onDragStart"`    // 拖拽开始时执行的动作
	OnDragEnd      Action         `yaml:"onDragEnd"`      // 拖拽结束（未吸附）时执行的动作
	OnSnap         Action         `yaml:"onSnap"`         // 吸附成功时执行的动作
	Narration      string         `yaml:"narration"`      // 可选：步骤开始时播放的旁白音频名
	InstructionKey string         `yaml:"instructionKey"` // 可选：UI层指导文本键
}

// LessonConfig 课程配置：一节课的有序装配步骤表
type LessonConfig struct {
	ID         string       `yaml:"id"`         // 课程ID，如 "series-circuit-1"
	Name       string       `yaml:"name"`       // 课程名称
	SnapRadius float64      `yaml:"snapRadius"` // 吸附判定半径（世界单位），默认 1.0
	SnapDelay  float64      `yaml:"snapDelay"`  // 吸附成功后推进下一步前的停顿（秒），默认 0.6
	Steps      []StepConfig `yaml:"steps"`      // 步骤列表，按装配顺序排列

	CompleteNarration string `yaml:"completeNarration"` // 可选：全部步骤完成时播放的旁白音频名
	CompleteTextKey   string `yaml:"completeTextKey"`   // 可选：全部步骤完成时的UI文本键
}

// LessonTable 全部课程的配置表，加载一次后只读
type LessonTable struct {
	lessons []*LessonConfig
	byID    map[string]*LessonConfig
}

// LoadLessonConfig 从YAML文件加载单个课程配置
func LoadLessonConfig(filepath string) (*LessonConfig, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read lesson config file %s: %w", filepath, err)
	}
	cfg, err := parseLessonConfig(data)
	if err != nil {
		return nil, fmt.Errorf("invalid lesson config in %s: %w", filepath, err)
	}
	return cfg, nil
}

// LoadLessonTableFromFS 从嵌入文件系统加载目录下的全部课程配置
// 文件按名称排序，排序结果决定课程顺序
func LoadLessonTableFromFS(fsys fs.FS, dir string) (*LessonTable, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read lesson dir %s: %w", dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	table := &LessonTable{byID: make(map[string]*LessonConfig)}
	for _, name := range names {
		data, err := fs.ReadFile(fsys, path.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("failed to read lesson file %s: %w", name, err)
		}
		cfg, err := parseLessonConfig(data)
		if err != nil {
			return nil, fmt.Errorf("invalid lesson config in %s: %w", name, err)
		}
		if _, dup := table.byID[cfg.ID]; dup {
			return nil, fmt.Errorf("duplicate lesson id %q in %s", cfg.ID, name)
		}
		table.lessons = append(table.lessons, cfg)
		table.byID[cfg.ID] = cfg
	}

	if len(table.lessons) == 0 {
		return nil, fmt.Errorf("no lesson configs found in %s", dir)
	}
	return table, nil
}

// parseLessonConfig 解析 + 默认值 + 校验
func parseLessonConfig(data []byte) (*LessonConfig, error) {
	var cfg LessonConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse lesson config YAML: %w", err)
	}
	applyLessonDefaults(&cfg)
	if err := validateLessonConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyLessonDefaults 为缺失的可选字段设置默认值
func applyLessonDefaults(cfg *LessonConfig) {
	if cfg.SnapRadius == 0 {
		cfg.SnapRadius = 1.0
	}
	if cfg.SnapDelay == 0 {
		cfg.SnapDelay = 0.6
	}
	for i := range cfg.Steps {
		if cfg.Steps[i].Highlight.BlinkSpeed == 0 {
			cfg.Steps[i].Highlight.BlinkSpeed = 2.0
		}
		if cfg.Steps[i].Highlight.GlowIntensity == 0 {
			cfg.Steps[i].Highlight.GlowIntensity = 1.0
		}
	}
}

// validateLessonConfig 校验必填字段
func validateLessonConfig(cfg *LessonConfig) error {
	if cfg.ID == "" {
		return fmt.Errorf("lesson id is required")
	}
	if len(cfg.Steps) == 0 {
		return fmt.Errorf("lesson %q has no steps", cfg.ID)
	}
	for i, step := range cfg.Steps {
		if step.Target == "" {
			return fmt.Errorf("lesson %q step %d: target is required", cfg.ID, i)
		}
		if step.Connector == "" {
			return fmt.Errorf("lesson %q step %d: connector is required", cfg.ID, i)
		}
		if step.Socket == "" {
			return fmt.Errorf("lesson %q step %d: socket is required", cfg.ID, i)
		}
	}
	return nil
}

// Get 按课程ID查找配置
func (t *LessonTable) Get(lessonID string) (*LessonConfig, bool) {
	cfg, ok := t.byID[lessonID]
	return cfg, ok
}

// Lessons 按加载顺序返回全部课程
func (t *LessonTable) Lessons() []*LessonConfig {
	return t.lessons
}

// IsLast 判断给定课程是否为最后一课
func (t *LessonTable) IsLast(lessonID string) bool {
	if len(t.lessons) == 0 {
		return false
	}
	return t.lessons[len(t.lessons)-1].ID == lessonID
}

// Step 按课程ID和步骤序号取步骤配置
// 序号越界返回 false，调用方按软失败处理
func (t *LessonTable) Step(lessonID string, stepIndex int) (*StepConfig, bool) {
	cfg, ok := t.byID[lessonID]
	if !ok {
		return nil, false
	}
	if stepIndex < 0 || stepIndex >= len(cfg.Steps) {
		return nil, false
	}
	return &cfg.Steps[stepIndex], true
}
