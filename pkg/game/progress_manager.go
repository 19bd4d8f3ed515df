package game

import (
	"fmt"
	"log"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// ProgressData 课程完成进度
type ProgressData struct {
	CompletedLessons []string `yaml:"completedLessons"` // 已完成课程key列表
}

// 存储路径常量
const (
	progressObject   = "progress"
	progressProperty = "lessons"
)

// ProgressManager 进度管理器
// 负责课程完成标记的加载与持久化
// gdataManager 可为 nil（降级模式，仅内存记录）
type ProgressManager struct {
	gdataManager *gdata.Manager
	completed    map[string]bool
}

// NewProgressManager 创建进度管理器并加载已保存的进度
func NewProgressManager(gdataManager *gdata.Manager) (*ProgressManager, error) {
	pm := &ProgressManager{
		gdataManager: gdataManager,
		completed:    make(map[string]bool),
	}
	if err := pm.load(); err != nil {
		log.Printf("[ProgressManager] Warning: failed to load progress: %v", err)
	}
	return pm, nil
}

// load 从 gdata 加载进度，文件不存在时保持空进度
func (pm *ProgressManager) load() error {
	if pm.gdataManager == nil {
		return nil
	}
	if !pm.gdataManager.ObjectPropExists(progressObject, progressProperty) {
		return nil
	}

	data, err := pm.gdataManager.LoadObjectProp(progressObject, progressProperty)
	if err != nil {
		return fmt.Errorf("failed to load progress: %w", err)
	}

	var loaded ProgressData
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return fmt.Errorf("failed to unmarshal progress: %w", err)
	}
	for _, key := range loaded.CompletedLessons {
		pm.completed[key] = true
	}
	return nil
}

// save 持久化进度到 gdata
func (pm *ProgressManager) save() error {
	if pm.gdataManager == nil {
		return nil
	}

	progress := ProgressData{}
	for key := range pm.completed {
		progress.CompletedLessons = append(progress.CompletedLessons, key)
	}

	data, err := yaml.Marshal(&progress)
	if err != nil {
		return fmt.Errorf("failed to marshal progress: %w", err)
	}
	if err := pm.gdataManager.SaveObjectProp(progressObject, progressProperty, data); err != nil {
		return fmt.Errorf("failed to save progress: %w", err)
	}
	return nil
}

// MarkCompleted 标记课程完成并持久化
// 最后一课的最后一步完成时由序列器调用一次
func (pm *ProgressManager) MarkCompleted(key string) {
	if pm.completed[key] {
		return
	}
	pm.completed[key] = true
	if err := pm.save(); err != nil {
		log.Printf("[ProgressManager] Warning: failed to save progress: %v", err)
		return
	}
	log.Printf("[ProgressManager] Lesson %s marked completed", key)
}

// IsCompleted 查询课程是否已完成
func (pm *ProgressManager) IsCompleted(key string) bool {
	return pm.completed[key]
}
