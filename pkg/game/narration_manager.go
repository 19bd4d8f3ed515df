package game

import (
	"bytes"
	"fmt"
	"io/fs"
	"log"
	"path"
	"strings"

	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/audio/mp3"
	"github.com/hajimehoshi/ebiten/v2/audio/vorbis"
)

// NarrationManager 旁白播放管理器，实现 Narrator 接口
// 职责：
//   - 按片段名加载并缓存播放器
//   - 播放新片段前停止当前片段
//   - 轮询播放完成并触发回调，供序列器串联旁白与高亮
//
// 片段名到文件的约定：<dir>/<name>.mp3 或 <dir>/<name>.ogg
type NarrationManager struct {
	audioContext *audio.Context
	fsys         fs.FS
	dir          string
	players      map[string]*audio.Player // 片段名 -> 播放器缓存
	currentName  string                   // 当前播放片段名，空串表示无播放
	onFinished   func(name string)
}

// NewNarrationManager 创建旁白管理器
// audioContext 可为 nil（无声模式，播放调用直接视为立即完成）
func NewNarrationManager(audioContext *audio.Context, fsys fs.FS, dir string) *NarrationManager {
	return &NarrationManager{
		audioContext: audioContext,
		fsys:         fsys,
		dir:          dir,
		players:      make(map[string]*audio.Player),
	}
}

// SetClipFinished 注册片段播放完成回调
func (nm *NarrationManager) SetClipFinished(fn func(name string)) {
	nm.onFinished = fn
}

// PlayNamedClip 播放命名旁白片段
// 当前有片段在播时先停止；加载失败记录警告并立即按播放完成处理，
// 保证教学流程不被缺失的音频卡住
func (nm *NarrationManager) PlayNamedClip(name string) {
	nm.stopCurrent()

	if nm.audioContext == nil {
		nm.finish(name)
		return
	}

	player, err := nm.loadPlayer(name)
	if err != nil {
		log.Printf("[NarrationManager] Warning: failed to load clip %s: %v", name, err)
		nm.finish(name)
		return
	}

	if err := player.Rewind(); err != nil {
		log.Printf("[NarrationManager] Warning: failed to rewind clip %s: %v", name, err)
	}
	player.Play()
	nm.currentName = name
}

// Update 每帧轮询：当前片段播完时触发完成回调
func (nm *NarrationManager) Update() {
	if nm.currentName == "" {
		return
	}
	player := nm.players[nm.currentName]
	if player != nil && player.IsPlaying() {
		return
	}
	name := nm.currentName
	nm.currentName = ""
	nm.finish(name)
}

// stopCurrent 停止当前播放的片段（隐式停止约定）
func (nm *NarrationManager) stopCurrent() {
	if nm.currentName == "" {
		return
	}
	if player := nm.players[nm.currentName]; player != nil {
		player.Pause()
	}
	nm.currentName = ""
}

// finish 触发完成回调
func (nm *NarrationManager) finish(name string) {
	if nm.onFinished != nil {
		nm.onFinished(name)
	}
}

// loadPlayer 加载并缓存片段播放器，按扩展名选择解码器
func (nm *NarrationManager) loadPlayer(name string) (*audio.Player, error) {
	if player, ok := nm.players[name]; ok {
		return player, nil
	}

	var data []byte
	var ext string
	for _, candidate := range []string{".mp3", ".ogg"} {
		b, err := fs.ReadFile(nm.fsys, path.Join(nm.dir, strings.ToLower(name)+candidate))
		if err == nil {
			data, ext = b, candidate
			break
		}
	}
	if data == nil {
		return nil, fmt.Errorf("clip file not found for %s", name)
	}

	reader := bytes.NewReader(data)
	var player *audio.Player
	switch ext {
	case ".mp3":
		stream, err := mp3.DecodeWithoutResampling(reader)
		if err != nil {
			return nil, fmt.Errorf("failed to decode mp3 %s: %w", name, err)
		}
		p, err := nm.audioContext.NewPlayer(stream)
		if err != nil {
			return nil, fmt.Errorf("failed to create player for %s: %w", name, err)
		}
		player = p
	case ".ogg":
		stream, err := vorbis.DecodeWithoutResampling(reader)
		if err != nil {
			return nil, fmt.Errorf("failed to decode ogg %s: %w", name, err)
		}
		p, err := nm.audioContext.NewPlayer(stream)
		if err != nil {
			return nil, fmt.Errorf("failed to create player for %s: %w", name, err)
		}
		player = p
	}

	nm.players[name] = player
	return player, nil
}
