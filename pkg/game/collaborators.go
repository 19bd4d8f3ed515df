package game

// 外部协作方接口
// 音频播放、UI面板、资产加载都不属于交互引擎，
// 步骤序列器只通过这些接口触发副作用

// Narrator 旁白协作方
// 实现方在播放新片段前需隐式停止当前片段
type Narrator interface {
	// PlayNamedClip 播放命名旁白片段
	PlayNamedClip(name string)
	// SetClipFinished 注册片段播放完成回调（用于串联旁白与高亮）
	SetClipFinished(fn func(name string))
}

// UIHooks UI协作方：按钮可见性与指导文本由UI层持有
type UIHooks interface {
	ShowButton(name string)
	HideButton(name string)
	SetInstructionText(text string)
}

// Highlighter 高亮协作方
// 由高亮系统实现，序列器通过接口调用避免包循环依赖
type Highlighter interface {
	// ApplyStepHighlight 为指定课程步骤施加高亮
	// 目标无法解析时返回 false（已记录警告，不抛错）
	ApplyStepHighlight(lessonID string, stepIndex int) bool
	// Cleanup 还原全部被替换的材质并清空内部状态
	Cleanup()
}

// NopNarrator 空旁白实现，测试与无声模式使用
// 片段视为瞬时播放：PlayNamedClip 同步触发完成回调，
// 与 NarrationManager 无声模式的行为一致，步骤链不会停在旁白上
type NopNarrator struct {
	onFinished func(name string)
}

func (n *NopNarrator) PlayNamedClip(name string) {
	if n.onFinished != nil {
		n.onFinished(name)
	}
}

func (n *NopNarrator) SetClipFinished(fn func(name string)) {
	n.onFinished = fn
}

// NopUIHooks 空UI实现
type NopUIHooks struct{}

func (NopUIHooks) ShowButton(string)         {}
func (NopUIHooks) HideButton(string)         {}
func (NopUIHooks) SetInstructionText(string) {}
