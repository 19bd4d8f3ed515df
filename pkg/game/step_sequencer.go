package game

import (
	"log"

	"github.com/decker502/circuitlab/pkg/config"
)

// SequencerState 序列器状态
// 显式状态机取代布尔标志：课程切换通过代数比对让悬挂的
// 延迟回调确定性失效，而不是指望回调永远不触发
type SequencerState int

const (
	// StateIdle 未加载课程
	StateIdle SequencerState = iota
	// StateHighlighting 正在执行步骤开始链（旁白 → 指导文本 → 高亮）
	StateHighlighting
	// StateAwaitingSnap 等待学习者完成本步骤的连接
	StateAwaitingSnap
	// StateTransitioning 吸附已验证，停顿后推进到下一步骤
	StateTransitioning
)

// 序列器触达的UI按钮名
const (
	ButtonNextLesson = "next-lesson"
	ButtonBackToMenu = "back-to-menu"
)

// StepSequencer 步骤序列器
// 持有课程的有序步骤，只在连接通过几何验证后推进，
// 并按固定顺序串联旁白、指导文本与高亮副作用
type StepSequencer struct {
	ctx         *LessonContext
	highlighter Highlighter
	narrator    Narrator
	ui          UIHooks
	progress    *ProgressManager

	state SequencerState
	// snapValidated 当前步骤的吸附是否已验证，Advance 的前置条件
	snapValidated bool
	// transitionTimer 停顿计时（秒），StateTransitioning 下递减
	transitionTimer float64
	// pendingGen 发起异步链时的代数，回调比对后才继续
	pendingGen uint64
	// lessonComplete 当前课程是否已全部完成
	lessonComplete bool
}

// NewStepSequencer 创建步骤序列器并挂接旁白完成回调
func NewStepSequencer(ctx *LessonContext, highlighter Highlighter, narrator Narrator, ui UIHooks, progress *ProgressManager) *StepSequencer {
	seq := &StepSequencer{
		ctx:         ctx,
		highlighter: highlighter,
		narrator:    narrator,
		ui:          ui,
		progress:    progress,
		state:       StateIdle,
	}
	narrator.SetClipFinished(seq.onClipFinished)
	return seq
}

// State 返回当前状态（UI门控与测试用）
func (seq *StepSequencer) State() SequencerState {
	return seq.state
}

// GetCurrentStep 返回当前步骤序号
func (seq *StepSequencer) GetCurrentStep() int {
	return seq.ctx.StepIndex
}

// GetTotalSteps 返回当前课程的总步骤数
func (seq *StepSequencer) GetTotalSteps() int {
	cfg, ok := seq.ctx.Table.Get(seq.ctx.LessonID)
	if !ok {
		return 0
	}
	return len(cfg.Steps)
}

// IsLessonComplete 当前课程是否已完成全部步骤
func (seq *StepSequencer) IsLessonComplete() bool {
	return seq.lessonComplete
}

// StartLesson 加载并开始指定课程
// 切换课程会拆除旧高亮会话，并使所有悬挂的延迟回调失效；
// 进行中的拖拽在代数比对时自然失效
func (seq *StepSequencer) StartLesson(lessonID string) {
	if _, ok := seq.ctx.Table.Get(lessonID); !ok {
		log.Printf("[StepSequencer] Warning: unknown lesson %s", lessonID)
		return
	}

	seq.ctx.BumpGeneration()
	seq.highlighter.Cleanup()

	seq.ctx.LessonID = lessonID
	seq.ctx.StepIndex = 0
	seq.snapValidated = false
	seq.lessonComplete = false
	seq.ui.HideButton(ButtonNextLesson)

	log.Printf("[StepSequencer] Lesson %s started with %d steps", lessonID, seq.GetTotalSteps())
	seq.beginStep()
}

// NotifySnap 当前步骤的连接已通过几何验证
// 由拖拽系统的吸附事件回调触发。等待吸附与旁白播放中都接受：
// 拖拽系统只对当前步骤做验证且已提交连接，此时丢弃事件会让
// 连接头既不可再拖拽又永远推进不了。其余状态忽略
func (seq *StepSequencer) NotifySnap() {
	if seq.state != StateAwaitingSnap && seq.state != StateHighlighting {
		return
	}
	cfg, ok := seq.ctx.Table.Get(seq.ctx.LessonID)
	if !ok {
		return
	}

	seq.snapValidated = true
	seq.state = StateTransitioning
	seq.transitionTimer = cfg.SnapDelay
	seq.pendingGen = seq.ctx.Generation()
}

// Advance 推进到下一步骤
// 仅在刚完成步骤的吸附已验证时有效；过了最后一步触发课程完成副作用
func (seq *StepSequencer) Advance() {
	if !seq.snapValidated {
		log.Printf("[StepSequencer] Warning: Advance called without a validated snap, ignored")
		return
	}
	seq.snapValidated = false
	seq.ctx.StepIndex++
	seq.ctx.BumpGeneration()

	if seq.ctx.StepIndex >= seq.GetTotalSteps() {
		seq.completeLesson()
		return
	}
	seq.beginStep()
}

// Update 推进停顿计时
// 课程切换后残留的 Transitioning 计时因代数不匹配而失效
func (seq *StepSequencer) Update(dt float64) {
	if seq.state != StateTransitioning {
		return
	}
	if seq.pendingGen != seq.ctx.Generation() {
		// 课程已切换，该次推进作废
		seq.state = StateIdle
		return
	}

	seq.transitionTimer -= dt
	if seq.transitionTimer <= 0 {
		seq.Advance()
	}
}

// beginStep 执行步骤开始链：旁白 → 指导文本 → 高亮
// 有旁白时等播放完成再施加高亮，无旁白时立即施加
func (seq *StepSequencer) beginStep() {
	step, ok := seq.ctx.CurrentStep()
	if !ok {
		log.Printf("[StepSequencer] Warning: no step config for lesson %s step %d",
			seq.ctx.LessonID, seq.ctx.StepIndex)
		seq.state = StateIdle
		return
	}

	seq.state = StateHighlighting
	seq.pendingGen = seq.ctx.Generation()

	if step.Narration != "" {
		seq.narrator.PlayNamedClip(step.Narration)
		return
	}
	seq.revealStep(step)
}

// onClipFinished 旁白播放完成回调
// 代数不匹配说明课程或步骤已切换，回调自行失效
func (seq *StepSequencer) onClipFinished(name string) {
	if seq.state != StateHighlighting || seq.pendingGen != seq.ctx.Generation() {
		return
	}
	step, ok := seq.ctx.CurrentStep()
	if !ok || step.Narration != name {
		return
	}
	seq.revealStep(step)
}

// revealStep 显示指导文本并施加步骤高亮
// 目标无法解析时序列器停留在本步骤：学习者不能跳过未验证的连接
func (seq *StepSequencer) revealStep(step *config.StepConfig) {
	if step.InstructionKey != "" {
		seq.ui.SetInstructionText(step.InstructionKey)
	}

	if !seq.highlighter.ApplyStepHighlight(seq.ctx.LessonID, seq.ctx.StepIndex) {
		log.Printf("[StepSequencer] Warning: step %d target %s unresolved, lesson %s is stuck on this step",
			seq.ctx.StepIndex, step.Target, seq.ctx.LessonID)
	}
	seq.state = StateAwaitingSnap
}

// completeLesson 课程完成副作用链
func (seq *StepSequencer) completeLesson() {
	seq.lessonComplete = true
	seq.state = StateIdle
	seq.highlighter.Cleanup()

	cfg, _ := seq.ctx.Table.Get(seq.ctx.LessonID)
	if cfg != nil && cfg.CompleteNarration != "" {
		seq.narrator.PlayNamedClip(cfg.CompleteNarration)
	}
	if cfg != nil && cfg.CompleteTextKey != "" {
		seq.ui.SetInstructionText(cfg.CompleteTextKey)
	}

	if seq.ctx.Table.IsLast(seq.ctx.LessonID) {
		// 最后一课的最后一步：写入完成标记
		seq.progress.MarkCompleted(seq.ctx.LessonID)
		seq.ui.ShowButton(ButtonBackToMenu)
	} else {
		seq.ui.ShowButton(ButtonNextLesson)
	}

	log.Printf("[StepSequencer] Lesson %s completed", seq.ctx.LessonID)
}
