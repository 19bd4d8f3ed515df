package game

import (
	"testing"
	"testing/fstest"

	"github.com/decker502/circuitlab/pkg/config"
	"github.com/decker502/circuitlab/pkg/scene"
)

// fakeHighlighter 记录调用的高亮桩
type fakeHighlighter struct {
	applied  [][2]interface{} // (lessonID, stepIndex) 调用记录
	cleanups int
	// failAll 为 true 时 ApplyStepHighlight 模拟目标无法解析
	failAll bool
}

func (f *fakeHighlighter) ApplyStepHighlight(lessonID string, stepIndex int) bool {
	f.applied = append(f.applied, [2]interface{}{lessonID, stepIndex})
	return !f.failAll
}

func (f *fakeHighlighter) Cleanup() {
	f.cleanups++
}

// fakeNarrator 手动触发完成回调的旁白桩
type fakeNarrator struct {
	played []string
	cb     func(string)
}

func (f *fakeNarrator) PlayNamedClip(name string)       { f.played = append(f.played, name) }
func (f *fakeNarrator) SetClipFinished(fn func(string)) { f.cb = fn }
func (f *fakeNarrator) finish(name string) {
	if f.cb != nil {
		f.cb(name)
	}
}

// fakeUI 记录调用的UI桩
type fakeUI struct {
	texts  []string
	shown  []string
	hidden []string
}

func (f *fakeUI) ShowButton(name string)         { f.shown = append(f.shown, name) }
func (f *fakeUI) HideButton(name string)         { f.hidden = append(f.hidden, name) }
func (f *fakeUI) SetInstructionText(text string) { f.texts = append(f.texts, text) }

// newTestSequencer 按课程YAML搭建序列器夹具
func newTestSequencer(t *testing.T, lessonYAMLs map[string]string) (*StepSequencer, *LessonContext, *fakeHighlighter, *fakeNarrator, *fakeUI, *ProgressManager) {
	t.Helper()

	fsys := fstest.MapFS{}
	for name, content := range lessonYAMLs {
		fsys["lessons/"+name] = &fstest.MapFile{Data: []byte(content)}
	}
	table, err := config.LoadLessonTableFromFS(fsys, "lessons")
	if err != nil {
		t.Fatalf("Failed to load test lessons: %v", err)
	}

	ctx := NewLessonContext(table, scene.NewRegistry(), &scene.Camera{})
	highlighter := &fakeHighlighter{}
	narrator := &fakeNarrator{}
	ui := &fakeUI{}
	progress, _ := NewProgressManager(nil)

	seq := NewStepSequencer(ctx, highlighter, narrator, ui, progress)
	return seq, ctx, highlighter, narrator, ui, progress
}

const plainLessonYAML = `id: p1
name: plain
snapDelay: 0.5
steps:
  - target: "t0"
    connector: "c0"
    socket: "s0"
    instructionKey: "INSTRUCTION_STEP0"
  - target: "t1"
    connector: "c1"
    socket: "s1"
`

const narratedLessonYAML = `id: n1
name: narrated
completeNarration: "CLIP_DONE"
completeTextKey: "TEXT_DONE"
steps:
  - target: "t0"
    connector: "c0"
    socket: "s0"
    narration: "CLIP_STEP0"
    instructionKey: "INSTRUCTION_STEP0"
`

// TestStartLessonImmediateHighlight 无旁白步骤：开始课程立即
// 显示指导文本并施加高亮，进入等待吸附状态
func TestStartLessonImmediateHighlight(t *testing.T) {
	seq, _, highlighter, _, ui, _ := newTestSequencer(t, map[string]string{"p1.yaml": plainLessonYAML})

	seq.StartLesson("p1")

	if seq.State() != StateAwaitingSnap {
		t.Errorf("Expected StateAwaitingSnap, got %v", seq.State())
	}
	if len(highlighter.applied) != 1 || highlighter.applied[0][1] != 0 {
		t.Errorf("Expected highlight applied for step 0, got %v", highlighter.applied)
	}
	if len(ui.texts) != 1 || ui.texts[0] != "INSTRUCTION_STEP0" {
		t.Errorf("Expected instruction text set, got %v", ui.texts)
	}
	if seq.GetTotalSteps() != 2 {
		t.Errorf("Expected 2 total steps, got %d", seq.GetTotalSteps())
	}
}

// TestNarrationChain 有旁白步骤：高亮等旁白播完才施加
func TestNarrationChain(t *testing.T) {
	seq, _, highlighter, narrator, _, _ := newTestSequencer(t, map[string]string{"n1.yaml": narratedLessonYAML})

	seq.StartLesson("n1")

	if len(narrator.played) != 1 || narrator.played[0] != "CLIP_STEP0" {
		t.Fatalf("Expected CLIP_STEP0 played, got %v", narrator.played)
	}
	if seq.State() != StateHighlighting {
		t.Errorf("Expected StateHighlighting while clip plays, got %v", seq.State())
	}
	if len(highlighter.applied) != 0 {
		t.Error("Expected highlight deferred until clip finishes")
	}

	narrator.finish("CLIP_STEP0")

	if seq.State() != StateAwaitingSnap {
		t.Errorf("Expected StateAwaitingSnap after clip, got %v", seq.State())
	}
	if len(highlighter.applied) != 1 {
		t.Errorf("Expected highlight applied after clip, got %v", highlighter.applied)
	}
}

// TestNopNarratorRunsChain 无声旁白下有旁白的步骤不被卡住：
// 片段立即按完成处理，高亮照常施加
func TestNopNarratorRunsChain(t *testing.T) {
	fsys := fstest.MapFS{
		"lessons/n1.yaml": &fstest.MapFile{Data: []byte(narratedLessonYAML)},
	}
	table, err := config.LoadLessonTableFromFS(fsys, "lessons")
	if err != nil {
		t.Fatalf("Failed to load test lessons: %v", err)
	}

	ctx := NewLessonContext(table, scene.NewRegistry(), &scene.Camera{})
	highlighter := &fakeHighlighter{}
	progress, _ := NewProgressManager(nil)
	seq := NewStepSequencer(ctx, highlighter, &NopNarrator{}, NopUIHooks{}, progress)

	seq.StartLesson("n1")

	if seq.State() != StateAwaitingSnap {
		t.Errorf("Expected StateAwaitingSnap with silent narrator, got %v", seq.State())
	}
	if len(highlighter.applied) != 1 {
		t.Errorf("Expected highlight applied for step 0, got %v", highlighter.applied)
	}
}

// TestSnapDuringNarration 旁白播放途中完成的有效连接同样被接受：
// 拖拽系统已提交连接，丢弃事件会让课程永远卡死
func TestSnapDuringNarration(t *testing.T) {
	seq, _, highlighter, narrator, _, _ := newTestSequencer(t, map[string]string{"n1.yaml": narratedLessonYAML})
	seq.StartLesson("n1")

	if seq.State() != StateHighlighting {
		t.Fatalf("Expected StateHighlighting while clip plays, got %v", seq.State())
	}

	seq.NotifySnap()
	if seq.State() != StateTransitioning {
		t.Fatalf("Expected StateTransitioning after mid-narration snap, got %v", seq.State())
	}

	// 迟到的片段完成回调失效，不再施加已解决步骤的高亮
	narrator.finish("CLIP_STEP0")
	if len(highlighter.applied) != 0 {
		t.Errorf("Expected no highlight after the step resolved, got %v", highlighter.applied)
	}

	seq.Update(1.0)
	if !seq.IsLessonComplete() {
		t.Error("Expected single-step lesson to complete")
	}
}

// TestStaleClipCallbackIgnored 课程切换后，旧片段的完成回调失效
func TestStaleClipCallbackIgnored(t *testing.T) {
	seq, _, highlighter, narrator, _, _ := newTestSequencer(t, map[string]string{
		"n1.yaml": narratedLessonYAML,
		"p1.yaml": plainLessonYAML,
	})

	seq.StartLesson("n1")
	seq.StartLesson("p1") // 切换：p1 无旁白，立即高亮

	applied := len(highlighter.applied)

	// 旧课程片段的迟到完成回调必须是空操作
	narrator.finish("CLIP_STEP0")

	if len(highlighter.applied) != applied {
		t.Error("Expected stale clip callback to be a no-op")
	}
	if seq.ctx.LessonID != "p1" || seq.GetCurrentStep() != 0 {
		t.Errorf("Expected p1 step 0, got %s step %d", seq.ctx.LessonID, seq.GetCurrentStep())
	}
}

// TestAdvanceGatedOnSnap 吸附未验证时 Advance 无效
func TestAdvanceGatedOnSnap(t *testing.T) {
	seq, _, _, _, _, _ := newTestSequencer(t, map[string]string{"p1.yaml": plainLessonYAML})
	seq.StartLesson("p1")

	seq.Advance()
	if seq.GetCurrentStep() != 0 {
		t.Errorf("Expected step unchanged without validated snap, got %d", seq.GetCurrentStep())
	}

	seq.NotifySnap()
	seq.Advance()
	if seq.GetCurrentStep() != 1 {
		t.Errorf("Expected step 1 after validated snap, got %d", seq.GetCurrentStep())
	}
}

// TestSnapDelayBeforeAdvance 吸附后经过配置的停顿才推进
func TestSnapDelayBeforeAdvance(t *testing.T) {
	seq, _, _, _, _, _ := newTestSequencer(t, map[string]string{"p1.yaml": plainLessonYAML})
	seq.StartLesson("p1")

	seq.NotifySnap()
	if seq.State() != StateTransitioning {
		t.Fatalf("Expected StateTransitioning, got %v", seq.State())
	}

	seq.Update(0.3) // 停顿 0.5 秒未走完
	if seq.GetCurrentStep() != 0 {
		t.Errorf("Expected no advance before delay elapses, got step %d", seq.GetCurrentStep())
	}

	seq.Update(0.3)
	if seq.GetCurrentStep() != 1 {
		t.Errorf("Expected advance after delay, got step %d", seq.GetCurrentStep())
	}
	if seq.State() != StateAwaitingSnap {
		t.Errorf("Expected StateAwaitingSnap on new step, got %v", seq.State())
	}
}

// TestLessonSwitchInvalidatesPendingTransition 停顿期间切换课程，
// 悬挂的推进计时确定性失效
func TestLessonSwitchInvalidatesPendingTransition(t *testing.T) {
	seq, _, _, _, _, _ := newTestSequencer(t, map[string]string{
		"p1.yaml": plainLessonYAML,
		"n1.yaml": narratedLessonYAML,
	})

	seq.StartLesson("p1")
	seq.NotifySnap()

	seq.StartLesson("n1")
	// 残留计时此时已因代数不匹配失效；n1 正在播放旁白
	seq.Update(10)

	if seq.ctx.LessonID != "n1" {
		t.Errorf("Expected lesson n1, got %s", seq.ctx.LessonID)
	}
	if seq.GetCurrentStep() != 0 {
		t.Errorf("Expected n1 to stay on step 0, got %d", seq.GetCurrentStep())
	}
}

// TestStuckOnUnresolvableTarget 目标无法解析时序列器停在该步骤，
// 只警告不推进
func TestStuckOnUnresolvableTarget(t *testing.T) {
	seq, _, highlighter, _, _, _ := newTestSequencer(t, map[string]string{"p1.yaml": plainLessonYAML})
	highlighter.failAll = true

	seq.StartLesson("p1")

	// 高亮失败但仍然等待吸附：学习者不能跳过未验证的连接
	if seq.State() != StateAwaitingSnap {
		t.Errorf("Expected StateAwaitingSnap, got %v", seq.State())
	}
	if seq.GetCurrentStep() != 0 {
		t.Errorf("Expected stuck on step 0, got %d", seq.GetCurrentStep())
	}
}

// TestLessonCompleteFinal 最后一课完成：写入完成标记、播放完成
// 旁白、显示返回按钮
func TestLessonCompleteFinal(t *testing.T) {
	seq, _, highlighter, narrator, ui, progress := newTestSequencer(t, map[string]string{"n1.yaml": narratedLessonYAML})

	seq.StartLesson("n1")
	narrator.finish("CLIP_STEP0")

	seq.NotifySnap()
	seq.Update(1.0)

	if !seq.IsLessonComplete() {
		t.Fatal("Expected lesson complete")
	}
	if !progress.IsCompleted("n1") {
		t.Error("Expected final lesson marked completed")
	}
	if highlighter.cleanups == 0 {
		t.Error("Expected highlight cleanup on completion")
	}

	foundClip := false
	for _, clip := range narrator.played {
		if clip == "CLIP_DONE" {
			foundClip = true
		}
	}
	if !foundClip {
		t.Errorf("Expected completion narration, played %v", narrator.played)
	}

	foundButton := false
	for _, b := range ui.shown {
		if b == ButtonBackToMenu {
			foundButton = true
		}
	}
	if !foundButton {
		t.Errorf("Expected back-to-menu button, shown %v", ui.shown)
	}
}

// TestLessonCompleteNonFinal 非最后一课完成：不写完成标记，
// 显示下一课按钮
func TestLessonCompleteNonFinal(t *testing.T) {
	seq, _, _, _, ui, progress := newTestSequencer(t, map[string]string{
		"a_first.yaml": narratedLessonYAML,
		"b_last.yaml":  plainLessonYAML,
	})

	seq.StartLesson("n1") // n1 排在 p1 前（文件名排序）

	// 完成唯一步骤
	nar := seq.narrator.(*fakeNarrator)
	nar.finish("CLIP_STEP0")
	seq.NotifySnap()
	seq.Update(1.0)

	if progress.IsCompleted("n1") {
		t.Error("Expected non-final lesson to not write the completion flag")
	}

	foundNext := false
	for _, b := range ui.shown {
		if b == ButtonNextLesson {
			foundNext = true
		}
	}
	if !foundNext {
		t.Errorf("Expected next-lesson button, shown %v", ui.shown)
	}
}

// TestStartUnknownLesson 未知课程ID：警告并保持原状
func TestStartUnknownLesson(t *testing.T) {
	seq, ctx, highlighter, _, _, _ := newTestSequencer(t, map[string]string{"p1.yaml": plainLessonYAML})

	seq.StartLesson("nope")

	if ctx.LessonID != "" {
		t.Errorf("Expected no lesson loaded, got %s", ctx.LessonID)
	}
	if len(highlighter.applied) != 0 {
		t.Error("Expected no highlight for unknown lesson")
	}
}
