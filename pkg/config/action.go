package config

import (
	"fmt"
	"regexp"

	"gopkg.in/yaml.v3"
)

// ActionKind 步骤动作类别
// 配置文件中的动作词汇表是封闭的，解析后以带标签的变体形式存储，
// 执行端对 Kind 做穷举分支，不允许默认分支兜底
type ActionKind int

const (
	// ActionNone 无动作
	ActionNone ActionKind = iota
	// ActionRemoveFrom 将高亮从 Source 指定的目标上移除
	ActionRemoveFrom
	// ActionRemoveAndApply 将高亮从 Source 移除并立即施加到 Dest
	ActionRemoveAndApply
	// ActionApplyToDragged 将高亮施加到当前被拖拽的连接头
	ActionApplyToDragged
)

// Action 步骤动作：类别 + 类型化的源/目标标识
type Action struct {
	Kind   ActionKind // 动作类别
	Source string     // 源目标符号名（ActionRemoveFrom / ActionRemoveAndApply）
	Dest   string     // 目的目标符号名（ActionRemoveAndApply）
}

// 配置文件动作语法：
//
//	none
//	apply-to(dragged)
//	remove-from(X)
//	remove-from(X)-and-apply-to(Y)
var (
	removeAndApplyRe = regexp.MustCompile(`^remove-from\(([^()]+)\)-and-apply-to\(([^()]+)\)$`)
	removeFromRe     = regexp.MustCompile(`^remove-from\(([^()]+)\)$`)
)

// ParseAction 解析动作字符串
// 词汇表之外的字符串视为配置错误，在加载期报错而不是运行期忽略
func ParseAction(s string) (Action, error) {
	switch s {
	case "", "none":
		return Action{Kind: ActionNone}, nil
	case "apply-to(dragged)":
		return Action{Kind: ActionApplyToDragged}, nil
	}

	if m := removeAndApplyRe.FindStringSubmatch(s); m != nil {
		return Action{Kind: ActionRemoveAndApply, Source: m[1], Dest: m[2]}, nil
	}
	if m := removeFromRe.FindStringSubmatch(s); m != nil {
		return Action{Kind: ActionRemoveFrom, Source: m[1]}, nil
	}

	return Action{}, fmt.Errorf("unknown action %q", s)
}

// String 还原为配置文件语法（日志与调试输出用）
func (a Action) String() string {
	switch a.Kind {
	case ActionNone:
		return "none"
	case ActionRemoveFrom:
		return fmt.Sprintf("remove-from(%s)", a.Source)
	case ActionRemoveAndApply:
		return fmt.Sprintf("remove-from(%s)-and-apply-to(%s)", a.Source, a.Dest)
	case ActionApplyToDragged:
		return "apply-to(dragged)"
	}
	return fmt.Sprintf("invalid(%d)", a.Kind)
}

// UnmarshalYAML 支持在步骤配置中直接写动作字符串
func (a *Action) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := ParseAction(raw)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
