package config

import (
	"fmt"
	"io/fs"

	"gopkg.in/yaml.v3"
)

// StringTable 界面文本表：文本key -> 显示文本
// 步骤配置与标签组件只携带key，渲染层查表取文本
type StringTable map[string]string

// Lookup 查表取文本，缺失时原样返回key
// 文本缺失不是致命错误，显示key本身便于排查
func (st StringTable) Lookup(key string) string {
	if text, ok := st[key]; ok {
		return text
	}
	return key
}

// LoadStringTableFromFS 从文件系统加载界面文本表
func LoadStringTableFromFS(fsys fs.FS, path string) (StringTable, error) {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read string table %s: %w", path, err)
	}

	table := StringTable{}
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("failed to parse string table %s: %w", path, err)
	}
	return table, nil
}
