package clips

import (
	"fmt"
	"sort"
)

// Catalog 键 → 候选剪辑列表的内存目录
//
// 姿态目录以姿态名为键，动作目录以任意字符串为键；两个目录实例
// 的键空间互不相干。目录操作只改变目录自身状态，绝不触碰已启动
// 的播放会话——条目替换只影响后续选择。
//
// 目录不加锁：每个角色的全部状态变更都串行在同一条逻辑控制流上
type Catalog struct {
	entries map[string]ClipList
}

// NewCatalog 创建空目录
func NewCatalog() *Catalog {
	return &Catalog{entries: make(map[string]ClipList)}
}

// Set 插入或整体替换一个键的候选列表
// 列表非法时返回 ErrInvalidClipList，目录保持不变
func (c *Catalog) Set(key string, list ClipList) error {
	if err := list.Validate(); err != nil {
		return fmt.Errorf("set %q: %w", key, err)
	}
	normalized := make(ClipList, len(list))
	for i, d := range list {
		normalized[i] = d.Normalized()
	}
	c.entries[key] = normalized
	return nil
}

// Get 返回键对应列表的副本；键不存在时返回 (nil, false)
func (c *Catalog) Get(key string) (ClipList, bool) {
	list, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	return list.Clone(), true
}

// Remove 删除一个键（键不存在时为无操作）
func (c *Catalog) Remove(key string) {
	delete(c.entries, key)
}

// ReplaceEntry 替换指定键的列表中单个下标处的条目
// 键不存在或下标越界时返回 ErrIndexOutOfRange；条目非法时返回
// ErrInvalidClipList。失败时目录保持不变
func (c *Catalog) ReplaceEntry(key string, index int, d ClipDescriptor) error {
	list, ok := c.entries[key]
	if !ok {
		return fmt.Errorf("replace %q[%d]: no such key: %w", key, index, ErrIndexOutOfRange)
	}
	if index < 0 || index >= len(list) {
		return fmt.Errorf("replace %q[%d]: list has %d entries: %w", key, index, len(list), ErrIndexOutOfRange)
	}
	if d.ID == "" {
		return fmt.Errorf("replace %q[%d]: empty clip id: %w", key, index, ErrInvalidClipList)
	}
	list[index] = d.Normalized()
	return nil
}

// SetMany 批量插入（键按字典序处理，保证失败点确定）
// 遇到第一个非法列表即停止，返回的错误中包含出错的键；
// 之前已处理的键保持写入后的状态
func (c *Catalog) SetMany(mapping map[string]ClipList) error {
	keys := make([]string, 0, len(mapping))
	for key := range mapping {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if err := c.Set(key, mapping[key]); err != nil {
			return err
		}
	}
	return nil
}

// Keys 返回目录中全部键（字典序）
func (c *Catalog) Keys() []string {
	keys := make([]string, 0, len(c.entries))
	for key := range c.entries {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Len 返回目录中的键数量
func (c *Catalog) Len() int {
	return len(c.entries)
}

// Clear 清空目录（controller 销毁时调用）
func (c *Catalog) Clear() {
	c.entries = make(map[string]ClipList)
}
