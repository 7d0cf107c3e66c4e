// Package clips 实现候选动画剪辑的元数据、目录和按权重随机选择
//
// 姿态控制器和动作控制器各自持有一个独立的 Catalog 实例（键空间互不相干），
// 并共用同一套加权选择算法（Selector）
package clips

import "fmt"

// 剪辑元数据的默认值
const (
	// DefaultWeight 默认选择权重
	DefaultWeight = 10.0
	// DefaultSpeed 默认速度倍率
	DefaultSpeed = 1.0
	// DefaultFadeIn 默认淡入时长（秒）
	DefaultFadeIn = 0.1
)

// ClipDescriptor 单个候选动画剪辑的元数据
//
// 字段零值视为"未指定"，写入目录时由 Normalized 补齐默认值。
// 权重显式写成负数的条目保留在列表中但永远不会被选中（零宽区间）。
// 描述符一旦被选中用于启动会话即不再变化；目录条目可以随时替换，
// 替换只影响后续选择
type ClipDescriptor struct {
	// ID 外部播放服务识别的资源引用
	ID string `yaml:"id"`

	// Weight 选择权重（默认 10）
	Weight float64 `yaml:"weight,omitempty"`

	// Speed 播放速度倍率（默认 1）
	Speed float64 `yaml:"speed,omitempty"`

	// FadeIn 淡入时长（秒，默认 0.1）
	FadeIn float64 `yaml:"fadeIn,omitempty"`

	// FadeOut 淡出时长（秒，可选；未指定时复用 FadeIn）
	FadeOut float64 `yaml:"fadeOut,omitempty"`

	// Looped 是否循环播放
	// 姿态动画的循环与否由姿态本身决定，此字段主要供动作动画使用
	Looped bool `yaml:"looped,omitempty"`
}

// Normalized 返回补齐默认值后的副本
// Weight == 0 视为未指定（补为 DefaultWeight）；显式负权重原样保留
func (d ClipDescriptor) Normalized() ClipDescriptor {
	if d.Weight == 0 {
		d.Weight = DefaultWeight
	}
	if d.Speed <= 0 {
		d.Speed = DefaultSpeed
	}
	if d.FadeIn <= 0 {
		d.FadeIn = DefaultFadeIn
	}
	return d
}

// ClipList 有序的候选剪辑列表（保持插入顺序）
type ClipList []ClipDescriptor

// Validate 检查列表是否可以写入目录
// 空列表和缺少资源 ID 的条目均视为非法
func (l ClipList) Validate() error {
	if len(l) == 0 {
		return fmt.Errorf("%w: list is empty", ErrInvalidClipList)
	}
	for i, d := range l {
		if d.ID == "" {
			return fmt.Errorf("%w: entry %d has empty clip id", ErrInvalidClipList, i)
		}
	}
	return nil
}

// Clone 返回列表的副本，避免调用方共享目录内部切片
func (l ClipList) Clone() ClipList {
	if l == nil {
		return nil
	}
	out := make(ClipList, len(l))
	copy(out, l)
	return out
}
