package clips

import (
	"fmt"
	"math/rand"
	"time"
)

// Selector 按权重随机选择剪辑
//
// 算法：随机数落在 [0, totalWeight)，按插入顺序累加各条目权重，
// 累积和首次超过随机数时返回该条目。权重 <= 0 的条目视为零宽区间，
// 永远不会被选中。
//
// 随机源可注入（NewSeededSelector），固定种子下选择结果完全确定，
// 便于单元测试
type Selector struct {
	rng *rand.Rand
}

// NewSelector 创建使用时间种子的选择器
func NewSelector() *Selector {
	return NewSeededSelector(time.Now().UnixNano())
}

// NewSeededSelector 创建使用固定种子的选择器（测试用）
func NewSeededSelector(seed int64) *Selector {
	return &Selector{rng: rand.New(rand.NewSource(seed))}
}

// Pick 从候选列表中按权重随机选择一个剪辑
// 列表为空或总权重为零时返回 ErrEmptyCandidateSet
func (s *Selector) Pick(list ClipList) (ClipDescriptor, error) {
	if len(list) == 0 {
		return ClipDescriptor{}, ErrEmptyCandidateSet
	}

	total := 0.0
	for _, d := range list {
		if d.Weight > 0 {
			total += d.Weight
		}
	}
	if total <= 0 {
		return ClipDescriptor{}, fmt.Errorf("%w: total weight is zero", ErrEmptyCandidateSet)
	}

	roll := s.rng.Float64() * total
	cumulative := 0.0
	for _, d := range list {
		if d.Weight <= 0 {
			continue
		}
		cumulative += d.Weight
		if cumulative > roll {
			return d, nil
		}
	}

	// 浮点累加误差的保险：返回最后一个正权重条目
	for i := len(list) - 1; i >= 0; i-- {
		if list[i].Weight > 0 {
			return list[i], nil
		}
	}
	return ClipDescriptor{}, ErrEmptyCandidateSet
}
