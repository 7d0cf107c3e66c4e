package clips

import "errors"

// 剪辑目录与选择器的错误分类
// 全部是局部可恢复错误：调用失败不会破坏目录状态
var (
	// ErrEmptyCandidateSet 对零条目（或总权重为零的）候选列表执行选择
	ErrEmptyCandidateSet = errors.New("clips: empty candidate set")

	// ErrInvalidClipList 用空列表或非法条目创建/替换目录项
	ErrInvalidClipList = errors.New("clips: invalid clip list")

	// ErrIndexOutOfRange 单条目替换时下标越界（或键不存在）
	ErrIndexOutOfRange = errors.New("clips: index out of range")
)
