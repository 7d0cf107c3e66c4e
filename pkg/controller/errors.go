package controller

import "errors"

// 控制器层的错误分类
// 全部是局部可恢复错误：单次调用失败的最坏结果是"请求的变更没有发生"，
// 控制器状态不会损坏，播放句柄不会泄漏
var (
	// ErrMissingPoseAnimations 请求切换的姿态在目录中没有候选剪辑
	// 本次切换中止，当前姿态与会话保持不变
	ErrMissingPoseAnimations = errors.New("controller: no animations for pose")

	// ErrUnknownActionKey 查询/播放不存在的动作键
	ErrUnknownActionKey = errors.New("controller: unknown action key")

	// ErrDestroyed 对已销毁的控制器发起变更请求
	ErrDestroyed = errors.New("controller: controller destroyed")
)
