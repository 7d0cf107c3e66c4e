// Package player 定义外部动画播放服务的接口，并实现播放会话的
// 生命周期管理（创建 → 播放 → 停止/被取代/完成）
package player

// Handle 外部播放服务返回的单个播放句柄
//
// 句柄由 Session 独占持有；Stop 最多被调用一次（会话层保证），
// 对应外部资源的释放
type Handle interface {
	// Stop 以给定淡出时长停止播放；fadeSeconds == 0 为瞬时切断
	Stop(fadeSeconds float64)

	// AdjustSpeed 调整播放速度倍率
	AdjustSpeed(multiplier float64)

	// AdjustWeight 调整混合权重
	AdjustWeight(weight float64)

	// OnFinished 注册播放完成回调
	// 仅非循环播放会触发，且最多触发一次；循环播放永不触发
	OnFinished(fn func())
}

// Player 外部动画播放服务
// 从核心的视角看 LoadAndStart 是同步调用：剪辑资源的加载延迟由
// 外部的预加载协作方负责
type Player interface {
	// LoadAndStart 加载并立即开始播放一个剪辑，返回其播放句柄
	LoadAndStart(clipID string, looped bool, priority int) (Handle, error)
}
