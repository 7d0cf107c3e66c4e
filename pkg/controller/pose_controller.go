// Package controller 实现角色动画控制核心：姿态状态机（PoseController）、
// 运动信号到姿态的映射（Connections）、独立的动作动画（ActionController），
// 以及按角色聚合三者的 Animator 与进程级 Registry
package controller

import (
	"fmt"
	"log"

	"github.com/gonewx/charanim/pkg/clips"
	"github.com/gonewx/charanim/pkg/player"
	"github.com/gonewx/charanim/pkg/types"
)

// 姿态动画的播放优先级（低于动作动画，动作总是盖在姿态之上）
const posePlaybackPriority = 0

// PoseChangedFunc 姿态切换通知回调
// newTrack 是新会话的播放句柄，宿主可用于微调但不得自行停止
type PoseChangedFunc func(oldPose, newPose types.Pose, newTrack player.Handle)

// PoseController 运动姿态状态机
//
// 持有当前姿态和至多一个活动的姿态播放会话。姿态切换请求经过
// 禁用检查、冗余触发检查和播放门控后，从目录中按权重随机选取
// 剪辑启动新会话，并以交叉渐变取代旧会话。
//
// 初始姿态为 Idle；状态机没有终止状态，随角色存活
type PoseController struct {
	player   player.Player
	catalog  *clips.Catalog
	selector *clips.Selector

	current  types.Pose
	session  *player.Session
	disabled map[types.Pose]bool
	gate     types.PlaybackGate

	// 门控关闭期间记录的最后一次请求，重新开启时重放
	pendingPose  types.Pose
	pendingSpeed float64
	hasPending   bool

	poseChanged []PoseChangedFunc
	destroyed   bool
}

// NewPoseController 创建姿态控制器
// selector 为 nil 时使用时间种子的选择器；目录由控制器独占创建，
// 只能通过控制器的公开方法修改
func NewPoseController(p player.Player, selector *clips.Selector) *PoseController {
	if selector == nil {
		selector = clips.NewSelector()
	}
	return &PoseController{
		player:   p,
		catalog:  clips.NewCatalog(),
		selector: selector,
		current:  types.PoseIdle,
		disabled: make(map[types.Pose]bool),
		gate:     types.GateActive,
	}
}

// ChangePose 请求切换到新的姿态
//
// 参数：
//   - pose: 目标姿态
//   - speed: 速度倍率，<= 0 视为 1
//   - core: 请求是否来自内部信号驱动（Connections）。内部请求在
//     目标姿态等于当前姿态时直接忽略，防止重复信号引起振荡；
//     宿主的显式请求（core=false）不受此限制
//
// 门控关闭（动作抢占或全局停用）时仅记录请求，重新开启后重放
// 最近一次记录。目录缺少该姿态的候选时返回 ErrMissingPoseAnimations，
// 当前姿态与会话保持不变
func (c *PoseController) ChangePose(pose types.Pose, speed float64, core bool) error {
	if c.destroyed {
		return ErrDestroyed
	}
	if c.disabled[pose] {
		// 姿态被禁用：静默忽略，不发通知
		return nil
	}
	if speed <= 0 {
		speed = 1
	}

	if c.gate != types.GateActive {
		// 门控关闭期间总是记录，即使目标等于当前姿态：
		// 重新开启时重放的必须是最近一次请求
		c.pendingPose = pose
		c.pendingSpeed = speed
		c.hasPending = true
		return nil
	}
	if core && pose == c.current && c.session != nil && c.session.Active() {
		// 冗余的内部重复触发：无操作，防止重复信号引起振荡
		// 没有活动会话时照常放行，否则初始 Idle 永远不会开始播放
		return nil
	}
	return c.play(pose, speed)
}

func (c *PoseController) play(pose types.Pose, speed float64) error {
	list, ok := c.catalog.Get(pose.String())
	if !ok {
		return fmt.Errorf("pose %s: %w", pose, ErrMissingPoseAnimations)
	}

	descriptor, err := c.selector.Pick(list)
	if err != nil {
		return fmt.Errorf("pose %s: %w", pose, err)
	}

	session, err := player.Start(c.player, descriptor, pose.Loops(), posePlaybackPriority, speed)
	if err != nil {
		// 启动失败：当前姿态与会话保持不变
		return fmt.Errorf("pose %s: %w", pose, err)
	}

	// 先启动新会话再取代旧会话，旧会话的淡出与新会话的淡入重叠
	if c.session != nil {
		c.session.Supersede()
	}

	old := c.current
	c.current = pose
	c.session = session

	for _, fn := range c.poseChanged {
		fn(old, pose, session.Handle())
	}
	return nil
}

// GetPose 返回当前姿态
func (c *PoseController) GetPose() types.Pose {
	return c.current
}

// GetCurrentTrack 返回当前活动会话的播放句柄；无活动会话时返回 nil
func (c *PoseController) GetCurrentTrack() player.Handle {
	if c.session == nil || !c.session.Active() {
		return nil
	}
	return c.session.Handle()
}

// CurrentSession 返回当前姿态会话（可能为 nil 或已终止）
func (c *PoseController) CurrentSession() *player.Session {
	return c.session
}

// OnPoseChanged 注册姿态切换通知
func (c *PoseController) OnPoseChanged(fn PoseChangedFunc) {
	c.poseChanged = append(c.poseChanged, fn)
}

// SetPoseEnabled 启用/禁用单个姿态（默认全部启用）
// 对禁用姿态的切换请求被静默忽略；重新启用后同样的请求即可成功
func (c *PoseController) SetPoseEnabled(pose types.Pose, enabled bool) {
	if enabled {
		delete(c.disabled, pose)
	} else {
		c.disabled[pose] = true
	}
}

// Gate 返回当前播放门控状态
func (c *PoseController) Gate() types.PlaybackGate {
	return c.gate
}

// SetCoreActive 全局开关姿态动画
//
// 关闭时姿态请求只记录不播放（当前会话不受影响，需要时配合
// StopCoreAnimations 使用）；重新打开时重放最近记录的请求。
// 关闭状态优先于动作抢占状态
func (c *PoseController) SetCoreActive(active bool) {
	if c.destroyed {
		return
	}
	if !active {
		c.gate = types.GateDisabled
		return
	}
	if c.gate == types.GateDisabled {
		c.gate = types.GateActive
		c.replayPending()
	}
}

// GetCoreActive 报告姿态动画是否处于全局开启状态
func (c *PoseController) GetCoreActive() bool {
	return c.gate != types.GateDisabled
}

// SetCoreCanPlayAnims 动作（表情）动画独占播放期间暂停/恢复姿态动画
//
// 与 SetCoreActive 不同，该开关只表示"被动作临时抢占"，姿态状态
// 照常记录；全局关闭状态不会被此开关改变。恢复时重放最近记录的请求
func (c *PoseController) SetCoreCanPlayAnims(canPlay bool) {
	if c.destroyed {
		return
	}
	switch {
	case !canPlay && c.gate == types.GateActive:
		c.gate = types.GateSuspendedForAction
	case canPlay && c.gate == types.GateSuspendedForAction:
		c.gate = types.GateActive
		c.replayPending()
	}
}

// GetCoreCanPlayAnims 报告姿态动画当前是否未被动作抢占
func (c *PoseController) GetCoreCanPlayAnims() bool {
	return c.gate != types.GateSuspendedForAction
}

// replayPending 门控重新开启后重放最近记录的姿态请求
func (c *PoseController) replayPending() {
	if !c.hasPending {
		return
	}
	pose, speed := c.pendingPose, c.pendingSpeed
	c.hasPending = false
	if err := c.play(pose, speed); err != nil {
		log.Printf("[PoseController] 门控恢复后重放姿态 %s 失败: %v", pose, err)
	}
}

// SetPoseAnims 设置单个姿态的候选剪辑列表
func (c *PoseController) SetPoseAnims(pose types.Pose, list clips.ClipList) error {
	if c.destroyed {
		return ErrDestroyed
	}
	return c.catalog.Set(pose.String(), list)
}

// LoadCatalog 批量加载姿态目录（键为姿态名字符串）
// 默认目录提供方的结果经由此方法载入
func (c *PoseController) LoadCatalog(mapping map[string]clips.ClipList) error {
	if c.destroyed {
		return ErrDestroyed
	}
	return c.catalog.SetMany(mapping)
}

// GetCoreAnimInfos 返回指定姿态的候选剪辑列表（副本）
func (c *PoseController) GetCoreAnimInfos(pose types.Pose) (clips.ClipList, bool) {
	return c.catalog.Get(pose.String())
}

// ChangeCoreAnim 替换指定姿态候选列表中单个下标处的剪辑
// 若被替换的恰好是当前正在播放的候选，变更在下一次姿态切换时生效，
// 不会追溯影响当前会话
func (c *PoseController) ChangeCoreAnim(pose types.Pose, index int, d clips.ClipDescriptor) error {
	if c.destroyed {
		return ErrDestroyed
	}
	return c.catalog.ReplaceEntry(pose.String(), index, d)
}

// GetRandomCoreAnim 对指定姿态执行一次选择但不播放（检视用）
func (c *PoseController) GetRandomCoreAnim(pose types.Pose) (clips.ClipDescriptor, error) {
	list, ok := c.catalog.Get(pose.String())
	if !ok {
		return clips.ClipDescriptor{}, fmt.Errorf("pose %s: %w", pose, ErrMissingPoseAnimations)
	}
	return c.selector.Pick(list)
}

// StopCoreAnimations 停止当前姿态会话但不改变记录的当前姿态
// 用于外部驱动的一次性播放之前清场
func (c *PoseController) StopCoreAnimations(fadeSeconds float64) {
	if c.session != nil {
		c.session.Stop(fadeSeconds)
	}
}

// Destroy 停止姿态会话并清空目录；重复调用是无操作
// 销毁后的变更请求返回 ErrDestroyed
func (c *PoseController) Destroy() {
	if c.destroyed {
		return
	}
	c.destroyed = true
	if c.session != nil {
		c.session.Stop(0)
		c.session = nil
	}
	c.catalog.Clear()
}
