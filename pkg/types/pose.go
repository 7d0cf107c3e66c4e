// Package types 定义跨包共享的基础类型
package types

// Pose 定义角色的运动姿态（闭合枚举）
// 每个控制器实例在任意时刻恰好处于一个当前姿态
type Pose int

const (
	// PoseIdle 站立待机（初始姿态）
	PoseIdle Pose = iota
	// PoseWalk 行走
	PoseWalk
	// PoseRun 奔跑
	PoseRun
	// PoseJump 跳跃（一次性动画）
	PoseJump
	// PoseFreefall 自由下落
	PoseFreefall
	// PoseSwim 游泳（移动中）
	PoseSwim
	// PoseSwimIdle 水中悬停
	PoseSwimIdle
	// PoseClimb 攀爬
	PoseClimb
	// PoseSit 坐下
	PoseSit
	// PoseLanded 落地（一次性动画）
	PoseLanded
	// PoseDead 死亡
	PoseDead
)

// String 返回姿态的字符串表示
// 同时作为姿态目录（clips.Catalog）中的键使用
func (p Pose) String() string {
	switch p {
	case PoseIdle:
		return "Idle"
	case PoseWalk:
		return "Walk"
	case PoseRun:
		return "Run"
	case PoseJump:
		return "Jump"
	case PoseFreefall:
		return "Freefall"
	case PoseSwim:
		return "Swim"
	case PoseSwimIdle:
		return "SwimIdle"
	case PoseClimb:
		return "Climb"
	case PoseSit:
		return "Sit"
	case PoseLanded:
		return "Landed"
	case PoseDead:
		return "Dead"
	default:
		return "Unknown"
	}
}

// Loops 报告该姿态的动画是否默认循环播放
// 跳跃和落地是一次性动画，播放到尾帧即结束；其余运动姿态持续循环
func (p Pose) Loops() bool {
	switch p {
	case PoseJump, PoseLanded:
		return false
	}
	return true
}

// PlaybackGate 姿态动画的播放门控状态
//
// CoreActive 和 CoreCanPlayAnims 两个独立布尔开关组合出的不一致状态
// 难以排查，内部合并为单一枚举：
//   - GateActive: 正常播放
//   - GateSuspendedForAction: 动作（表情）动画独占播放期间暂停姿态动画，
//     姿态状态照常记录
//   - GateDisabled: 姿态动画全局关闭
type PlaybackGate int

const (
	// GateActive 姿态动画正常播放
	GateActive PlaybackGate = iota
	// GateSuspendedForAction 被动作动画临时抢占
	GateSuspendedForAction
	// GateDisabled 姿态动画全局关闭
	GateDisabled
)

// String 返回门控状态的字符串表示（用于日志）
func (g PlaybackGate) String() string {
	switch g {
	case GateActive:
		return "Active"
	case GateSuspendedForAction:
		return "SuspendedForAction"
	case GateDisabled:
		return "Disabled"
	default:
		return "Unknown"
	}
}

// MoveState 外部运动状态机的离散状态
// 状态迁移信号携带 (旧状态, 新状态)，由 Connections 映射到固定姿态
type MoveState int

const (
	// StateNone 无状态（初始值）
	StateNone MoveState = iota
	// StateRunning 地面移动
	StateRunning
	// StateJumping 跳跃
	StateJumping
	// StateClimbing 攀爬
	StateClimbing
	// StateSwimming 游泳
	StateSwimming
	// StateFreefall 自由下落
	StateFreefall
	// StateLanded 落地
	StateLanded
	// StateSeated 入座
	StateSeated
	// StateDead 死亡
	StateDead
)

// String 返回离散状态的字符串表示
func (s MoveState) String() string {
	switch s {
	case StateNone:
		return "None"
	case StateRunning:
		return "Running"
	case StateJumping:
		return "Jumping"
	case StateClimbing:
		return "Climbing"
	case StateSwimming:
		return "Swimming"
	case StateFreefall:
		return "Freefall"
	case StateLanded:
		return "Landed"
	case StateSeated:
		return "Seated"
	case StateDead:
		return "Dead"
	default:
		return "Unknown"
	}
}
