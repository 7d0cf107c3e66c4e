package controller

import (
	"log"

	"github.com/gonewx/charanim/pkg/config"
	"github.com/gonewx/charanim/pkg/types"
)

// ConfigProvider 提供运动配置的实时读数
// config.Manager 实现该接口；Connections 每个决策 tick 重新读取，
// 配置陈旧度不超过一个 tick
type ConfigProvider interface {
	Movement() config.MovementConfig
}

// MovementSource 外部运动仿真的可读属性
type MovementSource interface {
	// WalkSpeed 当前步行速度（速度倍率重算的缩放分子）
	WalkSpeed() float64
}

// SpeedMultipliers 每 tick 重算出的各类别动画速度倍率
type SpeedMultipliers struct {
	Walk  float64
	Run   float64
	Swim  float64
	Climb float64
	Jump  float64
	Fall  float64
}

// intentKind 入队信号的类别
type intentKind int

const (
	intentRunning intentKind = iota
	intentJumping
	intentClimbing
	intentSwimming
	intentStateChange
)

// intent 一次外部信号的入队记录
type intent struct {
	kind  intentKind
	speed float64
	from  types.MoveState
	to    types.MoveState
}

// Connections 把外部运动信号翻译成姿态切换请求
//
// 信号回调只入队，真正的决策在每个仿真 tick 的 Update 中按入队
// 顺序完成；相比让回调直接改共享状态，入队-排空模型的处理顺序
// 完全确定，易于测试。
//
// 同一 tick 内，离散状态迁移信号推导出的姿态优先于连续速度信号
// 推导出的姿态：离散信号处理之后，该 tick 剩余的连续信号被丢弃
type Connections struct {
	ctrl *PoseController
	cfg  ConfigProvider
	src  MovementSource // 可为 nil（不做步行速度缩放）

	queue []intent

	// 跳跃计时：JumpDuration 内未落地自动转入下落
	jumping   bool
	jumpTimer float64

	multipliers SpeedMultipliers
}

// NewConnections 创建信号翻译器
// cfg 为 nil 时使用内置默认配置
func NewConnections(ctrl *PoseController, cfg ConfigProvider, src MovementSource) *Connections {
	if cfg == nil {
		cfg = defaultProvider{}
	}
	return &Connections{ctrl: ctrl, cfg: cfg, src: src}
}

type defaultProvider struct{}

func (defaultProvider) Movement() config.MovementConfig {
	return config.DefaultMovementConfig()
}

// Running 地面移动速度信号
func (co *Connections) Running(speed float64) {
	co.queue = append(co.queue, intent{kind: intentRunning, speed: speed})
}

// Jumping 跳跃信号（离散）
func (co *Connections) Jumping() {
	co.queue = append(co.queue, intent{kind: intentJumping})
}

// Climbing 攀爬速度信号
func (co *Connections) Climbing(speed float64) {
	co.queue = append(co.queue, intent{kind: intentClimbing, speed: speed})
}

// Swimming 游泳速度信号
func (co *Connections) Swimming(speed float64) {
	co.queue = append(co.queue, intent{kind: intentSwimming, speed: speed})
}

// StateChanged 外部状态机的离散迁移信号
func (co *Connections) StateChanged(from, to types.MoveState) {
	co.queue = append(co.queue, intent{kind: intentStateChange, from: from, to: to})
}

// Multipliers 返回最近一次 Update 重算出的速度倍率（测试/检视用）
func (co *Connections) Multipliers() SpeedMultipliers {
	return co.multipliers
}

// Update 每个仿真 tick 调用一次：重读配置、重算速度倍率、
// 推进跳跃计时、按序排空信号队列
func (co *Connections) Update(deltaTime float64) {
	cfg := co.cfg.Movement()
	co.recomputeMultipliers(cfg)

	if co.jumping {
		co.jumpTimer += deltaTime
		if co.jumpTimer >= cfg.JumpDuration {
			co.jumping = false
			co.request(types.PoseFreefall, co.multipliers.Fall)
		}
	}

	pending := co.queue
	co.queue = co.queue[:0]

	// 离散状态迁移在本 tick 内优先：处理过一条之后，
	// 剩余的连续速度信号全部丢弃
	sawDiscrete := false
	for _, it := range pending {
		if it.kind == intentStateChange {
			co.resolveStateChange(it)
			sawDiscrete = true
			continue
		}
		if sawDiscrete {
			continue
		}
		co.resolveContinuous(it, cfg)
	}
}

// resolveContinuous 处理连续速度信号
func (co *Connections) resolveContinuous(it intent, cfg config.MovementConfig) {
	switch it.kind {
	case intentRunning:
		switch {
		case it.speed > cfg.RunThreshold:
			co.request(types.PoseRun, co.multipliers.Run)
		case it.speed > 0:
			co.request(types.PoseWalk, co.multipliers.Walk)
		default:
			co.request(types.PoseIdle, 1)
		}
	case intentSwimming:
		if it.speed < cfg.SwimIdleThreshold {
			co.request(types.PoseSwimIdle, 1)
		} else {
			co.request(types.PoseSwim, co.multipliers.Swim)
		}
	case intentClimbing:
		// 速度为零的攀爬信号不进入攀爬姿态，留给其他类别信号决定
		if it.speed != 0 {
			co.request(types.PoseClimb, co.multipliers.Climb)
		}
	case intentJumping:
		co.jumping = true
		co.jumpTimer = 0
		co.request(types.PoseJump, co.multipliers.Jump)
	}
}

// resolveStateChange 处理离散状态迁移信号
func (co *Connections) resolveStateChange(it intent) {
	switch it.to {
	case types.StateJumping:
		co.jumping = true
		co.jumpTimer = 0
		co.request(types.PoseJump, co.multipliers.Jump)
	case types.StateFreefall:
		co.jumping = false
		co.request(types.PoseFreefall, co.multipliers.Fall)
	case types.StateLanded:
		co.jumping = false
		co.request(types.PoseLanded, 1)
	case types.StateSeated:
		co.request(types.PoseSit, 1)
	case types.StateDead:
		co.request(types.PoseDead, 1)
	case types.StateClimbing:
		co.request(types.PoseClimb, co.multipliers.Climb)
	case types.StateSwimming:
		co.request(types.PoseSwimIdle, 1)
	case types.StateRunning:
		// 具体姿态由后续的 Running(speed) 连续信号决定
	}
}

// request 向姿态控制器发出内部（core）切换请求
func (co *Connections) request(pose types.Pose, speedMultiplier float64) {
	if err := co.ctrl.ChangePose(pose, speedMultiplier, true); err != nil {
		log.Printf("[Connections] 姿态切换到 %s 失败: %v", pose, err)
	}
}

// recomputeMultipliers 重算各类别的速度倍率
//
// AutoAdjustSpeedMultipliers 开启时每 tick 重算：
// 倍率 = 配置倍率 × (UseWalkSpeedForAnimSpeed ? 当前步行速度/参考步行速度 : 1)；
// 关闭时倍率原样取自配置。重算是幂等的，除写入下次 ChangePose
// 使用的倍率外没有任何副作用
func (co *Connections) recomputeMultipliers(cfg config.MovementConfig) {
	base := SpeedMultipliers{
		Walk:  cfg.WalkAnimSpeed,
		Run:   cfg.RunAnimSpeed,
		Swim:  cfg.SwimAnimSpeed,
		Climb: cfg.ClimbAnimSpeed,
		Jump:  cfg.JumpAnimSpeed,
		Fall:  cfg.FallAnimSpeed,
	}
	if !cfg.AutoAdjustSpeedMultipliers {
		co.multipliers = base
		return
	}

	scale := 1.0
	if cfg.UseWalkSpeedForAnimSpeed && co.src != nil && cfg.ReferenceWalkSpeed > 0 {
		scale = co.src.WalkSpeed() / cfg.ReferenceWalkSpeed
	}
	co.multipliers = SpeedMultipliers{
		Walk:  base.Walk * scale,
		Run:   base.Run * scale,
		Swim:  base.Swim * scale,
		Climb: base.Climb * scale,
		Jump:  base.Jump * scale,
		Fall:  base.Fall * scale,
	}
}
