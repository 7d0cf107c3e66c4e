package controller

import (
	"github.com/gonewx/charanim/pkg/clips"
	"github.com/gonewx/charanim/pkg/player"
)

// Animator 聚合一个角色的全部动画控制组件
//
// 每个角色独占一套 PoseController、Connections、ActionController，
// 角色之间没有共享可变状态。宿主每个仿真 tick 调用 Update 驱动
// 信号决策
type Animator struct {
	Pose    *PoseController
	Conn    *Connections
	Actions *ActionController

	destroyed bool
}

// NewAnimator 创建角色动画聚合体
// selector 为 nil 时姿态与动作各自使用时间种子的选择器；
// cfg 为 nil 时使用内置默认配置；src 可为 nil
func NewAnimator(p player.Player, cfg ConfigProvider, src MovementSource, selector *clips.Selector) *Animator {
	pose := NewPoseController(p, selector)
	return &Animator{
		Pose:    pose,
		Conn:    NewConnections(pose, cfg, src),
		Actions: NewActionController(p, selector),
	}
}

// Update 推进一个仿真 tick（排空信号队列并做姿态决策）
func (an *Animator) Update(deltaTime float64) {
	if an.destroyed {
		return
	}
	an.Conn.Update(deltaTime)
}

// Destroyed 报告聚合体是否已销毁
func (an *Animator) Destroyed() bool {
	return an.destroyed
}

// Destroy 停止该角色的全部播放会话（姿态与所有动作）并清空两个目录
// 每个句柄恰好释放一次；重复调用是无操作。销毁后发起的
// ChangePose / PlayAction 返回 ErrDestroyed，不会触碰已释放的资源
func (an *Animator) Destroy() {
	if an.destroyed {
		return
	}
	an.destroyed = true
	an.Pose.Destroy()
	an.Actions.Destroy()
}
