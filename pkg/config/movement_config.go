// Package config 管理运动参数配置与默认剪辑目录的加载、持久化和热重载
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// MovementConfig 运动信号到姿态映射的全部可调参数
//
// 宿主可以在任意时刻修改配置；Connections 每个决策 tick 重新读取，
// 陈旧度不超过一个 tick
type MovementConfig struct {
	// RunThreshold 地面移动速度超过该阈值时进入奔跑姿态
	RunThreshold float64 `yaml:"runThreshold"`

	// SwimIdleThreshold 游泳速度低于该阈值时进入水中悬停姿态
	SwimIdleThreshold float64 `yaml:"swimIdleThreshold"`

	// JumpDuration 跳跃动画时长（秒）；超时未落地自动转为下落姿态
	JumpDuration float64 `yaml:"jumpDuration"`

	// 各类别的动画速度倍率
	WalkAnimSpeed  float64 `yaml:"walkAnimSpeed"`
	RunAnimSpeed   float64 `yaml:"runAnimSpeed"`
	SwimAnimSpeed  float64 `yaml:"swimAnimSpeed"`
	ClimbAnimSpeed float64 `yaml:"climbAnimSpeed"`
	JumpAnimSpeed  float64 `yaml:"jumpAnimSpeed"`
	FallAnimSpeed  float64 `yaml:"fallAnimSpeed"`

	// AutoAdjustSpeedMultipliers 是否每 tick 重算速度倍率
	// 关闭时倍率原样取自配置，不做任何重算
	AutoAdjustSpeedMultipliers bool `yaml:"autoAdjustSpeedMultipliers"`

	// UseWalkSpeedForAnimSpeed 重算时是否按
	// 当前步行速度 / ReferenceWalkSpeed 缩放各倍率
	UseWalkSpeedForAnimSpeed bool `yaml:"useWalkSpeedForAnimSpeed"`

	// ReferenceWalkSpeed 参考步行速度（缩放基准）
	ReferenceWalkSpeed float64 `yaml:"referenceWalkSpeed"`
}

// DefaultMovementConfig 返回默认运动配置
func DefaultMovementConfig() MovementConfig {
	return MovementConfig{
		RunThreshold:               12,
		SwimIdleThreshold:          1,
		JumpDuration:               0.31,
		WalkAnimSpeed:              1,
		RunAnimSpeed:               1,
		SwimAnimSpeed:              1,
		ClimbAnimSpeed:             1,
		JumpAnimSpeed:              1,
		FallAnimSpeed:              1,
		AutoAdjustSpeedMultipliers: true,
		UseWalkSpeedForAnimSpeed:   true,
		ReferenceWalkSpeed:         16,
	}
}

// Validate 检查配置的基本合法性
func (c MovementConfig) Validate() error {
	if c.RunThreshold < 0 {
		return fmt.Errorf("runThreshold must be >= 0, got %v", c.RunThreshold)
	}
	if c.SwimIdleThreshold < 0 {
		return fmt.Errorf("swimIdleThreshold must be >= 0, got %v", c.SwimIdleThreshold)
	}
	if c.JumpDuration <= 0 {
		return fmt.Errorf("jumpDuration must be > 0, got %v", c.JumpDuration)
	}
	if c.UseWalkSpeedForAnimSpeed && c.ReferenceWalkSpeed <= 0 {
		return fmt.Errorf("referenceWalkSpeed must be > 0 when useWalkSpeedForAnimSpeed is set, got %v", c.ReferenceWalkSpeed)
	}
	return nil
}

// LoadMovementConfig 从 YAML 文件加载运动配置
// 文件中未出现的字段保持默认值
func LoadMovementConfig(path string) (MovementConfig, error) {
	cfg := DefaultMovementConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read movement config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse movement config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid movement config: %w", err)
	}
	return cfg, nil
}
