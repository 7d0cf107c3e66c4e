package config

import (
	"fmt"
	"log"
	"sync"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// gdata 存储路径常量
const (
	configObject   = "charanim"
	configProperty = "movement"
)

// Manager 运动配置管理器
//
// 线程安全地持有当前配置（管理器本身可能被热重载 goroutine 和
// 仿真线程同时访问，控制器仍保持单线程模型），并负责通过 gdata
// 跨平台存储持久化宿主调整过的参数
type Manager struct {
	mu           sync.RWMutex
	cfg          MovementConfig
	gdataManager *gdata.Manager // 可为 nil（降级模式，仅内存配置）
}

// NewManager 创建配置管理器并尝试加载已保存的配置
//
// 参数：
//   - gdataManager: gdata 跨平台存储管理器，可为 nil（降级模式）
func NewManager(gdataManager *gdata.Manager) *Manager {
	m := &Manager{
		cfg:          DefaultMovementConfig(),
		gdataManager: gdataManager,
	}
	if err := m.Load(); err != nil {
		// 加载失败不是致命错误，使用默认配置
		log.Printf("[ConfigManager] Warning: Failed to load movement config: %v (using defaults)", err)
	}
	return m
}

// Movement 返回当前配置的副本
// Connections 每 tick 调用一次
func (m *Manager) Movement() MovementConfig {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cfg
}

// Update 整体替换当前配置（宿主调参或热重载时调用）
func (m *Manager) Update(cfg MovementConfig) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid movement config: %w", err)
	}
	m.mu.Lock()
	m.cfg = cfg
	m.mu.Unlock()
	return nil
}

// LoadFile 从 YAML 文件加载并替换当前配置（热重载入口）
func (m *Manager) LoadFile(path string) error {
	cfg, err := LoadMovementConfig(path)
	if err != nil {
		return err
	}
	return m.Update(cfg)
}

// Load 从 gdata 加载配置
// gdataManager 为 nil 或数据不存在时保持当前配置
func (m *Manager) Load() error {
	if m.gdataManager == nil {
		return nil
	}
	if !m.gdataManager.ObjectPropExists(configObject, configProperty) {
		return nil
	}

	data, err := m.gdataManager.LoadObjectProp(configObject, configProperty)
	if err != nil {
		return fmt.Errorf("failed to load movement config: %w", err)
	}

	cfg := DefaultMovementConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("failed to unmarshal movement config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid saved movement config: %w", err)
	}

	m.mu.Lock()
	m.cfg = cfg
	m.mu.Unlock()
	log.Printf("[ConfigManager] Movement config loaded successfully")
	return nil
}

// Save 保存当前配置到 gdata
// gdataManager 为 nil 时返回 nil（降级模式，不报错）
func (m *Manager) Save() error {
	if m.gdataManager == nil {
		return nil
	}

	data, err := yaml.Marshal(m.Movement())
	if err != nil {
		return fmt.Errorf("failed to marshal movement config: %w", err)
	}
	if err := m.gdataManager.SaveObjectProp(configObject, configProperty, data); err != nil {
		return fmt.Errorf("failed to save movement config: %w", err)
	}
	log.Printf("[ConfigManager] Movement config saved successfully")
	return nil
}
