package config

import (
	"fmt"
	"os"

	"github.com/gonewx/charanim/pkg/clips"
	"gopkg.in/yaml.v3"
)

// CatalogFile 默认剪辑目录文件
//
// 这是"剪辑包/默认目录提供方"协作接口的文件形态：按骨架类型
// （rig type）给出姿态名/动作键 → 候选剪辑列表的映射，核心把
// 结果当作普通的目录批量加载处理
//
// 文件格式示例：
//
//	rigs:
//	  biped:
//	    poses:
//	      Idle:
//	        - id: rbxassetid://idle1
//	          weight: 9
//	        - id: rbxassetid://idle2
//	          weight: 1
//	      Walk:
//	        - id: rbxassetid://walk
//	    actions:
//	      wave:
//	        - id: rbxassetid://wave
type CatalogFile struct {
	Rigs map[string]RigCatalog `yaml:"rigs"`
}

// RigCatalog 单个骨架类型的默认目录
type RigCatalog struct {
	Poses   map[string]clips.ClipList `yaml:"poses"`
	Actions map[string]clips.ClipList `yaml:"actions"`
}

// LoadCatalogFile 从 YAML 文件加载默认剪辑目录
func LoadCatalogFile(path string) (*CatalogFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	var file CatalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse catalog file: %w", err)
	}
	if len(file.Rigs) == 0 {
		return nil, fmt.Errorf("catalog file %q defines no rigs", path)
	}

	// 提前校验所有列表，避免加载一半失败
	for rig, catalog := range file.Rigs {
		for pose, list := range catalog.Poses {
			if err := list.Validate(); err != nil {
				return nil, fmt.Errorf("rig %q pose %q: %w", rig, pose, err)
			}
		}
		for key, list := range catalog.Actions {
			if err := list.Validate(); err != nil {
				return nil, fmt.Errorf("rig %q action %q: %w", rig, key, err)
			}
		}
	}
	return &file, nil
}

// Rig 返回指定骨架类型的默认目录
func (f *CatalogFile) Rig(rigType string) (RigCatalog, bool) {
	catalog, ok := f.Rigs[rigType]
	return catalog, ok
}
