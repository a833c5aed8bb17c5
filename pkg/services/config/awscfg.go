package config

import (
	"fmt"
	"strings"

	"gopkg.in/ini.v1"
)

// SharedConfig reads the AWS shared config file (~/.aws/config) to
// enumerate profiles and resolve per-profile regions without forcing
// a full credential resolution.
type SharedConfig interface {
	Profiles() []string
	Region(profile string) (string, error)
}

type sharedConfig struct {
	cfg *ini.File
}

// NewSharedConfig loads the AWS shared config file at path.
func NewSharedConfig(path string) (SharedConfig, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS shared config: %w", err)
	}
	return &sharedConfig{cfg: cfg}, nil
}

// Profiles returns the profile names defined in the file. The shared
// config file prefixes non-default sections with "profile ".
func (sc *sharedConfig) Profiles() []string {
	var profiles []string
	for _, section := range sc.cfg.Sections() {
		name := section.Name()
		if len(section.Keys()) == 0 {
			continue
		}
		if name == "default" {
			profiles = append(profiles, name)
			continue
		}
		if trimmed, ok := strings.CutPrefix(name, "profile "); ok {
			profiles = append(profiles, trimmed)
		}
	}
	return profiles
}

func (sc *sharedConfig) Region(profile string) (string, error) {
	sectionName := profile
	if profile != "default" {
		sectionName = "profile " + profile
	}
	section, err := sc.cfg.GetSection(sectionName)
	if err != nil {
		return "", fmt.Errorf("profile %s not found", profile)
	}

	region := section.Key("region").String()
	if region == "" {
		return "", fmt.Errorf("profile %s has no region configured", profile)
	}
	return region, nil
}
