// Package config provides the configuration system for sectionscan.
//
// Configuration is organized in layers with higher layers overriding lower:
//
//	┌─────────────────────────────┐
//	│  4. Command Line Flags      │  ← Highest priority (Config.Set)
//	├─────────────────────────────┤
//	│  3. Environment Variables   │  ← SECTIONSCAN_*
//	├─────────────────────────────┤
//	│  2. Config File             │  ← --config, .toml or .yaml
//	├─────────────────────────────┤
//	│  1. Built-in Defaults       │  ← Lowest priority
//	└─────────────────────────────┘
//
// # Basic Usage
//
//	cfg, err := config.Load("sectionscan.toml")
//	if err != nil {
//	    return err
//	}
//	if err := cfg.Validate(); err != nil {
//	    return err
//	}
//	opts := cfg.SectionOptions(rules)
//
// # Type-Safe Access
//
// Section accessors return snapshot structs:
//
//	scan := cfg.Scan()
//	fmt.Println(scan.Jobs, scan.MatchTimeout)
//
// Raw values are available by dot-separated path:
//
//	jobs, err := cfg.GetInt("scan.jobs")
//
// # Languages
//
// The "languages" table adds languages or overrides the built-in folding
// markers:
//
//	[languages.go]
//	regionStart = '^\s*//\s*#?region\b'
//	regionEnd = '^\s*//\s*#?endregion\b'
//
//	[languages.terraform]
//	extensions = [".tf"]
//	regionStart = '^\s*#\s*region\b'
//
// Use ApplyLanguages to install them into a language.Registry.
package config
