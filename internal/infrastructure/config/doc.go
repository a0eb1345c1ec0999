// Package config provides configuration loading for Telemetry Core.
//
// Configuration is loaded from a YAML file with environment variable
// overrides, validated once at startup, and passed by value to the
// components that need each section.
//
// # Loading Order
//
//  1. Hardcoded defaults (defaultConfig)
//  2. YAML file values
//  3. Environment variables (TELEMETRY_SECTION_KEY)
//
// # Usage
//
//	cfg, err := config.Load("configs/config.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	store := telemetry.NewStore(db, cfg.Mongo)
package config
