// Package config provides Viper-based configuration loading for the battle binaries.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/cory-johannsen/limitbreak/internal/game/battle"
)

// BattleConfig holds the pacing of the battle state machine.
type BattleConfig struct {
	// ActionDelay is how long each announcement stays on screen and how long
	// an empty phase waits before advancing.
	ActionDelay time.Duration `mapstructure:"action_delay"`
	// TickInterval is how often frontends call Machine.Tick.
	TickInterval time.Duration `mapstructure:"tick_interval"`
	// MaxEnemyRerolls bounds the affordable-attack re-roll loop.
	MaxEnemyRerolls int `mapstructure:"max_enemy_rerolls"`
}

// Machine converts the section to the battle package's Config.
//
// Postcondition: Returns a battle.Config with the same delay and re-roll bound.
func (b BattleConfig) Machine() battle.Config {
	return battle.Config{
		ActionDelay:     b.ActionDelay,
		MaxEnemyRerolls: b.MaxEnemyRerolls,
	}
}

// ContentConfig locates the YAML content tables.
type ContentConfig struct {
	// Dir is the root containing attacks.yaml, items.yaml, player.yaml and enemies/.
	Dir string `mapstructure:"dir"`
}

// ScriptingConfig holds Lua narrator settings.
type ScriptingConfig struct {
	// Root is the scripts directory; empty disables scripting.
	Root string `mapstructure:"root"`
	// InstructionLimit caps the VM instructions of a single hook call.
	InstructionLimit int `mapstructure:"instruction_limit"`
}

// Enabled reports whether a scripts root is configured.
func (s ScriptingConfig) Enabled() bool {
	return s.Root != ""
}

// TelnetConfig holds Telnet acceptor settings.
type TelnetConfig struct {
	// Host is the bind address for the Telnet listener.
	Host string `mapstructure:"host"`
	// Port is the TCP port for the Telnet listener.
	Port int `mapstructure:"port"`
	// ReadTimeout is the per-read timeout for Telnet connections. It should
	// exceed IdleTimeout plus IdleGracePeriod so the idle warning is sent first.
	ReadTimeout time.Duration `mapstructure:"read_timeout"`
	// WriteTimeout is the per-write timeout for Telnet connections.
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	// IdleTimeout is the duration without input after which a warning is sent.
	IdleTimeout time.Duration `mapstructure:"idle_timeout"`
	// IdleGracePeriod is the additional duration after IdleTimeout before disconnecting.
	IdleGracePeriod time.Duration `mapstructure:"idle_grace_period"`
	// Color enables ANSI styling; plain-text clients turn it off.
	Color bool `mapstructure:"color"`
}

// Addr returns the "host:port" listen address.
//
// Postcondition: Returns a non-empty string in "host:port" format.
func (t TelnetConfig) Addr() string {
	return fmt.Sprintf("%s:%d", t.Host, t.Port)
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
	// File, when set, replaces stderr as the log sink.
	File string `mapstructure:"file"`
}

// Config is the top-level application configuration.
type Config struct {
	Battle    BattleConfig    `mapstructure:"battle"`
	Content   ContentConfig   `mapstructure:"content"`
	Scripting ScriptingConfig `mapstructure:"scripting"`
	Telnet    TelnetConfig    `mapstructure:"telnet"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateBattle(c.Battle); err != nil {
		errs = append(errs, err.Error())
	}
	if c.Content.Dir == "" {
		errs = append(errs, "content.dir must not be empty")
	}
	if c.Scripting.InstructionLimit < 0 {
		errs = append(errs, fmt.Sprintf("scripting.instruction_limit must be >= 0, got %d", c.Scripting.InstructionLimit))
	}
	if err := validateTelnet(c.Telnet); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateBattle(b BattleConfig) error {
	var errs []string
	if b.ActionDelay <= 0 {
		errs = append(errs, fmt.Sprintf("battle.action_delay must be positive, got %s", b.ActionDelay))
	}
	if b.TickInterval <= 0 {
		errs = append(errs, fmt.Sprintf("battle.tick_interval must be positive, got %s", b.TickInterval))
	}
	if b.TickInterval > b.ActionDelay {
		errs = append(errs, "battle.tick_interval must not exceed battle.action_delay")
	}
	if b.MaxEnemyRerolls < 1 {
		errs = append(errs, fmt.Sprintf("battle.max_enemy_rerolls must be >= 1, got %d", b.MaxEnemyRerolls))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateTelnet(t TelnetConfig) error {
	var errs []string
	if t.Port < 1 || t.Port > 65535 {
		errs = append(errs, fmt.Sprintf("telnet.port must be 1-65535, got %d", t.Port))
	}
	if t.ReadTimeout < 0 {
		errs = append(errs, "telnet.read_timeout must not be negative")
	}
	if t.WriteTimeout < 0 {
		errs = append(errs, "telnet.write_timeout must not be negative")
	}
	if t.IdleTimeout < 0 {
		errs = append(errs, "telnet.idle_timeout must not be negative")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result.
//
// Precondition: path must be a valid file path to a YAML configuration file.
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Environment variable overrides with LIMITBREAK_ prefix
	v.SetEnvPrefix("LIMITBREAK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}

	return LoadFromViper(v)
}

// Default returns the built-in configuration used when no file is given.
//
// Postcondition: Returns a Config that passes Validate.
func Default() (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("LIMITBREAK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return LoadFromViper(v)
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("battle.action_delay", battle.DefaultActionDelay.String())
	v.SetDefault("battle.tick_interval", "100ms")
	v.SetDefault("battle.max_enemy_rerolls", battle.DefaultMaxEnemyRerolls)

	v.SetDefault("content.dir", "content")

	v.SetDefault("scripting.root", "")
	v.SetDefault("scripting.instruction_limit", 100000)

	v.SetDefault("telnet.host", "0.0.0.0")
	v.SetDefault("telnet.port", 4000)
	v.SetDefault("telnet.read_timeout", "5m")
	v.SetDefault("telnet.write_timeout", "30s")
	v.SetDefault("telnet.idle_timeout", "3m")
	v.SetDefault("telnet.idle_grace_period", "1m")
	v.SetDefault("telnet.color", true)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.file", "")
}
