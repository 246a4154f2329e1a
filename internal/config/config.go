package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/hsaito/retentio/internal/memory"
)

type Config struct {
	Database  DatabaseConfig  `mapstructure:"database"`
	Server    ServerConfig    `mapstructure:"server"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Worker    WorkerConfig    `mapstructure:"worker"`
}

type DatabaseConfig struct {
	Host            string            `mapstructure:"host"`
	Port            int               `mapstructure:"port"`
	Username        string            `mapstructure:"username"`
	Password        string            `mapstructure:"password"`
	Database        string            `mapstructure:"database"`
	TLS             bool              `mapstructure:"tls"`
	Params          map[string]string `mapstructure:"params"`
	MaxOpenConns    int               `mapstructure:"max_open_conns"`
	MaxIdleConns    int               `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int               `mapstructure:"conn_max_lifetime"`
}

type ServerConfig struct {
	Address    string `mapstructure:"address"`
	CORSOrigin string `mapstructure:"cors_origin"`
}

type SchedulerConfig struct {
	Params memory.Params `mapstructure:"params"`
	Scales map[int][]int `mapstructure:"scales"`
}

type WorkerConfig struct {
	BatchSize     int           `mapstructure:"batch_size"`
	RetryAttempts uint          `mapstructure:"retry_attempts"`
	RetryDelay    time.Duration `mapstructure:"retry_delay"`
}

// ScaleSet converts the configured rating scale tables into the memory
// package's representation, falling back to the defaults when unset.
func (c SchedulerConfig) ScaleSet() memory.ScaleSet {
	if len(c.Scales) == 0 {
		return memory.DefaultScales
	}
	set := make(memory.ScaleSet, len(c.Scales))
	for size, qualities := range c.Scales {
		scale := make([]memory.Quality, len(qualities))
		for i, q := range qualities {
			scale[i] = memory.Quality(q)
		}
		set[size] = scale
	}
	return set
}

func Load(configFile string) (*Config, error) {
	v := viper.New()

	v.SetConfigType("yaml")

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/retentio")
	}

	v.SetDefault("database.host", "127.0.0.1")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.username", "retentio")
	v.SetDefault("database.database", "retentio")
	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.cors_origin", "http://localhost:3000")
	v.SetDefault("worker.batch_size", 200)
	v.SetDefault("worker.retry_attempts", 3)
	v.SetDefault("worker.retry_delay", time.Second)
	setSchedulerDefaults(v)

	// Bind secrets to environment variables only (not from config file)
	if err := v.BindEnv("database.password", "RETENTIO_DB_PASSWORD"); err != nil {
		return nil, fmt.Errorf("failed to bind RETENTIO_DB_PASSWORD environment variable: %w", err)
	}
	if err := v.BindEnv("database.host", "RETENTIO_DB_HOST"); err != nil {
		return nil, fmt.Errorf("failed to bind RETENTIO_DB_HOST environment variable: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("configuration file found but could not be read: %w. Please check the file format and permissions", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration format: %w", err)
	}

	if err := cfg.Scheduler.Params.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scheduler params: %w", err)
	}

	return &cfg, nil
}

func setSchedulerDefaults(v *viper.Viper) {
	p := memory.DefaultParams()
	v.SetDefault("scheduler.params.initial_stability", p.InitialStability[:])
	v.SetDefault("scheduler.params.initial_difficulty", p.InitialDifficulty)
	v.SetDefault("scheduler.params.difficulty_slope", p.DifficultySlope)
	v.SetDefault("scheduler.params.min_difficulty", p.MinDifficulty)
	v.SetDefault("scheduler.params.max_difficulty", p.MaxDifficulty)
	v.SetDefault("scheduler.params.difficulty_delta", p.DifficultyDelta)
	v.SetDefault("scheduler.params.mean_reversion", p.MeanReversion)
	v.SetDefault("scheduler.params.growth_rate", p.GrowthRate)
	v.SetDefault("scheduler.params.stability_decay", p.StabilityDecay)
	v.SetDefault("scheduler.params.retrievability_weight", p.RetrievabilityWeight)
	v.SetDefault("scheduler.params.hard_penalty", p.HardPenalty)
	v.SetDefault("scheduler.params.easy_bonus", p.EasyBonus)
	v.SetDefault("scheduler.params.short_term_weight", p.ShortTermWeight)
	v.SetDefault("scheduler.params.lapse_factor", p.LapseFactor)
	v.SetDefault("scheduler.params.lapse_factor_protected", p.LapseFactorProtected)
	v.SetDefault("scheduler.params.protected_streak", p.ProtectedStreak)
	v.SetDefault("scheduler.params.stability_floor", p.StabilityFloor)
	v.SetDefault("scheduler.params.retention_decay", p.RetentionDecay)
	v.SetDefault("scheduler.params.desired_retention", p.DesiredRetention)
	v.SetDefault("scheduler.params.max_interval_days", p.MaxIntervalDays)
	v.SetDefault("scheduler.params.learning_steps", p.LearningSteps)
	v.SetDefault("scheduler.params.relearning_step", p.RelearningStep)
	v.SetDefault("scheduler.params.graduation_reps", p.GraduationReps)
	v.SetDefault("scheduler.params.pass_threshold", int(p.PassThreshold))
	v.SetDefault("scheduler.params.struggling_incorrect_streak", p.StrugglingIncorrectStreak)
	v.SetDefault("scheduler.params.struggling_lapses", p.StrugglingLapses)
	v.SetDefault("scheduler.params.struggling_stability_below", p.StrugglingStabilityBelow)
	v.SetDefault("scheduler.params.points_per_quality", p.PointsPerQuality)
}
