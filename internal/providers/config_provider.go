package providers

import (
	"fmt"
	"github.com/spf13/viper"
	"gtmd/internal/structures"
	"path/filepath"
	"strings"
	"time"
)

const AppName = "GitTimeMetricDaemon"

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	v := viper.New()
	filename := filepath.Base(flags.ConfigPath)
	v.AddConfigPath(filepath.Dir(flags.ConfigPath))
	v.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	v.SetConfigType("yaml")

	v.SetDefault("projects.eventsDir", ".gtm")
	v.SetDefault("projects.refreshInterval", time.Minute)
	v.SetDefault("statistic.interval", 10*time.Second)

	v.BindEnv("logger.level", "GTMD_LOG_LEVEL")
	v.BindEnv("statistic.interval", "GTMD_AGGREGATION_INTERVAL")
	v.BindEnv("projects.refreshInterval", "GTMD_REFRESH_INTERVAL")
	v.BindEnv("projects.registry", "GTMD_PROJECTS_REGISTRY")
	v.BindEnv("persistence.saveInterval", "GTMD_SAVE_INTERVAL")
	v.BindEnv("cache.enabled", "GTMD_CACHE_ENABLED")
	v.BindEnv("cache.size", "GTMD_CACHE_SIZE")

	err := v.ReadInConfig()
	if err != nil {
		return nil, err
	}

	err = v.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}

	conf.AppName = AppName
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}
