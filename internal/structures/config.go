package structures

import "time"

type Server struct {
	Host string `yaml:"host" validate:"required"`
	Port int    `yaml:"port" validate:"required|uint|min:1"`
}

type Persistence struct {
	FilePath         string        `yaml:"filePath" validate:"required|unixPath"`
	SaveInterval     time.Duration `yaml:"saveInterval" validate:"required|min:1"`
	CompressionLevel int           `yaml:"compressionLevel" validate:"min:0|max:4"`
}

type LoggerConfig struct {
	Level string `yaml:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode  uint32 `yaml:"mode" validate:"required|uint"`
	Dir   string `yaml:"dir" validate:"required|unixPath"`
}

type StatisticConfig struct {
	Interval time.Duration `yaml:"interval" validate:"required|min:1"`
}

type ProjectsConfig struct {
	Registry        string        `yaml:"registry"`
	EventsDir       string        `yaml:"eventsDir" validate:"required|relativeDir"`
	RefreshInterval time.Duration `yaml:"refreshInterval" validate:"required|min:1"`
}

type CacheConfig struct {
	Enabled bool `yaml:"enabled"`
	Size    int  `yaml:"size"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

type Config struct {
	AppName     string
	Debug       bool
	Path        string
	Statistic   StatisticConfig `yaml:"statistic"`
	Projects    ProjectsConfig  `yaml:"projects"`
	WebServer   Server          `yaml:"webServer"`
	Persistence Persistence     `yaml:"persistence"`
	Logger      LoggerConfig    `yaml:"logger"`
	Cache       CacheConfig     `yaml:"cache"`
	Metrics     MetricsConfig   `yaml:"metrics"`
}
