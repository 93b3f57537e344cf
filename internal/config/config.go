package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Environment string          `mapstructure:"environment"`
	LogLevel    string          `mapstructure:"log_level"`
	LogFile     string          `mapstructure:"log_file"`
	Data        DataConfig      `mapstructure:"data"`
	Memory      MemoryConfig    `mapstructure:"memory"`
	Analytics   AnalyticsConfig `mapstructure:"analytics"`
	Report      ReportConfig    `mapstructure:"report"`
}

type DataConfig struct {
	InputFile  string   `mapstructure:"input_file"`
	KPIColumns []string `mapstructure:"kpi_columns"`
}

type MemoryConfig struct {
	File          string `mapstructure:"file"`
	LookbackDays  int    `mapstructure:"lookback_days"`
	RetentionDays int    `mapstructure:"retention_days"`
}

type AnalyticsConfig struct {
	TrendWindow   int    `mapstructure:"trend_window"`
	GrowthPeriods int    `mapstructure:"growth_periods"`
	AnomalyMethod string `mapstructure:"anomaly_method"`
}

type ReportConfig struct {
	OutputDir string `mapstructure:"output_dir"`
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath(".")

	setDefaults()

	// Enable environment variable support
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Read config file
	if err := viper.ReadInConfig(); err != nil {
		// Config file not found, use defaults and environment variables
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	config.Environment = strings.ToLower(config.Environment)

	if config.Analytics.AnomalyMethod != "zscore" && config.Analytics.AnomalyMethod != "iqr" {
		return nil, fmt.Errorf("anomaly method must be zscore or iqr, got %q", config.Analytics.AnomalyMethod)
	}
	if config.Analytics.TrendWindow < 1 {
		return nil, fmt.Errorf("trend window must be positive, got %d", config.Analytics.TrendWindow)
	}
	if config.Memory.LookbackDays < 1 {
		return nil, fmt.Errorf("memory lookback days must be positive, got %d", config.Memory.LookbackDays)
	}
	if config.Memory.RetentionDays < config.Memory.LookbackDays {
		return nil, fmt.Errorf("memory retention days (%d) must cover the lookback window (%d)",
			config.Memory.RetentionDays, config.Memory.LookbackDays)
	}

	return &config, nil
}

func setDefaults() {
	// Environment
	viper.SetDefault("environment", "development")
	viper.SetDefault("log_level", "info")
	viper.SetDefault("log_file", "logs/system.log")

	// Data
	viper.SetDefault("data.input_file", "data/business_metrics.csv")
	viper.SetDefault("data.kpi_columns", []string{"Revenue", "Customers", "Conversion_Rate", "Marketing_Spend"})

	// Memory
	viper.SetDefault("memory.file", "memory/long_term_memory.json")
	viper.SetDefault("memory.lookback_days", 30)
	viper.SetDefault("memory.retention_days", 90)

	// Analytics
	viper.SetDefault("analytics.trend_window", 7)
	viper.SetDefault("analytics.growth_periods", 7)
	viper.SetDefault("analytics.anomaly_method", "zscore")

	// Report
	viper.SetDefault("report.output_dir", "reports")
}
