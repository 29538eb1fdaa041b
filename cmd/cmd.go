package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/frahmantamala/childcare-management/internal"
	"github.com/frahmantamala/childcare-management/pkg/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	clearData  bool
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "childcare-management",
	Short: "Childcare Management",
	Long:  `Backend for managing children records, staff, inventory, donations and the audit trail of a childcare institution.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func loadConfig(path string) (*internal.Config, error) {
	// Check if we're running in Docker environment
	if os.Getenv("APP_ENV") == "production" || os.Getenv("DOCKER_ENV") == "true" {
		cfg := internal.LoadConfigFromEnv()
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("error validating config from environment: %w", err)
		}
		configureLogger(cfg)
		return cfg, nil
	}

	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yml")
	v.SetEnvPrefix("ENV")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config: %w", err)
	}

	var cfg internal.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("error validating config: %w", err)
	}

	configureLogger(&cfg)
	return &cfg, nil
}

// setDefaults mirrors the defaults of internal.LoadConfigFromEnv for file based config.
func setDefaults(v *viper.Viper) {
	env := internal.LoadConfigFromEnv()
	v.SetDefault("env", "development")
	v.SetDefault("http_server.port", env.Server.Port)
	v.SetDefault("http_server.allowed_origins", env.Server.AllowedOrigins)
	v.SetDefault("http_server.openapi_path", env.Server.OpenAPIPath)
	v.SetDefault("http_server.read_header_timeout", env.Server.ReadHeaderTimeout)
	v.SetDefault("http_server.read_timeout", env.Server.ReadTimeout)
	v.SetDefault("http_server.idle_timeout", env.Server.IdleTimeout)
	v.SetDefault("http_server.write_timeout", env.Server.WriteTimeout)
	v.SetDefault("database.max_open_conns", env.Database.MaxOpenConns)
	v.SetDefault("database.max_idle_conns", env.Database.MaxIdleConns)
	v.SetDefault("database.conn_max_lifetime", env.Database.ConnMaxLifetime)
	v.SetDefault("database.conn_max_idle_time", env.Database.ConnMaxIdleTime)
	v.SetDefault("security.access_token_duration", env.Security.AccessTokenDuration)
	v.SetDefault("security.bcrypt_cost", env.Security.BCryptCost)
	v.SetDefault("audit.async", env.Audit.Async)
	v.SetDefault("audit.workers", env.Audit.Workers)
	v.SetDefault("audit.queue_size", env.Audit.QueueSize)
	v.SetDefault("audit.write_timeout", env.Audit.WriteTimeout)
	v.SetDefault("rate_limit.login_per_second", env.RateLimit.LoginPerSecond)
	v.SetDefault("rate_limit.login_burst", env.RateLimit.LoginBurst)
	v.SetDefault("rate_limit.trusted_proxies", env.RateLimit.TrustedProxies)
	v.SetDefault("logging.level", "")
	v.SetDefault("logging.format", "")
}

func configureLogger(cfg *internal.Config) {
	logger.Configure(cfg.Env, cfg.Logging.Level, cfg.Logging.Format)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", ".", "directory containing config.yml")
	seedCmd.Flags().BoolVar(&clearData, "clear", false, "Clear existing data before seeding")

	rootCmd.AddCommand(httpServerCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(auditCmd)
}
