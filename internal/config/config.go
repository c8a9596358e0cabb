package config

import (
	"github.com/spf13/viper"
)

type Config struct {
	HTTPPort       string `mapstructure:"HTTP_PORT"`
	LogMode        string `mapstructure:"LOG_MODE"`
	AllowedOrigins string `mapstructure:"ALLOWED_ORIGINS"`

	DBHost     string `mapstructure:"DB_HOST"`
	DBPort     string `mapstructure:"DB_PORT"`
	DBUser     string `mapstructure:"DB_USER"`
	DBPassword string `mapstructure:"DB_PASSWORD"`
	DBName     string `mapstructure:"DB_NAME"`

	RedisAddr string `mapstructure:"REDIS_ADDR"`

	AccessSecret string `mapstructure:"ACCESS_SECRET"`

	// Defaults applied to newly registered users.
	DefaultAvatarURL  string `mapstructure:"DEFAULT_AVATAR_URL"`
	DefaultRole       string `mapstructure:"DEFAULT_ROLE"`
	DefaultStartLevel int    `mapstructure:"DEFAULT_START_LEVEL"`
}

func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("app")
	viper.SetConfigType("env")

	viper.AutomaticEnv()

	viper.BindEnv("HTTP_PORT")
	viper.BindEnv("LOG_MODE")
	viper.BindEnv("ALLOWED_ORIGINS")
	viper.BindEnv("DB_HOST")
	viper.BindEnv("DB_PORT")
	viper.BindEnv("DB_USER")
	viper.BindEnv("DB_PASSWORD")
	viper.BindEnv("DB_NAME")
	viper.BindEnv("REDIS_ADDR")
	viper.BindEnv("ACCESS_SECRET")
	viper.BindEnv("DEFAULT_AVATAR_URL")
	viper.BindEnv("DEFAULT_ROLE")
	viper.BindEnv("DEFAULT_START_LEVEL")

	viper.SetDefault("HTTP_PORT", ":8080")
	viper.SetDefault("LOG_MODE", "dev")
	viper.SetDefault("DEFAULT_AVATAR_URL", "https://randomuser.me/api/portraits/men/32.jpg")
	viper.SetDefault("DEFAULT_ROLE", "Student")
	viper.SetDefault("DEFAULT_START_LEVEL", 1)

	err = viper.ReadInConfig()
	if err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return
		}
		// No config file is fine, env vars cover everything.
	}

	err = viper.Unmarshal(&config)
	return
}
