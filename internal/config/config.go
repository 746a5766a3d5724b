package config

import (
	"log"

	"github.com/spf13/viper"
)

type Config struct {
	Port                          string   `mapstructure:"PORT"`
	DatabasePath                  string   `mapstructure:"DATABASE_PATH"`
	DiscordClientID               string   `mapstructure:"DISCORD_CLIENT_ID"`
	DiscordClientSecret           string   `mapstructure:"DISCORD_CLIENT_SECRET"`
	DiscordRedirectURL            string   `mapstructure:"DISCORD_REDIRECT_URL"`
	DiscordGuildID                string   `mapstructure:"DISCORD_GUILD_ID"`
	DiscordBotToken               string   `mapstructure:"DISCORD_BOT_TOKEN"`
	DiscordNotificationsChannelID string   `mapstructure:"DISCORD_NOTIFICATIONS_CHANNEL_ID"`
	JWTSecret                     string   `mapstructure:"JWT_SECRET"`
	FrontendURL                   string   `mapstructure:"FRONTEND_URL"`
	SuperadminDiscordIDs          []string `mapstructure:"SUPERADMIN_DISCORD_IDS"`
	DefaultCategory               string   `mapstructure:"DEFAULT_CATEGORY"`
	CompletionSweepMinutes        int      `mapstructure:"COMPLETION_SWEEP_MINUTES"`
}

func LoadConfig() *Config {
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DATABASE_PATH", "campus-events.db")
	viper.SetDefault("DISCORD_REDIRECT_URL", "http://127.0.0.1:8080/auth/discord/callback")
	viper.SetDefault("FRONTEND_URL", "http://127.0.0.1:4000/events")
	viper.SetDefault("DEFAULT_CATEGORY", "student")
	viper.SetDefault("COMPLETION_SWEEP_MINUTES", 10)

	viper.BindEnv("DISCORD_CLIENT_ID")
	viper.BindEnv("DISCORD_CLIENT_SECRET")
	viper.BindEnv("DISCORD_GUILD_ID")
	viper.BindEnv("DISCORD_BOT_TOKEN")
	viper.BindEnv("DISCORD_NOTIFICATIONS_CHANNEL_ID")
	viper.BindEnv("JWT_SECRET")
	viper.BindEnv("FRONTEND_URL")
	viper.BindEnv("SUPERADMIN_DISCORD_IDS")
	viper.BindEnv("DEFAULT_CATEGORY")
	viper.BindEnv("COMPLETION_SWEEP_MINUTES")

	viper.AutomaticEnv()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		log.Fatalf("Unable to decode into struct, %v", err)
	}

	return &config
}

// IsSuperadmin reports whether a Discord account is bootstrapped straight
// into the superadmin role on login.
func (c *Config) IsSuperadmin(discordID string) bool {
	for _, id := range c.SuperadminDiscordIDs {
		if id == discordID {
			return true
		}
	}
	return false
}
