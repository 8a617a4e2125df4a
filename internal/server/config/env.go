package config

import "os"

// parseEnv overlays secret-bearing settings from environment variables.
// Only values that are actually set override the current config, so env
// stays optional on top of defaults and the JSON file.
//
// Recognized variables:
//
//	SECRET_KEY          HMAC secret for bearer tokens
//	DATABASE_DSN        PostgreSQL DSN
//	DISCORD_TOKEN       bot token for the channel driver
//	DISCORD_CHANNEL_ID  target channel for the channel driver
//	S3_ROOT_USER / S3_ROOT_PASSWORD  object-storage credentials
func parseEnv(config *Config) {
	set := func(dst *string, name string) {
		if v, ok := os.LookupEnv(name); ok {
			*dst = v
		}
	}

	set(&config.SecretKey, "SECRET_KEY")
	set(&config.DatabaseDSN, "DATABASE_DSN")
	set(&config.DiscordBotToken, "DISCORD_TOKEN")
	set(&config.DiscordChannelID, "DISCORD_CHANNEL_ID")
	set(&config.S3RootUser, "S3_ROOT_USER")
	set(&config.S3RootPassword, "S3_ROOT_PASSWORD")
}
