package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/chanvault/chanvault/internal/flagx"
	"github.com/chanvault/chanvault/internal/timex"
)

// JsonConfig defines a configuration structure tailored for JSON
// unmarshalling. It uses timex.Duration for interval fields, which allows
// parsing both string values such as "15m" and integer nanoseconds.
//
// This struct is an intermediate DTO used only for reading JSON configuration
// files. After unmarshalling, its fields are copied into the runtime Config
// struct which uses time.Duration.
type JsonConfig struct {
	EndpointAddrHTTP string `json:"endpoint_addr_http"`
	DatabaseDSN      string `json:"database_dsn"`
	SecretKey        string `json:"secret_key"`
	ServiceProtocol  string `json:"service_protocol"`
	ServiceDomain    string `json:"service_domain"`

	StorageBackend string `json:"storage_backend"`

	DiscordAPIBase   string `json:"discord_api_base"`
	DiscordBotToken  string `json:"discord_bot_token"`
	DiscordChannelID string `json:"discord_channel_id"`

	S3RootUser        string         `json:"s3_root_user"`
	S3RootPassword    string         `json:"s3_root_password"`
	S3Bucket          string         `json:"s3_bucket"`
	S3Region          string         `json:"s3_region"`
	S3BaseEndpoint    string         `json:"s3_base_endpoint"`
	S3PresignValidity timex.Duration `json:"s3_presign_validity"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance. The file path comes from the -c/-config flags; when no
// path is given the function is a no-op. Unreadable or invalid files panic:
// a requested-but-broken config file is a startup error, not something to
// silently skip.
func parseJson(config *Config) {

	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	config.EndpointAddrHTTP = c.EndpointAddrHTTP
	config.DatabaseDSN = c.DatabaseDSN
	config.SecretKey = c.SecretKey
	config.ServiceProtocol = c.ServiceProtocol
	config.ServiceDomain = c.ServiceDomain
	config.StorageBackend = c.StorageBackend
	config.DiscordAPIBase = c.DiscordAPIBase
	config.DiscordBotToken = c.DiscordBotToken
	config.DiscordChannelID = c.DiscordChannelID
	config.S3RootUser = c.S3RootUser
	config.S3RootPassword = c.S3RootPassword
	config.S3Bucket = c.S3Bucket
	config.S3Region = c.S3Region
	config.S3BaseEndpoint = c.S3BaseEndpoint
	config.S3PresignValidity = time.Duration(c.S3PresignValidity.Duration)
}
