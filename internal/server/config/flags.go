package config

import (
	"flag"
	"os"
	"time"

	"github.com/chanvault/chanvault/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":3000")
//	-d string   PostgreSQL DSN
//	-s string   token HMAC secret key
//	-m string   public service domain used in retrieval URLs
//	-r string   public service protocol ("http" or "https")
//	-k string   storage backend ("discord" or "s3")
//	-i string   channel id for the discord backend
//	-u string   S3 root user
//	-p string   S3 root password
//	-b string   S3 bucket name
//	-g string   S3 region
//	-e string   S3 base endpoint (e.g., "http://127.0.0.1:9000/")
//	-x int      S3 presigned URL validity, minutes
//
// The function first filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, avoiding collisions with other components.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-s", "-m", "-r", "-k", "-i", "-u", "-p", "-b", "-g", "-e", "-x"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	fs.StringVar(&config.ServiceDomain, "m", config.ServiceDomain, "public domain for retrieval URLs")
	fs.StringVar(&config.ServiceProtocol, "r", config.ServiceProtocol, "public protocol for retrieval URLs")
	fs.StringVar(&config.StorageBackend, "k", config.StorageBackend, "storage backend (discord or s3)")
	fs.StringVar(&config.DiscordChannelID, "i", config.DiscordChannelID, "discord channel id")

	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")

	presignValidity := fs.Int("x", int(config.S3PresignValidity.Minutes()), "s3_presign_validity (in minutes)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.S3PresignValidity = time.Duration(*presignValidity) * time.Minute
}
