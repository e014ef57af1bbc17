package container

// Options is the CLI configuration for both binaries. humacli exposes every
// field as a flag and as a SERVICE_* environment variable.
type Options struct {
	Port int `default:"8888" help:"Port to listen on" short:"p"`

	Window      int    `default:"10"          help:"Window length in seconds"                        short:"w"`
	MaxRequests int    `default:"5"           help:"Requests allowed per identifier per window"      short:"m"`
	Namespace   string `default:"rate_limit:" help:"Prefix for counter keys"`
	FailPolicy  string `default:"closed"      help:"What to do when the counter store fails: open or closed"`
	TrustProxy  bool   `default:"false"       help:"Identify clients by X-Forwarded-For / X-Real-IP"`

	Store        string `default:"redis"          help:"Counter store backend: redis or memory"`
	RedisAddr    string `default:"localhost:6379" help:"Redis server address"                         short:"r"`
	RedisTimeout int    `default:"2"              help:"Redis dial, read and write timeout in seconds"`

	LogFormat   string `default:"console" help:"Log format: console or json"`
	Audit       bool   `default:"false"   help:"Publish rejection events to the audit stream"`
	DatabaseURL string `help:"Postgres URL for the audit consumer; empty logs events instead"`
}

// Store backends.
const (
	StoreRedis  = "redis"
	StoreMemory = "memory"
)

// ConsumerGroupName is the Redis stream consumer group used by the audit consumer.
const ConsumerGroupName = "quota-audit"
