package config

// Config holds runtime settings for the civicbridge portal.
//
// Fields:
//   - DataDir: directory for the file-backed record store.
//   - DatabaseDSN: PostgreSQL DSN (pgx); when set, the portal uses the
//     database-backed store instead of the local one.
//   - RequireAuthForResourceCreation: make resource creation demand an
//     active session, symmetric with project creation.
//   - AttachmentsDir: directory for locally stored resource attachments.
//   - S3*: settings for the S3-compatible attachment backend; used only
//     when S3Enabled is true.
type Config struct {
	DataDir                        string
	DatabaseDSN                    string
	RequireAuthForResourceCreation bool
	AttachmentsDir                 string
	S3Enabled                      bool
	S3Endpoint                     string
	S3Region                       string
	S3Bucket                       string
	S3AccessKeyID                  string
	S3SecretAccessKey              string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.DataDir = "portal-data"
	c.DatabaseDSN = ""
	c.RequireAuthForResourceCreation = false
	c.AttachmentsDir = "portal-attachments"
	c.S3Enabled = false
	c.S3Endpoint = "http://127.0.0.1:9000/"
	c.S3Region = "us-east-1"
	c.S3Bucket = "portal"
	c.S3AccessKeyID = "admin"
	c.S3SecretAccessKey = "secretpassword"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
