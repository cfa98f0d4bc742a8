package config

import (
	"encoding/json"
	"os"

	"github.com/rsharma2005/civicbridge/internal/flagx"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Pointer
// fields distinguish "absent" from zero values so the file only overrides
// what it actually sets.
type JsonConfig struct {
	DataDir                        *string `json:"data_dir"`
	DatabaseDSN                    *string `json:"database_dsn"`
	RequireAuthForResourceCreation *bool   `json:"require_auth_for_resource_creation"`
	AttachmentsDir                 *string `json:"attachments_dir"`
	S3Enabled                      *bool   `json:"s3_enabled"`
	S3Endpoint                     *string `json:"s3_endpoint"`
	S3Region                       *string `json:"s3_region"`
	S3Bucket                       *string `json:"s3_bucket"`
	S3AccessKeyID                  *string `json:"s3_access_key_id"`
	S3SecretAccessKey              *string `json:"s3_secret_access_key"`
}

// parseJson overlays Config with values loaded from a JSON file.
//
// Lookup order for the JSON file path:
//  1. Command-line flags (-c or -config) via flagx.JsonConfigFlags().
//  2. If empty, no JSON is loaded and the function returns.
//
// Panics on read or unmarshal errors (caller should recover if desired).
// Intended usage is: defaults -> parseJson -> parseFlags, where later stages
// override earlier ones.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.DataDir != nil {
		cfg.DataDir = *jc.DataDir
	}
	if jc.DatabaseDSN != nil {
		cfg.DatabaseDSN = *jc.DatabaseDSN
	}
	if jc.RequireAuthForResourceCreation != nil {
		cfg.RequireAuthForResourceCreation = *jc.RequireAuthForResourceCreation
	}
	if jc.AttachmentsDir != nil {
		cfg.AttachmentsDir = *jc.AttachmentsDir
	}
	if jc.S3Enabled != nil {
		cfg.S3Enabled = *jc.S3Enabled
	}
	if jc.S3Endpoint != nil {
		cfg.S3Endpoint = *jc.S3Endpoint
	}
	if jc.S3Region != nil {
		cfg.S3Region = *jc.S3Region
	}
	if jc.S3Bucket != nil {
		cfg.S3Bucket = *jc.S3Bucket
	}
	if jc.S3AccessKeyID != nil {
		cfg.S3AccessKeyID = *jc.S3AccessKeyID
	}
	if jc.S3SecretAccessKey != nil {
		cfg.S3SecretAccessKey = *jc.S3SecretAccessKey
	}
}
