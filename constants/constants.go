package constants

import (
	"os"
	"strconv"
	"time"
)

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}

func GetListenAddr() string {
	return getEnv("WHATKEY_ADDR", ":8080")
}

func GetBasicPitchBin() string {
	return getEnv("BASIC_PITCH_BIN", "basic-pitch")
}

func GetWorkDir() string {
	return getEnv("WORK_DIR", os.TempDir())
}

// GetTranscribeTimeout bounds a single transcription. The model has no
// deadline of its own.
func GetTranscribeTimeout() time.Duration {
	d, err := time.ParseDuration(getEnv("TRANSCRIBE_TIMEOUT", "2m"))
	if err != nil || d <= 0 {
		return DefaultTranscribeTimeout
	}
	return d
}

func GetTranscribeWorkers() int {
	n, err := strconv.Atoi(getEnv("TRANSCRIBE_WORKERS", "2"))
	if err != nil || n < 1 {
		return 2
	}
	return n
}

func GetMaxUploadBytes() int64 {
	n, err := strconv.ParseInt(getEnv("MAX_UPLOAD_BYTES", ""), 10, 64)
	if err != nil || n <= 0 {
		return MaxUploadBytes
	}
	return n
}

// GetDynamoEndpoint is empty when the detection cache is disabled.
func GetDynamoEndpoint() string {
	return os.Getenv("DYNAMODB_ENDPOINT")
}

func GetDynamoRegion() string {
	return getEnv("DYNAMODB_REGION", "us-east-1")
}

func GetDetectionsTable() string {
	return getEnv("DETECTIONS_TABLE", "whatkey-detections")
}

func GetLogLevel() string {
	return getEnv("LOG_LEVEL", "info")
}

func GetCorsOrigins() string {
	return getEnv("CORS_ORIGINS", "*")
}

const (
	MaxUploadBytes           = 100 * 1024 * 1024
	DefaultTranscribeTimeout = 2 * time.Minute
)
