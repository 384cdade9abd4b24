// Package config loads service configuration from the environment.
// A .env file is honored in development (loaded by main via godotenv);
// every value has a default suitable for local runs.
package config

import (
	"os"
	"strconv"
)

// Config holds the voice-auth service configuration.
type Config struct {
	Port    string
	Variant string // classifier, cosine, or multifactor

	// Identity store: "file" or "mongo".
	IdentityBackend string
	IdentityFile    string

	// Object storage for audio samples and model blobs: "local" or "s3".
	StorageBackend string
	StorageDir     string
	S3Endpoint     string
	S3Region       string
	S3Bucket       string
	S3AccessKey    string
	S3SecretKey    string

	// Model adapters: "mock" or "http" for embedding/deepfake,
	// "mock", "google", or "gemini" for the PIN extractor.
	EmbeddingBackend   string
	EmbeddingURL       string
	EmbeddingDimension int
	DeepfakeBackend    string
	DeepfakeURL        string
	PinBackend         string
	PinLanguage        string

	SampleRate int

	// JWTSecret enables service authentication on the /user routes when
	// non-empty.
	JWTSecret string
}

// Load reads the configuration from the environment.
func Load() Config {
	return Config{
		Port:    getEnv("PORT", "5002"),
		Variant: getEnv("SUARA_VARIANT", "cosine"),

		IdentityBackend: getEnv("IDENTITY_BACKEND", "file"),
		IdentityFile:    getEnv("IDENTITY_FILE", "users_data.json"),

		StorageBackend: getEnv("STORAGE_BACKEND", "local"),
		StorageDir:     getEnv("STORAGE_DIR", "data"),
		S3Endpoint:     os.Getenv("S3_ENDPOINT"),
		S3Region:       getEnv("S3_REGION", "us-east-1"),
		S3Bucket:       getEnv("S3_BUCKET", "voice-auth"),
		S3AccessKey:    os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey:    os.Getenv("S3_SECRET_KEY"),

		EmbeddingBackend:   getEnv("EMBEDDING_BACKEND", "mock"),
		EmbeddingURL:       os.Getenv("EMBEDDING_URL"),
		EmbeddingDimension: getEnvInt("EMBEDDING_DIMENSION", 1024),
		DeepfakeBackend:    getEnv("DEEPFAKE_BACKEND", "mock"),
		DeepfakeURL:        os.Getenv("DEEPFAKE_URL"),
		PinBackend:         getEnv("PIN_BACKEND", "mock"),
		PinLanguage:        getEnv("PIN_LANGUAGE", "en-US"),

		SampleRate: getEnvInt("SAMPLE_RATE", 16000),

		JWTSecret: os.Getenv("JWT_SECRET"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
