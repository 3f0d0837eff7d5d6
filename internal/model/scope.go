package model

// Environment names used in config.
type Environment string

const (
	EnvironmentDevelopment Environment = "development"
	EnvironmentProduction  Environment = "production"
)

// Scope identifies the chat user an operation runs for.
type Scope struct {
	UserID   int64
	ChatID   int64
	Username string
}
