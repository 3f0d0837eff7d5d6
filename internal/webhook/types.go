package webhook

// SecurityConfig holds webhook security settings
type SecurityConfig struct {
	SecretToken     string   // Expected X-Telegram-Bot-Api-Secret-Token value (optional)
	AllowedIPs      []string // IP or CIDR whitelist (optional)
	RateLimitPerMin int      // Max messages per minute per user
}
