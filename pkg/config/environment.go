package config

import "strings"

// Environment names the deployment stage the service runs in.
type Environment string

const (
	Development Environment = "development"
	Staging     Environment = "staging"
	Production  Environment = "production"
)

// ParseEnvironment accepts the canonical names and the short aliases
// dev, stage and prod. Anything else is treated as development.
func ParseEnvironment(s string) Environment {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "production", "prod":
		return Production
	case "staging", "stage":
		return Staging
	default:
		return Development
	}
}

func (e Environment) String() string { return string(e) }

func (e Environment) IsProduction() bool  { return ParseEnvironment(string(e)) == Production }
func (e Environment) IsStaging() bool     { return ParseEnvironment(string(e)) == Staging }
func (e Environment) IsDevelopment() bool { return ParseEnvironment(string(e)) == Development }
