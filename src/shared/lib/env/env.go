package env

import "os"

type Environment string

const (
	Production  Environment = "production"
	Development Environment = "development"
	Test        Environment = "test"
)

func Get() Environment {
	environment, ok := os.LookupEnv("ENVIRONMENT")
	if environment == "" || !ok {
		panic("No environment var is set")
	}

	switch environment {
	case "production":
		return Production
	case "development":
		return Development
	case "test":
		return Test
	default:
		panic("Invalid environment is set")
	}
}

// IsSet reports whether ENVIRONMENT holds a recognized value, for callers
// that should fall back instead of panicking.
func IsSet() bool {
	switch Environment(os.Getenv("ENVIRONMENT")) {
	case Production, Development, Test:
		return true
	default:
		return false
	}
}
