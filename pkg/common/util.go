package common

import (
	"os"
	"strings"
)

func Environment() string {
	env := strings.TrimSpace(os.Getenv(EnvKeyEnvironment))
	if env == "" {
		return EnvironmentDevelopment
	}
	return env
}

func IsProduction() bool {
	return Environment() == EnvironmentProduction
}

func Mapper[T any, R any](items []T, mapFn func(T) R) []R {
	mapped := make([]R, len(items))
	for i := range len(items) {
		mapped[i] = mapFn(items[i])
	}
	return mapped
}
