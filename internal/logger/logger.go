package logger

import "go.uber.org/zap"

// New returns a development logger for env "dev" and a JSON production logger otherwise
func New(env string) (*zap.Logger, error) {
	if env == "dev" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
