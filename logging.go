package reqflow

import (
	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
)

// NewZapLogger builds a logr.Logger backed by zap, for callers that do not
// already carry a logger. Development mode enables human-friendly console
// output; otherwise the production JSON encoder is used.
func NewZapLogger(development bool) (logr.Logger, error) {
	var (
		zl  *zap.Logger
		err error
	)
	if development {
		zl, err = zap.NewDevelopment()
	} else {
		zl, err = zap.NewProduction()
	}
	if err != nil {
		return logr.Logger{}, err
	}
	return zapr.NewLogger(zl), nil
}
