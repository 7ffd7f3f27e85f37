package logger

import "go.uber.org/zap"

var Log = zap.NewNop()

func Init(debug bool) {
	var err error
	if debug {
		Log, err = zap.NewDevelopment()
	} else {
		cfg := zap.NewProductionConfig()
		cfg.DisableStacktrace = true
		Log, err = cfg.Build()
	}

	if err != nil {
		panic(err)
	}
}

func Sync() {
	_ = Log.Sync()
}
