package logging

import "go.uber.org/zap"

// Thin wrappers over the zap field constructors so call sites only ever
// import this package.

func String(key, val string) zap.Field {
	return zap.String(key, val)
}

func Int(key string, val int) zap.Field {
	return zap.Int(key, val)
}

func Uint64(key string, val uint64) zap.Field {
	return zap.Uint64(key, val)
}

func Error(err error) zap.Field {
	return zap.Error(err)
}
