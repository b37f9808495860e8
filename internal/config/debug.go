package config

import "os"

func IsDebug() bool {
	return os.Getenv("PROFREPLAY_DEBUG") == "1"
}
