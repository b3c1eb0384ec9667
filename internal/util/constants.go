package util

const (
	DateFormat = "2006-01-02"
	TimeFormat = "2006-01-02 15:04:05"
)

// KV 键前缀
const (
	KeyCustomChallenge = "custom_challenge:"
	KeyProfile         = "profile:"
	KeyProgress        = "progress:"
)
