package clog

type Level int

const (
	LevelDebug Level = iota + 1
	LevelInfo
	LevelWarn
	LevelError
)

func HTTPStatusToLevel(status int) Level {
	switch {
	case status >= 100 && status < 400:
		return LevelInfo
	case status == 499:
		return LevelInfo
	case status >= 400 && status < 500:
		return LevelWarn
	case status >= 500:
		return LevelError
	default:
		return LevelError
	}
}

// ErrorCodeToLevel maps a cerr error code (by numeric value, to avoid an
// import cycle with pkg/cerr) to a log level. Caller mistakes log at info,
// server-side failures at error.
func ErrorCodeToLevel(code int) Level {
	switch code {
	case 1, 3, 4, 5, 6, 7, 9, 10, 11, 16: // canceled, invalid argument, deadline, not found, exists, denied, precondition, aborted, range, unauthenticated
		return LevelInfo
	case 2, 8, 12, 13, 14, 15: // unknown, exhausted, unimplemented, internal, unavailable, data loss
		return LevelError
	}
	return LevelError
}
