package logger

// Multi fans every message out to several loggers.
type Multi []Logger

// NewMulti drops nil loggers and returns the rest as one Logger.
func NewMulti(loggers ...Logger) Multi {
	out := make(Multi, 0, len(loggers))
	for _, l := range loggers {
		if l != nil {
			out = append(out, l)
		}
	}
	return out
}

func (m Multi) LogTrace(message string) {
	for _, l := range m {
		l.LogTrace(message)
	}
}

func (m Multi) LogDebug(message string) {
	for _, l := range m {
		l.LogDebug(message)
	}
}

func (m Multi) LogInfo(message string) {
	for _, l := range m {
		l.LogInfo(message)
	}
}

func (m Multi) LogWarn(message string) {
	for _, l := range m {
		l.LogWarn(message)
	}
}

func (m Multi) LogError(message string) {
	for _, l := range m {
		l.LogError(message)
	}
}

func (m Multi) LogProgress(done, total int) {
	for _, l := range m {
		l.LogProgress(done, total)
	}
}

func (m Multi) LogSummary(s Summary) {
	for _, l := range m {
		l.LogSummary(s)
	}
}
