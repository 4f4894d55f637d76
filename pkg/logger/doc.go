// Package logger wraps zerolog behind a small field-oriented interface.
//
// A process-wide logger is set up once from config.LoggingConfig:
//
//	if err := logger.Initialize(&cfg.Logging); err != nil {
//	    return err
//	}
//	logger.GetLogger().WithField("chat", "@channel").Info("Resolved chat")
//
// Without a log file, records are written to stderr through a
// zerolog.ConsoleWriter. With one, they are appended to the file only.
package logger
