package logging

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/2beens/fitcoach/pkg"

	"github.com/getsentry/sentry-go"
	log "github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

const logFileName = "fitcoach.log"

type SetupParams struct {
	LogsPath         string
	LogToStdout      bool
	LogLevel         string
	LogFormatJSON    bool
	Environment      string
	SentryEnabled    bool
	SentryDSN        string
	SentryServerName string
}

func Setup(params SetupParams) {
	if params.LogFormatJSON {
		log.SetFormatter(&log.JSONFormatter{})
	}
	log.SetLevel(GetLevel(params.LogLevel))

	if params.SentryEnabled {
		setupSentry(params)
	}

	if params.LogsPath == "" {
		log.SetOutput(os.Stdout)
		log.Println("writing logs only to STDOUT")
		return
	}

	fileLogger := &lumberjack.Logger{
		Filename:  logFilePath(params.LogsPath),
		MaxSize:   50, // megabytes
		MaxAge:    90, // days, same as the check-in retention
		LocalTime: false,
		Compress:  true,
	}

	if params.LogToStdout {
		log.SetOutput(pkg.NewCombinedWriter(os.Stdout, fileLogger))
		log.Printf("writing logs to [%s] and STDOUT", fileLogger.Filename)
	} else {
		log.SetOutput(fileLogger)
	}
}

func setupSentry(params SetupParams) {
	if err := sentry.Init(sentry.ClientOptions{
		Environment:      params.Environment,
		Dsn:              params.SentryDSN,
		TracesSampleRate: 1.0,
		ServerName:       params.SentryServerName,
	}); err != nil {
		log.Errorf("sentry init: %s", err)
		return
	}

	log.AddHook(NewSentryHook([]log.Level{
		log.PanicLevel,
		log.FatalLevel,
		log.ErrorLevel,
	}))
	log.Infoln("sentry set up")
}

// logFilePath accepts either a directory or a full *.log file path.
func logFilePath(logsPath string) string {
	if strings.HasSuffix(logsPath, ".log") {
		return logsPath
	}
	return filepath.Join(logsPath, logFileName)
}

func GetLevel(level string) log.Level {
	lvl, err := log.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		return log.TraceLevel
	}
	return lvl
}
