package utils

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/Yumax-panda/Mario-Kart/constants"
	"github.com/rs/zerolog"
)

type LogLevel int

const (
	DEBUG LogLevel = iota
	INFO
	WARN
	ERROR
)

// Logger zerolog 위에 레벨별 포맷 로깅 API를 제공합니다
type Logger struct {
	level  LogLevel
	logger zerolog.Logger
}

var globalLogger *Logger

func init() {
	globalLogger = NewLogger()
}

// NewLogger 환경변수 설정으로 새 로거를 생성합니다
func NewLogger() *Logger {
	jsonOutput, _ := strconv.ParseBool(os.Getenv(constants.EnvJSONLogging))
	return newLogger(os.Stdout, ParseLogLevel(os.Getenv(constants.EnvLogLevel)), jsonOutput)
}

func newLogger(out io.Writer, level LogLevel, jsonOutput bool) *Logger {
	writer := out
	if !jsonOutput {
		writer = zerolog.ConsoleWriter{Out: out, TimeFormat: constants.DateTimeFormat, NoColor: true}
	}

	return &Logger{
		level:  level,
		logger: zerolog.New(writer).Level(level.zerologLevel()).With().Timestamp().Logger(),
	}
}

// Configure 전역 로거의 레벨과 출력 형식을 다시 설정합니다
func Configure(level string, jsonOutput bool) {
	globalLogger = newLogger(os.Stdout, ParseLogLevel(level), jsonOutput)
}

// ParseLogLevel 로그 레벨 문자열을 LogLevel로 변환합니다
func ParseLogLevel(levelStr string) LogLevel {
	switch strings.ToUpper(levelStr) {
	case constants.LogLevelDebug:
		return DEBUG
	case constants.LogLevelInfo:
		return INFO
	case constants.LogLevelWarn:
		return WARN
	case constants.LogLevelError:
		return ERROR
	default:
		return INFO
	}
}

func (level LogLevel) zerologLevel() zerolog.Level {
	switch level {
	case DEBUG:
		return zerolog.DebugLevel
	case WARN:
		return zerolog.WarnLevel
	case ERROR:
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

func (l *Logger) log(level LogLevel, fields map[string]string, format string, args ...interface{}) {
	if level < l.level {
		return
	}

	event := l.logger.WithLevel(level.zerologLevel())
	for key, value := range fields {
		event = event.Str(key, value)
	}

	// 보안: 민감한 정보가 로그에 기록되지 않도록 필터링
	event.Msg(filterSensitiveInfo(fmt.Sprintf(format, args...)))
}

var (
	discordTokenPattern = regexp.MustCompile(`[A-Za-z0-9_\-]{20,}\.[A-Za-z0-9_\-]{5,}\.[A-Za-z0-9_\-]{20,}`)
	keyValuePattern     = regexp.MustCompile(`(?i)(token|key|secret|password)(\s*[=:"]\s*)\S+`)
)

// filterSensitiveInfo 민감한 정보를 로그에서 마스킹합니다
func filterSensitiveInfo(message string) string {
	message = discordTokenPattern.ReplaceAllString(message, "***DISCORD_TOKEN***")
	return keyValuePattern.ReplaceAllString(message, "$1$2***MASKED***")
}

func (l *Logger) Debug(format string, args ...interface{}) {
	l.log(DEBUG, nil, format, args...)
}

func (l *Logger) Info(format string, args ...interface{}) {
	l.log(INFO, nil, format, args...)
}

func (l *Logger) Warn(format string, args ...interface{}) {
	l.log(WARN, nil, format, args...)
}

func (l *Logger) Error(format string, args ...interface{}) {
	l.log(ERROR, nil, format, args...)
}

// FieldLogger 고정 필드를 포함해 로그를 남깁니다
type FieldLogger struct {
	parent *Logger
	fields map[string]string
}

// WithFields 주어진 필드를 모든 로그 라인에 붙이는 로거를 반환합니다
func WithFields(fields map[string]string) *FieldLogger {
	return &FieldLogger{parent: globalLogger, fields: fields}
}

func (f *FieldLogger) Debug(format string, args ...interface{}) {
	f.parent.log(DEBUG, f.fields, format, args...)
}

func (f *FieldLogger) Info(format string, args ...interface{}) {
	f.parent.log(INFO, f.fields, format, args...)
}

func (f *FieldLogger) Warn(format string, args ...interface{}) {
	f.parent.log(WARN, f.fields, format, args...)
}

func (f *FieldLogger) Error(format string, args ...interface{}) {
	f.parent.log(ERROR, f.fields, format, args...)
}

// Elapsed 작업 시작 시각으로부터 경과 시간을 밀리초 문자열로 반환합니다
func Elapsed(start time.Time) string {
	return strconv.FormatInt(time.Since(start).Milliseconds(), 10) + "ms"
}

// 글로벌 로거 함수들
func Debug(format string, args ...interface{}) {
	globalLogger.Debug(format, args...)
}

func Info(format string, args ...interface{}) {
	globalLogger.Info(format, args...)
}

func Warn(format string, args ...interface{}) {
	globalLogger.Warn(format, args...)
}

func Error(format string, args ...interface{}) {
	globalLogger.Error(format, args...)
}
