package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger define a interface para logging estruturado.
// A aplicação (Handler, Service, Repository) deve depender apenas desta interface.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, err error)
	Fatal(msg string, err error)
}

// Options configura o logger criado por New.
type Options struct {
	Level string // "debug", "info", "warn", "error"
	JSON  bool   // JSON em produção, texto em desenvolvimento
	File  string // se definido, também grava em arquivo rotacionado
	Out   io.Writer
}

// LogrusLogger é a implementação concreta de Logger sobre o logrus.
type LogrusLogger struct {
	entry *logrus.Entry
}

// NewLogger cria um logger JSON no stdout com o nível informado.
func NewLogger(level string) Logger {
	return New(Options{Level: level, JSON: true})
}

// New cria e retorna uma nova instância do Logger.
// Esta função é chamada no main.go.
func New(opts Options) Logger {
	l := logrus.New()
	l.SetLevel(parseLevel(opts.Level))

	if opts.JSON {
		l.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05Z07:00",
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime: "timestamp",
				logrus.FieldKeyMsg:  "message",
			},
		})
	} else {
		l.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}

	var out io.Writer = os.Stdout
	if opts.Out != nil {
		out = opts.Out
	}
	if opts.File != "" {
		// Rotação de log com lumberjack
		out = io.MultiWriter(out, &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    10, // MB
			MaxBackups: 5,
			MaxAge:     30, // dias
			Compress:   true,
		})
	}
	l.SetOutput(out)

	return &LogrusLogger{entry: logrus.NewEntry(l)}
}

func parseLevel(level string) logrus.Level {
	switch strings.ToLower(level) {
	case "debug":
		return logrus.DebugLevel
	case "warn", "warning":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}

func (l *LogrusLogger) Debug(msg string, fields map[string]interface{}) {
	l.entry.WithFields(fields).Debug(msg)
}

func (l *LogrusLogger) Info(msg string, fields map[string]interface{}) {
	l.entry.WithFields(fields).Info(msg)
}

func (l *LogrusLogger) Warn(msg string, fields map[string]interface{}) {
	l.entry.WithFields(fields).Warn(msg)
}

func (l *LogrusLogger) Error(msg string, err error) {
	l.entry.WithError(err).Error(msg)
}

// Fatal registra o erro e encerra o processo.
func (l *LogrusLogger) Fatal(msg string, err error) {
	l.entry.WithError(err).Fatal(msg)
}
