package internal

import (
	"fmt"
	"foodcourt/services"
	"log"
	"time"
)

// LogMessage is a single log record; when a database is attached it is also
// written to the service_log collection.
type LogMessage struct {
	Time    time.Time `json:"time" bson:"time"`
	Level   string    `json:"level" bson:"level"`
	Channel string    `json:"channel" bson:"channel"`
	Text    string    `json:"text" bson:"text"`
}

func (m *LogMessage) DataType() string {
	return "log_message"
}

type Logger struct {
	channel  string
	isDebug  bool
	database services.Database
}

// NewLogger creates a named log channel. When database is not nil, records
// are mirrored into the document store in addition to stdout.
func NewLogger(channel string, isDebug bool, database services.Database) services.LogHandler {
	return &Logger{
		channel:  channel,
		isDebug:  isDebug,
		database: database,
	}
}

func (l *Logger) Debug(message string) {
	if !l.isDebug {
		return
	}
	l.write("DEBUG", message)
}

func (l *Logger) Info(message string) {
	l.write("INFO", message)
}

func (l *Logger) Warn(message string) {
	l.write("WARN", message)
}

func (l *Logger) Error(message string, err error) {
	l.write("ERROR", fmt.Sprintf("%s: %v", message, err))
}

func (l *Logger) write(level, text string) {
	log.Printf("%s\t%s: %s", level, l.channel, text)
	if l.database == nil {
		return
	}
	message := &LogMessage{
		Time:    time.Now(),
		Level:   level,
		Channel: l.channel,
		Text:    text,
	}
	if err := l.database.WriteLogMessage(message); err != nil {
		log.Printf("ERROR\t%s: write log message: %v", l.channel, err)
	}
}
