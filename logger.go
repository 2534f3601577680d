package confd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path"
	"runtime"
	"strconv"
	"sync"
	"text/template"
	"time"
)

// Logger is used to log information generated at runtime. It never blocks a
// connection goroutine for longer than a buffer pool checkout and a single
// write.
type Logger struct {
	c *Controller

	template   *template.Template
	bufferPool *sync.Pool
	mutex      *sync.Mutex
	levels     []string

	Output io.Writer
}

// loggerLevel is the level of the Logger.
type loggerLevel uint8

// logger levels
const (
	lvlDebug loggerLevel = iota
	lvlInfo
	lvlWarn
	lvlError
	lvlAccess
	lvlFatal
)

// newLogger returns a new instance of Logger bound to c.
func newLogger(c *Controller) *Logger {
	return &Logger{
		c: c,
		bufferPool: &sync.Pool{
			New: func() interface{} {
				return bytes.NewBuffer(make([]byte, 0, 256))
			},
		},
		mutex: &sync.Mutex{},
		levels: []string{
			"DEBUG",
			"INFO",
			"WARN",
			"ERROR",
			"ACCESS",
			"FATAL",
		},
		Output: os.Stdout,
	}
}

// Debug logs a DEBUG level message built from i.
func (l *Logger) Debug(i ...interface{}) { l.log(lvlDebug, "", i...) }

// Debugf logs a DEBUG level message in the given format.
func (l *Logger) Debugf(format string, args ...interface{}) { l.log(lvlDebug, format, args...) }

// Debugj logs a DEBUG level message as JSON built from m.
func (l *Logger) Debugj(m map[string]interface{}) { l.log(lvlDebug, "json", m) }

// Info logs an INFO level message built from i.
func (l *Logger) Info(i ...interface{}) { l.log(lvlInfo, "", i...) }

// Infof logs an INFO level message in the given format.
func (l *Logger) Infof(format string, args ...interface{}) { l.log(lvlInfo, format, args...) }

// Infoj logs an INFO level message as JSON built from m.
func (l *Logger) Infoj(m map[string]interface{}) { l.log(lvlInfo, "json", m) }

// Warn logs a WARN level message built from i.
func (l *Logger) Warn(i ...interface{}) { l.log(lvlWarn, "", i...) }

// Warnf logs a WARN level message in the given format.
func (l *Logger) Warnf(format string, args ...interface{}) { l.log(lvlWarn, format, args...) }

// Error logs an ERROR level message built from i.
func (l *Logger) Error(i ...interface{}) { l.log(lvlError, "", i...) }

// Errorf logs an ERROR level message in the given format.
func (l *Logger) Errorf(format string, args ...interface{}) { l.log(lvlError, format, args...) }

// Access logs an ACCESS level message as JSON built from m. Used by
// middleware/accesslog for one line per completed request.
func (l *Logger) Access(m map[string]interface{}) { l.log(lvlAccess, "json", m) }

// Fatal logs a FATAL level message built from i, then exits the process.
func (l *Logger) Fatal(i ...interface{}) {
	l.log(lvlFatal, "", i...)
	os.Exit(1)
}

// Fatalf logs a FATAL level message in the given format, then exits the
// process.
func (l *Logger) Fatalf(format string, args ...interface{}) {
	l.log(lvlFatal, format, args...)
	os.Exit(1)
}

// log renders lvl's message through l.template and writes it to l.Output.
func (l *Logger) log(lvl loggerLevel, format string, args ...interface{}) {
	if !l.c.Config.LoggerEnabled {
		return
	} else if lvl == lvlDebug && !l.c.Config.DebugMode {
		return
	} else if l.template == nil {
		l.template = template.Must(
			template.New("logger").Parse(l.c.Config.LoggerFormat),
		)
	}

	l.mutex.Lock()
	defer l.mutex.Unlock()

	buf := l.bufferPool.Get().(*bytes.Buffer)
	buf.Reset()
	defer l.bufferPool.Put(buf)

	message := ""
	switch format {
	case "":
		message = fmt.Sprint(args...)
	case "json":
		b, _ := json.Marshal(args[0])
		message = string(b)
	default:
		message = fmt.Sprintf(format, args...)
	}

	_, file, line, _ := runtime.Caller(2)

	data := map[string]interface{}{
		"app_name":     l.c.Config.AppName,
		"time_rfc3339": time.Now().Format(time.RFC3339),
		"level":        l.levels[lvl],
		"short_file":   path.Base(file),
		"long_file":    file,
		"line":         strconv.Itoa(line),
	}

	if err := l.template.Execute(buf, data); err != nil {
		return
	}

	s := buf.String()
	i := buf.Len() - 1
	if i >= 0 && s[i] == '}' {
		buf.Truncate(i)
		buf.WriteByte(',')
		if format == "json" {
			buf.WriteString(message[1:])
		} else {
			buf.WriteString(`"message":"`)
			buf.WriteString(message)
			buf.WriteString(`"}`)
		}
	} else {
		buf.WriteByte(' ')
		buf.WriteString(message)
	}
	buf.WriteByte('\n')
	l.Output.Write(buf.Bytes())
}
