package log

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/op/go-logging"
)

// Level orders verbosity from Debug (most) to Error (least)
type Level int

const (
	Debug Level = iota
	Info
	Notice
	Warning
	Error
)

// Names of the module loggers. The name is printed in the module column and
// selects the logger in SetModuleLevel.
const (
	CLI        = "cli"
	Integrator = "bdpt"
	Renderer   = "renderer"
)

// Modules lists every module logger name
var Modules = []string{CLI, Integrator, Renderer}

var toBackend = map[Level]logging.Level{
	Debug:   logging.DEBUG,
	Info:    logging.INFO,
	Notice:  logging.NOTICE,
	Warning: logging.WARNING,
	Error:   logging.ERROR,
}

var format = logging.MustStringFormatter(
	`%{color}[%{time:15:04:05.000}] [%{module}] [%{level}]%{color:reset} %{message}`,
)

var (
	leveledBackend logging.LeveledBackend
	defaultLevel   = Notice
	moduleLevels   = map[string]Level{}
)

// Logger is the leveled logger used by every package of the renderer.
type Logger interface {
	Debug(v ...interface{})
	Debugf(format string, v ...interface{})

	Notice(v ...interface{})
	Noticef(format string, v ...interface{})

	Info(v ...interface{})
	Infof(format string, v ...interface{})

	Warning(v ...interface{})
	Warningf(format string, v ...interface{})

	Error(v ...interface{})
	Errorf(format string, v ...interface{})
}

// New returns the logger of one of the Modules
func New(module string) Logger {
	return logging.MustGetLogger(module)
}

func (l Level) String() string {
	if lvl, ok := toBackend[l]; ok {
		return strings.ToLower(lvl.String())
	}
	return fmt.Sprintf("level(%d)", int(l))
}

// ParseLevel accepts the level names printed by the logger, in any case
func ParseLevel(name string) (Level, error) {
	lvl, err := logging.LogLevel(name)
	if err != nil {
		return 0, fmt.Errorf("unknown log level %q", name)
	}
	for l, backend := range toBackend {
		if backend == lvl {
			return l, nil
		}
	}
	return 0, fmt.Errorf("unsupported log level %q", name)
}

// SetSink redirects log output. Levels are preserved.
func SetSink(sink io.Writer) {
	backend := logging.NewLogBackend(sink, "", 0)
	leveledBackend = logging.AddModuleLevel(logging.NewBackendFormatter(backend, format))
	applyLevels()
	logging.SetBackend(leveledBackend)
}

// SetLevel sets the verbosity of every module and drops module overrides
func SetLevel(level Level) {
	defaultLevel = level
	moduleLevels = map[string]Level{}
	applyLevels()
}

// SetModuleLevel overrides the verbosity of a single module
func SetModuleLevel(module string, level Level) error {
	if !isModule(module) {
		return fmt.Errorf("unknown log module %q (known: %s)", module, strings.Join(Modules, ", "))
	}
	moduleLevels[module] = level
	applyLevels()
	return nil
}

// SetModuleLevels applies a comma separated list of module=level pairs,
// e.g. "bdpt=debug,renderer=warning"
func SetModuleLevels(spec string) error {
	for _, pair := range strings.Split(spec, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		module, name, ok := strings.Cut(pair, "=")
		if !ok {
			return fmt.Errorf("log level %q is not of the form module=level", pair)
		}
		level, err := ParseLevel(strings.TrimSpace(name))
		if err != nil {
			return err
		}
		if err := SetModuleLevel(strings.TrimSpace(module), level); err != nil {
			return err
		}
	}
	return nil
}

// Enabled reports whether module logs messages at level
func Enabled(module string, level Level) bool {
	return leveledBackend.IsEnabledFor(toBackend[level], module)
}

func isModule(module string) bool {
	for _, m := range Modules {
		if m == module {
			return true
		}
	}
	return false
}

func applyLevels() {
	if leveledBackend == nil {
		return
	}
	leveledBackend.SetLevel(toBackend[defaultLevel], "")
	for _, m := range Modules {
		level, ok := moduleLevels[m]
		if !ok {
			level = defaultLevel
		}
		leveledBackend.SetLevel(toBackend[level], m)
	}
}

// Levels describes the active level of every module, sorted by name
func Levels() string {
	names := append([]string(nil), Modules...)
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, m := range names {
		level, ok := moduleLevels[m]
		if !ok {
			level = defaultLevel
		}
		parts[i] = m + "=" + level.String()
	}
	return strings.Join(parts, ",")
}

func init() {
	SetSink(os.Stdout)
}
