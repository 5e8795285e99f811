package log

import (
	"fmt"

	"gopkg.in/Sirupsen/logrus.v0"
)

type Fields logrus.Fields

// Entry is a printf-style entry for messages logged once in a while (at
// power up or when loading a cartridge). Hot paths use EntryZ.
//
// Fields are computed only if the entry is actually emitted.
type Entry struct {
	mod    Module
	fields []func() Fields
}

func (entry Entry) WithFields(fields Fields) Entry {
	return entry.WithDelayedFields(func() Fields { return fields })
}

func (entry Entry) WithField(key string, value any) Entry {
	return entry.WithDelayedFields(func() Fields { return Fields{key: value} })
}

func (entry Entry) WithDelayedFields(getfields func() Fields) Entry {
	entry.fields = append(entry.fields[:len(entry.fields):len(entry.fields)], getfields)
	return entry
}

func (entry Entry) logf(lvl Level, format string, args ...any) {
	if !entry.mod.Enabled(lvl) {
		return
	}

	var z EntryZ
	for _, c := range contexts {
		c.AddLogContext(&z)
	}

	fields := logrus.Fields{"_mod": modNames[entry.mod]}
	for _, f := range entry.fields {
		for k, v := range f() {
			fields[k] = v
		}
	}
	for i := range z.zfbuf[:z.zfidx] {
		fields[z.zfbuf[i].Key] = z.zfbuf[i].Value()
	}

	e := logrus.StandardLogger().WithFields(fields)
	msg := fmt.Sprintf(format, args...)
	switch lvl {
	case DebugLevel:
		e.Debug(msg)
	case InfoLevel:
		e.Info(msg)
	case WarnLevel:
		e.Warn(msg)
	case ErrorLevel:
		e.Error(msg)
	case FatalLevel:
		e.Fatal(msg)
	case PanicLevel:
		e.Panic(msg)
	}
}

func (entry Entry) Debugf(format string, args ...any) { entry.logf(DebugLevel, format, args...) }
func (entry Entry) Infof(format string, args ...any)  { entry.logf(InfoLevel, format, args...) }
func (entry Entry) Warnf(format string, args ...any)  { entry.logf(WarnLevel, format, args...) }
func (entry Entry) Errorf(format string, args ...any) { entry.logf(ErrorLevel, format, args...) }
func (entry Entry) Fatalf(format string, args ...any) { entry.logf(FatalLevel, format, args...) }
