package log

import (
	"fmt"
	"io"
	"sync"
	"time"

	"gopkg.in/Sirupsen/logrus.v0"
)

type Level uint32

// Same ordering as logrus, lower is more severe.
const (
	PanicLevel Level = iota
	FatalLevel
	ErrorLevel
	WarnLevel
	InfoLevel
	DebugLevel
)

// A Context adds fields to every log entry. The emulator registers one to
// stamp entries with the current frame and program counter.
type Context interface {
	AddLogContext(entry *EntryZ)
}

var (
	contexts []Context
	disabled bool
)

func AddContext(ctx Context) {
	contexts = append(contexts, ctx)
}

func RemoveContext(ctx Context) {
	for i := range contexts {
		if contexts[i] == ctx {
			contexts = append(contexts[:i], contexts[i+1:]...)
			return
		}
	}
}

// Disable turns off all logging, including warnings and errors.
func Disable() {
	disabled = true
	logrus.SetOutput(io.Discard)
}

func SetOutput(w io.Writer) {
	logrus.SetOutput(w)
}

const maxZFields = 16

// EntryZ is a log entry built by chaining typed field setters, then emitted
// with End. A nil *EntryZ is valid and discards everything, so that disabled
// levels cost a single nil check per call.
type EntryZ struct {
	mod   Module
	lvl   Level
	msg   string
	zfbuf [maxZFields]ZField
	zfidx int
}

var entryPool = sync.Pool{
	New: func() any { return new(EntryZ) },
}

func NewEntryZ() *EntryZ {
	e := entryPool.Get().(*EntryZ)
	e.zfidx = 0
	return e
}

func (e *EntryZ) add(f ZField) *EntryZ {
	if e == nil {
		return nil
	}
	if e.zfidx < maxZFields {
		e.zfbuf[e.zfidx] = f
		e.zfidx++
	}
	return e
}

func (e *EntryZ) Bool(key string, v bool) *EntryZ {
	var n uint64
	if v {
		n = 1
	}
	return e.add(ZField{Key: key, typ: fieldBool, num: n})
}

func (e *EntryZ) String(key string, v string) *EntryZ {
	return e.add(ZField{Key: key, typ: fieldString, str: v})
}

func (e *EntryZ) Stringer(key string, v fmt.Stringer) *EntryZ {
	return e.add(ZField{Key: key, typ: fieldStringer, obj: v})
}

func (e *EntryZ) Hex8(key string, v uint8) *EntryZ {
	return e.add(ZField{Key: key, typ: fieldHex8, num: uint64(v)})
}

func (e *EntryZ) Hex16(key string, v uint16) *EntryZ {
	return e.add(ZField{Key: key, typ: fieldHex16, num: uint64(v)})
}

func (e *EntryZ) Uint16(key string, v uint16) *EntryZ {
	return e.add(ZField{Key: key, typ: fieldUint, num: uint64(v)})
}

func (e *EntryZ) Int(key string, v int) *EntryZ {
	return e.add(ZField{Key: key, typ: fieldInt, num: uint64(v)})
}

func (e *EntryZ) Int64(key string, v int64) *EntryZ {
	return e.add(ZField{Key: key, typ: fieldInt, num: uint64(v)})
}

func (e *EntryZ) Error(key string, err error) *EntryZ {
	return e.add(ZField{Key: key, typ: fieldError, obj: err})
}

func (e *EntryZ) Duration(key string, d time.Duration) *EntryZ {
	return e.add(ZField{Key: key, typ: fieldDuration, num: uint64(d)})
}

// End emits the entry. The entry must not be used afterwards.
func (e *EntryZ) End() {
	if e == nil {
		return
	}

	// Contexts append to the same buffer, after the caller's own fields.
	for _, c := range contexts {
		c.AddLogContext(e)
	}

	fields := make(logrus.Fields, e.zfidx+1)
	fields["_mod"] = modNames[e.mod]
	for i := range e.zfbuf[:e.zfidx] {
		fields[e.zfbuf[i].Key] = e.zfbuf[i].Value()
	}
	entry := logrus.StandardLogger().WithFields(fields)

	lvl, msg := e.lvl, e.msg
	clear(e.zfbuf[:e.zfidx])
	entryPool.Put(e)

	switch lvl {
	case DebugLevel:
		entry.Debug(msg)
	case InfoLevel:
		entry.Info(msg)
	case WarnLevel:
		entry.Warn(msg)
	case ErrorLevel:
		entry.Error(msg)
	case FatalLevel:
		entry.Fatal(msg)
	case PanicLevel:
		entry.Panic(msg)
	}
}
