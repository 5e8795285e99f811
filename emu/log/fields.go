package log

import (
	"fmt"
	"strconv"
	"time"
)

type fieldType uint8

const (
	fieldBool fieldType = iota + 1
	fieldString
	fieldStringer
	fieldHex8
	fieldHex16
	fieldInt
	fieldUint
	fieldError
	fieldDuration
)

// ZField is a typed field of an EntryZ, formatted only when emitted.
type ZField struct {
	Key string

	typ fieldType
	str string
	num uint64
	obj any // fmt.Stringer or error
}

// Value returns the field value as it appears in the log.
func (f *ZField) Value() string {
	switch f.typ {
	case fieldBool:
		return strconv.FormatBool(f.num != 0)
	case fieldString:
		return f.str
	case fieldStringer:
		return f.obj.(fmt.Stringer).String()
	case fieldHex8:
		return fmt.Sprintf("%02x", f.num)
	case fieldHex16:
		return fmt.Sprintf("%04x", f.num)
	case fieldInt:
		return strconv.FormatInt(int64(f.num), 10)
	case fieldUint:
		return strconv.FormatUint(f.num, 10)
	case fieldError:
		if f.obj == nil {
			return "<nil>"
		}
		return f.obj.(error).Error()
	case fieldDuration:
		return time.Duration(f.num).String()
	}
	return ""
}
