package logger

import (
	"encoding/hex"
	"log/slog"
	"strconv"
)

// maxBytesLogged caps how much of a byte slice is rendered.
const maxBytesLogged = 32

// renderBytes turns []byte attributes into hex strings. Longer slices are
// cut to maxBytesLogged bytes and suffixed with their full length.
func renderBytes(a slog.Attr) slog.Attr {
	switch a.Value.Kind() {
	case slog.KindAny:
		if b, ok := a.Value.Any().([]byte); ok {
			return slog.String(a.Key, hexPrefix(b))
		}
	case slog.KindGroup:
		attrs := a.Value.Group()
		out := make([]slog.Attr, len(attrs))
		for i, attr := range attrs {
			out[i] = renderBytes(attr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(out...)}
	}
	return a
}

func hexPrefix(b []byte) string {
	if len(b) <= maxBytesLogged {
		return hex.EncodeToString(b)
	}
	return hex.EncodeToString(b[:maxBytesLogged]) + "...(" + strconv.Itoa(len(b)) + " bytes)"
}
