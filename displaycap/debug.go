package displaycap

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
)

var (
	debugEnabledOnce sync.Once
	debugEnabledFlag bool

	debugOutputOnce sync.Once
	debugOutput     io.Writer = os.Stderr

	debugLoggerOnce sync.Once
	debugLogger     *log.Logger
)

func debugEnabled() bool {
	debugEnabledOnce.Do(func() {
		debugEnabledFlag = strings.TrimSpace(os.Getenv("DISPLAYCAP_DEBUG")) == "1"
	})
	return debugEnabledFlag
}

func debugWriter() io.Writer {
	debugOutputOnce.Do(func() {
		p := strings.TrimSpace(os.Getenv("DISPLAYCAP_DEBUG_FILE"))
		if p == "" {
			return
		}
		f, err := os.OpenFile(p, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
		if err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "displaycap debug log open failed: %v\n", err)
			return
		}
		debugOutput = f
	})
	return debugOutput
}

func debugf(format string, args ...any) {
	if !debugEnabled() {
		return
	}
	debugLoggerOnce.Do(func() {
		debugLogger = log.New(debugWriter(), "displaycap ", log.LstdFlags|log.Lmicroseconds)
	})
	debugLogger.Printf(format, args...)
}
