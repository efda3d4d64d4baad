package compositor

import (
	"log"
	"os"
	"strings"
	"sync"
)

var (
	debugOnce   sync.Once
	debugLogger *log.Logger
)

func debugf(format string, args ...any) {
	debugOnce.Do(func() {
		if strings.TrimSpace(os.Getenv("DISPLAYCAP_DEBUG")) == "1" {
			debugLogger = log.New(os.Stderr, "displaycap/compositor ", log.LstdFlags|log.Lmicroseconds)
		}
	})
	if debugLogger != nil {
		debugLogger.Printf(format, args...)
	}
}
