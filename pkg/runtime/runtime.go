package runtime

import (
	"fmt"

	"github.com/adrg/xdg"
)

const (
	XDGName = "notepad"

	DebugLogName = "debug.log"
)

// File returns the path of filename in the notepad runtime directory,
// creating the directory when needed.
func File(filename string) (string, error) {
	return xdg.RuntimeFile(fmt.Sprintf("%s/%s", XDGName, filename))
}

// DebugLog is where --debug sends the log.
func DebugLog() (string, error) {
	return File(DebugLogName)
}
