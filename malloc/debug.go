package malloc

import (
	"fmt"
	"os"
)

// Debug flag - set to true to enable verbose tracing (compile-time toggle).
const debugAlloc = false

// Runtime debug flag for allocation logging - controlled by MEMKIT_LOG_ALLOC.
var logAlloc = os.Getenv("MEMKIT_LOG_ALLOC") != ""

// debugLogf prints allocator trace messages when tracing is enabled.
func debugLogf(format string, args ...any) {
	if debugAlloc || logAlloc {
		fmt.Fprintf(os.Stderr, "[ALLOC] "+format+"\n", args...)
	}
}
