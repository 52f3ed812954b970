package executor

import (
	"fmt"
	"path/filepath"
	"runtime"
	"time"

	"github.com/google/uuid"

	"gmocoin/pkg/core"
)

// Call is one logical request as it moves through the middleware chain.
// Retries reuse the same Call; only Attempts changes between them.
type Call struct {
	// ID correlates every log line of the call.
	ID string
	// Name is the operation name, e.g. "PLACE_ORDER".
	Name string
	// Site is the file:line that issued the call.
	Site    string
	Request *core.Request
	// Body is the marshalled request body. It is produced once, then signed and sent as is.
	Body []byte
	// Decode consumes a 200 response body.
	Decode func(body []byte) error

	Attempts int
	Started  time.Time
}

// NewCall prepares a call for req issued from site.
func NewCall(req *core.Request, site string) *Call {
	return &Call{
		ID:      uuid.NewString(),
		Name:    req.Op.String(),
		Site:    site,
		Request: req,
	}
}

// CallerSite returns "file.go:line" for the frame skip levels above its caller.
func CallerSite(skip int) string {
	_, file, line, ok := runtime.Caller(skip + 1)
	if !ok {
		return "unknown"
	}
	return fmt.Sprintf("%s:%d", filepath.Base(file), line)
}
