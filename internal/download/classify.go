package download

import (
	"context"
	"errors"
	"net"
	"net/url"
	"strings"

	"github.com/ytget/captube/internal/model"
)

// networkMarkers are fragments of transport errors that lost their type
// while being formatted by a backend library.
var networkMarkers = []string{
	"i/o timeout",
	"timeout",
	"timed out",
	"connection refused",
	"connection reset",
	"no such host",
	"network is unreachable",
	"tls handshake",
	"broken pipe",
	"temporary failure in name resolution",
}

// Classify maps a fetch failure onto the error taxonomy. Classified fetch
// errors keep their kind; everything else is inspected for transport
// failures and falls back to ErrorUnknown.
func Classify(err error) model.ErrorKind {
	if err == nil {
		return model.ErrorUnknown
	}

	if kind, ok := model.KindOf(err); ok {
		if kind.IsFetchKind() {
			return kind
		}
		return model.ErrorUnknown
	}

	if IsNetworkError(err) {
		return model.ErrorNetwork
	}
	return model.ErrorUnknown
}

// IsNetworkError reports whether err looks like a connectivity problem
func IsNetworkError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, marker := range networkMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
