package fetch

import (
	"context"
	"errors"
	"strings"

	"github.com/ytget/captube/internal/download"
	"github.com/ytget/captube/internal/model"
)

// messageRule maps fragments of backend error text to a kind. Rules are
// checked in order; the first match wins.
type messageRule struct {
	kind    model.ErrorKind
	markers []string
}

var messageRules = []messageRule{
	{model.ErrorUnsupportedFormat, []string{
		"requested format is not available",
		"no suitable format",
		"no video formats found",
	}},
	{model.ErrorContentUnavailable, []string{
		"private video",
		"video is private",
		"video unavailable",
		"this video is not available",
		"this video has been removed",
		"sign in to confirm your age",
		"age restricted",
		"members-only",
		"join this channel",
		"not available in your country",
		"geo blocked",
		"account associated with this video has been terminated",
		"unsupported url",
		"incomplete youtube id",
		"extract video id failed",
	}},
	{model.ErrorNetwork, []string{
		"unable to download webpage",
		"unable to download api page",
		"http error 429",
		"http error 5",
		"rate limited",
		"too many requests",
	}},
}

// classifyMessage maps free-form backend error text onto the taxonomy
func classifyMessage(msg string) model.ErrorKind {
	lower := strings.ToLower(msg)
	for _, rule := range messageRules {
		for _, marker := range rule.markers {
			if strings.Contains(lower, marker) {
				return rule.kind
			}
		}
	}
	return model.ErrorUnknown
}

// classifyFallback handles errors no backend specific check recognised
func classifyFallback(err error) error {
	if errors.Is(err, context.Canceled) {
		return model.NewFetchError(model.ErrorUnknown, err)
	}
	if kind := classifyMessage(err.Error()); kind != model.ErrorUnknown {
		return model.NewFetchError(kind, err)
	}
	if download.IsNetworkError(err) {
		return model.NewFetchError(model.ErrorNetwork, err)
	}
	return model.NewFetchError(model.ErrorUnknown, err)
}

// alreadyClassified reports whether err already carries a fetch kind
func alreadyClassified(err error) bool {
	var fe *model.FetchError
	return errors.As(err, &fe)
}
