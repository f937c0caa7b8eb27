package slack

// errorDescriptions translates Slack's machine-readable API error codes into
// readable text for logs. The codes never drive control flow: a failed send
// is logged and the remaining targets are processed regardless.
var errorDescriptions = map[string]string{
	"not_authed":        "No authentication token provided.",
	"invalid_auth":      "Invalid authentication token.",
	"account_inactive":  "Authentication token is for a deleted user or team.",
	"channel_not_found": "Value passed for channel was invalid.",
	"not_in_channel":    "Cannot post user messages to a channel they are not in.",
	"is_archived":       "Channel has been archived.",
	"msg_too_long":      "Message text is too long.",
	"no_text":           "No message text provided.",
	"rate_limited":      "Application has posted too many messages.",
}

// DescribeError returns the human-readable description for a Slack API error
// code, falling back to the raw error text for unknown codes.
func DescribeError(err error) string {
	if desc, ok := errorDescriptions[err.Error()]; ok {
		return desc
	}
	return err.Error()
}
