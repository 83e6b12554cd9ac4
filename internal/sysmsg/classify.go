// internal/sysmsg/classify.go

// Package sysmsg classifies system-injected user messages by their leading
// bracketed tag. The tags are fixed markers agreed with the agent runtime;
// this package only pattern-matches and extracts, it does not validate the
// semantic correctness of extracted fields beyond type coercion.
package sysmsg

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Kind is the classification of a user message's content.
type Kind string

const (
	// KindNone marks genuine conversational content.
	KindNone Kind = "none"
	// KindSystem marks a system injection with no recognized sub-pattern.
	KindSystem                 Kind = "system"
	KindSpecialistNotification Kind = "specialist_notification"
	KindSpecialistReply        Kind = "specialist_reply"
	KindTeamMessage            Kind = "team_message"
	KindTeamRequest            Kind = "team_request"
	KindTaskNotification       Kind = "task_notification"
)

// Record is the structured extraction for a classified message. Only the
// fields relevant to the Kind are populated.
type Record struct {
	Kind Kind

	Role      string
	SessionID string
	Passed    bool
	Summary   string
	Message   string

	FromRole string
	ToRole   string
	Purpose  string

	TaskID string
	Status string

	Duration  time.Duration
	Tokens    int
	ToolCalls int
}

// tagPattern matches a leading bracketed tag with optional key=value
// attributes, capturing the tag name, the attribute blob, and the body.
var tagPattern = regexp.MustCompile(`(?s)^\[([A-Za-z][A-Za-z0-9_-]*)((?:\s+[A-Za-z_]+=[^\s\]]+)*)\]\s*(.*)$`)

// genericTagPattern recognizes any bracket-tagged message, including tags
// whose attribute section does not parse (truncated injections and the
// like).
var genericTagPattern = regexp.MustCompile(`^\[[^\]\n]+\]`)

// Classify is a total function over message content: it never fails, and
// content matching a sub-pattern only partially degrades to the generic
// system classification rather than being dropped.
func Classify(content string) Record {
	tag, attrs, body, ok := splitTag(content)
	if !ok {
		if genericTagPattern.MatchString(strings.TrimSpace(content)) {
			return Record{Kind: KindSystem}
		}
		return Record{Kind: KindNone}
	}

	var (
		rec     Record
		matched bool
	)
	switch strings.ToLower(tag) {
	case "specialist-complete":
		rec, matched = parseSpecialistNotification(attrs, body)
	case "specialist-reply":
		rec, matched = parseSpecialistReply(attrs, body)
	case "team-message":
		rec, matched = parseTeamMessage(attrs, body)
	case "team-request":
		rec, matched = parseTeamRequest(attrs, body)
	case "task-notification":
		rec, matched = parseTaskNotification(attrs, body)
	}
	if matched {
		return rec
	}
	return Record{Kind: KindSystem}
}

// IsSystem reports whether the content is any flavor of system injection.
func IsSystem(content string) bool {
	return Classify(content).Kind != KindNone
}

func splitTag(content string) (tag string, attrs map[string]string, body string, ok bool) {
	m := tagPattern.FindStringSubmatch(strings.TrimSpace(content))
	if m == nil {
		return "", nil, "", false
	}
	attrs = make(map[string]string)
	for _, field := range strings.Fields(m[2]) {
		k, v, found := strings.Cut(field, "=")
		if !found {
			continue
		}
		attrs[strings.ToLower(k)] = v
	}
	return m[1], attrs, strings.TrimSpace(m[3]), true
}

// parseSpecialistNotification handles completion notifications:
//
//	[specialist-complete role=reviewer session=s1 status=pass duration=42s tokens=1840 tools=6]
//	One-line summary of what the specialist did.
func parseSpecialistNotification(attrs map[string]string, body string) (Record, bool) {
	role := attrs["role"]
	if role == "" {
		return Record{}, false
	}
	rec := Record{
		Kind:      KindSpecialistNotification,
		Role:      role,
		SessionID: attrs["session"],
		Passed:    attrs["status"] == "pass",
		Status:    attrs["status"],
		Summary:   body,
	}
	rec.Duration, _ = time.ParseDuration(attrs["duration"])
	rec.Tokens = atoi(attrs["tokens"])
	rec.ToolCalls = atoi(attrs["tools"])
	return rec, true
}

// parseSpecialistReply handles direct replies from a specialist session:
//
//	[specialist-reply role=reviewer session=s1]
//	Free-text reply.
func parseSpecialistReply(attrs map[string]string, body string) (Record, bool) {
	role := attrs["role"]
	if role == "" || body == "" {
		return Record{}, false
	}
	return Record{
		Kind:      KindSpecialistReply,
		Role:      role,
		SessionID: attrs["session"],
		Message:   body,
	}, true
}

// parseTeamMessage handles peer-to-peer team traffic:
//
//	[team-message from=planner to=builder]
//	Free-text message.
func parseTeamMessage(attrs map[string]string, body string) (Record, bool) {
	from, to := attrs["from"], attrs["to"]
	if from == "" || to == "" {
		return Record{}, false
	}
	return Record{
		Kind:     KindTeamMessage,
		FromRole: from,
		ToRole:   to,
		Message:  body,
	}, true
}

// parseTeamRequest handles spawn requests for a new team member:
//
//	[team-request from=planner role=tester]
//	Purpose of the new session.
func parseTeamRequest(attrs map[string]string, body string) (Record, bool) {
	role := attrs["role"]
	if role == "" {
		return Record{}, false
	}
	return Record{
		Kind:     KindTeamRequest,
		FromRole: attrs["from"],
		Role:     role,
		Purpose:  body,
	}, true
}

// parseTaskNotification handles subagent/task lifecycle notes:
//
//	[task-notification id=t1 status=completed]
//	Summary of the task outcome.
func parseTaskNotification(attrs map[string]string, body string) (Record, bool) {
	id := attrs["id"]
	if id == "" {
		return Record{}, false
	}
	return Record{
		Kind:    KindTaskNotification,
		TaskID:  id,
		Status:  attrs["status"],
		Summary: body,
	}, true
}

func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
