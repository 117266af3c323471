// Package commands recognises spoken or typed control phrases that bypass the
// persona pipeline.
package commands

import "strings"

type Kind int

const (
	ClearHistory Kind = iota + 1
	ChangeTopic
	EndConversation
)

func (k Kind) String() string {
	switch k {
	case ClearHistory:
		return "clear_history"
	case ChangeTopic:
		return "change_topic"
	case EndConversation:
		return "end_conversation"
	default:
		return "unknown"
	}
}

// ClearsHistory reports whether the caller must reset the session's
// conversation history when this command fires.
func (k Kind) ClearsHistory() bool { return k == ClearHistory }

// Action is the canned outcome of a matched phrase.
type Action struct {
	Kind     Kind
	Phrase   string
	Response string
}

// Checked in order; the first phrase found wins.
var actions = []Action{
	{Kind: ClearHistory, Phrase: "smaž historii", Response: "Historie byla smazána."},
	{Kind: ChangeTopic, Phrase: "změň téma", Response: "Téma bylo změněno."},
	{Kind: EndConversation, Phrase: "ukonči konverzaci", Response: "Děkuji za konverzaci. Na shledanou!"},
}

// Match looks for a control phrase anywhere in text, ignoring case.
func Match(text string) (Action, bool) {
	lower := strings.ToLower(text)
	for _, a := range actions {
		if strings.Contains(lower, a.Phrase) {
			return a, true
		}
	}
	return Action{}, false
}
