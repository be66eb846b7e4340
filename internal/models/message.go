package models

// Origin identifies who authored a turn
type Origin string

const (
	OriginUser Origin = "user"
	OriginBot  Origin = "bot"
)

// Turn is one message of the conversation. Turns are values and are never
// modified after being appended.
type Turn struct {
	Origin Origin
	Text   string
}

// UserTurn creates a turn authored by the user
func UserTurn(text string) Turn {
	return Turn{Origin: OriginUser, Text: text}
}

// BotTurn creates a turn authored by the bot
func BotTurn(text string) Turn {
	return Turn{Origin: OriginBot, Text: text}
}

// IsUser reports whether the turn was authored by the user
func (t Turn) IsUser() bool {
	return t.Origin == OriginUser
}
