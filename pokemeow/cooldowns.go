package pokemeow

import (
	"regexp"
	"strings"
	"time"

	"mew/models"
)

// Notice is a game cooldown PokéMeow announced for a trainer
type Notice struct {
	UserID int64
	Type   models.ScheduleType
	At     time.Time
}

var (
	catchbotReturn = regexp.MustCompile(`(?i)catchbot.*?(?:back|return)s?\s+(?:in\s+)?(.+)`)
	questCooldown  = regexp.MustCompile(`(?i)(?:new quest|quest).*?(?:in|available)\s+(.+)`)
	spookyStart    = regexp.MustCompile(`(?i)spooky hour`)
	spookyEnds     = regexp.MustCompile(`(?i)(?:ends?|lasts?|for)\s+(.+)`)
)

// ParseCatchbotReturn reads the catchbot "back in" message
func ParseCatchbotReturn(content string, now time.Time) (Notice, bool) {
	return parseNotice(catchbotReturn, models.ScheduleTypeCatchbot, content, now)
}

// ParseQuestCooldown reads the quest reroll cooldown message
func ParseQuestCooldown(content string, now time.Time) (Notice, bool) {
	return parseNotice(questCooldown, models.ScheduleTypeQuest, content, now)
}

func parseNotice(re *regexp.Regexp, t models.ScheduleType, content string, now time.Time) (Notice, bool) {
	m := re.FindStringSubmatch(content)
	if m == nil {
		return Notice{}, false
	}
	at, ok := resolveWhen(m[1], now)
	if !ok {
		return Notice{}, false
	}
	n := Notice{Type: t, At: at}
	n.UserID, _ = firstMention(content)
	return n, true
}

// ParseSpookyHour reads a spooky hour announcement and returns when it ends
func ParseSpookyHour(content string, now time.Time) (time.Time, bool) {
	if !spookyStart.MatchString(content) {
		return time.Time{}, false
	}
	if t, err := ParseDiscordTimestamp(content); err == nil {
		return t, t.After(now)
	}
	m := spookyEnds.FindStringSubmatch(content)
	if m == nil {
		// The event runs for an hour unless told otherwise
		return now.Add(time.Hour), true
	}
	at, ok := resolveWhen(m[1], now)
	return at, ok
}

// Cooldowns are PokéMeow's per-command waits
var Cooldowns = map[models.TimerKind]time.Duration{
	models.TimerPokemon: 8 * time.Second,
	models.TimerFish:    22 * time.Second,
	models.TimerBattle:  60 * time.Second,
	models.TimerExplore: 30 * time.Minute,
}

var timerCommands = map[string]models.TimerKind{
	"p":       models.TimerPokemon,
	"pokemon": models.TimerPokemon,
	"f":       models.TimerFish,
	"fish":    models.TimerFish,
	"b":       models.TimerBattle,
	"battle":  models.TimerBattle,
	"e":       models.TimerExplore,
	"explore": models.TimerExplore,
}

// TimerCommand is a user command that starts a PokéMeow cooldown
type TimerCommand struct {
	Kind     models.TimerKind
	Cooldown time.Duration
}

// ParseTimerCommand recognizes ";p", ";fish" and the other cooldown commands
func ParseTimerCommand(content string) (TimerCommand, bool) {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, ";") {
		return TimerCommand{}, false
	}
	fields := strings.Fields(strings.ToLower(content[1:]))
	if len(fields) == 0 {
		return TimerCommand{}, false
	}
	kind, ok := timerCommands[fields[0]]
	if !ok {
		return TimerCommand{}, false
	}
	return TimerCommand{Kind: kind, Cooldown: Cooldowns[kind]}, true
}
