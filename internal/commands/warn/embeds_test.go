package warn

import (
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/PancyStudios/WardenGo/pkg/models"
	"github.com/PancyStudios/WardenGo/pkg/warnings"
)

func findField(embed *discordgo.MessageEmbed, name string) *discordgo.MessageEmbedField {
	for _, f := range embed.Fields {
		if strings.HasPrefix(f.Name, name) {
			return f
		}
	}
	return nil
}

func TestAddStateToEmbedGlyphs(t *testing.T) {
	state := warnings.WarningState{Warnings: 2, Strikes: 1, LastTick: time.Now().UTC()}
	embed := addStateToEmbed(&discordgo.MessageEmbed{}, state)

	warns := findField(embed, "Warnings (2)")
	if warns == nil || warns.Value != "⚠️ ⚠️ " {
		t.Fatalf("warnings field = %+v", warns)
	}
	strikes := findField(embed, "Strikes (1)")
	if strikes == nil || strikes.Value != "❌ " {
		t.Fatalf("strikes field = %+v", strikes)
	}
	if embed.Color != colorRed {
		t.Errorf("color = %#x, want red when strikes present", embed.Color)
	}
}

func TestAddStateToEmbedClean(t *testing.T) {
	embed := addStateToEmbed(&discordgo.MessageEmbed{}, warnings.WarningState{})

	f := findField(embed, "Warnings (0)")
	if f == nil || f.Value != "No warnings, well done!" {
		t.Fatalf("clean-state field = %+v", f)
	}
	if embed.Color != colorGreen {
		t.Errorf("color = %#x, want green", embed.Color)
	}
}

func TestAddStateToEmbedPrecedence(t *testing.T) {
	now := time.Now().UTC()
	muted := now.Add(10 * 24 * time.Hour)

	// Mute expiry beats probation and the decay countdown.
	state := warnings.WarningState{Strikes: 1, MutedUntil: &muted, LastTick: muted}
	embed := addStateToEmbed(&discordgo.MessageEmbed{}, state)
	if findField(embed, "Strike mute penalty expires in") == nil {
		t.Error("expected mute expiry field")
	}
	if findField(embed, "Probation ends in") != nil {
		t.Error("probation field must not appear while muted")
	}

	// Probation beats the decay countdown.
	state = warnings.WarningState{Strikes: 1, LastTick: now.Add(24 * time.Hour)}
	embed = addStateToEmbed(&discordgo.MessageEmbed{}, state)
	if findField(embed, "Probation ends in") == nil {
		t.Error("expected probation field")
	}

	// Past the last tick the decay countdown shows.
	state = warnings.WarningState{Warnings: 1, LastTick: now.Add(-24 * time.Hour)}
	embed = addStateToEmbed(&discordgo.MessageEmbed{}, state)
	if findField(embed, "Next warning expires in") == nil {
		t.Error("expected next-warning-expiry field")
	}

	state = warnings.WarningState{Strikes: 1, LastTick: now.Add(-24 * time.Hour)}
	embed = addStateToEmbed(&discordgo.MessageEmbed{}, state)
	if findField(embed, "Next strike expires in") == nil {
		t.Error("expected next-strike-expiry field")
	}
}

func TestIssuedEmbedInitialHidesState(t *testing.T) {
	w := models.Warning{ID: 5, UserID: "u", IssuerID: "m", ChannelID: "c", Severity: models.SeverityInitial, Reason: "r"}
	state := warnings.WarningState{Warnings: 3}

	embed := issuedEmbed(nil, w, state)
	if embed.Title != "**Initial Warning**" {
		t.Errorf("title = %q", embed.Title)
	}
	if findField(embed, "Warnings (3)") != nil {
		t.Error("initial warning must not show the escalation state")
	}

	w.Severity = models.SeverityStrike
	embed = issuedEmbed(nil, w, state)
	if embed.Title != "**Strike**" {
		t.Errorf("title = %q", embed.Title)
	}
	if findField(embed, "Warnings (3)") == nil {
		t.Error("non-initial warning must show the escalation state")
	}
}

func TestHumanDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{14 * 24 * time.Hour, "14 days"},
		{24*time.Hour + 5*time.Hour, "1 day, 5 hours"},
		{3 * time.Hour, "3 hours"},
		{90 * time.Minute, "1 hour, 30 minutes"},
		{45 * time.Minute, "45 minutes"},
		{30 * time.Second, "less than a minute"},
		{-time.Hour, "less than a minute"},
	}
	for _, tt := range tests {
		if got := humanDuration(tt.d); got != tt.want {
			t.Errorf("humanDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestWarningLineRemovedInfo(t *testing.T) {
	removed := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	w := models.Warning{
		ID: 9, UserID: "u", IssuerID: "m", ChannelID: "chan", MessageID: "msg",
		IssueDate: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		Severity:  models.SeverityWarning, Reason: "spamming",
		RemoveDate: &removed, RemoverID: "other", RemoveReason: "appealed",
		RemoveChannelID: "rchan", RemoveMessageID: "rmsg",
	}

	line := warningLine(w, "guild", "mod#0001", "other#0002")
	for _, want := range []string{
		"**Warning 9 (02/01/2024, removed on 03/05/2024)**",
		"spamming",
		"Remove Reason: appealed",
		"[mod#0001](https://discordapp.com/channels/guild/chan/msg)",
		"Removed by [other#0002](https://discordapp.com/channels/guild/rchan/rmsg)",
	} {
		if !strings.Contains(line, want) {
			t.Errorf("line missing %q:\n%s", want, line)
		}
	}
}

func TestListEmbedsSplit(t *testing.T) {
	line := strings.Repeat("x", 600) + "\n"
	lines := []string{line, line, line, line}

	embeds := listEmbeds(lines)
	if len(embeds) != 2 {
		t.Fatalf("embeds = %d, want 2", len(embeds))
	}
	for i, e := range embeds {
		if len(e.Description) > embedDescriptionLimit {
			t.Errorf("embed %d description %d chars, over the limit", i, len(e.Description))
		}
	}
}

func TestInsertField(t *testing.T) {
	fields := []*discordgo.MessageEmbedField{
		{Name: "a"}, {Name: "b"}, {Name: "c"},
	}
	out := insertField(fields, 1, &discordgo.MessageEmbedField{Name: "x"})
	got := make([]string, len(out))
	for i, f := range out {
		got[i] = f.Name
	}
	if strings.Join(got, "") != "axbc" {
		t.Errorf("order = %v", got)
	}

	out = insertField(out, 99, &discordgo.MessageEmbedField{Name: "z"})
	if out[len(out)-1].Name != "z" {
		t.Errorf("out-of-range insert should append, got %v", out)
	}
}
