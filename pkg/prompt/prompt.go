// Package prompt implements the bounded request/response exchange used to
// obtain a severity decision from a moderator over DM.
package prompt

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/PancyStudios/WardenGo/pkg/models"
	"github.com/bwmarrin/discordgo"
)

// Exchange failures. The enclosing operation aborts on either; the exchange
// is never retried automatically.
var (
	ErrTimeout      = errors.New("timeout, operation cancelled")
	ErrInvalidInput = errors.New("invalid input, operation cancelled")
)

// SeverityMenu is the text shown to the moderator before the exchange.
const SeverityMenu = "Select warning severity:\n" +
	"```swift\n" +
	"0 - Initial Warning (first violation of a specific rule)\n" +
	"1 - Warning\n" +
	"3 - Strike\n" +
	"```"

// ParseSeverity validates one moderator response. Anything that is not an
// integer in {0, 1, 3} is an invalid-input failure.
func ParseSeverity(content string) (models.Severity, error) {
	value, err := strconv.Atoi(content)
	if err != nil {
		return 0, ErrInvalidInput
	}
	severity := models.Severity(value)
	if !severity.Valid() {
		return 0, ErrInvalidInput
	}
	return severity, nil
}

// NextMessage waits for the next message from authorID in channelID, up to
// the given window. It registers a temporary gateway handler and removes it
// on every exit path.
func NextMessage(ctx context.Context, s *discordgo.Session, channelID, authorID string, window time.Duration) (*discordgo.Message, error) {
	received := make(chan *discordgo.Message, 1)

	remove := s.AddHandler(func(_ *discordgo.Session, m *discordgo.MessageCreate) {
		if m.ChannelID != channelID || m.Author == nil || m.Author.ID != authorID {
			return
		}
		select {
		case received <- m.Message:
		default:
		}
	})
	defer remove()

	timer := time.NewTimer(window)
	defer timer.Stop()

	select {
	case m := <-received:
		return m, nil
	case <-timer.C:
		return nil, ErrTimeout
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
