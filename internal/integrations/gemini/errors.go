package gemini

import (
	"errors"
	"fmt"

	"google.golang.org/genai"
)

// Sentinel limiter errors, bound to the configured limits in NewLimiter
var (
	ErrDailyLimitReached  = errors.New("gemini daily limit reached")
	ErrMinuteLimitReached = errors.New("gemini minute limit reached")
)

type BlockedErr struct {
	Feedback *genai.GenerateContentResponsePromptFeedback
}

// Implement error interface
func (b *BlockedErr) Error() string {

	if b.Feedback == nil {
		return "gemini returned no candidates with no reason"
	}

	return fmt.Sprintf(
		"gemini returned no candidates, reason=%s",
		b.Feedback.BlockReason,
	)
}
