// ABOUTME: Input validation for AI gateway request payloads
// ABOUTME: Enforces size, shape, and charset bounds before any slot or upstream work

package services

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/FutureSkillr/SkillR-MVP-V1-sub000/models"
)

// Bounds applied across operations.
const (
	MaxMessageLength = 2000
	MaxHistoryLength = 50
	MaxGoalLength    = 500
	MaxModuleLength  = 200
	MaxTTSTextLength = 1000
	MaxAudioBytes    = 8 << 20 // 8MB decoded
)

// Identifier patterns. Restrictive character classes close the door on
// header/log injection and on identifier fields doubling as prompt channels.
var (
	promptKeyPattern   = regexp.MustCompile(`^[a-z0-9-]{1,64}$`)
	journeyTypePattern = regexp.MustCompile(`^[a-z0-9-]{1,64}$`)
	stationIDPattern   = regexp.MustCompile(`^[a-zA-Z0-9_-]{1,64}$`)
	dialectPattern     = regexp.MustCompile(`^[a-z]{2}(-[A-Z]{2})?$`)
)

// allowedAudioMimeTypes bounds what the speech-to-text endpoint will forward.
var allowedAudioMimeTypes = map[string]bool{
	"audio/webm": true,
	"audio/ogg":  true,
	"audio/wav":  true,
	"audio/mp4":  true,
	"audio/mpeg": true,
}

// ValidateMessage checks a single user message.
func ValidateMessage(msg string) error {
	if strings.TrimSpace(msg) == "" {
		return fmt.Errorf("userMessage is required")
	}
	if len(msg) > MaxMessageLength {
		return fmt.Errorf("userMessage exceeds %d characters", MaxMessageLength)
	}
	return nil
}

// ValidateHistory checks a chat history: length cap, the closed role set,
// and per-entry content bounds. Unrecognized roles are rejected uniformly.
func ValidateHistory(history []models.ChatMessage) error {
	if len(history) > MaxHistoryLength {
		return fmt.Errorf("history exceeds %d entries", MaxHistoryLength)
	}
	for i, entry := range history {
		if entry.Role != models.RoleUser && entry.Role != models.RoleModel {
			return fmt.Errorf("history entry %d has invalid role", i)
		}
		if len(entry.Content) > MaxMessageLength {
			return fmt.Errorf("history entry %d exceeds %d characters", i, MaxMessageLength)
		}
	}
	return nil
}

// ValidatePromptKey checks a caller-supplied prompt key. Empty is allowed
// (the registry resolves it to the default instruction).
func ValidatePromptKey(key string) error {
	if key == "" {
		return nil
	}
	if !promptKeyPattern.MatchString(key) {
		return fmt.Errorf("promptKey has invalid format")
	}
	return nil
}

// ValidateJourneyType checks a journey type identifier.
func ValidateJourneyType(journeyType string) error {
	if !journeyTypePattern.MatchString(journeyType) {
		return fmt.Errorf("journeyType has invalid format")
	}
	return nil
}

// ValidateStationID checks a station identifier.
func ValidateStationID(stationID string) error {
	if !stationIDPattern.MatchString(stationID) {
		return fmt.Errorf("stationId has invalid format")
	}
	return nil
}

// ValidateGoal checks a free-form learning goal.
func ValidateGoal(goal string) error {
	if strings.TrimSpace(goal) == "" {
		return fmt.Errorf("goal is required")
	}
	if len(goal) > MaxGoalLength {
		return fmt.Errorf("goal exceeds %d characters", MaxGoalLength)
	}
	return nil
}

// ValidateModuleTitle checks a module title for course generation.
func ValidateModuleTitle(module string) error {
	if strings.TrimSpace(module) == "" {
		return fmt.Errorf("module is required")
	}
	if len(module) > MaxModuleLength {
		return fmt.Errorf("module exceeds %d characters", MaxModuleLength)
	}
	return nil
}

// ValidateTTSText checks text for speech synthesis.
func ValidateTTSText(text string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("text is required")
	}
	if len(text) > MaxTTSTextLength {
		return fmt.Errorf("text exceeds %d characters", MaxTTSTextLength)
	}
	return nil
}

// ValidateDialect checks a BCP-47-style dialect tag ("de", "de-CH").
func ValidateDialect(dialect string) error {
	if !dialectPattern.MatchString(dialect) {
		return fmt.Errorf("dialect has invalid format")
	}
	return nil
}

// ValidateAudioMimeType checks the declared audio container type.
func ValidateAudioMimeType(mimeType string) error {
	if !allowedAudioMimeTypes[mimeType] {
		return fmt.Errorf("unsupported audio mimeType")
	}
	return nil
}

// SanitizePrompt strips ASCII control characters (keeping newline and tab)
// and truncates to max runes. Applied to every user-supplied string before
// it is interpolated into an upstream prompt; removes the cheapest
// control-character smuggling vector and bounds injection surface.
func SanitizePrompt(s string, max int) string {
	cleaned := strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if r < 32 || r == 127 {
			return -1
		}
		return r
	}, s)

	runes := []rune(cleaned)
	if len(runes) > max {
		return string(runes[:max])
	}
	return cleaned
}
