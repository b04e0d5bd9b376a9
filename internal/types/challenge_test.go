package types

import (
	"testing"

	"gorm.io/datatypes"
)

func TestDecodeContent_OptionChallengeRequiresOptions(t *testing.T) {
	c := &Challenge{
		Type:    ChallengeTypeLogicPuzzle,
		Content: datatypes.JSON(`{"prompt":"Which follows?","options":[{"id":"a","text":"A"},{"id":"b","text":"B"}]}`),
	}
	content, err := c.DecodeContent()
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(content.Options) != 2 {
		t.Fatalf("expected 2 options got %d", len(content.Options))
	}
}

func TestDecodeContent_RejectsSingleOption(t *testing.T) {
	c := &Challenge{
		Type:    ChallengeTypeFallacyDetection,
		Content: datatypes.JSON(`{"prompt":"Spot it","options":[{"id":"a","text":"A"}]}`),
	}
	if _, err := c.DecodeContent(); err == nil {
		t.Fatalf("expected error for single option")
	}
}

func TestDecodeContent_BiasSwapRequiresArticles(t *testing.T) {
	c := &Challenge{
		Type:    ChallengeTypeBiasSwap,
		Content: datatypes.JSON(`{"prompt":"Compare the coverage"}`),
	}
	if _, err := c.DecodeContent(); err == nil {
		t.Fatalf("expected error for missing articles")
	}
	c.Content = datatypes.JSON(`{"prompt":"Compare the coverage","articles":[{"title":"T","source_name":"S","bias_rating":-2}]}`)
	if _, err := c.DecodeContent(); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
}

func TestDecodeContent_DilemmaAcceptsScenario(t *testing.T) {
	c := &Challenge{
		Type:    ChallengeTypeEthicalDilemma,
		Content: datatypes.JSON(`{"prompt":"What would you do?","scenario":"A newsroom must choose."}`),
	}
	if _, err := c.DecodeContent(); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
}

func TestDecodeContent_MissingPromptFails(t *testing.T) {
	c := &Challenge{
		Type:    ChallengeTypeSynthesis,
		Content: datatypes.JSON(`{"articles":[{"title":"T","source_name":"S","bias_rating":1}]}`),
	}
	if _, err := c.DecodeContent(); err == nil {
		t.Fatalf("expected error for missing prompt")
	}
}

func TestDecodeContent_UnknownTypeFails(t *testing.T) {
	c := &Challenge{
		Type:    ChallengeType("trivia"),
		Content: datatypes.JSON(`{"prompt":"?"}`),
	}
	if _, err := c.DecodeContent(); err == nil {
		t.Fatalf("expected error for unknown type")
	}
}
