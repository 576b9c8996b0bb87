package agent

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskagent/internal/provider"
)

func msg(role provider.Role, content string) provider.Message {
	return provider.Message{Role: role, Content: content}
}

func TestTrim_ShortConversationUntouched(t *testing.T) {
	messages := []provider.Message{
		msg(provider.RoleSystem, "sys"),
		msg(provider.RoleUser, "task"),
	}
	assert.Equal(t, messages, Trim(messages, 10))
}

func TestTrim_DropsOldestMiddleTurnsFirst(t *testing.T) {
	messages := []provider.Message{
		msg(provider.RoleSystem, "sys"),
		msg(provider.RoleUser, "task"),
		msg(provider.RoleAssistant, strings.Repeat("a", 50)),
		msg(provider.RoleUser, strings.Repeat("b", 50)),
		msg(provider.RoleAssistant, strings.Repeat("c", 50)),
	}

	// Head (7 chars) + two newest turns fit in 120; the oldest does not.
	out := Trim(messages, 120)
	require.Len(t, out, 4)
	assert.Equal(t, "sys", out[0].Content)
	assert.Equal(t, "task", out[1].Content)
	assert.Equal(t, strings.Repeat("b", 50), out[2].Content)
	assert.Equal(t, strings.Repeat("c", 50), out[3].Content)
}

func TestTrim_HeadKeptEvenOverBudget(t *testing.T) {
	messages := []provider.Message{
		msg(provider.RoleSystem, strings.Repeat("s", 100)),
		msg(provider.RoleUser, strings.Repeat("t", 100)),
		msg(provider.RoleAssistant, "turn"),
	}

	out := Trim(messages, 10)
	require.Len(t, out, 2)
	assert.Equal(t, provider.RoleSystem, out[0].Role)
	assert.Equal(t, provider.RoleUser, out[1].Role)
}

func TestTrim_EverythingFits(t *testing.T) {
	messages := []provider.Message{
		msg(provider.RoleSystem, "sys"),
		msg(provider.RoleUser, "task"),
		msg(provider.RoleAssistant, "one"),
		msg(provider.RoleUser, "two"),
	}
	assert.Equal(t, messages, Trim(messages, 24000))
}
