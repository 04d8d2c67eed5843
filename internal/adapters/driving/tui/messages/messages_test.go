package messages

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/querychat/internal/core/domain"
)

func TestMessagesAreTeaMessages(t *testing.T) {
	msgs := []tea.Msg{
		LogChanged{Follow: true},
		ViewChanged{View: ViewSettings},
		QueryCompleted{},
		AgentToggled{Mode: domain.AgentOn},
		EntryToggled{CollapsedID: "item-1", Expanded: true},
		SettingsLoaded{Values: map[string]string{"chat.mode": "agent"}},
		SettingsSaved{Key: "chat.mode"},
		SettingsChanged{},
		ErrorOccurred{Err: errors.New("x")},
		Quit{},
	}

	assert.Len(t, msgs, 10)
}

func TestAgentToggled_CarriesError(t *testing.T) {
	err := errors.New("rejected")
	msg := AgentToggled{Mode: domain.AgentOff, Err: err}

	assert.Equal(t, domain.AgentOff, msg.Mode)
	assert.ErrorIs(t, msg.Err, err)
}

func TestViewTypes_AreDistinct(t *testing.T) {
	assert.NotEqual(t, ViewChat, ViewSettings)
}
