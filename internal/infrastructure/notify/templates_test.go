package notify

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplatesOrdered(t *testing.T) {
	templates := Templates()
	require.Len(t, templates, 7)

	for i, tpl := range templates {
		assert.Equal(t, i+1, tpl.ID)
		assert.NotEmpty(t, tpl.Subject)
		assert.True(t, strings.HasPrefix(tpl.Body, "Dear Parent,"))
	}
}

func TestTemplateByID(t *testing.T) {
	tpl, ok := TemplateByID(3)
	require.True(t, ok)
	assert.Equal(t, "Outstanding Academic Performance", tpl.Subject)

	_, ok = TemplateByID(99)
	assert.False(t, ok)
}

func TestBuildMessage(t *testing.T) {
	msg := buildMessage("mentor@example.com", "parent@example.com", "Hello", "Dear Parent,\n\nBody")

	assert.Contains(t, msg, "From: mentor@example.com\r\n")
	assert.Contains(t, msg, "To: parent@example.com\r\n")
	assert.Contains(t, msg, "Subject: Hello\r\n")
	// headers separated from body by a blank line
	assert.Contains(t, msg, "\r\n\r\nDear Parent,")
}
