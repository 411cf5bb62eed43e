package gallery

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/joescharf/portfolio/internal/models"
)

func TestLinkLiveDemos(t *testing.T) {
	demos := map[string]string{
		"Chatbot": "https://chatbot.example.app",
		"vision":  "https://vision.example.app",
	}
	repos := []models.Repository{
		{Name: "chatbot"},
		{Name: "Vision", Homepage: "https://own.example.com"},
		{Name: "other"},
	}

	got := LinkLiveDemos(repos, demos)

	assert.Equal(t, "https://chatbot.example.app", got[0].Homepage)
	assert.Equal(t, "https://own.example.com", got[1].Homepage, "existing homepage kept")
	assert.Empty(t, got[2].Homepage)
	assert.Empty(t, repos[0].Homepage, "input untouched")
}

func TestLinkLiveDemos_Idempotent(t *testing.T) {
	demos := NewLiveDemos(map[string]string{"chatbot": "https://chatbot.example.app"})
	repos := []models.Repository{{Name: "chatbot"}, {Name: "other"}}

	once := demos.Link(repos)
	assert.Equal(t, once, demos.Link(once))
}

func TestLinkLiveDemos_Nil(t *testing.T) {
	assert.Nil(t, LinkLiveDemos(nil, map[string]string{"a": "b"}))
}
