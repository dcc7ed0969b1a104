package script

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeVibe(t *testing.T) {
	t.Run("supported vibes pass through", func(t *testing.T) {
		assert.Equal(t, "cinematic", NormalizeVibe("cinematic"))
		assert.Equal(t, "minimalist", NormalizeVibe("minimalist"))
		assert.Equal(t, "fast-paced", NormalizeVibe("fast-paced"))
	})

	t.Run("empty defaults to cinematic", func(t *testing.T) {
		assert.Equal(t, "cinematic", NormalizeVibe(""))
	})

	t.Run("unrecognized defaults to cinematic", func(t *testing.T) {
		assert.Equal(t, "cinematic", NormalizeVibe("vaporwave"))
	})

	t.Run("case and whitespace are tolerated", func(t *testing.T) {
		assert.Equal(t, "fast-paced", NormalizeVibe("  Fast-Paced "))
	})
}

func TestDeriveTitle(t *testing.T) {
	t.Run("long threads are cut at 50 characters", func(t *testing.T) {
		thread := strings.Repeat("a", 80)
		title := DeriveTitle(thread)
		assert.Equal(t, strings.Repeat("a", 50)+"...", title)
	})

	t.Run("short threads keep full text plus ellipsis", func(t *testing.T) {
		assert.Equal(t, "A cat saga...", DeriveTitle("A cat saga"))
	})

	t.Run("multibyte text is not split mid-rune", func(t *testing.T) {
		thread := strings.Repeat("é", 60)
		title := DeriveTitle(thread)
		assert.Equal(t, strings.Repeat("é", 50)+"...", title)
	})
}

func TestParse(t *testing.T) {
	valid := `{"scenes":[
		{"id":1,"dialogue":"Hook line","visualInstruction":"Wide shot","duration":"3s"},
		{"id":2,"dialogue":"Payoff","visualInstruction":"Close-up","duration":"4s"}
	]}`

	t.Run("valid reply parses with dense ordinals", func(t *testing.T) {
		s, err := Parse(valid)
		require.NoError(t, err)
		require.Len(t, s.Scenes, 2)
		assert.Equal(t, 1, s.Scenes[0].ID)
		assert.Equal(t, 2, s.Scenes[1].ID)
		assert.Equal(t, "Hook line", s.Scenes[0].Dialogue)
		assert.Equal(t, "4s", s.Scenes[1].Duration)
	})

	t.Run("sparse model ordinals are renumbered in reply order", func(t *testing.T) {
		raw := `{"scenes":[
			{"id":7,"dialogue":"first","visualInstruction":"a","duration":"2s"},
			{"id":3,"dialogue":"second","visualInstruction":"b","duration":"2s"},
			{"id":3,"dialogue":"third","visualInstruction":"c","duration":"2s"}
		]}`
		s, err := Parse(raw)
		require.NoError(t, err)
		require.Len(t, s.Scenes, 3)
		for i, scene := range s.Scenes {
			assert.Equal(t, i+1, scene.ID)
		}
		assert.Equal(t, "first", s.Scenes[0].Dialogue)
	})

	t.Run("json fenced reply is unwrapped", func(t *testing.T) {
		s, err := Parse("```json\n" + valid + "\n```")
		require.NoError(t, err)
		assert.Len(t, s.Scenes, 2)
	})

	t.Run("bare fenced reply is unwrapped", func(t *testing.T) {
		s, err := Parse("```\n" + valid + "\n```")
		require.NoError(t, err)
		assert.Len(t, s.Scenes, 2)
	})

	t.Run("non-JSON reply fails", func(t *testing.T) {
		_, err := Parse("Sure! Here is your script: ...")
		assert.Error(t, err)
	})

	t.Run("empty scene list fails", func(t *testing.T) {
		_, err := Parse(`{"scenes":[]}`)
		assert.Error(t, err)
	})

	t.Run("empty dialogue fails", func(t *testing.T) {
		_, err := Parse(`{"scenes":[{"id":1,"dialogue":"  ","visualInstruction":"x","duration":"3s"}]}`)
		assert.Error(t, err)
	})
}
