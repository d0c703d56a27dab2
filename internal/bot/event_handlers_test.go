package bot

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
)

func TestMentionCount(t *testing.T) {
	tests := []struct {
		name string
		msg  *discordgo.Message
		want int
	}{
		{"empty", &discordgo.Message{}, 0},
		{
			"users only",
			&discordgo.Message{Mentions: []*discordgo.User{{ID: "1"}, {ID: "2"}}},
			2,
		},
		{
			"roles count too",
			&discordgo.Message{
				Mentions:     []*discordgo.User{{ID: "1"}},
				MentionRoles: []string{"r1", "r2"},
			},
			3,
		},
		{
			"everyone adds one",
			&discordgo.Message{
				Mentions:        []*discordgo.User{{ID: "1"}, {ID: "2"}, {ID: "3"}},
				MentionRoles:    []string{"r1", "r2"},
				MentionEveryone: true,
			},
			6,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, mentionCount(tt.msg))
		})
	}
}
