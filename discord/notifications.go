package discord

import (
	"fmt"

	"log/slog"

	"github.com/bwmarrin/discordgo"
)

const errorColor = 0xFF0000

// Reply returns a public command response.
func Reply(content string) *discordgo.InteractionResponseData {
	return &discordgo.InteractionResponseData{Content: content}
}

// Ephemeral returns a command response only the invoking user can see.
func Ephemeral(content string) *discordgo.InteractionResponseData {
	return &discordgo.InteractionResponseData{
		Content: content,
		Flags:   discordgo.MessageFlagsEphemeral,
	}
}

// errorResponse wraps a failure description in an ephemeral red embed.
func errorResponse(description string) *discordgo.InteractionResponseData {
	return &discordgo.InteractionResponseData{
		Embeds: []*discordgo.MessageEmbed{{
			Title:       "Error",
			Description: description,
			Color:       errorColor,
		}},
		Flags: discordgo.MessageFlagsEphemeral,
	}
}

// respond sends the initial interaction response. If that fails, a follow-up
// error message is attempted so the user is not left with a spinning command.
func (b *Bot) respond(i *discordgo.Interaction, command string, data *discordgo.InteractionResponseData) {
	err := b.session.InteractionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	})
	if err == nil {
		return
	}

	slog.Error("failed to respond to command", "command", command, "error", err)
	_, err = b.session.FollowupMessageCreate(i, true, &discordgo.WebhookParams{
		Embeds: errorResponse(fmt.Sprintf("```%v```", err)).Embeds,
		Flags:  discordgo.MessageFlagsEphemeral,
	})
	if err != nil {
		slog.Error("failed to send follow-up error", "command", command, "error", err)
	}
}
