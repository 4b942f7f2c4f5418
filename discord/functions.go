package discord

import (
	"github.com/bwmarrin/discordgo"
	"github.com/mitchellh/mapstructure"
)

// Request is a blank interface for the command request definitions.
type Request interface{}

// CommandSpec describes how a command is presented in Discord's command registry.
type CommandSpec struct {
	Name        string
	Description string
	// Permissions is the default member permission bit set required to see
	// and use the command. Zero means everyone.
	Permissions int64
}

// Invocation describes who invoked a command and where.
type Invocation struct {
	GuildID   string
	ChannelID string
	UserID    string
}

// BotFunctionI is the common interface for all bot command functions.
type BotFunctionI interface {
	GetName() string
	GetSpec() CommandSpec
	GetRequestPrototype() Request
	// HandleInteraction decodes interaction data into a request struct and calls the handler.
	// It returns the response data that can be sent directly to Discord.
	HandleInteraction(inv *Invocation, data *discordgo.ApplicationCommandInteractionData) (*discordgo.InteractionResponseData, error)
}

// GenericBotFunction is a generic implementation of BotFunctionI.
type GenericBotFunction[T Request] struct {
	Spec CommandSpec
	// RequestPrototype is an instance of the request type (typically the zero value)
	// used for reflection to generate command options.
	RequestPrototype T
	// Handler is the function to execute for the command.
	Handler func(*Invocation, T) (*discordgo.InteractionResponseData, error)
}

// GetName returns the command's name.
func (bf *GenericBotFunction[T]) GetName() string {
	return bf.Spec.Name
}

// GetSpec returns the command's registry description.
func (bf *GenericBotFunction[T]) GetSpec() CommandSpec {
	return bf.Spec
}

// GetRequestPrototype returns the command's request prototype.
func (bf *GenericBotFunction[T]) GetRequestPrototype() Request {
	return bf.RequestPrototype
}

// HandleInteraction processes the interaction by constructing a request of type T from the data
// and then invoking the handler. It decodes the options using mapstructure and then applies any defaults.
func (bf *GenericBotFunction[T]) HandleInteraction(inv *Invocation, data *discordgo.ApplicationCommandInteractionData) (*discordgo.InteractionResponseData, error) {
	var req T

	// Build a map from option name to its value.
	optsMap := make(map[string]interface{}, len(data.Options))
	for _, opt := range data.Options {
		optsMap[opt.Name] = opt.Value
	}

	decoderConfig := mapstructure.DecoderConfig{
		TagName:          "discord",
		Result:           &req,
		WeaklyTypedInput: true, // user and channel options arrive as snowflake strings
	}
	decoder, err := mapstructure.NewDecoder(&decoderConfig)
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(optsMap); err != nil {
		return nil, err
	}

	// Set default values on fields that are still zero.
	if err := setDefaults(&req); err != nil {
		return nil, err
	}

	if inv == nil {
		inv = &Invocation{}
	}
	return bf.Handler(inv, req)
}

// NewBotFunction is a generic constructor that creates a new BotFunctionI command handler.
// The zero value of T is kept as a prototype: its fields become the command's options and
// interaction options are decoded back into a fresh T on every call.
//
// Each field is configured with a "discord" struct tag. The first element is the option
// name; the remaining comma separated elements are:
//
//   - optional:     Marks the option as not required.
//   - description:  Overrides the auto-generated option description.
//   - choices:      Semicolon separated "value|Label" pairs.
//   - default:      Value assigned when the option is left unset.
//   - type:         "user" or "channel" for snowflake options carried in string fields.
//   - channel:      Restricts channel options to "text" or "voice" channels.
func NewBotFunction[T Request](spec CommandSpec, handler func(*Invocation, T) (*discordgo.InteractionResponseData, error)) BotFunctionI {
	var reqPrototype T
	return &GenericBotFunction[T]{
		Spec:             spec,
		RequestPrototype: reqPrototype,
		Handler:          handler,
	}
}
