package discord

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"
)

// parseDiscordTag parses a struct tag value (e.g. "reason,optional,description:Why,default:none")
// into the option name and a map of the remaining keys and values.
func parseDiscordTag(tag string) (string, map[string]string) {
	parts := strings.Split(tag, ",")
	name := strings.TrimSpace(parts[0])
	result := make(map[string]string)
	for _, part := range parts[1:] {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		kv := strings.SplitN(part, ":", 2)
		if len(kv) == 2 {
			result[strings.TrimSpace(kv[0])] = strings.TrimSpace(kv[1])
		} else {
			result[part] = "true"
		}
	}
	return name, result
}

// parseChoices parses a choices string (e.g. "val1|Label1;val2|Label2")
// and returns a slice of discordgo.ApplicationCommandOptionChoice.
func parseChoices(s string) []*discordgo.ApplicationCommandOptionChoice {
	var choices []*discordgo.ApplicationCommandOptionChoice
	pairs := strings.Split(s, ";")
	for _, pair := range pairs {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		parts := strings.SplitN(pair, "|", 2)
		value, name := parts[0], parts[0]
		if len(parts) == 2 {
			name = parts[1]
		}
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{
			Name:  name,
			Value: value,
		})
	}
	return choices
}

// channelTypes maps the "channel" tag value to the channel types Discord offers in the picker.
func channelTypes(kind string) ([]discordgo.ChannelType, error) {
	switch kind {
	case "":
		return nil, nil
	case "text":
		return []discordgo.ChannelType{discordgo.ChannelTypeGuildText, discordgo.ChannelTypeGuildNews}, nil
	case "voice":
		return []discordgo.ChannelType{discordgo.ChannelTypeGuildVoice}, nil
	default:
		return nil, fmt.Errorf("unknown channel kind %q", kind)
	}
}

// setDefaults iterates over the fields of a struct pointed to by req and, if a field is zero,
// sets it to the default value specified by the "default" key in the "discord" tag.
func setDefaults(req interface{}) error {
	v := reflect.ValueOf(req)
	if v.Kind() != reflect.Ptr || v.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("setDefaults: req is not a pointer to struct")
	}
	v = v.Elem()
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		fieldVal := v.Field(i)
		if !fieldVal.CanSet() || !fieldVal.IsZero() {
			continue
		}
		tag := field.Tag.Get("discord")
		if tag == "" {
			continue
		}
		_, tags := parseDiscordTag(tag)
		if def, ok := tags["default"]; ok && def != "" {
			converted, err := convertType(def, field.Type)
			if err != nil {
				return fmt.Errorf("default for %s: %w", field.Name, err)
			}
			fieldVal.Set(converted)
		}
	}

	return nil
}

// convertType converts a string value to a reflect.Value of type t for basic types.
func convertType(val string, t reflect.Type) (reflect.Value, error) {
	switch t.Kind() {
	case reflect.String:
		return reflect.ValueOf(val).Convert(t), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i, err := strconv.ParseInt(val, 10, 64)
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(i).Convert(t), nil
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(f).Convert(t), nil
	case reflect.Bool:
		b, err := strconv.ParseBool(val)
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(b), nil
	default:
		return reflect.Value{}, fmt.Errorf("unsupported type for default conversion: %s", t.Kind())
	}
}

// structToCommandOptions uses reflection to generate Discord command options from a request struct.
// It also uses custom struct tags (key "discord") for options like optional, choices, description, and default.
func structToCommandOptions(req Request) ([]*discordgo.ApplicationCommandOption, error) {
	t := reflect.TypeOf(req)
	if t == nil {
		return nil, fmt.Errorf("request is nil")
	}
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("request is not a struct")
	}

	var options []*discordgo.ApplicationCommandOption
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		optionName := strings.ToLower(field.Name)
		var optionType discordgo.ApplicationCommandOptionType

		// Map common Go types to Discord option types.
		switch field.Type.Kind() {
		case reflect.String:
			optionType = discordgo.ApplicationCommandOptionString
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			optionType = discordgo.ApplicationCommandOptionInteger
		case reflect.Float32, reflect.Float64:
			optionType = discordgo.ApplicationCommandOptionNumber
		case reflect.Bool:
			optionType = discordgo.ApplicationCommandOptionBoolean
		default:
			optionType = discordgo.ApplicationCommandOptionString
		}

		required := true
		description := "Auto-generated option for " + optionName
		var choices []*discordgo.ApplicationCommandOptionChoice
		var chanTypes []discordgo.ChannelType

		if tagValue := field.Tag.Get("discord"); tagValue != "" {
			name, tags := parseDiscordTag(tagValue)
			if name != "" {
				optionName = name
			}
			if _, ok := tags["optional"]; ok {
				required = false
			}
			if desc, ok := tags["description"]; ok && desc != "" {
				description = desc
			}
			if choicesStr, ok := tags["choices"]; ok && choicesStr != "" {
				choices = parseChoices(choicesStr)
			}
			switch tags["type"] {
			case "":
			case "user":
				optionType = discordgo.ApplicationCommandOptionUser
			case "channel":
				optionType = discordgo.ApplicationCommandOptionChannel
			default:
				return nil, fmt.Errorf("field %s: unknown option type %q", field.Name, tags["type"])
			}
			var err error
			chanTypes, err = channelTypes(tags["channel"])
			if err != nil {
				return nil, fmt.Errorf("field %s: %w", field.Name, err)
			}
		}

		options = append(options, &discordgo.ApplicationCommandOption{
			Type:         optionType,
			Name:         optionName,
			Description:  description,
			Required:     required,
			Choices:      choices,
			ChannelTypes: chanTypes,
		})
	}

	// Discord rejects commands whose required options follow optional ones.
	seenOptional := false
	for _, opt := range options {
		if !opt.Required {
			seenOptional = true
		} else if seenOptional {
			return nil, fmt.Errorf("required option %s follows an optional option", opt.Name)
		}
	}

	return options, nil
}

// commandFromFunction builds the registry entry for a bot function.
func commandFromFunction(fn BotFunctionI) (*discordgo.ApplicationCommand, error) {
	options, err := structToCommandOptions(fn.GetRequestPrototype())
	if err != nil {
		return nil, fmt.Errorf("command %s: %w", fn.GetName(), err)
	}

	spec := fn.GetSpec()
	description := spec.Description
	if description == "" {
		description = "Auto-generated command for " + spec.Name
	}

	dmPermission := false
	cmd := &discordgo.ApplicationCommand{
		Name:         spec.Name,
		Description:  description,
		Options:      options,
		DMPermission: &dmPermission,
	}
	if spec.Permissions != 0 {
		perms := spec.Permissions
		cmd.DefaultMemberPermissions = &perms
	}
	return cmd, nil
}
