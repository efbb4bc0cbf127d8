package bot

import (
	"testing"
)

func TestParseCommand(t *testing.T) {
	b := &Bot{prefix: "!mb"}
	tests := []struct {
		message string
		key     string
		args    string
		ok      bool
	}{
		{"", "", "", false},
		{"hello world", "", "", false},
		{"say !mb help", "", "", false},
		{"!mbx help", "", "", false},
		{"!mb", commandHelp, "", true},
		{"  !mb   ", commandHelp, "", true},
		{"!mb help", commandHelp, "", true},
		{"!mb GLOBAL:ON 30%", commandGlobalOn, "30%", true},
		{"!mb keywords:add  Banana Split ", commandKeywordsAdd, "Banana Split", true},
		{"!mb\tusers:add\n@alice:example.com", commandUsersAdd, "@alice:example.com", true},
	}

	for _, test := range tests {
		key, args, ok := b.parseCommand(test.message)
		if key != test.key || args != test.args || ok != test.ok {
			t.Error(test.message, ":", test.key, test.args, test.ok, "!=", key, args, ok)
		}
	}
}

func TestStripReplyFallback(t *testing.T) {
	tests := map[string]string{
		"":                                       "",
		"hello":                                  "hello",
		"> quote without fallback":               "",
		"> <@alice:example.com> hi\n\n!mb stick": "!mb stick",
		"> <@alice:example.com> hi\n> there\n\nbanana": "banana",
		"> <@alice:example.com> hi\nbanana\nsplit":     "banana\nsplit",
		"not a > quote": "not a > quote",
	}

	for input, expected := range tests {
		output := stripReplyFallback(input)
		if output != expected {
			t.Error(expected, "!=", output)
		}
	}
}

func TestCommandList_Get(t *testing.T) {
	b := &Bot{prefix: "!mb"}
	commands := b.initCommands()

	keys := []string{
		commandHelp,
		commandStick,
		commandSettings,
		commandCheck,
		commandReset,
		commandGlobalOn,
		commandGlobalOff,
		commandUsersAdd,
		commandUsersRemove,
		commandKeywordsAdd,
		commandKeywordsRemove,
	}
	for _, key := range keys {
		cmd := commands.get(key)
		if cmd == nil {
			t.Error(key, "is not registered")
			continue
		}
		if cmd.description == "" {
			t.Error(key, "has no description")
		}
	}

	if commands.get("unknown") != nil {
		t.Error("unknown command is registered")
	}
	if commands.get("") == nil {
		t.Error("delimiters are missing")
	}
}
