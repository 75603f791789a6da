package domain

import (
	"errors"
	"testing"
)

func TestValidateMode(t *testing.T) {
	tests := []struct {
		input   string
		want    Mode
		wantErr bool
	}{
		{"WORK", ModeWork, false},
		{"short_break", ModeShortBreak, false},
		{" LONG_BREAK ", ModeLongBreak, false},
		{"nap", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ValidateMode(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateMode(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidMode) {
				t.Errorf("ValidateMode(%q) error = %v, want ErrInvalidMode", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ValidateMode(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestResolveMode(t *testing.T) {
	tests := []struct {
		input   string
		want    Mode
		wantErr bool
	}{
		{"work", ModeWork, false},
		{"focus", ModeWork, false},
		{"short", ModeShortBreak, false},
		{"long", ModeLongBreak, false},
		{"Long Break", ModeLongBreak, false},
		{"xyz", "", true},
		{"  ", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ResolveMode(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ResolveMode(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ResolveMode(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestMode_Label(t *testing.T) {
	tests := []struct {
		mode Mode
		want string
	}{
		{ModeWork, "Focus Time"},
		{ModeShortBreak, "Short Break"},
		{ModeLongBreak, "Long Break"},
		{Mode("other"), "Unknown"},
	}

	for _, tt := range tests {
		if got := tt.mode.Label(); got != tt.want {
			t.Errorf("%q.Label() = %q, want %q", tt.mode, got, tt.want)
		}
	}
}

func TestMode_Next(t *testing.T) {
	if got := ModeWork.Next(); got != ModeShortBreak {
		t.Errorf("WORK.Next() = %q", got)
	}
	if got := ModeShortBreak.Next(); got != ModeLongBreak {
		t.Errorf("SHORT_BREAK.Next() = %q", got)
	}
	if got := ModeLongBreak.Next(); got != ModeWork {
		t.Errorf("LONG_BREAK.Next() = %q", got)
	}
}

func TestMode_CompletionMessage(t *testing.T) {
	if got := ModeWork.CompletionMessage(); got != "Time for a break!" {
		t.Errorf("WORK message = %q", got)
	}
	for _, m := range []Mode{ModeShortBreak, ModeLongBreak} {
		if got := m.CompletionMessage(); got != "Time to focus!" {
			t.Errorf("%s message = %q", m, got)
		}
	}
}
