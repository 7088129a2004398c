package hyprland

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
)

type Hyprctl struct {
	Path string
}

var (
	ErrIndexOutOfRange = errors.New("index out of range")
	ErrDeviceNotFound  = errors.New("device not found")
	ErrNotString       = errors.New("option is not a string")
)

var errorMapper = []struct {
	re  *regexp.Regexp
	err error
}{
	{regexp.MustCompile(`^ok$`), nil},
	{regexp.MustCompile(`layout idx out of range.*`), ErrIndexOutOfRange},
	{regexp.MustCompile(`device not found`), ErrDeviceNotFound},
}

func NewHyprctl(path string) *Hyprctl {
	return &Hyprctl{Path: path}
}

func (h *Hyprctl) runCommand(ctx context.Context, args ...string) (string, error) {
	var stdout bytes.Buffer

	path := h.Path
	if path == "" {
		path = "hyprctl"
	}

	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stdout

	err := cmd.Run()
	outStr := strings.TrimSpace(stdout.String())
	if err != nil {
		return "", fmt.Errorf("hyprctl: %w, stdout: %s", err, outStr)
	}

	return outStr, nil
}

func (h *Hyprctl) SwitchToLayout(ctx context.Context, keyboard string, idx int) error {
	outStr, err := h.runCommand(ctx, "switchxkblayout", keyboard, strconv.Itoa(idx))
	if err != nil {
		return err
	}

	for _, m := range errorMapper {
		if m.re.MatchString(outStr) {
			return m.err
		}
	}

	return fmt.Errorf("unknown hyprctl error: %s", outStr)
}

// GetOption returns the string value of a Hyprland config option such as
// input:kb_layout.
func (h *Hyprctl) GetOption(ctx context.Context, name string) (string, error) {
	outStr, err := h.runCommand(ctx, "getoption", name, "-j")
	if err != nil {
		return "", err
	}

	var opt option
	if err := json.Unmarshal([]byte(outStr), &opt); err != nil {
		return "", fmt.Errorf("unmarshal: %w, (hyprctl: %s)", err, outStr)
	}
	if opt.Str == nil {
		return "", fmt.Errorf("%s: %w", name, ErrNotString)
	}

	return *opt.Str, nil
}

func (h *Hyprctl) GetLayouts(ctx context.Context) ([]string, error) {
	value, err := h.GetOption(ctx, "input:kb_layout")
	if err != nil {
		return nil, err
	}

	return splitList(value), nil
}

func (h *Hyprctl) GetVariants(ctx context.Context) ([]string, error) {
	value, err := h.GetOption(ctx, "input:kb_variant")
	if err != nil {
		return nil, err
	}

	return strings.Split(value, ","), nil
}

func (h *Hyprctl) GetKeyboards(ctx context.Context) ([]Keyboard, error) {
	outStr, err := h.runCommand(ctx, "devices", "-j")
	if err != nil {
		return nil, err
	}

	var devs devices
	if err := json.Unmarshal([]byte(outStr), &devs); err != nil {
		return nil, fmt.Errorf("unmarshal: %w, (hyprctl: %s)", err, outStr)
	}

	out := make([]Keyboard, 0, len(devs.Keyboards))
	for _, k := range devs.Keyboards {
		out = append(out, k.ToKeyboard())
	}

	return out, nil
}

func splitList(value string) []string {
	var out []string
	for _, item := range strings.Split(value, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}
