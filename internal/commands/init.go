package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/okra-platform/rowview/internal/config"
)

type InitOptions struct {
	Addr        string
	UploadDir   string
	MaxUploadMB string
}

type FileSystem interface {
	Stat(name string) (os.FileInfo, error)
	WriteFile(name string, data []byte, perm os.FileMode) error
	Getwd() (string, error)
}

type osFileSystem struct{}

func (fs *osFileSystem) Stat(name string) (os.FileInfo, error) {
	return os.Stat(name)
}

func (fs *osFileSystem) WriteFile(name string, data []byte, perm os.FileMode) error {
	return os.WriteFile(name, data, perm)
}

func (fs *osFileSystem) Getwd() (string, error) {
	return os.Getwd()
}

type InitCommand struct {
	filesystem FileSystem
	// For testing: if set, skip prompting
	testOptions *InitOptions
}

func NewInitCommand() *InitCommand {
	return &InitCommand{
		filesystem: &osFileSystem{},
	}
}

func (c *Controller) Init(ctx context.Context) error {
	cmd := NewInitCommand()
	return cmd.Run(ctx)
}

func (ic *InitCommand) Run(ctx context.Context) error {
	return ic.RunWithOptions(ctx)
}

func (ic *InitCommand) RunWithOptions(ctx context.Context, opts ...tea.ProgramOption) error {
	dir, err := ic.filesystem.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get current directory: %w", err)
	}

	configPath := filepath.Join(dir, config.FileName)
	if _, err := ic.filesystem.Stat(configPath); err == nil {
		return fmt.Errorf("%s already exists in %s", config.FileName, dir)
	}

	var options *InitOptions
	if ic.testOptions != nil {
		options = ic.testOptions
	} else {
		options, err = ic.promptInitOptions(opts...)
		if err != nil {
			return fmt.Errorf("failed to get init options: %w", err)
		}
	}

	cfg, err := options.toConfig()
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := ic.filesystem.WriteFile(configPath, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", config.FileName, err)
	}

	fmt.Printf("✅ Wrote %s\n", configPath)
	return nil
}

// toConfig turns the prompted answers into a config with defaults filled in
func (o *InitOptions) toConfig() (*config.Config, error) {
	cfg := config.Default()
	if o.Addr != "" {
		cfg.Addr = o.Addr
	}
	if o.UploadDir != "" {
		cfg.UploadDir = o.UploadDir
	}
	if o.MaxUploadMB != "" {
		mb, err := parseUploadSize(o.MaxUploadMB)
		if err != nil {
			return nil, err
		}
		cfg.MaxUploadMB = mb
	}
	return cfg, nil
}

func (ic *InitCommand) promptInitOptions(opts ...tea.ProgramOption) (*InitOptions, error) {
	defaults := config.Default()
	options := &InitOptions{
		Addr:        defaults.Addr,
		UploadDir:   defaults.UploadDir,
		MaxUploadMB: strconv.FormatInt(defaults.MaxUploadMB, 10),
	}

	form := ic.createInitForm(options)

	if len(opts) > 0 {
		// For testing: run with provided options
		program := tea.NewProgram(form, opts...)
		if _, err := program.Run(); err != nil {
			return nil, err
		}
	} else {
		// Normal execution
		if err := form.Run(); err != nil {
			return nil, err
		}
	}

	return options, nil
}

func (ic *InitCommand) createInitForm(options *InitOptions) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Listen address").
				Description("Address the viewer listens on, e.g. :8080").
				Value(&options.Addr).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("listen address cannot be empty")
					}
					return nil
				}),

			huh.NewInput().
				Title("Upload directory").
				Description("Where uploaded CSV files are stored").
				Value(&options.UploadDir).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("upload directory cannot be empty")
					}
					if info, err := ic.filesystem.Stat(s); err == nil && !info.IsDir() {
						return fmt.Errorf("%s exists and is not a directory", s)
					}
					return nil
				}),

			huh.NewInput().
				Title("Max upload size (MB)").
				Value(&options.MaxUploadMB).
				Validate(func(s string) error {
					_, err := parseUploadSize(s)
					return err
				}),
		),
	)
}

func parseUploadSize(s string) (int64, error) {
	mb, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || mb <= 0 {
		return 0, fmt.Errorf("max upload size must be a positive number, got %q", s)
	}
	return mb, nil
}
