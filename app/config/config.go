package config

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/samber/oops"
	"gopkg.in/yaml.v3"
)

const DefaultPath = "config.yaml"

type Config struct {
	Log      Log      `yaml:"log"`
	LLM      LLM      `yaml:"llm"`
	Explorer Explorer `yaml:"explorer"`
	Files    Files    `yaml:"files"`
	Prompts  Prompts  `yaml:"prompts"`
}

type LLM struct {
	// Timeout of a single completion call, 0 disables it
	Timeout time.Duration `yaml:"timeout" example:"60s"`
	// Agent that coordinates the session and may issue commands
	BaseChat ModelConfig `yaml:"base_chat" validate:"required"`
	// Agent that receives plain dialogue
	Tutor ModelConfig `yaml:"tutor" validate:"required"`
	// Agent that expands concepts into prerequisites
	Expander ModelConfig `yaml:"expander" validate:"required"`
}

type ModelConfig struct {
	// OpenAI compatible base url
	BaseURL string `yaml:"base_url" example:"https://openrouter.ai/api/v1" validate:"required,url"`
	// API token
	Token string `yaml:"token" example:"sk-proj-abc123456789DEF789ghi012JKL345mno678PQR901stu234VWX" validate:"required"`
	// Model name
	Model string `yaml:"model" example:"gpt-3.5-turbo" validate:"required"`
	// Sampling temperature, 0 keeps replies deterministic
	Temperature float64 `yaml:"temperature" example:"0" validate:"gte=0,lte=2"`
}

type Explorer struct {
	// Initial screen width in cells, replaced by the terminal size
	Width int `yaml:"width" example:"160" validate:"gt=0"`
	// Initial screen height in cells, replaced by the terminal size
	Height int `yaml:"height" example:"48" validate:"gt=0"`
	// Node radius in cells, also the hit radius
	NodeRadius int `yaml:"node_radius" example:"3" validate:"gt=0"`
	// Button width in cells
	ButtonWidth int `yaml:"button_width" example:"14" validate:"gt=2"`
	// Button height in cells
	ButtonHeight int `yaml:"button_height" example:"3" validate:"gt=2"`
	// Frames per second of the render loop
	FrameRate int `yaml:"frame_rate" example:"30" validate:"gt=0,lte=120"`
	// Number of chat lines kept on screen
	ChatCapacity int `yaml:"chat_capacity" example:"60" validate:"gt=0"`
	// How many agent replies may trigger further agent calls in a row
	MaxRelayDepth int `yaml:"max_relay_depth" example:"4" validate:"gt=0"`
	// Reject duplicate edges and self-loops
	StrictEdges bool `yaml:"strict_edges" example:"false"`
	// Random placement box and minimum spacing of new nodes
	Placement Placement `yaml:"placement"`
}

type Placement struct {
	MinX    int `yaml:"min_x" example:"-40"`
	MaxX    int `yaml:"max_x" example:"160" validate:"gtfield=MinX"`
	MinY    int `yaml:"min_y" example:"-20"`
	MaxY    int `yaml:"max_y" example:"60" validate:"gtfield=MinY"`
	Spacing int `yaml:"spacing" example:"9" validate:"gte=0"`
}

type Files struct {
	// Directory of saved graphs
	SavesDir string `yaml:"saves_dir" example:"saves" validate:"required"`
	// Directory of builder scripts
	BuilderDir string `yaml:"builder_dir" example:"saves/graph_builder" validate:"required"`
}

type Prompts struct {
	// Prompt file or literal text, builtin prompt when empty
	BaseChat string `yaml:"base_chat"`
	Tutor    string `yaml:"tutor"`
	Expander string `yaml:"expander"`
}

type Log struct {
	// Log file used while the terminal UI owns stderr
	File string `yaml:"file" example:"learnassist.log"`
	// Telegram logging config
	Telegram TelegramLog `yaml:"telegram"`
}

type TelegramLog struct {
	// Chat bot token, obtain it via BotFather
	Token string `yaml:"token" example:"1234567890:ABCdefGHIjklMNopQRstUVwxyZ-123456789"`
	// Chat ID to send messages to
	ChatID string `yaml:"chat_id" example:"1001234567890"`
}

func Load() (*Config, error) {
	return LoadFile(DefaultPath)
}

func LoadFile(path string) (*Config, error) {
	var result Config

	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, oops.Errorf("failed to read config file: %w", err)
	}

	if err = yaml.Unmarshal(data, &result); err != nil {
		return nil, oops.Errorf("failed to parse YAML config: %w", err)
	}

	result.setDefaults()

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(result); err != nil {
		return nil, oops.Errorf("failed to validate config: %w", err)
	}

	return &result, nil
}

func (c *Config) setDefaults() {
	if c.Log.File == "" {
		c.Log.File = "learnassist.log"
	}

	if c.LLM.Timeout == 0 {
		c.LLM.Timeout = time.Minute
	}
	for _, m := range []*ModelConfig{&c.LLM.BaseChat, &c.LLM.Tutor, &c.LLM.Expander} {
		if m.BaseURL == "" {
			m.BaseURL = "https://api.openai.com/v1"
		}
		if m.Model == "" {
			m.Model = "gpt-3.5-turbo"
		}
		if m.Token == "" {
			m.Token = os.Getenv("OPENAI_API_KEY")
		}
	}

	e := &c.Explorer
	if e.Width == 0 {
		e.Width = 160
	}
	if e.Height == 0 {
		e.Height = 48
	}
	if e.NodeRadius == 0 {
		e.NodeRadius = 3
	}
	if e.ButtonWidth == 0 {
		e.ButtonWidth = 14
	}
	if e.ButtonHeight == 0 {
		e.ButtonHeight = 3
	}
	if e.FrameRate == 0 {
		e.FrameRate = 30
	}
	if e.ChatCapacity == 0 {
		e.ChatCapacity = 60
	}
	if e.MaxRelayDepth == 0 {
		e.MaxRelayDepth = 4
	}
	if e.Placement == (Placement{}) {
		e.Placement = Placement{MinX: -40, MaxX: 160, MinY: -20, MaxY: 60, Spacing: 9}
	}

	if c.Files.SavesDir == "" {
		c.Files.SavesDir = "saves"
	}
	if c.Files.BuilderDir == "" {
		c.Files.BuilderDir = "saves/graph_builder"
	}
}
