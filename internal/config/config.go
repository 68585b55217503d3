package config

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// Action names assignable to a swipe direction
const (
	ActionDelete = "delete"
	ActionEdit   = "edit"
	ActionNone   = "none"
)

type Config struct {
	API     APIConfig     `yaml:"api"`
	Gesture GestureConfig `yaml:"gesture"`
	Device  DeviceConfig  `yaml:"device"`
	UI      UIConfig      `yaml:"ui"`
}

type APIConfig struct {
	BaseURL      string `yaml:"base_url"`
	TimeoutMs    int    `yaml:"timeout_ms"`
	UploadPollMs int    `yaml:"upload_poll_ms"`
}

type GestureConfig struct {
	RowSelector     string `yaml:"row_selector"`
	Threshold       int    `yaml:"threshold"`
	MoveSampleMs    int    `yaml:"move_sample_ms"`
	ResizeSettleMs  int    `yaml:"resize_settle_ms"`
	SettleMs        int    `yaml:"settle_ms"`
	CompactMaxWidth int    `yaml:"compact_max_width"`
	SwipeLeft       string `yaml:"swipe_left"`
	SwipeRight      string `yaml:"swipe_right"`
}

// DeviceConfig identifies an optional HID touch digitizer. When the vendor
// and product IDs are zero, touch input comes from the terminal only.
type DeviceConfig struct {
	VendorID  uint16 `yaml:"vendor_id"`
	ProductID uint16 `yaml:"product_id"`
	// Report coordinate range, used to scale digitizer points to the view
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

type UIConfig struct {
	Currency string `yaml:"currency"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("api.base_url is required")
	}
	if c.Gesture.RowSelector == "" {
		return fmt.Errorf("gesture.row_selector is required")
	}
	if !validAction(c.Gesture.SwipeLeft) {
		return fmt.Errorf("gesture.swipe_left: unknown action %q", c.Gesture.SwipeLeft)
	}
	if !validAction(c.Gesture.SwipeRight) {
		return fmt.Errorf("gesture.swipe_right: unknown action %q", c.Gesture.SwipeRight)
	}
	// A digitizer needs its report range for coordinate scaling
	if c.Device.VendorID != 0 || c.Device.ProductID != 0 {
		if c.Device.Width <= 0 || c.Device.Height <= 0 {
			return fmt.Errorf("device.width and device.height are required with a digitizer")
		}
	}
	return nil
}

func validAction(name string) bool {
	switch name {
	case ActionDelete, ActionEdit, ActionNone:
		return true
	}
	return false
}

func (c *Config) applyDefaults() {
	if c.API.TimeoutMs == 0 {
		c.API.TimeoutMs = 5000
	}
	if c.API.UploadPollMs == 0 {
		c.API.UploadPollMs = 2000
	}
	if c.Gesture.Threshold == 0 {
		c.Gesture.Threshold = 80
	}
	if c.Gesture.MoveSampleMs == 0 {
		c.Gesture.MoveSampleMs = 16
	}
	if c.Gesture.ResizeSettleMs == 0 {
		c.Gesture.ResizeSettleMs = 150
	}
	if c.Gesture.SettleMs == 0 {
		c.Gesture.SettleMs = 300
	}
	if c.Gesture.CompactMaxWidth == 0 {
		c.Gesture.CompactMaxWidth = 767
	}
	if c.Gesture.SwipeLeft == "" {
		c.Gesture.SwipeLeft = ActionDelete
	}
	if c.Gesture.SwipeRight == "" {
		c.Gesture.SwipeRight = ActionEdit
	}
	if c.UI.Currency == "" {
		c.UI.Currency = "$"
	}
}

// UpdateDeviceIDs updates the vendor_id and product_id in a config file
// while preserving the rest of the file structure and comments
func UpdateDeviceIDs(path string, vendorID, productID uint16) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	content := string(data)

	// Update vendor_id (YAML format: vendor_id: 0x1234 or vendor_id: 1234)
	vendorRegex := regexp.MustCompile(`(?m)^(\s*vendor_id:\s*)(?:0x[0-9A-Fa-f]+|\d+)`)
	content = vendorRegex.ReplaceAllString(content, fmt.Sprintf("${1}0x%04X", vendorID))

	// Update product_id
	productRegex := regexp.MustCompile(`(?m)^(\s*product_id:\s*)(?:0x[0-9A-Fa-f]+|\d+)`)
	content = productRegex.ReplaceAllString(content, fmt.Sprintf("${1}0x%04X", productID))

	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// CreateDefaultConfig creates a new config file with default values and the
// specified digitizer
func CreateDefaultConfig(path string, vendorID, productID uint16) error {
	content := fmt.Sprintf(`# ledgerpad configuration

api:
  base_url: http://localhost:8475
  timeout_ms: 5000
  upload_poll_ms: 2000

gesture:
  row_selector: transaction-row
  threshold: 80
  move_sample_ms: 16
  resize_settle_ms: 150
  settle_ms: 300
  compact_max_width: 767
  swipe_left: delete
  swipe_right: edit

# Optional HID touch digitizer. Remove this section to use terminal
# mouse/touch reporting only.
device:
  vendor_id: 0x%04X
  product_id: 0x%04X
  width: 1920
  height: 1080

ui:
  currency: "$"
`, vendorID, productID)

	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}

	return nil
}

// Exists checks if a config file exists
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
